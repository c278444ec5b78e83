package order

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"v1lefarmBot/internal/domain/models"
	"v1lefarmBot/internal/repository"
)

// Gateway интерфейс исходящих уведомлений брокера.
// Реализуется telegram-шлюзом; все вызовы best-effort — ошибка доставки
// одному получателю не должна влиять на остальных.
type Gateway interface {
	// SendOrderPrompt отправляет админу карточку заказа с кнопками Accept/Reject
	// и возвращает id отправленного сообщения
	SendOrderPrompt(ctx context.Context, adminID int64, user *models.User, order *models.Order) (int, error)
	// EditOrderPrompt редактирует ранее отправленную карточку под финальный статус
	EditOrderPrompt(ctx context.Context, relay models.AdminRelay, user *models.User, order *models.Order) error
	// NotifyOrderResolved сообщает пользователю о резолюции его заказа
	NotifyOrderResolved(ctx context.Context, user *models.User, order *models.Order) error
}

// Granter начисляет XP за принятый заказ
type Granter interface {
	Grant(ctx context.Context, userID int64, amount int) (*models.User, error)
}

// Broker превращает подтвержденную сессию в заказ, рассылает его админам
// и применяет резолюцию ко всем оповещенным сторонам.
type Broker struct {
	log          *slog.Logger
	users        repository.Users
	orders       repository.Orders
	gateway      Gateway
	ledger       Granter
	adminIDs     []int64
	acceptReward int

	// Сериализует check-and-set статуса: первая резолюция побеждает
	mu sync.Mutex
}

// New создает брокер заказов
func New(
	log *slog.Logger,
	users repository.Users,
	orders repository.Orders,
	gateway Gateway,
	ledger Granter,
	adminIDs []int64,
	acceptReward int,
) *Broker {
	return &Broker{
		log:          log,
		users:        users,
		orders:       orders,
		gateway:      gateway,
		ledger:       ledger,
		adminIDs:     adminIDs,
		acceptReward: acceptReward,
	}
}

// Place сохраняет заказ из подтвержденного черновика и рассылает его всем админам.
// Заказ сохраняется до рассылки: сбой уведомления не откатывает запись.
// Набор relay-записей собирается целиком и сохраняется одним обновлением.
func (b *Broker) Place(ctx context.Context, user *models.User, draft models.Session) (*models.Order, error) {
	if draft.Step != models.StepAwaitingConfirmation {
		return nil, models.ErrNoSession
	}

	if user.Banned {
		return nil, models.ErrUserBanned
	}

	order := models.NewOrder(user.ID, draft.Product, draft.Grams, draft.Cash)

	if err := b.orders.Create(ctx, order); err != nil {
		return nil, fmt.Errorf("failed to save order: %w", err)
	}

	if err := b.orders.TrimHistory(ctx, user.ID, models.MaxOrderHistory); err != nil {
		b.log.Error("failed to trim order history", "user_id", user.ID, "error", err)
	}

	for _, adminID := range b.adminIDs {
		messageID, err := b.gateway.SendOrderPrompt(ctx, adminID, user, order)
		if err != nil {
			b.log.Error("failed to notify admin",
				"admin_id", adminID,
				"order_id", order.ID,
				"error", err,
			)
			continue
		}

		order.AdminRelays = append(order.AdminRelays, models.AdminRelay{
			AdminID:   adminID,
			MessageID: messageID,
		})
	}

	if err := b.orders.Update(ctx, order); err != nil {
		return nil, fmt.Errorf("failed to save admin relays: %w", err)
	}

	b.log.Info("order placed",
		"order_id", order.ID,
		"user_id", user.ID,
		"product", order.Product,
		"grams", order.Grams,
		"cash", order.Cash,
		"admins_notified", len(order.AdminRelays),
	)

	return order, nil
}

// Resolve применяет решение админа к заказу в статусе pending.
// Первая резолюция побеждает: повторные клики получают ErrOrderNotPending.
// После фиксации статуса все карточки админов редактируются best-effort.
func (b *Broker) Resolve(ctx context.Context, orderID uuid.UUID, decision models.OrderStatus) (*models.Order, error) {
	if decision != models.OrderStatusAccepted && decision != models.OrderStatusRejected {
		return nil, fmt.Errorf("invalid decision: %s", decision)
	}

	order, err := b.commitResolution(ctx, orderID, decision)
	if err != nil {
		return nil, err
	}

	user, err := b.users.Get(ctx, order.UserID)
	if err != nil {
		// Статус уже зафиксирован; без пользователя нечего обновлять в UI
		b.log.Error("failed to load order owner", "order_id", orderID, "error", err)
		return order, nil
	}

	if decision == models.OrderStatusAccepted {
		if user, err = b.ledger.Grant(ctx, order.UserID, b.acceptReward); err != nil {
			b.log.Error("failed to grant accept reward", "order_id", orderID, "error", err)
		}
	}

	if err = b.gateway.NotifyOrderResolved(ctx, user, order); err != nil {
		b.log.Error("failed to notify user", "order_id", orderID, "error", err)
	}

	for _, relay := range order.AdminRelays {
		if err = b.gateway.EditOrderPrompt(ctx, relay, user, order); err != nil {
			b.log.Error("failed to update admin message",
				"admin_id", relay.AdminID,
				"order_id", orderID,
				"error", err,
			)
		}
	}

	b.log.Info("order resolved", "order_id", orderID, "status", order.Status)

	return order, nil
}

// commitResolution атомарно переводит заказ pending -> decision
func (b *Broker) commitResolution(ctx context.Context, orderID uuid.UUID, decision models.OrderStatus) (*models.Order, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	order, err := b.orders.Get(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to get order: %w", err)
	}

	if !order.IsPending() {
		return nil, models.ErrOrderNotPending
	}

	order.Status = decision

	if err = b.orders.Update(ctx, order); err != nil {
		return nil, fmt.Errorf("failed to update order: %w", err)
	}

	return order, nil
}

// Stats возвращает количество заказов по статусам для админской сводки
func (b *Broker) Stats(ctx context.Context) (map[models.OrderStatus]int, error) {
	return b.orders.CountByStatus(ctx)
}
