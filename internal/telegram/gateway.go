package telegram

import (
	"context"
	"fmt"
	"log/slog"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"v1lefarmBot/internal/domain/models"
	"v1lefarmBot/internal/service/order"
)

// Gateway реализует исходящие уведомления брокера поверх Telegram Bot API
type Gateway struct {
	bot *tgbotapi.BotAPI
	log *slog.Logger
}

// NewGateway создает шлюз уведомлений
func NewGateway(bot *tgbotapi.BotAPI, log *slog.Logger) *Gateway {
	return &Gateway{bot: bot, log: log}
}

// SendOrderPrompt отправляет админу карточку заказа с кнопками Accept/Reject
func (g *Gateway) SendOrderPrompt(ctx context.Context, adminID int64, user *models.User, o *models.Order) (int, error) {
	msg := tgbotapi.NewMessage(adminID, renderAdminCard(user, o))
	msg.ParseMode = tgbotapi.ModeMarkdown
	msg.ReplyMarkup = adminKeyboard(o.ID)

	sent, err := g.bot.Send(msg)
	if err != nil {
		return 0, fmt.Errorf("failed to send order prompt: %w", err)
	}

	return sent.MessageID, nil
}

// EditOrderPrompt редактирует карточку админа под финальный статус заказа
func (g *Gateway) EditOrderPrompt(ctx context.Context, relay models.AdminRelay, user *models.User, o *models.Order) error {
	edit := tgbotapi.NewEditMessageText(relay.AdminID, relay.MessageID, renderResolvedAdminCard(user, o))
	edit.ParseMode = tgbotapi.ModeMarkdown

	if _, err := g.bot.Send(edit); err != nil {
		return fmt.Errorf("failed to edit order prompt: %w", err)
	}

	return nil
}

// NotifyOrderResolved сообщает пользователю о резолюции его заказа
func (g *Gateway) NotifyOrderResolved(ctx context.Context, user *models.User, o *models.Order) error {
	msg := tgbotapi.NewMessage(user.ID, renderUserResolution(o))
	msg.ParseMode = tgbotapi.ModeMarkdown

	if _, err := g.bot.Send(msg); err != nil {
		return fmt.Errorf("failed to notify user: %w", err)
	}

	return nil
}

// Проверка реализации интерфейса
var _ order.Gateway = (*Gateway)(nil)
