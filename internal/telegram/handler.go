package telegram

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"strings"

	"github.com/google/uuid"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"v1lefarmBot/internal/domain/models"
	"v1lefarmBot/internal/repository"
	"v1lefarmBot/internal/service/order"
	"v1lefarmBot/internal/service/session"
	"v1lefarmBot/internal/service/xp"
)

// Handler принимает входящие апдейты Telegram и ведет диалог заказа
type Handler struct {
	bot     *tgbotapi.BotAPI
	log     *slog.Logger
	users   repository.Users
	tracker *session.Tracker
	broker  *order.Broker
	ledger  *xp.Ledger
	admins  map[int64]struct{}
}

// NewHandler создает обработчик апдейтов
func NewHandler(
	bot *tgbotapi.BotAPI,
	log *slog.Logger,
	users repository.Users,
	tracker *session.Tracker,
	broker *order.Broker,
	ledger *xp.Ledger,
	adminIDs []int64,
) *Handler {
	admins := make(map[int64]struct{}, len(adminIDs))
	for _, id := range adminIDs {
		admins[id] = struct{}{}
	}

	return &Handler{
		bot:     bot,
		log:     log,
		users:   users,
		tracker: tracker,
		broker:  broker,
		ledger:  ledger,
		admins:  admins,
	}
}

// Start запускает обработку сообщений от Telegram
func (h *Handler) Start(ctx context.Context) error {
	h.log.Info("authorized on telegram", "account", h.bot.Self.UserName)

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := h.bot.GetUpdatesChan(u)

	for {
		select {
		case <-ctx.Done():
			h.bot.StopReceivingUpdates()
			return ctx.Err()
		case update := <-updates:
			switch {
			case update.Message != nil:
				go h.handleMessage(ctx, update.Message)
			case update.CallbackQuery != nil:
				go h.handleCallback(ctx, update.CallbackQuery)
			}
		}
	}
}

// handleMessage обрабатывает входящее текстовое сообщение
func (h *Handler) handleMessage(ctx context.Context, message *tgbotapi.Message) {
	chatID := message.Chat.ID

	user, err := h.ledger.EnsureUser(ctx, chatID, message.From.UserName)
	if err != nil {
		h.log.Error("failed to ensure user", "chat_id", chatID, "error", err)
		return
	}

	if user.Banned && !h.isAdmin(chatID) {
		h.sendMessage(chatID, "⛔ You are banned.")
		return
	}

	if message.IsCommand() {
		h.handleCommand(ctx, message, user)
		return
	}

	h.handleText(ctx, message)
}

// handleCommand обрабатывает команды бота
func (h *Handler) handleCommand(ctx context.Context, message *tgbotapi.Message, user *models.User) {
	chatID := message.Chat.ID

	switch message.Command() {
	case "start":
		h.handleStart(ctx, chatID, user)
	case "help":
		h.sendMessage(chatID, helpText)
	case "stats":
		h.handleStats(ctx, chatID)
	case "ban":
		h.handleSetBanned(ctx, chatID, message.CommandArguments(), true)
	case "unban":
		h.handleSetBanned(ctx, chatID, message.CommandArguments(), false)
	default:
		h.sendMessage(chatID, "Unknown command. Use /start to place an order.")
	}
}

const helpText = "💥 *Root Tree*\n\n/start — place an order\n/help — this message\n\nPick a product, then send the amount: cash like `$25` or grams like `2.5`."

// handleStart начинает новый диалог заказа
func (h *Handler) handleStart(ctx context.Context, chatID int64, user *models.User) {
	if _, err := h.ledger.Grant(ctx, chatID, h.ledger.Rewards().StartReward); err != nil {
		h.log.Error("failed to grant start xp", "chat_id", chatID, "error", err)
	}

	// Прогресс мог измениться после начисления
	if fresh, err := h.users.Get(ctx, chatID); err == nil {
		user = fresh
	}

	h.tracker.Start(chatID)

	msg := tgbotapi.NewMessage(chatID, renderWelcome(user))
	msg.ParseMode = tgbotapi.ModeMarkdown
	msg.ReplyMarkup = productKeyboard()

	sent, err := h.bot.Send(msg)
	if err != nil {
		h.log.Error("failed to send welcome", "chat_id", chatID, "error", err)
		return
	}

	h.tracker.SetMainMessage(chatID, sent.MessageID)
}

// handleStats отправляет админу сводку по пользователям и заказам
func (h *Handler) handleStats(ctx context.Context, chatID int64) {
	if !h.isAdmin(chatID) {
		return
	}

	userCount, err := h.users.Count(ctx)
	if err != nil {
		h.log.Error("failed to count users", "error", err)
		return
	}

	orderCounts, err := h.broker.Stats(ctx)
	if err != nil {
		h.log.Error("failed to count orders", "error", err)
		return
	}

	h.sendMessage(chatID, renderStats(userCount, orderCounts))
}

// handleSetBanned обрабатывает /ban и /unban
func (h *Handler) handleSetBanned(ctx context.Context, chatID int64, args string, banned bool) {
	if !h.isAdmin(chatID) {
		return
	}

	targetID, err := strconv.ParseInt(strings.TrimSpace(args), 10, 64)
	if err != nil {
		h.sendMessage(chatID, "Usage: /ban <user id>")
		return
	}

	target, err := h.users.Get(ctx, targetID)
	if err != nil {
		h.sendMessage(chatID, "User not found.")
		return
	}

	target.Banned = banned
	if err = h.users.Update(ctx, target); err != nil {
		h.log.Error("failed to update ban flag", "user_id", targetID, "error", err)
		return
	}

	if banned {
		h.sendMessage(chatID, "⛔ User banned.")
	} else {
		h.sendMessage(chatID, "✅ User unbanned.")
	}
}

// handleText обрабатывает свободный текст: на шаге ввода суммы это сумма заказа,
// вне диалога текст игнорируется
func (h *Handler) handleText(ctx context.Context, message *tgbotapi.Message) {
	chatID := message.Chat.ID

	s, err := h.tracker.EnterAmount(chatID, message.Text)
	switch {
	case err == nil:
		product, _ := models.ProductByKey(s.Product)
		h.showDialogueMessage(chatID, s, renderConfirmation(product, s), confirmKeyboard())

	case errors.Is(err, models.ErrBelowMinimum):
		h.sendMessage(chatID, minimumOrderText())

	case errors.Is(err, models.ErrBadAmount):
		h.sendMessage(chatID, "✏️ Send a number: cash like `$25` or grams like `2.5`.")

	case errors.Is(err, models.ErrNoSession):
		// Текст вне диалога — не наше событие
	default:
		h.log.Error("failed to handle amount", "chat_id", chatID, "error", err)
	}
}

func minimumOrderText() string {
	p := models.Catalog()[0]
	return "📦 Minimum order is " + formatGrams(models.MinimumGrams) + "g ($" + formatMoney(models.MinimumGrams*p.PricePerGram) + ")."
}

// handleCallback обрабатывает нажатия inline-кнопок
func (h *Handler) handleCallback(ctx context.Context, query *tgbotapi.CallbackQuery) {
	if query.Message == nil {
		h.answerCallback(query.ID, "")
		return
	}

	data := query.Data
	chatID := query.Message.Chat.ID

	user, err := h.ledger.EnsureUser(ctx, chatID, query.From.UserName)
	if err != nil {
		h.log.Error("failed to ensure user", "chat_id", chatID, "error", err)
		h.answerCallback(query.ID, "")
		return
	}

	// Бан действует и на уже открытую клавиатуру
	if user.Banned && !h.isAdmin(chatID) {
		h.answerCallback(query.ID, "⛔ You are banned.")
		return
	}

	switch {
	case strings.HasPrefix(data, callbackProductPrefix):
		h.handleProductSelect(ctx, query, strings.TrimPrefix(data, callbackProductPrefix))

	case data == callbackConfirmOrder:
		h.handleConfirm(ctx, query)

	case data == callbackCancelOrder:
		h.tracker.Clear(chatID)
		h.editDialogueMessage(chatID, query.Message.MessageID, "❌ Order cancelled.")
		h.answerCallback(query.ID, "")

	case strings.HasPrefix(data, callbackAcceptPrefix):
		h.handleResolution(ctx, query, strings.TrimPrefix(data, callbackAcceptPrefix), models.OrderStatusAccepted)

	case strings.HasPrefix(data, callbackRejectPrefix):
		h.handleResolution(ctx, query, strings.TrimPrefix(data, callbackRejectPrefix), models.OrderStatusRejected)

	default:
		h.answerCallback(query.ID, "")
	}
}

// handleProductSelect записывает выбранный товар и запрашивает сумму
func (h *Handler) handleProductSelect(ctx context.Context, query *tgbotapi.CallbackQuery, key string) {
	chatID := query.Message.Chat.ID

	s, err := h.tracker.SelectProduct(chatID, key)
	if err != nil {
		// Неизвестный товар или устаревшая кнопка: молча гасим клик
		h.answerCallback(query.ID, "")
		return
	}

	h.tracker.SetMainMessage(chatID, query.Message.MessageID)

	product, _ := models.ProductByKey(s.Product)
	h.editDialogueMessage(chatID, query.Message.MessageID, renderProductSelected(product))
	h.answerCallback(query.ID, "")
}

// handleConfirm превращает подтвержденный черновик в заказ
func (h *Handler) handleConfirm(ctx context.Context, query *tgbotapi.CallbackQuery) {
	chatID := query.Message.Chat.ID

	// Черновик забирается атомарно: повторный клик подтверждения
	// (или ретрай Telegram) не породит второй заказ
	s, ok := h.tracker.Consume(chatID)
	if !ok {
		h.answerCallback(query.ID, "")
		return
	}

	user, err := h.users.Get(ctx, chatID)
	if err != nil {
		h.log.Error("failed to get user", "chat_id", chatID, "error", err)
		h.answerCallback(query.ID, "Something went wrong, try /start")
		return
	}

	if _, err = h.broker.Place(ctx, user, s); err != nil {
		h.log.Error("failed to place order", "chat_id", chatID, "error", err)
		h.answerCallback(query.ID, "Something went wrong, try /start")
		return
	}

	if _, err = h.ledger.Grant(ctx, chatID, h.ledger.Rewards().OrderPlacedReward); err != nil {
		h.log.Error("failed to grant order xp", "chat_id", chatID, "error", err)
	}

	h.editDialogueMessage(chatID, query.Message.MessageID, "📨 *Order sent to admins.*")
	h.answerCallback(query.ID, "")
}

// handleResolution обрабатывает клик админа по Accept/Reject
func (h *Handler) handleResolution(ctx context.Context, query *tgbotapi.CallbackQuery, rawID string, decision models.OrderStatus) {
	adminID := query.Message.Chat.ID

	if !h.isAdmin(adminID) {
		h.answerCallback(query.ID, "")
		return
	}

	orderID, err := uuid.Parse(rawID)
	if err != nil {
		h.answerCallback(query.ID, "")
		return
	}

	_, err = h.broker.Resolve(ctx, orderID, decision)
	switch {
	case err == nil:
		h.answerCallback(query.ID, "")
	case errors.Is(err, models.ErrOrderNotPending):
		// Кто-то уже зарезолвил заказ; карточки обновит победившая резолюция
		h.answerCallback(query.ID, "Order already handled")
	default:
		h.log.Error("failed to resolve order", "order_id", orderID, "error", err)
		h.answerCallback(query.ID, "")
	}
}

// showDialogueMessage редактирует живое сообщение диалога in-place,
// при невозможности — отправляет новое и запоминает его id
func (h *Handler) showDialogueMessage(chatID int64, s models.Session, text string, keyboard tgbotapi.InlineKeyboardMarkup) {
	if s.MainMessageID != 0 {
		edit := tgbotapi.NewEditMessageTextAndMarkup(chatID, s.MainMessageID, text, keyboard)
		edit.ParseMode = tgbotapi.ModeMarkdown

		if _, err := h.bot.Send(edit); err == nil {
			return
		}
	}

	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdown
	msg.ReplyMarkup = keyboard

	sent, err := h.bot.Send(msg)
	if err != nil {
		h.log.Error("failed to send dialogue message", "chat_id", chatID, "error", err)
		return
	}

	h.tracker.SetMainMessage(chatID, sent.MessageID)
}

func (h *Handler) editDialogueMessage(chatID int64, messageID int, text string) {
	edit := tgbotapi.NewEditMessageText(chatID, messageID, text)
	edit.ParseMode = tgbotapi.ModeMarkdown

	if _, err := h.bot.Send(edit); err != nil {
		h.log.Error("failed to edit message", "chat_id", chatID, "error", err)
	}
}

func (h *Handler) sendMessage(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdown

	if _, err := h.bot.Send(msg); err != nil {
		h.log.Error("failed to send message", "chat_id", chatID, "error", err)
	}
}

func (h *Handler) answerCallback(callbackID, text string) {
	if _, err := h.bot.Request(tgbotapi.NewCallback(callbackID, text)); err != nil {
		h.log.Error("failed to answer callback", "error", err)
	}
}

func (h *Handler) isAdmin(id int64) bool {
	_, ok := h.admins[id]
	return ok
}
