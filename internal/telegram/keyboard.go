package telegram

import (
	"github.com/google/uuid"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"v1lefarmBot/internal/domain/models"
)

// Callback-префиксы, по которым диспетчеризуются нажатия кнопок
const (
	callbackProductPrefix = "product_"
	callbackConfirmOrder  = "confirm_order"
	callbackCancelOrder   = "cancel_order"
	callbackAcceptPrefix  = "admin_accept_"
	callbackRejectPrefix  = "admin_reject_"
)

// productKeyboard клавиатура выбора товара: одна кнопка на позицию каталога
func productKeyboard() tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton

	for _, p := range models.Catalog() {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🪴 "+p.Name, callbackProductPrefix+p.Key),
		))
	}

	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

// confirmKeyboard клавиатура подтверждения черновика заказа
func confirmKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("✅ Confirm", callbackConfirmOrder),
			tgbotapi.NewInlineKeyboardButtonData("❌ Cancel", callbackCancelOrder),
		),
	)
}

// adminKeyboard клавиатура резолюции заказа в карточке админа
func adminKeyboard(orderID uuid.UUID) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("✅ Accept", callbackAcceptPrefix+orderID.String()),
			tgbotapi.NewInlineKeyboardButtonData("❌ Reject", callbackRejectPrefix+orderID.String()),
		),
	)
}
