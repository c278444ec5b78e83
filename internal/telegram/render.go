package telegram

import (
	"fmt"
	"strconv"

	"v1lefarmBot/internal/domain/models"
)

// Текстовые представления — чистые функции от состояния (User, Session, Order),
// вся разметка Markdown собирается только здесь.

func renderWelcome(user *models.User) string {
	return fmt.Sprintf("💥 *Welcome to Root Tree*\n\n⭐ Level: *%d*\n", user.Level)
}

func renderProductSelected(p models.Product) string {
	return fmt.Sprintf(
		"✅ *%s selected*\n\n💰 $%s per gram\n📦 Minimum %sg ($%s)\n\n✏️ Type cash amount (example: `$25`) or grams (example: `2.5`)",
		p.Name,
		formatMoney(p.PricePerGram),
		formatGrams(models.MinimumGrams),
		formatMoney(models.MinimumGrams*p.PricePerGram),
	)
}

func renderConfirmation(p models.Product, s models.Session) string {
	return fmt.Sprintf(
		"🧾 *Confirm your order*\n\n📦 %s\n⚖️ %sg\n💰 $%s",
		p.Name,
		formatGrams(s.Grams),
		formatMoney(s.Cash),
	)
}

func renderAdminCard(user *models.User, order *models.Order) string {
	return fmt.Sprintf(
		"🧾 *New Order*\n\n👤 %s\n📦 %s\n⚖️ %sg\n💰 $%s\n⭐ Level: %d",
		userLink(user),
		productName(order.Product),
		formatGrams(order.Grams),
		formatMoney(order.Cash),
		user.Level,
	)
}

func renderResolvedAdminCard(user *models.User, order *models.Order) string {
	return renderAdminCard(user, order) + "\n\n" + statusLine(order.Status)
}

func renderUserResolution(order *models.Order) string {
	switch order.Status {
	case models.OrderStatusAccepted:
		return fmt.Sprintf(
			"✅ *Your order was accepted!*\n\n📦 %s\n⚖️ %sg\n💰 $%s",
			productName(order.Product),
			formatGrams(order.Grams),
			formatMoney(order.Cash),
		)
	case models.OrderStatusRejected:
		return "❌ *Your order was rejected.*"
	default:
		return ""
	}
}

func renderStats(userCount int, orderCounts map[models.OrderStatus]int) string {
	return fmt.Sprintf(
		"📊 *Stats*\n\n👥 Users: %d\n🧾 Orders: pending %d / accepted %d / rejected %d",
		userCount,
		orderCounts[models.OrderStatusPending],
		orderCounts[models.OrderStatusAccepted],
		orderCounts[models.OrderStatusRejected],
	)
}

func statusLine(status models.OrderStatus) string {
	switch status {
	case models.OrderStatusAccepted:
		return "✅ Accepted"
	case models.OrderStatusRejected:
		return "❌ Rejected"
	default:
		return "⏳ Pending"
	}
}

// userLink возвращает упоминание пользователя для карточки админа
func userLink(user *models.User) string {
	if user.Username != "" {
		return "@" + user.Username
	}

	return fmt.Sprintf("[User](tg://user?id=%d)", user.ID)
}

func productName(key string) string {
	if p, ok := models.ProductByKey(key); ok {
		return p.Name
	}

	return key
}

func formatMoney(v float64) string {
	s := strconv.FormatFloat(v, 'f', 2, 64)
	// $25 вместо $25.00, как в исходных сообщениях бота
	if s[len(s)-3:] == ".00" {
		return s[:len(s)-3]
	}

	return s
}

func formatGrams(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
