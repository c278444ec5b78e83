package telegram

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"v1lefarmBot/internal/domain/models"
)

func TestRenderAdminCard(t *testing.T) {
	user := &models.User{ID: 42, Username: "alice", Level: 3}
	order := models.NewOrder(42, "god", 2.5, 25)

	card := renderAdminCard(user, order)

	assert.Contains(t, card, "New Order")
	assert.Contains(t, card, "@alice")
	assert.Contains(t, card, "God Complex")
	assert.Contains(t, card, "2.5g")
	assert.Contains(t, card, "$25")
	assert.Contains(t, card, "Level: 3")
}

func TestRenderAdminCard_NoUsernameFallsBackToLink(t *testing.T) {
	user := &models.User{ID: 42, Level: 1}
	order := models.NewOrder(42, "kgb", 2, 20)

	card := renderAdminCard(user, order)

	assert.Contains(t, card, "tg://user?id=42")
}

func TestRenderResolvedAdminCard_ConvergesOnStatusLine(t *testing.T) {
	user := &models.User{ID: 42, Username: "alice", Level: 1}
	order := models.NewOrder(42, "god", 2.5, 25)

	order.Status = models.OrderStatusAccepted
	assert.Contains(t, renderResolvedAdminCard(user, order), "✅ Accepted")

	order.Status = models.OrderStatusRejected
	assert.Contains(t, renderResolvedAdminCard(user, order), "❌ Rejected")
}

func TestRenderUserResolution(t *testing.T) {
	order := models.NewOrder(42, "god", 2.5, 25)

	order.Status = models.OrderStatusAccepted
	accepted := renderUserResolution(order)
	require.Contains(t, accepted, "accepted")
	assert.Contains(t, accepted, "God Complex")

	order.Status = models.OrderStatusRejected
	assert.Contains(t, renderUserResolution(order), "rejected")
}

func TestFormatMoney(t *testing.T) {
	assert.Equal(t, "25", formatMoney(25))
	assert.Equal(t, "25.50", formatMoney(25.5))
	assert.Equal(t, "0.05", formatMoney(0.05))
}

func TestRenderStats(t *testing.T) {
	text := renderStats(7, map[models.OrderStatus]int{
		models.OrderStatusPending:  1,
		models.OrderStatusAccepted: 2,
	})

	assert.Contains(t, text, "Users: 7")
	assert.Contains(t, text, "pending 1")
	assert.Contains(t, text, "accepted 2")
	assert.Contains(t, text, "rejected 0")
}
