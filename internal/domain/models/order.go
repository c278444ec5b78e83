package models

import (
	"time"

	"github.com/google/uuid"
)

// OrderStatus представляет статус заказа в его жизненном цикле
type OrderStatus string

const (
	OrderStatusPending  OrderStatus = "pending"
	OrderStatusAccepted OrderStatus = "accepted"
	OrderStatusRejected OrderStatus = "rejected"
)

// AdminRelay связывает заказ с сообщением-уведомлением, отправленным конкретному админу.
// По этой записи заказ находит сообщение, которое нужно отредактировать при резолюции.
type AdminRelay struct {
	AdminID   int64 `json:"admin_id"`
	MessageID int   `json:"message_id"`
}

// Order представляет заказ пользователя на товар из каталога
type Order struct {
	ID          uuid.UUID    `db:"id"`
	UserID      int64        `db:"user_id"`
	Product     string       `db:"product"`
	Grams       float64      `db:"grams"`
	Cash        float64      `db:"cash"`
	Status      OrderStatus  `db:"status"`
	AdminRelays []AdminRelay `db:"admin_relays"`
	CreatedAt   time.Time    `db:"created_at"`
}

// NewOrder создает новый заказ в статусе pending
func NewOrder(userID int64, productKey string, grams, cash float64) *Order {
	return &Order{
		ID:        uuid.New(),
		UserID:    userID,
		Product:   productKey,
		Grams:     grams,
		Cash:      cash,
		Status:    OrderStatusPending,
		CreatedAt: time.Now(),
	}
}

// IsPending сообщает, ожидает ли заказ резолюции
func (o *Order) IsPending() bool {
	return o.Status == OrderStatusPending
}
