package models

import (
	"time"
)

// MaxOrderHistory максимальное количество заказов, хранимых в истории пользователя
const MaxOrderHistory = 10

// User представляет пользователя бота с его прогрессом.
// История заказов пользователя живет в хранилище заказов и обрезается
// до MaxOrderHistory последних записей.
type User struct {
	ID        int64     `db:"id"`
	Username  string    `db:"username"`
	XP        int       `db:"xp"`
	Level     int       `db:"level"`
	Banned    bool      `db:"banned"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

// NewUser создает нового пользователя с начальным прогрессом
func NewUser(id int64, username string) *User {
	now := time.Now()

	return &User{
		ID:        id,
		Username:  username,
		XP:        0,
		Level:     1,
		CreatedAt: now,
		UpdatedAt: now,
	}
}
