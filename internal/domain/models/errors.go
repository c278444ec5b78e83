package models

import "errors"

// Ошибки доменного уровня, на которые ветвятся обработчики
var (
	ErrUserNotFound    = errors.New("user not found")
	ErrOrderNotFound   = errors.New("order not found")
	ErrNoSession       = errors.New("no active session")
	ErrUnknownProduct  = errors.New("unknown product")
	ErrBadAmount       = errors.New("amount is not a number")
	ErrBelowMinimum    = errors.New("amount is below the catalog minimum")
	ErrOrderNotPending = errors.New("order is not pending")
	ErrUserBanned      = errors.New("user is banned")
)
