package repository

import (
	"context"

	"github.com/google/uuid"

	"v1lefarmBot/internal/domain/models"
)

// Users интерфейс хранилища пользователей
type Users interface {
	// Get возвращает пользователя по id или models.ErrUserNotFound
	Get(ctx context.Context, id int64) (*models.User, error)
	// Create создает пользователя с начальным прогрессом
	Create(ctx context.Context, id int64, username string) (*models.User, error)
	// Update сохраняет изменяемые поля пользователя (username, xp, level, banned)
	Update(ctx context.Context, user *models.User) error
	// All возвращает всех пользователей
	All(ctx context.Context) ([]*models.User, error)
	// Count возвращает количество пользователей
	Count(ctx context.Context) (int, error)
}

// Orders интерфейс хранилища заказов
type Orders interface {
	// Get возвращает заказ по id или models.ErrOrderNotFound
	Get(ctx context.Context, id uuid.UUID) (*models.Order, error)
	// Create сохраняет новый заказ
	Create(ctx context.Context, order *models.Order) error
	// Update сохраняет статус и admin relays заказа
	Update(ctx context.Context, order *models.Order) error
	// ListByUser возвращает последние заказы пользователя, новые первыми
	ListByUser(ctx context.Context, userID int64, limit int) ([]models.Order, error)
	// TrimHistory удаляет заказы пользователя сверх keep последних
	TrimHistory(ctx context.Context, userID int64, keep int) error
	// CountByStatus возвращает количество заказов в разрезе статусов
	CountByStatus(ctx context.Context) (map[models.OrderStatus]int, error)
}
