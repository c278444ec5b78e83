package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"v1lefarmBot/internal/domain/models"
)

type OrderStorage struct {
	db *pgxpool.Pool
}

func NewOrderStorage(pool *pgxpool.Pool) *OrderStorage {
	return &OrderStorage{db: pool}
}

// Get возвращает заказ по id
func (s *OrderStorage) Get(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	query := `SELECT id, user_id, product, grams, cash, status, admin_relays, created_at FROM orders WHERE id = $1`

	order, err := scanOrder(s.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrOrderNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	return order, nil
}

// Create сохраняет новый заказ
func (s *OrderStorage) Create(ctx context.Context, order *models.Order) error {
	relays, err := json.Marshal(order.AdminRelays)
	if err != nil {
		return fmt.Errorf("failed to marshal admin relays: %w", err)
	}

	query := `
		INSERT INTO orders (id, user_id, product, grams, cash, status, admin_relays, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err = s.db.Exec(ctx, query,
		order.ID,
		order.UserID,
		order.Product,
		order.Grams,
		order.Cash,
		order.Status,
		relays,
		order.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create order: %w", err)
	}

	return nil
}

// Update сохраняет статус и admin relays заказа
func (s *OrderStorage) Update(ctx context.Context, order *models.Order) error {
	relays, err := json.Marshal(order.AdminRelays)
	if err != nil {
		return fmt.Errorf("failed to marshal admin relays: %w", err)
	}

	query := `UPDATE orders SET status = $1, admin_relays = $2 WHERE id = $3`

	_, err = s.db.Exec(ctx, query, order.Status, relays, order.ID)
	if err != nil {
		return fmt.Errorf("failed to update order: %w", err)
	}

	return nil
}

// ListByUser возвращает последние заказы пользователя, новые первыми
func (s *OrderStorage) ListByUser(ctx context.Context, userID int64, limit int) ([]models.Order, error) {
	query := `
		SELECT id, user_id, product, grams, cash, status, admin_relays, created_at
		FROM orders
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`

	rows, err := s.db.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}
	defer rows.Close()

	var orders []models.Order

	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}

		orders = append(orders, *order)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}

	return orders, nil
}

// TrimHistory удаляет заказы пользователя сверх keep последних
func (s *OrderStorage) TrimHistory(ctx context.Context, userID int64, keep int) error {
	query := `
		DELETE FROM orders
		WHERE user_id = $1 AND id NOT IN (
			SELECT id FROM orders WHERE user_id = $1 ORDER BY created_at DESC LIMIT $2
		)
	`

	_, err := s.db.Exec(ctx, query, userID, keep)
	if err != nil {
		return fmt.Errorf("failed to trim order history: %w", err)
	}

	return nil
}

// CountByStatus возвращает количество заказов в разрезе статусов
func (s *OrderStorage) CountByStatus(ctx context.Context) (map[models.OrderStatus]int, error) {
	query := `SELECT status, COUNT(*) FROM orders GROUP BY status`

	rows, err := s.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}
	defer rows.Close()

	counts := make(map[models.OrderStatus]int)

	for rows.Next() {
		var status models.OrderStatus
		var count int

		if err = rows.Scan(&status, &count); err != nil {
			return nil, fmt.Errorf("failed to scan status count: %w", err)
		}

		counts[status] = count
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}

	return counts, nil
}

func scanOrder(row pgx.Row) (*models.Order, error) {
	var order models.Order
	var relays []byte

	err := row.Scan(
		&order.ID,
		&order.UserID,
		&order.Product,
		&order.Grams,
		&order.Cash,
		&order.Status,
		&relays,
		&order.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if len(relays) > 0 {
		if err = json.Unmarshal(relays, &order.AdminRelays); err != nil {
			return nil, fmt.Errorf("failed to unmarshal admin relays: %w", err)
		}
	}

	return &order, nil
}
