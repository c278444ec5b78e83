package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"v1lefarmBot/internal/domain/models"
)

type UserStorage struct {
	db *pgxpool.Pool
}

func NewUserStorage(pool *pgxpool.Pool) *UserStorage {
	return &UserStorage{db: pool}
}

// Get возвращает пользователя по id
func (s *UserStorage) Get(ctx context.Context, id int64) (*models.User, error) {
	query := `SELECT id, username, xp, level, banned, created_at, updated_at FROM users WHERE id = $1`

	var user models.User

	err := s.db.QueryRow(ctx, query, id).Scan(
		&user.ID,
		&user.Username,
		&user.XP,
		&user.Level,
		&user.Banned,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrUserNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	return &user, nil
}

// Create создает нового пользователя с начальным прогрессом
func (s *UserStorage) Create(ctx context.Context, id int64, username string) (*models.User, error) {
	user := models.NewUser(id, username)

	query := `
		INSERT INTO users (id, username, xp, level, banned, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := s.db.Exec(ctx, query,
		user.ID,
		user.Username,
		user.XP,
		user.Level,
		user.Banned,
		user.CreatedAt,
		user.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return user, nil
}

// Update сохраняет изменяемые поля пользователя
func (s *UserStorage) Update(ctx context.Context, user *models.User) error {
	query := `UPDATE users SET username = $1, xp = $2, level = $3, banned = $4, updated_at = $5 WHERE id = $6`

	user.UpdatedAt = time.Now()

	_, err := s.db.Exec(ctx, query,
		user.Username,
		user.XP,
		user.Level,
		user.Banned,
		user.UpdatedAt,
		user.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}

	return nil
}

// All возвращает всех пользователей
func (s *UserStorage) All(ctx context.Context) ([]*models.User, error) {
	query := `SELECT id, username, xp, level, banned, created_at, updated_at FROM users ORDER BY id`

	rows, err := s.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}
	defer rows.Close()

	var users []*models.User

	for rows.Next() {
		var user models.User

		err = rows.Scan(
			&user.ID,
			&user.Username,
			&user.XP,
			&user.Level,
			&user.Banned,
			&user.CreatedAt,
			&user.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}

		users = append(users, &user)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}

	return users, nil
}

// Count возвращает количество пользователей
func (s *UserStorage) Count(ctx context.Context) (int, error) {
	var count int

	err := s.db.QueryRow(ctx, `SELECT COUNT(*) FROM users`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("database error: %w", err)
	}

	return count, nil
}
