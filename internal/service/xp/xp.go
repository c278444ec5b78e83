package xp

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"v1lefarmBot/internal/domain/models"
	"v1lefarmBot/internal/repository"
)

// Config награды и порог уровня XP-системы
type Config struct {
	Factor              int `yaml:"factor" env:"XP_FACTOR" env-default:"10"`
	StartReward         int `yaml:"start_reward" env:"XP_START_REWARD" env-default:"1"`
	OrderPlacedReward   int `yaml:"order_placed_reward" env:"XP_ORDER_PLACED_REWARD" env-default:"2"`
	OrderAcceptedReward int `yaml:"order_accepted_reward" env:"XP_ORDER_ACCEPTED_REWARD" env-default:"5"`
}

// Ledger начисляет XP и ведет уровни пользователей.
// Начисления для одного пользователя сериализуются per-user мьютексом,
// чтобы инвариант xp < level*factor сохранялся при конкурентных событиях.
type Ledger struct {
	log   *slog.Logger
	users repository.Users
	cfg   Config

	mu    sync.Mutex
	locks map[int64]*sync.Mutex
}

// New создает XP-ledger
func New(log *slog.Logger, users repository.Users, cfg Config) *Ledger {
	return &Ledger{
		log:   log,
		users: users,
		cfg:   cfg,
		locks: make(map[int64]*sync.Mutex),
	}
}

// Rewards возвращает конфигурацию наград
func (l *Ledger) Rewards() Config {
	return l.cfg
}

// Grant начисляет amount XP пользователю и переносит избыток в уровни.
// После вызова выполняется 0 <= xp < level*factor.
func (l *Ledger) Grant(ctx context.Context, userID int64, amount int) (*models.User, error) {
	if amount < 0 {
		return nil, fmt.Errorf("negative xp grant: %d", amount)
	}

	lock := l.userLock(userID)
	lock.Lock()
	defer lock.Unlock()

	user, err := l.users.Get(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	user.XP += amount
	for user.XP >= user.Level*l.cfg.Factor {
		user.XP -= user.Level * l.cfg.Factor
		user.Level++
	}

	if err = l.users.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to save user: %w", err)
	}

	return user, nil
}

// EnsureUser возвращает пользователя, создавая его при первом обращении
func (l *Ledger) EnsureUser(ctx context.Context, userID int64, username string) (*models.User, error) {
	lock := l.userLock(userID)
	lock.Lock()
	defer lock.Unlock()

	user, err := l.users.Get(ctx, userID)
	if err == nil {
		if username != "" && user.Username != username {
			user.Username = username
			if err = l.users.Update(ctx, user); err != nil {
				return nil, fmt.Errorf("failed to save user: %w", err)
			}
		}
		return user, nil
	}

	if !errors.Is(err, models.ErrUserNotFound) {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	user, err = l.users.Create(ctx, userID, username)
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	l.log.Info("new user registered", "user_id", userID, "username", username)

	return user, nil
}

// ResetAll сбрасывает прогресс всех пользователей (еженедельный сброс XP)
func (l *Ledger) ResetAll(ctx context.Context) error {
	users, err := l.users.All(ctx)
	if err != nil {
		return fmt.Errorf("failed to list users: %w", err)
	}

	for _, user := range users {
		lock := l.userLock(user.ID)
		lock.Lock()

		user.XP = 0
		user.Level = 1
		err = l.users.Update(ctx, user)

		lock.Unlock()

		if err != nil {
			return fmt.Errorf("failed to reset user %d: %w", user.ID, err)
		}
	}

	l.log.Info("xp reset completed", "users", len(users))

	return nil
}

func (l *Ledger) userLock(userID int64) *sync.Mutex {
	l.mu.Lock()
	defer l.mu.Unlock()

	lock, ok := l.locks[userID]
	if !ok {
		lock = &sync.Mutex{}
		l.locks[userID] = lock
	}

	return lock
}
