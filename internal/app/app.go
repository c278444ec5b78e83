package app

import (
	"context"
	"fmt"
	"log/slog"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"v1lefarmBot/config"
	"v1lefarmBot/internal/cron"
	"v1lefarmBot/internal/repository"
	"v1lefarmBot/internal/repository/memory"
	"v1lefarmBot/internal/repository/postgres"
	"v1lefarmBot/internal/service/order"
	"v1lefarmBot/internal/service/session"
	"v1lefarmBot/internal/service/xp"
	"v1lefarmBot/internal/telegram"
	"v1lefarmBot/pkg/database"
)

type App struct {
	log       *slog.Logger
	pool      *pgxpool.Pool
	handler   *telegram.Handler
	scheduler *cron.Scheduler
}

// New собирает приложение: хранилище, сервисы, telegram-обработчик, крон
func New(ctx context.Context, log *slog.Logger, cfg *config.Config) (*App, error) {
	var (
		users  repository.Users
		orders repository.Orders
		pool   *pgxpool.Pool
	)

	switch cfg.Storage {
	case "memory":
		users = memory.NewUserStorage()
		orders = memory.NewOrderStorage()

		log.Info("using in-memory storage")
	default:
		var err error

		pool, err = database.NewConnPool(ctx, database.PostgresConfig{
			Host:     cfg.Postgres.Host,
			Port:     cfg.Postgres.Port,
			DBName:   cfg.Postgres.DatabaseName,
			User:     cfg.Postgres.Username,
			Pass:     cfg.Postgres.Password,
			MaxConns: cfg.Postgres.MaxConnections,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}

		if err = postgres.RunMigrations(ctx, pool, log); err != nil {
			return nil, fmt.Errorf("failed to run migrations: %w", err)
		}

		users = postgres.NewUserStorage(pool)
		orders = postgres.NewOrderStorage(pool)

		log.Info("connected to postgres", "host", cfg.Postgres.Host)
	}

	bot, err := tgbotapi.NewBotAPI(cfg.Telegram.BotToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot: %w", err)
	}

	ledger := xp.New(log, users, xp.Config{
		Factor:              cfg.XP.Factor,
		StartReward:         cfg.XP.StartReward,
		OrderPlacedReward:   cfg.XP.OrderPlacedReward,
		OrderAcceptedReward: cfg.XP.OrderAcceptedReward,
	})

	tracker := session.NewTracker()
	gateway := telegram.NewGateway(bot, log)
	broker := order.New(log, users, orders, gateway, ledger, cfg.Telegram.AdminIDs, cfg.XP.OrderAcceptedReward)
	handler := telegram.NewHandler(bot, log, users, tracker, broker, ledger, cfg.Telegram.AdminIDs)

	var scheduler *cron.Scheduler
	if cfg.XP.WeeklyReset {
		scheduler = cron.New(log, ledger)
	}

	return &App{
		log:       log,
		pool:      pool,
		handler:   handler,
		scheduler: scheduler,
	}, nil
}

// Run запускает обработку апдейтов до отмены контекста
func (a *App) Run(ctx context.Context) error {
	if a.scheduler != nil {
		if err := a.scheduler.Start(); err != nil {
			return fmt.Errorf("failed to start scheduler: %w", err)
		}
		defer a.scheduler.Stop()
	}

	if a.pool != nil {
		defer a.pool.Close()
	}

	return a.handler.Start(ctx)
}
