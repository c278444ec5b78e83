package cron

import (
	"context"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

// XPResetter интерфейс для еженедельного сброса прогресса
type XPResetter interface {
	ResetAll(ctx context.Context) error
}

// Scheduler управляет крон-джобами
type Scheduler struct {
	cron     *cron.Cron
	log      *slog.Logger
	resetter XPResetter
}

// New создает планировщик
func New(log *slog.Logger, resetter XPResetter) *Scheduler {
	return &Scheduler{
		cron:     cron.New(),
		log:      log,
		resetter: resetter,
	}
}

// Start запускает планировщик с еженедельным сбросом XP
func (s *Scheduler) Start() error {
	_, err := s.cron.AddFunc("@weekly", func() {
		s.log.Info("starting weekly xp reset job")

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := s.resetter.ResetAll(ctx); err != nil {
			s.log.Error("failed to reset xp", "error", err)
			return
		}

		s.log.Info("weekly xp reset completed")
	})
	if err != nil {
		return err
	}

	s.cron.Start()
	s.log.Info("cron scheduler started")

	return nil
}

// Stop останавливает планировщик, дожидаясь активных джобов
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.log.Info("cron scheduler stopped")
}
