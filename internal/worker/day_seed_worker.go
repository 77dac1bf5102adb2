package worker

import (
	"context"
	"fmt"
	"time"

	"revisionHub/internal/logger"
	"revisionHub/internal/metrics"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type Seeder interface {
	ListUserIDs(context.Context) ([]uuid.UUID, error)
	SeedMonth(context.Context, uuid.UUID, time.Time) (int, error)
}

// DaySeedWorker периодически заполняет типы дней текущего месяца во всех календарях
type DaySeedWorker struct {
	seeder   Seeder
	metrics  metrics.Provider
	interval time.Duration
	clock    func() time.Time
}

type Option func(*DaySeedWorker)

func WithClock(clock func() time.Time) Option {
	return func(w *DaySeedWorker) {
		w.clock = clock
	}
}

func WithMetrics(provider metrics.Provider) Option {
	return func(w *DaySeedWorker) {
		w.metrics = provider
	}
}

func NewDaySeedWorker(seeder Seeder, interval *time.Duration, options ...Option) *DaySeedWorker {
	intervalToSet := time.Hour
	if interval != nil && *interval > 0 {
		intervalToSet = *interval
	}

	w := &DaySeedWorker{
		seeder:   seeder,
		metrics:  metrics.New(false),
		interval: intervalToSet,
		clock:    time.Now,
	}
	for _, opt := range options {
		if opt != nil {
			opt(w)
		}
	}
	return w
}

// Start выполняет проход сразу и затем по таймеру, пока не отменён ctx
func (w *DaySeedWorker) Start(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.Check(ctx)
	for {
		select {
		case <-ticker.C:
			logger.Info("Worker: Фоновое заполнение типов дней", zap.Time("started_at", w.clock()))
			w.Check(ctx)
		case <-ctx.Done():
			logger.Info("Worker: Фоновое заполнение останавливается")
			return
		}
	}
}

// Check проходит по всем календарям один раз. Ошибка по одному пользователю не прерывает проход.
func (w *DaySeedWorker) Check(ctx context.Context) {
	start := time.Now()

	userIDs, err := w.seeder.ListUserIDs(ctx)
	if err != nil {
		logger.Warn("Worker: Ошибка получения календарей", zap.Error(err))
		return
	}

	reference := w.clock()
	seededDays, updated, failed := 0, 0, 0
	for _, userID := range userIDs {
		if ctx.Err() != nil {
			break
		}

		added, err := w.seed(ctx, userID, reference)
		if err != nil {
			failed++
			w.metrics.IncSeedFailures()
			logger.Warn("Worker: Ошибка заполнения календаря",
				zap.String("user_id", userID.String()),
				zap.Error(err))
			continue
		}
		if added > 0 {
			updated++
			seededDays += added
		}
	}

	duration := time.Since(start)
	w.metrics.ObserveSeedRun(duration, len(userIDs), seededDays)
	logger.Info(
		"Worker: Завершение заполнения типов дней",
		zap.Duration("ms", duration),
		zap.Int("checked", len(userIDs)),
		zap.Int("updated", updated),
		zap.Int("failed", failed),
		zap.Int("days", seededDays),
	)
}

func (w *DaySeedWorker) seed(ctx context.Context, userID uuid.UUID, reference time.Time) (int, error) {
	added, err := w.seeder.SeedMonth(ctx, userID, reference)
	if err != nil {
		return 0, fmt.Errorf("заполнение месяца: %w", err)
	}
	return added, nil
}
