package service

import (
	"context"
	"time"

	"github.com/yourorg/egx-collector/internal/collector"
	"github.com/yourorg/egx-collector/internal/kafka"
	"github.com/yourorg/egx-collector/internal/model"
	"github.com/yourorg/egx-collector/internal/repository"

	"go.uber.org/zap"
)

// IPOService orchestrates IPO collection: fetch both language variants,
// reconcile, persist the full snapshot idempotently by (name, announced_at).
type IPOService struct {
	collector *collector.IPOCollector
	ipoRepo   *repository.IPORepository
	producer  *kafka.Producer
	logger    *zap.Logger
	lock      *runLock
}

// NewIPOService creates a new IPO service
func NewIPOService(collector *collector.IPOCollector, ipoRepo *repository.IPORepository, producer *kafka.Producer, logger *zap.Logger) *IPOService {
	return &IPOService{
		collector: collector,
		ipoRepo:   ipoRepo,
		producer:  producer,
		logger:    logger,
		lock:      newRunLock(),
	}
}

// CollectAndSave runs one IPO collection pass and returns the number of
// rows written. At most one IPO run executes at a time.
func (s *IPOService) CollectAndSave(ctx context.Context) (int, error) {
	if !s.lock.TryAcquire() {
		return 0, ErrCollectionInProgress
	}
	defer s.lock.Release()

	started := time.Now()
	s.logger.Info("Starting IPO collection run")

	records := s.collector.Collect(ctx)
	if len(records) == 0 {
		s.logger.Warn("No IPO data collected")
		publishRunEvent(ctx, s.producer, model.KindIPO, 0, started, nil)
		return 0, nil
	}

	result, err := s.ipoRepo.UpsertBatch(ctx, records)
	publishRunEvent(ctx, s.producer, model.KindIPO, result.Total(), started, err)
	if err != nil {
		return 0, err
	}

	s.logger.Info("IPO collection run completed",
		zap.Int("created", result.Created),
		zap.Int("updated", result.Updated),
		zap.Duration("duration", time.Since(started)))
	return result.Total(), nil
}

// GetIPOs returns all persisted IPO announcements
func (s *IPOService) GetIPOs(ctx context.Context) ([]model.IPOResponse, error) {
	return s.ipoRepo.List(ctx)
}
