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

// FairValueService orchestrates fair value collection: fetch both language
// variants, reconcile, filter against the stored watermark, persist.
type FairValueService struct {
	collector     *collector.FairValueCollector
	fairValueRepo *repository.FairValueRepository
	producer      *kafka.Producer
	logger        *zap.Logger
	lock          *runLock
}

// NewFairValueService creates a new fair value service
func NewFairValueService(collector *collector.FairValueCollector, fairValueRepo *repository.FairValueRepository, producer *kafka.Producer, logger *zap.Logger) *FairValueService {
	return &FairValueService{
		collector:     collector,
		fairValueRepo: fairValueRepo,
		producer:      producer,
		logger:        logger,
		lock:          newRunLock(),
	}
}

// CollectAndSave runs one fair value collection pass. Records whose release
// date is not strictly greater than the stored watermark are filtered out
// before persistence, bounding re-ingestion to genuinely new data.
func (s *FairValueService) CollectAndSave(ctx context.Context) (int, error) {
	if !s.lock.TryAcquire() {
		return 0, ErrCollectionInProgress
	}
	defer s.lock.Release()

	started := time.Now()
	s.logger.Info("Starting fair value collection run")

	watermark, err := s.fairValueRepo.MaxReleasedAt(ctx)
	if err != nil {
		publishRunEvent(ctx, s.producer, model.KindFairValue, 0, started, err)
		return 0, err
	}

	records := s.collector.Collect(ctx)
	records = FilterByWatermark(records, watermark)

	if watermark != nil {
		s.logger.Info("Filtered fair values against watermark",
			zap.Time("watermark", *watermark),
			zap.Int("remaining", len(records)))
	}

	if len(records) == 0 {
		s.logger.Info("No new fair value data to persist")
		publishRunEvent(ctx, s.producer, model.KindFairValue, 0, started, nil)
		return 0, nil
	}

	result, err := s.fairValueRepo.UpsertBatch(ctx, records)
	publishRunEvent(ctx, s.producer, model.KindFairValue, result.Total(), started, err)
	if err != nil {
		return 0, err
	}

	s.logger.Info("Fair value collection run completed",
		zap.Int("created", result.Created),
		zap.Int("updated", result.Updated),
		zap.Int("skipped", result.Skipped),
		zap.Duration("duration", time.Since(started)))
	return result.Total(), nil
}

// FilterByWatermark keeps only records released strictly after the
// watermark. A nil watermark keeps everything.
func FilterByWatermark(records []model.FairValueRecord, watermark *time.Time) []model.FairValueRecord {
	if watermark == nil {
		return records
	}
	filtered := make([]model.FairValueRecord, 0, len(records))
	for _, record := range records {
		if record.ReleasedAt.After(*watermark) {
			filtered = append(filtered, record)
		}
	}
	return filtered
}

// GetFairValues returns all persisted fair values
func (s *FairValueService) GetFairValues(ctx context.Context) ([]model.FairValueResponse, error) {
	return s.fairValueRepo.List(ctx)
}
