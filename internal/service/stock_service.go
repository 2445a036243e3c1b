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

// StockService orchestrates stock collection: fetch both language variants,
// reconcile, persist the full snapshot idempotently by symbol.
type StockService struct {
	collector *collector.StockCollector
	stockRepo *repository.StockRepository
	producer  *kafka.Producer
	logger    *zap.Logger
	lock      *runLock
}

// NewStockService creates a new stock service
func NewStockService(collector *collector.StockCollector, stockRepo *repository.StockRepository, producer *kafka.Producer, logger *zap.Logger) *StockService {
	return &StockService{
		collector: collector,
		stockRepo: stockRepo,
		producer:  producer,
		logger:    logger,
		lock:      newRunLock(),
	}
}

// CollectAndSave runs one full stock collection pass and returns the number
// of rows written. At most one stock run executes at a time.
func (s *StockService) CollectAndSave(ctx context.Context) (int, error) {
	if !s.lock.TryAcquire() {
		return 0, ErrCollectionInProgress
	}
	defer s.lock.Release()

	started := time.Now()
	s.logger.Info("Starting stock collection run")

	records := s.collector.Collect(ctx)
	if len(records) == 0 {
		s.logger.Warn("No stock data collected")
		publishRunEvent(ctx, s.producer, model.KindStock, 0, started, nil)
		return 0, nil
	}

	result, err := s.stockRepo.UpsertBatch(ctx, records)
	publishRunEvent(ctx, s.producer, model.KindStock, result.Total(), started, err)
	if err != nil {
		return 0, err
	}

	s.logger.Info("Stock collection run completed",
		zap.Int("created", result.Created),
		zap.Int("updated", result.Updated),
		zap.Duration("duration", time.Since(started)))
	return result.Total(), nil
}

// GetStocks returns all active stocks from the database
func (s *StockService) GetStocks(ctx context.Context) ([]model.StockResponse, error) {
	return s.stockRepo.GetActiveStocks(ctx)
}
