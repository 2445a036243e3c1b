package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/yourorg/egx-collector/internal/model"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

// FairValueRepository handles database operations for fair value
// recommendations
type FairValueRepository struct {
	db      *sqlx.DB
	lookups *LookupRepository
	stocks  *StockRepository
	logger  *zap.Logger
}

// NewFairValueRepository creates a new fair value repository
func NewFairValueRepository(db *sqlx.DB, lookups *LookupRepository, stocks *StockRepository, logger *zap.Logger) *FairValueRepository {
	return &FairValueRepository{
		db:      db,
		lookups: lookups,
		stocks:  stocks,
		logger:  logger,
	}
}

// MaxReleasedAt returns the high-water mark of already-persisted fair
// values, or nil when the table is empty.
func (r *FairValueRepository) MaxReleasedAt(ctx context.Context) (*time.Time, error) {
	var max sql.NullTime
	err := r.db.GetContext(ctx, &max, `SELECT MAX(released_at) FROM fair_values`)
	if err != nil {
		r.logger.Error("Failed to get fair value watermark", zap.Error(err))
		return nil, err
	}
	if !max.Valid {
		return nil, nil
	}
	t := max.Time
	return &t, nil
}

// UpsertBatch persists reconciled fair value records in one transaction.
// Records whose stock symbol is unknown are skipped with a warning; a
// placeholder stock is never created. Uniqueness is
// (stock_id, released_at, source_id).
func (r *FairValueRepository) UpsertBatch(ctx context.Context, records []model.FairValueRecord) (model.UpsertResult, error) {
	var result model.UpsertResult

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return result, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, record := range records {
		stockID, err := r.stocks.GetIDBySymbol(ctx, tx, record.Symbol)
		if err != nil {
			return model.UpsertResult{}, err
		}
		if stockID == nil {
			r.logger.Warn("Stock not found for fair value, skipping record",
				zap.String("symbol", record.Symbol))
			result.Skipped++
			continue
		}

		var sourceID, recommendationID *int
		if record.SourceEN != "" {
			id, err := r.lookups.GetOrCreateSource(ctx, tx, record.SourceEN, record.SourceAR)
			if err != nil {
				return model.UpsertResult{}, err
			}
			sourceID = &id
		}
		if record.RecommendationEN != "" {
			id, err := r.lookups.GetOrCreate(ctx, tx, model.TableRecommendations, record.RecommendationEN, record.RecommendationAR)
			if err != nil {
				return model.UpsertResult{}, err
			}
			recommendationID = &id
		}

		var existingID int
		err = tx.GetContext(ctx, &existingID, `
			SELECT id FROM fair_values
			WHERE stock_id = $1
			  AND released_at = $2
			  AND source_id IS NOT DISTINCT FROM $3
		`, *stockID, record.ReleasedAt, sourceID)
		if err != nil && err != sql.ErrNoRows {
			return model.UpsertResult{}, fmt.Errorf("failed to look up fair value: %w", err)
		}

		if err == sql.ErrNoRows {
			insert := `
				INSERT INTO fair_values (
					stock_id, released_at, source_id, recommendation_id,
					value, price, last_price, change, change_percentage,
					created_at, updated_at
				) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW(), NOW())
			`
			_, err = tx.ExecContext(ctx, insert,
				*stockID, record.ReleasedAt, sourceID, recommendationID,
				record.Value, record.Price, record.LastPrice, record.Change,
				record.ChangePercentage,
			)
			if err != nil {
				return model.UpsertResult{}, fmt.Errorf("failed to insert fair value for %q: %w", record.Symbol, err)
			}
			result.Created++
			continue
		}

		update := `
			UPDATE fair_values SET
				recommendation_id = $1, value = $2, price = $3,
				last_price = $4, change = $5, change_percentage = $6,
				updated_at = NOW()
			WHERE id = $7
		`
		_, err = tx.ExecContext(ctx, update,
			recommendationID, record.Value, record.Price, record.LastPrice,
			record.Change, record.ChangePercentage, existingID,
		)
		if err != nil {
			return model.UpsertResult{}, fmt.Errorf("failed to update fair value for %q: %w", record.Symbol, err)
		}
		result.Updated++
	}

	if err := tx.Commit(); err != nil {
		return model.UpsertResult{}, fmt.Errorf("failed to commit fair value batch: %w", err)
	}

	r.logger.Info("Saved fair value batch",
		zap.Int("created", result.Created),
		zap.Int("updated", result.Updated),
		zap.Int("skipped", result.Skipped))
	return result, nil
}

// List retrieves all fair values joined with their stock and lookups,
// newest first
func (r *FairValueRepository) List(ctx context.Context) ([]model.FairValueResponse, error) {
	query := `
		SELECT
			fv.id, s.symbol, fv.released_at,
			src.name AS source_en, src.name_ar AS source_ar,
			rec.name AS recommendation_en, rec.name_ar AS recommendation_ar,
			m.name AS market_en, sec.name AS sector_en,
			fv.value, fv.price, fv.last_price, fv.change, fv.change_percentage
		FROM fair_values fv
		JOIN stocks s ON s.id = fv.stock_id
		LEFT JOIN sources src ON src.id = fv.source_id
		LEFT JOIN recommendations rec ON rec.id = fv.recommendation_id
		LEFT JOIN markets m ON m.id = s.market_id
		LEFT JOIN sectors sec ON sec.id = s.sector_id
		ORDER BY fv.released_at DESC
	`

	var fairValues []model.FairValueResponse
	if err := r.db.SelectContext(ctx, &fairValues, query); err != nil {
		r.logger.Error("Failed to list fair values", zap.Error(err))
		return nil, err
	}
	return fairValues, nil
}
