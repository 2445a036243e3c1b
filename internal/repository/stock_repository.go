package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/yourorg/egx-collector/internal/model"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

// StockRepository handles database operations for stocks
type StockRepository struct {
	db      *sqlx.DB
	lookups *LookupRepository
	logger  *zap.Logger
}

// NewStockRepository creates a new stock repository
func NewStockRepository(db *sqlx.DB, lookups *LookupRepository, logger *zap.Logger) *StockRepository {
	return &StockRepository{
		db:      db,
		lookups: lookups,
		logger:  logger,
	}
}

// UpsertBatch persists reconciled stock records in one transaction:
// sector/market lookups are resolved or created, then each stock is matched
// by symbol and updated in place or inserted. Any failure rolls the whole
// batch back.
func (r *StockRepository) UpsertBatch(ctx context.Context, records []model.StockRecord) (model.UpsertResult, error) {
	var result model.UpsertResult

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return result, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, record := range records {
		created, err := r.upsertOne(ctx, tx, record)
		if err != nil {
			r.logger.Error("Failed to upsert stock, rolling back batch",
				zap.String("symbol", record.Symbol),
				zap.Error(err))
			return model.UpsertResult{}, err
		}
		if created {
			result.Created++
		} else {
			result.Updated++
		}
	}

	if err := tx.Commit(); err != nil {
		return model.UpsertResult{}, fmt.Errorf("failed to commit stock batch: %w", err)
	}

	r.logger.Info("Saved stock batch",
		zap.Int("created", result.Created),
		zap.Int("updated", result.Updated))
	return result, nil
}

func (r *StockRepository) upsertOne(ctx context.Context, tx *sqlx.Tx, record model.StockRecord) (bool, error) {
	var sectorID, marketID *int
	if record.SectorEN != "" {
		id, err := r.lookups.GetOrCreate(ctx, tx, model.TableSectors, record.SectorEN, record.SectorAR)
		if err != nil {
			return false, err
		}
		sectorID = &id
	}
	if record.MarketEN != "" {
		id, err := r.lookups.GetOrCreate(ctx, tx, model.TableMarkets, record.MarketEN, record.MarketAR)
		if err != nil {
			return false, err
		}
		marketID = &id
	}

	currency := record.Currency
	if currency == "" {
		currency = "EGP"
	}

	var existingID int
	err := tx.GetContext(ctx, &existingID, `SELECT id FROM stocks WHERE symbol = $1`, record.Symbol)
	if err != nil && err != sql.ErrNoRows {
		return false, fmt.Errorf("failed to look up stock %q: %w", record.Symbol, err)
	}

	if err == sql.ErrNoRows {
		insert := `
			INSERT INTO stocks (
				symbol, name_en, name_ar, sector_id, market_id, currency,
				profile_url, current_price, change_percentage, last_update,
				is_active, created_at, updated_at
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, TRUE, NOW(), NOW())
		`
		_, err = tx.ExecContext(ctx, insert,
			record.Symbol, record.NameEN, record.NameAR, sectorID, marketID,
			currency, record.ProfileURL, record.CurrentPrice,
			record.ChangePercentage, record.LastUpdate,
		)
		if err != nil {
			return false, fmt.Errorf("failed to insert stock %q: %w", record.Symbol, err)
		}
		return true, nil
	}

	update := `
		UPDATE stocks SET
			name_en = $1, name_ar = $2, sector_id = $3, market_id = $4,
			currency = $5, profile_url = $6, current_price = $7,
			change_percentage = $8, last_update = $9, is_active = TRUE,
			updated_at = NOW()
		WHERE id = $10
	`
	_, err = tx.ExecContext(ctx, update,
		record.NameEN, record.NameAR, sectorID, marketID, currency,
		record.ProfileURL, record.CurrentPrice, record.ChangePercentage,
		record.LastUpdate, existingID,
	)
	if err != nil {
		return false, fmt.Errorf("failed to update stock %q: %w", record.Symbol, err)
	}
	return false, nil
}

// GetActiveStocks retrieves all active stocks with lookup labels resolved
func (r *StockRepository) GetActiveStocks(ctx context.Context) ([]model.StockResponse, error) {
	query := `
		SELECT
			s.symbol, s.name_en, s.name_ar,
			COALESCE(sec.name, '') AS sector_en,
			COALESCE(sec.name_ar, '') AS sector_ar,
			COALESCE(m.name, '') AS market_en,
			COALESCE(m.name_ar, '') AS market_ar,
			s.currency, s.profile_url, s.current_price,
			s.change_percentage, s.last_update, s.is_active
		FROM stocks s
		LEFT JOIN sectors sec ON sec.id = s.sector_id
		LEFT JOIN markets m ON m.id = s.market_id
		WHERE s.is_active = TRUE
		ORDER BY s.symbol
	`

	var stocks []model.StockResponse
	if err := r.db.SelectContext(ctx, &stocks, query); err != nil {
		r.logger.Error("Failed to get active stocks", zap.Error(err))
		return nil, err
	}
	return stocks, nil
}

// GetIDBySymbol resolves a stock id by its symbol inside a transaction.
// Returns nil when the symbol is unknown.
func (r *StockRepository) GetIDBySymbol(ctx context.Context, tx *sqlx.Tx, symbol string) (*int, error) {
	var id int
	err := tx.GetContext(ctx, &id, `SELECT id FROM stocks WHERE symbol = $1`, symbol)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up stock %q: %w", symbol, err)
	}
	return &id, nil
}
