package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/yourorg/egx-collector/internal/model"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

// IPORepository handles database operations for IPO announcements
type IPORepository struct {
	db      *sqlx.DB
	lookups *LookupRepository
	stocks  *StockRepository
	logger  *zap.Logger
}

// NewIPORepository creates a new IPO repository
func NewIPORepository(db *sqlx.DB, lookups *LookupRepository, stocks *StockRepository, logger *zap.Logger) *IPORepository {
	return &IPORepository{
		db:      db,
		lookups: lookups,
		stocks:  stocks,
		logger:  logger,
	}
}

// UpsertBatch persists reconciled IPO records in one transaction.
// Uniqueness is (name, announced_at). The stock reference is optional: an
// unknown symbol leaves it null rather than skipping the record.
func (r *IPORepository) UpsertBatch(ctx context.Context, records []model.IPORecord) (model.UpsertResult, error) {
	var result model.UpsertResult

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return result, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, record := range records {
		created, err := r.upsertOne(ctx, tx, record)
		if err != nil {
			r.logger.Error("Failed to upsert IPO, rolling back batch",
				zap.String("name", record.NameEN),
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
		return model.UpsertResult{}, fmt.Errorf("failed to commit IPO batch: %w", err)
	}

	r.logger.Info("Saved IPO batch",
		zap.Int("created", result.Created),
		zap.Int("updated", result.Updated))
	return result, nil
}

func (r *IPORepository) upsertOne(ctx context.Context, tx *sqlx.Tx, record model.IPORecord) (bool, error) {
	var statusID, typeID, marketID, sectorID *int

	if record.StatusEN != "" {
		id, err := r.lookups.GetOrCreate(ctx, tx, model.TableIPOStatuses, record.StatusEN, record.StatusAR)
		if err != nil {
			return false, err
		}
		statusID = &id
	}
	if record.TypeEN != "" {
		id, err := r.lookups.GetOrCreate(ctx, tx, model.TableIPOTypes, record.TypeEN, record.TypeAR)
		if err != nil {
			return false, err
		}
		typeID = &id
	}
	if record.MarketEN != "" {
		id, err := r.lookups.GetOrCreate(ctx, tx, model.TableMarkets, record.MarketEN, record.MarketAR)
		if err != nil {
			return false, err
		}
		marketID = &id
	}
	if record.SectorEN != "" {
		id, err := r.lookups.GetOrCreate(ctx, tx, model.TableSectors, record.SectorEN, record.SectorAR)
		if err != nil {
			return false, err
		}
		sectorID = &id
	}

	var stockID *int
	if record.StockSymbol != "" {
		id, err := r.stocks.GetIDBySymbol(ctx, tx, record.StockSymbol)
		if err != nil {
			return false, err
		}
		stockID = id
	}

	var existingID int
	err := tx.GetContext(ctx, &existingID, `
		SELECT id FROM ipos WHERE name = $1 AND announced_at = $2
	`, record.NameEN, record.AnnouncedAt)
	if err != nil && err != sql.ErrNoRows {
		return false, fmt.Errorf("failed to look up IPO %q: %w", record.NameEN, err)
	}

	if err == sql.ErrNoRows {
		insert := `
			INSERT INTO ipos (
				name, name_ar, url, status_id, attachment, type_id,
				market_id, sector_id, volume, announced_at, stock_id,
				created_at, updated_at
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, NOW(), NOW())
		`
		_, err = tx.ExecContext(ctx, insert,
			record.NameEN, record.NameAR, record.URL, statusID,
			record.Attachment, typeID, marketID, sectorID, record.Volume,
			record.AnnouncedAt, stockID,
		)
		if err != nil {
			return false, fmt.Errorf("failed to insert IPO %q: %w", record.NameEN, err)
		}
		return true, nil
	}

	update := `
		UPDATE ipos SET
			name_ar = $1, url = $2, status_id = $3, attachment = $4,
			type_id = $5, market_id = $6, sector_id = $7, volume = $8,
			stock_id = $9, updated_at = NOW()
		WHERE id = $10
	`
	_, err = tx.ExecContext(ctx, update,
		record.NameAR, record.URL, statusID, record.Attachment, typeID,
		marketID, sectorID, record.Volume, stockID, existingID,
	)
	if err != nil {
		return false, fmt.Errorf("failed to update IPO %q: %w", record.NameEN, err)
	}
	return false, nil
}

// List retrieves all IPOs joined with their lookups, newest first
func (r *IPORepository) List(ctx context.Context) ([]model.IPOResponse, error) {
	query := `
		SELECT
			i.id, i.name, i.name_ar, i.url,
			st.name AS status_en, st.name_ar AS status_ar,
			t.name AS type_en, t.name_ar AS type_ar,
			m.name AS market_en, sec.name AS sector_en,
			i.attachment, i.volume, i.announced_at,
			s.symbol AS stock_symbol
		FROM ipos i
		LEFT JOIN ipo_statuses st ON st.id = i.status_id
		LEFT JOIN ipo_types t ON t.id = i.type_id
		LEFT JOIN markets m ON m.id = i.market_id
		LEFT JOIN sectors sec ON sec.id = i.sector_id
		LEFT JOIN stocks s ON s.id = i.stock_id
		ORDER BY i.announced_at DESC
	`

	var ipos []model.IPOResponse
	if err := r.db.SelectContext(ctx, &ipos, query); err != nil {
		r.logger.Error("Failed to list IPOs", zap.Error(err))
		return nil, err
	}
	return ipos, nil
}
