package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/yourorg/egx-collector/internal/model"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

// LookupRepository resolves name-keyed dictionary rows (sectors, markets,
// sources, recommendations, IPO types/statuses), creating them lazily on
// first sighting. All operations run inside the caller's transaction so
// lookup creation shares the batch's atomicity.
type LookupRepository struct {
	logger *zap.Logger
}

// NewLookupRepository creates a new lookup repository
func NewLookupRepository(logger *zap.Logger) *LookupRepository {
	return &LookupRepository{logger: logger}
}

// lookup tables are named by constants in the model package; never
// interpolate caller-supplied strings here
var validLookupTables = map[string]bool{
	model.TableSectors:         true,
	model.TableMarkets:         true,
	model.TableSourceTypes:     true,
	model.TableRecommendations: true,
	model.TableIPOTypes:        true,
	model.TableIPOStatuses:     true,
}

// GetOrCreate returns the id of the lookup row with the given name,
// creating it with the paired Arabic label when absent. Existing rows are
// never updated.
func (r *LookupRepository) GetOrCreate(ctx context.Context, tx *sqlx.Tx, table, name, nameAR string) (int, error) {
	if !validLookupTables[table] {
		return 0, fmt.Errorf("unknown lookup table: %s", table)
	}

	var id int
	query := fmt.Sprintf(`SELECT id FROM %s WHERE name = $1`, table)
	err := tx.GetContext(ctx, &id, query, name)
	if err == nil {
		return id, nil
	}
	if err != sql.ErrNoRows {
		return 0, fmt.Errorf("failed to look up %s %q: %w", table, name, err)
	}

	insert := fmt.Sprintf(`INSERT INTO %s (name, name_ar) VALUES ($1, $2) RETURNING id`, table)
	if err := tx.GetContext(ctx, &id, insert, name, nameAR); err != nil {
		return 0, fmt.Errorf("failed to create %s %q: %w", table, name, err)
	}

	r.logger.Debug("Created lookup row",
		zap.String("table", table),
		zap.String("name", name))
	return id, nil
}

// GetOrCreateSource resolves a source by name, creating it when absent.
// New sources are attached to the fixed default source type.
func (r *LookupRepository) GetOrCreateSource(ctx context.Context, tx *sqlx.Tx, name, nameAR string) (int, error) {
	var id int
	err := tx.GetContext(ctx, &id, `SELECT id FROM sources WHERE name = $1`, name)
	if err == nil {
		return id, nil
	}
	if err != sql.ErrNoRows {
		return 0, fmt.Errorf("failed to look up source %q: %w", name, err)
	}

	typeID, err := r.GetOrCreate(ctx, tx, model.TableSourceTypes, model.DefaultSourceTypeEN, model.DefaultSourceTypeAR)
	if err != nil {
		return 0, err
	}

	insert := `INSERT INTO sources (name, name_ar, type_id) VALUES ($1, $2, $3) RETURNING id`
	if err := tx.GetContext(ctx, &id, insert, name, nameAR, typeID); err != nil {
		return 0, fmt.Errorf("failed to create source %q: %w", name, err)
	}

	r.logger.Debug("Created source", zap.String("name", name))
	return id, nil
}
