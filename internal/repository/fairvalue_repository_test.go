package repository

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/yourorg/egx-collector/internal/model"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newMockDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return sqlx.NewDb(db, "sqlmock"), mock
}

func newFairValueRepo(db *sqlx.DB) *FairValueRepository {
	logger := zap.NewNop()
	lookups := NewLookupRepository(logger)
	stocks := NewStockRepository(db, lookups, logger)
	return NewFairValueRepository(db, lookups, stocks, logger)
}

func floatPtr(v float64) *float64 { return &v }

func TestFairValueRepositoryMaxReleasedAt(t *testing.T) {
	t.Run("returns nil for an empty table", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectQuery("SELECT MAX\\(released_at\\) FROM fair_values").
			WillReturnRows(sqlmock.NewRows([]string{"max"}).AddRow(nil))

		watermark, err := newFairValueRepo(db).MaxReleasedAt(context.Background())
		require.NoError(t, err)
		assert.Nil(t, watermark)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns the newest release date", func(t *testing.T) {
		db, mock := newMockDB(t)
		newest := time.Date(2024, time.June, 10, 0, 0, 0, 0, time.UTC)
		mock.ExpectQuery("SELECT MAX\\(released_at\\) FROM fair_values").
			WillReturnRows(sqlmock.NewRows([]string{"max"}).AddRow(newest))

		watermark, err := newFairValueRepo(db).MaxReleasedAt(context.Background())
		require.NoError(t, err)
		require.NotNil(t, watermark)
		assert.Equal(t, newest, *watermark)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestFairValueRepositoryUpsertBatch(t *testing.T) {
	releasedAt := time.Date(2024, time.June, 10, 0, 0, 0, 0, time.UTC)

	record := model.FairValueRecord{
		Symbol:           "COMI",
		ReleasedAt:       releasedAt,
		SourceEN:         "HC Securities",
		SourceAR:         "إتش سي",
		RecommendationEN: "Buy",
		RecommendationAR: "شراء",
		Value:            floatPtr(95),
	}

	t.Run("inserts a new fair value", func(t *testing.T) {
		db, mock := newMockDB(t)

		mock.ExpectBegin()
		mock.ExpectQuery("SELECT id FROM stocks WHERE symbol").
			WithArgs("COMI").
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(7))
		mock.ExpectQuery("SELECT id FROM sources WHERE name").
			WithArgs("HC Securities").
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(3))
		mock.ExpectQuery("SELECT id FROM recommendations WHERE name").
			WithArgs("Buy").
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(5))
		mock.ExpectQuery("SELECT id FROM fair_values").
			WillReturnError(sql.ErrNoRows)
		mock.ExpectExec("INSERT INTO fair_values").
			WillReturnResult(sqlmock.NewResult(1, 1))
		mock.ExpectCommit()

		result, err := newFairValueRepo(db).UpsertBatch(context.Background(), []model.FairValueRecord{record})
		require.NoError(t, err)
		assert.Equal(t, 1, result.Created)
		assert.Equal(t, 0, result.Updated)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("updates an existing fair value in place", func(t *testing.T) {
		db, mock := newMockDB(t)

		mock.ExpectBegin()
		mock.ExpectQuery("SELECT id FROM stocks WHERE symbol").
			WithArgs("COMI").
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(7))
		mock.ExpectQuery("SELECT id FROM sources WHERE name").
			WithArgs("HC Securities").
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(3))
		mock.ExpectQuery("SELECT id FROM recommendations WHERE name").
			WithArgs("Buy").
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(5))
		mock.ExpectQuery("SELECT id FROM fair_values").
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(42))
		mock.ExpectExec("UPDATE fair_values").
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		result, err := newFairValueRepo(db).UpsertBatch(context.Background(), []model.FairValueRecord{record})
		require.NoError(t, err)
		assert.Equal(t, 0, result.Created)
		assert.Equal(t, 1, result.Updated)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("skips records whose stock is unknown", func(t *testing.T) {
		db, mock := newMockDB(t)

		mock.ExpectBegin()
		mock.ExpectQuery("SELECT id FROM stocks WHERE symbol").
			WithArgs("COMI").
			WillReturnError(sql.ErrNoRows)
		mock.ExpectCommit()

		result, err := newFairValueRepo(db).UpsertBatch(context.Background(), []model.FairValueRecord{record})
		require.NoError(t, err)
		assert.Equal(t, 1, result.Skipped)
		assert.Equal(t, 0, result.Created)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("creates missing lookup rows before inserting", func(t *testing.T) {
		db, mock := newMockDB(t)

		mock.ExpectBegin()
		mock.ExpectQuery("SELECT id FROM stocks WHERE symbol").
			WithArgs("COMI").
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(7))
		// source missing: resolve default type then create the source
		mock.ExpectQuery("SELECT id FROM sources WHERE name").
			WithArgs("HC Securities").
			WillReturnError(sql.ErrNoRows)
		mock.ExpectQuery("SELECT id FROM source_types WHERE name").
			WithArgs(model.DefaultSourceTypeEN).
			WillReturnError(sql.ErrNoRows)
		mock.ExpectQuery("INSERT INTO source_types").
			WithArgs(model.DefaultSourceTypeEN, model.DefaultSourceTypeAR).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
		mock.ExpectQuery("INSERT INTO sources").
			WithArgs("HC Securities", "إتش سي", 1).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(3))
		mock.ExpectQuery("SELECT id FROM recommendations WHERE name").
			WithArgs("Buy").
			WillReturnError(sql.ErrNoRows)
		mock.ExpectQuery("INSERT INTO recommendations").
			WithArgs("Buy", "شراء").
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(5))
		mock.ExpectQuery("SELECT id FROM fair_values").
			WillReturnError(sql.ErrNoRows)
		mock.ExpectExec("INSERT INTO fair_values").
			WillReturnResult(sqlmock.NewResult(1, 1))
		mock.ExpectCommit()

		result, err := newFairValueRepo(db).UpsertBatch(context.Background(), []model.FairValueRecord{record})
		require.NoError(t, err)
		assert.Equal(t, 1, result.Created)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rolls back the batch on insert failure", func(t *testing.T) {
		db, mock := newMockDB(t)

		mock.ExpectBegin()
		mock.ExpectQuery("SELECT id FROM stocks WHERE symbol").
			WithArgs("COMI").
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(7))
		mock.ExpectQuery("SELECT id FROM sources WHERE name").
			WithArgs("HC Securities").
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(3))
		mock.ExpectQuery("SELECT id FROM recommendations WHERE name").
			WithArgs("Buy").
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(5))
		mock.ExpectQuery("SELECT id FROM fair_values").
			WillReturnError(sql.ErrNoRows)
		mock.ExpectExec("INSERT INTO fair_values").
			WillReturnError(errors.New("constraint violation"))
		mock.ExpectRollback()

		_, err := newFairValueRepo(db).UpsertBatch(context.Background(), []model.FairValueRecord{record})
		require.Error(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
