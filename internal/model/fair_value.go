package model

import (
	"time"
)

// FairValue represents a fair-value recommendation persisted in the database.
// Uniqueness is (stock_id, released_at, source_id).
type FairValue struct {
	ID               int       `json:"id" db:"id"`
	StockID          int       `json:"stock_id" db:"stock_id"`
	ReleasedAt       time.Time `json:"released_at" db:"released_at"`
	SourceID         *int      `json:"source_id,omitempty" db:"source_id"`
	RecommendationID *int      `json:"recommendation_id,omitempty" db:"recommendation_id"`
	Value            *float64  `json:"value,omitempty" db:"value"`
	Price            *float64  `json:"price,omitempty" db:"price"`
	LastPrice        *float64  `json:"last_price,omitempty" db:"last_price"`
	Change           *float64  `json:"change,omitempty" db:"change"`
	ChangePercentage *float64  `json:"change_percentage,omitempty" db:"change_percentage"`
	CreatedAt        time.Time `json:"created_at" db:"created_at"`
	UpdatedAt        time.Time `json:"updated_at" db:"updated_at"`
}

// FairValueRecord is a reconciled bilingual fair-value row. The natural key
// (symbol, released date) is language-invariant; the EN and AR feed variants
// each fill their half of the label pairs.
type FairValueRecord struct {
	Symbol           string
	ReleasedAt       time.Time
	SourceEN         string
	SourceAR         string
	RecommendationEN string
	RecommendationAR string
	Value            *float64
	Price            *float64
	LastPrice        *float64
	Change           *float64
	ChangePercentage *float64
}

// FairValueResponse is the outward-facing fair value view with joins resolved
type FairValueResponse struct {
	ID               int       `json:"id" db:"id"`
	Symbol           string    `json:"symbol" db:"symbol"`
	ReleasedAt       time.Time `json:"released_at" db:"released_at"`
	SourceEN         *string   `json:"source,omitempty" db:"source_en"`
	SourceAR         *string   `json:"source_ar,omitempty" db:"source_ar"`
	RecommendationEN *string   `json:"recommendation,omitempty" db:"recommendation_en"`
	RecommendationAR *string   `json:"recommendation_ar,omitempty" db:"recommendation_ar"`
	MarketEN         *string   `json:"market,omitempty" db:"market_en"`
	SectorEN         *string   `json:"sector,omitempty" db:"sector_en"`
	Value            *float64  `json:"value,omitempty" db:"value"`
	Price            *float64  `json:"price,omitempty" db:"price"`
	LastPrice        *float64  `json:"last_price,omitempty" db:"last_price"`
	Change           *float64  `json:"change,omitempty" db:"change"`
	ChangePercentage *float64  `json:"change_percentage,omitempty" db:"change_percentage"`
}
