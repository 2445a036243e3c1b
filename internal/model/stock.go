package model

import (
	"time"
)

// Stock represents a listed company persisted in the database
type Stock struct {
	ID               int        `json:"id" db:"id"`
	Symbol           string     `json:"symbol" db:"symbol"`
	NameEN           string     `json:"name_en" db:"name_en"`
	NameAR           string     `json:"name_ar" db:"name_ar"`
	SectorID         *int       `json:"sector_id,omitempty" db:"sector_id"`
	MarketID         *int       `json:"market_id,omitempty" db:"market_id"`
	Currency         string     `json:"currency" db:"currency"`
	ProfileURL       string     `json:"profile_url" db:"profile_url"`
	CurrentPrice     *float64   `json:"current_price,omitempty" db:"current_price"`
	ChangePercentage *float64   `json:"change_percentage,omitempty" db:"change_percentage"`
	LastUpdate       *time.Time `json:"last_update,omitempty" db:"last_update"`
	IsActive         bool       `json:"is_active" db:"is_active"`
	CreatedAt        time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at" db:"updated_at"`
}

// StockRecord is a reconciled bilingual stock snapshot, merged from the
// English and Arabic page results before persistence
type StockRecord struct {
	Symbol           string
	NameEN           string
	NameAR           string
	SectorEN         string
	SectorAR         string
	MarketEN         string
	MarketAR         string
	Currency         string
	ProfileURL       string
	CurrentPrice     *float64
	ChangePercentage *float64
	LastUpdate       *time.Time
}

// StockResponse is the outward-facing stock view with lookup labels resolved
type StockResponse struct {
	Symbol           string     `json:"symbol" db:"symbol"`
	NameEN           string     `json:"name_en" db:"name_en"`
	NameAR           string     `json:"name_ar" db:"name_ar"`
	SectorEN         string     `json:"sector_en" db:"sector_en"`
	SectorAR         string     `json:"sector_ar" db:"sector_ar"`
	MarketEN         string     `json:"market_en" db:"market_en"`
	MarketAR         string     `json:"market_ar" db:"market_ar"`
	Currency         string     `json:"currency" db:"currency"`
	ProfileURL       string     `json:"profile_url" db:"profile_url"`
	CurrentPrice     *float64   `json:"current_price,omitempty" db:"current_price"`
	ChangePercentage *float64   `json:"change_percentage,omitempty" db:"change_percentage"`
	LastUpdate       *time.Time `json:"last_update,omitempty" db:"last_update"`
	IsActive         bool       `json:"is_active" db:"is_active"`
}
