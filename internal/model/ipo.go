package model

import (
	"time"
)

// IPO represents an IPO announcement persisted in the database.
// Uniqueness is (name, announced_at).
type IPO struct {
	ID          int        `json:"id" db:"id"`
	Name        string     `json:"name" db:"name"`
	NameAR      string     `json:"name_ar" db:"name_ar"`
	URL         string     `json:"url" db:"url"`
	StatusID    *int       `json:"status_id,omitempty" db:"status_id"`
	Attachment  string     `json:"attachment" db:"attachment"`
	TypeID      *int       `json:"type_id,omitempty" db:"type_id"`
	MarketID    *int       `json:"market_id,omitempty" db:"market_id"`
	SectorID    *int       `json:"sector_id,omitempty" db:"sector_id"`
	Volume      *float64   `json:"volume,omitempty" db:"volume"`
	AnnouncedAt *time.Time `json:"announced_at,omitempty" db:"announced_at"`
	StockID     *int       `json:"stock_id,omitempty" db:"stock_id"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at" db:"updated_at"`
}

// IPORecord is a reconciled bilingual IPO announcement. EN and AR partials are
// merged on (url, announced date) before persistence; a record that never
// received an English name cannot be keyed and is dropped upstream.
type IPORecord struct {
	NameEN      string
	NameAR      string
	URL         string
	StatusEN    string
	StatusAR    string
	Attachment  string
	TypeEN      string
	TypeAR      string
	MarketEN    string
	MarketAR    string
	SectorEN    string
	SectorAR    string
	Volume      *float64
	AnnouncedAt *time.Time
	StockSymbol string
}

// IPOResponse is the outward-facing IPO view with joins resolved
type IPOResponse struct {
	ID          int        `json:"id" db:"id"`
	Name        string     `json:"name" db:"name"`
	NameAR      string     `json:"name_ar" db:"name_ar"`
	URL         string     `json:"url" db:"url"`
	StatusEN    *string    `json:"status,omitempty" db:"status_en"`
	StatusAR    *string    `json:"status_ar,omitempty" db:"status_ar"`
	TypeEN      *string    `json:"type,omitempty" db:"type_en"`
	TypeAR      *string    `json:"type_ar,omitempty" db:"type_ar"`
	MarketEN    *string    `json:"market,omitempty" db:"market_en"`
	SectorEN    *string    `json:"sector,omitempty" db:"sector_en"`
	Attachment  string     `json:"attachment" db:"attachment"`
	Volume      *float64   `json:"volume,omitempty" db:"volume"`
	AnnouncedAt *time.Time `json:"announced_at,omitempty" db:"announced_at"`
	StockSymbol *string    `json:"stock_symbol,omitempty" db:"stock_symbol"`
}
