package model

import (
	"time"
)

// Lookup is a name-keyed dictionary row with paired English/Arabic labels.
// Sectors, markets, sources, source types, recommendations, IPO types and
// IPO statuses all share this shape. Rows are created lazily on first
// sighting of a name and never updated afterwards.
type Lookup struct {
	ID        int       `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	NameAR    string    `json:"name_ar" db:"name_ar"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// Lookup table names
const (
	TableSectors         = "sectors"
	TableMarkets         = "markets"
	TableSources         = "sources"
	TableSourceTypes     = "source_types"
	TableRecommendations = "recommendations"
	TableIPOTypes        = "ipo_types"
	TableIPOStatuses     = "ipo_statuses"
)

// Default source type attached to sources created during fair value
// collection. Fixed labels, not user-configurable.
const (
	DefaultSourceTypeEN = "financial services companies"
	DefaultSourceTypeAR = "شركات خدمات مالية"
)
