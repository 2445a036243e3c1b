package model

// Language identifies one of the two upstream feed variants
type Language string

const (
	LangEnglish Language = "en"
	LangArabic  Language = "ar"
)

// StockRow is one listed-company row as returned by the upstream API
type StockRow struct {
	Symbol           string   `json:"symbol"`
	Name             string   `json:"name"`
	Sector           string   `json:"sector"`
	Market           string   `json:"market"`
	Currency         string   `json:"currency"`
	ProfileURL       string   `json:"profileUrl"`
	Price            *float64 `json:"price"`
	ChangePercentage *float64 `json:"changePercentage"`
	LastUpdate       string   `json:"lastUpdate"`
}

// StockPage is one page of the listed-companies endpoint
type StockPage struct {
	Rows          []StockRow `json:"rows"`
	NumberOfPages int        `json:"numberOfPages"`
}

// FairValueRow is one fair-value recommendation row as returned by the upstream API
type FairValueRow struct {
	URL              string   `json:"url"`
	ReleasedAt       string   `json:"releasedAt"`
	Source           string   `json:"source"`
	Recommendation   string   `json:"recommendation"`
	Value            *float64 `json:"value"`
	Price            *float64 `json:"price"`
	LastPrice        *float64 `json:"lastPrice"`
	Change           *float64 `json:"change"`
	ChangePercentage *float64 `json:"changePercentage"`
}

// FairValuePage is one page of the fairValues endpoint
type FairValuePage struct {
	Rows          []FairValueRow `json:"rows"`
	NumberOfPages int            `json:"numberOfPages"`
}

// IPORow is one IPO announcement row as returned by the upstream API
type IPORow struct {
	Name        string   `json:"name"`
	URL         string   `json:"url"`
	Status      string   `json:"status"`
	Attachment  string   `json:"attachment"`
	Type        string   `json:"type"`
	Market      string   `json:"market"`
	Sector      string   `json:"sector"`
	Volume      *float64 `json:"volume"`
	AnnouncedAt string   `json:"announcedAt"`
}

// IPOPage is one page of the ipos endpoint
type IPOPage struct {
	Rows          []IPORow `json:"rows"`
	NumberOfPages int      `json:"numberOfPages"`
}
