package collector

import (
	"context"
	"time"

	"github.com/yourorg/egx-collector/internal/client"
	"github.com/yourorg/egx-collector/internal/config"
	"github.com/yourorg/egx-collector/internal/model"
	"github.com/yourorg/egx-collector/internal/utils"

	"go.uber.org/zap"
)

// StockCollector fetches listed companies from both language variants and
// merges them into bilingual records. The merge is page-aligned: both
// variants of the same page are fetched together before merging, keyed by
// symbol, because the English lookup is built per page.
type StockCollector struct {
	client *client.MubasherClient
	cfg    config.MubasherConfig
	logger *zap.Logger
}

// NewStockCollector creates a new stock collector
func NewStockCollector(client *client.MubasherClient, cfg config.MubasherConfig, logger *zap.Logger) *StockCollector {
	return &StockCollector{
		client: client,
		cfg:    cfg,
		logger: logger,
	}
}

// Collect fetches all stock pages and returns the merged bilingual records.
// A page-level failure stops the run and returns whatever was accumulated.
func (c *StockCollector) Collect(ctx context.Context) []model.StockRecord {
	c.logger.Info("Starting stock collection")

	var records []model.StockRecord
	page := 0

	for {
		enPage, arPage, err := c.fetchPagePair(ctx, page)
		if err != nil {
			c.logger.Error("Failed to fetch stock page, stopping collection",
				zap.Int("page", page),
				zap.Error(err))
			break
		}

		merged := c.mergePage(enPage, arPage)
		records = append(records, merged...)

		totalPages := enPage.NumberOfPages
		if arPage.NumberOfPages > totalPages {
			totalPages = arPage.NumberOfPages
		}

		c.logger.Info("Collected stock page",
			zap.Int("page", page+1),
			zap.Int("totalPages", totalPages),
			zap.Int("merged", len(merged)))

		if len(enPage.Rows) == 0 && len(arPage.Rows) == 0 {
			break
		}
		if page+1 >= totalPages {
			break
		}
		if c.cfg.MaxPages > 0 && page+1 >= c.cfg.MaxPages {
			break
		}

		page++

		if !sleepBetweenPages(ctx, c.cfg.RequestDelay) {
			break
		}
	}

	c.logger.Info("Stock collection finished", zap.Int("records", len(records)))
	return records
}

// fetchPagePair fetches the English and Arabic variants of one page
// concurrently and waits for both.
func (c *StockCollector) fetchPagePair(ctx context.Context, page int) (*model.StockPage, *model.StockPage, error) {
	type result struct {
		page *model.StockPage
		err  error
	}

	enCh := make(chan result, 1)
	arCh := make(chan result, 1)

	go func() {
		p, err := c.client.FetchStockPage(ctx, model.LangEnglish, page, c.cfg.PageSize)
		enCh <- result{page: p, err: err}
	}()
	go func() {
		p, err := c.client.FetchStockPage(ctx, model.LangArabic, page, c.cfg.PageSize)
		arCh <- result{page: p, err: err}
	}()

	en := <-enCh
	ar := <-arCh

	if en.err != nil {
		return nil, nil, en.err
	}
	if ar.err != nil {
		return nil, nil, ar.err
	}
	return en.page, ar.page, nil
}

// mergePage merges one Arabic page against the English page of the same
// index. English is the primary display language; an Arabic-only symbol is
// dropped with a warning.
func (c *StockCollector) mergePage(enPage, arPage *model.StockPage) []model.StockRecord {
	enBySymbol := make(map[string]model.StockRow, len(enPage.Rows))
	for _, row := range enPage.Rows {
		enBySymbol[row.Symbol] = row
	}

	merged := make([]model.StockRecord, 0, len(arPage.Rows))
	for _, arRow := range arPage.Rows {
		enRow, ok := enBySymbol[arRow.Symbol]
		if !ok {
			c.logger.Warn("No English data found for Arabic stock, dropping row",
				zap.String("symbol", arRow.Symbol))
			continue
		}

		record := model.StockRecord{
			Symbol:           arRow.Symbol,
			NameEN:           enRow.Name,
			NameAR:           arRow.Name,
			SectorEN:         enRow.Sector,
			SectorAR:         arRow.Sector,
			MarketEN:         enRow.Market,
			MarketAR:         arRow.Market,
			Currency:         firstNonEmpty(enRow.Currency, arRow.Currency, "EGP"),
			ProfileURL:       firstNonEmpty(enRow.ProfileURL, arRow.ProfileURL),
			CurrentPrice:     enRow.Price,
			ChangePercentage: enRow.ChangePercentage,
		}
		if record.MarketEN == "" {
			record.MarketEN = "Egyptian Stock Exchange"
		}
		if record.MarketAR == "" {
			record.MarketAR = "البورصة المصرية"
		}

		lastUpdateStr := firstNonEmpty(enRow.LastUpdate, arRow.LastUpdate)
		if lastUpdateStr != "" {
			if lastUpdate, ok := utils.ParseBilingualDate(lastUpdateStr); ok {
				record.LastUpdate = &lastUpdate
			} else {
				c.logger.Warn("Failed to parse stock last update date",
					zap.String("symbol", arRow.Symbol),
					zap.String("lastUpdate", lastUpdateStr))
			}
		}

		merged = append(merged, record)
	}

	return merged
}

// firstNonEmpty returns the first non-empty string
func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// sleepBetweenPages applies the inter-request courtesy delay. Returns false
// if the context was cancelled while waiting.
func sleepBetweenPages(ctx context.Context, delay time.Duration) bool {
	if delay <= 0 {
		return true
	}
	select {
	case <-time.After(delay):
		return true
	case <-ctx.Done():
		return false
	}
}
