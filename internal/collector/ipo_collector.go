package collector

import (
	"context"

	"github.com/yourorg/egx-collector/internal/client"
	"github.com/yourorg/egx-collector/internal/config"
	"github.com/yourorg/egx-collector/internal/model"
	"github.com/yourorg/egx-collector/internal/utils"

	"go.uber.org/zap"
)

// IPOCollector fetches IPO announcements from both language variants and
// reconciles them on (url, announced date), the only fields shared between
// variants. Records that end up without an English name cannot satisfy the
// persistence key (name, announced_at) and are dropped.
type IPOCollector struct {
	client *client.MubasherClient
	cfg    config.MubasherConfig
	logger *zap.Logger
}

// NewIPOCollector creates a new IPO collector
func NewIPOCollector(client *client.MubasherClient, cfg config.MubasherConfig, logger *zap.Logger) *IPOCollector {
	return &IPOCollector{
		client: client,
		cfg:    cfg,
		logger: logger,
	}
}

// ipoKey is the language-invariant reconciliation key of an IPO row
type ipoKey struct {
	url         string
	announcedAt int64
}

// Collect fetches all IPO pages from both variants and returns the
// reconciled bilingual records.
func (c *IPOCollector) Collect(ctx context.Context) []model.IPORecord {
	c.logger.Info("Starting IPO collection")

	byKey := make(map[ipoKey]*model.IPORecord)
	var order []ipoKey

	merge := func(lang model.Language, rows []model.IPORow) {
		for _, row := range rows {
			record, ok := c.processRow(row, lang)
			if !ok {
				continue
			}

			key := ipoKey{url: record.URL, announcedAt: record.AnnouncedAt.Unix()}
			existing, found := byKey[key]
			if !found {
				byKey[key] = record
				order = append(order, key)
				continue
			}
			mergeIPO(existing, record, lang)
		}
	}

	c.collectVariant(ctx, model.LangEnglish, merge)
	c.collectVariant(ctx, model.LangArabic, merge)

	records := make([]model.IPORecord, 0, len(order))
	for _, key := range order {
		record := byKey[key]
		if record.NameEN == "" {
			c.logger.Warn("IPO record has no English name, dropping",
				zap.String("url", record.URL),
				zap.String("nameAr", record.NameAR))
			continue
		}
		records = append(records, *record)
	}

	c.logger.Info("IPO collection finished", zap.Int("records", len(records)))
	return records
}

// collectVariant pages through one language variant, feeding rows to merge
func (c *IPOCollector) collectVariant(ctx context.Context, lang model.Language, merge func(model.Language, []model.IPORow)) {
	page := 0
	for {
		resp, err := c.client.FetchIPOPage(ctx, lang, page, c.cfg.PageSize)
		if err != nil {
			c.logger.Error("Failed to fetch IPOs page, stopping variant",
				zap.String("language", string(lang)),
				zap.Int("page", page),
				zap.Error(err))
			return
		}

		if len(resp.Rows) == 0 {
			return
		}

		merge(lang, resp.Rows)

		c.logger.Info("Collected IPOs page",
			zap.String("language", string(lang)),
			zap.Int("page", page+1),
			zap.Int("totalPages", resp.NumberOfPages),
			zap.Int("rows", len(resp.Rows)))

		if page+1 >= resp.NumberOfPages {
			return
		}
		if c.cfg.MaxPages > 0 && page+1 >= c.cfg.MaxPages {
			return
		}

		page++

		if !sleepBetweenPages(ctx, c.cfg.RequestDelay) {
			return
		}
	}
}

// processRow turns one raw row into a partial record. Rows without a
// parseable announcement date cannot be keyed and are dropped with a
// warning.
func (c *IPOCollector) processRow(row model.IPORow, lang model.Language) (*model.IPORecord, bool) {
	announcedAt, ok := utils.ParseBilingualDate(row.AnnouncedAt)
	if !ok {
		c.logger.Warn("Could not parse IPO announcement date, dropping row",
			zap.String("name", row.Name),
			zap.String("announcedAt", row.AnnouncedAt))
		return nil, false
	}

	record := &model.IPORecord{
		URL:         row.URL,
		Attachment:  row.Attachment,
		Volume:      row.Volume,
		AnnouncedAt: &announcedAt,
		StockSymbol: ExtractSymbolAfterStocks(row.URL),
	}
	if lang == model.LangArabic {
		record.NameAR = row.Name
		record.StatusAR = row.Status
		record.TypeAR = row.Type
		record.MarketAR = row.Market
		record.SectorAR = row.Sector
	} else {
		record.NameEN = row.Name
		record.StatusEN = row.Status
		record.TypeEN = row.Type
		record.MarketEN = row.Market
		record.SectorEN = row.Sector
	}

	return record, true
}

// mergeIPO folds an incoming partial record into an existing one
func mergeIPO(existing, incoming *model.IPORecord, lang model.Language) {
	if lang == model.LangArabic {
		setIfEmpty(&existing.NameAR, incoming.NameAR)
		setIfEmpty(&existing.StatusAR, incoming.StatusAR)
		setIfEmpty(&existing.TypeAR, incoming.TypeAR)
		setIfEmpty(&existing.MarketAR, incoming.MarketAR)
		setIfEmpty(&existing.SectorAR, incoming.SectorAR)
	} else {
		setIfEmpty(&existing.NameEN, incoming.NameEN)
		setIfEmpty(&existing.StatusEN, incoming.StatusEN)
		setIfEmpty(&existing.TypeEN, incoming.TypeEN)
		setIfEmpty(&existing.MarketEN, incoming.MarketEN)
		setIfEmpty(&existing.SectorEN, incoming.SectorEN)
	}

	setIfEmpty(&existing.Attachment, incoming.Attachment)
	setIfEmpty(&existing.StockSymbol, incoming.StockSymbol)
	if existing.Volume == nil {
		existing.Volume = incoming.Volume
	}
}

// setIfEmpty assigns value to dst only when dst is empty
func setIfEmpty(dst *string, value string) {
	if *dst == "" && value != "" {
		*dst = value
	}
}
