package collector

import (
	"context"

	"github.com/yourorg/egx-collector/internal/client"
	"github.com/yourorg/egx-collector/internal/config"
	"github.com/yourorg/egx-collector/internal/model"
	"github.com/yourorg/egx-collector/internal/utils"

	"go.uber.org/zap"
)

// FairValueCollector fetches fair-value recommendations from both language
// variants. The variants are not page-aligned: each is paginated through
// independently, and partial records are reconciled afterwards on the
// language-invariant pair (symbol, released date), with same-day
// recommendations from different sources kept apart.
type FairValueCollector struct {
	client *client.MubasherClient
	cfg    config.MubasherConfig
	logger *zap.Logger
}

// NewFairValueCollector creates a new fair value collector
func NewFairValueCollector(client *client.MubasherClient, cfg config.MubasherConfig, logger *zap.Logger) *FairValueCollector {
	return &FairValueCollector{
		client: client,
		cfg:    cfg,
		logger: logger,
	}
}

// fairValueKey groups fair value rows that belong to the same stock and
// release date. Within a group, records are distinguished by their English
// source label: one stock can receive same-day recommendations from several
// sources, and those stay separate records.
type fairValueKey struct {
	symbol     string
	releasedAt int64
}

// Collect fetches all fair value pages from both variants and returns the
// reconciled bilingual records, English first as the primary variant.
func (c *FairValueCollector) Collect(ctx context.Context) []model.FairValueRecord {
	c.logger.Info("Starting fair value collection")

	byKey := make(map[fairValueKey][]*model.FairValueRecord)
	var order []*model.FairValueRecord

	merge := func(lang model.Language, rows []model.FairValueRow) {
		for _, row := range rows {
			record, ok := c.processRow(row, lang)
			if !ok {
				continue
			}

			key := fairValueKey{symbol: record.Symbol, releasedAt: record.ReleasedAt.Unix()}
			target := findMergeTarget(byKey[key], record, lang)
			if target == nil {
				byKey[key] = append(byKey[key], record)
				order = append(order, record)
				continue
			}
			mergeFairValue(target, record, lang)
		}
	}

	c.collectVariant(ctx, model.LangEnglish, merge)
	c.collectVariant(ctx, model.LangArabic, merge)

	records := make([]model.FairValueRecord, 0, len(order))
	for _, record := range order {
		records = append(records, *record)
	}

	c.logger.Info("Fair value collection finished", zap.Int("records", len(records)))
	return records
}

// findMergeTarget picks the record an incoming partial folds into, or nil
// when it starts a new one. English partials match on their source label.
// Arabic source labels are language-variant and cannot be matched by name;
// an Arabic partial pairs with the first record at the key whose Arabic slot
// is still open, which follows the shared upstream feed order.
func findMergeTarget(group []*model.FairValueRecord, incoming *model.FairValueRecord, lang model.Language) *model.FairValueRecord {
	if lang == model.LangEnglish {
		for _, record := range group {
			if record.SourceEN == incoming.SourceEN {
				return record
			}
		}
		return nil
	}
	for _, record := range group {
		if record.SourceAR == "" {
			return record
		}
	}
	return nil
}

// collectVariant pages through one language variant, feeding rows to merge.
// A page-level failure stops this variant only; accumulated rows survive.
func (c *FairValueCollector) collectVariant(ctx context.Context, lang model.Language, merge func(model.Language, []model.FairValueRow)) {
	page := 0
	for {
		resp, err := c.client.FetchFairValuePage(ctx, lang, page, c.cfg.PageSize)
		if err != nil {
			c.logger.Error("Failed to fetch fair values page, stopping variant",
				zap.String("language", string(lang)),
				zap.Int("page", page),
				zap.Error(err))
			return
		}

		if len(resp.Rows) == 0 {
			return
		}

		merge(lang, resp.Rows)

		c.logger.Info("Collected fair values page",
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

// processRow turns one raw row into a partial record. Rows whose URL does
// not carry a symbol, or whose release date cannot be parsed, have no
// resolvable natural key and are dropped with a warning.
func (c *FairValueCollector) processRow(row model.FairValueRow, lang model.Language) (*model.FairValueRecord, bool) {
	symbol := ExtractEGXSymbol(row.URL)
	if symbol == "" {
		c.logger.Warn("Could not extract symbol from fair value URL, dropping row",
			zap.String("url", row.URL))
		return nil, false
	}

	releasedAt, ok := utils.ParseBilingualDate(row.ReleasedAt)
	if !ok {
		c.logger.Warn("Could not parse fair value release date, dropping row",
			zap.String("symbol", symbol),
			zap.String("releasedAt", row.ReleasedAt))
		return nil, false
	}

	record := &model.FairValueRecord{
		Symbol:           symbol,
		ReleasedAt:       releasedAt,
		Value:            row.Value,
		Price:            row.Price,
		LastPrice:        row.LastPrice,
		Change:           row.Change,
		ChangePercentage: row.ChangePercentage,
	}
	if lang == model.LangArabic {
		record.SourceAR = row.Source
		record.RecommendationAR = row.Recommendation
	} else {
		record.SourceEN = row.Source
		record.RecommendationEN = row.Recommendation
	}

	return record, true
}

// mergeFairValue folds an incoming partial record into an existing one.
// Labels land in their language slot; numeric fields prefer the English
// variant and only fill gaps otherwise.
func mergeFairValue(existing, incoming *model.FairValueRecord, lang model.Language) {
	if lang == model.LangArabic {
		if incoming.SourceAR != "" {
			existing.SourceAR = incoming.SourceAR
		}
		if incoming.RecommendationAR != "" {
			existing.RecommendationAR = incoming.RecommendationAR
		}
	} else {
		if incoming.SourceEN != "" {
			existing.SourceEN = incoming.SourceEN
		}
		if incoming.RecommendationEN != "" {
			existing.RecommendationEN = incoming.RecommendationEN
		}
	}

	if existing.Value == nil {
		existing.Value = incoming.Value
	}
	if existing.Price == nil {
		existing.Price = incoming.Price
	}
	if existing.LastPrice == nil {
		existing.LastPrice = incoming.LastPrice
	}
	if existing.Change == nil {
		existing.Change = incoming.Change
	}
	if existing.ChangePercentage == nil {
		existing.ChangePercentage = incoming.ChangePercentage
	}
}
