package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/yourorg/egx-collector/internal/config"
	"github.com/yourorg/egx-collector/internal/model"
	"github.com/yourorg/egx-collector/internal/retry"

	"go.uber.org/zap"
)

// APIError is returned when the upstream API answers with a non-2xx status
type APIError struct {
	StatusCode int
	URL        string
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("mubasher API returned status %d for %s: %s", e.StatusCode, e.URL, e.Body)
}

// Retryable reports whether the status is worth retrying; server-side
// failures are, client errors are not.
func (e *APIError) Retryable() bool {
	return e.StatusCode >= 500
}

// MubasherClient handles communication with the bilingual Mubasher API.
// One instance is constructed per process and shared; the pooled transport
// is safe for concurrent use.
type MubasherClient struct {
	englishBase        string
	arabicBase         string
	stocksEndpoint     string
	fairValuesEndpoint string
	iposEndpoint       string
	httpClient         *http.Client
	retryPolicy        *retry.Policy
	logger             *zap.Logger
}

// NewMubasherClient creates a new Mubasher API client
func NewMubasherClient(cfg config.MubasherConfig, retryPolicy *retry.Policy, logger *zap.Logger) *MubasherClient {
	transport := &http.Transport{
		MaxIdleConns:        cfg.MaxIdleConns,
		MaxIdleConnsPerHost: cfg.MaxIdleConns,
		IdleConnTimeout:     cfg.IdleConnTimeout,
	}

	return &MubasherClient{
		englishBase:        cfg.EnglishBase,
		arabicBase:         cfg.ArabicBase,
		stocksEndpoint:     cfg.StocksEndpoint,
		fairValuesEndpoint: cfg.FairValues,
		iposEndpoint:       cfg.IPOs,
		httpClient: &http.Client{
			Timeout:   cfg.RequestTimeout,
			Transport: transport,
		},
		retryPolicy: retryPolicy,
		logger:      logger,
	}
}

// pageURL builds the paginated request URL for a language variant.
// Pagination is size/start based with start = page * size (zero-based pages).
func (c *MubasherClient) pageURL(lang model.Language, endpoint string, page, size int) string {
	base := c.englishBase
	if lang == model.LangArabic {
		base = c.arabicBase
	}
	return base + endpoint +
		"&size=" + strconv.Itoa(size) +
		"&start=" + strconv.Itoa(page*size)
}

// FetchStockPage retrieves one page of the listed-companies endpoint
func (c *MubasherClient) FetchStockPage(ctx context.Context, lang model.Language, page, size int) (*model.StockPage, error) {
	var result model.StockPage
	if err := c.getJSON(ctx, c.pageURL(lang, c.stocksEndpoint, page, size), "fetch stocks page", &result); err != nil {
		return nil, err
	}
	if result.NumberOfPages < 1 {
		result.NumberOfPages = 1
	}
	return &result, nil
}

// FetchFairValuePage retrieves one page of the fairValues endpoint
func (c *MubasherClient) FetchFairValuePage(ctx context.Context, lang model.Language, page, size int) (*model.FairValuePage, error) {
	var result model.FairValuePage
	if err := c.getJSON(ctx, c.pageURL(lang, c.fairValuesEndpoint, page, size), "fetch fair values page", &result); err != nil {
		return nil, err
	}
	if result.NumberOfPages < 1 {
		result.NumberOfPages = 1
	}
	return &result, nil
}

// FetchIPOPage retrieves one page of the ipos endpoint
func (c *MubasherClient) FetchIPOPage(ctx context.Context, lang model.Language, page, size int) (*model.IPOPage, error) {
	var result model.IPOPage
	if err := c.getJSON(ctx, c.pageURL(lang, c.iposEndpoint, page, size), "fetch IPOs page", &result); err != nil {
		return nil, err
	}
	if result.NumberOfPages < 1 {
		result.NumberOfPages = 1
	}
	return &result, nil
}

// getJSON issues a GET through the retry policy and decodes the JSON body
func (c *MubasherClient) getJSON(ctx context.Context, reqURL, operation string, out interface{}) error {
	c.logger.Debug("Calling Mubasher API", zap.String("url", reqURL))

	var body []byte
	err := c.retryPolicy.Do(ctx, operation, func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
		if err != nil {
			return fmt.Errorf("failed to create request: %w", err)
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return fmt.Errorf("failed to fetch %s: %w", reqURL, err)
		}
		defer resp.Body.Close()

		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			bodyBytes, _ := io.ReadAll(resp.Body)
			return &APIError{
				StatusCode: resp.StatusCode,
				URL:        reqURL,
				Body:       string(bodyBytes),
			}
		}

		body, err = io.ReadAll(resp.Body)
		if err != nil {
			return fmt.Errorf("failed to read response body: %w", err)
		}
		return nil
	})
	if err != nil {
		c.logger.Error("Mubasher API request failed",
			zap.String("url", reqURL),
			zap.Error(err))
		return err
	}

	if err := json.Unmarshal(body, out); err != nil {
		c.logger.Error("Failed to decode Mubasher response",
			zap.String("url", reqURL),
			zap.Error(err))
		return fmt.Errorf("failed to decode response from %s: %w", reqURL, err)
	}

	return nil
}
