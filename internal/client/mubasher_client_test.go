package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/yourorg/egx-collector/internal/config"
	"github.com/yourorg/egx-collector/internal/model"
	"github.com/yourorg/egx-collector/internal/retry"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newClientForServer(t *testing.T, srv *httptest.Server, maxAttempts int) *MubasherClient {
	t.Helper()
	cfg := config.MubasherConfig{
		EnglishBase:    srv.URL + "/en/",
		ArabicBase:     srv.URL + "/ar/",
		StocksEndpoint: "api/1/listed-companies?country=eg",
		FairValues:     "api/1/fairValues?country=eg",
		IPOs:           "api/1/ipos?country=eg",
		RequestTimeout: 5 * time.Second,
	}
	policy := retry.NewPolicy(maxAttempts, time.Millisecond, 10*time.Millisecond, 2.0, zap.NewNop())
	return NewMubasherClient(cfg, policy, zap.NewNop())
}

func TestMubasherClientPagination(t *testing.T) {
	var gotURL string
	var mu sync.Mutex
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		gotURL = r.URL.String()
		mu.Unlock()
		w.Write([]byte(`{"rows": [{"symbol": "COMI"}], "numberOfPages": 4}`))
	}))
	t.Cleanup(srv.Close)

	c := newClientForServer(t, srv, 1)

	t.Run("start is page times size", func(t *testing.T) {
		page, err := c.FetchStockPage(context.Background(), model.LangEnglish, 2, 30)
		require.NoError(t, err)
		assert.Equal(t, 4, page.NumberOfPages)
		require.Len(t, page.Rows, 1)

		mu.Lock()
		defer mu.Unlock()
		assert.Equal(t, "/en/api/1/listed-companies?country=eg&size=30&start=60", gotURL)
	})

	t.Run("Arabic variant uses the Arabic base", func(t *testing.T) {
		_, err := c.FetchFairValuePage(context.Background(), model.LangArabic, 0, 30)
		require.NoError(t, err)

		mu.Lock()
		defer mu.Unlock()
		assert.Equal(t, "/ar/api/1/fairValues?country=eg&size=30&start=0", gotURL)
	})
}

func TestMubasherClientErrors(t *testing.T) {
	t.Run("missing envelope fields default to one page", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"rows": []}`))
		}))
		t.Cleanup(srv.Close)

		page, err := newClientForServer(t, srv, 1).FetchIPOPage(context.Background(), model.LangEnglish, 0, 30)
		require.NoError(t, err)
		assert.Equal(t, 1, page.NumberOfPages)
	})

	t.Run("client errors are not retried", func(t *testing.T) {
		var calls int
		var mu sync.Mutex
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			mu.Lock()
			calls++
			mu.Unlock()
			w.WriteHeader(http.StatusNotFound)
		}))
		t.Cleanup(srv.Close)

		_, err := newClientForServer(t, srv, 3).FetchStockPage(context.Background(), model.LangEnglish, 0, 30)
		require.Error(t, err)

		var apiErr *APIError
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)
		assert.False(t, apiErr.Retryable())

		mu.Lock()
		defer mu.Unlock()
		assert.Equal(t, 1, calls)
	})

	t.Run("server errors are retried up to the attempt cap", func(t *testing.T) {
		var calls int
		var mu sync.Mutex
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			mu.Lock()
			calls++
			mu.Unlock()
			w.WriteHeader(http.StatusBadGateway)
		}))
		t.Cleanup(srv.Close)

		_, err := newClientForServer(t, srv, 3).FetchStockPage(context.Background(), model.LangEnglish, 0, 30)
		require.Error(t, err)

		var apiErr *APIError
		require.ErrorAs(t, err, &apiErr)
		assert.True(t, apiErr.Retryable())

		mu.Lock()
		defer mu.Unlock()
		assert.Equal(t, 3, calls)
	})

	t.Run("retry recovers from a transient server error", func(t *testing.T) {
		var calls int
		var mu sync.Mutex
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			mu.Lock()
			calls++
			failing := calls == 1
			mu.Unlock()
			if failing {
				w.WriteHeader(http.StatusInternalServerError)
				return
			}
			w.Write([]byte(`{"rows": [], "numberOfPages": 1}`))
		}))
		t.Cleanup(srv.Close)

		page, err := newClientForServer(t, srv, 3).FetchStockPage(context.Background(), model.LangEnglish, 0, 30)
		require.NoError(t, err)
		assert.Equal(t, 1, page.NumberOfPages)
	})

	t.Run("malformed JSON is an error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`not json`))
		}))
		t.Cleanup(srv.Close)

		_, err := newClientForServer(t, srv, 1).FetchStockPage(context.Background(), model.LangEnglish, 0, 30)
		assert.Error(t, err)
	})
}
