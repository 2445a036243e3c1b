package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/yourorg/egx-collector/internal/config"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newInfoRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	cfg := &config.Config{
		Mubasher: config.MubasherConfig{
			EnglishBase:    "https://english.mubasher.info/",
			ArabicBase:     "https://www.mubasher.info/",
			StocksEndpoint: "api/1/listed-companies?country=eg",
			FairValues:     "api/1/fairValues?country=eg",
			IPOs:           "api/1/ipos?country=eg",
			PageSize:       30,
			RequestDelay:   time.Second,
		},
		Retry: config.RetryConfig{
			MaxAttempts:   3,
			BaseDelay:     time.Second,
			MaxDelay:      30 * time.Second,
			BackoffFactor: 2.0,
		},
	}

	h := NewInfoHandler(cfg)
	router := gin.New()
	router.GET("/", h.Root)
	router.GET("/api/v1/config", h.Config)
	return router
}

func TestInfoHandlerRoot(t *testing.T) {
	router := newInfoRouter()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Service   string            `json:"service"`
		Version   string            `json:"version"`
		Endpoints map[string]string `json:"endpoints"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "egx-collector", body.Service)
	assert.NotEmpty(t, body.Version)
	assert.Contains(t, body.Endpoints, "collect_stocks")
	assert.Contains(t, body.Endpoints, "get_fair_values")
	assert.Contains(t, body.Endpoints, "collect_ipos_sync")
}

func TestInfoHandlerConfig(t *testing.T) {
	router := newInfoRouter()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/config", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Service string `json:"service"`
		Config  struct {
			Mubasher map[string]interface{} `json:"mubasher"`
			Retry    map[string]interface{} `json:"retry"`
		} `json:"config"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "egx-collector", body.Service)
	assert.Equal(t, "https://english.mubasher.info/", body.Config.Mubasher["englishBase"])
	assert.Equal(t, float64(30), body.Config.Mubasher["pageSize"])
	assert.Equal(t, float64(3), body.Config.Retry["maxAttempts"])
	assert.Equal(t, "1s", body.Config.Retry["baseDelay"])

	// connection settings stay private
	raw := map[string]interface{}{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &raw))
	cfgSection := raw["config"].(map[string]interface{})
	assert.NotContains(t, cfgSection, "database")
	assert.NotContains(t, cfgSection, "kafka")
}
