package collector

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractEGXSymbol(t *testing.T) {
	t.Run("extracts symbol from markets path", func(t *testing.T) {
		assert.Equal(t, "COMI", ExtractEGXSymbol("https://english.mubasher.info/markets/EGX/stocks/COMI"))
	})

	t.Run("extracts symbol from relative path", func(t *testing.T) {
		assert.Equal(t, "HRHO", ExtractEGXSymbol("/markets/EGX/stocks/HRHO"))
	})

	t.Run("ignores trailing segments after the symbol", func(t *testing.T) {
		assert.Equal(t, "COMI", ExtractEGXSymbol("/markets/EGX/stocks/COMI/fair-values"))
	})

	t.Run("returns empty for other markets", func(t *testing.T) {
		assert.Equal(t, "", ExtractEGXSymbol("/markets/TDWL/stocks/1120"))
	})

	t.Run("returns empty for unrelated paths", func(t *testing.T) {
		assert.Equal(t, "", ExtractEGXSymbol("/news/12345"))
		assert.Equal(t, "", ExtractEGXSymbol(""))
		assert.Equal(t, "", ExtractEGXSymbol("/markets/EGX/stocks"))
	})
}

func TestExtractSymbolAfterStocks(t *testing.T) {
	t.Run("extracts segment after stocks", func(t *testing.T) {
		assert.Equal(t, "COMI", ExtractSymbolAfterStocks("/ipo/stocks/COMI/announcement"))
	})

	t.Run("matches any market prefix", func(t *testing.T) {
		assert.Equal(t, "1120", ExtractSymbolAfterStocks("/markets/TDWL/stocks/1120"))
	})

	t.Run("returns empty without a stocks segment", func(t *testing.T) {
		assert.Equal(t, "", ExtractSymbolAfterStocks("/news/12345"))
		assert.Equal(t, "", ExtractSymbolAfterStocks("/stocks"))
	})
}
