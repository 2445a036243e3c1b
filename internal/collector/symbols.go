package collector

import (
	"net/url"
	"strings"
)

// ExtractEGXSymbol extracts a stock symbol from a Mubasher stock URL.
// Only paths of the form .../markets/EGX/stocks/<symbol> carry a symbol;
// anything else yields "" (no symbol, not an error).
func ExtractEGXSymbol(rawURL string) string {
	parts := splitPath(rawURL)
	for i := 0; i+3 < len(parts); i++ {
		if parts[i] == "markets" && parts[i+1] == "EGX" && parts[i+2] == "stocks" {
			return parts[i+3]
		}
	}
	return ""
}

// ExtractSymbolAfterStocks extracts the path segment directly following a
// "stocks" segment, the looser pattern used by IPO announcement URLs.
func ExtractSymbolAfterStocks(rawURL string) string {
	parts := splitPath(rawURL)
	for i, part := range parts {
		if part == "stocks" && i+1 < len(parts) {
			return parts[i+1]
		}
	}
	return ""
}

// splitPath returns the cleaned path segments of a URL or bare path
func splitPath(rawURL string) []string {
	if rawURL == "" {
		return nil
	}
	path := rawURL
	if u, err := url.Parse(rawURL); err == nil && u.Path != "" {
		path = u.Path
	}
	path = strings.Trim(path, "/")
	if path == "" {
		return nil
	}
	return strings.Split(path, "/")
}
