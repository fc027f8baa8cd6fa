// Package provider implements market data providers for current quotes
// and daily price series, keyed by provider-native symbols.
package provider

import (
	"context"
	"errors"
	"time"

	"cryptodash/internal/models"
)

// Sentinel errors for the failure taxonomy shared by all providers.
// The gateway folds every one of these into a "no data" outcome.
var (
	// ErrSymbolNotFound means the upstream reports no such symbol.
	ErrSymbolNotFound = errors.New("symbol not found")
	// ErrUpstreamUnavailable covers network errors, timeouts, and non-2xx responses.
	ErrUpstreamUnavailable = errors.New("upstream unavailable")
	// ErrInsufficientData means fewer data points than a derived statistic requires.
	ErrInsufficientData = errors.New("insufficient data points")
)

// Quote is a current price with its 24h percent change.
type Quote struct {
	Symbol    string
	Price     float64
	Change24h float64
	Currency  string
}

// SeriesPoint is one daily sample of a price series. Providers that only
// supply close prices leave the other OHLC fields zero.
type SeriesPoint struct {
	Time   time.Time
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume int64
}

// Provider fetches market data for the asset kinds it supports.
// Implementations must honor the request context and never panic on
// malformed upstream payloads.
type Provider interface {
	// Name returns the provider's display name (e.g., "CoinGecko").
	Name() string

	// Supports returns true if this provider serves the given asset kind.
	Supports(kind models.AssetKind) bool

	// Quote fetches the current price and 24h change for a symbol.
	Quote(ctx context.Context, symbol string) (*Quote, error)

	// Series fetches a daily price series covering at least the given
	// number of days (plus any provider-side buffer), oldest first.
	Series(ctx context.Context, symbol string, days int) ([]SeriesPoint, error)
}
