// Package market routes price requests to the right upstream provider,
// with a read-through cache for current quotes and best-effort
// persistence of historical series.
package market

import (
	"context"
	"errors"
	"fmt"
	"time"

	"cryptodash/internal/assets"
	"cryptodash/internal/logger"
	"cryptodash/internal/models"
	"cryptodash/internal/provider"
)

// ErrNoData is the single failure outcome the gateway exposes: the
// symbol has no data from any applicable provider. Upstream errors,
// absent symbols, and too-short series all fold into it.
var ErrNoData = errors.New("no market data available")

// seriesBufferDays is added to historical requests to absorb weekends
// and holidays before truncating to the requested window.
const seriesBufferDays = 5

// Gateway resolves a symbol to an asset kind and fetches its market
// data from the matching provider. Crypto and non-crypto routes never
// cross; unknown symbols walk the fallback list in order.
type Gateway struct {
	classifier *assets.Classifier
	crypto     provider.Provider
	listed     provider.Provider
	fallbacks  []provider.Provider
	cache      *CacheStore
	history    *HistoryStore
	cacheTTL   time.Duration
}

// NewGateway creates a Gateway. cacheTTL bounds how long a current
// quote may be served from cache.
func NewGateway(
	classifier *assets.Classifier,
	crypto provider.Provider,
	listed provider.Provider,
	cache *CacheStore,
	history *HistoryStore,
	cacheTTL time.Duration,
) *Gateway {
	return &Gateway{
		classifier: classifier,
		crypto:     crypto,
		listed:     listed,
		// A symbol classified as unknown is definitively not a known
		// crypto, so only the non-crypto strategy is attempted.
		fallbacks: []provider.Provider{listed},
		cache:     cache,
		history:   history,
		cacheTTL:  cacheTTL,
	}
}

// GetAssetData returns current data for a symbol. days == 1 yields a
// (cached) current quote; days > 1 yields an uncached series truncated
// to the days most-recent points. Every failure surfaces as ErrNoData.
func (g *Gateway) GetAssetData(ctx context.Context, symbol string, days int) (*models.AssetData, error) {
	kind, providerSymbol := g.classifier.Resolve(symbol)

	if kind == models.AssetKindUnknown {
		return g.fetchUnknown(ctx, providerSymbol, days)
	}

	var p provider.Provider
	if kind == models.AssetKindCrypto {
		p = g.crypto
	} else {
		p = g.listed
	}
	if p == nil || !p.Supports(kind) {
		return nil, fmt.Errorf("%s: no provider for kind %s: %w", symbol, kind, ErrNoData)
	}

	return g.fetch(ctx, p, kind, providerSymbol, days)
}

// fetchUnknown tries each fallback strategy in order and short-circuits
// on the first provider that returns data, tagging the result with the
// kind inferred from the ticker's shape.
func (g *Gateway) fetchUnknown(ctx context.Context, providerSymbol string, days int) (*models.AssetData, error) {
	for _, p := range g.fallbacks {
		data, err := g.fetch(ctx, p, g.classifier.DiscoveredKind(providerSymbol), providerSymbol, days)
		if err == nil {
			return data, nil
		}
	}
	return nil, fmt.Errorf("%s: all fallback providers failed: %w", providerSymbol, ErrNoData)
}

func (g *Gateway) fetch(ctx context.Context, p provider.Provider, kind models.AssetKind, symbol string, days int) (*models.AssetData, error) {
	if days <= 1 {
		return g.currentQuote(ctx, p, kind, symbol)
	}
	return g.historical(ctx, p, kind, symbol, days)
}

// currentQuote serves a quote from the cache when fresh, otherwise
// fetches, caches, and returns it. This is the only cached path.
func (g *Gateway) currentQuote(ctx context.Context, p provider.Provider, kind models.AssetKind, symbol string) (*models.AssetData, error) {
	if cached, ok := g.cache.Get(symbol); ok {
		return cached, nil
	}

	quote, err := p.Quote(ctx, symbol)
	if err != nil {
		logger.Get().Warnw("quote fetch failed",
			"provider", p.Name(), "symbol", symbol, "error", err)
		return nil, fmt.Errorf("%s: %w", symbol, ErrNoData)
	}

	data := &models.AssetData{
		Symbol:         symbol,
		AssetKind:      kind,
		CurrentPrice:   quote.Price,
		PriceChange24h: quote.Change24h,
		Currency:       quote.Currency,
	}

	if err := g.cache.Put(symbol, data, g.cacheTTL); err != nil {
		// Cache write failures degrade to uncached reads.
		logger.Get().Warnw("cache write failed", "symbol", symbol, "error", err)
	}
	return data, nil
}

// historical fetches a buffered daily series, truncates it to the
// requested window, and derives the current price and 24h change from
// the tail. Persisting the points is best-effort.
func (g *Gateway) historical(ctx context.Context, p provider.Provider, kind models.AssetKind, symbol string, days int) (*models.AssetData, error) {
	points, err := p.Series(ctx, symbol, days+seriesBufferDays)
	if err != nil {
		logger.Get().Warnw("series fetch failed",
			"provider", p.Name(), "symbol", symbol, "days", days, "error", err)
		return nil, fmt.Errorf("%s: %w", symbol, ErrNoData)
	}

	if len(points) > days {
		points = points[len(points)-days:]
	}
	if len(points) == 0 {
		return nil, fmt.Errorf("%s: empty series: %w", symbol, ErrNoData)
	}

	if err := g.history.SaveSeries(symbol, points); err != nil {
		logger.Get().Warnw("historical persistence failed", "symbol", symbol, "error", err)
	}

	currentPrice := points[len(points)-1].Close
	change := 0.0
	if len(points) >= 2 {
		prev := points[len(points)-2].Close
		if prev != 0 {
			change = (currentPrice - prev) / prev * 100
		}
	}

	prices := make([]models.PricePoint, len(points))
	for i, point := range points {
		prices[i] = models.PricePoint{
			Timestamp: point.Time.UnixMilli(),
			Price:     point.Close,
		}
	}

	currency := "USD"
	if kind != models.AssetKindCrypto {
		currency = provider.CurrencyFor(symbol)
	}

	return &models.AssetData{
		Symbol:         symbol,
		AssetKind:      kind,
		CurrentPrice:   currentPrice,
		PriceChange24h: change,
		Currency:       currency,
		Prices:         prices,
	}, nil
}
