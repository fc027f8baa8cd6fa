package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"cryptodash/internal/models"
)

const defaultCoinGeckoURL = "https://api.coingecko.com/api/v3"

// CoinGeckoProvider fetches crypto prices from CoinGecko. Symbols are
// CoinGecko coin identifiers (lowercase slugs, e.g. "bitcoin").
type CoinGeckoProvider struct {
	httpClient *http.Client
	baseURL    string // overridable for tests
}

// NewCoinGeckoProvider creates a new CoinGecko provider. An empty
// baseURL selects the public API.
func NewCoinGeckoProvider(httpClient *http.Client, baseURL string) *CoinGeckoProvider {
	if baseURL == "" {
		baseURL = defaultCoinGeckoURL
	}
	return &CoinGeckoProvider{httpClient: httpClient, baseURL: baseURL}
}

// Name returns the provider's display name.
func (p *CoinGeckoProvider) Name() string { return "CoinGecko" }

// Supports returns true for the crypto asset kind only.
func (p *CoinGeckoProvider) Supports(kind models.AssetKind) bool {
	return kind == models.AssetKindCrypto
}

// simplePriceEntry is one coin's entry in the /simple/price response.
type simplePriceEntry struct {
	USD       float64  `json:"usd"`
	Change24h *float64 `json:"usd_24h_change"`
}

// Quote fetches the current USD price and 24h change for a coin.
func (p *CoinGeckoProvider) Quote(ctx context.Context, symbol string) (*Quote, error) {
	q := url.Values{}
	q.Set("ids", symbol)
	q.Set("vs_currencies", "usd")
	q.Set("include_24hr_change", "true")

	var body map[string]simplePriceEntry
	if err := p.getJSON(ctx, p.baseURL+"/simple/price?"+q.Encode(), &body); err != nil {
		return nil, err
	}

	entry, ok := body[symbol]
	if !ok {
		return nil, fmt.Errorf("coingecko: %s: %w", symbol, ErrSymbolNotFound)
	}

	quote := &Quote{
		Symbol:   symbol,
		Price:    entry.USD,
		Currency: "USD",
	}
	if entry.Change24h != nil {
		quote.Change24h = *entry.Change24h
	}
	return quote, nil
}

// marketChartResponse is the /coins/{id}/market_chart response. Prices
// are [millisecond timestamp, price] pairs.
type marketChartResponse struct {
	Prices [][2]float64 `json:"prices"`
}

// Series fetches a daily close-price series for a coin, oldest first.
func (p *CoinGeckoProvider) Series(ctx context.Context, symbol string, days int) ([]SeriesPoint, error) {
	q := url.Values{}
	q.Set("vs_currency", "usd")
	q.Set("days", strconv.Itoa(days))
	q.Set("interval", "daily")

	var body marketChartResponse
	endpoint := fmt.Sprintf("%s/coins/%s/market_chart?%s", p.baseURL, url.PathEscape(symbol), q.Encode())
	if err := p.getJSON(ctx, endpoint, &body); err != nil {
		return nil, err
	}

	if len(body.Prices) == 0 {
		return nil, fmt.Errorf("coingecko: %s: no price data: %w", symbol, ErrSymbolNotFound)
	}

	points := make([]SeriesPoint, 0, len(body.Prices))
	for _, pair := range body.Prices {
		points = append(points, SeriesPoint{
			Time:  time.UnixMilli(int64(pair[0])).UTC(),
			Close: pair[1],
		})
	}
	return points, nil
}

// getJSON performs a GET request and decodes the JSON response into v.
func (p *CoinGeckoProvider) getJSON(ctx context.Context, endpoint string, v interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("coingecko: building request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("coingecko: %w: %v", ErrUpstreamUnavailable, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusNotFound {
		return fmt.Errorf("coingecko: status 404: %w", ErrSymbolNotFound)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("coingecko: %w: unexpected status %d", ErrUpstreamUnavailable, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("coingecko: %w: decoding response: %v", ErrUpstreamUnavailable, err)
	}
	return nil
}
