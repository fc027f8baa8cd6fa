package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"cryptodash/internal/models"
)

const (
	defaultYahooChartURL = "https://query1.finance.yahoo.com/v8/finance/chart"
	yahooUA              = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7)"

	// quoteLookbackDays is the window requested for a current quote.
	// Five calendar days guarantee at least two trading-day closes.
	quoteLookbackDays = 5
)

// YahooProvider fetches stock and FII prices from the Yahoo Finance v8
// chart API. Symbols are exchange tickers, e.g. "PETR4.SA".
type YahooProvider struct {
	httpClient *http.Client
	baseURL    string // overridable for tests
}

// NewYahooProvider creates a new Yahoo Finance provider. An empty
// baseURL selects the public API.
func NewYahooProvider(httpClient *http.Client, baseURL string) *YahooProvider {
	if baseURL == "" {
		baseURL = defaultYahooChartURL
	}
	return &YahooProvider{httpClient: httpClient, baseURL: baseURL}
}

// Name returns the provider's display name.
func (p *YahooProvider) Name() string { return "Yahoo Finance" }

// Supports returns true for listed instruments: stocks and FIIs.
// Unknown symbols are also routed here as the documented fallback.
func (p *YahooProvider) Supports(kind models.AssetKind) bool {
	switch kind {
	case models.AssetKindStock, models.AssetKindFund, models.AssetKindUnknown:
		return true
	default:
		return false
	}
}

// chartResponse is the Yahoo v8 chart payload, reduced to the fields we read.
type chartResponse struct {
	Chart struct {
		Result []struct {
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Open   []*float64 `json:"open"`
					High   []*float64 `json:"high"`
					Low    []*float64 `json:"low"`
					Close  []*float64 `json:"close"`
					Volume []*int64   `json:"volume"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

// Quote fetches the last close and computes the 24h change from the
// previous trading day's close.
func (p *YahooProvider) Quote(ctx context.Context, symbol string) (*Quote, error) {
	points, err := p.fetchChart(ctx, symbol, quoteLookbackDays)
	if err != nil {
		return nil, err
	}
	if len(points) < 2 {
		return nil, fmt.Errorf("yahoo: %s: need 2 closes for change, got %d: %w",
			symbol, len(points), ErrInsufficientData)
	}

	last := points[len(points)-1]
	prev := points[len(points)-2]
	change := 0.0
	if prev.Close != 0 {
		change = (last.Close - prev.Close) / prev.Close * 100
	}

	return &Quote{
		Symbol:    symbol,
		Price:     last.Close,
		Change24h: change,
		Currency:  CurrencyFor(symbol),
	}, nil
}

// Series fetches a daily OHLC series covering the given number of days,
// oldest first.
func (p *YahooProvider) Series(ctx context.Context, symbol string, days int) ([]SeriesPoint, error) {
	points, err := p.fetchChart(ctx, symbol, days)
	if err != nil {
		return nil, err
	}
	if len(points) == 0 {
		return nil, fmt.Errorf("yahoo: %s: empty series: %w", symbol, ErrSymbolNotFound)
	}
	return points, nil
}

// fetchChart requests daily candles for the trailing window and converts
// them to series points, skipping null candles (halted days).
func (p *YahooProvider) fetchChart(ctx context.Context, symbol string, days int) ([]SeriesPoint, error) {
	end := time.Now()
	start := end.AddDate(0, 0, -days)

	q := url.Values{}
	q.Set("period1", strconv.FormatInt(start.Unix(), 10))
	q.Set("period2", strconv.FormatInt(end.Unix(), 10))
	q.Set("interval", "1d")

	endpoint := fmt.Sprintf("%s/%s?%s", p.baseURL, url.PathEscape(symbol), q.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("yahoo: building request: %w", err)
	}
	req.Header.Set("User-Agent", yahooUA)

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("yahoo: %w: %v", ErrUpstreamUnavailable, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("yahoo: status 404: %w", ErrSymbolNotFound)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("yahoo: %w: unexpected status %d", ErrUpstreamUnavailable, resp.StatusCode)
	}

	var body chartResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("yahoo: %w: decoding response: %v", ErrUpstreamUnavailable, err)
	}

	if body.Chart.Error != nil {
		return nil, fmt.Errorf("yahoo: %s: %s: %w", symbol, body.Chart.Error.Description, ErrSymbolNotFound)
	}
	if len(body.Chart.Result) == 0 || len(body.Chart.Result[0].Indicators.Quote) == 0 {
		return nil, fmt.Errorf("yahoo: %s: empty result: %w", symbol, ErrSymbolNotFound)
	}

	result := body.Chart.Result[0]
	quote := result.Indicators.Quote[0]

	points := make([]SeriesPoint, 0, len(result.Timestamp))
	for i, ts := range result.Timestamp {
		if i >= len(quote.Close) || quote.Close[i] == nil {
			continue
		}
		point := SeriesPoint{
			Time:  time.Unix(ts, 0).UTC(),
			Close: *quote.Close[i],
		}
		if i < len(quote.Open) && quote.Open[i] != nil {
			point.Open = *quote.Open[i]
		}
		if i < len(quote.High) && quote.High[i] != nil {
			point.High = *quote.High[i]
		}
		if i < len(quote.Low) && quote.Low[i] != nil {
			point.Low = *quote.Low[i]
		}
		if i < len(quote.Volume) && quote.Volume[i] != nil {
			point.Volume = *quote.Volume[i]
		}
		points = append(points, point)
	}
	return points, nil
}

// CurrencyFor maps a ticker to its trading currency: BRL for B3
// listings, USD otherwise.
func CurrencyFor(symbol string) string {
	if strings.HasSuffix(strings.ToUpper(symbol), ".SA") {
		return "BRL"
	}
	return "USD"
}
