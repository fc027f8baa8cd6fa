package provider

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"cryptodash/internal/models"
)

func newSimplePriceServer(prices map[string]simplePriceEntry) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/simple/price" {
			http.NotFound(w, r)
			return
		}
		id := r.URL.Query().Get("ids")
		resp := map[string]simplePriceEntry{}
		if entry, ok := prices[id]; ok {
			resp[id] = entry
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	}))
}

func TestCoinGeckoSupports(t *testing.T) {
	p := NewCoinGeckoProvider(http.DefaultClient, "")

	if !p.Supports(models.AssetKindCrypto) {
		t.Error("expected Supports(crypto) = true")
	}
	for _, kind := range []models.AssetKind{models.AssetKindStock, models.AssetKindFund, models.AssetKindUnknown} {
		if p.Supports(kind) {
			t.Errorf("expected Supports(%q) = false", kind)
		}
	}
}

func TestCoinGeckoQuote(t *testing.T) {
	change := 2.5
	srv := newSimplePriceServer(map[string]simplePriceEntry{
		"bitcoin": {USD: 64250.0, Change24h: &change},
	})
	defer srv.Close()

	p := NewCoinGeckoProvider(srv.Client(), srv.URL)

	quote, err := p.Quote(context.Background(), "bitcoin")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if quote.Price != 64250.0 {
		t.Errorf("expected price 64250.0, got %f", quote.Price)
	}
	if quote.Change24h != 2.5 {
		t.Errorf("expected 24h change 2.5, got %f", quote.Change24h)
	}
	if quote.Currency != "USD" {
		t.Errorf("expected currency USD, got %s", quote.Currency)
	}
}

func TestCoinGeckoQuoteMissingChange(t *testing.T) {
	srv := newSimplePriceServer(map[string]simplePriceEntry{
		"dogecoin": {USD: 0.12},
	})
	defer srv.Close()

	p := NewCoinGeckoProvider(srv.Client(), srv.URL)

	quote, err := p.Quote(context.Background(), "dogecoin")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if quote.Change24h != 0 {
		t.Errorf("expected zero change when field absent, got %f", quote.Change24h)
	}
}

func TestCoinGeckoQuoteUnknownSymbol(t *testing.T) {
	srv := newSimplePriceServer(nil)
	defer srv.Close()

	p := NewCoinGeckoProvider(srv.Client(), srv.URL)

	_, err := p.Quote(context.Background(), "notacoin")
	if !errors.Is(err, ErrSymbolNotFound) {
		t.Errorf("expected ErrSymbolNotFound, got %v", err)
	}
}

func TestCoinGeckoSeries(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/coins/bitcoin/market_chart" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(marketChartResponse{
			Prices: [][2]float64{
				{1700000000000, 100.0},
				{1700086400000, 110.0},
				{1700172800000, 105.0},
			},
		})
	}))
	defer srv.Close()

	p := NewCoinGeckoProvider(srv.Client(), srv.URL)

	points, err := p.Series(context.Background(), "bitcoin", 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(points) != 3 {
		t.Fatalf("expected 3 points, got %d", len(points))
	}
	if points[0].Close != 100.0 || points[2].Close != 105.0 {
		t.Errorf("unexpected closes: %f, %f", points[0].Close, points[2].Close)
	}
	if points[0].Open != 0 {
		t.Errorf("expected close-only points, got open %f", points[0].Open)
	}
}

func TestCoinGeckoSeriesEmpty(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(marketChartResponse{})
	}))
	defer srv.Close()

	p := NewCoinGeckoProvider(srv.Client(), srv.URL)

	_, err := p.Series(context.Background(), "notacoin", 7)
	if !errors.Is(err, ErrSymbolNotFound) {
		t.Errorf("expected ErrSymbolNotFound, got %v", err)
	}
}

func TestCoinGeckoUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	p := NewCoinGeckoProvider(srv.Client(), srv.URL)

	_, err := p.Quote(context.Background(), "bitcoin")
	if !errors.Is(err, ErrUpstreamUnavailable) {
		t.Errorf("expected ErrUpstreamUnavailable, got %v", err)
	}
}
