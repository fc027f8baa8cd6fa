package market

import (
	"context"
	"errors"
	"testing"
	"time"

	"cryptodash/internal/assets"
	"cryptodash/internal/config"
	"cryptodash/internal/models"
	"cryptodash/internal/provider"
	"cryptodash/internal/testutil"

	"gorm.io/gorm"
)

// stubProvider is an in-memory provider with call counters.
type stubProvider struct {
	name       string
	kinds      map[models.AssetKind]bool
	quotes     map[string]*provider.Quote
	series     map[string][]provider.SeriesPoint
	quoteCalls int
	serieCalls int
}

func (s *stubProvider) Name() string { return s.name }

func (s *stubProvider) Supports(kind models.AssetKind) bool { return s.kinds[kind] }

func (s *stubProvider) Quote(_ context.Context, symbol string) (*provider.Quote, error) {
	s.quoteCalls++
	if q, ok := s.quotes[symbol]; ok {
		return q, nil
	}
	return nil, provider.ErrSymbolNotFound
}

func (s *stubProvider) Series(_ context.Context, symbol string, _ int) ([]provider.SeriesPoint, error) {
	s.serieCalls++
	if pts, ok := s.series[symbol]; ok {
		return pts, nil
	}
	return nil, provider.ErrSymbolNotFound
}

func dailyCloses(closes ...float64) []provider.SeriesPoint {
	base := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	points := make([]provider.SeriesPoint, len(closes))
	for i, c := range closes {
		points[i] = provider.SeriesPoint{Time: base.AddDate(0, 0, i), Close: c}
	}
	return points
}

func newTestGateway(t *testing.T, crypto, listed *stubProvider, ttl time.Duration) (*Gateway, *gorm.DB) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	t.Cleanup(func() { testutil.TeardownTestDB(t, db) })

	classifier := assets.NewClassifier(config.DefaultCatalog())
	return NewGateway(classifier, crypto, listed, NewCacheStore(db), NewHistoryStore(db), ttl), db
}

func cryptoStub() *stubProvider {
	return &stubProvider{
		name:  "CoinGecko",
		kinds: map[models.AssetKind]bool{models.AssetKindCrypto: true},
		quotes: map[string]*provider.Quote{
			"bitcoin": {Symbol: "bitcoin", Price: 64000, Change24h: 1.5, Currency: "USD"},
		},
		series: map[string][]provider.SeriesPoint{
			"bitcoin": dailyCloses(100, 110, 105, 120, 115, 130, 125),
		},
	}
}

func listedStub() *stubProvider {
	return &stubProvider{
		name: "Yahoo Finance",
		kinds: map[models.AssetKind]bool{
			models.AssetKindStock:   true,
			models.AssetKindFund:    true,
			models.AssetKindUnknown: true,
		},
		quotes: map[string]*provider.Quote{
			"PETR4.SA":  {Symbol: "PETR4.SA", Price: 40.0, Change24h: -0.8, Currency: "BRL"},
			"HGLG11.SA": {Symbol: "HGLG11.SA", Price: 160.0, Change24h: 0.3, Currency: "BRL"},
		},
	}
}

func TestGetAssetDataCurrentQuote(t *testing.T) {
	crypto := cryptoStub()
	gw, _ := newTestGateway(t, crypto, listedStub(), 10*time.Minute)

	data, err := gw.GetAssetData(context.Background(), "BTC", 1)
	testutil.AssertNoError(t, err)

	if data.Symbol != "bitcoin" {
		t.Errorf("expected provider-native symbol bitcoin, got %s", data.Symbol)
	}
	if data.AssetKind != models.AssetKindCrypto {
		t.Errorf("expected crypto, got %s", data.AssetKind)
	}
	if data.CurrentPrice != 64000 {
		t.Errorf("expected price 64000, got %f", data.CurrentPrice)
	}
}

func TestGetAssetDataCacheHitsUpstreamOnce(t *testing.T) {
	crypto := cryptoStub()
	gw, _ := newTestGateway(t, crypto, listedStub(), 10*time.Minute)

	for i := 0; i < 3; i++ {
		_, err := gw.GetAssetData(context.Background(), "bitcoin", 1)
		testutil.AssertNoError(t, err)
	}

	if crypto.quoteCalls != 1 {
		t.Errorf("expected exactly 1 upstream call within the expiry window, got %d", crypto.quoteCalls)
	}
}

func TestGetAssetDataExpiredCacheRefetches(t *testing.T) {
	crypto := cryptoStub()
	gw, _ := newTestGateway(t, crypto, listedStub(), -time.Minute) // entries expire immediately

	for i := 0; i < 2; i++ {
		_, err := gw.GetAssetData(context.Background(), "bitcoin", 1)
		testutil.AssertNoError(t, err)
	}

	if crypto.quoteCalls != 2 {
		t.Errorf("expected 2 upstream calls with expired cache, got %d", crypto.quoteCalls)
	}
}

func TestGetAssetDataHistoricalTruncatesAndBypassesCache(t *testing.T) {
	crypto := cryptoStub()
	gw, db := newTestGateway(t, crypto, listedStub(), 10*time.Minute)

	data, err := gw.GetAssetData(context.Background(), "bitcoin", 3)
	testutil.AssertNoError(t, err)

	if len(data.Prices) != 3 {
		t.Fatalf("expected series truncated to 3 points, got %d", len(data.Prices))
	}
	// Most-recent points of the stub series: 115, 130, 125.
	if data.Prices[0].Price != 115 || data.Prices[2].Price != 125 {
		t.Errorf("unexpected truncation: first=%f last=%f", data.Prices[0].Price, data.Prices[2].Price)
	}
	if data.CurrentPrice != 125 {
		t.Errorf("expected current price 125, got %f", data.CurrentPrice)
	}
	wantChange := (125.0 - 130.0) / 130.0 * 100
	testutil.AssertFloatEquals(t, data.PriceChange24h, wantChange, "price_change_24h")

	// Historical requests never populate the quote cache.
	var cacheCount int64
	db.Model(&models.PriceCache{}).Count(&cacheCount)
	if cacheCount != 0 {
		t.Errorf("expected no cache rows after a historical request, got %d", cacheCount)
	}

	// But each point lands in historical_prices, keyed by symbol+date.
	var histCount int64
	db.Model(&models.HistoricalPrice{}).Where("symbol = ?", "bitcoin").Count(&histCount)
	if histCount != 3 {
		t.Errorf("expected 3 persisted historical records, got %d", histCount)
	}

	if crypto.serieCalls != 1 {
		t.Errorf("expected 1 series call, got %d", crypto.serieCalls)
	}
}

func TestGetAssetDataSinglePointSeriesHasZeroChange(t *testing.T) {
	crypto := cryptoStub()
	crypto.series["bitcoin"] = dailyCloses(42)
	gw, _ := newTestGateway(t, crypto, listedStub(), 10*time.Minute)

	data, err := gw.GetAssetData(context.Background(), "bitcoin", 7)
	testutil.AssertNoError(t, err)

	if data.PriceChange24h != 0 {
		t.Errorf("expected zero change for a single-point series, got %f", data.PriceChange24h)
	}
	if data.CurrentPrice != 42 {
		t.Errorf("expected current price 42, got %f", data.CurrentPrice)
	}
}

func TestGetAssetDataUnknownFallsBackToListedOnly(t *testing.T) {
	crypto := cryptoStub()
	listed := listedStub()
	gw, _ := newTestGateway(t, crypto, listed, 10*time.Minute)

	data, err := gw.GetAssetData(context.Background(), "hglg11", 1)
	testutil.AssertNoError(t, err)

	if data.AssetKind != models.AssetKindFund {
		t.Errorf("expected discovered kind fii, got %s", data.AssetKind)
	}
	if crypto.quoteCalls != 0 {
		t.Errorf("crypto provider must not be tried for an unclassified symbol, got %d calls", crypto.quoteCalls)
	}
	if listed.quoteCalls != 1 {
		t.Errorf("expected 1 listed provider call, got %d", listed.quoteCalls)
	}
}

func TestGetAssetDataNoData(t *testing.T) {
	gw, _ := newTestGateway(t, cryptoStub(), listedStub(), 10*time.Minute)

	_, err := gw.GetAssetData(context.Background(), "NOSUCH", 1)
	if !errors.Is(err, ErrNoData) {
		t.Errorf("expected ErrNoData, got %v", err)
	}

	// Classified crypto with a failing upstream also folds into ErrNoData.
	_, err = gw.GetAssetData(context.Background(), "ethereum", 1)
	if !errors.Is(err, ErrNoData) {
		t.Errorf("expected ErrNoData for missing upstream data, got %v", err)
	}
}
