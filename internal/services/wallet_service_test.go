package services

import (
	"context"
	"testing"
	"time"

	"cryptodash/internal/market"
	"cryptodash/internal/models"
	"cryptodash/internal/pagination"
	"cryptodash/internal/testutil"
)

// stubGateway serves canned asset data keyed by symbol; anything else
// fails the way the real gateway does.
type stubGateway struct {
	data  map[string]*models.AssetData
	calls int
}

func (g *stubGateway) GetAssetData(ctx context.Context, symbol string, days int) (*models.AssetData, error) {
	g.calls++
	if d, ok := g.data[symbol]; ok {
		return d, nil
	}
	return nil, market.ErrNoData
}

func newStubGateway() *stubGateway {
	return &stubGateway{data: map[string]*models.AssetData{
		"bitcoin": {Symbol: "bitcoin", AssetKind: models.AssetKindCrypto, CurrentPrice: 50000, PriceChange24h: 2.5, Currency: "USD"},
		"petr4":   {Symbol: "petr4", AssetKind: models.AssetKindStock, CurrentPrice: 38.5, PriceChange24h: -1.2, Currency: "BRL"},
		"hglg11":  {Symbol: "hglg11", AssetKind: models.AssetKindFund, CurrentPrice: 160, PriceChange24h: 0.4, Currency: "BRL"},
	}}
}

func TestAddTransactionStoresLowercaseSymbolAndKind(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewWalletService(db, newStubGateway())

	tx, err := svc.AddTransaction(context.Background(), "  PETR4 ", models.TransactionBuy, 100, 38.0, 0, time.Time{}, "")
	testutil.AssertNoError(t, err)

	if tx.Symbol != "petr4" {
		t.Errorf("expected symbol stored lowercase, got %q", tx.Symbol)
	}
	if tx.AssetKind != models.AssetKindStock {
		t.Errorf("expected asset kind stock, got %q", tx.AssetKind)
	}
	testutil.AssertFloatEquals(t, tx.TotalValue, 3800, "computed total value")
	if tx.Date.IsZero() {
		t.Error("expected zero date to be defaulted")
	}
}

func TestAddTransactionUnknownSymbol(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewWalletService(db, newStubGateway())

	_, err := svc.AddTransaction(context.Background(), "nosuchthing", models.TransactionBuy, 1, 10, 0, time.Time{}, "")
	testutil.AssertAppError(t, err, "ASSET_NOT_FOUND")
}

func TestAddTransactionInvalidInput(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewWalletService(db, newStubGateway())

	ctx := context.Background()
	_, err := svc.AddTransaction(ctx, "bitcoin", models.TransactionBuy, 0, 10, 0, time.Time{}, "")
	testutil.AssertAppError(t, err, "INVALID_INPUT")

	_, err = svc.AddTransaction(ctx, "bitcoin", models.TransactionBuy, 1, -5, 0, time.Time{}, "")
	testutil.AssertAppError(t, err, "INVALID_INPUT")

	_, err = svc.AddTransaction(ctx, "", models.TransactionBuy, 1, 10, 0, time.Time{}, "")
	testutil.AssertAppError(t, err, "INVALID_INPUT")
}

func TestRecomputeAllBuysWeightedAverage(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewWalletService(db, newStubGateway())

	testutil.CreateTestTransaction(t, db, "bitcoin", models.TransactionBuy, 10, 10, 0)
	testutil.CreateTestTransaction(t, db, "bitcoin", models.TransactionBuy, 10, 20, 1)

	testutil.AssertNoError(t, svc.RecomputeHoldings("bitcoin"))

	var holding models.Holding
	testutil.AssertNoError(t, db.Where("symbol = ?", "bitcoin").First(&holding).Error)
	testutil.AssertFloatEquals(t, holding.TotalQuantity, 20, "total quantity")
	testutil.AssertFloatEquals(t, holding.TotalInvested, 300, "total invested")
	testutil.AssertFloatEquals(t, holding.AverageCost, 15, "average cost")
}

func TestRecomputeSellReducesBasisAtAverageCost(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewWalletService(db, newStubGateway())

	testutil.CreateTestTransaction(t, db, "bitcoin", models.TransactionBuy, 10, 10, 0)
	testutil.CreateTestTransaction(t, db, "bitcoin", models.TransactionSell, 4, 25, 1)

	testutil.AssertNoError(t, svc.RecomputeHoldings("bitcoin"))

	var holding models.Holding
	testutil.AssertNoError(t, db.Where("symbol = ?", "bitcoin").First(&holding).Error)
	testutil.AssertFloatEquals(t, holding.TotalQuantity, 6, "total quantity")
	testutil.AssertFloatEquals(t, holding.TotalInvested, 60, "total invested")
	testutil.AssertFloatEquals(t, holding.AverageCost, 10, "average cost")
}

func TestRecomputeSellAcrossMixedBuys(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewWalletService(db, newStubGateway())

	testutil.CreateTestTransaction(t, db, "bitcoin", models.TransactionBuy, 10, 10, 0)
	testutil.CreateTestTransaction(t, db, "bitcoin", models.TransactionBuy, 10, 20, 1)
	testutil.CreateTestTransaction(t, db, "bitcoin", models.TransactionSell, 15, 30, 2)

	testutil.AssertNoError(t, svc.RecomputeHoldings("bitcoin"))

	var holding models.Holding
	testutil.AssertNoError(t, db.Where("symbol = ?", "bitcoin").First(&holding).Error)
	testutil.AssertFloatEquals(t, holding.TotalQuantity, 5, "total quantity")
	testutil.AssertFloatEquals(t, holding.TotalInvested, 75, "total invested")
	testutil.AssertFloatEquals(t, holding.AverageCost, 15, "average cost")
}

func TestRecomputeFullSellDeletesHolding(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewWalletService(db, newStubGateway())

	testutil.CreateTestTransaction(t, db, "bitcoin", models.TransactionBuy, 10, 10, 0)
	testutil.AssertNoError(t, svc.RecomputeHoldings("bitcoin"))

	testutil.CreateTestTransaction(t, db, "bitcoin", models.TransactionSell, 10, 15, 1)
	testutil.AssertNoError(t, svc.RecomputeHoldings("bitcoin"))

	var count int64
	testutil.AssertNoError(t, db.Model(&models.Holding{}).Where("symbol = ?", "bitcoin").Count(&count).Error)
	if count != 0 {
		t.Errorf("expected holding row deleted after full sell, found %d", count)
	}
}

func TestRecomputeEmptyHistoryDeletesHolding(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewWalletService(db, newStubGateway())

	tx := testutil.CreateTestTransaction(t, db, "bitcoin", models.TransactionBuy, 10, 10, 0)
	testutil.AssertNoError(t, svc.RecomputeHoldings("bitcoin"))

	testutil.AssertNoError(t, svc.DeleteTransaction(context.Background(), tx.ID))

	var count int64
	testutil.AssertNoError(t, db.Model(&models.Holding{}).Where("symbol = ?", "bitcoin").Count(&count).Error)
	if count != 0 {
		t.Errorf("expected holding row deleted after last transaction removed, found %d", count)
	}
}

func TestRecomputeOversellSkipped(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewWalletService(db, newStubGateway())

	testutil.CreateTestTransaction(t, db, "bitcoin", models.TransactionBuy, 5, 10, 0)
	testutil.CreateTestTransaction(t, db, "bitcoin", models.TransactionSell, 10, 20, 1)

	testutil.AssertNoError(t, svc.RecomputeHoldings("bitcoin"))

	var holding models.Holding
	testutil.AssertNoError(t, db.Where("symbol = ?", "bitcoin").First(&holding).Error)
	testutil.AssertFloatEquals(t, holding.TotalQuantity, 5, "total quantity")
	testutil.AssertFloatEquals(t, holding.TotalInvested, 50, "total invested")
	if holding.TotalQuantity < 0 {
		t.Error("quantity must never go negative")
	}
}

func TestDeleteTransactionNotFound(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewWalletService(db, newStubGateway())

	err := svc.DeleteTransaction(context.Background(), "019526a0-0000-7000-8000-000000000000")
	testutil.AssertAppError(t, err, "TRANSACTION_NOT_FOUND")
}

func TestGetTransactionsFilteredAndOrdered(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewWalletService(db, newStubGateway())

	testutil.CreateTestTransaction(t, db, "bitcoin", models.TransactionBuy, 1, 100, 0)
	testutil.CreateTestTransaction(t, db, "bitcoin", models.TransactionBuy, 2, 110, 2)
	testutil.CreateTestTransaction(t, db, "petr4", models.TransactionBuy, 50, 38, 1)
	testutil.CreateTestTransaction(t, db, "bitcoin", models.TransactionSell, 1, 120, 3)

	resp, err := svc.GetTransactions(TransactionFilter{Symbol: "BITCOIN"}, pagination.PageRequest{})
	testutil.AssertNoError(t, err)
	if resp.TotalItems != 3 {
		t.Fatalf("expected 3 bitcoin transactions, got %d", resp.TotalItems)
	}
	for i := 1; i < len(resp.Data); i++ {
		if resp.Data[i].Date.After(resp.Data[i-1].Date) {
			t.Error("expected transactions ordered by date descending")
		}
	}

	sell := models.TransactionSell
	resp, err = svc.GetTransactions(TransactionFilter{Side: &sell}, pagination.PageRequest{})
	testutil.AssertNoError(t, err)
	if resp.TotalItems != 1 {
		t.Fatalf("expected 1 sell transaction, got %d", resp.TotalItems)
	}
}

func TestHoldingsViewValuationAndSummary(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	gw := newStubGateway()
	svc := NewWalletService(db, gw)

	// bitcoin: 2 @ 40000 invested, quoted at 50000 -> +25%
	testutil.CreateTestTransaction(t, db, "bitcoin", models.TransactionBuy, 2, 40000, 0)
	testutil.AssertNoError(t, svc.RecomputeHoldings("bitcoin"))

	// petr4: 100 @ 40 invested, quoted at 38.5 -> negative
	testutil.CreateTestTransaction(t, db, "petr4", models.TransactionBuy, 100, 40, 0)
	testutil.AssertNoError(t, svc.RecomputeHoldings("petr4"))

	view, err := svc.GetHoldingsView(context.Background())
	testutil.AssertNoError(t, err)

	if len(view.Assets) != 2 {
		t.Fatalf("expected 2 assets, got %d", len(view.Assets))
	}
	if view.Assets[0].Symbol != "bitcoin" {
		t.Errorf("expected assets ordered by current value descending, got %q first", view.Assets[0].Symbol)
	}

	testutil.AssertFloatEquals(t, view.Assets[0].CurrentValue, 100000, "bitcoin current value")
	testutil.AssertFloatEquals(t, view.Assets[0].ProfitLoss, 20000, "bitcoin profit")
	testutil.AssertFloatEquals(t, view.Assets[0].ProfitLossPercent, 25, "bitcoin profit percent")

	testutil.AssertFloatEquals(t, view.Summary.TotalInvested, 84000, "total invested")
	testutil.AssertFloatEquals(t, view.Summary.TotalValue, 103850, "total value")
	if view.Summary.BestPerformer == nil || view.Summary.BestPerformer.Symbol != "bitcoin" {
		t.Error("expected bitcoin as best performer")
	}
	if view.Summary.WorstPerformer == nil || view.Summary.WorstPerformer.Symbol != "petr4" {
		t.Error("expected petr4 as worst performer")
	}
}

func TestHoldingsViewSkipsUnavailableQuote(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	gw := newStubGateway()
	svc := NewWalletService(db, gw)

	testutil.CreateTestTransaction(t, db, "bitcoin", models.TransactionBuy, 1, 40000, 0)
	testutil.AssertNoError(t, svc.RecomputeHoldings("bitcoin"))

	// Stored row for a symbol the gateway can no longer price.
	testutil.CreateTestTransaction(t, db, "delisted99", models.TransactionBuy, 10, 5, 0)
	testutil.AssertNoError(t, svc.RecomputeHoldings("delisted99"))

	view, err := svc.GetHoldingsView(context.Background())
	testutil.AssertNoError(t, err)

	if len(view.Assets) != 1 {
		t.Fatalf("expected 1 priceable asset in view, got %d", len(view.Assets))
	}
	if view.Assets[0].Symbol != "bitcoin" {
		t.Errorf("expected only bitcoin in view, got %q", view.Assets[0].Symbol)
	}
	if view.Summary.AssetsCount != 1 {
		t.Errorf("expected summary to count only priced assets, got %d", view.Summary.AssetsCount)
	}

	// The unpriced holding itself must be untouched.
	var count int64
	testutil.AssertNoError(t, db.Model(&models.Holding{}).Where("symbol = ?", "delisted99").Count(&count).Error)
	if count != 1 {
		t.Error("expected unpriced holding row to survive the view")
	}
}
