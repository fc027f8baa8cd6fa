package services

import (
	"context"
	"time"

	"cryptodash/internal/models"
	"cryptodash/internal/pagination"
)

// MarketDataGateway is the slice of the market gateway the services
// depend on, injected so tests can substitute canned data.
type MarketDataGateway interface {
	GetAssetData(ctx context.Context, symbol string, days int) (*models.AssetData, error)
}

// TransactionFilter holds optional filter parameters for listing wallet transactions.
type TransactionFilter struct {
	Symbol string
	Side   *models.TransactionSide
}

// WalletAsset is one enriched position in the holdings view.
type WalletAsset struct {
	Symbol            string           `json:"symbol"`
	AssetKind         models.AssetKind `json:"asset_type"`
	TotalQuantity     float64          `json:"total_quantity"`
	AverageCost       float64          `json:"average_buy_price"`
	CurrentPrice      float64          `json:"current_price"`
	TotalInvested     float64          `json:"total_invested"`
	CurrentValue      float64          `json:"current_value"`
	ProfitLoss        float64          `json:"profit_loss"`
	ProfitLossPercent float64          `json:"profit_loss_percent"`
	PriceChange24h    float64          `json:"price_change_24h"`
	FirstPurchaseDate time.Time        `json:"first_purchase_date"`
}

// WalletSummary aggregates the holdings view.
type WalletSummary struct {
	TotalValue             float64      `json:"total_value"`
	TotalInvested          float64      `json:"total_invested"`
	TotalProfitLoss        float64      `json:"total_profit_loss"`
	TotalProfitLossPercent float64      `json:"total_profit_loss_percent"`
	AssetsCount            int          `json:"assets_count"`
	BestPerformer          *WalletAsset `json:"best_performer"`
	WorstPerformer         *WalletAsset `json:"worst_performer"`
}

// HoldingsView is the live portfolio valuation: assets ordered by
// descending current value plus the aggregate summary.
type HoldingsView struct {
	Assets  []WalletAsset `json:"assets"`
	Summary WalletSummary `json:"summary"`
}

// WalletServicer defines the contract for wallet business logic.
type WalletServicer interface {
	AddTransaction(ctx context.Context, symbol string, side models.TransactionSide, quantity, pricePerUnit, totalValue float64, date time.Time, notes string) (*models.WalletTransaction, error)
	GetTransactions(filter TransactionFilter, page pagination.PageRequest) (*pagination.PageResponse[models.WalletTransaction], error)
	DeleteTransaction(ctx context.Context, id string) error
	RecomputeHoldings(symbol string) error
	GetHoldingsView(ctx context.Context) (*HoldingsView, error)
}

// IncomeSummary aggregates income records.
type IncomeSummary struct {
	TotalIncome     float64   `json:"total_income"`
	IncomeStocks    float64   `json:"income_stocks"`
	IncomeFunds     float64   `json:"income_fiis"`
	IncomeLastMonth float64   `json:"income_last_month"`
	TotalRecords    int       `json:"total_records"`
	LastUpdate      time.Time `json:"last_update"`
}

// IncomeList is the income listing response: summary plus records
// ordered by payment date descending.
type IncomeList struct {
	Summary IncomeSummary   `json:"summary"`
	Incomes []models.Income `json:"incomes"`
}

// IncomeServicer defines the contract for income records.
type IncomeServicer interface {
	CreateIncome(assetCode string, kind models.AssetKind, incomeType models.IncomeType, quantity, valuePerUnit float64, paymentDate time.Time) (*models.Income, error)
	UpdateIncome(id, assetCode string, kind models.AssetKind, incomeType models.IncomeType, quantity, valuePerUnit float64, paymentDate time.Time) (*models.Income, error)
	DeleteIncome(id string) error
	ListIncomes() (*IncomeList, error)
}

// PredictedPoint is one forecast day.
type PredictedPoint struct {
	Day               int     `json:"day"`
	Date              string  `json:"date"`
	PredictedPrice    float64 `json:"predicted_price"`
	ChangeFromCurrent float64 `json:"change_from_current"`
}

// ModelMetrics reports the fit quality of a trained model.
type ModelMetrics struct {
	RMSE    float64 `json:"rmse"`
	MAE     float64 `json:"mae"`
	R2Score float64 `json:"r2_score"`
}

// PredictionSummary condenses the forecast into a trend call.
type PredictionSummary struct {
	Trend              string  `json:"trend"`
	TotalChangePercent float64 `json:"total_change_percent"`
	ConfidenceLevel    float64 `json:"confidence_level"`
}

// Prediction is the full forecast response for a symbol.
type Prediction struct {
	Symbol         string            `json:"symbol"`
	AssetKind      models.AssetKind  `json:"asset_type"`
	CurrentPrice   float64           `json:"current_price"`
	PredictionDays int               `json:"prediction_days"`
	Predictions    []PredictedPoint  `json:"predictions"`
	Summary        PredictionSummary `json:"summary"`
	ModelMetrics   ModelMetrics      `json:"model_metrics"`
}

// PredictionServicer defines the contract for the price predictor.
type PredictionServicer interface {
	Predict(ctx context.Context, symbol string, days int) (*Prediction, error)
}
