package services

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	apperrors "cryptodash/internal/errors"
	"cryptodash/internal/logger"
	"cryptodash/internal/market"
	"cryptodash/internal/models"
	"cryptodash/internal/pagination"
)

// quantityEpsilon guards float comparisons during replay. Positions
// smaller than this are treated as fully closed.
const quantityEpsilon = 1e-9

// walletService handles wallet transactions and derived holdings.
type walletService struct {
	db     *gorm.DB
	market MarketDataGateway

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewWalletService creates a new WalletServicer.
func NewWalletService(db *gorm.DB, market MarketDataGateway) WalletServicer {
	return &walletService{
		db:     db,
		market: market,
		locks:  make(map[string]*sync.Mutex),
	}
}

// symbolLock returns the mutex serializing recomputation for a symbol.
func (s *walletService) symbolLock(symbol string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.locks[symbol]
	if !ok {
		l = &sync.Mutex{}
		s.locks[symbol] = l
	}
	return l
}

// AddTransaction records a buy or sell, verifying the symbol against
// live market data first, then recomputes the holding for that symbol.
func (s *walletService) AddTransaction(
	ctx context.Context,
	symbol string,
	side models.TransactionSide,
	quantity, pricePerUnit, totalValue float64,
	date time.Time,
	notes string,
) (*models.WalletTransaction, error) {
	symbol = strings.ToLower(strings.TrimSpace(symbol))
	if symbol == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "symbol is required")
	}
	if quantity <= 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "quantity must be greater than zero")
	}
	if pricePerUnit <= 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "price per unit must be greater than zero")
	}
	if totalValue <= 0 {
		totalValue = quantity * pricePerUnit
	}
	if date.IsZero() {
		date = time.Now()
	}

	// Resolving the symbol against the market gateway both validates it
	// and tells us what kind of asset it is.
	asset, err := s.market.GetAssetData(ctx, symbol, 1)
	if err != nil {
		if errors.Is(err, market.ErrNoData) {
			return nil, apperrors.WithMessage(apperrors.ErrAssetNotFound, "no market data found for symbol: "+symbol)
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	transaction := &models.WalletTransaction{
		Symbol:       symbol,
		AssetKind:    asset.AssetKind,
		Side:         side,
		Quantity:     quantity,
		PricePerUnit: pricePerUnit,
		TotalValue:   totalValue,
		Date:         date,
		Notes:        notes,
	}
	if err := s.db.Create(transaction).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	if err := s.RecomputeHoldings(symbol); err != nil {
		return nil, err
	}
	return transaction, nil
}

// GetTransactions retrieves a paginated, filtered list of wallet
// transactions ordered by date descending.
func (s *walletService) GetTransactions(filter TransactionFilter, page pagination.PageRequest) (*pagination.PageResponse[models.WalletTransaction], error) {
	page.Defaults()

	base := s.db.Model(&models.WalletTransaction{})
	if filter.Symbol != "" {
		base = base.Where("symbol = ?", strings.ToLower(filter.Symbol))
	}
	if filter.Side != nil {
		base = base.Where("side = ?", *filter.Side)
	}

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var transactions []models.WalletTransaction
	err := base.
		Scopes(pagination.Paginate(page)).
		Order("date DESC, created_at DESC").
		Find(&transactions).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	resp := pagination.NewPageResponse(transactions, page.Page, page.PageSize, totalItems)
	return &resp, nil
}

// DeleteTransaction removes a transaction and recomputes the holding
// for its symbol from the remaining history.
func (s *walletService) DeleteTransaction(ctx context.Context, id string) error {
	var transaction models.WalletTransaction
	if err := s.db.Where("id = ?", id).First(&transaction).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrTransactionNotFound
		}
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	if err := s.db.Delete(&transaction).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return s.RecomputeHoldings(transaction.Symbol)
}

// RecomputeHoldings replays the full transaction history for a symbol
// and rewrites its holding row. Replays for the same symbol are
// serialized; the replay itself never reads the existing holding, so
// the result is independent of prior state.
func (s *walletService) RecomputeHoldings(symbol string) error {
	symbol = strings.ToLower(symbol)
	lock := s.symbolLock(symbol)
	lock.Lock()
	defer lock.Unlock()

	var transactions []models.WalletTransaction
	err := s.db.
		Where("symbol = ?", symbol).
		Order("date ASC, created_at ASC, id ASC").
		Find(&transactions).Error
	if err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	holding := replayTransactions(symbol, transactions)

	return s.db.Transaction(func(tx *gorm.DB) error {
		if holding == nil {
			if err := tx.Where("symbol = ?", symbol).Delete(&models.Holding{}).Error; err != nil {
				return apperrors.Wrap(apperrors.ErrInternalServer, err)
			}
			return nil
		}
		err := tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "symbol"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"asset_kind", "total_quantity", "average_cost",
				"total_invested", "first_transaction_at", "recomputed_at",
			}),
		}).Create(holding).Error
		if err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return nil
	})
}

// replayTransactions folds an ordered transaction history into a
// holding using weighted-average cost. Returns nil when the history is
// empty or the position is fully closed.
func replayTransactions(symbol string, transactions []models.WalletTransaction) *models.Holding {
	if len(transactions) == 0 {
		return nil
	}

	var (
		quantity     float64
		costBasisSum float64
		kind         models.AssetKind
		firstDate    time.Time
	)
	for _, t := range transactions {
		kind = t.AssetKind
		if firstDate.IsZero() || t.Date.Before(firstDate) {
			firstDate = t.Date
		}
		switch t.Side {
		case models.TransactionBuy:
			quantity += t.Quantity
			costBasisSum += t.TotalValue
		case models.TransactionSell:
			if t.Quantity > quantity+quantityEpsilon {
				logger.Get().Warnw("Sell exceeds held quantity, skipping during replay",
					"symbol", symbol,
					"transaction_id", t.ID,
					"held", quantity,
					"sold", t.Quantity)
				continue
			}
			averageCost := 0.0
			if quantity > quantityEpsilon {
				averageCost = costBasisSum / quantity
			}
			costBasisSum -= averageCost * t.Quantity
			quantity -= t.Quantity
		}
	}

	if quantity <= quantityEpsilon {
		return nil
	}

	return &models.Holding{
		Symbol:             symbol,
		AssetKind:          kind,
		TotalQuantity:      quantity,
		AverageCost:        costBasisSum / quantity,
		TotalInvested:      costBasisSum,
		FirstTransactionAt: firstDate,
		RecomputedAt:       time.Now(),
	}
}

// GetHoldingsView values every holding at live prices. Holdings whose
// quote cannot be fetched are left out of the view rather than failing
// the whole request; stored rows are never touched here.
func (s *walletService) GetHoldingsView(ctx context.Context) (*HoldingsView, error) {
	var holdings []models.Holding
	if err := s.db.Order("symbol ASC").Find(&holdings).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	assets := make([]WalletAsset, 0, len(holdings))
	for _, h := range holdings {
		data, err := s.market.GetAssetData(ctx, h.Symbol, 1)
		if err != nil {
			logger.Get().Warnw("Skipping holding with unavailable quote",
				"symbol", h.Symbol,
				"error", err)
			continue
		}

		currentValue := h.TotalQuantity * data.CurrentPrice
		profitLoss := currentValue - h.TotalInvested
		profitLossPercent := 0.0
		if h.TotalInvested > 0 {
			profitLossPercent = profitLoss / h.TotalInvested * 100
		}

		assets = append(assets, WalletAsset{
			Symbol:            h.Symbol,
			AssetKind:         h.AssetKind,
			TotalQuantity:     h.TotalQuantity,
			AverageCost:       h.AverageCost,
			CurrentPrice:      data.CurrentPrice,
			TotalInvested:     h.TotalInvested,
			CurrentValue:      currentValue,
			ProfitLoss:        profitLoss,
			ProfitLossPercent: profitLossPercent,
			PriceChange24h:    data.PriceChange24h,
			FirstPurchaseDate: h.FirstTransactionAt,
		})
	}

	sort.Slice(assets, func(i, j int) bool {
		return assets[i].CurrentValue > assets[j].CurrentValue
	})

	summary := WalletSummary{AssetsCount: len(assets)}
	for i := range assets {
		summary.TotalValue += assets[i].CurrentValue
		summary.TotalInvested += assets[i].TotalInvested
		summary.TotalProfitLoss += assets[i].ProfitLoss

		if summary.BestPerformer == nil || assets[i].ProfitLossPercent > summary.BestPerformer.ProfitLossPercent {
			summary.BestPerformer = &assets[i]
		}
		if summary.WorstPerformer == nil || assets[i].ProfitLossPercent < summary.WorstPerformer.ProfitLossPercent {
			summary.WorstPerformer = &assets[i]
		}
	}
	if summary.TotalInvested > 0 {
		summary.TotalProfitLossPercent = summary.TotalProfitLoss / summary.TotalInvested * 100
	}

	return &HoldingsView{Assets: assets, Summary: summary}, nil
}
