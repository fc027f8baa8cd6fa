package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "cryptodash/internal/errors"
	"cryptodash/internal/models"
	"cryptodash/internal/pagination"
	"cryptodash/internal/services"
)

// WalletHandler handles wallet transaction and holdings requests.
type WalletHandler struct {
	walletService services.WalletServicer
}

// NewWalletHandler creates a new WalletHandler.
func NewWalletHandler(walletService services.WalletServicer) *WalletHandler {
	return &WalletHandler{walletService: walletService}
}

// CreateTransactionRequest represents the request payload for recording a transaction.
type CreateTransactionRequest struct {
	Symbol       string                 `json:"symbol" binding:"required,max=30"`
	Side         models.TransactionSide `json:"transaction_type" binding:"required,transaction_side"`
	Quantity     float64                `json:"quantity" binding:"required,gt=0"`
	PricePerUnit float64                `json:"price_per_unit" binding:"required,gt=0"`
	TotalValue   float64                `json:"total_value" binding:"omitempty,gt=0"`
	Date         *string                `json:"date"`
	Notes        string                 `json:"notes" binding:"max=500"`
}

// CreateTransaction records a buy or sell
// @Summary     Record a transaction
// @Description Record a buy or sell; the symbol is verified against live market data and holdings are recomputed
// @Tags        wallet
// @Accept      json
// @Produce     json
// @Param       request body CreateTransactionRequest true "Transaction details"
// @Success     201 {object} models.WalletTransaction "Transaction recorded"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     404 {object} ErrorResponse "Asset not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /wallet/transactions [post]
func (h *WalletHandler) CreateTransaction(c *gin.Context) {
	var req CreateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	transactionDate := time.Now()
	if req.Date != nil && *req.Date != "" {
		parsed, err := parseFlexibleTime(*req.Date)
		if err != nil {
			respondWithError(c, err)
			return
		}
		transactionDate = parsed
	}

	transaction, err := h.walletService.AddTransaction(
		c.Request.Context(),
		req.Symbol,
		req.Side,
		req.Quantity,
		req.PricePerUnit,
		req.TotalValue,
		transactionDate,
		req.Notes,
	)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"transaction": transaction})
}

// ListTransactionsRequest represents the query parameters for listing transactions.
type ListTransactionsRequest struct {
	Symbol string `form:"symbol"`
	Side   string `form:"transaction_type" binding:"omitempty,transaction_side"`
	pagination.PageRequest
}

// ListTransactions returns the transaction history
// @Summary     List transactions
// @Description Paginated transaction history, newest first, optionally filtered by symbol and side
// @Tags        wallet
// @Produce     json
// @Param       symbol query string false "Filter by symbol"
// @Param       transaction_type query string false "Filter by side (buy or sell)"
// @Param       page query int false "Page number"
// @Param       page_size query int false "Page size (max 100)"
// @Success     200 {object} pagination.PageResponse[models.WalletTransaction] "Transactions"
// @Failure     400 {object} ErrorResponse "Invalid parameters"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /wallet/transactions [get]
func (h *WalletHandler) ListTransactions(c *gin.Context) {
	var req ListTransactionsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	filter := services.TransactionFilter{Symbol: req.Symbol}
	if req.Side != "" {
		side := models.TransactionSide(req.Side)
		filter.Side = &side
	}

	resp, err := h.walletService.GetTransactions(filter, req.PageRequest)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// DeleteTransaction removes a transaction
// @Summary     Delete transaction
// @Description Delete a transaction by ID and recompute holdings for its symbol
// @Tags        wallet
// @Produce     json
// @Param       id path string true "Transaction ID"
// @Success     200 {object} MessageResponse "Transaction deleted"
// @Failure     400 {object} ErrorResponse "Invalid transaction ID"
// @Failure     404 {object} ErrorResponse "Transaction not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /wallet/transactions/{id} [delete]
func (h *WalletHandler) DeleteTransaction(c *gin.Context) {
	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.walletService.DeleteTransaction(c.Request.Context(), id); err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "transaction deleted"})
}

// GetHoldings returns the valued portfolio
// @Summary     Get holdings
// @Description Every holding valued at live prices, with aggregate summary; unpriceable holdings are omitted
// @Tags        wallet
// @Produce     json
// @Success     200 {object} services.HoldingsView "Holdings view"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /wallet/holdings [get]
func (h *WalletHandler) GetHoldings(c *gin.Context) {
	view, err := h.walletService.GetHoldingsView(c.Request.Context())
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, view)
}

// GetSummary returns the portfolio summary only
// @Summary     Get wallet summary
// @Description Aggregate portfolio totals without the per-asset breakdown
// @Tags        wallet
// @Produce     json
// @Success     200 {object} services.WalletSummary "Summary"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /wallet/summary [get]
func (h *WalletHandler) GetSummary(c *gin.Context) {
	view, err := h.walletService.GetHoldingsView(c.Request.Context())
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, view.Summary)
}
