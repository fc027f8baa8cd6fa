package handlers

import (
	"encoding/base64"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	apperrors "cryptodash/internal/errors"
	"cryptodash/internal/models"
	"cryptodash/internal/services"
)

// maxMultipleSymbols caps one /price/multiple request.
const maxMultipleSymbols = 10

// PriceHandler handles market data requests.
type PriceHandler struct {
	market services.MarketDataGateway
}

// NewPriceHandler creates a new PriceHandler.
func NewPriceHandler(market services.MarketDataGateway) *PriceHandler {
	return &PriceHandler{market: market}
}

// PriceResponse represents a current quote in the response.
type PriceResponse struct {
	Symbol         string           `json:"symbol"`
	AssetKind      models.AssetKind `json:"asset_type"`
	CurrentPrice   float64          `json:"current_price"`
	PriceChange24h float64          `json:"price_change_24h"`
	Currency       string           `json:"currency"`
}

// GetPrice returns the current quote for one symbol
// @Summary     Get current price
// @Description Current price and 24h change for a crypto, stock or FII symbol
// @Tags        prices
// @Produce     json
// @Param       symbol query string true "Asset symbol (e.g. btc, PETR4, HGLG11)"
// @Success     200 {object} PriceResponse "Current quote"
// @Failure     400 {object} ErrorResponse "Missing symbol"
// @Failure     404 {object} ErrorResponse "Asset not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /price [get]
func (h *PriceHandler) GetPrice(c *gin.Context) {
	symbol := strings.TrimSpace(c.Query("symbol"))
	if symbol == "" {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "symbol query parameter is required"))
		return
	}

	asset, err := h.market.GetAssetData(c.Request.Context(), symbol, 1)
	if err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrAssetNotFound, "no market data found for symbol: "+symbol))
		return
	}

	c.JSON(http.StatusOK, PriceResponse{
		Symbol:         asset.Symbol,
		AssetKind:      asset.AssetKind,
		CurrentPrice:   asset.CurrentPrice,
		PriceChange24h: asset.PriceChange24h,
		Currency:       asset.Currency,
	})
}

// MultiplePricesResponse aggregates per-symbol quotes and failures.
type MultiplePricesResponse struct {
	Results        []PriceResponse `json:"results"`
	TotalRequested int             `json:"total_requested"`
	TotalFound     int             `json:"total_found"`
	Errors         []string        `json:"errors,omitempty"`
}

// GetMultiplePrices returns quotes for up to 10 symbols
// @Summary     Get multiple prices
// @Description Current prices for a comma-separated symbol list; failures are collected per symbol
// @Tags        prices
// @Produce     json
// @Param       symbols query string true "Comma-separated symbols (max 10)"
// @Success     200 {object} MultiplePricesResponse "Quotes and per-symbol errors"
// @Failure     400 {object} ErrorResponse "Too many or no symbols"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /price/multiple [get]
func (h *PriceHandler) GetMultiplePrices(c *gin.Context) {
	var symbols []string
	for _, raw := range strings.Split(c.Query("symbols"), ",") {
		if s := strings.TrimSpace(raw); s != "" {
			symbols = append(symbols, s)
		}
	}
	if len(symbols) == 0 {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "symbols query parameter is required"))
		return
	}
	if len(symbols) > maxMultipleSymbols {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "at most 10 symbols per request"))
		return
	}

	response := MultiplePricesResponse{
		Results:        []PriceResponse{},
		TotalRequested: len(symbols),
	}
	for _, symbol := range symbols {
		asset, err := h.market.GetAssetData(c.Request.Context(), symbol, 1)
		if err != nil {
			response.Errors = append(response.Errors, "no data for '"+symbol+"'")
			continue
		}
		response.Results = append(response.Results, PriceResponse{
			Symbol:         asset.Symbol,
			AssetKind:      asset.AssetKind,
			CurrentPrice:   asset.CurrentPrice,
			PriceChange24h: asset.PriceChange24h,
			Currency:       asset.Currency,
		})
	}
	response.TotalFound = len(response.Results)

	c.JSON(http.StatusOK, response)
}

// HistoryRequest represents the query parameters for history endpoints.
type HistoryRequest struct {
	Symbol string `form:"symbol" binding:"required"`
	Days   int    `form:"days" binding:"omitempty,min=2,max=365"`
}

// GetHistory returns a daily price series
// @Summary     Get price history
// @Description Daily close series for a symbol over the requested window
// @Tags        prices
// @Produce     json
// @Param       symbol query string true "Asset symbol"
// @Param       days query int false "History window in days (2-365, default 7)"
// @Success     200 {object} models.AssetData "Price series"
// @Failure     400 {object} ErrorResponse "Invalid parameters"
// @Failure     404 {object} ErrorResponse "Asset not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /history [get]
func (h *PriceHandler) GetHistory(c *gin.Context) {
	asset, err := h.fetchHistory(c)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, asset)
}

// ChartResponse carries a rendered chart as base64 PNG.
type ChartResponse struct {
	Symbol    string           `json:"symbol"`
	AssetKind models.AssetKind `json:"asset_type"`
	Days      int              `json:"days"`
	Image     string           `json:"image_base64"`
	MimeType  string           `json:"mime_type"`
}

// GetHistoryChart returns a rendered price chart
// @Summary     Get price history chart
// @Description PNG line chart of the daily close series, base64-encoded
// @Tags        prices
// @Produce     json
// @Param       symbol query string true "Asset symbol"
// @Param       days query int false "History window in days (2-365, default 7)"
// @Success     200 {object} ChartResponse "Rendered chart"
// @Failure     400 {object} ErrorResponse "Invalid parameters"
// @Failure     404 {object} ErrorResponse "Asset not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /history/chart [get]
func (h *PriceHandler) GetHistoryChart(c *gin.Context) {
	asset, err := h.fetchHistory(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	png, err := services.RenderPriceChart(asset)
	if err != nil {
		respondWithError(c, apperrors.Wrap(apperrors.ErrInternalServer, err))
		return
	}

	days := len(asset.Prices)
	c.JSON(http.StatusOK, ChartResponse{
		Symbol:    asset.Symbol,
		AssetKind: asset.AssetKind,
		Days:      days,
		Image:     base64.StdEncoding.EncodeToString(png),
		MimeType:  "image/png",
	})
}

func (h *PriceHandler) fetchHistory(c *gin.Context) (*models.AssetData, error) {
	var req HistoryRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error())
	}
	if req.Days == 0 {
		req.Days = 7
	}

	asset, err := h.market.GetAssetData(c.Request.Context(), req.Symbol, req.Days)
	if err != nil {
		return nil, apperrors.WithMessage(apperrors.ErrAssetNotFound, "no market data found for symbol: "+req.Symbol)
	}
	return asset, nil
}
