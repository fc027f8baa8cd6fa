package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "cryptodash/internal/errors"
	"cryptodash/internal/services"
)

// PredictionHandler handles price forecast requests.
type PredictionHandler struct {
	predictionService services.PredictionServicer
}

// NewPredictionHandler creates a new PredictionHandler.
func NewPredictionHandler(predictionService services.PredictionServicer) *PredictionHandler {
	return &PredictionHandler{predictionService: predictionService}
}

// PredictionRequest represents the query parameters for a forecast.
type PredictionRequest struct {
	Symbol string `form:"symbol" binding:"required"`
	Days   int    `form:"days" binding:"omitempty,min=1,max=7"`
}

// GetPrediction returns a price forecast
// @Summary     Get price prediction
// @Description Linear-regression forecast over the next 1-7 days, trained on recent history
// @Tags        prediction
// @Produce     json
// @Param       symbol query string true "Asset symbol"
// @Param       days query int false "Days to predict (1-7, default 3)"
// @Success     200 {object} services.Prediction "Forecast"
// @Failure     400 {object} ErrorResponse "Invalid parameters"
// @Failure     404 {object} ErrorResponse "Asset not found"
// @Failure     422 {object} ErrorResponse "Insufficient history"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /prediction [get]
func (h *PredictionHandler) GetPrediction(c *gin.Context) {
	var req PredictionRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}
	if req.Days == 0 {
		req.Days = 3
	}

	prediction, err := h.predictionService.Predict(c.Request.Context(), req.Symbol, req.Days)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, prediction)
}
