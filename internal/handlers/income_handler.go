package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "cryptodash/internal/errors"
	"cryptodash/internal/models"
	"cryptodash/internal/services"
)

// IncomeHandler handles income record requests.
type IncomeHandler struct {
	incomeService services.IncomeServicer
}

// NewIncomeHandler creates a new IncomeHandler.
func NewIncomeHandler(incomeService services.IncomeServicer) *IncomeHandler {
	return &IncomeHandler{incomeService: incomeService}
}

// IncomeRequest represents the payload for creating or updating an income record.
type IncomeRequest struct {
	AssetCode    string            `json:"asset_code" binding:"required,max=30"`
	AssetKind    models.AssetKind  `json:"asset_type" binding:"required,asset_kind"`
	IncomeType   models.IncomeType `json:"income_type" binding:"required,income_type"`
	Quantity     float64           `json:"quantity" binding:"required,gt=0"`
	ValuePerUnit float64           `json:"value_per_unit" binding:"required,gt=0"`
	PaymentDate  string            `json:"payment_date" binding:"required"`
}

// CreateIncome records an income payment
// @Summary     Record income
// @Description Record a dividend, JCP or FII yield payment; the total is computed server-side
// @Tags        incomes
// @Accept      json
// @Produce     json
// @Param       request body IncomeRequest true "Income details"
// @Success     201 {object} models.Income "Income recorded"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /incomes [post]
func (h *IncomeHandler) CreateIncome(c *gin.Context) {
	var req IncomeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	paymentDate, err := parseFlexibleTime(req.PaymentDate)
	if err != nil {
		respondWithError(c, err)
		return
	}

	income, err := h.incomeService.CreateIncome(req.AssetCode, req.AssetKind, req.IncomeType, req.Quantity, req.ValuePerUnit, paymentDate)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"income": income})
}

// UpdateIncome replaces an income record
// @Summary     Update income
// @Description Replace every field of an income record by ID
// @Tags        incomes
// @Accept      json
// @Produce     json
// @Param       id path string true "Income ID"
// @Param       request body IncomeRequest true "Income details"
// @Success     200 {object} models.Income "Income updated"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     404 {object} ErrorResponse "Income not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /incomes/{id} [put]
func (h *IncomeHandler) UpdateIncome(c *gin.Context) {
	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req IncomeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	paymentDate, err := parseFlexibleTime(req.PaymentDate)
	if err != nil {
		respondWithError(c, err)
		return
	}

	income, err := h.incomeService.UpdateIncome(id, req.AssetCode, req.AssetKind, req.IncomeType, req.Quantity, req.ValuePerUnit, paymentDate)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"income": income})
}

// DeleteIncome removes an income record
// @Summary     Delete income
// @Description Delete an income record by ID
// @Tags        incomes
// @Produce     json
// @Param       id path string true "Income ID"
// @Success     200 {object} MessageResponse "Income deleted"
// @Failure     400 {object} ErrorResponse "Invalid income ID"
// @Failure     404 {object} ErrorResponse "Income not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /incomes/{id} [delete]
func (h *IncomeHandler) DeleteIncome(c *gin.Context) {
	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.incomeService.DeleteIncome(id); err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "income deleted"})
}

// ListIncomes returns income records and totals
// @Summary     List incomes
// @Description All income records, newest first, with aggregate totals
// @Tags        incomes
// @Produce     json
// @Success     200 {object} services.IncomeList "Incomes and summary"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /incomes [get]
func (h *IncomeHandler) ListIncomes(c *gin.Context) {
	list, err := h.incomeService.ListIncomes()
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, list)
}
