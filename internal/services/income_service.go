package services

import (
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	apperrors "cryptodash/internal/errors"
	"cryptodash/internal/models"
)

// incomeService handles dividend, JCP and FII yield records.
type incomeService struct {
	db *gorm.DB
}

// NewIncomeService creates a new IncomeServicer.
func NewIncomeService(db *gorm.DB) IncomeServicer {
	return &incomeService{db: db}
}

func validateIncomeInput(assetCode string, quantity, valuePerUnit float64, paymentDate time.Time) error {
	if strings.TrimSpace(assetCode) == "" {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "asset code is required")
	}
	if quantity <= 0 {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "quantity must be greater than zero")
	}
	if valuePerUnit <= 0 {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "value per unit must be greater than zero")
	}
	if paymentDate.IsZero() {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "payment date is required")
	}
	return nil
}

// CreateIncome records a new income payment. The total is always
// recomputed server-side from quantity and unit value.
func (s *incomeService) CreateIncome(assetCode string, kind models.AssetKind, incomeType models.IncomeType, quantity, valuePerUnit float64, paymentDate time.Time) (*models.Income, error) {
	if err := validateIncomeInput(assetCode, quantity, valuePerUnit, paymentDate); err != nil {
		return nil, err
	}

	income := &models.Income{
		AssetCode:    strings.ToUpper(strings.TrimSpace(assetCode)),
		AssetKind:    kind,
		IncomeType:   incomeType,
		Quantity:     quantity,
		ValuePerUnit: valuePerUnit,
		TotalValue:   quantity * valuePerUnit,
		PaymentDate:  paymentDate,
	}
	if err := s.db.Create(income).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return income, nil
}

// UpdateIncome replaces every user-editable field of an income record.
func (s *incomeService) UpdateIncome(id, assetCode string, kind models.AssetKind, incomeType models.IncomeType, quantity, valuePerUnit float64, paymentDate time.Time) (*models.Income, error) {
	if err := validateIncomeInput(assetCode, quantity, valuePerUnit, paymentDate); err != nil {
		return nil, err
	}

	var income models.Income
	if err := s.db.Where("id = ?", id).First(&income).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrIncomeNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	income.AssetCode = strings.ToUpper(strings.TrimSpace(assetCode))
	income.AssetKind = kind
	income.IncomeType = incomeType
	income.Quantity = quantity
	income.ValuePerUnit = valuePerUnit
	income.TotalValue = quantity * valuePerUnit
	income.PaymentDate = paymentDate

	if err := s.db.Save(&income).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &income, nil
}

// DeleteIncome removes an income record.
func (s *incomeService) DeleteIncome(id string) error {
	result := s.db.Where("id = ?", id).Delete(&models.Income{})
	if result.Error != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrIncomeNotFound
	}
	return nil
}

// ListIncomes returns all income records ordered by payment date
// descending, together with aggregate totals. "Last month" means the
// previous calendar month, not a rolling 30-day window.
func (s *incomeService) ListIncomes() (*IncomeList, error) {
	var incomes []models.Income
	err := s.db.Order("payment_date DESC, created_at DESC").Find(&incomes).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	now := time.Now()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	prevMonthStart := monthStart.AddDate(0, -1, 0)

	summary := IncomeSummary{TotalRecords: len(incomes)}
	for _, income := range incomes {
		summary.TotalIncome += income.TotalValue
		switch income.AssetKind {
		case models.AssetKindFund:
			summary.IncomeFunds += income.TotalValue
		case models.AssetKindStock:
			summary.IncomeStocks += income.TotalValue
		}
		if !income.PaymentDate.Before(prevMonthStart) && income.PaymentDate.Before(monthStart) {
			summary.IncomeLastMonth += income.TotalValue
		}
		if income.UpdatedAt.After(summary.LastUpdate) {
			summary.LastUpdate = income.UpdatedAt
		}
	}

	return &IncomeList{Summary: summary, Incomes: incomes}, nil
}
