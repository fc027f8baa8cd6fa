package testutil

import (
	"testing"
	"time"

	"cryptodash/internal/models"

	"gorm.io/gorm"
)

// fixtureBase is a fixed reference time so transaction ordering in
// fixtures is deterministic.
var fixtureBase = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

// CreateTestTransaction inserts a wallet transaction dayOffset days
// after the fixture base time.
func CreateTestTransaction(t *testing.T, db *gorm.DB, symbol string, side models.TransactionSide, quantity, pricePerUnit float64, dayOffset int) *models.WalletTransaction {
	t.Helper()

	tx := &models.WalletTransaction{
		Symbol:       symbol,
		AssetKind:    models.AssetKindCrypto,
		Side:         side,
		Quantity:     quantity,
		PricePerUnit: pricePerUnit,
		TotalValue:   quantity * pricePerUnit,
		Date:         fixtureBase.AddDate(0, 0, dayOffset),
	}
	if err := db.Create(tx).Error; err != nil {
		t.Fatalf("failed to create test transaction: %v", err)
	}
	return tx
}

// CreateTestIncome inserts an income record.
func CreateTestIncome(t *testing.T, db *gorm.DB, assetCode string, kind models.AssetKind, incomeType models.IncomeType, quantity, valuePerUnit float64, paymentDate time.Time) *models.Income {
	t.Helper()

	income := &models.Income{
		AssetCode:    assetCode,
		AssetKind:    kind,
		IncomeType:   incomeType,
		Quantity:     quantity,
		ValuePerUnit: valuePerUnit,
		TotalValue:   quantity * valuePerUnit,
		PaymentDate:  paymentDate,
	}
	if err := db.Create(income).Error; err != nil {
		t.Fatalf("failed to create test income: %v", err)
	}
	return income
}
