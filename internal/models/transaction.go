package models

import (
	"time"

	"cryptodash/internal/uuid"

	"gorm.io/gorm"
)

// TransactionSide represents the direction of a wallet transaction.
type TransactionSide string

const (
	TransactionBuy  TransactionSide = "buy"
	TransactionSell TransactionSide = "sell"
)

// WalletTransaction is a user-entered buy or sell of an asset.
// Transactions are immutable once created; corrections are made by
// deleting and re-entering. Symbols are stored lowercase.
type WalletTransaction struct {
	ID           string          `gorm:"type:uuid;primaryKey" json:"id"`
	Symbol       string          `gorm:"not null;index" json:"symbol"`
	AssetKind    AssetKind       `gorm:"not null" json:"asset_type"`
	Side         TransactionSide `gorm:"not null" json:"transaction_type"`
	Quantity     float64         `gorm:"not null" json:"quantity"`
	PricePerUnit float64         `gorm:"not null" json:"price_per_unit"`
	TotalValue   float64         `gorm:"not null" json:"total_value"`
	Date         time.Time       `gorm:"not null;index" json:"date"`
	Notes        string          `json:"notes,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
}

// BeforeCreate hook generates a UUIDv7 for new records.
func (t *WalletTransaction) BeforeCreate(tx *gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.New()
	}
	return nil
}
