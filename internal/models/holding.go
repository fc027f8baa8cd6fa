package models

import (
	"time"

	"cryptodash/internal/uuid"

	"gorm.io/gorm"
)

// Holding is the derived position for one symbol. It is fully owned by
// the holdings recomputation engine: every field is rewritten on each
// recompute, and the row is deleted when the transaction set becomes
// empty or the position is fully sold.
type Holding struct {
	ID                 string    `gorm:"type:uuid;primaryKey" json:"id"`
	Symbol             string    `gorm:"not null;uniqueIndex" json:"symbol"`
	AssetKind          AssetKind `gorm:"not null" json:"asset_type"`
	TotalQuantity      float64   `gorm:"not null" json:"total_quantity"`
	AverageCost        float64   `gorm:"not null" json:"average_buy_price"`
	TotalInvested      float64   `gorm:"not null" json:"total_invested"`
	FirstTransactionAt time.Time `gorm:"not null" json:"first_purchase_date"`
	RecomputedAt       time.Time `gorm:"not null" json:"last_update"`
}

// BeforeCreate hook generates a UUIDv7 for new records.
func (h *Holding) BeforeCreate(tx *gorm.DB) error {
	if h.ID == "" {
		h.ID = uuid.New()
	}
	return nil
}
