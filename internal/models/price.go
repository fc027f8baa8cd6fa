package models

import (
	"time"

	"cryptodash/internal/uuid"

	"gorm.io/gorm"
)

// PriceCache is the read-through cache entry for a symbol's current
// quote. One row per symbol, replaced wholesale on refresh; a read is
// valid only while now < ExpiresAt.
type PriceCache struct {
	ID        string    `gorm:"type:uuid;primaryKey" json:"id"`
	Symbol    string    `gorm:"not null;uniqueIndex" json:"symbol"`
	AssetKind AssetKind `gorm:"not null" json:"asset_type"`
	Payload   []byte    `gorm:"not null" json:"-"`
	FetchedAt time.Time `gorm:"not null" json:"fetched_at"`
	ExpiresAt time.Time `gorm:"not null;index" json:"expires_at"`
}

// BeforeCreate hook generates a UUIDv7 for new records.
func (p *PriceCache) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.New()
	}
	return nil
}

// HistoricalPrice is a dated OHLC record for a symbol, upserted by
// symbol+date. Crypto providers supply close-only points; the other
// fields stay zero in that case.
type HistoricalPrice struct {
	ID        string    `gorm:"type:uuid;primaryKey" json:"id"`
	Symbol    string    `gorm:"not null;uniqueIndex:uq_historical_symbol_date" json:"symbol"`
	Date      string    `gorm:"not null;uniqueIndex:uq_historical_symbol_date" json:"date"` // YYYY-MM-DD
	Open      float64   `json:"open"`
	High      float64   `json:"high"`
	Low       float64   `json:"low"`
	Close     float64   `gorm:"not null" json:"close"`
	Volume    int64     `json:"volume"`
	CreatedAt time.Time `json:"created_at"`
}

// BeforeCreate hook generates a UUIDv7 for new records.
func (h *HistoricalPrice) BeforeCreate(tx *gorm.DB) error {
	if h.ID == "" {
		h.ID = uuid.New()
	}
	return nil
}
