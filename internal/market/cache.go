package market

import (
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"cryptodash/internal/models"
)

// CacheStore persists current-quote payloads with a time-to-live.
// One row per symbol; refreshes replace the row atomically via upsert,
// so a concurrent read never observes a partially written entry.
type CacheStore struct {
	db *gorm.DB
}

// NewCacheStore creates a CacheStore on the given database handle.
func NewCacheStore(db *gorm.DB) *CacheStore {
	return &CacheStore{db: db}
}

// Get returns the cached quote for a symbol if an unexpired entry
// exists. The boolean reports whether the entry was usable.
func (s *CacheStore) Get(symbol string) (*models.AssetData, bool) {
	var entry models.PriceCache
	err := s.db.Where("symbol = ? AND expires_at > ?", symbol, time.Now()).
		First(&entry).Error
	if err != nil {
		return nil, false
	}

	var data models.AssetData
	if err := json.Unmarshal(entry.Payload, &data); err != nil {
		return nil, false
	}
	return &data, true
}

// Put writes a quote for a symbol, replacing any previous entry.
func (s *CacheStore) Put(symbol string, data *models.AssetData, ttl time.Duration) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("marshaling cache payload: %w", err)
	}

	now := time.Now()
	entry := models.PriceCache{
		Symbol:    symbol,
		AssetKind: data.AssetKind,
		Payload:   payload,
		FetchedAt: now,
		ExpiresAt: now.Add(ttl),
	}

	return s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "symbol"}},
		DoUpdates: clause.AssignmentColumns([]string{"asset_kind", "payload", "fetched_at", "expires_at"}),
	}).Create(&entry).Error
}
