package market

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"cryptodash/internal/models"
	"cryptodash/internal/provider"
)

// HistoryStore persists dated OHLC records, upserted by symbol+date.
type HistoryStore struct {
	db *gorm.DB
}

// NewHistoryStore creates a HistoryStore on the given database handle.
func NewHistoryStore(db *gorm.DB) *HistoryStore {
	return &HistoryStore{db: db}
}

// SaveSeries upserts one record per series point. The first error stops
// the walk; callers treat persistence here as best-effort.
func (s *HistoryStore) SaveSeries(symbol string, points []provider.SeriesPoint) error {
	for _, point := range points {
		record := models.HistoricalPrice{
			Symbol: symbol,
			Date:   point.Time.UTC().Format("2006-01-02"),
			Open:   point.Open,
			High:   point.High,
			Low:    point.Low,
			Close:  point.Close,
			Volume: point.Volume,
		}
		err := s.db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "symbol"}, {Name: "date"}},
			DoUpdates: clause.AssignmentColumns([]string{"open", "high", "low", "close", "volume"}),
		}).Create(&record).Error
		if err != nil {
			return err
		}
	}
	return nil
}
