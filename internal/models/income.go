package models

import "time"

// IncomeType represents the kind of income a record tracks.
type IncomeType string

const (
	IncomeDividends IncomeType = "dividends"
	IncomeJCP       IncomeType = "jcp"
	IncomeYield     IncomeType = "yield"
)

// Income is a user-entered dividend, JCP, or FII yield payment.
// AssetCode is stored uppercase; TotalValue is always recomputed
// server-side from quantity and unit value.
type Income struct {
	Base
	AssetCode    string     `gorm:"not null;index" json:"asset_code"`
	AssetKind    AssetKind  `gorm:"not null" json:"asset_type"`
	IncomeType   IncomeType `gorm:"not null" json:"income_type"`
	Quantity     float64    `gorm:"not null" json:"quantity"`
	ValuePerUnit float64    `gorm:"not null" json:"value_per_unit"`
	TotalValue   float64    `gorm:"not null" json:"total_value"`
	PaymentDate  time.Time  `gorm:"not null;index" json:"payment_date"`
}
