package models

// AssetKind represents the classified type of a market asset.
type AssetKind string

const (
	AssetKindCrypto  AssetKind = "crypto"
	AssetKindStock   AssetKind = "stock"
	AssetKindFund    AssetKind = "fii"
	AssetKindUnknown AssetKind = "unknown"
)

// PricePoint is a single (timestamp, price) sample in a series.
// Timestamp is Unix milliseconds, matching the upstream wire format.
type PricePoint struct {
	Timestamp int64   `json:"timestamp"`
	Price     float64 `json:"price"`
}

// AssetData is the gateway result for a symbol: a current quote, and for
// historical requests the truncated daily series.
type AssetData struct {
	Symbol         string       `json:"symbol"`
	AssetKind      AssetKind    `json:"asset_type"`
	CurrentPrice   float64      `json:"current_price"`
	PriceChange24h float64      `json:"price_change_24h"`
	Currency       string       `json:"currency"`
	Prices         []PricePoint `json:"prices,omitempty"`
}
