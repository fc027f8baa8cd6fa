// Package assets classifies user-supplied symbols into asset kinds
// using the static symbol tables from the configuration catalog.
package assets

import (
	"strings"

	"cryptodash/internal/config"
	"cryptodash/internal/models"
)

// Classifier maps symbols to asset kinds. It is a pure function of the
// catalog it was built from; it never mutates its input and is safe for
// concurrent use.
type Classifier struct {
	cryptoIDs     map[string]struct{}
	cryptoAliases map[string]string
	stocks        map[string]struct{}
	funds         map[string]struct{}
	marketSuffix  string
	fundNumeral   string
}

// NewClassifier builds a Classifier from the given catalog.
func NewClassifier(catalog config.AssetCatalog) *Classifier {
	c := &Classifier{
		cryptoIDs:     make(map[string]struct{}, len(catalog.CryptoIDs)),
		cryptoAliases: make(map[string]string, len(catalog.CryptoAliases)),
		stocks:        make(map[string]struct{}, len(catalog.StockSymbols)),
		funds:         make(map[string]struct{}, len(catalog.FundSymbols)),
		marketSuffix:  strings.ToUpper(catalog.MarketSuffix),
		fundNumeral:   strings.ToUpper(catalog.FundNumeralSuffix),
	}
	for _, id := range catalog.CryptoIDs {
		c.cryptoIDs[strings.ToLower(id)] = struct{}{}
	}
	for alias, id := range catalog.CryptoAliases {
		c.cryptoAliases[strings.ToLower(alias)] = strings.ToLower(id)
	}
	for _, s := range catalog.StockSymbols {
		c.stocks[strings.ToUpper(s)] = struct{}{}
	}
	for _, s := range catalog.FundSymbols {
		c.funds[strings.ToUpper(s)] = struct{}{}
	}
	return c
}

// Classify returns the asset kind for a symbol. First match wins:
// crypto table (with alias expansion), then fund table, then equity
// table or the market suffix, otherwise unknown.
func (c *Classifier) Classify(symbol string) models.AssetKind {
	kind, _ := c.Resolve(symbol)
	return kind
}

// Resolve classifies a symbol and returns the provider-native form:
// a lowercase slug for crypto, an uppercase ticker (with the market
// suffix normalized) for everything else.
func (c *Classifier) Resolve(symbol string) (models.AssetKind, string) {
	slug := c.cryptoSlug(symbol)
	if _, ok := c.cryptoIDs[slug]; ok {
		return models.AssetKindCrypto, slug
	}

	upper := strings.ToUpper(strings.TrimSpace(symbol))
	ticker := c.normalizeTicker(upper)
	if _, ok := c.funds[ticker]; ok {
		return models.AssetKindFund, ticker
	}
	if _, ok := c.stocks[ticker]; ok {
		return models.AssetKindStock, ticker
	}
	// The suffix rule only applies when the caller spelled it out;
	// a suffix added by normalization is not enough to call it listed.
	if c.marketSuffix != "" && strings.HasSuffix(upper, c.marketSuffix) {
		return models.AssetKindStock, ticker
	}
	return models.AssetKindUnknown, ticker
}

// DiscoveredKind guesses the kind for a symbol that classified as
// unknown but turned out to exist upstream: fund when the ticker ends
// in the fund numeral pattern, stock otherwise.
func (c *Classifier) DiscoveredKind(ticker string) models.AssetKind {
	base := strings.TrimSuffix(strings.ToUpper(ticker), c.marketSuffix)
	if _, ok := c.funds[strings.ToUpper(ticker)]; ok {
		return models.AssetKindFund
	}
	if c.fundNumeral != "" && strings.HasSuffix(base, c.fundNumeral) {
		return models.AssetKindFund
	}
	return models.AssetKindStock
}

// cryptoSlug lowercases a symbol and expands short aliases (btc -> bitcoin).
func (c *Classifier) cryptoSlug(symbol string) string {
	slug := strings.ToLower(strings.TrimSpace(symbol))
	if full, ok := c.cryptoAliases[slug]; ok {
		return full
	}
	return slug
}

// normalizeTicker appends the market suffix when an uppercase ticker
// ends in the fund numeral pattern but lacks the suffix.
func (c *Classifier) normalizeTicker(ticker string) string {
	if c.marketSuffix == "" || strings.HasSuffix(ticker, c.marketSuffix) {
		return ticker
	}
	if c.fundNumeral != "" && strings.HasSuffix(ticker, c.fundNumeral) {
		return ticker + c.marketSuffix
	}
	return ticker
}
