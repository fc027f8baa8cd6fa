package services

import (
	"bytes"
	"testing"

	"cryptodash/internal/models"
	"cryptodash/internal/testutil"
)

var pngMagic = []byte{0x89, 'P', 'N', 'G'}

func TestRenderPriceChart(t *testing.T) {
	asset := &models.AssetData{
		Symbol:    "bitcoin",
		AssetKind: models.AssetKindCrypto,
		Currency:  "USD",
		Prices:    syntheticSeries(30, func(i int) float64 { return 40000 + 100*float64(i) }),
	}

	png, err := RenderPriceChart(asset)
	testutil.AssertNoError(t, err)

	if !bytes.HasPrefix(png, pngMagic) {
		t.Error("expected PNG output")
	}
}

func TestRenderPriceChartTooFewPoints(t *testing.T) {
	asset := &models.AssetData{
		Symbol:   "bitcoin",
		Currency: "USD",
		Prices:   syntheticSeries(1, func(i int) float64 { return 40000 }),
	}

	if _, err := RenderPriceChart(asset); err == nil {
		t.Fatal("expected error with a single data point")
	}
}
