package services

import (
	"context"
	"errors"
	"math"
	"time"

	apperrors "cryptodash/internal/errors"
	"cryptodash/internal/logger"
	"cryptodash/internal/market"
	"cryptodash/internal/models"
)

const (
	// trainingDays is the history window fetched to train the model.
	trainingDays = 60
	// minFeatureRows is the minimum usable rows after dropping
	// incomplete ones at the start of the window.
	minFeatureRows = 10
	// featureCount: ma3, ma7, pct change, volatility, day of week,
	// lag1, lag2, lag3.
	featureCount = 8
)

// predictionService forecasts prices with a linear model trained on
// recent history.
type predictionService struct {
	market MarketDataGateway
}

// NewPredictionService creates a new PredictionServicer.
func NewPredictionService(market MarketDataGateway) PredictionServicer {
	return &predictionService{market: market}
}

// Predict trains an ordinary least squares model on the symbol's recent
// daily closes and rolls it forward 1-7 days.
func (s *predictionService) Predict(ctx context.Context, symbol string, days int) (*Prediction, error) {
	if days < 1 || days > 7 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "prediction days must be between 1 and 7")
	}

	asset, err := s.market.GetAssetData(ctx, symbol, trainingDays)
	if err != nil {
		if errors.Is(err, market.ErrNoData) {
			return nil, apperrors.WithMessage(apperrors.ErrAssetNotFound, "no market data found for symbol: "+symbol)
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	features, targets := buildFeatures(asset.Prices)
	if len(features) < minFeatureRows {
		return nil, apperrors.ErrInsufficientHistory
	}

	model, err := fitLeastSquares(features, targets)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	currentPrice := asset.Prices[len(asset.Prices)-1].Price
	forecast := model.rollForward(features[len(features)-1], days)

	points := make([]PredictedPoint, len(forecast))
	for i, price := range forecast {
		points[i] = PredictedPoint{
			Day:               i + 1,
			Date:              time.Now().AddDate(0, 0, i+1).Format("2006-01-02"),
			PredictedPrice:    round2(price),
			ChangeFromCurrent: round2(percentChange(currentPrice, price)),
		}
	}

	totalChange := percentChange(currentPrice, forecast[len(forecast)-1])
	trend := "stable"
	if totalChange > 2 {
		trend = "up"
	} else if totalChange < -2 {
		trend = "down"
	}

	// Confidence starts from R-squared and decays with the horizon.
	confidence := clamp(model.r2*100, 0, 100) * math.Pow(0.95, float64(days-1))

	logger.Get().Infow("Prediction generated",
		"symbol", asset.Symbol,
		"days", days,
		"trend", trend,
		"r2", model.r2)

	return &Prediction{
		Symbol:         asset.Symbol,
		AssetKind:      asset.AssetKind,
		CurrentPrice:   round2(currentPrice),
		PredictionDays: days,
		Predictions:    points,
		Summary: PredictionSummary{
			Trend:              trend,
			TotalChangePercent: round2(totalChange),
			ConfidenceLevel:    round2(confidence),
		},
		ModelMetrics: ModelMetrics{
			RMSE:    round2(model.rmse),
			MAE:     round2(model.mae),
			R2Score: roundN(model.r2, 3),
		},
	}, nil
}

// buildFeatures derives one feature row per price point once enough
// lookback exists: 3- and 7-day moving averages, one-day percent
// change, 5-day volatility, day of week and the three previous closes.
func buildFeatures(prices []models.PricePoint) ([][]float64, []float64) {
	var features [][]float64
	var targets []float64

	for i := 6; i < len(prices); i++ {
		p := prices[i].Price
		day := time.UnixMilli(prices[i].Timestamp).UTC().Weekday()
		row := []float64{
			mean(closes(prices[i-2 : i+1])),
			mean(closes(prices[i-6 : i+1])),
			percentChange(prices[i-1].Price, p) / 100,
			stddev(closes(prices[i-4 : i+1])),
			float64(day),
			prices[i-1].Price,
			prices[i-2].Price,
			prices[i-3].Price,
		}
		features = append(features, row)
		targets = append(targets, p)
	}
	return features, targets
}

func closes(points []models.PricePoint) []float64 {
	out := make([]float64, len(points))
	for i, p := range points {
		out[i] = p.Price
	}
	return out
}

// linearModel is a least-squares fit over standardized features.
type linearModel struct {
	weights   []float64 // intercept first
	means     []float64
	scales    []float64
	rmse, mae float64
	r2        float64
}

// fitLeastSquares standardizes the features and solves the normal
// equations. A tiny ridge term keeps the system solvable when features
// are collinear, which moving averages and lags usually are.
func fitLeastSquares(features [][]float64, targets []float64) (*linearModel, error) {
	n := len(features)
	means := make([]float64, featureCount)
	scales := make([]float64, featureCount)
	for j := 0; j < featureCount; j++ {
		col := make([]float64, n)
		for i := range features {
			col[i] = features[i][j]
		}
		means[j] = mean(col)
		scales[j] = stddev(col)
		if scales[j] == 0 {
			scales[j] = 1
		}
	}

	// Design matrix with intercept column, standardized.
	dim := featureCount + 1
	x := make([][]float64, n)
	for i := range features {
		x[i] = make([]float64, dim)
		x[i][0] = 1
		for j := 0; j < featureCount; j++ {
			x[i][j+1] = (features[i][j] - means[j]) / scales[j]
		}
	}

	// Normal equations: (X'X + lambda*I) w = X'y.
	xtx := make([][]float64, dim)
	xty := make([]float64, dim)
	for a := 0; a < dim; a++ {
		xtx[a] = make([]float64, dim)
		for b := 0; b < dim; b++ {
			var sum float64
			for i := 0; i < n; i++ {
				sum += x[i][a] * x[i][b]
			}
			xtx[a][b] = sum
		}
		if a > 0 {
			xtx[a][a] += 1e-8
		}
		var sum float64
		for i := 0; i < n; i++ {
			sum += x[i][a] * targets[i]
		}
		xty[a] = sum
	}

	weights, err := solveLinearSystem(xtx, xty)
	if err != nil {
		return nil, err
	}

	model := &linearModel{weights: weights, means: means, scales: scales}

	var ssRes, ssTot, absSum float64
	targetMean := mean(targets)
	for i := 0; i < n; i++ {
		predicted := model.predictStandardized(x[i])
		residual := predicted - targets[i]
		ssRes += residual * residual
		absSum += math.Abs(residual)
		ssTot += (targets[i] - targetMean) * (targets[i] - targetMean)
	}
	model.rmse = math.Sqrt(ssRes / float64(n))
	model.mae = absSum / float64(n)
	if ssTot > 0 {
		model.r2 = 1 - ssRes/ssTot
	}
	return model, nil
}

func (m *linearModel) predictStandardized(row []float64) float64 {
	sum := 0.0
	for j, w := range m.weights {
		sum += w * row[j]
	}
	return sum
}

// predict standardizes a raw feature row and applies the model.
func (m *linearModel) predict(raw []float64) float64 {
	row := make([]float64, len(m.weights))
	row[0] = 1
	for j := 0; j < featureCount; j++ {
		row[j+1] = (raw[j] - m.means[j]) / m.scales[j]
	}
	return m.predictStandardized(row)
}

// rollForward predicts the next days prices, shifting the lag features
// and advancing the day of week after each step. Moving averages and
// volatility are held at their last observed values.
func (m *linearModel) rollForward(last []float64, days int) []float64 {
	current := make([]float64, len(last))
	copy(current, last)

	forecast := make([]float64, 0, days)
	for d := 0; d < days; d++ {
		predicted := m.predict(current)
		forecast = append(forecast, predicted)

		current[7] = current[6] // lag3 <- lag2
		current[6] = current[5] // lag2 <- lag1
		current[5] = predicted  // lag1 <- new close
		current[4] = math.Mod(current[4]+1, 7)
	}
	return forecast
}

// solveLinearSystem solves Ax=b by Gaussian elimination with partial
// pivoting. A is modified in place.
func solveLinearSystem(a [][]float64, b []float64) ([]float64, error) {
	n := len(b)
	for col := 0; col < n; col++ {
		pivot := col
		for row := col + 1; row < n; row++ {
			if math.Abs(a[row][col]) > math.Abs(a[pivot][col]) {
				pivot = row
			}
		}
		if math.Abs(a[pivot][col]) < 1e-12 {
			return nil, errors.New("singular system in least squares fit")
		}
		a[col], a[pivot] = a[pivot], a[col]
		b[col], b[pivot] = b[pivot], b[col]

		for row := col + 1; row < n; row++ {
			factor := a[row][col] / a[col][col]
			for k := col; k < n; k++ {
				a[row][k] -= factor * a[col][k]
			}
			b[row] -= factor * b[col]
		}
	}

	x := make([]float64, n)
	for row := n - 1; row >= 0; row-- {
		sum := b[row]
		for k := row + 1; k < n; k++ {
			sum -= a[row][k] * x[k]
		}
		x[row] = sum / a[row][row]
	}
	return x, nil
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

func stddev(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}
	m := mean(values)
	var sum float64
	for _, v := range values {
		sum += (v - m) * (v - m)
	}
	return math.Sqrt(sum / float64(len(values)-1))
}

func percentChange(from, to float64) float64 {
	if from == 0 {
		return 0
	}
	return (to - from) / from * 100
}

func clamp(v, lo, hi float64) float64 {
	return math.Min(math.Max(v, lo), hi)
}

func round2(v float64) float64 { return roundN(v, 2) }

func roundN(v float64, places int) float64 {
	factor := math.Pow(10, float64(places))
	return math.Round(v*factor) / factor
}
