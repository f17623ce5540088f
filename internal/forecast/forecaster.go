// Package forecast fits a linear trend to monthly spending series and
// extrapolates future months.
package forecast

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"

	"github.com/pocketpilot/ppp/internal/common"
	"github.com/pocketpilot/ppp/internal/model"
)

// Point is one observed month of spending.
type Point struct {
	Month model.Month
	Total decimal.Decimal
}

// Predict fits an ordinary least-squares line over the series and returns
// predictions for the next horizon months.
//
// The series is sorted by month and regressed against its index, so gaps
// between months are collapsed rather than interpolated. With fewer than
// two points there is no trend to fit: the prediction falls back to the
// last known value (zero for an empty series) and Insufficient is set.
// Predictions are clamped at zero; spending cannot go negative.
func Predict(series []Point, horizon int) ([]model.ForecastResult, error) {
	if horizon <= 0 {
		return nil, fmt.Errorf("%w: %d", common.ErrInvalidHorizon, horizon)
	}

	series = sortedByMonth(series)
	n := len(series)

	if n < 2 {
		return fallback(series, horizon), nil
	}

	var sumX, sumY, sumXX, sumXY float64
	ys := make([]float64, n)
	for i, p := range series {
		x := float64(i + 1)
		y := p.Total.InexactFloat64()
		ys[i] = y
		sumX += x
		sumY += y
		sumXX += x * x
		sumXY += x * y
	}

	fn := float64(n)
	denom := fn*sumXX - sumX*sumX

	var slope, intercept float64
	if denom == 0 {
		slope, intercept = 0, sumY/fn
	} else {
		slope = (fn*sumXY - sumX*sumY) / denom
		intercept = (sumY - slope*sumX) / fn
	}

	stdErr := residualStdError(ys, slope, intercept)
	last := series[n-1].Month

	out := make([]model.ForecastResult, 0, horizon)
	for k := 1; k <= horizon; k++ {
		y := intercept + slope*float64(n+k)
		if !isFinite(y) || y < 0 {
			y = 0
		}
		out = append(out, model.ForecastResult{
			Month:     last.Add(k),
			Predicted: decimal.NewFromFloat(y).Round(2),
			StdError:  stdErr,
		})
	}
	return out, nil
}

// fallback covers series too short for a regression: repeat the last known
// value, or zero when there is no history at all.
func fallback(series []Point, horizon int) []model.ForecastResult {
	value := decimal.Zero
	var last model.Month
	if len(series) == 1 {
		value = series[0].Total.Round(2)
		last = series[0].Month
	}

	out := make([]model.ForecastResult, 0, horizon)
	for k := 1; k <= horizon; k++ {
		r := model.ForecastResult{
			Predicted:    value,
			Insufficient: true,
		}
		if last != "" {
			r.Month = last.Add(k)
		}
		out = append(out, r)
	}
	return out
}

// residualStdError is sqrt(SSR / (n-2)), the standard error of the fit.
// Zero when there are not enough degrees of freedom.
func residualStdError(ys []float64, slope, intercept float64) float64 {
	n := len(ys)
	if n <= 2 {
		return 0
	}

	var ssr float64
	for i, y := range ys {
		fitted := intercept + slope*float64(i+1)
		ssr += (y - fitted) * (y - fitted)
	}

	se := math.Sqrt(ssr / float64(n-2))
	if !isFinite(se) {
		return 0
	}
	return se
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

func sortedByMonth(series []Point) []Point {
	out := make([]Point, len(series))
	copy(out, series)
	for i := 0; i < len(out)-1; i++ {
		for j := 0; j < len(out)-i-1; j++ {
			if out[j].Month > out[j+1].Month {
				out[j], out[j+1] = out[j+1], out[j]
			}
		}
	}
	return out
}
