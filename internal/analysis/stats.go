package analysis

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

// MinHistoryWeeks is how many prior weekly rates a term needs before its
// z-score is meaningful.
const MinHistoryWeeks = 7

// RegressionWeeks is the window the trend fit runs over, current week included.
const RegressionWeeks = 8

// JeffreysInterval returns the Jeffreys equal-tailed interval for hits
// successes out of total trials at significance alpha. The caller guarantees
// total > 0. Boundary cases clamp to the exact limits so a term seen in
// every post reports an upper bound of exactly 1.
func JeffreysInterval(hits, total int, alpha float64) (float64, float64) {
	beta := distuv.Beta{
		Alpha: float64(hits) + 0.5,
		Beta:  float64(total-hits) + 0.5,
	}
	lower := 0.0
	if hits > 0 {
		lower = beta.Quantile(alpha / 2)
	}
	upper := 1.0
	if hits < total {
		upper = beta.Quantile(1 - alpha/2)
	}
	return lower, upper
}

// ZScore standardizes the current rate against the historical rates. It
// returns nil while history is shorter than MinHistoryWeeks, and 0 when the
// history has no spread, so a flat series never explodes the score.
func ZScore(current float64, history []float64) *float64 {
	if len(history) < MinHistoryWeeks {
		return nil
	}
	mean := stat.Mean(history, nil)
	sd := math.Sqrt(stat.Variance(history, nil))
	z := 0.0
	if sd >= 1e-10 {
		z = (current - mean) / sd
	}
	return &z
}

// RegressionFit is an OLS fit of weekly rates against week index 0..n-1.
type RegressionFit struct {
	Intercept        float64
	Slope            float64
	InterceptCILower float64
	InterceptCIUpper float64
	SlopeCILower     float64
	SlopeCIUpper     float64
	PValue           float64
	RSquared         float64
}

// FitTrend fits rate = intercept + slope*week over the given rates, oldest
// first. Confidence intervals use the t distribution at significance alpha;
// the p-value tests slope == 0. A perfectly flat series fits exactly: zero
// slope, p-value 1, zero-width intervals.
func FitTrend(rates []float64, alpha float64) (RegressionFit, error) {
	n := len(rates)
	if n < 3 {
		return RegressionFit{}, fmt.Errorf("not enough points for trend fit: %d", n)
	}
	xs := make([]float64, n)
	for i := range xs {
		xs[i] = float64(i)
	}
	intercept, slope := stat.LinearRegression(xs, rates, nil, false)

	xMean := stat.Mean(xs, nil)
	yMean := stat.Mean(rates, nil)
	var ssr, sst, sxx float64
	for i := range xs {
		resid := rates[i] - (intercept + slope*xs[i])
		ssr += resid * resid
		dy := rates[i] - yMean
		sst += dy * dy
		dx := xs[i] - xMean
		sxx += dx * dx
	}

	dof := float64(n - 2)
	s2 := ssr / dof
	seSlope := math.Sqrt(s2 / sxx)
	seIntercept := math.Sqrt(s2 * (1/float64(n) + xMean*xMean/sxx))

	tDist := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: dof}
	tCrit := tDist.Quantile(1 - alpha/2)

	fit := RegressionFit{
		Intercept:        intercept,
		Slope:            slope,
		InterceptCILower: intercept - tCrit*seIntercept,
		InterceptCIUpper: intercept + tCrit*seIntercept,
		SlopeCILower:     slope - tCrit*seSlope,
		SlopeCIUpper:     slope + tCrit*seSlope,
	}

	switch {
	case seSlope == 0 && slope == 0:
		fit.PValue = 1
	case seSlope == 0:
		fit.PValue = 0
	default:
		t := slope / seSlope
		fit.PValue = 2 * tDist.Survival(math.Abs(t))
	}

	if sst > 0 {
		fit.RSquared = 1 - ssr/sst
	}
	return fit, nil
}
