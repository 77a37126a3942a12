package bias

import (
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/evisynth/backend/internal/providers/synthesis/numerics"
	"github.com/evisynth/backend/internal/types"
)

// eggerTest regresses the standardized effect (effect/SE) on precision
// (1/SE); a nonzero intercept measures funnel asymmetry. Bodies below
// three studies degrade to the p=1 placeholder.
func eggerTest(studies []types.StudyEffect) types.EggerResult {
	n := len(studies)
	if n < minStudiesPerTest {
		return types.EggerResult{PValue: 1}
	}

	x := make([]float64, n) // precision
	y := make([]float64, n) // standardized effect
	for i, s := range studies {
		x[i] = 1 / s.SE()
		y[i] = s.EffectSize / s.SE()
	}

	intercept, slope := stat.LinearRegression(x, y, nil, false)

	// Intercept standard error from the residual mean-square error and the
	// design's leverage term.
	var rss, sxx float64
	xbar := stat.Mean(x, nil)
	for i := range x {
		r := y[i] - (intercept + slope*x[i])
		rss += r * r
		d := x[i] - xbar
		sxx += d * d
	}

	df := n - 2
	if sxx == 0 {
		// All studies share one precision; the regression is undefined.
		return types.EggerResult{DF: df, PValue: 1}
	}

	mse := rss / float64(df)
	se := math.Sqrt(mse * (1/float64(n) + xbar*xbar/sxx))

	if se == 0 {
		// Perfect fit: the asymmetry verdict is decided by the intercept.
		p := 1.0
		if intercept != 0 {
			p = 0
		}
		return types.EggerResult{Intercept: intercept, Slope: slope, DF: df, PValue: p}
	}

	t := intercept / se
	p := 2 * (1 - numerics.TCDF(math.Abs(t), float64(df)))

	return types.EggerResult{
		Intercept:   intercept,
		Slope:       slope,
		InterceptSE: se,
		T:           t,
		DF:          df,
		PValue:      clampProb(p),
	}
}

func clampProb(p float64) float64 {
	if p < 0 {
		return 0
	}
	if p > 1 {
		return 1
	}
	return p
}
