// Package heterogeneity estimates between-study heterogeneity: Cochran's Q,
// I², DerSimonian–Laird τ², H², and a prediction interval, plus a
// fixed-vs-random model recommendation.
package heterogeneity

import (
	"errors"
	"fmt"
	"math"

	"github.com/google/uuid"
	"gonum.org/v1/gonum/stat"

	"github.com/evisynth/backend/internal/providers/synthesis/confidence"
	"github.com/evisynth/backend/internal/providers/synthesis/effect"
	"github.com/evisynth/backend/internal/providers/synthesis/numerics"
	"github.com/evisynth/backend/internal/types"
)

// ErrInsufficientData is returned for an empty study list. Fatal; callers
// must supply at least one study.
var ErrInsufficientData = errors.New("heterogeneity: at least one study required")

// I² band boundaries (percent).
const (
	bandModerate     = 25.0
	bandSubstantial  = 50.0
	bandConsiderable = 75.0
)

// Critical multipliers for the prediction interval: normal beyond 10 df,
// a coarse wide-tail value at or below. Deliberately not a full t-table.
const (
	predictionCritNormal = 1.96
	predictionCritSmall  = 2.5
	predictionSmallDF    = 10
)

// Engine computes heterogeneity statistics. Pure and stateless beyond its
// scoring constants; safe for concurrent use.
type Engine struct {
	scorer *confidence.Scorer
}

// New creates an engine with the given scoring constants.
func New(cfg confidence.Config) *Engine {
	return &Engine{scorer: confidence.New(cfg)}
}

// Assess computes the heterogeneity profile of a body of studies. Studies
// are normalized first; one study yields a degenerate (not failed) result.
func (e *Engine) Assess(studies []types.StudyEffect) (*types.HeterogeneityResult, error) {
	if len(studies) == 0 {
		return nil, ErrInsufficientData
	}

	normalized, err := effect.Normalize(studies)
	if err != nil {
		return nil, err
	}

	k := len(normalized)
	if k == 1 {
		return degenerate(normalized[0]), nil
	}

	effects := make([]float64, k)
	weights := make([]float64, k)
	var sumW, sumW2 float64
	for i, s := range normalized {
		w := 1 / (s.SE() * s.SE())
		effects[i] = s.EffectSize
		weights[i] = w
		sumW += w
		sumW2 += w * w
	}

	pooled := stat.Mean(effects, weights)
	pooledSE := math.Sqrt(1 / sumW)

	var q float64
	for i := range effects {
		d := effects[i] - pooled
		q += weights[i] * d * d
	}

	df := k - 1
	p := 1.0
	if df > 0 {
		p = 1 - numerics.RegIncGamma(float64(df)/2, q/2)
	}

	i2 := 0.0
	if q > 0 {
		i2 = clamp((q-float64(df))/q*100, 0, 100)
	}

	tau2 := 0.0
	if q > float64(df) {
		if c := sumW - sumW2/sumW; c > 0 {
			tau2 = (q - float64(df)) / c
		}
	}

	h2 := 1.0
	if df > 0 {
		h2 = math.Max(1, q/float64(df))
	}

	crit := predictionCritNormal
	if df <= predictionSmallDF {
		crit = predictionCritSmall
	}
	half := crit * math.Sqrt(pooledSE*pooledSE+tau2)

	model := "fixed"
	if i2 > bandSubstantial {
		model = "random"
	}

	var warnings []string
	if p >= 0.05 && p < 0.10 {
		warnings = append(warnings, fmt.Sprintf("borderline heterogeneity p-value (p=%.3f)", p))
	}
	if i2 > bandSubstantial && p >= 0.05 {
		warnings = append(warnings, "high I² without significant Q suggests the test is underpowered")
	}

	return &types.HeterogeneityResult{
		AnalysisID:      uuid.NewString(),
		Studies:         k,
		PooledEffect:    pooled,
		PooledSE:        pooledSE,
		Q:               q,
		DF:              df,
		PValue:          p,
		ISquared:        round1(i2),
		Category:        categorize(i2),
		TauSquared:      tau2,
		HSquared:        h2,
		PredictionLower: pooled - half,
		PredictionUpper: pooled + half,
		Model:           model,
		Confidence:      e.scorer.Score(e.scorer.SamplePenalty(k)),
		Warnings:        warnings,
	}, nil
}

// degenerate is the single-study placeholder: no between-study variance is
// estimable, so every statistic is at its null value.
func degenerate(s types.StudyEffect) *types.HeterogeneityResult {
	return &types.HeterogeneityResult{
		AnalysisID:      uuid.NewString(),
		Studies:         1,
		PooledEffect:    s.EffectSize,
		PooledSE:        s.SE(),
		Q:               0,
		DF:              0,
		PValue:          1,
		ISquared:        0,
		Category:        categorize(0),
		TauSquared:      0,
		HSquared:        1,
		PredictionLower: s.EffectSize - predictionCritSmall*s.SE(),
		PredictionUpper: s.EffectSize + predictionCritSmall*s.SE(),
		Model:           "fixed",
		Confidence:      0.5,
		Warnings:        []string{"single study: heterogeneity is not estimable"},
	}
}

func categorize(i2 float64) string {
	switch {
	case i2 < bandModerate:
		return "low"
	case i2 < bandSubstantial:
		return "moderate"
	case i2 < bandConsiderable:
		return "substantial"
	default:
		return "considerable"
	}
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
