// Package bias screens a body of studies for publication bias using
// Egger's regression test and Begg's rank-correlation test, and produces
// funnel-plot coordinates for the report layer.
package bias

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gonum.org/v1/gonum/stat"

	"github.com/evisynth/backend/internal/providers/synthesis/confidence"
	"github.com/evisynth/backend/internal/providers/synthesis/effect"
	"github.com/evisynth/backend/internal/types"
)

// ErrInsufficientData is returned for an empty study list.
var ErrInsufficientData = errors.New("bias: at least one study required")

// significanceLevel is the asymmetry screening threshold. Both tests are
// low-powered, so the conventional 0.10 is used rather than 0.05.
const significanceLevel = 0.10

// minStudiesPerTest is the smallest body either test can run on; below it
// the tests degrade to a conservative p=1 placeholder.
const minStudiesPerTest = 3

// smallBody marks the size under which the overall assessment is always low.
const smallBody = 10

// Engine runs the asymmetry tests. Pure and stateless beyond its scoring
// constants; safe for concurrent use.
type Engine struct {
	scorer *confidence.Scorer
}

// New creates an engine with the given scoring constants.
func New(cfg confidence.Config) *Engine {
	return &Engine{scorer: confidence.New(cfg)}
}

// Assess screens the studies for funnel-plot asymmetry. pooled is the
// fixed-effect estimate to center the funnel on; pass nil to have it
// recomputed by inverse-variance weighting.
func (e *Engine) Assess(studies []types.StudyEffect, pooled *float64) (*types.BiasResult, error) {
	if len(studies) == 0 {
		return nil, ErrInsufficientData
	}

	normalized, err := effect.Normalize(studies)
	if err != nil {
		return nil, err
	}

	n := len(normalized)
	center := pooledEffect(normalized)
	if pooled != nil {
		center = *pooled
	}

	var warnings []string
	egger := eggerTest(normalized)
	begg := beggTest(normalized)
	if n < minStudiesPerTest {
		warnings = append(warnings, "fewer than three studies: asymmetry tests are not estimable")
	}

	eggerSig := egger.PValue < significanceLevel
	beggSig := begg.PValue < significanceLevel

	assessment := "moderate"
	switch {
	case n < smallBody:
		assessment = "low"
	case eggerSig && beggSig:
		assessment = "high"
	}

	disagree := 0
	if eggerSig != beggSig {
		disagree = 1
		warnings = append(warnings, fmt.Sprintf("asymmetry tests disagree (Egger p=%.3f, Begg p=%.3f)", egger.PValue, begg.PValue))
	}

	return &types.BiasResult{
		AnalysisID:   uuid.NewString(),
		Studies:      n,
		PooledEffect: center,
		Egger:        egger,
		Begg:         begg,
		BiasDetected: eggerSig || beggSig,
		Assessment:   assessment,
		Funnel:       funnelData(normalized),
		Confidence:   e.scorer.Score(e.scorer.SamplePenalty(n), e.scorer.SignalPenalty(disagree)),
		Warnings:     warnings,
	}, nil
}

// Funnel returns per-study funnel coordinates without running the tests.
func (e *Engine) Funnel(studies []types.StudyEffect) ([]types.FunnelPoint, error) {
	if len(studies) == 0 {
		return nil, ErrInsufficientData
	}
	normalized, err := effect.Normalize(studies)
	if err != nil {
		return nil, err
	}
	return funnelData(normalized), nil
}

func pooledEffect(studies []types.StudyEffect) float64 {
	effects := make([]float64, len(studies))
	weights := make([]float64, len(studies))
	for i, s := range studies {
		effects[i] = s.EffectSize
		weights[i] = 1 / (s.SE() * s.SE())
	}
	return stat.Mean(effects, weights)
}

func funnelData(studies []types.StudyEffect) []types.FunnelPoint {
	points := make([]types.FunnelPoint, len(studies))
	for i, s := range studies {
		points[i] = types.FunnelPoint{
			ID:            s.ID,
			EffectSize:    s.EffectSize,
			StandardError: s.SE(),
			Precision:     1 / s.SE(),
		}
	}
	return points
}
