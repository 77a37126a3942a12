// Package grade implements GRADE evidence-certainty assessment: starting
// quality by study design, downgrade/upgrade aggregation over the fixed
// factor sets, and recommendation strength.
package grade

import (
	"github.com/google/uuid"

	"github.com/evisynth/backend/internal/providers/synthesis/confidence"
	"github.com/evisynth/backend/internal/types"
)

// Input is one complete GRADE assessment request. Upgrades are optional
// and only meaningful for observational designs.
type Input struct {
	StudyDesign types.StudyDesign  `json:"study_design"`
	Downgrades  types.DowngradeSet `json:"downgrades"`
	Upgrades    types.UpgradeSet   `json:"upgrades"`
}

// Engine performs GRADE assessments. Pure and stateless beyond its scoring
// constants; safe for concurrent use.
type Engine struct {
	scorer *confidence.Scorer
}

// New creates an engine with the given scoring constants.
func New(cfg confidence.Config) *Engine {
	return &Engine{scorer: confidence.New(cfg)}
}

// StartingQuality maps a study design to its GRADE starting level.
func StartingQuality(design types.StudyDesign) types.QualityLevel {
	switch design {
	case types.DesignRandomizedTrial:
		return types.QualityHigh
	case types.DesignObservational:
		return types.QualityLow
	default:
		// Case series and case reports start at the floor.
		return types.QualityVeryLow
	}
}

// Assess aggregates the factor sets into a final quality level. Downgrades
// apply to every design; upgrades are computed for all but only applied to
// observational bodies, with a warning when supplied for a randomized trial.
func (e *Engine) Assess(in Input) (*types.GradeResult, error) {
	starting := StartingQuality(in.StudyDesign)

	downgrades := 0
	for _, f := range in.Downgrades.Factors() {
		downgrades += f.Severity.Penalty()
	}

	upgrades := 0
	for _, f := range in.Upgrades.Factors() {
		upgrades += f.Level.Credit()
	}

	var warnings []string
	if in.StudyDesign == types.DesignRandomizedTrial && !in.Upgrades.Empty() {
		warnings = append(warnings, "upgrade factors are ignored for randomized trials")
	}

	final := types.QualityFromIndex(starting.Index() - downgrades)
	if in.StudyDesign == types.DesignObservational {
		final = types.QualityFromIndex(final.Index() + upgrades)
	}

	penalties := []float64{}
	if unclearSignals(in) > 1 {
		penalties = append(penalties, e.scorer.SignalPenalty(1))
	}
	if final == types.QualityVeryLow {
		penalties = append(penalties, e.scorer.SignalPenalty(1))
	}

	return &types.GradeResult{
		AnalysisID:      uuid.NewString(),
		StudyDesign:     in.StudyDesign,
		StartingQuality: starting,
		TotalDowngrades: downgrades,
		TotalUpgrades:   upgrades,
		FinalQuality:    final,
		Confidence:      e.scorer.Score(penalties...),
		Warnings:        warnings,
	}, nil
}

// unclearSignals counts judged factors that carry no rationale. A severity
// or upgrade asserted without justification is treated as an unclear
// judgment for confidence scoring.
func unclearSignals(in Input) int {
	n := 0
	for _, f := range in.Downgrades.Factors() {
		if f.Severity.Penalty() > 0 && f.Rationale == "" {
			n++
		}
	}
	for _, f := range in.Upgrades.Factors() {
		if f.Level.Credit() > 0 && f.Rationale == "" {
			n++
		}
	}
	return n
}

// RecommendationInput captures the judgments behind a recommendation.
type RecommendationInput struct {
	Quality     types.QualityLevel `json:"quality"`
	Balance     string             `json:"balance"`      // "clearly_favors" or "uncertain"
	Values      string             `json:"values"`       // "consistent" or "variable"
	ResourceUse string             `json:"resource_use"` // "low", "moderate", "high"
}

// Recommend derives recommendation strength. Strong requires high-quality
// evidence, a clearly favorable balance, and consistent patient values;
// anything else is weak with an itemized rationale.
func Recommend(in RecommendationInput) types.Recommendation {
	if in.Quality == types.QualityHigh && in.Balance == "clearly_favors" && in.Values == "consistent" {
		return types.Recommendation{Strength: "strong", Rationale: []string{}}
	}

	var rationale []string
	if in.Quality != types.QualityHigh {
		rationale = append(rationale, "low-quality evidence")
	}
	if in.Balance != "clearly_favors" {
		rationale = append(rationale, "uncertain balance of benefits and harms")
	}
	if in.Values != "consistent" {
		rationale = append(rationale, "variable patient values")
	}
	if in.ResourceUse == "high" {
		rationale = append(rationale, "high resource use")
	}

	return types.Recommendation{Strength: "weak", Rationale: rationale}
}
