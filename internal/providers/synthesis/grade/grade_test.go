package grade

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/evisynth/backend/internal/providers/synthesis/confidence"
	"github.com/evisynth/backend/internal/types"
)

func TestStartingQuality(t *testing.T) {
	assert.Equal(t, types.QualityHigh, StartingQuality(types.DesignRandomizedTrial))
	assert.Equal(t, types.QualityLow, StartingQuality(types.DesignObservational))
	assert.Equal(t, types.QualityVeryLow, StartingQuality(types.DesignCaseSeries))
	assert.Equal(t, types.QualityVeryLow, StartingQuality(types.DesignCaseReport))
}

func TestAssess(t *testing.T) {
	engine := New(confidence.Default())

	t.Run("randomized trial downgraded twice lands on low", func(t *testing.T) {
		res, err := engine.Assess(Input{
			StudyDesign: types.DesignRandomizedTrial,
			Downgrades: types.DowngradeSet{
				RiskOfBias:  types.DowngradeFactor{Severity: types.SeveritySerious, Rationale: "unblinded outcome assessment"},
				Imprecision: types.DowngradeFactor{Severity: types.SeveritySerious, Rationale: "wide confidence interval"},
			},
		})
		require.NoError(t, err)
		assert.Equal(t, types.QualityHigh, res.StartingQuality)
		assert.Equal(t, 2, res.TotalDowngrades)
		assert.Equal(t, types.QualityLow, res.FinalQuality)
		assert.InDelta(t, 0.7, res.Confidence, 1e-12)
		assert.Empty(t, res.Warnings)
	})

	t.Run("very serious counts double", func(t *testing.T) {
		res, err := engine.Assess(Input{
			StudyDesign: types.DesignRandomizedTrial,
			Downgrades: types.DowngradeSet{
				Inconsistency: types.DowngradeFactor{Severity: types.SeverityVerySerious, Rationale: "non-overlapping intervals"},
			},
		})
		require.NoError(t, err)
		assert.Equal(t, 2, res.TotalDowngrades)
		assert.Equal(t, types.QualityLow, res.FinalQuality)
	})

	t.Run("final quality clamps at the floor", func(t *testing.T) {
		res, err := engine.Assess(Input{
			StudyDesign: types.DesignCaseSeries,
			Downgrades: types.DowngradeSet{
				RiskOfBias:  types.DowngradeFactor{Severity: types.SeverityVerySerious, Rationale: "no control group"},
				Imprecision: types.DowngradeFactor{Severity: types.SeverityVerySerious, Rationale: "tiny sample"},
			},
		})
		require.NoError(t, err)
		assert.Equal(t, types.QualityVeryLow, res.FinalQuality)
		// Floor quality derates confidence by one signal.
		assert.InDelta(t, 0.6, res.Confidence, 1e-12)
	})

	t.Run("observational body can be upgraded", func(t *testing.T) {
		res, err := engine.Assess(Input{
			StudyDesign: types.DesignObservational,
			Upgrades: types.UpgradeSet{
				LargeEffect: types.UpgradeFactor{Level: types.UpgradeTwoLevels, Rationale: "RR > 5"},
			},
		})
		require.NoError(t, err)
		assert.Equal(t, types.QualityLow, res.StartingQuality)
		assert.Equal(t, 2, res.TotalUpgrades)
		assert.Equal(t, types.QualityHigh, res.FinalQuality)
	})

	t.Run("upgrades are computed but unused for randomized trials", func(t *testing.T) {
		res, err := engine.Assess(Input{
			StudyDesign: types.DesignRandomizedTrial,
			Upgrades: types.UpgradeSet{
				DoseResponse: types.UpgradeFactor{Level: types.UpgradeOneLevel, Rationale: "clear gradient"},
			},
		})
		require.NoError(t, err)
		assert.Equal(t, 1, res.TotalUpgrades)
		assert.Equal(t, types.QualityHigh, res.FinalQuality)
		assert.Len(t, res.Warnings, 1)
	})

	t.Run("upgrade cannot push past the ceiling", func(t *testing.T) {
		res, err := engine.Assess(Input{
			StudyDesign: types.DesignObservational,
			Upgrades: types.UpgradeSet{
				LargeEffect:  types.UpgradeFactor{Level: types.UpgradeTwoLevels, Rationale: "large effect"},
				DoseResponse: types.UpgradeFactor{Level: types.UpgradeTwoLevels, Rationale: "gradient"},
			},
		})
		require.NoError(t, err)
		assert.Equal(t, 4, res.TotalUpgrades)
		assert.Equal(t, types.QualityHigh, res.FinalQuality)
	})

	t.Run("multiple unjustified judgments derate confidence", func(t *testing.T) {
		res, err := engine.Assess(Input{
			StudyDesign: types.DesignRandomizedTrial,
			Downgrades: types.DowngradeSet{
				RiskOfBias:    types.DowngradeFactor{Severity: types.SeveritySerious},
				Inconsistency: types.DowngradeFactor{Severity: types.SeveritySerious},
			},
		})
		require.NoError(t, err)
		assert.InDelta(t, 0.6, res.Confidence, 1e-12)
	})

	t.Run("final quality is always on the ordinal scale", func(t *testing.T) {
		valid := map[types.QualityLevel]bool{
			types.QualityVeryLow: true, types.QualityLow: true,
			types.QualityModerate: true, types.QualityHigh: true,
		}
		for _, design := range []types.StudyDesign{types.DesignRandomizedTrial, types.DesignObservational, types.DesignCaseSeries} {
			res, err := engine.Assess(Input{
				StudyDesign: design,
				Downgrades: types.DowngradeSet{
					RiskOfBias: types.DowngradeFactor{Severity: types.SeverityVerySerious, Rationale: "x"},
				},
				Upgrades: types.UpgradeSet{
					Confounders: types.UpgradeFactor{Level: types.UpgradeTwoLevels, Rationale: "y"},
				},
			})
			require.NoError(t, err)
			assert.True(t, valid[res.FinalQuality], "design=%s got %s", design, res.FinalQuality)
		}
	})
}

func TestRecommend(t *testing.T) {
	t.Run("strong requires quality, balance, and values together", func(t *testing.T) {
		rec := Recommend(RecommendationInput{
			Quality:     types.QualityHigh,
			Balance:     "clearly_favors",
			Values:      "consistent",
			ResourceUse: "low",
		})
		assert.Equal(t, "strong", rec.Strength)
		assert.Empty(t, rec.Rationale)
	})

	t.Run("weak recommendation itemizes every shortfall", func(t *testing.T) {
		rec := Recommend(RecommendationInput{
			Quality:     types.QualityLow,
			Balance:     "uncertain",
			Values:      "variable",
			ResourceUse: "high",
		})
		assert.Equal(t, "weak", rec.Strength)
		assert.Equal(t, []string{
			"low-quality evidence",
			"uncertain balance of benefits and harms",
			"variable patient values",
			"high resource use",
		}, rec.Rationale)
	})

	t.Run("single shortfall is enough to weaken", func(t *testing.T) {
		rec := Recommend(RecommendationInput{
			Quality: types.QualityModerate,
			Balance: "clearly_favors",
			Values:  "consistent",
		})
		assert.Equal(t, "weak", rec.Strength)
		assert.Equal(t, []string{"low-quality evidence"}, rec.Rationale)
	})
}
