package bias

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/evisynth/backend/internal/providers/synthesis/confidence"
	"github.com/evisynth/backend/internal/types"
)

func f(v float64) *float64 { return &v }

// asymmetricStudies builds a body whose effect sizes grow with their
// standard errors, the classic small-study signature.
func asymmetricStudies() []types.StudyEffect {
	noise := []float64{0.005, -0.005, 0.004, -0.004, 0.003, -0.003, 0.002, -0.002, 0.001, -0.001}
	out := make([]types.StudyEffect, 10)
	for i := 0; i < 10; i++ {
		se := 0.05 * float64(i+1)
		out[i] = types.StudyEffect{
			ID:            string(rune('a' + i)),
			EffectSize:    0.1 + 1.5*se + noise[i],
			StandardError: f(se),
		}
	}
	return out
}

// symmetricStudies builds pairs mirrored around 0.5 at each precision, so
// neither test should find asymmetry.
func symmetricStudies() []types.StudyEffect {
	var out []types.StudyEffect
	for i, se := range []float64{0.1, 0.2, 0.3, 0.4, 0.5} {
		d := se / 2
		out = append(out,
			types.StudyEffect{ID: string(rune('a' + 2*i)), EffectSize: 0.5 - d, StandardError: f(se)},
			types.StudyEffect{ID: string(rune('b' + 2*i)), EffectSize: 0.5 + d, StandardError: f(se)},
		)
	}
	return out
}

func TestAssess(t *testing.T) {
	engine := New(confidence.Default())

	t.Run("empty input is fatal", func(t *testing.T) {
		_, err := engine.Assess(nil, nil)
		assert.ErrorIs(t, err, ErrInsufficientData)
	})

	t.Run("small-study effect is detected by both tests", func(t *testing.T) {
		res, err := engine.Assess(asymmetricStudies(), nil)
		require.NoError(t, err)

		assert.Less(t, res.Egger.PValue, 0.05)
		assert.Greater(t, res.Egger.Intercept, 0.0)
		assert.Equal(t, 8, res.Egger.DF)
		assert.Less(t, res.Begg.PValue, 0.05)
		assert.InDelta(t, 1.0, res.Begg.Tau, 1e-12)

		assert.True(t, res.BiasDetected)
		assert.Equal(t, "high", res.Assessment)
		assert.InDelta(t, 0.7, res.Confidence, 1e-12)
		assert.Empty(t, res.Warnings)
	})

	t.Run("symmetric funnel is clean", func(t *testing.T) {
		res, err := engine.Assess(symmetricStudies(), nil)
		require.NoError(t, err)

		assert.False(t, res.BiasDetected)
		assert.GreaterOrEqual(t, res.Egger.PValue, 0.10)
		assert.GreaterOrEqual(t, res.Begg.PValue, 0.10)
	})

	t.Run("fewer than three studies degenerates to p=1", func(t *testing.T) {
		res, err := engine.Assess([]types.StudyEffect{
			{ID: "a", EffectSize: 0.4, StandardError: f(0.1)},
			{ID: "b", EffectSize: 0.6, StandardError: f(0.2)},
		}, nil)
		require.NoError(t, err)

		assert.Equal(t, 1.0, res.Egger.PValue)
		assert.Equal(t, 1.0, res.Begg.PValue)
		assert.Zero(t, res.Egger.Intercept)
		assert.Zero(t, res.Begg.Tau)
		assert.False(t, res.BiasDetected)
		assert.Equal(t, "low", res.Assessment)
		assert.InDelta(t, 0.5, res.Confidence, 1e-12)
		assert.NotEmpty(t, res.Warnings)
	})

	t.Run("p-values stay within probability bounds", func(t *testing.T) {
		bodies := [][]types.StudyEffect{
			asymmetricStudies(),
			symmetricStudies(),
			asymmetricStudies()[:3],
			asymmetricStudies()[:2],
		}
		for i, body := range bodies {
			res, err := engine.Assess(body, nil)
			require.NoError(t, err, "body %d", i)
			assert.GreaterOrEqual(t, res.Egger.PValue, 0.0, "body %d", i)
			assert.LessOrEqual(t, res.Egger.PValue, 1.0, "body %d", i)
			assert.GreaterOrEqual(t, res.Begg.PValue, 0.0, "body %d", i)
			assert.LessOrEqual(t, res.Begg.PValue, 1.0, "body %d", i)
		}
	})

	t.Run("explicit pooled effect centers the result", func(t *testing.T) {
		pooled := 0.42
		res, err := engine.Assess(symmetricStudies(), &pooled)
		require.NoError(t, err)
		assert.Equal(t, 0.42, res.PooledEffect)
	})

	t.Run("normalization failures propagate", func(t *testing.T) {
		_, err := engine.Assess([]types.StudyEffect{{ID: "bad", EffectSize: 0.5}}, nil)
		assert.Error(t, err)
	})
}

func TestFunnel(t *testing.T) {
	engine := New(confidence.Default())

	t.Run("computes precision per study", func(t *testing.T) {
		points, err := engine.Funnel([]types.StudyEffect{
			{ID: "a", EffectSize: 0.4, StandardError: f(0.2)},
			{ID: "b", EffectSize: 0.6, CILower: f(0.208), CIUpper: f(0.992)},
		})
		require.NoError(t, err)
		require.Len(t, points, 2)
		assert.Equal(t, 5.0, points[0].Precision)
		assert.InDelta(t, 0.2, points[1].StandardError, 1e-12)
		assert.InDelta(t, 5.0, points[1].Precision, 1e-9)
	})

	t.Run("empty input is fatal", func(t *testing.T) {
		_, err := engine.Funnel(nil)
		assert.ErrorIs(t, err, ErrInsufficientData)
	})
}

func TestAverageRanks(t *testing.T) {
	t.Run("distinct values get integer ranks", func(t *testing.T) {
		assert.Equal(t, []float64{2, 1, 3}, averageRanks([]float64{0.5, 0.1, 0.9}))
	})

	t.Run("ties share the mean of their positions", func(t *testing.T) {
		assert.Equal(t, []float64{1.5, 1.5, 3}, averageRanks([]float64{0.2, 0.2, 0.9}))
		assert.Equal(t, []float64{2, 2, 2}, averageRanks([]float64{0.4, 0.4, 0.4}))
	})
}
