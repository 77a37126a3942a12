package effect

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/evisynth/backend/internal/types"
)

func f(v float64) *float64 { return &v }

func TestNormalize(t *testing.T) {
	t.Run("passes through explicit standard error", func(t *testing.T) {
		out, err := Normalize([]types.StudyEffect{
			{ID: "s1", EffectSize: 0.5, StandardError: f(0.1)},
		})
		require.NoError(t, err)
		assert.Equal(t, 0.1, out[0].SE())
	})

	t.Run("derives standard error from CI bounds", func(t *testing.T) {
		out, err := Normalize([]types.StudyEffect{
			{ID: "s1", EffectSize: 0.7, CILower: f(0.2), CIUpper: f(1.2)},
		})
		require.NoError(t, err)
		assert.Equal(t, 1.0/3.92, out[0].SE())
	})

	t.Run("prefers explicit SE over CI bounds", func(t *testing.T) {
		out, err := Normalize([]types.StudyEffect{
			{ID: "s1", EffectSize: 0.7, StandardError: f(0.3), CILower: f(0.2), CIUpper: f(1.2)},
		})
		require.NoError(t, err)
		assert.Equal(t, 0.3, out[0].SE())
	})

	t.Run("rejects study with neither SE nor CI", func(t *testing.T) {
		_, err := Normalize([]types.StudyEffect{
			{ID: "bad", EffectSize: 0.5},
		})
		var specErr *InvalidSpecificationError
		require.ErrorAs(t, err, &specErr)
		assert.Equal(t, "bad", specErr.StudyID)
	})

	t.Run("rejects inverted CI bounds", func(t *testing.T) {
		_, err := Normalize([]types.StudyEffect{
			{ID: "bad", EffectSize: 0.5, CILower: f(1.2), CIUpper: f(0.2)},
		})
		var specErr *InvalidSpecificationError
		require.ErrorAs(t, err, &specErr)
	})

	t.Run("rejects non-positive standard error", func(t *testing.T) {
		_, err := Normalize([]types.StudyEffect{
			{ID: "bad", EffectSize: 0.5, StandardError: f(0)},
		})
		var specErr *InvalidSpecificationError
		require.ErrorAs(t, err, &specErr)
	})

	t.Run("does not mutate the input slice", func(t *testing.T) {
		in := []types.StudyEffect{
			{ID: "s1", EffectSize: 0.7, CILower: f(0.2), CIUpper: f(1.2)},
		}
		_, err := Normalize(in)
		require.NoError(t, err)
		assert.Nil(t, in[0].StandardError)
	})
}
