package confidence

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScorer(t *testing.T) {
	s := New(Default())

	t.Run("base score with no penalties", func(t *testing.T) {
		assert.InDelta(t, 0.7, s.Score(), 1e-12)
	})

	t.Run("sample penalties", func(t *testing.T) {
		assert.Equal(t, 0.2, s.SamplePenalty(1))
		assert.Equal(t, 0.2, s.SamplePenalty(2))
		assert.Equal(t, 0.1, s.SamplePenalty(3))
		assert.Equal(t, 0.1, s.SamplePenalty(4))
		assert.Equal(t, 0.0, s.SamplePenalty(5))
		assert.Equal(t, 0.0, s.SamplePenalty(50))
	})

	t.Run("signal penalties scale per signal", func(t *testing.T) {
		assert.Equal(t, 0.0, s.SignalPenalty(0))
		assert.Equal(t, 0.1, s.SignalPenalty(1))
		assert.InDelta(t, 0.3, s.SignalPenalty(3), 1e-12)
	})

	t.Run("clamps to the configured range", func(t *testing.T) {
		assert.Equal(t, 0.1, s.Score(0.9))
		assert.Equal(t, 0.9, s.Score(-0.5))
		assert.Equal(t, 0.1, s.Clamp(-2))
		assert.Equal(t, 0.9, s.Clamp(2))
	})

	t.Run("custom constants are honored", func(t *testing.T) {
		custom := New(Config{Base: 0.8, SmallSamplePenalty: 0.3, ModestSamplePenalty: 0.15, SignalPenalty: 0.05, Min: 0.2, Max: 0.85})
		assert.InDelta(t, 0.5, custom.Score(custom.SamplePenalty(2)), 1e-12)
		assert.Equal(t, 0.2, custom.Clamp(0))
	})
}
