// Package confidence provides the shared scoring heuristic the synthesis
// engines use to derate output confidence under small samples or
// conflicting signals.
package confidence

// Config holds the scoring constants. These are tunable business
// heuristics, not derived statistics; deployments may override them via
// the scoring config file.
type Config struct {
	Base                float64 `yaml:"base"`
	SmallSamplePenalty  float64 `yaml:"small_sample_penalty"`
	ModestSamplePenalty float64 `yaml:"modest_sample_penalty"`
	SignalPenalty       float64 `yaml:"signal_penalty"`
	Min                 float64 `yaml:"min"`
	Max                 float64 `yaml:"max"`
}

// Default returns the standard scoring constants.
func Default() Config {
	return Config{
		Base:                0.7,
		SmallSamplePenalty:  0.2,
		ModestSamplePenalty: 0.1,
		SignalPenalty:       0.1,
		Min:                 0.1,
		Max:                 0.9,
	}
}

// Scorer applies a Config. The zero value is unusable; construct with New.
type Scorer struct {
	cfg Config
}

// New creates a scorer with the provided constants.
func New(cfg Config) *Scorer {
	return &Scorer{cfg: cfg}
}

// Score returns the clamped base score after applying the given penalties.
func (s *Scorer) Score(penalties ...float64) float64 {
	v := s.cfg.Base
	for _, p := range penalties {
		v -= p
	}
	return s.Clamp(v)
}

// SamplePenalty returns the derate for a body of k studies: the small-sample
// penalty below 3, the modest-sample penalty below 5, otherwise zero.
func (s *Scorer) SamplePenalty(k int) float64 {
	switch {
	case k < 3:
		return s.cfg.SmallSamplePenalty
	case k < 5:
		return s.cfg.ModestSamplePenalty
	default:
		return 0
	}
}

// SignalPenalty returns the derate for n conflicting or unclear signals.
func (s *Scorer) SignalPenalty(n int) float64 {
	if n <= 0 {
		return 0
	}
	return float64(n) * s.cfg.SignalPenalty
}

// Clamp bounds a confidence value to the configured range.
func (s *Scorer) Clamp(v float64) float64 {
	if v < s.cfg.Min {
		return s.cfg.Min
	}
	if v > s.cfg.Max {
		return s.cfg.Max
	}
	return v
}
