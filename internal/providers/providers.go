// Package providers wires up service provider constructors.
package providers

import (
	"github.com/evisynth/backend/internal/providers/synthesis"
	"github.com/evisynth/backend/internal/providers/synthesis/confidence"
)

// NewSynthesis creates the synthesis provider with default scoring (for tests)
func NewSynthesis() *synthesis.Provider {
	return synthesis.NewProvider(confidence.Default())
}
