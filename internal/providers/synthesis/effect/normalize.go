// Package effect normalizes heterogeneous study inputs into a uniform
// effect/standard-error representation.
package effect

import (
	"fmt"

	"github.com/evisynth/backend/internal/types"
)

// ciWidthTo95SE converts a 95% CI width to a standard error (2 × 1.96).
const ciWidthTo95SE = 3.92

// InvalidSpecificationError reports a study that carries neither a usable
// standard error nor valid CI bounds. Fatal for the offending study.
type InvalidSpecificationError struct {
	StudyID string
	Reason  string
}

func (e *InvalidSpecificationError) Error() string {
	return fmt.Sprintf("study %q: invalid effect specification: %s", e.StudyID, e.Reason)
}

// Normalize returns a copy of the input studies, each guaranteed to carry a
// positive standard error. A study with CI bounds but no SE gets
// se = (ci_upper − ci_lower) / 3.92.
func Normalize(studies []types.StudyEffect) ([]types.StudyEffect, error) {
	out := make([]types.StudyEffect, 0, len(studies))
	for _, s := range studies {
		normalized, err := normalizeOne(s)
		if err != nil {
			return nil, err
		}
		out = append(out, normalized)
	}
	return out, nil
}

func normalizeOne(s types.StudyEffect) (types.StudyEffect, error) {
	if s.StandardError != nil {
		if *s.StandardError <= 0 {
			return s, &InvalidSpecificationError{StudyID: s.ID, Reason: "standard error must be positive"}
		}
		return s, nil
	}

	if s.CILower == nil || s.CIUpper == nil {
		return s, &InvalidSpecificationError{StudyID: s.ID, Reason: "requires standard_error or ci_lower/ci_upper"}
	}
	if *s.CILower >= *s.CIUpper {
		return s, &InvalidSpecificationError{StudyID: s.ID, Reason: "ci_lower must be below ci_upper"}
	}

	se := (*s.CIUpper - *s.CILower) / ciWidthTo95SE
	s.StandardError = &se
	return s, nil
}
