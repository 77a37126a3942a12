package bias

import (
	"math"
	"sort"

	"github.com/evisynth/backend/internal/providers/synthesis/numerics"
	"github.com/evisynth/backend/internal/types"
)

// beggTest computes Kendall's tau between the tie-adjusted ranks of effect
// size and of variance, with the normal approximation for the null
// distribution. Bodies below three studies degrade to the p=1 placeholder.
func beggTest(studies []types.StudyEffect) types.BeggResult {
	n := len(studies)
	if n < minStudiesPerTest {
		return types.BeggResult{PValue: 1}
	}

	effects := make([]float64, n)
	variances := make([]float64, n)
	for i, s := range studies {
		effects[i] = s.EffectSize
		variances[i] = s.SE() * s.SE()
	}

	effectRanks := averageRanks(effects)
	varianceRanks := averageRanks(variances)

	// O(n²) pair comparison; tied pairs contribute nothing.
	var s float64
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			s += sign(effectRanks[j]-effectRanks[i]) * sign(varianceRanks[j]-varianceRanks[i])
		}
	}

	pairs := float64(n*(n-1)) / 2
	tau := s / pairs

	z := tau / math.Sqrt(2*float64(2*n+5)/float64(9*n*(n-1)))
	p := 2 * (1 - numerics.NormalCDF(math.Abs(z)))

	return types.BeggResult{
		Tau:    tau,
		Z:      z,
		PValue: clampProb(p),
	}
}

// averageRanks assigns 1-based ranks, giving tied values the mean of the
// rank positions they span.
func averageRanks(values []float64) []float64 {
	n := len(values)
	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(a, b int) bool {
		return values[order[a]] < values[order[b]]
	})

	ranks := make([]float64, n)
	for i := 0; i < n; {
		j := i
		for j+1 < n && values[order[j+1]] == values[order[i]] {
			j++
		}
		// Positions i..j hold one tie group; all get the mean rank.
		mean := float64(i+j)/2 + 1
		for k := i; k <= j; k++ {
			ranks[order[k]] = mean
		}
		i = j + 1
	}
	return ranks
}

func sign(v float64) float64 {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	default:
		return 0
	}
}
