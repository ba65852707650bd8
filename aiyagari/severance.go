package aiyagari

import (
	"fmt"

	"github.com/sirupsen/logrus"
)

// steadyIndex maps a raw income category to its expanded steady-state income
// state. Category 0 (unemployed) maps to state 0; employed categories sit
// above the decay states reserved for their severance.
func steadyIndex(raw int, econ *Economy) int {
	if raw == 0 {
		return 0
	}
	idx := raw + econ.SeveranceDuration
	if idx > econ.NumStates-1 {
		idx = econ.NumStates - 1
	}
	return idx
}

// decayIndex is the expanded income state at lag t (1-based) after leaving
// employment category raw: severance decays linearly over SeveranceDuration
// periods, then the agent is fully unemployed.
func decayIndex(raw, t int, econ *Economy) int {
	if t > econ.SeveranceDuration {
		return 0
	}
	idx := raw*econ.SeveranceDuration - (t - 1)
	if idx > econ.NumStates-1 {
		idx = econ.NumStates - 1
	}
	return idx
}

// ExpandPath converts a raw categorical income path into the expanded
// income-state-index path the policy grids are defined over. Each
// employed->unemployed step in the input produces SeveranceDuration decay
// states followed by the unemployed state, so the output is longer than the
// input by SeveranceDuration per job loss.
//
// Raw categories at or above NumRawStates are clamped to the top category;
// the clamp is logged with the affected positions. Negative categories are a
// hard error.
func ExpandPath(raw []int, econ *Economy) ([]int, error) {
	if len(raw) == 0 {
		return nil, nil
	}

	clamped := make([]int, len(raw))
	var clampedAt []int
	for j, r := range raw {
		if r < 0 {
			return nil, fmt.Errorf("income path position %d: negative category %d", j, r)
		}
		if r >= econ.NumRawStates {
			clampedAt = append(clampedAt, j)
			r = econ.NumRawStates - 1
		}
		clamped[j] = r
	}
	if len(clampedAt) > 0 {
		logrus.Warnf("income path categories above %d clamped at positions %v",
			econ.NumRawStates-1, clampedAt)
	}

	out := make([]int, 0, len(raw))
	out = append(out, steadyIndex(clamped[0], econ))
	prev := clamped[0]
	for _, cur := range clamped[1:] {
		if prev > 0 && cur == 0 {
			// Job loss: walk the severance decay before landing on
			// full unemployment.
			for t := 1; t <= econ.SeveranceDuration; t++ {
				out = append(out, decayIndex(prev, t, econ))
			}
			out = append(out, steadyIndex(0, econ))
		} else {
			out = append(out, steadyIndex(cur, econ))
		}
		prev = cur
	}
	return out, nil
}
