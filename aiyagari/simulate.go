package aiyagari

import "fmt"

// PolicyVariable selects which policy grid an operation reads.
type PolicyVariable int

const (
	PolicyAsset PolicyVariable = iota
	PolicyConsumption
)

func (v PolicyVariable) String() string {
	switch v {
	case PolicyAsset:
		return "asset"
	case PolicyConsumption:
		return "consumption"
	}
	return fmt.Sprintf("PolicyVariable(%d)", int(v))
}

// ParsePolicyVariable resolves a CLI/config name to a PolicyVariable.
func ParsePolicyVariable(s string) (PolicyVariable, error) {
	switch s {
	case "asset", "savings":
		return PolicyAsset, nil
	case "consumption":
		return PolicyConsumption, nil
	}
	return 0, fmt.Errorf("unknown policy variable %q (want asset or consumption)", s)
}

func (v PolicyVariable) grid(sol *Solution) [][]float64 {
	if v == PolicyConsumption {
		return sol.Consumption
	}
	return sol.Savings
}

// SimulatePath forward-simulates an agent's asset and consumption
// trajectories along an expanded income path, starting from (a0, c0). The
// path must already be severance-expanded (see ExpandPath): the policy grids
// are defined over the expanded state space. Both returned trajectories have
// length len(expanded)+1, with the initial condition at position 0.
func SimulatePath(expanded []int, a0, c0 float64, sol *Solution, econ *Economy) (assets, consumption []float64, err error) {
	for j, iy := range expanded {
		if iy < 0 || iy >= econ.NumStates {
			return nil, nil, fmt.Errorf("expanded path position %d: income state %d out of range [0,%d)",
				j, iy, econ.NumStates)
		}
	}

	n := len(expanded)
	assets = make([]float64, n+1)
	consumption = make([]float64, n+1)
	assets[0], consumption[0] = a0, c0
	for i := 0; i < n; i++ {
		iy := expanded[i]
		assets[i+1] = interpPolicy(sol.Savings, econ.AssetGrid, assets[i], iy)
		consumption[i+1] = interpPolicy(sol.Consumption, econ.AssetGrid, assets[i], iy)
	}
	return assets, consumption, nil
}

// SimulateFixedState iterates the chosen policy at a single income state iy:
// starting from x0, each step interpolates the policy's column at iy over
// the asset grid, truncating at the asset floor, and feeds the result back.
// The returned trajectory has length n with x0 at position 0. This answers
// what happens to an agent assumed to remain in state iy forever.
func SimulateFixedState(iy, n int, x0 float64, sol *Solution, econ *Economy, variable PolicyVariable) ([]float64, error) {
	if iy < 0 || iy >= econ.NumStates {
		return nil, fmt.Errorf("income state %d out of range [0,%d)", iy, econ.NumStates)
	}
	if n < 1 {
		return nil, fmt.Errorf("horizon must be >= 1, got %d", n)
	}

	column := make([]float64, econ.NumAssets())
	grid := variable.grid(sol)
	for ia := range column {
		column[ia] = grid[ia][iy]
	}

	out := make([]float64, n)
	out[0] = x0
	for i := 1; i < n; i++ {
		out[i], _ = InterpBounded(out[i-1], econ.AssetGrid, column, econ.AssetFloor)
	}
	return out, nil
}
