package aiyagari

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

// restrictDense re-applies a single-state block restriction to an already
// restricted transition matrix, for checking that restriction is idempotent.
func restrictDense(src *mat.Dense, aSize, iy, jy int) *mat.Dense {
	n, _ := src.Dims()
	out := mat.NewDense(n, n, nil)
	for i := jy * aSize; i < (jy+1)*aSize; i++ {
		for j := iy * aSize; j < (iy+1)*aSize; j++ {
			out.Set(i, j, src.At(i, j))
		}
	}
	return out
}

// uniformModel has two asset points and two income states with a fully
// mixing transition (every column uniform) and a uniform stationary
// distribution.
func uniformModel() (*Economy, *Solution) {
	econ := &Economy{
		AssetGrid:    []float64{0, 1},
		NumStates:    2,
		NumRawStates: 2,
	}
	row := []float64{0.25, 0.25, 0.25, 0.25}
	sol := &Solution{
		Savings:     [][]float64{{1, 2}, {3, 4}},
		Consumption: [][]float64{{5, 6}, {7, 8}},
		Transition:  [][]float64{row, row, row, row},
		Stationary:  [][]float64{{0.25, 0.25}, {0.25, 0.25}},
	}
	return econ, sol
}

func TestNewAnalyzer_RejectsDimensionMismatch(t *testing.T) {
	econ, sol := uniformModel()

	bad := &Solution{
		Savings:     sol.Savings,
		Consumption: sol.Consumption,
		Transition:  [][]float64{{1, 0}, {0, 1}}, // 2x2 against a 4-state composite space
		Stationary:  sol.Stationary,
	}
	_, err := NewAnalyzer(bad, econ)
	require.Error(t, err)

	ragged := &Solution{
		Savings:     sol.Savings,
		Consumption: sol.Consumption,
		Transition:  [][]float64{{0.25, 0.25, 0.25, 0.25}, {0.25, 0.25, 0.25}, {0.25, 0.25, 0.25, 0.25}, {0.25, 0.25, 0.25, 0.25}},
		Stationary:  sol.Stationary,
	}
	_, err = NewAnalyzer(ragged, econ)
	require.Error(t, err)
}

func TestRestrict_MassAndBlockZeroing(t *testing.T) {
	econ, sol := uniformModel()
	a, err := NewAnalyzer(sol, econ)
	require.NoError(t, err)

	r, err := a.Restrict(0, 0)
	require.NoError(t, err)

	// GIVEN a uniform stationary distribution, the restricted mass equals
	// the original mass of income column 0 exactly.
	mass := 0.0
	for ia := range r.Stationary {
		for iy, p := range r.Stationary[ia] {
			mass += p
			if iy != 0 {
				assert.Zero(t, p, "mass outside income column 0 at asset %d state %d", ia, iy)
			}
		}
	}
	assert.Equal(t, 0.5, mass)

	// THEN the restricted transition is zero outside its (0,0) block and
	// untouched inside it.
	n, _ := r.Transition.Dims()
	require.Equal(t, 4, n)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if i < 2 && j < 2 {
				assert.Equal(t, 0.25, r.Transition.At(i, j))
			} else {
				assert.Zero(t, r.Transition.At(i, j), "entry (%d,%d)", i, j)
			}
		}
	}
}

func TestRestrict_Idempotent(t *testing.T) {
	econ, sol := uniformModel()
	a, err := NewAnalyzer(sol, econ)
	require.NoError(t, err)

	r, err := a.Restrict(0, 0)
	require.NoError(t, err)

	again := restrictDense(r.Transition, econ.NumAssets(), 0, 0)
	assert.True(t, mat.Equal(r.Transition, again), "restricting twice must equal restricting once")
}

func TestRestrict_CrossBlock(t *testing.T) {
	econ, sol := uniformModel()
	a, err := NewAnalyzer(sol, econ)
	require.NoError(t, err)

	// Keep only transitions from income 0 into income 1: rows of block 1,
	// columns of block 0.
	r, err := a.Restrict(0, 1)
	require.NoError(t, err)
	n, _ := r.Transition.Dims()
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if i >= 2 && j < 2 {
				assert.Equal(t, 0.25, r.Transition.At(i, j))
			} else {
				assert.Zero(t, r.Transition.At(i, j), "entry (%d,%d)", i, j)
			}
		}
	}
}

func TestExtractColumn_OutOfRange(t *testing.T) {
	econ, sol := uniformModel()
	a, err := NewAnalyzer(sol, econ)
	require.NoError(t, err)

	_, err = a.ExtractColumn(2)
	require.Error(t, err)
	_, err = a.ExtractBlock(0, -1)
	require.Error(t, err)
}

func TestLongRunValue_DegenerateSingleState(t *testing.T) {
	// GIVEN a one-income-state model, restriction is a no-op and the
	// long-run value is the stationary-weighted average over the whole
	// state space.
	econ := &Economy{
		AssetGrid:    []float64{0, 1},
		NumStates:    1,
		NumRawStates: 1,
	}
	// Column-stochastic chain with stationary distribution (6/13, 7/13).
	sol := &Solution{
		Savings:     [][]float64{{2}, {4}},
		Consumption: [][]float64{{1}, {1}},
		Transition:  [][]float64{{0.3, 0.6}, {0.7, 0.4}},
		Stationary:  [][]float64{{6.0 / 13}, {7.0 / 13}},
	}
	a, err := NewAnalyzer(sol, econ)
	require.NoError(t, err)

	res, err := a.LongRunValue(0, PolicyAsset, LongRunOptions{})
	require.NoError(t, err)
	assert.True(t, res.Converged)
	assert.InDelta(t, (2*6.0+4*7.0)/13, res.Value, 1e-9)
}

func TestLongRunValue_VanishedMassIsZero(t *testing.T) {
	// All mass in income state 0 leaks to state 1 in one period, so the
	// restricted sub-chain dies immediately.
	econ := &Economy{
		AssetGrid:    []float64{0, 1},
		NumStates:    2,
		NumRawStates: 2,
	}
	sol := &Solution{
		Savings:     [][]float64{{1, 2}, {3, 4}},
		Consumption: [][]float64{{1, 1}, {1, 1}},
		Transition: [][]float64{
			{0, 0, 0, 0},
			{0, 0, 0, 0},
			{0.5, 0.5, 0.5, 0.5},
			{0.5, 0.5, 0.5, 0.5},
		},
		Stationary: [][]float64{{0.25, 0.25}, {0.25, 0.25}},
	}
	a, err := NewAnalyzer(sol, econ)
	require.NoError(t, err)

	res, err := a.LongRunValue(0, PolicyAsset, LongRunOptions{})
	require.NoError(t, err)
	assert.True(t, res.Converged)
	assert.Zero(t, res.Value)
}

// persistentModel keeps income state 0 closed: every column sends all its
// mass back into the income-0 block, so the restricted sub-chain loses no
// mass under powering.
func persistentModel() (*Economy, *Solution) {
	econ := &Economy{
		AssetGrid:    []float64{0, 1},
		NumStates:    2,
		NumRawStates: 2,
	}
	sol := &Solution{
		Savings:     [][]float64{{1, 2}, {3, 4}},
		Consumption: [][]float64{{5, 6}, {7, 8}},
		Transition: [][]float64{
			{0.5, 0.5, 0.5, 0.5},
			{0.5, 0.5, 0.5, 0.5},
			{0, 0, 0, 0},
			{0, 0, 0, 0},
		},
		Stationary: [][]float64{{0.25, 0.25}, {0.25, 0.25}},
	}
	return econ, sol
}

func TestLongRunValue_DepthOverride(t *testing.T) {
	// The closed within-state block is an idempotent mixing matrix, so
	// depth 1 and the default depth agree.
	econ, sol := persistentModel()
	a, err := NewAnalyzer(sol, econ)
	require.NoError(t, err)

	shallow, err := a.LongRunValue(0, PolicyConsumption, LongRunOptions{Depth: 1})
	require.NoError(t, err)
	deep, err := a.LongRunValue(0, PolicyConsumption, LongRunOptions{})
	require.NoError(t, err)

	assert.InDelta(t, deep.Value, shallow.Value, 1e-9)
	assert.True(t, shallow.Converged)
}

func TestLongRunValue_NonConvergenceReturnsLastValue(t *testing.T) {
	// The income-0 block swaps its two composite states every period, so
	// with depth 1 the conditional average oscillates forever and the
	// tolerance is never met. The call must still return: last average,
	// iteration count at the cap, Converged=false.
	econ := &Economy{
		AssetGrid:    []float64{0, 1},
		NumStates:    2,
		NumRawStates: 2,
	}
	sol := &Solution{
		Savings:     [][]float64{{1, 2}, {3, 4}},
		Consumption: [][]float64{{5, 6}, {7, 8}},
		Transition: [][]float64{
			{0, 1, 0, 0},
			{1, 0, 0, 0},
			{0, 0, 1, 0},
			{0, 0, 0, 1},
		},
		Stationary: [][]float64{{0.3, 0.3}, {0.2, 0.2}},
	}
	a, err := NewAnalyzer(sol, econ)
	require.NoError(t, err)

	res, err := a.LongRunValue(0, PolicyAsset, LongRunOptions{Depth: 1, MaxIter: 3, Tol: 1e-15})
	require.NoError(t, err)

	// Mass starts at (0.3, 0.2) over the savings values (1, 3) and swaps
	// each period, so the averages run 2.2, 1.8, 2.2, 1.8.
	assert.False(t, res.Converged)
	assert.Equal(t, 3, res.Iterations)
	assert.InDelta(t, 1.8, res.Value, 1e-12)
}

func TestLongRunValue_WeightedAverageOverSurvivingMass(t *testing.T) {
	// The surviving distribution is uniform over the two composite states
	// of income 0, so the value is the plain average of the savings
	// policy there.
	econ, sol := persistentModel()
	a, err := NewAnalyzer(sol, econ)
	require.NoError(t, err)

	res, err := a.LongRunValue(0, PolicyAsset, LongRunOptions{})
	require.NoError(t, err)
	// Savings at (asset 0, income 0) = 1 and (asset 1, income 0) = 3.
	assert.InDelta(t, 2.0, res.Value, 1e-9)
}
