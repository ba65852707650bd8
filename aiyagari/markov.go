package aiyagari

import (
	"fmt"
	"math"

	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/mat"
)

// DefaultConvergenceDepth is the matrix power applied per iteration of
// LongRunValue: the restricted sub-chain is advanced this many periods at a
// time before the conditional average is re-checked. The default is an
// empirical depth; discretizations with slow-mixing sub-chains may need a
// larger value via LongRunOptions.Depth.
const DefaultConvergenceDepth = 2500

// massEps is the threshold below which a restricted chain's surviving mass
// counts as numerically extinct.
const massEps = 1e-12

// LongRunOptions tunes LongRunValue. Zero values select the defaults.
type LongRunOptions struct {
	Tol     float64 // stop when successive averages differ by less (default 1e-9)
	MaxIter int     // iteration cap (default 100)
	Depth   int     // periods advanced per iteration (default DefaultConvergenceDepth)
}

func (o LongRunOptions) withDefaults() LongRunOptions {
	if o.Tol <= 0 {
		o.Tol = 1e-9
	}
	if o.MaxIter <= 0 {
		o.MaxIter = 100
	}
	if o.Depth <= 0 {
		o.Depth = DefaultConvergenceDepth
	}
	return o
}

// LongRunResult carries LongRunValue's converged (or last) conditional
// average plus enough bookkeeping for callers that need convergence
// assurance.
type LongRunResult struct {
	Value      float64
	Iterations int
	Converged  bool
}

// Restricted is a Solution's transition matrix and stationary distribution
// with all mass outside a chosen income state (or state pair) zeroed. Mass is
// removed, never renormalized: the restricted distribution's total equals the
// original mass inside the kept column.
type Restricted struct {
	Transition *mat.Dense  // zero outside the kept block
	Stationary [][]float64 // zero outside the kept income column
}

// Analyzer studies the restricted sub-chains of a solved model. It copies
// the Solution's transition matrix and stationary distribution into dense
// form once; all methods are read-only afterwards and safe for concurrent
// use.
type Analyzer struct {
	econ       *Economy
	sol        *Solution
	trans      *mat.Dense
	stationary [][]float64
}

// NewAnalyzer validates that the Solution's joint objects share the
// Economy's composite dimensioning and prepares them for restriction. A
// dimension mismatch is a fatal precondition violation and is returned as an
// error before any analysis can run.
func NewAnalyzer(sol *Solution, econ *Economy) (*Analyzer, error) {
	n := econ.NumComposite()
	if len(sol.Transition) != n {
		return nil, fmt.Errorf("transition matrix is %dx%d, want %dx%d",
			len(sol.Transition), len(sol.Transition), n, n)
	}
	t := mat.NewDense(n, n, nil)
	for i, row := range sol.Transition {
		if len(row) != n {
			return nil, fmt.Errorf("transition matrix row %d has %d columns, want %d", i, len(row), n)
		}
		for j, p := range row {
			t.Set(i, j, p)
		}
	}
	if err := validateGrid("stationary", sol.Stationary, econ.NumAssets(), econ.NumStates); err != nil {
		return nil, err
	}
	return &Analyzer{econ: econ, sol: sol, trans: t, stationary: sol.Stationary}, nil
}

// blockRange returns the half-open composite index range [lo, hi) covered by
// income state iy.
func (a *Analyzer) blockRange(iy int) (lo, hi int) {
	aSize := a.econ.NumAssets()
	return iy * aSize, (iy + 1) * aSize
}

func (a *Analyzer) checkState(iy int) error {
	if iy < 0 || iy >= a.econ.NumStates {
		return fmt.Errorf("income state %d out of range [0,%d)", iy, a.econ.NumStates)
	}
	return nil
}

// ExtractBlock returns a same-shape copy of the transition matrix that is
// zero everywhere except the block of transitions from income state fromY
// into income state toY.
func (a *Analyzer) ExtractBlock(toY, fromY int) (*mat.Dense, error) {
	if err := a.checkState(toY); err != nil {
		return nil, err
	}
	if err := a.checkState(fromY); err != nil {
		return nil, err
	}
	n := a.econ.NumComposite()
	out := mat.NewDense(n, n, nil)
	rLo, rHi := a.blockRange(toY)
	cLo, cHi := a.blockRange(fromY)
	for i := rLo; i < rHi; i++ {
		for j := cLo; j < cHi; j++ {
			out.Set(i, j, a.trans.At(i, j))
		}
	}
	return out, nil
}

// ExtractColumn returns a same-shape copy of the stationary distribution
// that is zero everywhere except income column iy.
func (a *Analyzer) ExtractColumn(iy int) ([][]float64, error) {
	if err := a.checkState(iy); err != nil {
		return nil, err
	}
	aSize := a.econ.NumAssets()
	out := make([][]float64, aSize)
	for ia := 0; ia < aSize; ia++ {
		out[ia] = make([]float64, a.econ.NumStates)
		out[ia][iy] = a.stationary[ia][iy]
	}
	return out, nil
}

// Restrict zeroes everything outside the transitions from income state iy
// into income state jy, and outside income column iy of the stationary
// distribution. Restrict(iy, iy) confines the chain to state iy; a distinct
// jy isolates the iy->jy cross dynamics.
func (a *Analyzer) Restrict(iy, jy int) (*Restricted, error) {
	t, err := a.ExtractBlock(jy, iy)
	if err != nil {
		return nil, err
	}
	d, err := a.ExtractColumn(iy)
	if err != nil {
		return nil, err
	}
	return &Restricted{Transition: t, Stationary: d}, nil
}

// flattenGrid lays an [asset][income] grid out over composite states.
func flattenGrid(g [][]float64, econ *Economy) *mat.VecDense {
	v := mat.NewVecDense(econ.NumComposite(), nil)
	for ia, row := range g {
		for iy, x := range row {
			v.SetVec(econ.CompositeIndex(ia, iy), x)
		}
	}
	return v
}

// LongRunValue computes the long-run conditional average of a policy
// variable for agents confined to income state iy. The restricted sub-chain
// is advanced Depth periods per iteration via an exact dense matrix power,
// and the mass-weighted average of the policy grid over the surviving
// distribution is re-checked each pass until it moves by less than Tol. If
// the surviving mass dies out numerically the conditional value is 0 by
// definition. On hitting MaxIter the last average is returned with
// Converged=false.
func (a *Analyzer) LongRunValue(iy int, variable PolicyVariable, opts LongRunOptions) (LongRunResult, error) {
	opts = opts.withDefaults()

	r, err := a.Restrict(iy, iy)
	if err != nil {
		return LongRunResult{}, err
	}

	n := a.econ.NumComposite()
	big := mat.NewDense(n, n, nil)
	big.Pow(r.Transition, opts.Depth)

	g := flattenGrid(variable.grid(a.sol), a.econ)
	d := flattenGrid(r.Stationary, a.econ)

	advance := func(v *mat.VecDense) *mat.VecDense {
		next := mat.NewVecDense(n, nil)
		next.MulVec(big, v)
		return next
	}
	average := func(v *mat.VecDense) (float64, bool) {
		total := mat.Sum(v)
		if math.Abs(total) < massEps {
			return 0, false
		}
		return mat.Dot(g, v) / total, true
	}

	d = advance(d)
	prev, alive := average(d)
	if !alive {
		logrus.Debugf("long-run value: state %d sub-chain mass extinct after initial advance", iy)
		return LongRunResult{Value: 0, Iterations: 0, Converged: true}, nil
	}

	for it := 1; it <= opts.MaxIter; it++ {
		d = advance(d)
		cur, alive := average(d)
		if !alive {
			logrus.Debugf("long-run value: state %d sub-chain mass extinct at iteration %d", iy, it)
			return LongRunResult{Value: 0, Iterations: it, Converged: true}, nil
		}
		if math.Abs(cur-prev) < opts.Tol {
			return LongRunResult{Value: cur, Iterations: it, Converged: true}, nil
		}
		prev = cur
	}
	logrus.Debugf("long-run value: state %d did not converge within %d iterations, returning last value %v",
		iy, opts.MaxIter, prev)
	return LongRunResult{Value: prev, Iterations: opts.MaxIter, Converged: false}, nil
}
