package aiyagari

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// massTol is the tolerance used when checking that probability columns and
// distributions sum to one.
const massTol = 1e-8

// Economy groups the calibration facts the post-processing needs: the asset
// discretization and the shape of the (expanded) income state space. It is
// produced by the solver and never mutated here.
type Economy struct {
	AssetGrid         []float64 `yaml:"asset_grid"`         // strictly increasing
	NumStates         int       `yaml:"num_states"`         // expanded income states (severance encoded)
	NumRawStates      int       `yaml:"num_raw_states"`     // raw categories; 0 = unemployed
	SeveranceDuration int       `yaml:"severance_duration"` // decay periods after a job loss
	AssetFloor        float64   `yaml:"asset_floor"`        // borrowing constraint, absorbing lower bound
}

// NumAssets returns the length of the asset grid.
func (e *Economy) NumAssets() int { return len(e.AssetGrid) }

// NumComposite returns the size of the joint (asset, income) state space.
func (e *Economy) NumComposite() int { return len(e.AssetGrid) * e.NumStates }

// CompositeIndex maps an (asset position, income state) pair to its index in
// the flattened joint state space.
func (e *Economy) CompositeIndex(ia, iy int) int { return iy*len(e.AssetGrid) + ia }

// Validate checks the structural invariants the rest of the package relies
// on. A violation here is a calibration bug upstream; nothing downstream is
// safe to run against an invalid Economy.
func (e *Economy) Validate() error {
	if len(e.AssetGrid) < 2 {
		return fmt.Errorf("asset grid must have at least 2 points, got %d", len(e.AssetGrid))
	}
	for i := 1; i < len(e.AssetGrid); i++ {
		if e.AssetGrid[i] <= e.AssetGrid[i-1] {
			return fmt.Errorf("asset grid not strictly increasing at position %d (%v >= %v)",
				i, e.AssetGrid[i-1], e.AssetGrid[i])
		}
	}
	if e.NumStates < 1 {
		return fmt.Errorf("num_states must be >= 1, got %d", e.NumStates)
	}
	if e.NumRawStates < 1 {
		return fmt.Errorf("num_raw_states must be >= 1, got %d", e.NumRawStates)
	}
	if e.NumRawStates > e.NumStates {
		return fmt.Errorf("num_raw_states (%d) exceeds num_states (%d)", e.NumRawStates, e.NumStates)
	}
	if e.SeveranceDuration < 0 {
		return fmt.Errorf("severance_duration must be >= 0, got %d", e.SeveranceDuration)
	}
	return nil
}

// Solution holds the solver's output on the Economy's discretization: policy
// grids indexed [asset position][income state], the joint transition matrix
// over composite states, and the stationary distribution.
//
// Transition is column-stochastic: Transition[s'][s] is the probability of
// moving from composite state s to s', and every column sums to 1.
type Solution struct {
	Savings     [][]float64 `yaml:"savings"`     // optimal next-period assets
	Consumption [][]float64 `yaml:"consumption"` // optimal current consumption
	Transition  [][]float64 `yaml:"transition"`
	Stationary  [][]float64 `yaml:"stationary"` // joint mass, [asset position][income state]
}

// Validate checks that the Solution's dimensions agree with the Economy and
// that the probability objects carry unit mass.
func (s *Solution) Validate(econ *Economy) error {
	aSize, ySize := econ.NumAssets(), econ.NumStates
	if err := validateGrid("savings", s.Savings, aSize, ySize); err != nil {
		return err
	}
	if err := validateGrid("consumption", s.Consumption, aSize, ySize); err != nil {
		return err
	}
	if err := validateGrid("stationary", s.Stationary, aSize, ySize); err != nil {
		return err
	}

	n := econ.NumComposite()
	if len(s.Transition) != n {
		return fmt.Errorf("transition matrix has %d rows, want %d", len(s.Transition), n)
	}
	for i, row := range s.Transition {
		if len(row) != n {
			return fmt.Errorf("transition matrix row %d has %d columns, want %d", i, len(row), n)
		}
	}
	for j := 0; j < n; j++ {
		sum := 0.0
		for i := 0; i < n; i++ {
			sum += s.Transition[i][j]
		}
		if sum < 1-massTol || sum > 1+massTol {
			return fmt.Errorf("transition column %d sums to %v, want 1", j, sum)
		}
	}

	mass := 0.0
	for ia := 0; ia < aSize; ia++ {
		for iy := 0; iy < ySize; iy++ {
			p := s.Stationary[ia][iy]
			if p < 0 {
				return fmt.Errorf("stationary distribution negative at asset %d, state %d: %v", ia, iy, p)
			}
			mass += p
		}
	}
	if mass < 1-massTol || mass > 1+massTol {
		return fmt.Errorf("stationary distribution mass is %v, want 1", mass)
	}
	return nil
}

func validateGrid(name string, g [][]float64, aSize, ySize int) error {
	if len(g) != aSize {
		return fmt.Errorf("%s grid has %d asset rows, want %d", name, len(g), aSize)
	}
	for ia, row := range g {
		if len(row) != ySize {
			return fmt.Errorf("%s grid row %d has %d income columns, want %d", name, ia, len(row), ySize)
		}
	}
	return nil
}

// ModelFile is the on-disk YAML document pairing an Economy with its solved
// Solution.
type ModelFile struct {
	Economy  Economy  `yaml:"economy"`
	Solution Solution `yaml:"solution"`
}

// LoadModel reads and validates a solved model from a YAML file.
func LoadModel(path string) (*Economy, *Solution, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("read model file: %w", err)
	}

	var mf ModelFile
	if err := yaml.Unmarshal(data, &mf); err != nil {
		return nil, nil, fmt.Errorf("parse model file %s: %w", path, err)
	}

	if err := mf.Economy.Validate(); err != nil {
		return nil, nil, fmt.Errorf("invalid economy in %s: %w", path, err)
	}
	if err := mf.Solution.Validate(&mf.Economy); err != nil {
		return nil, nil, fmt.Errorf("invalid solution in %s: %w", path, err)
	}
	return &mf.Economy, &mf.Solution, nil
}
