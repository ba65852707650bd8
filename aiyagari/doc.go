// Package aiyagari post-processes a solved heterogeneous-agent,
// incomplete-markets model: the solver (external to this module) produces
// policy grids, a joint transition matrix and a stationary distribution over
// (asset, income) states, and this package turns those into individual
// trajectories and conditional long-run statistics.
//
// # Reading Guide
//
// Start with these three files:
//   - economy.go: the Economy/Solution value objects, YAML model files, validation
//   - severance.go: expansion of raw employment paths into severance-decay income states
//   - simulate.go: trajectory simulation by interpolating the policy grids
//
// markov.go holds the state-restricted Markov analysis: sub-chain extraction
// and the power-iterated long-run conditional policy value.
//
// # Conventions
//
// Everything is 0-based. Raw income category 0 is unemployment; categories
// above 0 are employment levels. The composite state index over the joint
// (asset, income) space is s = iy*numAssets + ia, and the transition matrix
// is column-stochastic: entry (s', s) is the probability of moving from s to
// s', so a distribution d evolves as d <- T*d.
//
// Economy and Solution are immutable inputs; every operation here is a pure
// function of its arguments and is safe to call concurrently.
package aiyagari
