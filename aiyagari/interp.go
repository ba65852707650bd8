package aiyagari

import "sort"

// searchInterval returns the largest index i such that xs[i] <= x, clamped
// into [0, len(xs)-2] so xs[i+1] always exists. Queries outside the grid get
// the nearest boundary segment; callers never see an out-of-range result.
func searchInterval(x float64, xs []float64) int {
	// SearchFloat64s returns the smallest i with xs[i] >= x.
	i := sort.SearchFloat64s(xs, x)
	if i == len(xs) || xs[i] != x {
		i--
	}
	if i < 0 {
		i = 0
	}
	if i > len(xs)-2 {
		i = len(xs) - 2
	}
	return i
}

// InterpBounded linearly interpolates ys over xs at x and truncates the
// result at lb. Queries beyond the grid are extrapolated with the boundary
// segment's slope before truncation. xs must be strictly increasing and the
// same length as ys. Returns the value and the bracket index used.
func InterpBounded(x float64, xs, ys []float64, lb float64) (float64, int) {
	nx := searchInterval(x, xs)
	slope := (ys[nx+1] - ys[nx]) / (xs[nx+1] - xs[nx])
	y := ys[nx] + slope*(x-xs[nx])
	if y < lb {
		y = lb
	}
	return y, nx
}

// interpPolicy evaluates a policy grid at an off-grid asset level and an
// integral income state: linear in the asset dimension, flat beyond the
// asset grid's range.
func interpPolicy(grid [][]float64, assetGrid []float64, a float64, iy int) float64 {
	last := len(assetGrid) - 1
	if a <= assetGrid[0] {
		return grid[0][iy]
	}
	if a >= assetGrid[last] {
		return grid[last][iy]
	}
	nx := searchInterval(a, assetGrid)
	w := (a - assetGrid[nx]) / (assetGrid[nx+1] - assetGrid[nx])
	return grid[nx][iy] + w*(grid[nx+1][iy]-grid[nx][iy])
}
