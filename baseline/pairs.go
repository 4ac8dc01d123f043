// Package baseline computes interferometric UVW coordinates for every pair
// of antennas in an array.
//
// Baselines are numbered row-major over the upper triangle of the antenna
// by antenna matrix: (0,1), (0,2), ..., (1,2), ... and, when
// autocorrelations are included, (0,0), (0,1), ..., (1,1), ....
package baseline

import (
	"math"

	"github.com/signalsfoundry/skyframe/model"
)

// NumBaselines returns the number of baselines formed by n antennas.
func NumBaselines(n int, autos bool) int {
	if n <= 0 {
		return 0
	}
	if autos {
		return n * (n + 1) / 2
	}
	return n * (n - 1) / 2
}

// NumAntennas inverts NumBaselines. ok is false when nbl is not a
// triangular count.
func NumAntennas(nbl int, autos bool) (n int, ok bool) {
	if nbl < 0 {
		return 0, false
	}
	if nbl == 0 {
		if autos {
			return 0, true
		}
		// Zero or one antenna both give no cross-correlations.
		return 1, true
	}
	root := math.Sqrt(1 + 8*float64(nbl))
	if autos {
		n = int(math.Round((root - 1) / 2))
	} else {
		n = int(math.Round((root + 1) / 2))
	}
	return n, NumBaselines(n, autos) == nbl
}

// Pairs lists the baselines of n antennas in baseline order.
func Pairs(n int, autos bool) []model.Pair {
	out := make([]model.Pair, 0, NumBaselines(n, autos))
	for i := 0; i < n; i++ {
		start := i + 1
		if autos {
			start = i
		}
		for j := start; j < n; j++ {
			out = append(out, model.Pair{I: i, J: j})
		}
	}
	return out
}

// Index returns the baseline index of antennas i and j among n. The order
// of i and j does not matter. ok is false for out-of-range antennas and
// for i == j when autocorrelations are excluded.
func Index(n, i, j int, autos bool) (idx int, ok bool) {
	if i > j {
		i, j = j, i
	}
	if i < 0 || j >= n {
		return 0, false
	}
	if autos {
		return i*(2*n-i+1)/2 + (j - i), true
	}
	if i == j {
		return 0, false
	}
	return i*(2*n-i-1)/2 + (j - i - 1), true
}

// PairAt inverts Index.
func PairAt(n, idx int, autos bool) (model.Pair, bool) {
	if idx < 0 || idx >= NumBaselines(n, autos) {
		return model.Pair{}, false
	}
	for i := 0; i < n; i++ {
		row := n - i - 1
		if autos {
			row++
		}
		if idx < row {
			if autos {
				return model.Pair{I: i, J: i + idx}, true
			}
			return model.Pair{I: i, J: i + 1 + idx}, true
		}
		idx -= row
	}
	return model.Pair{}, false
}
