// SPDX-License-Identifier: MIT

package matrix_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/soyuz43/hypergraph-cli/matrix"
)

// hide wraps a Matrix so kernels cannot see the concrete *Dense and must take
// the interface fallback path.
type hide struct{ matrix.Matrix }

// NewFilledDense builds an r×c Dense from row-major values.
func NewFilledDense(t *testing.T, r, c int, vals []float64) *matrix.Dense {
	t.Helper()
	require.Len(t, vals, r*c)
	rows := make([][]float64, r)
	for i := 0; i < r; i++ {
		rows[i] = vals[i*c : (i+1)*c]
	}
	d, err := matrix.NewDenseFromRows(rows)
	require.NoError(t, err)

	return d
}

// MustAt reads m[i,j] or fails the test.
func MustAt(t *testing.T, m matrix.Matrix, i, j int) float64 {
	t.Helper()
	v, err := m.At(i, j)
	require.NoError(t, err)

	return v
}

// CompareClose asserts a and b have equal shape and |a-b| <= atol + rtol*|b| element-wise.
func CompareClose(t *testing.T, a, b matrix.Matrix, rtol, atol float64) {
	t.Helper()
	require.Equal(t, a.Rows(), b.Rows(), "rows")
	require.Equal(t, a.Cols(), b.Cols(), "cols")
	for i := 0; i < a.Rows(); i++ {
		for j := 0; j < a.Cols(); j++ {
			x, y := MustAt(t, a, i, j), MustAt(t, b, i, j)
			require.LessOrEqualf(t, math.Abs(x-y), atol+rtol*math.Abs(y), "(%d,%d): %g vs %g", i, j, x, y)
		}
	}
}
