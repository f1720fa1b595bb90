// SPDX-License-Identifier: MIT

package baseline_test

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soyuz43/hypergraph-cli/baseline"
	"github.com/soyuz43/hypergraph-cli/matrix"
)

func dense(t *testing.T, rows [][]float64) *matrix.Dense {
	t.Helper()
	d, err := matrix.NewDenseFromRows(rows)
	require.NoError(t, err)

	return d
}

func randomCloud(t *testing.T, n, d int, seed uint64) *matrix.Dense {
	t.Helper()
	rng := rand.New(rand.NewPCG(seed, seed+1))
	rows := make([][]float64, n)
	for i := range rows {
		rows[i] = make([]float64, d)
		for j := range rows[i] {
			rows[i][j] = rng.NormFloat64() * float64(j+1)
		}
	}

	return dense(t, rows)
}

// explicitDistance evaluates √(xcᵀ Σ⁻¹ xc) for the maximum-likelihood
// covariance of cloud by solving Σy = xc with Gaussian elimination.
func explicitDistance(t *testing.T, cloud *matrix.Dense, x []float64) float64 {
	t.Helper()
	n, d := cloud.Rows(), cloud.Cols()
	mean := make([]float64, d)
	for i := 0; i < n; i++ {
		for j := 0; j < d; j++ {
			v, err := cloud.At(i, j)
			require.NoError(t, err)
			mean[j] += v / float64(n)
		}
	}
	// augmented [Σ | xc]
	a := make([][]float64, d)
	for r := range a {
		a[r] = make([]float64, d+1)
		a[r][d] = x[r] - mean[r]
	}
	for i := 0; i < n; i++ {
		for r := 0; r < d; r++ {
			vr, err := cloud.At(i, r)
			require.NoError(t, err)
			for c := 0; c < d; c++ {
				vc, err := cloud.At(i, c)
				require.NoError(t, err)
				a[r][c] += (vr - mean[r]) * (vc - mean[c]) / float64(n)
			}
		}
	}
	for k := 0; k < d; k++ {
		p := k
		for r := k + 1; r < d; r++ {
			if math.Abs(a[r][k]) > math.Abs(a[p][k]) {
				p = r
			}
		}
		require.Greater(t, math.Abs(a[p][k]), 1e-12, "singular covariance")
		a[k], a[p] = a[p], a[k]
		for r := k + 1; r < d; r++ {
			f := a[r][k] / a[k][k]
			for c := k; c <= d; c++ {
				a[r][c] -= f * a[k][c]
			}
		}
	}
	y := make([]float64, d)
	for r := d - 1; r >= 0; r-- {
		y[r] = a[r][d]
		for c := r + 1; c < d; c++ {
			y[r] -= a[r][c] * y[c]
		}
		y[r] /= a[r][r]
	}

	var d2 float64
	for r := range y {
		d2 += (x[r] - mean[r]) * y[r]
	}

	return math.Sqrt(d2)
}

func TestFit_FullRankMatchesExplicitSolve(t *testing.T) {
	cloud := randomCloud(t, 40, 5, 11)
	m, err := baseline.Fit(cloud, baseline.WithRidge(0))
	require.NoError(t, err)
	assert.Equal(t, 5, m.Dim())
	assert.Equal(t, 40, m.Len())
	assert.Equal(t, 5, m.Rank())
	assert.Equal(t, 0.0, m.Ridge())

	rng := rand.New(rand.NewPCG(5, 5))
	for k := 0; k < 10; k++ {
		x := make([]float64, 5)
		for i := range x {
			x[i] = rng.NormFloat64() * 3
		}
		got, err := m.Distance(x)
		require.NoError(t, err)
		assert.InDelta(t, explicitDistance(t, cloud, x), got, 1e-8)
	}
}

// The default ridge keeps a point that leaves the span of the cloud away
// from zero; only the explicit pseudo-inverse ignores that direction.
func TestFit_DefaultRidgeSeparatesOffSpan(t *testing.T) {
	cloud := dense(t, [][]float64{
		{1, 0, 0, 0, 0},
		{0, 1, 0, 0, 0},
		{0, 0, 1, 0, 0},
	})
	m, err := baseline.Fit(cloud)
	require.NoError(t, err)
	// trace(Σ) = 2/3 over d = 5
	assert.InDelta(t, baseline.DefaultRidgeScale*(2.0/3.0)/5, m.Ridge(), 1e-18)

	mean := m.Mean()
	d, err := m.Distance(mean)
	require.NoError(t, err)
	assert.Equal(t, 0.0, d)

	off := append([]float64(nil), mean...)
	off[3], off[4] = 5, -7
	d, err = m.Distance(off)
	require.NoError(t, err)
	assert.Greater(t, d, 0.0)
	assert.InDelta(t, math.Sqrt(74/m.Ridge()), d, 1e-6*d)

	pinv, err := baseline.Fit(cloud, baseline.WithRidgeScale(0))
	require.NoError(t, err)
	assert.Equal(t, 0.0, pinv.Ridge())
	d, err = pinv.Distance(off)
	require.NoError(t, err)
	assert.Equal(t, 0.0, d)
}

// A cloud without any variance still gets a positive ridge.
func TestFit_DefaultRidgeOnConstantCloud(t *testing.T) {
	m, err := baseline.Fit(dense(t, [][]float64{{1, 1}, {1, 1}}))
	require.NoError(t, err)
	assert.Equal(t, 0, m.Rank())
	assert.Equal(t, baseline.DefaultRidgeScale, m.Ridge())

	d, err := m.Distance([]float64{1, 2})
	require.NoError(t, err)
	assert.InDelta(t, math.Sqrt(1/baseline.DefaultRidgeScale), d, 1e-6)
}

func TestFit_ZeroAtMeanNonNegativeElsewhere(t *testing.T) {
	for _, shape := range [][2]int{{30, 4}, {6, 20}} {
		cloud := randomCloud(t, shape[0], shape[1], 3)
		m, err := baseline.Fit(cloud)
		require.NoError(t, err)

		d, err := m.Distance(m.Mean())
		require.NoError(t, err)
		assert.Equal(t, 0.0, d)

		for i := 0; i < m.Len(); i++ {
			row, err := m.Row(i)
			require.NoError(t, err)
			d, err = m.Distance(row)
			require.NoError(t, err)
			assert.GreaterOrEqual(t, d, 0.0)
			assert.False(t, math.IsNaN(d))
		}
	}
}

// With the pseudo-inverse, Σ_i d²(x_i) = n·rank for the fitting rows.
func TestFit_GramTraceIdentity(t *testing.T) {
	cloud := randomCloud(t, 8, 30, 21)
	m, err := baseline.Fit(cloud, baseline.WithRidge(0))
	require.NoError(t, err)
	// centering removes one direction from 8 points
	assert.Equal(t, 7, m.Rank())

	var sum float64
	for i := 0; i < m.Len(); i++ {
		row, err := m.Row(i)
		require.NoError(t, err)
		d, err := m.Distance(row)
		require.NoError(t, err)
		sum += d * d
	}
	assert.InDelta(t, float64(m.Len()*m.Rank()), sum, 1e-6)
}

// Padding the cloud with zero columns switches Fit to the Gram path but must
// not change distances for queries inside the original subspace.
func TestFit_GramAndPrimalAgree(t *testing.T) {
	small := dense(t, [][]float64{{1, 2}, {3, 1}, {0, 0}})
	padded := dense(t, [][]float64{{1, 2, 0, 0}, {3, 1, 0, 0}, {0, 0, 0, 0}})

	ms, err := baseline.Fit(small, baseline.WithRidge(0))
	require.NoError(t, err)
	mp, err := baseline.Fit(padded, baseline.WithRidge(0))
	require.NoError(t, err)
	assert.Equal(t, 2, mp.Rank())

	for _, q := range [][2]float64{{0, 0}, {5, -1}, {1.5, 1}, {-2, 7}} {
		ds, err := ms.Distance([]float64{q[0], q[1]})
		require.NoError(t, err)
		dp, err := mp.Distance([]float64{q[0], q[1], 0, 0})
		require.NoError(t, err)
		assert.InDelta(t, ds, dp, 1e-9)
		assert.InDelta(t, explicitDistance(t, small, []float64{q[0], q[1]}), ds, 1e-9)
	}
}

func TestFit_Ridge(t *testing.T) {
	cloud := dense(t, [][]float64{{1, 0}, {-1, 0}})

	plain, err := baseline.Fit(cloud, baseline.WithRidge(0))
	require.NoError(t, err)
	d, err := plain.Distance([]float64{2, 0})
	require.NoError(t, err)
	assert.InDelta(t, 2.0, d, 1e-12)
	d, err = plain.Distance([]float64{0, 3})
	require.NoError(t, err)
	assert.InDelta(t, 0.0, d, 1e-12, "explicit pseudo-inverse ignores the off-span component")

	ridged, err := baseline.Fit(cloud, baseline.WithRidge(0.5), baseline.WithRidgeScale(3))
	require.NoError(t, err)
	assert.Equal(t, 0.5, ridged.Ridge(), "an explicit ridge overrides the scale")
	d, err = ridged.Distance([]float64{2, 0})
	require.NoError(t, err)
	assert.InDelta(t, math.Sqrt(4/1.5), d, 1e-12)
	d, err = ridged.Distance([]float64{0, 3})
	require.NoError(t, err)
	assert.InDelta(t, math.Sqrt(18), d, 1e-12)
}

func TestFit_Errors(t *testing.T) {
	_, err := baseline.Fit(dense(t, [][]float64{{1, 2}}))
	require.ErrorIs(t, err, baseline.ErrTooFewVectors)

	_, err = baseline.Fit(nil)
	require.ErrorIs(t, err, matrix.ErrNilMatrix)

	cloud := dense(t, [][]float64{{1, 2}, {3, 4}, {0, 1}})
	_, err = baseline.Fit(cloud, baseline.WithRidge(-1))
	require.ErrorIs(t, err, baseline.ErrInvalidOption)
	_, err = baseline.Fit(cloud, baseline.WithRidgeScale(math.Inf(1)))
	require.ErrorIs(t, err, baseline.ErrInvalidOption)
	_, err = baseline.Fit(cloud, baseline.WithRcond(0))
	require.ErrorIs(t, err, baseline.ErrInvalidOption)
	_, err = baseline.Fit(cloud, baseline.WithEigenSweeps(0))
	require.ErrorIs(t, err, baseline.ErrInvalidOption)

	m, err := baseline.Fit(cloud)
	require.NoError(t, err)
	_, err = m.Distance([]float64{1, 2, 3})
	require.ErrorIs(t, err, baseline.ErrDimensionMismatch)
}

func TestModel_IsImmutable(t *testing.T) {
	rows := [][]float64{{1, 2}, {3, 4}, {0, 1}}
	cloud := dense(t, rows)
	m, err := baseline.Fit(cloud)
	require.NoError(t, err)

	before, err := m.Distance([]float64{2, 2})
	require.NoError(t, err)

	require.NoError(t, cloud.Set(0, 0, 100))
	c := m.Cloud()
	require.NoError(t, c.Set(1, 1, -50))
	mean := m.Mean()
	mean[0] = 7

	after, err := m.Distance([]float64{2, 2})
	require.NoError(t, err)
	assert.Equal(t, before, after)
	row, err := m.Row(0)
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 2}, row)
}
