// SPDX-License-Identifier: MIT

package baseline

import (
	"fmt"
	"math"
	"sort"

	"github.com/soyuz43/hypergraph-cli/matrix"
)

// MinVectors is the smallest cloud that yields a non-degenerate covariance.
const MinVectors = 2

// Fit defaults.
const (
	// DefaultRcond drops eigenvalues below rcond·λmax from the principal axes.
	// It sits above the Jacobi residual so numerically-null directions (such
	// as the one removed by centering) never enter the inverse.
	DefaultRcond = 1e-9

	// DefaultEigenTol is the relative off-diagonal tolerance for matrix.Eigen.
	DefaultEigenTol = 1e-12

	// DefaultMaxSweeps caps Jacobi sweeps.
	DefaultMaxSweeps = 100

	// DefaultRidgeScale sets the default ridge to scale·trace(Σ)/d, the mean
	// variance shrunk by a millionth.
	DefaultRidgeScale = 1e-6
)

// FitOption configures Fit.
type FitOption func(*fitOptions)

type fitOptions struct {
	rcond      float64
	ridge      float64
	ridgeSet   bool
	ridgeScale float64
	eigenTol   float64
	maxSweeps  int
	err        error
}

// WithRcond sets the relative eigenvalue cutoff; it must be in (0, 1).
func WithRcond(r float64) FitOption {
	return func(o *fitOptions) {
		if !(r > 0 && r < 1) {
			o.err = fmt.Errorf("%w: rcond %v outside (0,1)", ErrInvalidOption, r)
			return
		}
		o.rcond = r
	}
}

// WithRidge adds a fixed δ·I to the covariance, overriding the scaled
// default. δ = 0 selects the plain pseudo-inverse: directions outside the
// span of the cloud then contribute nothing, so points off the mean can
// score 0.
func WithRidge(delta float64) FitOption {
	return func(o *fitOptions) {
		if !(delta >= 0) || math.IsInf(delta, 0) {
			o.err = fmt.Errorf("%w: ridge %v must be finite and >= 0", ErrInvalidOption, delta)
			return
		}
		o.ridge, o.ridgeSet = delta, true
	}
}

// WithRidgeScale sets the default ridge to scale·trace(Σ)/d. A cloud with no
// variance at all gets δ = scale. scale = 0 behaves like WithRidge(0).
func WithRidgeScale(scale float64) FitOption {
	return func(o *fitOptions) {
		if !(scale >= 0) || math.IsInf(scale, 0) {
			o.err = fmt.Errorf("%w: ridge scale %v must be finite and >= 0", ErrInvalidOption, scale)
			return
		}
		o.ridgeScale = scale
	}
}

// WithEigenSweeps caps the Jacobi sweeps used while fitting.
func WithEigenSweeps(n int) FitOption {
	return func(o *fitOptions) {
		if n <= 0 {
			o.err = fmt.Errorf("%w: sweeps %d must be > 0", ErrInvalidOption, n)
			return
		}
		o.maxSweeps = n
	}
}

// Model is a reference cloud with a fitted center and shape. It is immutable
// after Fit and safe for concurrent use.
//
// The shape is stored as k orthonormal principal axes (rows of axes) with
// their variances, which is enough to evaluate
//
//	d²(x) = Σ_k (v_k·(x−μ))² / (λ_k+δ) + (‖x−μ‖² − Σ_k (v_k·(x−μ))²) / δ
//
// where the second term is present only for δ > 0. With the default ridge
// δ > 0, so d(x) = 0 exactly when x = μ.
type Model struct {
	cloud     *matrix.Dense
	mean      []float64
	axes      [][]float64
	variances []float64
	ridge     float64
}

// Fit estimates the maximum-likelihood covariance (1/n) of cloud and keeps
// its principal axes.
//
// Implementation:
//   - Stage 1: n ≤ d centers the rows (matrix.CenterColumns) and builds the
//     Gram matrix G = Xc·Xcᵀ/n (n×n); otherwise Σ comes from
//     matrix.Covariance rescaled by (n−1)/n (d×d).
//   - Stage 2: decompose it. Both share the same non-zero eigenvalues; Gram
//     eigenvectors u map to covariance axes v = Xcᵀu / √(nλ).
//   - Stage 3: keep eigenpairs with λ > rcond·λmax.
//   - Stage 4: resolve the ridge, WithRidge or scale·trace(Σ)/d.
//
// Errors: ErrTooFewVectors, ErrInvalidOption, matrix errors.
// Complexity: O(min(n,d)³·sweeps + n·d·min(n,d)).
func Fit(cloud matrix.Matrix, opts ...FitOption) (*Model, error) {
	o := fitOptions{
		rcond:      DefaultRcond,
		ridgeScale: DefaultRidgeScale,
		eigenTol:   DefaultEigenTol,
		maxSweeps:  DefaultMaxSweeps,
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.err != nil {
		return nil, o.err
	}
	if err := matrix.ValidateNotNil(cloud); err != nil {
		return nil, fmt.Errorf("baseline: fit: %w", err)
	}
	n, d := cloud.Rows(), cloud.Cols()
	if n < MinVectors {
		return nil, fmt.Errorf("%w: have %d, need %d", ErrTooFewVectors, n, MinVectors)
	}

	gram := n <= d
	var (
		S, Xct *matrix.Dense
		mean   []float64
		err    error
	)
	if gram {
		var Xc *matrix.Dense
		if Xc, mean, err = matrix.CenterColumns(cloud); err != nil {
			return nil, fmt.Errorf("baseline: fit: %w", err)
		}
		if Xct, err = matrix.Transpose(Xc); err != nil {
			return nil, fmt.Errorf("baseline: fit: %w", err)
		}
		if S, err = matrix.Mul(Xc, Xct); err != nil {
			return nil, fmt.Errorf("baseline: fit: %w", err)
		}
		S, err = matrix.Scale(S, 1/float64(n))
	} else {
		if S, mean, err = matrix.Covariance(cloud); err != nil {
			return nil, fmt.Errorf("baseline: fit: %w", err)
		}
		// sample (1/(n-1)) to maximum-likelihood (1/n)
		S, err = matrix.Scale(S, float64(n-1)/float64(n))
	}
	if err != nil {
		return nil, fmt.Errorf("baseline: fit: %w", err)
	}

	vals, Q, err := matrix.Eigen(S, o.eigenTol, o.maxSweeps)
	if err != nil {
		return nil, fmt.Errorf("baseline: fit: %w", err)
	}

	order := make([]int, len(vals))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool { return vals[order[a]] > vals[order[b]] })

	own, err := denseCopy(cloud)
	if err != nil {
		return nil, fmt.Errorf("baseline: fit: %w", err)
	}
	m := &Model{cloud: own, mean: mean, ridge: o.ridge}
	if !o.ridgeSet {
		var trace float64
		for _, v := range vals {
			if v > 0 {
				trace += v
			}
		}
		m.ridge = o.ridgeScale * trace / float64(d)
		if trace == 0 {
			m.ridge = o.ridgeScale
		}
	}
	if len(order) == 0 || vals[order[0]] <= 0 {
		return m, nil
	}
	cut := o.rcond * vals[order[0]]

	size := S.Rows()
	col := make([]float64, size)
	for _, k := range order {
		lambda := vals[k]
		if lambda <= cut {
			break
		}
		for i := 0; i < size; i++ {
			if col[i], err = Q.At(i, k); err != nil {
				return nil, fmt.Errorf("baseline: fit: %w", err)
			}
		}
		var axis []float64
		if gram {
			// v = Xcᵀu / √(nλ)
			if axis, err = matrix.MatVec(Xct, col); err != nil {
				return nil, fmt.Errorf("baseline: fit: %w", err)
			}
			norm := math.Sqrt(float64(n) * lambda)
			for i := range axis {
				axis[i] /= norm
			}
		} else {
			axis = append([]float64(nil), col...)
		}
		m.axes = append(m.axes, axis)
		m.variances = append(m.variances, lambda)
	}

	return m, nil
}

// denseCopy materializes any Matrix as a *matrix.Dense.
func denseCopy(src matrix.Matrix) (*matrix.Dense, error) {
	rows := make([][]float64, src.Rows())
	for i := range rows {
		rows[i] = make([]float64, src.Cols())
		for j := range rows[i] {
			v, err := src.At(i, j)
			if err != nil {
				return nil, err
			}
			rows[i][j] = v
		}
	}

	return matrix.NewDenseFromRows(rows)
}

// Distance returns the Mahalanobis distance √((x−μ)ᵀ (Σ+δI)⁻¹ (x−μ)) of vec
// from the cloud. With δ = 0 the inverse is the pseudo-inverse and
// components outside the cloud's span contribute nothing.
//
// Errors: ErrDimensionMismatch.
func (m *Model) Distance(vec []float64) (float64, error) {
	if len(vec) != len(m.mean) {
		return 0, fmt.Errorf("%w: query has %d, baseline has %d", ErrDimensionMismatch, len(vec), len(m.mean))
	}
	xc := make([]float64, len(vec))
	for i := range vec {
		xc[i] = vec[i] - m.mean[i]
	}

	var d2, inSpan float64
	for k, axis := range m.axes {
		p, err := matrix.Dot(axis, xc)
		if err != nil {
			return 0, err
		}
		p2 := p * p
		inSpan += p2
		d2 += p2 / (m.variances[k] + m.ridge)
	}
	if m.ridge > 0 {
		residual := matrix.Norm(xc)
		residual = residual*residual - inSpan
		if residual > 0 {
			d2 += residual / m.ridge
		}
	}

	return math.Sqrt(d2), nil
}

// Dim returns the embedding dimension.
func (m *Model) Dim() int { return len(m.mean) }

// Len returns the number of reference vectors.
func (m *Model) Len() int { return m.cloud.Rows() }

// Ridge returns the δ added to the covariance; 0 means pseudo-inverse.
func (m *Model) Ridge() float64 { return m.ridge }

// Rank returns the number of retained principal axes.
func (m *Model) Rank() int { return len(m.axes) }

// Mean returns a copy of the cloud center.
func (m *Model) Mean() []float64 { return append([]float64(nil), m.mean...) }

// Row returns a copy of reference vector i.
func (m *Model) Row(i int) ([]float64, error) { return m.cloud.Row(i) }

// Cloud returns a deep copy of the reference vectors.
func (m *Model) Cloud() *matrix.Dense { return m.cloud.Clone().(*matrix.Dense) }
