// SPDX-License-Identifier: MIT
// Package matrix provides universal operations on any Matrix implementation:
// matrix multiplication, transpose, scalar scaling, matrix-vector product and
// the symmetric eigen-decomposition used to fit the baseline distance model.
//
// Notes:
//   - All kernels validate first and wrap sentinels via matrixErrorf(op, err).
//   - Non-Dense operands are materialized once through asDense; inner loops
//     always run over flat row-major buffers.

package matrix

import (
	"fmt"
	"math"
)

// ZeroSum is the initial value for accumulations.
const ZeroSum = 0.0

// Operation name constants for unified error wrapping and reducing magic strings.
const (
	opMul       = "Mul"
	opTranspose = "Transpose"
	opScale     = "Scale"
	opMatVec    = "MatVec"
	opEigen     = "Eigen"
)

// matrixErrorf wraps err with an operation tag, preserving the original error via %w.
// Use only when err != nil.
func matrixErrorf(tag string, err error) error {
	return fmt.Errorf("%s: %w", tag, err)
}

// Mul computes the matrix product a×b.
//
// Implementation:
//   - Stage 1: Validate non-nil operands and a.Cols == b.Rows.
//   - Stage 2: i→k→j loop over flat buffers (row of a broadcast over rows of b).
//
// Errors:
//   - ErrNilMatrix, ErrDimensionMismatch.
//
// Complexity:
//   - Time O(r*k*c), Space O(r*c).
func Mul(a, b Matrix) (*Dense, error) {
	if err := ValidateNotNil(a); err != nil {
		return nil, matrixErrorf(opMul, err)
	}
	if err := ValidateNotNil(b); err != nil {
		return nil, matrixErrorf(opMul, err)
	}
	if a.Cols() != b.Rows() {
		return nil, matrixErrorf(opMul, ErrDimensionMismatch)
	}
	ad, err := asDense(a)
	if err != nil {
		return nil, matrixErrorf(opMul, err)
	}
	bd, err := asDense(b)
	if err != nil {
		return nil, matrixErrorf(opMul, err)
	}

	r, inner, c := ad.r, ad.c, bd.c
	out, err := NewDense(r, c)
	if err != nil {
		return nil, matrixErrorf(opMul, err)
	}

	var i, k, j, outBase, bBase int
	var aik float64
	for i = 0; i < r; i++ {
		outBase = i * c
		for k = 0; k < inner; k++ {
			aik = ad.data[i*inner+k]
			if aik == 0 {
				continue
			}
			bBase = k * c
			for j = 0; j < c; j++ {
				out.data[outBase+j] += aik * bd.data[bBase+j]
			}
		}
	}

	return out, nil
}

// Transpose returns mᵀ.
// Errors: ErrNilMatrix.
// Complexity: Time O(r*c), Space O(r*c).
func Transpose(m Matrix) (*Dense, error) {
	if err := ValidateNotNil(m); err != nil {
		return nil, matrixErrorf(opTranspose, err)
	}
	d, err := asDense(m)
	if err != nil {
		return nil, matrixErrorf(opTranspose, err)
	}
	out, err := NewDense(d.c, d.r)
	if err != nil {
		return nil, matrixErrorf(opTranspose, err)
	}
	var i, j int
	for i = 0; i < d.r; i++ {
		for j = 0; j < d.c; j++ {
			out.data[j*d.r+i] = d.data[i*d.c+j]
		}
	}

	return out, nil
}

// Scale returns alpha·m as a new matrix.
// Errors: ErrNilMatrix.
// Complexity: Time O(r*c), Space O(r*c).
func Scale(m Matrix, alpha float64) (*Dense, error) {
	if err := ValidateNotNil(m); err != nil {
		return nil, matrixErrorf(opScale, err)
	}
	d, err := asDense(m)
	if err != nil {
		return nil, matrixErrorf(opScale, err)
	}
	out := d.Clone().(*Dense)
	for i := range out.data {
		out.data[i] *= alpha
	}

	return out, nil
}

// MatVec computes y = m·x.
//
// Errors:
//   - ErrNilMatrix, ErrEmptyInput (nil x), ErrDimensionMismatch (len(x) != Cols).
//
// Complexity:
//   - Time O(r*c), Space O(r).
func MatVec(m Matrix, x []float64) ([]float64, error) {
	if err := ValidateNotNil(m); err != nil {
		return nil, matrixErrorf(opMatVec, err)
	}
	if err := ValidateVecLen(x, m.Cols()); err != nil {
		return nil, matrixErrorf(opMatVec, err)
	}
	d, err := asDense(m)
	if err != nil {
		return nil, matrixErrorf(opMatVec, err)
	}

	y := make([]float64, d.r)
	var i, j, base int
	var acc float64
	for i = 0; i < d.r; i++ {
		acc = ZeroSum
		base = i * d.c
		for j = 0; j < d.c; j++ {
			acc += d.data[base+j] * x[j]
		}
		y[i] = acc
	}

	return y, nil
}

// Eigen computes eigenvalues and eigenvectors of a symmetric matrix via cyclic Jacobi sweeps.
//
// Implementation:
//   - Stage 1: Validate symmetric square input (|A[i,j]-A[j,i]| ≤ tol·‖A‖_F).
//   - Stage 2: Sweep every (p,q), p<q, in fixed order and apply the rotation that zeroes A[p,q].
//   - Stage 3: Stop once off(A) = √(Σ_{i≠j} A[i,j]²) ≤ tol·‖A‖_F; fail after maxSweeps.
//
// Behavior highlights:
//   - Stable, deterministic pair order; the input is never mutated.
//   - A zero matrix converges immediately (all eigenvalues 0, Q = I).
//
// Inputs:
//   - m: symmetric Matrix; n := m.Rows().
//   - tol: relative convergence threshold (typ. 1e-12..1e-10).
//   - maxSweeps: cap on full sweeps (each sweep is n(n-1)/2 rotations).
//
// Returns:
//   - []float64: eigenvalues (diagonal of the rotated matrix), unsorted.
//   - *Dense: Q whose columns are the matching unit eigenvectors.
//
// Errors:
//   - ErrNilMatrix, ErrNonSquare, ErrAsymmetry, ErrMatrixEigenFailed.
//
// Complexity:
//   - Time O(maxSweeps · n³), Space O(n²).
//
// AI-Hints:
//   - Cyclic sweeps replace the largest-pivot search: the pivot scan alone is O(n²)
//     per rotation and dominates for the hidden sizes used by sentence encoders.
//   - Jacobi converges quadratically; 10..15 sweeps are plenty for n ≤ 1024.
func Eigen(m Matrix, tol float64, maxSweeps int) ([]float64, *Dense, error) {
	if err := ValidateSquare(m); err != nil {
		return nil, nil, matrixErrorf(opEigen, err)
	}
	src, err := asDense(m)
	if err != nil {
		return nil, nil, matrixErrorf(opEigen, err)
	}
	n := src.r
	a := src.Clone().(*Dense)

	var frob float64
	for _, v := range a.data {
		frob += v * v
	}
	frob = math.Sqrt(frob)
	if err = ValidateSymmetric(a, tol*math.Max(frob, 1)); err != nil {
		return nil, nil, matrixErrorf(opEigen, err)
	}

	q, err := NewDense(n, n)
	if err != nil {
		return nil, nil, matrixErrorf(opEigen, err)
	}
	var i int
	for i = 0; i < n; i++ {
		q.data[i*n+i] = 1.0
	}

	var (
		sweep, p, k        int
		col                int     // column index q (named col to keep q for the eigenvector matrix)
		app, aqq, apq      float64 // pivot block entries
		akp, akq, qkp, qkq float64 // row/column temporaries
		theta, t, c, s     float64 // rotation parameters
		threshold          = tol * frob
	)
	for sweep = 0; sweep <= maxSweeps; sweep++ {
		// Convergence check on the off-diagonal mass.
		if offDiagonal(a) <= threshold {
			return diagonal(a), q, nil
		}
		if sweep == maxSweeps {
			break
		}

		for p = 0; p < n-1; p++ {
			for col = p + 1; col < n; col++ {
				apq = a.data[p*n+col]
				if apq == 0 {
					continue
				}
				app = a.data[p*n+p]
				aqq = a.data[col*n+col]

				// θ = (aqq−app)/(2*apq); t = sign(θ)/(|θ|+√(θ²+1))
				theta = (aqq - app) / (2 * apq)
				t = math.Copysign(1.0/(math.Abs(theta)+math.Hypot(theta, 1)), theta)
				c = 1.0 / math.Sqrt(t*t+1)
				s = t * c

				for k = 0; k < n; k++ {
					if k == p || k == col {
						continue
					}
					akp = a.data[k*n+p]
					akq = a.data[k*n+col]
					a.data[k*n+p] = c*akp - s*akq
					a.data[p*n+k] = a.data[k*n+p]
					a.data[k*n+col] = s*akp + c*akq
					a.data[col*n+k] = a.data[k*n+col]
				}
				a.data[p*n+p] = c*c*app - 2*c*s*apq + s*s*aqq
				a.data[col*n+col] = s*s*app + 2*c*s*apq + c*c*aqq
				a.data[p*n+col], a.data[col*n+p] = 0, 0

				for k = 0; k < n; k++ {
					qkp = q.data[k*n+p]
					qkq = q.data[k*n+col]
					q.data[k*n+p] = c*qkp - s*qkq
					q.data[k*n+col] = s*qkp + c*qkq
				}
			}
		}
	}

	return nil, nil, matrixErrorf(opEigen, ErrMatrixEigenFailed)
}

// offDiagonal returns √(Σ_{i≠j} a[i,j]²) for a square Dense.
func offDiagonal(a *Dense) float64 {
	var sum float64
	var i, j int
	for i = 0; i < a.r; i++ {
		for j = 0; j < a.c; j++ {
			if i != j {
				sum += a.data[i*a.c+j] * a.data[i*a.c+j]
			}
		}
	}

	return math.Sqrt(sum)
}

// diagonal copies the main diagonal of a square Dense.
func diagonal(a *Dense) []float64 {
	out := make([]float64, a.r)
	for i := 0; i < a.r; i++ {
		out[i] = a.data[i*a.c+i]
	}

	return out
}
