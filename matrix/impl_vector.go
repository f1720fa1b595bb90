// SPDX-License-Identifier: MIT
// Package: matrix
//
// Purpose:
//   - Vector kernels shared by the embedding provider, the diffusion engine
//     and the scorer: Dot, Norm, Cosine, MeanOf, Blend.
//
// Determinism:
//   - Single left-to-right accumulation; identical inputs give identical bits.

package matrix

import "math"

const (
	opDot    = "Dot"
	opCosine = "Cosine"
	opMeanOf = "MeanOf"
	opBlend  = "Blend"
)

// CosineEpsilon damps the cosine denominator so near-zero vectors score ~0
// instead of dividing by zero.
const CosineEpsilon = 1e-12

// Dot returns Σ a[i]·b[i].
// Errors: ErrDimensionMismatch when lengths differ.
// Complexity: O(n).
func Dot(a, b []float64) (float64, error) {
	if len(a) != len(b) {
		return 0, matrixErrorf(opDot, ErrDimensionMismatch)
	}
	var acc float64
	for i := range a {
		acc += a[i] * b[i]
	}

	return acc, nil
}

// Norm returns the Euclidean norm ‖a‖₂.
// Complexity: O(n).
func Norm(a []float64) float64 {
	var acc float64
	for _, v := range a {
		acc += v * v
	}

	return math.Sqrt(acc)
}

// Cosine returns a·b / (‖a‖‖b‖ + CosineEpsilon).
//
// Behavior highlights:
//   - Result is clamped to [-1, 1]; zero vectors give 0.
//
// Errors: ErrDimensionMismatch.
// Complexity: O(n).
func Cosine(a, b []float64) (float64, error) {
	dot, err := Dot(a, b)
	if err != nil {
		return 0, matrixErrorf(opCosine, err)
	}

	c := dot / (Norm(a)*Norm(b) + CosineEpsilon)

	return math.Max(-1, math.Min(1, c)), nil
}

// MeanOf returns the element-wise mean of vs. The inputs are not mutated and
// the result does not depend on their order beyond floating-point rounding.
//
// Errors:
//   - ErrEmptyInput (no vectors), ErrDimensionMismatch (ragged lengths).
//
// Complexity: O(k*n).
func MeanOf(vs [][]float64) ([]float64, error) {
	if len(vs) == 0 {
		return nil, matrixErrorf(opMeanOf, ErrEmptyInput)
	}
	n := len(vs[0])
	out := make([]float64, n)
	for _, v := range vs {
		if len(v) != n {
			return nil, matrixErrorf(opMeanOf, ErrDimensionMismatch)
		}
		for i := range v {
			out[i] += v[i]
		}
	}
	inv := 1.0 / float64(len(vs))
	for i := range out {
		out[i] *= inv
	}

	return out, nil
}

// Blend returns alpha·a + (1-alpha)·b as a new vector.
// Errors: ErrDimensionMismatch.
// Complexity: O(n).
func Blend(a, b []float64, alpha float64) ([]float64, error) {
	if len(a) != len(b) {
		return nil, matrixErrorf(opBlend, ErrDimensionMismatch)
	}
	out := make([]float64, len(a))
	beta := 1 - alpha
	for i := range a {
		out[i] = alpha*a[i] + beta*b[i]
	}

	return out, nil
}
