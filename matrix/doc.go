// Package matrix provides the dense linear algebra used by the baseline
// model and the stability scorer.
//
// The matrix package provides:
//
//   - Dense: a row-major float64 matrix with bounds-checked At/Set.
//   - Canonical kernels: Mul, Transpose, Scale, MatVec.
//   - Statistics: ColumnMeans, CenterColumns, Covariance.
//   - Spectral: Eigen (cyclic Jacobi for symmetric matrices).
//   - Vector kernels: Dot, Norm, Cosine, MeanOf, Blend.
//
// All kernels validate their inputs, return package sentinels wrapped with an
// operation tag ("Mul: matrix: dimension mismatch"), and never mutate their
// operands. Loops run in a fixed i→j order so results are bit-for-bit
// reproducible for identical inputs.
package matrix
