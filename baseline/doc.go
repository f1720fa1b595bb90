// SPDX-License-Identifier: MIT

// Package baseline owns the reference cloud of "known-meaningful" sentence
// embeddings and the Mahalanobis distance model fitted on it.
//
// The cloud is loaded once at startup (Load / LoadModel) from a .npy or .json
// artifact; a missing file or a dimension different from the encoder's is a
// startup failure. Fit centers the cloud and keeps the principal axes of its
// maximum-likelihood covariance, after which Model answers Distance queries
// without refitting. Model is read-only and may be shared across goroutines.
//
// With fewer reference vectors than dimensions (50 sentences vs. 768 hidden
// units is typical) the covariance is singular. Fit therefore regularizes
// Σ + δI with δ scaled to the mean variance (WithRidgeScale), so a query is at
// distance 0 only at the mean. WithRidge(δ) fixes δ; WithRidge(0) falls back
// to the pseudo-inverse, where directions the cloud never varies in
// contribute nothing.
//
// Build and WriteNPY regenerate the artifact from DefaultSentences through any
// embed.Encoder.
package baseline
