// SPDX-License-Identifier: MIT

// Package narrative runs the three qualitative analysis phases of a
// proposition against a text-generation backend:
//
//	Topology        hidden assumptions, cognitive regimes, power relations
//	Equilibrium     whether the proposition stabilizes or disrupts cognition
//	Reconstruction  the proposition reframed from a non-anthropic epistemology
//
// Optional epistemological lenses are passed to the backend as context.
// A failed request never aborts a run: the phase output becomes an
// "[ERROR] <backend> request failed: <err>" string, and only context
// cancellation is returned as an error. No request is retried.
package narrative
