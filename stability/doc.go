// SPDX-License-Identifier: MIT

// Package stability scores how semantically stable a proposition is.
//
// An Analyzer parses the proposition, keeps its nouns, verbs and adjectives
// as concepts, links concepts that stand in a head-dependent relation, gives
// every concept a contextual embedding, smooths the embeddings over the
// concept graph and finally compares them with the baseline cloud:
//
//	coherence   mean cosine across graph edges
//	contrast    mean cosine of each concept against every baseline vector
//	dispersion  mean Mahalanobis distance of each concept from the baseline
//
// A proposition whose graph has no edges yields InsufficientStructureMessage
// instead of a Report; this is an expected outcome, not an error.
//
// Startup problems (missing or mismatched baseline, missing encoder) are
// reported as *ConfigurationError by NewAnalyzer and LoadBaseline. Reduced
// mode trades the baseline for coherence-only output and says so in the
// rendered report.
package stability
