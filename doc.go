// SPDX-License-Identifier: MIT

// Package hypergraph measures how structurally and semantically stable a
// natural-language proposition is.
//
// A proposition is parsed into concepts (nouns, verbs, adjectives) linked by
// their syntactic dependencies. Each concept gets a contextual embedding,
// the embeddings are smoothed over the concept graph, and the result is
// compared with a reference cloud of plain factual sentences:
//
//	proposition ──nlp──▶ concepts + pairs ──stability──▶ concept graph
//	      │                                               │
//	      └──embed──▶ concept vectors ──diffusion──▶ smoothed vectors
//	                                                      │
//	                       baseline (Mahalanobis) ──▶ Report
//
// Packages:
//
//	core/       thread-safe graph primitives (vertices, undirected edges)
//	bfs/        breadth-first traversal and connected components
//	matrix/     dense matrices, vectors, covariance, eigen decomposition
//	nlp/        parser client and concept/pair extraction
//	embed/      encoder client and token-to-concept vector assignment
//	diffusion/  neighbor-averaging rounds over the concept graph
//	baseline/   reference cloud artifacts and the Mahalanobis model
//	stability/  the analysis pipeline, scores and report rendering
//	narrative/  topology, equilibrium and reconstruction phases over an LLM
//	config/     YAML + environment configuration
//	telemetry/  zap logging, prometheus metrics, OpenTelemetry tracing
//
// The hypergraph command in cmd/hypergraph wires these together.
//
// Quick example:
//
//	hypergraph stability "The cat sat on the mat."
//
//	Graph nodes: 3
//	Graph edges: 1
//	...
package hypergraph
