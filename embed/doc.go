// SPDX-License-Identifier: MIT

// Package embed maps concepts to contextual embedding vectors.
//
// An Encoder runs a contextual model once over the whole proposition and
// returns its sub-word tokens with one hidden-state row per token. Provider
// then assigns every concept the mean of the rows whose lower-cased token
// equals the concept, starts with it, or is a prefix of it. The match is
// lossy: short tokens can merge unrelated concepts that share a prefix.
//
// A concept with no matching token receives a uniform [0,1) vector drawn from
// the caller's *rand.Rand and is listed in Vectors.Fallback. Its downstream
// scores are noise and callers should treat them as low confidence.
//
// HTTPEncoder talks to a transformers-style encode service:
//
//	POST {base}/encode  {"text": "...", "model": "bert-base-uncased"}
//	200                 {"model": "...", "hidden_size": 768, "tokens": ["[CLS]", ...], "hidden_states": [[...], ...]}
package embed
