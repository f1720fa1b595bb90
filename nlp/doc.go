// SPDX-License-Identifier: MIT

// Package nlp turns a proposition into concepts and syntactic pairs.
//
// A Parser produces a dependency-parsed Doc (Universal POS tags, head
// indices). Extract keeps tokens tagged NOUN, VERB or ADJ as concepts,
// canonicalized once through Canonical, deduplicated in order of first
// appearance, and collects the (head, dependent) pairs whose endpoints are
// both concepts with different text.
//
// HTTPParser talks to a spaCy-compatible parse service:
//
//	POST {base}/parse  {"text": "The cat sat on the mat."}
//	200                {"model": "en_core_web_sm", "tokens": [{"i":0,"text":"The","pos":"DET","head":1,"dep":"det"}, ...]}
//
// Extraction is deterministic for a given Doc, so determinism of the whole
// stage reduces to the determinism of the parser model.
package nlp
