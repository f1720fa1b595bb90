// SPDX-License-Identifier: MIT

package stability_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/soyuz43/hypergraph-cli/baseline"
	"github.com/soyuz43/hypergraph-cli/embed"
	"github.com/soyuz43/hypergraph-cli/matrix"
	"github.com/soyuz43/hypergraph-cli/nlp"
)

const catSentence = "The cat sat on the mat."

// fakeParser serves canned parses and fails for anything else.
type fakeParser struct {
	docs  map[string]*nlp.Doc
	calls int
}

func (p *fakeParser) Parse(_ context.Context, text string) (*nlp.Doc, error) {
	p.calls++
	doc, ok := p.docs[text]
	if !ok {
		return nil, fmt.Errorf("%w: no canned parse for %q", nlp.ErrParseFailed, text)
	}

	return doc, nil
}

func newParser() *fakeParser {
	return &fakeParser{docs: map[string]*nlp.Doc{
		catSentence: {Model: "en_core_web_sm", Tokens: []nlp.Token{
			{Index: 0, Text: "The", POS: "DET", Head: 1, Dep: "det"},
			{Index: 1, Text: "cat", POS: "NOUN", Head: 2, Dep: "nsubj"},
			{Index: 2, Text: "sat", POS: "VERB", Head: 2, Dep: "ROOT"},
			{Index: 3, Text: "on", POS: "ADP", Head: 2, Dep: "prep"},
			{Index: 4, Text: "the", POS: "DET", Head: 5, Dep: "det"},
			{Index: 5, Text: "mat", POS: "NOUN", Head: 3, Dep: "pobj"},
			{Index: 6, Text: ".", POS: "PUNCT", Head: 2, Dep: "punct"},
		}},
		"Gravity.": {Model: "en_core_web_sm", Tokens: []nlp.Token{
			{Index: 0, Text: "Gravity", POS: "NOUN", Head: 0, Dep: "ROOT"},
			{Index: 1, Text: ".", POS: "PUNCT", Head: 0, Dep: "punct"},
		}},
	}}
}

// fakeEncoder returns one fixed encoding and counts calls.
type fakeEncoder struct {
	enc   *embed.Encoding
	calls int
}

func (f *fakeEncoder) Encode(context.Context, string) (*embed.Encoding, error) {
	f.calls++
	return f.enc, nil
}

// catEncoder encodes the cat sentence in four dimensions. With drop set, the
// "mat" token is replaced by an unknown word piece.
func catEncoder(t *testing.T, drop bool) *fakeEncoder {
	t.Helper()
	mat := "mat"
	if drop {
		mat = "##xq"
	}
	h, err := matrix.NewDenseFromRows([][]float64{
		{0.1, 0.1, 0.1, 0.1},
		{1, 0, 0, 0},
		{0.9, 0.2, 0.1, 0},
		{0.1, 0.8, 0.3, 0.2},
		{0, 0, 1, 0},
		{1, 0, 0, 0},
		{0.7, 0.1, 0.2, 0.5},
		{0, 0, 0, 1},
		{0.2, 0.2, 0.2, 0.2},
	})
	require.NoError(t, err)

	return &fakeEncoder{enc: &embed.Encoding{
		Model:  "fake-bert",
		Tokens: []string{"[CLS]", "the", "cat", "sat", "on", "the", mat, ".", "[SEP]"},
		Hidden: h,
	}}
}

func referenceModel(t *testing.T) *baseline.Model {
	t.Helper()
	cloud, err := matrix.NewDenseFromRows([][]float64{
		{1, 0, 0, 0.5},
		{0, 1, 0, 0.2},
		{0, 0, 1, 0.1},
		{0.5, 0.5, 0, 0},
		{0.2, 0.1, 0.9, 0.3},
		{0.3, 0.7, 0.2, 0.9},
	})
	require.NoError(t, err)
	m, err := baseline.Fit(cloud)
	require.NoError(t, err)

	return m
}

// countingRecorder tallies what the analyzer reports.
type countingRecorder struct {
	outcomes  map[string]int
	stages    map[string]int
	fallbacks int
}

func newRecorder() *countingRecorder {
	return &countingRecorder{outcomes: map[string]int{}, stages: map[string]int{}}
}

func (r *countingRecorder) ObserveStage(stage string, _ time.Duration) { r.stages[stage]++ }
func (r *countingRecorder) IncAnalysis(outcome string)                 { r.outcomes[outcome]++ }
func (r *countingRecorder) AddFallbackConcepts(n int)                  { r.fallbacks += n }
