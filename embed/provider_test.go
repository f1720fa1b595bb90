// SPDX-License-Identifier: MIT

package embed_test

import (
	"context"
	"errors"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soyuz43/hypergraph-cli/embed"
	"github.com/soyuz43/hypergraph-cli/matrix"
)

// fakeEncoder returns a fixed encoding and counts calls.
type fakeEncoder struct {
	enc   *embed.Encoding
	err   error
	calls int
}

func (f *fakeEncoder) Encode(context.Context, string) (*embed.Encoding, error) {
	f.calls++
	return f.enc, f.err
}

func encoding(t *testing.T, tokens []string, rows [][]float64) *embed.Encoding {
	t.Helper()
	h, err := matrix.NewDenseFromRows(rows)
	require.NoError(t, err)

	return &embed.Encoding{Model: "fake", Tokens: tokens, Hidden: h}
}

func TestMatches(t *testing.T) {
	tests := []struct {
		token, concept string
		want           bool
	}{
		{"cat", "cat", true},
		{"Cat", "cat", true},
		{"cats", "cat", true},     // token extends the concept
		{"grav", "gravity", true}, // token is a prefix of the concept
		{"mat", "cat", false},
		{"", "cat", false},
		{"##ity", "gravity", false},
		{"[CLS]", "cat", false},
	}
	for _, tc := range tests {
		assert.Equalf(t, tc.want, embed.Matches(tc.token, tc.concept), "%q vs %q", tc.token, tc.concept)
	}
}

func TestProvider_AveragesMatchingRows(t *testing.T) {
	enc := encoding(t,
		[]string{"[CLS]", "the", "cat", "sat", "on", "the", "mat", ".", "[SEP]"},
		[][]float64{
			{0, 0}, {1, 1}, {2, 4}, {3, 9}, {4, 16}, {5, 25}, {6, 36}, {7, 49}, {8, 64},
		})
	before := enc.Hidden.String()
	fe := &fakeEncoder{enc: enc}
	p := embed.NewProvider(fe)

	v, err := p.Vectors(context.Background(), "The cat sat on the mat.", []string{"cat", "sat", "mat", "the"}, rand.New(rand.NewPCG(1, 1)))
	require.NoError(t, err)
	assert.Equal(t, 1, fe.calls)
	assert.Equal(t, 2, v.Dim)
	assert.Empty(t, v.Fallback)
	assert.False(t, v.Synthetic)

	assert.Equal(t, []float64{2, 4}, v.Values["cat"])
	assert.Equal(t, []float64{3, 9}, v.Values["sat"])
	assert.Equal(t, []float64{6, 36}, v.Values["mat"])
	// both "the" rows are averaged
	assert.Equal(t, []float64{3, 13}, v.Values["the"])

	assert.Equal(t, before, enc.Hidden.String(), "hidden states must not be mutated")
	v.Values["cat"][0] = 99
	got, _ := enc.Hidden.At(2, 0)
	assert.Equal(t, 2.0, got, "vectors must not alias hidden states")
}

func TestProvider_OrderIndependentAverage(t *testing.T) {
	rows := [][]float64{{1, 2}, {3, 5}, {10, 20}}
	a := encoding(t, []string{"run", "running", "x"}, rows)
	b := encoding(t, []string{"running", "run", "x"}, [][]float64{rows[1], rows[0], rows[2]})

	va, err := embed.Assign(a, []string{"run"}, nil, nil)
	require.NoError(t, err)
	vb, err := embed.Assign(b, []string{"run"}, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, va.Values["run"], vb.Values["run"])
}

func TestProvider_FallbackIsSeeded(t *testing.T) {
	enc := encoding(t, []string{"[CLS]", "xyz", "[SEP]"}, [][]float64{{0, 0, 0}, {1, 1, 1}, {0, 0, 0}})
	p := embed.NewProvider(&fakeEncoder{enc: enc})

	v1, err := p.Vectors(context.Background(), "xyz", []string{"gravity", "xyz"}, rand.New(rand.NewPCG(7, 9)))
	require.NoError(t, err)
	v2, err := p.Vectors(context.Background(), "xyz", []string{"gravity", "xyz"}, rand.New(rand.NewPCG(7, 9)))
	require.NoError(t, err)

	assert.Equal(t, []string{"gravity"}, v1.Fallback)
	assert.True(t, v1.IsFallback("gravity"))
	assert.False(t, v1.IsFallback("xyz"))
	assert.Equal(t, v1.Values["gravity"], v2.Values["gravity"])
	for _, x := range v1.Values["gravity"] {
		assert.GreaterOrEqual(t, x, 0.0)
		assert.Less(t, x, 1.0)
	}

	_, err = p.Vectors(context.Background(), "xyz", []string{"gravity"}, nil)
	require.ErrorIs(t, err, embed.ErrNilRand)
}

func TestProvider_EncoderError(t *testing.T) {
	boom := errors.New("boom")
	p := embed.NewProvider(&fakeEncoder{err: boom})

	_, err := p.Vectors(context.Background(), "x", []string{"x"}, rand.New(rand.NewPCG(1, 1)))
	require.ErrorIs(t, err, boom)

	_, err = embed.Assign(&embed.Encoding{Tokens: []string{"a"}}, []string{"a"}, nil, nil)
	require.ErrorIs(t, err, embed.ErrInvalidEncoding)
}

func TestSynthetic(t *testing.T) {
	v, err := embed.Synthetic([]string{"a", "b"}, 4, rand.New(rand.NewPCG(3, 3)))
	require.NoError(t, err)
	assert.True(t, v.Synthetic)
	assert.True(t, v.IsFallback("a"))
	assert.Len(t, v.Values["b"], 4)

	_, err = embed.Synthetic([]string{"a"}, 0, rand.New(rand.NewPCG(3, 3)))
	require.ErrorIs(t, err, embed.ErrInvalidDim)
}

func TestMeanPool(t *testing.T) {
	enc := encoding(t, []string{"a", "b"}, [][]float64{{1, 3}, {3, 5}})

	v, err := embed.MeanPool(enc)
	require.NoError(t, err)
	assert.Equal(t, []float64{2, 4}, v)
}
