// SPDX-License-Identifier: MIT

package baseline

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/soyuz43/hypergraph-cli/matrix"
)

// Load reads a reference cloud from path. The format is chosen by extension:
// ".npy" (numpy array) or ".json" ([][]float64). wantDim > 0 enforces the
// embedding dimension; 0 accepts any.
//
// Errors: ErrArtifactMissing, ErrUnsupportedFormat, ErrMalformed,
// ErrDimensionMismatch, ErrTooFewVectors.
func Load(path string, wantDim int) (*matrix.Dense, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrArtifactMissing, path)
		}
		return nil, fmt.Errorf("baseline: open %s: %w", path, err)
	}
	defer f.Close()

	var cloud *matrix.Dense
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".npy":
		cloud, err = ReadNPY(f)
	case ".json":
		cloud, err = ReadJSON(f)
	default:
		return nil, fmt.Errorf("%w: extension %q", ErrUnsupportedFormat, ext)
	}
	if err != nil {
		return nil, fmt.Errorf("baseline: %s: %w", path, err)
	}

	if cloud.Rows() < MinVectors {
		return nil, fmt.Errorf("%w: %s has %d, need %d", ErrTooFewVectors, path, cloud.Rows(), MinVectors)
	}
	if wantDim > 0 && cloud.Cols() != wantDim {
		return nil, fmt.Errorf("%w: %s has dimension %d, encoder produces %d", ErrDimensionMismatch, path, cloud.Cols(), wantDim)
	}

	return cloud, nil
}

// LoadModel loads path and fits a Model in one step.
func LoadModel(path string, wantDim int, opts ...FitOption) (*Model, error) {
	cloud, err := Load(path, wantDim)
	if err != nil {
		return nil, err
	}

	return Fit(cloud, opts...)
}

// ReadJSON decodes a [][]float64 document.
//
// Errors: ErrMalformed, ErrTooFewVectors (empty), matrix errors for ragged or
// non-finite rows.
func ReadJSON(r io.Reader) (*matrix.Dense, error) {
	var rows [][]float64
	if err := json.NewDecoder(r).Decode(&rows); err != nil {
		return nil, fmt.Errorf("%w: json: %v", ErrMalformed, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: empty array", ErrTooFewVectors)
	}
	cloud, err := matrix.NewDenseFromRows(rows)
	if err != nil {
		if errors.Is(err, matrix.ErrDimensionMismatch) {
			return nil, fmt.Errorf("%w: ragged rows: %v", ErrDimensionMismatch, err)
		}
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	return cloud, nil
}

// Save writes cloud to path, choosing the format by extension like Load.
func Save(path string, cloud matrix.Matrix) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("baseline: create dir: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("baseline: create %s: %w", path, err)
	}

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".npy":
		err = WriteNPY(f, cloud)
	case ".json":
		err = writeJSON(f, cloud)
	default:
		err = fmt.Errorf("%w: extension %q", ErrUnsupportedFormat, ext)
	}
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(path)
		return fmt.Errorf("baseline: write %s: %w", path, err)
	}

	return nil
}

func writeJSON(w io.Writer, cloud matrix.Matrix) error {
	if err := matrix.ValidateNotNil(cloud); err != nil {
		return err
	}
	rows := make([][]float64, cloud.Rows())
	for i := range rows {
		rows[i] = make([]float64, cloud.Cols())
		for j := range rows[i] {
			v, err := cloud.At(i, j)
			if err != nil {
				return err
			}
			rows[i][j] = v
		}
	}

	return json.NewEncoder(w).Encode(rows)
}
