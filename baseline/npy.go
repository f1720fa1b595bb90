// SPDX-License-Identifier: MIT

package baseline

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/soyuz43/hypergraph-cli/matrix"
)

// npyMagic opens every .npy file.
const npyMagic = "\x93NUMPY"

// npyAlign is the header alignment required by the format.
const npyAlign = 64

// npyMaxHeader rejects corrupt length fields before allocating.
const npyMaxHeader = 1 << 20

var (
	reDescr   = regexp.MustCompile(`'descr'\s*:\s*'([^']*)'`)
	reFortran = regexp.MustCompile(`'fortran_order'\s*:\s*(True|False)`)
	reShape   = regexp.MustCompile(`'shape'\s*:\s*\(([^)]*)\)`)
)

// ReadNPY decodes a 2-D little-endian float32/float64 C-order array.
//
// Supported: format versions 1.0, 2.0 and 3.0; descr '<f4' or '<f8'.
//
// Errors: ErrMalformed, ErrUnsupportedFormat, matrix errors for non-finite data.
func ReadNPY(r io.Reader) (*matrix.Dense, error) {
	br := bufio.NewReader(r)

	pre := make([]byte, len(npyMagic)+2)
	if _, err := io.ReadFull(br, pre); err != nil {
		return nil, fmt.Errorf("%w: npy preamble: %v", ErrMalformed, err)
	}
	if string(pre[:len(npyMagic)]) != npyMagic {
		return nil, fmt.Errorf("%w: not an npy file", ErrMalformed)
	}
	major := pre[len(npyMagic)]

	var hlen int
	switch major {
	case 1:
		var n uint16
		if err := binary.Read(br, binary.LittleEndian, &n); err != nil {
			return nil, fmt.Errorf("%w: npy header length: %v", ErrMalformed, err)
		}
		hlen = int(n)
	case 2, 3:
		var n uint32
		if err := binary.Read(br, binary.LittleEndian, &n); err != nil {
			return nil, fmt.Errorf("%w: npy header length: %v", ErrMalformed, err)
		}
		hlen = int(n)
	default:
		return nil, fmt.Errorf("%w: npy version %d", ErrUnsupportedFormat, major)
	}

	if hlen > npyMaxHeader {
		return nil, fmt.Errorf("%w: npy header of %d bytes", ErrMalformed, hlen)
	}
	header := make([]byte, hlen)
	if _, err := io.ReadFull(br, header); err != nil {
		return nil, fmt.Errorf("%w: npy header: %v", ErrMalformed, err)
	}
	descr, rows, cols, err := parseNPYHeader(string(header))
	if err != nil {
		return nil, err
	}

	var size int
	switch descr {
	case "<f8":
		size = 8
	case "<f4":
		size = 4
	default:
		return nil, fmt.Errorf("%w: dtype %q", ErrUnsupportedFormat, descr)
	}

	if rows == 0 {
		return nil, fmt.Errorf("%w: empty array", ErrTooFewVectors)
	}
	if cols == 0 {
		return nil, fmt.Errorf("%w: zero-width rows", ErrMalformed)
	}

	raw := make([]byte, rows*cols*size)
	if _, err = io.ReadFull(br, raw); err != nil {
		return nil, fmt.Errorf("%w: npy data: %v", ErrMalformed, err)
	}

	out := make([][]float64, rows)
	for i := 0; i < rows; i++ {
		out[i] = make([]float64, cols)
		for j := 0; j < cols; j++ {
			off := (i*cols + j) * size
			if size == 8 {
				out[i][j] = math.Float64frombits(binary.LittleEndian.Uint64(raw[off:]))
			} else {
				out[i][j] = float64(math.Float32frombits(binary.LittleEndian.Uint32(raw[off:])))
			}
		}
	}

	return matrix.NewDenseFromRows(out)
}

func parseNPYHeader(h string) (descr string, rows, cols int, err error) {
	m := reDescr.FindStringSubmatch(h)
	if m == nil {
		return "", 0, 0, fmt.Errorf("%w: npy header missing descr", ErrMalformed)
	}
	descr = m[1]

	if m = reFortran.FindStringSubmatch(h); m == nil {
		return "", 0, 0, fmt.Errorf("%w: npy header missing fortran_order", ErrMalformed)
	}
	if m[1] == "True" {
		return "", 0, 0, fmt.Errorf("%w: fortran-ordered arrays", ErrUnsupportedFormat)
	}

	if m = reShape.FindStringSubmatch(h); m == nil {
		return "", 0, 0, fmt.Errorf("%w: npy header missing shape", ErrMalformed)
	}
	var dims []int
	for _, part := range strings.Split(m[1], ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		n, convErr := strconv.Atoi(part)
		if convErr != nil || n < 0 {
			return "", 0, 0, fmt.Errorf("%w: npy shape %q", ErrMalformed, m[1])
		}
		dims = append(dims, n)
	}
	if len(dims) != 2 {
		return "", 0, 0, fmt.Errorf("%w: %d-D array, want 2-D", ErrUnsupportedFormat, len(dims))
	}

	return descr, dims[0], dims[1], nil
}

// WriteNPY encodes m as a version 1.0 '<f8' C-order .npy stream, readable by
// numpy.load.
func WriteNPY(w io.Writer, m matrix.Matrix) error {
	if err := matrix.ValidateNotNil(m); err != nil {
		return err
	}
	rows, cols := m.Rows(), m.Cols()

	header := fmt.Sprintf("{'descr': '<f8', 'fortran_order': False, 'shape': (%d, %d), }", rows, cols)
	// magic(6) + version(2) + len(2) + header + padding + '\n' is a multiple of 64.
	pad := npyAlign - (len(npyMagic)+4+len(header)+1)%npyAlign
	if pad == npyAlign {
		pad = 0
	}
	header += strings.Repeat(" ", pad) + "\n"

	var buf bytes.Buffer
	buf.WriteString(npyMagic)
	buf.Write([]byte{1, 0})
	_ = binary.Write(&buf, binary.LittleEndian, uint16(len(header)))
	buf.WriteString(header)

	var word [8]byte
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			v, err := m.At(i, j)
			if err != nil {
				return err
			}
			binary.LittleEndian.PutUint64(word[:], math.Float64bits(v))
			buf.Write(word[:])
		}
	}
	_, err := w.Write(buf.Bytes())

	return err
}
