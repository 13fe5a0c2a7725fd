package xsum

import (
	"encoding/binary"
	"math"

	"golang.org/x/xerrors"
)

// Writer feeds a byte stream of little-endian IEEE-754 binary64 values into
// an accumulator, implementing io.Writer. Writes need not be aligned to
// value boundaries: a partial trailing frame is carried over and completed
// by the next Write.
type Writer struct {
	acc     Accumulator
	carry   [8]byte
	pending int
}

// NewWriter returns a Writer feeding acc. The accumulator stays usable
// directly; bytes written here and values added there land in the same sum.
func NewWriter(acc Accumulator) *Writer {
	return &Writer{acc: acc}
}

// BlockSize is the number of bytes consumed per accumulated value. Writing
// in multiples of BlockSize avoids the internal carry buffer.
func (w *Writer) BlockSize() int { return 8 }

// Write adds the binary64 values encoded in p to the accumulator. It never
// fails; the returned error is always nil.
func (w *Writer) Write(p []byte) (int, error) {
	n := len(p)

	if w.pending > 0 {
		c := copy(w.carry[w.pending:], p)
		w.pending += c
		p = p[c:]
		if w.pending < len(w.carry) {
			return n, nil
		}
		w.acc.Add(math.Float64frombits(binary.LittleEndian.Uint64(w.carry[:])))
		w.pending = 0
	}

	for len(p) >= 8 {
		w.acc.Add(math.Float64frombits(binary.LittleEndian.Uint64(p)))
		p = p[8:]
	}

	w.pending = copy(w.carry[:], p)
	return n, nil
}

// Round returns the correctly-rounded sum of everything written so far. It
// fails if the stream ended in the middle of a value.
func (w *Writer) Round() (float64, error) {
	if w.pending != 0 {
		return 0, xerrors.Errorf(
			"stream ended mid-value: %d trailing bytes do not form a binary64", w.pending)
	}
	return w.acc.Round(), nil
}
