package classfile

import (
	"encoding/binary"
	"io"

	"github.com/pkg/errors"
)

// reader is a positional, big-endian cursor over a byte source. It is the
// single point through which every structural field of a class file is
// read, so that bounding a sub-region (an attribute body) only requires
// wrapping the same reader around a length-limited io.Reader.
type reader struct {
	r io.Reader
}

func newReader(r io.Reader) *reader {
	return &reader{r: r}
}

func (r *reader) u8() (uint8, error) {
	var buf [1]byte
	if _, err := io.ReadFull(r.r, buf[:]); err != nil {
		return 0, errors.Wrap(err, "reading u1")
	}
	return buf[0], nil
}

func (r *reader) u16() (uint16, error) {
	var v uint16
	if err := binary.Read(r.r, binary.BigEndian, &v); err != nil {
		return 0, errors.Wrap(err, "reading u2")
	}
	return v, nil
}

func (r *reader) u32() (uint32, error) {
	var v uint32
	if err := binary.Read(r.r, binary.BigEndian, &v); err != nil {
		return 0, errors.Wrap(err, "reading u4")
	}
	return v, nil
}

// bytes reads exactly n bytes.
func (r *reader) bytes(n int) ([]byte, error) {
	buf := make([]byte, n)
	if _, err := io.ReadFull(r.r, buf); err != nil {
		return nil, errors.Wrapf(err, "reading %d bytes", n)
	}
	return buf, nil
}

// boundedReader wraps an io.LimitedReader and, on finish, reports whether
// the caller consumed exactly its declared length — a read past the
// bound (shortage) is caught by that read failing; bytes left unread
// (surplus) are caught by finish.
type boundedReader struct {
	lr *io.LimitedReader
}

// bounded returns a reader scoped to exactly n bytes of the parent.
func (r *reader) bounded(n int64) *boundedReader {
	return &boundedReader{lr: &io.LimitedReader{R: r.r, N: n}}
}

func (b *boundedReader) reader() *reader {
	return &reader{r: b.lr}
}

// finish verifies the bounded region was consumed exactly; a positive
// remainder is surplus (decode error), matching spec.md §4.1: "the
// caller must verify the sub-reader is exhausted; surplus bytes are a
// decode error."
func (b *boundedReader) finish() error {
	if b.lr.N != 0 {
		return errors.Errorf("attribute sub-reader not exhausted: %d bytes left unread", b.lr.N)
	}
	return nil
}
