package machine

import (
	"fmt"

	"github.com/mlproof/mlcheck/pkg/mlogic"
)

// DecodeError reports a malformed instruction stream: an unknown opcode, a
// truncated operand, a truncated length-prefixed id list, or a version
// mismatch (spec.md §7).
type DecodeError struct {
	Offset int
	Reason string
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode error at offset %d: %s", e.Offset, e.Reason)
}

// reader walks an instruction byte stream, tracking its position so
// DecodeError can report where a truncated stream gave out.
type reader struct {
	buf []byte
	pos int
}

func newReader(buf []byte) *reader { return &reader{buf: buf} }

func (r *reader) atEnd() bool { return r.pos >= len(r.buf) }

func (r *reader) byte() (byte, error) {
	if r.pos >= len(r.buf) {
		return 0, &DecodeError{Offset: r.pos, Reason: "truncated stream: expected a byte"}
	}
	b := r.buf[r.pos]
	r.pos++
	return b, nil
}

func (r *reader) id() (mlogic.ID, error) {
	b, err := r.byte()
	return mlogic.ID(b), err
}

// idList reads one length byte n followed by n id bytes.
func (r *reader) idList() ([]mlogic.ID, error) {
	n, err := r.byte()
	if err != nil {
		return nil, err
	}
	if r.pos+int(n) > len(r.buf) {
		return nil, &DecodeError{Offset: r.pos, Reason: "truncated length-prefixed id list"}
	}
	ids := make([]mlogic.ID, n)
	for i := 0; i < int(n); i++ {
		ids[i] = mlogic.ID(r.buf[r.pos])
		r.pos++
	}
	return ids, nil
}
