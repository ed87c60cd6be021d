// Package journal commits the values a ZK-VM host needs to bind into a
// receipt: a cycle count, the gamma byte length, the gamma bytes, and the
// claim bytes (spec.md §6.2). The core's responsibility ends at producing
// these bytes in the documented order; encoding of the integers is
// host-defined, so this package picks one fixed-width little-endian
// encoding and applies it consistently.
package journal

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
)

// Entry is the committed journal for one verification run. Proof bytes are
// never part of the journal — they are the non-public witness, not a
// binding commitment (spec.md §6.2).
type Entry struct {
	CycleCount uint64
	Gamma      []byte
	Claims     []byte
}

// Commit serialises an Entry in the documented order: cycle count, gamma
// length, gamma bytes, claim bytes.
func Commit(e Entry) []byte {
	var buf bytes.Buffer
	var lenBuf [8]byte

	binary.LittleEndian.PutUint64(lenBuf[:], e.CycleCount)
	buf.Write(lenBuf[:])

	binary.LittleEndian.PutUint64(lenBuf[:], uint64(len(e.Gamma)))
	buf.Write(lenBuf[:])

	buf.Write(e.Gamma)
	buf.Write(e.Claims)

	return buf.Bytes()
}

// Read parses a journal previously produced by Commit. It returns an error
// if r is truncated before the declared gamma length is satisfied; the
// claim bytes are whatever remains, since the journal carries no separate
// claim-length field (a consumer that needs to split claims further
// re-parses them via the Claim-phase instruction decoder instead).
func Read(r io.Reader) (Entry, error) {
	var header [16]byte
	if _, err := io.ReadFull(r, header[:]); err != nil {
		return Entry{}, fmt.Errorf("journal: truncated header: %w", err)
	}
	cycleCount := binary.LittleEndian.Uint64(header[0:8])
	gammaLen := binary.LittleEndian.Uint64(header[8:16])

	gamma := make([]byte, gammaLen)
	if _, err := io.ReadFull(r, gamma); err != nil {
		return Entry{}, fmt.Errorf("journal: truncated gamma bytes: %w", err)
	}

	claims, err := io.ReadAll(r)
	if err != nil {
		return Entry{}, fmt.Errorf("journal: reading claim bytes: %w", err)
	}

	return Entry{CycleCount: cycleCount, Gamma: gamma, Claims: claims}, nil
}
