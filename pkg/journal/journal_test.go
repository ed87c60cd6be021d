package journal_test

import (
	"bytes"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/mlproof/mlcheck/pkg/journal"
)

func TestCommitReadRoundTrip(t *testing.T) {
	entry := journal.Entry{
		CycleCount: 42,
		Gamma:      []byte{1, 2, 3, 4},
		Claims:     []byte{9, 9},
	}
	data := journal.Commit(entry)

	got, err := journal.Read(bytes.NewReader(data))
	require.NoError(t, err)
	if diff := cmp.Diff(entry, got); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestCommitEmptyEntry(t *testing.T) {
	data := journal.Commit(journal.Entry{})
	got, err := journal.Read(bytes.NewReader(data))
	require.NoError(t, err)
	require.Equal(t, uint64(0), got.CycleCount)
	require.Empty(t, got.Gamma)
	require.Empty(t, got.Claims)
}

func TestReadTruncatedHeader(t *testing.T) {
	_, err := journal.Read(bytes.NewReader([]byte{1, 2, 3}))
	require.Error(t, err)
}

func TestReadTruncatedGamma(t *testing.T) {
	entry := journal.Entry{CycleCount: 1, Gamma: []byte{1, 2, 3, 4, 5}}
	data := journal.Commit(entry)
	// Chop off the last gamma byte.
	truncated := data[:len(data)-1]
	_, err := journal.Read(bytes.NewReader(truncated))
	require.Error(t, err)
}
