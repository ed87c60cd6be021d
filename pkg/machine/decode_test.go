package machine

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestReaderByteAdvancesPosition(t *testing.T) {
	r := newReader([]byte{10, 20, 30})
	b, err := r.byte()
	require.NoError(t, err)
	require.Equal(t, byte(10), b)
	require.Equal(t, 1, r.pos)
}

func TestReaderByteTruncated(t *testing.T) {
	r := newReader(nil)
	_, err := r.byte()
	require.Error(t, err)
	var decodeErr *DecodeError
	require.ErrorAs(t, err, &decodeErr)
}

func TestReaderIDList(t *testing.T) {
	r := newReader([]byte{3, 1, 2, 3, 99})
	ids, err := r.idList()
	require.NoError(t, err)
	require.Equal(t, []byte{1, 2, 3}, ids)
	require.False(t, r.atEnd())
}

func TestReaderIDListTruncated(t *testing.T) {
	r := newReader([]byte{5, 1, 2})
	_, err := r.idList()
	require.Error(t, err)
}

func TestReaderAtEnd(t *testing.T) {
	r := newReader([]byte{1})
	require.False(t, r.atEnd())
	_, _ = r.byte()
	require.True(t, r.atEnd())
}
