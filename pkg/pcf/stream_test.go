package pcf

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func streams(t *testing.T, data []byte) map[string]Stream {
	t.Helper()
	seek, err := NewStream(bytes.NewReader(data))
	require.NoError(t, err)
	return map[string]Stream{
		"seek":  seek,
		"bytes": NewBytesStream(data),
	}
}

func TestStreamReadLineAndSkip(t *testing.T) {
	t.Parallel()

	data := []byte("head one\n0123456789tail\nlast")
	for name, s := range streams(t, data) {
		t.Run(name, func(t *testing.T) {
			line, err := s.ReadLine()
			require.NoError(t, err)
			require.Equal(t, "head one", line)
			require.EqualValues(t, 9, s.Offset())

			require.NoError(t, s.Skip(10))
			require.EqualValues(t, 19, s.Offset())

			line, err = s.ReadLine()
			require.NoError(t, err)
			require.Equal(t, "tail", line)

			line, err = s.ReadLine()
			require.NoError(t, err)
			require.Equal(t, "last", line)

			_, err = s.ReadLine()
			require.ErrorIs(t, err, io.EOF)
		})
	}
}

func TestStreamSkipPastBuffer(t *testing.T) {
	t.Parallel()

	// The gap is larger than the read buffer so the seek path is taken.
	gap := strings.Repeat("x", 3*streamBufSize)
	data := []byte("a\n" + gap + "b\n")
	for name, s := range streams(t, data) {
		t.Run(name, func(t *testing.T) {
			_, err := s.ReadLine()
			require.NoError(t, err)
			require.NoError(t, s.Skip(int64(len(gap))))

			line, err := s.ReadLine()
			require.NoError(t, err)
			require.Equal(t, "b", line)
			require.EqualValues(t, len(data), s.Offset())
		})
	}
}

func TestStreamReadExact(t *testing.T) {
	t.Parallel()

	for name, s := range streams(t, []byte("abcdef")) {
		t.Run(name, func(t *testing.T) {
			got, err := s.ReadExact(4)
			require.NoError(t, err)
			require.Equal(t, "abcd", string(got))

			_, err = s.ReadExact(3)
			require.ErrorIs(t, err, ErrMalformedRecord)
			require.ErrorIs(t, s.Skip(3), ErrMalformedRecord)
			require.ErrorIs(t, s.Skip(-1), ErrMalformedRecord)
			require.EqualValues(t, 4, s.Offset())
		})
	}
}
