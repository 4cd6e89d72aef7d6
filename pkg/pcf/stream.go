package pcf

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"
)

const streamBufSize = 64 << 10

// Stream is the sequential view of a PCF file used by the loader.
//
// Skip is the only way past a payload that is not decoded; it must land on
// exactly Offset()+n so the next ReadLine starts at the next header.
type Stream interface {
	// ReadLine returns the next line without its terminator, or io.EOF.
	ReadLine() (string, error)
	// ReadExact returns the next n bytes.
	ReadExact(n int64) ([]byte, error)
	// Skip advances the position by n bytes without reading them.
	Skip(n int64) error
	// Offset is the number of bytes consumed so far.
	Offset() int64
}

type seekStream struct {
	rs   io.ReadSeeker
	br   *bufio.Reader
	off  int64
	size int64
}

// NewStream wraps rs in a buffered Stream starting at its current position.
// Skips that fall inside the buffer are served from it; longer skips cost a
// single Seek.
func NewStream(rs io.ReadSeeker) (Stream, error) {
	start, err := rs.Seek(0, io.SeekCurrent)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrIO, err)
	}
	size, err := rs.Seek(0, io.SeekEnd)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrIO, err)
	}
	if _, err := rs.Seek(start, io.SeekStart); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrIO, err)
	}
	return &seekStream{
		rs:   rs,
		br:   bufio.NewReaderSize(rs, streamBufSize),
		off:  start,
		size: size,
	}, nil
}

func (s *seekStream) ReadLine() (string, error) {
	line, err := s.br.ReadString('\n')
	s.off += int64(len(line))
	if err != nil {
		if !errors.Is(err, io.EOF) {
			return "", fmt.Errorf("%w: %w", ErrIO, err)
		}
		if line == "" {
			return "", io.EOF
		}
		return line, nil
	}
	return strings.TrimSuffix(line, "\n"), nil
}

func (s *seekStream) ReadExact(n int64) ([]byte, error) {
	if err := checkRange(s.off, n, s.size); err != nil {
		return nil, err
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(s.br, buf); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrIO, err)
	}
	s.off += n
	return buf, nil
}

func (s *seekStream) Skip(n int64) error {
	if err := checkRange(s.off, n, s.size); err != nil {
		return err
	}
	buffered := int64(s.br.Buffered())
	if n <= buffered {
		if _, err := s.br.Discard(int(n)); err != nil {
			return fmt.Errorf("%w: %w", ErrIO, err)
		}
	} else {
		// The underlying reader sits `buffered` bytes past s.off.
		if _, err := s.rs.Seek(n-buffered, io.SeekCurrent); err != nil {
			return fmt.Errorf("%w: %w", ErrIO, err)
		}
		s.br.Reset(s.rs)
	}
	s.off += n
	return nil
}

func (s *seekStream) Offset() int64 { return s.off }

type bytesStream struct {
	data []byte
	off  int64
}

// NewBytesStream returns a Stream over an in-memory (or memory-mapped) file.
func NewBytesStream(data []byte) Stream {
	return &bytesStream{data: data}
}

func (s *bytesStream) ReadLine() (string, error) {
	if s.off >= int64(len(s.data)) {
		return "", io.EOF
	}
	rest := s.data[s.off:]
	i := bytes.IndexByte(rest, '\n')
	if i < 0 {
		s.off = int64(len(s.data))
		return string(rest), nil
	}
	s.off += int64(i + 1)
	return string(rest[:i]), nil
}

func (s *bytesStream) ReadExact(n int64) ([]byte, error) {
	if err := checkRange(s.off, n, int64(len(s.data))); err != nil {
		return nil, err
	}
	out := make([]byte, n)
	copy(out, s.data[s.off:s.off+n])
	s.off += n
	return out, nil
}

func (s *bytesStream) Skip(n int64) error {
	if err := checkRange(s.off, n, int64(len(s.data))); err != nil {
		return err
	}
	s.off += n
	return nil
}

func (s *bytesStream) Offset() int64 { return s.off }

func checkRange(off, n, size int64) error {
	if n < 0 {
		return &RecordError{Offset: off, Reason: fmt.Sprintf("negative payload length %d", n)}
	}
	if n > size-off {
		return &RecordError{Offset: off, Reason: fmt.Sprintf("payload of %d bytes extends past end of stream (%d bytes left)", n, size-off)}
	}
	return nil
}
