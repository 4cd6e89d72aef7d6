package pcf

import (
	"fmt"
	"io"
	"os"
)

// ReadStream is a Stream that owns an open resource.
type ReadStream interface {
	Stream
	io.Closer
}

// Source opens a fresh stream positioned at the start of a PCF file.
// Every loader operation opens and closes its own stream.
type Source interface {
	Open() (ReadStream, error)
	Name() string
}

type fileSource struct{ path string }

// FileSource reads path through a buffered, seekable file handle.
func FileSource(path string) Source { return fileSource{path: path} }

func (s fileSource) Name() string { return s.path }

func (s fileSource) Open() (ReadStream, error) {
	//nolint:gosec // G304: reading a user-supplied model path is the point
	f, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("%w: could not read model from %s: %w", ErrIO, s.path, err)
	}
	st, err := NewStream(f)
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	return closerStream{Stream: st, close: f.Close}, nil
}

type mappedSource struct{ path string }

// MappedSource maps path read-only for the duration of each operation.
// Platforms without mmap fall back to reading the file into memory.
func MappedSource(path string) Source { return mappedSource{path: path} }

func (s mappedSource) Name() string { return s.path }

func (s mappedSource) Open() (ReadStream, error) {
	data, release, err := mapFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("%w: could not read model from %s: %w", ErrIO, s.path, err)
	}
	return closerStream{Stream: NewBytesStream(data), close: release}, nil
}

type bytesSource struct{ data []byte }

// BytesSource serves an in-memory file.
func BytesSource(data []byte) Source { return bytesSource{data: data} }

func (s bytesSource) Name() string { return "<memory>" }

func (s bytesSource) Open() (ReadStream, error) {
	return closerStream{Stream: NewBytesStream(s.data), close: func() error { return nil }}, nil
}

type closerStream struct {
	Stream
	close func() error
}

func (c closerStream) Close() error { return c.close() }

func readAllAt(r io.ReaderAt, size int64) ([]byte, error) {
	out := make([]byte, size)
	var off int64
	for off < size {
		n, err := r.ReadAt(out[off:], off)
		off += int64(n)
		if err == nil {
			continue
		}
		if err == io.EOF && off == size {
			break
		}
		return nil, err
	}
	return out, nil
}
