//go:build unix

package pcf

import (
	"os"

	"golang.org/x/sys/unix"
)

// mapFile maps path read-only. If mmap is refused it falls back to a
// ReadAt copy so callers never need a second code path.
func mapFile(path string) ([]byte, func() error, error) {
	//nolint:gosec // G304: reading a user-supplied model path is the point
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer func() { _ = f.Close() }()

	stat, err := f.Stat()
	if err != nil {
		return nil, nil, err
	}
	size := stat.Size()
	if size == 0 {
		return []byte{}, noRelease, nil
	}
	if size > int64(int(^uint(0)>>1)) {
		return nil, nil, unix.EFBIG
	}

	data, err := unix.Mmap(int(f.Fd()), 0, int(size), unix.PROT_READ, unix.MAP_SHARED)
	if err == nil {
		return data, func() error { return unix.Munmap(data) }, nil
	}

	data, err = readAllAt(f, size)
	if err != nil {
		return nil, nil, err
	}
	return data, noRelease, nil
}

func noRelease() error { return nil }
