//go:build !unix

package pcf

import "os"

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
	data, err := readAllAt(f, stat.Size())
	if err != nil {
		return nil, nil, err
	}
	return data, func() error { return nil }, nil
}
