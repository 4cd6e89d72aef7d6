package pcf

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/samcharles93/pcf/internal/logger"
)

// Saver writes records to a single output stream.
//
// Every Save call flushes before returning, so a Loader opened on the same
// path afterwards sees complete records. With WithAtomic the records only
// appear at the path once Close succeeds. Calls are serialised by an internal
// lock; a Saver must still not be shared with a Loader reading the same file
// concurrently.
type Saver struct {
	w      *bufio.Writer
	f      *os.File
	log    logger.Logger
	closed bool

	// path and tmp are set for atomic savers: records go to tmp, which is
	// renamed to path on Close.
	path string
	tmp  string

	mu sync.Mutex
}

// NewSaver opens path for writing. The file is truncated unless WithAppend
// is given.
func NewSaver(path string, opts ...Option) (*Saver, error) {
	o := buildOptions(opts)
	if o.atomic && o.append {
		return nil, invalidArg("atomic saver cannot append to %s", path)
	}

	target := path
	flags := os.O_CREATE | os.O_WRONLY
	switch {
	case o.atomic:
		target = filepath.Join(filepath.Dir(path), "."+filepath.Base(path)+"."+uuid.NewString()+".tmp")
		flags |= os.O_EXCL
	case o.append:
		flags |= os.O_APPEND
	default:
		flags |= os.O_TRUNC
	}
	//nolint:gosec // G304: writing a user-supplied model path is the point
	f, err := os.OpenFile(target, flags, 0o644)
	if err != nil {
		return nil, fmt.Errorf("%w: could not write model to %s: %w", ErrIO, path, err)
	}
	s := &Saver{
		w:   bufio.NewWriterSize(f, streamBufSize),
		f:   f,
		log: o.log.With("path", path),
	}
	if o.atomic {
		s.path, s.tmp = path, target
	}
	return s, nil
}

// NewStreamSaver writes records to w. Close flushes but does not close w.
func NewStreamSaver(w io.Writer, opts ...Option) *Saver {
	o := buildOptions(opts)
	return &Saver{
		w:   bufio.NewWriterSize(w, streamBufSize),
		log: o.log,
	}
}

// SaveModel writes one record per parameter and then one per lookup
// parameter, each set in the model's stored order.
//
// With an empty key every record uses the entity's full name. Otherwise key
// must be rooted at '/', and the model's own namespace is replaced by key:
// saving "/enc_0/W_0" from model "/enc_0/" under key "/encoder" produces
// "/encoder/W_0".
func (s *Saver) SaveModel(m Model, key string) error {
	if !ValidNamespacedKey(key) || (key != "" && !headerKey(key)) {
		return invalidArg("key should start with '/' and could not include whitespace or '#': %q", key)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkOpen(); err != nil {
		return err
	}

	ns := m.FullName()
	prefix := normalizePrefix(key)
	recordKey := func(name string) (string, error) {
		if key == "" {
			return "", nil
		}
		if !strings.HasPrefix(name, ns) {
			return "", invalidArg("entity %s is outside model namespace %s", name, ns)
		}
		return prefix + name[len(ns):], nil
	}

	params, lookups := m.Parameters(), m.LookupParameters()
	for _, p := range params {
		k, err := recordKey(p.Name())
		if err != nil {
			return err
		}
		if err := s.writeEntity(TagParameter, p, k); err != nil {
			return err
		}
	}
	for _, p := range lookups {
		k, err := recordKey(p.Name())
		if err != nil {
			return err
		}
		if err := s.writeEntity(TagLookupParameter, p, k); err != nil {
			return err
		}
	}
	if err := s.flush(); err != nil {
		return err
	}
	s.log.Debug("saved model", "namespace", ns, "key", key, "parameters", len(params), "lookup_parameters", len(lookups))
	return nil
}

// SaveParameter writes a single parameter record. An empty key uses the
// parameter's own name.
func (s *Saver) SaveParameter(p Parameter, key string) error {
	return s.saveOne(TagParameter, p, key)
}

// SaveLookupParameter writes a single lookup parameter record. An empty key
// uses the lookup parameter's own name.
func (s *Saver) SaveLookupParameter(p LookupParameter, key string) error {
	return s.saveOne(TagLookupParameter, p, key)
}

func (s *Saver) saveOne(tag Tag, t Tensor, key string) error {
	if !ValidKey(key) {
		return invalidArg("key could not include ' ' or '#': %q", key)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkOpen(); err != nil {
		return err
	}
	if err := s.writeEntity(tag, t, key); err != nil {
		return err
	}
	return s.flush()
}

func (s *Saver) writeEntity(tag Tag, t Tensor, key string) error {
	if key == "" {
		key = t.Name()
	}
	if !headerKey(key) {
		return invalidArg("record key %q is empty or contains whitespace or '#'", key)
	}

	shape := t.Shape()
	if err := shape.Validate(); err != nil {
		return invalidArg("%s: %v", key, err)
	}
	values, grads := t.Values(), t.Gradients()
	if n := shape.NumElements(); len(values) != n || len(grads) != n {
		return invalidArg("%s: shape %s holds %d elements but storage has %d values and %d gradients",
			key, shape, n, len(values), len(grads))
	}

	payload, n := EncodePayload(values, grads)
	return s.writeRecord(Header{Tag: tag, Key: key, Shape: shape, PayloadLen: n}, payload)
}

// writeRecord emits a header followed by a payload of exactly h.PayloadLen
// bytes. Callers hold s.mu.
func (s *Saver) writeRecord(h Header, payload []byte) error {
	if int64(len(payload)) != h.PayloadLen {
		return fmt.Errorf("pcf: payload of %s is %d bytes, header declares %d", h.Key, len(payload), h.PayloadLen)
	}
	if _, err := s.w.WriteString(EncodeHeader(h)); err != nil {
		return fmt.Errorf("%w: write header of %s: %w", ErrIO, h.Key, err)
	}
	if _, err := s.w.Write(payload); err != nil {
		return fmt.Errorf("%w: write payload of %s: %w", ErrIO, h.Key, err)
	}
	s.log.Debug("wrote record", "tag", string(h.Tag), "key", h.Key, "shape", h.Shape.String(), "bytes", h.PayloadLen)
	return nil
}

// Flush writes any buffered records to the underlying stream.
func (s *Saver) Flush() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkOpen(); err != nil {
		return err
	}
	return s.flush()
}

func (s *Saver) flush() error {
	if err := s.w.Flush(); err != nil {
		return fmt.Errorf("%w: %w", ErrIO, err)
	}
	return nil
}

// Close flushes and, for savers created by NewSaver, closes the file.
// An atomic saver then renames its temporary file over the target, or
// removes it if anything failed.
func (s *Saver) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	return s.close()
}

func (s *Saver) close() error {
	s.closed = true

	err := s.flush()
	if s.f == nil {
		return err
	}
	if s.tmp != "" && err == nil {
		if serr := s.f.Sync(); serr != nil {
			err = fmt.Errorf("%w: %w", ErrIO, serr)
		}
	}
	if cerr := s.f.Close(); cerr != nil {
		err = errors.Join(err, fmt.Errorf("%w: %w", ErrIO, cerr))
	}
	if s.tmp == "" {
		return err
	}
	if err != nil {
		_ = os.Remove(s.tmp)
		return err
	}
	if rerr := os.Rename(s.tmp, s.path); rerr != nil {
		_ = os.Remove(s.tmp)
		return fmt.Errorf("%w: could not write model to %s: %w", ErrIO, s.path, rerr)
	}
	s.log.Debug("replaced file", "tmp", s.tmp)
	return nil
}

// Abort closes the saver without publishing an atomic saver's records; its
// temporary file is removed. For other savers Abort is the same as Close.
func (s *Saver) Abort() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	if s.tmp == "" {
		return s.close()
	}
	s.closed = true
	err := s.f.Close()
	if rerr := os.Remove(s.tmp); rerr != nil && err == nil {
		err = rerr
	}
	if err != nil {
		return fmt.Errorf("%w: %w", ErrIO, err)
	}
	return nil
}

func (s *Saver) checkOpen() error {
	if s.closed {
		return fmt.Errorf("%w: saver is closed", ErrIO)
	}
	return nil
}
