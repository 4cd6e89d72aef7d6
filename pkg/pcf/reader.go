package pcf

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/samcharles93/pcf/internal/logger"
)

// Loader reads records from a PCF source.
//
// Every operation opens the source afresh and scans from its first byte.
// Records that are not wanted are skipped using their declared payload
// length, so their numeric text is never parsed.
type Loader struct {
	src Source
	log logger.Logger

	mu sync.Mutex
}

// NewLoader returns a loader for the file at path. The file is not opened
// until the first operation.
func NewLoader(path string, opts ...Option) *Loader {
	o := buildOptions(opts)
	src := FileSource(path)
	if o.mmap {
		src = MappedSource(path)
	}
	return &Loader{src: src, log: o.log.With("path", path)}
}

// NewSourceLoader returns a loader reading from src.
func NewSourceLoader(src Source, opts ...Option) *Loader {
	o := buildOptions(opts)
	return &Loader{src: src, log: o.log.With("source", src.Name())}
}

// visitFunc handles one record. It returns consumed=true if it read the
// payload itself, and stop=true to end the scan early.
type visitFunc func(s Stream, h Header, off int64) (consumed, stop bool, err error)

func (l *Loader) scan(visit visitFunc) (err error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	rs, err := l.src.Open()
	if err != nil {
		return err
	}
	defer func() {
		if cerr := rs.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("%w: %w", ErrIO, cerr)
		}
	}()

	for {
		off := rs.Offset()
		line, err := rs.ReadLine()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		h, err := decodeHeader(line, off)
		if err != nil {
			return err
		}

		consumed, stop, err := visit(rs, h, off)
		if err != nil {
			return err
		}
		if stop {
			return nil
		}
		if !consumed {
			if err := SkipPayload(rs, h); err != nil {
				return err
			}
			l.log.Debug("skipped record", "key", h.Key, "bytes", h.PayloadLen)
		}
	}
}

// PopulateModel overwrites the values and gradients of every entity in m
// from the records whose key falls under key ("" matches all records).
//
// Matching is positional: the n-th matching #Parameter# record fills the
// n-th entry of m.Parameters(), and likewise for lookup parameters. Shapes
// must match exactly, and the number of matching records of each kind must
// equal the number of entities in the model.
func (l *Loader) PopulateModel(m Model, key string) error {
	if strings.ContainsAny(key, " #") {
		return invalidArg("key could not include ' ' or '#': %q", key)
	}
	prefix := normalizePrefix(key)
	params, lookups := m.Parameters(), m.LookupParameters()
	var np, nl int

	err := l.scan(func(s Stream, h Header, off int64) (bool, bool, error) {
		if !matchPrefix(h.Key, prefix) {
			return false, false, nil
		}
		var target Tensor
		switch h.Tag {
		case TagParameter:
			if np >= len(params) {
				return false, false, &CountMismatchError{
					Parameters: np + 1, LookupParameters: nl,
					WantParameters: len(params), WantLookupParameters: len(lookups),
				}
			}
			target = params[np]
			np++
		case TagLookupParameter:
			if nl >= len(lookups) {
				return false, false, &CountMismatchError{
					Parameters: np, LookupParameters: nl + 1,
					WantParameters: len(params), WantLookupParameters: len(lookups),
				}
			}
			target = lookups[nl]
			nl++
		default:
			return false, false, &RecordError{Offset: off, Line: string(h.Tag), Reason: "bad parameter specification"}
		}
		return true, false, l.populate(s, h, target)
	})
	if err != nil {
		return err
	}
	if np != len(params) || nl != len(lookups) {
		return &CountMismatchError{
			Parameters: np, LookupParameters: nl,
			WantParameters: len(params), WantLookupParameters: len(lookups),
		}
	}
	l.log.Debug("populated model", "namespace", m.FullName(), "key", key, "parameters", np, "lookup_parameters", nl)
	return nil
}

// PopulateParameter fills p from the #Parameter# record named key.
func (l *Loader) PopulateParameter(p Parameter, key string) error {
	if key == "" {
		return invalidArg("PopulateParameter requires non-empty key")
	}
	return l.populateOne(TagParameter, p, key)
}

// PopulateLookupParameter fills p from the #LookupParameter# record named key.
func (l *Loader) PopulateLookupParameter(p LookupParameter, key string) error {
	if key == "" {
		return invalidArg("PopulateLookupParameter requires non-empty key")
	}
	return l.populateOne(TagLookupParameter, p, key)
}

func (l *Loader) populateOne(tag Tag, t Tensor, key string) error {
	found := false
	err := l.scan(func(s Stream, h Header, _ int64) (bool, bool, error) {
		if h.Tag != tag || h.Key != key {
			return false, false, nil
		}
		found = true
		return true, true, l.populate(s, h, t)
	})
	if err != nil {
		return err
	}
	if !found {
		return notFound(key)
	}
	return nil
}

// populate decodes the payload of h into t. t is only touched once the
// whole payload has parsed.
func (l *Loader) populate(s Stream, h Header, t Tensor) error {
	if want := t.Shape(); !h.Shape.Equal(want) {
		return &ShapeMismatchError{Key: h.Key, Want: want, Got: h.Shape}
	}
	values, grads, err := DecodePayload(s, h)
	if err != nil {
		return err
	}
	if err := fill(t, h.Key, values, grads); err != nil {
		return err
	}
	l.log.Debug("populated record", "tag", string(h.Tag), "key", h.Key, "shape", h.Shape.String())
	return nil
}

func fill(t Tensor, key string, values, grads []float32) error {
	if err := t.SetValues(values); err != nil {
		return fmt.Errorf("pcf: set values of %s: %w", key, err)
	}
	if err := t.SetGradients(grads); err != nil {
		return fmt.Errorf("pcf: set gradients of %s: %w", key, err)
	}
	return nil
}

// LoadParameter creates a new parameter in m from the #Parameter# record
// named key. The new parameter takes key as its name.
func (l *Loader) LoadParameter(m Model, key string) (Parameter, error) {
	if key == "" {
		return nil, invalidArg("LoadParameter requires non-empty key")
	}
	var out Parameter
	err := l.scan(func(s Stream, h Header, _ int64) (bool, bool, error) {
		if h.Tag != TagParameter || h.Key != key {
			return false, false, nil
		}
		values, grads, err := DecodePayload(s, h)
		if err != nil {
			return true, true, err
		}
		p, err := m.AddParameters(h.Shape.Clone())
		if err != nil {
			return true, true, fmt.Errorf("pcf: allocate parameter %s %s: %w", key, h.Shape, err)
		}
		if err := l.adopt(p, h, values, grads); err != nil {
			return true, true, err
		}
		out = p
		return true, true, nil
	})
	if err != nil {
		return nil, err
	}
	if out == nil {
		return nil, notFound(key)
	}
	return out, nil
}

// LoadLookupParameter creates a new lookup parameter in m from the
// #LookupParameter# record named key. The trailing dimension of the record
// shape is the row count; the rest is the shape of one row.
func (l *Loader) LoadLookupParameter(m Model, key string) (LookupParameter, error) {
	if key == "" {
		return nil, invalidArg("LoadLookupParameter requires non-empty key")
	}
	var out LookupParameter
	err := l.scan(func(s Stream, h Header, off int64) (bool, bool, error) {
		if h.Tag != TagLookupParameter || h.Key != key {
			return false, false, nil
		}
		rowShape, rows, err := h.Shape.SplitLast()
		if err != nil {
			return false, true, &RecordError{Offset: off, Line: h.Key, Reason: err.Error()}
		}
		values, grads, err := DecodePayload(s, h)
		if err != nil {
			return true, true, err
		}
		p, err := m.AddLookupParameters(rows, rowShape)
		if err != nil {
			return true, true, fmt.Errorf("pcf: allocate lookup parameter %s %d x %s: %w", key, rows, rowShape, err)
		}
		if err := l.adopt(p, h, values, grads); err != nil {
			return true, true, err
		}
		out = p
		return true, true, nil
	})
	if err != nil {
		return nil, err
	}
	if out == nil {
		return nil, notFound(key)
	}
	return out, nil
}

func (l *Loader) adopt(t Tensor, h Header, values, grads []float32) error {
	if got := t.Shape(); !got.Equal(h.Shape) {
		return &ShapeMismatchError{Key: h.Key, Want: got, Got: h.Shape}
	}
	t.SetName(h.Key)
	if err := fill(t, h.Key, values, grads); err != nil {
		return err
	}
	l.log.Debug("loaded record", "tag", string(h.Tag), "key", h.Key, "shape", h.Shape.String())
	return nil
}

// Scan calls fn with every record header in file order. Payloads are
// skipped. Returning an error from fn stops the scan and returns it.
func (l *Loader) Scan(fn func(Header) error) error {
	return l.scan(func(_ Stream, h Header, _ int64) (bool, bool, error) {
		return false, false, fn(h)
	})
}

// Records returns every record header in file order.
func (l *Loader) Records() ([]Header, error) {
	var out []Header
	err := l.Scan(func(h Header) error {
		out = append(out, h)
		return nil
	})
	return out, err
}

// Summary describes the contents of a verified file.
type Summary struct {
	Parameters       int   `json:"parameters"`
	LookupParameters int   `json:"lookup_parameters"`
	Elements         int64 `json:"elements"`
	PayloadBytes     int64 `json:"payload_bytes"`
}

// Verify decodes every record in the file and checks its tag, shape and
// payload. It stops at the first malformed record.
func (l *Loader) Verify() (Summary, error) {
	var sum Summary
	err := l.scan(func(s Stream, h Header, off int64) (bool, bool, error) {
		switch h.Tag {
		case TagParameter:
			sum.Parameters++
		case TagLookupParameter:
			if _, _, err := h.Shape.SplitLast(); err != nil {
				return false, true, &RecordError{Offset: off, Line: h.Key, Reason: err.Error()}
			}
			sum.LookupParameters++
		default:
			return false, true, &RecordError{Offset: off, Line: string(h.Tag), Reason: "bad parameter specification"}
		}
		if _, _, err := DecodePayload(s, h); err != nil {
			return true, true, err
		}
		sum.Elements += int64(h.Shape.NumElements())
		sum.PayloadBytes += h.PayloadLen
		return true, false, nil
	})
	return sum, err
}

// Extract copies the records whose key falls under prefix to dst and returns
// how many were copied. If key is non-empty, prefix is replaced by key in
// the copied record keys, the same way SaveModel rewrites a model namespace.
// Payload bytes are copied verbatim.
func (l *Loader) Extract(dst *Saver, prefix, key string) (int, error) {
	if !ValidNamespacedKey(prefix) {
		return 0, invalidArg("prefix should start with '/' and could not include ' ' or '#': %q", prefix)
	}
	if !ValidNamespacedKey(key) || (key != "" && !headerKey(key)) {
		return 0, invalidArg("key should start with '/' and could not include whitespace or '#': %q", key)
	}
	from := normalizePrefix(prefix)
	to := normalizePrefix(key)
	rewrite := func(k string) string {
		if from == "" {
			return to + strings.TrimPrefix(k, "/")
		}
		return to + k[len(from):]
	}

	dst.mu.Lock()
	defer dst.mu.Unlock()
	if err := dst.checkOpen(); err != nil {
		return 0, err
	}

	n := 0
	err := l.scan(func(s Stream, h Header, _ int64) (bool, bool, error) {
		if !matchPrefix(h.Key, from) {
			return false, false, nil
		}
		payload, err := s.ReadExact(h.PayloadLen)
		if err != nil {
			return true, true, err
		}
		out := h
		if key != "" {
			out.Key = rewrite(h.Key)
		}
		if !headerKey(out.Key) {
			return true, true, invalidArg("rewritten key %q is not valid", out.Key)
		}
		if err := dst.writeRecord(out, payload); err != nil {
			return true, true, err
		}
		n++
		return true, false, nil
	})
	if err != nil {
		return n, err
	}
	if err := dst.flush(); err != nil {
		return n, err
	}
	l.log.Debug("extracted records", "prefix", prefix, "key", key, "records", n)
	return n, nil
}
