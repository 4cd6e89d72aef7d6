package pcf

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Shape represents the dimensions of a tensor.
type Shape []int

// NumElements returns the total number of elements.
func (s Shape) NumElements() int {
	n := 1
	for _, d := range s {
		n *= d
	}
	return n
}

// Validate checks that every dimension is positive and that the element
// count fits in an int.
func (s Shape) Validate() error {
	n := 1
	for i, d := range s {
		if d <= 0 {
			return fmt.Errorf("invalid dimension at index %d: %d (must be > 0)", i, d)
		}
		if n > math.MaxInt/d {
			return fmt.Errorf("shape %s: element count overflows int", s)
		}
		n *= d
	}
	return nil
}

// Equal reports whether two shapes match dimension-wise.
func (s Shape) Equal(other Shape) bool {
	if len(s) != len(other) {
		return false
	}
	for i := range s {
		if s[i] != other[i] {
			return false
		}
	}
	return true
}

// Clone returns a copy of the shape.
func (s Shape) Clone() Shape {
	out := make(Shape, len(s))
	copy(out, s)
	return out
}

// Append returns a copy of s with n added as the trailing dimension.
// Lookup parameters use it to build their serialized shape from the
// per-row shape and the row count.
func (s Shape) Append(n int) Shape {
	out := make(Shape, len(s), len(s)+1)
	copy(out, s)
	return append(out, n)
}

// SplitLast splits off the trailing dimension, which for lookup parameters
// holds the row count. It is the inverse of Append.
func (s Shape) SplitLast() (Shape, int, error) {
	if len(s) == 0 {
		return nil, 0, errors.New("cannot split empty shape")
	}
	last := len(s) - 1
	return s[:last].Clone(), s[last], nil
}

// String renders the shape as {d0,d1,...}.
func (s Shape) String() string {
	var b strings.Builder
	b.WriteByte('{')
	for i, d := range s {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.Itoa(d))
	}
	b.WriteByte('}')
	return b.String()
}

// ParseShape parses the {d0,d1,...} form produced by Shape.String.
func ParseShape(text string) (Shape, error) {
	if len(text) < 2 || text[0] != '{' || text[len(text)-1] != '}' {
		return nil, fmt.Errorf("shape %q: expected {d0,d1,...}", text)
	}
	body := text[1 : len(text)-1]
	if body == "" {
		return Shape{}, nil
	}
	parts := strings.Split(body, ",")
	out := make(Shape, len(parts))
	for i, p := range parts {
		d, err := strconv.Atoi(p)
		if err != nil {
			return nil, fmt.Errorf("shape %q: dimension %d: %w", text, i, err)
		}
		out[i] = d
	}
	if err := out.Validate(); err != nil {
		return nil, fmt.Errorf("shape %q: %w", text, err)
	}
	return out, nil
}
