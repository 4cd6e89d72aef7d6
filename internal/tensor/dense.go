package tensor

import (
	"fmt"
	"math/rand"

	"github.com/samcharles93/pcf/pkg/pcf"
)

// Dense is a flat row-major float32 buffer with a shape.
//
// When a Dense backs a lookup table, the trailing dimension counts rows and
// Row(i) returns the i-th block of RowSize() values.
type Dense struct {
	Shape pcf.Shape
	Data  []float32
}

// NewDense allocates a zero-filled tensor of the given shape.
func NewDense(shape pcf.Shape) (Dense, error) {
	if err := shape.Validate(); err != nil {
		return Dense{}, err
	}
	return Dense{Shape: shape.Clone(), Data: make([]float32, shape.NumElements())}, nil
}

// NewDenseFromData wraps data, which must hold exactly shape.NumElements()
// values. The slice is not copied.
func NewDenseFromData(shape pcf.Shape, data []float32) (Dense, error) {
	if err := shape.Validate(); err != nil {
		return Dense{}, err
	}
	if n := shape.NumElements(); n != len(data) {
		return Dense{}, fmt.Errorf("data length %d does not match shape %s (%d elements)", len(data), shape, n)
	}
	return Dense{Shape: shape.Clone(), Data: data}, nil
}

// Len returns the number of elements.
func (d *Dense) Len() int { return len(d.Data) }

// RowSize is the number of elements per row, i.e. the product of all but
// the trailing dimension.
func (d *Dense) RowSize() int {
	if len(d.Shape) == 0 {
		return 1
	}
	return pcf.Shape(d.Shape[:len(d.Shape)-1]).NumElements()
}

// Row returns a view of the i-th row. Writes through the view update d.
func (d *Dense) Row(i int) []float32 {
	n := d.RowSize()
	if i < 0 || (i+1)*n > len(d.Data) {
		panic("row index out of range")
	}
	return d.Data[i*n : (i+1)*n]
}

// CopyFrom overwrites every element of d with src.
func (d *Dense) CopyFrom(src []float32) error {
	if len(src) != len(d.Data) {
		return fmt.Errorf("cannot copy %d values into tensor of shape %s (%d elements)", len(src), d.Shape, len(d.Data))
	}
	copy(d.Data, src)
	return nil
}

// FillRand fills d with reproducible pseudo-random values in (-0.01, 0.01).
// The same seed always produces the same values.
func FillRand(d *Dense, seed int64) {
	rng := rand.New(rand.NewSource(seed))
	for i := range d.Data {
		d.Data[i] = (rng.Float32() - 0.5) * 0.02
	}
}
