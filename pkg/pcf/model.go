package pcf

// Tensor is the storage a record is read from or written into.
//
// Values and Gradients expose the flattened arrays; SetValues and
// SetGradients overwrite them in place from a slice of matching length.
type Tensor interface {
	Name() string
	SetName(name string)
	Shape() Shape
	Values() []float32
	Gradients() []float32
	SetValues(v []float32) error
	SetGradients(g []float32) error
}

// Parameter is a dense tensor.
type Parameter interface {
	Tensor
}

// LookupParameter is a table of equally shaped rows. Its Shape is RowShape
// with Rows appended, which is also the shape written to disk.
type LookupParameter interface {
	Tensor
	Rows() int
	RowShape() Shape
}

// Model is the namespace that owns parameters. The loader and saver only
// borrow entities for the duration of a call.
type Model interface {
	// FullName is the namespace path of the model, e.g. "/" or "/enc_0/".
	FullName() string
	// Parameters and LookupParameters enumerate entities in stored order.
	Parameters() []Parameter
	LookupParameters() []LookupParameter
	// AddParameters allocates a new parameter of the given shape.
	AddParameters(shape Shape) (Parameter, error)
	// AddLookupParameters allocates a table of rows entries of rowShape.
	AddLookupParameters(rows int, rowShape Shape) (LookupParameter, error)
}
