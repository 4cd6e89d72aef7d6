package model

import (
	"fmt"

	"github.com/samcharles93/pcf/internal/tensor"
	"github.com/samcharles93/pcf/pkg/pcf"
)

// Parameter is a dense trainable tensor with a gradient of the same shape.
type Parameter struct {
	name  string
	value tensor.Dense
	grad  tensor.Dense
}

func newParameter(name string, shape pcf.Shape) (*Parameter, error) {
	v, err := tensor.NewDense(shape)
	if err != nil {
		return nil, err
	}
	g, err := tensor.NewDense(shape)
	if err != nil {
		return nil, err
	}
	return &Parameter{name: name, value: v, grad: g}, nil
}

func (p *Parameter) Name() string            { return p.name }
func (p *Parameter) SetName(name string)     { p.name = name }
func (p *Parameter) Shape() pcf.Shape        { return p.value.Shape }
func (p *Parameter) Values() []float32       { return p.value.Data }
func (p *Parameter) Gradients() []float32    { return p.grad.Data }
func (p *Parameter) Value() *tensor.Dense    { return &p.value }
func (p *Parameter) Gradient() *tensor.Dense { return &p.grad }

func (p *Parameter) SetValues(v []float32) error {
	if err := p.value.CopyFrom(v); err != nil {
		return fmt.Errorf("%s values: %w", p.name, err)
	}
	return nil
}

func (p *Parameter) SetGradients(g []float32) error {
	if err := p.grad.CopyFrom(g); err != nil {
		return fmt.Errorf("%s gradients: %w", p.name, err)
	}
	return nil
}

// LookupParameter is a table of rows, each of shape RowShape. The stored
// shape is RowShape with the row count appended.
type LookupParameter struct {
	Parameter
	rows     int
	rowShape pcf.Shape
}

func newLookupParameter(name string, rows int, rowShape pcf.Shape) (*LookupParameter, error) {
	if rows <= 0 {
		return nil, fmt.Errorf("lookup parameter %s: row count must be > 0, got %d", name, rows)
	}
	p, err := newParameter(name, rowShape.Append(rows))
	if err != nil {
		return nil, fmt.Errorf("lookup parameter %s: %w", name, err)
	}
	return &LookupParameter{Parameter: *p, rows: rows, rowShape: rowShape.Clone()}, nil
}

func (l *LookupParameter) Rows() int           { return l.rows }
func (l *LookupParameter) RowShape() pcf.Shape { return l.rowShape }

// Row returns a view of the value of row i.
func (l *LookupParameter) Row(i int) []float32 { return l.value.Row(i) }

// GradientRow returns a view of the gradient of row i.
func (l *LookupParameter) GradientRow(i int) []float32 { return l.grad.Row(i) }
