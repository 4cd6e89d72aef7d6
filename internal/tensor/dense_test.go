package tensor

import (
	"testing"

	"github.com/samcharles93/pcf/pkg/pcf"
)

func TestNewDense(t *testing.T) {
	t.Parallel()

	d, err := NewDense(pcf.Shape{3, 4})
	if err != nil {
		t.Fatalf("new dense: %v", err)
	}
	if d.Len() != 12 {
		t.Fatalf("len mismatch: got %d want 12", d.Len())
	}
	if _, err := NewDense(pcf.Shape{3, 0}); err == nil {
		t.Fatalf("expected error for zero dimension")
	}
}

func TestNewDenseFromDataLength(t *testing.T) {
	t.Parallel()

	if _, err := NewDenseFromData(pcf.Shape{2}, []float32{1, 2, 3}); err == nil {
		t.Fatalf("expected length mismatch error")
	}
	d, err := NewDenseFromData(pcf.Shape{3}, []float32{1, 2, 3})
	if err != nil {
		t.Fatalf("new dense from data: %v", err)
	}
	if d.Data[2] != 3 {
		t.Fatalf("data not wrapped: %v", d.Data)
	}
}

func TestRowView(t *testing.T) {
	t.Parallel()

	// Two rows of shape {3}; the trailing dimension counts rows.
	d, err := NewDenseFromData(pcf.Shape{3, 2}, []float32{1, 2, 3, 4, 5, 6})
	if err != nil {
		t.Fatalf("new dense from data: %v", err)
	}
	if d.RowSize() != 3 {
		t.Fatalf("row size: got %d want 3", d.RowSize())
	}
	row := d.Row(1)
	if len(row) != 3 || row[0] != 4 || row[2] != 6 {
		t.Fatalf("row 1 mismatch: %v", row)
	}
	row[0] = 40
	if d.Data[3] != 40 {
		t.Fatalf("row view did not write through")
	}

	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic for out of range row")
		}
	}()
	d.Row(2)
}

func TestCopyFrom(t *testing.T) {
	t.Parallel()

	d, _ := NewDense(pcf.Shape{2})
	if err := d.CopyFrom([]float32{1}); err == nil {
		t.Fatalf("expected error for short source")
	}
	if err := d.CopyFrom([]float32{7, 8}); err != nil {
		t.Fatalf("copy: %v", err)
	}
	if d.Data[0] != 7 || d.Data[1] != 8 {
		t.Fatalf("copy mismatch: %v", d.Data)
	}
}

func TestFillRandDeterministic(t *testing.T) {
	t.Parallel()

	a, _ := NewDense(pcf.Shape{4, 4})
	b, _ := NewDense(pcf.Shape{4, 4})
	FillRand(&a, 7)
	FillRand(&b, 7)
	for i := range a.Data {
		if a.Data[i] != b.Data[i] {
			t.Fatalf("value %d differs: %v vs %v", i, a.Data[i], b.Data[i])
		}
		if a.Data[i] <= -0.01 || a.Data[i] >= 0.01 {
			t.Fatalf("value %d out of range: %v", i, a.Data[i])
		}
	}
}
