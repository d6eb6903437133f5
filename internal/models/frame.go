package models

import (
	"fmt"
)

// ColumnKind identifies the storage type of a Frame column
type ColumnKind int

const (
	// TextKind columns hold raw cell text; an empty string is a missing value.
	TextKind ColumnKind = iota
	// FloatKind columns hold coerced numeric values with no missing entries.
	FloatKind
)

// Column is a single named column of a Frame. Exactly one of Text or
// Floats is populated, according to Kind.
type Column struct {
	Name   string
	Kind   ColumnKind
	Text   []string
	Floats []float64
}

// Len returns the number of cells in the column
func (c *Column) Len() int {
	if c.Kind == FloatKind {
		return len(c.Floats)
	}
	return len(c.Text)
}

// Frame is a column-oriented table with ordered, named columns.
// Row-shaping operations (Drop, Filter) return a new Frame; the
// receiver is never mutated by them.
type Frame struct {
	order []string
	cols  map[string]*Column
	rows  int
}

// NewFrame creates an empty frame
func NewFrame() *Frame {
	return &Frame{cols: make(map[string]*Column)}
}

// Rows returns the number of rows in the frame
func (f *Frame) Rows() int {
	return f.rows
}

// Columns returns the column names in order
func (f *Frame) Columns() []string {
	out := make([]string, len(f.order))
	copy(out, f.order)
	return out
}

// Has reports whether a column with the given name exists
func (f *Frame) Has(name string) bool {
	_, ok := f.cols[name]
	return ok
}

// Column returns the named column, or nil if it does not exist
func (f *Frame) Column(name string) *Column {
	return f.cols[name]
}

// AddTextColumn appends a text column. All columns of a frame must
// have the same length.
func (f *Frame) AddTextColumn(name string, values []string) error {
	return f.add(&Column{Name: name, Kind: TextKind, Text: values})
}

// AddFloatColumn appends a float column
func (f *Frame) AddFloatColumn(name string, values []float64) error {
	return f.add(&Column{Name: name, Kind: FloatKind, Floats: values})
}

func (f *Frame) add(col *Column) error {
	if _, ok := f.cols[col.Name]; ok {
		return fmt.Errorf("duplicate column %q", col.Name)
	}
	if len(f.order) > 0 && col.Len() != f.rows {
		return fmt.Errorf("column %q has %d values, frame has %d rows", col.Name, col.Len(), f.rows)
	}
	f.cols[col.Name] = col
	f.order = append(f.order, col.Name)
	f.rows = col.Len()
	return nil
}

// SetFloatColumn replaces an existing column with a float column of the
// same name, preserving its position.
func (f *Frame) SetFloatColumn(name string, values []float64) error {
	if _, ok := f.cols[name]; !ok {
		return fmt.Errorf("no such column %q", name)
	}
	if len(values) != f.rows {
		return fmt.Errorf("column %q has %d values, frame has %d rows", name, len(values), f.rows)
	}
	f.cols[name] = &Column{Name: name, Kind: FloatKind, Floats: values}
	return nil
}

// Drop returns a new frame without the named columns. Names that do
// not exist are ignored.
func (f *Frame) Drop(names ...string) *Frame {
	dropped := make(map[string]bool, len(names))
	for _, n := range names {
		dropped[n] = true
	}

	out := NewFrame()
	out.rows = f.rows
	for _, name := range f.order {
		if dropped[name] {
			continue
		}
		out.cols[name] = f.cols[name]
		out.order = append(out.order, name)
	}
	if len(out.order) == 0 {
		out.rows = 0
	}
	return out
}

// Filter returns a new frame containing only the rows where keep is
// true. keep must have one entry per row.
func (f *Frame) Filter(keep []bool) (*Frame, error) {
	if len(keep) != f.rows {
		return nil, fmt.Errorf("keep mask has %d entries, frame has %d rows", len(keep), f.rows)
	}

	n := 0
	for _, k := range keep {
		if k {
			n++
		}
	}

	out := NewFrame()
	for _, name := range f.order {
		col := f.cols[name]
		next := &Column{Name: name, Kind: col.Kind}
		switch col.Kind {
		case TextKind:
			next.Text = make([]string, 0, n)
			for i, k := range keep {
				if k {
					next.Text = append(next.Text, col.Text[i])
				}
			}
		case FloatKind:
			next.Floats = make([]float64, 0, n)
			for i, k := range keep {
				if k {
					next.Floats = append(next.Floats, col.Floats[i])
				}
			}
		}
		out.cols[name] = next
		out.order = append(out.order, name)
	}
	out.rows = n
	return out, nil
}

// AggregateRow is one (device, year-month, sensor) summary produced by
// the aggregation stage.
type AggregateRow struct {
	Device      string
	AnoMes      string
	Sensor      string
	ValorMaximo float64
	ValorMedio  float64
	ValorMinimo float64
}
