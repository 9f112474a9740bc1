package htable

import (
	"fmt"
	"strconv"
)

// BodyRow represents one renderable row of the possibly hierarchical
// data set. Rows are immutable after construction: a pipeline stage
// that needs to change a row must replace it with a clone, never
// mutate it in place.
type BodyRow[T any] struct {
	// ID is stable for the lifetime of a derivation cycle.
	// Sub-row ids are dotted paths below their parent's id.
	ID string
	// Item is the original source item.
	Item T
	// CellForID maps every column id to its cell,
	// regardless of column visibility.
	CellForID map[ColumnID]BodyCell[T]
	// Cells holds the currently visible cells in column order.
	// Its ids are always a subset of CellForID's keys.
	Cells []BodyCell[T]
	// SubRows holds child rows for hierarchical data, or nil.
	SubRows []*BodyRow[T]
}

// WithSubRows returns a shallow clone of the row
// with only SubRows replaced.
func (r *BodyRow[T]) WithSubRows(subRows []*BodyRow[T]) *BodyRow[T] {
	clone := new(BodyRow[T])
	*clone = *r
	clone.SubRows = subRows
	return clone
}

// BodyCell is a cell of a body row, either a DataBodyCell bound to a
// column value or a value-less DisplayBodyCell placeholder.
type BodyCell[T any] interface {
	// Row returns the row the cell was created for.
	Row() *BodyRow[T]
	// Column returns the id of the column the cell belongs to.
	Column() ColumnID
	// Key returns the composite row+column key, unique per
	// (row, column) pair within one derivation cycle.
	Key() string
	// HasValue reports whether the cell carries a data value.
	HasValue() bool
	// Value returns the extracted value, or nil for placeholder cells.
	Value() any
}

// DataBodyCell is a leaf cell bound to one column of one row.
type DataBodyCell[T any] struct {
	row    *BodyRow[T]
	column ColumnID
	value  any
}

func (c *DataBodyCell[T]) Row() *BodyRow[T] { return c.row }
func (c *DataBodyCell[T]) Column() ColumnID { return c.column }
func (c *DataBodyCell[T]) HasValue() bool   { return true }
func (c *DataBodyCell[T]) Value() any       { return c.value }

// Key returns the row id joined with the column id.
func (c *DataBodyCell[T]) Key() string {
	return c.row.ID + ":" + string(c.column)
}

// ValueString returns the cell value formatted as text.
func (c *DataBodyCell[T]) ValueString() string {
	return fmt.Sprint(c.value)
}

// DisplayBodyCell is a placeholder cell of a display-only column.
// It carries no value and never participates in filtering.
type DisplayBodyCell[T any] struct {
	row    *BodyRow[T]
	column ColumnID
}

func (c *DisplayBodyCell[T]) Row() *BodyRow[T] { return c.row }
func (c *DisplayBodyCell[T]) Column() ColumnID { return c.column }
func (c *DisplayBodyCell[T]) HasValue() bool   { return false }
func (c *DisplayBodyCell[T]) Value() any       { return nil }

func (c *DisplayBodyCell[T]) Key() string {
	return c.row.ID + ":" + string(c.column)
}

// buildRows creates one BodyRow per item, recursing into sub-items.
// Hidden columns get cells in CellForID but not in Cells.
func buildRows[T any](columns []Column[T], hidden map[ColumnID]bool, items []T, subRows func(T) []T, parentID string) []*BodyRow[T] {
	rows := make([]*BodyRow[T], len(items))
	for i, item := range items {
		id := strconv.Itoa(i)
		if parentID != "" {
			id = parentID + "." + id
		}
		row := &BodyRow[T]{
			ID:        id,
			Item:      item,
			CellForID: make(map[ColumnID]BodyCell[T], len(columns)),
		}
		for c := range columns {
			col := &columns[c]
			var cell BodyCell[T]
			if col.Value != nil {
				cell = &DataBodyCell[T]{row: row, column: col.ID, value: col.Value(item)}
			} else {
				cell = &DisplayBodyCell[T]{row: row, column: col.ID}
			}
			row.CellForID[col.ID] = cell
			if !hidden[col.ID] {
				row.Cells = append(row.Cells, cell)
			}
		}
		if subRows != nil {
			if children := subRows(item); len(children) > 0 {
				row.SubRows = buildRows(columns, hidden, children, subRows, id)
			}
		}
		rows[i] = row
	}
	return rows
}

// FlattenRows appends every row of the tree in depth-first order.
// Useful for renderers that draw hierarchies as indented flat lists.
func FlattenRows[T any](rows []*BodyRow[T]) []*BodyRow[T] {
	var flat []*BodyRow[T]
	var walk func(rows []*BodyRow[T])
	walk = func(rows []*BodyRow[T]) {
		for _, row := range rows {
			flat = append(flat, row)
			walk(row.SubRows)
		}
	}
	walk(rows)
	return flat
}
