package htable

// ColumnID is the opaque stable identifier of one logical column.
// It is the only cross-cutting join key between row cells,
// plugin state maps and visual-node bookkeeping.
type ColumnID string

// FilterColumnOptions configures how the filter plugin
// treats cells of one column.
type FilterColumnOptions struct {
	// Exclude removes the column's cells from match evaluation.
	Exclude bool
	// Value extracts the text to match against from the cell value.
	// If nil, the raw value is formatted with fmt.Sprint.
	Value func(value any) string
}

// Column defines one logical column of a table over items of type T.
type Column[T any] struct {
	ID     ColumnID
	Header string
	// Value extracts the column's cell value from an item.
	// A nil Value marks a display-only column whose body cells
	// are value-less placeholders.
	Value func(item T) any
	// Filter holds per-column filter plugin options, may be nil.
	Filter *FilterColumnOptions

	groupHeader string
}

// Group assigns a common group header to a contiguous run of columns
// and returns them for inclusion in a column list. Grouped columns
// share a GroupHeaderCell in the table's group header row and are
// resized together by the resize plugin.
func Group[T any](header string, columns ...Column[T]) []Column[T] {
	for i := range columns {
		columns[i].groupHeader = header
	}
	return columns
}

// GroupHeader returns the column's group header,
// or "" if the column is not grouped.
func (c *Column[T]) GroupHeader() string { return c.groupHeader }
