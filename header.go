package htable

import "strings"

// HeaderCell is either a FlatHeaderCell for exactly one column or a
// GroupHeaderCell spanning a contiguous set of columns. Code handling
// header cells must type-switch on the two variants to decide whether
// to operate on a single id or distribute across the group's id list.
type HeaderCell interface {
	// Label returns the rendered header text.
	Label() string
	// ColumnIDs returns the underlying column ids,
	// a singleton for flat cells.
	ColumnIDs() []ColumnID

	headerCell() // seals the variant set
}

// FlatHeaderCell represents exactly one column.
type FlatHeaderCell struct {
	ID     ColumnID
	Header string
}

func (FlatHeaderCell) headerCell() {}

func (c FlatHeaderCell) Label() string         { return c.Header }
func (c FlatHeaderCell) ColumnIDs() []ColumnID { return []ColumnID{c.ID} }

// GroupHeaderCell represents a contiguous group of columns.
type GroupHeaderCell struct {
	Header string
	IDs    []ColumnID
}

func (GroupHeaderCell) headerCell() {}

func (c GroupHeaderCell) Label() string         { return c.Header }
func (c GroupHeaderCell) ColumnIDs() []ColumnID { return c.IDs }

// HeaderRow is one row of header cells.
type HeaderRow struct {
	Cells []HeaderCell
}

// headerCellKey identifies one header cell for hook memoization and
// drag bookkeeping. Group cells are keyed by their full id list.
func headerCellKey(cell HeaderCell) string {
	switch c := cell.(type) {
	case FlatHeaderCell:
		return "flat:" + string(c.ID)
	case GroupHeaderCell:
		ids := make([]string, len(c.IDs))
		for i, id := range c.IDs {
			ids[i] = string(id)
		}
		return "group:" + strings.Join(ids, ",")
	}
	return ""
}

// buildHeaderRows derives the header rows from the column list:
// a flat row of one cell per column, preceded by a group row when any
// column carries a group header. Ungrouped columns appear in the
// group row as label-less flat cells.
func buildHeaderRows[T any](columns []Column[T]) []HeaderRow {
	flat := HeaderRow{Cells: make([]HeaderCell, len(columns))}
	grouped := false
	for i := range columns {
		flat.Cells[i] = FlatHeaderCell{ID: columns[i].ID, Header: columns[i].Header}
		if columns[i].groupHeader != "" {
			grouped = true
		}
	}
	if !grouped {
		return []HeaderRow{flat}
	}

	var group HeaderRow
	for i := 0; i < len(columns); {
		col := &columns[i]
		if col.groupHeader == "" {
			group.Cells = append(group.Cells, FlatHeaderCell{ID: col.ID})
			i++
			continue
		}
		// contiguous run of the same group header
		cell := GroupHeaderCell{Header: col.groupHeader}
		for i < len(columns) && columns[i].groupHeader == col.groupHeader {
			cell.IDs = append(cell.IDs, columns[i].ID)
			i++
		}
		group.Cells = append(group.Cells, cell)
	}
	return []HeaderRow{group, flat}
}
