package htable

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type person struct {
	Name    string
	Age     int
	Reports []person
}

func personColumns() []Column[person] {
	return []Column[person]{
		{ID: "name", Header: "Name", Value: func(p person) any { return p.Name }},
		{ID: "age", Header: "Age", Value: func(p person) any { return p.Age }},
	}
}

func TestBuildRows(t *testing.T) {
	items := []person{
		{Name: "Alice", Age: 30, Reports: []person{{Name: "Bob", Age: 25}}},
		{Name: "Carol", Age: 41},
	}
	rows := buildRows(personColumns(), map[ColumnID]bool{}, items, func(p person) []person { return p.Reports }, "")
	require.Len(t, rows, 2)

	alice := rows[0]
	assert.Equal(t, "0", alice.ID)
	assert.Equal(t, "Alice", alice.Item.Name)
	require.Len(t, alice.Cells, 2)
	assert.Equal(t, "Alice", alice.CellForID["name"].Value())
	assert.Equal(t, 30, alice.CellForID["age"].Value())
	assert.Equal(t, "0:name", alice.CellForID["name"].Key())

	require.Len(t, alice.SubRows, 1)
	assert.Equal(t, "0.0", alice.SubRows[0].ID)
	assert.Equal(t, "0.0:name", alice.SubRows[0].CellForID["name"].Key())

	assert.Empty(t, rows[1].SubRows)
}

func TestBuildRowsHiddenColumns(t *testing.T) {
	rows := buildRows(personColumns(), map[ColumnID]bool{"age": true}, []person{{Name: "Alice", Age: 30}}, nil, "")
	require.Len(t, rows, 1)

	// CellForID stays complete, Cells drops the hidden column.
	assert.Len(t, rows[0].CellForID, 2)
	require.Len(t, rows[0].Cells, 1)
	assert.Equal(t, ColumnID("name"), rows[0].Cells[0].Column())
}

func TestBuildRowsDisplayColumn(t *testing.T) {
	columns := append(personColumns(), Column[person]{ID: "actions", Header: "Actions"})
	rows := buildRows(columns, map[ColumnID]bool{}, []person{{Name: "Alice"}}, nil, "")
	require.Len(t, rows, 1)

	cell := rows[0].CellForID["actions"]
	assert.False(t, cell.HasValue())
	assert.Nil(t, cell.Value())
	assert.Equal(t, "0:actions", cell.Key())
}

func TestWithSubRowsClones(t *testing.T) {
	rows := buildRows(personColumns(), map[ColumnID]bool{},
		[]person{{Name: "Alice", Reports: []person{{Name: "Bob"}, {Name: "Carol"}}}},
		func(p person) []person { return p.Reports }, "")
	row := rows[0]

	clone := row.WithSubRows(row.SubRows[:1])
	assert.NotSame(t, row, clone)
	assert.Len(t, clone.SubRows, 1)
	assert.Len(t, row.SubRows, 2, "original row must stay untouched")
	assert.Equal(t, row.ID, clone.ID)
	assert.Equal(t, row.Cells, clone.Cells)
	assert.Equal(t, row.CellForID, clone.CellForID)
}

func TestFlattenRows(t *testing.T) {
	rows := buildRows(personColumns(), map[ColumnID]bool{},
		[]person{{Name: "Alice", Reports: []person{{Name: "Bob"}}}, {Name: "Carol"}},
		func(p person) []person { return p.Reports }, "")

	flat := FlattenRows(rows)
	ids := make([]string, len(flat))
	for i, row := range flat {
		ids[i] = row.ID
	}
	assert.Equal(t, []string{"0", "0.0", "1"}, ids)
}
