package htable

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFilterFixture(items []person, options FilterOptions, opts ...TableOption[person]) (*FilterPlugin[person], *Table[person]) {
	plugin := NewFilterPlugin[person](options)
	source := NewWritable(items)
	opts = append(opts, WithPlugins[person](plugin), WithSubRows[person](func(p person) []person { return p.Reports }))
	table := NewTable(source, personColumns(), opts...)
	return plugin, table
}

func rowNames(rows []*BodyRow[person]) []string {
	names := make([]string, len(rows))
	for i, row := range rows {
		names[i] = row.Item.Name
	}
	return names
}

func TestFilterPrefixMatch(t *testing.T) {
	// three leaf rows, default predicate, filter value "al"
	plugin, table := newFilterFixture([]person{
		{Name: "Alice"}, {Name: "Bob"}, {Name: "Alan"},
	}, FilterOptions{})

	plugin.Value().Set("al")
	rows := table.Rows().Get()
	assert.Equal(t, []string{"Alice", "Alan"}, rowNames(rows))
	for _, row := range rows {
		assert.True(t, plugin.Matches(row.CellForID["name"].Key()))
	}
}

func TestFilterEmptyValueIdempotent(t *testing.T) {
	items := []person{
		{Name: "Alice", Reports: []person{{Name: "Bob"}}},
		{Name: "Carol"},
	}
	plugin, table := newFilterFixture(items, FilterOptions{})

	before := plugin.PreFilteredRows().Get()
	after := table.Rows().Get()
	require.Len(t, after, 2)
	for i := range before {
		assert.Same(t, before[i], after[i], "empty filter returns the rows unchanged")
	}
	assert.Len(t, after[0].SubRows, 1)

	// also after clearing a previously set value
	plugin.Value().Set("carol")
	require.Len(t, table.Rows().Get(), 1)
	plugin.Value().Set("")
	assert.Len(t, table.Rows().Get(), 2)
}

func TestFilterAncestorBubbling(t *testing.T) {
	items := []person{
		{Name: "Zoe", Reports: []person{
			{Name: "Albert"},
			{Name: "Bob", Reports: []person{{Name: "Alma"}}},
			{Name: "Charlie"},
		}},
		{Name: "Yann", Reports: []person{{Name: "Dora"}}},
	}
	plugin, table := newFilterFixture(items, FilterOptions{})

	plugin.Value().Set("al")
	rows := table.Rows().Get()

	// Zoe is kept only because descendants match; Yann's subtree has
	// no match at all and is dropped entirely.
	require.Equal(t, []string{"Zoe"}, rowNames(rows))
	zoe := rows[0]
	assert.Equal(t, []string{"Albert", "Bob"}, rowNames(zoe.SubRows),
		"subtree pruned to matching-or-ancestor-of-matching rows")
	assert.Equal(t, []string{"Alma"}, rowNames(zoe.SubRows[1].SubRows))
	assert.False(t, plugin.Matches(zoe.CellForID["name"].Key()))
}

func TestFilterDoesNotMutateInput(t *testing.T) {
	items := []person{{Name: "Zoe", Reports: []person{{Name: "Albert"}, {Name: "Bob"}}}}
	plugin, table := newFilterFixture(items, FilterOptions{})

	unfiltered := plugin.PreFilteredRows().Get()
	plugin.Value().Set("al")

	require.Len(t, unfiltered[0].SubRows, 2, "input rows must stay untouched")
	filtered := table.Rows().Get()
	require.Len(t, filtered, 1)
	assert.NotSame(t, unfiltered[0], filtered[0], "changed rows are replaced by clones")
	assert.Len(t, filtered[0].SubRows, 1)
}

func TestFilterMatchMapCompleteness(t *testing.T) {
	items := []person{
		{Name: "Alice", Age: 30},
		{Name: "Bob", Age: 25},
	}
	plugin, table := newFilterFixture(items, FilterOptions{})

	plugin.Value().Set("alice")
	require.Len(t, table.Rows().Get(), 1)

	// every evaluable cell has a recorded outcome,
	// including cells of the excluded row
	pre := plugin.PreFilteredRows().Get()
	for _, row := range pre {
		for _, id := range []ColumnID{"name", "age"} {
			key := row.CellForID[id].Key()
			assert.Contains(t, plugin.matches.Get(), key)
		}
	}
	assert.True(t, plugin.Matches(pre[0].CellForID["name"].Key()))
	assert.False(t, plugin.Matches(pre[1].CellForID["name"].Key()))
}

func TestFilterHiddenColumns(t *testing.T) {
	items := []person{{Name: "Alice", Age: 30}, {Name: "Bob", Age: 31}}

	t.Run("hidden columns excluded by default", func(t *testing.T) {
		plugin, table := newFilterFixture(items, FilterOptions{},
			WithHiddenColumns[person]("age"))
		plugin.Value().Set("3")
		assert.Empty(t, table.Rows().Get(),
			"a row matching only on a hidden column is excluded")
	})

	t.Run("IncludeHiddenColumns", func(t *testing.T) {
		plugin, table := newFilterFixture(items, FilterOptions{IncludeHiddenColumns: true},
			WithHiddenColumns[person]("age"))
		plugin.Value().Set("3")
		assert.Equal(t, []string{"Alice", "Bob"}, rowNames(table.Rows().Get()))
	})
}

func TestFilterColumnOptions(t *testing.T) {
	columns := []Column[person]{
		{ID: "name", Header: "Name", Value: func(p person) any { return p.Name },
			Filter: &FilterColumnOptions{Exclude: true}},
		{ID: "age", Header: "Age", Value: func(p person) any { return p.Age },
			Filter: &FilterColumnOptions{Value: func(v any) string { return fmt.Sprintf("age-%v", v) }}},
	}
	plugin := NewFilterPlugin[person](FilterOptions{})
	source := NewWritable([]person{{Name: "Alice", Age: 30}, {Name: "Bob", Age: 41}})
	table := NewTable(source, columns, WithPlugins[person](plugin))

	plugin.Value().Set("alice")
	assert.Empty(t, table.Rows().Get(), "excluded columns never match")

	plugin.Value().Set("age-3")
	assert.Equal(t, []string{"Alice"}, rowNames(table.Rows().Get()),
		"custom extractor output is matched instead of the raw value")
}

func TestFilterDisplayCellsNeverMatch(t *testing.T) {
	columns := append(personColumns(), Column[person]{ID: "actions", Header: "Actions"})
	plugin := NewFilterPlugin[person](FilterOptions{InitialValue: "x"})
	source := NewWritable([]person{{Name: "Alice"}})
	table := NewTable(source, columns, WithPlugins[person](plugin))

	rows := plugin.PreFilteredRows().Get()
	key := rows[0].CellForID["actions"].Key()
	assert.NotContains(t, plugin.matches.Get(), key,
		"placeholder cells are not evaluated")
	assert.Empty(t, table.Rows().Get())
}

func TestFilterCustomMatcher(t *testing.T) {
	contains := func(value, text string) bool {
		return value == "" || fmt.Sprintf("[%s]", text) == value
	}
	plugin, table := newFilterFixture([]person{{Name: "Alice"}, {Name: "Bob"}},
		FilterOptions{Matcher: contains})

	plugin.Value().Set("[Bob]")
	assert.Equal(t, []string{"Bob"}, rowNames(table.Rows().Get()))
}

func TestFilterMatchesProp(t *testing.T) {
	plugin, table := newFilterFixture([]person{{Name: "Alice"}}, FilterOptions{})
	cell := table.Rows().Get()[0].CellForID["name"]
	out := table.BodyOutput(cell)

	assert.Equal(t, false, out.Props.Get()["matches"],
		"empty filter value suppresses highlighting")

	plugin.Value().Set("ali")
	assert.Equal(t, true, out.Props.Get()["matches"])

	plugin.Value().Set("bob")
	assert.Equal(t, false, out.Props.Get()["matches"])
}

func TestFilterInitialValue(t *testing.T) {
	plugin, table := newFilterFixture([]person{{Name: "Alice"}, {Name: "Bob"}},
		FilterOptions{InitialValue: "ali"})
	assert.Equal(t, "ali", plugin.Value().Get())
	assert.Equal(t, []string{"Alice"}, rowNames(table.Rows().Get()))
}
