package htable

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// markerPlugin tags every derivation pass with its name so pipeline
// order is observable, and contributes static per-cell output.
type markerPlugin struct {
	name      string
	order     *[]string
	props     Props
	attrs     Attrs
	hookCalls int
}

func (p *markerPlugin) Name() string { return p.name }

func (p *markerPlugin) Attach(*TableState[person]) *PluginInstance[person] {
	return &PluginInstance[person]{
		DeriveRows: func(rows Store[[]*BodyRow[person]]) Store[[]*BodyRow[person]] {
			return Derive(rows, func(rows []*BodyRow[person]) []*BodyRow[person] {
				*p.order = append(*p.order, p.name)
				return rows
			})
		},
		HeaderHook: func(HeaderCell) *ElementOutput {
			p.hookCalls++
			return &ElementOutput{
				Props: NewWritable(p.props),
				Attrs: NewWritable(p.attrs),
			}
		},
	}
}

func TestPipelineOrder(t *testing.T) {
	var order []string
	source := NewWritable([]person{{Name: "Alice"}})
	table := NewTable(source, personColumns(),
		WithPlugins[person](
			&markerPlugin{name: "first", order: &order},
			&markerPlugin{name: "second", order: &order},
		),
	)

	require.Len(t, table.Rows().Get(), 1)
	order = nil
	source.Set([]person{{Name: "Alice"}, {Name: "Bob"}})
	assert.Equal(t, []string{"first", "second"}, order,
		"row transforms must run in plugin list order")
	assert.Len(t, table.Rows().Get(), 2)
}

// passThroughPlugin has no DeriveRows: rows pass through unchanged.
type passThroughPlugin struct{}

func (passThroughPlugin) Name() string { return "passthrough" }
func (passThroughPlugin) Attach(*TableState[person]) *PluginInstance[person] {
	return &PluginInstance[person]{}
}

func TestPassThroughPlugin(t *testing.T) {
	source := NewWritable([]person{{Name: "Alice"}})
	table := NewTable(source, personColumns(), WithPlugins[person](passThroughPlugin{}))

	rows := table.Rows().Get()
	require.Len(t, rows, 1)
	assert.Equal(t, "Alice", rows[0].Item.Name)
}

func TestMergedOutputTieBreak(t *testing.T) {
	var order []string
	source := NewWritable([]person{})
	table := NewTable(source, personColumns(),
		WithPlugins[person](
			&markerPlugin{name: "first", order: &order,
				props: Props{"shared": "first", "a": 1}, attrs: Attrs{"width": "10px"}},
			&markerPlugin{name: "second", order: &order,
				props: Props{"shared": "second", "b": 2}, attrs: Attrs{"color": "red"}},
		),
	)

	out := table.HeaderOutput(FlatHeaderCell{ID: "name", Header: "Name"})
	assert.Equal(t, Props{"shared": "second", "a": 1, "b": 2}, out.Props.Get(),
		"later plugins win prop key conflicts")
	assert.Equal(t, Attrs{"width": "10px", "color": "red"}, out.Attrs.Get())
}

func TestHookInvokedOncePerCell(t *testing.T) {
	var order []string
	plugin := &markerPlugin{name: "only", order: &order}
	source := NewWritable([]person{})
	table := NewTable(source, personColumns(), WithPlugins[person](plugin))

	cell := FlatHeaderCell{ID: "name", Header: "Name"}
	first := table.HeaderOutput(cell)
	second := table.HeaderOutput(cell)
	assert.Same(t, first, second)
	assert.Equal(t, 1, plugin.hookCalls, "hooks run once per cell identity")

	table.HeaderOutput(FlatHeaderCell{ID: "age", Header: "Age"})
	assert.Equal(t, 2, plugin.hookCalls)
}

func TestTableHeaderRows(t *testing.T) {
	source := NewWritable([]person{})
	table := NewTable(source, personColumns())
	require.Len(t, table.HeaderRows(), 1)
	assert.Equal(t, "Name", table.HeaderRows()[0].Cells[0].Label())
}

func TestTableStateColumn(t *testing.T) {
	source := NewWritable([]person{})
	table := NewTable(source, personColumns())
	require.NotNil(t, table.State().Column("age"))
	assert.Equal(t, "Age", table.State().Column("age").Header)
	assert.Nil(t, table.State().Column("missing"))
}
