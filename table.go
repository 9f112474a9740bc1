package htable

// Table derives renderable rows and per-cell behavior from a reactive
// item source, a column list and an ordered list of plugins.
//
// Data flows base rows -> plugin 1 transform -> plugin 2 transform ->
// ... -> Rows(). Each stage sees only the previous stage's
// fully-settled output. Independently, HeaderOutput and BodyOutput
// expose the plugins' merged reactive props/attrs per cell; changes to
// plugin state reach renderers through those stores without re-running
// the row pipeline unless a plugin's own transform depends on that
// state (filtering does, resizing does not).
//
// A Table and its stores are not safe for concurrent use; all
// interaction must happen on a single goroutine.
type Table[T any] struct {
	state      *TableState[T]
	plugins    []*PluginInstance[T]
	rows       Store[[]*BodyRow[T]]
	headerRows []HeaderRow

	headerOutputs map[string]*ElementOutput
	bodyOutputs   map[string]*ElementOutput
}

// TableOption configures a Table at construction.
type TableOption[T any] func(*tableConfig[T])

type tableConfig[T any] struct {
	subRows func(T) []T
	hidden  map[ColumnID]bool
	plugins []Plugin[T]
}

// WithSubRows exposes item hierarchy to the row pipeline:
// fn returns an item's child items, or nil for leaf items.
func WithSubRows[T any](fn func(item T) []T) TableOption[T] {
	return func(c *tableConfig[T]) { c.subRows = fn }
}

// WithHiddenColumns excludes the given columns from BodyRow.Cells
// while keeping their cells in BodyRow.CellForID.
func WithHiddenColumns[T any](ids ...ColumnID) TableOption[T] {
	return func(c *tableConfig[T]) {
		if c.hidden == nil {
			c.hidden = make(map[ColumnID]bool, len(ids))
		}
		for _, id := range ids {
			c.hidden[id] = true
		}
	}
}

// WithPlugins appends plugins to the table's pipeline.
// The list order is the fixed composition order of both the row
// transforms and the per-cell props/attrs merge.
func WithPlugins[T any](plugins ...Plugin[T]) TableOption[T] {
	return func(c *tableConfig[T]) { c.plugins = append(c.plugins, plugins...) }
}

// NewTable builds a table over the reactive item source.
// Plugins are attached once, in list order, and their row transforms
// are chained over the base row derivation.
func NewTable[T any](source Store[[]T], columns []Column[T], opts ...TableOption[T]) *Table[T] {
	var config tableConfig[T]
	for _, opt := range opts {
		opt(&config)
	}
	if config.hidden == nil {
		config.hidden = make(map[ColumnID]bool)
	}

	t := &Table[T]{
		state: &TableState[T]{
			Columns:       columns,
			HiddenColumns: config.hidden,
		},
		headerRows:    buildHeaderRows(columns),
		headerOutputs: make(map[string]*ElementOutput),
		bodyOutputs:   make(map[string]*ElementOutput),
	}

	rows := Derive(source, func(items []T) []*BodyRow[T] {
		return buildRows(columns, config.hidden, items, config.subRows, "")
	})
	for _, plugin := range config.plugins {
		instance := plugin.Attach(t.state)
		t.plugins = append(t.plugins, instance)
		if instance.DeriveRows != nil {
			rows = instance.DeriveRows(rows)
		}
	}
	t.rows = rows
	return t
}

// State returns the shared table configuration.
func (t *Table[T]) State() *TableState[T] { return t.state }

// Rows returns the final pipeline stage's row store.
func (t *Table[T]) Rows() Store[[]*BodyRow[T]] { return t.rows }

// HeaderRows returns the derived header rows: one flat row, preceded
// by a group row when any column is grouped.
func (t *Table[T]) HeaderRows() []HeaderRow { return t.headerRows }

// HeaderOutput returns the merged reactive props/attrs for a header
// cell. Every plugin's header hook is invoked once per cell identity;
// repeated calls return the memoized merged output.
func (t *Table[T]) HeaderOutput(cell HeaderCell) *ElementOutput {
	key := headerCellKey(cell)
	if out, ok := t.headerOutputs[key]; ok {
		return out
	}
	outputs := make([]*ElementOutput, 0, len(t.plugins))
	for _, plugin := range t.plugins {
		if plugin.HeaderHook != nil {
			outputs = append(outputs, plugin.HeaderHook(cell))
		}
	}
	out := mergeOutputs(outputs)
	t.headerOutputs[key] = out
	return out
}

// BodyOutput returns the merged reactive props/attrs for a body cell,
// memoized by the cell's composite key.
func (t *Table[T]) BodyOutput(cell BodyCell[T]) *ElementOutput {
	key := cell.Key()
	if out, ok := t.bodyOutputs[key]; ok {
		return out
	}
	outputs := make([]*ElementOutput, 0, len(t.plugins))
	for _, plugin := range t.plugins {
		if plugin.BodyHook != nil {
			outputs = append(outputs, plugin.BodyHook(cell))
		}
	}
	out := mergeOutputs(outputs)
	t.bodyOutputs[key] = out
	return out
}
