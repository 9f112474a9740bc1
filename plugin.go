package htable

// Props carries arbitrary interaction handlers and values a renderer
// attaches to a cell's element (function-valued entries become element
// behavior attachments).
type Props map[string]any

// Attrs carries visual attributes, typically inline style fields,
// a renderer merges onto a cell's element.
type Attrs map[string]string

// ElementOutput is one plugin's reactive contribution to a rendered
// cell. Reactivity is carried by the stores: hooks are invoked once
// per cell identity and never re-invoked on value changes.
// Either store may be nil when the plugin contributes nothing
// for that aspect.
type ElementOutput struct {
	Props Store[Props]
	Attrs Store[Attrs]
}

// PluginInstance is what a plugin contributes to one table instance.
//
// A nil DeriveRows passes rows through unchanged. A non-nil DeriveRows
// receives the previous pipeline stage's row store and must return a
// reactively-updating store of the transformed rows. Transforms must
// never mutate rows they receive; a changed row has to be replaced by
// a clone (see BodyRow.WithSubRows). This invariant is documented, not
// enforced: violating it breaks downstream plugins.
type PluginInstance[T any] struct {
	DeriveRows func(rows Store[[]*BodyRow[T]]) Store[[]*BodyRow[T]]
	HeaderHook func(cell HeaderCell) *ElementOutput
	BodyHook   func(cell BodyCell[T]) *ElementOutput
}

// Plugin contributes a row transformation and/or per-cell reactive
// behavior to a table, composed by the table without any coupling
// between plugins.
type Plugin[T any] interface {
	// Name identifies the plugin, for diagnostics.
	Name() string
	// Attach is called once per table instance and returns the
	// plugin's contribution. All plugin state must be scoped to the
	// returned instance (or the plugin value itself when the plugin
	// is constructed per table); there are no package-level state maps.
	Attach(state *TableState[T]) *PluginInstance[T]
}

// TableState is the shared table configuration plugins read
// at attach time.
type TableState[T any] struct {
	Columns []Column[T]
	// HiddenColumns marks columns excluded from BodyRow.Cells.
	HiddenColumns map[ColumnID]bool
}

// Column returns the column definition for id, or nil.
func (s *TableState[T]) Column(id ColumnID) *Column[T] {
	for i := range s.Columns {
		if s.Columns[i].ID == id {
			return &s.Columns[i]
		}
	}
	return nil
}

// mergeOutputs shallow-merges the props and attrs of several plugin
// outputs in plugin-list order. On key conflicts later plugins win;
// this ordering is the documented tie-break.
func mergeOutputs(outputs []*ElementOutput) *ElementOutput {
	var propsStores []Store[Props]
	var attrsStores []Store[Attrs]
	for _, out := range outputs {
		if out == nil {
			continue
		}
		if out.Props != nil {
			propsStores = append(propsStores, out.Props)
		}
		if out.Attrs != nil {
			attrsStores = append(attrsStores, out.Attrs)
		}
	}
	merged := &ElementOutput{
		Props: DeriveAll(propsStores, mergeMaps[Props]),
		Attrs: DeriveAll(attrsStores, mergeMaps[Attrs]),
	}
	return merged
}

func mergeMaps[M ~map[string]V, V any](maps []M) M {
	merged := make(M)
	for _, m := range maps {
		for k, v := range m {
			merged[k] = v
		}
	}
	return merged
}
