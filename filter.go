package htable

import (
	"fmt"
	"strings"
)

// FilterOptions configures a FilterPlugin.
type FilterOptions struct {
	// Matcher decides whether a cell's text matches the filter value.
	// Defaults to PrefixMatcher.
	Matcher func(filterValue, cellText string) bool
	// InitialValue is the filter value at construction.
	InitialValue string
	// IncludeHiddenColumns lets cells of hidden columns
	// participate in matching.
	IncludeHiddenColumns bool
}

// PrefixMatcher is the default matcher: a case-insensitive prefix
// match. The empty filter value matches everything.
func PrefixMatcher(filterValue, cellText string) bool {
	return strings.HasPrefix(strings.ToLower(cellText), strings.ToLower(filterValue))
}

// FilterPlugin filters hierarchical rows against a reactive filter
// value. Sub-rows are filtered recursively and matches bubble upward:
// a parent with any passing descendant is always kept, whatever its
// own cells contain. Per-cell match outcomes are tracked for
// highlighting, keyed by the cell's composite key.
//
// Construct one plugin per table with NewFilterPlugin.
type FilterPlugin[T any] struct {
	matcher       func(filterValue, cellText string) bool
	includeHidden bool

	value       WritableStore[string]
	matches     WritableStore[map[string]bool]
	preFiltered Store[[]*BodyRow[T]]
	state       *TableState[T]
}

// NewFilterPlugin returns a filter plugin with the given options.
func NewFilterPlugin[T any](options FilterOptions) *FilterPlugin[T] {
	matcher := options.Matcher
	if matcher == nil {
		matcher = PrefixMatcher
	}
	return &FilterPlugin[T]{
		matcher:       matcher,
		includeHidden: options.IncludeHiddenColumns,
		value:         NewWritable(options.InitialValue),
		matches:       NewWritable(map[string]bool{}),
	}
}

func (p *FilterPlugin[T]) Name() string { return "filter" }

// Value returns the read/write filter value store.
func (p *FilterPlugin[T]) Value() WritableStore[string] { return p.value }

// PreFilteredRows returns the row set just before this plugin's
// filtering is applied, for consumers that need the unfiltered data.
// It is nil until the plugin is attached to a table.
func (p *FilterPlugin[T]) PreFilteredRows() Store[[]*BodyRow[T]] {
	return p.preFiltered
}

// Matches reports the recorded match outcome for a cell's composite
// key, false when no outcome is recorded.
func (p *FilterPlugin[T]) Matches(cellKey string) bool {
	return p.matches.Get()[cellKey]
}

// Attach implements Plugin.
func (p *FilterPlugin[T]) Attach(state *TableState[T]) *PluginInstance[T] {
	p.state = state
	return &PluginInstance[T]{
		DeriveRows: func(rows Store[[]*BodyRow[T]]) Store[[]*BodyRow[T]] {
			p.preFiltered = rows
			return Derive2(rows, p.value, p.filter)
		},
		BodyHook: p.bodyHook,
	}
}

// filter recomputes the match map from scratch and returns the
// retained rows. Recording outcomes happens before any row-level
// decision, so highlighting state is fully refreshed even for rows
// that end up excluded.
func (p *FilterPlugin[T]) filter(rows []*BodyRow[T], value string) []*BodyRow[T] {
	matches := make(map[string]bool)
	if value == "" {
		// The empty value matches everything: record the outcomes but
		// return the input rows untouched.
		p.recordMatches(rows, value, matches)
		p.matches.Set(matches)
		return rows
	}
	kept := p.filterRows(rows, value, matches)
	p.matches.Set(matches)
	return kept
}

func (p *FilterPlugin[T]) recordMatches(rows []*BodyRow[T], value string, matches map[string]bool) {
	for _, row := range rows {
		p.evalCells(row, value, matches)
		p.recordMatches(row.SubRows, value, matches)
	}
}

func (p *FilterPlugin[T]) filterRows(rows []*BodyRow[T], value string, matches map[string]bool) []*BodyRow[T] {
	kept := make([]*BodyRow[T], 0, len(rows))
	for _, row := range rows {
		sub := row.SubRows
		if len(sub) > 0 {
			sub = p.filterRows(sub, value, matches)
			row = row.WithSubRows(sub)
		}
		anyCellMatch := p.evalCells(row, value, matches)
		if len(sub) > 0 || anyCellMatch {
			kept = append(kept, row)
		}
	}
	return kept
}

// evalCells records the match outcome of every evaluable cell of the
// row and reports whether any matched. A cell is evaluable if its
// column is not excluded from filtering, the column is visible or
// hidden columns are included, and the cell carries a value.
func (p *FilterPlugin[T]) evalCells(row *BodyRow[T], value string, matches map[string]bool) bool {
	any := false
	for i := range p.state.Columns {
		col := &p.state.Columns[i]
		if col.Filter != nil && col.Filter.Exclude {
			continue
		}
		if !p.includeHidden && p.state.HiddenColumns[col.ID] {
			continue
		}
		cell := row.CellForID[col.ID]
		if cell == nil || !cell.HasValue() {
			continue
		}
		text := ""
		if col.Filter != nil && col.Filter.Value != nil {
			text = col.Filter.Value(cell.Value())
		} else {
			text = fmt.Sprint(cell.Value())
		}
		ok := p.matcher(value, text)
		matches[cell.Key()] = ok
		any = any || ok
	}
	return any
}

// bodyHook exposes a "matches" prop: true only while the filter value
// is non-empty and the cell's recorded outcome is a match. This keeps
// highlighting off for the empty filter even though every cell
// trivially matches it.
func (p *FilterPlugin[T]) bodyHook(cell BodyCell[T]) *ElementOutput {
	key := cell.Key()
	return &ElementOutput{
		Props: Derive2(p.value, p.matches, func(value string, matches map[string]bool) Props {
			return Props{"matches": value != "" && matches[key]}
		}),
	}
}
