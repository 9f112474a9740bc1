package htable

import "fmt"

// resizeState is the resize plugin's internal column width state.
// current holds live pixel widths, start holds the per-column widths
// captured when an in-progress drag began. Updates replace the maps,
// never mutate them, so store subscribers observe every change.
type resizeState struct {
	current map[ColumnID]float64
	start   map[ColumnID]float64
}

func (s resizeState) clone() resizeState {
	clone := resizeState{
		current: make(map[ColumnID]float64, len(s.current)),
		start:   make(map[ColumnID]float64, len(s.start)),
	}
	for id, w := range s.current {
		clone.current[id] = w
	}
	for id, w := range s.start {
		clone.start[id] = w
	}
	return clone
}

type activeDrag struct {
	cellKey string
	device  DeviceClass
	startX  float64
	ids     []ColumnID
}

// ResizePlugin tracks per-column pixel widths and implements
// drag-resizing of header cells. Dragging a group header distributes
// the pointer delta across the group's columns in proportion to each
// column's share of the group's total starting width, so the group's
// total width change equals the raw delta while member columns keep
// their relative sizes.
//
// Construct one plugin per table with NewResizePlugin.
type ResizePlugin[T any] struct {
	target EventTarget
	state  WritableStore[resizeState]
	widths Store[map[ColumnID]float64]
	nodes  map[ColumnID]VisualNode
	drag   *activeDrag
}

// NewResizePlugin returns a resize plugin dispatching its global
// move/end listening through target.
func NewResizePlugin[T any](target EventTarget) *ResizePlugin[T] {
	state := NewWritable(resizeState{
		current: map[ColumnID]float64{},
		start:   map[ColumnID]float64{},
	})
	return &ResizePlugin[T]{
		target: target,
		state:  state,
		// derived once: every ColumnWidths call returns this store,
		// holding copies of the internal width map
		widths: Derive(state, func(s resizeState) map[ColumnID]float64 {
			current := make(map[ColumnID]float64, len(s.current))
			for id, w := range s.current {
				current[id] = w
			}
			return current
		}),
		nodes: map[ColumnID]VisualNode{},
	}
}

func (p *ResizePlugin[T]) Name() string { return "resize" }

// ColumnWidths returns a read-only view of the current pixel width per
// column id. Columns without a known width are absent. The same store
// is returned on every call.
func (p *ResizePlugin[T]) ColumnWidths() Store[map[ColumnID]float64] {
	return p.widths
}

// SetColumnWidth writes a column width programmatically.
func (p *ResizePlugin[T]) SetColumnWidth(id ColumnID, width float64) {
	p.state.Update(func(s resizeState) resizeState {
		s = s.clone()
		s.current[id] = max(0, width)
		return s
	})
}

// Attach implements Plugin.
func (p *ResizePlugin[T]) Attach(*TableState[T]) *PluginInstance[T] {
	return &PluginInstance[T]{
		HeaderHook: p.headerHook,
	}
}

func (p *ResizePlugin[T]) headerHook(cell HeaderCell) *ElementOutput {
	props := NewWritable(Props{
		"mount": func(node VisualNode) (unmount func()) {
			p.mount(cell, node)
			return func() { p.unmount(cell) }
		},
		"drag": func(ev *PointerEvent) {
			p.dragStart(cell, ev)
		},
	})
	return &ElementOutput{
		Props: props,
		Attrs: Derive(p.state, func(s resizeState) Attrs {
			return headerAttrs(cell, s.current)
		}),
	}
}

// headerAttrs fixes the box model of a flat header cell whose column
// has a known width. Unknown widths and group cells emit no attributes
// and defer to intrinsic layout.
func headerAttrs(cell HeaderCell, current map[ColumnID]float64) Attrs {
	flat, ok := cell.(FlatHeaderCell)
	if !ok {
		return nil
	}
	width, ok := current[flat.ID]
	if !ok {
		return nil
	}
	px := fmt.Sprintf("%gpx", width)
	return Attrs{
		"width":      px,
		"min-width":  px,
		"max-width":  px,
		"box-sizing": "border-box",
	}
}

// mount records the node association for a flat header cell and seeds
// its current width from the rendered width if none is known yet.
// Group header cells have no single column to associate; their member
// columns are seeded by their own flat cells in the flat header row.
func (p *ResizePlugin[T]) mount(cell HeaderCell, node VisualNode) {
	if node == nil {
		return
	}
	flat, ok := cell.(FlatHeaderCell)
	if !ok {
		return
	}
	p.nodes[flat.ID] = node
	p.state.Update(func(s resizeState) resizeState {
		if _, ok := s.current[flat.ID]; ok {
			return s
		}
		s = s.clone()
		s.current[flat.ID] = node.RenderedWidth()
		return s
	})
}

// unmount discards the node association. Width state is kept.
// A drag in progress on the unmounted cell is cancelled and its
// global listeners removed.
func (p *ResizePlugin[T]) unmount(cell HeaderCell) {
	if flat, ok := cell.(FlatHeaderCell); ok {
		delete(p.nodes, flat.ID)
	}
	if p.drag != nil && p.drag.cellKey == headerCellKey(cell) {
		p.removeListeners()
		p.drag = nil
	}
}

// dragStart begins a drag for the cell. A drag-start while another
// drag is active is ignored, including a re-entrant start on the same
// cell, so global listeners are never double-registered.
func (p *ResizePlugin[T]) dragStart(cell HeaderCell, ev *PointerEvent) {
	if ev == nil {
		return
	}
	x, ok := ev.coordinate()
	if !ok {
		return
	}
	if p.drag != nil {
		return
	}
	ev.PreventDefault()
	ev.StopPropagation()

	ids := cell.ColumnIDs()
	p.state.Update(func(s resizeState) resizeState {
		s = s.clone()
		s.start = make(map[ColumnID]float64, len(ids))
		for _, id := range ids {
			if w, ok := s.current[id]; ok {
				s.start[id] = w
			}
		}
		return s
	})
	p.drag = &activeDrag{
		cellKey: headerCellKey(cell),
		device:  ev.Device,
		startX:  x,
		ids:     ids,
	}
	p.target.AddListener(moveEventName(ev.Device), p.dragMove)
	p.target.AddListener(endEventName(ev.Device), p.dragEnd)
}

// dragMove applies the pointer delta to the dragged columns.
// For a flat cell the delta is applied directly; for a group cell it
// is distributed proportionally to each column's share of the group's
// total starting width. Columns without a recorded start width are
// left untouched, and no width ever goes negative.
func (p *ResizePlugin[T]) dragMove(ev *PointerEvent) {
	if p.drag == nil || ev == nil {
		return
	}
	x, ok := ev.coordinate()
	if !ok {
		return
	}
	delta := x - p.drag.startX
	ids := p.drag.ids
	p.state.Update(func(s resizeState) resizeState {
		s = s.clone()
		if len(ids) == 1 {
			if start, ok := s.start[ids[0]]; ok {
				s.current[ids[0]] = max(0, start+delta)
			}
			return s
		}
		var totalStart float64
		for _, id := range ids {
			totalStart += s.start[id]
		}
		if totalStart == 0 {
			return s
		}
		for _, id := range ids {
			start, ok := s.start[id]
			if !ok {
				continue
			}
			s.current[id] = max(0, start+delta*(start/totalStart))
		}
		return s
	})
}

// dragEnd resyncs each affected column from its mounted node's actual
// rendered width, resolving rounding drift from the proportional math,
// then releases the global listeners.
func (p *ResizePlugin[T]) dragEnd(ev *PointerEvent) {
	if p.drag == nil {
		return
	}
	if ev != nil {
		ev.PreventDefault()
	}
	ids := p.drag.ids
	p.state.Update(func(s resizeState) resizeState {
		s = s.clone()
		for _, id := range ids {
			if node, ok := p.nodes[id]; ok {
				s.current[id] = node.RenderedWidth()
			}
		}
		return s
	})
	p.removeListeners()
	p.drag = nil
}

func (p *ResizePlugin[T]) removeListeners() {
	p.target.RemoveListener(moveEventName(p.drag.device))
	p.target.RemoveListener(endEventName(p.drag.device))
}
