package htable

// DeviceClass distinguishes the pointer device that produced an event.
// It selects the move/end event-name pair used for global listening
// during a drag.
type DeviceClass int

const (
	Mouse DeviceClass = iota
	Touch
)

// TouchPoint is one active touch of a touch-class event.
type TouchPoint struct {
	PageX float64
}

// PointerEvent is the pointer/touch event shape the engine consumes.
// The embedding environment constructs these from its native events:
// ClientX for mouse events, Touches for touch events.
type PointerEvent struct {
	Device  DeviceClass
	ClientX float64
	Touches []TouchPoint

	defaultPrevented   bool
	propagationStopped bool
}

// PreventDefault suppresses the event's default behavior.
func (e *PointerEvent) PreventDefault() { e.defaultPrevented = true }

// StopPropagation suppresses further propagation of the event.
func (e *PointerEvent) StopPropagation() { e.propagationStopped = true }

// DefaultPrevented reports whether PreventDefault was called.
func (e *PointerEvent) DefaultPrevented() bool { return e.defaultPrevented }

// PropagationStopped reports whether StopPropagation was called.
func (e *PointerEvent) PropagationStopped() bool { return e.propagationStopped }

// coordinate extracts the horizontal position: ClientX for mouse
// events, the first active touch's PageX for touch events.
// ok is false for a touch event without active touches,
// which callers must ignore.
func (e *PointerEvent) coordinate() (x float64, ok bool) {
	switch e.Device {
	case Touch:
		if len(e.Touches) == 0 {
			return 0, false
		}
		return e.Touches[0].PageX, true
	default:
		return e.ClientX, true
	}
}

// moveEventName returns the global move event matching the device
// class that initiated a drag.
func moveEventName(device DeviceClass) string {
	if device == Touch {
		return "touchmove"
	}
	return "mousemove"
}

// endEventName returns the global end event matching the device class.
func endEventName(device DeviceClass) string {
	if device == Touch {
		return "touchend"
	}
	return "mouseup"
}

// EventTarget is the environment's window-equivalent global event
// surface. During a drag the resize plugin owns the registered
// listeners exclusively: one listener per event name.
type EventTarget interface {
	AddListener(event string, fn func(*PointerEvent))
	RemoveListener(event string)
}

// VisualNode is the rendered element backing a header cell.
// Renderers hand nodes to plugins through mount props.
type VisualNode interface {
	// RenderedWidth returns the element's current layout width
	// in pixels.
	RenderedWidth() float64
}
