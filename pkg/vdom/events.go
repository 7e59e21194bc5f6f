package vdom

import "fmt"

// Event is the payload a host delivers with a triggered handler.
type Event struct {
	// Type is the event name without the "on" prefix ("click", "input").
	Type string `json:"type"`

	// Value carries the element value for input/change/submit events.
	Value string `json:"value,omitempty"`

	// Key carries the key name for keyboard events.
	Key string `json:"key,omitempty"`
}

// event creates an EventHandler with the given name and handler.
// The name is prefixed with "on" (e.g., "click" becomes "onclick").
func event(name string, handler any) EventHandler {
	return EventHandler{Event: "on" + name, Handler: handler}
}

// OnClick handles click events.
func OnClick(handler any) EventHandler { return event("click", handler) }

// OnDblClick handles double-click events.
func OnDblClick(handler any) EventHandler { return event("dblclick", handler) }

// OnInput handles input events (fired when value changes).
func OnInput(handler any) EventHandler { return event("input", handler) }

// OnChange handles change events (fired when value is committed).
func OnChange(handler any) EventHandler { return event("change", handler) }

// OnSubmit handles form submit events.
func OnSubmit(handler any) EventHandler { return event("submit", handler) }

// OnKeyDown handles keydown events.
func OnKeyDown(handler any) EventHandler { return event("keydown", handler) }

// OnFocus handles focus events.
func OnFocus(handler any) EventHandler { return event("focus", handler) }

// OnBlur handles blur events.
func OnBlur(handler any) EventHandler { return event("blur", handler) }

// Handler is the normalized form of every supported handler signature.
type Handler func(Event)

// WrapHandler converts a handler prop value into a Handler.
//
// Supported signatures are func(), func(Event), func(string) (receives
// Event.Value) and Handler. Return values of caller-supplied callbacks are
// ignored, so func() error is accepted too.
func WrapHandler(h any) (Handler, error) {
	switch fn := h.(type) {
	case nil:
		return nil, fmt.Errorf("vdom: nil event handler")
	case Handler:
		return fn, nil
	case func(Event):
		return fn, nil
	case func():
		return func(Event) { fn() }, nil
	case func() error:
		return func(Event) { _ = fn() }, nil
	case func(string):
		return func(e Event) { fn(e.Value) }, nil
	default:
		return nil, fmt.Errorf("vdom: unsupported event handler type %T", h)
	}
}
