package vdom

import (
	"context"
	"reflect"
	"strings"
)

// VKind is the node type discriminator.
type VKind uint8

const (
	KindElement   VKind = iota // <div>, <button>, etc.
	KindText                   // Plain text node
	KindFragment               // Grouping without wrapper
	KindComponent              // Nested component
)

// String returns the string representation of the VKind.
func (k VKind) String() string {
	switch k {
	case KindElement:
		return "Element"
	case KindText:
		return "Text"
	case KindFragment:
		return "Fragment"
	case KindComponent:
		return "Component"
	default:
		return "Unknown"
	}
}

// VNode is one node of a rendered tree.
type VNode struct {
	Kind     VKind     // Node type
	Tag      string    // Element tag name (e.g., "div")
	Props    Props     // Attributes and event handlers
	Children []*VNode  // Child nodes
	Key      string    // Reconciliation key
	Text     string    // For KindText
	Comp     Component // For KindComponent
	HID      string    // Hydration ID (assigned at commit)
}

// Props holds attributes and event handlers.
type Props map[string]any

// IsInteractive returns true if this node has event handlers and needs a HID.
func (v *VNode) IsInteractive() bool {
	if v == nil || v.Kind != KindElement {
		return false
	}
	for key := range v.Props {
		if isEventProp(key) {
			return true
		}
	}
	return false
}

// HasKey reports whether the node carries an explicit reconciliation key.
func (v *VNode) HasKey() bool {
	return v != nil && v.Key != ""
}

// ComponentName returns a readable name for a component node's type.
func (v *VNode) ComponentName() string {
	if v == nil || v.Kind != KindComponent || v.Comp == nil {
		return ""
	}
	return ComponentName(v.Comp)
}

// Attr represents a single attribute.
type Attr struct {
	Key   string
	Value any
}

// IsEmpty returns true if this is an empty/nil attribute.
func (a Attr) IsEmpty() bool {
	return a.Key == ""
}

// EventHandler represents an event handler.
type EventHandler struct {
	Event   string // "onclick", "oninput", etc.
	Handler any    // func(), func(Event) or func(string)
}

// Component is anything that can render to a VNode.
//
// The context passed to Render carries the instance's render scope; hooks
// read it, so it must be handed to them unchanged.
type Component interface {
	Render(ctx context.Context) *VNode
}

// FuncComponent wraps a render function.
type FuncComponent struct {
	render func(ctx context.Context) *VNode
	name   string
}

// Render implements Component.
func (f *FuncComponent) Render(ctx context.Context) *VNode {
	return f.render(ctx)
}

// Func creates a component from a render function.
//
// Every call returns a new component value, so a Func placeholder is always
// re-rendered when its parent renders.
func Func(render func(ctx context.Context) *VNode) Component {
	return &FuncComponent{render: render}
}

// NamedFunc is Func with a display name used in logs, metrics and errors.
func NamedFunc(name string, render func(ctx context.Context) *VNode) Component {
	return &FuncComponent{render: render, name: name}
}

// ComponentName returns a readable name for a component value.
func ComponentName(c Component) string {
	if c == nil {
		return ""
	}
	if f, ok := c.(*FuncComponent); ok && f.name != "" {
		return f.name
	}
	if n, ok := c.(interface{ ComponentName() string }); ok {
		return n.ComponentName()
	}
	t := reflect.TypeOf(c)
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	name := t.Name()
	if i := strings.IndexByte(name, '['); i >= 0 {
		name = name[:i]
	}
	return name
}

// isEventProp reports whether key names an event handler prop ("onclick").
func isEventProp(key string) bool {
	return len(key) > 2 && strings.EqualFold(key[:2], "on")
}
