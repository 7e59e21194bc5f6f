package vdom

import (
	"encoding/json"
	"sort"
)

// wireNode is the JSON shape of a committed tree. Event handlers are
// replaced by the list of event names the element listens to.
type wireNode struct {
	Kind     string         `json:"kind"`
	Tag      string         `json:"tag,omitempty"`
	Key      string         `json:"key,omitempty"`
	HID      string         `json:"hid,omitempty"`
	Text     string         `json:"text,omitempty"`
	Attrs    map[string]any `json:"attrs,omitempty"`
	Events   []string       `json:"events,omitempty"`
	Children []*wireNode    `json:"children,omitempty"`
}

// MarshalJSON encodes the node for hosts and inspectors.
func (v *VNode) MarshalJSON() ([]byte, error) {
	return json.Marshal(toWire(v))
}

func toWire(v *VNode) *wireNode {
	if v == nil {
		return nil
	}
	w := &wireNode{
		Kind: v.Kind.String(),
		Tag:  v.Tag,
		Key:  v.Key,
		HID:  v.HID,
		Text: v.Text,
	}
	if v.Kind == KindComponent {
		w.Tag = v.ComponentName()
	}
	for key, value := range v.Props {
		if isEventProp(key) {
			w.Events = append(w.Events, key[2:])
			continue
		}
		if w.Attrs == nil {
			w.Attrs = make(map[string]any, len(v.Props))
		}
		w.Attrs[key] = value
	}
	sort.Strings(w.Events)
	for _, child := range v.Children {
		if child != nil {
			w.Children = append(w.Children, toWire(child))
		}
	}
	return w
}
