package vdom

import (
	"fmt"
	"sync"
)

// HIDGenerator generates unique hydration IDs for interactive elements.
type HIDGenerator struct {
	counter uint32
	mu      sync.Mutex
}

// NewHIDGenerator creates a new HIDGenerator.
func NewHIDGenerator() *HIDGenerator {
	return &HIDGenerator{}
}

// Next returns the next hydration ID (e.g., "h1", "h2", ...).
func (g *HIDGenerator) Next() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.counter++
	return fmt.Sprintf("h%d", g.counter)
}

// Reset resets the counter to 0.
func (g *HIDGenerator) Reset() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.counter = 0
}

// Current returns the current counter value without incrementing.
func (g *HIDGenerator) Current() uint32 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.counter
}

// AssignHIDs walks the tree and assigns HIDs to interactive elements.
// An element is interactive if it has event handlers (props starting with "on").
func AssignHIDs(node *VNode, gen *HIDGenerator) {
	if node == nil {
		return
	}

	if node.Kind == KindElement && node.IsInteractive() {
		node.HID = gen.Next()
	}

	for _, child := range node.Children {
		AssignHIDs(child, gen)
	}
}

// CollectHandlers returns every handler in the tree keyed by
// "<hid>_<event>" (e.g., "h1_onclick"). Nodes without a HID are skipped.
func CollectHandlers(node *VNode) map[string]any {
	result := make(map[string]any)
	collectHandlers(node, result)
	return result
}

func collectHandlers(node *VNode, result map[string]any) {
	if node == nil {
		return
	}
	if node.HID != "" {
		for key, value := range node.Props {
			if value != nil && isEventProp(key) {
				result[HandlerKey(node.HID, key[2:])] = value
			}
		}
	}
	for _, child := range node.Children {
		collectHandlers(child, result)
	}
}

// HandlerKey builds the lookup key for a handler on an element.
// eventType is given without the "on" prefix.
func HandlerKey(hid, eventType string) string {
	return hid + "_on" + eventType
}

// FindByHID finds a node by its HID in the tree.
func FindByHID(node *VNode, hid string) *VNode {
	if node == nil {
		return nil
	}

	if node.HID == hid {
		return node
	}

	for _, child := range node.Children {
		if found := FindByHID(child, hid); found != nil {
			return found
		}
	}

	return nil
}

// FindByKey returns the first node in the tree carrying key.
func FindByKey(node *VNode, key string) *VNode {
	if node == nil {
		return nil
	}
	if node.Key == key {
		return node
	}
	for _, child := range node.Children {
		if found := FindByKey(child, key); found != nil {
			return found
		}
	}
	return nil
}

// CountInteractive returns the number of interactive elements in the tree.
func CountInteractive(node *VNode) int {
	if node == nil {
		return 0
	}

	count := 0
	if node.Kind == KindElement && node.IsInteractive() {
		count = 1
	}

	for _, child := range node.Children {
		count += CountInteractive(child)
	}

	return count
}
