package reactor

import (
	"reflect"
	"strconv"

	"github.com/vango-go/reactor/pkg/vdom"
)

// ChildSlot is one position in a sibling group and the instance living in
// it.
type ChildSlot struct {
	Key      string
	Instance *Instance
}

// Descriptor describes one component the parent rendered into a sibling
// group.
type Descriptor struct {
	// Key is the explicit key, or empty to fall back to Index.
	Key string
	// Index is the position among all siblings, keyed or not.
	Index     int
	Component vdom.Component
}

// ReconcilePlan is the outcome of matching a sibling group.
type ReconcilePlan struct {
	// Slots is aligned with the descriptors. A slot with a nil Instance
	// needs a fresh instance.
	Slots []*ChildSlot
	// Removed lists previous slots whose instances must be disposed, in
	// previous order.
	Removed []*ChildSlot
	// Duplicates lists explicit keys used more than once. Every repeat
	// after the first gets a slot of its own that is not matched across
	// renders.
	Duplicates []string
}

// slotKey is the identity of a sibling: the explicit key when present,
// the position otherwise.
//
// Positional identity follows the index, not the item. Removing or
// inserting anywhere but the end of an unkeyed list hands each later
// item the state of the item that used to sit at its index.
func slotKey(key string, index int) string {
	if key != "" {
		return "k:" + key
	}
	return "i:" + strconv.Itoa(index)
}

// ReconcileList matches the previous slots of a sibling group against the
// newly rendered descriptors in linear time. A slot survives when its key
// reappears with a component of the same type; a key that comes back with
// a different type is replaced.
func ReconcileList(prev []*ChildSlot, next []Descriptor) ReconcilePlan {
	// Entries map to the unmatched previous slot, or to nil once the key
	// has been taken by a descriptor.
	byKey := make(map[string]*ChildSlot, len(prev)+len(next))
	for _, s := range prev {
		byKey[s.Key] = s
	}
	kept := make(map[*ChildSlot]struct{}, len(prev))

	plan := ReconcilePlan{Slots: make([]*ChildSlot, len(next))}
	for i, d := range next {
		key := slotKey(d.Key, d.Index)
		s, seen := byKey[key]
		if seen && s == nil {
			plan.Duplicates = append(plan.Duplicates, d.Key)
			plan.Slots[i] = &ChildSlot{Key: duplicateKey(key, d.Index)}
			continue
		}
		byKey[key] = nil

		if s != nil && s.Instance != nil && !sameType(s.Instance.comp, d.Component) {
			s = nil
		}
		if s == nil {
			s = &ChildSlot{Key: key}
		} else {
			kept[s] = struct{}{}
		}
		plan.Slots[i] = s
	}

	for _, s := range prev {
		if _, ok := kept[s]; !ok {
			plan.Removed = append(plan.Removed, s)
		}
	}
	return plan
}

// duplicateKey names the slot of a repeated key. The "d:" prefix keeps it
// apart from every key slotKey produces.
func duplicateKey(key string, index int) string {
	return "d:" + key + "#" + strconv.Itoa(index)
}

// sameType reports whether b can reuse an instance created for a.
func sameType(a, b vdom.Component) bool {
	if reflect.TypeOf(a) != reflect.TypeOf(b) {
		return false
	}
	return vdom.ComponentName(a) == vdom.ComponentName(b)
}
