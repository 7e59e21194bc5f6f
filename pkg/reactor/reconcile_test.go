package reactor

import (
	"context"
	"reflect"
	"strings"
	"testing"

	"github.com/vango-go/reactor/pkg/vdom"
)

type rowA struct{ label string }

func (rowA) Render(context.Context) *vdom.VNode { return nil }

type rowB struct{ label string }

func (rowB) Render(context.Context) *vdom.VNode { return nil }

func slotsFor(keys ...string) []*ChildSlot {
	out := make([]*ChildSlot, len(keys))
	for i, k := range keys {
		out[i] = &ChildSlot{Key: k, Instance: &Instance{id: uint64(i + 1), comp: rowA{}}}
	}
	return out
}

func TestReconcileListKeyed(t *testing.T) {
	prev := slotsFor("k:a", "k:b", "k:c")
	plan := ReconcileList(prev, []Descriptor{
		{Key: "a", Index: 0, Component: rowA{}},
		{Key: "c", Index: 1, Component: rowA{}},
	})

	if plan.Slots[0] != prev[0] || plan.Slots[1] != prev[2] {
		t.Errorf("keyed slots not reused: %+v", plan.Slots)
	}
	if len(plan.Removed) != 1 || plan.Removed[0] != prev[1] {
		t.Errorf("removed = %+v, want slot b", plan.Removed)
	}
}

func TestReconcileListReorderKeepsIdentity(t *testing.T) {
	prev := slotsFor("k:a", "k:b", "k:c")
	plan := ReconcileList(prev, []Descriptor{
		{Key: "c", Index: 0, Component: rowA{}},
		{Key: "a", Index: 1, Component: rowA{}},
		{Key: "b", Index: 2, Component: rowA{}},
		{Key: "d", Index: 3, Component: rowA{}},
	})

	got := []*ChildSlot{plan.Slots[0], plan.Slots[1], plan.Slots[2]}
	want := []*ChildSlot{prev[2], prev[0], prev[1]}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("reordered slots lost identity")
	}
	if plan.Slots[3].Instance != nil || plan.Slots[3].Key != "k:d" {
		t.Errorf("new key should get a fresh slot, got %+v", plan.Slots[3])
	}
	if len(plan.Removed) != 0 {
		t.Errorf("removed = %+v", plan.Removed)
	}
}

func TestReconcileListPositional(t *testing.T) {
	prev := slotsFor("i:0", "i:1", "i:2")
	plan := ReconcileList(prev, []Descriptor{
		{Index: 0, Component: rowA{label: "a"}},
		{Index: 1, Component: rowA{label: "c"}},
	})

	// Without keys the item now at index 1 inherits the slot of the
	// removed item, and the last slot is the one disposed.
	if plan.Slots[0] != prev[0] || plan.Slots[1] != prev[1] {
		t.Errorf("positional slots not reused by index")
	}
	if len(plan.Removed) != 1 || plan.Removed[0] != prev[2] {
		t.Errorf("removed = %+v, want the trailing slot", plan.Removed)
	}
}

func TestReconcileListTypeChangeReplaces(t *testing.T) {
	prev := slotsFor("k:a", "k:b")
	plan := ReconcileList(prev, []Descriptor{
		{Key: "a", Index: 0, Component: rowB{}},
		{Key: "b", Index: 1, Component: rowA{}},
	})

	if plan.Slots[0] == prev[0] || plan.Slots[0].Instance != nil {
		t.Error("slot with a different component type should be replaced")
	}
	if plan.Slots[1] != prev[1] {
		t.Error("same-type slot should be reused")
	}
	if len(plan.Removed) != 1 || plan.Removed[0] != prev[0] {
		t.Errorf("removed = %+v", plan.Removed)
	}
}

func TestReconcileListDuplicateKeys(t *testing.T) {
	plan := ReconcileList(nil, []Descriptor{
		{Key: "x", Index: 0, Component: rowA{}},
		{Key: "x", Index: 1, Component: rowA{}},
	})
	if len(plan.Duplicates) != 1 || plan.Duplicates[0] != "x" {
		t.Errorf("duplicates = %v", plan.Duplicates)
	}
	if plan.Slots[0].Key == plan.Slots[1].Key {
		t.Error("duplicate key should get its own slot")
	}
}

// item keeps the label it was mounted with in state, so a mismatch between
// the current prop and the remembered label exposes a moved identity.
type item struct {
	label    string
	unmounts *[]string
}

func (it item) Render(ctx context.Context) *vdom.VNode {
	mountedAs, _ := UseState(ctx, it.label)
	OnUnmount(ctx, func() { *it.unmounts = append(*it.unmounts, mountedAs) })
	return vdom.Li(vdom.Textf("%s=%s;", it.label, mountedAs))
}

func list(keyed bool, unmounts *[]string) (vdom.Component, *Setter[[]string]) {
	set := new(Setter[[]string])
	return fn("List", func(ctx context.Context) *vdom.VNode {
		items, s := UseState(ctx, []string{"a", "b", "c"})
		*set = s
		return vdom.Ul(vdom.Range(items, func(label string, _ int) *vdom.VNode {
			if keyed {
				return vdom.Mount(item{label: label, unmounts: unmounts}, label)
			}
			return vdom.Mount(item{label: label, unmounts: unmounts})
		}))
	}), set
}

func childIDs(r *Root) map[string]uint64 {
	ids := map[string]uint64{}
	for _, child := range find(r, "List").children {
		ids[child.comp.(item).label] = child.id
	}
	return ids
}

func TestKeyedRemovalPreservesIdentity(t *testing.T) {
	var unmounts []string
	comp, set := list(true, &unmounts)
	r, _, _ := newTestRoot(t)
	mount(t, r, comp)
	before := childIDs(r)

	if err := r.Act(func() { set.Set([]string{"a", "c"}) }); err != nil {
		t.Fatal(err)
	}
	after := childIDs(r)

	if after["a"] != before["a"] || after["c"] != before["c"] {
		t.Errorf("instances replaced: before %v, after %v", before, after)
	}
	if !reflect.DeepEqual(unmounts, []string{"b"}) {
		t.Errorf("unmounted = %v, want [b]", unmounts)
	}
	if got := text(r); got != "a=a;c=c;" {
		t.Errorf("text = %q", got)
	}
	if vdom.FindByKey(r.Tree(), "c") == nil {
		t.Error("resolved tree should carry the component key on its output")
	}
}

func TestUnkeyedRemovalShiftsState(t *testing.T) {
	var unmounts []string
	comp, set := list(false, &unmounts)
	r, _, _ := newTestRoot(t)
	mount(t, r, comp)
	before := find(r, "List").Children()

	if err := r.Act(func() { set.Set([]string{"a", "c"}) }); err != nil {
		t.Fatal(err)
	}
	after := find(r, "List").Children()

	if after[1] != before[1] {
		t.Error("index 1 should keep its instance")
	}
	// The instance mounted for "b" now renders "c": its state moved.
	if got := text(r); got != "a=a;c=b;" {
		t.Errorf("text = %q, want a=a;c=b;", got)
	}
	if !reflect.DeepEqual(unmounts, []string{"c"}) {
		t.Errorf("unmounted = %v, want [c] (the trailing instance)", unmounts)
	}
}

func TestComponentsInsideKeyedElementsFollowTheKey(t *testing.T) {
	var unmounts []string
	var set Setter[[]string]
	r, _, _ := newTestRoot(t)
	mount(t, r, fn("Rows", func(ctx context.Context) *vdom.VNode {
		rows, s := UseState(ctx, []string{"x", "y"})
		set = s
		return vdom.Div(vdom.Range(rows, func(label string, _ int) *vdom.VNode {
			return vdom.Div(vdom.Key(label), item{label: label, unmounts: &unmounts})
		}))
	}))

	if err := r.Act(func() { set.Set([]string{"y"}) }); err != nil {
		t.Fatal(err)
	}
	if got := text(r); got != "y=y;" {
		t.Errorf("text = %q, want y=y;", got)
	}
	if !reflect.DeepEqual(unmounts, []string{"x"}) {
		t.Errorf("unmounted = %v", unmounts)
	}
}

func TestSwitchingComponentTypeRemounts(t *testing.T) {
	var useB Setter[bool]
	var unmounts []string
	r, _, _ := newTestRoot(t)
	mount(t, r, fn("Switch", func(ctx context.Context) *vdom.VNode {
		b, s := UseState(ctx, false)
		useB = s
		if b {
			return vdom.Div(fn("B", func(ctx context.Context) *vdom.VNode {
				return vdom.Text("b")
			}))
		}
		return vdom.Div(item{label: "a", unmounts: &unmounts})
	}))

	if err := r.Act(func() { useB.Set(true) }); err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(unmounts, []string{"a"}) {
		t.Errorf("unmounted = %v, want [a]", unmounts)
	}
	if got := text(r); !strings.Contains(got, "b") {
		t.Errorf("text = %q", got)
	}
}

func TestReconcileListRepeatedKeyDoesNotShadowExplicitKey(t *testing.T) {
	first := ReconcileList(nil, []Descriptor{
		{Key: "a", Index: 0, Component: rowA{}},
		{Key: "a", Index: 1, Component: rowA{}},
		{Key: "a#1", Index: 2, Component: rowA{}},
	})
	seen := map[string]bool{}
	for _, s := range first.Slots {
		if seen[s.Key] {
			t.Fatalf("slot key %q used twice", s.Key)
		}
		seen[s.Key] = true
		s.Instance = &Instance{comp: rowA{}}
	}

	plan := ReconcileList(first.Slots, []Descriptor{
		{Key: "a#1", Index: 0, Component: rowA{}},
	})
	if plan.Slots[0] != first.Slots[2] {
		t.Error("explicit key a#1 should keep its slot")
	}
	if len(plan.Removed) != 2 || plan.Removed[0] != first.Slots[0] || plan.Removed[1] != first.Slots[1] {
		t.Errorf("removed = %+v, want both a slots", plan.Removed)
	}
}

func TestRepeatedKeysAreDisposedWithTheirList(t *testing.T) {
	var unmounts []string
	var set Setter[[]string]
	r, _, _ := newTestRoot(t)
	mount(t, r, fn("List", func(ctx context.Context) *vdom.VNode {
		keys, s := UseState(ctx, []string{"a", "a", "a#1"})
		set = s
		return vdom.Ul(vdom.Range(keys, func(key string, _ int) *vdom.VNode {
			return vdom.Mount(item{label: key, unmounts: &unmounts}, key)
		}))
	}))
	if got := r.Stats().Mounted; got != 4 {
		t.Fatalf("Mounted = %d, want 4", got)
	}

	if err := r.Act(func() { set.Set([]string{"a#1"}) }); err != nil {
		t.Fatal(err)
	}
	if got := r.Stats().Mounted; got != 2 {
		t.Errorf("Mounted = %d, want 2", got)
	}
	if !reflect.DeepEqual(unmounts, []string{"a", "a"}) {
		t.Errorf("unmounted = %v, want [a a]", unmounts)
	}
}
