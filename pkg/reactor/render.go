package reactor

import (
	"context"
	"errors"
	"runtime/debug"

	"github.com/vango-go/reactor/pkg/deps"
	"github.com/vango-go/reactor/pkg/vdom"
)

// render runs one instance's Render and reconciles its children, rendering
// the ones that are new, dirty, or received a different component value.
// A returned error is fatal for the root.
func (r *Root) render(inst *Instance) error {
	r.unschedule(inst)

	r.passRenders[inst]++
	if r.passRenders[inst] > r.cfg.MaxPasses {
		return ErrRenderLimit
	}

	for _, h := range inst.hooks {
		if cell, ok := h.(*stateCell); ok {
			cell.fold()
		}
	}

	out, err := r.invokeRender(inst)
	if err != nil {
		return err
	}
	if err := inst.checkHookCount(); err != nil {
		return err
	}
	inst.rendered = true
	inst.renders++
	inst.tree = out
	r.counters.renders.Add(1)
	r.passNames = append(r.passNames, inst.name)
	r.metrics.observeRender(inst.name)
	if r.cfg.DebugMode {
		r.logger.Debug("render", "component", inst.name, "id", inst.id, "depth", inst.depth)
	}

	return r.reconcileChildren(inst, out)
}

func (r *Root) invokeRender(inst *Instance) (out *vdom.VNode, err error) {
	inst.hookIdx = 0
	inst.rendering = true
	defer func() {
		inst.rendering = false
		if p := recover(); p != nil {
			if e, ok := p.(error); ok {
				var stateErr *InconsistentStateShapeError
				var effectErr *InconsistentEffectShapeError
				if errors.As(e, &stateErr) || errors.As(e, &effectErr) {
					err = e
					return
				}
			}
			err = &RenderError{Component: inst.name, Value: p, Stack: debug.Stack()}
		}
	}()

	base := r.phaseCtx
	if base == nil {
		base = r.ctx
	}
	ctx := context.WithValue(base, scopeKey{}, inst)
	return inst.comp.Render(ctx), nil
}

type childGroup struct {
	descs []Descriptor
	nodes []*vdom.VNode
}

// reconcileChildren matches the component placeholders of out against the
// instance's previous children, group by group, then renders the children
// that need it.
func (r *Root) reconcileChildren(inst *Instance, out *vdom.VNode) error {
	groups := make(map[string]*childGroup)
	var order []string
	collectComponents(out, 0, "", groups, &order)

	nextGroups := make(map[string][]*ChildSlot, len(groups))
	slots := make(map[*vdom.VNode]*Instance)
	children := make([]*Instance, 0, len(inst.children))
	type pending struct {
		child *Instance
		comp  vdom.Component
		fresh bool
	}
	var work []pending

	for _, path := range order {
		g := groups[path]
		plan := ReconcileList(inst.groups[path], g.descs)
		for _, key := range plan.Duplicates {
			r.logger.Warn("duplicate key among siblings", "component", inst.name, "key", key)
		}
		for _, s := range plan.Removed {
			r.retire(s.Instance)
		}
		for i, s := range plan.Slots {
			d := g.descs[i]
			fresh := s.Instance == nil
			if fresh {
				s.Instance = newInstance(r, inst, d.Component, s.Key)
				r.counters.mounted.Add(1)
				r.metrics.observeMount()
			}
			slots[g.nodes[i]] = s.Instance
			children = append(children, s.Instance)
			work = append(work, pending{child: s.Instance, comp: d.Component, fresh: fresh})
		}
		nextGroups[path] = plan.Slots
	}
	for path, prev := range inst.groups {
		if _, ok := nextGroups[path]; ok {
			continue
		}
		for _, s := range prev {
			r.retire(s.Instance)
		}
	}

	inst.groups = nextGroups
	inst.slots = slots
	inst.children = children

	for _, w := range work {
		if !w.fresh && !r.isScheduled(w.child) && deps.Same(w.child.comp, w.comp) {
			continue
		}
		w.child.comp = w.comp
		if err := r.render(w.child); err != nil {
			return err
		}
	}
	return nil
}

// retire detaches an instance that left the tree. It is disposed after the
// commit that no longer shows it.
func (r *Root) retire(inst *Instance) {
	if inst == nil || inst.detached.Load() {
		return
	}
	inst.detach()
	r.disposals = append(r.disposals, inst)
}

// collectComponents gathers component placeholders by sibling group. A
// group is named by the path of keys and indices from the render output
// root to the placeholders' parent node.
func collectComponents(node *vdom.VNode, index int, parent string, groups map[string]*childGroup, order *[]string) {
	if node == nil {
		return
	}
	if node.Kind == vdom.KindComponent {
		if node.Comp == nil {
			return
		}
		g, ok := groups[parent]
		if !ok {
			g = &childGroup{}
			groups[parent] = g
			*order = append(*order, parent)
		}
		g.descs = append(g.descs, Descriptor{Key: node.Key, Index: index, Component: node.Comp})
		g.nodes = append(g.nodes, node)
		return
	}
	path := parent + "/" + slotKey(node.Key, index)
	for i, child := range node.Children {
		collectComponents(child, i, path, groups, order)
	}
}

// resolve returns a copy of the instance's last output with every component
// placeholder replaced by the resolved output of its instance.
func resolve(inst *Instance) *vdom.VNode {
	return resolveNode(inst, inst.tree)
}

func resolveNode(inst *Instance, n *vdom.VNode) *vdom.VNode {
	if n == nil {
		return nil
	}
	switch n.Kind {
	case vdom.KindComponent:
		child := inst.slots[n]
		if child == nil {
			return nil
		}
		out := resolve(child)
		if out != nil && out.Key == "" {
			out.Key = n.Key
		}
		return out
	case vdom.KindText:
		cp := *n
		return &cp
	}

	cp := *n
	cp.HID = ""
	cp.Children = make([]*vdom.VNode, 0, len(n.Children))
	for _, c := range n.Children {
		if rc := resolveNode(inst, c); rc != nil {
			cp.Children = append(cp.Children, rc)
		}
	}
	return &cp
}
