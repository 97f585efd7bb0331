package twig

import "fmt"

// reconcile diffs an old instance against a new virtual node at the given
// path and returns the instance that now occupies the position. parent is the
// host node children mount into; anchor is the host node new subtrees must
// land before (nil appends).
//
// A nil new node detaches the old subtree from the host tree and returns nil;
// hook-state teardown for the vacated paths is handled by the caller (either
// the keyed-diff bookkeeping or the post-pass orphan collection), keeping
// host-tree removal decoupled from state teardown.
func (rt *Runtime) reconcile(parent HostNode, old *instance, v *VNode, p Path, anchor HostNode) *instance {
	if v == nil {
		if old != nil {
			removeSubtree(rt.adapter, parent, old)
		}
		return nil
	}
	if old == nil {
		return rt.mount(parent, v, p, anchor)
	}
	if !sameIdentity(old.vnode, v) || !identical(old.key, v.Key) {
		// Identity changed: this is an unmount plus a mount, not a patch. The
		// vacated position's hook state is torn down now so the fresh mount
		// starts empty.
		removeSubtree(rt.adapter, parent, old)
		rt.teardownState(p)
		return rt.mount(parent, v, p, anchor)
	}
	rt.update(parent, old, v, p)
	return old
}

// mount materializes a virtual node that has no previous instance.
func (rt *Runtime) mount(parent HostNode, v *VNode, p Path, anchor HostNode) *instance {
	inst := &instance{kind: v.Kind, vnode: v, key: v.Key, path: p}
	switch v.Kind {
	case KindText:
		inst.host = rt.adapter.CreateText(v.Text)
		rt.adapter.InsertBefore(parent, inst.host, anchor)
	case KindFragment:
		inst.children = rt.mountChildren(parent, v.Children, p, anchor)
	case KindComponent:
		// A previous occupant of this path may have left state behind (for
		// example an unkeyed sibling that moved away); a fresh mount must not
		// inherit it.
		rt.teardownState(p)
		child := rt.invoke(v, p)
		inst.children = []*instance{rt.reconcile(parent, nil, child, p.childPath(childKey(child), 0), anchor)}
	case KindHost:
		inst.host = rt.adapter.CreateNode(v.Tag)
		rt.adapter.ApplyProps(inst.host, nil, v.Props)
		inst.children = rt.mountChildren(inst.host, v.Children, p, nil)
		rt.adapter.InsertBefore(parent, inst.host, anchor)
	default:
		panic(fmt.Sprintf("twig: mount of %v node", v.Kind))
	}
	return inst
}

// mountChildren mounts a child list in order. Every child is inserted before
// the same anchor, which preserves sibling order.
func (rt *Runtime) mountChildren(parent HostNode, vs []*VNode, p Path, anchor HostNode) []*instance {
	insts := make([]*instance, len(vs))
	for i, cv := range vs {
		insts[i] = rt.mount(parent, cv, p.childPath(cv.Key, i), anchor)
	}
	return insts
}

// update patches an instance in place against a new virtual node of the same
// identity.
func (rt *Runtime) update(parent HostNode, inst *instance, v *VNode, p Path) {
	if inst.path != p {
		// The instance shifted position. The new path may still hold the
		// previous occupant's hook state, which must not leak into the
		// shifted subtree; the shifted subtree's own state at its old paths
		// is collected as orphans after the pass.
		rt.teardownState(p)
	}
	old := inst.vnode
	inst.vnode = v
	inst.path = p
	switch inst.kind {
	case KindText:
		if inst.host == nil {
			panic("twig: text instance without host node")
		}
		if old.Text != v.Text {
			rt.adapter.SetText(inst.host, v.Text)
		}
	case KindHost:
		if inst.host == nil {
			panic("twig: host instance without host node")
		}
		rt.adapter.ApplyProps(inst.host, old.Props, v.Props)
		inst.children = rt.reconcileChildren(inst.host, inst.children, v.Children, p)
	case KindFragment:
		inst.children = rt.reconcileChildren(parent, inst.children, v.Children, p)
	case KindComponent:
		child := rt.invoke(v, p)
		var oldChild *instance
		if len(inst.children) > 0 {
			oldChild = inst.children[0]
		}
		// Should the child remount, the replacement must land where the old
		// subtree sat, not at the end of the parent.
		var anchor HostNode
		if rep := firstHost(oldChild); rep != nil {
			anchor = rt.adapter.NextSibling(rep)
		}
		cp := p.childPath(childKey(child), 0)
		inst.children = []*instance{rt.reconcile(parent, oldChild, child, cp, anchor)}
	default:
		panic(fmt.Sprintf("twig: update of %v instance", inst.kind))
	}
}

// invoke calls a component function. The path is recorded as visited and
// pushed onto the active-invocation stack for the duration of the call; the
// stack is popped even when the component panics. A panicking component
// renders nothing for this pass: the error is logged, not propagated.
func (rt *Runtime) invoke(v *VNode, p Path) (child *VNode) {
	rt.visited[p] = true
	c := &Context{rt: rt, path: p, props: v.Props, children: v.Children}
	rt.stack = append(rt.stack, p)
	defer func() {
		rt.stack = rt.stack[:len(rt.stack)-1]
		if r := recover(); r != nil {
			logger.Printf("component at %q panicked: %v", p, r)
			child = nil
		}
	}()
	return v.Comp(c)
}

// childKey returns the key of a possibly nil virtual node.
func childKey(v *VNode) any {
	if v == nil {
		return nil
	}
	return v.Key
}

// oldChild is bookkeeping for one previous child during the keyed diff.
type oldChild struct {
	inst     *instance
	consumed bool
}

// reconcileChildren diffs an ordered child list. A key match always wins over
// a positional match, even across positions, giving O(children) reordering
// without a full LCS; unkeyed children match the first remaining previous
// child with the same identity. After matching, a back-to-front placement
// pass moves only the host nodes that are not already in their wanted spot.
func (rt *Runtime) reconcileChildren(parent HostNode, olds []*instance, vs []*VNode, p Path) []*instance {
	prev := make([]oldChild, len(olds))
	byKey := make(map[any]int)
	for i, o := range olds {
		prev[i] = oldChild{inst: o}
		if o != nil && o.key != nil {
			byKey[o.key] = i
		}
	}

	take := func(i int) *instance {
		prev[i].consumed = true
		return prev[i].inst
	}
	// Match the first unconsumed previous child with the same identity and
	// key (both nil counts as matching keys).
	takeMatch := func(v *VNode) *instance {
		for i, o := range prev {
			if o.consumed || o.inst == nil {
				continue
			}
			if identical(o.inst.key, v.Key) && sameIdentity(o.inst.vnode, v) {
				return take(i)
			}
		}
		return nil
	}

	news := make([]*instance, len(vs))
	// Resolve back to front, maintaining the anchor new mounts land before.
	var anchor HostNode
	for i := len(vs) - 1; i >= 0; i-- {
		v := vs[i]
		cp := p.childPath(v.Key, i)
		var matched *instance
		if v.Key != nil {
			if j, ok := byKey[v.Key]; ok && !prev[j].consumed {
				matched = take(j)
			}
		} else {
			matched = takeMatch(v)
		}
		if matched != nil && sameIdentity(matched.vnode, v) {
			rt.update(parent, matched, v, cp)
			news[i] = matched
		} else {
			if matched != nil {
				// Key matched but the type changed: unmount plus mount.
				removeSubtree(rt.adapter, parent, matched)
				rt.teardownState(cp)
			}
			news[i] = rt.mount(parent, v, cp, anchor)
		}
		if h := firstHost(news[i]); h != nil {
			anchor = h
		}
	}

	// Previous children not matched by any new child are unmounted before
	// placement, so leftovers do not read as misplacements.
	for _, o := range prev {
		if !o.consumed && o.inst != nil {
			removeSubtree(rt.adapter, parent, o.inst)
		}
	}

	// Placement pass: walk back to front again, verifying that each child's
	// representative host node already sits under parent immediately before
	// the wanted anchor. Only misplaced subtrees are moved.
	anchor = nil
	for i := len(news) - 1; i >= 0; i-- {
		rep := firstHost(news[i])
		if rep == nil {
			continue
		}
		if rt.adapter.Parent(rep) != parent || rt.adapter.NextSibling(rep) != anchor {
			moveSubtree(rt.adapter, parent, news[i], anchor)
		}
		anchor = rep
	}
	return news
}
