package twig

// instance is a materialized render-tree node mirroring host state for one
// virtual node. Instances are exclusively owned by their parent's children
// sequence, so the tree is acyclic by construction. An instance is created at
// mount, rewritten in place on update, and dropped at unmount. Exactly one
// instance tree is current at any time; it is swapped atomically at the end
// of each render pass.
type instance struct {
	kind Kind
	// host is the owned host node; nil for component and fragment instances,
	// whose representative node is found by traversal.
	host  HostNode
	vnode *VNode
	key   any
	path  Path
	// children holds one instance per reconciled child. A component instance
	// has exactly one child (possibly nil, when the component rendered
	// nothing).
	children []*instance
}

// firstHost returns the representative host node of an instance: its own
// host node, or the first one found by depth-first traversal of its
// children. Nil when the subtree renders nothing.
func firstHost(inst *instance) HostNode {
	if inst == nil {
		return nil
	}
	if inst.host != nil {
		return inst.host
	}
	for _, c := range inst.children {
		if h := firstHost(c); h != nil {
			return h
		}
	}
	return nil
}

// collectHosts appends, in tree order, the top-level host nodes of the
// subtree rooted at inst: the nodes whose host parent is inst's host parent.
// For a host or text instance that is the node itself; for a component or
// fragment it is the union over children.
func collectHosts(inst *instance, acc []HostNode) []HostNode {
	if inst == nil {
		return acc
	}
	if inst.host != nil {
		return append(acc, inst.host)
	}
	for _, c := range inst.children {
		acc = collectHosts(c, acc)
	}
	return acc
}

// insertSubtree inserts every top-level host node of inst into parent, in
// order, before anchor (nil anchor appends).
func insertSubtree(a Adapter, parent HostNode, inst *instance, anchor HostNode) {
	for _, h := range collectHosts(inst, nil) {
		a.InsertBefore(parent, h, anchor)
	}
}

// removeSubtree detaches every top-level host node of inst from parent. It
// does not touch hook state; state teardown is coordinated separately so that
// "remove from the host tree" stays decoupled from "tear down component
// state".
func removeSubtree(a Adapter, parent HostNode, inst *instance) {
	for _, h := range collectHosts(inst, nil) {
		a.RemoveChild(parent, h)
	}
}

// moveSubtree detaches every top-level host node of inst from its current
// parent and reinserts it into parent before anchor. Insertion order is
// preserved because each node lands immediately before the same anchor.
func moveSubtree(a Adapter, parent HostNode, inst *instance, anchor HostNode) {
	for _, h := range collectHosts(inst, nil) {
		if cur := a.Parent(h); cur != nil {
			a.RemoveChild(cur, h)
		}
		a.InsertBefore(parent, h, anchor)
	}
}
