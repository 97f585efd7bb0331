package twig

// HostNode is an opaque handle to a node owned by the host platform. The
// engine never inspects host nodes; it only passes them back to the Adapter.
type HostNode any

// Adapter is the host platform consumed by the reconciler. Implementations
// own the concrete rendered tree; the engine tells them what to create,
// mutate, insert and remove, always relative to explicit parents and anchors.
//
// ApplyProps receives both the previous and the next property list and is
// responsible for touching only changed keys: event-handler properties
// attach and detach listeners by function identity, a "style" map diffs per
// sub-key, "class" sets directly, boolean values toggle presence, and
// everything else is set as an attribute (and, best effort, a property).
//
// Parent and NextSibling are read-backs used by the reconciler to keep child
// placement idempotent: a node already in its wanted position is left alone.
type Adapter interface {
	CreateNode(tag string) HostNode
	CreateText(text string) HostNode
	SetText(n HostNode, text string)
	ApplyProps(n HostNode, old, new Props)
	InsertBefore(parent, n, anchor HostNode)
	RemoveChild(parent, n HostNode)
	Parent(n HostNode) HostNode
	NextSibling(n HostNode) HostNode
}
