// Package twigtest supports testing twig components and the engine itself.
//
// It provides an in-memory host adapter that implements the full property
// diff semantics and records every mutation it performs in an ordered op log,
// so tests can assert not just on the final tree but on exactly how it was
// reached ("no mutations at all", "a reorder and nothing else").
//
// Note on the nature of the fixture: the real render loop is a continuously
// running push system, while the fixture is an on-demand pull system. Nothing
// happens between calls; a state change made by a test is not observable in
// the tree until the next Turn.
package twigtest

import (
	"fmt"
	"reflect"
	"sort"
	"strings"

	"src.twig.sh/pkg/twig"
)

// Node is an in-memory host node.
type Node struct {
	ID   int
	Tag  string // empty for text nodes
	Text string

	Attrs     map[string]any
	Props     map[string]any // the "direct property" side of attribute sets
	Style     map[string]string
	Class     string
	Listeners map[string]any

	Children []*Node
	parent   *Node
}

func newNode(id int, tag string) *Node {
	return &Node{
		ID:        id,
		Tag:       tag,
		Attrs:     make(map[string]any),
		Props:     make(map[string]any),
		Style:     make(map[string]string),
		Listeners: make(map[string]any),
	}
}

func (n *Node) String() string {
	if n.Tag == "" {
		return fmt.Sprintf("text#%d", n.ID)
	}
	return fmt.Sprintf("%s#%d", n.Tag, n.ID)
}

// Fire invokes the listener for the named event, if any, and reports whether
// one was attached. Listeners may be func() or func(any).
func (n *Node) Fire(event string, arg any) bool {
	l, ok := n.Listeners[event]
	if !ok {
		return false
	}
	switch f := l.(type) {
	case func():
		f()
	case func(any):
		f(arg)
	default:
		panic(fmt.Sprintf("twigtest: listener for %q has unsupported type %T", event, l))
	}
	return true
}

// Host is an in-memory host adapter with an op log.
type Host struct {
	nextID int
	ops    []string
}

var _ twig.Adapter = (*Host)(nil)

// New creates an empty Host.
func New() *Host {
	return &Host{}
}

// NewContainer creates a detached node usable as a mount container. Its
// creation is not logged.
func (h *Host) NewContainer() *Node {
	h.nextID++
	return newNode(h.nextID, "root")
}

// PopOps returns the mutations performed since the last call and clears the
// log.
func (h *Host) PopOps() []string {
	ops := h.ops
	h.ops = nil
	return ops
}

func (h *Host) logf(format string, args ...any) {
	h.ops = append(h.ops, fmt.Sprintf(format, args...))
}

func (h *Host) CreateNode(tag string) twig.HostNode {
	h.nextID++
	n := newNode(h.nextID, tag)
	h.logf("create %s", n)
	return n
}

func (h *Host) CreateText(text string) twig.HostNode {
	h.nextID++
	n := newNode(h.nextID, "")
	n.Text = text
	h.logf("create %s %q", n, text)
	return n
}

func (h *Host) SetText(hn twig.HostNode, text string) {
	n := hn.(*Node)
	n.Text = text
	h.logf("set-text %s %q", n, text)
}

func (h *Host) InsertBefore(parent, hn, anchor twig.HostNode) {
	p := parent.(*Node)
	n := hn.(*Node)
	if n.parent != nil {
		panic(fmt.Sprintf("twigtest: insert of attached node %s", n))
	}
	if anchor == nil {
		p.Children = append(p.Children, n)
		h.logf("insert %s -> %s at end", n, p)
	} else {
		a := anchor.(*Node)
		i := childIndex(p, a)
		if i < 0 {
			panic(fmt.Sprintf("twigtest: anchor %s is not a child of %s", a, p))
		}
		p.Children = append(p.Children[:i], append([]*Node{n}, p.Children[i:]...)...)
		h.logf("insert %s -> %s before %s", n, p, a)
	}
	n.parent = p
}

func (h *Host) RemoveChild(parent, hn twig.HostNode) {
	p := parent.(*Node)
	n := hn.(*Node)
	i := childIndex(p, n)
	if i < 0 {
		panic(fmt.Sprintf("twigtest: remove of %s, not a child of %s", n, p))
	}
	p.Children = append(p.Children[:i], p.Children[i+1:]...)
	n.parent = nil
	h.logf("remove %s <- %s", n, p)
}

func (h *Host) Parent(hn twig.HostNode) twig.HostNode {
	n := hn.(*Node)
	if n.parent == nil {
		return nil
	}
	return n.parent
}

func (h *Host) NextSibling(hn twig.HostNode) twig.HostNode {
	n := hn.(*Node)
	if n.parent == nil {
		return nil
	}
	i := childIndex(n.parent, n)
	if i < 0 || i+1 >= len(n.parent.Children) {
		return nil
	}
	return n.parent.Children[i+1]
}

func childIndex(p, n *Node) int {
	for i, c := range p.Children {
		if c == n {
			return i
		}
	}
	return -1
}

// ApplyProps applies a property diff: removed keys are cleared, added and
// changed keys are (re)applied, and unchanged keys are left alone. Event
// handlers ("on" prefix) attach and detach by function identity, "style"
// maps diff per sub-key, "class" sets directly, boolean values toggle
// presence, and everything else sets both an attribute and a property.
func (h *Host) ApplyProps(hn twig.HostNode, old, new twig.Props) {
	n := hn.(*Node)
	for _, p := range old {
		if _, ok := new.Index(p.Key); !ok {
			h.clearProp(n, p.Key, p.Val)
		}
	}
	for _, p := range new {
		ov, had := old.Index(p.Key)
		h.setProp(n, p.Key, ov, had, p.Val)
	}
}

func (h *Host) clearProp(n *Node, key string, old any) {
	switch {
	case isEvent(key):
		delete(n.Listeners, eventName(key))
		h.logf("unlisten %s %s", n, eventName(key))
	case key == "style":
		if om, ok := old.(map[string]string); ok {
			for _, k := range sortedKeys(om) {
				delete(n.Style, k)
				h.logf("unstyle %s %s", n, k)
			}
		}
	case key == "class":
		n.Class = ""
		h.logf("class %s %q", n, "")
	default:
		delete(n.Attrs, key)
		delete(n.Props, key)
		h.logf("remove-attr %s %s", n, key)
	}
}

func (h *Host) setProp(n *Node, key string, old any, had bool, new any) {
	switch {
	case isEvent(key):
		if had && funcIdentical(old, new) {
			return
		}
		if had {
			h.logf("unlisten %s %s", n, eventName(key))
		}
		n.Listeners[eventName(key)] = new
		h.logf("listen %s %s", n, eventName(key))
	case key == "style":
		om, _ := old.(map[string]string)
		nm, _ := new.(map[string]string)
		for _, k := range sortedKeys(om) {
			if _, ok := nm[k]; !ok {
				delete(n.Style, k)
				h.logf("unstyle %s %s", n, k)
			}
		}
		for _, k := range sortedKeys(nm) {
			if !had || om[k] != nm[k] {
				n.Style[k] = nm[k]
				h.logf("style %s %s=%s", n, k, nm[k])
			}
		}
	case key == "class":
		cls, _ := new.(string)
		if had && old == new {
			return
		}
		n.Class = cls
		h.logf("class %s %q", n, cls)
	default:
		if b, ok := new.(bool); ok {
			ob, _ := old.(bool)
			if had && ob == b {
				return
			}
			if b {
				n.Attrs[key] = true
				h.logf("set-attr %s %s", n, key)
			} else if had && ob {
				delete(n.Attrs, key)
				h.logf("remove-attr %s %s", n, key)
			}
			return
		}
		if had && reflect.DeepEqual(old, new) {
			return
		}
		n.Attrs[key] = new
		n.Props[key] = new
		h.logf("set-attr %s %s=%v", n, key, new)
	}
}

func isEvent(key string) bool {
	return strings.HasPrefix(key, "on") && len(key) > 2
}

func eventName(key string) string {
	return strings.ToLower(key[2:])
}

func funcIdentical(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	av, bv := reflect.ValueOf(a), reflect.ValueOf(b)
	return av.Kind() == reflect.Func && bv.Kind() == reflect.Func &&
		av.Pointer() == bv.Pointer()
}

func sortedKeys(m map[string]string) []string {
	ks := make([]string, 0, len(m))
	for k := range m {
		ks = append(ks, k)
	}
	sort.Strings(ks)
	return ks
}

// Snapshot renders the tree under n as an indented string, one node per
// line, attributes sorted. The node itself is excluded, making it convenient
// for mount containers.
func Snapshot(n *Node) string {
	var sb strings.Builder
	for _, c := range n.Children {
		snapshot(&sb, c, 0)
	}
	return sb.String()
}

func snapshot(sb *strings.Builder, n *Node, depth int) {
	indent := strings.Repeat("  ", depth)
	if n.Tag == "" {
		fmt.Fprintf(sb, "%s%q\n", indent, n.Text)
		return
	}
	sb.WriteString(indent + "<" + n.Tag)
	if n.Class != "" {
		fmt.Fprintf(sb, " class=%q", n.Class)
	}
	for _, k := range sortedAttrKeys(n.Attrs) {
		if v, ok := n.Attrs[k].(bool); ok && v {
			sb.WriteString(" " + k)
		} else {
			fmt.Fprintf(sb, " %s=%q", k, fmt.Sprint(n.Attrs[k]))
		}
	}
	for _, k := range sortedKeys(n.Style) {
		fmt.Fprintf(sb, " style.%s=%q", k, n.Style[k])
	}
	sb.WriteString(">\n")
	for _, c := range n.Children {
		snapshot(sb, c, depth+1)
	}
}

func sortedAttrKeys(m map[string]any) []string {
	ks := make([]string, 0, len(m))
	for k := range m {
		ks = append(ks, k)
	}
	sort.Strings(ks)
	return ks
}

// Fixture bundles a Host, a container and a Runtime for one test.
type Fixture struct {
	Host      *Host
	Container *Node
	RT        *twig.Runtime
}

// Setup creates a fixture with an empty container.
func Setup() *Fixture {
	h := New()
	return &Fixture{Host: h, Container: h.NewContainer(), RT: twig.New(h)}
}

// Mount mounts v into the fixture's container and clears the op log, so
// subsequent assertions see only post-mount mutations. Use MountKeepOps to
// assert on the mount itself.
func (f *Fixture) Mount(v *twig.VNode) {
	f.MountKeepOps(v)
	f.Host.PopOps()
}

// MountKeepOps mounts v without clearing the op log.
func (f *Fixture) MountKeepOps(v *twig.VNode) {
	f.RT.Mount(v, f.Container)
}

// Turn performs one unit of pending work; see twig.Runtime.Turn.
func (f *Fixture) Turn() bool { return f.RT.Turn() }

// Settle drives the runtime until it has no pending work. It panics if the
// tree does not settle within a generous bound, which in practice means an
// effect and a state update are feeding each other.
func (f *Fixture) Settle() {
	const max = 1000
	if f.RT.Settle(max) == max {
		panic("twigtest: tree did not settle")
	}
}

// Snapshot renders the container's subtree.
func (f *Fixture) Snapshot() string { return Snapshot(f.Container) }
