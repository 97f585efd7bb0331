package twig

import (
	"sort"

	"src.twig.sh/pkg/logutil"
)

var logger = logutil.GetLogger("[twig] ")

// Runtime is a render session: it owns the hook store, the effect queue, the
// visited set and the current instance tree for one mounted root. All of this
// is shared mutable state with exactly one writer at a time; see the
// concurrency notes in the package documentation.
type Runtime struct {
	adapter   Adapter
	container HostNode
	root      *VNode
	current   *instance

	// states maps a component's path to its ordered hook slots: plain values
	// for state hooks, *effectSlot for effect hooks.
	states map[Path][]any
	// visited is the set of component paths reached during the render pass
	// just completed; state at any other path is orphaned.
	visited map[Path]bool
	// queue holds the effects scheduled during the most recent render pass.
	queue []effectRef
	// stack is the active-invocation stack of component paths.
	stack []Path

	// renderCh carries at most one pending render request; see RequestRender.
	renderCh chan struct{}
	// callCh carries functions posted from other goroutines; they run on the
	// loop between passes.
	callCh chan func()
}

// Buffer size of the posted-call channel. The value is chosen for no
// particular reason.
const callChSize = 128

// New creates a Runtime rendering through the given host adapter.
func New(a Adapter) *Runtime {
	return &Runtime{
		adapter:  a,
		states:   make(map[Path][]any),
		visited:  make(map[Path]bool),
		renderCh: make(chan struct{}, 1),
		callCh:   make(chan func(), callChSize),
	}
}

// Mount clears any previously mounted tree, resets all session state, and
// renders root into container with one synchronous render pass. It returns
// once that pass (not its effects) has completed; the first effect flush runs
// at the next turn of the loop.
func (rt *Runtime) Mount(root *VNode, container HostNode) {
	if rt.current != nil {
		removeSubtree(rt.adapter, rt.container, rt.current)
		rt.teardownState(rootPath)
	}
	rt.states = make(map[Path][]any)
	rt.visited = make(map[Path]bool)
	rt.queue = nil
	rt.stack = nil
	select {
	case <-rt.renderCh:
	default:
	}
	rt.root = root
	rt.container = container
	rt.current = nil
	rt.renderPass()
}

// renderPass reconciles the mounted root against the current tree, collects
// orphaned hook state, and atomically replaces the current tree. Effects
// scheduled by the pass stay queued; they are drained at the next boundary,
// never from inside the pass.
func (rt *Runtime) renderPass() {
	if rt.root == nil {
		return
	}
	rt.visited = make(map[Path]bool)
	next := rt.reconcile(rt.container, rt.current, rt.root, rootPath, nil)
	rt.collectOrphans()
	rt.current = next
}

// collectOrphans tears down hook state for every path that was not reached
// during the pass just completed: pending cleanups run once, then the state
// entries are deleted and queued effects referencing them are dropped.
// Deeper paths are torn down before their ancestors.
func (rt *Runtime) collectOrphans() {
	var orphans []Path
	for p := range rt.states {
		if !rt.visited[p] {
			orphans = append(orphans, p)
		}
	}
	sort.Slice(orphans, func(i, j int) bool { return orphans[i] > orphans[j] })
	for _, p := range orphans {
		rt.teardownPath(p)
	}
}

// teardownState tears down hook state for a path and all of its descendants,
// deepest first.
func (rt *Runtime) teardownState(p Path) {
	var doomed []Path
	for q := range rt.states {
		if q.isUnder(p) {
			doomed = append(doomed, q)
		}
	}
	sort.Slice(doomed, func(i, j int) bool { return doomed[i] > doomed[j] })
	for _, q := range doomed {
		rt.teardownPath(q)
	}
}

// teardownPath tears down the hook state of exactly one path: effect cleanups
// run (panics logged, not propagated), the state entry is deleted, and queued
// effects for the path are dropped.
func (rt *Runtime) teardownPath(p Path) {
	slots, ok := rt.states[p]
	if !ok {
		return
	}
	for _, s := range slots {
		if es, ok := s.(*effectSlot); ok && es.cleanup != nil {
			rt.safely("cleanup", p, func() { es.cleanup() })
			es.cleanup = nil
		}
	}
	delete(rt.states, p)
	live := rt.queue[:0]
	for _, ref := range rt.queue {
		if ref.path != p {
			live = append(live, ref)
		}
	}
	rt.queue = live
}

// safely runs user code, containing panics: they are logged and must not
// abort the render pass or corrupt runtime bookkeeping.
func (rt *Runtime) safely(what string, p Path, f func()) {
	defer func() {
		if r := recover(); r != nil {
			logger.Printf("%s at %q panicked: %v", what, p, r)
		}
	}()
	f()
}
