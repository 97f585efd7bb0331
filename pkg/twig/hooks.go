package twig

import "reflect"

// Context carries everything a component invocation may access: its props and
// children from the virtual node, and the hook cursor for this invocation.
// The cursor is part of the Context rather than ambient state so that hook
// calls are structurally tied to the invocation they belong to.
//
// A Context is only valid during the invocation it was created for;
// components must not retain it. State setters, in contrast, remain valid
// after the invocation returns.
type Context struct {
	rt       *Runtime
	path     Path
	cursor   int
	props    Props
	children []*VNode
}

// Props returns the props of the current invocation.
func (c *Context) Props() Props { return c.props }

// Prop returns the named prop, or nil if absent.
func (c *Context) Prop(key string) any {
	v, _ := c.props.Index(key)
	return v
}

// Children returns the children passed to the component.
func (c *Context) Children() []*VNode { return c.children }

// nextSlot consumes one hook slot and returns its index.
func (c *Context) nextSlot() int {
	s := c.cursor
	c.cursor++
	return s
}

// StateVar provides access to one state slot. It closes over the slot's
// fixed position, so it stays usable after the owning render completes;
// calling Set or Swap after the component has unmounted is a harmless no-op.
type StateVar[T any] struct {
	rt   *Runtime
	path Path
	slot int
}

// State declares a state slot holding a value of type T, initialized to init
// the first time this slot is reached at this position. It returns a StateVar
// for reading and writing the slot.
func State[T any](c *Context, init T) StateVar[T] {
	return StateInit(c, func() T { return init })
}

// StateInit is like State with a lazily evaluated initial value: init is
// called only when the slot is first created.
func StateInit[T any](c *Context, init func() T) StateVar[T] {
	slot := c.nextSlot()
	slots := c.rt.states[c.path]
	if slot == len(slots) {
		slots = append(slots, init())
		c.rt.states[c.path] = slots
	} else if slot > len(slots) {
		panic("twig: hook slot out of order; hooks must be called unconditionally")
	}
	return StateVar[T]{c.rt, c.path, slot}
}

// Get returns the current value of the slot. After the owning component has
// unmounted it returns the zero value.
func (v StateVar[T]) Get() T {
	var zero T
	if v.rt == nil {
		return zero
	}
	slots, ok := v.rt.states[v.path]
	if !ok || v.slot >= len(slots) {
		return zero
	}
	val, _ := slots[v.slot].(T)
	return val
}

// Set writes a new value into the slot and requests a render. It
// short-circuits, scheduling nothing, when the new value is identical to the
// current one. Writing to a slot whose state has been deleted (the component
// unmounted) is a no-op; it must not resurrect the state entry.
func (v StateVar[T]) Set(new T) {
	if v.rt == nil {
		return
	}
	slots, ok := v.rt.states[v.path]
	if !ok || v.slot >= len(slots) {
		return
	}
	if identical(slots[v.slot], new) {
		return
	}
	slots[v.slot] = new
	v.rt.RequestRender()
}

// Swap updates the slot through a function of the previous value.
func (v StateVar[T]) Swap(f func(T) T) {
	if v.rt == nil {
		return
	}
	slots, ok := v.rt.states[v.path]
	if !ok || v.slot >= len(slots) {
		return
	}
	old, _ := slots[v.slot].(T)
	v.Set(f(old))
}

// identical reports whether two values are identical for the purpose of the
// set short-circuit. Values of the same comparable dynamic type compare with
// ==; values of uncomparable kinds (slices, maps, funcs) are never identical.
// This errs in the safe direction: at worst an extra no-op render.
func identical(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	ta := reflect.TypeOf(a)
	if ta != reflect.TypeOf(b) || !ta.Comparable() {
		return false
	}
	return a == b
}

// Cleanup undoes an effect. Effects return nil when there is nothing to undo.
type Cleanup func()

// Deps is an effect's dependency list. A nil Deps re-runs the effect after
// every render; an empty non-nil Deps runs it exactly once for the lifetime
// of the component at its position.
type Deps []any

// effectSlot is the hook-store record of one effect.
type effectSlot struct {
	body    func() Cleanup
	deps    Deps
	cleanup Cleanup
	// fresh is true until the effect has been scheduled for the first time.
	fresh bool
	// queued guards against scheduling the same slot twice before it runs.
	queued bool
}

// effectRef identifies a scheduled effect in the queue.
type effectRef struct {
	path Path
	slot int
}

// Effect declares an effect: body runs after the render's host mutations are
// complete, at the next scheduling boundary, and its returned Cleanup runs
// before the next execution of the same effect and when the component
// unmounts. The effect re-runs when a shallow comparison of deps against the
// previous render's deps differs; see Deps for the nil and empty cases.
//
// The stored body is replaced on every render even when the effect is not
// re-scheduled, so a deferred execution always runs the newest closure.
func Effect(c *Context, body func() Cleanup, deps Deps) {
	slot := c.nextSlot()
	slots := c.rt.states[c.path]
	if slot == len(slots) {
		es := &effectSlot{body: body, deps: deps, fresh: true}
		c.rt.states[c.path] = append(slots, es)
		c.rt.schedule(c.path, slot, es)
		return
	}
	if slot > len(slots) {
		panic("twig: hook slot out of order; hooks must be called unconditionally")
	}
	es, ok := slots[slot].(*effectSlot)
	if !ok {
		// Hook order drift; undefined behavior class. Reset the slot rather
		// than crash the render.
		es = &effectSlot{fresh: true}
		slots[slot] = es
	}
	rerun := es.fresh || deps == nil || !depsEqual(es.deps, deps)
	es.body = body
	es.deps = deps
	if rerun {
		c.rt.schedule(c.path, slot, es)
	}
}

// depsEqual compares two dependency lists element-wise by identity.
func depsEqual(old, new Deps) bool {
	if len(old) != len(new) {
		return false
	}
	for i := range new {
		if !identical(old[i], new[i]) {
			return false
		}
	}
	return true
}
