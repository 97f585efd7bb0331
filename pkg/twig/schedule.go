package twig

// RequestRender requests a render pass. Any number of requests before the
// pass actually runs coalesce into a single pass: the channel holds at most
// one token, so repeated requests are dropped. It never blocks and is safe to
// call from any goroutine.
func (rt *Runtime) RequestRender() {
	select {
	case rt.renderCh <- struct{}{}:
	default:
	}
}

// Post schedules f to run on the render loop, between passes. It is how code
// on other goroutines (timers, IO callbacks) may touch state variables. It
// blocks only if the call buffer is full.
func (rt *Runtime) Post(f func()) {
	rt.callCh <- f
}

// schedule appends one effect to the queue, unless the same slot is already
// queued and not yet run.
func (rt *Runtime) schedule(p Path, slot int, es *effectSlot) {
	es.fresh = false
	if es.queued {
		return
	}
	es.queued = true
	rt.queue = append(rt.queue, effectRef{p, slot})
}

// flushEffects drains a snapshot of the current effect queue. Effects
// scheduled while flushing (for example by an effect that sets state and
// re-renders) land in a fresh queue for the next flush, so a self-sustaining
// effect chain cannot monopolize the loop. For each effect the previous
// cleanup runs first, then the newest body; its return value becomes the new
// cleanup. Panics in either are logged and contained.
func (rt *Runtime) flushEffects() {
	snapshot := rt.queue
	rt.queue = nil
	for _, ref := range snapshot {
		slots, ok := rt.states[ref.path]
		if !ok || ref.slot >= len(slots) {
			// The component was torn down after scheduling.
			continue
		}
		es, ok := slots[ref.slot].(*effectSlot)
		if !ok || !es.queued {
			continue
		}
		es.queued = false
		if es.cleanup != nil {
			rt.safely("cleanup", ref.path, func() { es.cleanup() })
			es.cleanup = nil
		}
		rt.safely("effect", ref.path, func() { es.cleanup = es.body() })
	}
}

// Turn performs at most one unit of pending work: a requested render pass, if
// any, followed by an effect flush, if effects are queued. It reports whether
// anything was done. Turn is the pull-mode driver used by tests and
// single-threaded embedders; Run is the push-mode equivalent.
func (rt *Runtime) Turn() bool {
	did := false
	for {
		select {
		case f := <-rt.callCh:
			f()
			did = true
			continue
		default:
		}
		break
	}
	select {
	case <-rt.renderCh:
		rt.renderPass()
		did = true
	default:
	}
	if len(rt.queue) > 0 {
		rt.flushEffects()
		did = true
	}
	return did
}

// Settle calls Turn until there is no pending work, bounded by max turns, and
// returns the number of turns taken. It is a convenience for tests and
// teardown paths where the tree should reach a fixed point.
func (rt *Runtime) Settle(max int) int {
	n := 0
	for n < max && rt.Turn() {
		n++
	}
	return n
}

// Run runs the render loop until stop is closed. The loop is fully serial:
// render passes, effect flushes and posted calls never overlap, so they may
// manipulate the session state without further synchronization. All host
// mutations of a pass complete before that pass's effects run; state changes
// made by those effects render in a subsequent pass before their own effects
// run.
func (rt *Runtime) Run(stop <-chan struct{}) {
	for {
		rt.flushEffects()
		select {
		case <-stop:
			return
		case f := <-rt.callCh:
			f()
		case <-rt.renderCh:
			rt.renderPass()
		}
	}
}
