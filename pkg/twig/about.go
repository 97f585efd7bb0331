/*
Package twig is a declarative tree-rendering engine.

It provides an "immediate mode" API in the style of modern UI frameworks such
as [React], [SwiftUI] and [Jetpack Compose]: applications declare a function
that describes the whole UI from scratch, and the engine re-invokes it on
every update, diffing the described tree against the previous one and
applying only the minimal mutations to a retained host tree. The process of
re-invoking the function and diffing is called "rendering".

The host tree itself is abstract: twig drives any retained-mode platform
through the [Adapter] interface (a DOM, a terminal frame, an in-memory tree
for tests). Twig decides what to create, update, move and remove; the adapter
carries it out.

# Components and hooks

A component is a [Comp]: a function from a [Context] to the [VNode] it
renders. Components keep state across invocations through hook calls:

	func Counter(c *twig.Context) *twig.VNode {
		count := twig.State(c, 0)
		twig.Effect(c, func() twig.Cleanup {
			// Runs after the host tree reflects this render.
			return nil
		}, twig.Deps{})
		return twig.H("div", nil,
			twig.H("span", nil, count.Get()),
		)
	}

Hook state is addressed positionally: each hook call consumes the next slot
at the component's position in the tree. A component must therefore call the
same hooks in the same order on every invocation; this is a caller invariant
that the runtime cannot fully verify. A node's position is identified by a
[Path] derived from its ancestry, with a sibling's key (the "key" property)
taking the place of its index when present. Keys are the mechanism for
keeping identity, and therefore state, stable across reorders.

# Scheduling

All rendering is cooperative and fully serial. [StateVar.Set] requests a
render; any number of requests coalesce into one pass. Effects never run
inside a pass: they are queued and flushed at the next loop boundary, after
the host tree has been fully mutated for the pass that scheduled them, and a
flush drains only the snapshot of the queue taken when it starts. Drive the
loop with [Runtime.Run] (push mode) or [Runtime.Turn] (pull mode, one unit of
work at a time).

[React]: https://react.dev
[SwiftUI]: https://developer.apple.com/xcode/swiftui/
[Jetpack Compose]: https://developer.android.com/compose
*/
package twig
