package twig_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"src.twig.sh/pkg/twig"
	"src.twig.sh/pkg/twig/twigtest"
)

func TestMount_BuildsHostTree(t *testing.T) {
	f := twigtest.Setup()
	f.MountKeepOps(twig.H("ul", nil,
		twig.H("li", twig.P("key", "1"), 1),
		twig.H("li", twig.P("key", "2"), 2),
	))
	wantSnap := `<ul>
  <li>
    "1"
  <li>
    "2"
`
	if diff := cmp.Diff(wantSnap, f.Snapshot()); diff != "" {
		t.Errorf("tree after mount (-want +got):\n%s", diff)
	}
	wantOps := []string{
		`create ul#2`,
		`create li#3`,
		`create text#4 "1"`,
		`insert text#4 -> li#3 at end`,
		`insert li#3 -> ul#2 at end`,
		`create li#5`,
		`create text#6 "2"`,
		`insert text#6 -> li#5 at end`,
		`insert li#5 -> ul#2 at end`,
		`insert ul#2 -> root#1 at end`,
	}
	if diff := cmp.Diff(wantOps, f.Host.PopOps()); diff != "" {
		t.Errorf("mount ops (-want +got):\n%s", diff)
	}
}

func TestRerender_UnchangedTreeMutatesNothing(t *testing.T) {
	f := twigtest.Setup()
	f.Mount(twig.H("div", twig.P("class", "box", "style", map[string]string{"color": "red"}),
		twig.H("span", nil, "hi"),
		"tail",
	))
	f.RT.RequestRender()
	f.Turn()
	if ops := f.Host.PopOps(); len(ops) > 0 {
		t.Errorf("re-render of unchanged tree performed mutations: %v", ops)
	}
}

func TestTextUpdate_OverwritesOnlyOnChange(t *testing.T) {
	f := twigtest.Setup()
	var label twig.StateVar[string]
	comp := func(c *twig.Context) *twig.VNode {
		label = twig.State(c, "a")
		return twig.H("div", nil, label.Get())
	}
	f.Mount(twig.H(comp, nil))
	f.Settle()
	f.Host.PopOps()

	label.Set("b")
	f.Settle()
	wantOps := []string{`set-text text#3 "b"`}
	if diff := cmp.Diff(wantOps, f.Host.PopOps()); diff != "" {
		t.Errorf("ops after text change (-want +got):\n%s", diff)
	}

	// Same value again: the setter short-circuits, no render happens.
	label.Set("b")
	if f.Turn() {
		t.Errorf("identical Set scheduled work")
	}
	if ops := f.Host.PopOps(); len(ops) > 0 {
		t.Errorf("identical Set mutated the tree: %v", ops)
	}
}

func TestKeyedReorder_MovesNodesWithoutRecreating(t *testing.T) {
	f := twigtest.Setup()
	var order twig.StateVar[string]
	list := func(c *twig.Context) *twig.VNode {
		order = twig.State(c, "12")
		var lis []any
		for _, r := range order.Get() {
			s := string(r)
			lis = append(lis, twig.H("li", twig.P("key", s), s))
		}
		return twig.H("ul", nil, lis...)
	}
	f.Mount(twig.H(list, nil))
	f.Settle()
	f.Host.PopOps()

	ul := f.Container.Children[0]
	li1, li2 := ul.Children[0], ul.Children[1]

	order.Set("21")
	f.Settle()

	// One node moved, nothing created or destroyed.
	wantOps := []string{
		`remove li#3 <- ul#2`,
		`insert li#3 -> ul#2 at end`,
	}
	if diff := cmp.Diff(wantOps, f.Host.PopOps()); diff != "" {
		t.Errorf("reorder ops (-want +got):\n%s", diff)
	}
	if ul.Children[0] != li2 || ul.Children[1] != li1 {
		t.Errorf("host nodes were not reused across the reorder")
	}
	wantSnap := `<ul>
  <li>
    "2"
  <li>
    "1"
`
	if diff := cmp.Diff(wantSnap, f.Snapshot()); diff != "" {
		t.Errorf("tree after reorder (-want +got):\n%s", diff)
	}
}

func TestKeyedReorder_StateFollowsKey(t *testing.T) {
	f := twigtest.Setup()
	vars := map[string]twig.StateVar[int]{}
	item := func(c *twig.Context) *twig.VNode {
		id := c.Prop("id").(string)
		v := twig.State(c, 0)
		vars[id] = v
		return twig.H("li", nil, id, ":", v.Get())
	}
	var order twig.StateVar[string]
	list := func(c *twig.Context) *twig.VNode {
		order = twig.State(c, "ab")
		var items []any
		for _, r := range order.Get() {
			s := string(r)
			items = append(items, twig.H(item, twig.P("key", s, "id", s)))
		}
		return twig.H("ul", nil, items...)
	}
	f.Mount(twig.H(list, nil))
	f.Settle()

	vars["a"].Set(7)
	f.Settle()

	ul := f.Container.Children[0]
	liA := ul.Children[0]

	order.Set("ba")
	f.Settle()

	if ul.Children[1] != liA {
		t.Errorf("host node of item a was not reused across the reorder")
	}
	wantSnap := `<ul>
  <li>
    "b"
    ":"
    "0"
  <li>
    "a"
    ":"
    "7"
`
	if diff := cmp.Diff(wantSnap, f.Snapshot()); diff != "" {
		t.Errorf("state did not follow the key (-want +got):\n%s", diff)
	}
}

func TestTypeChange_RemountsAndClearsState(t *testing.T) {
	f := twigtest.Setup()
	var inner twig.StateVar[string]
	innerComp := func(c *twig.Context) *twig.VNode {
		inner = twig.State(c, "fresh")
		return twig.T(inner.Get())
	}
	var tag twig.StateVar[string]
	outer := func(c *twig.Context) *twig.VNode {
		tag = twig.State(c, "div")
		return twig.H(tag.Get(), twig.P("key", "x"), twig.H(innerComp, nil))
	}
	f.Mount(twig.H(outer, nil))
	f.Settle()

	inner.Set("dirty")
	f.Settle()
	oldHost := f.Container.Children[0]
	if oldHost.Tag != "div" {
		t.Fatalf("mounted tag = %q, want div", oldHost.Tag)
	}

	tag.Set("span")
	f.Settle()
	newHost := f.Container.Children[0]
	if newHost == oldHost || newHost.Tag != "span" {
		t.Errorf("type change did not remount: got %v", newHost)
	}
	wantSnap := `<span>
  "fresh"
`
	if diff := cmp.Diff(wantSnap, f.Snapshot()); diff != "" {
		t.Errorf("state survived a type-change remount (-want +got):\n%s", diff)
	}
}

func TestComponentPanic_RendersNothingAndRecovers(t *testing.T) {
	f := twigtest.Setup()
	var boom twig.StateVar[bool]
	bad := func(c *twig.Context) *twig.VNode {
		b := twig.State(c, false)
		boom = b
		if b.Get() {
			panic("boom")
		}
		return twig.T("ok")
	}
	root := func(c *twig.Context) *twig.VNode {
		return twig.H("div", nil, twig.H(bad, nil), "tail")
	}
	f.Mount(twig.H(root, nil))
	f.Settle()

	boom.Set(true)
	f.Settle()
	wantSnap := `<div>
  "tail"
`
	if diff := cmp.Diff(wantSnap, f.Snapshot()); diff != "" {
		t.Errorf("panicking component did not render as nothing (-want +got):\n%s", diff)
	}

	boom.Set(false)
	f.Settle()
	wantSnap = `<div>
  "ok"
  "tail"
`
	if diff := cmp.Diff(wantSnap, f.Snapshot()); diff != "" {
		t.Errorf("component did not recover after panic (-want +got):\n%s", diff)
	}
}

func TestFragment_ChildrenShareHostParent(t *testing.T) {
	f := twigtest.Setup()
	f.MountKeepOps(twig.H("div", nil,
		"a",
		twig.Fragment("b", twig.H("span", nil, "c")),
		"d",
	))
	wantSnap := `<div>
  "a"
  "b"
  <span>
    "c"
  "d"
`
	if diff := cmp.Diff(wantSnap, f.Snapshot()); diff != "" {
		t.Errorf("fragment flattening (-want +got):\n%s", diff)
	}
}

func TestMount_ReplacesPreviousTree(t *testing.T) {
	f := twigtest.Setup()
	f.Mount(twig.H("div", nil, "first"))
	f.Mount(twig.H("p", nil, "second"))
	wantSnap := `<p>
  "second"
`
	if diff := cmp.Diff(wantSnap, f.Snapshot()); diff != "" {
		t.Errorf("remount (-want +got):\n%s", diff)
	}
}
