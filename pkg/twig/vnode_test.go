package twig

import (
	"testing"

	"src.twig.sh/pkg/tt"
)

var Args = tt.Args

func TestH_NormalizesChildren(t *testing.T) {
	children := func(typ any, props Props, cs ...any) []*VNode {
		return H(typ, props, cs...).Children
	}
	tt.Test(t, "children", children, tt.Table{
		Args("div", Props(nil)).Rets([]*VNode(nil)),
		Args("div", Props(nil), "a").Rets([]*VNode{T("a")}),
		Args("div", Props(nil), 42).Rets([]*VNode{T("42")}),
		Args("div", Props(nil), 1.5).Rets([]*VNode{T("1.5")}),
		Args("div", Props(nil), nil, true, false, "x").Rets([]*VNode{T("x")}),
		Args("div", Props(nil), []any{"a", []any{"b", nil}, "c"}).
			Rets([]*VNode{T("a"), T("b"), T("c")}),
		Args("div", Props(nil), []*VNode{T("a"), T("b")}).
			Rets([]*VNode{T("a"), T("b")}),
	})
}

func TestH_LiftsKey(t *testing.T) {
	v := H("li", P("key", "a", "class", "item"))
	if v.Key != "a" {
		t.Errorf("Key = %v, want a", v.Key)
	}
	if _, ok := v.Props.Index("key"); ok {
		t.Errorf("key prop not lifted out of Props")
	}
	if cls, _ := v.Props.Index("class"); cls != "item" {
		t.Errorf("class prop = %v, want item", cls)
	}
}

func TestH_Kinds(t *testing.T) {
	if k := H("div", nil).Kind; k != KindHost {
		t.Errorf("H(div) kind = %v", k)
	}
	if k := H(func(*Context) *VNode { return nil }, nil).Kind; k != KindComponent {
		t.Errorf("H(func) kind = %v", k)
	}
	if k := Fragment("a").Kind; k != KindFragment {
		t.Errorf("Fragment kind = %v", k)
	}
	if k := T("x").Kind; k != KindText {
		t.Errorf("T kind = %v", k)
	}
}

func TestSameIdentity(t *testing.T) {
	f := func(*Context) *VNode { return nil }
	g := func(*Context) *VNode { return nil }
	tt.Test(t, "sameIdentity", sameIdentity, tt.Table{
		Args(H("div", nil), H("div", nil)).Rets(true),
		Args(H("div", nil), H("span", nil)).Rets(false),
		Args(H("div", nil), T("div")).Rets(false),
		Args(H(f, nil), H(f, nil)).Rets(true),
		Args(H(f, nil), H(g, nil)).Rets(false),
		Args(Fragment(), Fragment()).Rets(true),
	})
}

func TestP_PanicsOnOddArguments(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Errorf("P with odd arguments did not panic")
		}
	}()
	P("key")
}

func TestProps_Index(t *testing.T) {
	ps := P("a", 1, "b", 2)
	if v, ok := ps.Index("b"); !ok || v != 2 {
		t.Errorf("Index(b) = %v, %v", v, ok)
	}
	if _, ok := ps.Index("c"); ok {
		t.Errorf("Index(c) found a value")
	}
}
