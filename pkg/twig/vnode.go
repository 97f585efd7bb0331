package twig

import (
	"fmt"
	"reflect"
)

// Kind enumerates the kinds of virtual nodes and render-tree instances.
type Kind uint8

const (
	// KindHost is a concrete host element, identified by a tag.
	KindHost Kind = iota
	// KindText is a text leaf.
	KindText
	// KindComponent is a function component.
	KindComponent
	// KindFragment groups children without owning a host node.
	KindFragment
)

func (k Kind) String() string {
	switch k {
	case KindHost:
		return "host"
	case KindText:
		return "text"
	case KindComponent:
		return "component"
	case KindFragment:
		return "fragment"
	}
	return fmt.Sprintf("bad kind %d", uint8(k))
}

// Comp is a function component. It is invoked on every render with a Context
// carrying its props and children, and returns the virtual node it renders to
// (possibly nil, meaning "renders nothing").
//
// A Comp must call the same hooks in the same order on every invocation at
// the same position; see the package documentation.
type Comp func(c *Context) *VNode

// Prop is a single property entry.
type Prop struct {
	Key string
	Val any
}

// Props is an ordered property list. Order is preserved from construction so
// that host adapters apply properties deterministically. Lookup is linear;
// property lists are expected to be small.
type Props []Prop

// P builds a Props from alternating keys and values. It panics if given an
// odd number of arguments or a non-string key; both are programming errors at
// the construction site.
func P(kv ...any) Props {
	if len(kv)%2 != 0 {
		panic("twig: P requires an even number of arguments")
	}
	ps := make(Props, 0, len(kv)/2)
	for i := 0; i < len(kv); i += 2 {
		k, ok := kv[i].(string)
		if !ok {
			panic(fmt.Sprintf("twig: P key %v is not a string", kv[i]))
		}
		ps = append(ps, Prop{k, kv[i+1]})
	}
	return ps
}

// Index returns the value of the named property, and whether it is present.
func (ps Props) Index(key string) (any, bool) {
	for _, p := range ps {
		if p.Key == key {
			return p.Val, true
		}
	}
	return nil, false
}

// VNode is an immutable descriptor of desired UI at one tree position. A new
// tree of VNodes is built on every render; VNodes are never mutated after
// construction.
type VNode struct {
	Kind Kind
	// Tag is the host tag; only set for KindHost.
	Tag string
	// Comp is the component function; only set for KindComponent.
	Comp Comp
	// Text is the text content; only set for KindText.
	Text string
	// Key is the optional stable identity within a sibling list (a string or
	// an integer), lifted from the "key" property. Nil when absent.
	Key any
	// Props holds the remaining properties, in construction order.
	Props Props
	// Children is the flattened, normalized child list.
	Children []*VNode

	// Code pointer of Comp, used for identity comparison between renders
	// (function values are not comparable in Go).
	compPtr uintptr
}

// fragmentType is the sentinel accepted by H for fragments.
type fragmentType struct{}

// Frag marks a fragment when passed as the type argument of H.
var Frag fragmentType

// H constructs a virtual node. The type argument is a host tag (string), a
// component function, or Frag. Children are normalized: nested slices are
// flattened, nil and boolean children are dropped, and strings and numbers
// become text nodes. A "key" property is lifted out of props into the node's
// Key field.
func H(typ any, props Props, children ...any) *VNode {
	v := &VNode{}
	switch typ := typ.(type) {
	case string:
		v.Kind = KindHost
		v.Tag = typ
	case Comp:
		v.Kind = KindComponent
		v.Comp = typ
		v.compPtr = reflect.ValueOf(typ).Pointer()
	case func(*Context) *VNode:
		v.Kind = KindComponent
		v.Comp = typ
		v.compPtr = reflect.ValueOf(typ).Pointer()
	case fragmentType:
		v.Kind = KindFragment
	default:
		panic(fmt.Sprintf("twig: H with unsupported type %T", typ))
	}
	for _, p := range props {
		if p.Key == "key" {
			v.Key = p.Val
		} else {
			v.Props = append(v.Props, p)
		}
	}
	v.Children = normalize(children)
	return v
}

// T constructs a text node.
func T(text string) *VNode {
	return &VNode{Kind: KindText, Text: text}
}

// Fragment constructs a keyless fragment from the given children.
func Fragment(children ...any) *VNode {
	return H(Frag, nil, children...)
}

// normalize flattens a child list into a canonical []*VNode. Nested slices
// are flattened recursively, nil and boolean children are dropped, strings
// and numbers become text nodes.
func normalize(children []any) []*VNode {
	var out []*VNode
	for _, c := range children {
		out = appendNormalized(out, c)
	}
	return out
}

func appendNormalized(out []*VNode, c any) []*VNode {
	switch c := c.(type) {
	case nil, bool:
		return out
	case *VNode:
		if c == nil {
			return out
		}
		return append(out, c)
	case []*VNode:
		for _, cc := range c {
			out = appendNormalized(out, cc)
		}
		return out
	case []any:
		for _, cc := range c {
			out = appendNormalized(out, cc)
		}
		return out
	case string:
		return append(out, T(c))
	case int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64,
		float32, float64:
		return append(out, T(fmt.Sprint(c)))
	default:
		panic(fmt.Sprintf("twig: unsupported child of type %T", c))
	}
}

// sameIdentity reports whether two virtual nodes describe the same logical
// node for reconciliation purposes: same kind, same host tag, and (for
// components) the same function.
func sameIdentity(a, b *VNode) bool {
	if a.Kind != b.Kind {
		return false
	}
	switch a.Kind {
	case KindHost:
		return a.Tag == b.Tag
	case KindComponent:
		return a.compPtr == b.compPtr
	}
	return true
}
