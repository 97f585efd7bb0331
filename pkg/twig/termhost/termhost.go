// Package termhost is a host adapter that paints the rendered tree to a
// terminal, one top-level node per line. It exists for demos and as a second,
// non-test implementation of the adapter contract; it supports a small
// styling vocabulary ("fg", "bold") applied via ANSI SGR sequences when the
// output is a terminal.
package termhost

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"

	"src.twig.sh/pkg/twig"
)

// node is a host node: a styled container or a text leaf.
type node struct {
	tag      string // empty for text nodes
	text     string
	props    map[string]any
	children []*node
	parent   *node
}

// Host implements twig.Adapter over a line-oriented frame.
type Host struct {
	root  *node
	out   io.Writer
	color bool
	// Number of lines painted by the previous flush, to be cleared.
	painted int
}

var _ twig.Adapter = (*Host)(nil)

// New creates a Host writing to f, with ANSI styling iff f is a terminal.
func New(f *os.File) *Host {
	return &Host{
		root:  &node{tag: "frame"},
		out:   f,
		color: isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd()),
	}
}

// NewWriter creates a Host writing plain text to w.
func NewWriter(w io.Writer) *Host {
	return &Host{root: &node{tag: "frame"}, out: w}
}

// Root returns the mount container.
func (h *Host) Root() twig.HostNode { return h.root }

func (h *Host) CreateNode(tag string) twig.HostNode {
	return &node{tag: tag, props: make(map[string]any)}
}

func (h *Host) CreateText(text string) twig.HostNode {
	return &node{text: text}
}

func (h *Host) SetText(hn twig.HostNode, text string) {
	hn.(*node).text = text
}

func (h *Host) ApplyProps(hn twig.HostNode, old, new twig.Props) {
	n := hn.(*node)
	for _, p := range old {
		if _, ok := new.Index(p.Key); !ok {
			delete(n.props, p.Key)
		}
	}
	for _, p := range new {
		n.props[p.Key] = p.Val
	}
}

func (h *Host) InsertBefore(parent, hn, anchor twig.HostNode) {
	p := parent.(*node)
	n := hn.(*node)
	i := len(p.children)
	if anchor != nil {
		i = childIndex(p, anchor.(*node))
		if i < 0 {
			panic("termhost: anchor is not a child of parent")
		}
	}
	p.children = append(p.children[:i], append([]*node{n}, p.children[i:]...)...)
	n.parent = p
}

func (h *Host) RemoveChild(parent, hn twig.HostNode) {
	p := parent.(*node)
	n := hn.(*node)
	i := childIndex(p, n)
	if i < 0 {
		panic("termhost: remove of a non-child")
	}
	p.children = append(p.children[:i], p.children[i+1:]...)
	n.parent = nil
}

func (h *Host) Parent(hn twig.HostNode) twig.HostNode {
	n := hn.(*node)
	if n.parent == nil {
		return nil
	}
	return n.parent
}

func (h *Host) NextSibling(hn twig.HostNode) twig.HostNode {
	n := hn.(*node)
	if n.parent == nil {
		return nil
	}
	i := childIndex(n.parent, n)
	if i < 0 || i+1 >= len(n.parent.children) {
		return nil
	}
	return n.parent.children[i+1]
}

func childIndex(p, n *node) int {
	for i, c := range p.children {
		if c == n {
			return i
		}
	}
	return -1
}

// style is the effective paint state at one point of the traversal.
type style struct {
	fg   string
	bold bool
}

var sgrFg = map[string]string{
	"black": "30", "red": "31", "green": "32", "yellow": "33",
	"blue": "34", "magenta": "35", "cyan": "36", "white": "37",
}

func (s style) sgr() string {
	var codes []string
	if s.bold {
		codes = append(codes, "1")
	}
	if c, ok := sgrFg[s.fg]; ok {
		codes = append(codes, c)
	}
	if len(codes) == 0 {
		return ""
	}
	return "\033[" + strings.Join(codes, ";") + "m"
}

// Flush repaints the whole frame: each top-level child of the root becomes
// one line. On a terminal the previous frame is erased first.
func (h *Host) Flush() error {
	var sb strings.Builder
	if h.color && h.painted > 0 {
		// Move to the top of the previous frame and erase downward.
		fmt.Fprintf(&sb, "\033[%dA\033[J", h.painted)
	}
	for _, line := range h.root.children {
		paint(&sb, line, style{}, h.color)
		sb.WriteString("\n")
	}
	h.painted = len(h.root.children)
	_, err := io.WriteString(h.out, sb.String())
	return err
}

func paint(sb *strings.Builder, n *node, st style, color bool) {
	if n.tag == "" {
		if color {
			if sgr := st.sgr(); sgr != "" {
				sb.WriteString(sgr + n.text + "\033[m")
				return
			}
		}
		sb.WriteString(n.text)
		return
	}
	if fg, ok := n.props["fg"].(string); ok {
		st.fg = fg
	}
	if b, ok := n.props["bold"].(bool); ok {
		st.bold = b
	}
	for _, c := range n.children {
		paint(sb, c, st, color)
	}
}
