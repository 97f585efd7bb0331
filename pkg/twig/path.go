package twig

import (
	"fmt"
	"strconv"
	"strings"
)

// Path identifies a position in the render tree. It is formed by joining
// per-level segments with ".": the segment is the node's key when it has one,
// else its sibling index. Two nodes at the same position across successive
// renders share a Path exactly when they are the same logical node for
// state-continuity purposes, so Paths double as the primary key into the hook
// store. Changing a node's key or position changes its Path and makes its
// state fresh.
type Path string

// rootPath is the Path of the root of the render tree.
const rootPath Path = "/"

// pathSep separates path segments.
const pathSep = "."

// childPath derives the Path of a child from its key and sibling index. Keyed
// segments carry a type-tagged prefix so that key "2", key 2 and index 2 all
// address distinct positions.
func (p Path) childPath(key any, index int) Path {
	var seg string
	switch key := key.(type) {
	case nil:
		seg = strconv.Itoa(index)
	case string:
		seg = "ks:" + key
	case int:
		seg = "ki:" + strconv.Itoa(key)
	default:
		// Uncommon key types still address deterministically.
		seg = fmt.Sprintf("k%T:%v", key, key)
	}
	return p + Path(pathSep+seg)
}

// isUnder reports whether p is q itself or a descendant of q.
func (p Path) isUnder(q Path) bool {
	return p == q || strings.HasPrefix(string(p), string(q)+pathSep)
}
