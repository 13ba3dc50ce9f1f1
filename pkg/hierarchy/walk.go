package hierarchy

import (
	"slices"

	"github.com/matzehuels/assetcanvas/pkg/geom"
)

// WalkFunc is called for every node in depth-first order. path holds the
// ancestors of n, outermost first; it must not be retained. Returning false
// skips n's descendants.
type WalkFunc func(n Node, path []Node) bool

// Walk visits every node of e depth-first, regions in order.
func Walk(e *Enterprise, fn WalkFunc) {
	if e == nil {
		return
	}
	var path []Node
	for _, r := range e.Regions {
		walk(r, path, fn)
	}
}

func walk(n Node, path []Node, fn WalkFunc) {
	if !fn(n, path) {
		return
	}
	path = append(path, n)
	for _, c := range n.Children() {
		walk(c, path, fn)
	}
}

// Find locates id anywhere in e. It returns the node and its ancestors,
// outermost first.
func Find(e *Enterprise, id string) (Node, []Node, bool) {
	var (
		found Node
		trail []Node
	)
	Walk(e, func(n Node, path []Node) bool {
		if found != nil {
			return false
		}
		if n.NodeID() == id {
			found = n
			trail = slices.Clone(path)
			return false
		}
		return true
	})
	return found, trail, found != nil
}

// Contains reports whether id names a node inside root's subtree, root included.
func Contains(root Node, id string) bool {
	if root == nil {
		return false
	}
	if root.NodeID() == id {
		return true
	}
	for _, c := range root.Children() {
		if Contains(c, id) {
			return true
		}
	}
	return false
}

// Count returns the number of nodes per kind.
func Count(e *Enterprise) map[Kind]int {
	counts := make(map[Kind]int)
	Walk(e, func(n Node, _ []Node) bool {
		counts[n.Kind()]++
		return true
	})
	return counts
}

// Replace returns a copy of e where the node id has been replaced by fn(node).
// Every ancestor level on the path is copied; siblings and descendants are
// shared. fn must return a node of the same kind, otherwise the replacement
// is rejected. When id is not found, e itself and false are returned.
func Replace(e *Enterprise, id string, fn func(Node) Node) (*Enterprise, bool) {
	if e == nil {
		return nil, false
	}
	for i, r := range e.Regions {
		next, ok := replace(r, id, fn)
		if !ok {
			continue
		}
		out := e.Clone()
		out.Regions[i] = next.(Region)
		return out, true
	}
	return e, false
}

func replace(n Node, id string, fn func(Node) Node) (Node, bool) {
	if n.NodeID() == id {
		next := fn(n)
		if next == nil || next.Kind() != n.Kind() {
			return n, false
		}
		return next, true
	}
	kids := n.Children()
	for i, c := range kids {
		next, ok := replace(c, id, fn)
		if !ok {
			continue
		}
		kids[i] = next
		return n.withChildren(kids), true
	}
	return n, false
}

// ApplyPatch merges only the patched geometry fields into node id, preserving
// every other field, sibling and descendant. Unknown ids leave e unchanged.
func ApplyPatch(e *Enterprise, id string, p geom.Patch) (*Enterprise, bool) {
	if p.Empty() {
		_, _, ok := Find(e, id)
		return e, ok
	}
	return Replace(e, id, func(n Node) Node {
		return n.withGeometry(n.Geom().Merge(p))
	})
}
