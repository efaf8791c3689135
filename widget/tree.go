package widget

// Tree holds the root widgets of a host and answers live widget queries.
type Tree struct {
	roots []*Node
}

// NewTree creates a tree with the given roots.
func NewTree(roots ...*Node) *Tree {
	t := &Tree{}
	for _, r := range roots {
		t.AddRoot(r)
	}
	return t
}

// AddRoot appends a root widget.
func (t *Tree) AddRoot(n *Node) {
	n.tree = t
	t.roots = append(t.roots, n)
}

// Roots returns the root widgets.
func (t *Tree) Roots() []*Node {
	return t.roots
}

// Widgets enumerates every widget depth-first, parents before children.
func (t *Tree) Widgets() []Widget {
	var out []Widget
	t.Walk(func(n *Node, _ int) bool {
		out = append(out, n)
		return true
	})
	return out
}

// Walk visits nodes depth-first with their depth. Returning false skips the
// node's subtree.
func (t *Tree) Walk(fn func(n *Node, depth int) bool) {
	var visit func(n *Node, depth int)
	visit = func(n *Node, depth int) {
		if !fn(n, depth) {
			return
		}
		for _, c := range n.children {
			visit(c, depth+1)
		}
	}
	for _, r := range t.roots {
		visit(r, 0)
	}
}

// Find returns the first widget with the given name.
func (t *Tree) Find(name string) *Node {
	var found *Node
	t.Walk(func(n *Node, _ int) bool {
		if found != nil {
			return false
		}
		if n.name == name {
			found = n
			return false
		}
		return true
	})
	return found
}

// FindPath returns the widget whose resolved path equals path.
func (t *Tree) FindPath(path []string) *Node {
	var found *Node
	t.Walk(func(n *Node, _ int) bool {
		if found != nil {
			return false
		}
		if PathEqual(ResolvePath(n), path) {
			found = n
			return false
		}
		return true
	})
	return found
}

// Activatable returns the visible widgets a shortcut can target, in tree order.
func (t *Tree) Activatable() []*Node {
	var out []*Node
	t.Walk(func(n *Node, _ int) bool {
		if !n.Visible() {
			return false
		}
		if n.kind.Activatable() {
			out = append(out, n)
		}
		return true
	})
	return out
}
