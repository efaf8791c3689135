package widget

// Node is an in-memory widget. The terminal host builds its scene from nodes
// and tests use them as live widgets.
type Node struct {
	name     string
	text     string
	kind     Kind
	visible  bool
	enabled  bool
	parent   *Node
	children []*Node
	// tree is set on roots so they can see each other as siblings.
	tree *Tree

	// States holds the captions of a multi-state button.
	States []string
	state  int

	checked bool
	pressed bool

	onClick         func(*Node)
	onDisabledClick func(*Node)

	clicks         int
	disabledClicks int
}

// NewNode creates a visible, enabled widget.
func NewNode(kind Kind, name string) *Node {
	return &Node{
		name:    name,
		kind:    kind,
		visible: true,
		enabled: true,
	}
}

// Add appends children and returns n for chaining.
func (n *Node) Add(children ...*Node) *Node {
	for _, child := range children {
		if child.parent != nil {
			child.parent.remove(child)
		}
		child.parent = n
		n.children = append(n.children, child)
	}
	return n
}

func (n *Node) remove(child *Node) {
	for i, c := range n.children {
		if c == child {
			n.children = append(n.children[:i], n.children[i+1:]...)
			child.parent = nil
			return
		}
	}
}

// SetText sets the caption.
func (n *Node) SetText(text string) *Node {
	n.text = text
	return n
}

// SetVisible shows or hides the widget and, implicitly, its subtree.
func (n *Node) SetVisible(visible bool) *Node {
	n.visible = visible
	return n
}

// SetEnabled enables or disables the widget.
func (n *Node) SetEnabled(enabled bool) *Node {
	n.enabled = enabled
	return n
}

// OnClick registers the handler run after a normal click.
func (n *Node) OnClick(fn func(*Node)) *Node {
	n.onClick = fn
	return n
}

// OnDisabledClick registers the handler run when the widget is clicked while disabled.
func (n *Node) OnDisabledClick(fn func(*Node)) *Node {
	n.onDisabledClick = fn
	return n
}

func (n *Node) Name() string { return n.name }
func (n *Node) Kind() Kind   { return n.kind }
func (n *Node) Enabled() bool {
	return n.enabled
}

// Text returns the caption. Multi-state buttons show their current state.
func (n *Node) Text() string {
	if n.kind == KindMultiStateButton && len(n.States) > 0 {
		return n.States[n.state]
	}
	return n.text
}

// Visible reports whether the node and all its ancestors are shown.
func (n *Node) Visible() bool {
	for cur := n; cur != nil; cur = cur.parent {
		if !cur.visible {
			return false
		}
	}
	return true
}

// Shown reports the node's own visibility flag, ignoring ancestors.
func (n *Node) Shown() bool { return n.visible }

func (n *Node) Parent() Widget {
	if n.parent == nil {
		return nil
	}
	return n.parent
}

func (n *Node) Children() []Widget {
	out := make([]Widget, len(n.children))
	for i, c := range n.children {
		out[i] = c
	}
	return out
}

// RootSiblings returns the roots of the tree n is a root of, n included.
func (n *Node) RootSiblings() []Widget {
	if n.parent != nil || n.tree == nil {
		return nil
	}
	out := make([]Widget, len(n.tree.roots))
	for i, r := range n.tree.roots {
		out[i] = r
	}
	return out
}

// Nodes returns the concrete children.
func (n *Node) Nodes() []*Node {
	return n.children
}

// Checked reports the state of a check box.
func (n *Node) Checked() bool { return n.checked }

// SetChecked sets the state of a check box without firing handlers.
func (n *Node) SetChecked(checked bool) *Node {
	n.checked = checked
	return n
}

// State returns the index of a multi-state button's current state.
func (n *Node) State() int { return n.state }

// Pressed reports whether the node is between press and release.
func (n *Node) Pressed() bool { return n.pressed }

// Clicks returns how many normal clicks the node received.
func (n *Node) Clicks() int { return n.clicks }

// DisabledClicks returns how many clicks the node received while disabled.
func (n *Node) DisabledClicks() int { return n.disabledClicks }

// Activate simulates a full left click: press, click, release.
func (n *Node) Activate() {
	n.mouseDown()
	n.click()
	n.mouseUp()
}

// ActivateDisabled simulates a click on a disabled widget.
func (n *Node) ActivateDisabled() {
	n.disabledClicks++
	if n.onDisabledClick != nil {
		n.onDisabledClick(n)
	}
}

func (n *Node) mouseDown() {
	n.pressed = true
}

func (n *Node) click() {
	n.clicks++
	switch n.kind {
	case KindCheckBox:
		n.checked = !n.checked
	case KindMultiStateButton:
		if len(n.States) > 0 {
			n.state = (n.state + 1) % len(n.States)
		}
	}
	if n.onClick != nil {
		n.onClick(n)
	}
}

func (n *Node) mouseUp() {
	n.pressed = false
}
