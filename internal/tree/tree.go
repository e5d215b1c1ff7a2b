package tree

import (
	"scrn/internal/scanner"
)

// NodeID indexes the arena. Nodes never move, so an id stays valid for the
// lifetime of a load.
type NodeID int

const InvalidID NodeID = -1

type Kind int

const (
	Branch Kind = iota
	Leaf
)

// Binding links a leaf to its pair of managed sessions. Absent until the
// leaf is first opened; once recorded it lives for the rest of the process
// and only an explicit kill touches the underlying sessions.
type Binding struct {
	Primary   string
	Secondary string
	Created   bool
}

type Node struct {
	ID       NodeID
	Path     string
	Name     string
	Depth    int
	Kind     Kind
	Parent   NodeID
	Children []NodeID

	Expanded bool
	Visible  bool
	Binding  *Binding
}

// Model holds the workspace tree: a flat arena of nodes with parent/child
// id references. It is the single writer of expanded/visible/binding state
// and is only ever mutated from the UI update loop.
type Model struct {
	nodes  []Node
	byPath map[string]NodeID
	roots  []NodeID
}

func New() *Model {
	return &Model{byPath: make(map[string]NodeID)}
}

// Load replaces the tree with a freshly scanned skeleton. Expansion state
// resets (roots expanded, everything deeper collapsed), but bindings follow
// their leaf's path: a session pair lives for the rest of the process, and
// a rescan must not make already-created sessions look unbound. Leaves that
// vanished from the skeleton take their bindings with them.
func (m *Model) Load(sk scanner.Skeleton) {
	prior := make(map[string]*Binding)
	for i := range m.nodes {
		if n := &m.nodes[i]; n.Kind == Leaf && n.Binding != nil {
			prior[n.Path] = n.Binding
		}
	}

	m.nodes = make([]Node, 0, len(sk.Entries))
	m.byPath = make(map[string]NodeID, len(sk.Entries))
	m.roots = nil

	for i, e := range sk.Entries {
		id := NodeID(i)
		kind := Branch
		if e.Kind == scanner.KindLeaf {
			kind = Leaf
		}
		n := Node{
			ID:       id,
			Path:     e.Path,
			Name:     e.Name,
			Depth:    e.Depth,
			Kind:     kind,
			Parent:   InvalidID,
			Expanded: e.Parent < 0,
			Visible:  true,
		}
		if kind == Leaf {
			n.Binding = prior[e.Path]
		}
		if e.Parent >= 0 {
			n.Parent = NodeID(e.Parent)
		} else {
			m.roots = append(m.roots, id)
		}
		m.nodes = append(m.nodes, n)
		m.byPath[e.Path] = id
		if n.Parent != InvalidID {
			m.nodes[n.Parent].Children = append(m.nodes[n.Parent].Children, id)
		}
	}
}

func (m *Model) Len() int { return len(m.nodes) }

func (m *Model) Roots() []NodeID { return m.roots }

func (m *Model) Node(id NodeID) *Node {
	if id < 0 || int(id) >= len(m.nodes) {
		return nil
	}
	return &m.nodes[id]
}

func (m *Model) ByPath(path string) (NodeID, bool) {
	id, ok := m.byPath[path]
	return id, ok
}

// ToggleExpand flips a branch's expansion. Leaves have nothing to expand,
// so the call is a no-op for them.
func (m *Model) ToggleExpand(id NodeID) {
	n := m.Node(id)
	if n == nil || n.Kind != Branch {
		return
	}
	n.Expanded = !n.Expanded
}

// Binding returns the leaf's session binding, or nil when the leaf has
// never been opened.
func (m *Model) Binding(id NodeID) *Binding {
	n := m.Node(id)
	if n == nil || n.Kind != Leaf {
		return nil
	}
	return n.Binding
}

// Bind records a newly created session pair. If the leaf is already bound
// the existing binding wins and is returned unchanged, which guards against
// a slow creation result overwriting a newer one for the same leaf.
func (m *Model) Bind(id NodeID, primary, secondary string) *Binding {
	n := m.Node(id)
	if n == nil || n.Kind != Leaf {
		return nil
	}
	if n.Binding != nil && n.Binding.Created {
		return n.Binding
	}
	n.Binding = &Binding{Primary: primary, Secondary: secondary, Created: true}
	return n.Binding
}

// Row is one rendered line: a node plus its indentation level.
type Row struct {
	ID    NodeID
	Depth int
}

// Flatten walks the arena depth-first, honoring expansion and visibility,
// and returns the ordered rows the view renders. Collapsed branches
// contribute themselves but not their subtree.
func (m *Model) Flatten() []Row {
	rows := make([]Row, 0, len(m.nodes))
	var walk func(id NodeID)
	walk = func(id NodeID) {
		n := &m.nodes[id]
		if !n.Visible {
			return
		}
		rows = append(rows, Row{ID: id, Depth: n.Depth})
		if n.Kind == Branch && !n.Expanded {
			return
		}
		for _, c := range n.Children {
			walk(c)
		}
	}
	for _, r := range m.roots {
		walk(r)
	}
	return rows
}

// Leaves returns all leaf ids in tree order.
func (m *Model) Leaves() []NodeID {
	var out []NodeID
	for i := range m.nodes {
		if m.nodes[i].Kind == Leaf {
			out = append(out, NodeID(i))
		}
	}
	return out
}

// SetVisible and SetExpanded exist for the search engine, which recomputes
// both flags across the whole arena per keystroke.
func (m *Model) SetVisible(id NodeID, v bool) {
	if n := m.Node(id); n != nil {
		n.Visible = v
	}
}

func (m *Model) SetExpanded(id NodeID, v bool) {
	if n := m.Node(id); n != nil && n.Kind == Branch {
		n.Expanded = v
	}
}

// AttachedFunc reports whether a session name is currently attached,
// supplied by the registry's latest refresh.
type AttachedFunc func(name string) bool

// Active reports whether a leaf renders in the active color: bound,
// created, and at least one of its two sessions attached. Pure function of
// current state, recomputed every render.
func (m *Model) Active(id NodeID, attached AttachedFunc) bool {
	b := m.Binding(id)
	if b == nil || !b.Created {
		return false
	}
	return attached(b.Primary) || attached(b.Secondary)
}
