package nav

import (
	"scrn/internal/tree"
)

type State int

const (
	// BrowsingTree: the workspace tree (or flat table) is on screen.
	BrowsingTree State = iota
	// ActiveSplit: one leaf's two sessions fill the screen as a split.
	ActiveSplit
	// Detached: the program is exiting to hand the terminal elsewhere
	// (legacy single-session attach, "go home" action).
	Detached
)

// Machine is the navigation state machine. The active leaf is part of the
// state value itself, never a free-floating variable: it is only
// meaningful in ActiveSplit and only readable through the accessor.
type Machine struct {
	state State
	leaf  tree.NodeID
}

func NewMachine() *Machine {
	return &Machine{state: BrowsingTree, leaf: tree.InvalidID}
}

func (m *Machine) State() State { return m.state }

// ActiveLeaf returns the leaf of the current split, or InvalidID when not
// in ActiveSplit.
func (m *Machine) ActiveLeaf() tree.NodeID {
	if m.state != ActiveSplit {
		return tree.InvalidID
	}
	return m.leaf
}

// Open enters the split for a leaf. Only legal while browsing; opening
// from anywhere else (including from another split — no nesting) is
// rejected.
func (m *Machine) Open(leaf tree.NodeID) bool {
	if m.state != BrowsingTree || leaf == tree.InvalidID {
		return false
	}
	m.state = ActiveSplit
	m.leaf = leaf
	return true
}

// Return leaves the split back to the tree. The leaf id is handed back so
// the view can keep the selection exactly where the user left off.
func (m *Machine) Return() tree.NodeID {
	if m.state != ActiveSplit {
		return tree.InvalidID
	}
	leaf := m.leaf
	m.state = BrowsingTree
	m.leaf = tree.InvalidID
	return leaf
}

// Detach moves to the terminal state; there is no way back.
func (m *Machine) Detach() {
	m.state = Detached
	m.leaf = tree.InvalidID
}
