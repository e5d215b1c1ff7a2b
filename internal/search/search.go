package search

import (
	"github.com/sahilm/fuzzy"

	"scrn/internal/tree"
)

// Engine prunes the tree to fuzzy matches. It owns the query state and is
// the only component that rewrites node visibility; expansion changes made
// while a search is active are rolled back when the query clears.
type Engine struct {
	model    *tree.Model
	query    string
	active   bool
	snapshot map[tree.NodeID]bool
}

func New(m *tree.Model) *Engine {
	return &Engine{model: m}
}

func (e *Engine) Query() string { return e.query }
func (e *Engine) Active() bool  { return e.active }

// Begin snapshots per-node expansion so Clear can restore it. Calling it
// twice without Clear keeps the first snapshot: the restore target is the
// state before the search began, not mid-search churn.
func (e *Engine) Begin() {
	if e.active {
		return
	}
	e.active = true
	e.snapshot = make(map[tree.NodeID]bool, e.model.Len())
	for i := 0; i < e.model.Len(); i++ {
		id := tree.NodeID(i)
		e.snapshot[id] = e.model.Node(id).Expanded
	}
}

// SetQuery recomputes visibility for every node in one pass. A node is
// visible when it matches, when any descendant matches, or when the query
// is empty. Ancestors of a match are forced visible and expanded so the
// match is reachable regardless of prior collapsed state. An emptied query
// rolls expansion back to the Begin snapshot; the snapshot is kept so the
// next keystroke starts from the same baseline.
func (e *Engine) SetQuery(q string) {
	e.query = q
	if q == "" {
		e.showAll()
		e.restoreExpansion()
		return
	}

	// Only leaves are match candidates; branches earn visibility from
	// their descendants, so a branch name alone never pins a subtree open.
	matched := make([]bool, e.model.Len())
	for i := 0; i < e.model.Len(); i++ {
		id := tree.NodeID(i)
		n := e.model.Node(id)
		if n.Kind == tree.Leaf && Match(q, n.Name) {
			matched[i] = true
		}
	}

	// Bottom-up: a node is visible if it matched or any child ended up
	// visible. The arena is in pre-order, so children follow parents and a
	// reverse sweep sees every subtree before its root.
	visible := make([]bool, e.model.Len())
	for i := e.model.Len() - 1; i >= 0; i-- {
		id := tree.NodeID(i)
		n := e.model.Node(id)
		vis := matched[i]
		for _, c := range n.Children {
			if visible[c] {
				vis = true
			}
		}
		visible[i] = vis
		e.model.SetVisible(id, vis)
		if vis && n.Kind == tree.Branch {
			e.model.SetExpanded(id, true)
		}
	}
}

// Clear drops the query and restores the pre-search expansion snapshot.
func (e *Engine) Clear() {
	e.query = ""
	e.active = false
	e.showAll()
	e.restoreExpansion()
	e.snapshot = nil
}

func (e *Engine) restoreExpansion() {
	for id, expanded := range e.snapshot {
		e.model.SetExpanded(id, expanded)
	}
}

// HasMatches reports whether anything survived the current query. The view
// shows an explicit "no results" affordance instead of falling back to the
// unfiltered tree.
func (e *Engine) HasMatches() bool {
	if e.query == "" {
		return true
	}
	for i := 0; i < e.model.Len(); i++ {
		if e.model.Node(tree.NodeID(i)).Visible {
			return true
		}
	}
	return false
}

func (e *Engine) showAll() {
	for i := 0; i < e.model.Len(); i++ {
		e.model.SetVisible(tree.NodeID(i), true)
	}
}

// Match is the fuzzy primitive: subsequence scoring over the candidate
// name. Positive if the query scores at all.
func Match(query, candidate string) bool {
	if query == "" {
		return true
	}
	return len(fuzzy.Find(query, []string{candidate})) > 0
}
