package tui

import (
	"os"
	"sort"
	"strings"

	"scrn/internal/registry"
	"scrn/internal/screen"
	"scrn/internal/search"
	"scrn/internal/tree"
)

type entryKind int

const (
	entryNode entryKind = iota
	entryHeader
	entrySession
)

// entry is one rendered line of the browse view: a tree row, a section
// header, or a loose session from the flat table.
type entry struct {
	kind    entryKind
	node    tree.NodeID
	depth   int
	session screen.Session
	title   string
}

func (e entry) selectable() bool { return e.kind != entryHeader }

// rebuildEntries recomputes the browse list from the tree, the registry
// snapshot, and the active filters. Called after every event that can move
// a line: scans, refreshes, expansion toggles, search keystrokes.
func (m *model) rebuildEntries() {
	var entries []entry

	if m.deps.Cfg.Workspace != "" {
		entries = append(entries, m.treeEntries()...)
	}

	orphans := m.orphanSessions()
	if len(orphans) > 0 {
		entries = append(entries, entry{kind: entryHeader, title: "Sessions"})
		for _, s := range orphans {
			entries = append(entries, entry{kind: entrySession, session: s})
		}
	}

	m.entries = entries
	m.clampSelection()
}

func (m *model) treeEntries() []entry {
	rows := m.tree.Flatten()
	if m.filterOpened {
		rows = m.openedOnly(rows)
	}
	out := make([]entry, 0, len(rows))
	for _, r := range rows {
		out = append(out, entry{kind: entryNode, node: r.ID, depth: r.Depth})
	}
	return out
}

// openedOnly keeps leaves that have been opened before plus the branches
// needed to reach them. Rows arrive in pre-order, so a single backward
// sweep over the kept flags settles every branch.
func (m *model) openedOnly(rows []tree.Row) []tree.Row {
	keep := make([]bool, len(rows))
	index := make(map[tree.NodeID]int, len(rows))
	for i, r := range rows {
		index[r.ID] = i
	}
	for i := len(rows) - 1; i >= 0; i-- {
		n := m.tree.Node(rows[i].ID)
		if n.Kind == tree.Leaf {
			primary, _ := registry.SessionNames(n.Path)
			keep[i] = m.deps.History.HasOpened(primary)
			continue
		}
		for _, c := range n.Children {
			if j, ok := index[c]; ok && keep[j] {
				keep[i] = true
				break
			}
		}
	}
	out := rows[:0:0]
	for i, r := range rows {
		if keep[i] {
			out = append(out, r)
		}
	}
	return out
}

// orphanSessions lists live sessions that do not belong to any leaf in the
// tree: foreign sessions, managed sessions whose directory vanished, plus
// everything when no workspace is configured (the flat legacy table).
// Companion "-2" sessions are folded into their primary and the session we
// are running inside is hidden from itself.
func (m *model) orphanSessions() []screen.Session {
	current := currentSessionName()
	owned := m.ownedSessionNames()

	var out []screen.Session
	for _, rec := range m.deps.Registry.Snapshot() {
		s := screen.Session{Name: rec.Name, PIDName: rec.PIDName}
		if rec.Attached {
			s.State = screen.StateAttached
		}
		switch {
		case rec.Name == current:
			continue
		case registry.IsManaged(rec.Name) && registry.IsCompanion(rec.Name):
			continue
		case owned[rec.Name]:
			continue
		case m.finder != nil && m.finder.Active() && !search.Match(m.finder.Query(), rec.Name):
			continue
		case m.filterOpened && !m.deps.History.HasOpened(rec.Name):
			continue
		}
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// ownedSessionNames derives the session names every leaf in the current
// tree would use, so those sessions render through their leaf rather than
// the loose table.
func (m *model) ownedSessionNames() map[string]bool {
	owned := make(map[string]bool)
	if m.tree == nil {
		return owned
	}
	for _, id := range m.tree.Leaves() {
		primary, secondary := registry.SessionNames(m.tree.Node(id).Path)
		owned[primary] = true
		owned[secondary] = true
	}
	return owned
}

// currentSessionName extracts the session name from STY ("pid.name").
func currentSessionName() string {
	sty := os.Getenv("STY")
	if sty == "" {
		return ""
	}
	if i := strings.IndexByte(sty, '.'); i >= 0 {
		return sty[i+1:]
	}
	return sty
}

func (m *model) clampSelection() {
	if len(m.entries) == 0 {
		m.selected = 0
		return
	}
	if m.selected >= len(m.entries) {
		m.selected = len(m.entries) - 1
	}
	if m.selected < 0 {
		m.selected = 0
	}
	if !m.entries[m.selected].selectable() {
		m.moveSelection(1)
	}
}

// moveSelection steps to the next selectable entry in the given direction,
// clamping at the ends.
func (m *model) moveSelection(delta int) {
	if len(m.entries) == 0 {
		return
	}
	i := m.selected
	for {
		i += delta
		if i < 0 || i >= len(m.entries) {
			return
		}
		if m.entries[i].selectable() {
			m.selected = i
			return
		}
	}
}

func (m *model) selectFirst() {
	m.selected = 0
	m.clampSelection()
}

func (m *model) selectLast() {
	for i := len(m.entries) - 1; i >= 0; i-- {
		if m.entries[i].selectable() {
			m.selected = i
			return
		}
	}
}

// selectNode moves the selection to a specific tree node, used to land
// back on the leaf after leaving its split.
func (m *model) selectNode(id tree.NodeID) {
	for i, e := range m.entries {
		if e.kind == entryNode && e.node == id {
			m.selected = i
			return
		}
	}
}

func (m *model) current() (entry, bool) {
	if m.selected < 0 || m.selected >= len(m.entries) {
		return entry{}, false
	}
	e := m.entries[m.selected]
	return e, e.selectable()
}
