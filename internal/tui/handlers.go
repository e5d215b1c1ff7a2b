package tui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"scrn/internal/logging"
	"scrn/internal/registry"
	"scrn/internal/tree"
)

func (m *model) handleBrowseKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.mode {
	case modeSearch:
		return m.handleSearchKey(msg)
	case modeCreate, modeRename:
		return m.handleInputKey(msg)
	case modeConfirmKill, modeConfirmKillAll, modeConfirmKillAllFinal:
		return m.handleConfirmKey(msg)
	}

	switch msg.String() {
	case "q", "ctrl+c":
		m.navState.Detach()
		m.saveSnapshot()
		return m, tea.Quit

	case "j", "down":
		m.moveSelection(1)
	case "k", "up":
		m.moveSelection(-1)
	case "g", "home":
		m.selectFirst()
	case "G", "end":
		m.selectLast()

	case "enter":
		return m.activateCurrent()

	case "h", "left":
		if e, ok := m.current(); ok && e.kind == entryNode {
			if n := m.tree.Node(e.node); n != nil && n.Kind == tree.Branch && n.Expanded {
				m.tree.ToggleExpand(e.node)
				m.rebuildEntries()
			}
		}
	case "l", "right":
		if e, ok := m.current(); ok && e.kind == entryNode {
			if n := m.tree.Node(e.node); n != nil && n.Kind == tree.Branch && !n.Expanded {
				m.tree.ToggleExpand(e.node)
				m.rebuildEntries()
			}
		}

	case "/":
		m.mode = modeSearch
		m.finder.Begin()
		m.input.SetValue(m.finder.Query())
		m.input.Focus()

	case "esc":
		if m.finder.Active() {
			m.finder.Clear()
			m.rebuildEntries()
		}

	case "o":
		m.filterOpened = !m.filterOpened
		m.rebuildEntries()

	case "c":
		m.mode = modeCreate
		m.input.SetValue("")
		m.input.Focus()

	case "n":
		if e, ok := m.current(); ok && e.kind == entrySession {
			m.renameTarget = e.session
			m.mode = modeRename
			m.input.SetValue(e.session.Name)
			m.input.Focus()
		}

	case "x":
		if e, ok := m.current(); ok && m.killable(e) {
			m.killEntry = e
			m.mode = modeConfirmKill
		}

	case "X":
		m.mode = modeConfirmKillAll

	case "d":
		return m, m.goHome()

	case "r":
		cmds := []tea.Cmd{m.refreshCmd()}
		if m.deps.Cfg.Workspace != "" {
			cmds = append(cmds, m.scanCmd())
		}
		return m, tea.Batch(cmds...)
	}

	return m, nil
}

// activateCurrent is enter: branches toggle, leaves open their split,
// loose sessions attach full screen.
func (m *model) activateCurrent() (tea.Model, tea.Cmd) {
	e, ok := m.current()
	if !ok {
		return m, nil
	}
	switch e.kind {
	case entrySession:
		m.deps.History.Record(e.session.Name)
		if err := m.deps.History.Save(); err != nil {
			logging.Logger.Warn("history save failed", "error", err)
		}
		return m, m.attachSessionCmd(e.session)
	case entryNode:
		n := m.tree.Node(e.node)
		if n == nil {
			return m, nil
		}
		if n.Kind == tree.Branch {
			m.tree.ToggleExpand(e.node)
			m.rebuildEntries()
			return m, nil
		}
		return m, m.openSplitCmd(e.node, n.Path)
	}
	return m, nil
}

// killable: loose sessions always; leaves only when a session pair exists
// for them.
func (m *model) killable(e entry) bool {
	switch e.kind {
	case entrySession:
		return true
	case entryNode:
		n := m.tree.Node(e.node)
		if n == nil || n.Kind != tree.Leaf {
			return false
		}
		primary, _ := registry.SessionNames(n.Path)
		return m.deps.Registry.Alive(primary)
	}
	return false
}

func (m *model) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.mode = modeNormal
		m.input.Blur()
		m.finder.Clear()
		m.rebuildEntries()
		return m, nil
	case "enter":
		// Keep the filter, return to navigation.
		m.mode = modeNormal
		m.input.Blur()
		m.selectFirst()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	m.finder.SetQuery(m.input.Value())
	m.rebuildEntries()
	m.selectFirst()
	return m, cmd
}

func (m *model) handleInputKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.mode = modeNormal
		m.input.Blur()
		return m, nil
	case "enter":
		name := strings.TrimSpace(m.input.Value())
		mode := m.mode
		m.mode = modeNormal
		m.input.Blur()
		if name == "" {
			return m, nil
		}
		if mode == modeCreate {
			return m, m.createSessionCmd(name)
		}
		return m, m.renameSessionCmd(m.renameTarget, name)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *model) handleConfirmKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	yes := msg.String() == "y" || msg.String() == "Y"
	switch m.mode {
	case modeConfirmKill:
		m.mode = modeNormal
		if !yes {
			return m, nil
		}
		return m, m.killConfirmed()
	case modeConfirmKillAll:
		if !yes {
			m.mode = modeNormal
			return m, nil
		}
		// Destroying every session deserves a second look.
		m.mode = modeConfirmKillAllFinal
		return m, nil
	case modeConfirmKillAllFinal:
		m.mode = modeNormal
		if !yes {
			return m, nil
		}
		return m, m.killAllCmd()
	}
	m.mode = modeNormal
	return m, nil
}

func (m *model) killConfirmed() tea.Cmd {
	e := m.killEntry
	m.killEntry = entry{}
	switch e.kind {
	case entrySession:
		return m.killSessionCmd(e.session.Name)
	case entryNode:
		n := m.tree.Node(e.node)
		if n == nil {
			return nil
		}
		primary, secondary := registry.SessionNames(n.Path)
		if n.Binding != nil {
			n.Binding = nil
		}
		return m.killLeafCmd(n.Name, primary, secondary)
	}
	return nil
}
