package tui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"scrn/internal/pane"
	"scrn/internal/tui/theme"
)

// handleSplitKey routes keys while a split is on screen. Only three chords
// belong to the orchestrator; every other key goes verbatim to whichever
// pane has focus.
func (m *model) handleSplitKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlO:
		return m, m.closeSplit()
	case tea.KeyCtrlS, tea.KeyF6:
		m.split.SwapFocus()
		return m, nil
	}
	if b := pane.KeyBytes(msg); len(b) > 0 {
		m.split.SendKey(b)
	}
	return m, nil
}

func (m *model) viewSplit() string {
	rows, cols := m.paneArea()
	leftCols, _ := pane.SplitWidths(cols)

	left := m.split.Primary().Render(m.split.Focus() == pane.FocusPrimary)
	right := m.split.Secondary().Render(m.split.Focus() == pane.FocusSecondary)
	sep := theme.SeparatorStyle.Render(strings.TrimRight(strings.Repeat("│\n", rows), "\n"))

	body := lipgloss.JoinHorizontal(lipgloss.Top, left, sep, right)

	var b strings.Builder
	b.WriteString(m.splitHeader(leftCols))
	b.WriteByte('\n')
	b.WriteString(body)
	b.WriteByte('\n')
	b.WriteString(" " + theme.DimStyle.Render("ctrl+o tree  ctrl+s/F6 swap pane"))
	return b.String()
}

// splitHeader names both sessions, highlighting the focused one over the
// pane it belongs to.
func (m *model) splitHeader(leftCols int) string {
	name := func(p *pane.Pane, focused bool) string {
		label := " " + p.SessionName
		if !p.Running() {
			label += " (detached)"
		}
		if focused {
			return theme.KeyStyle.Render(label)
		}
		return theme.DimStyle.Render(label)
	}
	focus := m.split.Focus()
	left := name(m.split.Primary(), focus == pane.FocusPrimary)
	right := name(m.split.Secondary(), focus == pane.FocusSecondary)

	pad := leftCols + 1 - lipgloss.Width(left)
	if pad < 1 {
		pad = 1
	}
	return left + strings.Repeat(" ", pad) + right
}
