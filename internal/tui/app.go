package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"scrn/internal/config"
	"scrn/internal/history"
	"scrn/internal/logging"
	"scrn/internal/nav"
	"scrn/internal/pane"
	"scrn/internal/registry"
	"scrn/internal/scanner"
	"scrn/internal/screen"
	"scrn/internal/search"
	"scrn/internal/tree"
	"scrn/internal/tui/theme"
)

type inputMode int

const (
	modeNormal inputMode = iota
	modeSearch
	modeCreate
	modeRename
	modeConfirmKill
	modeConfirmKillAll
	modeConfirmKillAllFinal
)

type Deps struct {
	Cfg        *config.Config
	Screen     *screen.Screen
	Registry   *registry.Registry
	History    *history.Store
	ActionFile string
}

type model struct {
	deps Deps

	tree     *tree.Model
	finder   *search.Engine
	navState *nav.Machine
	split    *pane.Controller

	entries  []entry
	selected int
	offset   int

	mode  inputMode
	input textinput.Model

	width, height int
	toast         *toast
	warnings      []scanner.Warning
	filterOpened  bool
	fatalErr      error

	renameTarget screen.Session
	killEntry    entry

	refreshInterval time.Duration
}

func newModel(deps Deps) *model {
	input := textinput.New()
	input.CharLimit = 80

	interval := time.Duration(deps.Cfg.RefreshSeconds) * time.Second
	if interval <= 0 {
		interval = 3 * time.Second
	}

	t := tree.New()
	return &model{
		deps:            deps,
		tree:            t,
		finder:          search.New(t),
		navState:        nav.NewMachine(),
		input:           input,
		refreshInterval: interval,
	}
}

// Run starts the UI and blocks until it exits.
func Run(deps Deps) error {
	p := tea.NewProgram(newModel(deps), tea.WithAltScreen())
	_, err := p.Run()
	return err
}

func (m *model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.restoreCmd(), m.refreshCmd(), m.refreshTickCmd()}
	if m.deps.Cfg.Workspace != "" {
		cmds = append(cmds, m.scanCmd())
	}
	return tea.Batch(cmds...)
}

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		if m.split != nil {
			rows, cols := m.paneArea()
			m.split.Resize(rows, cols)
		}
		return m, nil

	case tea.KeyMsg:
		if m.fatalErr != nil {
			m.saveSnapshot()
			return m, tea.Quit
		}
		if m.navState.State() == nav.ActiveSplit {
			return m.handleSplitKey(msg)
		}
		return m.handleBrowseKey(msg)

	case scanDoneMsg:
		m.tree.Load(msg.skeleton)
		m.finder = search.New(m.tree)
		m.warnings = msg.skeleton.Warnings
		m.rebuildEntries()
		return m, nil

	case refreshDoneMsg:
		if msg.err != nil {
			// No session list means no ground truth; nothing below this
			// screen can be trusted anymore.
			logging.Logger.Error("refresh failed", "error", msg.err)
			m.fatalErr = msg.err
			return m, nil
		}
		m.rebuildEntries()
		return m, nil

	case splitOpenedMsg:
		return m.handleSplitOpened(msg)

	case resultMsg:
		cmds := []tea.Cmd{m.refreshCmd()}
		if msg.err != nil {
			cmds = append(cmds, NewErrorCmd(msg.err, msg.action))
		} else if msg.action != "" {
			cmds = append(cmds, NewSuccessCmd(msg.action))
		}
		return m, tea.Batch(cmds...)

	case refreshTickMsg:
		cmds := []tea.Cmd{m.refreshTickCmd()}
		if m.navState.State() == nav.BrowsingTree && m.mode == modeNormal {
			cmds = append(cmds, m.refreshCmd())
		}
		return m, tea.Batch(cmds...)

	case paneTickMsg:
		if m.split == nil {
			return m, nil
		}
		if !m.split.Alive() {
			// Both attach clients gone (sessions died or were stolen);
			// fall back to the tree.
			return m, m.closeSplit()
		}
		return m, paneTickCmd()

	case SuccessMsg:
		m.toast = &toast{message: msg.Message, kind: toastSuccess, expiresAt: time.Now().Add(toastDuration)}
		return m, toastExpireCmd()
	case ErrorMsg:
		logging.Logger.Error("ui error", "context", msg.Context, "error", msg.Err)
		m.toast = &toast{message: msg.Error(), kind: toastError, expiresAt: time.Now().Add(toastDuration)}
		return m, toastExpireCmd()
	case InfoMsg:
		m.toast = &toast{message: msg.Message, kind: toastInfo, expiresAt: time.Now().Add(toastDuration)}
		return m, toastExpireCmd()
	case toastExpiredMsg:
		if m.toast != nil && m.toast.expired() {
			m.toast = nil
		}
		return m, nil
	}

	return m, nil
}

func (m *model) handleSplitOpened(msg splitOpenedMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		return m, NewErrorCmd(msg.err, "open")
	}
	// The sessions exist now regardless of what the user did meanwhile;
	// record the binding first so they are never orphaned untracked.
	primary, secondary := registry.SessionNames(msg.path)
	m.tree.Bind(msg.leaf, primary, secondary)
	if !m.navState.Open(msg.leaf) {
		// Another split won the race; this one's viewports are surplus.
		msg.ctrl.Close()
		return m, nil
	}
	m.split = msg.ctrl
	m.deps.History.Record(primary)
	if err := m.deps.History.Save(); err != nil {
		logging.Logger.Warn("history save failed", "error", err)
	}
	return m, paneTickCmd()
}

// closeSplit tears the viewports down and lands the selection back on the
// leaf that was open. Sessions stay alive.
func (m *model) closeSplit() tea.Cmd {
	if m.split != nil {
		m.split.Close()
		m.split = nil
	}
	leaf := m.navState.Return()
	m.rebuildEntries()
	if leaf != tree.InvalidID {
		m.selectNode(leaf)
	}
	return m.refreshCmd()
}

// paneArea is the region the split occupies: full width, everything but
// the header and status lines.
func (m *model) paneArea() (rows, cols int) {
	rows = m.height - 2
	if rows < 1 {
		rows = 1
	}
	cols = m.width
	if cols < 3 {
		cols = 3
	}
	return rows, cols
}

func (m *model) View() string {
	if m.fatalErr != nil {
		return m.viewFatal()
	}
	if m.navState.State() == nav.ActiveSplit && m.split != nil {
		return m.viewSplit()
	}
	return m.viewBrowse()
}

func (m *model) viewFatal() string {
	body := theme.ErrorStyle.Render("lost the session manager") + "\n\n" +
		theme.TextStyle.Render(m.fatalErr.Error()) + "\n\n" +
		theme.DimStyle.Render("press any key to exit")
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, body)
}

func (m *model) viewBrowse() string {
	var b strings.Builder

	b.WriteString(m.headerLine())
	b.WriteByte('\n')

	listHeight := m.height - 3
	if listHeight < 1 {
		listHeight = 1
	}
	m.scrollTo(listHeight)

	lines := 0
	if m.finder.Active() && !m.finder.HasMatches() && len(m.entries) == 0 {
		b.WriteString("  " + theme.NoResultsStyle.Render("no matches"))
		b.WriteByte('\n')
		lines++
	}
	for i := m.offset; i < len(m.entries) && lines < listHeight; i++ {
		b.WriteString(m.renderEntry(m.entries[i], i == m.selected))
		b.WriteByte('\n')
		lines++
	}
	for ; lines < listHeight; lines++ {
		b.WriteByte('\n')
	}

	b.WriteString(m.promptLine())
	b.WriteByte('\n')
	b.WriteString(m.footerLine())
	return b.String()
}

func (m *model) headerLine() string {
	title := theme.TitleStyle.Render("scrn")
	var parts []string
	parts = append(parts, title)
	if ws := m.deps.Cfg.Workspace; ws != "" {
		parts = append(parts, theme.SubTextStyle.Render(ws))
	} else {
		parts = append(parts, theme.DimStyle.Render("no workspace configured"))
	}
	if m.filterOpened {
		parts = append(parts, theme.WarnStyle.Render("[opened]"))
	}
	if len(m.warnings) > 0 {
		parts = append(parts, theme.WarnStyle.Render(fmt.Sprintf("%d unreadable", len(m.warnings))))
	}
	return " " + strings.Join(parts, "  ")
}

func (m *model) promptLine() string {
	switch m.mode {
	case modeSearch:
		return " " + theme.KeyStyle.Render("/") + m.input.View()
	case modeCreate:
		return " " + theme.TextStyle.Render("new session: ") + m.input.View()
	case modeRename:
		return " " + theme.TextStyle.Render("rename to: ") + m.input.View()
	case modeConfirmKill:
		return " " + theme.ErrorStyle.Render("kill "+m.killLabel()+"? (y/n)")
	case modeConfirmKillAll:
		return " " + theme.ErrorStyle.Render("kill ALL managed sessions? (y/n)")
	case modeConfirmKillAllFinal:
		return " " + theme.ErrorStyle.Render("really kill everything? (y/n)")
	}
	if m.finder.Active() {
		return " " + theme.DimStyle.Render("filter: "+m.finder.Query()+"  (esc clears)")
	}
	return ""
}

func (m *model) killLabel() string {
	switch m.killEntry.kind {
	case entrySession:
		return m.killEntry.session.Name
	case entryNode:
		if n := m.tree.Node(m.killEntry.node); n != nil {
			return "sessions for " + n.Name
		}
	}
	return "?"
}

func (m *model) footerLine() string {
	if m.toast != nil && !m.toast.expired() {
		return " " + m.toast.render()
	}
	hints := []string{
		key("enter", "open"), key("/", "search"), key("o", "opened"),
		key("c", "new"), key("n", "rename"), key("x", "kill"), key("X", "kill all"),
		key("d", "home"), key("r", "refresh"), key("q", "quit"),
	}
	return " " + theme.DimStyle.Render(strings.Join(hints, "  "))
}

func key(k, label string) string {
	return k + " " + label
}

func (m *model) scrollTo(listHeight int) {
	if m.selected < m.offset {
		m.offset = m.selected
	}
	if m.selected >= m.offset+listHeight {
		m.offset = m.selected - listHeight + 1
	}
	if m.offset < 0 {
		m.offset = 0
	}
}

func (m *model) renderEntry(e entry, selected bool) string {
	switch e.kind {
	case entryHeader:
		return " " + theme.SectionStyle.Render(e.title)
	case entrySession:
		return m.renderSession(e.session, selected)
	default:
		return m.renderNode(e, selected)
	}
}

func (m *model) renderNode(e entry, selected bool) string {
	n := m.tree.Node(e.node)
	if n == nil {
		return ""
	}
	indent := strings.Repeat("  ", e.depth)

	var glyph, label string
	active := false
	if n.Kind == tree.Branch {
		glyph = theme.GlyphCollapsed
		if n.Expanded {
			glyph = theme.GlyphExpanded
		}
		label = n.Name + "/"
	} else {
		glyph = theme.GlyphLeaf
		label = n.Name
		active = m.tree.Active(e.node, m.deps.Registry.Attached)
		if primary, _ := registry.SessionNames(n.Path); m.deps.History.HasOpened(primary) {
			if ts := m.deps.History.LastOpened(primary); ts != "" {
				label += theme.DimStyle.Render("  " + ts)
			}
		}
	}

	line := fmt.Sprintf(" %s%s %s", indent, glyph, label)
	switch {
	case selected && active:
		return theme.SelectedActiveStyle.Render(line)
	case selected:
		return theme.SelectedStyle.Render(line)
	case active:
		return theme.ActiveLeafStyle.Render(line)
	case n.Kind == tree.Branch:
		return theme.BranchStyle.Render(line)
	default:
		return theme.TextStyle.Render(line)
	}
}

func (m *model) renderSession(s screen.Session, selected bool) string {
	glyph := theme.GlyphDetached
	if s.Attached() {
		glyph = theme.GlyphAttached
	}
	label := s.Name
	if ts := m.deps.History.LastOpened(s.Name); ts != "" {
		label += theme.DimStyle.Render("  " + ts)
	}
	line := fmt.Sprintf("   %s %s", glyph, label)
	switch {
	case selected:
		return theme.SelectedStyle.Render(line)
	case s.Attached():
		return theme.ActiveLeafStyle.Render(line)
	default:
		return theme.TextStyle.Render(line)
	}
}
