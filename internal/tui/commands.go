package tui

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"scrn/internal/history"
	"scrn/internal/logging"
	"scrn/internal/pane"
	"scrn/internal/registry"
	"scrn/internal/scanner"
	"scrn/internal/screen"
	"scrn/internal/tree"
)

const paneFrameInterval = 50 * time.Millisecond

func (m *model) scanCmd() tea.Cmd {
	primary := m.deps.Cfg.Workspace
	secondary := m.deps.Cfg.CommonDirs
	return func() tea.Msg {
		return scanDoneMsg{skeleton: scanner.Scan(primary, secondary)}
	}
}

func (m *model) refreshCmd() tea.Cmd {
	reg := m.deps.Registry
	return func() tea.Msg {
		if err := reg.Refresh(); err != nil {
			return refreshDoneMsg{err: err}
		}
		return refreshDoneMsg{}
	}
}

// openSplitCmd runs the whole open sequence off the UI goroutine: ensure
// the pair exists, then attach both panes at the current split geometry.
// Everything it needs is captured up front; the result message carries the
// controller back to the update loop, which alone mutates model state.
func (m *model) openSplitCmd(leaf tree.NodeID, path string) tea.Cmd {
	reg := m.deps.Registry
	rows, cols := m.paneArea()
	return func() tea.Msg {
		primary, secondary, err := reg.EnsureCreated(path)
		if err != nil {
			return splitOpenedMsg{leaf: leaf, err: err}
		}
		prec, ok := reg.Lookup(primary)
		if !ok {
			return splitOpenedMsg{leaf: leaf, err: fmt.Errorf("%w: %q vanished after create", registry.ErrStale, primary)}
		}
		srec, ok := reg.Lookup(secondary)
		if !ok {
			return splitOpenedMsg{leaf: leaf, err: fmt.Errorf("%w: %q vanished after create", registry.ErrStale, secondary)}
		}
		ctrl, err := pane.Open(leaf, prec, srec, rows, cols)
		if err != nil {
			return splitOpenedMsg{leaf: leaf, err: err}
		}
		return splitOpenedMsg{leaf: leaf, path: path, ctrl: ctrl}
	}
}

// attachSessionCmd hands the terminal to a plain `screen -r` for sessions
// that are not part of a workspace leaf (the flat table). The UI suspends
// until the user detaches.
func (m *model) attachSessionCmd(s screen.Session) tea.Cmd {
	rc, err := screen.EnsureScreenrc()
	if err != nil {
		return NewErrorCmd(err, "screenrc")
	}
	name := s.Name
	cmd := exec.Command("screen", "-c", rc, "-d", "-r", s.PIDName)
	cmd.Env = append(os.Environ(), "COLORTERM=truecolor")
	return tea.ExecProcess(cmd, func(err error) tea.Msg {
		if err != nil {
			return resultMsg{action: "attach " + name, err: err}
		}
		return resultMsg{action: "detached from " + name}
	})
}

func (m *model) createSessionCmd(name string) tea.Cmd {
	client := m.deps.Screen
	return func() tea.Msg {
		return resultMsg{action: "created " + name, err: client.NewSession(name)}
	}
}

func (m *model) renameSessionCmd(s screen.Session, newName string) tea.Cmd {
	client := m.deps.Screen
	return func() tea.Msg {
		return resultMsg{action: "renamed to " + newName, err: client.RenameSession(s.PIDName, newName)}
	}
}

func (m *model) killSessionCmd(name string) tea.Cmd {
	reg := m.deps.Registry
	return func() tea.Msg {
		return resultMsg{action: "killed " + name, err: reg.Kill(name)}
	}
}

// killLeafCmd destroys a leaf's session pair. Partial failure is reported
// but the second kill still runs.
func (m *model) killLeafCmd(name string, primary, secondary string) tea.Cmd {
	reg := m.deps.Registry
	return func() tea.Msg {
		var errs []error
		for _, sess := range []string{primary, secondary} {
			if err := reg.Kill(sess); err != nil && !errors.Is(err, registry.ErrStale) {
				errs = append(errs, err)
			}
		}
		return resultMsg{action: "killed sessions for " + name, err: errors.Join(errs...)}
	}
}

// killAllCmd destroys every managed session. Foreign sessions are never
// touched.
func (m *model) killAllCmd() tea.Cmd {
	reg := m.deps.Registry
	return func() tea.Msg {
		var errs []error
		n := 0
		for _, rec := range reg.Snapshot() {
			if !registry.IsManaged(rec.Name) {
				continue
			}
			if err := reg.Kill(rec.Name); err != nil && !errors.Is(err, registry.ErrStale) {
				errs = append(errs, err)
				continue
			}
			n++
		}
		return resultMsg{action: fmt.Sprintf("killed %d sessions", n), err: errors.Join(errs...)}
	}
}

// restoreCmd recreates managed sessions recorded at last exit that no
// longer exist, so a reboot does not lose the workspace.
func (m *model) restoreCmd() tea.Cmd {
	client := m.deps.Screen
	return func() tea.Msg {
		saved, err := history.LoadSessions()
		if err != nil || len(saved) == 0 {
			return resultMsg{}
		}
		restored := 0
		for _, s := range saved {
			if client.HasSession(s.Name) {
				continue
			}
			_, secondary := registry.SessionNames(s.Path)
			for _, name := range []string{s.Name, secondary} {
				var cerr error
				if s.Path != "" {
					cerr = client.NewSessionInDir(name, s.Path)
				} else {
					cerr = client.NewSession(name)
				}
				if cerr != nil {
					logging.Logger.Warn("restore failed", "session", name, "error", cerr)
				}
			}
			restored++
		}
		if restored == 0 {
			return resultMsg{}
		}
		return resultMsg{action: fmt.Sprintf("restored %d sessions", restored)}
	}
}

// saveSnapshot persists the managed-session list for restoreCmd. Best
// effort on the way out.
func (m *model) saveSnapshot() {
	pathByName := make(map[string]string)
	if m.tree != nil {
		for _, id := range m.tree.Leaves() {
			n := m.tree.Node(id)
			primary, _ := registry.SessionNames(n.Path)
			pathByName[primary] = n.Path
		}
	}
	var saved []history.SavedSession
	for _, rec := range m.deps.Registry.Snapshot() {
		if !registry.IsManaged(rec.Name) || registry.IsCompanion(rec.Name) {
			continue
		}
		saved = append(saved, history.SavedSession{Name: rec.Name, Path: pathByName[rec.Name]})
	}
	if err := history.SaveSessions(saved); err != nil {
		logging.Logger.Warn("session snapshot failed", "error", err)
	}
}

// goHome writes the jump-home action for the shell wrapper to eval after
// the UI exits. Without the wrapper there is nowhere to deliver it.
func (m *model) goHome() tea.Cmd {
	if m.deps.ActionFile == "" {
		return NewInfoCmd("shell integration not set up (add: eval \"$(scrn init zsh)\")")
	}
	if err := os.WriteFile(m.deps.ActionFile, []byte("cd \"$HOME\"\n"), 0o600); err != nil {
		return NewErrorCmd(err, "action file")
	}
	m.navState.Detach()
	m.saveSnapshot()
	return tea.Quit
}

func (m *model) refreshTickCmd() tea.Cmd {
	return tea.Tick(m.refreshInterval, func(time.Time) tea.Msg {
		return refreshTickMsg{}
	})
}

func paneTickCmd() tea.Cmd {
	return tea.Tick(paneFrameInterval, func(time.Time) tea.Msg {
		return paneTickMsg{}
	})
}
