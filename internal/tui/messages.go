package tui

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"scrn/internal/pane"
	"scrn/internal/scanner"
	"scrn/internal/tree"
	"scrn/internal/tui/theme"
)

type toastType int

const (
	toastSuccess toastType = iota
	toastError
	toastWarning
	toastInfo
)

const toastDuration = 3 * time.Second

type toast struct {
	message   string
	kind      toastType
	expiresAt time.Time
}

func (t *toast) expired() bool {
	return time.Now().After(t.expiresAt)
}

func (t *toast) render() string {
	switch t.kind {
	case toastSuccess:
		return theme.SuccessStyle.Render("✓ " + t.message)
	case toastError:
		return theme.ErrorStyle.Render("✗ " + t.message)
	case toastWarning:
		return theme.WarnStyle.Render("! " + t.message)
	default:
		return theme.SubTextStyle.Render(t.message)
	}
}

type SuccessMsg struct {
	Message string
}

type ErrorMsg struct {
	Err     error
	Context string
}

func (e ErrorMsg) Error() string {
	if e.Context != "" {
		return fmt.Sprintf("%s: %v", e.Context, e.Err)
	}
	return e.Err.Error()
}

type InfoMsg struct {
	Message string
}

type toastExpiredMsg struct{}

func NewSuccessCmd(message string) tea.Cmd {
	return func() tea.Msg {
		return SuccessMsg{Message: message}
	}
}

func NewErrorCmd(err error, context string) tea.Cmd {
	return func() tea.Msg {
		return ErrorMsg{Err: err, Context: context}
	}
}

func NewInfoCmd(message string) tea.Cmd {
	return func() tea.Msg {
		return InfoMsg{Message: message}
	}
}

func toastExpireCmd() tea.Cmd {
	return tea.Tick(toastDuration, func(time.Time) tea.Msg {
		return toastExpiredMsg{}
	})
}

// scanDoneMsg delivers a fresh workspace skeleton.
type scanDoneMsg struct {
	skeleton scanner.Skeleton
}

// refreshDoneMsg delivers the outcome of a reconcile pass; the records
// themselves are read from the registry snapshot.
type refreshDoneMsg struct {
	err error
}

// splitOpenedMsg delivers the outcome of opening a leaf: sessions ensured
// and both panes attached, or an error.
type splitOpenedMsg struct {
	leaf tree.NodeID
	path string
	ctrl *pane.Controller
	err  error
}

// resultMsg is the generic outcome of a session mutation (create, rename,
// kill). A refresh always follows it.
type resultMsg struct {
	action string
	err    error
}

type refreshTickMsg struct{}
type paneTickMsg struct{}
