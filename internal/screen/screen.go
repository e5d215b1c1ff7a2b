package screen

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"scrn/internal/shell"
)

// Screen shells out to GNU screen. All session-manager state lives in
// screen itself; this client only queries and mutates it.
type Screen struct {
	Cmd shell.Commander
}

// NewClient returns a Screen backed by real process execution.
func NewClient() *Screen {
	return &Screen{Cmd: &shell.ExecCommander{}}
}

type SessionState int

const (
	StateDetached SessionState = iota
	StateAttached
)

func (s SessionState) String() string {
	if s == StateAttached {
		return "Attached"
	}
	return "Detached"
}

// Session is one live screen session. PIDName is the socket identifier
// ("12345.name") that screen commands target; Name is the part after the
// first dot.
type Session struct {
	Name    string
	PIDName string
	State   SessionState
}

func (s Session) Attached() bool { return s.State == StateAttached }

// ListSessions parses `screen -ls`. Dead sessions (exited process, lingering
// socket) are skipped. An error is returned only when screen itself cannot
// be run; screen exits non-zero when sessions exist, so the exit code is
// ignored and the output inspected instead.
func (s *Screen) ListSessions() ([]Session, error) {
	out, err := s.Cmd.Run("screen", "-ls")
	text := string(out)
	if err != nil && text == "" {
		return nil, fmt.Errorf("failed to run screen: %w", err)
	}
	if strings.Contains(text, "No Sockets found") || strings.TrimSpace(text) == "" {
		return []Session{}, nil
	}

	var sessions []Session
	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		if !strings.Contains(trimmed, "\t") {
			continue
		}
		// Format: "<pid.name>\t(<date>)\t(<State>)"
		parts := strings.Split(trimmed, "\t")
		pidName := strings.TrimSpace(parts[0])
		dot := strings.Index(pidName, ".")
		if dot < 0 {
			continue
		}
		rest := strings.Join(parts[1:], "\t")
		if strings.Contains(rest, "Dead") {
			continue
		}
		state := StateDetached
		if strings.Contains(rest, "Attached") {
			state = StateAttached
		}
		sessions = append(sessions, Session{
			Name:    pidName[dot+1:],
			PIDName: pidName,
			State:   state,
		})
	}
	return sessions, nil
}

func (s *Screen) NewSession(name string) error {
	rc, _ := EnsureScreenrc()
	out, err := s.Cmd.RunEnv("", truecolorEnv(), "screen", "-c", rc, "-dmS", name)
	if err != nil {
		return fmt.Errorf("failed to create session %q: %s", name, firstLine(out, err))
	}
	return nil
}

func (s *Screen) NewSessionInDir(name, dir string) error {
	rc, _ := EnsureScreenrc()
	out, err := s.Cmd.RunEnv(dir, truecolorEnv(), "screen", "-c", rc, "-dmS", name)
	if err != nil {
		return fmt.Errorf("failed to create session %q: %s", name, firstLine(out, err))
	}
	return nil
}

func (s *Screen) KillSession(pidName string) error {
	out, err := s.Cmd.Run("screen", "-X", "-S", pidName, "quit")
	if err != nil {
		return fmt.Errorf("failed to kill session %q: %s", pidName, firstLine(out, err))
	}
	return nil
}

func (s *Screen) RenameSession(pidName, newName string) error {
	out, err := s.Cmd.Run("screen", "-S", pidName, "-X", "sessionname", newName)
	if err != nil {
		return fmt.Errorf("failed to rename session %q: %s", pidName, firstLine(out, err))
	}
	return nil
}

func (s *Screen) HasSession(name string) bool {
	sessions, err := s.ListSessions()
	if err != nil {
		return false
	}
	for _, sess := range sessions {
		if sess.Name == name {
			return true
		}
	}
	return false
}

// InsideSession reports whether scrn itself runs under screen.
func (s *Screen) InsideSession() bool {
	return os.Getenv("STY") != ""
}

// EnsureScreenrc writes the managed screenrc and returns its path. It
// sources the user's ~/.screenrc when present and turns truecolor on so
// 24-bit sequences pass through screen, the same thing tmux and zellij do
// out of the box.
func EnsureScreenrc() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	dir := filepath.Join(home, ".config", "scrn")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	path := filepath.Join(dir, "screenrc")

	var b strings.Builder
	userRC := filepath.Join(home, ".screenrc")
	if _, err := os.Stat(userRC); err == nil {
		fmt.Fprintf(&b, "source %s\n", userRC)
	}
	b.WriteString("truecolor on\n")

	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		return "", err
	}
	return path, nil
}

func truecolorEnv() []string {
	return append(os.Environ(), "COLORTERM=truecolor")
}

func firstLine(out []byte, err error) string {
	text := strings.TrimSpace(string(out))
	if text == "" {
		return err.Error()
	}
	if i := strings.IndexByte(text, '\n'); i > 0 {
		text = text[:i]
	}
	return text
}
