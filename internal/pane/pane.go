package pane

import (
	"fmt"
	"os"
	"os/exec"
	"strings"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/hinshun/vt10x"
	"github.com/creack/pty"

	"scrn/internal/logging"
	"scrn/internal/screen"
)

// Pane is one embedded session view: a PTY running `screen -d -r` and a
// virtual terminal that its output is parsed into. A background reader
// drains the PTY continuously; it writes only into the vt10x terminal
// (which carries its own lock), never into shared model state.
type Pane struct {
	SessionName string
	pidName     string
	cmd         *exec.Cmd
	ptmx        *os.File
	term        vt10x.Terminal
	rows, cols  int
	done        chan struct{}
	exited      atomic.Bool
}

// detachSeq is Ctrl+A d, screen's own clean-detach chord.
var detachSeq = []byte{0x01, 'd'}

// attach reattaches the PTY to an existing session (`-d -r` steals it from
// any other display first, so the split always wins the session).
func attach(sessionName, pidName string, rows, cols int) (*Pane, error) {
	rc, err := screen.EnsureScreenrc()
	if err != nil {
		return nil, fmt.Errorf("screenrc: %w", err)
	}
	cmd := exec.Command("screen", "-c", rc, "-d", "-r", pidName)
	cmd.Env = paneEnv()
	cmd.SysProcAttr = &syscall.SysProcAttr{Setsid: true, Setctty: true}

	ptmx, err := pty.StartWithSize(cmd, &pty.Winsize{Rows: uint16(rows), Cols: uint16(cols)})
	if err != nil {
		return nil, err
	}

	p := &Pane{
		SessionName: sessionName,
		pidName:     pidName,
		cmd:         cmd,
		ptmx:        ptmx,
		term:        vt10x.New(vt10x.WithSize(cols, rows)),
		rows:        rows,
		cols:        cols,
		done:        make(chan struct{}),
	}
	go p.drain()
	return p, nil
}

// drain pulls PTY output into the virtual terminal until the attach
// process exits (e.g. after a detach).
func (p *Pane) drain() {
	defer close(p.done)
	buf := make([]byte, 64*1024)
	for {
		n, err := p.ptmx.Read(buf)
		if n > 0 {
			if _, werr := p.term.Write(buf[:n]); werr != nil {
				logging.Logger.Debug("terminal parse error", "session", p.SessionName, "error", werr)
			}
		}
		if err != nil {
			p.exited.Store(true)
			return
		}
	}
}

// Write forwards input bytes to the session.
func (p *Pane) Write(b []byte) {
	if len(b) == 0 || p.exited.Load() {
		return
	}
	if _, err := p.ptmx.Write(b); err != nil {
		logging.Logger.Debug("pty write failed", "session", p.SessionName, "error", err)
	}
}

// Resize updates both the PTY (so the remote program reflows) and the
// virtual terminal that mirrors it.
func (p *Pane) Resize(rows, cols int) {
	if rows == p.rows && cols == p.cols {
		return
	}
	p.rows, p.cols = rows, cols
	p.term.Resize(cols, rows)
	if err := pty.Setsize(p.ptmx, &pty.Winsize{Rows: uint16(rows), Cols: uint16(cols)}); err != nil {
		logging.Logger.Debug("pty resize failed", "session", p.SessionName, "error", err)
	}
}

func (p *Pane) Size() (rows, cols int) { return p.rows, p.cols }

// Running reports whether the attach process is still alive.
func (p *Pane) Running() bool { return !p.exited.Load() }

// Close detaches the screen client and reaps the attach process. This is
// strictly a viewport teardown: the session itself stays alive and
// registered, a later open reattaches to the same name.
func (p *Pane) Close() {
	p.Write(detachSeq)
	select {
	case <-p.done:
	case <-time.After(250 * time.Millisecond):
		// The client did not exit on detach; take the process down
		// gracefully so screen can clean up its socket. SIGTERM first,
		// SIGKILL as last resort.
		if p.cmd.Process != nil {
			_ = p.cmd.Process.Signal(syscall.SIGTERM)
			select {
			case <-p.done:
			case <-time.After(100 * time.Millisecond):
				_ = p.cmd.Process.Kill()
			}
		}
	}
	_ = p.ptmx.Close()
	_ = p.cmd.Wait()
}

// paneEnv strips STY and WINDOW so screen does not refuse to attach from
// inside what it thinks is another session.
func paneEnv() []string {
	var env []string
	for _, kv := range os.Environ() {
		if strings.HasPrefix(kv, "STY=") || strings.HasPrefix(kv, "WINDOW=") {
			continue
		}
		env = append(env, kv)
	}
	return append(env, "TERM=xterm-256color", "COLORTERM=truecolor")
}
