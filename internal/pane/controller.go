package pane

import (
	"fmt"
	"time"

	"scrn/internal/logging"
	"scrn/internal/registry"
	"scrn/internal/tree"
)

type Focus int

const (
	FocusPrimary Focus = iota
	FocusSecondary
)

// Split geometry: primary pane takes 60% of the inner width, secondary the
// rest, separated by a one-column divider. Both panes run full height.
const primaryPercent = 60

const retryDelay = 50 * time.Millisecond

// SplitWidths computes the pane widths for a given inner width.
func SplitWidths(inner int) (left, right int) {
	if inner <= 1 {
		return inner, 0
	}
	usable := inner - 1
	left = usable * primaryPercent / 100
	right = usable - left
	return left, right
}

// Controller owns the embedded split for one active leaf: both panes'
// viewports and the focus state. It never touches session lifetime; that
// belongs to the registry.
type Controller struct {
	Leaf      tree.NodeID
	primary   *Pane
	secondary *Pane
	focus     Focus
}

// Open attaches both of the leaf's sessions side by side. Attach failures
// on sessions the registry reports alive are transient (permissions, a
// race with another client); each attach is retried once before giving up.
// A secondary failure tears the primary viewport back down so the caller
// never sees a half-open split.
func Open(leaf tree.NodeID, primary, secondary registry.Record, rows, cols int) (*Controller, error) {
	leftCols, rightCols := SplitWidths(cols)

	left, err := attachRetry(primary, rows, leftCols)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", registry.ErrAttachFailed, primary.Name, err)
	}
	right, err := attachRetry(secondary, rows, rightCols)
	if err != nil {
		left.Close()
		return nil, fmt.Errorf("%w: %s: %v", registry.ErrAttachFailed, secondary.Name, err)
	}

	return &Controller{
		Leaf:      leaf,
		primary:   left,
		secondary: right,
		focus:     FocusPrimary,
	}, nil
}

// attachFn is the pane spawn primitive, a variable so tests can count
// attach attempts without a real screen binary.
var attachFn = attach

func attachRetry(rec registry.Record, rows, cols int) (*Pane, error) {
	p, err := attachFn(rec.Name, rec.PIDName, rows, cols)
	if err == nil {
		return p, nil
	}
	logging.Logger.Warn("attach failed, retrying", "session", rec.Name, "error", err)
	time.Sleep(retryDelay)
	return attachFn(rec.Name, rec.PIDName, rows, cols)
}

func (c *Controller) Focus() Focus { return c.focus }

// SwapFocus flips which pane keyboard input routes to. Both panes keep
// rendering live output either way.
func (c *Controller) SwapFocus() {
	if c.focus == FocusPrimary {
		c.focus = FocusSecondary
	} else {
		c.focus = FocusPrimary
	}
}

func (c *Controller) Focused() *Pane {
	if c.focus == FocusSecondary {
		return c.secondary
	}
	return c.primary
}

func (c *Controller) Primary() *Pane   { return c.primary }
func (c *Controller) Secondary() *Pane { return c.secondary }

// SendKey forwards one key to the focused pane only.
func (c *Controller) SendKey(b []byte) {
	c.Focused().Write(b)
}

// Resize recomputes the 60/40 split and pushes the new sizes down to both
// PTYs.
func (c *Controller) Resize(rows, cols int) {
	leftCols, rightCols := SplitWidths(cols)
	c.primary.Resize(rows, leftCols)
	c.secondary.Resize(rows, rightCols)
}

// Alive reports whether either attach client still runs; when both have
// exited (e.g. sessions detached elsewhere) the split should close.
func (c *Controller) Alive() bool {
	return c.primary.Running() || c.secondary.Running()
}

// Close tears down both viewports. Session lifetime is deliberately
// untouched: going back to the tree must never kill or mutate the
// underlying sessions.
func (c *Controller) Close() {
	c.primary.Close()
	c.secondary.Close()
}
