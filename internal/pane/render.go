package pane

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/hinshun/vt10x"
	"github.com/charmbracelet/lipgloss"
)

// Render dumps the pane's cell buffer as styled lines. The cursor is drawn
// as a reverse-video cell, only on the focused pane. Styles are emitted
// per run of identical attributes, not per cell, to keep frame size sane.
func (p *Pane) Render(focused bool) string {
	p.term.Lock()
	defer p.term.Unlock()

	cols, rows := p.term.Size()
	cursor := p.term.Cursor()
	showCursor := focused && p.term.CursorVisible()

	var out strings.Builder
	for y := 0; y < rows; y++ {
		var (
			run     strings.Builder
			runFG   vt10x.Color
			runBG   vt10x.Color
			runRev  bool
			started bool
		)
		flush := func() {
			if run.Len() == 0 {
				return
			}
			out.WriteString(styleFor(runFG, runBG, runRev).Render(run.String()))
			run.Reset()
		}
		for x := 0; x < cols; x++ {
			cell := p.term.Cell(x, y)
			rev := showCursor && x == cursor.X && y == cursor.Y
			if !started || cell.FG != runFG || cell.BG != runBG || rev != runRev {
				flush()
				runFG, runBG, runRev = cell.FG, cell.BG, rev
				started = true
			}
			ch := cell.Char
			if ch == 0 {
				ch = ' '
			}
			run.WriteRune(ch)
		}
		flush()
		if y < rows-1 {
			out.WriteByte('\n')
		}
	}
	return out.String()
}

func styleFor(fg, bg vt10x.Color, reverse bool) lipgloss.Style {
	style := lipgloss.NewStyle()
	if c, ok := termColor(fg, vt10x.DefaultFG); ok {
		style = style.Foreground(c)
	}
	if c, ok := termColor(bg, vt10x.DefaultBG); ok {
		style = style.Background(c)
	}
	if reverse {
		style = style.Reverse(true)
	}
	return style
}

// termColor maps a vt10x color to a lipgloss color: palette indexes below
// 256, 24-bit values above.
func termColor(c, def vt10x.Color) (lipgloss.Color, bool) {
	if c == def {
		return "", false
	}
	if uint32(c) < 256 {
		return lipgloss.Color(strconv.Itoa(int(c))), true
	}
	return lipgloss.Color(fmt.Sprintf("#%06x", uint32(c)&0xffffff)), true
}
