package pane

import (
	"bytes"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func TestSplitWidths(t *testing.T) {
	cases := []struct {
		inner, left, right int
	}{
		{101, 60, 40},
		{80, 47, 32},
		{11, 6, 4},
		{3, 1, 1},
		{1, 1, 0},
		{0, 0, 0},
	}
	for _, c := range cases {
		left, right := SplitWidths(c.inner)
		if left != c.left || right != c.right {
			t.Fatalf("SplitWidths(%d) = (%d, %d), want (%d, %d)", c.inner, left, right, c.left, c.right)
		}
		if c.inner > 1 && left+right != c.inner-1 {
			t.Fatalf("SplitWidths(%d): panes plus divider must fill the width", c.inner)
		}
	}
}

func TestKeyBytes(t *testing.T) {
	cases := []struct {
		name string
		msg  tea.KeyMsg
		want []byte
	}{
		{"runes", tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("ls")}, []byte("ls")},
		{"alt rune", tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("f"), Alt: true}, []byte{0x1b, 'f'}},
		{"space", tea.KeyMsg{Type: tea.KeySpace}, []byte{' '}},
		{"enter", tea.KeyMsg{Type: tea.KeyEnter}, []byte{'\r'}},
		{"backspace", tea.KeyMsg{Type: tea.KeyBackspace}, []byte{0x7f}},
		{"esc", tea.KeyMsg{Type: tea.KeyEsc}, []byte{0x1b}},
		{"up", tea.KeyMsg{Type: tea.KeyUp}, []byte("\x1b[A")},
		{"shift-tab", tea.KeyMsg{Type: tea.KeyShiftTab}, []byte("\x1b[Z")},
		{"ctrl+c", tea.KeyMsg{Type: tea.KeyCtrlC}, []byte{0x03}},
		{"ctrl+a", tea.KeyMsg{Type: tea.KeyCtrlA}, []byte{0x01}},
		{"f6", tea.KeyMsg{Type: tea.KeyF6}, []byte("\x1b[17~")},
	}
	for _, c := range cases {
		if got := KeyBytes(c.msg); !bytes.Equal(got, c.want) {
			t.Fatalf("%s: KeyBytes = %q, want %q", c.name, got, c.want)
		}
	}
}
