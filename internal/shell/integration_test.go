package shell

import (
	"strings"
	"testing"
)

func TestInitScript(t *testing.T) {
	for _, sh := range []string{"zsh", "bash"} {
		script, err := InitScript(sh)
		if err != nil {
			t.Fatalf("%s: %v", sh, err)
		}
		if !strings.Contains(script, "--action-file") {
			t.Fatalf("%s script must wire the action file", sh)
		}
		if !strings.Contains(script, "scrn") {
			t.Fatalf("%s script must invoke the binary", sh)
		}
	}
}

func TestInitScriptUnknownShell(t *testing.T) {
	if _, err := InitScript("fish"); err == nil {
		t.Fatal("unsupported shell must error")
	}
}
