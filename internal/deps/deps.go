package deps

import (
	"fmt"
	"os/exec"
	"runtime"
	"strconv"
	"strings"
)

// GNU Screen 5.0 added truecolor support, which the embedded panes rely on.
const minScreenMajor = 5

type Dependency struct {
	Name       string
	Command    string
	Required   bool
	InstallCmd map[string]string
}

type MissingDep struct {
	Dependency
	Reason string
}

var dependencies = []Dependency{
	{
		Name:     "screen",
		Command:  "screen",
		Required: true,
		InstallCmd: map[string]string{
			"darwin": "brew install screen",
			"linux":  "sudo apt install screen",
		},
	},
	{
		Name:     "git",
		Command:  "git",
		Required: true,
		InstallCmd: map[string]string{
			"darwin": "brew install git",
			"linux":  "sudo apt install git",
		},
	},
}

func Check() []MissingDep {
	missing := []MissingDep{}
	for _, dep := range dependencies {
		if _, err := exec.LookPath(dep.Command); err != nil {
			missing = append(missing, MissingDep{Dependency: dep, Reason: "not installed"})
			continue
		}
		if dep.Command == "screen" {
			if err := checkScreenVersion(); err != nil {
				missing = append(missing, MissingDep{Dependency: dep, Reason: err.Error()})
			}
		}
	}
	return missing
}

func checkScreenVersion() error {
	out, err := exec.Command("screen", "--version").CombinedOutput()
	if err != nil {
		return fmt.Errorf("screen --version failed: %w", err)
	}
	version, major := ParseScreenVersion(string(out))
	if major < minScreenMajor {
		return fmt.Errorf("screen %s is too old, 5.0+ required for truecolor", version)
	}
	return nil
}

// ParseScreenVersion extracts the version string and major number from
// `screen --version` output, e.g. "Screen version 5.0.1 (GNU) 12-Aug-24".
func ParseScreenVersion(out string) (string, int) {
	fields := strings.Fields(out)
	if len(fields) < 3 {
		return "unknown", 0
	}
	version := fields[2]
	major, _ := strconv.Atoi(strings.SplitN(version, ".", 2)[0])
	return version, major
}

func InstallHint(dep MissingDep) string {
	goos := runtime.GOOS
	if cmd, ok := dep.InstallCmd[goos]; ok {
		return cmd
	}
	return "install " + dep.Name + " via your package manager"
}
