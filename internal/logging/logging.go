package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
)

const maxLogFiles = 20

// Logger is the shared logger. It discards everything until Initialize
// enables debug logging; the TUI owns the terminal, so nothing may ever
// reach stdout or stderr while the program runs.
var Logger = log.New(io.Discard)

func Initialize(debug bool) error {
	if os.Getenv("SCRN_DEBUG") == "1" {
		debug = true
	}
	if !debug {
		return nil
	}

	dir, err := logDir()
	if err != nil {
		return fmt.Errorf("resolve log directory: %w", err)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create log directory: %w", err)
	}
	if err := rotate(dir); err != nil {
		// Rotation failure should not block logging.
		fmt.Fprintf(os.Stderr, "warning: log rotation failed: %v\n", err)
	}

	path := filepath.Join(dir, uuid.New().String()+".log")
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}

	Logger = log.NewWithOptions(f, log.Options{
		Level:           log.DebugLevel,
		ReportTimestamp: true,
	})
	Logger.Info("debug logging initialized", "file", path)
	return nil
}

// rotate removes the oldest .log files once the directory holds maxLogFiles.
func rotate(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return err
	}

	type logFile struct {
		path    string
		modTime time.Time
	}
	var files []logFile
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".log" {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		files = append(files, logFile{
			path:    filepath.Join(dir, entry.Name()),
			modTime: info.ModTime(),
		})
	}
	if len(files) < maxLogFiles {
		return nil
	}

	sort.Slice(files, func(i, j int) bool {
		return files[i].modTime.Before(files[j].modTime)
	})
	for i := 0; i <= len(files)-maxLogFiles; i++ {
		_ = os.Remove(files[i].path)
	}
	return nil
}

func logDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	switch runtime.GOOS {
	case "darwin":
		return filepath.Join(home, "Library", "Logs", "scrn"), nil
	default:
		stateHome := os.Getenv("XDG_STATE_HOME")
		if stateHome == "" {
			stateHome = filepath.Join(home, ".local", "state")
		}
		return filepath.Join(stateHome, "scrn"), nil
	}
}
