package history

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Store persists when each session was last opened, backing the
// "opened only" filter and the relative timestamps in the list.
type Store struct {
	Opened map[string]time.Time `json:"opened"`
	path   string
}

func configDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "scrn")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "scrn")
}

func Load() (*Store, error) {
	path := filepath.Join(configDir(), "history.json")
	s := &Store{path: path, Opened: map[string]time.Time{}}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return s, nil
		}
		return nil, err
	}
	if err := json.Unmarshal(data, s); err != nil {
		// A mangled history file is not worth failing startup over.
		return &Store{path: path, Opened: map[string]time.Time{}}, nil
	}
	s.path = path
	return s, nil
}

func (s *Store) Save() error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, data, 0o644)
}

func (s *Store) Record(name string) {
	s.Opened[name] = time.Now()
}

func (s *Store) HasOpened(name string) bool {
	_, ok := s.Opened[name]
	return ok
}

// LastOpened formats the last-open time for display, empty if never opened.
func (s *Store) LastOpened(name string) string {
	ts, ok := s.Opened[name]
	if !ok {
		return ""
	}
	return relative(time.Since(ts))
}

func relative(d time.Duration) string {
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return plural(int(d.Minutes()), "min")
	case d < 24*time.Hour:
		return plural(int(d.Hours()), "hour")
	case d < 30*24*time.Hour:
		return plural(int(d.Hours()/24), "day")
	default:
		return plural(int(d.Hours()/24/30), "month")
	}
}

func plural(n int, unit string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s ago", unit)
	}
	return fmt.Sprintf("%d %ss ago", n, unit)
}
