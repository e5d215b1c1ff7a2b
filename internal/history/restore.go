package history

import (
	"encoding/json"
	"os"
	"path/filepath"
)

// SavedSession is one entry of the restore snapshot: enough to recreate a
// session after a reboot wipes screen's sockets. Path is empty for
// sessions that were not bound to a workspace leaf.
type SavedSession struct {
	Name string `json:"name"`
	Path string `json:"path,omitempty"`
}

func sessionsPath() string {
	return filepath.Join(configDir(), "sessions.json")
}

// SaveSessions snapshots the current session list. Companion "-2" pane
// sessions are implied by their primary and not recorded separately.
func SaveSessions(sessions []SavedSession) error {
	path := sessionsPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(sessions, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func LoadSessions() ([]SavedSession, error) {
	data, err := os.ReadFile(sessionsPath())
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	var sessions []SavedSession
	if err := json.Unmarshal(data, &sessions); err != nil {
		return nil, err
	}
	return sessions, nil
}
