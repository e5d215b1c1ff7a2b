package registry

import (
	"crypto/sha256"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	"scrn/internal/logging"
	"scrn/internal/screen"
)

var (
	// ErrCreateFailed: the session manager could not create a session. The
	// leaf's binding stays unset and the open can simply be retried.
	ErrCreateFailed = errors.New("session creation failed")
	// ErrAttachFailed: a session that the latest refresh reports alive
	// could not be attached. Transient; callers retry once before
	// surfacing it.
	ErrAttachFailed = errors.New("session attach failed")
	// ErrStale: a previously-alive session died out-of-band. Not a
	// failure by itself; EnsureCreated repairs it.
	ErrStale = errors.New("session is stale")
)

// Record mirrors one external session as of the last refresh.
type Record struct {
	Name     string
	PIDName  string
	Attached bool
	Alive    bool
}

// Registry is the single source of truth for which sessions exist and
// which are attached. Session state belongs to GNU screen; everything here
// is a reconciled mirror, re-read before any decision that depends on
// liveness. The tree model's bindings are advisory: sessions die and get
// killed out-of-band, so they are verified here, never trusted.
type Registry struct {
	client *screen.Screen

	mu      sync.Mutex
	records map[string]Record
}

func New(client *screen.Screen) *Registry {
	return &Registry{client: client, records: make(map[string]Record)}
}

// Refresh re-queries the session list and replaces every record's
// alive/attached state. A failed listing is the one fatal condition in the
// core: with no ground truth, nothing else can be decided.
func (r *Registry) Refresh() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.refreshLocked()
}

func (r *Registry) refreshLocked() error {
	sessions, err := r.client.ListSessions()
	if err != nil {
		return fmt.Errorf("cannot reach session manager: %w", err)
	}
	records := make(map[string]Record, len(sessions))
	for _, s := range sessions {
		records[s.Name] = Record{
			Name:     s.Name,
			PIDName:  s.PIDName,
			Attached: s.Attached(),
			Alive:    true,
		}
	}
	r.records = records
	return nil
}

// Snapshot returns the records from the latest refresh.
func (r *Registry) Snapshot() []Record {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Record, 0, len(r.records))
	for _, rec := range r.records {
		out = append(out, rec)
	}
	return out
}

func (r *Registry) Lookup(name string) (Record, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.records[name]
	return rec, ok
}

// Attached reports whether the named session was attached as of the last
// refresh. Used by the render coloring predicate.
func (r *Registry) Attached(name string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.records[name].Attached
}

func (r *Registry) Alive(name string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.records[name].Alive
}

// EnsureCreated makes sure the leaf's two sessions exist, creating only
// what is missing or dead. It refreshes first, so an externally killed
// session is repaired while its surviving companion keeps its identity.
// Creation is at-most-once per leaf apart from that repair path; a live
// session is never destroyed here. The whole sequence holds the registry
// lock, so a refresh racing an open can never clobber a just-created pair.
func (r *Registry) EnsureCreated(path string) (string, string, error) {
	primary, secondary := SessionNames(path)

	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.refreshLocked(); err != nil {
		return "", "", err
	}
	for _, name := range []string{primary, secondary} {
		if rec, ok := r.records[name]; ok && rec.Alive {
			continue
		}
		logging.Logger.Info("creating session", "name", name, "dir", path)
		if err := r.client.NewSessionInDir(name, path); err != nil {
			return "", "", fmt.Errorf("%w: %v", ErrCreateFailed, err)
		}
	}
	// Re-list so the new sessions' pid names are known immediately.
	if err := r.refreshLocked(); err != nil {
		return "", "", err
	}
	for _, name := range []string{primary, secondary} {
		if rec, ok := r.records[name]; !ok || !rec.Alive {
			return "", "", fmt.Errorf("%w: session %q did not appear after create", ErrCreateFailed, name)
		}
	}
	return primary, secondary, nil
}

// Kill destroys one session. Only reachable from the explicit kill
// command; navigation never calls this.
func (r *Registry) Kill(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.records[name]
	if !ok {
		return fmt.Errorf("%w: %q not in session list", ErrStale, name)
	}
	if err := r.client.KillSession(rec.PIDName); err != nil {
		return err
	}
	delete(r.records, name)
	return nil
}

// sessionPrefix namespaces every managed session so the flat table can
// tell scrn-owned sessions from foreign ones.
const sessionPrefix = "scrn-"

const maxBaseRunes = 40

// SessionNames derives the leaf's session pair from its path alone. The
// basename keeps the name legible; the hash suffix keeps two leaves with
// the same basename distinct and makes the name recomputable after a
// restart, so existing sessions are rediscovered instead of duplicated.
// The secondary (right pane) session carries the "-2" suffix.
func SessionNames(path string) (primary, secondary string) {
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	base := sanitize(filepath.Base(abs))
	sum := sha256.Sum256([]byte(abs))
	primary = fmt.Sprintf("%s%s-%x", sessionPrefix, base, sum[:4])
	return primary, primary + "-2"
}

// IsCompanion reports whether the name is a secondary (right pane) session.
func IsCompanion(name string) bool {
	return strings.HasSuffix(name, "-2")
}

// IsManaged reports whether the session was created by scrn.
func IsManaged(name string) bool {
	return strings.HasPrefix(name, sessionPrefix)
}

// sanitize lowercases the basename and collapses anything screen might
// choke on to single dashes, trimming to a sane length; the hash suffix
// carries the uniqueness.
func sanitize(name string) string {
	var b strings.Builder
	lastDash := true
	for _, r := range strings.ToLower(name) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastDash = false
		default:
			if !lastDash {
				b.WriteByte('-')
				lastDash = true
			}
		}
	}
	out := strings.Trim(b.String(), "-")
	if out == "" {
		out = "leaf"
	}
	runes := []rune(out)
	if len(runes) > maxBaseRunes {
		out = string(runes[:maxBaseRunes])
	}
	return out
}
