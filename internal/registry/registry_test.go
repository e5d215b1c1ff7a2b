package registry

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"scrn/internal/screen"
)

// fakeScreen emulates just enough of the screen CLI for the registry:
// -ls, -dmS create, and -X quit.
type fakeScreen struct {
	mu       sync.Mutex
	nextPID  int
	sessions map[string]*fakeSession
	creates  int
	lsErr    error
}

type fakeSession struct {
	pid      int
	attached bool
}

func newFakeScreen() *fakeScreen {
	return &fakeScreen{nextPID: 1000, sessions: map[string]*fakeSession{}}
}

func (f *fakeScreen) Run(name string, args ...string) ([]byte, error) {
	return f.RunEnv("", nil, name, args...)
}

func (f *fakeScreen) RunDir(dir, name string, args ...string) ([]byte, error) {
	return f.RunEnv(dir, nil, name, args...)
}

func (f *fakeScreen) RunEnv(dir string, env []string, name string, args ...string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	switch {
	case contains(args, "-ls"):
		if f.lsErr != nil {
			return nil, f.lsErr
		}
		var b strings.Builder
		b.WriteString("There are screens on:\n")
		for sname, s := range f.sessions {
			state := "Detached"
			if s.attached {
				state = "Attached"
			}
			fmt.Fprintf(&b, "\t%d.%s\t(01/01/2026 00:00:00 AM)\t(%s)\n", s.pid, sname, state)
		}
		return []byte(b.String()), errors.New("exit status 1")

	case contains(args, "-dmS"):
		sname := args[indexOf(args, "-dmS")+1]
		f.creates++
		f.nextPID++
		f.sessions[sname] = &fakeSession{pid: f.nextPID}
		return nil, nil

	case contains(args, "quit"):
		pidName := args[indexOf(args, "-S")+1]
		for sname, s := range f.sessions {
			if fmt.Sprintf("%d.%s", s.pid, sname) == pidName {
				delete(f.sessions, sname)
				return nil, nil
			}
		}
		return []byte("No screen session found."), errors.New("exit status 1")
	}
	return nil, nil
}

func contains(args []string, want string) bool { return indexOf(args, want) >= 0 }

func indexOf(args []string, want string) int {
	for i, a := range args {
		if a == want {
			return i
		}
	}
	return -1
}

func newTestRegistry(t *testing.T) (*Registry, *fakeScreen) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	fake := newFakeScreen()
	return New(&screen.Screen{Cmd: fake}), fake
}

func TestSessionNamesDeterministic(t *testing.T) {
	p1, s1 := SessionNames("/home/u/work/My Repo")
	p2, s2 := SessionNames("/home/u/work/My Repo")
	require.Equal(t, p1, p2)
	require.Equal(t, s1, s2)

	require.True(t, strings.HasPrefix(p1, "scrn-my-repo-"))
	require.Equal(t, p1+"-2", s1)
	require.True(t, IsManaged(p1))
	require.True(t, IsCompanion(s1))
	require.False(t, IsCompanion(p1))
}

func TestSessionNamesDistinguishSameBasename(t *testing.T) {
	p1, _ := SessionNames("/home/u/work/api")
	p2, _ := SessionNames("/home/u/other/api")
	require.NotEqual(t, p1, p2)
}

func TestEnsureCreatedCreatesPair(t *testing.T) {
	reg, fake := newTestRegistry(t)

	primary, secondary, err := reg.EnsureCreated("/w/api")
	require.NoError(t, err)
	require.Equal(t, 2, fake.creates)

	rec, ok := reg.Lookup(primary)
	require.True(t, ok)
	require.True(t, rec.Alive)
	require.Contains(t, rec.PIDName, "."+primary)

	_, ok = reg.Lookup(secondary)
	require.True(t, ok)
}

func TestEnsureCreatedIsIdempotent(t *testing.T) {
	reg, fake := newTestRegistry(t)

	_, _, err := reg.EnsureCreated("/w/api")
	require.NoError(t, err)
	_, _, err = reg.EnsureCreated("/w/api")
	require.NoError(t, err)
	require.Equal(t, 2, fake.creates, "second open must not create new sessions")
}

func TestEnsureCreatedRepairsDeadCompanion(t *testing.T) {
	reg, fake := newTestRegistry(t)

	primary, secondary, err := reg.EnsureCreated("/w/api")
	require.NoError(t, err)

	before, _ := reg.Lookup(primary)

	// Kill the companion out-of-band; the next open recreates only it.
	fake.mu.Lock()
	delete(fake.sessions, secondary)
	fake.mu.Unlock()

	_, _, err = reg.EnsureCreated("/w/api")
	require.NoError(t, err)
	require.Equal(t, 3, fake.creates)

	after, _ := reg.Lookup(primary)
	require.Equal(t, before.PIDName, after.PIDName, "surviving session keeps its identity")
	rec, ok := reg.Lookup(secondary)
	require.True(t, ok)
	require.True(t, rec.Alive)
}

func TestRefreshFailureIsFatal(t *testing.T) {
	reg, fake := newTestRegistry(t)
	fake.lsErr = errors.New("screen: command not found")

	err := reg.Refresh()
	require.Error(t, err)
	require.Contains(t, err.Error(), "cannot reach session manager")
}

func TestKill(t *testing.T) {
	reg, fake := newTestRegistry(t)
	primary, secondary, err := reg.EnsureCreated("/w/api")
	require.NoError(t, err)

	require.NoError(t, reg.Kill(primary))
	fake.mu.Lock()
	_, alive := fake.sessions[primary]
	_, companionAlive := fake.sessions[secondary]
	fake.mu.Unlock()
	require.False(t, alive)
	require.True(t, companionAlive, "kill targets one session only")

	err = reg.Kill("never-existed")
	require.ErrorIs(t, err, ErrStale)
}

func TestAttachedReflectsLastRefresh(t *testing.T) {
	reg, fake := newTestRegistry(t)
	primary, _, err := reg.EnsureCreated("/w/api")
	require.NoError(t, err)
	require.False(t, reg.Attached(primary))

	fake.mu.Lock()
	fake.sessions[primary].attached = true
	fake.mu.Unlock()

	// Not visible until a refresh re-reads ground truth.
	require.False(t, reg.Attached(primary))
	require.NoError(t, reg.Refresh())
	require.True(t, reg.Attached(primary))
}

func TestSnapshotSkipsForeignMutation(t *testing.T) {
	reg, _ := newTestRegistry(t)
	_, _, err := reg.EnsureCreated("/w/api")
	require.NoError(t, err)

	snap := reg.Snapshot()
	require.Len(t, snap, 2)
	for _, rec := range snap {
		require.True(t, IsManaged(rec.Name))
	}
}
