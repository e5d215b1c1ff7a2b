package screen

import (
	"errors"
	"strings"
	"testing"
)

// fakeCommander returns canned output per leading subcommand and records
// every invocation.
type fakeCommander struct {
	lsOutput []byte
	lsErr    error
	calls    [][]string
}

func (f *fakeCommander) Run(name string, args ...string) ([]byte, error) {
	f.calls = append(f.calls, append([]string{name}, args...))
	if len(args) > 0 && args[0] == "-ls" {
		return f.lsOutput, f.lsErr
	}
	return nil, nil
}

func (f *fakeCommander) RunDir(dir, name string, args ...string) ([]byte, error) {
	return f.Run(name, args...)
}

func (f *fakeCommander) RunEnv(dir string, env []string, name string, args ...string) ([]byte, error) {
	return f.Run(name, args...)
}

const sampleLS = `There are screens on:
	12345.scrn-api-a1b2c3d4	(01/15/2026 10:02:11 AM)	(Attached)
	12346.scrn-api-a1b2c3d4-2	(01/15/2026 10:02:11 AM)	(Detached)
	999.dead-one	(01/10/2026 09:00:00 AM)	(Dead ???)
	777.plain	(01/12/2026 08:30:00 AM)	(Detached)
4 Sockets in /run/screen/S-user.
`

func TestListSessionsParsing(t *testing.T) {
	// screen exits 1 when sessions exist; the error must be ignored when
	// there is output to parse.
	fake := &fakeCommander{lsOutput: []byte(sampleLS), lsErr: errors.New("exit status 1")}
	s := &Screen{Cmd: fake}

	sessions, err := s.ListSessions()
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(sessions) != 3 {
		t.Fatalf("expected 3 live sessions, got %d: %+v", len(sessions), sessions)
	}

	first := sessions[0]
	if first.Name != "scrn-api-a1b2c3d4" {
		t.Fatalf("name mismatch: %s", first.Name)
	}
	if first.PIDName != "12345.scrn-api-a1b2c3d4" {
		t.Fatalf("pid name mismatch: %s", first.PIDName)
	}
	if !first.Attached() {
		t.Fatal("first session should be attached")
	}
	if sessions[1].Attached() {
		t.Fatal("companion session should be detached")
	}
	for _, sess := range sessions {
		if strings.Contains(sess.Name, "dead") {
			t.Fatalf("dead session leaked into list: %s", sess.Name)
		}
	}
}

func TestListSessionsNoSockets(t *testing.T) {
	fake := &fakeCommander{
		lsOutput: []byte("No Sockets found in /run/screen/S-user.\n"),
		lsErr:    errors.New("exit status 1"),
	}
	s := &Screen{Cmd: fake}

	sessions, err := s.ListSessions()
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(sessions) != 0 {
		t.Fatalf("expected no sessions, got %d", len(sessions))
	}
}

func TestListSessionsCommandFailure(t *testing.T) {
	fake := &fakeCommander{lsErr: errors.New("exec: not found")}
	s := &Screen{Cmd: fake}

	if _, err := s.ListSessions(); err == nil {
		t.Fatal("expected error when screen cannot run at all")
	}
}

func TestHasSession(t *testing.T) {
	fake := &fakeCommander{lsOutput: []byte(sampleLS)}
	s := &Screen{Cmd: fake}

	if !s.HasSession("plain") {
		t.Fatal("expected plain to exist")
	}
	if s.HasSession("missing") {
		t.Fatal("missing session reported present")
	}
}

func TestInsideSession(t *testing.T) {
	s := &Screen{Cmd: &fakeCommander{}}
	t.Setenv("STY", "")
	if s.InsideSession() {
		t.Fatal("not inside a session")
	}
	t.Setenv("STY", "12345.scrn-x")
	if !s.InsideSession() {
		t.Fatal("should detect STY")
	}
}

func TestKillTargetsPIDName(t *testing.T) {
	fake := &fakeCommander{}
	s := &Screen{Cmd: fake}
	if err := s.KillSession("12345.scrn-api-a1b2c3d4"); err != nil {
		t.Fatalf("kill: %v", err)
	}
	last := fake.calls[len(fake.calls)-1]
	want := []string{"screen", "-X", "-S", "12345.scrn-api-a1b2c3d4", "quit"}
	if len(last) != len(want) {
		t.Fatalf("kill args mismatch: %v", last)
	}
	for i := range want {
		if last[i] != want[i] {
			t.Fatalf("kill args mismatch at %d: %v", i, last)
		}
	}
}
