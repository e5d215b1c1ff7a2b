package pane

import (
	"errors"
	"os/exec"
	"testing"

	"scrn/internal/registry"
	"scrn/internal/tree"
)

func stubAttach(t *testing.T, fn func(sessionName, pidName string, rows, cols int) (*Pane, error)) {
	t.Helper()
	orig := attachFn
	attachFn = fn
	t.Cleanup(func() { attachFn = orig })
}

// fakePane is already-exited so Close is a pure no-op teardown.
func fakePane(name string) *Pane {
	p := &Pane{SessionName: name, cmd: &exec.Cmd{}, done: make(chan struct{})}
	p.exited.Store(true)
	close(p.done)
	return p
}

func TestAttachRetriesOnceOnTransientFailure(t *testing.T) {
	calls := 0
	stubAttach(t, func(sessionName, pidName string, rows, cols int) (*Pane, error) {
		calls++
		if calls == 1 {
			return nil, errors.New("resource temporarily unavailable")
		}
		return fakePane(sessionName), nil
	})

	p, err := attachRetry(registry.Record{Name: "s", PIDName: "1.s"}, 24, 40)
	if err != nil {
		t.Fatalf("retry should have recovered: %v", err)
	}
	if calls != 2 {
		t.Fatalf("expected exactly one retry, got %d attempts", calls)
	}
	if p.SessionName != "s" {
		t.Fatalf("wrong pane: %s", p.SessionName)
	}
}

func TestAttachGivesUpAfterOneRetry(t *testing.T) {
	calls := 0
	stubAttach(t, func(sessionName, pidName string, rows, cols int) (*Pane, error) {
		calls++
		return nil, errors.New("still failing")
	})

	if _, err := attachRetry(registry.Record{Name: "s", PIDName: "1.s"}, 24, 40); err == nil {
		t.Fatal("persistent failure must surface")
	}
	if calls != 2 {
		t.Fatalf("expected 2 attempts, got %d", calls)
	}
}

func TestOpenWrapsAttachFailure(t *testing.T) {
	stubAttach(t, func(sessionName, pidName string, rows, cols int) (*Pane, error) {
		return nil, errors.New("no such session")
	})

	_, err := Open(tree.NodeID(0),
		registry.Record{Name: "p", PIDName: "1.p"},
		registry.Record{Name: "p-2", PIDName: "2.p-2"},
		24, 80)
	if !errors.Is(err, registry.ErrAttachFailed) {
		t.Fatalf("expected ErrAttachFailed, got %v", err)
	}
}

func TestOpenSecondaryFailureClosesPrimary(t *testing.T) {
	stubAttach(t, func(sessionName, pidName string, rows, cols int) (*Pane, error) {
		if sessionName == "p-2" {
			return nil, errors.New("no such session")
		}
		return fakePane(sessionName), nil
	})

	_, err := Open(tree.NodeID(0),
		registry.Record{Name: "p", PIDName: "1.p"},
		registry.Record{Name: "p-2", PIDName: "2.p-2"},
		24, 80)
	if !errors.Is(err, registry.ErrAttachFailed) {
		t.Fatalf("expected ErrAttachFailed, got %v", err)
	}
}
