package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadYAMLConfig(t *testing.T) {
	tmp := t.TempDir()
	confDir := filepath.Join(tmp, "scrn")
	if err := os.MkdirAll(confDir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	content := []byte(`workspace: /srv/work
common_dirs:
  - /srv/shared
  - /opt/tools
refresh_interval_seconds: 7`)
	if err := os.WriteFile(filepath.Join(confDir, "config.yaml"), content, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	t.Setenv("XDG_CONFIG_HOME", tmp)
	t.Setenv("HOME", tmp)
	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.Workspace != "/srv/work" {
		t.Fatalf("workspace mismatch: %s", cfg.Workspace)
	}
	if len(cfg.CommonDirs) != 2 || cfg.CommonDirs[1] != "/opt/tools" {
		t.Fatalf("common_dirs mismatch: %v", cfg.CommonDirs)
	}
	if cfg.RefreshSeconds != 7 {
		t.Fatalf("refresh mismatch: %d", cfg.RefreshSeconds)
	}
}

func TestLoadMissingConfigUsesDefaults(t *testing.T) {
	tmp := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", tmp)
	t.Setenv("HOME", tmp)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Workspace != "" {
		t.Fatalf("expected empty workspace, got %s", cfg.Workspace)
	}
	if cfg.RefreshSeconds != defaultRefreshSeconds {
		t.Fatalf("refresh default mismatch: %d", cfg.RefreshSeconds)
	}
}

func TestLoadLegacyConfig(t *testing.T) {
	tmp := t.TempDir()
	confDir := filepath.Join(tmp, ".config", "scrn")
	if err := os.MkdirAll(confDir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	content := []byte(`# old format
workspace = "/srv/legacy"
common_dirs = /a:/b
`)
	if err := os.WriteFile(filepath.Join(confDir, "config"), content, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	t.Setenv("XDG_CONFIG_HOME", filepath.Join(tmp, "nonexistent"))
	t.Setenv("HOME", tmp)
	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Workspace != "/srv/legacy" {
		t.Fatalf("legacy workspace mismatch: %s", cfg.Workspace)
	}
	if len(cfg.CommonDirs) != 2 || cfg.CommonDirs[0] != "/a" {
		t.Fatalf("legacy common_dirs mismatch: %v", cfg.CommonDirs)
	}
}

func TestExpandTilde(t *testing.T) {
	t.Setenv("HOME", "/home/test")
	if got := ExpandTilde("~/work"); got != "/home/test/work" {
		t.Fatalf("tilde expansion mismatch: %s", got)
	}
	if got := ExpandTilde("~"); got != "/home/test" {
		t.Fatalf("bare tilde mismatch: %s", got)
	}
	if got := ExpandTilde("/abs/path"); got != "/abs/path" {
		t.Fatalf("absolute path changed: %s", got)
	}
	if got := ExpandTilde(""); got != "" {
		t.Fatalf("empty path changed: %s", got)
	}
}
