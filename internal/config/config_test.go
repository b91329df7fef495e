package config

import (
	"os"
	"path/filepath"
	"testing"
)

func isolateConfig(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	t.Setenv("XDG_DATA_HOME", filepath.Join(dir, "data"))
	t.Setenv(EnvDBPath, "")
	t.Setenv(EnvHousehold, "")
	t.Setenv(EnvLogLevel, "")
	return dir
}

func TestLoad_DefaultsWhenMissing(t *testing.T) {
	isolateConfig(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.General.Household != "default" {
		t.Fatalf("Household = %q, want default", cfg.General.Household)
	}
	if cfg.Daemon.RefreshSchedule != "@every 15s" {
		t.Fatalf("RefreshSchedule = %q, want @every 15s", cfg.Daemon.RefreshSchedule)
	}
	if Exists() {
		t.Fatal("Exists() = true before Save")
	}
}

func TestSaveThenLoad(t *testing.T) {
	dir := isolateConfig(t)

	cfg := DefaultConfig()
	cfg.General.Household = "cabin"
	cfg.Appearance.Theme = "catppuccin-mocha"
	cfg.TUI.ChartHeight = 20
	if err := Save(cfg); err != nil {
		t.Fatalf("Save: %v", err)
	}

	info, err := os.Stat(filepath.Join(dir, "runway", "config.toml"))
	if err != nil {
		t.Fatalf("stat config: %v", err)
	}
	if info.Mode().Perm() != 0o600 {
		t.Fatalf("config mode = %v, want 0600", info.Mode().Perm())
	}

	got, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.General.Household != "cabin" || got.Appearance.Theme != "catppuccin-mocha" || got.TUI.ChartHeight != 20 {
		t.Fatalf("Load = %+v", got)
	}
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	isolateConfig(t)

	cfg := DefaultConfig()
	cfg.Storage.DBPath = "/from/file.db"
	if err := Save(cfg); err != nil {
		t.Fatalf("Save: %v", err)
	}

	t.Setenv(EnvDBPath, "/from/env.db")
	t.Setenv(EnvHousehold, "flat")
	t.Setenv(EnvLogLevel, "debug")

	got, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.DBPath() != "/from/env.db" {
		t.Fatalf("DBPath = %q, want /from/env.db", got.DBPath())
	}
	if got.General.Household != "flat" || got.General.LogLevel != "debug" {
		t.Fatalf("General = %+v", got.General)
	}
}

func TestLoad_RejectsBrokenFile(t *testing.T) {
	dir := isolateConfig(t)
	path := filepath.Join(dir, "runway", "config.toml")
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("[general\nhousehold ="), 0o600); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestDBPath_DefaultsUnderDataDir(t *testing.T) {
	dir := isolateConfig(t)

	got := DefaultConfig().DBPath()
	want := filepath.Join(dir, "data", "runway", "runway.db")
	if got != want {
		t.Fatalf("DBPath = %q, want %q", got, want)
	}
}
