package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/CPT-Dawn/VoidLink/internal/term"
)

func loadFrom(t *testing.T, contents string, extraArgs ...string) *Config {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if contents != "" {
		if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
			t.Fatalf("write config: %v", err)
		}
	}
	args := append([]string{"-config", path}, extraArgs...)
	cfg, err := LoadArgs(args, nil)
	if err != nil {
		t.Fatalf("LoadArgs failed: %v", err)
	}
	return cfg
}

func TestLoadWritesDefaultsOnFirstRun(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	cfg, err := LoadArgs([]string{"-config", path}, nil)
	if err != nil {
		t.Fatalf("LoadArgs failed: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("expected default config to be written: %v", err)
	}
	if cfg.General.TickRate != 16*time.Millisecond {
		t.Fatalf("expected 16ms tick rate, got %s", cfg.General.TickRate)
	}
	if cfg.General.SortMode != SortDefault {
		t.Fatalf("expected default sort mode, got %v", cfg.General.SortMode)
	}
	if cfg.Keys.Quit != (term.Key{Code: term.KeyRune, Rune: 'q'}) {
		t.Fatalf("expected quit bound to q, got %#v", cfg.Keys.Quit)
	}
	if cfg.Keys.ConnectToggle != (term.Key{Code: term.KeyEnter}) {
		t.Fatalf("expected connect bound to Enter, got %#v", cfg.Keys.ConnectToggle)
	}
}

func TestLoadAppliesOverrides(t *testing.T) {
	cfg := loadFrom(t, `
general:
  tick_rate_ms: 50
  scan_on_startup: true
  hide_unnamed_devices: true
  sort_mode: rssi
  search_mode: regex
bluetooth:
  auto_trust_on_pair: false
  connection_timeout_secs: 10
keybindings:
  quit: x
`)
	if cfg.General.TickRate != 50*time.Millisecond {
		t.Fatalf("expected 50ms tick rate, got %s", cfg.General.TickRate)
	}
	if !cfg.General.ScanOnStartup || !cfg.General.HideUnnamedDevices {
		t.Fatalf("expected general toggles applied: %+v", cfg.General)
	}
	if cfg.General.SortMode != SortRssi {
		t.Fatalf("expected rssi sort, got %v", cfg.General.SortMode)
	}
	if cfg.General.SearchMode != SearchRegex {
		t.Fatalf("expected regex search, got %v", cfg.General.SearchMode)
	}
	if cfg.Bluetooth.AutoTrustOnPair {
		t.Fatalf("expected auto trust disabled")
	}
	if cfg.Bluetooth.ConnectionTimeout != 10*time.Second {
		t.Fatalf("expected 10s timeout, got %s", cfg.Bluetooth.ConnectionTimeout)
	}
	if cfg.Keys.Quit != (term.Key{Code: term.KeyRune, Rune: 'x'}) {
		t.Fatalf("expected quit rebound to x, got %#v", cfg.Keys.Quit)
	}
	// Unspecified bindings keep their defaults.
	if cfg.Keys.NavDown != (term.Key{Code: term.KeyRune, Rune: 'j'}) {
		t.Fatalf("expected nav_down default j, got %#v", cfg.Keys.NavDown)
	}
}

func TestLoadClampsOutOfRangeValues(t *testing.T) {
	cfg := loadFrom(t, `
general:
  tick_rate_ms: 1000
  device_list_percent: 95
bluetooth:
  connection_timeout_secs: 1
notifications:
  success_duration_ms: 10
  error_duration_ms: 600000
  slide_speed: 5.0
`)
	if cfg.General.TickRate != 200*time.Millisecond {
		t.Fatalf("expected tick rate clamped to 200ms, got %s", cfg.General.TickRate)
	}
	if cfg.General.DeviceListPercent != 80 {
		t.Fatalf("expected percent clamped to 80, got %d", cfg.General.DeviceListPercent)
	}
	if cfg.Bluetooth.ConnectionTimeout != 5*time.Second {
		t.Fatalf("expected timeout clamped to 5s, got %s", cfg.Bluetooth.ConnectionTimeout)
	}
	if cfg.Notifications.SuccessDuration != 500*time.Millisecond {
		t.Fatalf("expected success duration clamped to 500ms, got %s", cfg.Notifications.SuccessDuration)
	}
	if cfg.Notifications.ErrorDuration != 60*time.Second {
		t.Fatalf("expected error duration clamped to 60s, got %s", cfg.Notifications.ErrorDuration)
	}
	if cfg.Notifications.SlideSpeed != 1.0 {
		t.Fatalf("expected slide speed clamped to 1.0, got %f", cfg.Notifications.SlideSpeed)
	}
}

func TestLoadFallsBackOnBrokenFile(t *testing.T) {
	cfg := loadFrom(t, "general: [not a mapping\n")
	if cfg.General.TickRate != 16*time.Millisecond {
		t.Fatalf("expected defaults after parse failure, got %s", cfg.General.TickRate)
	}
}

func TestUnknownKeybindingResolvesUnbound(t *testing.T) {
	cfg := loadFrom(t, `
keybindings:
  quit: NotAKey
`)
	if cfg.Keys.Quit.Code != term.KeyNone {
		t.Fatalf("expected unknown binding to resolve unbound, got %#v", cfg.Keys.Quit)
	}
	// An unbound key never matches any event.
	if (term.KeyEvent{Code: term.KeyRune, Rune: 'q'}).Matches(cfg.Keys.Quit) {
		t.Fatalf("unbound key must not match")
	}
}

func TestInvalidPaletteEntryFallsBack(t *testing.T) {
	cfg := loadFrom(t, `
theme:
  palette:
    accent_primary: "magenta"
`)
	if cfg.Theme.Palette.AccentPrimary != "#00E5FF" {
		t.Fatalf("expected invalid hex to fall back, got %q", cfg.Theme.Palette.AccentPrimary)
	}
}

func TestFlagsControlLoggingAndTrace(t *testing.T) {
	cfg := loadFrom(t, "", "-log-file", "/tmp/vl.log", "-trace")
	if cfg.LogFile != "/tmp/vl.log" {
		t.Fatalf("expected log file flag applied, got %q", cfg.LogFile)
	}
	if !cfg.Trace {
		t.Fatalf("expected trace enabled")
	}
}

func TestEnvironmentFallbacks(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	environ := []string{
		"VOIDLINK_CONFIG=" + path,
		"VOIDLINK_LOG_FILE=/tmp/vl-env.log",
		"VOIDLINK_TRACE=1",
		"HOME=/home/nobody",
	}
	cfg, err := LoadArgs(nil, environ)
	if err != nil {
		t.Fatalf("LoadArgs failed: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("expected config written at env path: %v", err)
	}
	if cfg.LogFile != "/tmp/vl-env.log" {
		t.Fatalf("expected env log file applied, got %q", cfg.LogFile)
	}
	if !cfg.Trace {
		t.Fatalf("expected trace enabled via environment")
	}
}

func TestFlagsWinOverEnvironment(t *testing.T) {
	dir := t.TempDir()
	flagPath := filepath.Join(dir, "flag.yaml")
	environ := []string{
		"VOIDLINK_CONFIG=" + filepath.Join(dir, "env.yaml"),
		"VOIDLINK_LOG_FILE=/tmp/vl-env.log",
		"VOIDLINK_TRACE=not-a-bool",
	}
	cfg, err := LoadArgs([]string{"-config", flagPath, "-log-file", "/tmp/vl-flag.log"}, environ)
	if err != nil {
		t.Fatalf("LoadArgs failed: %v", err)
	}
	if _, err := os.Stat(flagPath); err != nil {
		t.Fatalf("expected config written at flag path: %v", err)
	}
	if cfg.LogFile != "/tmp/vl-flag.log" {
		t.Fatalf("expected flag log file to win, got %q", cfg.LogFile)
	}
	if cfg.Trace {
		t.Fatalf("expected malformed trace value to fall back to false")
	}
}

func TestSortModeRing(t *testing.T) {
	want := []SortMode{SortName, SortRssi, SortAddress, SortDefault}
	mode := SortDefault
	for i, expected := range want {
		mode = mode.Next()
		if mode != expected {
			t.Fatalf("step %d: expected %v, got %v", i, expected, mode)
		}
	}
}
