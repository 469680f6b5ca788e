package ui

import (
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/x/ansi"

	"github.com/CPT-Dawn/VoidLink/internal/app"
	"github.com/CPT-Dawn/VoidLink/internal/bluetooth"
	"github.com/CPT-Dawn/VoidLink/internal/config"
	"github.com/CPT-Dawn/VoidLink/internal/theme"
)

func testConfig() *config.Config {
	return &config.Config{
		General: config.General{
			TickRate:          16 * time.Millisecond,
			DeviceListPercent: 55,
		},
		Notifications: config.Notifications{
			SuccessDuration: time.Second,
			ErrorDuration:   time.Second,
			SlideSpeed:      1.0,
		},
		Theme: config.Theme{Palette: config.Palette{
			AccentPrimary:   "#00E5FF",
			AccentSecondary: "#BB86FC",
			AccentError:     "#FF4545",
			TextPrimary:     "#E8E6F0",
			TextDim:         "#6B6F85",
			Paired:          "#FFB74D",
			Success:         "#69F0AE",
			Scanning:        "#18FFFF",
			BorderInactive:  "#4A4E69",
		}},
		Keys: config.Keybindings{},
	}
}

func newRenderer(cfg *config.Config) *Renderer {
	return NewRenderer(theme.FromConfig(cfg.Theme.Palette))
}

func populate(t *testing.T, a *app.App) {
	t.Helper()
	rssi := int16(-55)
	battery := uint8(72)
	addr, err := bluetooth.ParseAddress("AA:BB:CC:DD:EE:FF")
	if err != nil {
		t.Fatalf("parse address: %v", err)
	}
	a.HandleBluetooth(bluetooth.AdapterState{Adapter: bluetooth.AdapterInfo{
		Name: "hci0", Address: &addr, Powered: true,
	}})
	a.HandleBluetooth(bluetooth.DeviceFound{Device: bluetooth.DeviceInfo{
		Address:   addr,
		Name:      "Pixel Buds",
		Icon:      "audio-headset",
		RSSI:      &rssi,
		Battery:   &battery,
		Paired:    true,
		Connected: true,
	}})
}

// assertFrameGeometry checks that every line of the frame occupies exactly
// the requested cell width and that the line count matches the height.
func assertFrameGeometry(t *testing.T, frame string, width, height int) {
	t.Helper()
	lines := strings.Split(frame, "\r\n")
	if len(lines) != height {
		t.Fatalf("expected %d lines, got %d", height, len(lines))
	}
	for i, line := range lines {
		if w := ansi.StringWidth(line); w != width {
			t.Fatalf("line %d: expected width %d, got %d", i, width, w)
		}
	}
}

func TestFrameGeometry(t *testing.T) {
	cfg := testConfig()
	a := app.New(cfg)
	populate(t, a)

	frame := newRenderer(cfg).Frame(a, 100, 30)
	assertFrameGeometry(t, frame, 100, 30)
}

func TestFrameGeometryWithPopup(t *testing.T) {
	cfg := testConfig()
	a := app.New(cfg)
	populate(t, a)
	a.HandleBluetooth(bluetooth.Error{Message: "adapter went away"})
	a.OnTick()

	frame := newRenderer(cfg).Frame(a, 100, 30)
	assertFrameGeometry(t, frame, 100, 30)
	if !strings.Contains(ansi.Strip(frame), "adapter went away") {
		t.Fatalf("expected popup message in frame")
	}
}

func TestFrameGeometryWithHelp(t *testing.T) {
	cfg := testConfig()
	a := app.New(cfg)
	populate(t, a)
	a.ActivePopup = &app.HelpPopup{}

	frame := newRenderer(cfg).Frame(a, 120, 40)
	assertFrameGeometry(t, frame, 120, 40)
	if !strings.Contains(ansi.Strip(frame), "Keybindings") {
		t.Fatalf("expected help title in frame")
	}
}

func TestFrameContainsDeviceAndAdapter(t *testing.T) {
	cfg := testConfig()
	a := app.New(cfg)
	populate(t, a)
	a.OnTick() // refresh the cached filter count

	plain := ansi.Strip(newRenderer(cfg).Frame(a, 100, 30))
	for _, want := range []string{"Pixel Buds", "AA:BB:CC:DD:EE:FF", "hci0", "⏻ ON", "1 devices"} {
		if !strings.Contains(plain, want) {
			t.Fatalf("expected frame to contain %q", want)
		}
	}
}

func TestTinyTerminalDoesNotPanic(t *testing.T) {
	cfg := testConfig()
	a := app.New(cfg)
	frame := newRenderer(cfg).Frame(a, 10, 3)
	if frame == "" {
		t.Fatalf("expected a fallback message")
	}
}

func TestFitTruncatesAndPads(t *testing.T) {
	if got := fit("hello", 3); ansi.StringWidth(got) != 3 {
		t.Fatalf("expected width 3, got %d", ansi.StringWidth(got))
	}
	if got := fit("hi", 5); got != "hi   " {
		t.Fatalf("expected padding, got %q", got)
	}
	if got := fit("", 0); got != "" {
		t.Fatalf("expected empty, got %q", got)
	}
}

func TestOverlayPreservesWidth(t *testing.T) {
	base := []string{fit("aaaa", 10), fit("bbbb", 10), fit("cccc", 10)}
	out := overlayAt(base, []string{"XX"}, 4, 1)
	if len(out) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(out))
	}
	for i, line := range out {
		if w := ansi.StringWidth(line); w != 10 {
			t.Fatalf("line %d: expected width 10, got %d", i, w)
		}
	}
	if !strings.Contains(out[1], "XX") {
		t.Fatalf("expected overlay content in middle line")
	}
	if out[0] != base[0] || out[2] != base[2] {
		t.Fatalf("expected untouched lines to survive")
	}
}
