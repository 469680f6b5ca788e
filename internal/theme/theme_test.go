package theme

import "testing"

func TestDeviceIconPrefersBlueZName(t *testing.T) {
	if DeviceIcon("audio-headset", 0) == genericDeviceIcon {
		t.Fatalf("expected headset glyph for audio-headset")
	}
	if DeviceIcon("something-odd", 0) != genericDeviceIcon {
		t.Fatalf("expected generic glyph for unknown icon name")
	}
}

func TestDeviceIconFallsBackToClass(t *testing.T) {
	// Major class 4 (audio/video) sits in bits 12..8.
	if DeviceIcon("", 4<<8) == genericDeviceIcon {
		t.Fatalf("expected class-derived glyph")
	}
	if DeviceIcon("", 0) != genericDeviceIcon {
		t.Fatalf("expected generic glyph without icon or class")
	}
}

func TestSpinnerFrameCycles(t *testing.T) {
	n := uint64(len(spinnerFrames))
	if SpinnerFrame(0) != SpinnerFrame(n) {
		t.Fatalf("expected spinner to wrap around")
	}
	seen := map[string]bool{}
	for tick := uint64(0); tick < n; tick++ {
		seen[SpinnerFrame(tick)] = true
	}
	if len(seen) != int(n) {
		t.Fatalf("expected %d distinct frames, got %d", n, len(seen))
	}
}

func TestRssiBarSteps(t *testing.T) {
	if RssiBar(nil) != "░░░░░" {
		t.Fatalf("expected empty bar for missing rssi")
	}
	strong, weak := int16(-40), int16(-95)
	if RssiBar(&strong) != "█████" {
		t.Fatalf("expected full bar for strong signal")
	}
	if RssiBar(&weak) != "█░░░░" {
		t.Fatalf("expected minimal bar for weak signal")
	}
}
