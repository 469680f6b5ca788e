// Package theme builds the Lip Gloss style set from the configured
// palette. No style sets a background colour, so the terminal's own
// background shows through every pane.
package theme

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/CPT-Dawn/VoidLink/internal/config"
)

// Styles describes reusable Lip Gloss styles shared across the UI.
type Styles struct {
	Title          *lipgloss.Style
	Item           *lipgloss.Style
	Dim            *lipgloss.Style
	Selected       *lipgloss.Style
	Connected      *lipgloss.Style
	Paired         *lipgloss.Style
	Trusted        *lipgloss.Style
	Error          *lipgloss.Style
	Success        *lipgloss.Style
	Scanning       *lipgloss.Style
	BorderActive   *lipgloss.Style
	BorderInactive *lipgloss.Style
	SearchPrompt   *lipgloss.Style
	KeyHint        *lipgloss.Style
}

// FromConfig resolves the configured palette into concrete styles.
func FromConfig(p config.Palette) *Styles {
	primary := lipgloss.Color(p.AccentPrimary)
	secondary := lipgloss.Color(p.AccentSecondary)
	errorC := lipgloss.Color(p.AccentError)
	text := lipgloss.Color(p.TextPrimary)
	dim := lipgloss.Color(p.TextDim)

	return &Styles{
		Title:          ptr(lipgloss.NewStyle().Foreground(primary).Bold(true)),
		Item:           ptr(lipgloss.NewStyle().Foreground(text)),
		Dim:            ptr(lipgloss.NewStyle().Foreground(dim)),
		Selected:       ptr(lipgloss.NewStyle().Foreground(secondary).Bold(true).Reverse(true)),
		Connected:      ptr(lipgloss.NewStyle().Foreground(primary).Bold(true)),
		Paired:         ptr(lipgloss.NewStyle().Foreground(lipgloss.Color(p.Paired))),
		Trusted:        ptr(lipgloss.NewStyle().Foreground(lipgloss.Color(p.Success))),
		Error:          ptr(lipgloss.NewStyle().Foreground(errorC).Bold(true)),
		Success:        ptr(lipgloss.NewStyle().Foreground(lipgloss.Color(p.Success))),
		Scanning:       ptr(lipgloss.NewStyle().Foreground(lipgloss.Color(p.Scanning))),
		BorderActive:   ptr(lipgloss.NewStyle().Foreground(primary)),
		BorderInactive: ptr(lipgloss.NewStyle().Foreground(lipgloss.Color(p.BorderInactive))),
		SearchPrompt:   ptr(lipgloss.NewStyle().Foreground(secondary).Bold(true)),
		KeyHint:        ptr(lipgloss.NewStyle().Foreground(dim)),
	}
}

func ptr(style lipgloss.Style) *lipgloss.Style {
	return &style
}

// Rssi maps a signal reading to a glyph and a palette colour name.
func (s *Styles) Rssi(rssi *int16) (string, *lipgloss.Style) {
	switch {
	case rssi == nil:
		return "\U000f093e", s.Dim
	case *rssi >= -50:
		return "\U000f0928", s.Success
	case *rssi >= -60:
		return "\U000f0925", s.Connected
	case *rssi >= -70:
		return "\U000f0922", s.Paired
	case *rssi >= -80:
		return "\U000f091f", s.Error
	default:
		return "\U000f092f", s.Error
	}
}

// RssiBar renders a coarse five-step signal bar.
func RssiBar(rssi *int16) string {
	switch {
	case rssi == nil:
		return "░░░░░"
	case *rssi >= -50:
		return "█████"
	case *rssi >= -60:
		return "████░"
	case *rssi >= -70:
		return "███░░"
	case *rssi >= -80:
		return "██░░░"
	default:
		return "█░░░░"
	}
}

// Battery maps a charge percentage to a glyph and a style.
func (s *Styles) Battery(pct *uint8) (string, *lipgloss.Style) {
	switch {
	case pct == nil:
		return "\U000f0083", s.Dim
	case *pct >= 80:
		return "\U000f0079", s.Success
	case *pct >= 60:
		return "\U000f0081", s.Connected
	case *pct >= 40:
		return "\U000f007f", s.Paired
	case *pct >= 20:
		return "\U000f007b", s.Error
	default:
		return "\U000f007a", s.Error
	}
}

// iconByName maps BlueZ freedesktop icon names to Nerd Font glyphs.
var iconByName = []struct {
	substr string
	glyph  string
}{
	{"audio-headset", ""},
	{"audio-headphones", ""},
	{"audio-card", "\U000f04c3"},
	{"speaker", "\U000f04c3"},
	{"phone", ""},
	{"computer", "\U000f037d"},
	{"input-keyboard", "\U000f030c"},
	{"input-mouse", "\U000f037d"},
	{"input-gaming", "\U000f0297"},
	{"input-tablet", "\U000f04f6"},
	{"camera", "\U000f0100"},
	{"printer", "\U000f042a"},
	{"network", "\U000f0200"},
	{"video-display", "\U000f0379"},
	{"monitor", "\U000f0379"},
}

// iconByClass maps the BT major device class (bits 12..8) to a glyph.
var iconByClass = map[uint32]string{
	1: "\U000f037d", // computer
	2: "",     // phone
	3: "\U000f0200", // LAN access point
	4: "\U000f04c3", // audio/video
	5: "\U000f030c", // peripheral
	6: "\U000f0100", // imaging
	7: "\U000f0536", // wearable
}

const genericDeviceIcon = "\U000f00af"

// DeviceIcon picks a glyph from the BlueZ icon name, falling back to the
// class-of-device field and finally a generic Bluetooth mark.
func DeviceIcon(icon string, class uint32) string {
	if icon != "" {
		for _, m := range iconByName {
			if strings.Contains(icon, m.substr) {
				return m.glyph
			}
		}
		return genericDeviceIcon
	}
	if class != 0 {
		if g, ok := iconByClass[(class>>8)&0x1f]; ok {
			return g
		}
	}
	return genericDeviceIcon
}

// spinnerFrames is the braille scanning animation.
var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// SpinnerFrame returns the animation frame for a tick count.
func SpinnerFrame(tick uint64) string {
	return spinnerFrames[tick%uint64(len(spinnerFrames))]
}
