package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/CPT-Dawn/VoidLink/internal/app"
	"github.com/CPT-Dawn/VoidLink/internal/theme"
)

// detailPanel renders the right-hand pane for the selected device.
func (r *Renderer) detailPanel(a *app.App, width, height int) []string {
	s := r.styles

	dev, ok := a.SelectedDevice()
	if !ok {
		return box(" Details ", s.Title, s.BorderInactive, width, height,
			[]string{s.Dim.Render("  Select a device to view details")})
	}

	inner := width - 2
	var lines []string

	icon := theme.DeviceIcon(dev.Icon, dev.Class)
	lines = append(lines, s.Title.Render("  "+icon+" "+dev.DisplayName()))
	lines = append(lines, s.Dim.Render("  Address: ")+s.Item.Render(dev.Address.String()))
	lines = append(lines, "")

	var badges strings.Builder
	badges.WriteString(s.Dim.Render("  Status:  "))
	if dev.Connected {
		badges.WriteString(s.Connected.Render("● Connected  "))
	} else {
		badges.WriteString(s.Dim.Render("○ Disconnected  "))
	}
	if dev.Paired {
		badges.WriteString(s.Paired.Render("\U000f033e Paired  "))
	} else {
		badges.WriteString(s.Dim.Render("  Not Paired  "))
	}
	if dev.Trusted {
		badges.WriteString(s.Trusted.Render("\U000f02a2 Trusted"))
	} else {
		badges.WriteString(s.Dim.Render("  Not Trusted"))
	}
	lines = append(lines, badges.String(), "")

	glyph, rssiStyle := s.Rssi(dev.RSSI)
	if dev.RSSI != nil {
		lines = append(lines,
			rssiStyle.Render(fmt.Sprintf("  %s Signal: %d dBm  %s", glyph, *dev.RSSI, theme.RssiBar(dev.RSSI))),
			gauge(rssiPercent(*dev.RSSI), inner-4, rssiStyle))
	} else {
		lines = append(lines, rssiStyle.Render("  "+glyph+" Signal: N/A"), "")
	}
	lines = append(lines, "")

	batGlyph, batStyle := s.Battery(dev.Battery)
	if dev.Battery != nil {
		lines = append(lines,
			batStyle.Render(fmt.Sprintf("  %s Battery: %d%%", batGlyph, *dev.Battery)),
			gauge(int(*dev.Battery), inner-4, batStyle))
	} else {
		lines = append(lines, batStyle.Render("  "+batGlyph+" Battery: N/A"), "")
	}
	lines = append(lines, "")

	if dev.Class != 0 {
		lines = append(lines, s.Dim.Render("  Class:   ")+s.Item.Render(fmt.Sprintf("0x%06X", dev.Class)))
	}
	if dev.Icon != "" {
		lines = append(lines, s.Dim.Render("  Type:    ")+s.Item.Render(dev.Icon))
	}

	return box(" Details ", s.Title, s.BorderInactive, width, height, lines)
}

// rssiPercent maps -100..0 dBm onto 0..100.
func rssiPercent(rssi int16) int {
	if rssi < -100 {
		rssi = -100
	}
	if rssi > 0 {
		rssi = 0
	}
	return int(rssi) + 100
}

// gauge renders a horizontal percentage bar.
func gauge(pct, width int, style *lipgloss.Style) string {
	if width < 1 {
		return ""
	}
	if pct < 0 {
		pct = 0
	}
	if pct > 100 {
		pct = 100
	}
	filled := width * pct / 100
	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
	return "  " + style.Render(fmt.Sprintf("%s %d%%", bar, pct))
}
