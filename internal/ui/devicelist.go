package ui

import (
	"fmt"
	"strings"

	"github.com/CPT-Dawn/VoidLink/internal/app"
	"github.com/CPT-Dawn/VoidLink/internal/bluetooth"
	"github.com/CPT-Dawn/VoidLink/internal/theme"
)

// deviceList renders the scrollable device pane. The selection is always
// kept inside the visible window.
func (r *Renderer) deviceList(a *app.App, width, height int) []string {
	s := r.styles
	filtered := a.FilteredDevices()

	visible := maxInt(height-2, 0)
	offset := 0
	if a.SelectedIndex >= visible && visible > 0 {
		offset = a.SelectedIndex - visible + 1
	}

	rows := make([]string, 0, visible)
	for i := offset; i < len(filtered) && i < offset+visible; i++ {
		rows = append(rows, r.deviceRow(filtered[i], i == a.SelectedIndex, width-2))
	}
	if len(filtered) == 0 {
		rows = append(rows, s.Dim.Render("  no devices"))
	}

	title := " Devices "
	if a.Scanning {
		title = fmt.Sprintf(" %s Devices ", theme.SpinnerFrame(a.TickCount))
	}
	return box(title, s.Title, s.BorderActive, width, height, rows)
}

func (r *Renderer) deviceRow(d bluetooth.DeviceInfo, selected bool, width int) string {
	s := r.styles

	nameStyle := s.Item
	if d.Connected {
		nameStyle = s.Connected
	} else if d.Paired {
		nameStyle = s.Paired
	}

	var b strings.Builder
	if selected {
		b.WriteString(s.Selected.Render("▸ "))
	} else {
		b.WriteString("  ")
	}
	b.WriteString(s.Item.Render(theme.DeviceIcon(d.Icon, d.Class) + " "))
	b.WriteString(nameStyle.Render(fit(d.DisplayName(), 28)))

	if d.Connected {
		b.WriteString(s.Connected.Render(" \U000f00b1"))
	}
	if d.Paired {
		b.WriteString(s.Paired.Render(" \U000f033e"))
	}
	if d.Trusted {
		b.WriteString(s.Trusted.Render(" \U000f02a2"))
	}

	if d.Battery != nil {
		glyph, style := s.Battery(d.Battery)
		b.WriteString(style.Render(fmt.Sprintf(" %s %d%%", glyph, *d.Battery)))
	}

	glyph, style := s.Rssi(d.RSSI)
	b.WriteString(style.Render(" " + glyph))
	if d.RSSI != nil {
		b.WriteString(style.Render(fmt.Sprintf(" %ddBm", *d.RSSI)))
	}

	return fit(b.String(), width)
}
