package ui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/CPT-Dawn/VoidLink/internal/app"
)

// overlayPopup composites the active popup over the base frame. Sliding
// popups enter from the top edge and settle at the vertical center.
func (r *Renderer) overlayPopup(a *app.App, base []string, width, height int) []string {
	s := r.styles

	switch p := a.ActivePopup.(type) {
	case *app.ErrorPopup:
		return r.statusDialog(base, width, height, " \U000f0159 Error ", p.Message, s.Error, p.Slide)

	case *app.ConnectionPopup:
		title, style := " \U000f00b1 Connected ", s.Connected
		if !p.Success {
			title, style = " \U000f0159 Connection Failed ", s.Error
		}
		return r.statusDialog(base, width, height, title, p.Message, style, p.Slide)

	case *app.PinPopup:
		w := clampInt(width*40/100, 24, width-2)
		lines := []string{
			"",
			s.Connected.Render(fmt.Sprintf("  PIN: %s", p.Pin)),
			"",
			s.Dim.Render("  Confirm on your device. Press ESC to dismiss."),
		}
		dialog := box(" \U000f033e Pairing PIN ", s.Title, s.SearchPrompt, w, 7, lines)
		x := (width - w) / 2
		y := slideY((height-7)/2, p.Slide)
		return overlayAt(base, dialog, x, y)

	case *app.HelpPopup:
		return r.helpOverlay(a, base, width, height)
	}
	return base
}

// statusDialog renders a transient message box sized to its content.
func (r *Renderer) statusDialog(base []string, width, height int, title, message string, style *lipgloss.Style, slide float64) []string {
	s := r.styles

	w := clampInt(width*68/100, 24, width-2)
	wrapped := wrapText(message, w-4)
	h := clampInt(len(wrapped)+6, 6, height-2)

	lines := []string{""}
	for _, line := range wrapped {
		lines = append(lines, s.Item.Render("  "+line))
	}
	lines = append(lines, "", s.Connected.Render("  Esc ")+s.Dim.Render("dismiss"))

	dialog := box(title, style, style, w, h, lines)
	x := (width - w) / 2
	y := slideY((height-h)/2, slide)
	return overlayAt(base, dialog, x, y)
}

// slideY eases the dialog in from the top edge. progress 1 puts it at
// target.
func slideY(target int, progress float64) int {
	if progress < 0 {
		progress = 0
	}
	if progress > 1 {
		progress = 1
	}
	offset := int((1 - progress) * float64(target))
	return target - offset
}

// wrapText splits a message into lines of at most w runes, honoring
// embedded newlines.
func wrapText(message string, w int) []string {
	if w < 1 {
		w = 1
	}
	var out []string
	for _, segment := range splitLines(message) {
		runes := []rune(segment)
		if len(runes) == 0 {
			out = append(out, "")
			continue
		}
		for len(runes) > 0 {
			n := len(runes)
			if n > w {
				n = w
			}
			out = append(out, string(runes[:n]))
			runes = runes[n:]
		}
	}
	return out
}

func splitLines(s string) []string {
	var out []string
	start := 0
	for i, c := range s {
		if c == '\n' {
			out = append(out, s[start:i])
			start = i + 1
		}
	}
	return append(out, s[start:])
}

func clampInt(v, lo, hi int) int {
	if hi < lo {
		hi = lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
