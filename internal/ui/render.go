// Package ui renders the application state into a terminal frame. The
// frame is a plain string of styled lines; all layout is done in terminal
// cells so panes line up regardless of the escape sequences inside them.
package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/CPT-Dawn/VoidLink/internal/app"
	"github.com/CPT-Dawn/VoidLink/internal/theme"
)

const (
	statusHeight = 2
	keybarHeight = 1
	minWidth     = 24
	minHeight    = 6
)

// Renderer draws frames from application state. It holds no mutable state
// of its own beyond the resolved style set.
type Renderer struct {
	styles *theme.Styles
}

func NewRenderer(styles *theme.Styles) *Renderer {
	return &Renderer{styles: styles}
}

// Frame produces a full frame for the given terminal size.
func (r *Renderer) Frame(a *app.App, width, height int) string {
	if width < minWidth || height < minHeight {
		return r.styles.Dim.Render("terminal too small")
	}

	contentHeight := height - statusHeight - keybarHeight
	listWidth := width * a.Config().General.DeviceListPercent / 100
	detailWidth := width - listWidth

	lines := make([]string, 0, height)
	lines = append(lines, r.statusBar(a, width)...)

	list := r.deviceList(a, listWidth, contentHeight)
	detail := r.detailPanel(a, detailWidth, contentHeight)
	for i := 0; i < contentHeight; i++ {
		lines = append(lines, list[i]+detail[i])
	}

	lines = append(lines, r.keyBar(a, width))

	if a.ActivePopup != nil {
		lines = r.overlayPopup(a, lines, width, height)
	}

	return strings.Join(lines, "\r\n")
}

// fit truncates s to w terminal cells and pads with spaces to exactly w.
func fit(s string, w int) string {
	if w <= 0 {
		return ""
	}
	if ansi.StringWidth(s) > w {
		s = ansi.Cut(s, 0, w)
	}
	if pad := w - ansi.StringWidth(s); pad > 0 {
		s += strings.Repeat(" ", pad)
	}
	return s
}

// box frames h lines of content in a rounded border with a styled title in
// the top edge. Every returned line is exactly w cells wide.
func box(title string, titleStyle, borderStyle *lipgloss.Style, w, h int, content []string) []string {
	if w < 2 || h < 2 {
		return make([]string, maxInt(h, 0))
	}
	inner := w - 2

	titleWidth := ansi.StringWidth(title)
	if titleWidth > inner-2 {
		title = ansi.Cut(title, 0, maxInt(inner-2, 0))
		titleWidth = ansi.StringWidth(title)
	}
	top := borderStyle.Render("╭─") + titleStyle.Render(title) +
		borderStyle.Render(strings.Repeat("─", maxInt(inner-1-titleWidth, 0))+"╮")

	out := make([]string, 0, h)
	out = append(out, top)
	for i := 0; i < h-2; i++ {
		line := ""
		if i < len(content) {
			line = content[i]
		}
		out = append(out, borderStyle.Render("│")+fit(line, inner)+borderStyle.Render("│"))
	}
	out = append(out, borderStyle.Render("╰"+strings.Repeat("─", inner)+"╯"))
	return out
}

// overlayAt splices styled popup lines over the base frame at cell (x, y).
// The base line is cut around the popup so its styling survives on both
// sides.
func overlayAt(base, popup []string, x, y int) []string {
	out := make([]string, len(base))
	copy(out, base)
	for i, line := range popup {
		row := y + i
		if row < 0 || row >= len(out) {
			continue
		}
		width := ansi.StringWidth(line)
		left := ansi.Cut(out[row], 0, x)
		right := ansi.Cut(out[row], x+width, ansi.StringWidth(out[row]))
		out[row] = fit(left, x) + line + right
	}
	return out
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
