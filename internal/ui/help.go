package ui

import (
	"fmt"

	"github.com/CPT-Dawn/VoidLink/internal/app"
)

type helpEntry struct {
	key  string
	desc string
}

type helpSection struct {
	name    string
	entries []helpEntry
}

// helpOverlay draws the keybinding reference, built from the live key
// table so remapped bindings show their real keys.
func (r *Renderer) helpOverlay(a *app.App, base []string, width, height int) []string {
	s := r.styles
	kb := &a.Config().Keys

	sections := []helpSection{
		{"Navigation", []helpEntry{
			{kb.NavDown.String() + " / ↓", "Move cursor down"},
			{kb.NavUp.String() + " / ↑", "Move cursor up"},
			{kb.JumpTop.String(), "Jump to top"},
			{kb.JumpBottom.String(), "Jump to bottom"},
		}},
		{"Device Actions", []helpEntry{
			{kb.ConnectToggle.String(), "Connect / Disconnect (toggle)"},
			{kb.Pair.String(), "Pair with device"},
			{kb.Trust.String(), "Toggle trusted"},
			{kb.Disconnect.String(), "Disconnect device"},
			{kb.Remove.String(), "Remove / forget device"},
			{kb.Refresh.String(), "Refresh device info"},
			{kb.Rename.String(), "Rename device alias"},
		}},
		{"Adapter", []helpEntry{
			{kb.ToggleAdapter.String(), "Toggle adapter power"},
			{kb.ToggleScan.String(), "Toggle scanning"},
			{kb.CycleSort.String(), "Cycle sort mode"},
		}},
		{"Other", []helpEntry{
			{kb.Search.String(), "Search (regex: start with /)"},
			{kb.Help.String(), "Toggle this help"},
			{kb.Quit.String(), "Quit"},
			{"Esc", "Dismiss popup / exit mode"},
		}},
	}

	var lines []string
	lines = append(lines, "")
	for _, sec := range sections {
		lines = append(lines, s.Connected.Render("  ── "+sec.name+" ──"), "")
		for _, e := range sec.entries {
			lines = append(lines,
				s.SearchPrompt.Render(fmt.Sprintf("    %-12s", e.key))+s.Item.Render(e.desc))
		}
		lines = append(lines, "")
	}
	lines = append(lines, s.Dim.Render("  Press ESC to close"))

	w := clampInt(width*60/100, 30, width-2)
	h := clampInt(height*70/100, 10, height-2)
	dialog := box(" \U000f02d7 Keybindings ", s.Title, s.SearchPrompt, w, h, lines)
	return overlayAt(base, dialog, (width-w)/2, (height-h)/2)
}
