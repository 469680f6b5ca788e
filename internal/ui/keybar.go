package ui

import (
	"strings"

	"github.com/CPT-Dawn/VoidLink/internal/app"
)

// keyBar renders the context-sensitive hint row at the bottom of the
// frame. Hints track the configured bindings rather than hardcoded keys.
func (r *Renderer) keyBar(a *app.App, width int) string {
	s := r.styles
	sep := s.SearchPrompt.Render("  │  ")

	hint := func(key, desc string) string {
		return s.Connected.Render(key) + s.KeyHint.Render(" "+desc+" ")
	}

	var parts []string
	switch a.Mode {
	case app.ModeSearch:
		parts = []string{
			hint("⏎", "Confirm"), sep,
			hint("Esc", "Cancel"), sep,
			s.KeyHint.Render("Type to filter devices…"),
		}
	case app.ModeDialog:
		parts = []string{
			hint("Esc", "Dismiss"), sep,
			hint("⏎", "OK"),
		}
	case app.ModeRename:
		parts = []string{
			hint("⏎", "Apply"), sep,
			hint("Esc", "Cancel"), sep,
			s.KeyHint.Render("Type the new alias…"),
		}
	default:
		kb := &a.Config().Keys

		connectLabel := "Connect"
		if dev, ok := a.SelectedDevice(); ok && dev.Connected {
			connectLabel = "Disconnect"
		}
		powerLabel := "Power On"
		if a.Adapter.Powered {
			powerLabel = "Power Off"
		}
		scanLabel := "Scan"
		if a.Scanning {
			scanLabel = "Stop Scan"
		}

		parts = []string{
			hint(kb.NavDown.String()+"/"+kb.NavUp.String(), "Navigate"), sep,
			hint(kb.ConnectToggle.String(), connectLabel), sep,
			hint(kb.Pair.String(), "Pair"),
			hint(kb.Trust.String(), "Trust"),
			hint(kb.Remove.String(), "Remove"), sep,
			hint(kb.ToggleAdapter.String(), powerLabel),
			hint(kb.ToggleScan.String(), scanLabel), sep,
			hint(kb.Search.String(), "Search"),
			hint(kb.Help.String(), "Help"),
			hint(kb.Quit.String(), "Quit"),
		}
	}

	return fit(" "+strings.Join(parts, ""), width)
}
