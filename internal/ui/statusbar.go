package ui

import (
	"fmt"
	"strings"

	"github.com/CPT-Dawn/VoidLink/internal/app"
	"github.com/CPT-Dawn/VoidLink/internal/theme"
)

// statusBar renders the adapter summary line plus its bottom rule.
func (r *Renderer) statusBar(a *app.App, width int) []string {
	s := r.styles
	sep := s.Dim.Render("│ ")

	var b strings.Builder
	b.WriteString(s.Title.Render(" \U000f00af VoidLink "))
	b.WriteString(sep)

	addr := "??:??:??:??:??:??"
	if a.Adapter.Address != nil {
		addr = a.Adapter.Address.String()
	}
	b.WriteString(s.Item.Render(fmt.Sprintf("%s [%s] ", a.Adapter.Name, addr)))
	b.WriteString(sep)

	if a.Adapter.Powered {
		b.WriteString(s.Connected.Render("⏻ ON "))
	} else {
		b.WriteString(s.Error.Render("⏻ OFF "))
	}
	b.WriteString(sep)

	if a.Scanning {
		b.WriteString(s.Scanning.Render(theme.SpinnerFrame(a.TickCount) + " Scanning "))
	} else {
		b.WriteString(s.Dim.Render("  Idle "))
	}

	if a.Mode == app.ModeSearch {
		b.WriteString(sep)
		b.WriteString(s.SearchPrompt.Render("/ " + a.SearchQuery))
		b.WriteString(s.Connected.Render("█"))
		if a.SearchError != "" {
			b.WriteString(s.Error.Render(" " + a.SearchError))
		}
	}

	if a.Mode == app.ModeRename {
		b.WriteString(sep)
		b.WriteString(s.SearchPrompt.Render("rename: " + a.RenameBuffer))
		b.WriteString(s.Connected.Render("█"))
	}

	b.WriteString(sep)
	b.WriteString(s.Dim.Render(fmt.Sprintf("%d devices  sort: %s", a.FilteredCount(), a.SortMode.Label())))

	return []string{
		fit(b.String(), width),
		r.styles.BorderActive.Render(strings.Repeat("─", width)),
	}
}
