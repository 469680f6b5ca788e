package app

import (
	"strings"

	"github.com/CPT-Dawn/VoidLink/internal/bluetooth"
	"github.com/CPT-Dawn/VoidLink/internal/logging/events"
	"github.com/CPT-Dawn/VoidLink/internal/term"
)

// Action is what a key press asks the event loop to do. A nil Action means
// the key was consumed by the state machine itself.
type Action interface{ isAction() }

// Quit asks the loop to shut down.
type Quit struct{}

// SendCommand asks the loop to forward a command to the worker.
type SendCommand struct{ Command bluetooth.Command }

func (Quit) isAction()        {}
func (SendCommand) isAction() {}

// HandleKey routes one key press through the mode state machine.
func (a *App) HandleKey(ev term.KeyEvent) Action {
	switch a.Mode {
	case ModeSearch:
		a.handleSearchKey(ev)
		return nil
	case ModeDialog:
		a.handleDialogKey(ev)
		return nil
	case ModeRename:
		return a.handleRenameKey(ev)
	default:
		return a.handleNormalKey(ev)
	}
}

func (a *App) handleNormalKey(ev term.KeyEvent) Action {
	kb := &a.cfg.Keys

	switch {
	case ev.Code == term.KeyRune && ev.Rune == 'c' && ev.Mods&term.ModCtrl != 0:
		a.Running = false
		return Quit{}

	case ev.Matches(kb.Quit):
		a.Running = false
		return Quit{}

	case ev.Matches(kb.NavDown) || ev.Code == term.KeyDown:
		if n := len(a.FilteredDevices()); n > 0 && a.SelectedIndex < n-1 {
			a.SelectedIndex++
		}

	case ev.Matches(kb.NavUp) || ev.Code == term.KeyUp:
		if a.SelectedIndex > 0 {
			a.SelectedIndex--
		}

	case ev.Matches(kb.JumpTop):
		a.SelectedIndex = 0

	case ev.Matches(kb.JumpBottom):
		if n := len(a.FilteredDevices()); n > 0 {
			a.SelectedIndex = n - 1
		}

	case ev.Matches(kb.Search):
		a.Mode = ModeSearch
		a.SearchQuery = ""
		a.SearchError = ""
		events.UI.ModeChange(a.Mode.String())

	case ev.Matches(kb.Help):
		a.ActivePopup = &HelpPopup{}
		a.Mode = ModeDialog
		a.PopupTTL = nil

	case ev.Matches(kb.CycleSort):
		a.SortMode = a.SortMode.Next()
		a.sortDevices()
		a.clampSelection()
		events.UI.SortCycle(a.SortMode.Label())

	case ev.Matches(kb.Rename):
		if dev, ok := a.SelectedDevice(); ok {
			addr := dev.Address
			a.RenameTarget = &addr
			a.RenameBuffer = dev.Alias
			a.Mode = ModeRename
			events.UI.ModeChange(a.Mode.String())
		}

	case ev.Matches(kb.ToggleAdapter):
		if a.Adapter.Powered {
			return SendCommand{bluetooth.DisableAdapter{}}
		}
		return SendCommand{bluetooth.EnableAdapter{}}

	case ev.Matches(kb.ToggleScan):
		if a.Scanning {
			return SendCommand{bluetooth.StopScan{}}
		}
		return SendCommand{bluetooth.StartScan{}}

	case ev.Matches(kb.ConnectToggle):
		if dev, ok := a.SelectedDevice(); ok {
			if dev.Connected {
				return SendCommand{bluetooth.Disconnect{Address: dev.Address}}
			}
			return SendCommand{bluetooth.Connect{Address: dev.Address}}
		}

	case ev.Matches(kb.Disconnect):
		if dev, ok := a.SelectedDevice(); ok && dev.Connected {
			return SendCommand{bluetooth.Disconnect{Address: dev.Address}}
		}

	case ev.Matches(kb.Pair):
		if dev, ok := a.SelectedDevice(); ok && !dev.Paired {
			return SendCommand{bluetooth.Pair{Address: dev.Address}}
		}

	case ev.Matches(kb.Trust):
		if dev, ok := a.SelectedDevice(); ok {
			return SendCommand{bluetooth.Trust{Address: dev.Address}}
		}

	case ev.Matches(kb.Remove):
		if dev, ok := a.SelectedDevice(); ok {
			return SendCommand{bluetooth.RemoveDevice{Address: dev.Address}}
		}

	case ev.Matches(kb.Refresh):
		if dev, ok := a.SelectedDevice(); ok {
			return SendCommand{bluetooth.RefreshDevice{Address: dev.Address}}
		}
	}
	return nil
}

func (a *App) handleSearchKey(ev term.KeyEvent) {
	switch ev.Code {
	case term.KeyEsc:
		a.SearchQuery = ""
		a.SearchError = ""
		a.Mode = ModeNormal
		a.clampSelection()

	case term.KeyEnter:
		// Keep the query active as a persistent filter.
		a.Mode = ModeNormal
		a.clampSelection()

	case term.KeyBackspace:
		if a.SearchQuery != "" {
			runes := []rune(a.SearchQuery)
			a.SearchQuery = string(runes[:len(runes)-1])
		}
		a.validateSearch()
		a.SelectedIndex = 0

	case term.KeyRune:
		if ev.Mods == 0 {
			a.SearchQuery += string(ev.Rune)
			a.validateSearch()
			a.SelectedIndex = 0
		}
	}
}

func (a *App) handleDialogKey(ev term.KeyEvent) {
	dismiss := ev.Code == term.KeyEsc || ev.Code == term.KeyEnter ||
		(ev.Code == term.KeyRune && ev.Rune == 'q' && ev.Mods == 0)
	if dismiss {
		a.ActivePopup = nil
		a.PopupTTL = nil
		a.Mode = ModeNormal
	}
}

func (a *App) handleRenameKey(ev term.KeyEvent) Action {
	switch ev.Code {
	case term.KeyEsc:
		a.resetRename()

	case term.KeyEnter:
		target := a.RenameTarget
		alias := strings.TrimSpace(a.RenameBuffer)
		a.resetRename()
		if target != nil && alias != "" {
			return SendCommand{bluetooth.SetAlias{Address: *target, Alias: alias}}
		}

	case term.KeyBackspace:
		if a.RenameBuffer != "" {
			runes := []rune(a.RenameBuffer)
			a.RenameBuffer = string(runes[:len(runes)-1])
		}

	case term.KeyRune:
		if ev.Mods == 0 {
			a.RenameBuffer += string(ev.Rune)
		}
	}
	return nil
}

func (a *App) resetRename() {
	a.RenameBuffer = ""
	a.RenameTarget = nil
	a.Mode = ModeNormal
}
