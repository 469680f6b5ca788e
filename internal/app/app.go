// Package app holds the application state and the reducer that mutates it.
// App is the single source of truth for the UI: it is only ever touched
// from the main event loop, so it needs no locking. Everything else reads
// it through immutable snapshots.
package app

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/CPT-Dawn/VoidLink/internal/bluetooth"
	"github.com/CPT-Dawn/VoidLink/internal/config"
)

// InputMode determines which handler consumes the next key event. Exactly
// one mode is active at a time.
type InputMode int

const (
	ModeNormal InputMode = iota
	ModeSearch
	ModeDialog
	ModeRename
)

func (m InputMode) String() string {
	switch m {
	case ModeSearch:
		return "search"
	case ModeDialog:
		return "dialog"
	case ModeRename:
		return "rename"
	default:
		return "normal"
	}
}

// Popup is the active overlay. All variants except Help carry a slide-in
// progress in [0,1] that only ever increases once the popup is created.
type Popup interface{ isPopup() }

// ErrorPopup shows a transient error message.
type ErrorPopup struct {
	Message string
	Slide   float64
}

// ConnectionPopup shows the outcome of a connect attempt.
type ConnectionPopup struct {
	Address bluetooth.Address
	Success bool
	Message string
	Slide   float64
}

// PinPopup shows a pairing PIN. It never auto-dismisses: the user may need
// to act on the other device before closing it.
type PinPopup struct {
	Address bluetooth.Address
	Pin     string
	Slide   float64
}

// HelpPopup is the keybinding overlay.
type HelpPopup struct{}

func (*ErrorPopup) isPopup()      {}
func (*ConnectionPopup) isPopup() {}
func (*PinPopup) isPopup()        {}
func (*HelpPopup) isPopup()       {}

// slideRef returns the popup's slide progress cell, or nil for popups
// without one.
func slideRef(p Popup) *float64 {
	switch v := p.(type) {
	case *ErrorPopup:
		return &v.Slide
	case *ConnectionPopup:
		return &v.Slide
	case *PinPopup:
		return &v.Slide
	default:
		return nil
	}
}

// App is the application state. Owned exclusively by the reducer; render
// code receives it read-only.
type App struct {
	cfg *config.Config

	// Devices holds every known device, kept sorted by the active sort
	// mode. SelectedIndex points into the filtered view, never past its
	// end.
	Devices       []bluetooth.DeviceInfo
	SelectedIndex int

	Adapter  bluetooth.AdapterInfo
	Scanning bool

	Mode        InputMode
	SearchQuery string
	SearchError string

	ActivePopup Popup
	PopupTTL    *int

	TickCount uint64
	Running   bool

	SortMode config.SortMode

	RenameBuffer string
	RenameTarget *bluetooth.Address

	cachedFilterCount int
}

// New constructs the initial state from the injected configuration.
func New(cfg *config.Config) *App {
	return &App{
		cfg:      cfg,
		Running:  true,
		SortMode: cfg.General.SortMode,
	}
}

// Config exposes the injected configuration to render code.
func (a *App) Config() *config.Config { return a.cfg }

// FilteredCount returns the size of the filtered view as of the last tick,
// avoiding a fresh allocation on every status-bar render.
func (a *App) FilteredCount() int { return a.cachedFilterCount }

// SelectedDevice returns the device under the cursor in the filtered view.
func (a *App) SelectedDevice() (bluetooth.DeviceInfo, bool) {
	filtered := a.FilteredDevices()
	if a.SelectedIndex >= len(filtered) {
		return bluetooth.DeviceInfo{}, false
	}
	return filtered[a.SelectedIndex], true
}

// clampSelection re-establishes the selection invariant after any mutation
// of the device set or the filter: the index stays inside the current
// filtered view, or 0 when the view is empty.
func (a *App) clampSelection() {
	n := len(a.FilteredDevices())
	if n == 0 {
		a.SelectedIndex = 0
	} else if a.SelectedIndex >= n {
		a.SelectedIndex = n - 1
	}
}

// OnTick advances animations and popup lifetimes. Called once per
// multiplexer tick.
func (a *App) OnTick() {
	a.TickCount++

	a.cachedFilterCount = len(a.FilteredDevices())

	if a.ActivePopup != nil {
		if slide := slideRef(a.ActivePopup); slide != nil && *slide < 1 {
			*slide = math.Min(*slide+a.cfg.Notifications.SlideSpeed, 1)
		}
	}

	if a.PopupTTL != nil {
		*a.PopupTTL--
		if *a.PopupTTL <= 0 {
			a.ActivePopup = nil
			a.PopupTTL = nil
			if a.Mode == ModeDialog {
				a.Mode = ModeNormal
			}
		}
	}
}

// HandleBluetooth applies one worker event to the state.
func (a *App) HandleBluetooth(ev bluetooth.Event) {
	switch e := ev.(type) {
	case bluetooth.AdapterState:
		a.Adapter = e.Adapter

	case bluetooth.DeviceFound:
		a.upsertDevice(e.Device)

	case bluetooth.DeviceUpdated:
		a.upsertDevice(e.Device)

	case bluetooth.DeviceRemoved:
		kept := a.Devices[:0]
		for _, d := range a.Devices {
			if d.Address != e.Address {
				kept = append(kept, d)
			}
		}
		a.Devices = kept
		a.clampSelection()

	case bluetooth.ConnectionResult:
		message := fmt.Sprintf("Connected to %s", e.Address)
		if !e.Success {
			message = fmt.Sprintf("Connection failed: %s", errOrUnknown(e.Err))
		}
		a.showTransientPopup(&ConnectionPopup{
			Address: e.Address,
			Success: e.Success,
			Message: message,
		})

	case bluetooth.PairResult:
		if !e.Success {
			a.showTransientPopup(&ErrorPopup{
				Message: fmt.Sprintf("Pairing failed: %s", errOrUnknown(e.Err)),
			})
		}

	case bluetooth.PinRequest:
		// Must be explicitly dismissed: the pairing may need confirmation
		// on the remote device first.
		a.ActivePopup = &PinPopup{Address: e.Address, Pin: e.Pin}
		a.Mode = ModeDialog
		a.PopupTTL = nil

	case bluetooth.ScanningChanged:
		a.Scanning = e.Scanning

	case bluetooth.Error:
		a.showTransientPopup(&ErrorPopup{Message: e.Message})
	}
}

func errOrUnknown(s string) string {
	if s == "" {
		return "unknown error"
	}
	return s
}

// upsertDevice replaces the record with the same address or appends a new
// one, then restores ordering and the selection invariant.
func (a *App) upsertDevice(info bluetooth.DeviceInfo) {
	replaced := false
	for i := range a.Devices {
		if a.Devices[i].Address == info.Address {
			a.Devices[i] = info
			replaced = true
			break
		}
	}
	if !replaced {
		a.Devices = append(a.Devices, info)
	}
	a.sortDevices()
	a.clampSelection()
}

// showTransientPopup opens a popup with an auto-dismiss countdown tuned to
// message severity.
func (a *App) showTransientPopup(p Popup) {
	duration := a.cfg.Notifications.SuccessDuration
	switch v := p.(type) {
	case *ErrorPopup:
		duration = a.cfg.Notifications.ErrorDuration
	case *ConnectionPopup:
		if !v.Success {
			duration = a.cfg.Notifications.ErrorDuration
		}
	}

	ticks := int(duration / a.cfg.General.TickRate)
	a.ActivePopup = p
	a.Mode = ModeDialog
	a.PopupTTL = &ticks
}

// sortDevices re-sorts the full device list (not the filtered view) by the
// active sort mode. All sorts are stable so equal keys retain insertion
// order.
func (a *App) sortDevices() {
	switch a.SortMode {
	case config.SortName:
		sort.SliceStable(a.Devices, func(i, j int) bool {
			return strings.ToLower(a.Devices[i].DisplayName()) < strings.ToLower(a.Devices[j].DisplayName())
		})
	case config.SortRssi:
		sort.SliceStable(a.Devices, func(i, j int) bool {
			return rssiOrMin(a.Devices[i]) > rssiOrMin(a.Devices[j])
		})
	case config.SortAddress:
		sort.SliceStable(a.Devices, func(i, j int) bool {
			return a.Devices[i].Address.Less(a.Devices[j].Address)
		})
	default:
		sort.SliceStable(a.Devices, func(i, j int) bool {
			ti, ri := a.Devices[i].SortKey()
			tj, rj := a.Devices[j].SortKey()
			if ti != tj {
				return ti < tj
			}
			return ri < rj
		})
	}
}

func rssiOrMin(d bluetooth.DeviceInfo) int {
	if d.RSSI == nil {
		return math.MinInt16
	}
	return int(*d.RSSI)
}
