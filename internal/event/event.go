// Package event merges the input sources of the UI loop (Bluetooth worker
// events, raw terminal input, and a fixed-rate tick) into a single ordered
// stream.
package event

import (
	"github.com/CPT-Dawn/VoidLink/internal/bluetooth"
	"github.com/CPT-Dawn/VoidLink/internal/term"
)

// Event is one multiplexed occurrence consumed by the main loop.
type Event interface{ isEvent() }

// Key reports a key press. Release and repeat events never surface here;
// the multiplexer consumes and discards them.
type Key struct{ Key term.KeyEvent }

// Resize reports new terminal dimensions.
type Resize struct {
	Width  int
	Height int
}

// Tick is the animation/state heartbeat.
type Tick struct{}

// Bluetooth wraps an event from the worker.
type Bluetooth struct{ Event bluetooth.Event }

func (Key) isEvent()       {}
func (Resize) isEvent()    {}
func (Tick) isEvent()      {}
func (Bluetooth) isEvent() {}
