package event

import (
	"context"
	"time"

	"github.com/CPT-Dawn/VoidLink/internal/bluetooth"
	"github.com/CPT-Dawn/VoidLink/internal/term"
)

// Mux produces exactly one Event per Next call, drawn from whichever
// source is ready. When several are ready simultaneously the priority is
// fixed: Bluetooth events first, then terminal input, then the tick. The
// tick uses a time.Ticker, whose single-slot channel drops missed ticks,
// so a slow consumer never builds a tick backlog.
type Mux struct {
	bt     <-chan bluetooth.Event
	input  <-chan term.Event
	ticker *time.Ticker
}

// NewMux starts the tick source at the given interval.
func NewMux(bt <-chan bluetooth.Event, input <-chan term.Event, tickRate time.Duration) *Mux {
	return &Mux{
		bt:     bt,
		input:  input,
		ticker: time.NewTicker(tickRate),
	}
}

// Stop halts the tick source.
func (m *Mux) Stop() {
	m.ticker.Stop()
}

// Next blocks until an event is available from any source and returns it.
// It returns ctx.Err() once the context is canceled. A closed source is
// dropped; the remaining sources keep being served.
func (m *Mux) Next(ctx context.Context) (Event, error) {
	for {
		// Highest priority: Bluetooth events.
		select {
		case ev, ok := <-m.bt:
			if !ok {
				m.bt = nil
				continue
			}
			return Bluetooth{Event: ev}, nil
		default:
		}

		// Then terminal input ahead of the tick.
		select {
		case ev, ok := <-m.bt:
			if !ok {
				m.bt = nil
				continue
			}
			return Bluetooth{Event: ev}, nil
		case ev, ok := <-m.input:
			if !ok {
				m.input = nil
				continue
			}
			if out, deliver := filterInput(ev); deliver {
				return out, nil
			}
			continue
		default:
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case ev, ok := <-m.bt:
			if !ok {
				m.bt = nil
				continue
			}
			return Bluetooth{Event: ev}, nil
		case ev, ok := <-m.input:
			if !ok {
				m.input = nil
				continue
			}
			if out, deliver := filterInput(ev); deliver {
				return out, nil
			}
			continue
		case <-m.ticker.C:
			return Tick{}, nil
		}
	}
}

// filterInput maps a terminal event onto the multiplexed stream. Key
// release/repeat events are discarded so they never trigger a redraw.
func filterInput(ev term.Event) (Event, bool) {
	switch e := ev.(type) {
	case term.KeyEvent:
		if e.Kind != term.KeyPress {
			return nil, false
		}
		return Key{Key: e}, true
	case term.ResizeEvent:
		return Resize{Width: e.Width, Height: e.Height}, true
	default:
		return nil, false
	}
}
