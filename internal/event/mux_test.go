package event

import (
	"context"
	"testing"
	"time"

	"github.com/CPT-Dawn/VoidLink/internal/bluetooth"
	"github.com/CPT-Dawn/VoidLink/internal/term"
)

func next(t *testing.T, m *Mux) Event {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	ev, err := m.Next(ctx)
	if err != nil {
		t.Fatalf("Next failed: %v", err)
	}
	return ev
}

func TestBluetoothOutranksInputAndTick(t *testing.T) {
	bt := make(chan bluetooth.Event, 4)
	input := make(chan term.Event, 4)
	m := NewMux(bt, input, time.Millisecond)
	defer m.Stop()

	// Load both sources, then let the ticker become ready too.
	bt <- bluetooth.ScanningChanged{Scanning: true}
	bt <- bluetooth.ScanningChanged{Scanning: false}
	input <- term.KeyEvent{Code: term.KeyEnter}
	time.Sleep(5 * time.Millisecond)

	if _, ok := next(t, m).(Bluetooth); !ok {
		t.Fatalf("expected first event from bluetooth")
	}
	if _, ok := next(t, m).(Bluetooth); !ok {
		t.Fatalf("expected bluetooth drained before input")
	}
	if _, ok := next(t, m).(Key); !ok {
		t.Fatalf("expected input before tick")
	}
}

func TestInputOutranksTick(t *testing.T) {
	bt := make(chan bluetooth.Event)
	input := make(chan term.Event, 1)
	m := NewMux(bt, input, time.Millisecond)
	defer m.Stop()

	input <- term.KeyEvent{Code: term.KeyRune, Rune: 'j'}
	time.Sleep(5 * time.Millisecond)

	key, ok := next(t, m).(Key)
	if !ok {
		t.Fatalf("expected key event ahead of pending tick")
	}
	if key.Key.Rune != 'j' {
		t.Fatalf("expected rune j, got %q", key.Key.Rune)
	}
}

func TestTickDeliveredWhenIdle(t *testing.T) {
	bt := make(chan bluetooth.Event)
	input := make(chan term.Event)
	m := NewMux(bt, input, time.Millisecond)
	defer m.Stop()

	if _, ok := next(t, m).(Tick); !ok {
		t.Fatalf("expected tick on idle sources")
	}
}

func TestKeyReleaseAndRepeatFiltered(t *testing.T) {
	bt := make(chan bluetooth.Event)
	input := make(chan term.Event, 4)
	m := NewMux(bt, input, 10*time.Millisecond)
	defer m.Stop()

	input <- term.KeyEvent{Code: term.KeyRune, Rune: 'a', Kind: term.KeyRelease}
	input <- term.KeyEvent{Code: term.KeyRune, Rune: 'b', Kind: term.KeyRepeat}
	input <- term.KeyEvent{Code: term.KeyRune, Rune: 'c', Kind: term.KeyPress}

	key, ok := next(t, m).(Key)
	if !ok {
		t.Fatalf("expected a key event")
	}
	if key.Key.Rune != 'c' {
		t.Fatalf("expected only the press to surface, got %q", key.Key.Rune)
	}
}

func TestResizePassesThrough(t *testing.T) {
	bt := make(chan bluetooth.Event)
	input := make(chan term.Event, 1)
	m := NewMux(bt, input, 10*time.Millisecond)
	defer m.Stop()

	input <- term.ResizeEvent{Width: 120, Height: 40}
	resize, ok := next(t, m).(Resize)
	if !ok {
		t.Fatalf("expected resize event")
	}
	if resize.Width != 120 || resize.Height != 40 {
		t.Fatalf("unexpected dimensions %dx%d", resize.Width, resize.Height)
	}
}

func TestNextHonorsContextCancel(t *testing.T) {
	bt := make(chan bluetooth.Event)
	input := make(chan term.Event)
	m := NewMux(bt, input, time.Hour)
	defer m.Stop()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := m.Next(ctx); err == nil {
		t.Fatalf("expected context error")
	}
}

func TestClosedSourceDoesNotStarveOthers(t *testing.T) {
	bt := make(chan bluetooth.Event)
	input := make(chan term.Event, 1)
	close(bt)
	m := NewMux(bt, input, time.Hour)
	defer m.Stop()

	input <- term.KeyEvent{Code: term.KeyEsc}
	if _, ok := next(t, m).(Key); !ok {
		t.Fatalf("expected input to keep flowing after bluetooth closed")
	}
}
