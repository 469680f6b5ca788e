// Package term manages the terminal: raw mode, the alternate screen, frame
// output, and decoding of raw input bytes into key events.
package term

import (
	"fmt"
	"os"
	"runtime/debug"

	"golang.org/x/term"
)

// Event is a terminal input event: a KeyEvent or a ResizeEvent.
type Event interface{ isTermEvent() }

// ResizeEvent reports new terminal dimensions.
type ResizeEvent struct {
	Width  int
	Height int
}

func (ResizeEvent) isTermEvent() {}

const (
	enterAltScreen = "\x1b[?1049h"
	leaveAltScreen = "\x1b[?1049l"
	hideCursor     = "\x1b[?25l"
	showCursor     = "\x1b[?25h"
	clearScreen    = "\x1b[2J"
	cursorHome     = "\x1b[H"
)

// Terminal owns the interactive terminal for the lifetime of the program.
type Terminal struct {
	out   *os.File
	state *term.State
}

// Init enters the alternate screen, enables raw mode, and installs a panic
// handler hook via Restore so a crash never leaves the user's shell broken.
func Init() (*Terminal, error) {
	fd := int(os.Stdin.Fd())
	state, err := term.MakeRaw(fd)
	if err != nil {
		return nil, fmt.Errorf("enable raw mode: %w", err)
	}
	t := &Terminal{out: os.Stdout, state: state}
	fmt.Fprint(t.out, enterAltScreen+hideCursor)
	return t, nil
}

// Restore leaves the alternate screen and disables raw mode. Safe to call
// more than once.
func (t *Terminal) Restore() {
	if t.state != nil {
		fmt.Fprint(t.out, showCursor+leaveAltScreen)
		_ = term.Restore(int(os.Stdin.Fd()), t.state)
		t.state = nil
	}
}

// RecoverAndRestore is deferred around the main loop: it restores the
// terminal before re-raising a panic so the message is readable.
func (t *Terminal) RecoverAndRestore() {
	if r := recover(); r != nil {
		t.Restore()
		fmt.Fprintf(os.Stderr, "panic: %v\n%s", r, debug.Stack())
		os.Exit(1)
	}
}

// Size returns the current terminal dimensions, falling back to 80x24 when
// they cannot be determined.
func (t *Terminal) Size() (int, int) {
	w, h, err := term.GetSize(int(os.Stdin.Fd()))
	if err != nil || w <= 0 || h <= 0 {
		return 80, 24
	}
	return w, h
}

// Draw repaints the whole screen with the rendered frame.
func (t *Terminal) Draw(frame string) {
	fmt.Fprint(t.out, cursorHome+clearScreen+frame)
}

func termSize() (int, int, error) {
	return term.GetSize(int(os.Stdin.Fd()))
}
