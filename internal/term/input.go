package term

import (
	"io"
	"os"
	"os/signal"
	"syscall"
	"unicode/utf8"
)

// Reader decodes raw terminal bytes into key events and merges in resize
// notifications. All events are delivered on a single channel consumed by
// the event multiplexer.
type Reader struct {
	events chan Event
}

// NewReader starts decoding from in. When in is the real terminal it also
// watches SIGWINCH and emits ResizeEvents.
func NewReader(in io.Reader) *Reader {
	r := &Reader{events: make(chan Event, 16)}
	go r.readLoop(in)
	if f, ok := in.(*os.File); ok && f == os.Stdin {
		go r.watchResize()
	}
	return r
}

// Events returns the decoded event stream. It is closed when the input
// source reaches EOF.
func (r *Reader) Events() <-chan Event { return r.events }

func (r *Reader) readLoop(in io.Reader) {
	defer close(r.events)
	buf := make([]byte, 256)
	var pending []byte
	for {
		n, err := in.Read(buf)
		if n > 0 {
			pending = append(pending, buf[:n]...)
			pending = r.drain(pending)
			// A trailing lone ESC is a real Esc press unless the read
			// filled the buffer, in which case the tail of a split escape
			// sequence is still in flight and the ESC must wait for it.
			if len(pending) == 1 && pending[0] == 0x1b && n < len(buf) {
				r.events <- KeyEvent{Code: KeyEsc}
				pending = nil
			}
		}
		if err != nil {
			if len(pending) == 1 && pending[0] == 0x1b {
				r.events <- KeyEvent{Code: KeyEsc}
			}
			return
		}
	}
}

// drain decodes as many complete events as possible and returns the
// remaining undecoded tail (at most a partial escape sequence).
func (r *Reader) drain(b []byte) []byte {
	for len(b) > 0 {
		ev, n, ok := decodeOne(b)
		if !ok {
			return b
		}
		b = b[n:]
		if ev != nil {
			r.events <- ev
		}
	}
	return nil
}

// decodeOne decodes a single event from the head of b. It returns ok=false
// when b holds only an incomplete escape sequence, and a nil event for
// sequences that are recognized but deliberately dropped.
func decodeOne(b []byte) (Event, int, bool) {
	if b[0] == 0x1b {
		return decodeEscape(b)
	}
	switch b[0] {
	case '\r', '\n':
		return KeyEvent{Code: KeyEnter}, 1, true
	case '\t':
		return KeyEvent{Code: KeyTab}, 1, true
	case 0x7f, 0x08:
		return KeyEvent{Code: KeyBackspace}, 1, true
	}
	if b[0] < 0x20 {
		// Ctrl+letter: 0x01..0x1a maps back to a..z.
		return KeyEvent{Code: KeyRune, Rune: rune('a' + b[0] - 1), Mods: ModCtrl}, 1, true
	}
	ru, size := utf8.DecodeRune(b)
	if ru == utf8.RuneError && size == 1 && !utf8.FullRune(b) {
		return nil, 0, false
	}
	return KeyEvent{Code: KeyRune, Rune: ru}, size, true
}

var csiKeys = map[byte]KeyCode{
	'A': KeyUp,
	'B': KeyDown,
	'C': KeyRight,
	'D': KeyLeft,
	'H': KeyHome,
	'F': KeyEnd,
}

var csiTildeKeys = map[int]KeyCode{
	1: KeyHome,
	2: KeyInsert,
	3: KeyDelete,
	4: KeyEnd,
	5: KeyPageUp,
	6: KeyPageDown,
	7: KeyHome,
	8: KeyEnd,
}

func decodeEscape(b []byte) (Event, int, bool) {
	if len(b) == 1 {
		// A bare ESC could still grow into a sequence; the read loop
		// decides when to emit it as a plain Esc.
		return nil, 0, false
	}
	if b[1] == 0x1b {
		return KeyEvent{Code: KeyEsc}, 1, true
	}
	switch b[1] {
	case '[':
		return decodeCSI(b)
	case 'O':
		if len(b) < 3 {
			return nil, 0, false
		}
		if code, ok := csiKeys[b[2]]; ok {
			return KeyEvent{Code: code}, 3, true
		}
		return nil, 3, true
	default:
		ev, n, ok := decodeOne(b[1:])
		if !ok {
			return nil, 0, false
		}
		key, isKey := ev.(KeyEvent)
		if !isKey {
			return nil, 1 + n, true
		}
		key.Mods |= ModAlt
		return key, 1 + n, true
	}
}

func decodeCSI(b []byte) (Event, int, bool) {
	// Scan for the final byte (0x40..0x7e) after ESC [.
	i := 2
	params := 0
	sawParams := false
	for ; i < len(b); i++ {
		c := b[i]
		if c >= '0' && c <= '9' {
			if !sawParams {
				params = params*10 + int(c-'0')
			}
			continue
		}
		if c == ';' {
			// Only the first parameter matters for the keys handled here;
			// trailing parameters carry modifiers or event kinds.
			sawParams = true
			continue
		}
		if c >= 0x40 && c <= 0x7e {
			break
		}
	}
	if i >= len(b) {
		return nil, 0, false
	}
	final := b[i]
	n := i + 1
	if code, ok := csiKeys[final]; ok {
		return KeyEvent{Code: code}, n, true
	}
	if final == '~' {
		if code, ok := csiTildeKeys[params]; ok {
			return KeyEvent{Code: code}, n, true
		}
	}
	// Unrecognized CSI sequences (mouse reports, kitty key events, ...)
	// are consumed without producing an event.
	return nil, n, true
}

func (r *Reader) watchResize() {
	winch := make(chan os.Signal, 1)
	signal.Notify(winch, syscall.SIGWINCH)
	for range winch {
		if w, h, err := termSize(); err == nil {
			r.events <- ResizeEvent{Width: w, Height: h}
		}
	}
}
