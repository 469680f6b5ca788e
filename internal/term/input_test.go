package term

import (
	"bytes"
	"io"
	"strings"
	"testing"
	"time"
)

func TestDecodeOneBasicKeys(t *testing.T) {
	cases := []struct {
		input string
		want  KeyEvent
	}{
		{"a", KeyEvent{Code: KeyRune, Rune: 'a'}},
		{"G", KeyEvent{Code: KeyRune, Rune: 'G'}},
		{"/", KeyEvent{Code: KeyRune, Rune: '/'}},
		{"é", KeyEvent{Code: KeyRune, Rune: 'é'}},
		{"\r", KeyEvent{Code: KeyEnter}},
		{"\n", KeyEvent{Code: KeyEnter}},
		{"\t", KeyEvent{Code: KeyTab}},
		{"\x7f", KeyEvent{Code: KeyBackspace}},
		{"\x03", KeyEvent{Code: KeyRune, Rune: 'c', Mods: ModCtrl}},
	}
	for _, tc := range cases {
		ev, n, ok := decodeOne([]byte(tc.input))
		if !ok {
			t.Fatalf("decode %q: incomplete", tc.input)
		}
		if n != len(tc.input) {
			t.Fatalf("decode %q: consumed %d of %d bytes", tc.input, n, len(tc.input))
		}
		key, isKey := ev.(KeyEvent)
		if !isKey {
			t.Fatalf("decode %q: expected key event, got %#v", tc.input, ev)
		}
		if key != tc.want {
			t.Fatalf("decode %q: expected %#v, got %#v", tc.input, tc.want, key)
		}
	}
}

func TestDecodeEscapeSequences(t *testing.T) {
	cases := []struct {
		input string
		want  KeyEvent
	}{
		{"\x1b[A", KeyEvent{Code: KeyUp}},
		{"\x1b[B", KeyEvent{Code: KeyDown}},
		{"\x1b[C", KeyEvent{Code: KeyRight}},
		{"\x1b[D", KeyEvent{Code: KeyLeft}},
		{"\x1b[H", KeyEvent{Code: KeyHome}},
		{"\x1b[F", KeyEvent{Code: KeyEnd}},
		{"\x1bOA", KeyEvent{Code: KeyUp}},
		{"\x1b[3~", KeyEvent{Code: KeyDelete}},
		{"\x1b[5~", KeyEvent{Code: KeyPageUp}},
		{"\x1b[6~", KeyEvent{Code: KeyPageDown}},
		{"\x1bx", KeyEvent{Code: KeyRune, Rune: 'x', Mods: ModAlt}},
	}
	for _, tc := range cases {
		ev, n, ok := decodeOne([]byte(tc.input))
		if !ok {
			t.Fatalf("decode %q: incomplete", tc.input)
		}
		if n != len(tc.input) {
			t.Fatalf("decode %q: consumed %d of %d bytes", tc.input, n, len(tc.input))
		}
		if key := ev.(KeyEvent); key != tc.want {
			t.Fatalf("decode %q: expected %#v, got %#v", tc.input, tc.want, key)
		}
	}
}

func TestDecodePartialSequenceWaitsForMore(t *testing.T) {
	for _, input := range []string{"\x1b", "\x1b[", "\x1b[1", "\x1bO"} {
		if _, _, ok := decodeOne([]byte(input)); ok {
			t.Fatalf("expected %q to be reported incomplete", input)
		}
	}
}

func TestDecodeDoubleEscYieldsEsc(t *testing.T) {
	ev, n, ok := decodeOne([]byte("\x1b\x1ba"))
	if !ok || n != 1 {
		t.Fatalf("expected one Esc byte consumed, got n=%d ok=%v", n, ok)
	}
	if key := ev.(KeyEvent); key.Code != KeyEsc {
		t.Fatalf("expected Esc, got %#v", key)
	}
}

func TestDecodeUnknownCSIConsumedSilently(t *testing.T) {
	ev, n, ok := decodeOne([]byte("\x1b[200Z"))
	if !ok {
		t.Fatalf("expected sequence to be consumed")
	}
	if ev != nil {
		t.Fatalf("expected no event, got %#v", ev)
	}
	if n != 6 {
		t.Fatalf("expected 6 bytes consumed, got %d", n)
	}
}

func TestReaderEmitsLoneEscPress(t *testing.T) {
	pr, pw := io.Pipe()
	r := NewReader(pr)
	defer pw.Close()

	go pw.Write([]byte{0x1b})

	select {
	case ev := <-r.Events():
		if key, ok := ev.(KeyEvent); !ok || key.Code != KeyEsc {
			t.Fatalf("expected Esc, got %#v", ev)
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("timed out waiting for Esc")
	}
}

// A sequence whose ESC byte lands exactly at the end of a full read must
// be reassembled with the bytes of the following read, not misread as an
// Esc press plus literal characters.
func TestReaderReassemblesSequenceSplitByFullRead(t *testing.T) {
	input := strings.Repeat("a", 255) + "\x1b[B"
	r := NewReader(bytes.NewReader([]byte(input)))

	var got []KeyEvent
	for ev := range r.Events() {
		got = append(got, ev.(KeyEvent))
	}
	if len(got) != 256 {
		t.Fatalf("expected 256 events, got %d", len(got))
	}
	for i := 0; i < 255; i++ {
		if got[i] != (KeyEvent{Code: KeyRune, Rune: 'a'}) {
			t.Fatalf("event %d: expected rune a, got %#v", i, got[i])
		}
	}
	if got[255] != (KeyEvent{Code: KeyDown}) {
		t.Fatalf("expected trailing Down, got %#v", got[255])
	}
}

func TestReaderFlushesRetainedEscOnEOF(t *testing.T) {
	input := strings.Repeat("a", 255) + "\x1b"
	r := NewReader(bytes.NewReader([]byte(input)))

	var got []KeyEvent
	for ev := range r.Events() {
		got = append(got, ev.(KeyEvent))
	}
	if len(got) != 256 || got[255] != (KeyEvent{Code: KeyEsc}) {
		t.Fatalf("expected trailing Esc after EOF, got %d events", len(got))
	}
}

func TestReaderDeliversEventsAndClosesOnEOF(t *testing.T) {
	pr, pw := io.Pipe()
	r := NewReader(pr)

	go func() {
		pw.Write([]byte("j\x1b[B"))
		pw.Close()
	}()

	want := []KeyEvent{
		{Code: KeyRune, Rune: 'j'},
		{Code: KeyDown},
	}
	for _, expected := range want {
		select {
		case ev := <-r.Events():
			key, ok := ev.(KeyEvent)
			if !ok || key != expected {
				t.Fatalf("expected %#v, got %#v", expected, ev)
			}
		case <-time.After(5 * time.Second):
			t.Fatalf("timed out waiting for %#v", expected)
		}
	}

	select {
	case _, open := <-r.Events():
		if open {
			t.Fatalf("expected channel to close on EOF")
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("channel not closed after EOF")
	}
}
