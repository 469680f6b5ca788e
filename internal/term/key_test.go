package term

import "testing"

func TestParseKeyNamesAndRunes(t *testing.T) {
	cases := []struct {
		input string
		want  Key
	}{
		{"Enter", Key{Code: KeyEnter}},
		{"Esc", Key{Code: KeyEsc}},
		{"Space", Key{Code: KeyRune, Rune: ' '}},
		{"Down", Key{Code: KeyDown}},
		{"q", Key{Code: KeyRune, Rune: 'q'}},
		{"/", Key{Code: KeyRune, Rune: '/'}},
		{"G", Key{Code: KeyRune, Rune: 'G'}},
	}
	for _, tc := range cases {
		got, ok := ParseKey(tc.input)
		if !ok {
			t.Fatalf("ParseKey(%q) failed", tc.input)
		}
		if got != tc.want {
			t.Fatalf("ParseKey(%q) = %#v, want %#v", tc.input, got, tc.want)
		}
	}
}

func TestParseKeyRejectsUnknownNames(t *testing.T) {
	for _, input := range []string{"", "NotAKey", "ctrl+c"} {
		if _, ok := ParseKey(input); ok {
			t.Fatalf("expected ParseKey(%q) to fail", input)
		}
	}
}

func TestMatches(t *testing.T) {
	q := Key{Code: KeyRune, Rune: 'q'}

	if !(KeyEvent{Code: KeyRune, Rune: 'q'}).Matches(q) {
		t.Fatalf("plain press should match its binding")
	}
	if (KeyEvent{Code: KeyRune, Rune: 'Q'}).Matches(q) {
		t.Fatalf("case must be significant")
	}
	if (KeyEvent{Code: KeyRune, Rune: 'q', Mods: ModCtrl}).Matches(q) {
		t.Fatalf("ctrl-modified press must not match a plain binding")
	}
	if (KeyEvent{Code: KeyRune, Rune: 'q', Mods: ModAlt}).Matches(q) {
		t.Fatalf("alt-modified press must not match a plain binding")
	}
	if (KeyEvent{Code: KeyEnter}).Matches(Key{}) {
		t.Fatalf("unbound key must never match")
	}
	if !(KeyEvent{Code: KeyEnter}).Matches(Key{Code: KeyEnter}) {
		t.Fatalf("special key should match by code")
	}
}

func TestKeyString(t *testing.T) {
	if got := (Key{Code: KeyEnter}).String(); got != "Enter" {
		t.Fatalf("expected Enter, got %q", got)
	}
	if got := (Key{Code: KeyRune, Rune: 'j'}).String(); got != "j" {
		t.Fatalf("expected j, got %q", got)
	}
	if got := (Key{}).String(); got != "?" {
		t.Fatalf("expected placeholder for unbound key, got %q", got)
	}
}
