package term

// KeyCode identifies a key independent of any modifier.
type KeyCode int

const (
	KeyNone KeyCode = iota // unbound / unparseable
	KeyRune
	KeyEnter
	KeyEsc
	KeyTab
	KeyBackspace
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
	KeyHome
	KeyEnd
	KeyPageUp
	KeyPageDown
	KeyDelete
	KeyInsert
)

// Modifiers is a bit set of held modifier keys.
type Modifiers uint8

const (
	ModCtrl Modifiers = 1 << iota
	ModAlt
)

// KeyKind distinguishes press from release/repeat on terminals that report
// them. Only presses ever reach the application; the multiplexer consumes
// and discards the rest.
type KeyKind int

const (
	KeyPress KeyKind = iota
	KeyRelease
	KeyRepeat
)

// KeyEvent is one decoded keyboard event.
type KeyEvent struct {
	Code KeyCode
	Rune rune // set when Code is KeyRune
	Mods Modifiers
	Kind KeyKind
}

func (e KeyEvent) isTermEvent() {}

// Key is a configured binding: a bare key with no modifiers.
type Key struct {
	Code KeyCode
	Rune rune
}

// Matches reports whether the event triggers the binding. Events carrying
// Ctrl or Alt never match a plain binding.
func (e KeyEvent) Matches(k Key) bool {
	if k.Code == KeyNone {
		return false
	}
	if e.Mods&(ModCtrl|ModAlt) != 0 {
		return false
	}
	if e.Code != k.Code {
		return false
	}
	return k.Code != KeyRune || e.Rune == k.Rune
}

var keyNames = map[string]Key{
	"Enter":     {Code: KeyEnter},
	"Esc":       {Code: KeyEsc},
	"Tab":       {Code: KeyTab},
	"Backspace": {Code: KeyBackspace},
	"Space":     {Code: KeyRune, Rune: ' '},
	"Up":        {Code: KeyUp},
	"Down":      {Code: KeyDown},
	"Left":      {Code: KeyLeft},
	"Right":     {Code: KeyRight},
	"Home":      {Code: KeyHome},
	"End":       {Code: KeyEnd},
	"PageUp":    {Code: KeyPageUp},
	"PageDown":  {Code: KeyPageDown},
	"Delete":    {Code: KeyDelete},
	"Insert":    {Code: KeyInsert},
}

// ParseKey resolves a keybinding name from the configuration table. Names
// are either a recognized special key or a single character.
func ParseKey(s string) (Key, bool) {
	if k, ok := keyNames[s]; ok {
		return k, true
	}
	runes := []rune(s)
	if len(runes) == 1 {
		return Key{Code: KeyRune, Rune: runes[0]}, true
	}
	return Key{}, false
}

// String renders the binding for help and key-bar display.
func (k Key) String() string {
	for name, known := range keyNames {
		if known == k {
			return name
		}
	}
	if k.Code == KeyRune {
		return string(k.Rune)
	}
	return "?"
}
