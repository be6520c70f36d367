package editor

import (
	"bufio"
	"io"
	"unicode"
	"unicode/utf8"

	"github.com/abiosoft/readline"
)

// Key identifies a decoded key press.
type Key int

const (
	KeyUnknown Key = iota
	KeyRune
	KeyEnter
	KeyBackspace
	KeyDelete
	KeyLeft
	KeyRight
	KeyUp
	KeyDown
	KeyHome
	KeyEnd
	KeyEscape
)

var keyNames = map[Key]string{
	KeyUnknown:   "Unknown",
	KeyRune:      "Rune",
	KeyEnter:     "Enter",
	KeyBackspace: "Backspace",
	KeyDelete:    "Delete",
	KeyLeft:      "Left",
	KeyRight:     "Right",
	KeyUp:        "Up",
	KeyDown:      "Down",
	KeyHome:      "Home",
	KeyEnd:       "End",
	KeyEscape:    "Escape",
}

func (k Key) String() string {
	if name, ok := keyNames[k]; ok {
		return name
	}
	return "Key(?)"
}

// Mod is a set of modifiers held with a key.
type Mod int

const ModNone Mod = 0

const (
	ModCtrl Mod = 1 << iota
	ModAlt
)

// Event is one decoded key press. Rune is set for KeyRune; control letters
// are reported as KeyRune with the lower case letter and ModCtrl.
type Event struct {
	Key  Key
	Rune rune
	Mod  Mod
}

// Ctrl returns the event for Ctrl plus the given letter.
func Ctrl(letter rune) Event {
	return Event{Key: KeyRune, Rune: letter, Mod: ModCtrl}
}

// IsCtrl reports whether e is Ctrl plus letter.
func (e Event) IsCtrl(letter rune) bool {
	return e.Key == KeyRune && e.Mod == ModCtrl && e.Rune == letter
}

// Decoder turns the byte stream of a raw-mode terminal into key events.
type Decoder struct {
	r       *bufio.Reader
	pending func() bool
}

// NewDecoder reads key events from r. If r has a Pending method reporting
// whether more input is ready, it is used to tell a lone ESC apart from the
// start of a sequence.
func NewDecoder(r io.Reader) *Decoder {
	d := &Decoder{}
	if p, ok := r.(interface{ Pending() bool }); ok {
		d.pending = p.Pending
	}
	if br, ok := r.(*bufio.Reader); ok {
		d.r = br
	} else {
		d.r = bufio.NewReader(r)
	}
	return d
}

func (d *Decoder) more() bool {
	if d.r.Buffered() > 0 {
		return true
	}
	return d.pending != nil && d.pending()
}

// Next blocks until a complete key press has been read.
func (d *Decoder) Next() (Event, error) {
	r, _, err := d.r.ReadRune()
	if err != nil {
		return Event{}, err
	}

	switch {
	case r == readline.CharEnter || r == readline.CharCtrlJ:
		return Event{Key: KeyEnter}, nil
	case r == readline.CharBackspace || r == readline.CharCtrlH:
		return Event{Key: KeyBackspace}, nil
	case r == readline.CharEsc:
		return d.escape()
	case r < ' ':
		return Ctrl(unicode.ToLower(r + '@')), nil
	case r == utf8.RuneError || !unicode.IsPrint(r):
		return Event{Key: KeyUnknown}, nil
	default:
		return Event{Key: KeyRune, Rune: r}, nil
	}
}

// escape decodes the remainder of a sequence started by ESC. A lone ESC is
// only recognized when no more input is ready.
func (d *Decoder) escape() (Event, error) {
	if !d.more() {
		return Event{Key: KeyEscape}, nil
	}

	r, _, err := d.r.ReadRune()
	if err != nil {
		return Event{}, err
	}

	switch r {
	case readline.CharEscapeEx:
		return d.csi()
	case 'O':
		b, err := d.r.ReadByte()
		if err != nil {
			return Event{}, err
		}
		return Event{Key: finalKey(b)}, nil
	default:
		return Event{Key: KeyRune, Rune: r, Mod: ModAlt}, nil
	}
}

// csi decodes a control sequence after "ESC [".
func (d *Decoder) csi() (Event, error) {
	var param []byte
	for {
		b, err := d.r.ReadByte()
		if err != nil {
			return Event{}, err
		}

		switch {
		case (b >= '0' && b <= '9') || b == ';':
			param = append(param, b)
		case b == '~':
			return Event{Key: tildeKey(string(param))}, nil
		case b >= 0x40 && b <= 0x7e:
			if len(param) > 0 {
				// Modified arrows such as "1;5C" are not bound.
				return Event{Key: KeyUnknown}, nil
			}
			return Event{Key: finalKey(b)}, nil
		default:
			return Event{Key: KeyUnknown}, nil
		}
	}
}

func finalKey(b byte) Key {
	switch b {
	case 'A':
		return KeyUp
	case 'B':
		return KeyDown
	case 'C':
		return KeyRight
	case 'D':
		return KeyLeft
	case 'H':
		return KeyHome
	case 'F':
		return KeyEnd
	default:
		return KeyUnknown
	}
}

func tildeKey(param string) Key {
	switch param {
	case "1", "7":
		return KeyHome
	case "3":
		return KeyDelete
	case "4", "8":
		return KeyEnd
	default:
		return KeyUnknown
	}
}
