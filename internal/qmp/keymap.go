package qmp

import (
	"fmt"
	"unicode"

	"github.com/jeeftor/qmp-macro/internal/keys"
)

// punctuation that has its own key on a US layout
var plainChars = map[rune]string{
	' ':  "spc",
	'\n': "ret",
	'\t': "tab",
	'-':  "minus",
	'=':  "equal",
	'[':  "bracket_left",
	']':  "bracket_right",
	'\\': "backslash",
	'\'': "apostrophe",
	',':  "comma",
	'.':  "dot",
	'/':  "slash",
	'`':  "grave_accent",
	';':  "semicolon",
}

// characters typed with shift held
var shiftedChars = map[rune]string{
	':':  "semicolon",
	'!':  "1",
	'@':  "2",
	'#':  "3",
	'$':  "4",
	'%':  "5",
	'^':  "6",
	'&':  "7",
	'*':  "8",
	'(':  "9",
	')':  "0",
	'_':  "minus",
	'+':  "equal",
	'{':  "bracket_left",
	'}':  "bracket_right",
	'|':  "backslash",
	'"':  "apostrophe",
	'<':  "comma",
	'>':  "dot",
	'?':  "slash",
	'~':  "grave_accent",
}

// namedQcodes maps the Key Table onto QEMU QKeyCodes
var namedQcodes = map[keys.Key]string{
	keys.Alt:        "alt",
	keys.Backspace:  "backspace",
	keys.CapsLock:   "caps_lock",
	keys.Control:    "ctrl",
	keys.Delete:     "delete",
	keys.DownArrow:  "down",
	keys.End:        "end",
	keys.Escape:     "esc",
	keys.Home:       "home",
	keys.LeftArrow:  "left",
	keys.Meta:       "meta_l",
	keys.Option:     "alt",
	keys.PageDown:   "pgdn",
	keys.PageUp:     "pgup",
	keys.Return:     "ret",
	keys.RightArrow: "right",
	keys.Shift:      "shift",
	keys.Space:      "spc",
	keys.Tab:        "tab",
	keys.UpArrow:    "up",
}

func init() {
	for i := 1; i <= 20; i++ {
		k, _ := keys.Lookup(fmt.Sprintf("f%d", i))
		namedQcodes[k] = fmt.Sprintf("f%d", i)
	}
}

// CharQcodes returns the qcodes held to type r, modifiers first
func CharQcodes(r rune) ([]string, error) {
	switch {
	case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
		return []string{string(r)}, nil
	case r >= 'A' && r <= 'Z':
		return []string{"shift", string(unicode.ToLower(r))}, nil
	}
	if code, ok := plainChars[r]; ok {
		return []string{code}, nil
	}
	if code, ok := shiftedChars[r]; ok {
		return []string{"shift", code}, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnmappableChar, r)
}

// NamedQcode returns the qcode for a Key Table entry
func NamedQcode(k keys.Key) (string, error) {
	code, ok := namedQcodes[k]
	if !ok {
		return "", fmt.Errorf("no qcode for key %s", k)
	}
	return code, nil
}
