package keys

import "sort"

// Key identifies a named (non-character) key
type Key int

const (
	Alt Key = iota + 1
	Backspace
	CapsLock
	Control
	Delete
	DownArrow
	End
	Escape
	F1
	F2
	F3
	F4
	F5
	F6
	F7
	F8
	F9
	F10
	F11
	F12
	F13
	F14
	F15
	F16
	F17
	F18
	F19
	F20
	Home
	LeftArrow
	Meta
	Option
	PageDown
	PageUp
	Return
	RightArrow
	Shift
	Space
	Tab
	UpArrow
)

// table maps script tokens to named keys. Matching is exact and case-sensitive.
var table = map[string]Key{
	"alt":         Alt,
	"backspace":   Backspace,
	"caps_lock":   CapsLock,
	"control":     Control,
	"delete":      Delete,
	"down_arrow":  DownArrow,
	"end":         End,
	"escape":      Escape,
	"f1":          F1,
	"f2":          F2,
	"f3":          F3,
	"f4":          F4,
	"f5":          F5,
	"f6":          F6,
	"f7":          F7,
	"f8":          F8,
	"f9":          F9,
	"f10":         F10,
	"f11":         F11,
	"f12":         F12,
	"f13":         F13,
	"f14":         F14,
	"f15":         F15,
	"f16":         F16,
	"f17":         F17,
	"f18":         F18,
	"f19":         F19,
	"f20":         F20,
	"home":        Home,
	"left_arrow":  LeftArrow,
	"meta":        Meta,
	"option":      Option,
	"page_down":   PageDown,
	"page_up":     PageUp,
	"return":      Return,
	"right_arrow": RightArrow,
	"shift":       Shift,
	"space":       Space,
	"tab":         Tab,
	"up_arrow":    UpArrow,
}

// names is the reverse of table, built once at init.
var names = func() map[Key]string {
	m := make(map[Key]string, len(table))
	for token, k := range table {
		m[k] = token
	}
	return m
}()

// Lookup returns the named key for token
func Lookup(token string) (Key, bool) {
	k, ok := table[token]
	return k, ok
}

// String returns the script token for the key
func (k Key) String() string {
	if name, ok := names[k]; ok {
		return name
	}
	return "unknown"
}

// Valid reports whether k is one of the named keys
func (k Key) Valid() bool {
	_, ok := names[k]
	return ok
}

// Tokens returns every key token in sorted order.
func Tokens() []string {
	tokens := make([]string, 0, len(table))
	for token := range table {
		tokens = append(tokens, token)
	}
	sort.Strings(tokens)
	return tokens
}

// All returns every named key ordered by identifier.
func All() []Key {
	all := make([]Key, 0, len(names))
	for k := range names {
		all = append(all, k)
	}
	sort.Slice(all, func(i, j int) bool { return all[i] < all[j] })
	return all
}
