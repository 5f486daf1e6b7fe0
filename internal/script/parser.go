package script

import (
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/jeeftor/qmp-macro/internal/keys"
	"github.com/jeeftor/qmp-macro/internal/logging"
)

// Keyword prefixes recognised at the start of a line
const (
	KeywordKeySequence           = "key_sequence: "
	KeywordKey                   = "key: "
	KeywordWait                  = "wait: "
	KeywordMouseClick            = "mouse_click: "
	KeywordMouseDown             = "mouse_down: "
	KeywordMouseRelease          = "mouse_release: "
	KeywordMouseMove             = "mouse_move: "
	KeywordMouseMoveRelative     = "mouse_move_relative: "
	KeywordScreenCompareKeyClick = "screen_compare_key_click: "
)

// screenCompareFixedFields is the number of fields before the image path
const screenCompareFixedFields = 6

type subParser func(rest string) (Command, error)

type keyword struct {
	prefix string
	parse  subParser
}

// keywords is tried in order and the first matching prefix wins.
// No prefix may be a prefix of another.
var keywords = []keyword{
	{KeywordKeySequence, parseKeySequence},
	{KeywordKey, parseKeyUse},
	{KeywordWait, parseWait},
	{KeywordMouseClick, mouseButtonParser(MouseClick)},
	{KeywordMouseDown, mouseButtonParser(MouseDown)},
	{KeywordMouseRelease, mouseButtonParser(MouseUp)},
	{KeywordMouseMove, parseMouseMove},
	{KeywordMouseMoveRelative, parseMouseMoveRelative},
	{KeywordScreenCompareKeyClick, parseScreenCompareKeyClick},
}

var parserLog = logging.NewContextualLogger("", "parser")

// Keywords returns the recognised keyword prefixes in dispatch order
func Keywords() []string {
	prefixes := make([]string, len(keywords))
	for i, kw := range keywords {
		prefixes[i] = kw.prefix
	}
	return prefixes
}

// Parse turns a line into a command. A malformed line yields the fallback
// command and a logged diagnostic.
func Parse(line string) Command {
	cmd, err := ParseLine(line)
	if err != nil {
		parserLog.Warn("Ignoring malformed script line", "text", line, "reason", err)
	}
	return cmd
}

// ParseLine is Parse with the diagnostic returned instead of logged.
// The returned command is never nil; on error it is the fallback.
func ParseLine(line string) (Command, error) {
	for _, kw := range keywords {
		if !strings.HasPrefix(line, kw.prefix) {
			continue
		}

		parts := strings.Split(line, kw.prefix)
		if len(parts) != 2 {
			return Fallback(), &ParseError{Text: line, Err: malformed("keyword %q appears more than once", strings.TrimSpace(kw.prefix))}
		}

		cmd, err := kw.parse(parts[1])
		if err != nil {
			return Fallback(), &ParseError{Text: line, Err: err}
		}
		return cmd, nil
	}

	return Fallback(), &ParseError{Text: line, Err: ErrUnknownKeyword}
}

func parseKeySequence(rest string) (Command, error) {
	if rest == "" {
		return nil, malformed("key sequence is empty")
	}
	return KeySequence{Text: rest}, nil
}

func parseKeyUse(rest string) (Command, error) {
	fields := strings.Split(rest, " ")
	if len(fields) != 2 {
		return nil, malformed("expected {key} {action}, got %d fields", len(fields))
	}

	target, err := parseKeyTarget(fields[0])
	if err != nil {
		return nil, err
	}
	action, err := parseAction(fields[1])
	if err != nil {
		return nil, err
	}
	return KeyUse{Target: target, Action: action}, nil
}

func parseWait(rest string) (Command, error) {
	ms, err := strconv.ParseUint(rest, 10, 64)
	if err != nil {
		return nil, invalidField("wait", rest, err)
	}
	return Wait{Millis: ms}, nil
}

func mouseButtonParser(kind MouseEventKind) subParser {
	return func(rest string) (Command, error) {
		button, err := parseMouseButton(rest)
		if err != nil {
			return nil, err
		}
		return MouseButtonEvent{Button: button, Kind: kind}, nil
	}
}

func parseMouseMove(rest string) (Command, error) {
	x, y, err := parseCoordinatePair(rest)
	if err != nil {
		return nil, err
	}
	return MouseMove{X: x, Y: y}, nil
}

func parseMouseMoveRelative(rest string) (Command, error) {
	dx, dy, err := parseCoordinatePair(rest)
	if err != nil {
		return nil, err
	}
	return MouseMoveRelative{DX: dx, DY: dy}, nil
}

// parseScreenCompareKeyClick reads {key} {x} {y} {width} {height} {threshold} {path...}.
// The path is everything after the fixed fields, so it may contain spaces.
func parseScreenCompareKeyClick(rest string) (Command, error) {
	fields := strings.Split(rest, " ")
	if len(fields) <= screenCompareFixedFields {
		return nil, malformed("expected {key} {x} {y} {width} {height} {threshold} {path}, got %d fields", len(fields))
	}

	target, err := parseKeyTarget(fields[0])
	if err != nil {
		return nil, err
	}
	x, err := parseInt32("x", fields[1])
	if err != nil {
		return nil, err
	}
	y, err := parseInt32("y", fields[2])
	if err != nil {
		return nil, err
	}
	width, err := parseUint32("width", fields[3])
	if err != nil {
		return nil, err
	}
	height, err := parseUint32("height", fields[4])
	if err != nil {
		return nil, err
	}
	threshold, err := strconv.ParseFloat(fields[5], 64)
	if err != nil {
		return nil, invalidField("threshold", fields[5], err)
	}

	return ConditionalKeyUse{
		Target:    target,
		Action:    Click,
		ImagePath: strings.Join(fields[screenCompareFixedFields:], " "),
		Region:    Region{X: x, Y: y, Width: width, Height: height},
		Threshold: threshold,
	}, nil
}

// parseKeyTarget tries a single literal character first and only then the Key Table.
func parseKeyTarget(token string) (KeyTarget, error) {
	if r, size := utf8.DecodeRuneInString(token); size > 0 && size == len(token) {
		if r != utf8.RuneError || size > 1 {
			return CharTarget(r), nil
		}
	}
	if k, ok := keys.Lookup(token); ok {
		return NamedTarget(k), nil
	}
	return KeyTarget{}, invalidField("key", token, nil)
}

func parseAction(token string) (Action, error) {
	switch token {
	case "press":
		return Press, nil
	case "release":
		return Release, nil
	case "click":
		return Click, nil
	}
	return 0, invalidField("action", token, nil)
}

func parseMouseButton(token string) (MouseButton, error) {
	switch token {
	case "left":
		return LeftButton, nil
	case "right":
		return RightButton, nil
	case "middle":
		return MiddleButton, nil
	}
	return 0, invalidField("mouse button", token, nil)
}

func parseCoordinatePair(rest string) (int32, int32, error) {
	fields := strings.Split(rest, " ")
	if len(fields) != 2 {
		return 0, 0, malformed("expected two coordinates, got %d fields", len(fields))
	}
	x, err := parseInt32("x", fields[0])
	if err != nil {
		return 0, 0, err
	}
	y, err := parseInt32("y", fields[1])
	if err != nil {
		return 0, 0, err
	}
	return x, y, nil
}

func parseInt32(field, value string) (int32, error) {
	n, err := strconv.ParseInt(value, 10, 32)
	if err != nil {
		return 0, invalidField(field, value, err)
	}
	return int32(n), nil
}

func parseUint32(field, value string) (uint32, error) {
	n, err := strconv.ParseUint(value, 10, 32)
	if err != nil {
		return 0, invalidField(field, value, err)
	}
	return uint32(n), nil
}
