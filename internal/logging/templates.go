package logging

import "fmt"

// LogTemplate represents a logging template with standardized emoji and formatting
type LogTemplate struct {
	emoji  string
	prefix string
	level  LogLevel
	dryRun bool
}

// LogLevel represents the logging level for templates
type LogLevel int

const (
	LevelInfo LogLevel = iota
	LevelSuccess
	LevelWarn
	LevelError
	LevelDebug
)

// Common logging templates with standardized emojis and formats
var (
	WaitTemplate       = LogTemplate{emoji: "⏳", prefix: "Waiting", level: LevelDebug}
	ScreenshotTemplate = LogTemplate{emoji: "📸", prefix: "Taking screenshot", level: LevelInfo}

	TypeTemplate  = LogTemplate{emoji: "📝", prefix: "Typing", level: LevelDebug}
	KeyTemplate   = LogTemplate{emoji: "⌨️", prefix: "Key", level: LevelDebug}
	MouseTemplate = LogTemplate{emoji: "🖱️", prefix: "Mouse", level: LevelDebug}

	CompareTemplate  = LogTemplate{emoji: "🔍", prefix: "Comparing screen", level: LevelInfo}
	MatchedTemplate  = LogTemplate{emoji: "✓", prefix: "Matched", level: LevelSuccess}
	MissTemplate     = LogTemplate{emoji: "✗", prefix: "No match", level: LevelWarn}
	ConnectTemplate  = LogTemplate{emoji: "🔌", prefix: "Connecting to", level: LevelInfo}
	SaveTemplate     = LogTemplate{emoji: "💾", prefix: "Saved", level: LevelSuccess}
	LoadTemplate     = LogTemplate{emoji: "📂", prefix: "Loading", level: LevelInfo}
	StartTemplate    = LogTemplate{emoji: "🚀", prefix: "Starting", level: LevelInfo}
	CompleteTemplate = LogTemplate{emoji: "✓", prefix: "Completed", level: LevelSuccess}
	FailTemplate     = LogTemplate{emoji: "✗", prefix: "Failed", level: LevelError}
)

// Dry-run variants
var (
	DryRunWaitTemplate    = LogTemplate{emoji: "⏳", prefix: "Would wait", level: LevelInfo, dryRun: true}
	DryRunTypeTemplate    = LogTemplate{emoji: "📝", prefix: "Would type", level: LevelInfo, dryRun: true}
	DryRunKeyTemplate     = LogTemplate{emoji: "⌨️", prefix: "Would send key", level: LevelInfo, dryRun: true}
	DryRunMouseTemplate   = LogTemplate{emoji: "🖱️", prefix: "Would send mouse", level: LevelInfo, dryRun: true}
	DryRunCompareTemplate = LogTemplate{emoji: "🔍", prefix: "Would compare screen", level: LevelInfo, dryRun: true}
)

// Format formats the template with the provided message
func (t LogTemplate) Format(message string) string {
	if t.dryRun {
		return fmt.Sprintf("%s [DRY-RUN] %s: %s", t.emoji, t.prefix, message)
	}
	if t.prefix != "" {
		return fmt.Sprintf("%s %s: %s", t.emoji, t.prefix, message)
	}
	return fmt.Sprintf("%s %s", t.emoji, message)
}

// Formatf formats the template with printf-style formatting
func (t LogTemplate) Formatf(format string, args ...interface{}) string {
	return t.Format(fmt.Sprintf(format, args...))
}

// Log logs the message using the appropriate logging function based on level
func (t LogTemplate) Log(message string) {
	formatted := t.Format(message)
	switch t.level {
	case LevelInfo:
		UserInfof("%s", formatted)
	case LevelSuccess:
		Successf("%s", formatted)
	case LevelWarn:
		UserWarnf("%s", formatted)
	case LevelError:
		UserErrorf("%s", formatted)
	case LevelDebug:
		Debug(formatted)
	}
}

// Logf logs the message using printf-style formatting
func (t LogTemplate) Logf(format string, args ...interface{}) {
	t.Log(fmt.Sprintf(format, args...))
}

// WaitFor logs a wait operation with duration
func WaitFor(duration string) {
	WaitTemplate.Log(duration)
}

// TakeScreenshot logs a screenshot operation
func TakeScreenshot(path, format string) {
	ScreenshotTemplate.Logf("%s (%s)", path, format)
}

// Connect logs connection establishment
func Connect(target string) {
	ConnectTemplate.Log(target)
}

// SaveFile logs file save operation
func SaveFile(path string, details string) {
	if details != "" {
		SaveTemplate.Logf("%s (%s)", path, details)
	} else {
		SaveTemplate.Log(path)
	}
}

// LoadFile logs file load operation
func LoadFile(path string) {
	LoadTemplate.Log(path)
}

// Start logs process start
func Start(process string) {
	StartTemplate.Log(process)
}

// Complete logs successful completion
func Complete(operation string) {
	CompleteTemplate.Log(operation)
}

// Fail logs operation failure
func Fail(operation string, reason string) {
	if reason != "" {
		FailTemplate.Logf("%s: %s", operation, reason)
	} else {
		FailTemplate.Log(operation)
	}
}

// CompareScreen logs the start of a screen region comparison
func CompareScreen(path string, x, y, width, height int) {
	CompareTemplate.Logf("%s at %dx%d+%d+%d", path, width, height, x, y)
}

// ScreenCompared logs the outcome of a gated screen comparison
func ScreenCompared(path string, percent, threshold float64, matched bool) {
	if matched {
		MatchedTemplate.Logf("%s %.2f%% >= %.2f%%", path, percent, threshold)
	} else {
		MissTemplate.Logf("%s %.2f%% < %.2f%%", path, percent, threshold)
	}
}
