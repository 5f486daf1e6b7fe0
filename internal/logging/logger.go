package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/fatih/color"
	"gopkg.in/natefinch/lumberjack.v2"
)

var (
	// level is shared by every handler so it can change after Init
	level = new(slog.LevelVar)

	// Default logger instance
	logger *slog.Logger

	// consoleOut is where the colour handler writes
	consoleOut io.Writer = os.Stdout

	// fileSink is the rotating log file, if enabled
	fileSink *lumberjack.Logger

	// Colors for different log levels
	infoColor    = color.New(color.FgGreen).SprintFunc()
	warnColor    = color.New(color.FgYellow).SprintFunc()
	errorColor   = color.New(color.FgRed).SprintFunc()
	debugColor   = color.New(color.FgCyan).SprintFunc()
	commandColor = color.New(color.FgMagenta).SprintFunc()
)

// ColorTextHandler is a simple handler that adds colors to log output
type ColorTextHandler struct {
	w     io.Writer
	attrs []slog.Attr
}

// NewColorTextHandler creates a new ColorTextHandler
func NewColorTextHandler(w io.Writer) *ColorTextHandler {
	return &ColorTextHandler{w: w}
}

// Handle handles the log record
func (h *ColorTextHandler) Handle(ctx context.Context, r slog.Record) error {
	var levelText string
	switch r.Level {
	case slog.LevelDebug:
		levelText = debugColor("DEBUG")
	case slog.LevelInfo:
		levelText = infoColor("INFO")
	case slog.LevelWarn:
		levelText = warnColor("WARN")
	case slog.LevelError:
		levelText = errorColor("ERROR")
	default:
		levelText = r.Level.String()
	}

	var sb strings.Builder
	for _, a := range h.attrs {
		writeAttr(&sb, a)
	}
	r.Attrs(func(a slog.Attr) bool {
		writeAttr(&sb, a)
		return true
	})

	// Carriage return first keeps output clean when a spinner owns the line
	_, err := fmt.Fprintf(h.w, "\r%s %s%s\n", levelText, r.Message, sb.String())
	return err
}

func writeAttr(sb *strings.Builder, a slog.Attr) {
	if a.Key == "source" || a.Key == "" {
		return
	}
	sb.WriteString(" ")
	sb.WriteString(a.Key)
	sb.WriteString("=")
	sb.WriteString(formatAttrValue(a.Value))
}

// formatAttrValue formats a slog.Value as a string
func formatAttrValue(v slog.Value) string {
	switch v.Kind() {
	case slog.KindString:
		return v.String()
	case slog.KindInt64:
		return fmt.Sprintf("%d", v.Int64())
	case slog.KindUint64:
		return fmt.Sprintf("%d", v.Uint64())
	case slog.KindFloat64:
		return fmt.Sprintf("%.2f", v.Float64())
	case slog.KindBool:
		return fmt.Sprintf("%t", v.Bool())
	case slog.KindDuration:
		return v.Duration().String()
	case slog.KindTime:
		return v.Time().Format("15:04:05")
	case slog.KindAny:
		return fmt.Sprintf("%v", v.Any())
	default:
		return v.String()
	}
}

// WithAttrs returns a new handler with the given attributes
func (h *ColorTextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	merged := make([]slog.Attr, 0, len(h.attrs)+len(attrs))
	merged = append(merged, h.attrs...)
	merged = append(merged, attrs...)
	return &ColorTextHandler{w: h.w, attrs: merged}
}

// WithGroup returns a new handler with the given group
func (h *ColorTextHandler) WithGroup(name string) slog.Handler {
	return h
}

// Enabled reports whether the handler handles records at the given level
func (h *ColorTextHandler) Enabled(ctx context.Context, l slog.Level) bool {
	return l >= level.Level()
}

// fanoutHandler sends each record to every handler that accepts it
type fanoutHandler []slog.Handler

func (f fanoutHandler) Enabled(ctx context.Context, l slog.Level) bool {
	for _, h := range f {
		if h.Enabled(ctx, l) {
			return true
		}
	}
	return false
}

func (f fanoutHandler) Handle(ctx context.Context, r slog.Record) error {
	var firstErr error
	for _, h := range f {
		if !h.Enabled(ctx, r.Level) {
			continue
		}
		if err := h.Handle(ctx, r.Clone()); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func (f fanoutHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	out := make(fanoutHandler, len(f))
	for i, h := range f {
		out[i] = h.WithAttrs(attrs)
	}
	return out
}

func (f fanoutHandler) WithGroup(name string) slog.Handler {
	out := make(fanoutHandler, len(f))
	for i, h := range f {
		out[i] = h.WithGroup(name)
	}
	return out
}

// ParseLevel converts a level name to a slog level.
// trace is accepted and treated as debug.
func ParseLevel(name string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "trace", "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log level %q", name)
	}
}

// Init initializes the logger with the specified debug level
func Init(debug bool) {
	if debug {
		InitWithLevel("debug")
		return
	}
	InitWithLevel("info")
}

// InitWithLevel initializes the logger from a level name
func InitWithLevel(name string) {
	l, err := ParseLevel(name)
	level.Set(l)
	rebuild()
	if err != nil {
		Warn("Falling back to info logging", "error", err)
	}
}

// SetOutput sets the output writer for the console handler
func SetOutput(w io.Writer) {
	consoleOut = w
	rebuild()
}

// EnableFileOutput additionally writes JSON log records to a rotating file
func EnableFileOutput(path string, maxSizeMB, maxBackups int) {
	if fileSink != nil {
		fileSink.Close()
	}
	fileSink = &lumberjack.Logger{
		Filename:   path,
		MaxSize:    maxSizeMB,
		MaxBackups: maxBackups,
		Compress:   false,
	}
	rebuild()
}

// Close flushes and closes the log file, if any
func Close() error {
	if fileSink == nil {
		return nil
	}
	err := fileSink.Close()
	fileSink = nil
	rebuild()
	return err
}

func rebuild() {
	var handler slog.Handler = NewColorTextHandler(consoleOut)
	if fileSink != nil {
		handler = fanoutHandler{
			handler,
			slog.NewJSONHandler(fileSink, &slog.HandlerOptions{Level: level}),
		}
	}
	logger = slog.New(handler)
	slog.SetDefault(logger)
}

// IsDebugEnabled reports whether debug records are emitted
func IsDebugEnabled() bool {
	return level.Level() <= slog.LevelDebug
}

// Debug logs a debug message
func Debug(msg string, args ...any) {
	slog.Debug(msg, args...)
}

// Info logs an info message
func Info(msg string, args ...any) {
	slog.Info(msg, args...)
}

// Warn logs a warning message
func Warn(msg string, args ...any) {
	slog.Warn(msg, args...)
}

// Error logs an error message
func Error(msg string, args ...any) {
	slog.Error(msg, args...)
}

// LogCommand logs a QMP command with pretty formatting
func LogCommand(cmd string, args interface{}) {
	if !IsDebugEnabled() {
		return
	}
	if args != nil {
		Debug("Sending QMP command", "command", commandColor(cmd), "args", args)
	} else {
		Debug("Sending QMP command", "command", commandColor(cmd))
	}
}

// LogResponse logs a QMP response with pretty formatting
func LogResponse(resp interface{}) {
	if !IsDebugEnabled() {
		return
	}
	Debug("Received QMP response", "response", resp)
}

// LogOperation times fn and logs its outcome
func LogOperation(operation, target string, fn func() error) error {
	start := time.Now()
	err := fn()
	duration := time.Since(start)
	if err != nil {
		Debug("Operation failed", "operation", operation, "target", target, "duration", duration, "error", err)
		return err
	}
	Debug("Operation completed", "operation", operation, "target", target, "duration", duration)
	return nil
}

// ContextualLogger carries a target and component on every record
type ContextualLogger struct {
	target    string
	component string
}

// NewContextualLogger creates a logger for a component acting on target
func NewContextualLogger(target, component string) *ContextualLogger {
	return &ContextualLogger{target: target, component: component}
}

// With returns a copy of the logger bound to a different target
func (l *ContextualLogger) With(target string) *ContextualLogger {
	return &ContextualLogger{target: target, component: l.component}
}

func (l *ContextualLogger) args(args []any) []any {
	out := make([]any, 0, len(args)+4)
	out = append(out, "component", l.component)
	if l.target != "" {
		out = append(out, "target", l.target)
	}
	return append(out, args...)
}

func (l *ContextualLogger) Debug(msg string, args ...any) { Debug(msg, l.args(args)...) }
func (l *ContextualLogger) Info(msg string, args ...any)  { Info(msg, l.args(args)...) }
func (l *ContextualLogger) Warn(msg string, args ...any)  { Warn(msg, l.args(args)...) }
func (l *ContextualLogger) Error(msg string, args ...any) { Error(msg, l.args(args)...) }

// User-facing output, printed without level or attributes

var (
	successColor = color.New(color.FgGreen, color.Bold).SprintFunc()
	userWarn     = color.New(color.FgYellow).SprintFunc()
	userError    = color.New(color.FgRed, color.Bold).SprintFunc()
)

// UserInfof prints an informational line
func UserInfof(format string, args ...any) {
	fmt.Fprintf(consoleOut, "\r%s\n", fmt.Sprintf(format, args...))
}

// Successf prints a success line
func Successf(format string, args ...any) {
	fmt.Fprintf(consoleOut, "\r%s\n", successColor(fmt.Sprintf(format, args...)))
}

// UserWarnf prints a warning line
func UserWarnf(format string, args ...any) {
	fmt.Fprintf(consoleOut, "\r%s\n", userWarn(fmt.Sprintf(format, args...)))
}

// UserErrorf prints an error line to stderr
func UserErrorf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "\r%s\n", userError(fmt.Sprintf(format, args...)))
}

func init() {
	rebuild()
}
