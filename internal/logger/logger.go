package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/mattn/go-isatty"
)

// Level represents log severity
type Level string

const (
	LevelDebug Level = "DEBUG"
	LevelInfo  Level = "INFO"
	LevelWarn  Level = "WARN"
	LevelError Level = "ERROR"
)

// Format selects the record encoding
type Format string

const (
	FormatAuto Format = "auto"
	FormatJSON Format = "json"
	FormatText Format = "text"
)

// Fields represents structured log fields
type Fields map[string]interface{}

// Logger provides structured logging
type Logger struct {
	minLevel Level
	slog     *slog.Logger
}

var defaultLogger = New(LevelInfo, os.Stderr)

// ParseLevel maps a config value such as "debug" to a Level. Unknown values
// fall back to LevelInfo.
func ParseLevel(value string) Level {
	switch Level(strings.ToUpper(strings.TrimSpace(value))) {
	case LevelDebug:
		return LevelDebug
	case LevelWarn, "WARNING":
		return LevelWarn
	case LevelError:
		return LevelError
	default:
		return LevelInfo
	}
}

// New creates a logger writing to output with automatic format selection.
// Messages below the minimum level are discarded.
func New(level Level, output io.Writer) *Logger {
	return NewWithFormat(level, FormatAuto, output)
}

// NewWithFormat creates a logger with an explicit record format
func NewWithFormat(level Level, format Format, output io.Writer) *Logger {
	opts := &slog.HandlerOptions{Level: toSlogLevel(level)}

	var handler slog.Handler
	if resolveFormat(format, output) == FormatText {
		handler = slog.NewTextHandler(output, opts)
	} else {
		handler = slog.NewJSONHandler(output, opts)
	}

	return &Logger{
		minLevel: level,
		slog:     slog.New(handler),
	}
}

func resolveFormat(format Format, output io.Writer) Format {
	if format != FormatAuto && format != "" {
		return format
	}
	if f, ok := output.(*os.File); ok && isatty.IsTerminal(f.Fd()) {
		return FormatText
	}
	return FormatJSON
}

func toSlogLevel(level Level) slog.Level {
	switch level {
	case LevelDebug:
		return slog.LevelDebug
	case LevelWarn:
		return slog.LevelWarn
	case LevelError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// SetDefault replaces the logger returned by Default. A nil logger is ignored.
func SetDefault(logger *Logger) {
	if logger != nil {
		defaultLogger = logger
	}
}

// Default returns the process-wide logger used when no logger is injected
func Default() *Logger {
	return defaultLogger
}

// With returns a logger that adds fields to every record
func (l *Logger) With(fields Fields) *Logger {
	return &Logger{
		minLevel: l.minLevel,
		slog:     l.slog.With(attrs(fields)...),
	}
}

// Enabled reports whether records at level are emitted
func (l *Logger) Enabled(level Level) bool {
	return l.slog.Enabled(context.Background(), toSlogLevel(level))
}

func (l *Logger) log(level Level, message string, fields Fields, err error) {
	args := attrs(fields)
	if err != nil {
		args = append(args, slog.String("error", err.Error()))
	}
	l.slog.Log(context.Background(), toSlogLevel(level), message, args...)
}

// attrs converts fields to slog attributes in key order
func attrs(fields Fields) []any {
	if len(fields) == 0 {
		return nil
	}
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]any, 0, len(keys))
	for _, k := range keys {
		out = append(out, slog.Any(k, fields[k]))
	}
	return out
}

// Debug logs detailed diagnostic information.
func (l *Logger) Debug(message string, fields Fields) {
	l.log(LevelDebug, message, fields, nil)
}

// Info logs general operational information.
func (l *Logger) Info(message string, fields Fields) {
	l.log(LevelInfo, message, fields, nil)
}

// Warn logs a potential issue that does not stop the run.
func (l *Logger) Warn(message string, fields Fields) {
	l.log(LevelWarn, message, fields, nil)
}

// Error logs a failure along with its error.
func (l *Logger) Error(message string, fields Fields, err error) {
	l.log(LevelError, message, fields, err)
}

// Metrics tracks counters and timings for a run. Safe for concurrent use.
type Metrics struct {
	mu       sync.Mutex
	counters map[string]int64
	timings  map[string]time.Duration
}

// NewMetrics creates an empty metrics tracker
func NewMetrics() *Metrics {
	return &Metrics{
		counters: make(map[string]int64),
		timings:  make(map[string]time.Duration),
	}
}

// AddCounter adds delta to a counter, creating it at zero if needed.
func (m *Metrics) AddCounter(name string, delta int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counters[name] += delta
}

// IncrCounter increments a counter by 1
func (m *Metrics) IncrCounter(name string) {
	m.AddCounter(name, 1)
}

// RecordTiming records how long a stage took. A repeated name accumulates.
func (m *Metrics) RecordTiming(name string, duration time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.timings[name] += duration
}

// Time runs fn and records its duration under name
func (m *Metrics) Time(name string, fn func() error) error {
	start := time.Now()
	err := fn()
	m.RecordTiming(name, time.Since(start))
	return err
}

// Fields flattens the metrics into log fields: counters by name and timings
// as "<name>_ms".
func (m *Metrics) Fields() Fields {
	m.mu.Lock()
	defer m.mu.Unlock()

	fields := make(Fields, len(m.counters)+len(m.timings))
	for k, v := range m.counters {
		fields[k] = v
	}
	for k, v := range m.timings {
		fields[k+"_ms"] = v.Milliseconds()
	}
	return fields
}
