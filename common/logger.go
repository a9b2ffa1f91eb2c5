package common

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"i2cdecode/internal/dcd"
)

// Severity represents log message severity levels
type Severity int

const (
	SeverityDebug Severity = iota
	SeverityInfo
	SeverityWarning
	SeverityError
)

func (s Severity) String() string {
	switch s {
	case SeverityDebug:
		return "DEBUG"
	case SeverityInfo:
		return "INFO"
	case SeverityWarning:
		return "WARNING"
	case SeverityError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// ParseSeverity maps a command line level name onto a Severity.
func ParseSeverity(name string) (Severity, error) {
	switch name {
	case "debug", "DEBUG":
		return SeverityDebug, nil
	case "info", "INFO":
		return SeverityInfo, nil
	case "warn", "warning", "WARN", "WARNING":
		return SeverityWarning, nil
	case "error", "ERROR":
		return SeverityError, nil
	}
	return SeverityInfo, fmt.Errorf("unknown log level %q", name)
}

func (s Severity) slogLevel() slog.Level {
	switch s {
	case SeverityDebug:
		return slog.LevelDebug
	case SeverityWarning:
		return slog.LevelWarn
	case SeverityError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Logger interface defines the logging contract for the decoder
type Logger interface {
	// Log logs a message with the specified severity
	Log(severity Severity, msg string)

	// Logf logs a formatted message with the specified severity
	Logf(severity Severity, format string, args ...any)

	// Error logs an error
	Error(err error)

	// Debug logs a debug message
	Debug(msg string)

	// Info logs an info message
	Info(msg string)

	// Warning logs a warning message
	Warning(msg string)
}

// StdLogger implements the Logger interface on top of a slog handler.
type StdLogger struct {
	logger   *slog.Logger
	level    *slog.LevelVar
	minLevel Severity
}

// NewStdLogger creates a text logger writing to stderr.
func NewStdLogger(minLevel Severity) *StdLogger {
	return NewStdLoggerWithWriter(os.Stderr, minLevel)
}

// NewStdLoggerWithWriter creates a text logger writing to w.
func NewStdLoggerWithWriter(w io.Writer, minLevel Severity) *StdLogger {
	l := &StdLogger{level: new(slog.LevelVar)}
	l.logger = slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: l.level}))
	l.SetMinLevel(minLevel)
	return l
}

// NewJSONLogger creates a logger emitting one JSON object per record.
func NewJSONLogger(w io.Writer, minLevel Severity) *StdLogger {
	l := &StdLogger{level: new(slog.LevelVar)}
	l.logger = slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: l.level}))
	l.SetMinLevel(minLevel)
	return l
}

// SetMinLevel changes the filter level.
func (l *StdLogger) SetMinLevel(minLevel Severity) {
	l.minLevel = minLevel
	l.level.Set(minLevel.slogLevel())
}

// Slog returns the underlying structured logger.
func (l *StdLogger) Slog() *slog.Logger {
	return l.logger
}

// Log logs a message with the specified severity
func (l *StdLogger) Log(severity Severity, msg string) {
	if severity < l.minLevel {
		return
	}
	l.logger.Log(context.Background(), severity.slogLevel(), msg)
}

// Logf logs a formatted message with the specified severity
func (l *StdLogger) Logf(severity Severity, format string, args ...any) {
	if severity < l.minLevel {
		return
	}
	l.Log(severity, fmt.Sprintf(format, args...))
}

// Error logs an error
func (l *StdLogger) Error(err error) {
	if err != nil {
		l.Log(SeverityError, err.Error())
	}
}

// Debug logs a debug message
func (l *StdLogger) Debug(msg string) {
	l.Log(SeverityDebug, msg)
}

// Info logs an info message
func (l *StdLogger) Info(msg string) {
	l.Log(SeverityInfo, msg)
}

// Warning logs a warning message
func (l *StdLogger) Warning(msg string) {
	l.Log(SeverityWarning, msg)
}

// NoOpLogger is a logger that doesn't log anything
type NoOpLogger struct{}

// NewNoOpLogger creates a new no-op logger
func NewNoOpLogger() *NoOpLogger {
	return &NoOpLogger{}
}

// Log does nothing
func (l *NoOpLogger) Log(severity Severity, msg string) {}

// Logf does nothing
func (l *NoOpLogger) Logf(severity Severity, format string, args ...any) {}

// Error does nothing
func (l *NoOpLogger) Error(err error) {}

// Debug does nothing
func (l *NoOpLogger) Debug(msg string) {}

// Info does nothing
func (l *NoOpLogger) Info(msg string) {}

// Warning does nothing
func (l *NoOpLogger) Warning(msg string) {}

// LoggerErrorLog routes decode component messages into a Logger.
// It satisfies the error log attach point of every decode component.
type LoggerErrorLog struct {
	Logger Logger
}

// NewLoggerErrorLog wraps l for attachment to decode components.
func NewLoggerErrorLog(l Logger) *LoggerErrorLog {
	return &LoggerErrorLog{Logger: l}
}

func (e *LoggerErrorLog) LogError(filterLevel dcd.ErrSeverity, msg string) {
	e.Logger.Log(fromErrSeverity(filterLevel), msg)
}

func (e *LoggerErrorLog) LogMessage(filterLevel dcd.ErrSeverity, msg string) {
	e.Logger.Log(fromErrSeverity(filterLevel), msg)
}

// ErrSeverityFor returns the component verbosity that passes messages at s
// and above.
func ErrSeverityFor(s Severity) dcd.ErrSeverity {
	switch s {
	case SeverityDebug:
		return dcd.ErrSevDebug
	case SeverityInfo:
		return dcd.ErrSevInfo
	case SeverityWarning:
		return dcd.ErrSevWarn
	default:
		return dcd.ErrSevError
	}
}

func fromErrSeverity(sev dcd.ErrSeverity) Severity {
	switch sev {
	case dcd.ErrSevDebug:
		return SeverityDebug
	case dcd.ErrSevInfo:
		return SeverityInfo
	case dcd.ErrSevWarn:
		return SeverityWarning
	default:
		return SeverityError
	}
}
