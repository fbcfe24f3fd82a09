package logger

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"
)

// LogLevel type
type LogLevel int

// Log levels, ordered from the most verbose
const (
	DEBUG LogLevel = iota
	INFO
	WARNING
	ERROR
)

// ParseLogLevel parses a string into a LogLevel
func ParseLogLevel(level string) LogLevel {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return DEBUG
	case "info":
		return INFO
	case "warning", "warn":
		return WARNING
	case "error":
		return ERROR
	default:
		return INFO
	}
}

func (l LogLevel) zerologLevel() zerolog.Level {
	switch l {
	case DEBUG:
		return zerolog.DebugLevel
	case WARNING:
		return zerolog.WarnLevel
	case ERROR:
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

// Logger struct
type Logger struct {
	logger   zerolog.Logger
	logLevel LogLevel
}

// NewLogger creates a new logger writing human readable lines to stdout
func NewLogger(level string) *Logger {
	return newWithWriter(level, zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339})
}

// NewFileLogger writes to stdout and, in JSON, to a rotated log file
func NewFileLogger(level, filename string) *Logger {
	if filename == "" {
		return NewLogger(level)
	}

	rotated := &lumberjack.Logger{
		Filename:   filename,
		MaxSize:    64,
		MaxBackups: 7,
		MaxAge:     7,
	}

	out := zerolog.MultiLevelWriter(
		zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339},
		rotated,
	)
	return newWithWriter(level, out)
}

func newWithWriter(level string, w io.Writer) *Logger {
	logLevel := ParseLogLevel(level)
	return &Logger{
		logger:   zerolog.New(w).Level(logLevel.zerologLevel()).With().Timestamp().Logger(),
		logLevel: logLevel,
	}
}

// Level returns the configured level
func (l *Logger) Level() LogLevel {
	return l.logLevel
}

// Info logs an info message
func (l *Logger) Info(msg string) {
	l.logger.Info().Msg(msg)
}

// Warning logs a warning message
func (l *Logger) Warning(msg string) {
	l.logger.Warn().Msg(msg)
}

// Debug logs a debug message
func (l *Logger) Debug(msg string) {
	l.logger.Debug().Msg(msg)
}

// Error logs an error message
func (l *Logger) Error(msg string) {
	l.logger.Error().Msg(msg)
}

// Err logs an error message together with the error that caused it
func (l *Logger) Err(err error, msg string) {
	l.logger.Error().Err(err).Msg(msg)
}
