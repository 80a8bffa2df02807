package engine

import "github.com/rs/zerolog"

// Logger provides verbose output for engine decisions during a match attempt.
type Logger struct {
	enabled bool
	zl      zerolog.Logger
}

// NewZerologLogger wraps an existing zerolog logger. A disabled zerolog logger
// yields a disabled Logger.
func NewZerologLogger(zl zerolog.Logger) *Logger {
	return &Logger{
		enabled: zl.GetLevel() != zerolog.Disabled,
		zl:      zl,
	}
}

// Log prints a formatted message if verbose mode is enabled.
func (l *Logger) Log(format string, args ...interface{}) {
	if l.Enabled() {
		l.zl.Debug().Msgf(format, args...)
	}
}

// Enabled returns whether the logger is enabled.
func (l *Logger) Enabled() bool {
	return l != nil && l.enabled
}
