// Package logger owns the process-wide logger.
package logger

import (
	"os"
	"strings"

	"github.com/charmbracelet/log"
)

var Logger *log.Logger

func init() {
	Logger = log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
	})

	level, ok := ParseLevel(os.Getenv("LOG_LEVEL"))
	if !ok {
		level = log.InfoLevel
	}
	Logger.SetLevel(level)
}

// ParseLevel parses a level name case-insensitively. "warning" is
// accepted as an alias for "warn".
func ParseLevel(v string) (log.Level, bool) {
	switch strings.ToUpper(strings.TrimSpace(v)) {
	case "DEBUG":
		return log.DebugLevel, true
	case "INFO":
		return log.InfoLevel, true
	case "WARN", "WARNING":
		return log.WarnLevel, true
	case "ERROR":
		return log.ErrorLevel, true
	case "FATAL":
		return log.FatalLevel, true
	default:
		return log.InfoLevel, false
	}
}

// SetLevel sets the process logger's level from a level name. Unknown
// names leave the level unchanged and report false.
func SetLevel(v string) bool {
	level, ok := ParseLevel(v)
	if ok {
		Logger.SetLevel(level)
	}
	return ok
}
