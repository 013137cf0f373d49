// Package debug implements protocol tracing, enabled by setting
// $WAYLAND_DEBUG to a positive number.
package debug

import (
	"os"
	"strconv"

	"deedles.dev/wbg/internal/logger"
)

var enabled bool

func init() {
	debugLevel, err := strconv.ParseInt(os.Getenv("WAYLAND_DEBUG"), 10, 0)
	if err != nil {
		return
	}
	enabled = debugLevel > 0
}

// Enabled reports whether tracing is on. Callers can use it to avoid
// formatting messages that would be discarded.
func Enabled() bool {
	return enabled
}

// Printf writes a trace line regardless of the logger's level.
func Printf(str string, args ...any) {
	if enabled {
		logger.Logger.Printf(str, args...)
	}
}
