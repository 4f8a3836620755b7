// Package logging builds the gommon loggers used across the service.  Echo
// logs through the same type, so request logs and component logs share one
// format.
package logging

import (
	"io"
	"os"
	"strings"

	"github.com/labstack/gommon/log"
)

// Header is the gommon header template used for every component logger.
const Header = `{"time":"${time_rfc3339}","level":"${level}","prefix":"${prefix}"}`

// New returns a logger that writes JSON lines to stdout with the given
// prefix.  level is one of debug, info, warn, error, off; anything else
// means info.
func New(prefix, level string) *log.Logger {
	l := log.New(prefix)
	l.SetHeader(Header)
	l.SetOutput(os.Stdout)
	l.SetLevel(ParseLevel(level))
	return l
}

// ParseLevel maps a LOG_LEVEL value to a gommon level.
func ParseLevel(s string) log.Lvl {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return log.DEBUG
	case "warn", "warning":
		return log.WARN
	case "error":
		return log.ERROR
	case "off", "none":
		return log.OFF
	default:
		return log.INFO
	}
}

// Discard returns a silent logger for tests.
func Discard() *log.Logger {
	l := log.New("test")
	l.SetOutput(io.Discard)
	l.SetLevel(log.OFF)
	return l
}
