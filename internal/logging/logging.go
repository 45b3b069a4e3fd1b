// Package logging builds the structured logger shared by the charts packages.
package logging

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
)

// New returns a logger writing to w (stderr when nil) at the named level.
func New(level string, w io.Writer) (*log.Logger, error) {
	lvl := log.InfoLevel
	if level != "" {
		var err error
		lvl, err = log.ParseLevel(level)
		if err != nil {
			return nil, fmt.Errorf("invalid log level %q: %w", level, err)
		}
	}
	if w == nil {
		w = os.Stderr
	}
	return log.NewWithOptions(w, log.Options{
		Prefix:          "charts",
		Level:           lvl,
		ReportTimestamp: lvl == log.DebugLevel,
	}), nil
}

// Discard returns a logger that drops everything, for tests.
func Discard() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{Level: log.FatalLevel})
}
