// Package logging builds the logrus logger shared by all components.
package logging

import (
	"fmt"
	"io"
	"strings"

	"github.com/sirupsen/logrus"
)

// Formats accepted by New.
const (
	FormatText = "text"
	FormatJSON = "json"
)

// New creates a logger writing to w. level is one of debug, info, warn or
// error (case-insensitive, empty means info); verbose forces debug.
func New(level, format string, verbose bool, w io.Writer) (*logrus.Logger, error) {
	log := logrus.New()
	log.SetOutput(w)

	lvl := logrus.InfoLevel
	if level != "" {
		parsed, err := logrus.ParseLevel(strings.ToLower(level))
		if err != nil {
			return nil, fmt.Errorf("invalid log level %q: %w", level, err)
		}
		lvl = parsed
	}
	if verbose {
		lvl = logrus.DebugLevel
	}
	log.SetLevel(lvl)

	switch format {
	case "", FormatText:
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	case FormatJSON:
		log.SetFormatter(&logrus.JSONFormatter{})
	default:
		return nil, fmt.Errorf("invalid log format %q: must be %s or %s", format, FormatText, FormatJSON)
	}

	return log, nil
}

// Discard returns a logger that drops everything.
func Discard() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	log.SetLevel(logrus.PanicLevel)
	return log
}
