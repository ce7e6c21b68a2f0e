// Package logging configures the process logger.
//
// Logs always go to stderr: stdout carries the MCP protocol stream.
package logging

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

// New returns a logger writing to stderr at level ("info" when level does not
// parse), formatted as JSON when asJSON is set.
func New(level string, asJSON bool) *logrus.Logger {
	return NewWithOutput(os.Stderr, level, asJSON)
}

// NewWithOutput is New with an explicit destination.
func NewWithOutput(w io.Writer, level string, asJSON bool) *logrus.Logger {
	l := logrus.New()
	l.SetOutput(w)

	if asJSON {
		l.SetFormatter(&logrus.JSONFormatter{})
	} else {
		l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true, DisableColors: true})
	}

	parsed, err := logrus.ParseLevel(level)
	if err != nil {
		parsed = logrus.InfoLevel
	}
	l.SetLevel(parsed)

	return l
}

// Discard returns a logger that drops everything. It is the server default
// when no logger is configured.
func Discard() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}
