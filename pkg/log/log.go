// Package log builds the structured logger shared by the shell process and
// every sandboxed child. Log events crossing the IPC boundary (SPEC_FULL.md
// §4.2, "log event") are rendered through the same logrus.Entry so that
// verbose/debug output looks identical whether it originated in the parent
// or was relayed from a child's stdout pump.
package log

import (
	"io"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
)

// NewLogger returns the session-wide logger. When debug is true (either via
// -d or DEBUG=TRUE) it appends structured JSON lines to
// <dataDir>/debug.log; otherwise all output is discarded (the level is set
// to Error, but the writer is io.Discard).
func NewLogger(dataDir, version string, debug bool) *logrus.Entry {
	var base *logrus.Logger
	if debug || os.Getenv("DEBUG") == "TRUE" {
		base = newDevelopmentLogger(dataDir)
	} else {
		base = newProductionLogger()
	}

	base.Formatter = &logrus.JSONFormatter{}

	return base.WithFields(logrus.Fields{
		"debug":   debug,
		"version": version,
	})
}

func levelFromEnv() logrus.Level {
	level, err := logrus.ParseLevel(os.Getenv("LOG_LEVEL"))
	if err != nil {
		return logrus.DebugLevel
	}
	return level
}

func newDevelopmentLogger(dataDir string) *logrus.Logger {
	l := logrus.New()
	l.SetLevel(levelFromEnv())

	file, err := os.OpenFile(filepath.Join(dataDir, "debug.log"), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		l.SetOutput(os.Stderr)
		return l
	}
	l.SetOutput(file)
	return l
}

func newProductionLogger() *logrus.Logger {
	l := logrus.New()
	l.Out = io.Discard
	l.SetLevel(logrus.ErrorLevel)
	return l
}

// Level maps the IPC log event's level string (spec §4.2: info/debug/warn/
// error/status) onto a logrus level. "status" has no logrus equivalent and
// is mapped to Info since it is advisory progress output, not a severity.
func Level(level string) logrus.Level {
	switch level {
	case "debug":
		return logrus.DebugLevel
	case "warn":
		return logrus.WarnLevel
	case "error":
		return logrus.ErrorLevel
	case "status", "info":
		fallthrough
	default:
		return logrus.InfoLevel
	}
}
