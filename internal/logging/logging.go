// Package logging wraps logrus for the launch CLI and renders sequencer
// events as structured log lines.
package logging

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	lumberjack "gopkg.in/natefinch/lumberjack.v2"
)

// Log wraps logrus.Logger with an optional rotating file sink.
type Log struct {
	*logrus.Logger
	file io.Closer
}

// New builds a text logger on stdout. A non-empty file also receives every
// line through lumberjack rotation.
func New(level, file string) *Log {
	logger := logrus.New()
	logger.SetLevel(parseLevel(level))
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: time.RFC3339,
	})

	l := &Log{Logger: logger}
	if strings.TrimSpace(file) != "" {
		lj := &lumberjack.Logger{
			Filename:   file,
			MaxSize:    50, // MB
			MaxBackups: 5,
			MaxAge:     30, // days
		}
		logger.SetOutput(io.MultiWriter(os.Stdout, lj))
		l.file = lj
	}
	return l
}

func parseLevel(s string) logrus.Level {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return logrus.InfoLevel
	}
	if lvl, err := logrus.ParseLevel(s); err == nil {
		return lvl
	}
	return logrus.InfoLevel
}

func (l *Log) WithComponent(component string) *logrus.Entry {
	return l.Logger.WithField("component", component)
}

// Close flushes and closes the file sink, if any.
func (l *Log) Close() error {
	if l.file == nil {
		return nil
	}
	return l.file.Close()
}
