// Package logging configures Logrus for the ontoqa binaries: level, text or
// JSON output, and UTC timestamps with subsecond precision.
package logging

import (
	"fmt"
	"io"
	"strings"

	"github.com/sirupsen/logrus"
)

// Options control the logger. The zero value logs warnings and above as text
// to the logger's current output.
type Options struct {
	// Level is a logrus level name such as "debug" or "warn". Empty means warn.
	Level string

	// Format is "text" or "json". Empty means text.
	Format string

	// If not nil, log output goes here.
	Out io.Writer

	// If not nil, this will set up the given logger. If nil, it will set up the
	// default Logrus logger (see logrus.StandardLogger()).
	Logger *logrus.Logger
}

// Configure sets up the logger. It's safe to call more than once; hooks from a
// previous call are replaced.
func Configure(opts Options) error {
	if opts.Logger == nil {
		opts.Logger = logrus.StandardLogger()
	}

	level := logrus.WarnLevel
	if opts.Level != "" {
		parsed, err := logrus.ParseLevel(opts.Level)
		if err != nil {
			return fmt.Errorf("invalid log level: %w", err)
		}
		level = parsed
	}

	var formatter logrus.Formatter
	switch strings.ToLower(opts.Format) {
	case "", "text":
		formatter = &logrus.TextFormatter{
			FullTimestamp:             true,
			TimestampFormat:           "2006-01-02 15:04:05.000000 MST",
			EnvironmentOverrideColors: true,
		}
	case "json":
		formatter = &logrus.JSONFormatter{
			TimestampFormat: "2006-01-02T15:04:05.000000Z07:00",
		}
	default:
		return fmt.Errorf("unknown log format %q", opts.Format)
	}

	if opts.Out != nil {
		opts.Logger.SetOutput(opts.Out)
	}
	opts.Logger.SetLevel(level)
	opts.Logger.SetFormatter(formatter)
	opts.Logger.ReplaceHooks(make(logrus.LevelHooks))
	opts.Logger.AddHook(utcHook{})
	opts.Logger.WithFields(logrus.Fields{
		"level":  level.String(),
		"format": opts.Format,
	}).Debug("Initialized Logrus")
	return nil
}

// utcHook implements logrus.Hook. It converts the timestamp to UTC.
type utcHook struct{}

func (utcHook) Levels() []logrus.Level {
	return logrus.AllLevels
}

func (utcHook) Fire(entry *logrus.Entry) error {
	entry.Time = entry.Time.UTC()
	return nil
}
