// Package logging configures structured, component-scoped logging for wsmgr.
package logging

import (
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// Config controls the global logger's level and output format.
type Config struct {
	Level  string `toml:"level"`
	Format string `toml:"format"` // "text" or "json"
	Output io.Writer
}

var root = logrus.New()

// Init configures the package-level logger. Safe to call more than once
// (e.g. after a config reload).
func Init(cfg Config) {
	lvl, err := logrus.ParseLevel(strings.ToLower(cfg.Level))
	if err != nil {
		lvl = logrus.InfoLevel
	}
	root.SetLevel(lvl)

	if cfg.Output != nil {
		root.SetOutput(cfg.Output)
	} else {
		root.SetOutput(os.Stderr)
	}

	switch strings.ToLower(cfg.Format) {
	case "json":
		root.SetFormatter(&logrus.JSONFormatter{})
	default:
		isTTY := false
		if f, ok := root.Out.(*os.File); ok {
			info, statErr := f.Stat()
			isTTY = statErr == nil && (info.Mode()&os.ModeCharDevice) != 0
		}
		root.SetFormatter(&logrus.TextFormatter{
			DisableTimestamp: !isTTY,
			FullTimestamp:    true,
		})
	}
}

// For returns a component-scoped logger, e.g. logging.For("claude-observer").
func For(component string) *logrus.Entry {
	return root.WithField("component", component)
}

// Root exposes the underlying logger for callers that need it directly
// (tests asserting on captured output, for instance).
func Root() *logrus.Logger {
	return root
}

func init() {
	Init(Config{Level: "info", Format: "text"})
}
