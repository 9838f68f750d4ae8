// Package logging builds the hclog loggers shared by a sandbox session and
// the loaders it drives. A session owns one root logger; every store, parser
// and allocator below it logs through a named component of that root.
package logging

import (
	"io"
	"os"
	"time"

	"github.com/hashicorp/go-hclog"
)

// Environment variables read when building a root logger.
const (
	LogLevelEnv = "SANDBOX_LOG_LEVEL"
	JSONLogEnv  = "SANDBOX_JSON_LOG"
)

// DefaultLevel applies when neither the caller nor the environment names one.
const DefaultLevel = hclog.Warn

// Prefix starts every text log line.
const Prefix = "📱 "

// Options selects how a root logger writes.
type Options struct {
	Name string
	// Level is a level name; empty falls back to LogLevelEnv.
	Level string
	// JSON is also switched on by JSONLogEnv=1.
	JSON   bool
	Output io.Writer
}

// New builds a root logger. Text output goes through a PrefixWriter so
// sandbox lines stay whole when a host tool shares the stream.
func New(opts Options) hclog.Logger {
	out := opts.Output
	if out == nil {
		out = os.Stderr
	}
	json := opts.JSON || os.Getenv(JSONLogEnv) == "1"
	if !json {
		out = NewPrefixWriter(Prefix, out)
	}

	return hclog.New(&hclog.LoggerOptions{
		Name:       opts.Name,
		Level:      ParseLevel(opts.Level),
		JSONFormat: json,
		Output:     out,
		TimeFormat: "2006-01-02T15:04:05Z",
		TimeFn: func() time.Time {
			return time.Now().UTC()
		},
	})
}

// ParseLevel resolves name, then LogLevelEnv, then DefaultLevel. Names hclog
// does not know count as unset.
func ParseLevel(name string) hclog.Level {
	for _, candidate := range []string{name, os.Getenv(LogLevelEnv)} {
		if level := hclog.LevelFromString(candidate); level != hclog.NoLevel {
			return level
		}
	}
	return DefaultLevel
}

// Component is the logger for one part of a session, named below parent.
// A nil parent yields a logger that discards everything.
func Component(parent hclog.Logger, name string) hclog.Logger {
	if parent == nil {
		return hclog.NewNullLogger()
	}
	return parent.Named(name)
}

// OrDiscard returns logger, or a discarding logger when it is nil.
func OrDiscard(logger hclog.Logger) hclog.Logger {
	if logger == nil {
		return hclog.NewNullLogger()
	}
	return logger
}
