// Package cli implements the rankorder command-line interface.
//
// This package provides commands for ordering layered graphs, counting
// their crossings, rendering ordered graphs, serving the HTTP API and
// managing the result cache. The CLI is built using cobra and logs with
// the charmbracelet/log library.
//
// # Commands
//
// The main commands are:
//   - order: Compute a low-crossing layering and write the result document
//   - crossings: Count the weighted crossings of a graph's current layering
//   - render: Order a graph and draw it as DOT, SVG or PNG
//   - serve: Run the HTTP API
//   - cache: Manage the result cache
//
// # Configuration
//
// Settings are read from $XDG_CONFIG_HOME/rankorder/config.toml or the file
// named by --config. Command-line flags override the file.
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging, which also
// logs every sweep of the ordering iterator.
package cli

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/rankorder/pkg/config"
)

// newLogger creates a new logger with timestamp formatting.
// Timestamps are formatted as "HH:MM:SS.ms" (e.g., "14:32:01.45").
func newLogger(w io.Writer, level log.Level, format string) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
		Formatter:       formatter(format),
	})
}

// formatter maps a configured log format to its charmbracelet formatter.
// Unknown formats fall back to text.
func formatter(format string) log.Formatter {
	switch format {
	case config.FormatJSON:
		return log.JSONFormatter
	case config.FormatLogfmt:
		return log.LogfmtFormatter
	default:
		return log.TextFormatter
	}
}

// progress tracks the start time of an operation and logs completion with elapsed duration.
// It is safe for sequential use by a single goroutine; concurrent calls to done will race.
type progress struct {
	logger *log.Logger
	start  time.Time
}

// newProgress creates a progress tracker that captures the current time as start.
func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg along with the elapsed time since progress was created.
// Example output: "Ordered 42 nodes (1.234s)"
func (p *progress) done(msg string) {
	p.logger.Infof("%s (%s)", msg, time.Since(p.start).Round(time.Millisecond))
}
