// Package logging builds the slog handler used by the CLI.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/lmittmann/tint"
	"github.com/mattn/go-isatty"
)

// Output formats.
const (
	FormatText = "text"
	FormatJSON = "json"
)

// Options selects the level and format of a logger.
type Options struct {
	Level  string // debug, info, warn, error
	Format string // text or json
}

// ParseLevel converts a level name to a slog.Level.
func ParseLevel(v string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(v))); err != nil {
		return slog.LevelInfo, fmt.Errorf("invalid log level %q: %w", v, err)
	}

	return level, nil
}

// New returns a logger writing to w. Text output is colored only when w is a
// terminal.
func New(w io.Writer, opts Options) (*slog.Logger, error) {
	level := slog.LevelInfo
	if opts.Level != "" {
		var err error
		if level, err = ParseLevel(opts.Level); err != nil {
			return nil, err
		}
	}

	switch strings.ToLower(opts.Format) {
	case FormatJSON:
		return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level})), nil
	case FormatText, "":
		return slog.New(tint.NewHandler(w, &tint.Options{
			Level:   level,
			NoColor: !isTerminal(w),
		})), nil
	default:
		return nil, fmt.Errorf("invalid log format %q: must be %s or %s", opts.Format, FormatText, FormatJSON)
	}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}

	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
