package cli

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
)

func newLogger(w io.Writer, level string) (*slog.Logger, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(strings.TrimSpace(level))); err != nil {
		return nil, fmt.Errorf("invalid --log-level %q: %w", level, err)
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: lvl})), nil
}

// loggerFor tolerates commands invoked without the root pre-run, as tests do.
func loggerFor(root *rootOptions) *slog.Logger {
	if root != nil && root.logger != nil {
		return root.logger
	}
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
