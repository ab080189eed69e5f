package log

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

var (
	mu sync.Mutex
)

// Init initializes the global logger.
// It configures the default slog logger to write to the specified path (or w)
// at the specified level, and returns a function that releases the log file.
//
// w: Fallback sink used when path is empty. Nil means stderr.
// path: Log file path, opened for appending. Parent directories are created.
// level: Log level ("debug", "info", "warn", "error"). Defaults to "info".
func Init(w io.Writer, path string, level string) (func() error, error) {
	mu.Lock()
	defer mu.Unlock()

	closer := func() error { return nil }
	if w == nil {
		w = os.Stderr
	}
	if path != "" {
		dir := filepath.Dir(path)
		if dir != "." && dir != "" {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return closer, err
			}
		}

		f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			return closer, err
		}
		w = f
		closer = f.Close
	}

	opts := &slog.HandlerOptions{
		Level: ParseLevel(level),
	}

	handler := slog.NewTextHandler(w, opts)
	slog.SetDefault(slog.New(handler))
	return closer, nil
}

// ParseLevel maps a level name to a slog.Level, falling back to info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
