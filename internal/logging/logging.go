package logging

import (
	"fmt"
	"log/slog"
	"os"

	slogmulti "github.com/samber/slog-multi"
)

// Init sets up the process-wide logger and makes it the slog default.
// Dev: text at debug level. Prod: JSON at info level. When logFile is
// set, records are fanned out to stdout and the file.
//
// The returned closer flushes and closes the file sink; the caller owns
// it and runs it at shutdown.
func Init(isDev bool, logFile string) (func() error, error) {
	level := slog.LevelInfo
	if isDev {
		level = slog.LevelDebug
	}
	opts := &slog.HandlerOptions{Level: level}

	newHandler := func(w *os.File) slog.Handler {
		if isDev {
			return slog.NewTextHandler(w, opts)
		}
		return slog.NewJSONHandler(w, opts)
	}

	handlers := []slog.Handler{newHandler(os.Stdout)}
	closer := func() error { return nil }

	if logFile != "" {
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
		if err != nil {
			return nil, fmt.Errorf("open log file: %w", err)
		}
		handlers = append(handlers, newHandler(f))
		closer = f.Close
	}

	var handler slog.Handler
	if len(handlers) > 1 {
		handler = slogmulti.Fanout(handlers...)
	} else {
		handler = handlers[0]
	}

	slog.SetDefault(slog.New(handler))
	return closer, nil
}
