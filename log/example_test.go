package log_test

import (
	"context"
	"log/slog"
	"os"

	"github.com/ardnew/confxml/log"
)

func Example_basic() {
	logger := log.Make(os.Stderr)
	logger.Info("conversion started", slog.String("source", "app.conf"))
}

func Example_configuration() {
	logger := log.Make(os.Stderr,
		log.WithLevel(log.LevelDebug),
		log.WithFormat(log.FormatJSON),
		log.WithTimeLayout("RFC3339Nano"),
		log.WithCaller(true))

	logger.Debug("debug message with caller info")
}

func Example_withContext() {
	ctx := context.Background()

	logger := log.Make(os.Stderr, log.WithLevel(log.LevelTrace)).
		With(slog.String("component", "parser"))

	logger.TraceContext(ctx, "dictionary committed", slog.String("name", "SERVER"))
}
