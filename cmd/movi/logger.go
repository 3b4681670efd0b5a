package main

import (
	"io"
	"log/slog"
	"os"

	"github.com/lmittmann/tint"
)

func newLogger(output io.Writer, debug bool) *slog.Logger {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	handler := tint.NewHandler(output, &tint.Options{
		Level:      level,
		TimeFormat: "2006-01-02 15:04:05.000Z07:00",
		NoColor:    os.Getenv("NO_COLOR") != "",
	})
	return slog.New(handler)
}
