package logger

import (
	"io"
	"log/slog"
	"os"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Load returns the process logger. With a file path the log is rotated on
// disk so the interactive session stays readable on stdout.
func Load(logFile string) *slog.Logger {
	var w io.Writer = os.Stdout
	if logFile != "" {
		w = &lumberjack.Logger{
			Filename:   logFile,
			MaxSize:    10, // megabytes
			MaxBackups: 3,
		}
	}
	opts := &slog.HandlerOptions{}
	return slog.New(slog.NewTextHandler(w, opts))
}
