package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/bsv-blockchain/go-samplepay/pkg/defs"
)

const (
	ServiceKey = "service"
	ErrorKey   = "error"
)

// New builds a process logger writing to w with the given level and handler type.
func New(level defs.LogLevel, handler defs.LogHandler, w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: level.SlogLevel()}
	if handler == defs.JSONHandler {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// Child returns a new logger with the given service name added to the logger attrs.
func Child(logger *slog.Logger, serviceName string) *slog.Logger {
	return DefaultIfNil(logger).With(
		slog.String(ServiceKey, serviceName),
	)
}

func Error(err error) slog.Attr {
	return slog.String(ErrorKey, err.Error())
}

// Fatalf logs the error and exits the program.
func Fatalf(logger *slog.Logger, err error, format string, args ...any) {
	DefaultIfNil(logger).Error("Fatal error: "+fmt.Sprintf(format, args...), Error(err))
	os.Exit(1)
}

// DefaultIfNil returns the default logger if the given logger is nil.
func DefaultIfNil(logger *slog.Logger) *slog.Logger {
	if logger == nil {
		return slog.Default()
	}
	return logger
}

// Discard returns a logger that drops every record.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
