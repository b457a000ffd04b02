package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
)

type Logger interface {
	Info(action, message, requestID string, details map[string]interface{})
	Debug(action, message, requestID string, details map[string]interface{})
	Error(action, message, requestID string, details map[string]interface{}, err error)
}

type jsonLogger struct {
	l *slog.Logger
}

// New returns a JSON-lines logger on stdout tagged with the service name and hostname.
func New(service string) Logger {
	return NewWithWriter(service, os.Stdout, slog.LevelDebug)
}

func NewWithWriter(service string, w io.Writer, level slog.Level) Logger {
	hostname, _ := os.Hostname()
	handler := slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level: level,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if len(groups) == 0 && a.Key == slog.TimeKey {
				a.Key = "timestamp"
				a.Value = slog.StringValue(a.Value.Time().UTC().Format("2006-01-02T15:04:05.000000000Z07:00"))
			}
			return a
		},
	})

	return &jsonLogger{
		l: slog.New(handler).With("service", service, "hostname", hostname),
	}
}

// Nop discards everything. Used by tests.
func Nop() Logger {
	return NewWithWriter("nop", io.Discard, slog.LevelError+1)
}

func (l *jsonLogger) Info(action, message, requestID string, details map[string]interface{}) {
	l.log(slog.LevelInfo, action, message, requestID, details, nil)
}

func (l *jsonLogger) Debug(action, message, requestID string, details map[string]interface{}) {
	l.log(slog.LevelDebug, action, message, requestID, details, nil)
}

func (l *jsonLogger) Error(action, message, requestID string, details map[string]interface{}, err error) {
	l.log(slog.LevelError, action, message, requestID, details, err)
}

func (l *jsonLogger) log(level slog.Level, action, message, requestID string, details map[string]interface{}, err error) {
	attrs := []slog.Attr{
		slog.String("action", action),
		slog.String("request_id", requestID),
	}
	if len(details) > 0 {
		attrs = append(attrs, slog.Any("details", details))
	}
	if err != nil {
		attrs = append(attrs, slog.Group("error", slog.String("msg", err.Error())))
	}

	l.l.LogAttrs(context.Background(), level, message, attrs...)
}
