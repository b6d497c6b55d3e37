// Package logger provides the structured logger shared by every component of
// the sales layer. It is a thin wrapper around logrus.
package logger

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// LoggingConfig controls how a Logger is built.
type LoggingConfig struct {
	Level      string
	Format     string
	Output     string
	FilePrefix string
}

// Logger wraps logrus with service-specific helpers.
type Logger struct {
	*logrus.Logger
	service string
}

// New builds a logger from configuration. Unknown levels fall back to info and
// an unwritable file output falls back to stdout.
func New(cfg LoggingConfig) *Logger {
	l := logrus.New()

	level, err := logrus.ParseLevel(strings.TrimSpace(cfg.Level))
	if err != nil {
		level = logrus.InfoLevel
	}
	l.SetLevel(level)

	switch strings.ToLower(strings.TrimSpace(cfg.Format)) {
	case "text":
		l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true, TimestampFormat: time.RFC3339})
	default:
		l.SetFormatter(&logrus.JSONFormatter{TimestampFormat: time.RFC3339Nano})
	}

	l.SetOutput(openOutput(cfg))
	return &Logger{Logger: l, service: "sales_layer"}
}

// NewDefault returns an info-level JSON logger tagged with the component name.
func NewDefault(name string) *Logger {
	log := New(LoggingConfig{Level: "info", Format: "json", Output: "stdout"})
	log.service = name
	return log
}

// Named returns a logger sharing the same backend but tagged with another
// component name.
func (l *Logger) Named(name string) *Logger {
	return &Logger{Logger: l.Logger, service: name}
}

// Service reports the component name attached to entries.
func (l *Logger) Service() string {
	return l.service
}

// WithField starts an entry carrying the component name and one field.
func (l *Logger) WithField(key string, value interface{}) *logrus.Entry {
	return l.Logger.WithField("component", l.service).WithField(key, value)
}

// WithError starts an entry carrying the component name and an error.
func (l *Logger) WithError(err error) *logrus.Entry {
	return l.Logger.WithField("component", l.service).WithError(err)
}

// ForContext returns an entry enriched with the trace and user ids found in ctx.
func (l *Logger) ForContext(ctx context.Context) *logrus.Entry {
	entry := l.Logger.WithField("component", l.service)
	if id := TraceID(ctx); id != "" {
		entry = entry.WithField("trace_id", id)
	}
	if user := UserID(ctx); user != "" {
		entry = entry.WithField("user_id", user)
	}
	return entry
}

// LogRequest writes one access log line.
func (l *Logger) LogRequest(ctx context.Context, method, path string, status int, duration time.Duration) {
	entry := l.ForContext(ctx).WithFields(logrus.Fields{
		"method":      method,
		"path":        path,
		"status":      status,
		"duration_ms": duration.Milliseconds(),
	})
	switch {
	case status >= 500:
		entry.Error("request failed")
	case status >= 400:
		entry.Warn("request rejected")
	default:
		entry.Info("request completed")
	}
}

func openOutput(cfg LoggingConfig) io.Writer {
	switch strings.ToLower(strings.TrimSpace(cfg.Output)) {
	case "", "stdout":
		return os.Stdout
	case "stderr":
		return os.Stderr
	case "file":
		prefix := cfg.FilePrefix
		if prefix == "" {
			prefix = "sales_layer"
		}
		name := fmt.Sprintf("%s-%s.log", prefix, time.Now().UTC().Format("20060102"))
		f, err := os.OpenFile(name, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o640)
		if err != nil {
			return os.Stdout
		}
		return f
	default:
		return os.Stdout
	}
}

type ctxKey int

const (
	traceIDKey ctxKey = iota
	userIDKey
)

// NewTraceID generates a request trace id.
func NewTraceID() string {
	return uuid.NewString()
}

// WithTraceID stores a trace id in ctx.
func WithTraceID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, traceIDKey, id)
}

// TraceID returns the trace id stored in ctx, if any.
func TraceID(ctx context.Context) string {
	id, _ := ctx.Value(traceIDKey).(string)
	return id
}

// WithUserID stores the authenticated user id in ctx.
func WithUserID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, userIDKey, id)
}

// UserID returns the authenticated user id stored in ctx, if any.
func UserID(ctx context.Context) string {
	id, _ := ctx.Value(userIDKey).(string)
	return id
}
