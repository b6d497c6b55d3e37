package httpapi

import (
	"encoding/json"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/conecteai/sales_layer/internal/middleware"
	"github.com/conecteai/sales_layer/pkg/logger"
)

// AuditEntry records one mutating request.
type AuditEntry struct {
	Time       time.Time `json:"time"`
	User       string    `json:"user,omitempty"`
	TraceID    string    `json:"trace_id,omitempty"`
	Path       string    `json:"path"`
	Method     string    `json:"method"`
	Status     int       `json:"status"`
	DurationMS int64     `json:"duration_ms"`
	RemoteAddr string    `json:"remote_addr,omitempty"`
	UserAgent  string    `json:"user_agent,omitempty"`
}

// AuditLog keeps the latest entries in memory and optionally appends every
// entry to a JSONL file.
type AuditLog struct {
	mu      sync.Mutex
	entries []AuditEntry
	max     int
	sink    auditSink
	now     func() time.Time
}

type auditSink interface {
	Write(entry AuditEntry) error
	Close() error
}

// NewAuditLog keeps up to max entries. A non-empty path also persists them.
func NewAuditLog(max int, path string) (*AuditLog, error) {
	if max <= 0 {
		max = 200
	}
	l := &AuditLog{max: max, now: time.Now}
	if path != "" {
		sink, err := newFileAuditSink(path)
		if err != nil {
			return nil, err
		}
		l.sink = sink
	}
	return l, nil
}

func (l *AuditLog) add(entry AuditEntry) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, entry)
	if len(l.entries) > l.max {
		l.entries = l.entries[len(l.entries)-l.max:]
	}
	if l.sink != nil {
		return l.sink.Write(entry)
	}
	return nil
}

// List returns the retained entries, oldest first, capped at limit.
func (l *AuditLog) List(limit int) []AuditEntry {
	l.mu.Lock()
	defer l.mu.Unlock()
	if limit <= 0 || limit > len(l.entries) {
		limit = len(l.entries)
	}
	out := make([]AuditEntry, limit)
	copy(out, l.entries[len(l.entries)-limit:])
	return out
}

// Close releases the file sink, if any.
func (l *AuditLog) Close() error {
	if l == nil || l.sink == nil {
		return nil
	}
	return l.sink.Close()
}

// Middleware records POST, PUT and DELETE requests after they complete.
func (l *AuditLog) Middleware(log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch r.Method {
			case http.MethodPost, http.MethodPut, http.MethodDelete:
			default:
				next.ServeHTTP(w, r)
				return
			}

			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			start := l.now()
			next.ServeHTTP(rec, r)

			entry := AuditEntry{
				Time:       start.UTC(),
				User:       middleware.GetUserID(r.Context()),
				TraceID:    logger.TraceID(r.Context()),
				Path:       r.URL.Path,
				Method:     r.Method,
				Status:     rec.status,
				DurationMS: l.now().Sub(start).Milliseconds(),
				RemoteAddr: r.RemoteAddr,
				UserAgent:  r.UserAgent(),
			}
			// Persistence is best effort and never changes the response.
			if err := l.add(entry); err != nil {
				log.ForContext(r.Context()).WithError(err).Warn("write audit entry")
			}
		})
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status      int
	wroteHeader bool
}

func (s *statusRecorder) WriteHeader(code int) {
	if s.wroteHeader {
		return
	}
	s.status = code
	s.wroteHeader = true
	s.ResponseWriter.WriteHeader(code)
}

func (s *statusRecorder) Write(b []byte) (int, error) {
	s.wroteHeader = true
	return s.ResponseWriter.Write(b)
}

// fileAuditSink appends audit entries as JSONL.
type fileAuditSink struct {
	mu   sync.Mutex
	file *os.File
}

func newFileAuditSink(path string) (*fileAuditSink, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o640)
	if err != nil {
		return nil, err
	}
	return &fileAuditSink{file: f}, nil
}

func (s *fileAuditSink) Write(entry AuditEntry) error {
	b, err := json.Marshal(entry)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err = s.file.Write(append(b, '\n'))
	return err
}

func (s *fileAuditSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.file.Close()
}
