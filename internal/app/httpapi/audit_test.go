package httpapi

import (
	"bufio"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/tidwall/gjson"

	"github.com/conecteai/sales_layer/pkg/logger"
)

func TestAuditLogKeepsLatestEntries(t *testing.T) {
	audit, err := NewAuditLog(2, "")
	if err != nil {
		t.Fatalf("new audit log: %v", err)
	}
	for _, p := range []string{"/a", "/b", "/c"} {
		if err := audit.add(AuditEntry{Path: p}); err != nil {
			t.Fatalf("add: %v", err)
		}
	}

	entries := audit.List(0)
	if len(entries) != 2 || entries[0].Path != "/b" || entries[1].Path != "/c" {
		t.Fatalf("unexpected entries %+v", entries)
	}
	if last := audit.List(1); len(last) != 1 || last[0].Path != "/c" {
		t.Fatalf("unexpected limited entries %+v", last)
	}
}

func TestAuditMiddlewareSkipsReads(t *testing.T) {
	audit, err := NewAuditLog(10, "")
	if err != nil {
		t.Fatalf("new audit log: %v", err)
	}
	log := logger.New(logger.LoggingConfig{Level: "panic"})
	handler := audit.Middleware(log)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
		w.WriteHeader(http.StatusInternalServerError)
	}))

	for _, method := range []string{http.MethodGet, http.MethodDelete} {
		handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(method, "/api/orders/1", nil))
	}

	entries := audit.List(0)
	if len(entries) != 1 {
		t.Fatalf("expected one audited request, got %+v", entries)
	}
	if entries[0].Method != http.MethodDelete || entries[0].Status != http.StatusNoContent {
		t.Fatalf("unexpected entry %+v", entries[0])
	}
}

func TestAuditLogFileSink(t *testing.T) {
	path := filepath.Join(t.TempDir(), "audit.jsonl")
	audit, err := NewAuditLog(10, path)
	if err != nil {
		t.Fatalf("new audit log: %v", err)
	}
	if err := audit.add(AuditEntry{Path: "/api/products", Method: http.MethodPost, Status: http.StatusCreated}); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := audit.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open audit file: %v", err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	if !scanner.Scan() {
		t.Fatalf("audit file is empty")
	}
	line := scanner.Text()
	if gjson.Get(line, "path").String() != "/api/products" || gjson.Get(line, "status").Int() != http.StatusCreated {
		t.Fatalf("unexpected audit line %s", line)
	}
}

func TestAuditLogCloseNil(t *testing.T) {
	var audit *AuditLog
	if err := audit.Close(); err != nil {
		t.Fatalf("nil close: %v", err)
	}
}

func TestNewAuditLogBadPath(t *testing.T) {
	if _, err := NewAuditLog(10, filepath.Join(t.TempDir(), "missing", "audit.jsonl")); err == nil {
		t.Fatalf("expected error for unwritable path")
	}
}
