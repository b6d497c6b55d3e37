package httputil

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/tidwall/gjson"
)

func TestMessageEnvelope(t *testing.T) {
	rec := httptest.NewRecorder()
	Message(rec, http.StatusNotFound, "Cliente não encontrado.")

	if rec.Code != http.StatusNotFound {
		t.Fatalf("unexpected status %d", rec.Code)
	}
	body := rec.Body.String()
	if got := gjson.Get(body, "mensagem").String(); got != "Cliente não encontrado." {
		t.Fatalf("unexpected message %q", got)
	}
	if got := gjson.Get(body, "código").String(); got != "404" {
		t.Fatalf("unexpected code %q in %s", got, body)
	}
	if gjson.Get(body, "dados").Exists() || gjson.Get(body, "codigo").Exists() {
		t.Fatalf("unexpected keys in %s", body)
	}
}

func TestListingUsesLegacyCode(t *testing.T) {
	rec := httptest.NewRecorder()
	Listing(rec, []int{1, 2})

	body := rec.Body.String()
	if gjson.Get(body, "codigo").String() != "200" || gjson.Get(body, "código").Exists() {
		t.Fatalf("unexpected listing envelope %s", body)
	}
	if n := len(gjson.Get(body, "dados").Array()); n != 2 {
		t.Fatalf("expected 2 items, got %d", n)
	}
}

func TestEmptyHasOnlyMessage(t *testing.T) {
	rec := httptest.NewRecorder()
	Empty(rec, "Não há clientes cadastrados.")

	var raw map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &raw); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(raw) != 1 || raw["mensagem"] != "Não há clientes cadastrados." {
		t.Fatalf("unexpected body %v", raw)
	}
}

func TestDecodeInput(t *testing.T) {
	in, err := DecodeInput(strings.NewReader(`{"price": 10.50, "name": "x"}`))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if n, ok := in["price"].(json.Number); !ok || n.String() != "10.50" {
		t.Fatalf("expected json.Number, got %#v", in["price"])
	}

	in, err = DecodeInput(strings.NewReader(""))
	if err != nil || len(in) != 0 {
		t.Fatalf("empty body: %v %v", in, err)
	}

	if _, err := DecodeInput(strings.NewReader(`[1,2]`)); err == nil {
		t.Fatalf("expected error for array body")
	}
	if _, err := DecodeInput(strings.NewReader(`{"a":`)); err == nil {
		t.Fatalf("expected error for truncated body")
	}
	if _, err := DecodeInput(strings.NewReader(`{"name":"x"} garbage`)); err == nil {
		t.Fatalf("expected error for trailing data")
	}
	if _, err := DecodeInput(strings.NewReader(`{"name":"x"}{"name":"y"}`)); err == nil {
		t.Fatalf("expected error for a second document")
	}
	if in, err := DecodeInput(strings.NewReader("{\"name\":\"x\"}\n")); err != nil || in["name"] != "x" {
		t.Fatalf("trailing newline: %v %v", in, err)
	}
}
