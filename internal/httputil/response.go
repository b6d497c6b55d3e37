// Package httputil writes the JSON envelope every API response uses.
package httputil

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
)

var errTrailingData = errors.New("unexpected data after JSON body")

// Envelope is the uniform response body. Listings carry their status under
// "codigo"; every other response uses "código".
type Envelope struct {
	Data       any    `json:"dados,omitempty"`
	Message    string `json:"mensagem,omitempty"`
	Code       string `json:"código,omitempty"`
	LegacyCode string `json:"codigo,omitempty"`
}

// WriteJSON encodes v with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// Message writes {mensagem, código}.
func Message(w http.ResponseWriter, status int, message string) {
	WriteJSON(w, status, Envelope{Message: message, Code: strconv.Itoa(status)})
}

// Data writes {dados, mensagem, código}. An empty message is omitted.
func Data(w http.ResponseWriter, status int, data any, message string) {
	WriteJSON(w, status, Envelope{Data: data, Message: message, Code: strconv.Itoa(status)})
}

// Listing writes a non-empty index result.
func Listing(w http.ResponseWriter, data any) {
	WriteJSON(w, http.StatusOK, Envelope{Data: data, LegacyCode: strconv.Itoa(http.StatusOK)})
}

// Empty writes the index response for a table without rows: a message and no
// status code field.
func Empty(w http.ResponseWriter, message string) {
	WriteJSON(w, http.StatusOK, Envelope{Message: message})
}

// DecodeInput reads a JSON object body. Numbers are kept as json.Number so
// validation sees them as submitted. An empty body decodes to an empty map.
func DecodeInput(body io.Reader) (map[string]any, error) {
	dec := json.NewDecoder(body)
	dec.UseNumber()

	out := map[string]any{}
	if err := dec.Decode(&out); err != nil {
		if err == io.EOF {
			return map[string]any{}, nil
		}
		return nil, err
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, errTrailingData
	}
	if out == nil {
		out = map[string]any{}
	}
	return out, nil
}
