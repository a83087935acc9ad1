package httputil

import (
	"net/http"

	"github.com/goccy/go-json"
)

// Result is the envelope every mutating endpoint answers with.
type Result struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
	Data    any    `json:"data,omitempty"`
}

func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteResult answers {"success": true} with optional data, or the error
// envelope when err is set.
func WriteResult(w http.ResponseWriter, r *http.Request, data any, err error) {
	if err != nil {
		WriteError(w, r, err)
		return
	}
	WriteJSON(w, http.StatusOK, Result{Success: true, Data: data})
}

// DecodeJSON reads the request body into v. The body is capped at 5 MiB.
func DecodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, 5<<20)
	return json.NewDecoder(r.Body).Decode(v)
}
