package web

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

// envelope is the {success, message} shape every API answer shares.
type envelope map[string]any

// writeJSON writes v as JSON with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Warn("response_encode_failed", "error", err)
	}
}

// ok writes {success:true, message} plus any extra fields.
func ok(w http.ResponseWriter, message string, extra envelope) {
	body := envelope{"success": true}
	if message != "" {
		body["message"] = message
	}
	for k, v := range extra {
		body[k] = v
	}
	writeJSON(w, http.StatusOK, body)
}

// fail writes {success:false, message} with the given status.
func fail(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, envelope{"success": false, "message": message})
}

// internalError logs the real error and returns a generic message to the client.
func internalError(w http.ResponseWriter, r *http.Request, err error) {
	slog.Error("internal_error", "method", r.Method, "path", r.URL.Path, "error", err.Error())
	fail(w, http.StatusInternalServerError, "internal server error")
}

// maxJSONBody caps every JSON request body.
const maxJSONBody = 1 << 20

// decode reads a JSON body. Unknown fields are ignored.
func decode(w http.ResponseWriter, r *http.Request, v any) error {
	return json.NewDecoder(http.MaxBytesReader(w, r.Body, maxJSONBody)).Decode(v)
}
