package respond

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

// ErrorBody is the shape of every non-2xx response.
type ErrorBody struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// JSON writes payload as the response body.
func JSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		slog.Error("respond: encode payload failed", "error", err)
	}
}

// Error writes an error response with the shared body structure.
func Error(w http.ResponseWriter, status int, message string) {
	JSON(w, status, ErrorBody{Code: status, Message: message})
}

// Message writes a bare {"message": ...} acknowledgement.
func Message(w http.ResponseWriter, status int, message string) {
	JSON(w, status, map[string]string{"message": message})
}
