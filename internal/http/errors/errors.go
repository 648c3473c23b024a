package errors

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
)

// JSON writes an API error body with the given status.
func JSON(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message})
}

// Internal logs the underlying error with the request id and returns a
// generic message to the client; the detail stays in the logs.
func Internal(w http.ResponseWriter, r *http.Request, err error, clientMessage string) {
	LogError(r, clientMessage, err)
	JSON(w, http.StatusInternalServerError, clientMessage)
}

func LogError(r *http.Request, message string, err error) {
	requestID := middleware.GetReqID(r.Context())

	if requestID != "" {
		log.Printf("[ERROR] RequestID=%s: %s: %v", requestID, message, err)
	} else {
		log.Printf("[ERROR] %s: %v", message, err)
	}
}

func LogWarn(r *http.Request, message string, err error) {
	requestID := middleware.GetReqID(r.Context())

	if requestID != "" {
		log.Printf("[WARN] RequestID=%s: %s: %v", requestID, message, err)
	} else {
		log.Printf("[WARN] %s: %v", message, err)
	}
}
