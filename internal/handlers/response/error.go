package response

import (
	"encoding/json"
	"net/http"
)

// Well-known condition codes the UI can branch on; capacity and
// availability rejections are application-level signals, not opaque
// failures
const (
	CodeQueueBusy       = "QUEUE_BUSY"
	CodeServiceDegraded = "SERVICE_DEGRADED"
)

type ErrorMessage struct {
	Message    string `json:"message"`
	Code       string `json:"code,omitempty"`
	RetryAfter int    `json:"retryAfterSeconds,omitempty"`
	StatusCode int    `json:"status_code"`
}

func WriteError(w http.ResponseWriter, err ErrorMessage) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(err.StatusCode)
	_ = json.NewEncoder(w).Encode(err)
}

func WriteSuccess(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(data)
}

func WriteJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(data)
}
