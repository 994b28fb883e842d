package executions

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"gitlab.com/bughunt-2025.net/internal/core/ports/primary"
	"gitlab.com/bughunt-2025.net/internal/core/services/execution"
	"gitlab.com/bughunt-2025.net/internal/domain"
	"gitlab.com/bughunt-2025.net/internal/handlers/response"
	"gitlab.com/bughunt-2025.net/internal/static/errs"
)

// ExecutionHandler handles ad-hoc code execution API requests
type ExecutionHandler struct {
	executionService execution.IExecutionService
	logger           primary.Logger
}

// NewExecutionHandler creates a new execution handler
func NewExecutionHandler(executionService execution.IExecutionService, logger primary.Logger) *ExecutionHandler {
	return &ExecutionHandler{
		executionService: executionService,
		logger:           logger,
	}
}

// RegisterRoutes registers the API routes for ExecutionHandler
func (h *ExecutionHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/api/executions", h.Execute).Methods("POST")
	router.HandleFunc("/api/executions/{executionId}", h.GetExecution).Methods("GET")
	router.HandleFunc("/api/queue/status", h.QueueStatus).Methods("GET")
}

// Execute enqueues code for execution and returns a pollable handle
func (h *ExecutionHandler) Execute(w http.ResponseWriter, r *http.Request) {
	var req ExecuteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Error("Failed to decode request", "error", err)
		response.WriteError(w, response.ErrorMessage{
			Message:    "Invalid request",
			StatusCode: http.StatusBadRequest,
		})
		return
	}

	lang, ok := domain.ParseLanguage(req.Language)
	if !ok {
		response.WriteError(w, response.ErrorMessage{
			Message:    "Unsupported language: " + req.Language,
			StatusCode: http.StatusBadRequest,
		})
		return
	}

	execReq := domain.NewExecutionRequest(req.MatchID, req.PlayerID, lang, req.Code, req.Stdin)
	position, err := h.executionService.Submit(r.Context(), execReq)
	if err != nil {
		h.writeExecutionError(w, err)
		return
	}

	response.WriteJSON(w, http.StatusAccepted, ExecuteResponse{
		ExecutionID:   execReq.ID.String(),
		QueuePosition: position,
	})
}

// GetExecution polls the result of a queued execution
func (h *ExecutionHandler) GetExecution(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	executionID, err := uuid.Parse(vars["executionId"])
	if err != nil {
		response.WriteError(w, response.ErrorMessage{
			Message:    "Invalid execution id",
			StatusCode: http.StatusBadRequest,
		})
		return
	}

	result, ok := h.executionService.Poll(executionID)
	if !ok {
		response.WriteError(w, response.ErrorMessage{
			Message:    errs.ErrExecutionNotFound.Error(),
			StatusCode: http.StatusNotFound,
		})
		return
	}

	response.WriteSuccess(w, result)
}

// QueueStatus exposes queue and breaker counters
func (h *ExecutionHandler) QueueStatus(w http.ResponseWriter, r *http.Request) {
	response.WriteSuccess(w, h.executionService.Status())
}

// writeExecutionError maps queue rejections onto distinct, retryable
// application-level conditions
func (h *ExecutionHandler) writeExecutionError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, errs.ErrQueueFull):
		response.WriteError(w, response.ErrorMessage{
			Message:    err.Error(),
			Code:       response.CodeQueueBusy,
			RetryAfter: 5,
			StatusCode: http.StatusTooManyRequests,
		})
	case errors.Is(err, errs.ErrCircuitOpen):
		response.WriteError(w, response.ErrorMessage{
			Message:    err.Error(),
			Code:       response.CodeServiceDegraded,
			RetryAfter: 30,
			StatusCode: http.StatusServiceUnavailable,
		})
	default:
		h.logger.Error("Failed to submit execution", "error", err)
		response.WriteError(w, response.ErrorMessage{
			Message:    "Failed to submit execution",
			StatusCode: http.StatusInternalServerError,
		})
	}
}
