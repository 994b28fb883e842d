package matches

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"gitlab.com/bughunt-2025.net/internal/core/ports/primary"
	"gitlab.com/bughunt-2025.net/internal/core/services/match"
	"gitlab.com/bughunt-2025.net/internal/domain"
	"gitlab.com/bughunt-2025.net/internal/handlers/response"
	"gitlab.com/bughunt-2025.net/internal/static/errs"
)

// MatchHandler handles match lifecycle API requests
type MatchHandler struct {
	matchService match.IMatchService
	logger       primary.Logger
}

// NewMatchHandler creates a new match handler
func NewMatchHandler(matchService match.IMatchService, logger primary.Logger) *MatchHandler {
	return &MatchHandler{
		matchService: matchService,
		logger:       logger,
	}
}

// RegisterRoutes registers the API routes for MatchHandler
func (h *MatchHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/api/matches", h.CreateMatch).Methods("POST")
	router.HandleFunc("/api/matches/{matchId}", h.GetMatch).Methods("GET")
	router.HandleFunc("/api/matches/{matchId}/join", h.JoinMatch).Methods("POST")
	router.HandleFunc("/api/matches/{matchId}/start", h.StartMatch).Methods("POST")
	router.HandleFunc("/api/matches/{matchId}/question", h.GetQuestion).Methods("GET")
	router.HandleFunc("/api/matches/{matchId}/submissions", h.Submit).Methods("POST")
}

// CreateMatch creates a match and auto-joins the owner
func (h *MatchHandler) CreateMatch(w http.ResponseWriter, r *http.Request) {
	var req CreateMatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Error("Failed to decode request", "error", err)
		h.writeMatchError(w, errBadRequest)
		return
	}

	difficulty := domain.Difficulty(req.Difficulty)
	if difficulty == "" {
		difficulty = domain.DifficultyEasy
	}

	m, err := h.matchService.CreateMatch(r.Context(), req.PlayerID, difficulty, req.TimeLimitSeconds)
	if err != nil {
		h.writeMatchError(w, err)
		return
	}

	response.WriteJSON(w, http.StatusCreated, m)
}

// GetMatch returns a snapshot of the match; clients poll this for
// convergence on the final state
func (h *MatchHandler) GetMatch(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	m, err := h.matchService.Get(r.Context(), vars["matchId"])
	if err != nil {
		h.writeMatchError(w, err)
		return
	}

	response.WriteSuccess(w, m)
}

// JoinMatch adds a player to a waiting match
func (h *MatchHandler) JoinMatch(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	var req JoinMatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeMatchError(w, errBadRequest)
		return
	}

	m, err := h.matchService.Join(r.Context(), vars["matchId"], req.PlayerID)
	if err != nil {
		h.writeMatchError(w, err)
		return
	}

	response.WriteSuccess(w, m)
}

// StartMatch activates a waiting match
func (h *MatchHandler) StartMatch(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	var req StartMatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeMatchError(w, errBadRequest)
		return
	}

	m, err := h.matchService.Start(r.Context(), vars["matchId"], req.PlayerID)
	if err != nil {
		h.writeMatchError(w, err)
		return
	}

	response.WriteSuccess(w, m)
}

// GetQuestion returns the question the match is played on
func (h *MatchHandler) GetQuestion(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	question, err := h.matchService.GetQuestion(r.Context(), vars["matchId"])
	if err != nil {
		h.writeMatchError(w, err)
		return
	}

	response.WriteSuccess(w, question)
}

// Submit validates a scored submission attempt
func (h *MatchHandler) Submit(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	var req SubmitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeMatchError(w, errBadRequest)
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

	result, err := h.matchService.Submit(r.Context(), match.SubmissionAttempt{
		MatchID:  vars["matchId"],
		PlayerID: req.PlayerID,
		Language: lang,
		Code:     req.Code,
		Force:    req.ForceSubmit,
	})
	if err != nil {
		h.writeMatchError(w, err)
		return
	}

	response.WriteSuccess(w, result)
}

var errBadRequest = errors.New("invalid request")

// writeMatchError maps service errors onto HTTP conditions the client
// can act on; capacity and availability rejections stay distinguishable
// from gameplay conflicts
func (h *MatchHandler) writeMatchError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, errBadRequest):
		response.WriteError(w, response.ErrorMessage{
			Message:    errBadRequest.Error(),
			StatusCode: http.StatusBadRequest,
		})
	case errors.Is(err, errs.ErrMatchNotFound), errors.Is(err, errs.ErrQuestionNotFound):
		response.WriteError(w, response.ErrorMessage{
			Message:    err.Error(),
			StatusCode: http.StatusNotFound,
		})
	case errors.Is(err, errs.ErrNotMatchOwner):
		response.WriteError(w, response.ErrorMessage{
			Message:    err.Error(),
			StatusCode: http.StatusForbidden,
		})
	case errors.Is(err, errs.ErrMatchNotWaiting),
		errors.Is(err, errs.ErrMatchNotActive),
		errors.Is(err, errs.ErrMatchCompleted),
		errors.Is(err, errs.ErrAlreadyJoined),
		errors.Is(err, errs.ErrPlayerNotInMatch),
		errors.Is(err, errs.ErrPlayerAlreadyDone),
		errors.Is(err, errs.ErrNotEnoughPlayers),
		errors.Is(err, errs.ErrVariantNotFound):
		response.WriteError(w, response.ErrorMessage{
			Message:    err.Error(),
			StatusCode: http.StatusConflict,
		})
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
		h.logger.Error("Match request failed", "error", err)
		response.WriteError(w, response.ErrorMessage{
			Message:    "Internal error",
			StatusCode: http.StatusInternalServerError,
		})
	}
}
