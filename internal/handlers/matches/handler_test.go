package matches

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/require"

	"gitlab.com/bughunt-2025.net/internal/core/services/match"
	"gitlab.com/bughunt-2025.net/internal/domain"
	"gitlab.com/bughunt-2025.net/internal/static/errs"
)

type nopLogger struct{}

func (nopLogger) Info(msg string, args ...interface{})  {}
func (nopLogger) Error(msg string, args ...interface{}) {}
func (nopLogger) Debug(msg string, args ...interface{}) {}
func (nopLogger) Warn(msg string, args ...interface{})  {}

// fakeMatchService scripts the service layer per test
type fakeMatchService struct {
	match     *domain.Match
	question  *domain.Question
	submitRes *match.SubmitResult
	err       error
}

func (f *fakeMatchService) CreateMatch(ctx context.Context, ownerID string, difficulty domain.Difficulty, timeLimitSeconds int) (*domain.Match, error) {
	return f.match, f.err
}

func (f *fakeMatchService) Join(ctx context.Context, matchID, playerID string) (*domain.Match, error) {
	return f.match, f.err
}

func (f *fakeMatchService) Start(ctx context.Context, matchID, playerID string) (*domain.Match, error) {
	return f.match, f.err
}

func (f *fakeMatchService) Submit(ctx context.Context, attempt match.SubmissionAttempt) (*match.SubmitResult, error) {
	return f.submitRes, f.err
}

func (f *fakeMatchService) Get(ctx context.Context, matchID string) (*domain.Match, error) {
	return f.match, f.err
}

func (f *fakeMatchService) GetQuestion(ctx context.Context, matchID string) (*domain.Question, error) {
	return f.question, f.err
}

func newRouter(svc match.IMatchService) *mux.Router {
	r := mux.NewRouter()
	NewMatchHandler(svc, nopLogger{}).RegisterRoutes(r)
	return r
}

func doJSON(t *testing.T, router *mux.Router, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	data, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(method, path, bytes.NewReader(data))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestCreateMatch(t *testing.T) {
	router := newRouter(&fakeMatchService{
		match: &domain.Match{ID: "m-1", Status: domain.MatchStatusWaiting},
	})

	rec := doJSON(t, router, http.MethodPost, "/api/matches", CreateMatchRequest{PlayerID: "alice", Difficulty: "easy"})
	require.Equal(t, http.StatusCreated, rec.Code)

	var m domain.Match
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &m))
	require.Equal(t, "m-1", m.ID)
	require.Equal(t, domain.MatchStatusWaiting, m.Status)
}

func TestSubmit_UnsupportedLanguage(t *testing.T) {
	router := newRouter(&fakeMatchService{})

	rec := doJSON(t, router, http.MethodPost, "/api/matches/m-1/submissions", SubmitRequest{PlayerID: "alice", Language: "brainfuck", Code: "x"})
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSubmit_ReturnsValidationOutcome(t *testing.T) {
	router := newRouter(&fakeMatchService{
		submitRes: &match.SubmitResult{
			Outcome:  &domain.ValidationOutcome{PassedCount: 1, TotalCount: 2, ScorePercent: 50},
			Accepted: false,
		},
	})

	rec := doJSON(t, router, http.MethodPost, "/api/matches/m-1/submissions", SubmitRequest{PlayerID: "alice", Language: "python", Code: "x"})
	require.Equal(t, http.StatusOK, rec.Code)

	var res match.SubmitResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	require.False(t, res.Accepted)
	require.Equal(t, 50, res.Outcome.ScorePercent)
}

func TestErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"match not found", errs.ErrMatchNotFound, http.StatusNotFound},
		{"not owner", errs.ErrNotMatchOwner, http.StatusForbidden},
		{"not waiting", errs.ErrMatchNotWaiting, http.StatusConflict},
		{"already joined", errs.ErrAlreadyJoined, http.StatusConflict},
		{"player done", errs.ErrPlayerAlreadyDone, http.StatusConflict},
		{"not enough players", errs.ErrNotEnoughPlayers, http.StatusConflict},
		{"queue full", errs.ErrQueueFull, http.StatusTooManyRequests},
		{"circuit open", errs.ErrCircuitOpen, http.StatusServiceUnavailable},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			router := newRouter(&fakeMatchService{err: tc.err})
			rec := doJSON(t, router, http.MethodPost, "/api/matches/m-1/join", JoinMatchRequest{PlayerID: "bob"})
			require.Equal(t, tc.wantStatus, rec.Code)
		})
	}
}

func TestGetMatch(t *testing.T) {
	router := newRouter(&fakeMatchService{
		match: &domain.Match{
			ID:     "m-1",
			Status: domain.MatchStatusCompleted,
			Ranking: []domain.RankingEntry{
				{Rank: 1, PlayerID: "alice", Score: 150},
				{Rank: 2, PlayerID: "bob", Score: 50},
			},
		},
	})

	req := httptest.NewRequest(http.MethodGet, "/api/matches/m-1", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var m domain.Match
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &m))
	require.Len(t, m.Ranking, 2)
	require.Equal(t, "alice", m.Ranking[0].PlayerID)
}

func TestGetQuestion(t *testing.T) {
	router := newRouter(&fakeMatchService{
		question: &domain.Question{ID: "q-1", Title: "Off by one"},
	})

	req := httptest.NewRequest(http.MethodGet, "/api/matches/m-1/question", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var q domain.Question
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &q))
	require.Equal(t, "q-1", q.ID)
}
