package piston

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"gitlab.com/bughunt-2025.net/internal/config"
	"gitlab.com/bughunt-2025.net/internal/domain"
	"gitlab.com/bughunt-2025.net/internal/static/errs"
)

type nopLogger struct{}

func (nopLogger) Info(msg string, args ...interface{})  {}
func (nopLogger) Error(msg string, args ...interface{}) {}
func (nopLogger) Debug(msg string, args ...interface{}) {}
func (nopLogger) Warn(msg string, args ...interface{})  {}

func newTestGateway(t *testing.T, handler http.HandlerFunc) *Gateway {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewGateway(&config.PistonConfig{BaseURL: srv.URL, CallTimeout: 2 * time.Second}, nopLogger{})
}

func respond(t *testing.T, w http.ResponseWriter, resp executeResponse) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	require.NoError(t, json.NewEncoder(w).Encode(resp))
}

func intp(v int) *int { return &v }

func TestExecute_Success(t *testing.T) {
	var captured executePayload
	gw := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/execute", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
		respond(t, w, executeResponse{
			Run: &stageResponse{Stdout: "15\n", Code: intp(0)},
		})
	})

	outcome, err := gw.Execute(context.Background(), domain.LanguagePython, "print(sum(range(6)))", "5")
	require.NoError(t, err)
	require.True(t, outcome.Success)
	require.Equal(t, "15\n", outcome.Output)

	require.Equal(t, "python", captured.Language)
	require.Equal(t, "3.10.0", captured.Version)
	require.Len(t, captured.Files, 1)
	require.Equal(t, "main.py", captured.Files[0].Name)
	require.Equal(t, "5", captured.Stdin)
}

func TestExecute_CompileStageError(t *testing.T) {
	gw := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		respond(t, w, executeResponse{
			Compile: &stageResponse{Stderr: "main.cpp:3:5: error: expected ';' before 'return'"},
			Run:     &stageResponse{Code: intp(1)},
		})
	})

	outcome, err := gw.Execute(context.Background(), domain.LanguageCpp, "int main() { return 0 }", "")
	require.NoError(t, err)
	require.False(t, outcome.Success)
	require.Contains(t, outcome.CompileError, "expected ';'")
}

func TestExecute_RunStderrReclassifiedAsCompileError(t *testing.T) {
	// Some runtimes fold compilation into the run stage and surface
	// compiler diagnostics on run stderr
	gw := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		respond(t, w, executeResponse{
			Run: &stageResponse{
				Stderr: "Main.java:4: error: ';' expected\n1 error\ncompilation failed",
				Code:   intp(1),
			},
		})
	})

	outcome, err := gw.Execute(context.Background(), domain.LanguageJava, "class Main {}", "")
	require.NoError(t, err)
	require.False(t, outcome.Success)
	require.Contains(t, outcome.CompileError, "';' expected")
	require.Empty(t, outcome.RuntimeError)
}

func TestExecute_RuntimeError(t *testing.T) {
	gw := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		respond(t, w, executeResponse{
			Run: &stageResponse{
				Stderr: "Traceback (most recent call last):\nZeroDivisionError: division by zero",
				Code:   intp(1),
			},
		})
	})

	outcome, err := gw.Execute(context.Background(), domain.LanguagePython, "1/0", "")
	require.NoError(t, err)
	require.False(t, outcome.Success)
	require.Contains(t, outcome.RuntimeError, "ZeroDivisionError")
	require.Empty(t, outcome.CompileError)
}

func TestExecute_NonZeroExitWithoutStderr(t *testing.T) {
	gw := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		respond(t, w, executeResponse{
			Run: &stageResponse{Stdout: "partial", Code: intp(137)},
		})
	})

	outcome, err := gw.Execute(context.Background(), domain.LanguagePython, "code", "")
	require.NoError(t, err)
	require.False(t, outcome.Success)
	require.Equal(t, "partial", outcome.Output)
}

func TestExecute_ServerErrorIsTransportFault(t *testing.T) {
	gw := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "internal error", http.StatusInternalServerError)
	})

	_, err := gw.Execute(context.Background(), domain.LanguagePython, "code", "")
	require.Error(t, err)
	require.Contains(t, err.Error(), "status 500")
}

func TestExecute_MalformedResponseIsTransportFault(t *testing.T) {
	gw := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("not json"))
	})

	_, err := gw.Execute(context.Background(), domain.LanguagePython, "code", "")
	require.Error(t, err)
}

func TestExecute_UnreachableServiceIsTransportFault(t *testing.T) {
	gw := NewGateway(&config.PistonConfig{
		BaseURL:     "http://127.0.0.1:1",
		CallTimeout: time.Second,
	}, nopLogger{})

	_, err := gw.Execute(context.Background(), domain.LanguagePython, "code", "")
	require.Error(t, err)
}

func TestExecute_UnsupportedLanguage(t *testing.T) {
	gw := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("gateway must not be called for unsupported languages")
	})

	_, err := gw.Execute(context.Background(), domain.Language("cobol"), "code", "")
	require.ErrorIs(t, err, errs.ErrUnsupportedLanguage)
}

func TestClassify_CompileStdoutFallback(t *testing.T) {
	outcome := classify(&executeResponse{
		Compile: &stageResponse{Stdout: "warnings only"},
		Run:     &stageResponse{Code: intp(0)},
	})
	require.True(t, outcome.Success)
	require.Equal(t, "warnings only", outcome.Output)
}
