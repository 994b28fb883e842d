// package piston adapts the remote Piston compile-and-run service
package piston

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"gitlab.com/bughunt-2025.net/internal/config"
	"gitlab.com/bughunt-2025.net/internal/core/ports/primary"
	"gitlab.com/bughunt-2025.net/internal/core/ports/secondary"
	"gitlab.com/bughunt-2025.net/internal/domain"
	"gitlab.com/bughunt-2025.net/internal/static/errs"
)

var _ secondary.CodeGateway = (*Gateway)(nil)

// Gateway implements the CodeGateway interface against the Piston HTTP API
type Gateway struct {
	baseURL     string
	callTimeout time.Duration
	client      *http.Client
	logger      primary.Logger
}

// NewGateway creates a new Piston gateway
func NewGateway(cfg *config.PistonConfig, logger primary.Logger) *Gateway {
	return &Gateway{
		baseURL:     strings.TrimRight(cfg.BaseURL, "/"),
		callTimeout: cfg.CallTimeout,
		client: &http.Client{
			// Allow a little headroom over the per-call execution limit
			Timeout: cfg.CallTimeout + 2*time.Second,
		},
		logger: logger,
	}
}

type executePayload struct {
	Language       string        `json:"language"`
	Version        string        `json:"version"`
	Files          []payloadFile `json:"files"`
	Stdin          string        `json:"stdin"`
	CompileTimeout int64         `json:"compile_timeout"`
	RunTimeout     int64         `json:"run_timeout"`
}

type payloadFile struct {
	Name    string `json:"name"`
	Content string `json:"content"`
}

type stageResponse struct {
	Stdout string `json:"stdout"`
	Stderr string `json:"stderr"`
	Output string `json:"output"`
	Code   *int   `json:"code"`
}

type executeResponse struct {
	Compile *stageResponse `json:"compile"`
	Run     *stageResponse `json:"run"`
}

// Execute runs code remotely and normalizes the response. Compile errors,
// runtime errors and timeouts come back as outcome values; a non-nil
// error always means the service itself could not be reached properly.
func (g *Gateway) Execute(ctx context.Context, lang domain.Language, code string, stdin string) (*domain.ExecOutcome, error) {
	runtime, ok := domain.RuntimeFor(lang)
	if !ok {
		return nil, fmt.Errorf("%w: %s", errs.ErrUnsupportedLanguage, lang)
	}

	payload := executePayload{
		Language:       runtime.Name,
		Version:        runtime.Version,
		Files:          []payloadFile{{Name: runtime.FileName, Content: code}},
		Stdin:          stdin,
		CompileTimeout: g.callTimeout.Milliseconds(),
		RunTimeout:     g.callTimeout.Milliseconds(),
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal execute payload: %w", err)
	}

	callCtx, cancel := context.WithTimeout(ctx, g.callTimeout+2*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(callCtx, http.MethodPost, g.baseURL+"/execute", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build execute request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := g.client.Do(req)
	if err != nil {
		// The remote sandbox reports in-program timeouts itself; a client
		// deadline here means we never got an answer at all
		if callCtx.Err() == context.DeadlineExceeded {
			g.logger.Warn("Execution call timed out", "language", lang)
			return &domain.ExecOutcome{
				TimedOut:        true,
				ExecutionTimeMs: time.Since(start).Milliseconds(),
			}, nil
		}
		return nil, fmt.Errorf("failed to call execution service: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		g.logger.Error("Execution service returned error status",
			"status", resp.StatusCode,
			"body", string(data))
		return nil, fmt.Errorf("execution service returned status %d", resp.StatusCode)
	}

	var parsed executeResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("failed to decode execution response: %w", err)
	}

	outcome := classify(&parsed)
	outcome.ExecutionTimeMs = time.Since(start).Milliseconds()
	return outcome, nil
}

// classify maps the raw two-stage Piston response into exactly one
// outcome category
func classify(resp *executeResponse) *domain.ExecOutcome {
	outcome := &domain.ExecOutcome{}

	var compileOutput string
	if resp.Compile != nil {
		compileOutput = resp.Compile.Stdout
		outcome.CompileError = resp.Compile.Stderr
	}

	exitCode := 1
	if resp.Run != nil {
		outcome.Output = resp.Run.Stdout
		outcome.RuntimeError = resp.Run.Stderr
		if resp.Run.Code != nil {
			exitCode = *resp.Run.Code
		}

		// Java and C++ surface compiler diagnostics on run stderr when the
		// compile stage is folded into the run stage
		if outcome.RuntimeError != "" && looksLikeCompileError(outcome.RuntimeError) {
			outcome.CompileError = outcome.RuntimeError
			outcome.RuntimeError = ""
		}
	}

	outcome.Success = outcome.CompileError == "" && outcome.RuntimeError == "" && exitCode == 0
	if outcome.Output == "" {
		outcome.Output = compileOutput
	}
	return outcome
}

func looksLikeCompileError(stderr string) bool {
	lower := strings.ToLower(stderr)
	return strings.Contains(lower, "error:") || strings.Contains(lower, "compilation failed")
}
