package executions

// ExecuteRequest represents a request to run code ad hoc
type ExecuteRequest struct {
	MatchID  string `json:"matchId"`
	PlayerID string `json:"playerId"`
	Language string `json:"language"`
	Code     string `json:"code"`
	Stdin    string `json:"stdin"`
}

// ExecuteResponse acknowledges a queued execution
type ExecuteResponse struct {
	ExecutionID   string `json:"executionId"`
	QueuePosition int    `json:"queuePosition"`
}
