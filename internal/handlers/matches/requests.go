package matches

// CreateMatchRequest creates a new match
type CreateMatchRequest struct {
	PlayerID         string `json:"playerId"`
	Difficulty       string `json:"difficulty"`
	TimeLimitSeconds int    `json:"timeLimitSeconds"`
}

// JoinMatchRequest adds a player to a waiting match
type JoinMatchRequest struct {
	PlayerID string `json:"playerId"`
}

// StartMatchRequest starts a waiting match
type StartMatchRequest struct {
	PlayerID string `json:"playerId"`
}

// SubmitRequest represents a scored submission attempt
type SubmitRequest struct {
	PlayerID    string `json:"playerId"`
	Language    string `json:"language"`
	Code        string `json:"code"`
	ForceSubmit bool   `json:"forceSubmit"`
}
