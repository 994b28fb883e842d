package domain

// AuthPayload is the claim set carried by bearer tokens issued by the
// external auth collaborator. Only identity fields are trusted here;
// scoring never reads client-supplied progress.
type AuthPayload struct {
	PlayerID   string   `json:"playerId"`
	Username   string   `json:"username"`
	Permission []string `json:"permission"`
}
