package config

// MatchCfg holds match lifecycle defaults
type MatchCfg struct {
	MinPlayers              int
	DefaultTimeLimitSeconds int
	MaxTimeBonus            int
}

func NewMatchCfg() *MatchCfg {
	return &MatchCfg{
		MinPlayers:              getIntEnv("MATCH_MIN_PLAYERS", 2),
		DefaultTimeLimitSeconds: getIntEnv("MATCH_TIME_LIMIT_SEC", 600),
		MaxTimeBonus:            getIntEnv("MATCH_MAX_TIME_BONUS", 50),
	}
}
