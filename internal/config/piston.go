package config

import "time"

// PistonConfig points at the remote compile-and-run service
type PistonConfig struct {
	BaseURL     string
	CallTimeout time.Duration
}

func NewPistonConfig() *PistonConfig {
	return &PistonConfig{
		BaseURL:     getEnv("PISTON_BASE_URL", "https://emkc.org/api/v2/piston"),
		CallTimeout: time.Duration(getIntEnv("PISTON_CALL_TIMEOUT_SEC", 10)) * time.Second,
	}
}
