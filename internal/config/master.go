package config

import "os"

type AppConfig struct {
	DebugMode      bool
	HTTPPort       int
	ExecutionCfg   *ExecutionCfg
	MatchCfg       *MatchCfg
	PistonConfig   *PistonConfig
	QuestionConfig *QuestionConfig
	RedisConfig    *RedisConfig
	PostgresConfig *PostgresConfig
	JwtConfig      *JwtConfig
}

func NewSystemConfig() *AppConfig {
	return &AppConfig{
		DebugMode:      os.Getenv("DEBUG_MODE") == "true",
		HTTPPort:       getIntEnv("HTTP_PORT", 8082),
		ExecutionCfg:   NewExecutionCfg(),
		MatchCfg:       NewMatchCfg(),
		PistonConfig:   NewPistonConfig(),
		QuestionConfig: NewQuestionConfig(),
		RedisConfig:    NewRedisConfig(),
		PostgresConfig: NewPostgresConfig(),
		JwtConfig:      NewJwtConfig(),
	}
}
