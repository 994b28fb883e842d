package config

import "time"

// QuestionConfig locates the question content store
type QuestionConfig struct {
	JSONPath string
	CacheTTL time.Duration
}

func NewQuestionConfig() *QuestionConfig {
	return &QuestionConfig{
		JSONPath: getEnv("QUESTIONS_JSON_PATH", "data/bug_hunt_questions.json"),
		CacheTTL: time.Duration(getIntEnv("QUESTION_CACHE_TTL_SEC", 3600)) * time.Second,
	}
}
