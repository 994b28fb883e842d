package config

import "time"

// ExecutionCfg bounds the execution queue and its fault handling
type ExecutionCfg struct {
	WorkerCount      int
	BacklogCapacity  int
	MaxRetries       int
	RetryBaseBackoff time.Duration
	ResultTTL        time.Duration
	FailureThreshold int
	RecoveryTimeout  time.Duration
}

func NewExecutionCfg() *ExecutionCfg {
	return &ExecutionCfg{
		WorkerCount:      getIntEnv("EXEC_WORKER_COUNT", 5),
		BacklogCapacity:  getIntEnv("EXEC_BACKLOG_CAPACITY", 50),
		MaxRetries:       getIntEnv("EXEC_MAX_RETRIES", 2),
		RetryBaseBackoff: time.Duration(getIntEnv("EXEC_RETRY_BACKOFF_MS", 1000)) * time.Millisecond,
		ResultTTL:        time.Duration(getIntEnv("EXEC_RESULT_TTL_SEC", 300)) * time.Second,
		FailureThreshold: getIntEnv("EXEC_BREAKER_FAILURE_THRESHOLD", 5),
		RecoveryTimeout:  time.Duration(getIntEnv("EXEC_BREAKER_RECOVERY_SEC", 60)) * time.Second,
	}
}
