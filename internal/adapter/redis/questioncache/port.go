package questioncache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"gitlab.com/bughunt-2025.net/internal/core/ports/primary"
	"gitlab.com/bughunt-2025.net/internal/core/ports/secondary"
	"gitlab.com/bughunt-2025.net/internal/domain"
)

const questionKeyPrefix = "bug_hunt_question:"

var _ secondary.QuestionStore = (*CachedStore)(nil)

// CachedStore decorates a QuestionStore with Redis caching of individual
// questions. Cache failures degrade to the underlying store; they are
// logged, never surfaced.
type CachedStore struct {
	inner       secondary.QuestionStore
	redisClient *redis.Client
	ttl         time.Duration
	logger      primary.Logger
}

// NewCachedStore creates a new Redis-backed question cache
func NewCachedStore(inner secondary.QuestionStore, redisClient *redis.Client, ttl time.Duration, logger primary.Logger) *CachedStore {
	return &CachedStore{
		inner:       inner,
		redisClient: redisClient,
		ttl:         ttl,
		logger:      logger,
	}
}

// GetQuestion retrieves a question, trying Redis before the inner store
func (c *CachedStore) GetQuestion(ctx context.Context, questionID string) (*domain.Question, error) {
	key := fmt.Sprintf("%s%s", questionKeyPrefix, questionID)
	cached, err := c.redisClient.Get(ctx, key).Bytes()
	if err == nil {
		var question domain.Question
		if err := json.Unmarshal(cached, &question); err == nil {
			return &question, nil
		}
		c.logger.Warn("Failed to unmarshal cached question", "questionId", questionID)
	} else if err != redis.Nil {
		c.logger.Warn("Failed to read question cache", "questionId", questionID, "error", err)
	}

	question, err := c.inner.GetQuestion(ctx, questionID)
	if err != nil {
		return nil, err
	}

	c.cache(ctx, key, question)
	return question, nil
}

// PickQuestion delegates selection to the inner store and caches the pick
func (c *CachedStore) PickQuestion(ctx context.Context, difficulty domain.Difficulty, excludeIDs []string) (*domain.Question, error) {
	question, err := c.inner.PickQuestion(ctx, difficulty, excludeIDs)
	if err != nil {
		return nil, err
	}

	c.cache(ctx, fmt.Sprintf("%s%s", questionKeyPrefix, question.ID), question)
	return question, nil
}

func (c *CachedStore) cache(ctx context.Context, key string, question *domain.Question) {
	questionJSON, err := json.Marshal(question)
	if err != nil {
		c.logger.Warn("Failed to marshal question for cache", "error", err)
		return
	}
	if err := c.redisClient.Set(ctx, key, questionJSON, c.ttl).Err(); err != nil {
		c.logger.Warn("Failed to cache question", "error", err)
	}
}
