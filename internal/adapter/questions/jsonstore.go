// package questions loads bug hunt questions from a local JSON file
package questions

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"os"
	"sync"

	"gitlab.com/bughunt-2025.net/internal/core/ports/primary"
	"gitlab.com/bughunt-2025.net/internal/core/ports/secondary"
	"gitlab.com/bughunt-2025.net/internal/domain"
	"gitlab.com/bughunt-2025.net/internal/static/errs"
)

var _ secondary.QuestionStore = (*JSONStore)(nil)

// JSONStore serves questions from a JSON file pre-loaded into memory,
// bucketed by difficulty
type JSONStore struct {
	path   string
	logger primary.Logger

	mu      sync.RWMutex
	buckets map[domain.Difficulty][]*domain.Question
	byID    map[string]*domain.Question
	loaded  bool
}

// NewJSONStore creates a new JSON-backed question store
func NewJSONStore(path string, logger primary.Logger) *JSONStore {
	return &JSONStore{
		path:   path,
		logger: logger,
	}
}

// Preload reads every question from the JSON file; called once on startup
func (s *JSONStore) Preload() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.loaded {
		return nil
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		return fmt.Errorf("failed to read questions file: %w", err)
	}

	var parsed map[domain.Difficulty][]*domain.Question
	if err := json.Unmarshal(data, &parsed); err != nil {
		return fmt.Errorf("failed to parse questions file: %w", err)
	}

	s.buckets = make(map[domain.Difficulty][]*domain.Question)
	s.byID = make(map[string]*domain.Question)
	total := 0
	for difficulty, qs := range parsed {
		for _, q := range qs {
			q.Difficulty = difficulty
			s.buckets[difficulty] = append(s.buckets[difficulty], q)
			s.byID[q.ID] = q
			total++
		}
	}

	s.loaded = true
	s.logger.Info("Questions pre-loaded", "total", total, "path", s.path)
	return nil
}

// GetQuestion retrieves a question by ID
func (s *JSONStore) GetQuestion(ctx context.Context, questionID string) (*domain.Question, error) {
	if err := s.ensureLoaded(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	q, ok := s.byID[questionID]
	if !ok {
		return nil, errs.ErrQuestionNotFound
	}
	return q, nil
}

// PickQuestion selects a random question of the given difficulty,
// skipping excluded IDs
func (s *JSONStore) PickQuestion(ctx context.Context, difficulty domain.Difficulty, excludeIDs []string) (*domain.Question, error) {
	if err := s.ensureLoaded(); err != nil {
		return nil, err
	}

	excluded := make(map[string]bool, len(excludeIDs))
	for _, id := range excludeIDs {
		excluded[id] = true
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	var available []*domain.Question
	for _, q := range s.buckets[difficulty] {
		if !excluded[q.ID] {
			available = append(available, q)
		}
	}
	if len(available) == 0 {
		s.logger.Warn("No questions available", "difficulty", difficulty)
		return nil, errs.ErrQuestionNotFound
	}

	q := available[rand.Intn(len(available))]
	s.logger.Debug("Selected question", "questionId", q.ID, "difficulty", difficulty)
	return q, nil
}

func (s *JSONStore) ensureLoaded() error {
	s.mu.RLock()
	loaded := s.loaded
	s.mu.RUnlock()
	if loaded {
		return nil
	}
	return s.Preload()
}
