package session

import (
	"context"
	"sync"

	"interview-tayari/internal/domain"
)

// DraftStore keeps the open submission form of each browser in memory.
// Drafts carry file bytes, so they are never written to Redis.
type DraftStore struct {
	mu     sync.Mutex
	drafts map[string]*domain.Draft
}

func NewDraftStore() *DraftStore {
	return &DraftStore{drafts: make(map[string]*domain.Draft)}
}

// Get returns a copy of the draft for sessionID, or a new draft.
func (s *DraftStore) Get(_ context.Context, sessionID string) (*domain.Draft, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	d, ok := s.drafts[sessionID]
	if !ok {
		return domain.NewDraft(), nil
	}
	return cloneDraft(d), nil
}

func (s *DraftStore) Save(_ context.Context, sessionID string, draft *domain.Draft) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.drafts[sessionID] = cloneDraft(draft)
	return nil
}

func (s *DraftStore) Delete(_ context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.drafts, sessionID)
	return nil
}

func cloneDraft(d *domain.Draft) *domain.Draft {
	out := *d
	out.Questions = append([]domain.QuestionDraft(nil), d.Questions...)
	return &out
}
