// Package memory keeps experiences in process memory. It backs local runs
// without a Supabase project and the handler tests.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"interview-tayari/internal/domain"

	"github.com/google/uuid"
)

type experienceRepo struct {
	mu    sync.RWMutex
	rows  []domain.InterviewExperience
	clock func() time.Time
}

func NewExperienceRepository(seed ...domain.InterviewExperience) domain.ExperienceRepository {
	return &experienceRepo{
		rows:  append([]domain.InterviewExperience(nil), seed...),
		clock: time.Now,
	}
}

func (r *experienceRepo) Insert(ctx context.Context, exp *domain.InterviewExperience) (*domain.InterviewExperience, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored := *exp
	stored.ID = uuid.NewString()
	stored.Questions = append([]string(nil), exp.Questions...)
	stored.CreatedAt = r.clock().UTC()
	stored.UpdatedAt = stored.CreatedAt
	r.rows = append(r.rows, stored)

	out := stored
	return &out, nil
}

func (r *experienceRepo) List(ctx context.Context, filter domain.ExperienceFilter) ([]domain.InterviewExperience, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	company := strings.ToLower(strings.TrimSpace(filter.Company))
	out := []domain.InterviewExperience{}
	for _, row := range r.rows {
		if company != "" && !strings.Contains(strings.ToLower(row.Company), company) {
			continue
		}
		if filter.ExperienceYears != "" && (row.ExperienceYears == nil || *row.ExperienceYears != filter.ExperienceYears) {
			continue
		}
		if filter.UserID != "" && row.UserID != filter.UserID {
			continue
		}
		out = append(out, row)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}
