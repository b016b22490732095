package supabase

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"interview-tayari/internal/domain"
	"interview-tayari/pkg/apperror"
	sb "interview-tayari/pkg/supabase"
)

const experiencesTable = "experiences"

type experienceRepo struct {
	client *sb.Client
}

func NewExperienceRepository(client *sb.Client) domain.ExperienceRepository {
	return &experienceRepo{client: client}
}

// insertRow leaves id and timestamps to the database.
type insertRow struct {
	Name             string             `json:"name"`
	Country          string             `json:"country"`
	Company          string             `json:"company"`
	Questions        []string           `json:"questions"`
	UserID           string             `json:"user_id"`
	ExperienceYears  *string            `json:"experience_years,omitempty"`
	CTC              *string            `json:"ctc,omitempty"`
	Verified         *bool              `json:"verified,omitempty"`
	Difficulty       *domain.Difficulty `json:"difficulty,omitempty"`
	VerificationPath *string            `json:"verification_path,omitempty"`
}

func (r *experienceRepo) Insert(ctx context.Context, exp *domain.InterviewExperience) (*domain.InterviewExperience, error) {
	row := insertRow{
		Name:             exp.Name,
		Country:          exp.Country,
		Company:          exp.Company,
		Questions:        exp.Questions,
		UserID:           exp.UserID,
		ExperienceYears:  exp.ExperienceYears,
		CTC:              exp.CTC,
		Verified:         exp.Verified,
		Difficulty:       exp.Difficulty,
		VerificationPath: exp.VerificationPath,
	}

	var stored []domain.InterviewExperience
	err := r.client.From(experiencesTable).
		WithToken(domain.AccessTokenFrom(ctx)).
		Insert(ctx, row, &stored)
	if err != nil {
		return nil, mapError(err)
	}
	if len(stored) == 0 {
		// RLS may hide the inserted row from the representation
		copied := *exp
		copied.CreatedAt = time.Now().UTC()
		copied.UpdatedAt = copied.CreatedAt
		return &copied, nil
	}
	return &stored[0], nil
}

func (r *experienceRepo) List(ctx context.Context, filter domain.ExperienceFilter) ([]domain.InterviewExperience, error) {
	query := r.client.From(experiencesTable).
		WithToken(domain.AccessTokenFrom(ctx)).
		Select("*")
	if c := strings.TrimSpace(filter.Company); c != "" {
		query.ILike("company", c)
	}
	if filter.ExperienceYears != "" {
		query.Eq("experience_years", filter.ExperienceYears)
	}
	if filter.UserID != "" {
		query.Eq("user_id", filter.UserID)
	}
	query.Order("created_at", false)

	experiences := []domain.InterviewExperience{}
	if err := query.Execute(ctx, &experiences); err != nil {
		return nil, mapError(err)
	}
	return experiences, nil
}

// mapError keeps the remote message verbatim so the user sees what
// Supabase said.
func mapError(err error) error {
	var apiErr *sb.Error
	if errors.As(err, &apiErr) {
		status := apiErr.Status
		if status >= http.StatusInternalServerError {
			status = http.StatusBadGateway
		}
		return apperror.New(status, apiErr.Message, err)
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return apperror.ServiceUnavailable("The request timed out, please try again", err)
	}
	return apperror.ServiceUnavailable("Unable to reach the server, please try again", err)
}
