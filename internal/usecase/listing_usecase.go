package usecase

import (
	"context"
	"sort"

	"interview-tayari/internal/domain"
	"interview-tayari/pkg/apperror"

	"github.com/thoas/go-funk"
)

type listingUsecase struct {
	repo domain.ExperienceRepository
}

func NewListingUsecase(repo domain.ExperienceRepository) domain.ListingUsecase {
	return &listingUsecase{repo: repo}
}

func (u *listingUsecase) Fetch(ctx context.Context, filter domain.ExperienceFilter) ([]domain.InterviewExperience, error) {
	if filter.ExperienceYears != "" && !domain.IsExperienceBucket(filter.ExperienceYears) {
		return nil, apperror.BadRequest("Unknown experience filter: " + filter.ExperienceYears)
	}
	return u.repo.List(ctx, filter)
}

func (u *listingUsecase) Search(ctx context.Context, query domain.ListingQuery) ([]domain.InterviewExperience, error) {
	rows, err := u.Fetch(ctx, query.ExperienceFilter)
	if err != nil {
		return nil, err
	}

	matched := make([]domain.InterviewExperience, 0, len(rows))
	for i := range rows {
		if rows[i].Matches(query.Search) {
			matched = append(matched, rows[i])
		}
	}
	return matched, nil
}

// Companies returns the distinct company names of records, sorted, for the
// filter suggestions.
func (u *listingUsecase) Companies(records []domain.InterviewExperience) []string {
	names := make([]string, 0, len(records))
	for i := range records {
		if records[i].Company != "" {
			names = append(names, records[i].Company)
		}
	}
	unique := funk.UniqString(names)
	sort.Strings(unique)
	return unique
}
