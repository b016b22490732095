package usecase

import (
	"context"

	"interview-tayari/internal/domain"
	"interview-tayari/pkg/apperror"
)

type dashboardUsecase struct {
	repo domain.ExperienceRepository
}

func NewDashboardUsecase(repo domain.ExperienceRepository) domain.DashboardUsecase {
	return &dashboardUsecase{repo: repo}
}

func (u *dashboardUsecase) Stats(ctx context.Context, userID string) (*domain.DashboardStats, error) {
	if userID == "" {
		return nil, apperror.Unauthorized("User not authenticated")
	}
	records, err := u.repo.List(ctx, domain.ExperienceFilter{UserID: userID})
	if err != nil {
		return nil, err
	}
	stats := domain.ComputeStats(records)
	return &stats, nil
}
