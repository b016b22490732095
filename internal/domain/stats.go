package domain

import (
	"context"
	"math"
	"sort"
	"time"
)

const RecentActivityLimit = 5

type ActivityStatus string

const (
	ActivityVerified ActivityStatus = "verified"
	ActivityPending  ActivityStatus = "pending"
)

type Activity struct {
	Company string         `json:"company"`
	Date    time.Time      `json:"date"`
	Status  ActivityStatus `json:"status"`
}

type DashboardStats struct {
	TotalSubmissions    int        `json:"total_submissions"`
	VerifiedSubmissions int        `json:"verified_submissions"`
	SuccessRate         float64    `json:"success_rate"`
	AverageResponseTime float64    `json:"average_response_time_hours"`
	RecentActivity      []Activity `json:"recent_activity"`
}

// ComputeStats derives the dashboard figures from records. Rates are rounded
// to two decimals and are zero when there is nothing to average over. The
// response time of a record is the time between creation and verification.
func ComputeStats(records []InterviewExperience) DashboardStats {
	stats := DashboardStats{
		TotalSubmissions: len(records),
		RecentActivity:   []Activity{},
	}

	var responseHours float64
	var timed int
	for i := range records {
		r := &records[i]
		if !r.IsVerified() {
			continue
		}
		stats.VerifiedSubmissions++
		if r.VerifiedAt != nil && !r.CreatedAt.IsZero() && r.VerifiedAt.After(r.CreatedAt) {
			responseHours += r.VerifiedAt.Sub(r.CreatedAt).Hours()
			timed++
		}
	}

	if stats.TotalSubmissions > 0 {
		stats.SuccessRate = round2(float64(stats.VerifiedSubmissions) / float64(stats.TotalSubmissions) * 100)
	}
	if timed > 0 {
		stats.AverageResponseTime = round2(responseHours / float64(timed))
	}

	sorted := make([]InterviewExperience, len(records))
	copy(sorted, records)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].CreatedAt.After(sorted[j].CreatedAt)
	})
	for i := 0; i < len(sorted) && i < RecentActivityLimit; i++ {
		status := ActivityPending
		if sorted[i].IsVerified() {
			status = ActivityVerified
		}
		stats.RecentActivity = append(stats.RecentActivity, Activity{
			Company: sorted[i].Company,
			Date:    sorted[i].CreatedAt,
			Status:  status,
		})
	}

	return stats
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

type DashboardUsecase interface {
	Stats(ctx context.Context, userID string) (*DashboardStats, error)
}
