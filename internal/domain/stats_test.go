package domain_test

import (
	"testing"
	"time"

	"interview-tayari/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func record(company string, created time.Time, verifiedAfter time.Duration) domain.InterviewExperience {
	exp := domain.InterviewExperience{Company: company, CreatedAt: created}
	verified := verifiedAfter > 0
	exp.Verified = &verified
	if verified {
		at := created.Add(verifiedAfter)
		exp.VerifiedAt = &at
	}
	return exp
}

func TestComputeStats(t *testing.T) {
	t.Run("Should return zeros for no records", func(t *testing.T) {
		stats := domain.ComputeStats(nil)
		assert.Equal(t, 0, stats.TotalSubmissions)
		assert.Equal(t, 0.0, stats.SuccessRate)
		assert.Equal(t, 0.0, stats.AverageResponseTime)
		assert.Empty(t, stats.RecentActivity)
	})

	t.Run("Should compute rates over verified records", func(t *testing.T) {
		base := time.Date(2024, 1, 13, 9, 0, 0, 0, time.UTC)
		records := []domain.InterviewExperience{
			record("Amazon", base, 48*time.Hour),
			record("Microsoft", base.Add(24*time.Hour), 0),
			record("Google", base.Add(48*time.Hour), 36*time.Hour),
		}

		stats := domain.ComputeStats(records)
		assert.Equal(t, 3, stats.TotalSubmissions)
		assert.Equal(t, 2, stats.VerifiedSubmissions)
		assert.Equal(t, 66.67, stats.SuccessRate)
		assert.Equal(t, 42.0, stats.AverageResponseTime)

		require.Len(t, stats.RecentActivity, 3)
		assert.Equal(t, "Google", stats.RecentActivity[0].Company)
		assert.Equal(t, domain.ActivityVerified, stats.RecentActivity[0].Status)
		assert.Equal(t, domain.ActivityPending, stats.RecentActivity[1].Status)
	})

	t.Run("Should cap recent activity", func(t *testing.T) {
		base := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
		var records []domain.InterviewExperience
		for i := 0; i < 8; i++ {
			records = append(records, record("Acme", base.Add(time.Duration(i)*time.Hour), 0))
		}
		stats := domain.ComputeStats(records)
		assert.Len(t, stats.RecentActivity, domain.RecentActivityLimit)
		assert.Equal(t, base.Add(7*time.Hour), stats.RecentActivity[0].Date)
	})
}
