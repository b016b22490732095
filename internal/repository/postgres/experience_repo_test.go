package postgres

import (
	"strings"
	"testing"

	"interview-tayari/internal/domain"

	"github.com/stretchr/testify/assert"
)

func TestBuildListQuery(t *testing.T) {
	t.Run("Should list everything newest first without filters", func(t *testing.T) {
		query, args := buildListQuery(domain.ExperienceFilter{})
		assert.NotContains(t, query, "WHERE")
		assert.True(t, strings.HasSuffix(query, "ORDER BY created_at DESC"))
		assert.Empty(t, args)
	})

	t.Run("Should number placeholders in filter order", func(t *testing.T) {
		query, args := buildListQuery(domain.ExperienceFilter{Company: " Goog ", ExperienceYears: "3-5", UserID: "u-1"})
		assert.Contains(t, query, "WHERE company ILIKE $1 AND experience_years = $2 AND user_id = $3::uuid")
		assert.Equal(t, []any{"%Goog%", "3-5", "u-1"}, args)
	})

	t.Run("Should escape LIKE wildcards", func(t *testing.T) {
		_, args := buildListQuery(domain.ExperienceFilter{Company: "100%_co"})
		assert.Equal(t, []any{`%100\%\_co%`}, args)
	})
}
