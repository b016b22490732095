package domain

import (
	"context"
	"strconv"
	"strings"
	"time"
)

type Difficulty string

const (
	DifficultyEasy   Difficulty = "Easy"
	DifficultyMedium Difficulty = "Medium"
	DifficultyHard   Difficulty = "Hard"
)

var Difficulties = []Difficulty{DifficultyEasy, DifficultyMedium, DifficultyHard}

func (d Difficulty) Valid() bool {
	return d.rank() > 0
}

func (d Difficulty) rank() int {
	switch d {
	case DifficultyEasy:
		return 1
	case DifficultyMedium:
		return 2
	case DifficultyHard:
		return 3
	}
	return 0
}

type QuestionType string

var QuestionTypes = []QuestionType{
	"Problem Solving",
	"System Design",
	"Data Structures",
	"Algorithms",
	"Behavioral",
}

func (t QuestionType) Valid() bool {
	for _, known := range QuestionTypes {
		if t == known {
			return true
		}
	}
	return false
}

// Option sets offered by the submission form.
var (
	CTCOptions = []int{3, 5, 7, 10, 15, 20, 25, 30, 40, 50}

	ExperienceOptions = func() []int {
		years := make([]int, 20)
		for i := range years {
			years[i] = i + 1
		}
		return years
	}()
)

// ExperienceBuckets are the fixed experience_years values the listing filters on.
var ExperienceBuckets = []string{"0-2", "3-5", "5-7", "7+"}

func IsExperienceBucket(v string) bool {
	for _, b := range ExperienceBuckets {
		if b == v {
			return true
		}
	}
	return false
}

// BucketForYears maps a years-of-experience selection onto a listing bucket.
// Values that are not a whole number are returned unchanged.
func BucketForYears(years string) string {
	n, err := strconv.Atoi(strings.TrimSpace(years))
	if err != nil {
		return years
	}
	switch {
	case n <= 2:
		return "0-2"
	case n <= 5:
		return "3-5"
	case n <= 7:
		return "5-7"
	default:
		return "7+"
	}
}

type InterviewExperience struct {
	ID               string      `json:"id"`
	Name             string      `json:"name"`
	Country          string      `json:"country"`
	Company          string      `json:"company"`
	Questions        []string    `json:"questions"`
	UserID           string      `json:"user_id"`
	CreatedAt        time.Time   `json:"created_at"`
	UpdatedAt        time.Time   `json:"updated_at"`
	ExperienceYears  *string     `json:"experience_years,omitempty"`
	CTC              *string     `json:"ctc,omitempty"`
	Verified         *bool       `json:"verified,omitempty"`
	Difficulty       *Difficulty `json:"difficulty,omitempty"`
	VerificationPath *string     `json:"verification_path,omitempty"`
	VerifiedAt       *time.Time  `json:"verified_at,omitempty"`
}

func (e *InterviewExperience) IsVerified() bool {
	return e.Verified != nil && *e.Verified
}

// Matches reports whether the free-text query occurs, case-insensitively, in
// the company, name, country or any question. An empty query matches all.
func (e *InterviewExperience) Matches(query string) bool {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return true
	}
	if strings.Contains(strings.ToLower(e.Company), q) ||
		strings.Contains(strings.ToLower(e.Name), q) ||
		strings.Contains(strings.ToLower(e.Country), q) {
		return true
	}
	for _, question := range e.Questions {
		if strings.Contains(strings.ToLower(question), q) {
			return true
		}
	}
	return false
}

// ExperienceFilter holds the server-side listing filters. Empty fields are
// not applied.
type ExperienceFilter struct {
	Company         string `form:"company"`
	ExperienceYears string `form:"experience" binding:"omitempty,oneof=0-2 3-5 5-7 7+"`
	UserID          string `form:"-"`
}

// ListingQuery is an ExperienceFilter plus the client-side text search.
type ListingQuery struct {
	ExperienceFilter
	Search string `form:"q"`
}

type ExperienceRepository interface {
	// Insert stores a new record and returns it as assigned by the store
	// (id, timestamps).
	Insert(ctx context.Context, exp *InterviewExperience) (*InterviewExperience, error)
	// List returns matching records ordered by created_at descending.
	List(ctx context.Context, filter ExperienceFilter) ([]InterviewExperience, error)
}
