package domain

import "context"

type SubmissionUsecase interface {
	// Submit validates draft and inserts one record owned by the user in ctx.
	// The draft is never modified.
	Submit(ctx context.Context, draft *Draft) (*InterviewExperience, error)
}

type ListingUsecase interface {
	// Fetch runs the server-side query only.
	Fetch(ctx context.Context, filter ExperienceFilter) ([]InterviewExperience, error)
	// Search runs Fetch and narrows the result by the free-text query.
	Search(ctx context.Context, query ListingQuery) ([]InterviewExperience, error)
	Companies(records []InterviewExperience) []string
}

type ExportUsecase interface {
	// Export renders the matching records as "xlsx" or "csv" and returns the
	// file contents and a download name.
	Export(ctx context.Context, query ListingQuery, format string) ([]byte, string, error)
}

// ObjectStore keeps verification screenshots.
type ObjectStore interface {
	Put(ctx context.Context, key string, data []byte, contentType string) (string, error)
}
