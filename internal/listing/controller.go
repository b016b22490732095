// Package listing holds the browse/search state of each viewer.
package listing

import (
	"context"
	"sync"

	"interview-tayari/internal/domain"
	"interview-tayari/pkg/apperror"
)

type Phase string

const (
	PhaseLoading Phase = "loading"
	PhaseSuccess Phase = "success"
	PhaseFailure Phase = "failure"
)

const fetchFailedMessage = "Failed to fetch experiences"

// Fetcher runs the server-side part of a listing query.
type Fetcher interface {
	Fetch(ctx context.Context, filter domain.ExperienceFilter) ([]domain.InterviewExperience, error)
}

// State is a snapshot of a Controller. Results is always a subset of
// Response, which is the latest accepted server answer.
type State struct {
	Phase    Phase
	Query    domain.ListingQuery
	Response []domain.InterviewExperience
	Results  []domain.InterviewExperience
	// Error is set while in PhaseFailure. The previous results stay visible.
	Error  string
	Token  uint64
	loaded bool
}

// NoResults reports the explicit empty state: a successful fetch with nothing
// left after text filtering.
func (s State) NoResults() bool {
	return s.Phase == PhaseSuccess && len(s.Results) == 0
}

// Controller runs the loading -> success | failure cycle. Every fetch takes a
// new token; answers carrying an older token are dropped, so a slow response
// can never overwrite a newer one.
type Controller struct {
	fetcher Fetcher

	mu    sync.Mutex
	token uint64
	state State
}

func NewController(fetcher Fetcher) *Controller {
	return &Controller{
		fetcher: fetcher,
		state:   State{Phase: PhaseLoading},
	}
}

// Begin enters loading for query and returns the token of the new fetch.
func (c *Controller) Begin(query domain.ListingQuery) uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.token++
	c.state.Token = c.token
	c.state.Phase = PhaseLoading
	c.state.Query = query
	c.state.Error = ""
	return c.token
}

// Resolve applies the answer of fetch token. It reports false when a newer
// fetch has started since, in which case the answer is discarded.
func (c *Controller) Resolve(token uint64, rows []domain.InterviewExperience, err error) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if token != c.token {
		return false
	}

	if err != nil {
		c.state.Phase = PhaseFailure
		c.state.Error = apperror.Message(err, fetchFailedMessage)
		return true
	}

	c.state.Phase = PhaseSuccess
	c.state.Response = rows
	c.state.Results = narrow(rows, c.state.Query.Search)
	c.state.loaded = true
	return true
}

// Load fetches query and returns the resulting state.
func (c *Controller) Load(ctx context.Context, query domain.ListingQuery) State {
	token := c.Begin(query)
	rows, err := c.fetcher.Fetch(ctx, query.ExperienceFilter)
	c.Resolve(token, rows, err)
	return c.Snapshot()
}

// Update re-filters the latest response when only the text search changed
// since the last successful load. Any other visit, including a repeat of the
// same query, fetches again.
func (c *Controller) Update(ctx context.Context, query domain.ListingQuery) State {
	c.mu.Lock()
	searchOnly := c.state.loaded &&
		c.state.Phase == PhaseSuccess &&
		c.state.Query.ExperienceFilter == query.ExperienceFilter &&
		c.state.Query.Search != query.Search
	refetch := !searchOnly
	if !refetch {
		c.state.Query.Search = query.Search
		c.state.Results = narrow(c.state.Response, query.Search)
	}
	c.mu.Unlock()

	if refetch {
		return c.Load(ctx, query)
	}
	return c.Snapshot()
}

// Retry re-runs the current query.
func (c *Controller) Retry(ctx context.Context) State {
	return c.Load(ctx, c.Snapshot().Query)
}

func (c *Controller) Snapshot() State {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := c.state
	s.Response = append([]domain.InterviewExperience(nil), c.state.Response...)
	s.Results = append([]domain.InterviewExperience(nil), c.state.Results...)
	return s
}

func narrow(rows []domain.InterviewExperience, search string) []domain.InterviewExperience {
	out := make([]domain.InterviewExperience, 0, len(rows))
	for i := range rows {
		if rows[i].Matches(search) {
			out = append(out, rows[i])
		}
	}
	return out
}
