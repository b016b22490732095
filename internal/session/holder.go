// Package session tracks the authenticated identity of each browser.
package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"interview-tayari/internal/domain"
	"interview-tayari/pkg/logger"
)

// Holder owns the sessions of all browsers. It follows the auth feed between
// Start and Close: sign-ins are stored, refreshes replace the stored tokens
// and sign-outs drop the session.
type Holder struct {
	feed      domain.AuthFeed
	refresher domain.AuthGateway
	store     Store
	ttl       time.Duration
	now       func() time.Time

	mu          sync.Mutex
	unsubscribe func()
	onEnd       []func(sessionID string)
}

func NewHolder(feed domain.AuthFeed, refresher domain.AuthGateway, store Store, ttl time.Duration) *Holder {
	return &Holder{
		feed:      feed,
		refresher: refresher,
		store:     store,
		ttl:       ttl,
		now:       time.Now,
	}
}

// Start subscribes to the auth feed. Calling it twice is a no-op.
func (h *Holder) Start() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.unsubscribe != nil {
		return
	}
	h.unsubscribe = h.feed.OnAuthStateChange(h.handle)
}

// Close unsubscribes from the auth feed.
func (h *Holder) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.unsubscribe != nil {
		h.unsubscribe()
		h.unsubscribe = nil
	}
}

// OnEnd registers fn to run after a session is dropped, so per-session state
// can be released.
func (h *Holder) OnEnd(fn func(sessionID string)) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.onEnd = append(h.onEnd, fn)
}

func (h *Holder) handle(event domain.AuthEvent) {
	if event.Session == nil || event.Session.ID == "" {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	switch event.Type {
	case domain.AuthEventSignedIn, domain.AuthEventTokenRefreshed:
		if err := h.store.Save(ctx, event.Session, h.ttl); err != nil {
			logger.Log.Errorw("Failed to store session", "event", event.Type, "error", err)
		}
	case domain.AuthEventSignedOut:
		h.drop(ctx, event.Session.ID)
	}
}

func (h *Holder) drop(ctx context.Context, id string) {
	if err := h.store.Delete(ctx, id); err != nil {
		logger.Log.Errorw("Failed to delete session", "error", err)
	}

	h.mu.Lock()
	hooks := append([]func(string){}, h.onEnd...)
	h.mu.Unlock()
	for _, fn := range hooks {
		fn(id)
	}
}

// Current returns the live session for id. Expired sessions are refreshed;
// when the refresh fails the session is dropped and ErrSessionExpired is
// returned.
func (h *Holder) Current(ctx context.Context, id string) (*domain.Session, error) {
	if id == "" {
		return nil, domain.ErrNoSession
	}

	s, err := h.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !s.Expired(h.now()) {
		return s, nil
	}

	refreshed, err := h.refresher.Refresh(ctx, s)
	if err != nil {
		logger.Log.Infow("Session refresh failed, signing out", "error", err)
		h.drop(ctx, id)
		return nil, domain.ErrSessionExpired
	}
	// The feed normally stores the refreshed session; saving here keeps the
	// holder correct when it has not been started.
	if err := h.store.Save(ctx, refreshed, h.ttl); err != nil {
		logger.Log.Errorw("Failed to store refreshed session", "error", err)
	}
	return refreshed, nil
}

// IsNoSession reports whether err means the browser has no usable session.
func IsNoSession(err error) bool {
	return errors.Is(err, domain.ErrNoSession) || errors.Is(err, domain.ErrSessionExpired)
}
