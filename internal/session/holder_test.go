package session

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"interview-tayari/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type fakeFeed struct {
	mu   sync.Mutex
	subs map[int]func(domain.AuthEvent)
	next int
}

func newFakeFeed() *fakeFeed {
	return &fakeFeed{subs: map[int]func(domain.AuthEvent){}}
}

func (f *fakeFeed) OnAuthStateChange(fn func(domain.AuthEvent)) func() {
	f.mu.Lock()
	id := f.next
	f.next++
	f.subs[id] = fn
	f.mu.Unlock()
	return func() {
		f.mu.Lock()
		delete(f.subs, id)
		f.mu.Unlock()
	}
}

func (f *fakeFeed) emit(e domain.AuthEvent) {
	f.mu.Lock()
	fns := make([]func(domain.AuthEvent), 0, len(f.subs))
	for _, fn := range f.subs {
		fns = append(fns, fn)
	}
	f.mu.Unlock()
	for _, fn := range fns {
		fn(e)
	}
}

func (f *fakeFeed) subscribers() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.subs)
}

type MockGateway struct {
	mock.Mock
}

func (m *MockGateway) SignUp(ctx context.Context, email, password string) (*domain.Session, *domain.User, error) {
	args := m.Called(ctx, email, password)
	return nil, nil, args.Error(2)
}

func (m *MockGateway) SignIn(ctx context.Context, email, password string) (*domain.Session, error) {
	args := m.Called(ctx, email, password)
	return nil, args.Error(1)
}

func (m *MockGateway) ResetPassword(ctx context.Context, email string) error {
	return m.Called(ctx, email).Error(0)
}

func (m *MockGateway) GetUser(ctx context.Context, accessToken string) (*domain.User, error) {
	args := m.Called(ctx, accessToken)
	return nil, args.Error(1)
}

func (m *MockGateway) SignOut(ctx context.Context, s *domain.Session) error {
	return m.Called(ctx, s).Error(0)
}

func (m *MockGateway) Refresh(ctx context.Context, s *domain.Session) (*domain.Session, error) {
	args := m.Called(ctx, s)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Session), args.Error(1)
}

func liveSession(id string, expires time.Time) *domain.Session {
	return &domain.Session{
		ID:           id,
		AccessToken:  "access-" + id,
		RefreshToken: "refresh-" + id,
		ExpiresAt:    expires,
		User:         domain.User{ID: "u-" + id, Email: id + "@example.com"},
	}
}

func TestHolderLifecycle(t *testing.T) {
	feed := newFakeFeed()
	holder := NewHolder(feed, new(MockGateway), NewMemoryStore(), time.Hour)
	ctx := context.Background()

	t.Run("Should ignore events before Start", func(t *testing.T) {
		feed.emit(domain.AuthEvent{Type: domain.AuthEventSignedIn, Session: liveSession("a", time.Now().Add(time.Hour))})
		_, err := holder.Current(ctx, "a")
		assert.ErrorIs(t, err, domain.ErrNoSession)
	})

	holder.Start()
	holder.Start()
	require.Equal(t, 1, feed.subscribers())

	var ended []string
	holder.OnEnd(func(id string) { ended = append(ended, id) })

	t.Run("Should store signed in sessions", func(t *testing.T) {
		feed.emit(domain.AuthEvent{Type: domain.AuthEventSignedIn, Session: liveSession("b", time.Now().Add(time.Hour))})
		s, err := holder.Current(ctx, "b")
		require.NoError(t, err)
		assert.Equal(t, "u-b", s.User.ID)
	})

	t.Run("Should replace tokens on refresh events", func(t *testing.T) {
		refreshed := liveSession("b", time.Now().Add(2*time.Hour))
		refreshed.AccessToken = "access-b-2"
		feed.emit(domain.AuthEvent{Type: domain.AuthEventTokenRefreshed, Session: refreshed})
		s, err := holder.Current(ctx, "b")
		require.NoError(t, err)
		assert.Equal(t, "access-b-2", s.AccessToken)
	})

	t.Run("Should drop the session on sign out", func(t *testing.T) {
		feed.emit(domain.AuthEvent{Type: domain.AuthEventSignedOut, Session: liveSession("b", time.Time{})})
		_, err := holder.Current(ctx, "b")
		assert.ErrorIs(t, err, domain.ErrNoSession)
		assert.Equal(t, []string{"b"}, ended)
	})

	holder.Close()
	assert.Equal(t, 0, feed.subscribers())

	t.Run("Should ignore events after Close", func(t *testing.T) {
		feed.emit(domain.AuthEvent{Type: domain.AuthEventSignedIn, Session: liveSession("c", time.Now().Add(time.Hour))})
		_, err := holder.Current(ctx, "c")
		assert.ErrorIs(t, err, domain.ErrNoSession)
	})
}

func TestHolderRefresh(t *testing.T) {
	ctx := context.Background()

	t.Run("Should refresh an expired session", func(t *testing.T) {
		store := NewMemoryStore()
		gateway := new(MockGateway)
		holder := NewHolder(newFakeFeed(), gateway, store, time.Hour)

		expired := liveSession("d", time.Now().Add(-time.Minute))
		require.NoError(t, store.Save(ctx, expired, time.Hour))

		fresh := liveSession("d", time.Now().Add(time.Hour))
		fresh.AccessToken = "access-d-2"
		gateway.On("Refresh", mock.Anything, mock.MatchedBy(func(s *domain.Session) bool { return s.ID == "d" })).Return(fresh, nil).Once()

		s, err := holder.Current(ctx, "d")
		require.NoError(t, err)
		assert.Equal(t, "access-d-2", s.AccessToken)

		again, err := holder.Current(ctx, "d")
		require.NoError(t, err)
		assert.Equal(t, "access-d-2", again.AccessToken)
		gateway.AssertExpectations(t)
	})

	t.Run("Should sign out when refresh fails", func(t *testing.T) {
		store := NewMemoryStore()
		gateway := new(MockGateway)
		holder := NewHolder(newFakeFeed(), gateway, store, time.Hour)

		var ended []string
		holder.OnEnd(func(id string) { ended = append(ended, id) })

		require.NoError(t, store.Save(ctx, liveSession("e", time.Now().Add(-time.Minute)), time.Hour))
		gateway.On("Refresh", mock.Anything, mock.Anything).Return(nil, errors.New("Invalid Refresh Token"))

		_, err := holder.Current(ctx, "e")
		assert.ErrorIs(t, err, domain.ErrSessionExpired)
		assert.True(t, IsNoSession(err))
		assert.Equal(t, []string{"e"}, ended)

		_, err = store.Get(ctx, "e")
		assert.ErrorIs(t, err, domain.ErrNoSession)
	})
}

func TestMemoryStoreExpiry(t *testing.T) {
	store := NewMemoryStore()
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }

	require.NoError(t, store.Save(context.Background(), liveSession("f", time.Time{}), time.Minute))
	_, err := store.Get(context.Background(), "f")
	require.NoError(t, err)

	now = now.Add(time.Minute)
	_, err = store.Get(context.Background(), "f")
	assert.ErrorIs(t, err, domain.ErrNoSession)
}

func TestDraftStore(t *testing.T) {
	store := NewDraftStore()
	ctx := context.Background()

	d, err := store.Get(ctx, "s-1")
	require.NoError(t, err)
	assert.Len(t, d.Questions, 1)

	d.CompanyName = "Google"
	d.AddQuestion()
	require.NoError(t, store.Save(ctx, "s-1", d))

	d.AddQuestion()
	loaded, _ := store.Get(ctx, "s-1")
	assert.Equal(t, "Google", loaded.CompanyName)
	assert.Len(t, loaded.Questions, 2)

	require.NoError(t, store.Delete(ctx, "s-1"))
	fresh, _ := store.Get(ctx, "s-1")
	assert.Empty(t, fresh.CompanyName)
}
