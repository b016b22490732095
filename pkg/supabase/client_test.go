package supabase_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"interview-tayari/pkg/supabase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newClient(t *testing.T, handler http.HandlerFunc) *supabase.Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client, err := supabase.New(supabase.Config{URL: srv.URL + "/", Key: "anon-key"})
	require.NoError(t, err)
	return client
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func TestNew(t *testing.T) {
	_, err := supabase.New(supabase.Config{URL: "https://x.supabase.co"})
	assert.ErrorIs(t, err, supabase.ErrNotConfigured)

	_, err = supabase.New(supabase.Config{Key: "k"})
	assert.ErrorIs(t, err, supabase.ErrNotConfigured)
}

func TestSignIn(t *testing.T) {
	t.Run("Should return a session and emit SIGNED_IN", func(t *testing.T) {
		client := newClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/auth/v1/token", r.URL.Path)
			assert.Equal(t, "password", r.URL.Query().Get("grant_type"))
			assert.Equal(t, "anon-key", r.Header.Get("apikey"))

			var body map[string]string
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, "asha@example.com", body["email"])

			writeJSON(w, http.StatusOK, map[string]any{
				"access_token":  "access",
				"refresh_token": "refresh",
				"expires_in":    3600,
				"user":          map[string]any{"id": "u-1", "email": "asha@example.com"},
			})
		})

		var events []supabase.AuthEvent
		unsubscribe := client.OnAuthStateChange(func(e supabase.AuthEvent) { events = append(events, e) })
		defer unsubscribe()

		session, err := client.SignIn(context.Background(), "asha@example.com", "secret1")
		require.NoError(t, err)
		assert.NotEmpty(t, session.ID)
		assert.Equal(t, "access", session.AccessToken)
		assert.Equal(t, "u-1", session.User.ID)

		require.Len(t, events, 1)
		assert.Equal(t, supabase.SignedIn, events[0].Type)
		assert.Equal(t, session.ID, events[0].Session.ID)
	})

	t.Run("Should surface the GoTrue message verbatim", func(t *testing.T) {
		client := newClient(t, func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusBadRequest, map[string]any{
				"error":             "invalid_grant",
				"error_description": "Invalid login credentials",
			})
		})

		var emitted bool
		client.OnAuthStateChange(func(supabase.AuthEvent) { emitted = true })

		_, err := client.SignIn(context.Background(), "asha@example.com", "wrong!")
		var apiErr *supabase.Error
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, http.StatusBadRequest, apiErr.Status)
		assert.Equal(t, "Invalid login credentials", apiErr.Message)
		assert.False(t, emitted)
	})
}

func TestSignUpWithoutSession(t *testing.T) {
	client := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/auth/v1/signup", r.URL.Path)
		writeJSON(w, http.StatusOK, map[string]any{"id": "u-2", "email": "new@example.com"})
	})

	session, user, err := client.SignUp(context.Background(), "new@example.com", "secret1")
	require.NoError(t, err)
	assert.Nil(t, session)
	require.NotNil(t, user)
	assert.Equal(t, "u-2", user.ID)
}

func TestSignInWithoutTokens(t *testing.T) {
	client := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"user": map[string]any{"id": "u-1"}})
	})

	_, err := client.SignIn(context.Background(), "asha@example.com", "secret1")
	var apiErr *supabase.Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadGateway, apiErr.Status)
	assert.Equal(t, "no session returned", apiErr.Message)

	_, err = client.Refresh(context.Background(), &supabase.Session{ID: "h", RefreshToken: "r"})
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadGateway, apiErr.Status)
}

func TestRefreshKeepsHandle(t *testing.T) {
	client := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "refresh_token", r.URL.Query().Get("grant_type"))
		writeJSON(w, http.StatusOK, map[string]any{
			"access_token":  "access-2",
			"refresh_token": "refresh-2",
			"expires_at":    4102444800,
		})
	})

	old := &supabase.Session{ID: "handle", RefreshToken: "refresh-1", User: supabase.User{ID: "u-1"}}
	refreshed, err := client.Refresh(context.Background(), old)
	require.NoError(t, err)
	assert.Equal(t, "handle", refreshed.ID)
	assert.Equal(t, "access-2", refreshed.AccessToken)
	assert.Equal(t, "u-1", refreshed.User.ID)
	assert.Equal(t, int64(4102444800), refreshed.ExpiresAt.Unix())
}

func TestSignOutEmitsEvenOnFailure(t *testing.T) {
	client := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer access", r.Header.Get("Authorization"))
		writeJSON(w, http.StatusUnauthorized, map[string]any{"msg": "token expired"})
	})

	var got supabase.AuthEventType
	unsubscribe := client.OnAuthStateChange(func(e supabase.AuthEvent) { got = e.Type })

	err := client.SignOut(context.Background(), &supabase.Session{ID: "h", AccessToken: "access"})
	assert.Error(t, err)
	assert.Equal(t, supabase.SignedOut, got)

	unsubscribe()
	got = ""
	_ = client.SignOut(context.Background(), &supabase.Session{ID: "h", AccessToken: "access"})
	assert.Empty(t, got)
}

func TestQuery(t *testing.T) {
	t.Run("Should send filters and order", func(t *testing.T) {
		client := newClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/rest/v1/experiences", r.URL.Path)
			q := r.URL.Query()
			assert.Equal(t, "*", q.Get("select"))
			assert.Equal(t, "ilike.*Goog*", q.Get("company"))
			assert.Equal(t, "eq.3-5", q.Get("experience_years"))
			assert.Equal(t, "created_at.desc", q.Get("order"))
			writeJSON(w, http.StatusOK, []map[string]any{{"id": "1", "company": "Google"}})
		})

		var rows []map[string]any
		err := client.From("experiences").
			ILike("company", "Goog").
			Eq("experience_years", "3-5").
			Order("created_at", false).
			Execute(context.Background(), &rows)
		require.NoError(t, err)
		require.Len(t, rows, 1)
		assert.Equal(t, "Google", rows[0]["company"])
	})

	t.Run("Should match LIKE metacharacters literally", func(t *testing.T) {
		client := newClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, `ilike.*50\%\_off_\\x*`, r.URL.Query().Get("company"))
			writeJSON(w, http.StatusOK, []map[string]any{})
		})

		var rows []map[string]any
		err := client.From("experiences").ILike("company", `50%_off*\x`).Execute(context.Background(), &rows)
		require.NoError(t, err)
		assert.Empty(t, rows)
	})

	t.Run("Should insert with the user token", func(t *testing.T) {
		client := newClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "return=representation", r.Header.Get("Prefer"))
			assert.Equal(t, "Bearer user-token", r.Header.Get("Authorization"))
			body, _ := io.ReadAll(r.Body)
			assert.Contains(t, string(body), `"company":"Google"`)
			writeJSON(w, http.StatusCreated, []map[string]any{{"id": "new-id"}})
		})

		var rows []map[string]any
		err := client.From("experiences").WithToken("user-token").
			Insert(context.Background(), map[string]any{"company": "Google"}, &rows)
		require.NoError(t, err)
		assert.Equal(t, "new-id", rows[0]["id"])
	})

	t.Run("Should map PostgREST errors", func(t *testing.T) {
		client := newClient(t, func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusForbidden, map[string]any{
				"code":    "42501",
				"message": "new row violates row-level security policy",
			})
		})

		err := client.From("experiences").Insert(context.Background(), map[string]any{}, nil)
		var apiErr *supabase.Error
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, "42501", apiErr.Code)
		assert.Equal(t, "new row violates row-level security policy", apiErr.Message)
	})
}

func TestUpload(t *testing.T) {
	client := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/storage/v1/object/verifications/u-1/proof.jpg", r.URL.Path)
		assert.Equal(t, "image/jpeg", r.Header.Get("Content-Type"))
		assert.Equal(t, "true", r.Header.Get("x-upsert"))
		writeJSON(w, http.StatusOK, map[string]string{"Key": "verifications/u-1/proof.jpg"})
	})

	key, err := client.Upload(context.Background(), "token", "verifications", "u-1/proof.jpg", []byte{0xFF, 0xD8}, "image/jpeg")
	require.NoError(t, err)
	assert.Equal(t, "verifications/u-1/proof.jpg", key)
}
