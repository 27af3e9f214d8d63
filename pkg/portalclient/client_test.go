package portalclient

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, baseURL string, prefs PreferenceStore) *Client {
	t.Helper()

	c, err := New(Config{BaseURL: baseURL, Prefs: prefs})
	require.NoError(t, err)
	return c
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func TestRestoreSession_RememberMeFalse_NoNetworkCall(t *testing.T) {
	t.Parallel()

	var calls atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		writeJSON(w, http.StatusOK, map[string]string{"access": "abc", "role": "admin"})
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL, NewMemStore())
	require.NoError(t, c.RestoreSession(context.Background()))

	assert.Equal(t, int64(0), calls.Load())
	assert.False(t, c.Session().SignedIn())
}

func TestRestoreSession_RememberMeTrue_OneRefreshCall(t *testing.T) {
	t.Parallel()

	var refreshCalls atomic.Int64
	mux := http.NewServeMux()
	mux.HandleFunc("/auth/jwt/refresh/", func(w http.ResponseWriter, r *http.Request) {
		refreshCalls.Add(1)
		writeJSON(w, http.StatusOK, map[string]string{"access": "xyz", "role": "admin"})
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	prefs := NewMemStore()
	require.NoError(t, prefs.Set(persistKey, "true"))

	c := newTestClient(t, srv.URL, prefs)
	require.NoError(t, c.RestoreSession(context.Background()))

	assert.Equal(t, int64(1), refreshCalls.Load())
	assert.Equal(t, "xyz", c.Session().AccessToken())
	assert.Equal(t, "admin", c.Session().Role())
}

func TestLogin_PopulatesSessionAndInjectsBearer(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	mux.HandleFunc("/auth/jwt/create/", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "alice", body["username"])
		writeJSON(w, http.StatusOK, map[string]string{"access": "abc", "role": "admin"})
	})
	var gotAuth atomic.Value
	mux.HandleFunc("/api/job/", func(w http.ResponseWriter, r *http.Request) {
		gotAuth.Store(r.Header.Get("Authorization"))
		writeJSON(w, http.StatusOK, []Job{})
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	c := newTestClient(t, srv.URL, NewMemStore())
	require.NoError(t, c.Login(context.Background(), "alice", "secret"))

	assert.Equal(t, "abc", c.Session().AccessToken())
	assert.Equal(t, "admin", c.Session().Role())
	assert.Equal(t, "alice", c.Session().Identity())

	_, err := c.Jobs(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Bearer abc", gotAuth.Load())
}

func TestPipeline_RefreshesAndRetriesOnce(t *testing.T) {
	t.Parallel()

	var refreshCalls, companyCalls atomic.Int64
	mux := http.NewServeMux()
	mux.HandleFunc("/auth/jwt/refresh/", func(w http.ResponseWriter, r *http.Request) {
		refreshCalls.Add(1)
		writeJSON(w, http.StatusOK, map[string]string{"access": "new", "role": "admin"})
	})
	mux.HandleFunc("/api/company/", func(w http.ResponseWriter, r *http.Request) {
		companyCalls.Add(1)
		if r.Header.Get("Authorization") != "Bearer new" {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "token expired"})
			return
		}
		writeJSON(w, http.StatusOK, []Company{{ID: 1, Name: "Acme", Slug: "acme"}})
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	c := newTestClient(t, srv.URL, NewMemStore())
	c.Session().Set("expired", "admin", "alice")

	companies, err := c.Companies(context.Background())
	require.NoError(t, err, "caller must never see the intermediate 401")
	require.Len(t, companies, 1)
	assert.Equal(t, "Acme", companies[0].Name)

	assert.Equal(t, int64(1), refreshCalls.Load())
	assert.Equal(t, int64(2), companyCalls.Load())
	assert.Equal(t, "new", c.Session().AccessToken())
	assert.Equal(t, "alice", c.Session().Identity(), "mid-session refresh keeps the identity")
}

func TestPipeline_AtMostOneRetry(t *testing.T) {
	t.Parallel()

	var refreshCalls, companyCalls atomic.Int64
	mux := http.NewServeMux()
	mux.HandleFunc("/auth/jwt/refresh/", func(w http.ResponseWriter, r *http.Request) {
		refreshCalls.Add(1)
		writeJSON(w, http.StatusOK, map[string]string{"access": "new", "role": "admin"})
	})
	mux.HandleFunc("/api/company/", func(w http.ResponseWriter, r *http.Request) {
		companyCalls.Add(1)
		writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "nope"})
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	c := newTestClient(t, srv.URL, NewMemStore())
	c.Session().Set("whatever", "admin", "alice")

	_, err := c.Companies(context.Background())
	require.Error(t, err)
	assert.True(t, IsUnauthorized(err))

	assert.Equal(t, int64(1), refreshCalls.Load(), "one refresh per original request")
	assert.Equal(t, int64(2), companyCalls.Load(), "original plus one retry, never more")
}

func TestPipeline_RefreshFailureClearsSessionAndKeeps401(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	mux.HandleFunc("/auth/jwt/refresh/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "invalid refresh token"})
	})
	mux.HandleFunc("/api/company/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "token expired"})
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	c := newTestClient(t, srv.URL, NewMemStore())
	c.Session().Set("expired", "admin", "alice")

	_, err := c.Companies(context.Background())
	require.Error(t, err)
	assert.True(t, IsUnauthorized(err), "original 401 propagates, not the refresh error")

	assert.Empty(t, c.Session().AccessToken())
	assert.Empty(t, c.Session().Role())
	assert.Empty(t, c.Session().Identity())
	assert.False(t, c.Session().SignedIn())
}

func TestRefresh_UsesCookieFromLogin(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	mux.HandleFunc("/auth/jwt/create/", func(w http.ResponseWriter, r *http.Request) {
		http.SetCookie(w, &http.Cookie{Name: "refresh", Value: "r1", Path: "/auth", HttpOnly: true})
		writeJSON(w, http.StatusOK, map[string]string{"access": "abc", "role": "Recruiter"})
	})
	mux.HandleFunc("/auth/jwt/refresh/", func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie("refresh")
		if err != nil || cookie.Value != "r1" {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "missing refresh token"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"access": "xyz", "role": "Recruiter"})
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	c := newTestClient(t, srv.URL, NewMemStore())
	require.NoError(t, c.Login(context.Background(), "alice", "secret"))
	require.NoError(t, c.SetRememberMe(true))

	// Drop the in-memory session as a reload would.
	c.Session().Clear()

	require.NoError(t, c.RestoreSession(context.Background()))
	assert.True(t, c.Session().SignedIn())
	assert.Equal(t, "xyz", c.Session().AccessToken())
	assert.Equal(t, "Recruiter", c.Session().Role())
	// Identity lives in memory only; a cold restore signs in without it.
	assert.Empty(t, c.Session().Identity())
}

func TestList_ValidationFailureSurfaces(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	mux.HandleFunc("/api/company/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, []map[string]any{{"id": 0, "name": ""}})
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	c := newTestClient(t, srv.URL, NewMemStore())
	c.Session().Set("abc", "admin", "alice")

	_, err := c.Companies(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestSubmitApplication_ValidationFailureSurfaces(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	mux.HandleFunc("/api/application/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusCreated, map[string]any{"id": 0, "name": ""})
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	c := newTestClient(t, srv.URL, NewMemStore())

	_, err := c.SubmitApplication(context.Background(), ApplicationInput{
		Name: "Bob", Email: "bob@example.com", Residence: "Berlin", JobID: 1,
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestMutation_InvalidatesAndRefetches(t *testing.T) {
	t.Parallel()

	var jobCalls atomic.Int64
	mux := http.NewServeMux()
	mux.HandleFunc("/api/job/", func(w http.ResponseWriter, r *http.Request) {
		jobCalls.Add(1)
		writeJSON(w, http.StatusOK, []Job{{ID: 1, Title: "Engineer"}})
	})
	mux.HandleFunc("/api/company/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusCreated, Company{ID: 2, Name: "Acme", Slug: "acme"})
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	c := newTestClient(t, srv.URL, NewMemStore())
	c.Session().Set("abc", "admin", "alice")

	ctx := context.Background()

	_, err := c.Jobs(ctx)
	require.NoError(t, err)
	_, err = c.Jobs(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), jobCalls.Load(), "second read served from cache")

	// Company writes spill into the job cache.
	_, err = c.CreateCompany(ctx, CompanyInput{Name: "Acme", Slug: "acme"})
	require.NoError(t, err)
	assert.True(t, c.Cache().Stale(QueryKey{Entity: EntityJob}))

	_, err = c.Jobs(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), jobCalls.Load(), "stale entry refetched on next read")
}

func TestSignup_RegistersAccount(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	mux.HandleFunc("/auth/users/", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		if body["username"] == "taken" {
			writeJSON(w, http.StatusConflict, map[string]string{"message": "user already exist"})
			return
		}
		writeJSON(w, http.StatusCreated, map[string]any{
			"id": 7, "username": body["username"], "email": body["email"],
		})
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	c := newTestClient(t, srv.URL, NewMemStore())
	ctx := context.Background()

	res, err := c.Signup(ctx, SignupInput{Username: "alice", Email: "alice@example.com", Password: "Secret123"})
	require.NoError(t, err)
	assert.Equal(t, uint(7), res.ID)
	assert.Equal(t, "alice", res.Username)
	// Registration does not sign anyone in.
	assert.False(t, c.Session().SignedIn())

	_, err = c.Signup(ctx, SignupInput{Username: "taken", Email: "t@example.com", Password: "Secret123"})
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusConflict, apiErr.StatusCode)
}

func TestPasswordReset_Flow(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	mux.HandleFunc("/auth/users/reset_password/", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "alice@example.com", body["email"])
		w.WriteHeader(http.StatusNoContent)
	})
	mux.HandleFunc("/auth/users/reset_password_confirm/", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		if body["token"] != "good-token" {
			writeJSON(w, http.StatusBadRequest, map[string]string{"message": "invalid or expired token"})
			return
		}
		w.WriteHeader(http.StatusNoContent)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	c := newTestClient(t, srv.URL, NewMemStore())
	ctx := context.Background()

	require.NoError(t, c.ForgotPassword(ctx, "alice@example.com"))

	require.NoError(t, c.ResetPassword(ctx, ResetPasswordInput{
		UID: "1", Token: "good-token", NewPassword: "NewSecret123",
	}))

	err := c.ResetPassword(ctx, ResetPasswordInput{
		UID: "1", Token: "stale-token", NewPassword: "NewSecret123",
	})
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
}

func TestLogout_ClearsSessionEvenIfServerFails(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	mux.HandleFunc("/auth/logout/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"message": "boom"})
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	c := newTestClient(t, srv.URL, NewMemStore())
	c.Session().Set("abc", "admin", "alice")

	c.Logout(context.Background())
	assert.False(t, c.Session().SignedIn())
}
