package httpserver

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/smarthr/portal/internal/authcookie"
	"github.com/smarthr/portal/internal/models"
	"github.com/smarthr/portal/internal/repo"
	"github.com/smarthr/portal/internal/service"
)

func initTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{}, &models.RefreshToken{}, &models.PasswordResetToken{},
		&models.Company{}, &models.Department{}, &models.Status{}, &models.Job{},
		&models.Application{}, &models.Interview{}, &models.PredictedCandidate{},
	))
	require.NoError(t, models.SeedStatuses(db))
	return db
}

func newAuthHandler(t *testing.T) *AuthHTTP {
	t.Helper()

	return &AuthHTTP{Svc: &service.AuthService{
		Repo:          &repo.GormRepo{DB: initTestDB(t)},
		JWTSecret:     []byte("test-jwt-secret"),
		RefreshSecret: []byte("test-refresh-secret"),
	}}
}

func postJSON(t *testing.T, e *echo.Echo, path string, payload any) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()

	data, err := json.Marshal(payload)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(data))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func signupAlice(t *testing.T, e *echo.Echo, h *AuthHTTP) {
	t.Helper()

	c, rec := postJSON(t, e, "/auth/users", map[string]string{
		"username": "alice",
		"email":    "alice@example.com",
		"password": "Secret123",
	})
	require.NoError(t, h.Signup(c))
	require.Equal(t, http.StatusCreated, rec.Code)
}

func refreshCookieFrom(t *testing.T, rec *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()

	for _, cookie := range rec.Result().Cookies() {
		if cookie.Name == authcookie.RefreshCookie {
			return cookie
		}
	}
	t.Fatal("refresh cookie not set")
	return nil
}

func TestAuthHTTP_Signup(t *testing.T) {
	t.Parallel()

	h := newAuthHandler(t)
	e := echo.New()

	signupAlice(t, e, h)

	// Same username again conflicts.
	c, _ := postJSON(t, e, "/auth/users", map[string]string{
		"username": "alice",
		"email":    "alice@example.com",
		"password": "Secret123",
	})
	err := h.Signup(c)
	he, ok := err.(*echo.HTTPError)
	require.True(t, ok)
	assert.Equal(t, http.StatusConflict, he.Code)
}

func TestAuthHTTP_Login_SetsRefreshCookieAndReturnsAccess(t *testing.T) {
	t.Parallel()

	h := newAuthHandler(t)
	e := echo.New()
	signupAlice(t, e, h)

	c, rec := postJSON(t, e, "/auth/jwt/create", map[string]string{
		"username": "alice",
		"password": "Secret123",
	})
	require.NoError(t, h.Login(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.NotEmpty(t, body["access"])
	assert.Equal(t, models.RoleUser, body["role"])

	cookie := refreshCookieFrom(t, rec)
	assert.True(t, cookie.HttpOnly)
	assert.Equal(t, authcookie.Path, cookie.Path)
	assert.NotEmpty(t, cookie.Value)
}

func TestAuthHTTP_Login_WrongPassword(t *testing.T) {
	t.Parallel()

	h := newAuthHandler(t)
	e := echo.New()
	signupAlice(t, e, h)

	c, _ := postJSON(t, e, "/auth/jwt/create", map[string]string{
		"username": "alice",
		"password": "wrong",
	})
	err := h.Login(c)
	he, ok := err.(*echo.HTTPError)
	require.True(t, ok)
	assert.Equal(t, http.StatusUnauthorized, he.Code)
}

func TestAuthHTTP_Refresh_RotatesCookie(t *testing.T) {
	t.Parallel()

	h := newAuthHandler(t)
	e := echo.New()
	signupAlice(t, e, h)

	c, rec := postJSON(t, e, "/auth/jwt/create", map[string]string{
		"username": "alice",
		"password": "Secret123",
	})
	require.NoError(t, h.Login(c))
	oldCookie := refreshCookieFrom(t, rec)

	req := httptest.NewRequest(http.MethodPost, "/auth/jwt/refresh", nil)
	req.AddCookie(oldCookie)
	refreshRec := httptest.NewRecorder()
	require.NoError(t, h.Refresh(e.NewContext(req, refreshRec)))
	require.Equal(t, http.StatusOK, refreshRec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(refreshRec.Body.Bytes(), &body))
	assert.NotEmpty(t, body["access"])

	newCookie := refreshCookieFrom(t, refreshRec)
	assert.NotEqual(t, oldCookie.Value, newCookie.Value)

	// The rotated-out cookie is now worthless.
	replay := httptest.NewRequest(http.MethodPost, "/auth/jwt/refresh", nil)
	replay.AddCookie(oldCookie)
	err := h.Refresh(e.NewContext(replay, httptest.NewRecorder()))
	he, ok := err.(*echo.HTTPError)
	require.True(t, ok)
	assert.Equal(t, http.StatusUnauthorized, he.Code)
}

func TestAuthHTTP_Refresh_MissingCookie(t *testing.T) {
	t.Parallel()

	h := newAuthHandler(t)
	e := echo.New()

	req := httptest.NewRequest(http.MethodPost, "/auth/jwt/refresh", nil)
	err := h.Refresh(e.NewContext(req, httptest.NewRecorder()))
	he, ok := err.(*echo.HTTPError)
	require.True(t, ok)
	assert.Equal(t, http.StatusUnauthorized, he.Code)
}

func TestAuthHTTP_Logout_ClearsCookie(t *testing.T) {
	t.Parallel()

	h := newAuthHandler(t)
	e := echo.New()
	signupAlice(t, e, h)

	c, rec := postJSON(t, e, "/auth/jwt/create", map[string]string{
		"username": "alice",
		"password": "Secret123",
	})
	require.NoError(t, h.Login(c))
	cookie := refreshCookieFrom(t, rec)

	req := httptest.NewRequest(http.MethodPost, "/auth/logout", nil)
	req.AddCookie(cookie)
	logoutRec := httptest.NewRecorder()
	require.NoError(t, h.Logout(e.NewContext(req, logoutRec)))
	require.Equal(t, http.StatusOK, logoutRec.Code)

	cleared := refreshCookieFrom(t, logoutRec)
	assert.Empty(t, cleared.Value)
	assert.True(t, cleared.MaxAge < 0 || cleared.Expires.Unix() <= 0)

	// The revoked token cannot refresh anymore.
	replay := httptest.NewRequest(http.MethodPost, "/auth/jwt/refresh", nil)
	replay.AddCookie(cookie)
	err := h.Refresh(e.NewContext(replay, httptest.NewRecorder()))
	he, ok := err.(*echo.HTTPError)
	require.True(t, ok)
	assert.Equal(t, http.StatusUnauthorized, he.Code)
}
