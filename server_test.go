package main

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gocontroll/moduline-webui/internal/auth"
	"github.com/gocontroll/moduline-webui/internal/config"
	"github.com/gocontroll/moduline-webui/internal/identity"
)

// newTestServer builds a server around the development identity
// (serial "test", client key "test").
func newTestServer(t *testing.T) *Server {
	t.Helper()

	cfg := config.New(filepath.Join(t.TempDir(), "config.json"))
	require.NoError(t, cfg.Load())

	ident, err := auth.NewIdentity(identity.DevSerialNumber, "test")
	require.NoError(t, err)

	return NewServer(cfg, ident, identity.DevSerialNumber)
}

func postLogin(handler http.Handler, sn, clientKey string) *httptest.ResponseRecorder {
	form := url.Values{"sn": {sn}, "client_key": {clientKey}}
	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func sessionCookie(t *testing.T, rec *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range rec.Result().Cookies() {
		if c.Name == auth.SessionCookieName && c.Value != "" {
			return c
		}
	}
	return nil
}

func TestLoginLogoutFlow(t *testing.T) {
	srv := newTestServer(t)
	handler := srv.SetupRoutes()

	// Correct credentials: redirect home with a session cookie.
	rec := postLogin(handler, "test", "test")
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/", rec.Header().Get("Location"))
	cookie := sessionCookie(t, rec)
	require.NotNil(t, cookie, "login must set a session cookie")
	assert.True(t, cookie.HttpOnly)

	// The cookie grants access to the protected home page.
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(cookie)
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "GOcontroll Moduline")

	// Logout clears the session and redirects to the login page.
	req = httptest.NewRequest(http.MethodPost, "/logout", nil)
	req.AddCookie(cookie)
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/login", rec.Header().Get("Location"))

	// The old cookie no longer grants access.
	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(cookie)
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/login", rec.Header().Get("Location"))
}

func TestLoginBadCredentials(t *testing.T) {
	srv := newTestServer(t)
	handler := srv.SetupRoutes()

	for _, tc := range []struct{ sn, clientKey string }{
		{"wrong", "test"},
		{"test", "wrong"},
		{"", ""},
	} {
		rec := postLogin(handler, tc.sn, tc.clientKey)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Nil(t, sessionCookie(t, rec), "failed login must not set a session cookie")
	}
}

func TestProtectedRoutesRedirectUnauthenticated(t *testing.T) {
	srv := newTestServer(t)
	handler := srv.SetupRoutes()

	for _, path := range []string{"/", "/ws", "/nonexistent"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusFound, rec.Code, "path %s", path)
		assert.Equal(t, "/login", rec.Header().Get("Location"), "path %s", path)
	}
}

func TestLoginPage(t *testing.T) {
	srv := newTestServer(t)
	handler := srv.SetupRoutes()

	// Unauthenticated GET serves the form.
	req := httptest.NewRequest(http.MethodGet, "/login", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `action="/login"`)

	// An authenticated GET is bounced straight home.
	loginRec := postLogin(handler, "test", "test")
	cookie := sessionCookie(t, loginRec)
	require.NotNil(t, cookie)

	req = httptest.NewRequest(http.MethodGet, "/login", nil)
	req.AddCookie(cookie)
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/", rec.Header().Get("Location"))
}

func TestLogoutWithoutSession(t *testing.T) {
	srv := newTestServer(t)
	handler := srv.SetupRoutes()

	// Idempotent logout: no session, still a redirect to the login page.
	req := httptest.NewRequest(http.MethodPost, "/logout", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/login", rec.Header().Get("Location"))
}

func TestStaticAssetsArePublic(t *testing.T) {
	srv := newTestServer(t)
	handler := srv.SetupRoutes()

	// The login page needs its stylesheet before any session exists.
	req := httptest.NewRequest(http.MethodGet, "/style.css", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/css", rec.Header().Get("Content-Type"))
}

func TestDeviceStatus(t *testing.T) {
	srv := newTestServer(t)

	status := srv.deviceStatus()
	assert.Equal(t, identity.DevSerialNumber, status.SerialNumber)
	assert.NotEmpty(t, status.Hostname)
	assert.Equal(t, 0, status.SessionCount)

	_, err := srv.sessions.Create()
	require.NoError(t, err)
	assert.Equal(t, 1, srv.deviceStatus().SessionCount)
}
