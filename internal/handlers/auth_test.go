package handlers_test

import (
	"crypto/rand"
	"crypto/rsa"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vancomm/enigmind-server/internal/config"
	"github.com/vancomm/enigmind-server/internal/handlers"
	"github.com/vancomm/enigmind-server/internal/middleware"
)

func newAuthServer(t *testing.T) http.Handler {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	j, err := config.NewJWTWithKeys(key, &key.PublicKey, time.Hour)
	require.NoError(t, err)
	cookies := config.NewCookiesWith(j, "example.com", true, http.SameSiteStrictMode)
	auth := handlers.NewAuth(discard, newMemStore(), cookies, j)

	mux := http.NewServeMux()
	mux.HandleFunc("POST /register", auth.Register)
	mux.HandleFunc("POST /login", auth.Login)
	mux.HandleFunc("POST /logout", auth.Logout)
	mux.HandleFunc("GET /status", auth.Status)
	return middleware.Wrap(mux, middleware.Auth(discard, cookies))
}

func form(path, username, password string) *http.Request {
	body := url.Values{"username": {username}, "password": {password}}.Encode()
	r := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return r
}

func withCookies(r *http.Request, w *httptest.ResponseRecorder) *http.Request {
	for _, c := range w.Result().Cookies() {
		r.AddCookie(c)
	}
	return r
}

func TestRegisterAndLogin(t *testing.T) {
	t.Parallel()
	h := newAuthServer(t)

	w := do(h, form("/register", "alice", "hunter2"))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	status := decode[handlers.Status](t, w)
	assert.True(t, status.LoggedIn)
	require.NotNil(t, status.Player)
	assert.Equal(t, "alice", status.Player.Username)
	registered := w

	w = do(h, form("/register", "alice", "other"))
	assert.Equal(t, http.StatusConflict, w.Code)

	w = do(h, form("/register", "bob", strings.Repeat("x", 73)))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(h, form("/register", "", "pw"))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(h, form("/login", "alice", "wrong"))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = do(h, form("/login", "carol", "hunter2"))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = do(h, form("/login", "alice", "hunter2"))
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, decode[handlers.Status](t, w).LoggedIn)

	w = do(h, withCookies(httptest.NewRequest(http.MethodGet, "/status", nil), registered))
	require.Equal(t, http.StatusOK, w.Code)
	status = decode[handlers.Status](t, w)
	assert.True(t, status.LoggedIn)
	assert.Equal(t, "alice", status.Player.Username)
}

func TestStatusAnonymous(t *testing.T) {
	t.Parallel()
	h := newAuthServer(t)

	w := do(h, httptest.NewRequest(http.MethodGet, "/status", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.False(t, decode[handlers.Status](t, w).LoggedIn)

	r := httptest.NewRequest(http.MethodGet, "/status", nil)
	r.AddCookie(&http.Cookie{Name: "auth", Value: "garbage"})
	r.AddCookie(&http.Cookie{Name: "sign", Value: "garbage"})
	w = do(h, r)
	require.Equal(t, http.StatusOK, w.Code)
	assert.False(t, decode[handlers.Status](t, w).LoggedIn)

	w = do(h, httptest.NewRequest(http.MethodPost, "/logout", nil))
	assert.Equal(t, http.StatusNoContent, w.Code)
	for _, c := range w.Result().Cookies() {
		assert.Negative(t, c.MaxAge)
	}
}
