package middleware_test

import (
	"crypto/rand"
	"crypto/rsa"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vancomm/enigmind-server/internal/config"
	"github.com/vancomm/enigmind-server/internal/middleware"
)

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

func TestWrapOrder(t *testing.T) {
	var order []string
	tag := func(name string) middleware.Middleware {
		return func(h http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				h.ServeHTTP(w, r)
			})
		}
	}
	h := middleware.Wrap(http.NotFoundHandler(), tag("inner"), tag("outer"))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, []string{"outer", "inner"}, order)
}

func TestLoggingRequestId(t *testing.T) {
	var seen string
	h := middleware.Wrap(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			seen = middleware.RequestId(r.Context())
			w.WriteHeader(http.StatusTeapot)
		}),
		middleware.Logging(discard),
	)

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusTeapot, w.Code)
	assert.NotEmpty(t, seen)
	assert.Equal(t, seen, w.Header().Get("X-Request-Id"))

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set("X-Request-Id", "abc")
	w = httptest.NewRecorder()
	h.ServeHTTP(w, r)
	assert.Equal(t, "abc", seen)
}

func TestCors(t *testing.T) {
	h := middleware.Wrap(http.NotFoundHandler(), middleware.Cors([]string{"https://a.example"}))

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set("Origin", "https://a.example")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)
	assert.Equal(t, "https://a.example", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", w.Header().Get("Access-Control-Allow-Credentials"))

	r = httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set("Origin", "https://evil.example")
	w = httptest.NewRecorder()
	h.ServeHTTP(w, r)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}

func TestAuth(t *testing.T) {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	j, err := config.NewJWTWithKeys(key, &key.PublicKey, time.Hour)
	require.NoError(t, err)
	cookies := config.NewCookiesWith(j, "example.com", false, http.SameSiteLaxMode)

	var claims *config.PlayerClaims
	var loggedIn bool
	h := middleware.Wrap(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, loggedIn = middleware.PlayerClaims(r.Context())
		}),
		middleware.Auth(discard, cookies),
	)

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	assert.False(t, loggedIn)

	token, err := j.Sign(config.NewPlayerClaims(3, "bob"))
	require.NoError(t, err)
	set := httptest.NewRecorder()
	require.NoError(t, cookies.Refresh(set, token))
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range set.Result().Cookies() {
		r.AddCookie(c)
	}
	h.ServeHTTP(httptest.NewRecorder(), r)
	require.True(t, loggedIn)
	assert.Equal(t, "bob", claims.Username)

	r = httptest.NewRequest(http.MethodGet, "/", nil)
	r.AddCookie(&http.Cookie{Name: "auth", Value: "x"})
	r.AddCookie(&http.Cookie{Name: "sign", Value: "y"})
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)
	assert.False(t, loggedIn)
	assert.NotEmpty(t, w.Result().Cookies())
}
