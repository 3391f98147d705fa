package kit

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlash_RoundTrip(t *testing.T) {
	set := httptest.NewRecorder()
	SetFlash(set, FlashSuccess, `Subscribed to "Sneaker"!`)

	cookies := set.Result().Cookies()
	require.Len(t, cookies, 1)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(cookies[0])
	rec := httptest.NewRecorder()

	f, ok := PopFlash(rec, req)
	require.True(t, ok)
	assert.Equal(t, Flash{Kind: FlashSuccess, Message: `Subscribed to "Sneaker"!`}, f)

	expired := rec.Result().Cookies()
	require.Len(t, expired, 1)
	assert.Equal(t, flashCookie, expired[0].Name)
	assert.Negative(t, expired[0].MaxAge)
}

func TestFlash_AbsentOrCorrupt(t *testing.T) {
	_, ok := PopFlash(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	assert.False(t, ok)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: flashCookie, Value: "%%%"})
	_, ok = PopFlash(httptest.NewRecorder(), req)
	assert.False(t, ok)
}

func TestRedirectWithFlash(t *testing.T) {
	rec := httptest.NewRecorder()
	RedirectWithFlash(rec, httptest.NewRequest(http.MethodPost, "/", nil), "/admin", FlashInfo, "hi")

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/admin", rec.Header().Get("Location"))
	require.Len(t, rec.Result().Cookies(), 1)
}

func TestIPRateLimiter_Window(t *testing.T) {
	l := NewIPRateLimiter(2, time.Minute)
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return now }

	assert.True(t, l.Allow("1.2.3.4"))
	assert.True(t, l.Allow("1.2.3.4"))
	assert.False(t, l.Allow("1.2.3.4"))
	assert.True(t, l.Allow("5.6.7.8"), "keys are independent")

	now = now.Add(61 * time.Second)
	assert.True(t, l.Allow("1.2.3.4"))
}

func TestIPRateLimiter_Middleware(t *testing.T) {
	l := NewIPRateLimiter(1, time.Minute)
	h := l.Middleware(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	do := func(remote string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/admin_login", nil)
		req.RemoteAddr = remote
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec
	}

	assert.Equal(t, http.StatusNoContent, do("10.0.0.1:5555").Code)
	blocked := do("10.0.0.1:6666")
	assert.Equal(t, http.StatusTooManyRequests, blocked.Code, "the port is not part of the key")
	assert.Equal(t, "60", blocked.Header().Get("Retry-After"))

	assert.Equal(t, http.StatusNoContent, do("10.0.0.2:5555").Code)

	l.OnLimit = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})
	assert.Equal(t, http.StatusTeapot, do("10.0.0.1:5555").Code)
}

func TestIPRateLimiter_IgnoresForwardedFor(t *testing.T) {
	l := NewIPRateLimiter(5, time.Minute)
	h := l.Middleware(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	limited := 0
	for i := 0; i < 50; i++ {
		req := httptest.NewRequest(http.MethodPost, "/admin_login", nil)
		req.RemoteAddr = "198.51.100.7:40000"
		req.Header.Set("X-Forwarded-For", "10.0.0."+strconv.Itoa(i))
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		if rec.Code == http.StatusTooManyRequests {
			limited++
		}
	}

	assert.Equal(t, 45, limited)
	assert.Len(t, l.hits, 1)
}

func TestIPRateLimiter_SweepsIdleKeys(t *testing.T) {
	l := NewIPRateLimiter(5, time.Minute)
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return now }

	for i := 0; i < 100; i++ {
		l.Allow("10.0.0." + strconv.Itoa(i))
	}
	require.Len(t, l.hits, 100)

	now = now.Add(2 * time.Minute)
	assert.True(t, l.Allow("192.0.2.1"))
	assert.Len(t, l.hits, 1)
}

func TestMetricsAuth(t *testing.T) {
	ok := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) })

	call := func(token, header string) int {
		req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		rec := httptest.NewRecorder()
		MetricsAuth(token)(ok).ServeHTTP(rec, req)
		return rec.Code
	}

	assert.Equal(t, http.StatusForbidden, call("", "Bearer "))
	assert.Equal(t, http.StatusForbidden, call("t0k", ""))
	assert.Equal(t, http.StatusForbidden, call("t0k", "Bearer nope"))
	assert.Equal(t, http.StatusForbidden, call("t0k", "t0k"))
	assert.Equal(t, http.StatusOK, call("t0k", "Bearer t0k"))
}
