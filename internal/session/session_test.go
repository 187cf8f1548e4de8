package session

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/platescout/platescout/pkg/config"
)

func newTestManager(ttl time.Duration) *Manager {
	return NewManager(&config.SessionConfig{Secret: "test-secret", TTL: ttl})
}

func requestWithCookies(t *testing.T, rec *httptest.ResponseRecorder) *http.Request {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range rec.Result().Cookies() {
		req.AddCookie(c)
	}
	return req
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	m := newTestManager(time.Hour)

	rec := httptest.NewRecorder()
	require.NoError(t, m.Save(rec, &Session{UserID: "alice", Search: "?borough=Brooklyn"}))

	sess := m.Load(requestWithCookies(t, rec))
	assert.Equal(t, "alice", sess.UserID)
	assert.Equal(t, "?borough=Brooklyn", sess.Search)
	assert.True(t, sess.LoggedIn())
}

func TestLoadWithoutCookieIsAnonymous(t *testing.T) {
	m := newTestManager(time.Hour)

	sess := m.Load(httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Empty(t, sess.UserID)
	assert.False(t, sess.LoggedIn())
}

func TestLoadRejectsTamperedCookie(t *testing.T) {
	m := newTestManager(time.Hour)

	rec := httptest.NewRecorder()
	require.NoError(t, m.Save(rec, &Session{UserID: "alice"}))

	cookie := rec.Result().Cookies()[0]
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: cookie.Name, Value: cookie.Value + "x"})

	sess := m.Load(req)
	assert.False(t, sess.LoggedIn())
}

func TestLoadRejectsWrongSecret(t *testing.T) {
	m := newTestManager(time.Hour)
	other := NewManager(&config.SessionConfig{Secret: "other-secret", TTL: time.Hour})

	rec := httptest.NewRecorder()
	require.NoError(t, m.Save(rec, &Session{UserID: "alice"}))

	sess := other.Load(requestWithCookies(t, rec))
	assert.False(t, sess.LoggedIn())
}

func TestLoadRejectsExpiredSession(t *testing.T) {
	m := newTestManager(-time.Minute)

	rec := httptest.NewRecorder()
	require.NoError(t, m.Save(rec, &Session{UserID: "alice"}))

	sess := m.Load(requestWithCookies(t, rec))
	assert.False(t, sess.LoggedIn())
}

func TestClearExpiresCookie(t *testing.T) {
	m := newTestManager(time.Hour)

	rec := httptest.NewRecorder()
	m.Clear(rec)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, CookieName, cookies[0].Name)
	assert.Negative(t, cookies[0].MaxAge)
}
