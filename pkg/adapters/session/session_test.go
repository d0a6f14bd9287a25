package session

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wadjakorntonsri/go-site-directory/pkg/core/domain"
)

const testSecret = "test-secret"

var issuedAt = time.Date(2024, time.March, 15, 12, 0, 0, 0, time.UTC)

func requestWithCookie(c *http.Cookie) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	if c != nil {
		req.AddCookie(c)
	}
	return req
}

func issueCookie(t *testing.T, m *Manager, user *domain.User) *http.Cookie {
	t.Helper()
	rr := httptest.NewRecorder()
	_, err := m.Issue(rr, user)
	require.NoError(t, err)
	cookies := rr.Result().Cookies()
	require.Len(t, cookies, 1)
	return cookies[0]
}

func signClaims(t *testing.T, method jwt.SigningMethod, key any, claims *Claims) string {
	t.Helper()
	s, err := jwt.NewWithClaims(method, claims).SignedString(key)
	require.NoError(t, err)
	return s
}

func TestIssueAndRead(t *testing.T) {
	now := issuedAt
	m := NewManager(testSecret, 7*24*time.Hour, true).WithClock(func() time.Time { return now })

	rr := httptest.NewRecorder()
	expiresAt, err := m.Issue(rr, &domain.User{ID: "u1", Role: domain.RoleAdmin})
	require.NoError(t, err)
	assert.True(t, expiresAt.Equal(issuedAt.Add(7*24*time.Hour)))

	cookies := rr.Result().Cookies()
	require.Len(t, cookies, 1)
	cookie := cookies[0]
	assert.Equal(t, CookieName, cookie.Name)
	assert.True(t, cookie.HttpOnly)
	assert.True(t, cookie.Secure)
	assert.Equal(t, http.SameSiteLaxMode, cookie.SameSite)

	token := m.Read(requestWithCookie(cookie))
	assert.Equal(t, domain.SessionToken{SubjectID: "u1", Role: "ADMIN"}, token)
}

func TestReadTreatsBadTokensAsAbsent(t *testing.T) {
	now := issuedAt
	m := NewManager(testSecret, time.Hour, false).WithClock(func() time.Time { return now })
	valid := issueCookie(t, m, &domain.User{ID: "u1", Role: domain.RoleAdmin})

	future := jwt.NewNumericDate(issuedAt.Add(time.Hour))

	tests := []struct {
		name   string
		cookie *http.Cookie
	}{
		{name: "missing cookie"},
		{name: "empty value", cookie: &http.Cookie{Name: CookieName, Value: ""}},
		{name: "garbage", cookie: &http.Cookie{Name: CookieName, Value: "not-a-jwt"}},
		{name: "wrong cookie name", cookie: &http.Cookie{Name: "auth_token", Value: valid.Value}},
		{
			name: "wrong secret",
			cookie: &http.Cookie{Name: CookieName, Value: signClaims(t, jwt.SigningMethodHS256, []byte("other"), &Claims{
				Role:             "ADMIN",
				RegisteredClaims: jwt.RegisteredClaims{Subject: "u1", ExpiresAt: future},
			})},
		},
		{
			name: "unsigned",
			cookie: &http.Cookie{Name: CookieName, Value: signClaims(t, jwt.SigningMethodNone, jwt.UnsafeAllowNoneSignatureType, &Claims{
				Role:             "ADMIN",
				RegisteredClaims: jwt.RegisteredClaims{Subject: "u1", ExpiresAt: future},
			})},
		},
		{
			name: "no expiry",
			cookie: &http.Cookie{Name: CookieName, Value: signClaims(t, jwt.SigningMethodHS256, []byte(testSecret), &Claims{
				Role:             "ADMIN",
				RegisteredClaims: jwt.RegisteredClaims{Subject: "u1"},
			})},
		},
		{
			name: "missing role",
			cookie: &http.Cookie{Name: CookieName, Value: signClaims(t, jwt.SigningMethodHS256, []byte(testSecret), &Claims{
				RegisteredClaims: jwt.RegisteredClaims{Subject: "u1", ExpiresAt: future},
			})},
		},
		{
			name: "missing subject",
			cookie: &http.Cookie{Name: CookieName, Value: signClaims(t, jwt.SigningMethodHS256, []byte(testSecret), &Claims{
				Role:             "ADMIN",
				RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: future},
			})},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token := m.Read(requestWithCookie(tt.cookie))
			assert.False(t, token.Present())
			assert.Equal(t, domain.SessionToken{}, token)
		})
	}
}

func TestReadRejectsExpiredSession(t *testing.T) {
	now := issuedAt
	m := NewManager(testSecret, time.Hour, false).WithClock(func() time.Time { return now })
	cookie := issueCookie(t, m, &domain.User{ID: "u1", Role: domain.RoleAdmin})

	now = issuedAt.Add(59 * time.Minute)
	assert.True(t, m.Read(requestWithCookie(cookie)).Present())

	now = issuedAt.Add(2 * time.Hour)
	assert.False(t, m.Read(requestWithCookie(cookie)).Present())
}

func TestClear(t *testing.T) {
	m := NewManager(testSecret, time.Hour, false)
	rr := httptest.NewRecorder()
	m.Clear(rr)

	cookies := rr.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, CookieName, cookies[0].Name)
	assert.Empty(t, cookies[0].Value)
	assert.Less(t, cookies[0].MaxAge, 0)
}
