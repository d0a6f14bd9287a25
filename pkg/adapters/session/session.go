package session

import (
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/wadjakorntonsri/go-site-directory/pkg/core/domain"
)

const CookieName = "session"

// Claims carries the subject/role pair. The signature replaces trust in
// plain client-supplied values.
type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// Manager issues and reads the signed session cookie
type Manager struct {
	secret []byte
	ttl    time.Duration
	secure bool
	now    func() time.Time
}

func NewManager(secret string, ttl time.Duration, secure bool) *Manager {
	return &Manager{
		secret: []byte(secret),
		ttl:    ttl,
		secure: secure,
		now:    time.Now,
	}
}

// WithClock overrides the time source for token expiry
func (m *Manager) WithClock(now func() time.Time) *Manager {
	m.now = now
	return m
}

// Read returns the session pair, or an empty token when the cookie is
// missing, malformed, expired, wrongly signed or only half populated.
func (m *Manager) Read(r *http.Request) domain.SessionToken {
	cookie, err := r.Cookie(CookieName)
	if err != nil || cookie.Value == "" {
		return domain.SessionToken{}
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(cookie.Value, claims, func(token *jwt.Token) (interface{}, error) {
		return m.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil || !token.Valid {
		return domain.SessionToken{}
	}

	if claims.Subject == "" || claims.Role == "" {
		return domain.SessionToken{}
	}
	return domain.SessionToken{SubjectID: claims.Subject, Role: claims.Role}
}

// Issue signs a session for user with an absolute expiry and sets the cookie.
func (m *Manager) Issue(w http.ResponseWriter, user *domain.User) (time.Time, error) {
	now := m.now()
	expirationTime := now.Add(m.ttl)
	claims := &Claims{
		Role: string(user.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expirationTime),
		},
	}

	tokenString, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return time.Time{}, fmt.Errorf("sign session: %w", err)
	}

	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    tokenString,
		Expires:  expirationTime,
		MaxAge:   int(m.ttl.Seconds()),
		Path:     "/",
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})
	return expirationTime, nil
}

func (m *Manager) Clear(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		Path:     "/",
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})
}
