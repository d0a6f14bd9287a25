package handler

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"
	"github.com/wadjakorntonsri/go-site-directory/pkg/core/domain"
	"github.com/wadjakorntonsri/go-site-directory/pkg/ports"
)

// ReturnToParam is the login page query parameter carrying the original path
const ReturnToParam = "redirect"

const requestIDHeader = "X-Request-ID"

type contextKey string

const sessionContextKey contextKey = "session"

type Middleware struct {
	gate     ports.AccessGate
	sessions ports.SessionReader
}

func NewMiddleware(gate ports.AccessGate, sessions ports.SessionReader) *Middleware {
	return &Middleware{gate: gate, sessions: sessions}
}

// Gate runs the access gate for every request before routing
func (m *Middleware) Gate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := m.sessions.Read(r)
		decision := m.gate.Decide(r.URL.Path, token)
		gateDecisionsTotal.WithLabelValues(string(decision.Reason)).Inc()

		if decision.Allow {
			ctx := context.WithValue(r.Context(), sessionContextKey, token)
			next.ServeHTTP(w, r.WithContext(ctx))
			return
		}

		hlog.FromRequest(r).Debug().
			Str("path", r.URL.Path).
			Str("reason", string(decision.Reason)).
			Msg("access gate redirect")

		if isAPIRequest(r) {
			switch decision.Reason {
			case domain.ReasonLoginRequired:
				writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "authentication required"})
				return
			case domain.ReasonInsufficientRole:
				writeJSON(w, http.StatusForbidden, errorResponse{Error: "insufficient role"})
				return
			}
		}

		http.Redirect(w, r, redirectTarget(decision), http.StatusSeeOther)
	})
}

func redirectTarget(decision domain.AccessDecision) string {
	if decision.ReturnTo == "" {
		return decision.RedirectTo
	}
	target := url.URL{
		Path:     decision.RedirectTo,
		RawQuery: url.Values{ReturnToParam: {decision.ReturnTo}}.Encode(),
	}
	return target.String()
}

// SessionFromContext returns the session the gate admitted the request with
func SessionFromContext(ctx context.Context) domain.SessionToken {
	token, _ := ctx.Value(sessionContextKey).(domain.SessionToken)
	return token
}

// RequestID tags the request logger with an ID and echoes it to the client.
// A client ID is only reused when it is a UUID.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(requestIDHeader)
		if parsed, err := uuid.Parse(id); err == nil {
			id = parsed.String()
		} else {
			id = uuid.NewString()
		}
		w.Header().Set(requestIDHeader, id)

		zerolog.Ctx(r.Context()).UpdateContext(func(c zerolog.Context) zerolog.Context {
			return c.Str("request_id", id)
		})
		next.ServeHTTP(w, r)
	})
}

// AccessLog writes one line per request
func AccessLog(next http.Handler) http.Handler {
	return hlog.AccessHandler(func(r *http.Request, status, size int, duration time.Duration) {
		hlog.FromRequest(r).Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", status).
			Int("size", size).
			Dur("duration", duration).
			Msg("request")
	})(next)
}

func isAPIRequest(r *http.Request) bool {
	return strings.HasPrefix(r.URL.Path, "/api/")
}
