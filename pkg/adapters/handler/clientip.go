package handler

import (
	"net"
	"net/http"
	"strings"

	"github.com/wadjakorntonsri/go-site-directory/pkg/core/domain"
)

// ExtractClientIP returns the best-effort client address: first X-Forwarded-For
// hop, then X-Real-IP, then RemoteAddr without its port.
func ExtractClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		return strings.TrimSpace(first)
	}

	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return strings.TrimSpace(xri)
	}

	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}

func clientMeta(r *http.Request) domain.ClientMeta {
	return domain.ClientMeta{
		IP:        ExtractClientIP(r),
		UserAgent: r.UserAgent(),
	}
}
