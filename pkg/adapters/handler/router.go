package handler

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"
	"github.com/wadjakorntonsri/go-site-directory/pkg/config"
	"github.com/wadjakorntonsri/go-site-directory/pkg/ports"
)

// Services are the ports the HTTP layer is wired to
type Services struct {
	Gate     ports.AccessGate
	Sessions SessionStore
	Visits   ports.VisitAggregator
	Catalog  ports.CatalogService
	Auth     ports.AuthService
	Settings ports.SettingsService
	Database ports.DatabaseInspector
}

// SessionStore reads and issues the session cookie
type SessionStore interface {
	ports.SessionReader
	ports.SessionIssuer
}

// NewRouter creates and configures the main application router
func NewRouter(cfg *config.Config, svc Services, logger zerolog.Logger) http.Handler {
	vh := NewVisitHandler(svc.Visits, svc.Catalog, cfg.IngestTimeout)
	sh := NewStatsHandler(svc.Visits)
	ah := NewAuthHandler(cfg, svc.Auth, svc.Sessions)
	ch := NewCatalogHandler(svc.Catalog)
	seth := NewSettingsHandler(svc.Settings, svc.Database)
	mw := NewMiddleware(svc.Gate, svc.Sessions)

	mux := http.NewServeMux()

	// Public Routes
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"message": "ok"})
	})
	if cfg.MetricsEnabled {
		mux.Handle("GET /metrics", promhttp.Handler())
	}
	mux.HandleFunc("GET /{$}", ch.PublicCategories)
	mux.HandleFunc("GET /api/categories", ch.PublicCategories)
	mux.HandleFunc("GET /api/search", ch.Search)
	mux.HandleFunc("GET /api/settings", seth.Public)
	mux.HandleFunc("POST /api/visit", vh.Track)
	mux.HandleFunc("GET /go/{id}", vh.Open)
	mux.HandleFunc("GET /auth/google/login", ah.GoogleLogin)
	mux.HandleFunc("GET /auth/google/callback", ah.GoogleCallback)

	// Back office; the gate has already admitted these
	mux.HandleFunc("POST /api/admin/login", ah.Login)
	mux.HandleFunc("POST /api/admin/logout", ah.Logout)
	mux.HandleFunc("GET /api/admin/me", ah.Me)

	mux.HandleFunc("GET /api/admin/stats/sites", sh.Sites)
	mux.HandleFunc("GET /api/admin/stats/users", sh.Users)
	mux.HandleFunc("GET /api/admin/stats/categories", sh.Categories)
	mux.HandleFunc("GET /api/admin/stats/visits", sh.Visits)
	mux.HandleFunc("GET /api/admin/stats/frequency", sh.Frequency)
	mux.HandleFunc("GET /api/admin/stats/agents", sh.Agents)

	mux.HandleFunc("GET /api/admin/categories", ch.ListCategories)
	mux.HandleFunc("POST /api/admin/categories", ch.CreateCategory)
	mux.HandleFunc("PUT /api/admin/categories/{id}", ch.UpdateCategory)
	mux.HandleFunc("DELETE /api/admin/categories/{id}", ch.DeleteCategory)

	mux.HandleFunc("GET /api/admin/sites", ch.ListSites)
	mux.HandleFunc("POST /api/admin/sites", ch.CreateSite)
	mux.HandleFunc("GET /api/admin/sites/{id}", ch.GetSite)
	mux.HandleFunc("PUT /api/admin/sites/{id}", ch.UpdateSite)
	mux.HandleFunc("DELETE /api/admin/sites/{id}", ch.DeleteSite)

	mux.HandleFunc("GET /api/admin/settings", seth.Get)
	mux.HandleFunc("POST /api/admin/settings", seth.Update)
	mux.HandleFunc("GET /api/admin/database-info", seth.DatabaseInfo)

	mux.Handle("GET /admin/", adminPages(cfg.AdminStaticDir))

	var h http.Handler = Instrument(mux)
	h = mw.Gate(h)
	h = AccessLog(h)
	h = RequestID(h)
	h = hlog.NewHandler(logger)(h)
	return h
}

// adminPages serves the built back office bundle. Without one, it answers
// with the page path so the gated routes stay observable.
func adminPages(dir string) http.Handler {
	if dir != "" {
		return http.StripPrefix("/admin/", http.FileServer(http.Dir(dir)))
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := SessionFromContext(r.Context())
		writeJSON(w, http.StatusOK, map[string]string{
			"page":    r.URL.Path,
			"subject": token.SubjectID,
		})
	})
}
