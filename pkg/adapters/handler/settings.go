package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/rs/zerolog/hlog"
	"github.com/wadjakorntonsri/go-site-directory/pkg/core/domain"
	"github.com/wadjakorntonsri/go-site-directory/pkg/ports"
)

const pingTimeout = 3 * time.Second

type SettingsHandler struct {
	settings ports.SettingsService
	db       ports.DatabaseInspector
}

func NewSettingsHandler(settings ports.SettingsService, db ports.DatabaseInspector) *SettingsHandler {
	return &SettingsHandler{settings: settings, db: db}
}

type publicSettings struct {
	SiteName        string `json:"siteName"`
	SiteDescription string `json:"siteDescription"`
	SiteKeywords    string `json:"siteKeywords"`
	FooterText      string `json:"footerText"`
}

// Public returns the settings the public page renders, without the row id
func (h *SettingsHandler) Public(w http.ResponseWriter, r *http.Request) {
	settings, err := h.settings.Get(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, publicSettings{
		SiteName:        settings.SiteName,
		SiteDescription: settings.SiteDescription,
		SiteKeywords:    settings.SiteKeywords,
		FooterText:      settings.FooterText,
	})
}

func (h *SettingsHandler) Get(w http.ResponseWriter, r *http.Request) {
	settings, err := h.settings.Get(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, settings)
}

func (h *SettingsHandler) Update(w http.ResponseWriter, r *http.Request) {
	var update domain.SettingsUpdate
	if err := decodeAndValidate(w, r, &update); err != nil {
		writeError(w, r, err)
		return
	}
	settings, err := h.settings.Update(r.Context(), update)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, settings)
}

// DatabaseInfo reports the configured store and whether it answers a ping
func (h *SettingsHandler) DatabaseInfo(w http.ResponseWriter, r *http.Request) {
	info := h.db.DatabaseInfo()

	ctx, cancel := context.WithTimeout(r.Context(), pingTimeout)
	defer cancel()

	info.Status = "connected"
	if err := h.db.Ping(ctx); err != nil {
		hlog.FromRequest(r).Warn().Err(err).Msg("database ping failed")
		info.Status = "error"
	}
	writeJSON(w, http.StatusOK, info)
}
