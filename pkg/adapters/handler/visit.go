package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/rs/zerolog/hlog"
	"github.com/wadjakorntonsri/go-site-directory/pkg/core/domain"
	"github.com/wadjakorntonsri/go-site-directory/pkg/ports"
)

type VisitHandler struct {
	visits  ports.VisitAggregator
	catalog ports.CatalogService
	timeout time.Duration
}

func NewVisitHandler(visits ports.VisitAggregator, catalog ports.CatalogService, timeout time.Duration) *VisitHandler {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &VisitHandler{visits: visits, catalog: catalog, timeout: timeout}
}

type trackRequest struct {
	SiteID string `json:"siteId" validate:"required"`
}

type trackResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// Track records one visit posted by the public page (navigator.sendBeacon)
func (h *VisitHandler) Track(w http.ResponseWriter, r *http.Request) {
	var req trackRequest
	if err := decodeAndValidate(w, r, &req); err != nil {
		observeIngest(err)
		writeJSON(w, http.StatusBadRequest, trackResponse{Error: err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	_, err := h.visits.RecordVisit(ctx, req.SiteID, clientMeta(r))
	observeIngest(err)
	if err != nil {
		status := errorStatus(err)
		if status == http.StatusInternalServerError {
			hlog.FromRequest(r).Error().Err(err).Str("site_id", req.SiteID).Msg("failed to record visit")
		}
		writeJSON(w, status, trackResponse{Error: publicMessage(err, status)})
		return
	}

	writeJSON(w, http.StatusOK, trackResponse{Success: true})
}

// Open redirects to a published site and records the visit in the background
func (h *VisitHandler) Open(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	site, err := h.catalog.GetSite(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if !site.IsPublished {
		writeError(w, r, &domain.NotFoundError{Resource: "site", ID: id})
		return
	}

	meta := clientMeta(r)
	logger := *hlog.FromRequest(r)
	go func() {
		// The request context is cancelled once the redirect is written
		ctx, cancel := context.WithTimeout(logger.WithContext(context.Background()), h.timeout)
		defer cancel()

		_, err := h.visits.RecordVisit(ctx, site.ID, meta)
		observeIngest(err)
		if err != nil && !errors.Is(err, domain.ErrPersistence) {
			logger.Warn().Err(err).Str("site_id", site.ID).Msg("visit not recorded")
		}
	}()

	http.Redirect(w, r, site.URL, http.StatusFound)
}
