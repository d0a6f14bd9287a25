package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/rs/zerolog/hlog"
	"github.com/wadjakorntonsri/go-site-directory/pkg/core/domain"
	"github.com/wadjakorntonsri/go-site-directory/pkg/ports"
)

const defaultFrequencyDays = 30

// StatsHandler serves the dashboard counters. Store failures still render a
// zero body so the dashboard can show placeholders.
type StatsHandler struct {
	visits ports.VisitAggregator
}

func NewStatsHandler(visits ports.VisitAggregator) *StatsHandler {
	return &StatsHandler{visits: visits}
}

type siteStatsResponse struct {
	Total     int64  `json:"total"`
	Published int64  `json:"published"`
	Error     string `json:"error,omitempty"`
}

type totalResponse struct {
	Total int64  `json:"total"`
	Error string `json:"error,omitempty"`
}

type frequencyResponse struct {
	Days      int                  `json:"days"`
	Frequency []domain.DailyBucket `json:"frequency"`
	Error     string               `json:"error,omitempty"`
}

type agentsResponse struct {
	Browsers map[string]int64 `json:"browsers"`
	OS       map[string]int64 `json:"os"`
	Devices  map[string]int64 `json:"devices"`
	Error    string           `json:"error,omitempty"`
}

func (h *StatsHandler) Sites(w http.ResponseWriter, r *http.Request) {
	stats, err := h.visits.GetSiteStats(r.Context())
	if err != nil {
		status := h.degraded(r, err, "site stats")
		writeJSON(w, status, siteStatsResponse{Error: publicMessage(err, status)})
		return
	}
	writeJSON(w, http.StatusOK, siteStatsResponse{Total: stats.Total, Published: stats.Published})
}

func (h *StatsHandler) Users(w http.ResponseWriter, r *http.Request) {
	h.total(w, r, "visitor count", h.visits.GetVisitorCount)
}

func (h *StatsHandler) Categories(w http.ResponseWriter, r *http.Request) {
	h.total(w, r, "category count", h.visits.GetCategoryCount)
}

func (h *StatsHandler) Visits(w http.ResponseWriter, r *http.Request) {
	h.total(w, r, "visit count", h.visits.GetVisitCount)
}

func (h *StatsHandler) Frequency(w http.ResponseWriter, r *http.Request) {
	days := defaultFrequencyDays
	if raw := r.URL.Query().Get("days"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, frequencyResponse{
				Frequency: []domain.DailyBucket{},
				Error:     "days: must be an integer",
			})
			return
		}
		days = n
	}

	series, err := h.visits.GetVisitFrequency(r.Context(), days)
	if err != nil {
		status := h.degraded(r, err, "visit frequency")
		writeJSON(w, status, frequencyResponse{
			Days:      days,
			Frequency: []domain.DailyBucket{},
			Error:     publicMessage(err, status),
		})
		return
	}
	writeJSON(w, http.StatusOK, frequencyResponse{Days: days, Frequency: series})
}

func (h *StatsHandler) Agents(w http.ResponseWriter, r *http.Request) {
	breakdown, err := h.visits.GetAgentBreakdown(r.Context())
	if err != nil {
		status := h.degraded(r, err, "agent breakdown")
		writeJSON(w, status, agentsResponse{
			Browsers: map[string]int64{},
			OS:       map[string]int64{},
			Devices:  map[string]int64{},
			Error:    publicMessage(err, status),
		})
		return
	}
	writeJSON(w, http.StatusOK, agentsResponse{
		Browsers: breakdown.Browsers,
		OS:       breakdown.OS,
		Devices:  breakdown.Devices,
	})
}

func (h *StatsHandler) total(w http.ResponseWriter, r *http.Request, name string, fetch func(ctx context.Context) (int64, error)) {
	n, err := fetch(r.Context())
	if err != nil {
		status := h.degraded(r, err, name)
		writeJSON(w, status, totalResponse{Error: publicMessage(err, status)})
		return
	}
	writeJSON(w, http.StatusOK, totalResponse{Total: n})
}

func (h *StatsHandler) degraded(r *http.Request, err error, name string) int {
	status := errorStatus(err)
	if status == http.StatusInternalServerError {
		hlog.FromRequest(r).Error().Err(err).Msgf("failed to load %s", name)
	}
	return status
}
