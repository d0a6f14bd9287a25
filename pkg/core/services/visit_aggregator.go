package services

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	ua "github.com/mileusna/useragent"
	"github.com/rs/zerolog"
	"github.com/wadjakorntonsri/go-site-directory/pkg/core/domain"
	"github.com/wadjakorntonsri/go-site-directory/pkg/ports"
)

// AllTime is the frequency window sentinel for "every day with visits"
const AllTime = 0

// MaxFrequencyDays bounds the zero-filled window
const MaxFrequencyDays = 3660

const dateKeyLayout = "2006-01-02"

type VisitAggregator struct {
	catalog ports.CatalogRepository
	visits  ports.VisitRepository
	clock   ports.Clock
	loc     *time.Location
}

func NewVisitAggregator(catalog ports.CatalogRepository, visits ports.VisitRepository, clock ports.Clock, loc *time.Location) *VisitAggregator {
	if loc == nil {
		loc = time.UTC
	}
	return &VisitAggregator{catalog: catalog, visits: visits, clock: clock, loc: loc}
}

// RecordVisit stores exactly one visit for an existing site. The timestamp
// comes from the server clock.
func (a *VisitAggregator) RecordVisit(ctx context.Context, siteID string, meta domain.ClientMeta) (*domain.Visit, error) {
	siteID = strings.TrimSpace(siteID)
	if siteID == "" {
		return nil, &domain.ValidationError{Field: "siteId", Message: "is required"}
	}

	site, err := a.catalog.GetSite(ctx, siteID)
	if err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Str("site_id", siteID).Msg("visit site lookup failed")
		return nil, &domain.PersistenceError{Op: "lookup site", Err: err}
	}
	if site == nil {
		return nil, &domain.NotFoundError{Resource: "site", ID: siteID}
	}

	visit := &domain.Visit{
		ID:        uuid.NewString(),
		SiteID:    site.ID,
		IPAddress: strings.TrimSpace(meta.IP),
		UserAgent: strings.TrimSpace(meta.UserAgent),
		CreatedAt: a.clock.Now(),
	}
	if err := a.visits.InsertVisit(ctx, visit); err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Str("site_id", siteID).Msg("visit insert failed")
		return nil, &domain.PersistenceError{Op: "insert visit", Err: err}
	}

	zerolog.Ctx(ctx).Debug().Str("site_id", siteID).Str("visit_id", visit.ID).Msg("visit recorded")
	return visit, nil
}

// GetVisitFrequency returns per-day visit counts. For days > 0 the series
// covers [today-days+1, today] with zero-filled gaps; AllTime returns only
// days that have visits, back to the earliest one.
func (a *VisitAggregator) GetVisitFrequency(ctx context.Context, days int) ([]domain.DailyBucket, error) {
	if days < 0 {
		return nil, &domain.ValidationError{Field: "days", Message: "must not be negative"}
	}
	if days > MaxFrequencyDays {
		return nil, &domain.ValidationError{Field: "days", Message: "window too large"}
	}

	today := startOfDay(a.clock.Now(), a.loc)
	end := today.AddDate(0, 0, 1)
	var start time.Time
	if days != AllTime {
		start = today.AddDate(0, 0, -(days - 1))
	}

	times, err := a.visits.ListVisitTimes(ctx, start, end)
	if err != nil {
		return nil, &domain.PersistenceError{Op: "list visit times", Err: err}
	}

	counts := make(map[string]int64)
	for _, t := range times {
		counts[t.In(a.loc).Format(dateKeyLayout)]++
	}

	if days == AllTime {
		keys := make([]string, 0, len(counts))
		for k := range counts {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		series := make([]domain.DailyBucket, 0, len(keys))
		for _, k := range keys {
			series = append(series, domain.DailyBucket{Date: k, Count: counts[k]})
		}
		return series, nil
	}

	series := make([]domain.DailyBucket, 0, days)
	for i := 0; i < days; i++ {
		key := start.AddDate(0, 0, i).Format(dateKeyLayout)
		series = append(series, domain.DailyBucket{Date: key, Count: counts[key]})
	}
	return series, nil
}

// GetVisitorCount estimates unique visitors as the number of distinct client IPs.
func (a *VisitAggregator) GetVisitorCount(ctx context.Context) (int64, error) {
	n, err := a.visits.CountDistinctIPs(ctx)
	if err != nil {
		return 0, &domain.PersistenceError{Op: "count visitors", Err: err}
	}
	return n, nil
}

func (a *VisitAggregator) GetVisitCount(ctx context.Context) (int64, error) {
	n, err := a.visits.CountVisits(ctx)
	if err != nil {
		return 0, &domain.PersistenceError{Op: "count visits", Err: err}
	}
	return n, nil
}

func (a *VisitAggregator) GetSiteStats(ctx context.Context) (domain.SiteStats, error) {
	total, err := a.catalog.CountSites(ctx, false)
	if err != nil {
		return domain.SiteStats{}, &domain.PersistenceError{Op: "count sites", Err: err}
	}
	published, err := a.catalog.CountSites(ctx, true)
	if err != nil {
		return domain.SiteStats{}, &domain.PersistenceError{Op: "count published sites", Err: err}
	}
	return domain.SiteStats{Total: total, Published: published}, nil
}

func (a *VisitAggregator) GetCategoryCount(ctx context.Context) (int64, error) {
	n, err := a.catalog.CountCategories(ctx)
	if err != nil {
		return 0, &domain.PersistenceError{Op: "count categories", Err: err}
	}
	return n, nil
}

// GetAgentBreakdown groups visits by browser, OS and device class.
func (a *VisitAggregator) GetAgentBreakdown(ctx context.Context) (*domain.AgentBreakdown, error) {
	byAgent, err := a.visits.CountByUserAgent(ctx)
	if err != nil {
		return nil, &domain.PersistenceError{Op: "count user agents", Err: err}
	}

	out := &domain.AgentBreakdown{
		Browsers: make(map[string]int64),
		OS:       make(map[string]int64),
		Devices:  make(map[string]int64),
	}
	for agent, n := range byAgent {
		browser, os, device := classifyAgent(agent)
		out.Browsers[browser] += n
		out.OS[os] += n
		out.Devices[device] += n
	}
	return out, nil
}

func classifyAgent(agent string) (browser, os, device string) {
	if agent == "" {
		return "Unknown", "Unknown", "Unknown"
	}
	parsed := ua.Parse(agent)

	browser = parsed.Name
	if browser == "" {
		browser = "Unknown"
	}
	os = parsed.OS
	if os == "" {
		os = "Unknown"
	}

	switch {
	case parsed.Bot:
		device = "Bot"
	case parsed.Tablet:
		device = "Tablet"
	case parsed.Mobile:
		device = "Mobile"
	default:
		device = "Desktop"
	}
	return browser, os, device
}

func startOfDay(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}
