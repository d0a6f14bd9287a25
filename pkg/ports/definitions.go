package ports

import (
	"context"
	"net/http"
	"time"

	"github.com/wadjakorntonsri/go-site-directory/pkg/core/domain"
)

// CatalogRepository defines storage operations for categories and sites
type CatalogRepository interface {
	CreateCategory(ctx context.Context, category *domain.Category) error
	GetCategory(ctx context.Context, id string) (*domain.Category, error)
	GetCategoryBySlug(ctx context.Context, slug string) (*domain.Category, error)
	UpdateCategory(ctx context.Context, category *domain.Category) error
	DeleteCategory(ctx context.Context, id string) error
	ListCategories(ctx context.Context) ([]domain.Category, error)
	CountCategories(ctx context.Context) (int64, error)

	CreateSite(ctx context.Context, site *domain.Site) error
	GetSite(ctx context.Context, id string) (*domain.Site, error) // Excludes soft deleted
	UpdateSite(ctx context.Context, site *domain.Site) error
	DeleteSite(ctx context.Context, id string, at time.Time) error // Soft delete
	ListSites(ctx context.Context, filter domain.SiteFilter) ([]domain.Site, error)
	CountSites(ctx context.Context, publishedOnly bool) (int64, error)
}

// VisitRepository is the append-only visit log the aggregator reads from
type VisitRepository interface {
	InsertVisit(ctx context.Context, visit *domain.Visit) error
	CountVisits(ctx context.Context) (int64, error)
	CountDistinctIPs(ctx context.Context) (int64, error)
	// ListVisitTimes returns creation times in [from, to). A zero from is unbounded.
	ListVisitTimes(ctx context.Context, from, to time.Time) ([]time.Time, error)
	CountByUserAgent(ctx context.Context) (map[string]int64, error)
}

// UserRepository defines storage operations for back office accounts
type UserRepository interface {
	CreateUser(ctx context.Context, user *domain.User) error
	GetUserByID(ctx context.Context, id string) (*domain.User, error)
	GetUserByEmail(ctx context.Context, email string) (*domain.User, error)
}

// SettingsRepository stores the single settings row
type SettingsRepository interface {
	GetSettings(ctx context.Context) (*domain.SystemSettings, error)
	SaveSettings(ctx context.Context, settings *domain.SystemSettings) error
}

// DatabaseInspector exposes connectivity for the admin database-info view
type DatabaseInspector interface {
	Ping(ctx context.Context) error
	DatabaseInfo() domain.DatabaseInfo
}

// SessionReader reads the session pair from transport metadata. It never fails;
// anything unusable reads as an absent session.
type SessionReader interface {
	Read(r *http.Request) domain.SessionToken
}

// SessionIssuer writes and clears the session on a response
type SessionIssuer interface {
	Issue(w http.ResponseWriter, user *domain.User) (time.Time, error)
	Clear(w http.ResponseWriter)
}

// Clock is the single reference clock for timestamps and day boundaries
type Clock interface {
	Now() time.Time
}

// AccessGate classifies a request path and session into a routing decision
type AccessGate interface {
	Decide(path string, token domain.SessionToken) domain.AccessDecision
}

// VisitAggregator ingests visit events and answers dashboard queries
type VisitAggregator interface {
	RecordVisit(ctx context.Context, siteID string, meta domain.ClientMeta) (*domain.Visit, error)
	GetVisitFrequency(ctx context.Context, days int) ([]domain.DailyBucket, error)
	GetVisitorCount(ctx context.Context) (int64, error)
	GetVisitCount(ctx context.Context) (int64, error)
	GetSiteStats(ctx context.Context) (domain.SiteStats, error)
	GetCategoryCount(ctx context.Context) (int64, error)
	GetAgentBreakdown(ctx context.Context) (*domain.AgentBreakdown, error)
}

// CatalogService defines business logic for categories and sites
type CatalogService interface {
	CreateCategory(ctx context.Context, name, slug, description string, sortOrder int) (*domain.Category, error)
	UpdateCategory(ctx context.Context, id, name, slug, description string, sortOrder int) (*domain.Category, error)
	DeleteCategory(ctx context.Context, id string) error
	ListCategories(ctx context.Context) ([]domain.Category, error)
	PublicCatalog(ctx context.Context) ([]domain.Category, error)

	CreateSite(ctx context.Context, site domain.Site) (*domain.Site, error)
	GetSite(ctx context.Context, id string) (*domain.Site, error)
	UpdateSite(ctx context.Context, id string, site domain.Site) (*domain.Site, error)
	DeleteSite(ctx context.Context, id string) error
	ListSites(ctx context.Context, page, limit int, categoryID, search string) ([]domain.Site, error)
	Search(ctx context.Context, query string) ([]domain.Site, error)
}

// AuthService verifies back office credentials
type AuthService interface {
	Authenticate(ctx context.Context, email, password string) (*domain.User, error)
	CurrentUser(ctx context.Context, id string) (*domain.User, error)
	AdminByEmail(ctx context.Context, email string) (*domain.User, error)
}

// SettingsService reads and updates system settings
type SettingsService interface {
	Get(ctx context.Context) (*domain.SystemSettings, error)
	Update(ctx context.Context, update domain.SettingsUpdate) (*domain.SystemSettings, error)
}
