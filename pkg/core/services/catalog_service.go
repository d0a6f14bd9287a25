package services

import (
	"context"
	"net/url"
	"strings"

	"github.com/google/uuid"
	"github.com/wadjakorntonsri/go-site-directory/pkg/core/domain"
	"github.com/wadjakorntonsri/go-site-directory/pkg/ports"
)

type CatalogService struct {
	repo  ports.CatalogRepository
	clock ports.Clock
}

func NewCatalogService(repo ports.CatalogRepository, clock ports.Clock) *CatalogService {
	return &CatalogService{repo: repo, clock: clock}
}

func (s *CatalogService) CreateCategory(ctx context.Context, name, slug, description string, sortOrder int) (*domain.Category, error) {
	if strings.TrimSpace(name) == "" {
		return nil, &domain.ValidationError{Field: "name", Message: "is required"}
	}
	if slug == "" {
		return nil, &domain.ValidationError{Field: "slug", Message: "is required"}
	}

	// Check if slug exists
	existing, err := s.repo.GetCategoryBySlug(ctx, slug)
	if err != nil {
		return nil, &domain.PersistenceError{Op: "lookup category", Err: err}
	}
	if existing != nil {
		return nil, &domain.ValidationError{Field: "slug", Message: "already exists"}
	}

	now := s.clock.Now()
	category := &domain.Category{
		ID:          uuid.NewString(),
		Name:        strings.TrimSpace(name),
		Slug:        slug,
		Description: description,
		SortOrder:   sortOrder,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.repo.CreateCategory(ctx, category); err != nil {
		return nil, &domain.PersistenceError{Op: "create category", Err: err}
	}
	return category, nil
}

func (s *CatalogService) UpdateCategory(ctx context.Context, id, name, slug, description string, sortOrder int) (*domain.Category, error) {
	category, err := s.repo.GetCategory(ctx, id)
	if err != nil {
		return nil, &domain.PersistenceError{Op: "get category", Err: err}
	}
	if category == nil {
		return nil, &domain.NotFoundError{Resource: "category", ID: id}
	}

	if slug != "" && slug != category.Slug {
		existing, err := s.repo.GetCategoryBySlug(ctx, slug)
		if err != nil {
			return nil, &domain.PersistenceError{Op: "lookup category", Err: err}
		}
		if existing != nil {
			return nil, &domain.ValidationError{Field: "slug", Message: "already exists"}
		}
		category.Slug = slug
	}
	if name != "" {
		category.Name = name
	}
	category.Description = description
	category.SortOrder = sortOrder
	category.UpdatedAt = s.clock.Now()

	if err := s.repo.UpdateCategory(ctx, category); err != nil {
		return nil, &domain.PersistenceError{Op: "update category", Err: err}
	}
	return category, nil
}

// DeleteCategory refuses to orphan live sites
func (s *CatalogService) DeleteCategory(ctx context.Context, id string) error {
	category, err := s.repo.GetCategory(ctx, id)
	if err != nil {
		return &domain.PersistenceError{Op: "get category", Err: err}
	}
	if category == nil {
		return &domain.NotFoundError{Resource: "category", ID: id}
	}
	sites, err := s.repo.ListSites(ctx, domain.SiteFilter{CategoryID: id, Limit: 1})
	if err != nil {
		return &domain.PersistenceError{Op: "list sites", Err: err}
	}
	if len(sites) > 0 {
		return &domain.ValidationError{Field: "id", Message: "category still has sites"}
	}
	if err := s.repo.DeleteCategory(ctx, id); err != nil {
		return &domain.PersistenceError{Op: "delete category", Err: err}
	}
	return nil
}

func (s *CatalogService) ListCategories(ctx context.Context) ([]domain.Category, error) {
	categories, err := s.repo.ListCategories(ctx)
	if err != nil {
		return nil, &domain.PersistenceError{Op: "list categories", Err: err}
	}
	return categories, nil
}

// PublicCatalog returns every category with its published sites
func (s *CatalogService) PublicCatalog(ctx context.Context) ([]domain.Category, error) {
	categories, err := s.ListCategories(ctx)
	if err != nil {
		return nil, err
	}
	sites, err := s.repo.ListSites(ctx, domain.SiteFilter{PublishedOnly: true})
	if err != nil {
		return nil, &domain.PersistenceError{Op: "list sites", Err: err}
	}

	byCategory := make(map[string][]domain.Site)
	for _, site := range sites {
		byCategory[site.CategoryID] = append(byCategory[site.CategoryID], site)
	}
	for i := range categories {
		categories[i].Sites = byCategory[categories[i].ID]
	}
	return categories, nil
}

func (s *CatalogService) CreateSite(ctx context.Context, in domain.Site) (*domain.Site, error) {
	if err := validateSite(in); err != nil {
		return nil, err
	}
	if err := s.requireCategory(ctx, in.CategoryID); err != nil {
		return nil, err
	}

	now := s.clock.Now()
	site := &domain.Site{
		ID:          uuid.NewString(),
		CategoryID:  in.CategoryID,
		Name:        strings.TrimSpace(in.Name),
		URL:         in.URL,
		Description: in.Description,
		IconURL:     in.IconURL,
		IsPublished: in.IsPublished,
		SortOrder:   in.SortOrder,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.repo.CreateSite(ctx, site); err != nil {
		return nil, &domain.PersistenceError{Op: "create site", Err: err}
	}
	return site, nil
}

func (s *CatalogService) GetSite(ctx context.Context, id string) (*domain.Site, error) {
	site, err := s.repo.GetSite(ctx, id)
	if err != nil {
		return nil, &domain.PersistenceError{Op: "get site", Err: err}
	}
	if site == nil {
		return nil, &domain.NotFoundError{Resource: "site", ID: id}
	}
	return site, nil
}

func (s *CatalogService) UpdateSite(ctx context.Context, id string, in domain.Site) (*domain.Site, error) {
	site, err := s.GetSite(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := validateSite(in); err != nil {
		return nil, err
	}
	if in.CategoryID != site.CategoryID {
		if err := s.requireCategory(ctx, in.CategoryID); err != nil {
			return nil, err
		}
	}

	site.CategoryID = in.CategoryID
	site.Name = strings.TrimSpace(in.Name)
	site.URL = in.URL
	site.Description = in.Description
	site.IconURL = in.IconURL
	site.IsPublished = in.IsPublished
	site.SortOrder = in.SortOrder
	site.UpdatedAt = s.clock.Now()

	if err := s.repo.UpdateSite(ctx, site); err != nil {
		return nil, &domain.PersistenceError{Op: "update site", Err: err}
	}
	return site, nil
}

// DeleteSite soft deletes; stored visits keep referencing the row
func (s *CatalogService) DeleteSite(ctx context.Context, id string) error {
	if _, err := s.GetSite(ctx, id); err != nil {
		return err
	}
	if err := s.repo.DeleteSite(ctx, id, s.clock.Now()); err != nil {
		return &domain.PersistenceError{Op: "delete site", Err: err}
	}
	return nil
}

func (s *CatalogService) ListSites(ctx context.Context, page, limit int, categoryID, search string) ([]domain.Site, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}
	sites, err := s.repo.ListSites(ctx, domain.SiteFilter{
		CategoryID: categoryID,
		Search:     search,
		Limit:      limit,
		Offset:     (page - 1) * limit,
	})
	if err != nil {
		return nil, &domain.PersistenceError{Op: "list sites", Err: err}
	}
	return sites, nil
}

// Search matches published sites by name, description or URL
func (s *CatalogService) Search(ctx context.Context, query string) ([]domain.Site, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []domain.Site{}, nil
	}
	sites, err := s.repo.ListSites(ctx, domain.SiteFilter{Search: query, PublishedOnly: true, Limit: 100})
	if err != nil {
		return nil, &domain.PersistenceError{Op: "search sites", Err: err}
	}
	return sites, nil
}

func (s *CatalogService) requireCategory(ctx context.Context, id string) error {
	category, err := s.repo.GetCategory(ctx, id)
	if err != nil {
		return &domain.PersistenceError{Op: "get category", Err: err}
	}
	if category == nil {
		return &domain.NotFoundError{Resource: "category", ID: id}
	}
	return nil
}

func validateSite(site domain.Site) error {
	if strings.TrimSpace(site.Name) == "" {
		return &domain.ValidationError{Field: "name", Message: "is required"}
	}
	if site.CategoryID == "" {
		return &domain.ValidationError{Field: "categoryId", Message: "is required"}
	}
	u, err := url.Parse(site.URL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return &domain.ValidationError{Field: "url", Message: "must be an absolute http(s) URL"}
	}
	return nil
}
