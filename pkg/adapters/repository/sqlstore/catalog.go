package sqlstore

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/wadjakorntonsri/go-site-directory/pkg/core/domain"
)

const categoryColumns = `id, name, slug, description, sort_order, created_at, updated_at`

const siteColumns = `id, category_id, name, url, description, icon_url, is_published, sort_order, created_at, updated_at, deleted_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCategory(row rowScanner) (*domain.Category, error) {
	var c domain.Category
	var createdAt, updatedAt int64
	if err := row.Scan(&c.ID, &c.Name, &c.Slug, &c.Description, &c.SortOrder, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	c.CreatedAt = fromMillis(createdAt)
	c.UpdatedAt = fromMillis(updatedAt)
	return &c, nil
}

func scanSite(row rowScanner) (*domain.Site, error) {
	var site domain.Site
	var createdAt, updatedAt int64
	var deletedAt sql.NullInt64
	err := row.Scan(
		&site.ID, &site.CategoryID, &site.Name, &site.URL, &site.Description, &site.IconURL,
		&site.IsPublished, &site.SortOrder, &createdAt, &updatedAt, &deletedAt,
	)
	if err != nil {
		return nil, err
	}
	site.CreatedAt = fromMillis(createdAt)
	site.UpdatedAt = fromMillis(updatedAt)
	if deletedAt.Valid {
		t := fromMillis(deletedAt.Int64)
		site.DeletedAt = &t
	}
	return &site, nil
}

// --- Categories ---

func (s *Store) CreateCategory(ctx context.Context, c *domain.Category) error {
	query := `INSERT INTO categories (` + categoryColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?)`
	_, err := s.db.ExecContext(ctx, s.rebind(query),
		c.ID, c.Name, c.Slug, c.Description, c.SortOrder, toMillis(c.CreatedAt), toMillis(c.UpdatedAt))
	return err
}

func (s *Store) getCategoryWhere(ctx context.Context, where string, arg any) (*domain.Category, error) {
	query := `SELECT ` + categoryColumns + ` FROM categories WHERE ` + where
	c, err := scanCategory(s.db.QueryRowContext(ctx, s.rebind(query), arg))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (s *Store) GetCategory(ctx context.Context, id string) (*domain.Category, error) {
	return s.getCategoryWhere(ctx, "id = ?", id)
}

func (s *Store) GetCategoryBySlug(ctx context.Context, slug string) (*domain.Category, error) {
	return s.getCategoryWhere(ctx, "slug = ?", slug)
}

func (s *Store) UpdateCategory(ctx context.Context, c *domain.Category) error {
	query := `UPDATE categories SET name = ?, slug = ?, description = ?, sort_order = ?, updated_at = ? WHERE id = ?`
	_, err := s.db.ExecContext(ctx, s.rebind(query),
		c.Name, c.Slug, c.Description, c.SortOrder, toMillis(c.UpdatedAt), c.ID)
	return err
}

func (s *Store) DeleteCategory(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, s.rebind(`DELETE FROM categories WHERE id = ?`), id)
	return err
}

func (s *Store) ListCategories(ctx context.Context) ([]domain.Category, error) {
	query := `SELECT ` + categoryColumns + ` FROM categories ORDER BY sort_order ASC, name ASC`
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	categories := []domain.Category{}
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, err
		}
		categories = append(categories, *c)
	}
	return categories, rows.Err()
}

func (s *Store) CountCategories(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM categories`).Scan(&count)
	return count, err
}

// --- Sites ---

func (s *Store) CreateSite(ctx context.Context, site *domain.Site) error {
	query := `INSERT INTO sites (id, category_id, name, url, description, icon_url, is_published, sort_order, created_at, updated_at)
			  VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := s.db.ExecContext(ctx, s.rebind(query),
		site.ID, site.CategoryID, site.Name, site.URL, site.Description, site.IconURL,
		site.IsPublished, site.SortOrder, toMillis(site.CreatedAt), toMillis(site.UpdatedAt))
	return err
}

func (s *Store) GetSite(ctx context.Context, id string) (*domain.Site, error) {
	query := `SELECT ` + siteColumns + ` FROM sites WHERE id = ? AND deleted_at IS NULL`
	site, err := scanSite(s.db.QueryRowContext(ctx, s.rebind(query), id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return site, nil
}

func (s *Store) UpdateSite(ctx context.Context, site *domain.Site) error {
	query := `UPDATE sites SET category_id = ?, name = ?, url = ?, description = ?, icon_url = ?,
			  is_published = ?, sort_order = ?, updated_at = ? WHERE id = ?`
	_, err := s.db.ExecContext(ctx, s.rebind(query),
		site.CategoryID, site.Name, site.URL, site.Description, site.IconURL,
		site.IsPublished, site.SortOrder, toMillis(site.UpdatedAt), site.ID)
	return err
}

func (s *Store) DeleteSite(ctx context.Context, id string, at time.Time) error {
	query := `UPDATE sites SET deleted_at = ? WHERE id = ? AND deleted_at IS NULL`
	_, err := s.db.ExecContext(ctx, s.rebind(query), toMillis(at), id)
	return err
}

func (s *Store) ListSites(ctx context.Context, filter domain.SiteFilter) ([]domain.Site, error) {
	query := `SELECT ` + siteColumns + ` FROM sites WHERE deleted_at IS NULL`
	args := []any{}

	if filter.CategoryID != "" {
		query += " AND category_id = ?"
		args = append(args, filter.CategoryID)
	}
	if filter.PublishedOnly {
		query += " AND is_published = ?"
		args = append(args, true)
	}
	if filter.Search != "" {
		like := "%" + escapeLike(strings.ToLower(filter.Search)) + "%"
		query += ` AND (LOWER(name) LIKE ? ESCAPE '\' OR LOWER(description) LIKE ? ESCAPE '\' OR LOWER(url) LIKE ? ESCAPE '\')`
		args = append(args, like, like, like)
	}

	query += " ORDER BY sort_order ASC, created_at ASC"
	if filter.Limit > 0 {
		query += " LIMIT ? OFFSET ?"
		args = append(args, filter.Limit, filter.Offset)
	}

	rows, err := s.db.QueryContext(ctx, s.rebind(query), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	sites := []domain.Site{}
	for rows.Next() {
		site, err := scanSite(rows)
		if err != nil {
			return nil, err
		}
		sites = append(sites, *site)
	}
	return sites, rows.Err()
}

func (s *Store) CountSites(ctx context.Context, publishedOnly bool) (int64, error) {
	query := `SELECT COUNT(*) FROM sites WHERE deleted_at IS NULL`
	args := []any{}
	if publishedOnly {
		query += " AND is_published = ?"
		args = append(args, true)
	}
	var count int64
	err := s.db.QueryRowContext(ctx, s.rebind(query), args...).Scan(&count)
	return count, err
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`)

// escapeLike makes the search term match literally inside a LIKE pattern
func escapeLike(term string) string {
	return likeEscaper.Replace(term)
}
