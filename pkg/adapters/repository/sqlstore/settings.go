package sqlstore

import (
	"context"
	"database/sql"

	"github.com/wadjakorntonsri/go-site-directory/pkg/core/domain"
)

func (s *Store) GetSettings(ctx context.Context) (*domain.SystemSettings, error) {
	query := `SELECT id, site_name, site_description, site_keywords, footer_text, updated_at
			  FROM system_settings ORDER BY id LIMIT 1`

	var st domain.SystemSettings
	var updatedAt int64
	err := s.db.QueryRowContext(ctx, query).Scan(
		&st.ID, &st.SiteName, &st.SiteDescription, &st.SiteKeywords, &st.FooterText, &updatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	st.UpdatedAt = fromMillis(updatedAt)
	return &st, nil
}

func (s *Store) SaveSettings(ctx context.Context, st *domain.SystemSettings) error {
	query := `INSERT INTO system_settings (id, site_name, site_description, site_keywords, footer_text, updated_at)
			  VALUES (?, ?, ?, ?, ?, ?)
			  ON CONFLICT (id) DO UPDATE SET
			  	site_name = excluded.site_name,
			  	site_description = excluded.site_description,
			  	site_keywords = excluded.site_keywords,
			  	footer_text = excluded.footer_text,
			  	updated_at = excluded.updated_at`
	_, err := s.db.ExecContext(ctx, s.rebind(query),
		st.ID, st.SiteName, st.SiteDescription, st.SiteKeywords, st.FooterText, toMillis(st.UpdatedAt))
	return err
}
