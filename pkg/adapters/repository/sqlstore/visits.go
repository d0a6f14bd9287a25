package sqlstore

import (
	"context"
	"time"

	"github.com/wadjakorntonsri/go-site-directory/pkg/core/domain"
)

// InsertVisit appends one immutable row. No transaction is needed for a
// single-row insert.
func (s *Store) InsertVisit(ctx context.Context, visit *domain.Visit) error {
	query := `INSERT INTO visits (id, site_id, ip_address, user_agent, created_at) VALUES (?, ?, ?, ?, ?)`
	_, err := s.db.ExecContext(ctx, s.rebind(query),
		visit.ID, visit.SiteID, nullString(visit.IPAddress), nullString(visit.UserAgent), toMillis(visit.CreatedAt))
	return err
}

func (s *Store) CountVisits(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM visits`).Scan(&count)
	return count, err
}

func (s *Store) CountDistinctIPs(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(DISTINCT ip_address) FROM visits WHERE ip_address IS NOT NULL`).Scan(&count)
	return count, err
}

func (s *Store) ListVisitTimes(ctx context.Context, from, to time.Time) ([]time.Time, error) {
	query := `SELECT created_at FROM visits WHERE created_at < ?`
	args := []any{toMillis(to)}
	if !from.IsZero() {
		query += " AND created_at >= ?"
		args = append(args, toMillis(from))
	}
	query += " ORDER BY created_at ASC"

	rows, err := s.db.QueryContext(ctx, s.rebind(query), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var times []time.Time
	for rows.Next() {
		var ms int64
		if err := rows.Scan(&ms); err != nil {
			return nil, err
		}
		times = append(times, fromMillis(ms))
	}
	return times, rows.Err()
}

func (s *Store) CountByUserAgent(ctx context.Context) (map[string]int64, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT COALESCE(user_agent, ''), COUNT(*) FROM visits GROUP BY user_agent`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[string]int64)
	for rows.Next() {
		var agent string
		var n int64
		if err := rows.Scan(&agent, &n); err != nil {
			return nil, err
		}
		counts[agent] += n
	}
	return counts, rows.Err()
}
