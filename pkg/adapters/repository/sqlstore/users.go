package sqlstore

import (
	"context"
	"database/sql"

	"github.com/wadjakorntonsri/go-site-directory/pkg/core/domain"
)

const userColumns = `id, email, name, avatar, role, password_hash, created_at, updated_at`

func (s *Store) CreateUser(ctx context.Context, u *domain.User) error {
	query := `INSERT INTO users (` + userColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := s.db.ExecContext(ctx, s.rebind(query),
		u.ID, u.Email, u.Name, u.Avatar, string(u.Role), u.PasswordHash, toMillis(u.CreatedAt), toMillis(u.UpdatedAt))
	return err
}

func (s *Store) getUserWhere(ctx context.Context, where string, arg any) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE ` + where

	var u domain.User
	var role string
	var createdAt, updatedAt int64
	err := s.db.QueryRowContext(ctx, s.rebind(query), arg).Scan(
		&u.ID, &u.Email, &u.Name, &u.Avatar, &role, &u.PasswordHash, &createdAt, &updatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	u.Role = domain.Role(role)
	u.CreatedAt = fromMillis(createdAt)
	u.UpdatedAt = fromMillis(updatedAt)
	return &u, nil
}

func (s *Store) GetUserByID(ctx context.Context, id string) (*domain.User, error) {
	return s.getUserWhere(ctx, "id = ?", id)
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	return s.getUserWhere(ctx, "email = ?", email)
}
