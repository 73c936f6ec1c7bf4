package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"foodorder/internal/model"
)

type ProfileService struct {
	db *sql.DB
}

func NewProfileService(db *sql.DB) *ProfileService {
	return &ProfileService{db: db}
}

// Create inserts a profile, leaving an existing one with the same id as is.
func (s *ProfileService) Create(ctx context.Context, id, email, name string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO profiles (id, email, name) VALUES ($1, $2, $3) ON CONFLICT (id) DO NOTHING`,
		id, email, name,
	)
	if err != nil {
		return fmt.Errorf("insert profile: %w", err)
	}
	return nil
}

func (s *ProfileService) Get(ctx context.Context, id string) (*model.Profile, error) {
	var p model.Profile
	err := s.db.QueryRowContext(ctx,
		`SELECT id, email, name, is_admin, created_at FROM profiles WHERE id = $1`,
		id,
	).Scan(&p.ID, &p.Email, &p.Name, &p.IsAdmin, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("get profile: %w", err)
	}
	return &p, nil
}

// IsAdmin reports the admin flag. A missing profile is not an error.
func (s *ProfileService) IsAdmin(ctx context.Context, id string) (bool, error) {
	var isAdmin bool
	err := s.db.QueryRowContext(ctx, `SELECT is_admin FROM profiles WHERE id = $1`, id).Scan(&isAdmin)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("get admin flag: %w", err)
	}
	return isAdmin, nil
}

func (s *ProfileService) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM profiles`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count profiles: %w", err)
	}
	return n, nil
}

func (s *ProfileService) ListWithOrderCount(ctx context.Context) ([]model.UserSummary, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT p.id, p.email, p.name, p.is_admin, p.created_at, COUNT(o.id)
		FROM profiles p
		LEFT JOIN orders o ON o.user_id = p.id
		GROUP BY p.id, p.email, p.name, p.is_admin, p.created_at
		ORDER BY p.created_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("query profiles: %w", err)
	}
	defer rows.Close()

	users := make([]model.UserSummary, 0)
	for rows.Next() {
		var u model.UserSummary
		if err := rows.Scan(&u.ID, &u.Email, &u.Name, &u.IsAdmin, &u.CreatedAt, &u.OrderCount); err != nil {
			return nil, fmt.Errorf("scan profile: %w", err)
		}
		users = append(users, u)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration failed: %w", err)
	}

	return users, nil
}
