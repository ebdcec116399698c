package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/openturf/turf-services/internal/turfsvc/models"
)

type UserStore struct {
	db *pgxpool.Pool
}

func NewUserStore(db *pgxpool.Pool) *UserStore {
	return &UserStore{db: db}
}

func (s *UserStore) GetByID(ctx context.Context, userID string) (*models.User, error) {
	query := `
		SELECT id, name, email, phone, role, created_at, updated_at
		FROM users
		WHERE id = $1
	`

	u := &models.User{}
	err := s.db.QueryRow(ctx, query, userID).Scan(
		&u.ID,
		&u.Name,
		&u.Email,
		&u.Phone,
		&u.Role,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user by ID: %w", err)
	}

	return u, nil
}
