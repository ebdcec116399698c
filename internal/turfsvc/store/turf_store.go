package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/openturf/turf-services/internal/turfsvc/models"
)

type TurfStore struct {
	db *pgxpool.Pool
}

func NewTurfStore(db *pgxpool.Pool) *TurfStore {
	return &TurfStore{db: db}
}

func (s *TurfStore) GetByID(ctx context.Context, turfID string) (*models.Turf, error) {
	query := `
		SELECT id, owner_id, name, address, sports, price_per_hour, price_per_hour_weekend,
		       operating_hours, is_active, created_at, updated_at
		FROM turfs
		WHERE id = $1
	`

	t := &models.Turf{}
	var hoursRaw []byte
	err := s.db.QueryRow(ctx, query, turfID).Scan(
		&t.ID,
		&t.OwnerID,
		&t.Name,
		&t.Address,
		&t.Sports,
		&t.PricePerHour,
		&t.PricePerHourWeekend,
		&hoursRaw,
		&t.IsActive,
		&t.CreatedAt,
		&t.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get turf by ID: %w", err)
	}

	if len(hoursRaw) > 0 {
		if err := json.Unmarshal(hoursRaw, &t.OperatingHours); err != nil {
			return nil, fmt.Errorf("failed to decode operating hours for turf %s: %w", turfID, err)
		}
	}

	return t, nil
}

func (s *TurfStore) ListActive(ctx context.Context) ([]*models.Turf, error) {
	query := `
		SELECT id, owner_id, name, address, sports, price_per_hour, price_per_hour_weekend,
		       operating_hours, is_active, created_at, updated_at
		FROM turfs
		WHERE is_active = true
		ORDER BY name
	`

	rows, err := s.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list turfs: %w", err)
	}
	defer rows.Close()

	var turfs []*models.Turf
	for rows.Next() {
		t := &models.Turf{}
		var hoursRaw []byte
		err := rows.Scan(
			&t.ID,
			&t.OwnerID,
			&t.Name,
			&t.Address,
			&t.Sports,
			&t.PricePerHour,
			&t.PricePerHourWeekend,
			&hoursRaw,
			&t.IsActive,
			&t.CreatedAt,
			&t.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		if len(hoursRaw) > 0 {
			if err := json.Unmarshal(hoursRaw, &t.OperatingHours); err != nil {
				return nil, fmt.Errorf("failed to decode operating hours for turf %s: %w", t.ID, err)
			}
		}
		turfs = append(turfs, t)
	}

	return turfs, rows.Err()
}

func (s *TurfStore) Create(ctx context.Context, t *models.Turf) error {
	var hoursRaw []byte
	if t.OperatingHours != nil {
		var err error
		hoursRaw, err = json.Marshal(t.OperatingHours)
		if err != nil {
			return fmt.Errorf("failed to encode operating hours: %w", err)
		}
	}

	query := `
		INSERT INTO turfs (id, owner_id, name, address, sports, price_per_hour,
		                   price_per_hour_weekend, operating_hours, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING created_at, updated_at
	`

	err := s.db.QueryRow(ctx, query,
		t.ID, t.OwnerID, t.Name, t.Address, t.Sports,
		t.PricePerHour, t.PricePerHourWeekend, hoursRaw, t.IsActive,
	).Scan(&t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create turf: %w", err)
	}

	return nil
}
