package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/openturf/turf-services/internal/turfsvc/models"
)

const gameColumns = `id, host_id, turf_id, game_date, start_time, end_time, sport, format,
	skill_level, max_players, current_players, cost_per_person, description, notes,
	is_private, status, version, created_at, updated_at`

type GameStore struct {
	db *pgxpool.Pool
}

func NewGameStore(db *pgxpool.Pool) *GameStore {
	return &GameStore{db: db}
}

func scanGame(row pgx.Row) (*models.Game, error) {
	g := &models.Game{}
	err := row.Scan(
		&g.ID,
		&g.HostID,
		&g.TurfID,
		&g.Date,
		&g.StartTime,
		&g.EndTime,
		&g.Sport,
		&g.Format,
		&g.SkillLevel,
		&g.MaxPlayers,
		&g.CurrentPlayers,
		&g.CostPerPerson,
		&g.Description,
		&g.Notes,
		&g.IsPrivate,
		&g.Status,
		&g.Version,
		&g.CreatedAt,
		&g.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return g, nil
}

func (s *GameStore) Create(ctx context.Context, g *models.Game) error {
	query := `
		INSERT INTO games (id, host_id, turf_id, game_date, start_time, end_time, sport, format,
		                   skill_level, max_players, current_players, cost_per_person,
		                   description, notes, is_private, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		RETURNING version, created_at, updated_at
	`

	err := s.db.QueryRow(ctx, query,
		g.ID, g.HostID, g.TurfID, g.Date, g.StartTime, g.EndTime, g.Sport, g.Format,
		g.SkillLevel, g.MaxPlayers, g.CurrentPlayers, g.CostPerPerson,
		g.Description, g.Notes, g.IsPrivate, g.Status,
	).Scan(&g.Version, &g.CreatedAt, &g.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create game: %w", err)
	}

	return nil
}

// GetByID loads the game row and both membership relations into one aggregate.
func (s *GameStore) GetByID(ctx context.Context, gameID string) (*models.Game, error) {
	query := `SELECT ` + gameColumns + ` FROM games WHERE id = $1`

	g, err := scanGame(s.db.QueryRow(ctx, query, gameID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get game by ID: %w", err)
	}

	if err := s.loadRoster(ctx, g); err != nil {
		return nil, err
	}
	return g, nil
}

func (s *GameStore) loadRoster(ctx context.Context, g *models.Game) error {
	rows, err := s.db.Query(ctx,
		`SELECT user_id FROM game_players WHERE game_id = $1 ORDER BY position`, g.ID)
	if err != nil {
		return fmt.Errorf("failed to load game players: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var userID string
		if err := rows.Scan(&userID); err != nil {
			return err
		}
		g.ConfirmedPlayers = append(g.ConfirmedPlayers, userID)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	reqRows, err := s.db.Query(ctx,
		`SELECT user_id, requested_at, status FROM game_join_requests WHERE game_id = $1 ORDER BY requested_at`, g.ID)
	if err != nil {
		return fmt.Errorf("failed to load join requests: %w", err)
	}
	defer reqRows.Close()
	for reqRows.Next() {
		var r models.JoinRequest
		if err := reqRows.Scan(&r.UserID, &r.RequestedAt, &r.Status); err != nil {
			return err
		}
		g.JoinRequests = append(g.JoinRequests, r)
	}
	return reqRows.Err()
}

// List returns games filtered by optional status, turf and date, newest first.
func (s *GameStore) List(ctx context.Context, status, turfID, date string) ([]*models.Game, error) {
	query := `SELECT ` + gameColumns + ` FROM games WHERE 1=1`
	args := []interface{}{}

	if status != "" {
		args = append(args, status)
		query += fmt.Sprintf(" AND status = $%d", len(args))
	}
	if turfID != "" {
		args = append(args, turfID)
		query += fmt.Sprintf(" AND turf_id = $%d", len(args))
	}
	if date != "" {
		args = append(args, date)
		query += fmt.Sprintf(" AND game_date = $%d", len(args))
	}
	query += " ORDER BY game_date DESC, start_time DESC"

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list games: %w", err)
	}
	defer rows.Close()

	var games []*models.Game
	for rows.Next() {
		g, err := scanGame(rows)
		if err != nil {
			return nil, err
		}
		games = append(games, g)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, g := range games {
		if err := s.loadRoster(ctx, g); err != nil {
			return nil, err
		}
	}
	return games, nil
}

// Save writes the aggregate back with an optimistic version check and
// rewrites both membership relations in the same transaction. A stale
// version yields ErrVersionConflict: the caller reloads the game, re-applies
// the operation and saves again, so concurrent joins cannot overfill the
// roster through a lost update.
func (s *GameStore) Save(ctx context.Context, g *models.Game) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin game tx: %w", err)
	}
	defer tx.Rollback(ctx)

	const updateQuery = `
		UPDATE games
		SET game_date = $2, start_time = $3, end_time = $4, sport = $5, format = $6,
		    skill_level = $7, max_players = $8, current_players = $9, cost_per_person = $10,
		    description = $11, notes = $12, is_private = $13, status = $14,
		    version = version + 1, updated_at = now()
		WHERE id = $1 AND version = $15
	`

	tag, err := tx.Exec(ctx, updateQuery,
		g.ID, g.Date, g.StartTime, g.EndTime, g.Sport, g.Format,
		g.SkillLevel, g.MaxPlayers, g.CurrentPlayers, g.CostPerPerson,
		g.Description, g.Notes, g.IsPrivate, g.Status, g.Version,
	)
	if err != nil {
		return fmt.Errorf("failed to update game: %w", err)
	}
	if tag.RowsAffected() == 0 {
		var exists bool
		if err := tx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM games WHERE id = $1)`, g.ID).Scan(&exists); err != nil {
			return fmt.Errorf("failed to check game existence: %w", err)
		}
		if exists {
			return ErrVersionConflict
		}
		return ErrNotFound
	}

	if _, err := tx.Exec(ctx, `DELETE FROM game_players WHERE game_id = $1`, g.ID); err != nil {
		return fmt.Errorf("failed to clear game players: %w", err)
	}
	for i, userID := range g.ConfirmedPlayers {
		_, err := tx.Exec(ctx,
			`INSERT INTO game_players (game_id, user_id, position) VALUES ($1, $2, $3)`,
			g.ID, userID, i)
		if err != nil {
			return fmt.Errorf("failed to insert game player %s: %w", userID, err)
		}
	}

	if _, err := tx.Exec(ctx, `DELETE FROM game_join_requests WHERE game_id = $1`, g.ID); err != nil {
		return fmt.Errorf("failed to clear join requests: %w", err)
	}
	for _, r := range g.JoinRequests {
		_, err := tx.Exec(ctx,
			`INSERT INTO game_join_requests (game_id, user_id, requested_at, status) VALUES ($1, $2, $3, $4)`,
			g.ID, r.UserID, r.RequestedAt, r.Status)
		if err != nil {
			return fmt.Errorf("failed to insert join request %s: %w", r.UserID, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit game tx: %w", err)
	}

	g.Version++
	return nil
}
