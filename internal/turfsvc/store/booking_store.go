package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/openturf/turf-services/internal/turfsvc/models"
)

const bookingColumns = `id, user_id, turf_id, booking_date, start_time, end_time,
	total_players, total_amount, status, payment_status, payment_method,
	version, created_at, updated_at`

type BookingStore struct {
	db *pgxpool.Pool
}

func NewBookingStore(db *pgxpool.Pool) *BookingStore {
	return &BookingStore{db: db}
}

func scanBooking(row pgx.Row) (*models.Booking, error) {
	b := &models.Booking{}
	err := row.Scan(
		&b.ID,
		&b.UserID,
		&b.TurfID,
		&b.Date,
		&b.StartTime,
		&b.EndTime,
		&b.TotalPlayers,
		&b.TotalAmount,
		&b.Status,
		&b.PaymentStatus,
		&b.PaymentMethod,
		&b.Version,
		&b.CreatedAt,
		&b.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return b, nil
}

// CreateIfAvailable inserts the booking only when no pending or confirmed
// booking overlaps its interval on the same turf and date. The conflict check
// and the insert run in one transaction, serialized on the parent turf row:
// locking a row that always exists closes the empty-calendar race, where two
// transactions both scan zero overlapping rows and both insert. The loser of
// the turf lock waits, then its scan sees the winner's committed row.
//
// Start/end times are zero-padded "HH:MM" strings, so plain string comparison
// in SQL orders them correctly.
func (s *BookingStore) CreateIfAvailable(ctx context.Context, b *models.Booking) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin booking tx: %w", err)
	}
	defer tx.Rollback(ctx)

	var turfID string
	err = tx.QueryRow(ctx, `SELECT id FROM turfs WHERE id = $1 FOR UPDATE`, b.TurfID).Scan(&turfID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("%w: turf %s", ErrNotFound, b.TurfID)
		}
		return fmt.Errorf("failed to lock turf: %w", err)
	}

	const overlapQuery = `
		SELECT id
		FROM bookings
		WHERE turf_id = $1
		  AND booking_date = $2
		  AND status IN ('pending', 'confirmed')
		  AND start_time < $3
		  AND end_time > $4
	`

	rows, err := tx.Query(ctx, overlapQuery, b.TurfID, b.Date, b.EndTime, b.StartTime)
	if err != nil {
		return fmt.Errorf("failed to scan overlapping bookings: %w", err)
	}
	conflict := rows.Next()
	rows.Close()
	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to scan conflicting bookings: %w", err)
	}
	if conflict {
		return ErrSlotConflict
	}

	const insertQuery = `
		INSERT INTO bookings (id, user_id, turf_id, booking_date, start_time, end_time,
		                      total_players, total_amount, status, payment_status, payment_method)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING version, created_at, updated_at
	`

	err = tx.QueryRow(ctx, insertQuery,
		b.ID, b.UserID, b.TurfID, b.Date, b.StartTime, b.EndTime,
		b.TotalPlayers, b.TotalAmount, b.Status, b.PaymentStatus, b.PaymentMethod,
	).Scan(&b.Version, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return fmt.Errorf("%w: %s", ErrNotFound, pgErr.ConstraintName)
		}
		return fmt.Errorf("failed to create booking: %w", err)
	}

	return tx.Commit(ctx)
}

func (s *BookingStore) GetByID(ctx context.Context, bookingID string) (*models.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = $1`

	b, err := scanBooking(s.db.QueryRow(ctx, query, bookingID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get booking by ID: %w", err)
	}
	return b, nil
}

// ListForTurfDate returns the bookings of a turf on a calendar date, filtered
// to the given statuses, ordered by start time.
func (s *BookingStore) ListForTurfDate(ctx context.Context, turfID, date string, statuses []string) ([]models.Booking, error) {
	query := `
		SELECT ` + bookingColumns + `
		FROM bookings
		WHERE turf_id = $1 AND booking_date = $2 AND status = ANY($3)
		ORDER BY start_time
	`

	rows, err := s.db.Query(ctx, query, turfID, date, statuses)
	if err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}
	defer rows.Close()

	var bookings []models.Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		bookings = append(bookings, *b)
	}

	return bookings, rows.Err()
}

func (s *BookingStore) ListForUser(ctx context.Context, userID string) ([]models.Booking, error) {
	query := `
		SELECT ` + bookingColumns + `
		FROM bookings
		WHERE user_id = $1
		ORDER BY booking_date DESC, start_time DESC
	`

	rows, err := s.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list user bookings: %w", err)
	}
	defer rows.Close()

	var bookings []models.Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		bookings = append(bookings, *b)
	}

	return bookings, rows.Err()
}

// UpdateStatus transitions a booking's status with an optimistic version
// check. A stale version yields ErrVersionConflict so the caller can reload
// and retry.
func (s *BookingStore) UpdateStatus(ctx context.Context, bookingID, status string, version int64) (*models.Booking, error) {
	query := `
		UPDATE bookings
		SET status = $2, version = version + 1, updated_at = now()
		WHERE id = $1 AND version = $3
		RETURNING ` + bookingColumns

	b, err := scanBooking(s.db.QueryRow(ctx, query, bookingID, status, version))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, s.missOrConflict(ctx, bookingID)
		}
		return nil, fmt.Errorf("failed to update booking status: %w", err)
	}
	return b, nil
}

// UpdatePayment records a payment status/method change, version-checked like
// UpdateStatus.
func (s *BookingStore) UpdatePayment(ctx context.Context, bookingID, paymentStatus, paymentMethod string, version int64) (*models.Booking, error) {
	query := `
		UPDATE bookings
		SET payment_status = $2, payment_method = $3, version = version + 1, updated_at = now()
		WHERE id = $1 AND version = $4
		RETURNING ` + bookingColumns

	b, err := scanBooking(s.db.QueryRow(ctx, query, bookingID, paymentStatus, paymentMethod, version))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, s.missOrConflict(ctx, bookingID)
		}
		return nil, fmt.Errorf("failed to update booking payment: %w", err)
	}
	return b, nil
}

func (s *BookingStore) missOrConflict(ctx context.Context, bookingID string) error {
	var exists bool
	if err := s.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM bookings WHERE id = $1)`, bookingID).Scan(&exists); err != nil {
		return fmt.Errorf("failed to check booking existence: %w", err)
	}
	if exists {
		return ErrVersionConflict
	}
	return ErrNotFound
}
