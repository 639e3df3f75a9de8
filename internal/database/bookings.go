package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"sharebox/internal/models"
)

const bookingColumns = `id, item_id, booker_id, start_time, end_time, status`

func (db *DB) CreateBooking(ctx context.Context, booking *models.Booking) error {
	query := `INSERT INTO bookings (item_id, booker_id, start_time, end_time, status) VALUES (?, ?, ?, ?, ?)`
	result, err := db.ExecContext(ctx, query,
		booking.ItemID,
		booking.BookerID,
		fmtTime(booking.Start),
		fmtTime(booking.End),
		string(booking.Status),
	)
	if err != nil {
		return fmt.Errorf("failed to create booking: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}
	booking.ID = id
	return nil
}

func (db *DB) GetBooking(ctx context.Context, id int64) (*models.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = ?`
	booking, err := scanBooking(db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get booking: %w", err)
	}
	return booking, nil
}

// UpdateBookingStatusFrom flips the status only if the row still holds the
// status the caller read. Zero rows affected means someone got there first.
func (db *DB) UpdateBookingStatusFrom(ctx context.Context, id int64, from, to models.BookingStatus) error {
	query := `UPDATE bookings SET status = ? WHERE id = ? AND status = ?`
	result, err := db.ExecContext(ctx, query, string(to), id, string(from))
	if err != nil {
		return fmt.Errorf("failed to update booking status: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return ErrConcurrentModification
	}
	return nil
}

func (db *DB) AllBookings(ctx context.Context) ([]*models.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings ORDER BY start_time DESC, id DESC`
	return db.queryBookings(ctx, query)
}

func (db *DB) BookingsByStatus(ctx context.Context, status models.BookingStatus) ([]*models.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE status = ? ORDER BY start_time DESC, id DESC`
	return db.queryBookings(ctx, query, string(status))
}

func (db *DB) BookingsEndingBefore(ctx context.Context, t time.Time) ([]*models.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE end_time < ? ORDER BY start_time DESC, id DESC`
	return db.queryBookings(ctx, query, fmtTime(t))
}

func (db *DB) BookingsStraddling(ctx context.Context, t time.Time) ([]*models.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE start_time < ? AND end_time > ? ORDER BY start_time DESC, id DESC`
	now := fmtTime(t)
	return db.queryBookings(ctx, query, now, now)
}

func (db *DB) BookingsStartingAfter(ctx context.Context, t time.Time) ([]*models.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE start_time > ? ORDER BY start_time DESC, id DESC`
	return db.queryBookings(ctx, query, fmtTime(t))
}

// LastBookingForItem returns the item's booking with the greatest start still
// before now, or nil when there is none.
func (db *DB) LastBookingForItem(ctx context.Context, itemID int64, now time.Time) (*models.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings
              WHERE item_id = ? AND start_time < ?
              ORDER BY start_time DESC, id DESC LIMIT 1`
	booking, err := scanBooking(db.QueryRowContext(ctx, query, itemID, fmtTime(now)))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get last booking: %w", err)
	}
	return booking, nil
}

// NextBookingForItem returns the item's booking with the smallest start at or
// after now, or nil when there is none.
func (db *DB) NextBookingForItem(ctx context.Context, itemID int64, now time.Time) (*models.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings
              WHERE item_id = ? AND start_time >= ?
              ORDER BY start_time ASC, id ASC LIMIT 1`
	booking, err := scanBooking(db.QueryRowContext(ctx, query, itemID, fmtTime(now)))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get next booking: %w", err)
	}
	return booking, nil
}

// HasEligibleBooking reports whether the user holds any non-rejected booking
// on the item that started at or before the given instant.
func (db *DB) HasEligibleBooking(ctx context.Context, bookerID, itemID int64, at time.Time) (bool, error) {
	query := `SELECT COUNT(*) FROM bookings
              WHERE booker_id = ? AND item_id = ? AND status != ? AND start_time <= ?`
	var count int
	err := db.QueryRowContext(ctx, query, bookerID, itemID, string(models.StatusRejected), fmtTime(at)).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to check booking eligibility: %w", err)
	}
	return count > 0, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBooking(row rowScanner) (*models.Booking, error) {
	b := &models.Booking{}
	var startStr, endStr, status string
	if err := row.Scan(&b.ID, &b.ItemID, &b.BookerID, &startStr, &endStr, &status); err != nil {
		return nil, err
	}

	var err error
	if b.Start, err = parseTime(startStr); err != nil {
		return nil, err
	}
	if b.End, err = parseTime(endStr); err != nil {
		return nil, err
	}
	b.Status = models.BookingStatus(status)
	return b, nil
}

func (db *DB) queryBookings(ctx context.Context, query string, args ...any) ([]*models.Booking, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query bookings: %w", err)
	}
	defer rows.Close()

	var bookings []*models.Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan booking: %w", err)
		}
		bookings = append(bookings, b)
	}
	return bookings, rows.Err()
}
