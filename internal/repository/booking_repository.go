package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/kvn-koech/car-rental-management-system/internal/model"
)

// BookingRepo provides CRUD operations for bookings. A booking keeps
// referencing its car_id after the car is deleted, so reads join cars
// with a LEFT JOIN and report an empty car name for such rows. All
// timestamps are stored in UTC.
type BookingRepo struct {
	db *sql.DB
}

// NewBookingRepo returns a new BookingRepo bound to the given database.
func NewBookingRepo(db *sql.DB) *BookingRepo { return &BookingRepo{db: db} }

// Create inserts a pending booking and prices it from the car's current
// daily rate within the same statement, so a concurrent price change
// cannot produce a total that mixes two rates. days is the billed day
// count. It returns ErrCarNotFound if the car is gone by the time the
// row is written. On success b.ID, b.TotalPrice, b.Status and
// b.CreatedAt are populated.
func (r *BookingRepo) Create(ctx context.Context, b *model.Booking, days int64) error {
	return runInTx(ctx, r.db, func(tx *sql.Tx) error {
		const qInsert = `
INSERT INTO bookings (user_id, car_id, start_date, end_date, total_price, status, mpesa_code)
SELECT ?, c.id, ?, ?, ? * c.price_per_day, ?, ?
  FROM cars c
 WHERE c.id = ?`
		res, err := tx.ExecContext(ctx, qInsert,
			b.UserID, b.StartDate, b.EndDate, days, model.BookingStatusPending, b.MpesaCode, b.CarID)
		if err != nil {
			return err
		}
		n, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if n == 0 {
			return ErrCarNotFound
		}
		id, err := res.LastInsertId()
		if err != nil {
			return err
		}
		b.ID = uint64(id)
		return tx.QueryRowContext(ctx,
			`SELECT total_price, status, created_at FROM bookings WHERE id = ?`, b.ID).
			Scan(&b.TotalPrice, &b.Status, &b.CreatedAt)
	})
}

const bookingViewQuery = `
SELECT b.id, b.user_id, b.car_id, b.start_date, b.end_date, b.total_price,
       b.status, b.mpesa_code, b.created_at,
       COALESCE(c.make, ''), COALESCE(c.model, '')
  FROM bookings b
  LEFT JOIN cars c ON c.id = b.car_id`

// ListByUser returns the user's bookings, newest first.
func (r *BookingRepo) ListByUser(ctx context.Context, userID uint64) ([]model.BookingView, error) {
	return r.listViews(ctx, bookingViewQuery+` WHERE b.user_id = ? ORDER BY b.created_at DESC, b.id DESC`, userID)
}

// ListAll returns every booking in the system, newest first.
func (r *BookingRepo) ListAll(ctx context.Context) ([]model.BookingView, error) {
	return r.listViews(ctx, bookingViewQuery+` ORDER BY b.created_at DESC, b.id DESC`)
}

func (r *BookingRepo) listViews(ctx context.Context, q string, args ...interface{}) ([]model.BookingView, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.BookingView{}
	for rows.Next() {
		var v model.BookingView
		if err := scanBookingView(rows, &v); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

func scanBookingView(s rowScanner, v *model.BookingView) error {
	return s.Scan(&v.ID, &v.UserID, &v.CarID, &v.StartDate, &v.EndDate, &v.TotalPrice,
		&v.Status, &v.MpesaCode, &v.CreatedAt, &v.CarMake, &v.CarModel)
}

// UpdateStatus sets the booking's status and applies the matching car
// status side effect in one transaction. Both rows are locked before
// either is written so two admins acting on bookings for the same car
// serialize. A booking whose car was deleted still has its status
// updated. It returns ErrBookingNotFound when the booking does not
// exist.
func (r *BookingRepo) UpdateStatus(ctx context.Context, id uint64, status string) (*model.StatusChange, error) {
	var ch model.StatusChange
	err := runInTx(ctx, r.db, func(tx *sql.Tx) error {
		b := &ch.Booking
		err := tx.QueryRowContext(ctx, `
SELECT id, user_id, car_id, start_date, end_date, total_price, status, mpesa_code, created_at
  FROM bookings
 WHERE id = ?
 FOR UPDATE`, id).Scan(&b.ID, &b.UserID, &b.CarID, &b.StartDate, &b.EndDate,
			&b.TotalPrice, &b.Status, &b.MpesaCode, &b.CreatedAt)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrBookingNotFound
			}
			return err
		}
		ch.OldStatus = b.Status

		err = tx.QueryRowContext(ctx, `SELECT status FROM cars WHERE id = ? FOR UPDATE`, b.CarID).
			Scan(&ch.OldCarStatus)
		switch {
		case errors.Is(err, sql.ErrNoRows):
			ch.CarFound = false
		case err != nil:
			return err
		default:
			ch.CarFound = true
		}

		if _, err := tx.ExecContext(ctx, `UPDATE bookings SET status = ? WHERE id = ?`, status, id); err != nil {
			return err
		}
		b.Status = status

		if !ch.CarFound {
			return nil
		}
		ch.NewCarStatus = model.NextCarStatus(status, ch.OldCarStatus)
		if ch.NewCarStatus == ch.OldCarStatus {
			return nil
		}
		_, err = tx.ExecContext(ctx, `UPDATE cars SET status = ? WHERE id = ?`, ch.NewCarStatus, b.CarID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return &ch, nil
}
