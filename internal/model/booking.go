package model

import (
	"errors"
	"strings"
	"time"
)

// Booking statuses. New bookings start as pending and wait for an
// admin to confirm or cancel them.
const (
	BookingStatusPending   = "pending"
	BookingStatusConfirmed = "confirmed"
	BookingStatusCancelled = "cancelled"
)

// ValidBookingStatus reports whether s is one of the booking status values.
func ValidBookingStatus(s string) bool {
	switch s {
	case BookingStatusPending, BookingStatusConfirmed, BookingStatusCancelled:
		return true
	}
	return false
}

// Booking records a user's reservation of a car for a date range.
// TotalPrice is snapshotted at creation and never recomputed.
//
// Fields:
//  ID         – primary key identifier.
//  UserID     – user who made the booking.
//  CarID      – car being rented.
//  StartDate  – start of the rental period (UTC).
//  EndDate    – end of the rental period (UTC).
//  TotalPrice – BilledDays(start, end) × car price at creation.
//  Status     – pending, confirmed or cancelled.
//  MpesaCode  – simulated payment reference.
//  CreatedAt  – creation timestamp, used for ordering.
type Booking struct {
	ID         uint64    // bookings.id
	UserID     uint64    // bookings.user_id
	CarID      uint64    // bookings.car_id
	StartDate  time.Time // bookings.start_date
	EndDate    time.Time // bookings.end_date
	TotalPrice float64   // bookings.total_price
	Status     string    // bookings.status
	MpesaCode  string    // bookings.mpesa_code
	CreatedAt  time.Time // bookings.created_at
}

// BookingView is a booking joined with the display fields of its car.
// CarMake and CarModel are empty when the car has since been deleted.
type BookingView struct {
	Booking
	CarMake  string
	CarModel string
}

// CarName returns "make model", or an empty string for a deleted car.
func (v BookingView) CarName() string {
	return strings.TrimSpace(v.CarMake + " " + v.CarModel)
}

// BilledDays returns the number of whole days between start and end,
// floored, with a minimum of one day. A negative or sub-day range is
// billed as one day.
func BilledDays(start, end time.Time) int64 {
	days := int64(end.Sub(start) / (24 * time.Hour))
	if days < 1 {
		return 1
	}
	return days
}

// TotalPrice computes the booking price for a date range and daily rate.
func TotalPrice(start, end time.Time, pricePerDay float64) float64 {
	return float64(BilledDays(start, end)) * pricePerDay
}

// NextCarStatus returns the car status that follows a booking moving to
// bookingStatus. Confirming rents the car; cancelling frees it only when
// it is currently rented. Any other transition leaves the car unchanged.
func NextCarStatus(bookingStatus, carStatus string) string {
	switch {
	case bookingStatus == BookingStatusConfirmed:
		return CarStatusRented
	case bookingStatus == BookingStatusCancelled && carStatus == CarStatusRented:
		return CarStatusAvailable
	}
	return carStatus
}

// StatusChange describes the effect of one booking status update.
// CarFound is false when the booked car no longer exists, in which case
// the car status fields are empty.
type StatusChange struct {
	Booking      Booking
	OldStatus    string
	CarFound     bool
	OldCarStatus string
	NewCarStatus string
}

// ErrInvalidTimestamp is returned by ParseTimestamp for unparseable input.
var ErrInvalidTimestamp = errors.New("invalid timestamp")

// timestampLayouts lists the accepted ISO-8601 shapes, most specific first.
// Layouts without a zone are interpreted as UTC.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

// ParseTimestamp parses an ISO-8601 date or date-time string such as
// "2025-03-01", "2025-03-01T10:00:00" or "2025-03-01T10:00:00Z" and
// returns it in UTC.
func ParseTimestamp(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, ErrInvalidTimestamp
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, ErrInvalidTimestamp
}
