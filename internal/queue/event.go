// Package queue defines message payloads exchanged over the message broker
// and the background consumer that records them.
package queue

// BookingStatusQueue is the durable queue carrying booking status changes.
const BookingStatusQueue = "booking.status"

// BookingStatusChangedEvent is published after an admin moves a booking to
// a new status. It carries enough information for downstream consumers to
// log, notify, or trigger analytics without querying the primary database.
// CarStatus is empty when the booked car no longer exists.
type BookingStatusChangedEvent struct {
	BookingID  uint64  `json:"booking_id"`
	UserID     uint64  `json:"user_id"`
	CarID      uint64  `json:"car_id"`
	OldStatus  string  `json:"old_status"`
	NewStatus  string  `json:"new_status"`
	CarStatus  string  `json:"car_status,omitempty"`
	TotalPrice float64 `json:"total_price"`
	MpesaCode  string  `json:"mpesa_code"`
	StartDate  string  `json:"start_date"`
	EndDate    string  `json:"end_date"`
	ChangedBy  string  `json:"changed_by"`
	ChangedAt  string  `json:"changed_at"`
}
