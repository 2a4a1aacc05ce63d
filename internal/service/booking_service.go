package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/kvn-koech/car-rental-management-system/internal/model"
	"github.com/kvn-koech/car-rental-management-system/internal/queue"
	"github.com/kvn-koech/car-rental-management-system/internal/utils"
)

// BookingRepository is the persistence the booking lifecycle needs.
type BookingRepository interface {
	Create(ctx context.Context, b *model.Booking, days int64) error
	ListByUser(ctx context.Context, userID uint64) ([]model.BookingView, error)
	ListAll(ctx context.Context) ([]model.BookingView, error)
	UpdateStatus(ctx context.Context, id uint64, status string) (*model.StatusChange, error)
}

// CarReader looks up a car by id.
type CarReader interface {
	GetByID(ctx context.Context, id uint64) (*model.Car, error)
}

// EventPublisher delivers booking events to the broker.
type EventPublisher interface {
	PublishBookingStatusChanged(ctx context.Context, ev queue.BookingStatusChangedEvent) error
}

// BookingInput carries a booking request as received from the client.
// Dates are ISO-8601 strings parsed by the service.
type BookingInput struct {
	CarID      uint64
	StartDate  string
	EndDate    string
	MpesaPhone string
}

// BookingService owns the booking lifecycle.
type BookingService struct {
	bookings  BookingRepository
	cars      CarReader
	events    EventPublisher
	audit     AuditRepository
	cache     CacheInvalidator
	logger    *slog.Logger
	now       func() time.Time
	paymentFn func() (string, error)
}

// NewBookingService wires the booking lifecycle. events and cache may be nil.
func NewBookingService(bookings BookingRepository, cars CarReader, events EventPublisher, audit AuditRepository, cache CacheInvalidator, logger *slog.Logger) *BookingService {
	if logger == nil {
		logger = slog.Default()
	}
	return &BookingService{
		bookings:  bookings,
		cars:      cars,
		events:    events,
		audit:     audit,
		cache:     cache,
		logger:    logger,
		now:       func() time.Time { return time.Now().UTC() },
		paymentFn: utils.NewPaymentReference,
	}
}

// CreateBooking books a car for a regular user. The booking starts as
// pending and is priced at BilledDays x the car's current daily rate.
// Overlapping bookings for the same car are accepted.
func (s *BookingService) CreateBooking(ctx context.Context, actor model.Actor, in BookingInput) (*model.Booking, error) {
	if !actor.IsUser() {
		return nil, newError(ErrForbidden, MsgUserRequired)
	}
	if _, err := s.cars.GetByID(ctx, in.CarID); err != nil {
		return nil, translateNotFound(err)
	}
	start, err := model.ParseTimestamp(in.StartDate)
	if err != nil {
		return nil, Validation(MsgInvalidDate)
	}
	end, err := model.ParseTimestamp(in.EndDate)
	if err != nil {
		return nil, Validation(MsgInvalidDate)
	}
	if strings.TrimSpace(in.MpesaPhone) == "" {
		return nil, Validation(MsgMpesaRequired)
	}

	code, err := s.paymentFn()
	if err != nil {
		return nil, fmt.Errorf("payment reference: %w", err)
	}
	b := &model.Booking{
		UserID:    actor.UserID,
		CarID:     in.CarID,
		StartDate: start,
		EndDate:   end,
		MpesaCode: code,
	}
	if err := s.bookings.Create(ctx, b, model.BilledDays(start, end)); err != nil {
		// The car can disappear between the lookup and the insert.
		return nil, translateNotFound(err)
	}
	s.logger.Info("booking created", "booking_id", b.ID, "user_id", b.UserID, "car_id", b.CarID, "total_price", b.TotalPrice)
	return b, nil
}

// ListMyBookings returns the actor's bookings, newest first.
func (s *BookingService) ListMyBookings(ctx context.Context, actor model.Actor) ([]model.BookingView, error) {
	if !actor.IsUser() {
		return []model.BookingView{}, nil
	}
	return s.bookings.ListByUser(ctx, actor.UserID)
}

// ListAllBookings returns every booking, newest first. Admin only.
func (s *BookingService) ListAllBookings(ctx context.Context, actor model.Actor) ([]model.BookingView, error) {
	if !actor.IsAdmin {
		return nil, Forbidden()
	}
	return s.bookings.ListAll(ctx)
}

// UpdateBookingStatus moves a booking to status. Confirming rents the
// car; cancelling frees it only if it is currently rented. Any of the
// three statuses is accepted as a target, matched exactly. Admin only.
func (s *BookingService) UpdateBookingStatus(ctx context.Context, actor model.Actor, id uint64, status string) (*model.StatusChange, error) {
	if !actor.IsAdmin {
		return nil, Forbidden()
	}
	if !model.ValidBookingStatus(status) {
		return nil, Validation(MsgInvalidStatus)
	}
	ch, err := s.bookings.UpdateStatus(ctx, id, status)
	if err != nil {
		return nil, translateNotFound(err)
	}

	s.logger.Info("booking status changed",
		"booking_id", id, "from", ch.OldStatus, "to", status,
		"car_id", ch.Booking.CarID, "car_status", ch.NewCarStatus, "actor", actor.Subject)
	recordAudit(ctx, s.audit, s.logger, model.AuditEntry{
		Actor:    actor.Subject,
		Action:   model.AuditBookingStatus,
		Entity:   "booking",
		EntityID: &id,
		Detail:   ch.OldStatus + " -> " + status,
	})
	s.publish(ctx, actor, ch)
	purgeCache(ctx, s.cache, s.logger)
	return ch, nil
}

func (s *BookingService) publish(ctx context.Context, actor model.Actor, ch *model.StatusChange) {
	if s.events == nil {
		return
	}
	b := ch.Booking
	ev := queue.BookingStatusChangedEvent{
		BookingID:  b.ID,
		UserID:     b.UserID,
		CarID:      b.CarID,
		OldStatus:  ch.OldStatus,
		NewStatus:  b.Status,
		CarStatus:  ch.NewCarStatus,
		TotalPrice: b.TotalPrice,
		MpesaCode:  b.MpesaCode,
		StartDate:  b.StartDate.UTC().Format(time.RFC3339),
		EndDate:    b.EndDate.UTC().Format(time.RFC3339),
		ChangedBy:  actor.Subject,
		ChangedAt:  s.now().Format(time.RFC3339),
	}
	if err := s.events.PublishBookingStatusChanged(ctx, ev); err != nil {
		s.logger.Warn("booking event publish failed", "booking_id", b.ID, "error", err)
	}
}
