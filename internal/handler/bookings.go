package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/kvn-koech/car-rental-management-system/internal/model"
	"github.com/kvn-koech/car-rental-management-system/internal/service"
)

// Bookings is the booking lifecycle as seen by the booking endpoints.
type Bookings interface {
	CreateBooking(ctx context.Context, actor model.Actor, in service.BookingInput) (*model.Booking, error)
	ListMyBookings(ctx context.Context, actor model.Actor) ([]model.BookingView, error)
	ListAllBookings(ctx context.Context, actor model.Actor) ([]model.BookingView, error)
	UpdateBookingStatus(ctx context.Context, actor model.Actor, id uint64, status string) (*model.StatusChange, error)
}

// BookingHandler serves /api/bookings.
type BookingHandler struct {
	Bookings Bookings
}

func NewBookingHandler(b Bookings) *BookingHandler {
	return &BookingHandler{Bookings: b}
}

type createBookingReq struct {
	CarID      flexNumber `json:"car_id"`
	StartDate  string     `json:"start_date"`
	EndDate    string     `json:"end_date"`
	MpesaPhone string     `json:"mpesa_phone"`
}

type statusReq struct {
	Status string `json:"status"`
}

// bookingItem is one entry of my-bookings.
type bookingItem struct {
	ID         uint64  `json:"id"`
	Car        string  `json:"car"`
	StartDate  string  `json:"start_date"`
	EndDate    string  `json:"end_date"`
	TotalPrice float64 `json:"total_price"`
	Status     string  `json:"status"`
	MpesaCode  string  `json:"mpesa_code"`
}

// adminBookingItem adds the ids and creation time for the admin view.
type adminBookingItem struct {
	bookingItem
	UserID    uint64 `json:"user_id"`
	CarID     uint64 `json:"car_id"`
	CreatedAt string `json:"created_at"`
}

func toBookingItem(v model.BookingView) bookingItem {
	return bookingItem{
		ID:         v.ID,
		Car:        v.CarName(),
		StartDate:  v.StartDate.UTC().Format(time.RFC3339),
		EndDate:    v.EndDate.UTC().Format(time.RFC3339),
		TotalPrice: v.TotalPrice,
		Status:     v.Status,
		MpesaCode:  v.MpesaCode,
	}
}

// Create books a car for the calling user.
func (h *BookingHandler) Create(c echo.Context) error {
	var req createBookingReq
	if err := json.NewDecoder(c.Request().Body).Decode(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	// Absent car_id is left to the service, which reports it as not found.
	var carID uint64
	if req.CarID.set {
		id, ok := req.CarID.id()
		if !ok {
			return badRequest(c, "car_id must be a positive integer")
		}
		carID = id
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	b, err := h.Bookings.CreateBooking(ctx, actor(c), service.BookingInput{
		CarID:      carID,
		StartDate:  req.StartDate,
		EndDate:    req.EndDate,
		MpesaPhone: req.MpesaPhone,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, echo.Map{
		"message":     "Booking created successfully",
		"booking_id":  b.ID,
		"total_price": b.TotalPrice,
		"mpesa_code":  b.MpesaCode,
		"status":      b.Status,
	})
}

// Mine lists the caller's bookings, newest first.
func (h *BookingHandler) Mine(c echo.Context) error {
	ctx, cancel := requestContext(c)
	defer cancel()

	views, err := h.Bookings.ListMyBookings(ctx, actor(c))
	if err != nil {
		return respondError(c, err)
	}
	out := make([]bookingItem, 0, len(views))
	for _, v := range views {
		out = append(out, toBookingItem(v))
	}
	return c.JSON(http.StatusOK, out)
}

// All lists every booking for admins.
func (h *BookingHandler) All(c echo.Context) error {
	ctx, cancel := requestContext(c)
	defer cancel()

	views, err := h.Bookings.ListAllBookings(ctx, actor(c))
	if err != nil {
		return respondError(c, err)
	}
	out := make([]adminBookingItem, 0, len(views))
	for _, v := range views {
		out = append(out, adminBookingItem{
			bookingItem: toBookingItem(v),
			UserID:      v.UserID,
			CarID:       v.CarID,
			CreatedAt:   v.CreatedAt.UTC().Format(time.RFC3339),
		})
	}
	return c.JSON(http.StatusOK, out)
}

// UpdateStatus moves a booking to a new status.
func (h *BookingHandler) UpdateStatus(c echo.Context) error {
	id, ok := parseID(c)
	if !ok {
		return c.JSON(http.StatusNotFound, echo.Map{"message": service.MsgBookingNotFound})
	}
	var req statusReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	ch, err := h.Bookings.UpdateBookingStatus(ctx, actor(c), id, req.Status)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Booking status updated to " + ch.Booking.Status})
}
