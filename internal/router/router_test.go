package router

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kvn-koech/car-rental-management-system/internal/handler"
	"github.com/kvn-koech/car-rental-management-system/internal/model"
	"github.com/kvn-koech/car-rental-management-system/internal/service"
)

type stubInventory struct{ listed int }

func (s *stubInventory) ListCars(context.Context, string) ([]*model.Car, error) {
	s.listed++
	return []*model.Car{}, nil
}
func (s *stubInventory) GetCar(context.Context, uint64) (*model.Car, error) {
	return nil, &service.Error{Kind: service.ErrNotFound, Message: service.MsgCarNotFound}
}
func (s *stubInventory) CreateCar(context.Context, model.Actor, service.CarInput, []service.ImageUpload) (*model.Car, error) {
	return &model.Car{ID: 1}, nil
}
func (s *stubInventory) UpdateCar(context.Context, model.Actor, uint64, model.CarPatch) error {
	return nil
}
func (s *stubInventory) DeleteCar(context.Context, model.Actor, uint64) error { return nil }

func newTestEcho(t *testing.T) (*echo.Echo, *stubInventory) {
	t.Helper()
	inv := &stubInventory{}
	e := New(Deps{
		Auth:      handler.NewAuthHandler(nil),
		Cars:      handler.NewCarHandler(inv),
		Bookings:  handler.NewBookingHandler(nil),
		Audit:     handler.NewAuditHandler(nil),
		JWTSecret: "router-test-secret-0123456789",
		UploadDir: t.TempDir(),
	})
	return e, inv
}

func TestRoutesRegistered(t *testing.T) {
	e, _ := newTestEcho(t)

	have := map[string]bool{}
	for _, r := range e.Routes() {
		have[r.Method+" "+r.Path] = true
	}
	for _, want := range []string{
		"GET /",
		"GET /health",
		"GET /healthz",
		"POST /api/auth/register",
		"POST /api/auth/login",
		"POST /api/auth/admin-login",
		"GET /api/cars",
		"GET /api/cars/:id",
		"POST /api/cars",
		"PATCH /api/cars/:id",
		"DELETE /api/cars/:id",
		"POST /api/bookings",
		"GET /api/bookings/my-bookings",
		"GET /api/bookings/all-bookings",
		"PATCH /api/bookings/:id/status",
		"GET /api/admin/audit-log",
	} {
		assert.True(t, have[want], "missing route %s", want)
	}
}

func TestTrailingSlashIsIgnored(t *testing.T) {
	e, inv := newTestEcho(t)

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/cars/", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, inv.listed)
	assert.NotEmpty(t, rec.Header().Get(echo.HeaderXRequestID))
}

func TestProtectedRoutesNeedToken(t *testing.T) {
	e, _ := newTestEcho(t)

	for _, tc := range []struct{ method, path string }{
		{http.MethodPost, "/api/cars"},
		{http.MethodDelete, "/api/cars/1"},
		{http.MethodPost, "/api/bookings"},
		{http.MethodGet, "/api/bookings/my-bookings"},
		{http.MethodGet, "/api/admin/audit-log"},
	} {
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(tc.method, tc.path, nil))
		assert.Equal(t, http.StatusUnauthorized, rec.Code, tc.method+" "+tc.path)
	}
}
