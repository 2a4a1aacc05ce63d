package service

import (
	"context"
	"io"

	"github.com/stretchr/testify/mock"

	"github.com/kvn-koech/car-rental-management-system/internal/model"
	"github.com/kvn-koech/car-rental-management-system/internal/queue"
)

// MockUserRepository mocks the UserRepository interface
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, u *model.User) (uint64, error) {
	args := m.Called(ctx, u)
	return args.Get(0).(uint64), args.Error(1)
}

func (m *MockUserRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

// MockAuditRepository mocks the AuditRepository interface
type MockAuditRepository struct {
	mock.Mock
}

func (m *MockAuditRepository) Record(ctx context.Context, e model.AuditEntry) error {
	args := m.Called(ctx, e)
	return args.Error(0)
}

func (m *MockAuditRepository) List(ctx context.Context, limit int) ([]model.AuditEntry, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.AuditEntry), args.Error(1)
}

// MockCarRepository mocks the CarRepository interface
type MockCarRepository struct {
	mock.Mock
}

func (m *MockCarRepository) List(ctx context.Context, location string) ([]*model.Car, error) {
	args := m.Called(ctx, location)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Car), args.Error(1)
}

func (m *MockCarRepository) GetByID(ctx context.Context, id uint64) (*model.Car, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Car), args.Error(1)
}

func (m *MockCarRepository) Create(ctx context.Context, c *model.Car, imageURLs []string) error {
	args := m.Called(ctx, c, imageURLs)
	return args.Error(0)
}

func (m *MockCarRepository) Update(ctx context.Context, id uint64, p model.CarPatch) error {
	args := m.Called(ctx, id, p)
	return args.Error(0)
}

func (m *MockCarRepository) Delete(ctx context.Context, id uint64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockContentStore mocks the ContentStore interface
type MockContentStore struct {
	mock.Mock
}

func (m *MockContentStore) Save(ctx context.Context, filename string, r io.Reader) (string, error) {
	args := m.Called(ctx, filename, r)
	return args.String(0), args.Error(1)
}

// MockCache mocks the CacheInvalidator interface
type MockCache struct {
	mock.Mock
}

func (m *MockCache) Purge(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// MockBookingRepository mocks the BookingRepository interface
type MockBookingRepository struct {
	mock.Mock
}

func (m *MockBookingRepository) Create(ctx context.Context, b *model.Booking, days int64) error {
	args := m.Called(ctx, b, days)
	return args.Error(0)
}

func (m *MockBookingRepository) ListByUser(ctx context.Context, userID uint64) ([]model.BookingView, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.BookingView), args.Error(1)
}

func (m *MockBookingRepository) ListAll(ctx context.Context) ([]model.BookingView, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.BookingView), args.Error(1)
}

func (m *MockBookingRepository) UpdateStatus(ctx context.Context, id uint64, status string) (*model.StatusChange, error) {
	args := m.Called(ctx, id, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.StatusChange), args.Error(1)
}

// MockPublisher mocks the EventPublisher interface
type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) PublishBookingStatusChanged(ctx context.Context, ev queue.BookingStatusChangedEvent) error {
	args := m.Called(ctx, ev)
	return args.Error(0)
}
