package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/kvn-koech/car-rental-management-system/internal/model"
	"github.com/kvn-koech/car-rental-management-system/internal/repository"
)

var (
	adminActor = model.Actor{Subject: "admin", IsAdmin: true}
	userActor  = model.Actor{Subject: "7", UserID: 7}
)

type inventoryFixture struct {
	svc   *InventoryService
	cars  *MockCarRepository
	files *MockContentStore
	audit *MockAuditRepository
	cache *MockCache
}

func newInventory() inventoryFixture {
	f := inventoryFixture{
		cars:  new(MockCarRepository),
		files: new(MockContentStore),
		audit: new(MockAuditRepository),
		cache: new(MockCache),
	}
	f.audit.On("Record", mock.Anything, mock.Anything).Return(nil).Maybe()
	f.cache.On("Purge", mock.Anything).Return(nil).Maybe()
	f.svc = NewInventoryService(f.cars, f.files, f.audit, f.cache, nil)
	return f
}

func carInput() CarInput {
	return CarInput{Make: "Toyota", Model: "Vitz", PricePerDay: 3000, Location: "Nairobi"}
}

func TestCreateCar_NonAdminForbidden(t *testing.T) {
	f := newInventory()

	_, err := f.svc.CreateCar(context.Background(), userActor, carInput(), nil)
	assert.ErrorIs(t, err, ErrForbidden)
	msg, _ := Message(err)
	assert.Equal(t, MsgAdminRequired, msg)
	f.cars.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
	f.files.AssertNotCalled(t, "Save", mock.Anything, mock.Anything, mock.Anything)
}

func TestCreateCar_NoImages(t *testing.T) {
	f := newInventory()
	f.cars.On("Create", mock.Anything, mock.MatchedBy(func(c *model.Car) bool {
		return c.Status == model.CarStatusAvailable && c.ImageURL == nil && c.Make == "Toyota"
	}), []string{}).Run(func(args mock.Arguments) {
		args.Get(1).(*model.Car).ID = 5
	}).Return(nil)

	c, err := f.svc.CreateCar(context.Background(), adminActor, carInput(), nil)
	require.NoError(t, err)
	assert.Equal(t, uint64(5), c.ID)
	f.cars.AssertExpectations(t)
	f.cache.AssertCalled(t, "Purge", mock.Anything)
}

func TestCreateCar_FirstUploadIsPrimary(t *testing.T) {
	f := newInventory()
	f.files.On("Save", mock.Anything, "front.jpg", mock.Anything).Return("http://h/uploads/a.jpg", nil)
	f.files.On("Save", mock.Anything, "back.png", mock.Anything).Return("http://h/uploads/b.png", nil)
	f.cars.On("Create", mock.Anything, mock.MatchedBy(func(c *model.Car) bool {
		return c.ImageURL != nil && *c.ImageURL == "http://h/uploads/a.jpg"
	}), []string{"http://h/uploads/a.jpg", "http://h/uploads/b.png"}).Return(nil)

	in := carInput()
	ignored := "http://elsewhere/x.jpg"
	in.ImageURL = &ignored
	_, err := f.svc.CreateCar(context.Background(), adminActor, in, []ImageUpload{
		{Filename: "front.jpg", Content: strings.NewReader("1")},
		{Filename: "back.png", Content: strings.NewReader("2")},
	})
	require.NoError(t, err)
	f.cars.AssertExpectations(t)
}

func TestCreateCar_RejectsBadUploadBeforeSaving(t *testing.T) {
	f := newInventory()

	_, err := f.svc.CreateCar(context.Background(), adminActor, carInput(), []ImageUpload{
		{Filename: "ok.jpg", Content: strings.NewReader("1")},
		{Filename: "evil.exe", Content: strings.NewReader("2")},
	})
	assert.ErrorIs(t, err, ErrValidation)
	f.files.AssertNotCalled(t, "Save", mock.Anything, mock.Anything, mock.Anything)
}

func TestCreateCar_Validation(t *testing.T) {
	f := newInventory()
	cases := map[string]func(*CarInput){
		MsgMissingFields: func(in *CarInput) { in.Make = " " },
		MsgInvalidStatus: func(in *CarInput) { in.Status = "stolen" },
		"price_per_day must be a positive number": func(in *CarInput) { in.PricePerDay = 0 },
	}
	for want, mutate := range cases {
		in := carInput()
		mutate(&in)
		_, err := f.svc.CreateCar(context.Background(), adminActor, in, nil)
		require.ErrorIs(t, err, ErrValidation, want)
		msg, _ := Message(err)
		assert.Equal(t, want, msg)
	}
}

func TestGetCar_NotFound(t *testing.T) {
	f := newInventory()
	f.cars.On("GetByID", mock.Anything, uint64(9)).Return(nil, repository.ErrCarNotFound)

	_, err := f.svc.GetCar(context.Background(), 9)
	assert.ErrorIs(t, err, ErrNotFound)
	msg, _ := Message(err)
	assert.Equal(t, MsgCarNotFound, msg)
}

func TestUpdateCar(t *testing.T) {
	f := newInventory()
	price := 4500.0
	f.cars.On("Update", mock.Anything, uint64(3), model.CarPatch{PricePerDay: &price}).Return(nil)
	f.cars.On("Update", mock.Anything, uint64(4), mock.Anything).Return(repository.ErrCarNotFound)

	require.NoError(t, f.svc.UpdateCar(context.Background(), adminActor, 3, model.CarPatch{PricePerDay: &price}))
	assert.ErrorIs(t, f.svc.UpdateCar(context.Background(), adminActor, 4, model.CarPatch{PricePerDay: &price}), ErrNotFound)
	assert.ErrorIs(t, f.svc.UpdateCar(context.Background(), userActor, 3, model.CarPatch{}), ErrForbidden)

	bad := "parked"
	assert.ErrorIs(t, f.svc.UpdateCar(context.Background(), adminActor, 3, model.CarPatch{Status: &bad}), ErrValidation)
}

func TestDeleteCar(t *testing.T) {
	f := newInventory()
	f.cars.On("Delete", mock.Anything, uint64(3)).Return(nil)
	f.cars.On("Delete", mock.Anything, uint64(8)).Return(repository.ErrCarNotFound)
	f.cars.On("Delete", mock.Anything, uint64(9)).Return(errors.New("db down"))

	require.NoError(t, f.svc.DeleteCar(context.Background(), adminActor, 3))
	assert.ErrorIs(t, f.svc.DeleteCar(context.Background(), adminActor, 8), ErrNotFound)
	err := f.svc.DeleteCar(context.Background(), adminActor, 9)
	require.Error(t, err)
	_, ok := Message(err)
	assert.False(t, ok)
	assert.ErrorIs(t, f.svc.DeleteCar(context.Background(), userActor, 3), ErrForbidden)

	f.audit.AssertNumberOfCalls(t, "Record", 1)
}
