package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/kvn-koech/car-rental-management-system/internal/model"
	"github.com/kvn-koech/car-rental-management-system/internal/repository"
	"github.com/kvn-koech/car-rental-management-system/internal/storage"
)

// CarRepository is the persistence the inventory needs.
type CarRepository interface {
	List(ctx context.Context, location string) ([]*model.Car, error)
	GetByID(ctx context.Context, id uint64) (*model.Car, error)
	Create(ctx context.Context, c *model.Car, imageURLs []string) error
	Update(ctx context.Context, id uint64, p model.CarPatch) error
	Delete(ctx context.Context, id uint64) error
}

// ContentStore persists an uploaded file and returns its public URL.
type ContentStore interface {
	Save(ctx context.Context, filename string, r io.Reader) (string, error)
}

// CacheInvalidator drops cached car listings after a write.
type CacheInvalidator interface {
	Purge(ctx context.Context) error
}

// CarInput carries the fields of a new car. Status defaults to available.
type CarInput struct {
	Make        string  `validate:"required,max=50"`
	Model       string  `validate:"required,max=50"`
	Year        *int    `validate:"omitempty,gte=1886,lte=2100"`
	PricePerDay float64 `validate:"gt=0"`
	Location    string  `validate:"required,max=100"`
	Status      string  `validate:"omitempty,oneof=available rented"`
	ImageURL    *string `validate:"omitempty,max=500"`
}

// ImageUpload is one file attached to a car creation request.
type ImageUpload struct {
	Filename string
	Content  io.Reader
}

var validate = validator.New()

// InventoryService manages the car fleet.
type InventoryService struct {
	cars   CarRepository
	files  ContentStore
	audit  AuditRepository
	cache  CacheInvalidator
	logger *slog.Logger
}

// NewInventoryService wires the inventory. cache may be nil.
func NewInventoryService(cars CarRepository, files ContentStore, audit AuditRepository, cache CacheInvalidator, logger *slog.Logger) *InventoryService {
	if logger == nil {
		logger = slog.Default()
	}
	return &InventoryService{cars: cars, files: files, audit: audit, cache: cache, logger: logger}
}

// ListCars returns every car, optionally filtered by a case-insensitive
// location substring. Cars of every status are returned.
func (s *InventoryService) ListCars(ctx context.Context, location string) ([]*model.Car, error) {
	return s.cars.List(ctx, location)
}

// GetCar returns a car with its images.
func (s *InventoryService) GetCar(ctx context.Context, id uint64) (*model.Car, error) {
	c, err := s.cars.GetByID(ctx, id)
	if err != nil {
		return nil, translateNotFound(err)
	}
	return c, nil
}

// CreateCar adds a car. Every upload is stored before the row is
// written; the first upload becomes the primary image and each upload
// gets a car_images row. Without uploads, in.ImageURL (if any) is the
// primary image and no car_images rows are created. Files stored before
// a failed insert are left in place.
func (s *InventoryService) CreateCar(ctx context.Context, actor model.Actor, in CarInput, uploads []ImageUpload) (*model.Car, error) {
	if !actor.IsAdmin {
		return nil, Forbidden()
	}
	in.Make = strings.TrimSpace(in.Make)
	in.Model = strings.TrimSpace(in.Model)
	in.Location = strings.TrimSpace(in.Location)
	if in.Status == "" {
		in.Status = model.CarStatusAvailable
	}
	if err := validateCar(in); err != nil {
		return nil, err
	}
	for _, u := range uploads {
		if !storage.AllowedImage(u.Filename) {
			return nil, Validation(fmt.Sprintf("Unsupported image type: %s", u.Filename))
		}
	}

	urls := make([]string, 0, len(uploads))
	for _, u := range uploads {
		url, err := s.files.Save(ctx, u.Filename, u.Content)
		if err != nil {
			return nil, fmt.Errorf("store image %q: %w", u.Filename, err)
		}
		urls = append(urls, url)
	}

	c := &model.Car{
		Make:        in.Make,
		Model:       in.Model,
		Year:        in.Year,
		PricePerDay: in.PricePerDay,
		ImageURL:    in.ImageURL,
		Status:      in.Status,
		Location:    in.Location,
	}
	if len(urls) > 0 {
		c.ImageURL = &urls[0]
	}
	if err := s.cars.Create(ctx, c, urls); err != nil {
		return nil, err
	}

	s.logger.Info("car created", "car_id", c.ID, "images", len(urls), "actor", actor.Subject)
	recordAudit(ctx, s.audit, s.logger, model.AuditEntry{
		Actor: actor.Subject, Action: model.AuditCarCreated, Entity: "car", EntityID: &c.ID, Detail: c.DisplayName(),
	})
	s.purge(ctx)
	return c, nil
}

// UpdateCar applies only the fields present in p.
func (s *InventoryService) UpdateCar(ctx context.Context, actor model.Actor, id uint64, p model.CarPatch) error {
	if !actor.IsAdmin {
		return Forbidden()
	}
	if err := validatePatch(&p); err != nil {
		return err
	}
	if err := s.cars.Update(ctx, id, p); err != nil {
		return translateNotFound(err)
	}

	recordAudit(ctx, s.audit, s.logger, model.AuditEntry{
		Actor: actor.Subject, Action: model.AuditCarUpdated, Entity: "car", EntityID: &id,
	})
	s.purge(ctx)
	return nil
}

// DeleteCar removes a car and its images. Bookings referencing the car
// are kept.
func (s *InventoryService) DeleteCar(ctx context.Context, actor model.Actor, id uint64) error {
	if !actor.IsAdmin {
		return Forbidden()
	}
	if err := s.cars.Delete(ctx, id); err != nil {
		return translateNotFound(err)
	}

	s.logger.Info("car deleted", "car_id", id, "actor", actor.Subject)
	recordAudit(ctx, s.audit, s.logger, model.AuditEntry{
		Actor: actor.Subject, Action: model.AuditCarDeleted, Entity: "car", EntityID: &id,
	})
	s.purge(ctx)
	return nil
}

func (s *InventoryService) purge(ctx context.Context) {
	purgeCache(ctx, s.cache, s.logger)
}

func purgeCache(ctx context.Context, cache CacheInvalidator, logger *slog.Logger) {
	if cache == nil {
		return
	}
	if err := cache.Purge(ctx); err != nil {
		logger.Warn("cache purge failed", "error", err)
	}
}

func validateCar(in CarInput) error {
	err := validate.Struct(in)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err
	}
	return Validation(carFieldMessage(verrs[0]))
}

func carFieldMessage(fe validator.FieldError) string {
	switch fe.Field() {
	case "Status":
		return MsgInvalidStatus
	case "PricePerDay":
		return "price_per_day must be a positive number"
	case "Year":
		return "Invalid year"
	}
	if fe.Tag() == "required" {
		return MsgMissingFields
	}
	return fmt.Sprintf("Invalid %s", strings.ToLower(fe.Field()))
}

func validatePatch(p *model.CarPatch) error {
	for _, f := range []**string{&p.Make, &p.Model, &p.Location} {
		if *f != nil {
			v := strings.TrimSpace(**f)
			if v == "" {
				return Validation(MsgMissingFields)
			}
			*f = &v
		}
	}
	if p.PricePerDay != nil && *p.PricePerDay <= 0 {
		return Validation("price_per_day must be a positive number")
	}
	if p.Status != nil && !model.ValidCarStatus(*p.Status) {
		return Validation(MsgInvalidStatus)
	}
	if p.Year != nil && (*p.Year < 1886 || *p.Year > 2100) {
		return Validation("Invalid year")
	}
	return nil
}

// translateNotFound maps repository not-found sentinels to service errors.
func translateNotFound(err error) error {
	switch {
	case errors.Is(err, repository.ErrCarNotFound):
		return newError(ErrNotFound, MsgCarNotFound)
	case errors.Is(err, repository.ErrBookingNotFound):
		return newError(ErrNotFound, MsgBookingNotFound)
	}
	return err
}
