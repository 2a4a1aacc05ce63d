package model

import "time"

// Car statuses. A car is "rented" while a confirmed booking holds it.
const (
	CarStatusAvailable = "available"
	CarStatusRented    = "rented"
)

// ValidCarStatus reports whether s is one of the car status values.
func ValidCarStatus(s string) bool {
	return s == CarStatusAvailable || s == CarStatusRented
}

// Car represents a vehicle in the rental fleet. This struct
// corresponds to a row in the `cars` table; Images is populated from
// `car_images` by the repository when requested.
//
// Fields:
//  ID          – primary key identifier.
//  Make, Model – manufacturer and model name.
//  Year        – model year (nullable).
//  PricePerDay – daily rate, always positive.
//  ImageURL    – primary (thumbnail) image URL (nullable).
//  Status      – "available" or "rented".
//  Location    – free-text pickup location.
type Car struct {
	ID          uint64     // cars.id
	Make        string     // cars.make
	Model       string     // cars.model
	Year        *int       // cars.year (nullable)
	PricePerDay float64    // cars.price_per_day
	ImageURL    *string    // cars.image_url (nullable)
	Status      string     // cars.status
	Location    string     // cars.location
	CreatedAt   time.Time  // cars.created_at
	Images      []CarImage // car_images rows owned by this car
}

// DisplayName is the "make model" label shown next to bookings.
func (c *Car) DisplayName() string {
	return c.Make + " " + c.Model
}

// CarImage links an uploaded image to its car. Rows are deleted
// together with their car.
type CarImage struct {
	ID       uint64 // car_images.id
	CarID    uint64 // car_images.car_id
	ImageURL string // car_images.image_url
}

// CarPatch carries a partial car update. Nil fields are left unchanged.
type CarPatch struct {
	Make        *string
	Model       *string
	Year        *int
	PricePerDay *float64
	Location    *string
	Status      *string
	ImageURL    *string
}

// Empty reports whether the patch changes nothing.
func (p CarPatch) Empty() bool {
	return p.Make == nil && p.Model == nil && p.Year == nil && p.PricePerDay == nil &&
		p.Location == nil && p.Status == nil && p.ImageURL == nil
}
