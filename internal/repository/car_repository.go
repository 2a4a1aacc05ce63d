// Package repository contains data access logic separated from HTTP handlers
// and services. This file holds the Car repository: cars and the images
// attached to them. Images are owned exclusively by their car and are
// removed with it.
package repository

import (
	"context"      // context allows passing deadlines and cancellation signals to DB operations
	"database/sql" // sql provides generic database operations and drivers
	"errors"
	"strings"

	"github.com/kvn-koech/car-rental-management-system/internal/model"
)

// CarRepo encapsulates all database queries related to cars and
// car_images. It depends on a sql.DB connection configured elsewhere.
type CarRepo struct {
	db *sql.DB
}

// NewCarRepo constructs a CarRepo with the provided DB handle.
func NewCarRepo(db *sql.DB) *CarRepo {
	return &CarRepo{db: db}
}

const carColumns = "id, make, model, year, price_per_day, image_url, status, location, created_at"

// Create inserts a car and one car_images row per image URL in a single
// transaction. On success the car's ID and Images are populated.
func (r *CarRepo) Create(ctx context.Context, c *model.Car, imageURLs []string) error {
	return runInTx(ctx, r.db, func(tx *sql.Tx) error {
		const qInsert = `INSERT INTO cars (make, model, year, price_per_day, image_url, status, location)
		                 VALUES (?, ?, ?, ?, ?, ?, ?)`
		res, err := tx.ExecContext(ctx, qInsert,
			c.Make, c.Model, c.Year, c.PricePerDay, c.ImageURL, c.Status, c.Location)
		if err != nil {
			return err
		}
		id, err := res.LastInsertId()
		if err != nil {
			return err
		}
		c.ID = uint64(id)

		c.Images = c.Images[:0]
		for _, u := range imageURLs {
			res, err := tx.ExecContext(ctx, `INSERT INTO car_images (car_id, image_url) VALUES (?, ?)`, c.ID, u)
			if err != nil {
				return err
			}
			imgID, err := res.LastInsertId()
			if err != nil {
				return err
			}
			c.Images = append(c.Images, model.CarImage{ID: uint64(imgID), CarID: c.ID, ImageURL: u})
		}
		return nil
	})
}

// GetByID fetches a car with its images. It returns ErrCarNotFound if no
// row is found.
func (r *CarRepo) GetByID(ctx context.Context, id uint64) (*model.Car, error) {
	c, err := scanCar(r.db.QueryRowContext(ctx, "SELECT "+carColumns+" FROM cars WHERE id = ?", id))
	if err != nil {
		return nil, err
	}
	if err := r.attachImages(ctx, []*model.Car{c}); err != nil {
		return nil, err
	}
	return c, nil
}

// List returns all cars ordered by id, each with its images. A non-empty
// location restricts the result to cars whose location contains it,
// case-insensitively. Status is not filtered.
func (r *CarRepo) List(ctx context.Context, location string) ([]*model.Car, error) {
	q := "SELECT " + carColumns + " FROM cars"
	var args []interface{}
	if location = strings.TrimSpace(location); location != "" {
		q += ` WHERE LOWER(location) LIKE ? ESCAPE '\\'`
		args = append(args, "%"+escapeLike(strings.ToLower(location))+"%")
	}
	q += " ORDER BY id"

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []*model.Car{}
	for rows.Next() {
		c, err := scanCar(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if err := r.attachImages(ctx, out); err != nil {
		return nil, err
	}
	return out, nil
}

// Update applies the non-nil fields of p to the car. It returns
// ErrCarNotFound when the car does not exist. An empty patch only
// checks existence.
func (r *CarRepo) Update(ctx context.Context, id uint64, p model.CarPatch) error {
	return runInTx(ctx, r.db, func(tx *sql.Tx) error {
		if err := lockCar(ctx, tx, id); err != nil {
			return err
		}
		if p.Empty() {
			return nil
		}
		var (
			sets []string
			args []interface{}
		)
		add := func(col string, v interface{}) {
			sets = append(sets, col+" = ?")
			args = append(args, v)
		}
		if p.Make != nil {
			add("make", *p.Make)
		}
		if p.Model != nil {
			add("model", *p.Model)
		}
		if p.Year != nil {
			add("year", *p.Year)
		}
		if p.PricePerDay != nil {
			add("price_per_day", *p.PricePerDay)
		}
		if p.Location != nil {
			add("location", *p.Location)
		}
		if p.Status != nil {
			add("status", *p.Status)
		}
		if p.ImageURL != nil {
			add("image_url", *p.ImageURL)
		}
		args = append(args, id)
		_, err := tx.ExecContext(ctx, "UPDATE cars SET "+strings.Join(sets, ", ")+" WHERE id = ?", args...)
		return err
	})
}

// Delete removes a car and its images in one transaction. Bookings that
// reference the car are left untouched. It returns ErrCarNotFound when
// the car does not exist.
func (r *CarRepo) Delete(ctx context.Context, id uint64) error {
	return runInTx(ctx, r.db, func(tx *sql.Tx) error {
		if err := lockCar(ctx, tx, id); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM car_images WHERE car_id = ?`, id); err != nil {
			return err
		}
		_, err := tx.ExecContext(ctx, `DELETE FROM cars WHERE id = ?`, id)
		return err
	})
}

// lockCar takes a row lock on the car for the rest of the transaction.
func lockCar(ctx context.Context, tx *sql.Tx, id uint64) error {
	var got uint64
	if err := tx.QueryRowContext(ctx, `SELECT id FROM cars WHERE id = ? FOR UPDATE`, id).Scan(&got); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrCarNotFound
		}
		return err
	}
	return nil
}

// attachImages loads car_images for all given cars with one query.
func (r *CarRepo) attachImages(ctx context.Context, cars []*model.Car) error {
	if len(cars) == 0 {
		return nil
	}
	byID := make(map[uint64]*model.Car, len(cars))
	args := make([]interface{}, 0, len(cars))
	for _, c := range cars {
		c.Images = []model.CarImage{}
		byID[c.ID] = c
		args = append(args, c.ID)
	}
	q := "SELECT id, car_id, image_url FROM car_images WHERE car_id IN (?" +
		strings.Repeat(", ?", len(cars)-1) + ") ORDER BY id"
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var img model.CarImage
		if err := rows.Scan(&img.ID, &img.CarID, &img.ImageURL); err != nil {
			return err
		}
		if c := byID[img.CarID]; c != nil {
			c.Images = append(c.Images, img)
		}
	}
	return rows.Err()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanCar(s rowScanner) (*model.Car, error) {
	var (
		c        model.Car
		year     sql.NullInt64
		imageURL sql.NullString
	)
	err := s.Scan(&c.ID, &c.Make, &c.Model, &year, &c.PricePerDay, &imageURL, &c.Status, &c.Location, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCarNotFound
		}
		return nil, err
	}
	if year.Valid {
		y := int(year.Int64)
		c.Year = &y
	}
	if imageURL.Valid {
		c.ImageURL = &imageURL.String
	}
	return &c, nil
}

// escapeLike escapes LIKE wildcards so the filter matches literally.
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
