package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"math"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/kvn-koech/car-rental-management-system/internal/model"
	"github.com/kvn-koech/car-rental-management-system/internal/service"
)

// maxUploadMemory is the multipart memory threshold; larger parts spill
// to temporary files.
const maxUploadMemory = 32 << 20

// Inventory is the car fleet as seen by the car endpoints.
type Inventory interface {
	ListCars(ctx context.Context, location string) ([]*model.Car, error)
	GetCar(ctx context.Context, id uint64) (*model.Car, error)
	CreateCar(ctx context.Context, actor model.Actor, in service.CarInput, uploads []service.ImageUpload) (*model.Car, error)
	UpdateCar(ctx context.Context, actor model.Actor, id uint64, p model.CarPatch) error
	DeleteCar(ctx context.Context, actor model.Actor, id uint64) error
}

// CarHandler serves /api/cars.
type CarHandler struct {
	Cars Inventory
}

func NewCarHandler(cars Inventory) *CarHandler {
	return &CarHandler{Cars: cars}
}

type carResp struct {
	ID          uint64   `json:"id"`
	Make        string   `json:"make"`
	Model       string   `json:"model"`
	Year        *int     `json:"year"`
	PricePerDay float64  `json:"price_per_day"`
	ImageURL    *string  `json:"image_url"`
	Status      string   `json:"status"`
	Location    string   `json:"location"`
	Images      []string `json:"images"`
}

func toCarResp(c *model.Car) carResp {
	images := make([]string, 0, len(c.Images))
	for _, img := range c.Images {
		images = append(images, img.ImageURL)
	}
	return carResp{
		ID:          c.ID,
		Make:        c.Make,
		Model:       c.Model,
		Year:        c.Year,
		PricePerDay: c.PricePerDay,
		ImageURL:    c.ImageURL,
		Status:      c.Status,
		Location:    c.Location,
		Images:      images,
	}
}

// flexNumber accepts a JSON number or a numeric string. Browser forms
// send "2020" as readily as 2020. An empty string or null means absent.
type flexNumber struct {
	set bool
	v   float64
}

var errNotANumber = errors.New("not a number")

const msgInvalidYear = "Invalid year"

func (n *flexNumber) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		return n.parse(s)
	}
	var f float64
	if err := json.Unmarshal(b, &f); err != nil {
		return errNotANumber
	}
	n.set, n.v = true, f
	return nil
}

func (n *flexNumber) parse(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return errNotANumber
	}
	n.set, n.v = true, f
	return nil
}

func (n flexNumber) float() *float64 {
	if !n.set {
		return nil
	}
	v := n.v
	return &v
}

// maxWhole is the largest magnitude a float64 holds without losing
// integer precision.
const maxWhole = 1 << 53

// int returns the value as a whole number. ok is false when the value is
// set but has a fractional part or is out of range; it is never rounded.
func (n flexNumber) int() (p *int, ok bool) {
	if !n.set {
		return nil, true
	}
	if n.v != math.Trunc(n.v) || math.Abs(n.v) > maxWhole {
		return nil, false
	}
	v := int(n.v)
	return &v, true
}

// id returns the value as a row id. ok is false unless the value is a
// positive whole number.
func (n flexNumber) id() (uint64, bool) {
	p, ok := n.int()
	if !ok || p == nil || *p <= 0 {
		return 0, false
	}
	return uint64(*p), true
}

// carReq is the JSON body for create and the form for multipart create.
type carReq struct {
	Make        string     `json:"make"`
	Model       string     `json:"model"`
	Year        flexNumber `json:"year"`
	PricePerDay flexNumber `json:"price_per_day"`
	Location    string     `json:"location"`
	Status      string     `json:"status"`
	ImageURL    *string    `json:"image_url"`
}

// carPatchReq leaves absent keys nil.
type carPatchReq struct {
	Make        *string    `json:"make"`
	Model       *string    `json:"model"`
	Year        flexNumber `json:"year"`
	PricePerDay flexNumber `json:"price_per_day"`
	Location    *string    `json:"location"`
	Status      *string    `json:"status"`
	ImageURL    *string    `json:"image_url"`
}

// input converts the request. A non-empty msg is a client error.
func (r carReq) input() (in service.CarInput, msg string) {
	year, ok := r.Year.int()
	if !ok {
		return in, msgInvalidYear
	}
	in = service.CarInput{
		Make:     r.Make,
		Model:    r.Model,
		Year:     year,
		Location: r.Location,
		Status:   r.Status,
		ImageURL: r.ImageURL,
	}
	if p := r.PricePerDay.float(); p != nil {
		in.PricePerDay = *p
	}
	return in, ""
}

// parseID reads the :id path parameter. A malformed id can never match a
// row, so callers report it as not found.
func parseID(c echo.Context) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return id, true
}

// List returns every car, optionally filtered by ?location= substring.
func (h *CarHandler) List(c echo.Context) error {
	ctx, cancel := requestContext(c)
	defer cancel()

	cars, err := h.Cars.ListCars(ctx, c.QueryParam("location"))
	if err != nil {
		return respondError(c, err)
	}
	out := make([]carResp, 0, len(cars))
	for _, car := range cars {
		out = append(out, toCarResp(car))
	}
	return c.JSON(http.StatusOK, out)
}

// Get returns one car with its images.
func (h *CarHandler) Get(c echo.Context) error {
	id, ok := parseID(c)
	if !ok {
		return c.JSON(http.StatusNotFound, echo.Map{"message": service.MsgCarNotFound})
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	car, err := h.Cars.GetCar(ctx, id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, toCarResp(car))
}

// Create adds a car. Multipart requests carry the fields as form values
// and the files under "images"; JSON requests may set image_url instead.
func (h *CarHandler) Create(c echo.Context) error {
	var (
		req     carReq
		uploads []service.ImageUpload
	)
	ctype := c.Request().Header.Get(echo.HeaderContentType)
	if strings.HasPrefix(ctype, echo.MIMEMultipartForm) || strings.HasPrefix(ctype, echo.MIMEApplicationForm) {
		var (
			closeAll func()
			msg      string
		)
		req, uploads, closeAll, msg = readCarForm(c)
		if msg != "" {
			return badRequest(c, msg)
		}
		defer closeAll()
	} else if err := json.NewDecoder(c.Request().Body).Decode(&req); err != nil {
		if errors.Is(err, errNotANumber) {
			return badRequest(c, "price_per_day and year must be numeric")
		}
		return badRequest(c, "Invalid request body")
	}

	in, msg := req.input()
	if msg != "" {
		return badRequest(c, msg)
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	car, err := h.Cars.CreateCar(ctx, actor(c), in, uploads)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, echo.Map{"message": "Car added successfully", "id": car.ID})
}

// readCarForm extracts the form fields and opens every uploaded image.
// The returned func closes the opened files. A non-empty msg is a client
// error.
func readCarForm(c echo.Context) (req carReq, uploads []service.ImageUpload, closeAll func(), msg string) {
	noop := func() {}

	req.Make = c.FormValue("make")
	req.Model = c.FormValue("model")
	req.Location = c.FormValue("location")
	req.Status = c.FormValue("status")
	if err := req.Year.parse(c.FormValue("year")); err != nil {
		return req, nil, noop, msgInvalidYear
	}
	if err := req.PricePerDay.parse(c.FormValue("price_per_day")); err != nil {
		return req, nil, noop, "price_per_day must be a positive number"
	}
	if v := strings.TrimSpace(c.FormValue("image_url")); v != "" {
		req.ImageURL = &v
	}

	if !strings.HasPrefix(c.Request().Header.Get(echo.HeaderContentType), echo.MIMEMultipartForm) {
		return req, nil, noop, ""
	}
	if err := c.Request().ParseMultipartForm(maxUploadMemory); err != nil {
		return req, nil, noop, "Invalid multipart form"
	}
	form := c.Request().MultipartForm
	if form == nil {
		return req, nil, noop, ""
	}

	var opened []multipart.File
	closeAll = func() {
		for _, f := range opened {
			_ = f.Close()
		}
	}
	for _, fh := range form.File["images"] {
		if fh.Filename == "" {
			continue
		}
		f, err := fh.Open()
		if err != nil {
			closeAll()
			return req, nil, noop, "Unreadable image upload"
		}
		opened = append(opened, f)
		uploads = append(uploads, service.ImageUpload{Filename: fh.Filename, Content: f})
	}
	return req, uploads, closeAll, ""
}

// Update applies a partial JSON update.
func (h *CarHandler) Update(c echo.Context) error {
	id, ok := parseID(c)
	if !ok {
		return c.JSON(http.StatusNotFound, echo.Map{"message": service.MsgCarNotFound})
	}
	var req carPatchReq
	if err := json.NewDecoder(c.Request().Body).Decode(&req); err != nil {
		if errors.Is(err, errNotANumber) {
			return badRequest(c, "price_per_day and year must be numeric")
		}
		return badRequest(c, "Invalid request body")
	}
	year, ok := req.Year.int()
	if !ok {
		return badRequest(c, msgInvalidYear)
	}
	patch := model.CarPatch{
		Make:        req.Make,
		Model:       req.Model,
		Year:        year,
		PricePerDay: req.PricePerDay.float(),
		Location:    req.Location,
		Status:      req.Status,
		ImageURL:    req.ImageURL,
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	if err := h.Cars.UpdateCar(ctx, actor(c), id, patch); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Car updated successfully"})
}

// Delete removes a car and its image rows.
func (h *CarHandler) Delete(c echo.Context) error {
	id, ok := parseID(c)
	if !ok {
		return c.JSON(http.StatusNotFound, echo.Map{"message": service.MsgCarNotFound})
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	if err := h.Cars.DeleteCar(ctx, actor(c), id); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Car deleted successfully"})
}
