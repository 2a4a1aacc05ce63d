package router // package router defines how HTTP routes are registered for the API

import (
	"log/slog"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/kvn-koech/car-rental-management-system/internal/handler"    // HTTP handlers
	"github.com/kvn-koech/car-rental-management-system/internal/middleware" // JWT, admin guard, rate limit, cache
)

// Deps bundles everything route registration needs. RateLimit and Cache
// may be pass-through middleware when Redis is unavailable.
type Deps struct {
	Auth      *handler.AuthHandler
	Cars      *handler.CarHandler
	Bookings  *handler.BookingHandler
	Audit     *handler.AuditHandler
	JWTSecret string
	UploadDir string
	RateLimit echo.MiddlewareFunc
	Cache     echo.MiddlewareFunc
	Logger    *slog.Logger
}

// New builds the Echo instance with global middleware and every route.
func New(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// The frontend calls "/api/cars/" and "/api/cars" interchangeably.
	e.Pre(echomw.RemoveTrailingSlash())
	e.Use(echomw.RequestID())
	e.Use(echomw.Recover())
	e.Use(requestLogger(d.Logger))

	RegisterRoutes(e, d.UploadDir)
	RegisterAuth(e, d.Auth, d.RateLimit)
	RegisterCars(e, d.Cars, d.JWTSecret, d.Cache)
	RegisterBookings(e, d.Bookings, d.JWTSecret)
	RegisterAdmin(e, d.Audit, d.JWTSecret)
	return e
}

// requestLogger emits one slog record per request.
func requestLogger(logger *slog.Logger) echo.MiddlewareFunc {
	if logger == nil {
		logger = slog.Default()
	}
	return echomw.RequestLoggerWithConfig(echomw.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogRemoteIP:  true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomw.RequestLoggerValues) error {
			attrs := []any{
				"method", v.Method,
				"uri", v.URI,
				"status", v.Status,
				"latency_ms", float64(v.Latency) / float64(time.Millisecond),
				"request_id", v.RequestID,
				"remote_ip", v.RemoteIP,
			}
			if v.Error != nil {
				logger.Error("request", append(attrs, "error", v.Error)...)
				return nil
			}
			logger.Info("request", attrs...)
			return nil
		},
	})
}

// RegisterRoutes registers the unauthenticated service routes: root,
// health checks and the uploaded image files.
func RegisterRoutes(e *echo.Echo, uploadDir string) {
	e.GET("/", handler.Root)
	e.GET("/health", handler.Health)
	e.GET("/healthz", handler.Health)
	if uploadDir != "" {
		e.Static("/uploads", uploadDir)
	}
}

// RegisterAuth registers /api/auth. Every route shares the rate limiter.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, rateLimit echo.MiddlewareFunc) {
	g := e.Group("/api/auth")
	if rateLimit != nil {
		g.Use(rateLimit)
	}
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	g.POST("/admin-login", a.AdminLogin)
}

// RegisterCars registers /api/cars. Reads are public and cached; writes
// require an admin token.
func RegisterCars(e *echo.Echo, h *handler.CarHandler, jwtSecret string, cache echo.MiddlewareFunc) {
	g := e.Group("/api/cars")

	var reads []echo.MiddlewareFunc
	if cache != nil {
		reads = append(reads, cache)
	}
	g.GET("", h.List, reads...)
	g.GET("/:id", h.Get, reads...)

	admin := []echo.MiddlewareFunc{middleware.JWTAuth(jwtSecret), middleware.RequireAdmin()}
	g.POST("", h.Create, admin...)
	g.PATCH("/:id", h.Update, admin...)
	g.PUT("/:id", h.Update, admin...) // alias for clients that use PUT
	g.DELETE("/:id", h.Delete, admin...)
}

// RegisterBookings registers /api/bookings. Every route needs a token;
// the admin views also need the admin claim.
func RegisterBookings(e *echo.Echo, h *handler.BookingHandler, jwtSecret string) {
	g := e.Group("/api/bookings", middleware.JWTAuth(jwtSecret))
	g.POST("", h.Create)
	g.GET("/my-bookings", h.Mine)
	g.GET("/all-bookings", h.All, middleware.RequireAdmin())
	g.PATCH("/:id/status", h.UpdateStatus, middleware.RequireAdmin())
}

// RegisterAdmin registers admin-only maintenance routes.
func RegisterAdmin(e *echo.Echo, h *handler.AuditHandler, jwtSecret string) {
	g := e.Group("/api/admin", middleware.JWTAuth(jwtSecret), middleware.RequireAdmin())
	g.GET("/audit-log", h.List)
}
