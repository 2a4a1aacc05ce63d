package handler

import (
	"context"  // context for service calls
	"net/http" // HTTP status codes and primitives

	"github.com/labstack/echo/v4" // Echo framework for HTTP routing

	"github.com/kvn-koech/car-rental-management-system/internal/service"
)

// Authenticator is the credential store as seen by the auth endpoints.
type Authenticator interface {
	Register(ctx context.Context, in service.RegisterInput) (uint64, error)
	Login(ctx context.Context, email, password string) (*service.Session, error)
	AdminLogin(ctx context.Context, secretKey string) (*service.Session, error)
}

// AuthHandler bundles dependencies for auth endpoints.
type AuthHandler struct {
	Auth Authenticator
}

func NewAuthHandler(auth Authenticator) *AuthHandler {
	return &AuthHandler{Auth: auth}
}

// ----- DTOs -----

type registerReq struct {
	Username    string  `json:"username"`
	Email       string  `json:"email"`
	Password    string  `json:"password"`
	PhoneNumber string  `json:"phone_number"`
	NationalID  *string `json:"national_id"`
}

type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type adminLoginReq struct {
	SecretKey string `json:"secret_key"`
}

type userPart struct {
	ID       uint64 `json:"id"`
	Username string `json:"username"`
	IsAdmin  bool   `json:"is_admin"`
}

type adminPart struct {
	Username string `json:"username"`
	IsAdmin  bool   `json:"is_admin"`
	Role     string `json:"role"`
}

type loginResp struct {
	AccessToken string      `json:"access_token"`
	User        interface{} `json:"user"`
}

// Register creates a regular user account.
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	if _, err := h.Auth.Register(ctx, service.RegisterInput{
		Username:    req.Username,
		Email:       req.Email,
		Password:    req.Password,
		PhoneNumber: req.PhoneNumber,
		NationalID:  req.NationalID,
	}); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, echo.Map{"message": "User registered successfully"})
}

// Login verifies email and password and returns an access token.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	sess, err := h.Auth.Login(ctx, req.Email, req.Password)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, loginResp{
		AccessToken: sess.Token.Token,
		User: userPart{
			ID:       sess.User.ID,
			Username: sess.User.Username,
			IsAdmin:  sess.User.IsAdmin,
		},
	})
}

// AdminLogin exchanges the shared admin key for an admin token.
func (h *AuthHandler) AdminLogin(c echo.Context) error {
	var req adminLoginReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	sess, err := h.Auth.AdminLogin(ctx, req.SecretKey)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, loginResp{
		AccessToken: sess.Token.Token,
		User:        adminPart{Username: "Admin", IsAdmin: true, Role: "admin"},
	})
}
