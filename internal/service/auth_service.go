package service

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"strings"

	"github.com/kvn-koech/car-rental-management-system/internal/config"
	"github.com/kvn-koech/car-rental-management-system/internal/model"
	"github.com/kvn-koech/car-rental-management-system/internal/repository"
	"github.com/kvn-koech/car-rental-management-system/internal/utils"
)

// UserRepository is the persistence the credential store needs.
type UserRepository interface {
	Create(ctx context.Context, u *model.User) (uint64, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
}

// RegisterInput carries the registration form. NationalID is optional.
type RegisterInput struct {
	Username    string
	Email       string
	Password    string
	PhoneNumber string
	NationalID  *string
}

// Session is a successful login: a signed access token plus the user it
// was issued for. User is nil for the shared-key admin session.
type Session struct {
	Token utils.AccessToken
	User  *model.User
}

// AuthService registers users and issues access tokens.
type AuthService struct {
	users  UserRepository
	audit  AuditRepository
	cfg    config.AuthConfig
	logger *slog.Logger
}

// NewAuthService wires the credential store.
func NewAuthService(users UserRepository, audit AuditRepository, cfg config.AuthConfig, logger *slog.Logger) *AuthService {
	if logger == nil {
		logger = slog.Default()
	}
	return &AuthService{users: users, audit: audit, cfg: cfg, logger: logger}
}

// Register creates a regular (non-admin) user and returns its id.
// Checks run in order: required fields, duplicate email, password policy.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (uint64, error) {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = model.NormalizeEmail(in.Email)
	in.PhoneNumber = strings.TrimSpace(in.PhoneNumber)
	if in.Username == "" || in.Email == "" || in.Password == "" || in.PhoneNumber == "" {
		return 0, Validation(MsgMissingFields)
	}

	exists, err := s.users.EmailExists(ctx, in.Email)
	if err != nil {
		return 0, err
	}
	if exists {
		return 0, newError(ErrDuplicateEmail, MsgEmailExists)
	}
	if !model.MeetsPasswordPolicy(in.Password) {
		return 0, newError(ErrPasswordPolicy, MsgPasswordPolicy)
	}

	hash, err := utils.HashPassword(in.Password, s.cfg.BcryptCost)
	if err != nil {
		return 0, err
	}
	if in.NationalID != nil {
		if v := strings.TrimSpace(*in.NationalID); v != "" {
			in.NationalID = &v
		} else {
			in.NationalID = nil
		}
	}
	u := &model.User{
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: hash,
		PhoneNumber:  in.PhoneNumber,
		NationalID:   in.NationalID,
	}
	id, err := s.users.Create(ctx, u)
	if err != nil {
		// Lost a race with a concurrent registration of the same email.
		if errors.Is(err, repository.ErrEmailExists) {
			return 0, newError(ErrDuplicateEmail, MsgEmailExists)
		}
		return 0, err
	}
	s.logger.Info("user registered", "user_id", id)
	return id, nil
}

// Login verifies email and password and issues a token whose subject is
// the user id and whose admin claim mirrors users.is_admin. Unknown email
// and wrong password fail identically.
func (s *AuthService) Login(ctx context.Context, email, password string) (*Session, error) {
	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, newError(ErrInvalidCredentials, MsgInvalidCredentials)
		}
		return nil, err
	}
	if !utils.VerifyPassword(u.PasswordHash, password) {
		return nil, newError(ErrInvalidCredentials, MsgInvalidCredentials)
	}
	subject := strconv.FormatUint(u.ID, 10)
	tok, err := utils.NewAccessToken(s.cfg.JWTSecret, subject, u.IsAdmin, s.cfg.AccessTTL())
	if err != nil {
		return nil, err
	}
	if u.IsAdmin {
		s.recordAudit(ctx, model.AuditEntry{Actor: subject, Action: model.AuditAdminLogin, Entity: "user", EntityID: &u.ID})
	}
	return &Session{Token: tok, User: u}, nil
}

// AdminLogin opens the shared-key admin session. The key is compared in
// constant time against the configured value; when no key is configured
// every attempt fails. Successes and failures are both audited.
func (s *AuthService) AdminLogin(ctx context.Context, secretKey string) (*Session, error) {
	if !utils.SecretsEqual(s.cfg.AdminSecretKey, secretKey) {
		s.logger.Warn("admin login rejected", "configured", s.cfg.AdminSecretKey != "")
		s.recordAudit(ctx, model.AuditEntry{Actor: utils.AdminSubject, Action: model.AuditAdminLoginFailed, Entity: "session"})
		return nil, newError(ErrInvalidAdminKey, MsgInvalidAdminKey)
	}
	tok, err := utils.NewAccessToken(s.cfg.JWTSecret, utils.AdminSubject, true, s.cfg.AccessTTL())
	if err != nil {
		return nil, err
	}
	s.recordAudit(ctx, model.AuditEntry{Actor: utils.AdminSubject, Action: model.AuditAdminLogin, Entity: "session"})
	return &Session{Token: tok}, nil
}

func (s *AuthService) recordAudit(ctx context.Context, e model.AuditEntry) {
	recordAudit(ctx, s.audit, s.logger, e)
}
