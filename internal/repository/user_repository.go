package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/kvn-koech/car-rental-management-system/internal/database"
	"github.com/kvn-koech/car-rental-management-system/internal/model"
)

// UserRepo persists users. Emails are normalized before every write
// and lookup so the unique index on users.email is case-insensitive in
// practice.
type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

const userColumns = "id,username,email,password_hash,phone_number,national_id,is_admin,created_at"

// Create inserts a user and returns its ID. u.PasswordHash must already
// hold the bcrypt hash.
func (r *UserRepo) Create(ctx context.Context, u *model.User) (uint64, error) {
	u.Email = model.NormalizeEmail(u.Email)
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO users (username,email,password_hash,phone_number,national_id,is_admin) VALUES (?,?,?,?,?,?)",
		u.Username, u.Email, u.PasswordHash, u.PhoneNumber, u.NationalID, u.IsAdmin)
	if err != nil {
		if database.IsDuplicateKey(err) {
			return 0, ErrEmailExists
		}
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	u.ID = uint64(id)
	return u.ID, nil
}

// EmailExists reports whether a user with this email is registered.
func (r *UserRepo) EmailExists(ctx context.Context, email string) (bool, error) {
	var one int
	err := r.DB.QueryRowContext(ctx,
		"SELECT 1 FROM users WHERE email=? LIMIT 1", model.NormalizeEmail(email)).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	return err == nil, err
}

// GetByEmail fetches a user by normalized email.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	row := r.DB.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE email=? LIMIT 1", model.NormalizeEmail(email))
	return scanUser(row)
}

func scanUser(row *sql.Row) (*model.User, error) {
	var (
		u          model.User
		nationalID sql.NullString
	)
	err := row.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.PhoneNumber,
		&nationalID, &u.IsAdmin, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	if nationalID.Valid {
		u.NationalID = &nationalID.String
	}
	return &u, nil
}
