package model

import (
	"strings"
	"time"
	"unicode"
)

// User represents an application user record as stored in the
// `users` table. Identity fields are immutable after registration.
//
// Fields:
//  ID           – primary key identifier of the user.
//  Username     – display name chosen at registration.
//  Email        – unique email address (stored lower-cased).
//  PasswordHash – bcrypt hash; the plaintext is never stored.
//  PhoneNumber  – contact number, also the default M-Pesa number on the client.
//  NationalID   – optional national identity number.
//  IsAdmin      – per-identity admin flag; false for every self-registered user.
//  CreatedAt    – timestamp of creation.
type User struct {
	ID           uint64    // users.id
	Username     string    // users.username
	Email        string    // users.email
	PasswordHash string    // users.password_hash
	PhoneNumber  string    // users.phone_number
	NationalID   *string   // users.national_id (nullable)
	IsAdmin      bool      // users.is_admin
	CreatedAt    time.Time // users.created_at
}

// PasswordSpecialChars is the set of characters that satisfy the
// "special character" rule of the password policy.
const PasswordSpecialChars = `!@#$%^&*()-_=+[]{};:'",.<>/?\|~` + "`"

// MinPasswordLength is the shortest password accepted at registration.
const MinPasswordLength = 8

// MeetsPasswordPolicy reports whether password has at least
// MinPasswordLength characters and contains an upper-case letter, a
// lower-case letter, a digit and one of PasswordSpecialChars.
func MeetsPasswordPolicy(password string) bool {
	if len([]rune(password)) < MinPasswordLength {
		return false
	}
	var upper, lower, digit, special bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		case strings.ContainsRune(PasswordSpecialChars, r):
			special = true
		}
	}
	return upper && lower && digit && special
}

// NormalizeEmail trims and lower-cases an email so lookups and the
// unique index agree.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
