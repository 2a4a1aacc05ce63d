package model

// Actor is the identity resolved from a verified access token. UserID is
// zero for the shared-key admin session, whose Subject is "admin".
type Actor struct {
	Subject string
	UserID  uint64
	IsAdmin bool
}

// IsUser reports whether the actor is backed by a registered user row.
func (a Actor) IsUser() bool { return a.UserID != 0 }
