package models

import "time"

// RefreshToken is the currently live refresh token of a subject.
type RefreshToken struct {
	Username  string
	Token     string
	ExpiresAt time.Time
}

// Expired reports whether the entry is no longer valid at now.
func (t *RefreshToken) Expired(now time.Time) bool {
	return !now.Before(t.ExpiresAt)
}
