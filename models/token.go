package models

import "time"

// TokenLifetime is how long an issued bearer token stays valid.
const TokenLifetime = 30 * 24 * time.Hour

// Token is a bearer credential issued at login and removed at logout.
type Token struct {
	Base
	Ownership
	Token     string     `json:"token" db:"token" gorm:"type:text;uniqueIndex;not null"`
	ExpiresAt *time.Time `json:"expires_at,omitempty" db:"expires_at"`
}

// IsValid reports whether the token can still be used at now.
// A token without expiry never expires.
func (t Token) IsValid(now time.Time) bool {
	return t.ExpiresAt == nil || t.ExpiresAt.After(now)
}
