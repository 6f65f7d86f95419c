package domain

import "time"

// User is the owner of applications and mail accounts. Login/registration
// flows live elsewhere; the sync path only reads provider credentials off
// this record and writes refreshed OAuth tokens back.
type User struct {
	ID       string `json:"id" gorm:"primaryKey"`
	Email    string `json:"email" gorm:"uniqueIndex;not null"`
	Password string `json:"-"` // bcrypt hash, never returned in JSON
	Name     string `json:"name"`
	Provider string `json:"provider"` // "email", "google" or "imap"

	// Gmail OAuth credentials
	AccessToken  string    `json:"-"`
	RefreshToken string    `json:"-"`
	TokenExpiry  time.Time `json:"-"`

	// IMAP credentials (password encrypted at rest)
	ImapServer   string `json:"-"`
	ImapPort     int    `json:"-"`
	ImapPassword string `json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
