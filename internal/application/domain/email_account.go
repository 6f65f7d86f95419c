package domain

import "time"

// EmailAccount links a user to a mail provider and carries the sync
// watermark. LastEmailInternalDate is milliseconds since epoch and is
// monotonically non-decreasing across successful cycles; zero means "scan
// from the beginning".
type EmailAccount struct {
	ID                    string    `json:"id" gorm:"primaryKey"`
	UserID                string    `json:"user_id" gorm:"index:idx_user_provider,unique;not null"`
	Provider              string    `json:"provider" gorm:"index:idx_user_provider,unique;not null"` // "google" or "imap"
	LastEmailID           string    `json:"last_email_id"`
	LastEmailInternalDate int64     `json:"last_email_internaldate"`
	CreatedAt             time.Time `json:"created_at"`
	UpdatedAt             time.Time `json:"updated_at"`
}
