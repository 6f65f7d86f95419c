package domain

import "time"

// StatusUpdateRecord is the append-only audit trail: one row per message
// that passed the relevance and confidence gates. The (user_id, email_id)
// pair doubles as the sync deduplication key, so overlapping poll results
// are processed at most once.
type StatusUpdateRecord struct {
	ID            string    `json:"id" gorm:"primaryKey"`
	UserID        string    `json:"user_id" gorm:"index:idx_user_email;not null;uniqueIndex:idx_user_email_unique"`
	ApplicationID string    `json:"application_id" gorm:"index;not null"`
	Status        string    `json:"status" gorm:"not null"`
	Source        string    `json:"source" gorm:"default:'email'"`
	EmailID       string    `json:"email_id" gorm:"index:idx_user_email;not null;uniqueIndex:idx_user_email_unique"`
	Subject       string    `json:"subject"`
	BodySnippet   string    `json:"body_snippet"`
	OccurredAt    time.Time `json:"occurred_at"`
	CreatedAt     time.Time `json:"created_at"`
}
