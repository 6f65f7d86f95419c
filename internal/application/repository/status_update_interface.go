package repository

import appdomain "jobtrail-backend/internal/application/domain"

// StatusUpdateRepository defines persistence for the append-only audit
// trail of email-driven status changes.
type StatusUpdateRepository interface {
	Create(record *appdomain.StatusUpdateRecord) error
	// ExistsForEmail reports whether a message id was already processed for
	// this user. This is the sync deduplication check.
	ExistsForEmail(userID, emailID string) (bool, error)
	ListForApplication(applicationID string) ([]*appdomain.StatusUpdateRecord, error)
}
