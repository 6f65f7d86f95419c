package repository

import appdomain "jobtrail-backend/internal/application/domain"

// EmailAccountRepository defines persistence for provider links and the
// per-user+provider sync watermark.
type EmailAccountRepository interface {
	// GetAccount returns the account for a user+provider, or nil when the
	// provider was never connected.
	GetAccount(userID, provider string) (*appdomain.EmailAccount, error)
	// EnsureAccount returns the existing account or creates an empty one
	// (zero watermark = scan from the beginning).
	EnsureAccount(userID, provider string) (*appdomain.EmailAccount, error)
	// SetWatermark advances the watermark. Called only after a cycle has
	// finished scanning its batch.
	SetWatermark(userID, provider, lastEmailID string, lastInternalDate int64) error
	ListProviders(userID string) ([]string, error)
	DeleteAccount(userID, provider string) error
}
