package usecase

import "context"

// SyncSummary is the outcome of one sync cycle.
type SyncSummary struct {
	Processed    int            `json:"processed"`
	Total        int            `json:"total"`
	Created      int            `json:"created"`
	Updated      int            `json:"updated"`
	Skipped      int            `json:"skipped"`
	ReasonCounts map[string]int `json:"reasonCounts"`
}

// Skip reasons. The per-message gates are mutually exclusive and checked
// in this order; the error reasons cover fetch and persistence failures
// that skip a message without aborting the batch.
const (
	ReasonNonJob        = "non_job"
	ReasonMissingBody   = "missing_body"
	ReasonDuplicate     = "duplicate"
	ReasonLowConfidence = "low_confidence"
	ReasonFetchError    = "fetch_error"
	ReasonPersistError  = "persist_error"
)

// SyncUsecase drives email-to-application synchronization.
type SyncUsecase interface {
	// SyncUser runs one poll cycle for the user. Cycles for the same user
	// are serialized; concurrent triggers block until the running cycle
	// finishes. An error return means the cycle could not start (listing
	// failure or missing configuration) and the watermark is untouched.
	SyncUser(ctx context.Context, userID string) (*SyncSummary, error)
	ConnectedProviders(userID string) ([]string, error)
	DisconnectGoogle(userID string) error
	// EnableWatch subscribes the user's Gmail inbox to push notifications
	// so new mail triggers a sync without polling.
	EnableWatch(ctx context.Context, userID string) error
}
