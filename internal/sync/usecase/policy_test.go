package usecase

import (
	"testing"

	appdomain "jobtrail-backend/internal/application/domain"

	"github.com/stretchr/testify/assert"
)

func TestShouldUpdateStatus(t *testing.T) {
	tests := []struct {
		name       string
		existing   string
		proposed   string
		confidence float64
		expected   bool
	}{
		{
			name:       "empty proposal never updates",
			existing:   appdomain.StatusApplied,
			proposed:   "",
			confidence: 1.0,
			expected:   false,
		},
		{
			name:       "anything fills an empty status",
			existing:   "",
			proposed:   appdomain.StatusApplied,
			confidence: 0.5,
			expected:   true,
		},
		{
			name:       "applied advances to interview",
			existing:   appdomain.StatusApplied,
			proposed:   appdomain.StatusInterview,
			confidence: 0.6,
			expected:   true,
		},
		{
			name:       "interview does not fall back to applied",
			existing:   appdomain.StatusInterview,
			proposed:   appdomain.StatusApplied,
			confidence: 0.9,
			expected:   false,
		},
		{
			name:       "same status is re-applied",
			existing:   appdomain.StatusApplied,
			proposed:   appdomain.StatusApplied,
			confidence: 0.5,
			expected:   true,
		},
		{
			name:       "offer is never downgraded by a rejection",
			existing:   appdomain.StatusOffer,
			proposed:   appdomain.StatusRejected,
			confidence: 0.95,
			expected:   false,
		},
		{
			name:       "offer is never downgraded to interview",
			existing:   appdomain.StatusOffer,
			proposed:   appdomain.StatusInterview,
			confidence: 1.0,
			expected:   false,
		},
		{
			name:       "offer can be restated",
			existing:   appdomain.StatusOffer,
			proposed:   appdomain.StatusOffer,
			confidence: 0.5,
			expected:   true,
		},
		{
			name:       "confident rejection overrides interview",
			existing:   appdomain.StatusInterview,
			proposed:   appdomain.StatusRejected,
			confidence: 0.7,
			expected:   true,
		},
		{
			name:       "timid rejection does not override interview",
			existing:   appdomain.StatusInterview,
			proposed:   appdomain.StatusRejected,
			confidence: 0.65,
			expected:   false,
		},
		{
			name:       "interview recovers a rejected application",
			existing:   appdomain.StatusRejected,
			proposed:   appdomain.StatusInterview,
			confidence: 0.5,
			expected:   true,
		},
		{
			name:       "offer beats interview even at low confidence",
			existing:   appdomain.StatusInterview,
			proposed:   appdomain.StatusOffer,
			confidence: 0.3,
			expected:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ShouldUpdateStatus(tt.existing, tt.proposed, tt.confidence))
		})
	}
}
