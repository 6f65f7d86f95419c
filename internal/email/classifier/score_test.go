package classifier

import (
	"testing"

	appdomain "jobtrail-backend/internal/application/domain"

	"github.com/stretchr/testify/assert"
)

func TestScoreEmailStatus(t *testing.T) {
	tests := []struct {
		name            string
		text            string
		domain          string
		attachmentTypes []string
		wantStatus      string
		wantConfidence  float64
	}{
		{
			name:           "application confirmation",
			text:           "Thank you for applying to Acme. We received your application for the Software Engineer position.",
			wantStatus:     appdomain.StatusApplied,
			wantConfidence: 1.0,
		},
		{
			name:           "ats domain biases early funnel",
			text:           "Thank you for applying to Acme. We received your application for the Software Engineer position.",
			domain:         "greenhouse.io",
			wantStatus:     appdomain.StatusApplied,
			wantConfidence: 1.0,
		},
		{
			name:           "rejection",
			text:           "We regret to inform you that we will not be moving forward. Unfortunately we have decided to pursue other candidates.",
			wantStatus:     appdomain.StatusRejected,
			wantConfidence: 1.0,
		},
		{
			name:           "single weak signal scores low",
			text:           "Please join the interview.",
			wantStatus:     appdomain.StatusInterview,
			wantConfidence: 0.25,
		},
		{
			name:           "offer letter without attachment",
			text:           "Your offer letter is attached.",
			wantStatus:     appdomain.StatusOffer,
			wantConfidence: 0.7,
		},
		{
			name:            "pdf attachment boosts offer",
			text:            "Your offer letter is attached.",
			attachmentTypes: []string{"multipart/mixed", "application/pdf"},
			wantStatus:      appdomain.StatusOffer,
			wantConfidence:  0.825,
		},
		{
			name:           "tie resolves to first status in fixed order",
			text:           "applied offer",
			wantStatus:     appdomain.StatusApplied,
			wantConfidence: 0.2,
		},
		{
			name:           "domain boost alone tips a weak applied signal",
			text:           "An update regarding your candidacy.",
			domain:         "lever.co",
			wantStatus:     appdomain.StatusApplied,
			wantConfidence: 0.3,
		},
		{
			name:           "no signal",
			text:           "Hello there, see you at the park.",
			wantStatus:     "",
			wantConfidence: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ScoreEmailStatus(tt.text, tt.domain, tt.attachmentTypes)
			assert.Equal(t, tt.wantStatus, result.Status)
			assert.InDelta(t, tt.wantConfidence, result.Confidence, 0.0001)
		})
	}
}

func TestScoreEmailStatusIsDeterministic(t *testing.T) {
	text := "We regret to inform you that another candidate was selected. Unfortunately your application to Acme was declined."
	first := ScoreEmailStatus(text, "acme.com", nil)
	for i := 0; i < 50; i++ {
		assert.Equal(t, first, ScoreEmailStatus(text, "acme.com", nil))
	}
	assert.Equal(t, appdomain.StatusRejected, first.Status)
}
