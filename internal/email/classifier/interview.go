package classifier

import (
	"regexp"

	emaildomain "jobtrail-backend/internal/email/domain"
)

var (
	// ISO dates only. Month-name formats are deliberately not accepted so
	// extraction stays deterministic across mail templates.
	interviewDateRe = regexp.MustCompile(`\b\d{4}-\d{2}-\d{2}\b`)
	interviewTimeRe = regexp.MustCompile(`(?i)\b\d{1,2}(?::\d{2})?\s?(?:AM|PM)\b`)
)

// ExtractInterviewDateTime returns the first interview date and time found
// in the text, as opaque display strings.
func ExtractInterviewDateTime(text string) emaildomain.InterviewSlot {
	slot := emaildomain.InterviewSlot{}
	if m := interviewDateRe.FindString(text); m != "" {
		slot.Date = m
	}
	if m := interviewTimeRe.FindString(text); m != "" {
		slot.Time = m
	}
	return slot
}
