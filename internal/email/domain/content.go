package domain

// ExtractedContent is the per-message working set derived from an
// InboxMessage. It is discarded once the message has been processed.
type ExtractedContent struct {
	Subject         string
	From            string
	BodyText        string
	AttachmentTypes []string
	Domain          string // sender domain, "" when the From header has none
}

// ClassificationResult is the classifier's verdict. Status is "" when the
// message carried no usable signal.
type ClassificationResult struct {
	Status     string  `json:"status"`
	Confidence float64 `json:"confidence"`
}

// ExtractedDetails holds whatever the detail extractor could pull out of a
// message. Extraction never fails; unmatched fields stay empty.
type ExtractedDetails struct {
	Company string `json:"company,omitempty"`
	Role    string `json:"role,omitempty"`
	ReqID   string `json:"req_id,omitempty"`
	Link    string `json:"link,omitempty"`
}

// InterviewSlot is an interview date/time as display strings. No timezone
// handling; the values are stored opaque, not parsed into time.Time.
type InterviewSlot struct {
	Date string `json:"date,omitempty"` // ISO calendar date, YYYY-MM-DD
	Time string `json:"time,omitempty"` // H:MM AM/PM, free-form
}
