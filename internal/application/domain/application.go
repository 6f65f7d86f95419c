package domain

import "time"

// Application statuses. Precedence (see StatusPrecedence) intentionally
// ranks Rejected below Interview: a rejection after an interview is still a
// forward transition.
const (
	StatusApplied   = "Applied"
	StatusInterview = "Interview"
	StatusRejected  = "Rejected"
	StatusOffer     = "Offer"
)

// StatusPrecedence is the ordinal rank used by the transition policy.
var StatusPrecedence = map[string]int{
	StatusApplied:   1,
	StatusRejected:  2,
	StatusInterview: 3,
	StatusOffer:     4,
}

// Application is one tracked job application. Created at most once per
// matched company/role thread, then updated in place as new mail arrives.
// Deletion is a dashboard action, never done by the sync path.
type Application struct {
	ID            string    `json:"id" gorm:"primaryKey"`
	UserID        string    `json:"user_id" gorm:"index;not null"`
	Name          string    `json:"name" gorm:"not null"`  // company
	Description   string    `json:"description"`           // role
	Status        string    `json:"status"`
	InterviewDate string    `json:"interview_date"`
	InterviewTime string    `json:"interview_time"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}
