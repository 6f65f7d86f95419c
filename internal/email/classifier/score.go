package classifier

import (
	"strings"

	appdomain "jobtrail-backend/internal/application/domain"
	emaildomain "jobtrail-backend/internal/email/domain"
	"jobtrail-backend/internal/email/parser"
)

// Boosts applied on top of the phrase tables. ATS mail skews early-funnel;
// offer letters commonly arrive as PDF attachments.
const (
	atsDomainBoost     = 0.1
	pdfAttachmentBoost = 0.25
	confidenceDivisor  = 2.0
)

// ScoreEmailStatus classifies a message against the four-status taxonomy.
// Text is normalized, every matching phrase adds its weight to that
// status's accumulator, and the first status (in fixed order) holding the
// strict maximum wins. Confidence is min(score/2, 1), calibrated so one or
// two strong signals already score near 1. An all-zero scan yields an
// empty status.
func ScoreEmailStatus(text, domain string, attachmentTypes []string) emaildomain.ClassificationResult {
	normalized := parser.Normalize(text)

	scores := map[string]float64{}
	for _, status := range statusOrder {
		for _, sp := range statusPatterns[status] {
			if sp.re.MatchString(normalized) {
				scores[status] += sp.weight
			}
		}
	}

	if domain != "" {
		for _, d := range jobProviderDomains {
			if strings.Contains(domain, d) {
				scores[appdomain.StatusApplied] += atsDomainBoost
				scores[appdomain.StatusInterview] += atsDomainBoost
				break
			}
		}
	}

	for _, t := range attachmentTypes {
		if strings.Contains(t, "application/pdf") {
			scores[appdomain.StatusOffer] += pdfAttachmentBoost
			break
		}
	}

	best := ""
	bestScore := 0.0
	for _, status := range statusOrder {
		if scores[status] > bestScore {
			best = status
			bestScore = scores[status]
		}
	}

	if best == "" {
		return emaildomain.ClassificationResult{}
	}

	confidence := bestScore / confidenceDivisor
	if confidence > 1 {
		confidence = 1
	}
	return emaildomain.ClassificationResult{Status: best, Confidence: confidence}
}
