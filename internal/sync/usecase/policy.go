package usecase

import appdomain "jobtrail-backend/internal/application/domain"

// Strong terminal signals (Offer, Rejected) may override equal precedence
// when the classifier is at least this confident.
const overrideConfidence = 0.7

// ShouldUpdateStatus decides whether a proposed status replaces the
// existing one. Transitions are monotonic in precedence, Offer is sticky
// (never downgraded), and confident terminal signals win regardless of
// rank comparison.
func ShouldUpdateStatus(existing, proposed string, confidence float64) bool {
	if proposed == "" {
		return false
	}
	if existing == "" {
		return true
	}

	if existing == appdomain.StatusOffer && appdomain.StatusPrecedence[proposed] < appdomain.StatusPrecedence[appdomain.StatusOffer] {
		return false
	}

	if (proposed == appdomain.StatusOffer || proposed == appdomain.StatusRejected) && confidence >= overrideConfidence {
		return true
	}

	return appdomain.StatusPrecedence[proposed] >= appdomain.StatusPrecedence[existing]
}
