package classifier

import (
	"regexp"

	appdomain "jobtrail-backend/internal/application/domain"
)

// Applicant-tracking-system and job-board domains. Mail from these is a
// strong job-relevance signal and slightly biases early-funnel statuses.
var jobProviderDomains = []string{
	"indeed.com",
	"linkedin.com",
	"icims.com",
	"workday.com",
	"greenhouse.io",
	"lever.co",
	"smartrecruiters.com",
	"workable.com",
	"jobvite.com",
	"greenhousemail.io",
}

// Non-job noise terms. A single hit anywhere in subject+body disqualifies
// the message before classification.
var negativeTerms = []string{
	"newsletter",
	"digest",
	"blog",
	"promo",
	"promotion",
	"marketing",
	"password",
	"reset your password",
	"2fa",
	"notification",
	"receipt",
	"invoice",
	"order",
	"tracking",
	"shipment",
	"ticket",
	"issue",
	"downtime",
	"incident",
	"viewed your profile",
	"accepted your invitation",
	"invitation",
	"connection",
	"follower",
	"follow",
	"like",
	"comment",
}

// Positive vocabulary groups for the relevance gate, one per funnel stage.
var positiveSignalPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(application|applied|candidate|position|role|job|opportunity|requisition|req\s?#?\d+)`),
	regexp.MustCompile(`(?i)(interview|phone screen|onsite|assessment|coding challenge|take home)`),
	regexp.MustCompile(`(?i)(offer|extend(ing)? an offer)`),
	regexp.MustCompile(`(?i)(rejected|declined|not selected|not moving forward|no longer under consideration)`),
}

// scoredPattern pairs a phrase pattern with its weight. Patterns run
// against normalized text (lowercase, punctuation stripped), so they use
// plain lowercase phrases.
type scoredPattern struct {
	re     *regexp.Regexp
	weight float64
}

// Hand-curated phrase tables per status. Order within a table does not
// matter (all matches accumulate); statusOrder below fixes the tie-break.
var statusPatterns = map[string][]scoredPattern{
	appdomain.StatusApplied: {
		{regexp.MustCompile(`\bthank you for applying\b`), 1.0},
		{regexp.MustCompile(`\bwe (have )?received your application\b`), 1.0},
		{regexp.MustCompile(`\byour application (was|has been) received\b`), 0.9},
		{regexp.MustCompile(`\bsuccessfully applied\b`), 0.9},
		{regexp.MustCompile(`\bapplication (to|for)\b`), 0.6},
		{regexp.MustCompile(`\byour candidacy\b`), 0.5},
		{regexp.MustCompile(`\bapplied\b`), 0.4},
	},
	appdomain.StatusInterview: {
		{regexp.MustCompile(`\bschedule (an |your )?interview\b`), 1.0},
		{regexp.MustCompile(`\binterview (invitation|confirmation)\b`), 1.0},
		{regexp.MustCompile(`\bmove forward\b`), 1.0},
		{regexp.MustCompile(`\bnext round\b`), 0.9},
		{regexp.MustCompile(`\bphone screen\b`), 0.9},
		{regexp.MustCompile(`\bcoding challenge\b`), 0.8},
		{regexp.MustCompile(`\btake home\b`), 0.7},
		{regexp.MustCompile(`\bonsite\b`), 0.7},
		{regexp.MustCompile(`\bassessment\b`), 0.6},
		{regexp.MustCompile(`\binterview\b`), 0.5},
	},
	appdomain.StatusRejected: {
		{regexp.MustCompile(`\bwe regret to inform\b`), 1.0},
		{regexp.MustCompile(`\bnot (be )?moving forward\b`), 0.9},
		{regexp.MustCompile(`\bnot selected\b`), 0.9},
		{regexp.MustCompile(`\bno longer under consideration\b`), 0.9},
		{regexp.MustCompile(`\bpursue other candidates\b`), 0.8},
		{regexp.MustCompile(`\banother candidate\b`), 0.7},
		{regexp.MustCompile(`\bunfortunately\b`), 0.7},
		{regexp.MustCompile(`\bdeclined\b`), 0.6},
		{regexp.MustCompile(`\brejected\b`), 0.6},
	},
	appdomain.StatusOffer: {
		{regexp.MustCompile(`\bextend(ing)? (an |the )?offer\b`), 1.0},
		{regexp.MustCompile(`\bpleased to offer\b`), 1.0},
		{regexp.MustCompile(`\boffer letter\b`), 1.0},
		{regexp.MustCompile(`\bjob offer\b`), 0.9},
		{regexp.MustCompile(`\bcompensation\b`), 0.5},
		{regexp.MustCompile(`\boffer\b`), 0.4},
	},
}

// statusOrder fixes scan order for winner selection: the first status with
// the maximum accumulator wins, which makes ties deterministic.
var statusOrder = []string{
	appdomain.StatusApplied,
	appdomain.StatusInterview,
	appdomain.StatusRejected,
	appdomain.StatusOffer,
}
