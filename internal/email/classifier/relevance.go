package classifier

import (
	"regexp"
	"strings"
)

var fromDomainRe = regexp.MustCompile(`@([a-z0-9.-]+)\b`)

// DomainFromHeader pulls the sender domain out of a From header
// ("Acme Careers <noreply@acme.com>" -> "acme.com"). Returns "" when no
// address is present.
func DomainFromHeader(from string) string {
	m := fromDomainRe.FindStringSubmatch(strings.ToLower(from))
	if m == nil {
		return ""
	}
	return m[1]
}

// IsLikelyJobEmail is the hard relevance gate run before any expensive
// work. A message passes when it comes from a known ATS domain or carries
// job vocabulary, and contains none of the noise block-list terms.
// LinkedIn mail is held to the stricter standard: its domain alone is not
// enough, positive vocabulary is required.
func IsLikelyJobEmail(subject, body, from string) bool {
	text := strings.ToLower(subject + " " + body)
	domain := DomainFromHeader(from)

	hasProviderDomain := false
	if domain != "" {
		for _, d := range jobProviderDomains {
			if strings.Contains(domain, d) {
				hasProviderDomain = true
				break
			}
		}
	}

	positiveSignals := false
	for _, re := range positiveSignalPatterns {
		if re.MatchString(text) {
			positiveSignals = true
			break
		}
	}

	for _, term := range negativeTerms {
		if strings.Contains(text, term) {
			return false
		}
	}

	if strings.Contains(domain, "linkedin.com") {
		return positiveSignals
	}
	return hasProviderDomain || positiveSignals
}
