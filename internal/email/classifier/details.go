package classifier

import (
	"regexp"
	"strings"

	emaildomain "jobtrail-backend/internal/email/domain"
)

// rolePattern captures a role and, optionally, a company from subject or
// body text. Group indices vary per pattern, so they are spelled out.
type rolePattern struct {
	re           *regexp.Regexp
	roleGroup    int
	companyGroup int
}

const roleChars = `[A-Za-z0-9/&+#' -]+?`
const companyChars = `[A-Za-z0-9.&' -]+?`
const boundary = `\s*(?:[.,;:!?\r\n]|$)`

// Canonical role/company patterns, tried in order against the subject,
// then the body. The first match wins.
var rolePatterns = []rolePattern{
	{regexp.MustCompile(`(?i)\bapplication for (` + roleChars + `)(?: at (` + companyChars + `))?` + boundary), 1, 2},
	{regexp.MustCompile(`(?i)\byour application (?:to|at) (` + companyChars + `) for (?:the )?(` + roleChars + `)` + boundary), 2, 1},
	{regexp.MustCompile(`(?i)\bwe received your application for (` + roleChars + `)(?: at (` + companyChars + `))?` + boundary), 1, 2},
	{regexp.MustCompile(`(?i)\bconsideration for (` + roleChars + `)(?: at (` + companyChars + `))?` + boundary), 1, 2},
	{regexp.MustCompile(`(?i)\bopening: (` + roleChars + `)(?: at (` + companyChars + `))?` + boundary), 1, 2},
}

var (
	reqIDRe = regexp.MustCompile(`(?i)req\s?#?(\d{3,})`)
	linkRe  = regexp.MustCompile(`https?://\S+`)
)

// Generic recruiting-noise words stripped from sender display names before
// deriving a company from them.
var senderNoiseWords = []string{
	"talent acquisition",
	"recruiting",
	"recruitment",
	"careers",
	"hiring",
	"noreply",
	"no-reply",
	"team",
}

// ExtractDetails pulls company, role, requisition id and a reference link
// out of a message. All fields are best-effort; extraction never fails,
// it only returns partial results.
func ExtractDetails(subject, body, from string) emaildomain.ExtractedDetails {
	details := emaildomain.ExtractedDetails{}

	if domain := DomainFromHeader(from); domain != "" {
		details.Company = strings.SplitN(domain, ".", 2)[0]
	}

	for _, rp := range rolePatterns {
		m := rp.re.FindStringSubmatch(subject)
		if m == nil {
			m = rp.re.FindStringSubmatch(body)
		}
		if m == nil {
			continue
		}
		details.Role = strings.TrimSpace(m[rp.roleGroup])
		if details.Company == "" && m[rp.companyGroup] != "" {
			details.Company = strings.TrimSpace(m[rp.companyGroup])
		}
		break
	}

	if details.Company == "" {
		details.Company = companyFromDisplayName(from)
	}

	combined := subject + " " + body
	if m := reqIDRe.FindStringSubmatch(combined); m != nil {
		details.ReqID = m[1]
	}
	if m := linkRe.FindString(body); m != "" {
		details.Link = m
	}

	return details
}

// companyFromDisplayName derives a company from the display-name part of a
// From header ("Acme Careers <noreply@acme.com>" -> "acme"), after
// stripping generic recruiting words.
func companyFromDisplayName(from string) string {
	name := from
	if idx := strings.Index(from, "<"); idx >= 0 {
		name = from[:idx]
	}
	name = strings.ToLower(strings.TrimSpace(name))
	for _, w := range senderNoiseWords {
		name = strings.ReplaceAll(name, w, " ")
	}
	fields := strings.Fields(name)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}
