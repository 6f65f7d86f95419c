package parser

import (
	"encoding/base64"
	"regexp"
	"strings"

	emaildomain "jobtrail-backend/internal/email/domain"
)

var (
	brTagRe   = regexp.MustCompile(`(?i)<br\s*/?>`)
	htmlTagRe = regexp.MustCompile(`<[^>]+>`)
	spaceRe   = regexp.MustCompile(`[ \t]+`)
)

// DecodeBase64URL decodes Gmail-style base64url data (padded or not).
// Malformed input yields an empty string, never an error.
func DecodeBase64URL(data string) string {
	s := strings.ReplaceAll(data, "-", "+")
	s = strings.ReplaceAll(s, "_", "/")
	if m := len(s) % 4; m != 0 {
		s += strings.Repeat("=", 4-m)
	}
	decoded, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return ""
	}
	return string(decoded)
}

// ExtractBodyText walks a payload tree and returns the best plain-text
// rendition of the message body. Preference order: a direct text/plain
// part, then the first non-empty result of recursing into nested parts,
// then a tag-stripped direct text/html part, then the node's own body data.
func ExtractBodyText(payload *emaildomain.MessagePart) string {
	if payload == nil {
		return ""
	}

	for _, part := range payload.Parts {
		if strings.EqualFold(part.MimeType, "text/plain") && part.BodyData != "" {
			if text := DecodeBase64URL(part.BodyData); text != "" {
				return text
			}
		}
	}

	for _, part := range payload.Parts {
		if len(part.Parts) > 0 {
			if nested := ExtractBodyText(part); nested != "" {
				return nested
			}
		}
	}

	for _, part := range payload.Parts {
		if strings.EqualFold(part.MimeType, "text/html") && part.BodyData != "" {
			if html := DecodeBase64URL(part.BodyData); html != "" {
				return StripHTML(html)
			}
		}
	}

	if payload.BodyData != "" {
		return DecodeBase64URL(payload.BodyData)
	}

	return ""
}

// StripHTML converts HTML to rough plain text: <br> becomes a newline, all
// other tags are dropped, runs of spaces and tabs collapse.
func StripHTML(html string) string {
	s := brTagRe.ReplaceAllString(html, "\n")
	s = htmlTagRe.ReplaceAllString(s, " ")
	s = spaceRe.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// ExtractAttachmentTypes collects the lowercased mime type of every node in
// the payload tree, depth-first.
func ExtractAttachmentTypes(payload *emaildomain.MessagePart) []string {
	types := []string{}
	var walk func(p *emaildomain.MessagePart)
	walk = func(p *emaildomain.MessagePart) {
		if p == nil {
			return
		}
		if p.MimeType != "" {
			types = append(types, strings.ToLower(p.MimeType))
		}
		for _, child := range p.Parts {
			walk(child)
		}
	}
	walk(payload)
	return types
}
