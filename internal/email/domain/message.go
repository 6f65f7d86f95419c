package domain

import (
	"context"
	"strings"

	"golang.org/x/oauth2"
)

// TokenUpdateFunc is a callback invoked when the provider refreshes an
// OAuth token, so the new token can be persisted.
type TokenUpdateFunc func(token *oauth2.Token) error

// Header is a single message header (Subject, From, ...).
type Header struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// MessagePart is one node of a MIME-like payload tree. BodyData is
// base64url-encoded, matching what the Gmail API returns.
type MessagePart struct {
	MimeType string         `json:"mimeType,omitempty"`
	Filename string         `json:"filename,omitempty"`
	BodyData string         `json:"bodyData,omitempty"`
	Parts    []*MessagePart `json:"parts,omitempty"`
}

// InboxMessage is a raw provider message. It is fetched fresh each sync
// cycle and never stored. InternalDate is milliseconds since epoch and is
// the only chronologically ordered field (message IDs are not ordered).
type InboxMessage struct {
	ID           string       `json:"id"`
	Headers      []Header     `json:"headers"`
	Payload      *MessagePart `json:"payload"`
	InternalDate int64        `json:"internalDate"`
}

// GetHeader returns the value of the named header. Header names compare
// case-insensitively; mail on the wire carries arbitrary casing.
func (m *InboxMessage) GetHeader(name string) string {
	for _, h := range m.Headers {
		if strings.EqualFold(h.Name, name) {
			return h.Value
		}
	}
	return ""
}

// MessageRef is a lightweight listing entry.
type MessageRef struct {
	ID string `json:"id"`
}

// MailProvider abstracts the remote mailbox. afterInternalDate is the sync
// watermark in milliseconds since epoch; zero means scan from the beginning
// (bounded by maxResults).
type MailProvider interface {
	ListMessages(ctx context.Context, accessToken, refreshToken string, afterInternalDate int64, maxResults int64, onTokenRefresh TokenUpdateFunc) ([]MessageRef, error)
	GetMessage(ctx context.Context, accessToken, refreshToken, id string, onTokenRefresh TokenUpdateFunc) (*InboxMessage, error)
}
