package imap

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"strconv"
	"time"

	emaildomain "jobtrail-backend/internal/email/domain"

	"github.com/emersion/go-imap"
	"github.com/emersion/go-imap/client"
	"github.com/emersion/go-message/mail"
)

// Service is the IMAP-backed mailbox provider, used for accounts that are
// not connected through Google. Message IDs are IMAP UIDs rendered as
// strings; INTERNALDATE stands in for Gmail's internalDate.
type Service struct{}

func NewService() *Service {
	return &Service{}
}

func (s *Service) connect(server string, port int, email, password string) (*client.Client, error) {
	c, err := client.DialTLS(fmt.Sprintf("%s:%d", server, port), nil)
	if err != nil {
		return nil, fmt.Errorf("unable to connect to IMAP server: %w", err)
	}
	if err := c.Login(email, password); err != nil {
		c.Logout()
		return nil, fmt.Errorf("IMAP login failed: %w", err)
	}
	return c, nil
}

// ListMessages returns UIDs of INBOX messages received since the
// watermark. IMAP SINCE has day granularity, so the listing over-fetches
// at the boundary; the duplicate check downstream absorbs that.
func (s *Service) ListMessages(ctx context.Context, server string, port int, email, password string, afterInternalDate int64, maxResults int64) ([]emaildomain.MessageRef, error) {
	c, err := s.connect(server, port, email, password)
	if err != nil {
		return nil, err
	}
	defer c.Logout()

	if _, err := c.Select("INBOX", true); err != nil {
		return nil, fmt.Errorf("unable to select INBOX: %w", err)
	}

	criteria := imap.NewSearchCriteria()
	if afterInternalDate > 0 {
		criteria.Since = time.UnixMilli(afterInternalDate).Truncate(24 * time.Hour)
	}

	uids, err := c.UidSearch(criteria)
	if err != nil {
		return nil, fmt.Errorf("IMAP search failed: %w", err)
	}

	if maxResults > 0 && int64(len(uids)) > maxResults {
		uids = uids[int64(len(uids))-maxResults:]
	}

	refs := make([]emaildomain.MessageRef, 0, len(uids))
	for _, uid := range uids {
		refs = append(refs, emaildomain.MessageRef{ID: strconv.FormatUint(uint64(uid), 10)})
	}
	return refs, nil
}

// GetMessage fetches one message by UID and converts it to the provider-
// neutral representation. Each MIME part is re-encoded as base64url so the
// body extractor sees the same shape the Gmail provider produces.
func (s *Service) GetMessage(ctx context.Context, server string, port int, email, password, id string) (*emaildomain.InboxMessage, error) {
	uid, err := strconv.ParseUint(id, 10, 32)
	if err != nil {
		return nil, fmt.Errorf("invalid IMAP message id %q: %w", id, err)
	}

	c, err := s.connect(server, port, email, password)
	if err != nil {
		return nil, err
	}
	defer c.Logout()

	if _, err := c.Select("INBOX", true); err != nil {
		return nil, fmt.Errorf("unable to select INBOX: %w", err)
	}

	seqset := new(imap.SeqSet)
	seqset.AddNum(uint32(uid))

	section := &imap.BodySectionName{}
	items := []imap.FetchItem{imap.FetchEnvelope, imap.FetchInternalDate, section.FetchItem()}

	messages := make(chan *imap.Message, 1)
	done := make(chan error, 1)
	go func() {
		done <- c.UidFetch(seqset, items, messages)
	}()

	msg := <-messages
	if err := <-done; err != nil {
		return nil, fmt.Errorf("IMAP fetch failed: %w", err)
	}
	if msg == nil {
		return nil, fmt.Errorf("message %s not found", id)
	}

	out := &emaildomain.InboxMessage{
		ID:           id,
		InternalDate: msg.InternalDate.UnixMilli(),
	}

	body := msg.GetBody(section)
	if body == nil {
		return out, nil
	}

	mr, err := mail.CreateReader(body)
	if err != nil {
		return out, nil
	}

	subject, _ := mr.Header.Subject()
	from := mr.Header.Get("From")
	out.Headers = []emaildomain.Header{
		{Name: "Subject", Value: subject},
		{Name: "From", Value: from},
	}

	payload := &emaildomain.MessagePart{MimeType: "multipart/mixed"}
	for {
		p, err := mr.NextPart()
		if err == io.EOF {
			break
		}
		if err != nil {
			break
		}

		data, err := io.ReadAll(p.Body)
		if err != nil {
			continue
		}

		part := &emaildomain.MessagePart{
			BodyData: base64.URLEncoding.EncodeToString(data),
		}
		switch h := p.Header.(type) {
		case *mail.InlineHeader:
			part.MimeType, _, _ = h.ContentType()
		case *mail.AttachmentHeader:
			part.MimeType, _, _ = h.ContentType()
			part.Filename, _ = h.Filename()
		}
		payload.Parts = append(payload.Parts, part)
	}
	out.Payload = payload

	return out, nil
}
