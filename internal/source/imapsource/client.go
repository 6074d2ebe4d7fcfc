// Package imapsource implements the live-mailbox record source on top of
// go-imap v2. One session is opened per fetch, all unread messages are
// collected, and the session is closed before processing begins.
package imapsource

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/emersion/go-imap/v2"
	"github.com/emersion/go-imap/v2/imapclient"
	"github.com/emersion/go-message/mail"

	"github.com/nhle/mail-assistant/internal/source"
)

// Client wraps go-imap v2 for connecting to and querying an IMAP server.
type Client struct {
	host     string
	port     string
	username string
	password string
	tls      bool
}

// NewClient creates a new IMAP client configuration.
func NewClient(host, port, username, password string, useTLS bool) *Client {
	return &Client{
		host:     host,
		port:     port,
		username: username,
		password: password,
		tls:      useTLS,
	}
}

// Connect establishes a connection to the IMAP server, authenticates, and
// selects INBOX. The caller is responsible for calling Logout on the
// returned client.
func (c *Client) Connect(_ context.Context) (*imapclient.Client, error) {
	addr := c.host + ":" + c.port

	var client *imapclient.Client
	var err error

	if c.tls {
		client, err = imapclient.DialTLS(addr, nil)
	} else {
		client, err = imapclient.DialStartTLS(addr, nil)
	}
	if err != nil {
		return nil, fmt.Errorf("connecting to IMAP %s: %w", addr, err)
	}

	if err := client.Login(c.username, c.password).Wait(); err != nil {
		_ = client.Logout().Wait()
		return nil, &source.AuthError{
			SourceType: source.SourceTypeIMAP,
			Message: fmt.Sprintf(
				"authentication failed for %s: %v", c.username, err,
			),
		}
	}

	if _, err := client.Select("INBOX", nil).Wait(); err != nil {
		_ = client.Logout().Wait()
		return nil, fmt.Errorf("selecting INBOX: %w", err)
	}

	return client, nil
}

// Message holds the decoded content of one fetched email.
type Message struct {
	UID     imap.UID
	Subject string
	From    string
	Body    string
}

// FetchUnread connects, collects all unread messages with their bodies, and
// closes the session. Messages that fail to collect or decode are skipped.
func (c *Client) FetchUnread(ctx context.Context) ([]Message, []error, error) {
	client, err := c.Connect(ctx)
	if err != nil {
		return nil, nil, err
	}
	defer func() { _ = client.Logout().Wait() }()

	criteria := &imap.SearchCriteria{
		NotFlag: []imap.Flag{imap.FlagSeen},
	}

	searchData, err := client.UIDSearch(criteria, nil).Wait()
	if err != nil {
		return nil, nil, fmt.Errorf("searching unread messages: %w", err)
	}

	uids := searchData.AllUIDs()
	if len(uids) == 0 {
		return nil, nil, nil
	}

	uidSet := imap.UIDSetNum(uids...)
	bodySection := &imap.FetchItemBodySection{}
	fetchOpts := &imap.FetchOptions{
		Envelope:    true,
		UID:         true,
		BodySection: []*imap.FetchItemBodySection{bodySection},
	}

	fetchCmd := client.Fetch(uidSet, fetchOpts)
	defer fetchCmd.Close()

	var messages []Message
	var skipped []error
	for {
		msg := fetchCmd.Next()
		if msg == nil {
			break
		}

		buf, err := msg.Collect()
		if err != nil {
			skipped = append(skipped, fmt.Errorf("collecting message: %w", err))
			continue
		}

		m := Message{UID: buf.UID}
		if buf.Envelope != nil {
			m.Subject = buf.Envelope.Subject
			if len(buf.Envelope.From) > 0 {
				m.From = buf.Envelope.From[0].Addr()
			}
		}

		if raw := buf.FindBodySection(bodySection); raw != nil {
			m.Body = extractBody(raw)
		}

		messages = append(messages, m)
	}

	if err := fetchCmd.Close(); err != nil {
		return messages, skipped, fmt.Errorf("fetching messages: %w", err)
	}

	return messages, skipped, nil
}

// SetFlags connects and modifies flags on a single message.
func (c *Client) SetFlags(
	ctx context.Context, uid imap.UID, flags []imap.Flag, add bool,
) error {
	client, err := c.Connect(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = client.Logout().Wait() }()

	op := imap.StoreFlagsAdd
	if !add {
		op = imap.StoreFlagsDel
	}

	storeCmd := client.Store(imap.UIDSetNum(uid), &imap.StoreFlags{
		Op:     op,
		Silent: true,
		Flags:  flags,
	}, nil)

	return storeCmd.Close()
}

// extractBody parses a raw RFC 2822 message and returns the best plain-text
// rendering: the text/plain part when present, the text/html part otherwise.
// Attachments are skipped. If MIME parsing fails entirely the raw bytes are
// decoded as-is.
func extractBody(raw []byte) string {
	mr, err := mail.CreateReader(bytes.NewReader(raw))
	if err != nil {
		return decodeText(raw)
	}
	defer mr.Close()

	var plainBody, htmlBody string

	for {
		part, err := mr.NextPart()
		if err == io.EOF {
			break
		}
		if err != nil {
			break
		}

		h, ok := part.Header.(*mail.InlineHeader)
		if !ok {
			// Attachment part; skip.
			continue
		}

		contentType, _, _ := h.ContentType()
		body, readErr := io.ReadAll(part.Body)
		if readErr != nil {
			continue
		}

		switch {
		case strings.HasPrefix(contentType, "text/plain"):
			plainBody = decodeText(body)
		case strings.HasPrefix(contentType, "text/html"):
			htmlBody = decodeText(body)
		}

		// Plain text wins; no need to look further.
		if plainBody != "" {
			break
		}
	}

	if plainBody != "" {
		return plainBody
	}
	return htmlBody
}

// decodeText interprets bytes as UTF-8, falling back to Latin-1 when the
// content is not valid UTF-8.
func decodeText(b []byte) string {
	if utf8.Valid(b) {
		return string(b)
	}

	runes := make([]rune, len(b))
	for i, c := range b {
		runes[i] = rune(c)
	}
	return string(runes)
}
