package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// DefaultMailURL is the email service endpoint used when none is configured.
const DefaultMailURL = "http://localhost:5001/api/send/mail"

// MailClient posts emails to the HTTP email service.
type MailClient struct {
	URL  string
	HTTP *http.Client
}

// NewMailClient returns a client for url with a bounded HTTP timeout.
func NewMailClient(url string) *MailClient {
	if url == "" {
		url = DefaultMailURL
	}
	return &MailClient{URL: url, HTTP: &http.Client{Timeout: 10 * time.Second}}
}

// Send posts {email, subject, content}.  Any non-2xx answer is an error.
func (c *MailClient) Send(ctx context.Context, e Email) error {
	body, err := json.Marshal(e)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.URL, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return fmt.Errorf("mail service: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("mail service: status %d: %s", resp.StatusCode, bytes.TrimSpace(msg))
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}
