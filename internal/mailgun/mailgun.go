package mailgun

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	mg "github.com/mailgun/mailgun-go/v4"
)

const (
	DefaultBaseURL = "https://api.mailgun.net"
	Timeout        = 30 * time.Second

	// apiVersion is appended to the base URL; the SDK expects it in the API base
	apiVersion = "/v3"

	// maxErrorBody caps how much of a failed response is kept
	maxErrorBody = 4096
)

// Message is one outbound email
type Message struct {
	From    string
	To      []string
	Subject string
	HTML    string
	Text    string
}

// APIError is returned when the API answers with a non-200 status
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("mailgun API error (status %d): %s", e.StatusCode, e.Body)
}

// Client sends messages through the Mailgun API for one sending domain
type Client struct {
	mg *mg.MailgunImpl
}

// NewClient creates a new Mailgun client. An empty baseURL selects
// DefaultBaseURL; the EU region uses https://api.eu.mailgun.net.
func NewClient(apiKey, domain, baseURL string) (*Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("API key is required")
	}
	if domain == "" {
		return nil, fmt.Errorf("sending domain is required")
	}
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	baseURL = strings.TrimSuffix(strings.TrimRight(baseURL, "/"), apiVersion)

	impl := mg.NewMailgun(domain, apiKey)
	impl.SetAPIBase(baseURL + apiVersion)
	impl.SetClient(&http.Client{Timeout: Timeout})

	return &Client{mg: impl}, nil
}

// Send submits a message and returns the provider's message ID
func (c *Client) Send(ctx context.Context, msg Message) (string, error) {
	if msg.From == "" {
		return "", fmt.Errorf("sender is required")
	}
	if len(msg.To) == 0 {
		return "", fmt.Errorf("at least one recipient is required")
	}
	if msg.HTML == "" && msg.Text == "" {
		return "", fmt.Errorf("message body is required")
	}

	m := c.mg.NewMessage(msg.From, msg.Subject, msg.Text, msg.To...)
	if msg.HTML != "" {
		m.SetHtml(msg.HTML)
	}

	_, id, err := c.mg.Send(ctx, m)
	if err != nil {
		var unexpected *mg.UnexpectedResponseError
		if errors.As(err, &unexpected) {
			body := strings.TrimSpace(string(unexpected.Data))
			if len(body) > maxErrorBody {
				body = body[:maxErrorBody]
			}
			return "", &APIError{StatusCode: unexpected.Actual, Body: body}
		}
		return "", fmt.Errorf("sending message: %w", err)
	}

	return id, nil
}
