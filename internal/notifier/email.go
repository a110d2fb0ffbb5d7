package notifier

import (
	"context"
	"fmt"

	"github.com/pfrederiksen/showlist-watch/internal/config"
	"github.com/pfrederiksen/showlist-watch/internal/mailgun"
	"github.com/pfrederiksen/showlist-watch/internal/show"
)

// Sender submits a single email. *mailgun.Client satisfies it.
type Sender interface {
	Send(ctx context.Context, msg mailgun.Message) (string, error)
}

// EmailNotifier sends one email per run listing every new show
type EmailNotifier struct {
	sender    Sender
	from      string
	to        []string
	state     State
	messageID string
}

// NewEmailNotifier creates an email notifier using sender
func NewEmailNotifier(sender Sender, from string, to []string) *EmailNotifier {
	return &EmailNotifier{
		sender: sender,
		from:   from,
		to:     append([]string(nil), to...),
		state:  StateIdle,
	}
}

// NewMailgunNotifier creates an email notifier backed by the Mailgun API.
// The delivery settings are expected to have passed ValidateDelivery.
func NewMailgunNotifier(d config.Delivery) (*EmailNotifier, error) {
	client, err := mailgun.NewClient(d.APIKey, d.SendingDomain, d.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("creating mailgun client: %w", err)
	}
	return NewEmailNotifier(client, d.FromAddress, d.ToAddresses), nil
}

// State returns where the last delivery attempt ended up
func (n *EmailNotifier) State() State {
	return n.state
}

// MessageID returns the provider's ID for the last delivered message
func (n *EmailNotifier) MessageID() string {
	return n.messageID
}

// Notify sends a single email describing shows. An empty list sends nothing.
func (n *EmailNotifier) Notify(ctx context.Context, shows []show.Show) error {
	if len(shows) == 0 {
		return nil
	}

	msg, err := BuildMessage(n.from, n.to, shows)
	if err != nil {
		n.state = StateFailed
		return fmt.Errorf("formatting message: %w", err)
	}

	n.state = StateSending
	id, err := n.sender.Send(ctx, msg)
	if err != nil {
		n.state = StateFailed
		return fmt.Errorf("sending email for %d show(s): %w", len(shows), err)
	}

	n.state = StateDelivered
	n.messageID = id
	return nil
}
