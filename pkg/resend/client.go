// Package resend wraps the Resend transactional email API.
package resend

import (
	"context"
	"errors"
	"strings"

	resendsdk "github.com/resend/resend-go/v2"

	"github.com/yeezuz2020/store-api/pkg/config"
	pkgerrors "github.com/yeezuz2020/store-api/pkg/errors"
)

var (
	errAPIKeyRequired = errors.New("resend api key is required")
	errFromRequired   = errors.New("resend from address is required")
)

// Sender is the minimal send surface consumers depend on.
type Sender interface {
	Send(ctx context.Context, msg Message) (string, error)
}

// Message is one outbound email.
type Message struct {
	To      []string
	Subject string
	HTML    string
	Text    string
}

// Client sends email through Resend. Each call is a single best-effort
// external send; delivery guarantees beyond that are the caller's problem.
type Client struct {
	api  *resendsdk.Client
	from string
}

// NewClient builds a Resend client from configuration.
func NewClient(cfg config.ResendConfig) (*Client, error) {
	apiKey := strings.TrimSpace(cfg.APIKey)
	if apiKey == "" {
		return nil, errAPIKeyRequired
	}
	from := strings.TrimSpace(cfg.FromEmail)
	if from == "" {
		return nil, errFromRequired
	}
	return &Client{
		api:  resendsdk.NewClient(apiKey),
		from: from,
	}, nil
}

// Send dispatches one email and returns the provider message id.
func (c *Client) Send(ctx context.Context, msg Message) (string, error) {
	if c == nil || c.api == nil {
		return "", pkgerrors.New(pkgerrors.CodeDependency, "resend client not configured")
	}
	if len(msg.To) == 0 {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "recipient is required")
	}
	if strings.TrimSpace(msg.Subject) == "" {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "subject is required")
	}

	params := &resendsdk.SendEmailRequest{
		From:    c.from,
		To:      msg.To,
		Subject: msg.Subject,
		Html:    msg.HTML,
		Text:    msg.Text,
	}

	sent, err := c.api.Emails.SendWithContext(ctx, params)
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "send email")
	}
	return sent.Id, nil
}
