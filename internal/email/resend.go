package email

import (
	"context"
	"errors"
	"fmt"

	"github.com/resend/resend-go/v2"
	"github.com/rs/zerolog"
)

// ResendSender delivers messages through the Resend API.
type ResendSender struct {
	client *resend.Client
	from   string
	logger zerolog.Logger
}

// NewResendSender creates a Sender backed by the Resend API.
func NewResendSender(apiKey, from string, logger zerolog.Logger) *ResendSender {
	return &ResendSender{
		client: resend.NewClient(apiKey),
		from:   from,
		logger: logger.With().Str("component", "email").Logger(),
	}
}

func (s *ResendSender) Send(ctx context.Context, msg Message) error {
	params := &resend.SendEmailRequest{
		From:    s.from,
		To:      []string{msg.To},
		Subject: msg.Subject,
		Html:    msg.HTML,
	}

	sent, err := s.client.Emails.SendWithContext(ctx, params)
	if err != nil {
		var rateLimitErr *resend.RateLimitError
		if errors.As(err, &rateLimitErr) {
			s.logger.Warn().
				Str("limit", rateLimitErr.Limit).
				Str("remaining", rateLimitErr.Remaining).
				Str("reset", rateLimitErr.Reset).
				Msg("resend rate limit exceeded")
			return fmt.Errorf("email rate limit exceeded: %w", err)
		}
		return fmt.Errorf("resend API error: %w", err)
	}

	s.logger.Info().Str("email_id", sent.Id).Str("to", msg.To).Msg("email sent via Resend")
	return nil
}
