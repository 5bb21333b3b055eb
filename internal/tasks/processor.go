package tasks

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/romanbrito/onlineStorePrisma/internal/mail"
)

// Sender delivers a decoded message, normally over SMTP.
type Sender interface {
	Send(ctx context.Context, msg mail.Message) error
}

type Processor struct {
	sender Sender
	logger zerolog.Logger
}

func NewProcessor(sender Sender, logger zerolog.Logger) *Processor {
	return &Processor{
		sender: sender,
		logger: logger,
	}
}

func (p *Processor) Handle(ctx context.Context, msg redis.XMessage) error {
	taskType, _ := msg.Values["type"].(string)

	switch taskType {
	case "mail":
		return p.handleMail(ctx, msg)
	default:
		p.logger.Warn().Str("type", taskType).Str("message_id", msg.ID).Msg("unknown task type")
		return nil
	}
}

func (p *Processor) handleMail(ctx context.Context, msg redis.XMessage) error {
	m, err := mail.Decode(msg.Values)
	if err != nil {
		// Malformed entries are dropped; retrying cannot fix them.
		p.logger.Error().Err(err).Str("message_id", msg.ID).Msg("discarding malformed mail entry")
		return nil
	}

	if err := p.sender.Send(ctx, m); err != nil {
		return fmt.Errorf("deliver mail %s: %w", msg.ID, err)
	}

	p.logger.Info().Str("message_id", msg.ID).Str("subject", m.Subject).Msg("mail delivered")
	return nil
}
