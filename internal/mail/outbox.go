package mail

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// Outbox queues messages on a Redis stream for the mail worker.
type Outbox struct {
	client *redis.Client
	stream string
	maxLen int64
}

func NewOutbox(client *redis.Client, stream string, maxLen int64) *Outbox {
	return &Outbox{client: client, stream: stream, maxLen: maxLen}
}

func (o *Outbox) Send(ctx context.Context, msg Message) error {
	if o.client == nil {
		return errors.New("mail outbox not configured")
	}

	args := &redis.XAddArgs{
		Stream: o.stream,
		Values: Encode(msg),
	}
	if o.maxLen > 0 {
		args.MaxLen = o.maxLen
		args.Approx = true
	}
	if err := o.client.XAdd(ctx, args).Err(); err != nil {
		return fmt.Errorf("enqueue mail: %w", err)
	}
	return nil
}

func Encode(msg Message) map[string]any {
	return map[string]any{
		"type":    "mail",
		"from":    msg.From,
		"to":      msg.To,
		"subject": msg.Subject,
		"html":    msg.HTML,
	}
}

// Decode reads a message back from stream values.
func Decode(values map[string]any) (Message, error) {
	field := func(name string) (string, error) {
		v, ok := values[name]
		if !ok {
			return "", fmt.Errorf("missing field %q", name)
		}
		s, ok := v.(string)
		if !ok {
			return "", fmt.Errorf("field %q is %T, want string", name, v)
		}
		return s, nil
	}

	var (
		msg Message
		err error
	)
	if msg.From, err = field("from"); err != nil {
		return Message{}, err
	}
	if msg.To, err = field("to"); err != nil {
		return Message{}, err
	}
	if msg.Subject, err = field("subject"); err != nil {
		return Message{}, err
	}
	if msg.HTML, err = field("html"); err != nil {
		return Message{}, err
	}
	return msg, nil
}
