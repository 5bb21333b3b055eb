package tasks

import (
	"context"
	"errors"
	"testing"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/romanbrito/onlineStorePrisma/internal/mail"
)

type recordingSender struct {
	sent []mail.Message
	err  error
}

func (s *recordingSender) Send(_ context.Context, msg mail.Message) error {
	if s.err != nil {
		return s.err
	}
	s.sent = append(s.sent, msg)
	return nil
}

func TestProcessorDeliversMail(t *testing.T) {
	sender := &recordingSender{}
	p := NewProcessor(sender, zerolog.Nop())
	msg := mail.Message{From: "shop@example.com", To: "jo@x.com", Subject: "Reset", HTML: "<p>hi</p>"}

	if err := p.Handle(context.Background(), redis.XMessage{ID: "1-0", Values: mail.Encode(msg)}); err != nil {
		t.Fatalf("Handle: %v", err)
	}
	if len(sender.sent) != 1 || sender.sent[0] != msg {
		t.Fatalf("sent = %+v", sender.sent)
	}
}

func TestProcessorDeliveryFailureIsRetried(t *testing.T) {
	sender := &recordingSender{err: errors.New("smtp down")}
	p := NewProcessor(sender, zerolog.Nop())
	values := mail.Encode(mail.Message{From: "a@x.com", To: "b@x.com", Subject: "s", HTML: "h"})

	if err := p.Handle(context.Background(), redis.XMessage{ID: "1-0", Values: values}); err == nil {
		t.Fatal("expected an error so the entry stays pending")
	}
}

func TestProcessorSkipsUnusableEntries(t *testing.T) {
	sender := &recordingSender{}
	p := NewProcessor(sender, zerolog.Nop())

	entries := []map[string]interface{}{
		{"type": "unknown"},
		{"type": "mail", "to": "b@x.com"},
	}
	for _, values := range entries {
		if err := p.Handle(context.Background(), redis.XMessage{ID: "1-0", Values: values}); err != nil {
			t.Fatalf("Handle(%v): %v", values, err)
		}
	}
	if len(sender.sent) != 0 {
		t.Fatalf("nothing should be sent, got %+v", sender.sent)
	}
}
