package jobs

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"github.com/romanbrito/onlineStorePrisma/internal/config"
)

// ResetTokenSweeper clears reset tokens whose expiry is before cutoff.
type ResetTokenSweeper interface {
	ClearExpiredResetTokens(ctx context.Context, cutoff time.Time) (int64, error)
}

type Scheduler struct {
	cron  *cron.Cron
	users ResetTokenSweeper
	queue *redis.Client
	cfg   *config.AppConfig
	log   zerolog.Logger
	now   func() time.Time
}

func NewScheduler(users ResetTokenSweeper, queue *redis.Client, cfg *config.AppConfig, log zerolog.Logger) *Scheduler {
	c := cron.New(cron.WithSeconds())
	return &Scheduler{
		cron:  c,
		users: users,
		queue: queue,
		cfg:   cfg,
		log:   log,
		now:   time.Now,
	}
}

func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc("0 5 * * * *", s.sweepResetTokens); err != nil { // hourly
		return err
	}
	if s.queue != nil {
		if _, err := s.cron.AddFunc("0 30 3 * * *", s.trimMailStream); err != nil {
			return err
		}
	}

	s.cron.Start()
	return nil
}

// Stop halts the schedule and returns once running jobs finish or after
// five seconds.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	select {
	case <-ctx.Done():
	case <-time.After(5 * time.Second):
		s.log.Warn().Msg("scheduler jobs still running at shutdown")
	}
}

// Tokens past expiry+TTL can no longer be redeemed, so clearing them does
// not change which resets succeed.
func (s *Scheduler) sweepResetTokens() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	cutoff := s.now().Add(-s.cfg.Security.ResetTokenTTL)
	cleared, err := s.users.ClearExpiredResetTokens(ctx, cutoff)
	if err != nil {
		s.log.Error().Err(err).Msg("reset token sweep failed")
		return
	}
	if cleared > 0 {
		s.log.Info().Int64("cleared", cleared).Msg("expired reset tokens cleared")
	}
}

func (s *Scheduler) trimMailStream() {
	if s.queue == nil || s.cfg.Queue.MaxLen <= 0 {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	trimmed, err := s.queue.XTrimMaxLenApprox(ctx, s.cfg.Queue.MailStream, s.cfg.Queue.MaxLen, 0).Result()
	if err != nil {
		s.log.Error().Err(err).Str("stream", s.cfg.Queue.MailStream).Msg("mail stream trim failed")
		return
	}
	s.log.Debug().Int64("trimmed", trimmed).Str("stream", s.cfg.Queue.MailStream).Msg("mail stream trimmed")
}
