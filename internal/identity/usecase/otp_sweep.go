package usecase

import (
	"context"
	"log/slog"
	"time"

	"github.com/samber/lo"
	"github.com/sethvargo/go-retry"
)

const sweepBatchSize = 500

// RunOtpSweeper deletes expired one-time codes on an interval until the
// context is canceled. Without it, codes for abandoned flows would only be
// cleaned up as a side effect of a later successful verification for the
// same email.
func (s *Usecase) RunOtpSweeper(ctx context.Context) error {
	interval := s.cfg.GetMinute("modules.identity.otp_sweep_interval_minutes")
	if interval <= 0 {
		interval = 15 * time.Minute
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	slog.InfoContext(ctx, "otp sweeper started", "interval", interval.String())

	for {
		select {
		case <-ctx.Done():
			slog.InfoContext(ctx, "otp sweeper stopped")
			return nil

		case <-ticker.C:
			if err := s.SweepExpiredOtpCodes(ctx); err != nil {
				slog.ErrorContext(ctx, "otp sweep pass failed", "error", err)
			}
		}
	}
}

// SweepExpiredOtpCodes removes every code older than the OTP TTL, in batches.
func (s *Usecase) SweepExpiredOtpCodes(ctx context.Context) error {
	ctx, span := s.startSpan(ctx, "SweepExpiredOtpCodes")
	defer span.End()

	if !s.sweeping.CompareAndSwap(false, true) {
		slog.WarnContext(ctx, "otp sweep pass already running, skipping")
		return nil
	}
	defer s.sweeping.Store(false)

	cutoff := s.clock.Now().Add(-s.otpTTL())

	ids, err := s.repoDB.ListExpiredOtpCodeIDs(ctx, cutoff)
	if err != nil {
		return err
	}
	if len(ids) == 0 {
		return nil
	}

	var deleted int64
	backoff := retry.WithMaxRetries(2, retry.NewExponential(200*time.Millisecond))

	for _, batch := range lo.Chunk(ids, sweepBatchSize) {
		err := retry.Do(ctx, backoff, func(ctx context.Context) error {
			n, err := s.repoDB.DeleteOtpCodesByIDs(ctx, batch)
			if err != nil {
				return retry.RetryableError(err)
			}

			deleted += n
			return nil
		})
		if err != nil {
			return err
		}
	}

	slog.InfoContext(ctx, "otp sweep pass completed", "deleted", deleted)

	return nil
}
