package client

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// PollHistory queries the backend until the prompt completes, sleeping
// interval between attempts, for at most attempts tries. A prompt id the
// backend has not registered yet is treated the same as an incomplete one:
// sleep and retry. Exhausting the attempts returns ErrPollTimeout, which is
// distinct from transport or decode failures.
//
// Cancellation comes from ctx; with a background context the loop runs to
// its attempt budget, matching the historical blocking behavior.
func (c *ComfyClient) PollHistory(ctx context.Context, promptID string, attempts int, interval time.Duration) (*HistoryEntry, error) {
	if attempts <= 0 {
		attempts = DefaultPollAttempts
	}
	if interval <= 0 {
		interval = DefaultPollInterval
	}

	for i := 0; i < attempts; i++ {
		history, err := c.GetHistory(ctx, promptID)
		if err != nil {
			return nil, err
		}

		if entry, ok := history[promptID]; ok && entry.Status.Completed {
			c.logger.Info("prompt completed",
				zap.String("prompt_id", promptID),
				zap.Int("attempts", i+1))
			return entry, nil
		}

		c.logger.Debug("prompt not ready",
			zap.String("prompt_id", promptID),
			zap.Int("attempt", i+1),
			zap.Int("max_attempts", attempts))

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(interval):
		}
	}

	return nil, ErrPollTimeout
}
