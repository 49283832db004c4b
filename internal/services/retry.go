package services

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

// retry calls f up to attempts times, doubling sleep between calls. It gives
// up early when ctx is done.
func retry(ctx context.Context, log zerolog.Logger, attempts int, sleep time.Duration, f func() error) error {
	var err error
	for i := 0; i < attempts; i++ {
		if err = f(); err == nil {
			return nil
		}
		if i == attempts-1 {
			break
		}

		log.Warn().Err(err).Dur("backoff", sleep).Int("attempt", i+1).Msg("Call failed, retrying")
		select {
		case <-time.After(sleep):
		case <-ctx.Done():
			return ctx.Err()
		}
		sleep *= 2
	}
	return fmt.Errorf("failed after %d attempts: %w", attempts, err)
}
