package auth

import (
	"context"
	"crypto/rand"
	"encoding/binary"
	"time"
)

// TimingConfig holds the tar-pit delay applied before a decoy login is rejected
type TimingConfig struct {
	BaseDelayMs   int // Base delay in milliseconds
	RandomDelayMs int // Random delay range in milliseconds
}

// TimingDelay slows down rejected logins so every attempt costs the attacker
// roughly the same time, whatever the credentials were
type TimingDelay struct {
	config TimingConfig
}

// NewTimingDelay creates a new TimingDelay instance
func NewTimingDelay(config TimingConfig) *TimingDelay {
	return &TimingDelay{
		config: config,
	}
}

// cryptoRandIntn returns a secure random number between 0 and max (exclusive)
func cryptoRandIntn(max int) (int, error) {
	if max <= 0 {
		return 0, nil
	}

	randomBytes := make([]byte, 8)
	if _, err := rand.Read(randomBytes); err != nil {
		return 0, err
	}

	randomValue := binary.BigEndian.Uint64(randomBytes)
	return int(randomValue % uint64(max)), nil
}

// target is baseDelay plus a random jitter
func (td *TimingDelay) target() time.Duration {
	baseDelay := time.Duration(td.config.BaseDelayMs) * time.Millisecond
	var randomDelay time.Duration
	if td.config.RandomDelayMs > 0 {
		if randomValue, err := cryptoRandIntn(td.config.RandomDelayMs); err == nil {
			randomDelay = time.Duration(randomValue) * time.Millisecond
		}
	}
	return baseDelay + randomDelay
}

// WaitFrom sleeps until at least the delay has passed since startTime, or
// until ctx is done. Time already spent recording the attempt counts toward
// the delay.
func (td *TimingDelay) WaitFrom(ctx context.Context, startTime time.Time) error {
	return sleep(ctx, td.target()-time.Since(startTime))
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
