package backoff

import (
	"context"
	"math/rand"
	"time"
)

// Delay returns base*2^(attempt-1) capped at max, plus 0..jitter of noise.
// attempt is 1-based.
func Delay(attempt int, base, max, jitter time.Duration) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	d := base
	for i := 1; i < attempt && d < max; i++ {
		d *= 2
	}
	if d > max {
		d = max
	}
	if jitter > 0 {
		d += time.Duration(rand.Int63n(int64(jitter)))
	}
	return d
}

// Sleep waits for hint when it is positive, otherwise for Delay(attempt, ...).
// It returns ctx.Err() if the context ends first.
func Sleep(ctx context.Context, attempt int, base, max, hint time.Duration) error {
	d := hint
	if d <= 0 {
		d = Delay(attempt, base, max, jitterFor(base))
	}
	if d <= 0 {
		return ctx.Err()
	}

	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// jitter 0..400ms, scaled down for short base delays
func jitterFor(base time.Duration) time.Duration {
	j := 400 * time.Millisecond
	if base < j {
		j = base
	}
	return j
}
