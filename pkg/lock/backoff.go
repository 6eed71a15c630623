package lock

import (
	"math"
	"math/rand"
	"time"
)

// backoff doubles from base per attempt and is capped at maxBackoff.
func backoff(attempt int, base, maxBackoff time.Duration) time.Duration {
	if attempt <= 0 {
		return 0
	}
	d := math.Pow(2, float64(attempt-1)) * float64(base)
	if d >= float64(maxBackoff) {
		return maxBackoff
	}
	return time.Duration(d)
}

// jitter returns a random duration in [0, maxJitter].
func jitter(r *rand.Rand, maxJitter time.Duration) time.Duration {
	if maxJitter <= 0 || r == nil {
		return 0
	}
	return time.Duration(r.Int63n(int64(maxJitter) + 1)) //nolint:gosec
}
