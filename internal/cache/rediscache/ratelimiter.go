package rediscache

import (
	"context"
	"strconv"
	"time"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
)

// RateLimiter counts hits in fixed windows. Each window has its own key,
// "{prefix}{subject}:{window index}", so a burst never extends the window.
type RateLimiter struct {
	c      *redis.Client
	prefix string
	now    func() time.Time
}

type LimiterOption func(*RateLimiter)

// WithClock replaces the clock that picks the current window.
func WithClock(now func() time.Time) LimiterOption {
	return func(rl *RateLimiter) { rl.now = now }
}

func NewRateLimiter(addr, prefix string, opts ...LimiterOption) *RateLimiter {
	rl := &RateLimiter{
		c:      redis.NewClient(&redis.Options{Addr: addr}),
		prefix: prefix,
		now:    time.Now,
	}
	for _, o := range opts {
		o(rl)
	}
	return rl
}

// Allow records a hit for subject. A rejected hit comes with the time left
// until the window resets.
func (rl *RateLimiter) Allow(ctx context.Context, subject string, limit int64, window time.Duration) (bool, time.Duration, error) {
	if window <= 0 {
		return false, 0, errors.New("redis ratelimit: window must be positive")
	}

	now := rl.now()
	idx := now.UnixNano() / int64(window)
	reset := time.Unix(0, (idx+1)*int64(window)).Sub(now)
	key := rl.prefix + subject + ":" + strconv.FormatInt(idx, 10)

	pipe := rl.c.TxPipeline()
	incr := pipe.Incr(ctx, key)
	// Запас в секунду: ключ с индексом окна всё равно больше не читается.
	pipe.Expire(ctx, key, reset+time.Second)
	if _, err := pipe.Exec(ctx); err != nil {
		return false, 0, errors.Wrap(err, "redis ratelimit")
	}
	if incr.Val() > limit {
		return false, reset, nil
	}
	return true, 0, nil
}

func (rl *RateLimiter) Close() error {
	return rl.c.Close()
}
