package lock

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	defaultTTL         = 30 * time.Second
	defaultWait        = 10 * time.Second
	defaultRetryBase   = 10 * time.Millisecond
	defaultRetryMax    = 500 * time.Millisecond
	defaultRetryJitter = 20 * time.Millisecond
)

var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

type RedisOptions struct {
	// Prefix is prepended to every key.
	Prefix string
	// TTL bounds how long a crashed holder can block others.
	TTL time.Duration
	// Wait bounds how long Acquire retries before ErrNotAcquired.
	Wait time.Duration
}

// RedisLocker takes locks with SET NX PX and releases them only while the
// stored token is still ours.
type RedisLocker struct {
	client redis.UniversalClient
	opts   RedisOptions

	mu  sync.Mutex
	rnd *rand.Rand
}

func NewRedisLocker(client redis.UniversalClient, opts RedisOptions) *RedisLocker {
	if opts.TTL <= 0 {
		opts.TTL = defaultTTL
	}
	if opts.Wait <= 0 {
		opts.Wait = defaultWait
	}
	return &RedisLocker{
		client: client,
		opts:   opts,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())), //nolint:gosec
	}
}

func (l *RedisLocker) Shared() bool { return true }

func (l *RedisLocker) Acquire(ctx context.Context, key string) (Lease, error) {
	key = l.key(key)
	token := uuid.NewString()
	deadline := time.Now().Add(l.opts.Wait)

	for attempt := 1; ; attempt++ {
		ok, err := l.client.SetNX(ctx, key, token, l.opts.TTL).Result()
		if err != nil {
			return nil, errors.Wrap(err, "lock: set nx")
		}
		if ok {
			return &redisLease{client: l.client, key: key, token: token}, nil
		}
		wait := backoff(attempt, defaultRetryBase, defaultRetryMax) + l.jitter()
		if time.Now().Add(wait).After(deadline) {
			return nil, ErrNotAcquired
		}
		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}
}

func (l *RedisLocker) key(k string) string {
	if l.opts.Prefix == "" {
		return "lock:" + k
	}
	return l.opts.Prefix + ":lock:" + k
}

func (l *RedisLocker) jitter() time.Duration {
	l.mu.Lock()
	defer l.mu.Unlock()
	return jitter(l.rnd, defaultRetryJitter)
}

type redisLease struct {
	client redis.UniversalClient
	key    string
	token  string

	once sync.Once
	err  error
}

func (l *redisLease) Release(ctx context.Context) error {
	l.once.Do(func() {
		n, err := releaseScript.Run(ctx, l.client, []string{l.key}, l.token).Int()
		if err != nil {
			l.err = errors.Wrap(err, "lock: release")
			return
		}
		if n == 0 {
			l.err = ErrLost
		}
	})
	return l.err
}
