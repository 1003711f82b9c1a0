package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// JobLock is a best-effort distributed lock for background jobs. It keeps
// multiple worker instances from grinding through the same scheduler pass at
// once. Correctness never depends on it: every job is idempotent at the
// database level, the lock only saves wasted work.
type JobLock struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewJobLock creates a job lock helper. A nil client disables locking, which
// single-instance deployments use.
func NewJobLock(client *redis.Client, prefix string, ttl time.Duration) *JobLock {
	return &JobLock{
		client: client,
		prefix: prefix,
		ttl:    ttl,
	}
}

// TryAcquire attempts to take the named lock. It returns true when this
// instance holds the lock, false when another instance does. Redis being
// unreachable counts as acquired; running a pass twice is cheaper than
// running it zero times.
func (l *JobLock) TryAcquire(ctx context.Context, name string, owner string) bool {
	if l.client == nil {
		return true
	}

	ok, err := l.client.SetNX(ctx, l.buildKey(name), owner, l.ttl).Result()
	if err != nil {
		return true
	}
	return ok
}

// Release drops the lock if this owner still holds it. The compare happens
// in a script so an expired-and-reacquired lock is never released by the
// previous owner.
func (l *JobLock) Release(ctx context.Context, name string, owner string) {
	if l.client == nil {
		return
	}

	script := redis.NewScript(`
		if redis.call("GET", KEYS[1]) == ARGV[1] then
			return redis.call("DEL", KEYS[1])
		end
		return 0
	`)
	_ = script.Run(ctx, l.client, []string{l.buildKey(name)}, owner).Err()
}

func (l *JobLock) buildKey(name string) string {
	return fmt.Sprintf("%sjoblock:%s", l.prefix, name)
}
