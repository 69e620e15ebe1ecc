package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// releaseScript deletes the lock only when it still holds our token, so a
// run that outlived its TTL cannot release a newer run's lock.
var releaseScript = redis.NewScript(`
if redis.call("get", KEYS[1]) == ARGV[1] then
	return redis.call("del", KEYS[1])
end
return 0`)

// RunLock serializes analysis runs per application. Concurrent dispatches for
// the same application would interleave writes on the same analysis row; the
// second dispatch must be rejected, not queued.
type RunLock struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRunLock(client *redis.Client, ttl time.Duration) *RunLock {
	return &RunLock{client: client, ttl: ttl}
}

func lockKey(applicationID int64) string {
	return fmt.Sprintf("analysis:lock:%d", applicationID)
}

// Acquire attempts to take the per-application lock. It returns a release
// token on success and empty string when another run already holds it. The
// TTL bounds how long a crashed worker can block re-runs.
func (l *RunLock) Acquire(ctx context.Context, applicationID int64) (string, error) {
	token := uuid.NewString()
	ok, err := l.client.SetNX(ctx, lockKey(applicationID), token, l.ttl).Result()
	if err != nil {
		return "", err
	}
	if !ok {
		return "", nil
	}
	return token, nil
}

// Release frees the lock if token still owns it.
func (l *RunLock) Release(ctx context.Context, applicationID int64, token string) error {
	return releaseScript.Run(ctx, l.client, []string{lockKey(applicationID)}, token).Err()
}
