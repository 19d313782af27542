// Package redlock implements cross-process mutual exclusion on a single
// Redis node: SET NX PX with a holder token, compare-and-delete release.
// The lease bounds how long a crashed holder can block others; release with
// a stale token is a no-op so an expired holder can never free a lock a
// different holder now owns.
package redlock

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// processToken distinguishes holders across instances; the caller suffix
// distinguishes holders inside one process.
var processToken = uuid.New().String()

var releaseScript = redis.NewScript(`
if redis.call("get", KEYS[1]) == ARGV[1] then
	return redis.call("del", KEYS[1])
else
	return 0
end
`)

type Factory struct {
	client *redis.Client
	prefix string
	lease  time.Duration
}

func NewFactory(client *redis.Client, prefix string, lease time.Duration) *Factory {
	return &Factory{client: client, prefix: prefix, lease: lease}
}

// NewLock derives a lock for the given scope, e.g. "order:42".
func (f *Factory) NewLock(scope string) *Lock {
	return &Lock{
		client: f.client,
		key:    f.prefix + scope,
		token:  processToken + "-" + uuid.New().String(),
		lease:  f.lease,
	}
}

type Lock struct {
	client *redis.Client
	key    string
	token  string
	lease  time.Duration
}

// TryAcquire is non-blocking: false means "not now", not an error.
func (l *Lock) TryAcquire(ctx context.Context) (bool, error) {
	return l.client.SetNX(ctx, l.key, l.token, l.lease).Result()
}

// Release deletes the lock only if the stored token matches ours.
// Returns false when the lock was not held by us (expired or stolen).
func (l *Lock) Release(ctx context.Context) (bool, error) {
	deleted, err := releaseScript.Run(ctx, l.client, []string{l.key}, l.token).Int64()
	if err != nil {
		return false, err
	}
	return deleted == 1, nil
}

func (l *Lock) Key() string   { return l.key }
func (l *Lock) Token() string { return l.token }
