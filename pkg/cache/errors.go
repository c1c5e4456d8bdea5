package cache

import (
	"context"
	"errors"
	"io"
	"net"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrUnavailable is returned when a remote backend cannot be reached.
var ErrUnavailable = errors.New("cache backend unavailable")

// Redis replies that mean "try again later" rather than "this command is
// wrong".
var transientReplies = []string{"LOADING", "BUSY", "TRYAGAIN", "CLUSTERDOWN", "MASTERDOWN"}

// transient reports whether err is worth retrying: network failures,
// dropped connections, pool exhaustion and the Redis replies above.
// Cache misses and cancelled contexts are final.
func transient(err error) bool {
	switch {
	case err == nil,
		errors.Is(err, redis.Nil),
		errors.Is(err, context.Canceled),
		errors.Is(err, context.DeadlineExceeded):
		return false
	case errors.Is(err, io.EOF),
		errors.Is(err, io.ErrUnexpectedEOF),
		errors.Is(err, redis.ErrPoolTimeout):
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	var reply redis.Error
	if errors.As(err, &reply) {
		msg := reply.Error()
		for _, p := range transientReplies {
			if strings.HasPrefix(msg, p) {
				return true
			}
		}
	}
	return false
}

// backoff retries an operation with exponentially growing waits.
type backoff struct {
	attempts int
	delay    time.Duration
	max      time.Duration
}

func newBackoff(attempts int, delay time.Duration) backoff {
	if attempts <= 0 {
		attempts = 3
	}
	if delay <= 0 {
		delay = 100 * time.Millisecond
	}
	return backoff{attempts: attempts, delay: delay, max: 2 * time.Second}
}

// run calls op until it succeeds, fails with a non-transient error, or the
// attempts are used up. The last error is returned.
func (b backoff) run(ctx context.Context, op func(context.Context) error) error {
	delay := b.delay
	var err error
	for i := 0; i < b.attempts; i++ {
		if err = op(ctx); !transient(err) {
			return err
		}
		if i == b.attempts-1 {
			break
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
		delay = min(2*delay, b.max)
	}
	return err
}
