package cache

import (
	"context"
	stderrors "errors"
	"net"
	"time"

	"github.com/matzehuels/glyphgraph/pkg/errors"
)

// Backoff retries operations that fail with NETWORK_ERROR, doubling the
// delay after each attempt up to Max.
type Backoff struct {
	Attempts int
	Initial  time.Duration
	Max      time.Duration
}

// DefaultBackoff is used for Redis connects and writes.
var DefaultBackoff = Backoff{Attempts: 3, Initial: 250 * time.Millisecond, Max: 2 * time.Second}

// Retry calls fn until it succeeds, fails with an error other than
// NETWORK_ERROR, runs out of attempts, or ctx is done.
func (b Backoff) Retry(ctx context.Context, fn func() error) error {
	delay := b.Initial
	var err error
	for attempt := 1; ; attempt++ {
		if err = fn(); err == nil || !errors.Is(err, errors.ErrCodeNetwork) || attempt >= b.Attempts {
			return err
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
		delay = min(delay*2, b.Max)
	}
}

// backendError codes a backend failure: NETWORK_ERROR for connection
// problems that may pass on retry, STORAGE_ERROR otherwise.
func backendError(op string, err error) error {
	if err == nil {
		return nil
	}
	var netErr net.Error
	if stderrors.As(err, &netErr) {
		return errors.Wrap(errors.ErrCodeNetwork, err, "%s", op)
	}
	return errors.Wrap(errors.ErrCodeStorage, err, "%s", op)
}
