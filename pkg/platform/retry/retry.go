// Package retry bounds re-attempts against external collaborators. Only
// transport-level failures (sentinel.ErrUnavailable) are retried; business
// rejections from a collaborator are surfaced on the first attempt.
package retry

import (
	"context"
	"errors"
	"time"

	"github.com/hmcts/et-case-api/pkg/platform/sentinel"
)

// Policy holds the retry budget for one class of collaborator call.
type Policy struct {
	Attempts int
	Delay    time.Duration
}

// DefaultPolicy mirrors the platform convention of three attempts with a
// short fixed pause between them.
var DefaultPolicy = Policy{Attempts: 3, Delay: 500 * time.Millisecond}

// Do runs op until it succeeds, fails with a non-retryable error, or the
// budget is exhausted. The last error is returned as-is so callers keep the
// sentinel classification.
func (p Policy) Do(ctx context.Context, op func() error) error {
	attempts := p.Attempts
	if attempts < 1 {
		attempts = 1
	}

	var err error
	for i := 0; i < attempts; i++ {
		if i > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(p.Delay):
			}
		}
		err = op()
		if err == nil {
			return nil
		}
		if !Retryable(err) {
			return err
		}
	}
	return err
}

// Retryable reports whether an error is worth retrying.
func Retryable(err error) bool {
	return errors.Is(err, sentinel.ErrUnavailable)
}
