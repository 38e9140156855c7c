package retry

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hmcts/et-case-api/pkg/platform/sentinel"
)

func TestDo_SucceedsWithinBudget(t *testing.T) {
	calls := 0
	p := Policy{Attempts: 3}

	err := p.Do(context.Background(), func() error {
		calls++
		if calls < 3 {
			return fmt.Errorf("upstream: %w", sentinel.ErrUnavailable)
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestDo_ExhaustsBudget(t *testing.T) {
	calls := 0
	p := Policy{Attempts: 2}

	err := p.Do(context.Background(), func() error {
		calls++
		return fmt.Errorf("upstream: %w", sentinel.ErrUnavailable)
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, sentinel.ErrUnavailable)
	assert.Equal(t, 2, calls)
}

func TestDo_BusinessRejectionNotRetried(t *testing.T) {
	calls := 0
	p := Policy{Attempts: 5}

	err := p.Do(context.Background(), func() error {
		calls++
		return fmt.Errorf("case 123: %w", sentinel.ErrNotFound)
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, sentinel.ErrNotFound)
	assert.Equal(t, 1, calls)
}

func TestDo_ConflictNotRetried(t *testing.T) {
	calls := 0
	p := Policy{Attempts: 5}

	err := p.Do(context.Background(), func() error {
		calls++
		return sentinel.ErrConflict
	})

	require.Error(t, err)
	assert.Equal(t, 1, calls)
}

func TestDo_ContextCancelledBetweenAttempts(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	p := Policy{Attempts: 3}

	calls := 0
	err := p.Do(ctx, func() error {
		calls++
		return sentinel.ErrUnavailable
	})

	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, calls)
}
