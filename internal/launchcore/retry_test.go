package launchcore

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fastBackoff(t *testing.T) {
	t.Helper()
	prev := readBackoff
	readBackoff = time.Millisecond
	t.Cleanup(func() { readBackoff = prev })
}

type codeErr int

func (c codeErr) Error() string  { return fmt.Sprintf("rpc error %d", int(c)) }
func (c codeErr) ErrorCode() int { return int(c) }

func TestReadWithRetry(t *testing.T) {
	fastBackoff(t)

	tests := []struct {
		name      string
		failures  int
		wantCalls int
		wantErr   bool
	}{
		{"first attempt", 0, 1, false},
		{"second attempt", 1, 2, false},
		{"third attempt", 2, 3, false},
		{"gives up after three", 5, 3, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := 0
			v, err := readWithRetry(context.Background(), func(context.Context) (int, error) {
				calls++
				if calls <= tt.failures {
					return 0, fmt.Errorf("attempt %d: %w", calls, errBoom)
				}
				return 42, nil
			})
			assert.Equal(t, tt.wantCalls, calls)
			if tt.wantErr {
				require.ErrorIs(t, err, errBoom)
				assert.Contains(t, err.Error(), "attempt 3")
				assert.Zero(t, v)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, 42, v)
		})
	}
}

func TestReadWithRetryStopsOnCancel(t *testing.T) {
	prev := readBackoff
	readBackoff = time.Hour
	t.Cleanup(func() { readBackoff = prev })

	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	_, err := readWithRetry(ctx, func(context.Context) (string, error) {
		calls++
		cancel()
		return "", errBoom
	})
	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, calls, "no attempt after cancellation")
}

func TestIsRateLimitError(t *testing.T) {
	tests := []struct {
		err  error
		want bool
	}{
		{nil, false},
		{errBoom, false},
		{errors.New("429 Too Many Requests: slow down"), true},
		{errors.New("rpc error -32005: limit exceeded"), true},
		{codeErr(-32005), true},
		{fmt.Errorf("call: %w", codeErr(-32005)), true},
		{codeErr(-32000), false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, isRateLimitError(tt.err), "%v", tt.err)
	}
}

func TestRevertReason(t *testing.T) {
	assert.Equal(t, "execution reverted: not launched",
		revertReason(errors.New("call failed: execution reverted: not launched")))
	assert.Equal(t, "connection refused", revertReason(errors.New("connection refused")))
}

func TestCallErrorKeepsCause(t *testing.T) {
	err := error(&callError{method: "getPair()", err: fmt.Errorf("post: %w", context.Canceled)})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, "getPair(): post: context canceled", err.Error())
}
