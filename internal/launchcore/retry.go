package launchcore

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/rpc"
)

// readBackoff is the first pause between read attempts.
var readBackoff = 200 * time.Millisecond

func isRateLimitError(err error) bool {
	if err == nil {
		return false
	}
	var re rpc.Error
	if errors.As(err, &re) && re.ErrorCode() == -32005 {
		return true
	}
	s := err.Error()
	return strings.Contains(s, "Too Many Requests") || strings.Contains(s, "-32005")
}

// readWithRetry runs a read-only chain call with small exponential backoff.
// Writes never go through here.
func readWithRetry[T any](ctx context.Context, read func(context.Context) (T, error)) (T, error) {
	const maxAttempts = 3
	backoff := readBackoff
	var (
		zero    T
		lastErr error
	)
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		v, err := read(ctx)
		if err == nil {
			return v, nil
		}
		lastErr = err
		if attempt < maxAttempts {
			select {
			case <-ctx.Done():
				return zero, ctx.Err()
			case <-time.After(backoff):
			}
			if isRateLimitError(err) {
				backoff *= 2
			}
		}
	}
	return zero, lastErr
}

func revertReason(e error) string {
	s := e.Error()
	if i := strings.Index(s, "execution reverted"); i >= 0 {
		return s[i:]
	}
	return s
}

// callError reports a failed read by its revert reason and keeps the cause
// reachable for errors.Is.
type callError struct {
	method string
	err    error
}

func (e *callError) Error() string { return e.method + ": " + revertReason(e.err) }

func (e *callError) Unwrap() error { return e.err }
