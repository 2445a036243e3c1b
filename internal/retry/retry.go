package retry

import (
	"context"
	"errors"
	"net"
	"syscall"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"
)

// Policy wraps fallible operations with bounded exponential-backoff retry.
// Transport-transient failures (timeouts, connection failures, DNS errors)
// are retried up to the attempt cap; everything else propagates immediately.
type Policy struct {
	maxAttempts   int
	baseDelay     time.Duration
	maxDelay      time.Duration
	backoffFactor float64
	logger        *zap.Logger
}

// NewPolicy creates a retry policy
func NewPolicy(maxAttempts int, baseDelay, maxDelay time.Duration, backoffFactor float64, logger *zap.Logger) *Policy {
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	return &Policy{
		maxAttempts:   maxAttempts,
		baseDelay:     baseDelay,
		maxDelay:      maxDelay,
		backoffFactor: backoffFactor,
		logger:        logger,
	}
}

// retryable is implemented by errors that know whether they are worth
// retrying (e.g. upstream HTTP status errors).
type retryable interface {
	Retryable() bool
}

// IsRetryable classifies an error as transport-transient
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}

	var r retryable
	if errors.As(err, &r) {
		return r.Retryable()
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return true
	}

	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return true
	}

	if errors.Is(err, syscall.ECONNREFUSED) ||
		errors.Is(err, syscall.ECONNRESET) ||
		errors.Is(err, syscall.EPIPE) {
		return true
	}

	return false
}

// Do runs op, retrying transport-transient failures with exponential backoff
// delay baseDelay * backoffFactor^(attempt-1), capped at maxDelay. The
// terminal error is returned to the caller unchanged.
func (p *Policy) Do(ctx context.Context, operation string, op func() error) error {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = p.baseDelay
	b.Multiplier = p.backoffFactor
	b.MaxInterval = p.maxDelay
	b.MaxElapsedTime = 0
	b.RandomizationFactor = 0

	attempt := 0
	wrapped := func() error {
		attempt++
		err := op()
		if err == nil {
			return nil
		}
		if !IsRetryable(err) {
			return backoff.Permanent(err)
		}
		return err
	}

	notify := func(err error, next time.Duration) {
		p.logger.Warn("Operation failed, retrying",
			zap.String("operation", operation),
			zap.Int("attempt", attempt),
			zap.Int("maxAttempts", p.maxAttempts),
			zap.Duration("sleep", next),
			zap.Error(err))
	}

	bo := backoff.WithContext(backoff.WithMaxRetries(b, uint64(p.maxAttempts-1)), ctx)
	return backoff.RetryNotify(wrapped, bo, notify)
}
