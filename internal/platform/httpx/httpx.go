// Package httpx retries HTTP calls to model providers.
package httpx

import (
	"context"
	"errors"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v5"
)

type HTTPStatusCoder interface {
	HTTPStatusCode() int
}

// RetryPolicy bounds the retries of a single call. Waits grow exponentially
// from Initial with ±20% jitter and never exceed MaxWait, including waits
// requested through Retry-After.
type RetryPolicy struct {
	MaxRetries int
	Initial    time.Duration
	MaxWait    time.Duration
}

func (p RetryPolicy) initial() time.Duration {
	if p.Initial <= 0 {
		return time.Second
	}
	return p.Initial
}

func (p RetryPolicy) maxWait() time.Duration {
	if p.MaxWait <= 0 {
		return 10 * time.Second
	}
	return p.MaxWait
}

// Call performs one attempt. resp may be nil and is only read for Retry-After.
type Call[T any] func(ctx context.Context) (T, *http.Response, error)

// Do runs call until it succeeds, fails with a non-retryable error, or the
// policy is exhausted. The last attempt's error is returned unchanged.
// notify, when set, sees every retry before its wait.
func Do[T any](ctx context.Context, p RetryPolicy, call Call[T], notify func(err error, wait time.Duration)) (T, error) {
	b := newRetryAfterBackOff(p)
	op := func() (T, error) {
		v, resp, err := call(ctx)
		if err == nil {
			return v, nil
		}
		if !IsRetryableError(err) {
			return v, backoff.Permanent(err)
		}
		b.hint = retryAfter(resp)
		return v, err
	}

	opts := []backoff.RetryOption{
		backoff.WithBackOff(b),
		backoff.WithMaxTries(uint(max(p.MaxRetries, 0)) + 1),
	}
	if notify != nil {
		opts = append(opts, backoff.WithNotify(backoff.Notify(notify)))
	}
	return backoff.Retry(ctx, op, opts...)
}

// retryAfterBackOff prefers a server-provided wait over the exponential one.
type retryAfterBackOff struct {
	exp  *backoff.ExponentialBackOff
	hint time.Duration
	max  time.Duration
}

func newRetryAfterBackOff(p RetryPolicy) *retryAfterBackOff {
	exp := backoff.NewExponentialBackOff()
	exp.InitialInterval = p.initial()
	exp.MaxInterval = p.maxWait()
	exp.Multiplier = 2
	exp.RandomizationFactor = 0.2
	return &retryAfterBackOff{exp: exp, max: p.maxWait()}
}

func (b *retryAfterBackOff) NextBackOff() time.Duration {
	next := b.exp.NextBackOff()
	if b.hint > 0 {
		next = b.hint
		b.hint = 0
	}
	if next > b.max {
		next = b.max
	}
	return next
}

func (b *retryAfterBackOff) Reset() {
	b.exp.Reset()
	b.hint = 0
}

func IsRetryableHTTPStatus(code int) bool {
	if code == http.StatusRequestTimeout || code == http.StatusTooManyRequests {
		return true
	}
	return code >= 500 && code <= 599
}

// IsRetryableError reports whether a request error is worth another attempt.
// Caller cancellation is final; deadline and network timeouts are not.
func IsRetryableError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	var sc HTTPStatusCoder
	if errors.As(err, &sc) {
		return IsRetryableHTTPStatus(sc.HTTPStatusCode())
	}
	return false
}

func retryAfter(resp *http.Response) time.Duration {
	if resp == nil {
		return 0
	}
	ra := strings.TrimSpace(resp.Header.Get("Retry-After"))
	if secs, err := strconv.Atoi(ra); err == nil && secs > 0 {
		return time.Duration(secs) * time.Second
	}
	return 0
}
