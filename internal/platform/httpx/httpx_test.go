package httpx

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"
)

type statusErr int

func (e statusErr) Error() string       { return fmt.Sprintf("status %d", int(e)) }
func (e statusErr) HTTPStatusCode() int { return int(e) }

var fastPolicy = RetryPolicy{MaxRetries: 3, Initial: time.Millisecond, MaxWait: 5 * time.Millisecond}

func TestIsRetryableError(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"canceled", context.Canceled, false},
		{"deadline", context.DeadlineExceeded, true},
		{"429", statusErr(429), true},
		{"503 wrapped", fmt.Errorf("call: %w", statusErr(503)), true},
		{"400", statusErr(400), false},
		{"plain", fmt.Errorf("boom"), false},
	}
	for _, tc := range cases {
		if got := IsRetryableError(tc.err); got != tc.want {
			t.Fatalf("%s: got %v want %v", tc.name, got, tc.want)
		}
	}
}

func TestDo_RetriesUntilSuccess(t *testing.T) {
	calls := 0
	var waits []time.Duration
	got, err := Do(context.Background(), fastPolicy, func(context.Context) (string, *http.Response, error) {
		calls++
		if calls < 3 {
			return "", nil, statusErr(503)
		}
		return "ok", nil, nil
	}, func(_ error, wait time.Duration) { waits = append(waits, wait) })
	if err != nil || got != "ok" {
		t.Fatalf("expected ok, got %q err=%v", got, err)
	}
	if calls != 3 || len(waits) != 2 {
		t.Fatalf("expected 3 calls and 2 waits, got %d and %d", calls, len(waits))
	}
}

func TestDo_StopsOnNonRetryable(t *testing.T) {
	calls := 0
	_, err := Do(context.Background(), fastPolicy, func(context.Context) (int, *http.Response, error) {
		calls++
		return 0, nil, statusErr(400)
	}, nil)
	var sc statusErr
	if !errors.As(err, &sc) || int(sc) != 400 {
		t.Fatalf("expected the status error back, got %v", err)
	}
	if calls != 1 {
		t.Fatalf("expected a single call, got %d", calls)
	}
}

func TestDo_ExhaustsMaxRetries(t *testing.T) {
	calls := 0
	_, err := Do(context.Background(), fastPolicy, func(context.Context) (int, *http.Response, error) {
		calls++
		return 0, nil, statusErr(502)
	}, nil)
	var sc statusErr
	if !errors.As(err, &sc) || int(sc) != 502 {
		t.Fatalf("expected last error back, got %v", err)
	}
	if calls != fastPolicy.MaxRetries+1 {
		t.Fatalf("expected %d calls, got %d", fastPolicy.MaxRetries+1, calls)
	}
}

func TestDo_NoRetriesWhenZero(t *testing.T) {
	calls := 0
	_, err := Do(context.Background(), RetryPolicy{Initial: time.Millisecond}, func(context.Context) (int, *http.Response, error) {
		calls++
		return 0, nil, statusErr(503)
	}, nil)
	if err == nil || calls != 1 {
		t.Fatalf("expected one failing call, got calls=%d err=%v", calls, err)
	}
}

func TestRetryAfterHintIsCapped(t *testing.T) {
	b := newRetryAfterBackOff(RetryPolicy{Initial: time.Millisecond, MaxWait: 2 * time.Second})

	resp := &http.Response{Header: http.Header{}}
	resp.Header.Set("Retry-After", "30")
	b.hint = retryAfter(resp)
	if got := b.NextBackOff(); got != 2*time.Second {
		t.Fatalf("expected cap at 2s, got %s", got)
	}
	if got := b.NextBackOff(); got >= time.Second {
		t.Fatalf("hint should apply once, got %s", got)
	}
	if retryAfter(nil) != 0 {
		t.Fatalf("nil response has no hint")
	}
}
