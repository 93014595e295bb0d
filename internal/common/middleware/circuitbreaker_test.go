package middleware

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestCircuitBreakerOpensAfterFailures(t *testing.T) {
	cb := NewCircuitBreaker("test", 3, time.Minute)
	ctx := context.Background()
	boom := errors.New("boom")

	for i := 0; i < 3; i++ {
		if err := cb.Call(ctx, func() error { return boom }); !errors.Is(err, boom) {
			t.Fatalf("call %d: expected boom, got %v", i, err)
		}
	}
	if cb.GetState() != StateOpen {
		t.Fatalf("expected open state, got %v", cb.GetState())
	}

	if err := cb.Call(ctx, func() error { return nil }); !errors.Is(err, ErrBreakerOpen) {
		t.Fatalf("expected ErrBreakerOpen, got %v", err)
	}
}

func TestCircuitBreakerRecovers(t *testing.T) {
	cb := NewCircuitBreaker("test", 1, 10*time.Millisecond)
	ctx := context.Background()

	_ = cb.Call(ctx, func() error { return errors.New("boom") })
	if cb.GetState() != StateOpen {
		t.Fatalf("expected open state")
	}

	time.Sleep(20 * time.Millisecond)

	// 半开试探成功后回到关闭
	if err := cb.Call(ctx, func() error { return nil }); err != nil {
		t.Fatalf("half-open call: %v", err)
	}
	if cb.GetState() != StateClosed {
		t.Fatalf("expected closed state, got %v", cb.GetState())
	}
}

func TestCircuitBreakerHalfOpenFailureReopens(t *testing.T) {
	cb := NewCircuitBreaker("test", 1, 10*time.Millisecond)
	ctx := context.Background()

	_ = cb.Call(ctx, func() error { return errors.New("boom") })
	time.Sleep(20 * time.Millisecond)

	if err := cb.Call(ctx, func() error { return errors.New("still down") }); err == nil {
		t.Fatalf("expected half-open call to fail")
	}
	if cb.GetState() != StateOpen {
		t.Fatalf("expected reopened state, got %v", cb.GetState())
	}
}

func TestCircuitBreakerSuccessResetsFailures(t *testing.T) {
	cb := NewCircuitBreaker("test", 2, time.Minute)
	ctx := context.Background()

	_ = cb.Call(ctx, func() error { return errors.New("boom") })
	_ = cb.Call(ctx, func() error { return nil })
	_ = cb.Call(ctx, func() error { return errors.New("boom") })

	if cb.GetState() != StateClosed {
		t.Fatalf("expected closed state after interleaved success, got %v", cb.GetState())
	}
}
