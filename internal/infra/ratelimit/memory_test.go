package ratelimit

import (
	"context"
	"testing"
	"time"
)

func TestMemoryLimiterFixedWindow(t *testing.T) {
	now := time.Date(2026, 4, 1, 12, 0, 0, 0, time.UTC)
	limiter := NewMemoryLimiter(MemoryLimiterConfig{Now: func() time.Time { return now }})

	for i := 0; i < 3; i++ {
		decision, err := limiter.Allow(context.Background(), "firm:f1", 3, time.Minute)
		if err != nil {
			t.Fatalf("allow %d: %v", i, err)
		}
		if !decision.Allowed {
			t.Fatalf("request %d denied under limit", i)
		}
		if decision.Remaining != 3-(i+1) {
			t.Fatalf("remaining after %d requests = %d", i+1, decision.Remaining)
		}
	}

	decision, err := limiter.Allow(context.Background(), "firm:f1", 3, time.Minute)
	if err != nil {
		t.Fatalf("allow over limit: %v", err)
	}
	if decision.Allowed || decision.Remaining != 0 {
		t.Fatalf("over-limit decision = %+v", decision)
	}
	if decision.ResetAt != now.Add(time.Minute) {
		t.Fatalf("reset at %v, want %v", decision.ResetAt, now.Add(time.Minute))
	}
}

func TestMemoryLimiterWindowRollover(t *testing.T) {
	now := time.Date(2026, 4, 1, 12, 0, 0, 0, time.UTC)
	limiter := NewMemoryLimiter(MemoryLimiterConfig{Now: func() time.Time { return now }})

	for i := 0; i < 2; i++ {
		if _, err := limiter.Allow(context.Background(), "firm:f1", 2, time.Minute); err != nil {
			t.Fatalf("allow: %v", err)
		}
	}
	decision, _ := limiter.Allow(context.Background(), "firm:f1", 2, time.Minute)
	if decision.Allowed {
		t.Fatal("expected denial at window end")
	}

	now = now.Add(time.Minute + time.Second)
	decision, err := limiter.Allow(context.Background(), "firm:f1", 2, time.Minute)
	if err != nil {
		t.Fatalf("allow after rollover: %v", err)
	}
	if !decision.Allowed || decision.Remaining != 1 {
		t.Fatalf("post-rollover decision = %+v", decision)
	}
}

func TestMemoryLimiterKeysAreIndependent(t *testing.T) {
	limiter := NewMemoryLimiter(MemoryLimiterConfig{})

	if _, err := limiter.Allow(context.Background(), "firm:f1", 1, time.Minute); err != nil {
		t.Fatalf("allow f1: %v", err)
	}
	denied, _ := limiter.Allow(context.Background(), "firm:f1", 1, time.Minute)
	if denied.Allowed {
		t.Fatal("f1 should be exhausted")
	}
	other, err := limiter.Allow(context.Background(), "firm:f2", 1, time.Minute)
	if err != nil {
		t.Fatalf("allow f2: %v", err)
	}
	if !other.Allowed {
		t.Fatal("f2 budget affected by f1")
	}
}

func TestMemoryLimiterZeroLimitDisables(t *testing.T) {
	limiter := NewMemoryLimiter(MemoryLimiterConfig{})
	for i := 0; i < 10; i++ {
		decision, err := limiter.Allow(context.Background(), "firm:f1", 0, time.Minute)
		if err != nil {
			t.Fatalf("allow: %v", err)
		}
		if !decision.Allowed {
			t.Fatal("zero limit should disable limiting")
		}
	}
}

func TestMemoryLimiterEvictsExpiredAtCapacity(t *testing.T) {
	now := time.Date(2026, 4, 1, 12, 0, 0, 0, time.UTC)
	limiter := NewMemoryLimiter(MemoryLimiterConfig{Now: func() time.Time { return now }, MaxKeys: 2})

	if _, err := limiter.Allow(context.Background(), "a", 1, time.Minute); err != nil {
		t.Fatalf("allow a: %v", err)
	}
	if _, err := limiter.Allow(context.Background(), "b", 1, time.Minute); err != nil {
		t.Fatalf("allow b: %v", err)
	}
	if _, err := limiter.Allow(context.Background(), "c", 1, time.Minute); err == nil {
		t.Fatal("expected capacity error with live buckets")
	}

	now = now.Add(2 * time.Minute)
	decision, err := limiter.Allow(context.Background(), "c", 1, time.Minute)
	if err != nil {
		t.Fatalf("allow c after expiry: %v", err)
	}
	if !decision.Allowed {
		t.Fatal("c denied after stale buckets expired")
	}
}
