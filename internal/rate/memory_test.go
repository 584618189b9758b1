package rate

import (
	"context"
	"testing"
	"time"
)

func TestMemoryLimiter_FixedWindow(t *testing.T) {
	l := NewMemoryLimiter(3, time.Hour)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		res, err := l.Allow(ctx, "1.2.3.4|/v1/wellness/confirm")
		if err != nil {
			t.Fatalf("allow %d: %v", i, err)
		}
		if !res.Allowed {
			t.Fatalf("hit %d must pass", i)
		}
	}

	res, err := l.Allow(ctx, "1.2.3.4|/v1/wellness/confirm")
	if err != nil {
		t.Fatalf("allow: %v", err)
	}
	if res.Allowed {
		t.Fatal("fourth hit must be limited")
	}
	if res.RetryAfter <= 0 {
		t.Fatalf("retry after = %v", res.RetryAfter)
	}

	// Otra key no comparte presupuesto.
	res, err = l.Allow(ctx, "5.6.7.8|/v1/wellness/confirm")
	if err != nil {
		t.Fatalf("allow: %v", err)
	}
	if !res.Allowed {
		t.Fatal("distinct key must have its own window")
	}
}
