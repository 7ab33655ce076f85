package rate

import (
	"context"
	"fmt"
	"testing"
	"time"
)

func TestMemoryLimiter_FixedWindow(t *testing.T) {
	t.Parallel()
	l := NewMemoryLimiter(3, time.Minute)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		res, err := l.Allow(ctx, "ip:1.2.3.4")
		if err != nil {
			t.Fatal(err)
		}
		if !res.Allowed {
			t.Fatalf("hit %d should be allowed", i+1)
		}
	}
	res, _ := l.Allow(ctx, "ip:1.2.3.4")
	if res.Allowed {
		t.Fatal("4th hit should be denied")
	}
	if res.RetryAfter <= 0 {
		t.Fatal("RetryAfter should be positive when denied")
	}

	// otra key no comparte ventana
	res, _ = l.Allow(ctx, "ip:5.6.7.8")
	if !res.Allowed {
		t.Fatal("different key should be allowed")
	}
}

func TestMemoryLimiter_WindowResetsAndPrunes(t *testing.T) {
	t.Parallel()
	l := NewMemoryLimiter(1, 30*time.Millisecond)
	ctx := context.Background()

	res, _ := l.Allow(ctx, "ip:1.2.3.4|/v1/auth/login")
	if !res.Allowed {
		t.Fatal("first hit should be allowed")
	}
	res, _ = l.Allow(ctx, "ip:1.2.3.4|/v1/auth/login")
	if res.Allowed {
		t.Fatal("second hit inside window should be denied")
	}

	// ventana vencida: vuelve a permitir
	time.Sleep(50 * time.Millisecond)
	res, _ = l.Allow(ctx, "ip:1.2.3.4|/v1/auth/login")
	if !res.Allowed {
		t.Fatal("hit after window should be allowed again")
	}

	// y el janitor poda las ventanas viejas: keys distintas no se
	// acumulan para siempre
	for i := 0; i < 50; i++ {
		_, _ = l.Allow(ctx, fmt.Sprintf("ip:10.0.0.%d|/v1/auth/login", i))
	}
	time.Sleep(150 * time.Millisecond)
	if n := l.wins.ItemCount(); n != 0 {
		t.Fatalf("expected expired windows pruned, still %d resident", n)
	}
}
