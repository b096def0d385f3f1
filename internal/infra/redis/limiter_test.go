package redis

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
)

func TestLimiterCountsPerKeyWindow(t *testing.T) {
	ctx := context.Background()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	limiter := NewLimiter(client, 3, time.Minute)

	for i := 0; i < 3; i++ {
		ok, err := limiter.Allow(ctx, "1.2.3.4")
		if err != nil || !ok {
			t.Fatalf("request %d should be allowed: ok=%v err=%v", i, ok, err)
		}
	}
	if ok, _ := limiter.Allow(ctx, "1.2.3.4"); ok {
		t.Fatalf("fourth request must be denied")
	}
	if ok, _ := limiter.Allow(ctx, "5.6.7.8"); !ok {
		t.Fatalf("other key should be allowed")
	}

	mr.FastForward(time.Minute)
	if ok, _ := limiter.Allow(ctx, "1.2.3.4"); !ok {
		t.Fatalf("expired window should reset the counter")
	}
}
