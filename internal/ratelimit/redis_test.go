package ratelimit

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func TestRedis_SlidingWindow(t *testing.T) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set; skipping Redis limiter test")
	}
	rdb := redis.NewClient(&redis.Options{Addr: addr})
	defer rdb.Close()

	ctx := context.Background()
	prefix := fmt.Sprintf("test:ratelimit:%d", time.Now().UnixNano())
	lim := NewRedis(rdb, zap.NewNop(), 3, time.Minute, WithPrefix(prefix))
	base := time.Now()
	lim.now = func() time.Time { return base }

	for i := 0; i < 3; i++ {
		if !lim.Allow(ctx, "ip") {
			t.Fatalf("call %d should be allowed", i+1)
		}
	}
	if lim.Allow(ctx, "ip") {
		t.Fatalf("fourth call should be denied")
	}

	lim.now = func() time.Time { return base.Add(time.Minute + time.Millisecond) }
	if !lim.Allow(ctx, "ip") {
		t.Fatalf("slots should free once the window passes")
	}
}

func TestRedis_FailsOpenWhenUnreachable(t *testing.T) {
	rdb := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	})
	defer rdb.Close()

	lim := NewRedis(rdb, zap.NewNop(), 1, time.Minute)
	if !lim.Allow(context.Background(), "ip") {
		t.Fatalf("limiter should fail open on redis errors")
	}
}
