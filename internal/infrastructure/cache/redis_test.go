package cache

import (
	"context"
	"strings"
	"testing"
	"time"

	"kavak-credito/internal/config"

	"github.com/alicebob/miniredis/v2"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestOpenRedis_Success(t *testing.T) {
	s := miniredis.RunT(t)
	core, logs := observer.New(zap.InfoLevel)

	// Use a non-zero DB to verify it's set
	c, err := OpenRedis(config.RedisConfig{Addr: s.Addr(), DB: 2}, zap.New(core))
	if err != nil {
		t.Fatalf("OpenRedis returned error: %v", err)
	}
	t.Cleanup(func() { _ = c.Close() })

	if got := c.Options().DB; got != 2 {
		t.Fatalf("client DB = %d, want 2", got)
	}
	if got := c.Options().DialTimeout; got != dialTimeout {
		t.Fatalf("dial timeout = %v, want %v", got, dialTimeout)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	if err := c.Set(ctx, "sim:abc", "v", 0).Err(); err != nil {
		t.Fatalf("SET err: %v", err)
	}
	if v, err := c.Get(ctx, "sim:abc").Result(); err != nil || v != "v" {
		t.Fatalf("GET = %q, %v", v, err)
	}
	if !s.DB(2).Exists("sim:abc") {
		t.Fatalf("key not written to db 2")
	}

	if n := logs.FilterMessage("redis: connected").Len(); n != 1 {
		t.Fatalf("expected one connect log, got %d", n)
	}
}

func TestOpenRedis_Failure(t *testing.T) {
	// Unresolvable host → Ping should fail quickly
	_, err := OpenRedis(config.RedisConfig{Addr: "not-a-real-host:6379"}, nil)
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if !strings.Contains(err.Error(), "not-a-real-host:6379") {
		t.Fatalf("error should name the address: %v", err)
	}
}
