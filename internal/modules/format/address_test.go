package format

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

func TestAddressKey_RoundsCoordinates(t *testing.T) {
	a := addressKey(10.0000001, 20.0000004)
	b := addressKey(10, 20)
	if a != b {
		t.Errorf("keys differ: %s vs %s", a, b)
	}
	if b != "fleetcard:address:10.00000:20.00000" {
		t.Errorf("unexpected key %s", b)
	}
}

func TestCachedAddressResolver(t *testing.T) {
	redisAddr := os.Getenv("FLEETCARD_REDIS_ADDR")
	if redisAddr == "" {
		t.Skip("FLEETCARD_REDIS_ADDR not set; skipping integration test")
	}

	rdb := redis.NewClient(&redis.Options{Addr: redisAddr})
	defer rdb.Close()

	ctx := context.Background()
	lat, lng := 10.12345, 20.54321+float64(time.Now().UnixNano()%1000)/1e3
	defer rdb.Del(ctx, addressKey(lat, lng))

	next := &stubAddresses{addr: "Cached Ave 3"}
	r := NewCachedAddressResolver(next, rdb, time.Minute)

	for i := 0; i < 2; i++ {
		got, err := r.Address(ctx, lat, lng)
		if err != nil {
			t.Fatalf("lookup %d: %v", i, err)
		}
		if got != "Cached Ave 3" {
			t.Errorf("lookup %d = %q", i, got)
		}
	}
	if next.calls != 1 {
		t.Errorf("geocoder called %d times, want 1", next.calls)
	}
}
