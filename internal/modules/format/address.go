package format

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

const addressKeyFormat = "fleetcard:address:%.5f:%.5f"

// CachedAddressResolver memoizes geocoder answers in Redis. Coordinates are
// rounded to five decimals (about a meter) to form the key.
type CachedAddressResolver struct {
	next  AddressResolver
	redis redis.Cmdable
	ttl   time.Duration
}

func NewCachedAddressResolver(next AddressResolver, rdb redis.Cmdable, ttl time.Duration) *CachedAddressResolver {
	return &CachedAddressResolver{next: next, redis: rdb, ttl: ttl}
}

func (r *CachedAddressResolver) Address(ctx context.Context, lat, lng float64) (string, error) {
	key := addressKey(lat, lng)
	val, err := r.redis.Get(ctx, key).Result()
	if err == nil {
		return val, nil
	}
	if err != redis.Nil {
		log.Printf("address cache get %s: %v", key, err)
	}

	addr, err := r.next.Address(ctx, lat, lng)
	if err != nil {
		return "", err
	}
	if err := r.redis.Set(ctx, key, addr, r.ttl).Err(); err != nil {
		log.Printf("address cache set %s: %v", key, err)
	}
	return addr, nil
}

func addressKey(lat, lng float64) string {
	return fmt.Sprintf(addressKeyFormat, lat, lng)
}
