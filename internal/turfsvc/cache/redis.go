// Package cache keeps short-lived free-slot listings in Redis so repeated
// availability lookups for a popular turf/date don't hit postgres every time.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"

	"github.com/openturf/turf-services/internal/turfsvc/availability"
)

// SlotTTL is deliberately short: a stale listing only survives until the
// next booking write invalidates it or the TTL runs out.
const SlotTTL = 30 * time.Second

type SlotCache struct {
	rdb *redis.Client
}

// Connect builds a Redis client from REDIS_ADDR / REDIS_DB and pings it.
func Connect() (*redis.Client, error) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		addr = "localhost:6379"
	}

	rdb := redis.NewClient(&redis.Options{
		Addr: addr,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", addr, err)
	}
	return rdb, nil
}

func NewSlotCache(rdb *redis.Client) *SlotCache {
	return &SlotCache{rdb: rdb}
}

func slotKey(turfID, date string) string {
	return "slots:" + turfID + ":" + date
}

// GetSlots returns the cached listing and whether it was present. Cache
// failures are logged and treated as misses.
func (c *SlotCache) GetSlots(ctx context.Context, turfID, date string) ([]availability.Slot, bool) {
	raw, err := c.rdb.Get(ctx, slotKey(turfID, date)).Bytes()
	if err != nil {
		if err != redis.Nil {
			log.Warnf("slot cache get failed for %s/%s: %v", turfID, date, err)
		}
		return nil, false
	}

	var slots []availability.Slot
	if err := json.Unmarshal(raw, &slots); err != nil {
		log.Warnf("slot cache decode failed for %s/%s: %v", turfID, date, err)
		return nil, false
	}
	return slots, true
}

func (c *SlotCache) SetSlots(ctx context.Context, turfID, date string, slots []availability.Slot) {
	raw, err := json.Marshal(slots)
	if err != nil {
		log.Warnf("slot cache encode failed for %s/%s: %v", turfID, date, err)
		return
	}
	if err := c.rdb.Set(ctx, slotKey(turfID, date), raw, SlotTTL).Err(); err != nil {
		log.Warnf("slot cache set failed for %s/%s: %v", turfID, date, err)
	}
}

// Invalidate drops the listing after a booking write touches the turf/date.
func (c *SlotCache) Invalidate(ctx context.Context, turfID, date string) {
	if err := c.rdb.Del(ctx, slotKey(turfID, date)).Err(); err != nil {
		log.Warnf("slot cache invalidate failed for %s/%s: %v", turfID, date, err)
	}
}
