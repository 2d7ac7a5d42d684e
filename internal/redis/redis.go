package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// stateTTL bounds how long a mirrored state survives without a fresh message.
const stateTTL = time.Hour

// NewRedisClient creates a Redis client
func NewRedisClient(addr string) *redis.Client {
	return redis.NewClient(&redis.Options{Addr: addr})
}

// StateCache mirrors the latest observed state of each device under
// device:<id> so dashboard reads don't hit the fact tables.
type StateCache struct {
	client *redis.Client
}

// NewStateCache creates a latest-state mirror backed by the given client
func NewStateCache(client *redis.Client) *StateCache {
	return &StateCache{client: client}
}

// SetDeviceState overwrites the mirrored state for a device
func (c *StateCache) SetDeviceState(ctx context.Context, deviceID string, doc map[string]any) error {
	raw, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, fmt.Sprintf("device:%s", deviceID), raw, stateTTL).Err()
}
