package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	goredis "github.com/go-redis/redis/v8"

	groupbuydomain "linkcook-go/internal/domain/groupbuy"
	"linkcook-go/pkg/logger"
)

const (
	keyPrefix        = "linkcook:groupbuy:"
	defaultOpTimeout = 500 * time.Millisecond
)

// GroupBuyCache shares group-buy snapshots between server instances. Cache
// failures are logged and treated as misses.
type GroupBuyCache struct {
	client    *goredis.Client
	log       logger.Logger
	opTimeout time.Duration
}

func NewGroupBuyCache(client *goredis.Client, log logger.Logger) *GroupBuyCache {
	return &GroupBuyCache{client: client, log: log, opTimeout: defaultOpTimeout}
}

func NewClient(addr, password string, db int) *goredis.Client {
	return goredis.NewClient(&goredis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
}

func (c *GroupBuyCache) Get(id string) (*groupbuydomain.GroupBuy, bool) {
	ctx, cancel := context.WithTimeout(context.Background(), c.opTimeout)
	defer cancel()

	payload, err := c.client.Get(ctx, keyPrefix+id).Bytes()
	if err != nil {
		if !errors.Is(err, goredis.Nil) {
			c.log.Warn("redis: get group buy failed", "id", id, "err", err)
		}
		return nil, false
	}

	var groupBuy groupbuydomain.GroupBuy
	if err := json.Unmarshal(payload, &groupBuy); err != nil {
		c.log.Warn("redis: decode group buy failed", "id", id, "err", err)
		return nil, false
	}
	return &groupBuy, true
}

func (c *GroupBuyCache) Set(id string, groupBuy *groupbuydomain.GroupBuy, ttl time.Duration) {
	if groupBuy == nil || ttl <= 0 {
		c.Delete(id)
		return
	}

	payload, err := json.Marshal(groupBuy)
	if err != nil {
		c.log.Warn("redis: encode group buy failed", "id", id, "err", err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), c.opTimeout)
	defer cancel()
	if err := c.client.Set(ctx, keyPrefix+id, payload, ttl).Err(); err != nil {
		c.log.Warn("redis: set group buy failed", "id", id, "err", err)
	}
}

func (c *GroupBuyCache) Delete(id string) {
	ctx, cancel := context.WithTimeout(context.Background(), c.opTimeout)
	defer cancel()
	if err := c.client.Del(ctx, keyPrefix+id).Err(); err != nil {
		c.log.Warn("redis: delete group buy failed", "id", id, "err", err)
	}
}

// Ping checks connectivity at startup.
func Ping(ctx context.Context, client *goredis.Client) error {
	return client.Ping(ctx).Err()
}
