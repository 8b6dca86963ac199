package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const dialCheckTimeout = 5 * time.Second

var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// Client is the narrow slice of Redis the generation lock needs
type Client struct {
	rdb *redis.Client
}

// NewClient dials url and refuses to return until Redis answers a PING
func NewClient(ctx context.Context, url string) (*Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}
	rdb := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, dialCheckTimeout)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	return &Client{rdb: rdb}, nil
}

func NewFromRedis(rdb *redis.Client) *Client {
	return &Client{rdb: rdb}
}

// SetNX stores value under key only if the key is absent
func (c *Client) SetNX(ctx context.Context, key, value string, ttl time.Duration) (bool, error) {
	return c.rdb.SetNX(ctx, key, value, ttl).Result()
}

// DeleteIfEquals removes key only while it still holds value, so a holder
// whose lease expired cannot release a lock someone else now owns
func (c *Client) DeleteIfEquals(ctx context.Context, key, value string) error {
	return releaseScript.Run(ctx, c.rdb, []string{key}, value).Err()
}

func (c *Client) Ping(ctx context.Context) error {
	return c.rdb.Ping(ctx).Err()
}

func (c *Client) Close() error {
	return c.rdb.Close()
}
