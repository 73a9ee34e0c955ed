package loyalty

import (
	"context"
	"fmt"
	"strconv"
	"time"

	config "github.com/electrohub/loyalty/internal/config"
	redis "github.com/redis/go-redis/v9"
)

// CacheService keeps wallet balances in redis for a short TTL.
type CacheService struct {
	client *redis.Client
	ttl    time.Duration
}

func NewCacheService(cfg config.Redis) (serv *CacheService, err error) {
	if err = config.Required("cache.url", cfg.Addr); err != nil {
		return nil, err
	}
	db := redis.NewClient(&redis.Options{
		Addr:        cfg.Addr,
		Password:    cfg.Password,
		Username:    cfg.User,
		DB:          0,
		MaxRetries:  5,
		DialTimeout: 10 * time.Second,
	})
	err = db.Ping(context.Background()).Err()
	if err != nil {
		return nil, err
	}
	return NewCacheServiceWithClient(db, cfg.TTL), nil
}

func NewCacheServiceWithClient(client *redis.Client, ttl time.Duration) *CacheService {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &CacheService{client, ttl}
}

func balanceKey(user string) string {
	return "balance:" + user
}

func (c *CacheService) GetBalance(ctx context.Context, user string) (coins int64, err error) {
	val, err := c.client.Get(ctx, balanceKey(user)).Result()
	if err == redis.Nil {
		return 0, fmt.Errorf("not found")
	} else if err != nil {
		return 0, err
	}

	coins, err = strconv.ParseInt(val, 10, 64)
	if err != nil {
		return 0, err
	}
	return coins, nil
}

func (c *CacheService) SetBalance(ctx context.Context, user string, coins int64) (err error) {
	return c.client.Set(ctx, balanceKey(user), coins, c.ttl).Err()
}

func (c *CacheService) InvalidateBalance(ctx context.Context, user string) error {
	return c.client.Del(ctx, balanceKey(user)).Err()
}

func (c *CacheService) Close() error {
	return c.client.Close()
}
