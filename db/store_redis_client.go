package db

import (
	"context"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// StoreRedisClient struct holds the Redis client and context.
type StoreRedisClient struct {
	client *redis.Client
	ctx    context.Context
}

// NewStoreRedisClient initializes a new Redis client wrapper.
func NewStoreRedisClient(ctx context.Context, client *redis.Client) *StoreRedisClient {
	if _, err := client.Ping(ctx).Result(); err != nil {
		zap.L().Fatal("Could not connect to Redis", zap.Error(err))
	}
	zap.L().Info("Connected to Redis")

	return &StoreRedisClient{
		client: client,
		ctx:    ctx,
	}
}

// Set sets a key-value pair in Redis.
func (r *StoreRedisClient) Set(key, value string) error {
	return r.client.Set(r.ctx, key, value, 0).Err()
}

// Get retrieves the value for a given key from Redis. A missing key is
// reported as ErrKeyNotFound.
func (r *StoreRedisClient) Get(key string) (string, error) {
	value, err := r.client.Get(r.ctx, key).Result()
	if err == redis.Nil {
		return "", ErrKeyNotFound
	}
	return value, err
}

// Keys returns all keys matching a glob pattern.
func (r *StoreRedisClient) Keys(pattern string) ([]string, error) {
	return r.client.Keys(r.ctx, pattern).Result()
}

// Del removes a key.
func (r *StoreRedisClient) Del(key string) error {
	return r.client.Del(r.ctx, key).Err()
}

// Ping checks the connection.
func (r *StoreRedisClient) Ping() error {
	_, err := r.client.Ping(r.ctx).Result()
	return err
}

// GetContext returns the client's context.
func (r *StoreRedisClient) GetContext() context.Context {
	return r.ctx
}
