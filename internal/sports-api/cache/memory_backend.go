package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/viccon/sturdyc"
)

// MemoryConfig configura o backend em processo (sturdyc)
type MemoryConfig struct {
	Capacity           int
	NumShards          int
	TTL                time.Duration
	EvictionPercentage int
}

func DefaultMemoryConfig(ttl time.Duration) MemoryConfig {
	return MemoryConfig{Capacity: 10000, NumShards: 64, TTL: ttl, EvictionPercentage: 10}
}

func (c MemoryConfig) Validate() error {
	switch {
	case c.Capacity <= 0:
		return fmt.Errorf("memory cache: capacity must be greater than 0")
	case c.NumShards <= 0:
		return fmt.Errorf("memory cache: shards must be greater than 0")
	case c.TTL <= 0:
		return fmt.Errorf("memory cache: ttl must be greater than 0")
	case c.EvictionPercentage < 1 || c.EvictionPercentage > 100:
		return fmt.Errorf("memory cache: eviction percentage must be between 1 and 100")
	}
	return nil
}

// MemoryBackend guarda os blobs JSON no próprio processo. O TTL é o do client;
// o ttl por chamada é ignorado.
type MemoryBackend struct {
	client *sturdyc.Client[[]byte]
}

func NewMemoryBackend(cfg MemoryConfig) (*MemoryBackend, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &MemoryBackend{
		client: sturdyc.New[[]byte](cfg.Capacity, cfg.NumShards, cfg.TTL, cfg.EvictionPercentage),
	}, nil
}

func (b *MemoryBackend) Get(_ context.Context, key string) ([]byte, bool, error) {
	v, ok := b.client.Get(key)
	return v, ok, nil
}

func (b *MemoryBackend) Set(_ context.Context, key string, val []byte, _ time.Duration) error {
	b.client.Set(key, val)
	return nil
}

func (b *MemoryBackend) Delete(_ context.Context, keys ...string) error {
	for _, k := range keys {
		b.client.Delete(k)
	}
	return nil
}

func (b *MemoryBackend) Ping(context.Context) error { return nil }
