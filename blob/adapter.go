package blob

import (
	"context"
	"errors"

	"github.com/kawasemi/dungeon-crawler/server/blob/local"
	blobredis "github.com/kawasemi/dungeon-crawler/server/blob/redis"
)

// ErrNotFound is returned by Read when a key does not exist.
var ErrNotFound = errors.New("blob: key not found")

// Store is a string-keyed durable key-value store. The save store keeps its
// encoded database snapshot under a single fixed key; read-absent means
// "start fresh" and write failures are treated as best-effort by callers.
type Store interface {
	Read(ctx context.Context, key string) (string, error)
	Write(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}

// Config holds configuration for both Redis and local directory backends.
type Config struct {
	RedisAddr     string `mapstructure:"redis_addr"`
	RedisPassword string `mapstructure:"redis_password"`
	RedisDB       int    `mapstructure:"redis_db"`
	LocalDir      string `mapstructure:"local_dir"`
}

// NewStore returns a Store backed by Redis if RedisAddr is set, otherwise a
// local directory store with one file per key.
func NewStore(cfg Config) (Store, error) {
	if cfg.RedisAddr != "" {
		s, err := blobredis.NewStore(blobredis.Config{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err != nil {
			return nil, err
		}
		return &redisAdapter{s: s}, nil
	}
	s, err := local.NewStore(cfg.LocalDir)
	if err != nil {
		return nil, err
	}
	return &localAdapter{s: s}, nil
}

// ---- adapters to bridge sub-package sentinel errors to blob.ErrNotFound ----

type localAdapter struct {
	s *local.Store
}

func (a *localAdapter) Read(ctx context.Context, key string) (string, error) {
	v, err := a.s.Read(ctx, key)
	if errors.Is(err, local.ErrNotFound) {
		return "", ErrNotFound
	}
	return v, err
}

func (a *localAdapter) Write(ctx context.Context, key, value string) error {
	return a.s.Write(ctx, key, value)
}

func (a *localAdapter) Delete(ctx context.Context, key string) error {
	return a.s.Delete(ctx, key)
}

type redisAdapter struct {
	s *blobredis.Store
}

func (a *redisAdapter) Read(ctx context.Context, key string) (string, error) {
	v, err := a.s.Read(ctx, key)
	if errors.Is(err, blobredis.ErrNotFound) {
		return "", ErrNotFound
	}
	return v, err
}

func (a *redisAdapter) Write(ctx context.Context, key, value string) error {
	return a.s.Write(ctx, key, value)
}

func (a *redisAdapter) Delete(ctx context.Context, key string) error {
	return a.s.Delete(ctx, key)
}
