package storage

import (
	"context"
	"fmt"
	"strconv"

	"github.com/Totarae/LinkRedirector/internal/model"
	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "shortlink:"

// incrementScript увеличивает clicks только у существующей ссылки,
// чтобы HINCRBY не создал пустой хеш для неизвестного slug.
var incrementScript = redis.NewScript(`
if redis.call("EXISTS", KEYS[1]) == 0 then
	return -1
end
return redis.call("HINCRBY", KEYS[1], "clicks", 1)
`)

// RedisStore хранит каждую ссылку в хеше shortlink:{slug}
// с полями destination, active и clicks.
type RedisStore struct {
	Client *redis.Client
}

// NewRedisStore подключается к Redis по URL вида redis://host:port/db.
func NewRedisStore(ctx context.Context, redisURL string) (*RedisStore, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}
	return &RedisStore{Client: client}, nil
}

func redisKey(slug string) string {
	return redisKeyPrefix + slug
}

// FindBySlug читает хеш ссылки.
func (s *RedisStore) FindBySlug(ctx context.Context, slug string) (*model.ShortLink, error) {
	fields, err := s.Client.HGetAll(ctx, redisKey(slug)).Result()
	if err != nil {
		return nil, fmt.Errorf("redis hgetall: %w", err)
	}
	if len(fields) == 0 {
		return nil, ErrNotFound
	}
	return linkFromHash(slug, fields)
}

// IncrementClicks выполняет атомарный скрипт на стороне Redis.
func (s *RedisStore) IncrementClicks(ctx context.Context, slug string) error {
	n, err := incrementScript.Run(ctx, s.Client, []string{redisKey(slug)}).Int64()
	if err != nil {
		return fmt.Errorf("redis increment: %w", err)
	}
	if n < 0 {
		return ErrNotFound
	}
	return nil
}

// Ping проверяет соединение с Redis.
func (s *RedisStore) Ping(ctx context.Context) error {
	return s.Client.Ping(ctx).Err()
}

// Close закрывает клиент.
func (s *RedisStore) Close() error {
	return s.Client.Close()
}

func linkFromHash(slug string, fields map[string]string) (*model.ShortLink, error) {
	link := &model.ShortLink{
		Slug:        slug,
		Destination: fields["destination"],
	}

	if raw, ok := fields["active"]; ok {
		active, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, fmt.Errorf("malformed active flag for %q: %w", slug, err)
		}
		link.Active = active
	}

	if raw, ok := fields["clicks"]; ok {
		clicks, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("malformed clicks for %q: %w", slug, err)
		}
		link.Clicks = clicks
	}

	return link, nil
}
