package redislock

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"

	"github.com/yungbote/neurobridge-pathgen/internal/platform/logger"
)

// Locker hands out short-lived exclusive leases keyed by string.
type Locker interface {
	// TryAcquire returns ok=false without error when another holder owns key.
	TryAcquire(ctx context.Context, key string) (release func(), ok bool, err error)
	Close() error
}

// releaseScript deletes the key only when it still carries our token.
var releaseScript = goredis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0`)

type redisLocker struct {
	log    *logger.Logger
	rdb    *goredis.Client
	prefix string
	ttl    time.Duration
}

type Options struct {
	Addr     string
	Password string
	DB       int
	Prefix   string
	TTL      time.Duration
}

func New(log *logger.Logger, opts Options) (Locker, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	addr := strings.TrimSpace(opts.Addr)
	if addr == "" {
		return nil, fmt.Errorf("missing REDIS_ADDR")
	}
	ttl := opts.TTL
	if ttl <= 0 {
		ttl = 15 * time.Minute
	}
	prefix := strings.TrimSpace(opts.Prefix)
	if prefix == "" {
		prefix = "pathgen"
	}

	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		Password:    opts.Password,
		DB:          opts.DB,
		DialTimeout: 5 * time.Second,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return &redisLocker{
		log:    log.With("service", "RedisLocker"),
		rdb:    rdb,
		prefix: prefix,
		ttl:    ttl,
	}, nil
}

func (l *redisLocker) TryAcquire(ctx context.Context, key string) (func(), bool, error) {
	full := l.prefix + ":" + key
	token := uuid.NewString()
	ok, err := l.rdb.SetNX(ctx, full, token, l.ttl).Result()
	if err != nil {
		return nil, false, fmt.Errorf("redis setnx %s: %w", full, err)
	}
	if !ok {
		return nil, false, nil
	}
	release := func() {
		rctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := releaseScript.Run(rctx, l.rdb, []string{full}, token).Err(); err != nil && err != goredis.Nil {
			l.log.Warn("lock release failed", "key", full, "error", err)
		}
	}
	return release, true, nil
}

func (l *redisLocker) Close() error {
	return l.rdb.Close()
}

type nopLocker struct{}

// Nop grants every lease. Used when Redis is not configured.
func Nop() Locker { return nopLocker{} }

func (nopLocker) TryAcquire(context.Context, string) (func(), bool, error) {
	return func() {}, true, nil
}

func (nopLocker) Close() error { return nil }
