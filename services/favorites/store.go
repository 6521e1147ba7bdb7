package favorites

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
	"github.com/urfave/cli"
)

const (
	redisAddrFlag     = "favorites-redis-addr"
	redisPasswordFlag = "favorites-redis-password"
	redisDBFlag       = "favorites-redis-db"
	redisTTLFlag      = "favorites-redis-ttl"
)

const redisKeyPrefix = "movie-explorer:favorites:"

// Store keeps favorite sets outside of the session cookie, keyed by session id.
type Store interface {
	Load(ctx context.Context, sid string) (Set, error)
	Save(ctx context.Context, sid string, s Set) error
}

func RegisterFlags(f []cli.Flag) []cli.Flag {
	return append(f,
		cli.StringFlag{
			Name:   redisAddrFlag,
			Usage:  "redis address for favorites, empty keeps them in the session cookie",
			EnvVar: "FAVORITES_REDIS_ADDR",
		},
		cli.StringFlag{
			Name:   redisPasswordFlag,
			Usage:  "redis password for favorites",
			EnvVar: "FAVORITES_REDIS_PASSWORD",
		},
		cli.IntFlag{
			Name:   redisDBFlag,
			Usage:  "redis db for favorites",
			EnvVar: "FAVORITES_REDIS_DB",
		},
		cli.DurationFlag{
			Name:   redisTTLFlag,
			Usage:  "how long favorites of an idle session are kept",
			Value:  90 * 24 * time.Hour,
			EnvVar: "FAVORITES_REDIS_TTL",
		},
	)
}

type RedisStore struct {
	cl  redis.UniversalClient
	ttl time.Duration
}

// NewRedisStore returns nil when no redis address is configured.
func NewRedisStore(c *cli.Context) *RedisStore {
	addr := c.String(redisAddrFlag)
	if addr == "" {
		return nil
	}
	return NewRedis(redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: c.String(redisPasswordFlag),
		DB:       c.Int(redisDBFlag),
	}), c.Duration(redisTTLFlag))
}

func NewRedis(cl redis.UniversalClient, ttl time.Duration) *RedisStore {
	return &RedisStore{
		cl:  cl,
		ttl: ttl,
	}
}

func (s *RedisStore) key(sid string) string {
	return redisKeyPrefix + sid
}

func (s *RedisStore) Load(ctx context.Context, sid string) (Set, error) {
	ids, err := s.cl.SMembers(ctx, s.key(sid)).Result()
	if err != nil {
		return nil, errors.Wrapf(err, "failed to load favorites of %v", sid)
	}
	return New(ids...), nil
}

// Save replaces the stored set. An empty set removes the key.
func (s *RedisStore) Save(ctx context.Context, sid string, fs Set) error {
	key := s.key(sid)
	_, err := s.cl.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, key)
		if fs.Len() == 0 {
			return nil
		}
		ids := fs.All()
		members := make([]any, len(ids))
		for i, id := range ids {
			members[i] = id
		}
		pipe.SAdd(ctx, key, members...)
		if s.ttl > 0 {
			pipe.Expire(ctx, key, s.ttl)
		}
		return nil
	})
	if err != nil {
		return errors.Wrapf(err, "failed to save favorites of %v", sid)
	}
	return nil
}

func (s *RedisStore) Close() {
	_ = s.cl.Close()
}
