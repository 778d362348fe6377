package ratelimit

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// slidingScript keeps one sorted-set member per admitted request, scored by
// its unix time in milliseconds.
var slidingScript = redis.NewScript(`
local key    = KEYS[1]
local now    = tonumber(ARGV[1])
local window = tonumber(ARGV[2])
local max    = tonumber(ARGV[3])
redis.call('ZREMRANGEBYSCORE', key, '-inf', '(' .. (now - window))
if redis.call('ZCARD', key) >= max then
  return 0
end
redis.call('ZADD', key, now, ARGV[4])
redis.call('PEXPIRE', key, window)
return 1
`)

// Redis is a sliding-window limiter whose state is shared by every process
// talking to the same Redis. Redis errors fail open.
type Redis struct {
	rdb    redis.UniversalClient
	log    *zap.Logger
	prefix string
	max    int
	window time.Duration
	now    func() time.Time
}

type RedisOption func(*Redis)

// WithPrefix sets the key namespace; keys are "<prefix>:<client>".
func WithPrefix(prefix string) RedisOption {
	return func(r *Redis) { r.prefix = strings.Trim(prefix, ":") }
}

func NewRedis(rdb redis.UniversalClient, log *zap.Logger, max int, window time.Duration, opts ...RedisOption) *Redis {
	r := &Redis{
		rdb:    rdb,
		log:    log,
		prefix: "ratelimit:contact",
		max:    max,
		window: window,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *Redis) Allow(ctx context.Context, key string) bool {
	now := r.now().UnixMilli()
	member := strconv.FormatInt(now, 10) + "-" + uuid.NewString()
	res, err := slidingScript.Run(ctx, r.rdb,
		[]string{r.prefix + ":" + key},
		now, r.window.Milliseconds(), r.max, member,
	).Int()
	if err != nil {
		r.log.Warn("ratelimit_redis_error", zap.String("key", key), zap.Error(err))
		return true
	}
	return res == 1
}

var (
	_ Limiter = (*Window)(nil)
	_ Limiter = (*Redis)(nil)
)
