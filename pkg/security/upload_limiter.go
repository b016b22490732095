package security

import (
	"context"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

// UploadLimiter caps verification uploads per user with a Redis sliding
// window.
type UploadLimiter struct {
	client    *goredis.Client
	maxPerDay int
}

// KEYS[1] = rate limit key
// ARGV[1] = max count allowed
// ARGV[2] = window size in seconds
// ARGV[3] = current timestamp
// Returns 1 if allowed, 0 if limited.
const uploadRateLimitScript = `
local key = KEYS[1]
local limit = tonumber(ARGV[1])
local window = tonumber(ARGV[2])
local now = tonumber(ARGV[3])

redis.call('ZREMRANGEBYSCORE', key, 0, now - window)

local count = redis.call('ZCARD', key)
if count >= limit then
    return 0
end

redis.call('ZADD', key, now, now .. '-' .. math.random(1000000))
redis.call('EXPIRE', key, window)
return 1
`

// NewUploadLimiter allows maxPerDay uploads per user, 20 when not positive.
// A nil client disables limiting.
func NewUploadLimiter(client *goredis.Client, maxPerDay int) *UploadLimiter {
	if maxPerDay <= 0 {
		maxPerDay = 20
	}
	return &UploadLimiter{client: client, maxPerDay: maxPerDay}
}

// Allow reports whether userID may upload now. Without Redis every upload is
// allowed; Redis errors fail open and are returned for logging.
func (ul *UploadLimiter) Allow(ctx context.Context, userID string) (bool, error) {
	if ul == nil || ul.client == nil || userID == "" {
		return true, nil
	}

	result, err := ul.client.Eval(ctx, uploadRateLimitScript, []string{uploadKey(userID)}, ul.maxPerDay, 86400, time.Now().Unix()).Result()
	if err != nil {
		return true, fmt.Errorf("upload limit check failed: %w", err)
	}
	allowed, ok := result.(int64)
	if !ok {
		return true, fmt.Errorf("unexpected result type from upload limit script")
	}
	return allowed == 1, nil
}

// Release drops the newest entry in the window of userID, returning the slot
// of an upload that was refused further down the line.
func (ul *UploadLimiter) Release(ctx context.Context, userID string) error {
	if ul == nil || ul.client == nil || userID == "" {
		return nil
	}
	if err := ul.client.ZPopMax(ctx, uploadKey(userID), 1).Err(); err != nil {
		return fmt.Errorf("upload slot release failed: %w", err)
	}
	return nil
}

func uploadKey(userID string) string {
	return fmt.Sprintf("ratelimit:upload:user:%s", userID)
}
