package security

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

// LoginTrackerConfig holds configuration for sign-in lockout
type LoginTrackerConfig struct {
	MaxAttempts   int           // failed attempts before a block (default: 5)
	AttemptWindow time.Duration // window failures are counted in (default: 15min)
	BlockDuration time.Duration // block length once MaxAttempts is hit (default: 15min)
}

func DefaultLoginTrackerConfig() LoginTrackerConfig {
	return LoginTrackerConfig{
		MaxAttempts:   5,
		AttemptWindow: 15 * time.Minute,
		BlockDuration: 15 * time.Minute,
	}
}

// LoginTracker counts failed sign-ins per email and blocks the email for a
// while once too many fail. Without Redis nothing is tracked.
type LoginTracker struct {
	client *goredis.Client
	config LoginTrackerConfig
}

func NewLoginTracker(client *goredis.Client, config LoginTrackerConfig) *LoginTracker {
	def := DefaultLoginTrackerConfig()
	if config.MaxAttempts <= 0 {
		config.MaxAttempts = def.MaxAttempts
	}
	if config.AttemptWindow <= 0 {
		config.AttemptWindow = def.AttemptWindow
	}
	if config.BlockDuration <= 0 {
		config.BlockDuration = def.BlockDuration
	}
	return &LoginTracker{client: client, config: config}
}

const (
	failLoginUserPrefix    = "fail:login:user:"
	blockedLoginUserPrefix = "blocked:login:user:"
)

// KEYS[1] = counter key, ARGV[1] = TTL in seconds. Returns the new count.
const incrWithTTLScript = `
local count = redis.call('INCR', KEYS[1])
if count == 1 then
    redis.call('EXPIRE', KEYS[1], ARGV[1])
end
return count
`

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (lt *LoginTracker) enabled() bool {
	return lt != nil && lt.client != nil
}

// IsBlocked reports whether sign-in for email is currently blocked.
func (lt *LoginTracker) IsBlocked(ctx context.Context, email string) (bool, error) {
	if !lt.enabled() {
		return false, nil
	}
	exists, err := lt.client.Exists(ctx, blockedLoginUserPrefix+normalizeEmail(email)).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check user block: %w", err)
	}
	return exists > 0, nil
}

// RecordFailure counts a failed sign-in and blocks the email when the limit
// is reached. It returns whether the email is now blocked.
func (lt *LoginTracker) RecordFailure(ctx context.Context, email string) (bool, int, error) {
	if !lt.enabled() {
		return false, 0, nil
	}
	email = normalizeEmail(email)

	result, err := lt.client.Eval(ctx, incrWithTTLScript, []string{failLoginUserPrefix + email}, int(lt.config.AttemptWindow.Seconds())).Result()
	if err != nil {
		return false, 0, fmt.Errorf("failed to increment user counter: %w", err)
	}
	count, ok := result.(int64)
	if !ok {
		return false, 0, errors.New("unexpected result type from Lua script")
	}

	if int(count) < lt.config.MaxAttempts {
		return false, int(count), nil
	}
	if err := lt.client.Set(ctx, blockedLoginUserPrefix+email, "1", lt.config.BlockDuration).Err(); err != nil {
		return true, int(count), fmt.Errorf("failed to set user block: %w", err)
	}
	return true, int(count), nil
}

// Clear forgets the failures of email after a successful sign-in.
func (lt *LoginTracker) Clear(ctx context.Context, email string) error {
	if !lt.enabled() {
		return nil
	}
	if err := lt.client.Del(ctx, failLoginUserPrefix+normalizeEmail(email)).Err(); err != nil {
		return fmt.Errorf("failed to clear user attempts: %w", err)
	}
	return nil
}

// BlockTTL returns how long the block on email has left, 0 when not blocked.
func (lt *LoginTracker) BlockTTL(ctx context.Context, email string) (time.Duration, error) {
	if !lt.enabled() {
		return 0, nil
	}
	ttl, err := lt.client.TTL(ctx, blockedLoginUserPrefix+normalizeEmail(email)).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to get block TTL: %w", err)
	}
	if ttl < 0 {
		return 0, nil
	}
	return ttl, nil
}
