// Package prefs persists per-session client preferences: the recent
// search terms and the update prompt snooze deadline.
package prefs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/niksmo/storefront/internal/core/port"
	"github.com/redis/go-redis/v9"
)

const DefaultKeyPrefix = "storefront"

var _ port.PreferencesStore = (*RedisStore)(nil)

type RedisStore struct {
	client    redis.Cmdable
	prefix    string
	recentTTL time.Duration
}

// NewRedisStore stores keys under prefix. Recent searches expire after
// recentTTL of inactivity; zero keeps them forever.
func NewRedisStore(
	client redis.Cmdable, prefix string, recentTTL time.Duration,
) *RedisStore {
	if prefix == "" {
		prefix = DefaultKeyPrefix
	}
	return &RedisStore{client: client, prefix: prefix, recentTTL: recentTTL}
}

func (s *RedisStore) RecentSearches(ctx context.Context, sid string) ([]string, error) {
	const op = "RedisStore.RecentSearches"

	data, err := s.client.Get(ctx, s.key(sid, recentKey)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	var terms []string
	if err := json.Unmarshal(data, &terms); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return terms, nil
}

func (s *RedisStore) SetRecentSearches(
	ctx context.Context, sid string, terms []string,
) error {
	const op = "RedisStore.SetRecentSearches"

	data, err := json.Marshal(terms)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	err = s.client.Set(ctx, s.key(sid, recentKey), data, s.recentTTL).Err()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (s *RedisStore) HideUpdateUntil(
	ctx context.Context, sid string,
) (time.Time, bool, error) {
	const op = "RedisStore.HideUpdateUntil"

	v, err := s.client.Get(ctx, s.key(sid, hideUntilKey)).Result()
	if errors.Is(err, redis.Nil) {
		return time.Time{}, false, nil
	}
	if err != nil {
		return time.Time{}, false, fmt.Errorf("%s: %w", op, err)
	}

	ms, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return time.Time{}, false, fmt.Errorf("%s: %w", op, err)
	}
	return time.UnixMilli(ms), true, nil
}

// SetHideUpdateUntil stores the deadline as unix millis and lets Redis
// drop the key once it passes. Value and expiry are set in one command.
func (s *RedisStore) SetHideUpdateUntil(
	ctx context.Context, sid string, until time.Time,
) error {
	const op = "RedisStore.SetHideUpdateUntil"

	v := strconv.FormatInt(until.UnixMilli(), 10)
	err := s.client.SetArgs(ctx, s.key(sid, hideUntilKey), v, redis.SetArgs{
		ExpireAt: ceilSecond(until),
	}).Err()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// ceilSecond rounds up, EXAT has second precision and must not drop the
// key before the deadline.
func ceilSecond(t time.Time) time.Time {
	if r := t.Truncate(time.Second); !r.Equal(t) {
		return r.Add(time.Second)
	}
	return t
}

func (s *RedisStore) ClearHideUpdateUntil(ctx context.Context, sid string) error {
	const op = "RedisStore.ClearHideUpdateUntil"

	if err := s.client.Del(ctx, s.key(sid, hideUntilKey)).Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

const (
	recentKey    = "recent_searches"
	hideUntilKey = "hide_update_until"
)

func (s *RedisStore) key(sid, name string) string {
	return fmt.Sprintf("%s:%s:%s", s.prefix, sid, name)
}
