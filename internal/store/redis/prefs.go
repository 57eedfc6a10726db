// Package redis stores preferences in a redis hash so the dismissal token
// and display flags can be shared between instances.
package redis

import (
	"context"
	"fmt"
	"strconv"

	goredis "github.com/redis/go-redis/v9"

	"finmate/internal/core"
	"finmate/internal/store"
)

// DefaultKey is the hash holding the preferences.
const DefaultKey = "finmate:preferences"

const (
	fieldDismissed = "needs_alert_dismissed"
	fieldDarkMode  = "dark_mode"
	fieldLargeText = "large_text"
)

type PreferenceStore struct {
	client *goredis.Client
	key    string
}

var _ store.PreferenceStore = (*PreferenceStore)(nil)

// New connects to addr and checks the connection.
func New(ctx context.Context, addr, key string) (*PreferenceStore, error) {
	client := goredis.NewClient(&goredis.Options{Addr: addr})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis %s: %w", addr, err)
	}
	return NewWithClient(client, key), nil
}

// NewWithClient wraps an existing client. An empty key uses DefaultKey.
func NewWithClient(client *goredis.Client, key string) *PreferenceStore {
	if key == "" {
		key = DefaultKey
	}
	return &PreferenceStore{client: client, key: key}
}

// GetPreferences implements store.PreferenceStore
func (s *PreferenceStore) GetPreferences(ctx context.Context) (core.Preferences, error) {
	fields, err := s.client.HGetAll(ctx, s.key).Result()
	if err != nil {
		return core.Preferences{}, fmt.Errorf("read preferences: %w", err)
	}
	p := core.Preferences{NeedsAlertDismissed: core.WeekKey(fields[fieldDismissed])}
	p.DarkMode, _ = strconv.ParseBool(fields[fieldDarkMode])
	p.LargeText, _ = strconv.ParseBool(fields[fieldLargeText])
	return p, nil
}

// SavePreferences implements store.PreferenceStore
func (s *PreferenceStore) SavePreferences(ctx context.Context, p core.Preferences) error {
	err := s.client.HSet(ctx, s.key,
		fieldDismissed, string(p.NeedsAlertDismissed),
		fieldDarkMode, strconv.FormatBool(p.DarkMode),
		fieldLargeText, strconv.FormatBool(p.LargeText),
	).Err()
	if err != nil {
		return fmt.Errorf("save preferences: %w", err)
	}
	return nil
}

// Ping reports whether redis is reachable.
func (s *PreferenceStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func (s *PreferenceStore) Close() error {
	return s.client.Close()
}
