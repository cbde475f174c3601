package cache

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const panelTokenPrefix = "panel:token:"

// PanelTokenStore shares panel session tokens between worker processes so a
// panel sees one login per TTL instead of one per process.
type PanelTokenStore struct {
	client *redis.Client
}

func NewPanelTokenStore(client *redis.Client) *PanelTokenStore {
	return &PanelTokenStore{client: client}
}

func panelTokenKey(panelID uint) string {
	return panelTokenPrefix + strconv.FormatUint(uint64(panelID), 10)
}

// Get returns an empty string when no token is stored.
func (s *PanelTokenStore) Get(ctx context.Context, panelID uint) (string, error) {
	token, err := s.client.Get(ctx, panelTokenKey(panelID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", nil
		}
		return "", fmt.Errorf("failed to get panel token: %w", err)
	}
	return token, nil
}

func (s *PanelTokenStore) Set(ctx context.Context, panelID uint, token string, ttl time.Duration) error {
	if err := s.client.Set(ctx, panelTokenKey(panelID), token, ttl).Err(); err != nil {
		return fmt.Errorf("failed to store panel token: %w", err)
	}
	return nil
}

func (s *PanelTokenStore) Delete(ctx context.Context, panelID uint) error {
	if err := s.client.Del(ctx, panelTokenKey(panelID)).Err(); err != nil {
		return fmt.Errorf("failed to delete panel token: %w", err)
	}
	return nil
}
