package panelclient

import (
	"context"
	"fmt"
	"time"

	"panelsync/internal/shared/logger"
	"panelsync/internal/shared/utils/logutil"
)

// session caches one panel's login token in a TokenStore and logs in lazily
// on first use.
type session struct {
	panelID uint
	store   TokenStore
	ttl     time.Duration
	login   func(ctx context.Context) (string, error)
	logger  logger.Interface
}

// Login always acquires a fresh token and replaces the stored one.
func (s *session) Login(ctx context.Context) error {
	token, err := s.login(ctx)
	if err != nil {
		return err
	}
	if token == "" {
		return fmt.Errorf("panel %d login returned an empty token", s.panelID)
	}
	if err := s.store.Set(ctx, s.panelID, token, s.ttl); err != nil {
		s.logger.Warnw("failed to store panel token", "panel_id", s.panelID, "error", err)
	}
	s.logger.Debugw("panel login succeeded",
		"panel_id", s.panelID,
		"token_prefix", logutil.TruncateForLog(token, 6),
	)
	return nil
}

func (s *session) token(ctx context.Context) (string, error) {
	token, err := s.store.Get(ctx, s.panelID)
	if err != nil {
		s.logger.Warnw("failed to read panel token, logging in", "panel_id", s.panelID, "error", err)
	}
	if token != "" {
		return token, nil
	}

	token, err = s.login(ctx)
	if err != nil {
		return "", err
	}
	if err := s.store.Set(ctx, s.panelID, token, s.ttl); err != nil {
		s.logger.Warnw("failed to store panel token", "panel_id", s.panelID, "error", err)
	}
	return token, nil
}
