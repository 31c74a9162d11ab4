package store

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/miachat/miachat/internal/profile"
	"github.com/miachat/miachat/store/cache"
)

const sessionCachePrefix = "chat_session:"

// Store provides database access to all raw objects.
type Store struct {
	profile *profile.Profile
	driver  Driver

	// sessionCache avoids a round trip on repeated session lookups; entries
	// are safe to cache because sessions are immutable once created.
	sessionCache *cache.Cache
}

// New creates a new instance of Store.
func New(driver Driver, profile *profile.Profile) *Store {
	cacheConfig := cache.Config{
		DefaultTTL:      30 * time.Minute,
		CleanupInterval: 5 * time.Minute,
		MaxItems:        1000,
	}

	return &Store{
		driver:       driver,
		profile:      profile,
		sessionCache: cache.New(cacheConfig),
	}
}

func (s *Store) GetDriver() Driver {
	return s.driver
}

func (s *Store) Close() error {
	s.sessionCache.Close()
	return s.driver.Close()
}

func (s *Store) cacheSession(ctx context.Context, session *ChatSession) {
	data, err := json.Marshal(session)
	if err != nil {
		slog.Warn("failed to marshal session for cache", "session_id", session.ID, "error", err)
		return
	}
	s.sessionCache.Set(ctx, sessionCachePrefix+session.ID, data)
}

func (s *Store) sessionFromCache(ctx context.Context, id string) *ChatSession {
	data, ok := s.sessionCache.Get(ctx, sessionCachePrefix+id)
	if !ok {
		return nil
	}
	var session ChatSession
	if err := json.Unmarshal(data, &session); err != nil {
		slog.Warn("failed to unmarshal cached session", "session_id", id, "error", err)
		return nil
	}
	return &session
}
