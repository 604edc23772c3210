/*
 * Copyright (C) 2026. Gardel <sunxinao@hotmail.com> and contributors
 *
 * This program is free software: you can redistribute it and/or modify
 * it under the terms of the GNU Affero General Public License as published by
 * the Free Software Foundation, either version 3 of the License, or
 * (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU Affero General Public License for more details.
 *
 * You should have received a copy of the GNU Affero General Public License
 * along with this program.  If not, see <https://www.gnu.org/licenses/>.
 */

package service

import (
	"context"
	"errors"
	"fmt"
	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru"
	"golang.org/x/time/rate"
	"qrcode-session/logging"
	"sync/atomic"
	"time"
)

var ErrSessionNotFound = errors.New("code session not found")

// SessionService 按浏览器页面挂载的 CodeSession 集合
type SessionService interface {
	Mount() (string, *CodeSession)
	Get(id string) (*CodeSession, bool)
	Unmount(id string) bool
	AllowRegenerate(id string) bool
	Sweep(now time.Time) int
	Run(ctx context.Context) error
	Len() int
	Close()
}

type SessionConfig struct {
	MaxSessions     int
	IdleTimeout     time.Duration
	SweepInterval   time.Duration
	RegenerateRate  float64 // manual regenerations per second
	RegenerateBurst int
	Code            CodeSessionOptions
}

type sessionEntry struct {
	session  *CodeSession
	limiter  *rate.Limiter
	lastSeen atomic.Int64
}

func (e *sessionEntry) touch(now time.Time) {
	e.lastSeen.Store(now.UnixMilli())
}

type sessionStore struct {
	sessionCache *lru.Cache
	cfg          SessionConfig
	logger       logging.Logger
}

// NewSessionService creates the registry. Whatever removes a session from
// it (unmount, capacity eviction, idle sweep, Close) also stops the
// session's tick driver.
func NewSessionService(cfg SessionConfig, logger logging.Logger) (SessionService, error) {
	if logger == nil {
		logger = logging.Default()
	}
	store := &sessionStore{
		cfg:    cfg,
		logger: logger,
	}
	cache, err := lru.NewWithEvict(cfg.MaxSessions, store.onEvicted)
	if err != nil {
		return nil, fmt.Errorf("create session cache: %w", err)
	}
	store.sessionCache = cache
	return store, nil
}

func (s *sessionStore) onEvicted(key interface{}, value interface{}) {
	if entry, ok := value.(*sessionEntry); ok {
		entry.session.Stop()
		s.logger.Debug(context.Background(), "code session unmounted", "session", key)
	}
}

func (s *sessionStore) Mount() (string, *CodeSession) {
	id := uuid.NewString()
	opts := s.cfg.Code
	opts.Logger = s.logger.With("session", id)
	session := NewCodeSession(opts)
	session.Start()

	limit := rate.Inf
	if s.cfg.RegenerateRate > 0 {
		limit = rate.Limit(s.cfg.RegenerateRate)
	}
	burst := s.cfg.RegenerateBurst
	if burst <= 0 {
		burst = 1
	}
	entry := &sessionEntry{
		session: session,
		limiter: rate.NewLimiter(limit, burst),
	}
	entry.touch(time.Now())
	s.sessionCache.Add(id, entry)
	s.logger.Debug(context.Background(), "code session mounted", "session", id)
	return id, session
}

func (s *sessionStore) entry(id string) (*sessionEntry, bool) {
	if value, ok := s.sessionCache.Get(id); ok {
		if entry, ok := value.(*sessionEntry); ok {
			return entry, true
		}
	}
	return nil, false
}

func (s *sessionStore) Get(id string) (*CodeSession, bool) {
	entry, ok := s.entry(id)
	if !ok {
		return nil, false
	}
	entry.touch(time.Now())
	return entry.session, true
}

func (s *sessionStore) Unmount(id string) bool {
	return s.sessionCache.Remove(id)
}

// AllowRegenerate rate limits user-triggered regeneration; the countdown
// itself is never limited.
func (s *sessionStore) AllowRegenerate(id string) bool {
	entry, ok := s.entry(id)
	if !ok {
		return false
	}
	return entry.limiter.Allow()
}

// Sweep unmounts sessions nobody touched within the idle timeout. A session
// with an open subscription is on screen and counts as touched.
func (s *sessionStore) Sweep(now time.Time) int {
	if s.cfg.IdleTimeout <= 0 {
		return 0
	}
	deadline := now.Add(-s.cfg.IdleTimeout).UnixMilli()
	removed := 0
	for _, key := range s.sessionCache.Keys() {
		value, ok := s.sessionCache.Peek(key)
		if !ok {
			continue
		}
		entry, ok := value.(*sessionEntry)
		if !ok {
			continue
		}
		if entry.session.Subscribers() > 0 {
			entry.touch(now)
			continue
		}
		if entry.lastSeen.Load() < deadline && s.sessionCache.Remove(key) {
			removed++
		}
	}
	return removed
}

// Run sweeps idle sessions until ctx is done.
func (s *sessionStore) Run(ctx context.Context) error {
	if s.cfg.IdleTimeout <= 0 || s.cfg.SweepInterval <= 0 {
		<-ctx.Done()
		return nil
	}
	ticker := time.NewTicker(s.cfg.SweepInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case now := <-ticker.C:
			if n := s.Sweep(now); n > 0 {
				s.logger.Info(ctx, "swept idle code sessions", "count", n)
			}
		}
	}
}

func (s *sessionStore) Len() int {
	return s.sessionCache.Len()
}

func (s *sessionStore) Close() {
	s.sessionCache.Purge()
}
