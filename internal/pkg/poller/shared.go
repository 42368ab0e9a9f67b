package poller

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// Shared collapses concurrent fetches of the same resource into one upstream
// request and serves successful bodies from memory for ttl. It backs the
// pass-through routes.
type Shared struct {
	ttl   time.Duration
	now   func() time.Time
	group singleflight.Group

	mu    sync.Mutex
	cache map[string]cached
}

type cached struct {
	body []byte
	at   time.Time
}

// NewShared returns a Shared; ttl <= 0 disables caching.
func NewShared(ttl time.Duration) *Shared {
	return &Shared{ttl: ttl, now: time.Now, cache: make(map[string]cached)}
}

// Fetch returns a fresh cached body for key, or runs fn, joining an identical
// in-flight call when there is one.
func (s *Shared) Fetch(ctx context.Context, key string, fn Fetcher) ([]byte, error) {
	if body, ok := s.lookup(key); ok {
		return body, nil
	}
	ch := s.group.DoChan(key, func() (any, error) {
		body, err := fn(context.WithoutCancel(ctx))
		if err != nil {
			return nil, err
		}
		s.store(key, body)
		return body, nil
	})
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.([]byte), nil
	}
}

func (s *Shared) lookup(key string) ([]byte, bool) {
	if s.ttl <= 0 {
		return nil, false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.cache[key]
	if !ok {
		return nil, false
	}
	if s.now().Sub(c.at) >= s.ttl {
		delete(s.cache, key)
		return nil, false
	}
	return c.body, true
}

func (s *Shared) store(key string, body []byte) {
	if s.ttl <= 0 {
		return
	}
	now := s.now()
	s.mu.Lock()
	defer s.mu.Unlock()
	// Keys can come from request paths; drop everything expired so the map
	// only ever holds entries younger than ttl.
	for k, c := range s.cache {
		if now.Sub(c.at) >= s.ttl {
			delete(s.cache, k)
		}
	}
	s.cache[key] = cached{body: body, at: now}
}

// Len reports how many bodies are currently held.
func (s *Shared) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.cache)
}
