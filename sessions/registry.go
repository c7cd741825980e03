package sessions

import (
	"context"
	"errors"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
)

var (
	// ErrSessionActive is returned when starting a session for a key that
	// already has a live one.
	ErrSessionActive = errors.New("a session is already in progress")

	// ErrNoActiveSession is returned when acting on a key with no live
	// session, including one that just expired.
	ErrNoActiveSession = errors.New("no active session")
)

// ExpireFunc is invoked when a session is evicted for idleness. It runs
// while the session's lock is held, so no concurrent action can observe
// the session mid-eviction.
type ExpireFunc[K comparable, T any] func(key K, session *T)

type entry[T any] struct {
	mu       sync.Mutex
	val      *T
	lastUsed time.Time
	gone     bool
}

// Registry holds at most one live session per key and serializes all work
// against a given session. Idle sessions are evicted after a TTL, either
// lazily on the next access or by the janitor.
type Registry[K comparable, T any] struct {
	mu       sync.RWMutex
	entries  map[K]*entry[T]
	ttl      time.Duration
	onExpire ExpireFunc[K, T]
}

// NewRegistry creates a registry with the given idle TTL. onExpire may be
// nil when eviction needs no side effects.
func NewRegistry[K comparable, T any](ttl time.Duration, onExpire ExpireFunc[K, T]) *Registry[K, T] {
	return &Registry[K, T]{
		entries:  make(map[K]*entry[T]),
		ttl:      ttl,
		onExpire: onExpire,
	}
}

// Start registers a new session for key, built by init inside the session's
// critical section so concurrent actions on the same key cannot observe a
// half-created session. Fails with ErrSessionActive if a live session already
// exists; an idle-expired one is evicted first. init may return (nil, nil) to
// signal the game resolved immediately and no session should be kept.
func (r *Registry[K, T]) Start(key K, init func() (*T, error)) error {
	r.expireIfStale(key, time.Now())

	r.mu.Lock()
	if _, ok := r.entries[key]; ok {
		r.mu.Unlock()
		return ErrSessionActive
	}
	e := &entry[T]{lastUsed: time.Now()}
	e.mu.Lock()
	r.entries[key] = e
	r.mu.Unlock()
	defer e.mu.Unlock()

	val, err := init()
	if err != nil || val == nil {
		e.gone = true
		r.mu.Lock()
		delete(r.entries, key)
		r.mu.Unlock()
		return err
	}
	e.val = val
	e.lastUsed = time.Now()
	return nil
}

// Do runs fn against the session for key, holding the session's lock for
// the whole call so interleaved actions cannot corrupt game state. When fn
// reports done the session is removed. fn's error is passed through.
func (r *Registry[K, T]) Do(key K, fn func(session *T) (done bool, err error)) error {
	now := time.Now()
	r.mu.RLock()
	e := r.entries[key]
	r.mu.RUnlock()
	if e == nil {
		return ErrNoActiveSession
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.gone {
		return ErrNoActiveSession
	}
	if r.ttl > 0 && now.Sub(e.lastUsed) > r.ttl {
		r.evictLocked(key, e)
		return ErrNoActiveSession
	}

	done, err := fn(e.val)
	e.lastUsed = time.Now()
	if done {
		e.gone = true
		r.mu.Lock()
		delete(r.entries, key)
		r.mu.Unlock()
	}
	return err
}

// Peek returns a snapshot pointer to the live session for key, or nil.
// Callers must not mutate game state through it; use Do for that.
func (r *Registry[K, T]) Peek(key K) *T {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if e, ok := r.entries[key]; ok && !e.gone {
		return e.val
	}
	return nil
}

// Len reports the number of live sessions.
func (r *Registry[K, T]) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}

// StartJanitor sweeps idle sessions in the background until ctx is done.
func (r *Registry[K, T]) StartJanitor(ctx context.Context, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				r.sweep(time.Now())
			}
		}
	}()
}

func (r *Registry[K, T]) sweep(now time.Time) {
	r.mu.RLock()
	keys := make([]K, 0, len(r.entries))
	for k := range r.entries {
		keys = append(keys, k)
	}
	r.mu.RUnlock()

	for _, k := range keys {
		r.expireIfStale(k, now)
	}
}

func (r *Registry[K, T]) expireIfStale(key K, now time.Time) {
	if r.ttl <= 0 {
		return
	}
	r.mu.RLock()
	e := r.entries[key]
	r.mu.RUnlock()
	if e == nil {
		return
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.gone || now.Sub(e.lastUsed) <= r.ttl {
		return
	}
	r.evictLocked(key, e)
}

// evictLocked removes the entry and fires the expiry hook. The entry's
// lock must be held.
func (r *Registry[K, T]) evictLocked(key K, e *entry[T]) {
	e.gone = true
	r.mu.Lock()
	delete(r.entries, key)
	r.mu.Unlock()

	log.WithField("sessionKey", key).Debug("Evicting idle session")
	if r.onExpire != nil {
		r.onExpire(key, e.val)
	}
}
