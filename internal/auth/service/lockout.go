package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// AttemptStore counts failed login attempts per login identifier within a
// rolling window. Implementations must be safe for concurrent use.
type AttemptStore interface {
	// RecordFailure increments the failure count for key and returns the new
	// count. The count expires after window.
	RecordFailure(ctx context.Context, key string, window time.Duration) (int, error)
	// Reset clears the failure count for key.
	Reset(ctx context.Context, key string) error
	// Failures returns the current failure count for key.
	Failures(ctx context.Context, key string) (int, error)
}

// Lockout rejects logins for an identifier once it has accumulated too many
// failures inside the window. It throttles online guessing; it does not try
// to be a full account-lock feature.
type Lockout struct {
	store       AttemptStore
	maxAttempts int
	window      time.Duration
}

func NewLockout(store AttemptStore, maxAttempts int, window time.Duration) *Lockout {
	return &Lockout{store: store, maxAttempts: maxAttempts, window: window}
}

// Blocked reports whether the identifier is currently locked out.
func (l *Lockout) Blocked(ctx context.Context, identifier string) (bool, error) {
	count, err := l.store.Failures(ctx, lockoutKey(identifier))
	if err != nil {
		return false, err
	}
	return count >= l.maxAttempts, nil
}

// RecordFailure counts a failed credential check.
func (l *Lockout) RecordFailure(ctx context.Context, identifier string) error {
	_, err := l.store.RecordFailure(ctx, lockoutKey(identifier), l.window)
	return err
}

// RecordSuccess clears the counter after a successful login.
func (l *Lockout) RecordSuccess(ctx context.Context, identifier string) error {
	return l.store.Reset(ctx, lockoutKey(identifier))
}

func lockoutKey(identifier string) string {
	return "login_attempts:" + strings.ToLower(identifier)
}

// InMemoryAttemptStore is the single-process fallback when Redis is not
// configured.
type InMemoryAttemptStore struct {
	mu       sync.Mutex
	attempts map[string]attemptWindow
}

type attemptWindow struct {
	count     int
	expiresAt time.Time
}

func NewInMemoryAttemptStore() *InMemoryAttemptStore {
	return &InMemoryAttemptStore{attempts: make(map[string]attemptWindow)}
}

func (s *InMemoryAttemptStore) RecordFailure(_ context.Context, key string, window time.Duration) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	entry := s.attempts[key]
	if now.After(entry.expiresAt) {
		entry = attemptWindow{expiresAt: now.Add(window)}
	}
	entry.count++
	s.attempts[key] = entry
	return entry.count, nil
}

func (s *InMemoryAttemptStore) Reset(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.attempts, key)
	return nil
}

func (s *InMemoryAttemptStore) Failures(_ context.Context, key string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.attempts[key]
	if !ok || time.Now().After(entry.expiresAt) {
		return 0, nil
	}
	return entry.count, nil
}

// RedisAttemptStore shares the counter across instances.
type RedisAttemptStore struct {
	client *redis.Client
}

func NewRedisAttemptStore(client *redis.Client) *RedisAttemptStore {
	return &RedisAttemptStore{client: client}
}

func (s *RedisAttemptStore) RecordFailure(ctx context.Context, key string, window time.Duration) (int, error) {
	pipe := s.client.TxPipeline()
	incr := pipe.Incr(ctx, key)
	pipe.Expire(ctx, key, window)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, fmt.Errorf("record login failure: %w", err)
	}
	return int(incr.Val()), nil
}

func (s *RedisAttemptStore) Reset(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("reset login failures: %w", err)
	}
	return nil
}

func (s *RedisAttemptStore) Failures(ctx context.Context, key string) (int, error) {
	count, err := s.client.Get(ctx, key).Int()
	if err == redis.Nil {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("read login failures: %w", err)
	}
	return count, nil
}
