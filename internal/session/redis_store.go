package session

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

const sessionKeyPrefix = "session:"

// RedisStore persists sessions as JSON values with a TTL, so dialogue state
// survives process restarts and can be shared across instances.
type RedisStore struct {
	redis  *redis.Client
	ttl    time.Duration
	tracer trace.Tracer
}

// NewRedisStore builds a store around the provided Redis client.
func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	if client == nil {
		panic("session: redis client cannot be nil")
	}
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &RedisStore{
		redis:  client,
		ttl:    ttl,
		tracer: otel.Tracer("supportbot.internal.session"),
	}
}

// GetOrCreate loads the customer's session, creating one at the welcome step
// if no key exists. An existing display name is never overwritten.
func (r *RedisStore) GetOrCreate(ctx context.Context, customerID, displayNameHint string) (*Session, error) {
	ctx, span := r.tracer.Start(ctx, "session.get_or_create")
	defer span.End()

	data, err := r.redis.Get(ctx, sessionKey(customerID)).Bytes()
	if err == redis.Nil {
		s := New(customerID, displayNameHint)
		if err := r.Save(ctx, s); err != nil {
			span.RecordError(err)
			return nil, err
		}
		return s, nil
	}
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("session: failed to load session: %w", err)
	}

	var s Session
	if err := json.Unmarshal(data, &s); err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("session: failed to decode session: %w", err)
	}
	return &s, nil
}

// Save upserts the session and refreshes its TTL.
func (r *RedisStore) Save(ctx context.Context, s *Session) error {
	ctx, span := r.tracer.Start(ctx, "session.save")
	defer span.End()

	data, err := json.Marshal(s)
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("session: failed to marshal session: %w", err)
	}
	if err := r.redis.Set(ctx, sessionKey(s.CustomerID), data, r.ttl).Err(); err != nil {
		span.RecordError(err)
		return fmt.Errorf("session: failed to persist session: %w", err)
	}
	return nil
}

// Count scans for session keys. It is approximate under concurrent writes and
// used only by the health endpoint.
func (r *RedisStore) Count(ctx context.Context) (int64, error) {
	ctx, span := r.tracer.Start(ctx, "session.count")
	defer span.End()

	var total int64
	var cursor uint64
	for {
		keys, next, err := r.redis.Scan(ctx, cursor, sessionKeyPrefix+"*", 200).Result()
		if err != nil {
			span.RecordError(err)
			return 0, fmt.Errorf("session: failed to scan sessions: %w", err)
		}
		total += int64(len(keys))
		cursor = next
		if cursor == 0 {
			return total, nil
		}
	}
}

func sessionKey(customerID string) string {
	return sessionKeyPrefix + customerID
}
