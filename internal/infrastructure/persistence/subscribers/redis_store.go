package subscribers

import (
	"context"
	"strings"
	"time"

	"github.com/Gerrylewin/shopguide-blog/internal/domain/newsletter"
	"github.com/Gerrylewin/shopguide-blog/internal/infrastructure/observability/logging"
	"github.com/redis/go-redis/v9"
)

// subscribersKey is the Redis hash holding email -> subscribedAt (RFC3339).
const subscribersKey = "newsletter:subscribers"

// RedisStore is the key-value subscriber backend.
type RedisStore struct {
	client *redis.Client
	logger *logging.ChanneledLogger
}

// NewRedisStore connects to the configured Redis instance and verifies it
// answers before handing the store out.
func NewRedisStore(ctx context.Context, connectionURL string, logger *logging.ChanneledLogger) (*RedisStore, error) {
	opt, err := redis.ParseURL(connectionURL)
	if err != nil {
		return nil, err
	}

	client := redis.NewClient(opt)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}

	return &RedisStore{client: client, logger: logger}, nil
}

func (s *RedisStore) Name() string { return "redis" }

// GetAll returns every subscriber, newest first.
func (s *RedisStore) GetAll(ctx context.Context) ([]newsletter.Subscriber, error) {
	entries, err := s.client.HGetAll(ctx, subscribersKey).Result()
	if err != nil {
		s.logger.Database().Error("Failed to load subscribers", "error", err.Error(), "backend", s.Name())
		return nil, err
	}

	subs := make([]newsletter.Subscriber, 0, len(entries))
	for email, subscribedAt := range entries {
		ts, err := time.Parse(time.RFC3339, subscribedAt)
		if err != nil {
			s.logger.Database().Warn("Skipping subscriber with bad timestamp", "email", email, "value", subscribedAt)
			continue
		}
		subs = append(subs, newsletter.Subscriber{Email: email, SubscribedAt: ts})
	}
	sortSubscribersNewestFirst(subs)
	return subs, nil
}

// Add stores a subscriber, returning false when it already exists. HSetNX
// gives the duplicate check and the write in one round trip.
func (s *RedisStore) Add(ctx context.Context, email string) (bool, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	added, err := s.client.HSetNX(ctx, subscribersKey, email, time.Now().UTC().Format(time.RFC3339)).Result()
	if err != nil {
		s.logger.Database().Error("Subscriber insert failed", "error", err.Error(), "email", email, "backend", s.Name())
		return false, err
	}
	if !added {
		s.logger.Database().Debug("Subscriber already exists", "email", email, "backend", s.Name())
		return false, nil
	}
	s.logger.Database().Info("Subscriber insert completed", "email", email, "backend", s.Name())
	return true, nil
}

// Remove deletes a subscriber, returning false when it was not present.
func (s *RedisStore) Remove(ctx context.Context, email string) (bool, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	removed, err := s.client.HDel(ctx, subscribersKey, email).Result()
	if err != nil {
		s.logger.Database().Error("Subscriber delete failed", "error", err.Error(), "email", email, "backend", s.Name())
		return false, err
	}
	if removed == 0 {
		return false, nil
	}
	s.logger.Database().Info("Subscriber removed", "email", email, "backend", s.Name())
	return true, nil
}

// Close releases the Redis connection.
func (s *RedisStore) Close() error {
	return s.client.Close()
}
