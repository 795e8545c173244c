package subscribers

import (
	"context"
	"fmt"

	"github.com/Gerrylewin/shopguide-blog/internal/domain/newsletter"
	"github.com/Gerrylewin/shopguide-blog/internal/infrastructure/observability/logging"
)

// ChainStore composes backends in priority order. Reads fall through to the
// next backend on failure; writes go to the primary (first) backend only.
type ChainStore struct {
	backends []newsletter.SubscriberStore
	logger   *logging.ChanneledLogger
}

// NewChainStore wraps the given backends. The slice must be non-empty and
// is ordered highest priority first.
func NewChainStore(backends []newsletter.SubscriberStore, logger *logging.ChanneledLogger) *ChainStore {
	return &ChainStore{backends: backends, logger: logger}
}

// Name reports the primary backend.
func (s *ChainStore) Name() string {
	if len(s.backends) == 0 {
		return "none"
	}
	return s.backends[0].Name()
}

// Backends lists the configured backend names in priority order.
func (s *ChainStore) Backends() []string {
	names := make([]string, 0, len(s.backends))
	for _, b := range s.backends {
		names = append(names, b.Name())
	}
	return names
}

// GetAll tries each backend in order and returns the first successful read.
func (s *ChainStore) GetAll(ctx context.Context) ([]newsletter.Subscriber, error) {
	var lastErr error
	for _, backend := range s.backends {
		subs, err := backend.GetAll(ctx)
		if err != nil {
			s.logger.Database().Warn("Subscriber read failed, falling through",
				"backend", backend.Name(), "error", err.Error())
			lastErr = err
			continue
		}
		return subs, nil
	}
	if lastErr == nil {
		lastErr = fmt.Errorf("no subscriber backend configured")
	}
	return nil, lastErr
}

// Add writes to the primary backend.
func (s *ChainStore) Add(ctx context.Context, email string) (bool, error) {
	if len(s.backends) == 0 {
		return false, fmt.Errorf("no subscriber backend configured")
	}
	return s.backends[0].Add(ctx, email)
}

// Remove deletes from the primary backend.
func (s *ChainStore) Remove(ctx context.Context, email string) (bool, error) {
	if len(s.backends) == 0 {
		return false, fmt.Errorf("no subscriber backend configured")
	}
	return s.backends[0].Remove(ctx, email)
}
