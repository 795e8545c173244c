// Package services contains the application service layer: stateless
// singletons orchestrating storage, email dispatch, tracking, and auth.
package services

import (
	"context"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/Gerrylewin/shopguide-blog/internal/domain/newsletter"
	"github.com/Gerrylewin/shopguide-blog/internal/infrastructure/observability/logging"
)

// SubscriptionNotifier mirrors subscription attempts to external systems.
type SubscriptionNotifier interface {
	Notify(email string, success bool)
}

// SubscriberService owns the subscriber lifecycle.
type SubscriberService struct {
	store    newsletter.SubscriberStore
	notifier SubscriptionNotifier
	logger   *logging.ChanneledLogger
}

// NewSubscriberService creates the subscriber service.
func NewSubscriberService(store newsletter.SubscriberStore, notifier SubscriptionNotifier, logger *logging.ChanneledLogger) *SubscriberService {
	return &SubscriberService{store: store, notifier: notifier, logger: logger}
}

// ErrInvalidEmail rejects malformed subscription requests.
var ErrInvalidEmail = fmt.Errorf("valid email is required")

// Subscribe adds a new subscriber. It returns false without error on a
// duplicate. Every attempt, duplicate or not, is mirrored to the webhook
// relay without blocking the caller.
func (s *SubscriberService) Subscribe(ctx context.Context, email string) (bool, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if _, err := mail.ParseAddress(email); err != nil {
		return false, ErrInvalidEmail
	}

	start := time.Now()
	added, err := s.store.Add(ctx, email)
	if err != nil {
		s.logger.Newsletter().Error("Subscription failed", "email", email, "error", err.Error())
		return false, err
	}

	if added {
		s.logger.Newsletter().Info("Subscriber added", "email", email, "duration", time.Since(start))
	} else {
		s.logger.Newsletter().Info("Duplicate subscription attempt", "email", email)
	}

	if s.notifier != nil {
		s.notifier.Notify(email, added)
	}
	return added, nil
}

// Unsubscribe removes a subscriber, returning false when not found.
func (s *SubscriberService) Unsubscribe(ctx context.Context, email string) (bool, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return false, ErrInvalidEmail
	}

	removed, err := s.store.Remove(ctx, email)
	if err != nil {
		s.logger.Newsletter().Error("Unsubscribe failed", "email", email, "error", err.Error())
		return false, err
	}
	if removed {
		s.logger.Newsletter().Info("Subscriber removed", "email", email)
	}
	return removed, nil
}

// List returns all subscribers, newest first.
func (s *SubscriberService) List(ctx context.Context) ([]newsletter.Subscriber, error) {
	return s.store.GetAll(ctx)
}
