package newsletter

import "context"

// SubscriberStore persists newsletter subscribers. Implementations exist
// for Turso/sqlite, Mongo, Redis, and a local JSON file; a chain store
// composes them in priority order.
type SubscriberStore interface {
	// GetAll returns every subscriber, newest first.
	GetAll(ctx context.Context) ([]Subscriber, error)
	// Add stores a new subscriber. It returns false without error when the
	// email (case-insensitive) is already subscribed.
	Add(ctx context.Context, email string) (bool, error)
	// Remove deletes a subscriber. It returns false without error when the
	// email is not subscribed.
	Remove(ctx context.Context, email string) (bool, error)
	// Name identifies the backend for the debug surface.
	Name() string
}

// TrackingStore persists per-send open/click tracking records.
type TrackingStore interface {
	CreateRecord(ctx context.Context, emailID, postSlug, postTitle string, sentTo int) error
	// RecordOpen is idempotent per (emailID, email); unknown ids are a
	// logged no-op so pixel delivery is never blocked.
	RecordOpen(ctx context.Context, emailID, email, ip, userAgent string) error
	// RecordClick is never de-duplicated; unknown ids are a logged no-op.
	RecordClick(ctx context.Context, emailID, email, url, ip, userAgent string) error
	GetRecord(ctx context.Context, emailID string) (*TrackingRecord, error)
	ListRecords(ctx context.Context) ([]TrackingRecord, error)
}

// SentPostLedger remembers which posts already triggered an automatic send.
type SentPostLedger interface {
	GetSentPosts(ctx context.Context) ([]SentPostMarker, error)
	MarkPostAsSent(ctx context.Context, post Post) error
}
