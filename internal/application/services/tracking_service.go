package services

import (
	"context"

	"github.com/Gerrylewin/shopguide-blog/internal/domain/newsletter"
	"github.com/Gerrylewin/shopguide-blog/internal/infrastructure/observability/logging"
)

// TrackingService records open/click events and aggregates engagement for
// the admin dashboard.
type TrackingService struct {
	store  newsletter.TrackingStore
	logger *logging.ChanneledLogger
}

// NewTrackingService creates the tracking service.
func NewTrackingService(store newsletter.TrackingStore, logger *logging.ChanneledLogger) *TrackingService {
	return &TrackingService{store: store, logger: logger}
}

// RecordOpen registers an email open. Failures are logged and swallowed:
// the pixel must be served regardless.
func (s *TrackingService) RecordOpen(ctx context.Context, emailID, recipient, ip, userAgent string) {
	if err := s.store.RecordOpen(ctx, emailID, recipient, ip, userAgent); err != nil {
		s.logger.Tracking().Error("Failed to record open", "emailId", emailID, "email", recipient, "error", err.Error())
	}
}

// RecordClick registers a link click. Failures are logged and swallowed:
// the redirect must be served regardless.
func (s *TrackingService) RecordClick(ctx context.Context, emailID, recipient, linkURL, ip, userAgent string) {
	if err := s.store.RecordClick(ctx, emailID, recipient, linkURL, ip, userAgent); err != nil {
		s.logger.Tracking().Error("Failed to record click", "emailId", emailID, "email", recipient, "error", err.Error())
	}
}

// GetRecord returns a single tracking record, nil when unknown.
func (s *TrackingService) GetRecord(ctx context.Context, emailID string) (*newsletter.TrackingRecord, error) {
	return s.store.GetRecord(ctx, emailID)
}

// RecordStats is the per-send engagement roll-up for the admin dashboard.
type RecordStats struct {
	EmailID   string  `json:"emailId"`
	PostSlug  string  `json:"postSlug"`
	PostTitle string  `json:"postTitle"`
	SentAt    string  `json:"sentAt"`
	SentTo    int     `json:"sentTo"`
	Opens     int     `json:"opens"`
	Clicks    int     `json:"clicks"`
	OpenRate  float64 `json:"openRate"`
}

// ListWithStats returns every tracking record plus its roll-up.
func (s *TrackingService) ListWithStats(ctx context.Context) ([]newsletter.TrackingRecord, []RecordStats, error) {
	records, err := s.store.ListRecords(ctx)
	if err != nil {
		return nil, nil, err
	}

	stats := make([]RecordStats, 0, len(records))
	for _, record := range records {
		entry := RecordStats{
			EmailID:   record.EmailID,
			PostSlug:  record.PostSlug,
			PostTitle: record.PostTitle,
			SentAt:    record.SentAt.Format("2006-01-02 15:04:05"),
			SentTo:    record.SentTo,
			Opens:     len(record.Opens),
			Clicks:    len(record.Clicks),
		}
		if record.SentTo > 0 {
			entry.OpenRate = float64(len(record.Opens)) / float64(record.SentTo)
		}
		stats = append(stats, entry)
	}
	return records, stats, nil
}
