// Package tracking provides the flat-file stores for per-send open/click
// tracking records and the sent-post ledger.
package tracking

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/Gerrylewin/shopguide-blog/internal/domain/newsletter"
	"github.com/Gerrylewin/shopguide-blog/internal/infrastructure/observability/logging"
)

// FileStore keeps all tracking records in one JSON file, read fully,
// mutated in memory, and rewritten fully on each write. A process-local
// mutex serializes writers; cross-process races remain an accepted hazard.
type FileStore struct {
	path   string
	logger *logging.ChanneledLogger
	mu     sync.Mutex
}

// NewFileStore creates a tracking store backed by the given JSON file.
func NewFileStore(path string, logger *logging.ChanneledLogger) *FileStore {
	return &FileStore{path: path, logger: logger}
}

// CreateRecord appends a fresh tracking record before any email goes out.
func (s *FileStore) CreateRecord(ctx context.Context, emailID, postSlug, postTitle string, sentTo int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.load()
	if err != nil {
		return err
	}

	records = append(records, newsletter.TrackingRecord{
		EmailID:   emailID,
		PostSlug:  postSlug,
		PostTitle: postTitle,
		SentAt:    time.Now().UTC(),
		SentTo:    sentTo,
		Opens:     []newsletter.OpenEvent{},
		Clicks:    []newsletter.ClickEvent{},
	})

	if err := s.save(records); err != nil {
		return err
	}
	s.logger.Tracking().Info("Tracking record created", "emailId", emailID, "postSlug", postSlug, "sentTo", sentTo)
	return nil
}

// RecordOpen appends an open event unless this email already opened this
// send. An unknown emailId is logged and dropped so the pixel is always
// served.
func (s *FileStore) RecordOpen(ctx context.Context, emailID, email, ip, userAgent string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.load()
	if err != nil {
		return err
	}

	idx := findRecord(records, emailID)
	if idx < 0 {
		s.logger.Tracking().Warn("Tracking record not found for open", "emailId", emailID)
		return nil
	}

	for _, open := range records[idx].Opens {
		if strings.EqualFold(open.Email, email) {
			return nil
		}
	}

	records[idx].Opens = append(records[idx].Opens, newsletter.OpenEvent{
		Email:     email,
		OpenedAt:  time.Now().UTC(),
		IP:        ip,
		UserAgent: userAgent,
	})

	if err := s.save(records); err != nil {
		return err
	}
	s.logger.Tracking().Info("Open recorded", "emailId", emailID, "email", email)
	return nil
}

// RecordClick appends a click event; repeat clicks all land. An unknown
// emailId is logged and dropped so the redirect is always served.
func (s *FileStore) RecordClick(ctx context.Context, emailID, email, url, ip, userAgent string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.load()
	if err != nil {
		return err
	}

	idx := findRecord(records, emailID)
	if idx < 0 {
		s.logger.Tracking().Warn("Tracking record not found for click", "emailId", emailID)
		return nil
	}

	records[idx].Clicks = append(records[idx].Clicks, newsletter.ClickEvent{
		Email:     email,
		ClickedAt: time.Now().UTC(),
		URL:       url,
		IP:        ip,
		UserAgent: userAgent,
	})

	if err := s.save(records); err != nil {
		return err
	}
	s.logger.Tracking().Info("Click recorded", "emailId", emailID, "email", email, "url", url)
	return nil
}

// GetRecord returns one tracking record, or nil when the id is unknown.
func (s *FileStore) GetRecord(ctx context.Context, emailID string) (*newsletter.TrackingRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.load()
	if err != nil {
		return nil, err
	}
	if idx := findRecord(records, emailID); idx >= 0 {
		record := records[idx]
		return &record, nil
	}
	return nil, nil
}

// ListRecords returns every tracking record in creation order.
func (s *FileStore) ListRecords(ctx context.Context) ([]newsletter.TrackingRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}

func (s *FileStore) load() ([]newsletter.TrackingRecord, error) {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return []newsletter.TrackingRecord{}, nil
		}
		return nil, err
	}
	if len(strings.TrimSpace(string(raw))) == 0 {
		return []newsletter.TrackingRecord{}, nil
	}

	var records []newsletter.TrackingRecord
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, err
	}
	return records, nil
}

func (s *FileStore) save(records []newsletter.TrackingRecord) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return err
	}
	raw, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, raw, 0644)
}

func findRecord(records []newsletter.TrackingRecord, emailID string) int {
	for i := range records {
		if records[i].EmailID == emailID {
			return i
		}
	}
	return -1
}
