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

// SentLedger records which posts already triggered an automatic send, as a
// JSON array on disk.
type SentLedger struct {
	path   string
	logger *logging.ChanneledLogger
	mu     sync.Mutex
}

// NewSentLedger creates a ledger backed by the given JSON file.
func NewSentLedger(path string, logger *logging.ChanneledLogger) *SentLedger {
	return &SentLedger{path: path, logger: logger}
}

// GetSentPosts returns the full ledger. A missing or empty file is an
// empty ledger.
func (l *SentLedger) GetSentPosts(ctx context.Context) ([]newsletter.SentPostMarker, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.load()
}

// MarkPostAsSent appends a marker for the post unless one already exists.
func (l *SentLedger) MarkPostAsSent(ctx context.Context, post newsletter.Post) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	markers, err := l.load()
	if err != nil {
		return err
	}
	for _, m := range markers {
		if m.Slug == post.Slug {
			l.logger.Tracking().Debug("Post already marked as sent", "slug", post.Slug)
			return nil
		}
	}

	markers = append(markers, newsletter.SentPostMarker{
		Slug:   post.Slug,
		Title:  post.Title,
		Date:   post.Date,
		SentAt: time.Now().UTC(),
	})

	if err := l.save(markers); err != nil {
		return err
	}
	l.logger.Tracking().Info("Post marked as sent", "slug", post.Slug)
	return nil
}

func (l *SentLedger) load() ([]newsletter.SentPostMarker, error) {
	raw, err := os.ReadFile(l.path)
	if err != nil {
		if os.IsNotExist(err) {
			return []newsletter.SentPostMarker{}, nil
		}
		return nil, err
	}
	if len(strings.TrimSpace(string(raw))) == 0 {
		return []newsletter.SentPostMarker{}, nil
	}

	var markers []newsletter.SentPostMarker
	if err := json.Unmarshal(raw, &markers); err != nil {
		return nil, err
	}
	return markers, nil
}

func (l *SentLedger) save(markers []newsletter.SentPostMarker) error {
	if err := os.MkdirAll(filepath.Dir(l.path), 0755); err != nil {
		return err
	}
	raw, err := json.MarshalIndent(markers, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(l.path, raw, 0644)
}
