package subscribers

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/Gerrylewin/shopguide-blog/internal/domain/newsletter"
	"github.com/Gerrylewin/shopguide-blog/internal/infrastructure/observability/logging"
	"github.com/Gerrylewin/shopguide-blog/pkg/config"
)

// FileStore is the last-resort subscriber backend: a JSON array on local
// disk, read fully and rewritten fully on each write. On read-only hosting
// (Config.ReadOnlyFS) writes are best-effort: failures are logged and
// reported as success so the user-facing subscribe flow never blocks.
type FileStore struct {
	path       string
	readOnlyFS bool
	logger     *logging.ChanneledLogger

	// mu serializes in-process writers. Cross-process races on the file
	// remain an accepted hazard.
	mu sync.Mutex
}

// NewFileStore creates a JSON-file subscriber store at cfg.SubscribersFile.
func NewFileStore(cfg *config.Config, logger *logging.ChanneledLogger) *FileStore {
	return &FileStore{
		path:       cfg.SubscribersFile,
		readOnlyFS: cfg.ReadOnlyFS,
		logger:     logger,
	}
}

func (s *FileStore) Name() string { return "file" }

// GetAll returns every subscriber, newest first. A missing file is an
// empty list, not an error.
func (s *FileStore) GetAll(ctx context.Context) ([]newsletter.Subscriber, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}

// Add appends a subscriber, returning false on a case-insensitive
// duplicate.
func (s *FileStore) Add(ctx context.Context, email string) (bool, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	s.mu.Lock()
	defer s.mu.Unlock()

	subs, err := s.load()
	if err != nil {
		return false, err
	}
	for _, sub := range subs {
		if strings.EqualFold(sub.Email, email) {
			s.logger.Database().Debug("Subscriber already exists", "email", email, "backend", s.Name())
			return false, nil
		}
	}

	subs = append(subs, newsletter.Subscriber{Email: email, SubscribedAt: time.Now().UTC()})
	if err := s.save(subs); err != nil {
		if s.readOnlyFS {
			s.logger.Database().Warn("Subscriber write skipped on read-only filesystem", "email", email)
			return true, nil
		}
		return false, err
	}
	s.logger.Database().Info("Subscriber insert completed", "email", email, "backend", s.Name())
	return true, nil
}

// Remove deletes a subscriber, returning false when not present.
func (s *FileStore) Remove(ctx context.Context, email string) (bool, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	s.mu.Lock()
	defer s.mu.Unlock()

	subs, err := s.load()
	if err != nil {
		return false, err
	}

	kept := subs[:0]
	found := false
	for _, sub := range subs {
		if strings.EqualFold(sub.Email, email) {
			found = true
			continue
		}
		kept = append(kept, sub)
	}
	if !found {
		return false, nil
	}

	if err := s.save(kept); err != nil {
		if s.readOnlyFS {
			s.logger.Database().Warn("Subscriber removal skipped on read-only filesystem", "email", email)
			return true, nil
		}
		return false, err
	}
	s.logger.Database().Info("Subscriber removed", "email", email, "backend", s.Name())
	return true, nil
}

func (s *FileStore) load() ([]newsletter.Subscriber, error) {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return []newsletter.Subscriber{}, nil
		}
		return nil, err
	}

	var subs []newsletter.Subscriber
	if len(strings.TrimSpace(string(raw))) == 0 {
		return []newsletter.Subscriber{}, nil
	}
	if err := json.Unmarshal(raw, &subs); err != nil {
		return nil, err
	}
	sortSubscribersNewestFirst(subs)
	return subs, nil
}

func (s *FileStore) save(subs []newsletter.Subscriber) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return err
	}
	raw, err := json.MarshalIndent(subs, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, raw, 0644)
}

func sortSubscribersNewestFirst(subs []newsletter.Subscriber) {
	sort.Slice(subs, func(i, j int) bool {
		return subs[i].SubscribedAt.After(subs[j].SubscribedAt)
	})
}
