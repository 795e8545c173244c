package services

import (
	"context"

	"github.com/Gerrylewin/shopguide-blog/internal/domain/newsletter"
	"github.com/Gerrylewin/shopguide-blog/internal/infrastructure/observability/logging"
	"github.com/Gerrylewin/shopguide-blog/pkg/config"
)

// BackendReporter is implemented by the chain store to expose which
// subscriber backends were wired at startup.
type BackendReporter interface {
	Backends() []string
}

// ConfigService produces the debug/status report. It reports presence of
// secrets only, never their values.
type ConfigService struct {
	cfg    *config.Config
	store  newsletter.SubscriberStore
	logger *logging.ChanneledLogger
}

// NewConfigService creates the config reporter.
func NewConfigService(cfg *config.Config, store newsletter.SubscriberStore, logger *logging.ChanneledLogger) *ConfigService {
	return &ConfigService{cfg: cfg, store: store, logger: logger}
}

// StatusReport is the diagnostic payload for the debug endpoint.
type StatusReport struct {
	SiteURL         string          `json:"siteUrl"`
	Environment     EnvironmentInfo `json:"environment"`
	Storage         StorageInfo     `json:"storage"`
	Email           EmailInfo       `json:"email"`
	WebhookTargets  int             `json:"webhookTargets"`
	AdminConfigured bool            `json:"adminConfigured"`
	SubscriberCount int             `json:"subscriberCount"`
	SubscriberError string          `json:"subscriberError,omitempty"`
}

// EnvironmentInfo describes hosting traits relevant to persistence.
type EnvironmentInfo struct {
	ReadOnlyFS bool `json:"readOnlyFs"`
}

// StorageInfo describes which subscriber backends are configured and which
// one is actually serving writes.
type StorageInfo struct {
	ActiveBackend string   `json:"activeBackend"`
	Chain         []string `json:"chain"`
	Turso         string   `json:"turso"`
	SQLite        string   `json:"sqlite"`
	Mongo         string   `json:"mongo"`
	Redis         string   `json:"redis"`
}

// EmailInfo describes the dispatch configuration.
type EmailInfo struct {
	Configured bool   `json:"configured"`
	APIKey     string `json:"apiKey"`
	From       string `json:"from"`
}

func presence(set bool) string {
	if set {
		return "Set (hidden)"
	}
	return "Not set"
}

// Status assembles the report. Subscriber counting is best-effort: a
// storage failure is reported inline rather than failing the endpoint.
func (s *ConfigService) Status(ctx context.Context) *StatusReport {
	report := &StatusReport{
		SiteURL: s.cfg.SiteURL,
		Environment: EnvironmentInfo{
			ReadOnlyFS: s.cfg.ReadOnlyFS,
		},
		Storage: StorageInfo{
			ActiveBackend: s.store.Name(),
			Turso:         presence(s.cfg.TursoConfigured()),
			SQLite:        presence(s.cfg.SQLiteConfigured()),
			Mongo:         presence(s.cfg.MongoConfigured()),
			Redis:         presence(s.cfg.RedisConfigured()),
		},
		Email: EmailInfo{
			Configured: s.cfg.EmailConfigured(),
			APIKey:     presence(s.cfg.EmailConfigured()),
			From:       s.cfg.EmailFrom,
		},
		WebhookTargets:  len(s.cfg.WebhookURLs),
		AdminConfigured: s.cfg.AdminPasswordHash != "" && s.cfg.JWTSecret != "",
	}

	if reporter, ok := s.store.(BackendReporter); ok {
		report.Storage.Chain = reporter.Backends()
	}

	subs, err := s.store.GetAll(ctx)
	if err != nil {
		s.logger.Debug().Warn("Subscriber count unavailable for status report", "error", err.Error())
		report.SubscriberError = err.Error()
	} else {
		report.SubscriberCount = len(subs)
	}

	return report
}
