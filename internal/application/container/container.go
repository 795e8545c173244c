// Package container provides dependency injection for all singleton services
package container

import (
	"context"

	"github.com/Gerrylewin/shopguide-blog/internal/application/services"
	"github.com/Gerrylewin/shopguide-blog/internal/infrastructure/content"
	"github.com/Gerrylewin/shopguide-blog/internal/infrastructure/email"
	"github.com/Gerrylewin/shopguide-blog/internal/infrastructure/observability/logging"
	"github.com/Gerrylewin/shopguide-blog/internal/infrastructure/persistence/subscribers"
	"github.com/Gerrylewin/shopguide-blog/internal/infrastructure/persistence/tracking"
	"github.com/Gerrylewin/shopguide-blog/internal/infrastructure/webhook"
	"github.com/Gerrylewin/shopguide-blog/pkg/config"
)

// Container holds all singleton services and infrastructure dependencies
type Container struct {
	Config *config.Config
	Logger *logging.ChanneledLogger

	// Infrastructure
	SubscriberStore *subscribers.ChainStore
	TrackingStore   *tracking.FileStore
	SentLedger      *tracking.SentLedger
	WebhookRelay    *webhook.Relay
	ContentLoader   *content.Loader
	EmailService    email.Service // nil when sending is not configured

	// Application services (stateless singletons)
	SubscriberService *services.SubscriberService
	DispatchService   *services.DispatchService
	TrackingService   *services.TrackingService
	PostCheckService  *services.PostCheckService
	AuthService       *services.AuthService
	ConfigService     *services.ConfigService
}

// NewContainer creates and wires all singleton services
func NewContainer(ctx context.Context, cfg *config.Config, logger *logging.ChanneledLogger) *Container {
	subscriberStore := subscribers.NewFromConfig(ctx, cfg, logger)
	trackingStore := tracking.NewFileStore(cfg.TrackingFile, logger)
	sentLedger := tracking.NewSentLedger(cfg.SentPostsFile, logger)
	relay := webhook.NewRelay(cfg, logger)
	loader := content.NewLoader(config.ContentDir, config.MaxMainPoints, logger)

	emailService, err := email.NewService(cfg)
	if err != nil {
		// Dispatch degrades to a descriptive "not configured" result.
		logger.Startup().Warn("Email service unavailable", "error", err.Error())
		emailService = nil
	}

	c := &Container{
		Config:          cfg,
		Logger:          logger,
		SubscriberStore: subscriberStore,
		TrackingStore:   trackingStore,
		SentLedger:      sentLedger,
		WebhookRelay:    relay,
		ContentLoader:   loader,
		EmailService:    emailService,
	}

	c.SubscriberService = services.NewSubscriberService(subscriberStore, relay, logger)
	c.DispatchService = services.NewDispatchService(subscriberStore, trackingStore, emailService, loader, cfg, logger)
	c.TrackingService = services.NewTrackingService(trackingStore, logger)
	c.PostCheckService = services.NewPostCheckService(c.DispatchService, sentLedger, loader, logger)
	c.AuthService = services.NewAuthService(cfg, logger)
	c.ConfigService = services.NewConfigService(cfg, subscriberStore, logger)

	return c
}
