// Package webhook mirrors subscription events to externally owned
// endpoints (CRM, spreadsheet). Delivery is fire-and-forget: errors are
// logged, never propagated, never retried.
package webhook

import (
	"bytes"
	"encoding/json"
	"net/http"
	"time"

	"github.com/Gerrylewin/shopguide-blog/internal/infrastructure/observability/logging"
	"github.com/Gerrylewin/shopguide-blog/pkg/config"
)

// Relay posts subscription events to each configured webhook URL.
type Relay struct {
	urls   []string
	client *http.Client
	logger *logging.ChanneledLogger
}

type subscriptionEvent struct {
	Email     string `json:"email"`
	Source    string `json:"source"`
	Success   bool   `json:"success"`
	Timestamp string `json:"timestamp"`
}

// NewRelay creates a relay for the configured webhook targets.
func NewRelay(cfg *config.Config, logger *logging.ChanneledLogger) *Relay {
	return &Relay{
		urls:   cfg.WebhookURLs,
		client: &http.Client{Timeout: config.WebhookTimeout},
		logger: logger,
	}
}

// Notify mirrors a subscription attempt to every target without blocking
// the caller. Both successful subscriptions and duplicates are relayed.
func (r *Relay) Notify(email string, success bool) {
	if len(r.urls) == 0 {
		return
	}

	event := subscriptionEvent{
		Email:     email,
		Source:    "newsletter_subscription",
		Success:   success,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
	payload, err := json.Marshal(event)
	if err != nil {
		r.logger.Webhook().Error("Failed to encode webhook payload", "error", err.Error())
		return
	}

	for _, url := range r.urls {
		go r.post(url, payload, email)
	}
}

func (r *Relay) post(url string, payload []byte, email string) {
	resp, err := r.client.Post(url, "application/json", bytes.NewReader(payload))
	if err != nil {
		r.logger.Webhook().Error("Webhook delivery failed", "url", url, "email", email, "error", err.Error())
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		r.logger.Webhook().Error("Webhook rejected event", "url", url, "email", email, "status", resp.StatusCode)
		return
	}
	r.logger.Webhook().Info("Webhook delivered", "url", url, "email", email, "status", resp.StatusCode)
}
