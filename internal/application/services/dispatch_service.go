package services

import (
	"context"
	"fmt"
	"net/url"
	"sync"
	"time"

	"github.com/Gerrylewin/shopguide-blog/internal/domain/newsletter"
	"github.com/Gerrylewin/shopguide-blog/internal/infrastructure/email"
	"github.com/Gerrylewin/shopguide-blog/internal/infrastructure/email/templates"
	"github.com/Gerrylewin/shopguide-blog/internal/infrastructure/observability/logging"
	"github.com/Gerrylewin/shopguide-blog/pkg/config"
	"github.com/oklog/ulid/v2"
)

// SummaryRenderer turns a markdown post summary into email-safe HTML.
type SummaryRenderer interface {
	RenderSummaryHTML(summary string) string
}

// DispatchService renders and sends the per-subscriber notification email
// for a blog post, fanning out through a bounded worker pool.
type DispatchService struct {
	subscribers newsletter.SubscriberStore
	tracking    newsletter.TrackingStore
	sender      email.Service // nil when RESEND_API_KEY is absent
	renderer    SummaryRenderer
	cfg         *config.Config
	logger      *logging.ChanneledLogger
	workers     int
	sendTimeout time.Duration
}

// NewDispatchService creates the dispatcher. sender may be nil when email
// is not configured; dispatch then degrades to a descriptive result.
func NewDispatchService(
	subscribers newsletter.SubscriberStore,
	tracking newsletter.TrackingStore,
	sender email.Service,
	renderer SummaryRenderer,
	cfg *config.Config,
	logger *logging.ChanneledLogger,
) *DispatchService {
	return &DispatchService{
		subscribers: subscribers,
		tracking:    tracking,
		sender:      sender,
		renderer:    renderer,
		cfg:         cfg,
		logger:      logger,
		workers:     config.SendWorkers,
		sendTimeout: config.SendTimeout,
	}
}

// SendForPost notifies every subscriber about a post. Zero subscribers
// short-circuits without a tracking record or an API call. A missing email
// credential short-circuits after the tracking record exists, reporting a
// "not configured" result rather than an error. Per-recipient failures are
// counted and listed, never aborting the batch.
func (s *DispatchService) SendForPost(ctx context.Context, post newsletter.Post) (*newsletter.SendResult, error) {
	subs, err := s.subscribers.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load subscribers: %w", err)
	}

	if len(subs) == 0 {
		s.logger.Email().Info("No subscribers to notify", "postSlug", post.Slug)
		return &newsletter.SendResult{Message: "No subscribers to notify"}, nil
	}

	emailID := ulid.Make().String()
	if err := s.tracking.CreateRecord(ctx, emailID, post.Slug, post.Title, len(subs)); err != nil {
		return nil, fmt.Errorf("failed to create tracking record: %w", err)
	}

	result := &newsletter.SendResult{
		EmailID:     emailID,
		Subscribers: len(subs),
	}

	if s.sender == nil {
		s.logger.Email().Warn("Email sending not configured, skipping dispatch", "postSlug", post.Slug, "emailId", emailID)
		result.Message = "Email sending not configured. Set RESEND_API_KEY to enable dispatch."
		return result, nil
	}

	subject := fmt.Sprintf("New Blog Post: %s", post.Title)
	summaryHTML := ""
	if s.renderer != nil {
		summaryHTML = s.renderer.RenderSummaryHTML(post.Summary)
	}

	start := time.Now()
	var mu sync.Mutex
	var wg sync.WaitGroup
	jobs := make(chan newsletter.Subscriber)

	workers := s.workers
	if workers < 1 {
		workers = 1
	}
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for sub := range jobs {
				err := s.sendOne(post, sub.Email, emailID, subject, summaryHTML)
				mu.Lock()
				if err != nil {
					result.Failed++
					result.FailedAddresses = append(result.FailedAddresses, sub.Email)
				} else {
					result.Sent++
				}
				mu.Unlock()
				if err != nil {
					s.logger.Email().Error("Send failed", "email", sub.Email, "emailId", emailID, "error", err.Error())
				}
			}
		}()
	}

	for _, sub := range subs {
		select {
		case jobs <- sub:
		case <-ctx.Done():
			// Remaining recipients are counted as failures on cancellation.
			mu.Lock()
			result.Failed++
			mu.Unlock()
		}
	}
	close(jobs)
	wg.Wait()

	s.logger.Email().Info("Dispatch completed",
		"postSlug", post.Slug, "emailId", emailID,
		"sent", result.Sent, "failed", result.Failed, "duration", time.Since(start))
	return result, nil
}

// sendOne renders the subscriber-specific email and submits it with a hard
// per-send deadline.
func (s *DispatchService) sendOne(post newsletter.Post, toEmail, emailID, subject, summaryHTML string) error {
	postURL := fmt.Sprintf("%s/blog/%s", s.cfg.SiteURL, post.Slug)
	unsubscribeURL := fmt.Sprintf("%s/unsubscribe", s.cfg.SiteURL)

	content := templates.GetPostEmailContent(templates.PostEmailProps{
		PostTitle:   post.Title,
		Summary:     post.Summary,
		SummaryHTML: summaryHTML,
		MainPoints:  post.MainPoints,
		ReadURL:     s.TrackedLinkURL(emailID, toEmail, postURL),
	})
	htmlContent := templates.GetEmailLayout(templates.EmailLayoutProps{
		Title:            post.Title,
		SiteTitle:        s.cfg.SiteTitle,
		Content:          content,
		UnsubscribeURL:   s.TrackedLinkURL(emailID, toEmail, unsubscribeURL),
		TrackingPixelURL: s.TrackingPixelURL(emailID, toEmail),
	})
	textContent := templates.GetPostEmailText(s.cfg.SiteTitle, post.Title, post.Summary, postURL, unsubscribeURL, post.MainPoints)

	done := make(chan error, 1)
	go func() {
		done <- s.sender.Send(toEmail, subject, htmlContent, textContent)
	}()

	select {
	case err := <-done:
		return err
	case <-time.After(s.sendTimeout):
		return fmt.Errorf("send to %s timed out after %s", toEmail, s.sendTimeout)
	}
}

// TrackingPixelURL builds the 1x1 open-tracking pixel URL for a recipient.
func (s *DispatchService) TrackingPixelURL(emailID, toEmail string) string {
	return fmt.Sprintf("%s/api/v1/newsletter/track/open?emailId=%s&email=%s",
		s.cfg.SiteURL, emailID, url.QueryEscape(toEmail))
}

// TrackedLinkURL routes a destination URL through the click-redirect
// endpoint, carrying the send id and recipient.
func (s *DispatchService) TrackedLinkURL(emailID, toEmail, originalURL string) string {
	return fmt.Sprintf("%s/api/v1/newsletter/track/click?emailId=%s&email=%s&url=%s",
		s.cfg.SiteURL, emailID, url.QueryEscape(toEmail), url.QueryEscape(originalURL))
}
