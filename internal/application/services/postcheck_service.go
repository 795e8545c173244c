package services

import (
	"context"
	"fmt"
	"time"

	"github.com/Gerrylewin/shopguide-blog/internal/domain/newsletter"
	"github.com/Gerrylewin/shopguide-blog/internal/infrastructure/content"
	"github.com/Gerrylewin/shopguide-blog/internal/infrastructure/observability/logging"
)

// PostLoader supplies the candidate posts for an automatic check.
type PostLoader interface {
	LoadAll() ([]newsletter.Post, error)
}

// PostCheckService implements the "send once, only on confirmed delivery"
// policy for newly published posts.
type PostCheckService struct {
	dispatch *DispatchService
	ledger   newsletter.SentPostLedger
	loader   PostLoader
	logger   *logging.ChanneledLogger
}

// NewPostCheckService creates the checker.
func NewPostCheckService(dispatch *DispatchService, ledger newsletter.SentPostLedger, loader PostLoader, logger *logging.ChanneledLogger) *PostCheckService {
	return &PostCheckService{dispatch: dispatch, ledger: ledger, loader: loader, logger: logger}
}

// CheckContentDir loads all posts from the content directory and runs the
// check over them.
func (s *PostCheckService) CheckContentDir(ctx context.Context) (*newsletter.CheckResult, error) {
	posts, err := s.loader.LoadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to load posts: %w", err)
	}
	return s.CheckAndSendNewPosts(ctx, posts), nil
}

// CheckAndSendNewPosts dispatches every published post not yet in the sent
// ledger. A post is only marked sent when at least one email actually went
// out, so zero-send posts (no subscribers, email unconfigured) are retried
// on the next check.
func (s *PostCheckService) CheckAndSendNewPosts(ctx context.Context, posts []newsletter.Post) *newsletter.CheckResult {
	result := &newsletter.CheckResult{Errors: []string{}}

	markers, err := s.ledger.GetSentPosts(ctx)
	if err != nil {
		s.logger.Newsletter().Error("Failed to load sent-post ledger", "error", err.Error())
		result.Errors = append(result.Errors, fmt.Sprintf("failed to load sent posts: %v", err))
		return result
	}
	sentSlugs := make(map[string]bool, len(markers))
	for _, m := range markers {
		sentSlugs[m.Slug] = true
	}

	published := content.Published(posts, time.Now().UTC())
	result.Checked = len(published)

	for _, post := range published {
		if sentSlugs[post.Slug] {
			result.Skipped++
			continue
		}

		s.logger.Newsletter().Info("Sending email for new blog post", "slug", post.Slug, "title", post.Title)
		sendResult, err := s.dispatch.SendForPost(ctx, post)
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("failed to send emails for %s: %v", post.Slug, err))
			s.logger.Newsletter().Error("Dispatch failed for post", "slug", post.Slug, "error", err.Error())
			continue
		}

		if sendResult.Sent > 0 {
			if err := s.ledger.MarkPostAsSent(ctx, post); err != nil {
				// Not fatal: the worst case is a duplicate send next check.
				s.logger.Newsletter().Error("Failed to mark post as sent", "slug", post.Slug, "error", err.Error())
			}
			result.Sent++
			s.logger.Newsletter().Info("Post dispatched", "slug", post.Slug, "sent", sendResult.Sent, "failed", sendResult.Failed)
		} else {
			msg := sendResult.Message
			if msg == "" {
				msg = "unknown error"
			}
			result.Errors = append(result.Errors, fmt.Sprintf("no emails sent for %s: %s", post.Slug, msg))
		}
	}

	return result
}

// SentPosts exposes the ledger for the admin surface.
func (s *PostCheckService) SentPosts(ctx context.Context) ([]newsletter.SentPostMarker, error) {
	return s.ledger.GetSentPosts(ctx)
}
