package services

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/Gerrylewin/shopguide-blog/internal/domain/newsletter"
	"github.com/Gerrylewin/shopguide-blog/internal/infrastructure/persistence/tracking"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeLoader serves a fixed post list.
type fakeLoader struct {
	posts []newsletter.Post
}

func (f *fakeLoader) LoadAll() ([]newsletter.Post, error) { return f.posts, nil }

func newCheckFixture(t *testing.T, sender *fakeSender, subs []newsletter.Subscriber) (*PostCheckService, *tracking.SentLedger) {
	t.Helper()
	logger := newTestLogger(t)
	store := &memSubscriberStore{subs: subs}
	dispatch := NewDispatchService(store, &memTrackingStore{}, sender, nil, testConfig(), logger)
	ledger := tracking.NewSentLedger(filepath.Join(t.TempDir(), "sent.json"), logger)
	loader := &fakeLoader{posts: []newsletter.Post{
		{Title: "Live Post", Slug: "live-post", Date: "2020-01-01"},
		{Title: "Draft Post", Slug: "draft-post", Date: "2020-01-01", Draft: true},
		{Title: "Future Post", Slug: "future-post", Date: "2999-01-01"},
	}}
	return NewPostCheckService(dispatch, ledger, loader, logger), ledger
}

func TestCheck_SendsOnceThenSkips(t *testing.T) {
	sender := newFakeSender()
	svc, ledger := newCheckFixture(t, sender, []newsletter.Subscriber{{Email: "reader@example.com"}})
	ctx := context.Background()

	first, err := svc.CheckContentDir(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, first.Checked, "drafts and future posts are not candidates")
	assert.Equal(t, 1, first.Sent)
	assert.Equal(t, 0, first.Skipped)
	assert.Empty(t, first.Errors)

	markers, err := ledger.GetSentPosts(ctx)
	require.NoError(t, err)
	require.Len(t, markers, 1)
	assert.Equal(t, "live-post", markers[0].Slug)

	second, err := svc.CheckContentDir(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, second.Sent)
	assert.Equal(t, 1, second.Skipped)
	assert.Len(t, sender.sent, 1, "the same post must not be dispatched twice")
}

func TestCheck_ZeroSendIsNotMarkedSent(t *testing.T) {
	// No subscribers: the dispatcher reports zero sends, so the post stays
	// eligible for the next check.
	svc, ledger := newCheckFixture(t, newFakeSender(), nil)
	ctx := context.Background()

	result, err := svc.CheckContentDir(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, result.Sent)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "live-post")

	markers, err := ledger.GetSentPosts(ctx)
	require.NoError(t, err)
	assert.Empty(t, markers)

	retry, err := svc.CheckContentDir(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, retry.Skipped, "unsent post must be retried, not skipped")
}
