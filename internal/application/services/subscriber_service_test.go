package services

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingNotifier captures webhook mirror calls.
type recordingNotifier struct {
	mu    sync.Mutex
	calls []struct {
		email   string
		success bool
	}
}

func (r *recordingNotifier) Notify(email string, success bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, struct {
		email   string
		success bool
	}{email, success})
}

func TestSubscribe_NormalizesAndNotifies(t *testing.T) {
	store := &memSubscriberStore{}
	notifier := &recordingNotifier{}
	svc := NewSubscriberService(store, notifier, newTestLogger(t))

	added, err := svc.Subscribe(context.Background(), "  Reader@Example.COM ")
	require.NoError(t, err)
	assert.True(t, added)

	subs, err := store.GetAll(context.Background())
	require.NoError(t, err)
	require.Len(t, subs, 1)
	assert.Equal(t, "reader@example.com", subs[0].Email)

	require.Len(t, notifier.calls, 1)
	assert.Equal(t, "reader@example.com", notifier.calls[0].email)
	assert.True(t, notifier.calls[0].success)
}

func TestSubscribe_DuplicateStillNotifies(t *testing.T) {
	store := &memSubscriberStore{}
	notifier := &recordingNotifier{}
	svc := NewSubscriberService(store, notifier, newTestLogger(t))
	ctx := context.Background()

	_, err := svc.Subscribe(ctx, "reader@example.com")
	require.NoError(t, err)

	added, err := svc.Subscribe(ctx, "READER@example.com")
	require.NoError(t, err)
	assert.False(t, added)

	require.Len(t, notifier.calls, 2, "every attempt is mirrored, duplicates included")
	assert.False(t, notifier.calls[1].success)
}

func TestSubscribe_RejectsInvalidEmail(t *testing.T) {
	svc := NewSubscriberService(&memSubscriberStore{}, nil, newTestLogger(t))

	for _, email := range []string{"", "not-an-email", "missing@", "@missing.com"} {
		_, err := svc.Subscribe(context.Background(), email)
		assert.ErrorIs(t, err, ErrInvalidEmail, "email %q", email)
	}
}

func TestUnsubscribe(t *testing.T) {
	store := &memSubscriberStore{}
	svc := NewSubscriberService(store, nil, newTestLogger(t))
	ctx := context.Background()

	_, err := svc.Subscribe(ctx, "leaver@example.com")
	require.NoError(t, err)

	removed, err := svc.Unsubscribe(ctx, "LEAVER@example.com")
	require.NoError(t, err)
	assert.True(t, removed)

	removed, err = svc.Unsubscribe(ctx, "leaver@example.com")
	require.NoError(t, err)
	assert.False(t, removed)
}
