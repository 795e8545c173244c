package webhook

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Gerrylewin/shopguide-blog/internal/infrastructure/observability/logging"
	"github.com/Gerrylewin/shopguide-blog/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLogger(t *testing.T) *logging.ChanneledLogger {
	t.Helper()
	logger, err := logging.NewChanneledLogger(&logging.LoggerConfig{
		OutputToConsole: false,
		OutputToFile:    false,
		DefaultLevel:    slog.LevelError,
		ChannelLevels:   make(map[logging.Channel]slog.Level),
	})
	require.NoError(t, err)
	return logger
}

func TestNotify_PostsToEveryTarget(t *testing.T) {
	received := make(chan subscriptionEvent, 2)
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		var event subscriptionEvent
		require.NoError(t, json.Unmarshal(body, &event))
		received <- event
	})
	first := httptest.NewServer(handler)
	defer first.Close()
	second := httptest.NewServer(handler)
	defer second.Close()

	relay := NewRelay(&config.Config{WebhookURLs: []string{first.URL, second.URL}}, newTestLogger(t))
	relay.Notify("reader@example.com", true)

	for i := 0; i < 2; i++ {
		select {
		case event := <-received:
			assert.Equal(t, "reader@example.com", event.Email)
			assert.Equal(t, "newsletter_subscription", event.Source)
			assert.True(t, event.Success)
			assert.NotEmpty(t, event.Timestamp)
		case <-time.After(5 * time.Second):
			t.Fatal("webhook target never received the event")
		}
	}
}

func TestNotify_FailuresNeverReachCaller(t *testing.T) {
	rejecting := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer rejecting.Close()

	relay := NewRelay(&config.Config{
		WebhookURLs: []string{rejecting.URL, "http://127.0.0.1:1/unreachable"},
	}, newTestLogger(t))

	// Must not panic or block.
	relay.Notify("reader@example.com", false)
	time.Sleep(100 * time.Millisecond)
}

func TestNotify_NoTargetsIsNoOp(t *testing.T) {
	relay := NewRelay(&config.Config{}, newTestLogger(t))
	relay.Notify("reader@example.com", true)
}
