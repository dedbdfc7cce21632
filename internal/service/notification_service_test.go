package service

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/resolvely/ticket-tracker/internal/config"
	"github.com/resolvely/ticket-tracker/internal/events"
)

type webhookRecorder struct {
	mu     sync.Mutex
	bodies []map[string]any
	status int
}

func (w *webhookRecorder) ServeHTTP(rw http.ResponseWriter, r *http.Request) {
	raw, _ := io.ReadAll(r.Body)
	body := map[string]any{}
	_ = json.Unmarshal(raw, &body)
	w.mu.Lock()
	w.bodies = append(w.bodies, body)
	w.mu.Unlock()
	rw.WriteHeader(w.status)
}

func (w *webhookRecorder) received() []map[string]any {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]map[string]any(nil), w.bodies...)
}

func newNotificationFixture(t *testing.T, status int) (events.Dispatcher, *webhookRecorder, *observer.ObservedLogs) {
	t.Helper()
	recorder := &webhookRecorder{status: status}
	srv := httptest.NewServer(recorder)
	t.Cleanup(srv.Close)

	core, logs := observer.New(zapcore.DebugLevel)
	logger := zap.New(core)
	dispatcher := events.NewInMemoryDispatcher(logger)
	NewNotificationService(dispatcher, logger, config.NotificationConfig{
		WebhookURL:            srv.URL,
		WebhookTimeoutSeconds: 2,
	}).RegisterHandlers()
	return dispatcher, recorder, logs
}

func TestNotificationService_PostsEventToWebhook(t *testing.T) {
	dispatcher, recorder, logs := newNotificationFixture(t, http.StatusNoContent)
	actor := "user-1"

	err := dispatcher.Publish(context.Background(), events.Event{
		ID:        "evt-1",
		Type:      events.EventTicketCreated,
		TicketID:  "ticket-1",
		ActorID:   &actor,
		Timestamp: time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC),
		Payload:   events.TicketCreatedPayload{Title: "VPN", StatusID: "NEW", PriorityID: "NORMAL"},
	})
	require.NoError(t, err)

	received := recorder.received()
	require.Len(t, received, 1)
	assert.Equal(t, "evt-1", received[0]["id"])
	assert.Equal(t, "ticket.created", received[0]["type"])
	assert.Equal(t, "ticket-1", received[0]["ticket_id"])
	assert.Equal(t, "user-1", received[0]["actor_id"])
	assert.Equal(t, "VPN", received[0]["payload"].(map[string]any)["title"])

	assert.Equal(t, 1, logs.FilterMessage("ticket mutation").Len())
	assert.Zero(t, logs.FilterMessage("webhook delivery failed").Len())
}

func TestNotificationService_WebhookFailureIsLogged(t *testing.T) {
	dispatcher, recorder, logs := newNotificationFixture(t, http.StatusInternalServerError)

	err := dispatcher.Publish(context.Background(), events.Event{
		ID:       "evt-2",
		Type:     events.EventTicketDeleted,
		TicketID: "ticket-2",
		Payload:  events.TicketDeletedPayload{Title: "gone"},
	})
	require.NoError(t, err)

	assert.Len(t, recorder.received(), 1)
	assert.Equal(t, 1, logs.FilterMessage("webhook delivery failed").Len())
}

func TestNotificationService_NoWebhookConfigured(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	logger := zap.New(core)
	dispatcher := events.NewInMemoryDispatcher(logger)
	NewNotificationService(dispatcher, logger, config.NotificationConfig{}).RegisterHandlers()

	require.NoError(t, dispatcher.Publish(context.Background(), events.Event{
		ID:       "evt-3",
		Type:     events.EventCommentAdded,
		TicketID: "ticket-3",
		Payload:  events.CommentAddedPayload{CommentID: "c-1", Preview: "hi"},
	}))

	assert.Equal(t, 1, logs.FilterMessage("ticket mutation").Len())
	assert.Zero(t, logs.FilterMessage("webhook delivery failed").Len())
}
