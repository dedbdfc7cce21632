package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/resolvely/ticket-tracker/internal/config"
	"github.com/resolvely/ticket-tracker/internal/events"
)

// NotificationService logs committed mutations and forwards them to the configured
// webhook.
type NotificationService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
	cfg        config.NotificationConfig
}

// NewNotificationService creates the service.
func NewNotificationService(dispatcher events.Dispatcher, logger *zap.Logger, cfg config.NotificationConfig) *NotificationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NotificationService{
		dispatcher: dispatcher,
		logger:     logger,
		cfg:        cfg,
	}
}

// RegisterHandlers subscribes to events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	for _, eventType := range events.AllEventTypes {
		n.dispatcher.Subscribe(eventType, n.handleMutation)
	}
}

func (n *NotificationService) handleMutation(ctx context.Context, event events.Event) error {
	fields := []zap.Field{
		zap.String("event_id", event.ID),
		zap.String("event_type", string(event.Type)),
		zap.String("ticket_id", event.TicketID),
		zap.Any("payload", event.Payload),
	}
	if event.ActorID != nil {
		fields = append(fields, zap.String("actor_id", *event.ActorID))
	}
	n.logger.Info("ticket mutation", fields...)
	n.sendWebhook(event)
	return nil
}

// sendWebhook delivers event to the configured URL. Failures are logged only; the
// mutation has already been committed.
func (n *NotificationService) sendWebhook(event events.Event) {
	url := strings.TrimSpace(n.cfg.WebhookURL)
	if url == "" {
		return
	}
	if err := n.postWebhook(url, event); err != nil {
		n.logger.Warn("webhook delivery failed",
			zap.String("url", url),
			zap.String("event_id", event.ID),
			zap.String("event_type", string(event.Type)),
			zap.Error(err))
	}
}

func (n *NotificationService) postWebhook(url string, event events.Event) error {
	agent := fiber.Post(url).
		Timeout(n.cfg.WebhookTimeout()).
		JSON(event)
	status, _, errs := agent.Bytes()
	if len(errs) > 0 {
		return errs[0]
	}
	if status < fiber.StatusOK || status >= fiber.StatusMultipleChoices {
		return fmt.Errorf("webhook responded with status %d", status)
	}
	return nil
}
