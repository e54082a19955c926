package notifications

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"contract-portal/contract-portal-backend/internal/generation"
	"contract-portal/contract-portal-backend/internal/notifications/websocket"
)

// RecipientResolver maps a user id to an email address. Returning an
// empty address skips the email channel for that user.
type RecipientResolver interface {
	EmailFor(ctx context.Context, userID uuid.UUID) (string, error)
}

// Service stores in-app notifications and fans generation events out to
// the websocket, email and webhook channels. Implements generation.Notifier.
type Service struct {
	db         *gorm.DB
	wsManager  *websocket.Manager
	email      *EmailChannel
	webhook    *WebhookChannel
	recipients RecipientResolver
	logger     *zap.Logger
}

// NewService migrates the notification tables and wires the channels.
// email, webhook and recipients may be nil; the matching channel is skipped.
func NewService(db *gorm.DB, wsManager *websocket.Manager, email *EmailChannel, webhook *WebhookChannel, recipients RecipientResolver, logger *zap.Logger) (*Service, error) {
	if err := db.AutoMigrate(&Notification{}, &DeliveryLog{}); err != nil {
		return nil, fmt.Errorf("failed to migrate notification tables: %w", err)
	}
	return &Service{
		db:         db,
		wsManager:  wsManager,
		email:      email,
		webhook:    webhook,
		recipients: recipients,
		logger:     logger,
	}, nil
}

// NotifyGeneration records the event and delivers it on every configured
// channel. Failures are logged, never returned; a notification must not
// fail the generation that produced it.
func (s *Service) NotifyGeneration(ctx context.Context, event generation.Event) {
	subject, body, eventType := describe(event)

	payload, err := json.Marshal(event)
	if err != nil {
		s.logger.Error("failed to encode generation event", zap.Error(err))
		return
	}

	notification := &Notification{
		ID:      uuid.New(),
		UserID:  event.RequestedBy,
		Type:    eventType,
		Subject: subject,
		Body:    body,
		Payload: payload,
	}
	if err := s.db.WithContext(ctx).Create(notification).Error; err != nil {
		s.logger.Error("failed to store notification", zap.Error(err))
		return
	}
	s.logDelivery(ctx, notification.ID, ChannelInApp, StatusDelivered, nil)

	s.sendWebSocket(ctx, notification, event)
	s.sendEmail(ctx, notification, subject, body, event)
	s.sendWebhook(ctx, notification, event)
}

func (s *Service) sendWebSocket(ctx context.Context, n *Notification, event generation.Event) {
	if s.wsManager == nil || event.RequestedBy == uuid.Nil {
		return
	}
	envelope := websocket.Envelope{
		Type: n.Type,
		Data: map[string]interface{}{
			"notification_id": n.ID.String(),
			"contract_id":     event.ContractID.String(),
			"contract_number": event.ContractNumber,
			"backend":         event.Backend,
			"status":          string(event.Status),
			"pdf_url":         event.PDFURL,
		},
		Timestamp: time.Now(),
	}
	err := s.wsManager.SendToUser(event.RequestedBy.String(), envelope)
	s.logDelivery(ctx, n.ID, ChannelWebSocket, statusFor(err), err)
}

func (s *Service) sendEmail(ctx context.Context, n *Notification, subject, body string, event generation.Event) {
	if s.email == nil || s.recipients == nil || event.RequestedBy == uuid.Nil {
		return
	}
	address, err := s.recipients.EmailFor(ctx, event.RequestedBy)
	if err != nil {
		s.logger.Warn("failed to resolve notification recipient", zap.Error(err))
		return
	}
	if address == "" {
		return
	}
	err = s.email.Send(ctx, address, subject, body)
	s.logDelivery(ctx, n.ID, ChannelEmail, statusFor(err), err)
}

func (s *Service) sendWebhook(ctx context.Context, n *Notification, event generation.Event) {
	if s.webhook == nil {
		return
	}
	err := s.webhook.Send(ctx, event)
	s.logDelivery(ctx, n.ID, ChannelWebhook, statusFor(err), err)
}

func (s *Service) logDelivery(ctx context.Context, notificationID uuid.UUID, channel, status string, cause error) {
	entry := &DeliveryLog{
		ID:             uuid.New(),
		NotificationID: notificationID,
		Channel:        channel,
		Status:         status,
	}
	if cause != nil {
		entry.Error = cause.Error()
		s.logger.Warn("notification delivery failed",
			zap.String("channel", channel),
			zap.Error(cause))
	}
	if err := s.db.WithContext(ctx).Create(entry).Error; err != nil {
		s.logger.Error("failed to log notification delivery", zap.Error(err))
	}
}

// ListForUser returns a user's notifications, newest first.
func (s *Service) ListForUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]Notification, error) {
	var rows []Notification
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}
	return rows, nil
}

// MarkRead stamps a notification as read.
func (s *Service) MarkRead(ctx context.Context, id uuid.UUID) error {
	result := s.db.WithContext(ctx).
		Model(&Notification{}).
		Where("id = ?", id).
		Update("read_at", time.Now())
	if result.Error != nil {
		return fmt.Errorf("failed to mark notification read: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return errors.New("notification not found")
	}
	return nil
}

func statusFor(err error) string {
	if err != nil {
		return StatusFailed
	}
	return StatusSent
}

func describe(event generation.Event) (subject, body, eventType string) {
	if event.Error != "" {
		subject = fmt.Sprintf("Contract %s: document generation failed", event.ContractNumber)
		body = fmt.Sprintf("Generation of contract %s via %s failed: %s",
			event.ContractNumber, event.Backend, event.Error)
		return subject, body, TypeGenerationFailed
	}
	subject = fmt.Sprintf("Contract %s: document ready", event.ContractNumber)
	body = fmt.Sprintf("Contract %s was generated via %s.", event.ContractNumber, event.Backend)
	if event.PDFURL != "" {
		body += " PDF: " + event.PDFURL
	}
	return subject, body, TypeGenerationCompleted
}
