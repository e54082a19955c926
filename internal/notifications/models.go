package notifications

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

const (
	ChannelEmail     = "EMAIL"
	ChannelWebSocket = "WEBSOCKET"
	ChannelInApp     = "IN_APP"
	ChannelWebhook   = "WEBHOOK"

	StatusPending   = "PENDING"
	StatusSent      = "SENT"
	StatusDelivered = "DELIVERED"
	StatusFailed    = "FAILED"

	TypeGenerationCompleted = "generation_completed"
	TypeGenerationFailed    = "generation_failed"
)

// Notification is an in-app notification row. The payload carries
// event-specific fields such as contract_number and pdf_url.
type Notification struct {
	ID        uuid.UUID      `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	UserID    uuid.UUID      `json:"user_id" gorm:"type:uuid;index"`
	Type      string         `json:"type" gorm:"not null"`
	Subject   string         `json:"subject" gorm:"not null"`
	Body      string         `json:"body" gorm:"not null"`
	Payload   datatypes.JSON `json:"payload" gorm:"type:jsonb"`
	ReadAt    *time.Time     `json:"read_at"`
	CreatedAt time.Time      `json:"created_at" gorm:"autoCreateTime"`
}

// DeliveryLog tracks a single delivery attempt on one channel.
type DeliveryLog struct {
	ID             uuid.UUID `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	NotificationID uuid.UUID `json:"notification_id" gorm:"type:uuid;index"`
	Channel        string    `json:"channel" gorm:"not null"`
	Status         string    `json:"status" gorm:"not null"`
	Error          string    `json:"error"`
	Timestamp      time.Time `json:"timestamp" gorm:"autoCreateTime"`
}
