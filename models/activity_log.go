package models

import (
	"time"
)

// ActivityLog is an append-only audit row: lead_created, campaign_started,
// message_sent and so on. Rows are never updated.
type ActivityLog struct {
	ID     uint `gorm:"primarykey" json:"id"`
	UserID uint `gorm:"not null;index" json:"user_id"`

	Action      string                 `gorm:"not null;index" json:"action"`
	Description string                 `json:"description"`
	Metadata    map[string]interface{} `gorm:"type:jsonb;serializer:json" json:"metadata,omitempty"`

	CreatedAt time.Time `json:"created_at"`

	// Relations
	User *User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}
