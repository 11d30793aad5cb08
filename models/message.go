package models

import (
	"time"

	"gorm.io/gorm"
)

// Message types and statuses.
const (
	MessageTypeOutbound = "outbound"
	MessageTypeInbound  = "inbound"

	MessageStatusSent      = "sent"
	MessageStatusDelivered = "delivered"
	MessageStatusRead      = "read"
	MessageStatusReplied   = "replied"
)

// Message is a single outbound or inbound message exchanged with a lead.
// Messages carry no updated_at column: after creation only status/read_at
// change, stamped by the read path.
type Message struct {
	ID     uint `gorm:"primarykey" json:"id"`
	LeadID uint `gorm:"not null;index" json:"lead_id"`
	UserID uint `gorm:"not null;index" json:"user_id"`

	Content string `gorm:"type:text;not null" json:"content"`
	Type    string `gorm:"not null;default:'outbound'" json:"type"` // outbound, inbound
	Status  string `gorm:"not null;default:'sent'" json:"status"`   // sent, delivered, read, replied

	SentAt time.Time  `gorm:"not null;index" json:"sent_at"`
	ReadAt *time.Time `json:"read_at"`

	CreatedAt time.Time `json:"created_at"`

	// Relations
	Lead *Lead `gorm:"foreignKey:LeadID" json:"lead,omitempty"`
	User *User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

// BeforeCreate defaults sent_at to the insert time.
func (m *Message) BeforeCreate(_ *gorm.DB) error {
	if m.SentAt.IsZero() {
		m.SentAt = time.Now()
	}
	return nil
}
