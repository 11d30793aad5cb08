package models

import (
	"time"
)

// LinkedIn account statuses.
const (
	LinkedInStatusActive = "active"
	LinkedInStatusPaused = "paused"
	LinkedInStatusError  = "error"
)

// LinkedInAccount is an outreach account connected by a user.
type LinkedInAccount struct {
	ID     uint `gorm:"primarykey" json:"id"`
	UserID uint `gorm:"not null;index" json:"user_id"`

	Name       string `gorm:"not null" json:"name"`
	Email      string `gorm:"not null" json:"email"`
	ProfileURL string `json:"profile_url"`
	Status     string `gorm:"not null;default:'active'" json:"status"` // active, paused, error

	// Cached counters, refreshed by UpdateLinkedInAccountStats and the
	// stats worker.
	Connections  int     `gorm:"default:0" json:"connections"`
	MessagesSent int     `gorm:"default:0" json:"messages_sent"`
	ResponseRate float64 `gorm:"type:decimal(5,2);default:0" json:"response_rate"`

	LastActivity *time.Time `json:"last_activity"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relations
	User *User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

// TableName keeps the table at linkedin_accounts; the default naming would
// split the brand name into linked_in_accounts.
func (LinkedInAccount) TableName() string {
	return "linkedin_accounts"
}
