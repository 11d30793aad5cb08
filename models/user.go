package models

import (
	"time"
)

// User represents an account that owns campaigns, leads, messages and
// LinkedIn accounts.
type User struct {
	ID uint `gorm:"primarykey" json:"id"`

	// Authentication fields
	Email         string `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash  string `gorm:"not null" json:"-"`
	EmailVerified bool   `gorm:"default:false" json:"email_verified"`

	// Profile information
	Name      string `gorm:"not null" json:"name"`
	AvatarURL string `json:"avatar_url,omitempty"`

	// Account status
	Role     string `gorm:"not null;default:'user'" json:"role"` // user, admin
	IsActive bool   `gorm:"default:true" json:"is_active"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relations
	Sessions         []Session         `gorm:"foreignKey:UserID" json:"-"`
	Campaigns        []Campaign        `gorm:"foreignKey:UserID" json:"campaigns,omitempty"`
	Leads            []Lead            `gorm:"foreignKey:UserID" json:"leads,omitempty"`
	Messages         []Message         `gorm:"foreignKey:UserID" json:"messages,omitempty"`
	LinkedInAccounts []LinkedInAccount `gorm:"foreignKey:UserID" json:"linkedin_accounts,omitempty"`
	ActivityLogs     []ActivityLog     `gorm:"foreignKey:UserID" json:"activity_logs,omitempty"`
}

// Session is a server-side login session. Sessions are the only rows that
// cascade when their user is deleted (see DESIGN.md for the cascade policy).
type Session struct {
	ID     uint `gorm:"primarykey" json:"id"`
	UserID uint `gorm:"not null;index" json:"user_id"`

	Token     string    `gorm:"uniqueIndex;not null" json:"-"`
	ExpiresAt time.Time `gorm:"not null" json:"expires_at"`
	IPAddress string    `json:"ip_address,omitempty"`
	UserAgent string    `json:"user_agent,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	User User `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}
