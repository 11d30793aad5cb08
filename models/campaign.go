package models

import (
	"time"
)

// Campaign statuses form a closed set. Transitions are not enforced.
const (
	CampaignStatusDraft     = "draft"
	CampaignStatusActive    = "active"
	CampaignStatusPaused    = "paused"
	CampaignStatusCompleted = "completed"
)

// Campaign represents a named outreach effort grouping leads.
type Campaign struct {
	ID     uint `gorm:"primarykey" json:"id"`
	UserID uint `gorm:"not null;index" json:"user_id"`

	Name        string `gorm:"not null" json:"name"`
	Description string `json:"description"`
	Status      string `gorm:"not null;default:'draft'" json:"status"` // draft, active, paused, completed

	// Cached aggregates recomputed from live lead rows. They drift until
	// RecomputeCampaignStats runs (on lead writes and from the stats worker).
	TotalLeads     int     `gorm:"default:0" json:"total_leads"`
	ResponseRate   float64 `gorm:"type:decimal(5,2);default:0" json:"response_rate"`
	ConversionRate float64 `gorm:"type:decimal(5,2);default:0" json:"conversion_rate"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relations
	User  *User  `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Leads []Lead `gorm:"foreignKey:CampaignID" json:"leads,omitempty"`
}
