package models

import (
	"time"
)

// Lead funnel statuses. The funnel is pending -> contacted -> responded ->
// converted, but no transition order is enforced.
const (
	LeadStatusPending   = "pending"
	LeadStatusContacted = "contacted"
	LeadStatusResponded = "responded"
	LeadStatusConverted = "converted"
)

// Lead represents a prospective contact tracked through the status funnel.
// Emails are indexed but deliberately not unique: the same person can be
// tracked across campaigns.
type Lead struct {
	ID uint `gorm:"primarykey" json:"id"`

	Name    string `gorm:"not null" json:"name"`
	Email   string `gorm:"not null;index" json:"email"`
	Phone   string `json:"phone"`
	Company string `gorm:"not null" json:"company"`
	Source  string `gorm:"not null" json:"source"`                   // LinkedIn, Website, Referral, Cold Email, ...
	Status  string `gorm:"not null;default:'pending'" json:"status"` // pending, contacted, responded, converted

	// Leads may be campaign-less; deleting a campaign nulls the reference.
	CampaignID *uint `gorm:"index" json:"campaign_id,omitempty"`
	UserID     uint  `gorm:"not null;index" json:"user_id"`

	LastContacted *time.Time             `json:"last_contacted"`
	Notes         string                 `gorm:"type:text" json:"notes"`
	CustomFields  map[string]interface{} `gorm:"type:jsonb;serializer:json" json:"custom_fields,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relations
	Campaign *Campaign `gorm:"foreignKey:CampaignID;constraint:OnDelete:SET NULL" json:"campaign,omitempty"`
	User     *User     `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Messages []Message `gorm:"foreignKey:LeadID" json:"messages,omitempty"`
}
