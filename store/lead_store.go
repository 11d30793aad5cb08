package store

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"leadboard/models"
)

// LeadFilters narrows lead list queries. Search is an OR substring match
// over name, email and company; the categorical dimensions AND together.
type LeadFilters struct {
	Search     string
	Status     string
	Source     string
	CampaignID uint
	UserID     uint
}

// LeadRow is a lead joined with shallow projections of its campaign and
// owner. Campaign is nil for campaign-less leads.
type LeadRow struct {
	ID            uint                   `json:"id"`
	Name          string                 `json:"name"`
	Email         string                 `json:"email"`
	Phone         string                 `json:"phone"`
	Company       string                 `json:"company"`
	Source        string                 `json:"source"`
	Status        string                 `json:"status"`
	LastContacted *time.Time             `json:"last_contacted"`
	Notes         string                 `json:"notes"`
	CustomFields  map[string]interface{} `json:"custom_fields,omitempty"`
	CreatedAt     time.Time              `json:"created_at"`
	UpdatedAt     time.Time              `json:"updated_at"`
	Campaign      *CampaignRef           `json:"campaign"`
	User          *UserRef               `json:"user"`
}

var leadSortColumns = map[string]string{
	"id":             "id",
	"name":           "name",
	"email":          "email",
	"company":        "company",
	"source":         "source",
	"status":         "status",
	"last_contacted": "last_contacted",
	"created_at":     "created_at",
	"updated_at":     "updated_at",
}

type LeadStore struct {
	DB *gorm.DB
}

func NewLeadStore(db *gorm.DB) *LeadStore {
	return &LeadStore{DB: db}
}

func (s *LeadStore) scoped(f LeadFilters) *gorm.DB {
	query := s.DB.Model(&models.Lead{})
	if f.UserID != 0 {
		query = query.Where("user_id = ?", f.UserID)
	}
	if f.Search != "" {
		like := "%" + f.Search + "%"
		query = query.Where("(name LIKE ? OR email LIKE ? OR company LIKE ?)", like, like, like)
	}
	if hasFilter(f.Status) {
		query = query.Where("status = ?", f.Status)
	}
	if hasFilter(f.Source) {
		query = query.Where("source = ?", f.Source)
	}
	if f.CampaignID != 0 {
		query = query.Where("campaign_id = ?", f.CampaignID)
	}
	return query
}

// List returns one page of leads matching the filters plus the total count
// across all pages. The count and data queries run back to back without a
// shared snapshot; a dashboard tolerates that skew.
func (s *LeadStore) List(f LeadFilters, p Pagination) (*Result[LeadRow], error) {
	p = p.normalize()
	order, err := orderClause(leadSortColumns, p, "created_at")
	if err != nil {
		return nil, err
	}

	var total int64
	if err := s.scoped(f).Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to count leads: %w", err)
	}

	var leads []models.Lead
	if err := s.scoped(f).
		Preload("Campaign").
		Preload("User").
		Order(order).
		Limit(p.Limit).
		Offset(p.Offset()).
		Find(&leads).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch leads: %w", err)
	}

	rows := make([]LeadRow, 0, len(leads))
	for i := range leads {
		rows = append(rows, toLeadRow(&leads[i]))
	}
	return newResult(rows, total, p), nil
}

// ByID returns the lead with its relation projections, or nil when no such
// row exists.
func (s *LeadStore) ByID(id uint) (*LeadRow, error) {
	var lead models.Lead
	err := s.DB.Preload("Campaign").Preload("User").First(&lead, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch lead %d: %w", id, err)
	}
	row := toLeadRow(&lead)
	return &row, nil
}

// Get returns the raw lead model for mutation paths.
func (s *LeadStore) Get(id uint) (*models.Lead, error) {
	var lead models.Lead
	err := s.DB.First(&lead, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch lead %d: %w", id, err)
	}
	return &lead, nil
}

func (s *LeadStore) Create(lead *models.Lead) error {
	if lead.Status == "" {
		lead.Status = models.LeadStatusPending
	}
	if err := s.DB.Create(lead).Error; err != nil {
		return fmt.Errorf("failed to create lead: %w", err)
	}
	return nil
}

// Update persists the full lead row, stamping updated_at.
func (s *LeadStore) Update(lead *models.Lead) error {
	if err := s.DB.Save(lead).Error; err != nil {
		return fmt.Errorf("failed to update lead %d: %w", lead.ID, err)
	}
	return nil
}

// Delete hard-deletes a lead and reports how many rows were removed.
func (s *LeadStore) Delete(id uint) (int64, error) {
	result := s.DB.Delete(&models.Lead{}, id)
	if result.Error != nil {
		return 0, fmt.Errorf("failed to delete lead %d: %w", id, result.Error)
	}
	return result.RowsAffected, nil
}

// ByCampaign returns all leads of a campaign, newest first.
func (s *LeadStore) ByCampaign(campaignID uint) ([]models.Lead, error) {
	var leads []models.Lead
	if err := s.DB.Where("campaign_id = ?", campaignID).
		Order("created_at DESC, id DESC").
		Find(&leads).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch campaign leads: %w", err)
	}
	return leads, nil
}

// ByUser returns all leads owned by a user, newest first.
func (s *LeadStore) ByUser(userID uint) ([]models.Lead, error) {
	var leads []models.Lead
	if err := s.DB.Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Find(&leads).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch user leads: %w", err)
	}
	return leads, nil
}

// Recent returns the newest leads for the dashboard, with campaign refs.
func (s *LeadStore) Recent(userID uint, limit int) ([]LeadRow, error) {
	var leads []models.Lead
	if err := s.DB.Preload("Campaign").
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&leads).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch recent leads: %w", err)
	}
	rows := make([]LeadRow, 0, len(leads))
	for i := range leads {
		rows = append(rows, toLeadRow(&leads[i]))
	}
	return rows, nil
}

func toLeadRow(lead *models.Lead) LeadRow {
	row := LeadRow{
		ID:            lead.ID,
		Name:          lead.Name,
		Email:         lead.Email,
		Phone:         lead.Phone,
		Company:       lead.Company,
		Source:        lead.Source,
		Status:        lead.Status,
		LastContacted: lead.LastContacted,
		Notes:         lead.Notes,
		CustomFields:  lead.CustomFields,
		CreatedAt:     lead.CreatedAt,
		UpdatedAt:     lead.UpdatedAt,
	}
	if lead.Campaign != nil {
		row.Campaign = &CampaignRef{ID: lead.Campaign.ID, Name: lead.Campaign.Name}
	}
	if lead.User != nil {
		row.User = &UserRef{ID: lead.User.ID, Name: lead.User.Name, Email: lead.User.Email}
	}
	return row
}
