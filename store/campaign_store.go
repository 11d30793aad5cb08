package store

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"leadboard/models"
)

// CampaignFilters narrows campaign list queries. The synthetic status value
// "inactive" matches paused and completed campaigns.
type CampaignFilters struct {
	Search string
	Status string
	UserID uint
}

// CampaignStatusInactive is a filter-only status covering paused and
// completed campaigns. It never appears on a row.
const CampaignStatusInactive = "inactive"

// CampaignRow is a campaign joined with a shallow projection of its owner.
type CampaignRow struct {
	ID             uint      `json:"id"`
	Name           string    `json:"name"`
	Description    string    `json:"description"`
	Status         string    `json:"status"`
	TotalLeads     int       `json:"total_leads"`
	ResponseRate   float64   `json:"response_rate"`
	ConversionRate float64   `json:"conversion_rate"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
	User           *UserRef  `json:"user"`
}

// CampaignMetrics is the aggregate rollup across a set of campaigns.
type CampaignMetrics struct {
	TotalCampaigns     int64   `json:"total_campaigns"`
	ActiveCampaigns    int64   `json:"active_campaigns"`
	PausedCampaigns    int64   `json:"paused_campaigns"`
	CompletedCampaigns int64   `json:"completed_campaigns"`
	TotalLeads         int64   `json:"total_leads"`
	AvgResponseRate    float64 `json:"avg_response_rate"`
	AvgConversionRate  float64 `json:"avg_conversion_rate"`
}

// CampaignStats is the result of recomputing one campaign's cached
// aggregates from its live lead rows.
type CampaignStats struct {
	TotalLeads     int64   `json:"total_leads"`
	ContactedLeads int64   `json:"contacted_leads"`
	RespondedLeads int64   `json:"responded_leads"`
	ConvertedLeads int64   `json:"converted_leads"`
	ResponseRate   float64 `json:"response_rate"`
	ConversionRate float64 `json:"conversion_rate"`
}

var campaignSortColumns = map[string]string{
	"id":              "id",
	"name":            "name",
	"status":          "status",
	"total_leads":     "total_leads",
	"response_rate":   "response_rate",
	"conversion_rate": "conversion_rate",
	"created_at":      "created_at",
	"updated_at":      "updated_at",
}

type CampaignStore struct {
	DB *gorm.DB
}

func NewCampaignStore(db *gorm.DB) *CampaignStore {
	return &CampaignStore{DB: db}
}

func (s *CampaignStore) scoped(f CampaignFilters) *gorm.DB {
	query := s.DB.Model(&models.Campaign{})
	if f.UserID != 0 {
		query = query.Where("user_id = ?", f.UserID)
	}
	if f.Search != "" {
		query = query.Where("name LIKE ?", "%"+f.Search+"%")
	}
	if hasFilter(f.Status) {
		if f.Status == CampaignStatusInactive {
			query = query.Where("status IN ?", []string{models.CampaignStatusPaused, models.CampaignStatusCompleted})
		} else {
			query = query.Where("status = ?", f.Status)
		}
	}
	return query
}

// List returns one page of campaigns matching the filters plus the total
// count across all pages.
func (s *CampaignStore) List(f CampaignFilters, p Pagination) (*Result[CampaignRow], error) {
	p = p.normalize()
	order, err := orderClause(campaignSortColumns, p, "created_at")
	if err != nil {
		return nil, err
	}

	var total int64
	if err := s.scoped(f).Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to count campaigns: %w", err)
	}

	var campaigns []models.Campaign
	if err := s.scoped(f).
		Preload("User").
		Order(order).
		Limit(p.Limit).
		Offset(p.Offset()).
		Find(&campaigns).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch campaigns: %w", err)
	}

	rows := make([]CampaignRow, 0, len(campaigns))
	for i := range campaigns {
		rows = append(rows, toCampaignRow(&campaigns[i]))
	}
	return newResult(rows, total, p), nil
}

// ByID returns the campaign with its owner projection, or nil when no such
// row exists.
func (s *CampaignStore) ByID(id uint) (*CampaignRow, error) {
	var campaign models.Campaign
	err := s.DB.Preload("User").First(&campaign, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch campaign %d: %w", id, err)
	}
	row := toCampaignRow(&campaign)
	return &row, nil
}

// Get returns the raw campaign model for mutation paths.
func (s *CampaignStore) Get(id uint) (*models.Campaign, error) {
	var campaign models.Campaign
	err := s.DB.First(&campaign, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch campaign %d: %w", id, err)
	}
	return &campaign, nil
}

func (s *CampaignStore) Create(campaign *models.Campaign) error {
	if campaign.Status == "" {
		campaign.Status = models.CampaignStatusDraft
	}
	if err := s.DB.Create(campaign).Error; err != nil {
		return fmt.Errorf("failed to create campaign: %w", err)
	}
	return nil
}

func (s *CampaignStore) Update(campaign *models.Campaign) error {
	if err := s.DB.Save(campaign).Error; err != nil {
		return fmt.Errorf("failed to update campaign %d: %w", campaign.ID, err)
	}
	return nil
}

// Delete hard-deletes a campaign; leads keep their rows with the campaign
// reference nulled out in the same transaction.
func (s *CampaignStore) Delete(id uint) (int64, error) {
	var deleted int64
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Lead{}).
			Where("campaign_id = ?", id).
			Update("campaign_id", nil).Error; err != nil {
			return err
		}
		result := tx.Delete(&models.Campaign{}, id)
		if result.Error != nil {
			return result.Error
		}
		deleted = result.RowsAffected
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("failed to delete campaign %d: %w", id, err)
	}
	return deleted, nil
}

// ByUser returns all campaigns owned by a user, newest first.
func (s *CampaignStore) ByUser(userID uint) ([]models.Campaign, error) {
	var campaigns []models.Campaign
	if err := s.DB.Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Find(&campaigns).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch user campaigns: %w", err)
	}
	return campaigns, nil
}

// Recent returns the newest campaigns for the dashboard.
func (s *CampaignStore) Recent(userID uint, limit int) ([]models.Campaign, error) {
	var campaigns []models.Campaign
	if err := s.DB.Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&campaigns).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch recent campaigns: %w", err)
	}
	return campaigns, nil
}

// Metrics returns grouped conditional counts and averages over campaigns,
// optionally scoped to one user (0 means all users).
func (s *CampaignStore) Metrics(userID uint) (*CampaignMetrics, error) {
	query := s.DB.Model(&models.Campaign{}).Select(`
		COUNT(*) AS total_campaigns,
		COUNT(CASE WHEN status = 'active' THEN 1 END) AS active_campaigns,
		COUNT(CASE WHEN status = 'paused' THEN 1 END) AS paused_campaigns,
		COUNT(CASE WHEN status = 'completed' THEN 1 END) AS completed_campaigns,
		COALESCE(SUM(total_leads), 0) AS total_leads,
		COALESCE(AVG(response_rate), 0) AS avg_response_rate,
		COALESCE(AVG(conversion_rate), 0) AS avg_conversion_rate`)
	if userID != 0 {
		query = query.Where("user_id = ?", userID)
	}

	var metrics CampaignMetrics
	if err := query.Scan(&metrics).Error; err != nil {
		return nil, fmt.Errorf("failed to compute campaign metrics: %w", err)
	}
	return &metrics, nil
}

// RecomputeStats rebuilds a campaign's cached aggregates from its live lead
// rows and persists them, stamping updated_at. Rates are 0 when the
// campaign has no leads.
func (s *CampaignStore) RecomputeStats(campaignID uint) (*CampaignStats, error) {
	var counts struct {
		TotalLeads     int64
		ContactedLeads int64
		RespondedLeads int64
		ConvertedLeads int64
	}
	err := s.DB.Model(&models.Lead{}).Select(`
		COUNT(*) AS total_leads,
		COUNT(CASE WHEN status = 'contacted' THEN 1 END) AS contacted_leads,
		COUNT(CASE WHEN status = 'responded' THEN 1 END) AS responded_leads,
		COUNT(CASE WHEN status = 'converted' THEN 1 END) AS converted_leads`).
		Where("campaign_id = ?", campaignID).
		Scan(&counts).Error
	if err != nil {
		return nil, fmt.Errorf("failed to count campaign leads: %w", err)
	}

	stats := CampaignStats{
		TotalLeads:     counts.TotalLeads,
		ContactedLeads: counts.ContactedLeads,
		RespondedLeads: counts.RespondedLeads,
		ConvertedLeads: counts.ConvertedLeads,
		ResponseRate:   rate(counts.RespondedLeads, counts.TotalLeads),
		ConversionRate: rate(counts.ConvertedLeads, counts.TotalLeads),
	}

	result := s.DB.Model(&models.Campaign{}).
		Where("id = ?", campaignID).
		Updates(map[string]interface{}{
			"total_leads":     stats.TotalLeads,
			"response_rate":   stats.ResponseRate,
			"conversion_rate": stats.ConversionRate,
			"updated_at":      time.Now(),
		})
	if result.Error != nil {
		return nil, fmt.Errorf("failed to persist campaign stats: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, fmt.Errorf("failed to persist campaign stats: %w", gorm.ErrRecordNotFound)
	}
	return &stats, nil
}

func toCampaignRow(campaign *models.Campaign) CampaignRow {
	row := CampaignRow{
		ID:             campaign.ID,
		Name:           campaign.Name,
		Description:    campaign.Description,
		Status:         campaign.Status,
		TotalLeads:     campaign.TotalLeads,
		ResponseRate:   campaign.ResponseRate,
		ConversionRate: campaign.ConversionRate,
		CreatedAt:      campaign.CreatedAt,
		UpdatedAt:      campaign.UpdatedAt,
	}
	if campaign.User != nil {
		row.User = &UserRef{ID: campaign.User.ID, Name: campaign.User.Name, Email: campaign.User.Email}
	}
	return row
}
