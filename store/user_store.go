package store

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"leadboard/models"
)

// UserFilters narrows user list queries. IsActive is tri-state: nil leaves
// the dimension unconstrained.
type UserFilters struct {
	Search   string
	Role     string
	IsActive *bool
}

// UserStats is the per-user dashboard rollup. Each bucket is counted with
// its own query; cross-joining the four child tables inflates every count
// multiplicatively.
type UserStats struct {
	TotalCampaigns         int64 `json:"total_campaigns"`
	ActiveCampaigns        int64 `json:"active_campaigns"`
	TotalLeads             int64 `json:"total_leads"`
	PendingLeads           int64 `json:"pending_leads"`
	ContactedLeads         int64 `json:"contacted_leads"`
	RespondedLeads         int64 `json:"responded_leads"`
	ConvertedLeads         int64 `json:"converted_leads"`
	TotalMessages          int64 `json:"total_messages"`
	TotalLinkedInAccounts  int64 `json:"total_linkedin_accounts"`
	ActiveLinkedInAccounts int64 `json:"active_linkedin_accounts"`
}

// UserDashboard bundles the stats rollup with the recent-activity tables
// shown on the landing page.
type UserDashboard struct {
	Stats           *UserStats        `json:"stats"`
	RecentCampaigns []models.Campaign `json:"recent_campaigns"`
	RecentLeads     []LeadRow         `json:"recent_leads"`
}

var userSortColumns = map[string]string{
	"id":         "id",
	"email":      "email",
	"name":       "name",
	"role":       "role",
	"is_active":  "is_active",
	"created_at": "created_at",
	"updated_at": "updated_at",
}

type UserStore struct {
	DB *gorm.DB
}

func NewUserStore(db *gorm.DB) *UserStore {
	return &UserStore{DB: db}
}

func (s *UserStore) scoped(f UserFilters) *gorm.DB {
	query := s.DB.Model(&models.User{})
	if f.Search != "" {
		like := "%" + f.Search + "%"
		query = query.Where("(name LIKE ? OR email LIKE ?)", like, like)
	}
	if hasFilter(f.Role) {
		query = query.Where("role = ?", f.Role)
	}
	if f.IsActive != nil {
		query = query.Where("is_active = ?", *f.IsActive)
	}
	return query
}

// List returns one page of users matching the filters plus the total count
// across all pages.
func (s *UserStore) List(f UserFilters, p Pagination) (*Result[models.User], error) {
	p = p.normalize()
	order, err := orderClause(userSortColumns, p, "created_at")
	if err != nil {
		return nil, err
	}

	var total int64
	if err := s.scoped(f).Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to count users: %w", err)
	}

	var users []models.User
	if err := s.scoped(f).
		Order(order).
		Limit(p.Limit).
		Offset(p.Offset()).
		Find(&users).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch users: %w", err)
	}
	return newResult(users, total, p), nil
}

// ByID returns the user or nil when no such row exists.
func (s *UserStore) ByID(id uint) (*models.User, error) {
	var user models.User
	err := s.DB.First(&user, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch user %d: %w", id, err)
	}
	return &user, nil
}

// ByEmail returns the user or nil when no such row exists.
func (s *UserStore) ByEmail(email string) (*models.User, error) {
	var user models.User
	err := s.DB.Where("email = ?", email).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch user by email: %w", err)
	}
	return &user, nil
}

func (s *UserStore) Create(user *models.User) error {
	if user.Role == "" {
		user.Role = "user"
	}
	if err := s.DB.Create(user).Error; err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

func (s *UserStore) Update(user *models.User) error {
	if err := s.DB.Save(user).Error; err != nil {
		return fmt.Errorf("failed to update user %d: %w", user.ID, err)
	}
	return nil
}

// Delete hard-deletes a user together with their sessions. Business rows
// (campaigns, leads, messages) are kept, so callers should deactivate
// instead of delete when the history still matters.
func (s *UserStore) Delete(id uint) (int64, error) {
	var deleted int64
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", id).Delete(&models.Session{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&models.User{}, id)
		if result.Error != nil {
			return result.Error
		}
		deleted = result.RowsAffected
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("failed to delete user %d: %w", id, err)
	}
	return deleted, nil
}

// Stats computes the dashboard counters for one user. Each bucket scans
// into its own struct; Scan resets its destination, so sharing one target
// across queries would wipe the earlier counters.
func (s *UserStore) Stats(userID uint) (*UserStats, error) {
	var campaigns struct {
		TotalCampaigns  int64
		ActiveCampaigns int64
	}
	err := s.DB.Model(&models.Campaign{}).Select(`
		COUNT(*) AS total_campaigns,
		COUNT(CASE WHEN status = 'active' THEN 1 END) AS active_campaigns`).
		Where("user_id = ?", userID).
		Scan(&campaigns).Error
	if err != nil {
		return nil, fmt.Errorf("failed to count campaigns: %w", err)
	}

	var leads struct {
		TotalLeads     int64
		PendingLeads   int64
		ContactedLeads int64
		RespondedLeads int64
		ConvertedLeads int64
	}
	err = s.DB.Model(&models.Lead{}).Select(`
		COUNT(*) AS total_leads,
		COUNT(CASE WHEN status = 'pending' THEN 1 END) AS pending_leads,
		COUNT(CASE WHEN status = 'contacted' THEN 1 END) AS contacted_leads,
		COUNT(CASE WHEN status = 'responded' THEN 1 END) AS responded_leads,
		COUNT(CASE WHEN status = 'converted' THEN 1 END) AS converted_leads`).
		Where("user_id = ?", userID).
		Scan(&leads).Error
	if err != nil {
		return nil, fmt.Errorf("failed to count leads: %w", err)
	}

	var totalMessages int64
	err = s.DB.Model(&models.Message{}).
		Where("user_id = ?", userID).
		Count(&totalMessages).Error
	if err != nil {
		return nil, fmt.Errorf("failed to count messages: %w", err)
	}

	var accounts struct {
		TotalLinkedInAccounts  int64
		ActiveLinkedInAccounts int64
	}
	err = s.DB.Model(&models.LinkedInAccount{}).Select(`
		COUNT(*) AS total_linked_in_accounts,
		COUNT(CASE WHEN status = 'active' THEN 1 END) AS active_linked_in_accounts`).
		Where("user_id = ?", userID).
		Scan(&accounts).Error
	if err != nil {
		return nil, fmt.Errorf("failed to count linkedin accounts: %w", err)
	}

	return &UserStats{
		TotalCampaigns:         campaigns.TotalCampaigns,
		ActiveCampaigns:        campaigns.ActiveCampaigns,
		TotalLeads:             leads.TotalLeads,
		PendingLeads:           leads.PendingLeads,
		ContactedLeads:         leads.ContactedLeads,
		RespondedLeads:         leads.RespondedLeads,
		ConvertedLeads:         leads.ConvertedLeads,
		TotalMessages:          totalMessages,
		TotalLinkedInAccounts:  accounts.TotalLinkedInAccounts,
		ActiveLinkedInAccounts: accounts.ActiveLinkedInAccounts,
	}, nil
}

// Dashboard bundles the stats rollup with the user's newest campaigns and
// leads.
func (s *UserStore) Dashboard(userID uint) (*UserDashboard, error) {
	stats, err := s.Stats(userID)
	if err != nil {
		return nil, err
	}
	campaigns, err := NewCampaignStore(s.DB).Recent(userID, 5)
	if err != nil {
		return nil, err
	}
	leads, err := NewLeadStore(s.DB).Recent(userID, 10)
	if err != nil {
		return nil, err
	}
	return &UserDashboard{
		Stats:           stats,
		RecentCampaigns: campaigns,
		RecentLeads:     leads,
	}, nil
}
