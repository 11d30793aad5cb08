package store

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"leadboard/models"
)

// LinkedInFilters narrows LinkedIn account list queries.
type LinkedInFilters struct {
	Search string
	Status string
	UserID uint
}

// LinkedInAccountRow is a LinkedIn account joined with a shallow projection
// of its owner.
type LinkedInAccountRow struct {
	ID           uint       `json:"id"`
	Name         string     `json:"name"`
	Email        string     `json:"email"`
	ProfileURL   string     `json:"profile_url"`
	Status       string     `json:"status"`
	Connections  int        `json:"connections"`
	MessagesSent int        `json:"messages_sent"`
	ResponseRate float64    `json:"response_rate"`
	LastActivity *time.Time `json:"last_activity"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
	User         *UserRef   `json:"user"`
}

// LinkedInAccountStats is the aggregate rollup across a set of accounts.
type LinkedInAccountStats struct {
	TotalAccounts     int64   `json:"total_accounts"`
	ActiveAccounts    int64   `json:"active_accounts"`
	PausedAccounts    int64   `json:"paused_accounts"`
	ErrorAccounts     int64   `json:"error_accounts"`
	TotalConnections  int64   `json:"total_connections"`
	TotalMessagesSent int64   `json:"total_messages_sent"`
	AvgResponseRate   float64 `json:"avg_response_rate"`
}

// LinkedInStatsUpdate is a partial write of an account's cached counters;
// nil fields are left untouched.
type LinkedInStatsUpdate struct {
	Connections  *int
	MessagesSent *int
	ResponseRate *float64
	LastActivity *time.Time
}

var linkedInSortColumns = map[string]string{
	"id":            "id",
	"name":          "name",
	"email":         "email",
	"status":        "status",
	"connections":   "connections",
	"messages_sent": "messages_sent",
	"response_rate": "response_rate",
	"last_activity": "last_activity",
	"created_at":    "created_at",
	"updated_at":    "updated_at",
}

type LinkedInStore struct {
	DB *gorm.DB
}

func NewLinkedInStore(db *gorm.DB) *LinkedInStore {
	return &LinkedInStore{DB: db}
}

func (s *LinkedInStore) scoped(f LinkedInFilters) *gorm.DB {
	query := s.DB.Model(&models.LinkedInAccount{})
	if f.UserID != 0 {
		query = query.Where("user_id = ?", f.UserID)
	}
	if f.Search != "" {
		like := "%" + f.Search + "%"
		query = query.Where("(name LIKE ? OR email LIKE ?)", like, like)
	}
	if hasFilter(f.Status) {
		query = query.Where("status = ?", f.Status)
	}
	return query
}

// List returns one page of accounts matching the filters plus the total
// count across all pages.
func (s *LinkedInStore) List(f LinkedInFilters, p Pagination) (*Result[LinkedInAccountRow], error) {
	p = p.normalize()
	order, err := orderClause(linkedInSortColumns, p, "created_at")
	if err != nil {
		return nil, err
	}

	var total int64
	if err := s.scoped(f).Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to count linkedin accounts: %w", err)
	}

	var accounts []models.LinkedInAccount
	if err := s.scoped(f).
		Preload("User").
		Order(order).
		Limit(p.Limit).
		Offset(p.Offset()).
		Find(&accounts).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch linkedin accounts: %w", err)
	}

	rows := make([]LinkedInAccountRow, 0, len(accounts))
	for i := range accounts {
		rows = append(rows, toLinkedInRow(&accounts[i]))
	}
	return newResult(rows, total, p), nil
}

// ByID returns the account with its owner projection, or nil when no such
// row exists.
func (s *LinkedInStore) ByID(id uint) (*LinkedInAccountRow, error) {
	var account models.LinkedInAccount
	err := s.DB.Preload("User").First(&account, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch linkedin account %d: %w", id, err)
	}
	row := toLinkedInRow(&account)
	return &row, nil
}

// Get returns the raw account model for mutation paths.
func (s *LinkedInStore) Get(id uint) (*models.LinkedInAccount, error) {
	var account models.LinkedInAccount
	err := s.DB.First(&account, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch linkedin account %d: %w", id, err)
	}
	return &account, nil
}

func (s *LinkedInStore) Create(account *models.LinkedInAccount) error {
	if account.Status == "" {
		account.Status = models.LinkedInStatusActive
	}
	if err := s.DB.Create(account).Error; err != nil {
		return fmt.Errorf("failed to create linkedin account: %w", err)
	}
	return nil
}

func (s *LinkedInStore) Update(account *models.LinkedInAccount) error {
	if err := s.DB.Save(account).Error; err != nil {
		return fmt.Errorf("failed to update linkedin account %d: %w", account.ID, err)
	}
	return nil
}

func (s *LinkedInStore) Delete(id uint) (int64, error) {
	result := s.DB.Delete(&models.LinkedInAccount{}, id)
	if result.Error != nil {
		return 0, fmt.Errorf("failed to delete linkedin account %d: %w", id, result.Error)
	}
	return result.RowsAffected, nil
}

// ByUser returns all accounts owned by a user, newest first.
func (s *LinkedInStore) ByUser(userID uint) ([]models.LinkedInAccount, error) {
	var accounts []models.LinkedInAccount
	if err := s.DB.Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Find(&accounts).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch user linkedin accounts: %w", err)
	}
	return accounts, nil
}

// Stats returns grouped conditional counts and sums across accounts,
// optionally scoped to one user (0 means all users).
func (s *LinkedInStore) Stats(userID uint) (*LinkedInAccountStats, error) {
	query := s.DB.Model(&models.LinkedInAccount{}).Select(`
		COUNT(*) AS total_accounts,
		COUNT(CASE WHEN status = 'active' THEN 1 END) AS active_accounts,
		COUNT(CASE WHEN status = 'paused' THEN 1 END) AS paused_accounts,
		COUNT(CASE WHEN status = 'error' THEN 1 END) AS error_accounts,
		COALESCE(SUM(connections), 0) AS total_connections,
		COALESCE(SUM(messages_sent), 0) AS total_messages_sent,
		COALESCE(AVG(response_rate), 0) AS avg_response_rate`)
	if userID != 0 {
		query = query.Where("user_id = ?", userID)
	}

	var stats LinkedInAccountStats
	if err := query.Scan(&stats).Error; err != nil {
		return nil, fmt.Errorf("failed to compute linkedin account stats: %w", err)
	}
	return &stats, nil
}

// UpdateStats writes the non-nil cached counters onto an account, stamping
// updated_at, and returns the refreshed row.
func (s *LinkedInStore) UpdateStats(id uint, update LinkedInStatsUpdate) (*models.LinkedInAccount, error) {
	fields := map[string]interface{}{"updated_at": time.Now()}
	if update.Connections != nil {
		fields["connections"] = *update.Connections
	}
	if update.MessagesSent != nil {
		fields["messages_sent"] = *update.MessagesSent
	}
	if update.ResponseRate != nil {
		fields["response_rate"] = *update.ResponseRate
	}
	if update.LastActivity != nil {
		fields["last_activity"] = *update.LastActivity
	}

	result := s.DB.Model(&models.LinkedInAccount{}).Where("id = ?", id).Updates(fields)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to update linkedin account stats: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, fmt.Errorf("failed to update linkedin account stats: %w", gorm.ErrRecordNotFound)
	}
	return s.Get(id)
}

func toLinkedInRow(account *models.LinkedInAccount) LinkedInAccountRow {
	row := LinkedInAccountRow{
		ID:           account.ID,
		Name:         account.Name,
		Email:        account.Email,
		ProfileURL:   account.ProfileURL,
		Status:       account.Status,
		Connections:  account.Connections,
		MessagesSent: account.MessagesSent,
		ResponseRate: account.ResponseRate,
		LastActivity: account.LastActivity,
		CreatedAt:    account.CreatedAt,
		UpdatedAt:    account.UpdatedAt,
	}
	if account.User != nil {
		row.User = &UserRef{ID: account.User.ID, Name: account.User.Name, Email: account.User.Email}
	}
	return row
}
