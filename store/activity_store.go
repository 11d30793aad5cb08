package store

import (
	"fmt"

	"gorm.io/gorm"

	"leadboard/models"
)

// ActivityFilters narrows activity feed queries.
type ActivityFilters struct {
	Search string
	Action string
	UserID uint
}

var activitySortColumns = map[string]string{
	"id":         "id",
	"action":     "action",
	"created_at": "created_at",
}

// ActivityStore appends and lists audit rows. Logs are append-only: there
// is no update path.
type ActivityStore struct {
	DB *gorm.DB
}

func NewActivityStore(db *gorm.DB) *ActivityStore {
	return &ActivityStore{DB: db}
}

func (s *ActivityStore) scoped(f ActivityFilters) *gorm.DB {
	query := s.DB.Model(&models.ActivityLog{})
	if f.UserID != 0 {
		query = query.Where("user_id = ?", f.UserID)
	}
	if f.Search != "" {
		query = query.Where("description LIKE ?", "%"+f.Search+"%")
	}
	if hasFilter(f.Action) {
		query = query.Where("action = ?", f.Action)
	}
	return query
}

// List returns one page of the activity feed, newest first by default.
func (s *ActivityStore) List(f ActivityFilters, p Pagination) (*Result[models.ActivityLog], error) {
	p = p.normalize()
	order, err := orderClause(activitySortColumns, p, "created_at")
	if err != nil {
		return nil, err
	}

	var total int64
	if err := s.scoped(f).Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to count activity logs: %w", err)
	}

	var logs []models.ActivityLog
	if err := s.scoped(f).
		Order(order).
		Limit(p.Limit).
		Offset(p.Offset()).
		Find(&logs).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch activity logs: %w", err)
	}
	return newResult(logs, total, p), nil
}

// Record appends an audit row. Failures here must not fail the calling
// mutation, so errors are returned for logging rather than propagation.
func (s *ActivityStore) Record(userID uint, action, description string, metadata map[string]interface{}) error {
	log := models.ActivityLog{
		UserID:      userID,
		Action:      action,
		Description: description,
		Metadata:    metadata,
	}
	if err := s.DB.Create(&log).Error; err != nil {
		return fmt.Errorf("failed to record activity: %w", err)
	}
	return nil
}
