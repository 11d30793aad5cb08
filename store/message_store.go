package store

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"leadboard/models"
)

// MessageFilters narrows message list queries. Search matches the message
// content; type and status are exact-match dimensions.
type MessageFilters struct {
	Search string
	Status string
	Type   string
	LeadID uint
	UserID uint
}

// MessageRow is a message joined with shallow projections of its lead and
// sender.
type MessageRow struct {
	ID        uint       `json:"id"`
	Content   string     `json:"content"`
	Type      string     `json:"type"`
	Status    string     `json:"status"`
	SentAt    time.Time  `json:"sent_at"`
	ReadAt    *time.Time `json:"read_at"`
	CreatedAt time.Time  `json:"created_at"`
	Lead      *LeadRef   `json:"lead"`
	User      *UserRef   `json:"user"`
}

// MessageStats is the aggregate rollup across a set of messages.
type MessageStats struct {
	TotalMessages     int64   `json:"total_messages"`
	SentMessages      int64   `json:"sent_messages"`
	DeliveredMessages int64   `json:"delivered_messages"`
	ReadMessages      int64   `json:"read_messages"`
	RepliedMessages   int64   `json:"replied_messages"`
	OutboundMessages  int64   `json:"outbound_messages"`
	InboundMessages   int64   `json:"inbound_messages"`
	ResponseRate      float64 `json:"response_rate"`
}

var messageSortColumns = map[string]string{
	"id":         "id",
	"type":       "type",
	"status":     "status",
	"sent_at":    "sent_at",
	"read_at":    "read_at",
	"created_at": "created_at",
}

type MessageStore struct {
	DB *gorm.DB
}

func NewMessageStore(db *gorm.DB) *MessageStore {
	return &MessageStore{DB: db}
}

func (s *MessageStore) scoped(f MessageFilters) *gorm.DB {
	query := s.DB.Model(&models.Message{})
	if f.UserID != 0 {
		query = query.Where("user_id = ?", f.UserID)
	}
	if f.LeadID != 0 {
		query = query.Where("lead_id = ?", f.LeadID)
	}
	if f.Search != "" {
		query = query.Where("content LIKE ?", "%"+f.Search+"%")
	}
	if hasFilter(f.Status) {
		query = query.Where("status = ?", f.Status)
	}
	if hasFilter(f.Type) {
		query = query.Where("type = ?", f.Type)
	}
	return query
}

// List returns one page of messages matching the filters plus the total
// count across all pages. Messages default to sent_at ordering.
func (s *MessageStore) List(f MessageFilters, p Pagination) (*Result[MessageRow], error) {
	p = p.normalize()
	order, err := orderClause(messageSortColumns, p, "sent_at")
	if err != nil {
		return nil, err
	}

	var total int64
	if err := s.scoped(f).Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to count messages: %w", err)
	}

	var messages []models.Message
	if err := s.scoped(f).
		Preload("Lead").
		Preload("User").
		Order(order).
		Limit(p.Limit).
		Offset(p.Offset()).
		Find(&messages).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch messages: %w", err)
	}

	rows := make([]MessageRow, 0, len(messages))
	for i := range messages {
		rows = append(rows, toMessageRow(&messages[i]))
	}
	return newResult(rows, total, p), nil
}

// ByID returns the message with its relation projections, or nil when no
// such row exists.
func (s *MessageStore) ByID(id uint) (*MessageRow, error) {
	var message models.Message
	err := s.DB.Preload("Lead").Preload("User").First(&message, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch message %d: %w", id, err)
	}
	row := toMessageRow(&message)
	return &row, nil
}

// Get returns the raw message model for mutation paths.
func (s *MessageStore) Get(id uint) (*models.Message, error) {
	var message models.Message
	err := s.DB.First(&message, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch message %d: %w", id, err)
	}
	return &message, nil
}

func (s *MessageStore) Create(message *models.Message) error {
	if message.Type == "" {
		message.Type = models.MessageTypeOutbound
	}
	if message.Status == "" {
		message.Status = models.MessageStatusSent
	}
	if err := s.DB.Create(message).Error; err != nil {
		return fmt.Errorf("failed to create message: %w", err)
	}
	return nil
}

// Update persists content/status changes. Messages have no updated_at to
// stamp.
func (s *MessageStore) Update(message *models.Message) error {
	if err := s.DB.Save(message).Error; err != nil {
		return fmt.Errorf("failed to update message %d: %w", message.ID, err)
	}
	return nil
}

func (s *MessageStore) Delete(id uint) (int64, error) {
	result := s.DB.Delete(&models.Message{}, id)
	if result.Error != nil {
		return 0, fmt.Errorf("failed to delete message %d: %w", id, result.Error)
	}
	return result.RowsAffected, nil
}

// ByLead returns a lead's conversation, newest first.
func (s *MessageStore) ByLead(leadID uint) ([]MessageRow, error) {
	var messages []models.Message
	if err := s.DB.Preload("User").
		Where("lead_id = ?", leadID).
		Order("sent_at DESC, id DESC").
		Find(&messages).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch lead messages: %w", err)
	}
	rows := make([]MessageRow, 0, len(messages))
	for i := range messages {
		rows = append(rows, toMessageRow(&messages[i]))
	}
	return rows, nil
}

// MarkAsRead flips a message to read and stamps read_at, returning the
// refreshed row. Returns nil when the message does not exist.
func (s *MessageStore) MarkAsRead(id uint) (*models.Message, error) {
	result := s.DB.Model(&models.Message{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":  models.MessageStatusRead,
			"read_at": time.Now(),
		})
	if result.Error != nil {
		return nil, fmt.Errorf("failed to mark message as read: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, nil
	}
	return s.Get(id)
}

// Stats returns grouped conditional counts across messages plus the reply
// rate, optionally scoped to one user (0 means all users).
func (s *MessageStore) Stats(userID uint) (*MessageStats, error) {
	query := s.DB.Model(&models.Message{}).Select(`
		COUNT(*) AS total_messages,
		COUNT(CASE WHEN status = 'sent' THEN 1 END) AS sent_messages,
		COUNT(CASE WHEN status = 'delivered' THEN 1 END) AS delivered_messages,
		COUNT(CASE WHEN status = 'read' THEN 1 END) AS read_messages,
		COUNT(CASE WHEN status = 'replied' THEN 1 END) AS replied_messages,
		COUNT(CASE WHEN type = 'outbound' THEN 1 END) AS outbound_messages,
		COUNT(CASE WHEN type = 'inbound' THEN 1 END) AS inbound_messages`)
	if userID != 0 {
		query = query.Where("user_id = ?", userID)
	}

	var stats MessageStats
	if err := query.Scan(&stats).Error; err != nil {
		return nil, fmt.Errorf("failed to compute message stats: %w", err)
	}
	stats.ResponseRate = rate(stats.RepliedMessages, stats.TotalMessages)
	return &stats, nil
}

func toMessageRow(message *models.Message) MessageRow {
	row := MessageRow{
		ID:        message.ID,
		Content:   message.Content,
		Type:      message.Type,
		Status:    message.Status,
		SentAt:    message.SentAt,
		ReadAt:    message.ReadAt,
		CreatedAt: message.CreatedAt,
	}
	if message.Lead != nil {
		row.Lead = &LeadRef{
			ID:      message.Lead.ID,
			Name:    message.Lead.Name,
			Email:   message.Lead.Email,
			Company: message.Lead.Company,
		}
	}
	if message.User != nil {
		row.User = &UserRef{ID: message.User.ID, Name: message.User.Name, Email: message.User.Email}
	}
	return row
}
