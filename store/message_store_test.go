package store

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"leadboard/models"
)

func createMessage(t *testing.T, db *gorm.DB, leadID, userID uint, msgType, status string, sentAt time.Time) *models.Message {
	t.Helper()
	message := &models.Message{
		LeadID:  leadID,
		UserID:  userID,
		Content: "hello there",
		Type:    msgType,
		Status:  status,
		SentAt:  sentAt,
	}
	require.NoError(t, db.Create(message).Error)
	return message
}

func TestMessageMarkAsRead(t *testing.T) {
	db := newTestDB(t)
	user := createUser(t, db, "owner@example.com")
	lead := createLead(t, db, user.ID, nil, "alice", models.LeadStatusContacted)
	s := NewMessageStore(db)

	message := createMessage(t, db, lead.ID, user.ID, models.MessageTypeInbound, models.MessageStatusDelivered, time.Now())

	updated, err := s.MarkAsRead(message.ID)
	require.NoError(t, err)
	require.NotNil(t, updated)
	assert.Equal(t, models.MessageStatusRead, updated.Status)
	require.NotNil(t, updated.ReadAt)
	assert.WithinDuration(t, time.Now(), *updated.ReadAt, time.Minute)

	// Missing rows are a nil result, not an error.
	updated, err = s.MarkAsRead(999)
	require.NoError(t, err)
	assert.Nil(t, updated)
}

func TestMessageStats(t *testing.T) {
	db := newTestDB(t)
	user := createUser(t, db, "owner@example.com")
	lead := createLead(t, db, user.ID, nil, "alice", models.LeadStatusContacted)
	s := NewMessageStore(db)

	now := time.Now()
	createMessage(t, db, lead.ID, user.ID, models.MessageTypeOutbound, models.MessageStatusSent, now)
	createMessage(t, db, lead.ID, user.ID, models.MessageTypeOutbound, models.MessageStatusDelivered, now)
	createMessage(t, db, lead.ID, user.ID, models.MessageTypeOutbound, models.MessageStatusReplied, now)
	createMessage(t, db, lead.ID, user.ID, models.MessageTypeInbound, models.MessageStatusRead, now)

	stats, err := s.Stats(user.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(4), stats.TotalMessages)
	assert.Equal(t, int64(1), stats.SentMessages)
	assert.Equal(t, int64(1), stats.DeliveredMessages)
	assert.Equal(t, int64(1), stats.ReadMessages)
	assert.Equal(t, int64(1), stats.RepliedMessages)
	assert.Equal(t, int64(3), stats.OutboundMessages)
	assert.Equal(t, int64(1), stats.InboundMessages)
	assert.InDelta(t, 25.0, stats.ResponseRate, 0.001)
}

func TestMessageStatsEmpty(t *testing.T) {
	db := newTestDB(t)
	s := NewMessageStore(db)

	stats, err := s.Stats(42)
	require.NoError(t, err)
	assert.Zero(t, stats.TotalMessages)
	assert.Zero(t, stats.ResponseRate)
}

func TestMessageListDefaultOrder(t *testing.T) {
	db := newTestDB(t)
	user := createUser(t, db, "owner@example.com")
	lead := createLead(t, db, user.ID, nil, "alice", models.LeadStatusContacted)
	s := NewMessageStore(db)

	base := time.Now().Add(-time.Hour)
	oldest := createMessage(t, db, lead.ID, user.ID, models.MessageTypeOutbound, models.MessageStatusSent, base)
	newest := createMessage(t, db, lead.ID, user.ID, models.MessageTypeOutbound, models.MessageStatusSent, base.Add(30*time.Minute))

	result, err := s.List(MessageFilters{UserID: user.ID}, Pagination{})
	require.NoError(t, err)
	require.Len(t, result.Data, 2)
	assert.Equal(t, newest.ID, result.Data[0].ID)
	assert.Equal(t, oldest.ID, result.Data[1].ID)
	require.NotNil(t, result.Data[0].Lead)
	assert.Equal(t, "alice", result.Data[0].Lead.Name)
}

func TestMessageByLead(t *testing.T) {
	db := newTestDB(t)
	user := createUser(t, db, "owner@example.com")
	alice := createLead(t, db, user.ID, nil, "alice", models.LeadStatusContacted)
	bob := createLead(t, db, user.ID, nil, "bob", models.LeadStatusContacted)
	s := NewMessageStore(db)

	now := time.Now()
	createMessage(t, db, alice.ID, user.ID, models.MessageTypeOutbound, models.MessageStatusSent, now)
	createMessage(t, db, alice.ID, user.ID, models.MessageTypeInbound, models.MessageStatusRead, now.Add(time.Minute))
	createMessage(t, db, bob.ID, user.ID, models.MessageTypeOutbound, models.MessageStatusSent, now)

	conversation, err := s.ByLead(alice.ID)
	require.NoError(t, err)
	require.Len(t, conversation, 2)
	assert.Equal(t, models.MessageTypeInbound, conversation[0].Type)
}

func TestMessageUpdate(t *testing.T) {
	db := newTestDB(t)
	user := createUser(t, db, "owner@example.com")
	lead := createLead(t, db, user.ID, nil, "alice", models.LeadStatusContacted)
	s := NewMessageStore(db)

	message := createMessage(t, db, lead.ID, user.ID, models.MessageTypeOutbound, models.MessageStatusSent, time.Now())

	message.Content = "edited"
	message.Status = models.MessageStatusDelivered
	require.NoError(t, s.Update(message))

	fresh, err := s.Get(message.ID)
	require.NoError(t, err)
	require.NotNil(t, fresh)
	assert.Equal(t, "edited", fresh.Content)
	assert.Equal(t, models.MessageStatusDelivered, fresh.Status)
	assert.Nil(t, fresh.ReadAt)
}

func TestMessageSentAtDefault(t *testing.T) {
	db := newTestDB(t)
	user := createUser(t, db, "owner@example.com")
	lead := createLead(t, db, user.ID, nil, "alice", models.LeadStatusContacted)
	s := NewMessageStore(db)

	message := &models.Message{LeadID: lead.ID, UserID: user.ID, Content: "hi"}
	require.NoError(t, s.Create(message))
	assert.False(t, message.SentAt.IsZero())
	assert.Equal(t, models.MessageTypeOutbound, message.Type)
	assert.Equal(t, models.MessageStatusSent, message.Status)
}
