package store

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"leadboard/models"
)

func createLinkedInAccount(t *testing.T, db *gorm.DB, userID uint, name, status string) *models.LinkedInAccount {
	t.Helper()
	account := &models.LinkedInAccount{
		UserID: userID,
		Name:   name,
		Email:  name + "@example.com",
		Status: status,
	}
	require.NoError(t, db.Create(account).Error)
	return account
}

func TestLinkedInUpdateStatsPartial(t *testing.T) {
	db := newTestDB(t)
	user := createUser(t, db, "owner@example.com")
	s := NewLinkedInStore(db)

	account := createLinkedInAccount(t, db, user.ID, "sales-bot", models.LinkedInStatusActive)
	require.NoError(t, db.Model(account).Updates(map[string]interface{}{
		"connections":   100,
		"messages_sent": 40,
		"response_rate": 25.0,
	}).Error)

	// Only the provided counter moves; the rest stay put.
	connections := 150
	updated, err := s.UpdateStats(account.ID, LinkedInStatsUpdate{Connections: &connections})
	require.NoError(t, err)
	assert.Equal(t, 150, updated.Connections)
	assert.Equal(t, 40, updated.MessagesSent)
	assert.InDelta(t, 25.0, updated.ResponseRate, 0.001)

	lastActivity := time.Now()
	rate := 33.3
	updated, err = s.UpdateStats(account.ID, LinkedInStatsUpdate{ResponseRate: &rate, LastActivity: &lastActivity})
	require.NoError(t, err)
	assert.InDelta(t, 33.3, updated.ResponseRate, 0.001)
	require.NotNil(t, updated.LastActivity)
	assert.Equal(t, 150, updated.Connections)
}

func TestLinkedInUpdateStatsMissing(t *testing.T) {
	db := newTestDB(t)
	s := NewLinkedInStore(db)

	connections := 1
	_, err := s.UpdateStats(999, LinkedInStatsUpdate{Connections: &connections})
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestLinkedInStats(t *testing.T) {
	db := newTestDB(t)
	user := createUser(t, db, "owner@example.com")
	s := NewLinkedInStore(db)

	a := createLinkedInAccount(t, db, user.ID, "alpha", models.LinkedInStatusActive)
	b := createLinkedInAccount(t, db, user.ID, "bravo", models.LinkedInStatusPaused)
	createLinkedInAccount(t, db, user.ID, "charlie", models.LinkedInStatusError)

	require.NoError(t, db.Model(a).Updates(map[string]interface{}{
		"connections": 200, "messages_sent": 80, "response_rate": 30.0,
	}).Error)
	require.NoError(t, db.Model(b).Updates(map[string]interface{}{
		"connections": 100, "messages_sent": 20, "response_rate": 10.0,
	}).Error)

	stats, err := s.Stats(user.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(3), stats.TotalAccounts)
	assert.Equal(t, int64(1), stats.ActiveAccounts)
	assert.Equal(t, int64(1), stats.PausedAccounts)
	assert.Equal(t, int64(1), stats.ErrorAccounts)
	assert.Equal(t, int64(300), stats.TotalConnections)
	assert.Equal(t, int64(100), stats.TotalMessagesSent)
	assert.InDelta(t, 40.0/3.0, stats.AvgResponseRate, 0.001)
}

func TestLinkedInListFilters(t *testing.T) {
	db := newTestDB(t)
	user := createUser(t, db, "owner@example.com")
	s := NewLinkedInStore(db)

	createLinkedInAccount(t, db, user.ID, "alpha", models.LinkedInStatusActive)
	createLinkedInAccount(t, db, user.ID, "bravo", models.LinkedInStatusPaused)

	result, err := s.List(LinkedInFilters{UserID: user.ID, Status: models.LinkedInStatusActive}, Pagination{})
	require.NoError(t, err)
	require.Len(t, result.Data, 1)
	assert.Equal(t, "alpha", result.Data[0].Name)

	all, err := s.List(LinkedInFilters{UserID: user.ID, Status: FilterAll}, Pagination{})
	require.NoError(t, err)
	assert.Equal(t, int64(2), all.Total)
}

func TestLinkedInCreateDefaults(t *testing.T) {
	db := newTestDB(t)
	user := createUser(t, db, "owner@example.com")
	s := NewLinkedInStore(db)

	account := &models.LinkedInAccount{UserID: user.ID, Name: "fresh", Email: "fresh@example.com"}
	require.NoError(t, s.Create(account))
	assert.Equal(t, models.LinkedInStatusActive, account.Status)
	assert.Zero(t, account.Connections)
}
