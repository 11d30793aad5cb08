package store

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"leadboard/models"
)

func TestUserByEmail(t *testing.T) {
	db := newTestDB(t)
	createUser(t, db, "present@example.com")
	s := NewUserStore(db)

	user, err := s.ByEmail("present@example.com")
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, "present@example.com", user.Email)

	user, err = s.ByEmail("absent@example.com")
	require.NoError(t, err)
	assert.Nil(t, user)
}

func TestUserStats(t *testing.T) {
	db := newTestDB(t)
	user := createUser(t, db, "owner@example.com")
	noise := createUser(t, db, "noise@example.com")
	s := NewUserStore(db)

	active := createCampaign(t, db, user.ID, "Active", models.CampaignStatusActive)
	createCampaign(t, db, user.ID, "Draft", models.CampaignStatusDraft)
	createCampaign(t, db, noise.ID, "Other", models.CampaignStatusActive)

	createLead(t, db, user.ID, &active.ID, "p1", models.LeadStatusPending)
	createLead(t, db, user.ID, &active.ID, "c1", models.LeadStatusContacted)
	createLead(t, db, user.ID, nil, "r1", models.LeadStatusResponded)
	createLead(t, db, user.ID, nil, "v1", models.LeadStatusConverted)
	lead := createLead(t, db, noise.ID, nil, "foreign", models.LeadStatusPending)

	createMessage(t, db, lead.ID, user.ID, models.MessageTypeOutbound, models.MessageStatusSent, time.Now())
	createMessage(t, db, lead.ID, noise.ID, models.MessageTypeOutbound, models.MessageStatusSent, time.Now())

	createLinkedInAccount(t, db, user.ID, "alpha", models.LinkedInStatusActive)
	createLinkedInAccount(t, db, user.ID, "bravo", models.LinkedInStatusPaused)

	stats, err := s.Stats(user.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), stats.TotalCampaigns)
	assert.Equal(t, int64(1), stats.ActiveCampaigns)
	assert.Equal(t, int64(4), stats.TotalLeads)
	assert.Equal(t, int64(1), stats.PendingLeads)
	assert.Equal(t, int64(1), stats.ContactedLeads)
	assert.Equal(t, int64(1), stats.RespondedLeads)
	assert.Equal(t, int64(1), stats.ConvertedLeads)
	assert.Equal(t, int64(1), stats.TotalMessages)
	assert.Equal(t, int64(2), stats.TotalLinkedInAccounts)
	assert.Equal(t, int64(1), stats.ActiveLinkedInAccounts)
}

func TestUserDashboard(t *testing.T) {
	db := newTestDB(t)
	user := createUser(t, db, "owner@example.com")
	s := NewUserStore(db)

	for i := 0; i < 7; i++ {
		createCampaign(t, db, user.ID, "campaign", models.CampaignStatusActive)
	}
	for i := 0; i < 12; i++ {
		createLead(t, db, user.ID, nil, "lead", models.LeadStatusPending)
	}

	dashboard, err := s.Dashboard(user.ID)
	require.NoError(t, err)
	require.NotNil(t, dashboard.Stats)
	assert.Equal(t, int64(7), dashboard.Stats.TotalCampaigns)
	assert.Len(t, dashboard.RecentCampaigns, 5)
	assert.Len(t, dashboard.RecentLeads, 10)
}

func TestUserDeleteRemovesSessions(t *testing.T) {
	db := newTestDB(t)
	user := createUser(t, db, "owner@example.com")
	campaign := createCampaign(t, db, user.ID, "Kept", models.CampaignStatusActive)
	s := NewUserStore(db)

	session := models.Session{
		UserID:    user.ID,
		Token:     "tok-1",
		ExpiresAt: time.Now().Add(time.Hour),
	}
	require.NoError(t, db.Create(&session).Error)

	deleted, err := s.Delete(user.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)

	var sessions int64
	require.NoError(t, db.Model(&models.Session{}).Where("user_id = ?", user.ID).Count(&sessions).Error)
	assert.Zero(t, sessions)

	// Business rows stay for the books.
	var campaigns int64
	require.NoError(t, db.Model(&models.Campaign{}).Where("id = ?", campaign.ID).Count(&campaigns).Error)
	assert.Equal(t, int64(1), campaigns)
}

func TestUserListFilters(t *testing.T) {
	db := newTestDB(t)
	s := NewUserStore(db)

	admin := createUser(t, db, "admin@example.com")
	admin.Role = "admin"
	require.NoError(t, s.Update(admin))

	inactive := createUser(t, db, "inactive@example.com")
	inactive.IsActive = false
	require.NoError(t, s.Update(inactive))

	createUser(t, db, "regular@example.com")

	result, err := s.List(UserFilters{Role: "admin"}, Pagination{})
	require.NoError(t, err)
	require.Len(t, result.Data, 1)
	assert.Equal(t, "admin@example.com", result.Data[0].Email)

	active := true
	result, err = s.List(UserFilters{IsActive: &active}, Pagination{})
	require.NoError(t, err)
	assert.Equal(t, int64(2), result.Total)

	result, err = s.List(UserFilters{Search: "regular"}, Pagination{})
	require.NoError(t, err)
	require.Len(t, result.Data, 1)
	assert.Equal(t, "regular@example.com", result.Data[0].Email)
}
