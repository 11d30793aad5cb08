package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"leadboard/models"
)

func TestCampaignRecomputeStats(t *testing.T) {
	db := newTestDB(t)
	user := createUser(t, db, "owner@example.com")
	campaign := createCampaign(t, db, user.ID, "Q3 Outreach", models.CampaignStatusActive)
	s := NewCampaignStore(db)

	for i := 0; i < 4; i++ {
		createLead(t, db, user.ID, &campaign.ID, "pending", models.LeadStatusPending)
	}
	createLead(t, db, user.ID, &campaign.ID, "contacted", models.LeadStatusContacted)
	createLead(t, db, user.ID, &campaign.ID, "responded-a", models.LeadStatusResponded)
	createLead(t, db, user.ID, &campaign.ID, "responded-b", models.LeadStatusResponded)
	createLead(t, db, user.ID, &campaign.ID, "converted", models.LeadStatusConverted)

	stats, err := s.RecomputeStats(campaign.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(8), stats.TotalLeads)
	assert.Equal(t, int64(1), stats.ContactedLeads)
	assert.Equal(t, int64(2), stats.RespondedLeads)
	assert.Equal(t, int64(1), stats.ConvertedLeads)
	assert.InDelta(t, 25.0, stats.ResponseRate, 0.001)
	assert.InDelta(t, 12.5, stats.ConversionRate, 0.001)

	// The cached columns were persisted.
	fresh, err := s.Get(campaign.ID)
	require.NoError(t, err)
	assert.Equal(t, 8, fresh.TotalLeads)
	assert.InDelta(t, 25.0, fresh.ResponseRate, 0.001)
}

func TestCampaignRecomputeStatsNoLeads(t *testing.T) {
	db := newTestDB(t)
	user := createUser(t, db, "owner@example.com")
	campaign := createCampaign(t, db, user.ID, "Empty", models.CampaignStatusDraft)
	s := NewCampaignStore(db)

	stats, err := s.RecomputeStats(campaign.ID)
	require.NoError(t, err)
	assert.Zero(t, stats.TotalLeads)
	assert.Zero(t, stats.ResponseRate)
	assert.Zero(t, stats.ConversionRate)
}

func TestCampaignRecomputeStatsMissingCampaign(t *testing.T) {
	db := newTestDB(t)
	s := NewCampaignStore(db)

	_, err := s.RecomputeStats(999)
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestCampaignMetrics(t *testing.T) {
	db := newTestDB(t)
	user := createUser(t, db, "owner@example.com")
	s := NewCampaignStore(db)

	a := createCampaign(t, db, user.ID, "A", models.CampaignStatusActive)
	b := createCampaign(t, db, user.ID, "B", models.CampaignStatusPaused)
	createCampaign(t, db, user.ID, "C", models.CampaignStatusCompleted)

	require.NoError(t, db.Model(a).Updates(map[string]interface{}{"total_leads": 10, "response_rate": 40.0}).Error)
	require.NoError(t, db.Model(b).Updates(map[string]interface{}{"total_leads": 6, "response_rate": 20.0}).Error)

	metrics, err := s.Metrics(user.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(3), metrics.TotalCampaigns)
	assert.Equal(t, int64(1), metrics.ActiveCampaigns)
	assert.Equal(t, int64(1), metrics.PausedCampaigns)
	assert.Equal(t, int64(1), metrics.CompletedCampaigns)
	assert.Equal(t, int64(16), metrics.TotalLeads)
	assert.InDelta(t, 20.0, metrics.AvgResponseRate, 0.001)
}

func TestCampaignMetricsEmpty(t *testing.T) {
	db := newTestDB(t)
	s := NewCampaignStore(db)

	metrics, err := s.Metrics(42)
	require.NoError(t, err)
	assert.Zero(t, metrics.TotalCampaigns)
	assert.Zero(t, metrics.TotalLeads)
	assert.Zero(t, metrics.AvgResponseRate)
}

func TestCampaignInactiveFilter(t *testing.T) {
	db := newTestDB(t)
	user := createUser(t, db, "owner@example.com")
	s := NewCampaignStore(db)

	createCampaign(t, db, user.ID, "A", models.CampaignStatusActive)
	createCampaign(t, db, user.ID, "B", models.CampaignStatusPaused)
	createCampaign(t, db, user.ID, "C", models.CampaignStatusCompleted)
	createCampaign(t, db, user.ID, "D", models.CampaignStatusDraft)

	result, err := s.List(CampaignFilters{UserID: user.ID, Status: CampaignStatusInactive}, Pagination{})
	require.NoError(t, err)
	assert.Equal(t, int64(2), result.Total)
	for _, row := range result.Data {
		assert.Contains(t, []string{models.CampaignStatusPaused, models.CampaignStatusCompleted}, row.Status)
	}
}

func TestCampaignDeleteDetachesLeads(t *testing.T) {
	db := newTestDB(t)
	user := createUser(t, db, "owner@example.com")
	campaign := createCampaign(t, db, user.ID, "Doomed", models.CampaignStatusActive)
	lead := createLead(t, db, user.ID, &campaign.ID, "survivor", models.LeadStatusPending)
	s := NewCampaignStore(db)

	deleted, err := s.Delete(campaign.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)

	var fresh models.Lead
	require.NoError(t, db.First(&fresh, lead.ID).Error)
	assert.Nil(t, fresh.CampaignID)
}
