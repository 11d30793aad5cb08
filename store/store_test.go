package store

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"leadboard/models"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	// A single connection keeps every query on the same in-memory database.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Session{},
		&models.Campaign{},
		&models.Lead{},
		&models.Message{},
		&models.LinkedInAccount{},
		&models.ActivityLog{},
	))
	return db
}

func createUser(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()
	user := &models.User{
		Name:         "Test User",
		Email:        email,
		PasswordHash: "x",
		Role:         "user",
		IsActive:     true,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func createCampaign(t *testing.T, db *gorm.DB, userID uint, name, status string) *models.Campaign {
	t.Helper()
	campaign := &models.Campaign{
		UserID: userID,
		Name:   name,
		Status: status,
	}
	require.NoError(t, db.Create(campaign).Error)
	return campaign
}

func createLead(t *testing.T, db *gorm.DB, userID uint, campaignID *uint, name, status string) *models.Lead {
	t.Helper()
	lead := &models.Lead{
		Name:       name,
		Email:      name + "@example.com",
		Company:    "Acme",
		Source:     "Website",
		Status:     status,
		CampaignID: campaignID,
		UserID:     userID,
	}
	require.NoError(t, db.Create(lead).Error)
	return lead
}

func TestPaginationNormalize(t *testing.T) {
	p := Pagination{}.normalize()
	require.Equal(t, 1, p.Page)
	require.Equal(t, defaultLimit, p.Limit)
	require.Equal(t, SortDesc, p.SortOrder)

	p = Pagination{Page: -3, Limit: 500, SortOrder: "asc"}.normalize()
	require.Equal(t, 1, p.Page)
	require.Equal(t, maxLimit, p.Limit)
	require.Equal(t, SortAsc, p.SortOrder)
}

func TestOrderClause(t *testing.T) {
	columns := map[string]string{"name": "name", "created_at": "created_at"}

	order, err := orderClause(columns, Pagination{SortBy: "name", SortOrder: SortAsc}.normalize(), "created_at")
	require.NoError(t, err)
	require.Equal(t, "name ASC, id ASC", order)

	order, err = orderClause(columns, Pagination{}.normalize(), "created_at")
	require.NoError(t, err)
	require.Equal(t, "created_at DESC, id DESC", order)

	_, err = orderClause(columns, Pagination{SortBy: "password_hash"}.normalize(), "created_at")
	require.ErrorIs(t, err, ErrInvalidSortField)
}

func TestRate(t *testing.T) {
	require.Equal(t, float64(0), rate(0, 0))
	require.Equal(t, float64(0), rate(5, 0))
	require.Equal(t, float64(50), rate(1, 2))
	require.Equal(t, float64(100), rate(4, 4))
}

func TestHasFilter(t *testing.T) {
	require.False(t, hasFilter(""))
	require.False(t, hasFilter(FilterAll))
	require.True(t, hasFilter("active"))
}
