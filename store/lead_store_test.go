package store

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"leadboard/models"
)

func TestLeadListPagination(t *testing.T) {
	db := newTestDB(t)
	user := createUser(t, db, "owner@example.com")
	s := NewLeadStore(db)

	for i := 0; i < 25; i++ {
		createLead(t, db, user.ID, nil, fmt.Sprintf("lead-%02d", i), models.LeadStatusPending)
	}

	filters := LeadFilters{UserID: user.ID}

	var seen int
	for page := 1; page <= 3; page++ {
		result, err := s.List(filters, Pagination{Page: page, Limit: 10})
		require.NoError(t, err)
		assert.Equal(t, int64(25), result.Total)
		assert.Equal(t, 3, result.TotalPages)
		seen += len(result.Data)

		if page < 3 {
			assert.Len(t, result.Data, 10)
			require.NotNil(t, result.NextPage)
			assert.Equal(t, page+1, *result.NextPage)
			assert.True(t, result.HasMore)
		} else {
			assert.Len(t, result.Data, 5)
			assert.Nil(t, result.NextPage)
			assert.False(t, result.HasMore)
		}
	}
	assert.Equal(t, 25, seen)

	// Past the last page: empty data, same total.
	result, err := s.List(filters, Pagination{Page: 4, Limit: 10})
	require.NoError(t, err)
	assert.Empty(t, result.Data)
	assert.NotNil(t, result.Data)
	assert.Equal(t, int64(25), result.Total)
	assert.False(t, result.HasMore)
}

func TestLeadListFilters(t *testing.T) {
	db := newTestDB(t)
	user := createUser(t, db, "owner@example.com")
	other := createUser(t, db, "other@example.com")
	campaign := createCampaign(t, db, user.ID, "Q3 Outreach", models.CampaignStatusActive)
	s := NewLeadStore(db)

	createLead(t, db, user.ID, &campaign.ID, "alice", models.LeadStatusContacted)
	createLead(t, db, user.ID, nil, "bob", models.LeadStatusPending)
	createLead(t, db, other.ID, nil, "carol", models.LeadStatusContacted)

	// "all" is equivalent to no status constraint.
	all, err := s.List(LeadFilters{UserID: user.ID, Status: FilterAll}, Pagination{})
	require.NoError(t, err)
	none, err := s.List(LeadFilters{UserID: user.ID}, Pagination{})
	require.NoError(t, err)
	assert.Equal(t, none.Total, all.Total)
	assert.Equal(t, int64(2), all.Total)

	// Status and campaign dimensions AND together.
	result, err := s.List(LeadFilters{UserID: user.ID, Status: models.LeadStatusContacted, CampaignID: campaign.ID}, Pagination{})
	require.NoError(t, err)
	require.Len(t, result.Data, 1)
	assert.Equal(t, "alice", result.Data[0].Name)
	require.NotNil(t, result.Data[0].Campaign)
	assert.Equal(t, "Q3 Outreach", result.Data[0].Campaign.Name)

	// Search matches name, email or company.
	result, err = s.List(LeadFilters{UserID: user.ID, Search: "bob@"}, Pagination{})
	require.NoError(t, err)
	require.Len(t, result.Data, 1)
	assert.Equal(t, "bob", result.Data[0].Name)

	result, err = s.List(LeadFilters{UserID: user.ID, Search: "Acme"}, Pagination{})
	require.NoError(t, err)
	assert.Equal(t, int64(2), result.Total)
}

func TestLeadListSorting(t *testing.T) {
	db := newTestDB(t)
	user := createUser(t, db, "owner@example.com")
	s := NewLeadStore(db)

	// Equal sort keys page deterministically thanks to the id tie-break.
	createLead(t, db, user.ID, nil, "same", models.LeadStatusPending)
	createLead(t, db, user.ID, nil, "same", models.LeadStatusPending)
	createLead(t, db, user.ID, nil, "aardvark", models.LeadStatusPending)

	result, err := s.List(LeadFilters{UserID: user.ID}, Pagination{SortBy: "name", SortOrder: SortAsc})
	require.NoError(t, err)
	require.Len(t, result.Data, 3)
	assert.Equal(t, "aardvark", result.Data[0].Name)
	assert.Equal(t, "same", result.Data[1].Name)
	assert.Less(t, result.Data[1].ID, result.Data[2].ID)

	// Unknown sort keys are rejected, not silently defaulted.
	_, err = s.List(LeadFilters{UserID: user.ID}, Pagination{SortBy: "password_hash"})
	require.ErrorIs(t, err, ErrInvalidSortField)
}

func TestLeadCRUD(t *testing.T) {
	db := newTestDB(t)
	user := createUser(t, db, "owner@example.com")
	s := NewLeadStore(db)

	lead := &models.Lead{
		Name:    "dana",
		Email:   "dana@example.com",
		Company: "Initech",
		Source:  "Referral",
		UserID:  user.ID,
	}
	require.NoError(t, s.Create(lead))
	assert.Equal(t, models.LeadStatusPending, lead.Status)

	row, err := s.ByID(lead.ID)
	require.NoError(t, err)
	require.NotNil(t, row)
	assert.Equal(t, "dana", row.Name)
	assert.Nil(t, row.Campaign)
	require.NotNil(t, row.User)
	assert.Equal(t, user.ID, row.User.ID)

	lead.Status = models.LeadStatusResponded
	require.NoError(t, s.Update(lead))
	row, err = s.ByID(lead.ID)
	require.NoError(t, err)
	assert.Equal(t, models.LeadStatusResponded, row.Status)

	deleted, err := s.Delete(lead.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)

	row, err = s.ByID(lead.ID)
	require.NoError(t, err)
	assert.Nil(t, row)

	deleted, err = s.Delete(lead.ID)
	require.NoError(t, err)
	assert.Zero(t, deleted)
}

func TestLeadRecent(t *testing.T) {
	db := newTestDB(t)
	user := createUser(t, db, "owner@example.com")
	s := NewLeadStore(db)

	for i := 0; i < 12; i++ {
		createLead(t, db, user.ID, nil, fmt.Sprintf("lead-%02d", i), models.LeadStatusPending)
	}

	recent, err := s.Recent(user.ID, 10)
	require.NoError(t, err)
	require.Len(t, recent, 10)
	assert.Equal(t, "lead-11", recent[0].Name)
}
