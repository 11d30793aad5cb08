package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestActivityRecordAndList(t *testing.T) {
	db := newTestDB(t)
	user := createUser(t, db, "owner@example.com")
	other := createUser(t, db, "other@example.com")
	s := NewActivityStore(db)

	require.NoError(t, s.Record(user.ID, "lead_created", "Created lead alice", map[string]interface{}{"lead_id": 1}))
	require.NoError(t, s.Record(user.ID, "campaign_started", "Started campaign Q3", nil))
	require.NoError(t, s.Record(other.ID, "lead_created", "Created lead bob", nil))

	result, err := s.List(ActivityFilters{UserID: user.ID}, Pagination{})
	require.NoError(t, err)
	assert.Equal(t, int64(2), result.Total)
	// Newest first by default.
	assert.Equal(t, "campaign_started", result.Data[0].Action)

	result, err = s.List(ActivityFilters{UserID: user.ID, Action: "lead_created"}, Pagination{})
	require.NoError(t, err)
	require.Len(t, result.Data, 1)
	assert.Equal(t, "Created lead alice", result.Data[0].Description)

	result, err = s.List(ActivityFilters{UserID: user.ID, Search: "Q3"}, Pagination{})
	require.NoError(t, err)
	require.Len(t, result.Data, 1)
	assert.Equal(t, "campaign_started", result.Data[0].Action)

	// The "all" sentinel leaves the action dimension unconstrained.
	result, err = s.List(ActivityFilters{UserID: user.ID, Action: FilterAll}, Pagination{})
	require.NoError(t, err)
	assert.Equal(t, int64(2), result.Total)
}
