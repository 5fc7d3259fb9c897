package assignment

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/michaelschiller-mdm-solutions/campaign-pool-engine/pkg/core/model"
	"github.com/michaelschiller-mdm-solutions/campaign-pool-engine/pkg/db"
)

func TestAnalyzeConflicts_NoFindings(t *testing.T) {
	database := newMockDatabase()
	prospective := []model.PoolAssignment{
		{AccountID: 1, PoolID: 1, SprintIDs: []int{10, 11}},
	}

	warnings, err := AnalyzeConflicts(context.Background(), &database.mockStore, prospective, time.June, time.Now())
	require.NoError(t, err)

	assert.Empty(t, warnings)
}

func TestAnalyzeConflicts_CooldownsAggregateIntoOneWarning(t *testing.T) {
	database := newMockDatabase()
	database.inCooldown = []int{1, 3}
	prospective := []model.PoolAssignment{
		{AccountID: 1, PoolID: 1, SprintIDs: []int{10, 11}},
		{AccountID: 2, PoolID: 1, SprintIDs: []int{10, 11}},
		{AccountID: 3, PoolID: 1, SprintIDs: []int{10, 11}},
	}

	warnings, err := AnalyzeConflicts(context.Background(), &database.mockStore, prospective, time.June, time.Now())
	require.NoError(t, err)

	require.Len(t, warnings, 1)
	assert.Equal(t, model.WarningTiming, warnings[0].Type)
	assert.Equal(t, "2 accounts are currently in cooldown period", warnings[0].Message)
	assert.Equal(t, []int{1, 3}, warnings[0].AffectedAccounts)
}

func TestAnalyzeConflicts_SeasonalRestrictionsFlaggedPerPool(t *testing.T) {
	database := newMockDatabase()
	database.sprints[10] = db.Sprint{ID: 10, Name: "Beach Stories", AvailableMonths: []int{6, 7}}
	database.sprints[11] = db.Sprint{ID: 11, Name: "Pool Highlights", AvailableMonths: []int{7, 8}}
	prospective := []model.PoolAssignment{
		{AccountID: 1, PoolID: 1, SprintIDs: []int{10, 11}},
		{AccountID: 2, PoolID: 1, SprintIDs: []int{10, 11}},
	}

	warnings, err := AnalyzeConflicts(context.Background(), &database.mockStore, prospective, time.December, time.Now())
	require.NoError(t, err)

	// One warning for the pool, not one per account, tagged with the month
	// the caller asked about
	require.Len(t, warnings, 1)
	assert.Equal(t, model.WarningCompatibility, warnings[0].Type)
	assert.Equal(t, "pool 1 has seasonal restrictions for current month (12)", warnings[0].Message)
}

func TestAnalyzeConflicts_MissingPoolIsSkipped(t *testing.T) {
	database := newMockDatabase()
	prospective := []model.PoolAssignment{
		{AccountID: 1, PoolID: 99, SprintIDs: []int{10}},
	}

	warnings, err := AnalyzeConflicts(context.Background(), &database.mockStore, prospective, time.June, time.Now())
	require.NoError(t, err)

	assert.Empty(t, warnings)
}

func TestAnalyzeConflicts_EmptyBatch(t *testing.T) {
	database := newMockDatabase()

	warnings, err := AnalyzeConflicts(context.Background(), &database.mockStore, nil, time.June, time.Now())
	require.NoError(t, err)

	assert.Empty(t, warnings)
}
