package assignment

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/michaelschiller-mdm-solutions/campaign-pool-engine/pkg/core/model"
	"github.com/michaelschiller-mdm-solutions/campaign-pool-engine/pkg/db"
)

func TestBulkAssign_AllPoolsSucceed(t *testing.T) {
	database := newMockDatabase()
	database.pools[2] = &db.CampaignPool{ID: 2, Name: "Winter Push", SprintIDs: []int{11}, AssignmentStrategy: model.StrategyBalanced}
	executor := newTestExecutor(database)

	result, err := executor.BulkAssign(context.Background(), model.BulkAssignmentRequest{
		PoolAssignments: []model.BulkAssignmentItem{
			{PoolID: 1, Options: model.AssignmentOptions{Strategy: model.StrategyRandom}},
			{PoolID: 2, Options: model.AssignmentOptions{Strategy: model.StrategyBalanced}},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, 2, result.SuccessfulPools)
	assert.Zero(t, result.FailedPools)
	assert.Equal(t, 6, result.TotalAccountsAssigned)
	assert.Len(t, result.AssignmentResults, 2)
	assert.Empty(t, result.OverallWarnings)
}

func TestBulkAssign_OneFailureDoesNotStopTheBatch(t *testing.T) {
	database := newMockDatabase()
	// Pool 2 does not exist; pool 1 still gets assigned
	executor := newTestExecutor(database)

	result, err := executor.BulkAssign(context.Background(), model.BulkAssignmentRequest{
		PoolAssignments: []model.BulkAssignmentItem{
			{PoolID: 2, Options: model.AssignmentOptions{Strategy: model.StrategyRandom}},
			{PoolID: 1, Options: model.AssignmentOptions{Strategy: model.StrategyRandom}},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, 1, result.SuccessfulPools)
	assert.Equal(t, 1, result.FailedPools)
	assert.Equal(t, 3, result.TotalAccountsAssigned)

	require.Len(t, result.OverallWarnings, 1)
	assert.Equal(t, model.WarningCompatibility, result.OverallWarnings[0].Type)
	assert.Contains(t, result.OverallWarnings[0].Message, "failed to assign pool 2")

	// Every requested pool is accounted for, one way or the other
	assert.Equal(t, 2, result.SuccessfulPools+result.FailedPools)
}

func TestBulkAssign_EmptyRequest(t *testing.T) {
	database := newMockDatabase()
	executor := newTestExecutor(database)

	_, err := executor.BulkAssign(context.Background(), model.BulkAssignmentRequest{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no pools")
}
