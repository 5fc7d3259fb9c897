package assignment

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/michaelschiller-mdm-solutions/campaign-pool-engine/pkg/core/model"
	"github.com/michaelschiller-mdm-solutions/campaign-pool-engine/pkg/db"
)

type pair struct {
	accountID int
	sprintID  int
}

// mockStore implements the store methods the executor touches; embedding the
// interface leaves everything else panicking if reached unexpectedly
type mockStore struct {
	db.Store

	pools      map[int]*db.CampaignPool
	sprints    map[int]db.Sprint
	accounts   []db.AccountCandidate
	eligible   int
	inCooldown []int

	rejections map[pair]error
	createErr  error
	created    []db.NewAssignment
	usageBumps int
}

func (m *mockStore) GetPool(ctx context.Context, poolID int) (*db.CampaignPool, error) {
	pool, ok := m.pools[poolID]
	if !ok {
		return nil, db.ErrNotFound
	}
	return pool, nil
}

func (m *mockStore) GetSprintsByIDs(ctx context.Context, sprintIDs []int) ([]db.Sprint, error) {
	var found []db.Sprint
	for _, id := range sprintIDs {
		if s, ok := m.sprints[id]; ok {
			found = append(found, s)
		}
	}
	return found, nil
}

func (m *mockStore) CountCompatibleAccounts(ctx context.Context) (int, error) {
	return m.eligible, nil
}

func (m *mockStore) QueryEligibleAccounts(ctx context.Context, filter db.AccountFilter) ([]db.AccountCandidate, error) {
	if len(filter.AccountIDs) > 0 {
		var matched []db.AccountCandidate
		for _, account := range m.accounts {
			for _, id := range filter.AccountIDs {
				if account.ID == id {
					matched = append(matched, account)
				}
			}
		}
		return matched, nil
	}
	return m.accounts, nil
}

func (m *mockStore) AccountsInCooldown(ctx context.Context, accountIDs []int, at time.Time) ([]int, error) {
	return m.inCooldown, nil
}

func (m *mockStore) CreateSprintAssignment(ctx context.Context, assignment db.NewAssignment) error {
	if m.createErr != nil {
		return m.createErr
	}
	if err, ok := m.rejections[pair{assignment.AccountID, assignment.SprintID}]; ok {
		return err
	}
	m.created = append(m.created, assignment)
	return nil
}

func (m *mockStore) IncrementPoolUsage(ctx context.Context, poolID int, at time.Time) error {
	m.usageBumps++
	return nil
}

// mockDatabase runs the transaction callback against the embedded store and
// tracks whether it would have committed
type mockDatabase struct {
	mockStore
	committed  bool
	rolledBack bool
}

func (m *mockDatabase) WithinTx(ctx context.Context, fn func(db.Store) error) error {
	if err := fn(&m.mockStore); err != nil {
		m.rolledBack = true
		return err
	}
	m.committed = true
	return nil
}

func newMockDatabase() *mockDatabase {
	return &mockDatabase{
		mockStore: mockStore{
			pools: map[int]*db.CampaignPool{
				1: {ID: 1, Name: "Summer Push", SprintIDs: []int{10, 11}, AssignmentStrategy: model.StrategyRandom},
			},
			sprints: map[int]db.Sprint{
				10: {ID: 10, Name: "Beach Stories"},
				11: {ID: 11, Name: "Pool Highlights"},
			},
			accounts: []db.AccountCandidate{
				{ID: 1, Username: "alice"},
				{ID: 2, Username: "bob"},
				{ID: 3, Username: "carol"},
			},
			eligible:   3,
			rejections: make(map[pair]error),
		},
	}
}

func newTestExecutor(database *mockDatabase) *Executor {
	e := NewExecutor(database, zap.NewNop(), nil)
	e.Now = func() time.Time { return time.Date(2026, time.June, 15, 12, 0, 0, 0, time.UTC) }
	return e
}

func TestAssignPool_AllAccountsSucceed(t *testing.T) {
	database := newMockDatabase()
	executor := newTestExecutor(database)

	result, err := executor.AssignPool(context.Background(), 1, model.AssignmentOptions{
		Strategy: model.StrategyRandom,
	})
	require.NoError(t, err)

	assert.Equal(t, 3, result.TotalAccountsAssigned)
	assert.Len(t, result.SuccessfulAssignments, 3)
	assert.Empty(t, result.FailedAssignments)
	// One row per account per sprint
	assert.Len(t, database.created, 6)
	assert.True(t, database.committed)
	assert.Equal(t, 1, database.usageBumps)
}

func TestAssignPool_BusinessRejectionIsRecordedNotPropagated(t *testing.T) {
	database := newMockDatabase()
	database.rejections[pair{2, 10}] = model.NewAssignmentError(model.ConflictCooldown, "account 2 is in cooldown until 2026-07-01")
	database.rejections[pair{2, 11}] = model.NewAssignmentError(model.ConflictCooldown, "account 2 is in cooldown until 2026-07-01")
	executor := newTestExecutor(database)

	result, err := executor.AssignPool(context.Background(), 1, model.AssignmentOptions{
		Strategy: model.StrategyBalanced,
	})
	require.NoError(t, err)

	assert.Equal(t, 2, result.TotalAccountsAssigned)
	require.Len(t, result.FailedAssignments, 1)
	failed := result.FailedAssignments[0]
	assert.Equal(t, 2, failed.AccountID)
	assert.Equal(t, model.ConflictCooldown, failed.ConflictType)
	assert.Contains(t, failed.Reason, "cooldown")

	// The failing account never blocks the batch from committing
	assert.True(t, database.committed)
	assert.Equal(t, 1, database.usageBumps)
}

func TestAssignPool_RejectedPairDoesNotAbortRemainingSprints(t *testing.T) {
	database := newMockDatabase()
	database.rejections[pair{1, 10}] = model.NewAssignmentError(model.ConflictBlocking, "sprint 10 conflicts with active sprint 99 on account 1")
	executor := newTestExecutor(database)

	result, err := executor.AssignPool(context.Background(), 1, model.AssignmentOptions{
		Strategy: model.StrategyBalanced,
	})
	require.NoError(t, err)

	// Account 1 still attempted sprint 11 even after sprint 10 was rejected
	var attempted []int
	for _, a := range database.created {
		if a.AccountID == 1 {
			attempted = append(attempted, a.SprintID)
		}
	}
	assert.Equal(t, []int{11}, attempted)

	// One rejected pair makes the whole account count as failed
	require.Len(t, result.FailedAssignments, 1)
	assert.Equal(t, 1, result.FailedAssignments[0].AccountID)
	assert.Equal(t, model.ConflictBlocking, result.FailedAssignments[0].ConflictType)
	assert.Equal(t, 2, result.TotalAccountsAssigned)
}

func TestAssignPool_SystemFailureRollsBack(t *testing.T) {
	database := newMockDatabase()
	database.createErr = fmt.Errorf("connection reset by peer")
	executor := newTestExecutor(database)

	_, err := executor.AssignPool(context.Background(), 1, model.AssignmentOptions{
		Strategy: model.StrategyRandom,
	})
	require.Error(t, err)

	assert.True(t, database.rolledBack)
	assert.False(t, database.committed)
}

func TestAssignPool_IncompatiblePoolFails(t *testing.T) {
	database := newMockDatabase()
	database.sprints[10] = db.Sprint{ID: 10, Name: "Beach Stories", BlocksSprints: []int{11}}
	executor := newTestExecutor(database)

	_, err := executor.AssignPool(context.Background(), 1, model.AssignmentOptions{
		Strategy: model.StrategyRandom,
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "compatibility issues")
	assert.False(t, database.committed)
	assert.Empty(t, database.created)
}

func TestAssignPool_UnknownPool(t *testing.T) {
	database := newMockDatabase()
	executor := newTestExecutor(database)

	_, err := executor.AssignPool(context.Background(), 42, model.AssignmentOptions{
		Strategy: model.StrategyRandom,
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load pool 42")
}

func TestAssignPool_InvalidOptionsRejectedBeforeTransaction(t *testing.T) {
	database := newMockDatabase()
	executor := newTestExecutor(database)

	_, err := executor.AssignPool(context.Background(), 1, model.AssignmentOptions{
		Strategy: model.Strategy("round-robin"),
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown assignment strategy")

	_, err = executor.AssignPool(context.Background(), 1, model.AssignmentOptions{
		Strategy: model.StrategyManual,
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "explicit account list")

	// Neither call ever opened a transaction
	assert.False(t, database.committed)
	assert.False(t, database.rolledBack)
}

func TestAssignPool_ManualStrategyTargetsListedAccounts(t *testing.T) {
	database := newMockDatabase()
	executor := newTestExecutor(database)

	result, err := executor.AssignPool(context.Background(), 1, model.AssignmentOptions{
		Strategy:   model.StrategyManual,
		AccountIDs: []int{2},
	})
	require.NoError(t, err)

	assert.Equal(t, 1, result.TotalAccountsAssigned)
	for _, a := range database.created {
		assert.Equal(t, 2, a.AccountID)
	}
}

func TestAssignPool_MaxAssignmentsCapsSelection(t *testing.T) {
	database := newMockDatabase()
	executor := newTestExecutor(database)

	result, err := executor.AssignPool(context.Background(), 1, model.AssignmentOptions{
		Strategy:       model.StrategyBalanced,
		MaxAssignments: 1,
	})
	require.NoError(t, err)

	assert.Equal(t, 1, result.TotalAccountsAssigned)
	assert.Len(t, database.created, 2)
}

func TestPreview_PersistsNothing(t *testing.T) {
	database := newMockDatabase()
	database.inCooldown = []int{3}
	executor := newTestExecutor(database)

	preview, err := executor.Preview(context.Background(), 1, model.AssignmentOptions{
		Strategy: model.StrategyBalanced,
	})
	require.NoError(t, err)

	assert.Equal(t, 3, preview.EligibleAccounts)
	assert.Len(t, preview.Assignments, 3)

	require.Len(t, preview.PotentialConflicts, 1)
	warning := preview.PotentialConflicts[0]
	assert.Equal(t, model.WarningTiming, warning.Type)
	assert.Equal(t, "1 accounts are currently in cooldown period", warning.Message)
	assert.Equal(t, []int{3}, warning.AffectedAccounts)

	// No writes of any kind
	assert.Empty(t, database.created)
	assert.Zero(t, database.usageBumps)
	assert.False(t, database.committed)
}
