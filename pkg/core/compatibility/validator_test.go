package compatibility

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/michaelschiller-mdm-solutions/campaign-pool-engine/pkg/core/model"
	"github.com/michaelschiller-mdm-solutions/campaign-pool-engine/pkg/db"
)

// mockSprintStore serves a fixed sprint catalogue
type mockSprintStore struct {
	sprints  map[int]db.Sprint
	eligible int
	err      error
}

func (m *mockSprintStore) GetSprintsByIDs(ctx context.Context, sprintIDs []int) ([]db.Sprint, error) {
	if m.err != nil {
		return nil, m.err
	}
	var found []db.Sprint
	for _, id := range sprintIDs {
		if s, ok := m.sprints[id]; ok {
			found = append(found, s)
		}
	}
	return found, nil
}

func (m *mockSprintStore) CountCompatibleAccounts(ctx context.Context) (int, error) {
	return m.eligible, nil
}

func storeWith(sprints ...db.Sprint) *mockSprintStore {
	m := &mockSprintStore{sprints: make(map[int]db.Sprint), eligible: 10}
	for _, s := range sprints {
		m.sprints[s.ID] = s
	}
	return m
}

func TestValidate_CompatibleSprints(t *testing.T) {
	store := storeWith(
		db.Sprint{ID: 1, Name: "Summer Launch", CalculatedDurationHours: 48},
		db.Sprint{ID: 2, Name: "Product Teaser", CalculatedDurationHours: 24},
	)

	report, err := Validate(context.Background(), store, []int{1, 2})
	require.NoError(t, err)

	assert.True(t, report.IsCompatible)
	assert.Equal(t, "sprints are compatible", report.Message)
	assert.Empty(t, report.BlockingConflicts)
	assert.Empty(t, report.SeasonalIssues)
	assert.Equal(t, 10, report.EligibleAccounts)
	assert.Zero(t, report.TotalConflicts)
}

func TestValidate_EmptySprintSet(t *testing.T) {
	report, err := Validate(context.Background(), storeWith(), nil)
	require.NoError(t, err)

	assert.False(t, report.IsCompatible)
	assert.Equal(t, "pool must contain at least one sprint", report.Message)
}

func TestValidate_MissingSprints(t *testing.T) {
	store := storeWith(db.Sprint{ID: 1, Name: "Summer Launch"})

	report, err := Validate(context.Background(), store, []int{1, 7, 9})
	require.NoError(t, err)

	assert.False(t, report.IsCompatible)
	assert.Equal(t, "sprint(s) not found: 7, 9", report.Message)
}

func TestValidate_BlockingConflictShortCircuits(t *testing.T) {
	store := storeWith(
		db.Sprint{ID: 1, Name: "Beach Week", BlocksSprints: []int{2}, AvailableMonths: []int{6}},
		db.Sprint{ID: 2, Name: "Ski Week", AvailableMonths: []int{12}},
	)

	report, err := Validate(context.Background(), store, []int{1, 2})
	require.NoError(t, err)

	assert.False(t, report.IsCompatible)
	require.Len(t, report.BlockingConflicts, 1)
	assert.Equal(t, "Beach Week blocks Ski Week", report.BlockingConflicts[0].Description)
	assert.Equal(t, "blocking conflicts found: Beach Week", report.Message)
	assert.Equal(t, 1, report.TotalConflicts)
	// Seasonal analysis is skipped entirely once a block is found
	assert.Empty(t, report.SeasonalIssues)
}

func TestValidate_MutualBlockYieldsTwoConflicts(t *testing.T) {
	store := storeWith(
		db.Sprint{ID: 1, Name: "Alpha", BlocksSprints: []int{2}},
		db.Sprint{ID: 2, Name: "Beta", BlocksSprints: []int{1}},
	)

	report, err := Validate(context.Background(), store, []int{1, 2})
	require.NoError(t, err)

	assert.False(t, report.IsCompatible)
	assert.Len(t, report.BlockingConflicts, 2)
	assert.Equal(t, 2, report.TotalConflicts)
}

func TestValidate_SeasonalIncompatibilityIsFatal(t *testing.T) {
	store := storeWith(
		db.Sprint{ID: 1, Name: "Summer Only", AvailableMonths: []int{6, 7, 8}},
		db.Sprint{ID: 2, Name: "Winter Only", AvailableMonths: []int{12, 1, 2}},
	)

	report, err := Validate(context.Background(), store, []int{1, 2})
	require.NoError(t, err)

	assert.False(t, report.IsCompatible)
	assert.Equal(t, "compatibility issues found", report.Message)
	require.Len(t, report.SeasonalIssues, 1)
	assert.Equal(t, model.SeasonalIncompatibility, report.SeasonalIssues[0].Type)
	assert.True(t, report.SeasonalIssues[0].Fatal())
	assert.Equal(t, 1, report.TotalConflicts)
}

func TestValidate_SeasonalWarningIsAdvisory(t *testing.T) {
	store := storeWith(
		db.Sprint{ID: 1, Name: "Early Summer", AvailableMonths: []int{5, 6, 7}},
		db.Sprint{ID: 2, Name: "Late Summer", AvailableMonths: []int{7, 8, 9}},
	)

	report, err := Validate(context.Background(), store, []int{1, 2})
	require.NoError(t, err)

	// A single common month warns but does not make the pool incompatible
	assert.True(t, report.IsCompatible)
	require.Len(t, report.SeasonalIssues, 1)
	assert.Equal(t, model.SeasonalWarning, report.SeasonalIssues[0].Type)
	assert.False(t, report.SeasonalIssues[0].Fatal())
	assert.Equal(t, []time.Month{time.July}, report.SeasonalIssues[0].AvailableMonths)
}

func TestValidate_StoreErrorPropagates(t *testing.T) {
	store := &mockSprintStore{err: fmt.Errorf("connection reset")}

	_, err := Validate(context.Background(), store, []int{1})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load sprints")
}

func TestCommonMonths_UnsetMeansYearRound(t *testing.T) {
	common := CommonMonths([]db.Sprint{
		{ID: 1},
		{ID: 2, AvailableMonths: []int{3, 4}},
	})

	assert.Equal(t, []time.Month{time.March, time.April}, common)
}

func TestCommonMonths_AllUnset(t *testing.T) {
	common := CommonMonths([]db.Sprint{{ID: 1}, {ID: 2}})
	assert.Len(t, common, 12)
}

func TestCheckSeasonalCompatibility_ThreeCommonMonthsIsClean(t *testing.T) {
	issues := CheckSeasonalCompatibility([]db.Sprint{
		{ID: 1, AvailableMonths: []int{6, 7, 8}},
		{ID: 2, AvailableMonths: []int{6, 7, 8, 9}},
	})

	assert.Empty(t, issues)
}

func TestSumDurations(t *testing.T) {
	sprints := []db.Sprint{
		{ID: 1, CalculatedDurationHours: 24},
		{ID: 2, CalculatedDurationHours: 36},
		{ID: 3, CalculatedDurationHours: 0},
	}

	assert.Equal(t, 60, SumDurations(sprints))
	assert.Equal(t, 0, SumDurations(nil))
}
