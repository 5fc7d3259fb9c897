package assignment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/michaelschiller-mdm-solutions/campaign-pool-engine/pkg/core/compatibility"
	"github.com/michaelschiller-mdm-solutions/campaign-pool-engine/pkg/core/model"
	"github.com/michaelschiller-mdm-solutions/campaign-pool-engine/pkg/db"
)

// AnalyzerStore defines the lookups the conflict analyzer needs
type AnalyzerStore interface {
	GetPool(ctx context.Context, poolID int) (*db.CampaignPool, error)
	GetSprintsByIDs(ctx context.Context, sprintIDs []int) ([]db.Sprint, error)
	CountCompatibleAccounts(ctx context.Context) (int, error)
	AccountsInCooldown(ctx context.Context, accountIDs []int, at time.Time) ([]int, error)
}

// AnalyzeConflicts inspects a prospective assignment batch for non-fatal
// warnings. month is passed explicitly rather than read from the clock so
// the seasonal check is deterministic under test; callers normally pass
// time.Now().Month().
func AnalyzeConflicts(ctx context.Context, store AnalyzerStore, prospective []model.PoolAssignment, month time.Month, now time.Time) ([]model.AssignmentWarning, error) {
	var warnings []model.AssignmentWarning

	cooldown, err := cooldownWarnings(ctx, store, prospective, now)
	if err != nil {
		return nil, err
	}
	warnings = append(warnings, cooldown...)

	warnings = append(warnings, locationWarnings(prospective)...)

	seasonal, err := seasonalWarnings(ctx, store, prospective, month)
	if err != nil {
		return nil, err
	}
	warnings = append(warnings, seasonal...)

	return warnings, nil
}

// cooldownWarnings reports accounts inside their cooldown window as one
// aggregated warning, not one warning per account
func cooldownWarnings(ctx context.Context, store AnalyzerStore, prospective []model.PoolAssignment, now time.Time) ([]model.AssignmentWarning, error) {
	if len(prospective) == 0 {
		return nil, nil
	}

	accountIDs := make([]int, 0, len(prospective))
	for _, p := range prospective {
		accountIDs = append(accountIDs, p.AccountID)
	}

	inCooldown, err := store.AccountsInCooldown(ctx, accountIDs, now)
	if err != nil {
		return nil, fmt.Errorf("failed to check cooldowns: %w", err)
	}
	if len(inCooldown) == 0 {
		return nil, nil
	}

	return []model.AssignmentWarning{{
		Type:             model.WarningTiming,
		Message:          fmt.Sprintf("%d accounts are currently in cooldown period", len(inCooldown)),
		AffectedAccounts: inCooldown,
	}}, nil
}

// locationWarnings is the named extension point for location-conflict
// policy. It currently produces no warnings.
func locationWarnings(prospective []model.PoolAssignment) []model.AssignmentWarning {
	return nil
}

// seasonalWarnings re-validates each distinct pool in the batch and flags
// pools with any seasonal issue against the given calendar month
func seasonalWarnings(ctx context.Context, store AnalyzerStore, prospective []model.PoolAssignment, month time.Month) ([]model.AssignmentWarning, error) {
	var warnings []model.AssignmentWarning

	seen := make(map[int]bool)
	for _, p := range prospective {
		if seen[p.PoolID] {
			continue
		}
		seen[p.PoolID] = true

		pool, err := store.GetPool(ctx, p.PoolID)
		if errors.Is(err, db.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to load pool %d: %w", p.PoolID, err)
		}

		report, err := compatibility.Validate(ctx, store, pool.SprintIDs)
		if err != nil {
			return nil, err
		}
		if len(report.SeasonalIssues) > 0 {
			warnings = append(warnings, model.AssignmentWarning{
				Type:    model.WarningCompatibility,
				Message: fmt.Sprintf("pool %d has seasonal restrictions for current month (%d)", p.PoolID, int(month)),
			})
		}
	}

	return warnings, nil
}
