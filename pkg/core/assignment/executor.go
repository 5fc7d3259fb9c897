package assignment

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"go.uber.org/zap"

	"github.com/michaelschiller-mdm-solutions/campaign-pool-engine/pkg/core/compatibility"
	"github.com/michaelschiller-mdm-solutions/campaign-pool-engine/pkg/core/model"
	"github.com/michaelschiller-mdm-solutions/campaign-pool-engine/pkg/db"
	"github.com/michaelschiller-mdm-solutions/campaign-pool-engine/pkg/metrics"
)

// Executor turns a pool-assignment request into persisted per-sprint
// assignment rows. Every AssignPool call runs inside one transaction:
// expected per-pair business rejections are recorded in the result and
// committed along with the successes, while any other failure rolls the
// whole call back.
type Executor struct {
	database db.Database
	logger   *zap.Logger
	metrics  *metrics.Metrics

	// Now and Rng are injectable for deterministic tests
	Now func() time.Time
	Rng *rand.Rand
}

// NewExecutor wires an executor. metrics may be nil.
func NewExecutor(database db.Database, logger *zap.Logger, m *metrics.Metrics) *Executor {
	return &Executor{
		database: database,
		logger:   logger,
		metrics:  m,
		Now:      time.Now,
		Rng:      rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
	}
}

// AssignPool assigns the pool to accounts selected under options.
//
// Validation and referential errors are rejected before the transaction
// opens. The pool's compatibility is re-validated inside the transaction;
// a cached report is never trusted across a transaction boundary.
func (e *Executor) AssignPool(ctx context.Context, poolID int, options model.AssignmentOptions) (*model.AssignmentResult, error) {
	if err := checkOptions(options); err != nil {
		return nil, err
	}

	e.logger.Debug("assigning pool",
		zap.Int("pool_id", poolID),
		zap.String("strategy", string(options.Strategy)),
		zap.Int("max_assignments", options.MaxAssignments))

	var result *model.AssignmentResult
	err := e.database.WithinTx(ctx, func(s db.Store) error {
		pool, err := s.GetPool(ctx, poolID)
		if err != nil {
			return fmt.Errorf("failed to load pool %d: %w", poolID, err)
		}

		report, err := compatibility.Validate(ctx, s, pool.SprintIDs)
		if err != nil {
			return err
		}
		if !report.IsCompatible {
			return fmt.Errorf("pool %d has compatibility issues: %s", poolID, report.Message)
		}

		candidates, err := FindEligible(ctx, s, options)
		if err != nil {
			return err
		}

		selected, err := SelectAccounts(candidates, options.Strategy, options.MaxAssignments, e.Rng)
		if err != nil {
			return err
		}

		result, err = e.processAssignments(ctx, s, pool, selected, options)
		if err != nil {
			return err
		}

		// Once per call, not once per account
		if err := s.IncrementPoolUsage(ctx, poolID, e.Now()); err != nil {
			return fmt.Errorf("failed to update pool usage: %w", err)
		}
		return nil
	})
	if err != nil {
		e.metrics.RecordAssignmentRun("error")
		return nil, err
	}

	e.metrics.RecordAssignmentRun("ok")
	e.metrics.RecordAccountsAssigned(string(options.Strategy), result.TotalAccountsAssigned)
	for _, failed := range result.FailedAssignments {
		e.metrics.RecordAssignmentFailure(string(failed.ConflictType))
	}

	e.logger.Info("pool assignment complete",
		zap.Int("pool_id", poolID),
		zap.Int("accounts_assigned", result.TotalAccountsAssigned),
		zap.Int("accounts_failed", len(result.FailedAssignments)))

	return result, nil
}

// Preview runs eligibility, selection and conflict analysis for a pool
// without persisting anything.
func (e *Executor) Preview(ctx context.Context, poolID int, options model.AssignmentOptions) (*model.AssignmentPreview, error) {
	if err := checkOptions(options); err != nil {
		return nil, err
	}

	pool, err := e.database.GetPool(ctx, poolID)
	if err != nil {
		return nil, fmt.Errorf("failed to load pool %d: %w", poolID, err)
	}

	candidates, err := FindEligible(ctx, e.database, options)
	if err != nil {
		return nil, err
	}

	selected, err := SelectAccounts(candidates, options.Strategy, options.MaxAssignments, e.Rng)
	if err != nil {
		return nil, err
	}

	now := e.Now()
	prospective := buildProspective(pool, selected, options, now)

	warnings, err := AnalyzeConflicts(ctx, e.database, prospective, now.Month(), now)
	if err != nil {
		return nil, err
	}

	return &model.AssignmentPreview{
		EligibleAccounts:   len(candidates),
		Assignments:        prospective,
		PotentialConflicts: warnings,
	}, nil
}

// processAssignments attempts every (account, sprint) pair independently.
// A business rejection for one pair never aborts the account's other sprints
// or other accounts; a system failure propagates and rolls the call back.
func (e *Executor) processAssignments(
	ctx context.Context,
	s db.Store,
	pool *db.CampaignPool,
	selected []db.AccountCandidate,
	options model.AssignmentOptions,
) (*model.AssignmentResult, error) {
	startDate := options.StartDate
	if startDate.IsZero() {
		startDate = e.Now()
	}

	result := &model.AssignmentResult{}

	for _, account := range selected {
		var firstRejection error

		for _, sprintID := range pool.SprintIDs {
			err := s.CreateSprintAssignment(ctx, db.NewAssignment{
				AccountID:    account.ID,
				SprintID:     sprintID,
				StartDate:    startDate,
				StrategyUsed: options.Strategy,
			})
			if err == nil {
				continue
			}

			var ae *model.AssignmentError
			if !errors.As(err, &ae) {
				return nil, err
			}

			e.logger.Debug("sprint assignment rejected",
				zap.Int("account_id", account.ID),
				zap.Int("sprint_id", sprintID),
				zap.String("conflict_type", string(ae.Type)),
				zap.String("reason", ae.Message))
			if firstRejection == nil {
				firstRejection = err
			}
		}

		if firstRejection != nil {
			result.FailedAssignments = append(result.FailedAssignments, model.FailedAssignment{
				AccountID:    account.ID,
				PoolID:       pool.ID,
				Reason:       firstRejection.Error(),
				ConflictType: model.ClassifyConflict(firstRejection),
			})
			continue
		}

		result.SuccessfulAssignments = append(result.SuccessfulAssignments, model.PoolAssignment{
			AccountID:      account.ID,
			PoolID:         pool.ID,
			SprintIDs:      pool.SprintIDs,
			AssignmentDate: e.Now(),
			StartDate:      startDate,
			StrategyUsed:   options.Strategy,
		})
	}

	result.TotalAccountsAssigned = len(result.SuccessfulAssignments)
	return result, nil
}

func buildProspective(pool *db.CampaignPool, selected []db.AccountCandidate, options model.AssignmentOptions, now time.Time) []model.PoolAssignment {
	startDate := options.StartDate
	if startDate.IsZero() {
		startDate = now
	}

	prospective := make([]model.PoolAssignment, 0, len(selected))
	for _, account := range selected {
		prospective = append(prospective, model.PoolAssignment{
			AccountID:      account.ID,
			PoolID:         pool.ID,
			SprintIDs:      pool.SprintIDs,
			AssignmentDate: now,
			StartDate:      startDate,
			StrategyUsed:   options.Strategy,
		})
	}
	return prospective
}

func checkOptions(options model.AssignmentOptions) error {
	if !options.Strategy.Valid() {
		return fmt.Errorf("unknown assignment strategy: %q", options.Strategy)
	}
	if options.Strategy == model.StrategyManual && len(options.AccountIDs) == 0 {
		return fmt.Errorf("manual strategy requires an explicit account list")
	}
	return nil
}
