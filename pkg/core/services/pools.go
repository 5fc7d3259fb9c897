package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/michaelschiller-mdm-solutions/campaign-pool-engine/pkg/core/compatibility"
	"github.com/michaelschiller-mdm-solutions/campaign-pool-engine/pkg/core/model"
	"github.com/michaelschiller-mdm-solutions/campaign-pool-engine/pkg/db"
	"github.com/michaelschiller-mdm-solutions/campaign-pool-engine/pkg/metrics"
)

const defaultTimeHorizonDays = 30

var validate = validator.New()

// CreatePool validates and persists a new campaign pool. Creation is
// all-or-nothing: an incompatible sprint set rejects the whole request.
func CreatePool(ctx context.Context, database db.Database, logger *zap.Logger, m *metrics.Metrics, req model.CreatePoolRequest) (*db.CampaignPool, error) {
	if err := validate.Struct(req); err != nil {
		return nil, fmt.Errorf("invalid create pool request: %w", err)
	}

	strategy := req.AssignmentStrategy
	if strategy == "" {
		strategy = model.StrategyRandom
	}
	horizon := req.TimeHorizonDays
	if horizon == 0 {
		horizon = defaultTimeHorizonDays
	}

	var pool *db.CampaignPool
	err := database.WithinTx(ctx, func(s db.Store) error {
		report, err := compatibility.Validate(ctx, s, req.SprintIDs)
		if err != nil {
			return err
		}
		if !report.IsCompatible {
			return fmt.Errorf("pool contains incompatible sprints: %s", incompatibilitySummary(report))
		}

		duration, err := s.SumSprintDurations(ctx, req.SprintIDs)
		if err != nil {
			return err
		}

		pool = &db.CampaignPool{
			Name:               req.Name,
			Description:        req.Description,
			SprintIDs:          req.SprintIDs,
			TotalDurationHours: duration,
			CompatibleAccounts: report.EligibleAccounts,
			AssignmentStrategy: strategy,
			TimeHorizonDays:    horizon,
			IsTemplate:         req.IsTemplate,
			TemplateCategory:   req.TemplateCategory,
		}
		return s.InsertPool(ctx, pool)
	})
	if err != nil {
		return nil, err
	}

	m.RecordPoolCreated()
	logger.Info("campaign pool created",
		zap.Int("pool_id", pool.ID),
		zap.String("name", pool.Name),
		zap.Int("sprints", len(pool.SprintIDs)))

	return pool, nil
}

// GetPool loads one pool with its sprint names
func GetPool(ctx context.Context, database db.Database, poolID int) (*db.CampaignPool, error) {
	return database.GetPool(ctx, poolID)
}

// ListPools returns a filtered, paginated pool listing and the unpaginated
// total count
func ListPools(ctx context.Context, database db.Database, filter db.PoolFilter) ([]db.CampaignPool, int, error) {
	return database.ListPools(ctx, filter)
}

// UpdatePool applies a typed patch. A sprint-set change re-validates
// compatibility and recomputes the pool's derived fields inside the same
// transaction.
func UpdatePool(ctx context.Context, database db.Database, logger *zap.Logger, poolID int, patch db.PoolPatch) (*db.CampaignPool, error) {
	var pool *db.CampaignPool
	err := database.WithinTx(ctx, func(s db.Store) error {
		if patch.HasSprintChange() {
			report, err := compatibility.Validate(ctx, s, patch.SprintIDs)
			if err != nil {
				return err
			}
			if !report.IsCompatible {
				return fmt.Errorf("updated pool contains incompatible sprints: %s", incompatibilitySummary(report))
			}

			duration, err := s.SumSprintDurations(ctx, patch.SprintIDs)
			if err != nil {
				return err
			}
			patch.TotalDurationHours = &duration
			patch.CompatibleAccounts = &report.EligibleAccounts
		}

		var err error
		pool, err = s.UpdatePool(ctx, poolID, patch)
		return err
	})
	if err != nil {
		return nil, err
	}

	logger.Info("campaign pool updated", zap.Int("pool_id", poolID))
	return pool, nil
}

// DeletePool removes a pool unless any of its sprints still has a scheduled
// or active assignment. Deletion is all-or-nothing.
func DeletePool(ctx context.Context, database db.Database, logger *zap.Logger, m *metrics.Metrics, poolID int) error {
	err := database.WithinTx(ctx, func(s db.Store) error {
		active, err := s.CountActivePoolAssignments(ctx, poolID)
		if err != nil {
			return err
		}
		if active > 0 {
			return fmt.Errorf("cannot delete pool with %d active assignments", active)
		}
		return s.DeletePool(ctx, poolID)
	})
	if err != nil {
		return err
	}

	m.RecordPoolDeleted()
	logger.Info("campaign pool deleted", zap.Int("pool_id", poolID))
	return nil
}

// ValidatePool runs the compatibility validator for a sprint set without
// touching any pool row
func ValidatePool(ctx context.Context, database db.Database, sprintIDs []int) (*model.CompatibilityReport, error) {
	return compatibility.Validate(ctx, database, sprintIDs)
}

// PoolStats returns the aggregate usage view for one pool
func PoolStats(ctx context.Context, database db.Database, poolID int) (*db.PoolStats, error) {
	return database.GetPoolStats(ctx, poolID)
}

func incompatibilitySummary(report *model.CompatibilityReport) string {
	if len(report.BlockingConflicts) == 0 {
		return report.Message
	}
	descriptions := make([]string, 0, len(report.BlockingConflicts))
	for _, c := range report.BlockingConflicts {
		descriptions = append(descriptions, c.Description)
	}
	return strings.Join(descriptions, ", ")
}
