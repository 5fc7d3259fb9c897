package assignment

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/michaelschiller-mdm-solutions/campaign-pool-engine/pkg/core/model"
)

// BulkAssign sequences several independent pool assignments. Each pool runs
// in its own transaction via AssignPool; one pool's failure is downgraded to
// a batch warning so the remaining pools still get processed.
func (e *Executor) BulkAssign(ctx context.Context, request model.BulkAssignmentRequest) (*model.BulkAssignmentResult, error) {
	if len(request.PoolAssignments) == 0 {
		return nil, fmt.Errorf("bulk assignment request contains no pools")
	}

	batchID := uuid.New().String()
	logger := e.logger.With(zap.String("batch_id", batchID))
	logger.Info("starting bulk assignment", zap.Int("pools", len(request.PoolAssignments)))

	result := &model.BulkAssignmentResult{}

	for _, item := range request.PoolAssignments {
		poolResult, err := e.AssignPool(ctx, item.PoolID, item.Options)
		if err != nil {
			result.FailedPools++
			result.OverallWarnings = append(result.OverallWarnings, model.AssignmentWarning{
				Type:    model.WarningCompatibility,
				Message: fmt.Sprintf("failed to assign pool %d: %v", item.PoolID, err),
			})
			logger.Warn("pool assignment failed in batch",
				zap.Int("pool_id", item.PoolID),
				zap.Error(err))
			continue
		}

		result.SuccessfulPools++
		result.TotalAccountsAssigned += poolResult.TotalAccountsAssigned
		result.AssignmentResults = append(result.AssignmentResults, *poolResult)
	}

	e.metrics.RecordBulkRun()
	logger.Info("bulk assignment complete",
		zap.Int("successful_pools", result.SuccessfulPools),
		zap.Int("failed_pools", result.FailedPools),
		zap.Int("accounts_assigned", result.TotalAccountsAssigned))

	return result, nil
}
