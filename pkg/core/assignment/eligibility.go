package assignment

import (
	"context"
	"fmt"

	"github.com/michaelschiller-mdm-solutions/campaign-pool-engine/pkg/core/model"
	"github.com/michaelschiller-mdm-solutions/campaign-pool-engine/pkg/db"
)

// AccountSource defines the account population query used by the filter
type AccountSource interface {
	QueryEligibleAccounts(ctx context.Context, filter db.AccountFilter) ([]db.AccountCandidate, error)
}

// FindEligible returns the accounts that may receive a pool under the given
// options.
//
// Manual mode returns the explicitly listed accounts that are currently
// active; inactive ones are silently dropped here and surface downstream as
// zero-result failures. Automatic mode returns active, warmed-up accounts,
// optionally excluding those still in cooldown, ordered by outstanding
// assignment count then account id so strategies get a stable tie-break
// order.
func FindEligible(ctx context.Context, source AccountSource, options model.AssignmentOptions) ([]db.AccountCandidate, error) {
	if options.Strategy == model.StrategyManual {
		if len(options.AccountIDs) == 0 {
			return nil, fmt.Errorf("manual strategy requires an explicit account list")
		}
		return source.QueryEligibleAccounts(ctx, db.AccountFilter{
			AccountIDs: options.AccountIDs,
		})
	}

	return source.QueryEligibleAccounts(ctx, db.AccountFilter{
		RequireWarmupComplete:  true,
		RequireCooldownExpired: options.RespectCooldowns,
	})
}
