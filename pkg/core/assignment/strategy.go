package assignment

import (
	"fmt"
	"math/rand/v2"
	"slices"

	"github.com/michaelschiller-mdm-solutions/campaign-pool-engine/pkg/core/model"
	"github.com/michaelschiller-mdm-solutions/campaign-pool-engine/pkg/db"
)

// SelectAccounts narrows and orders eligible candidates under the given
// strategy. maxAssignments caps the result when positive.
//
// The random strategy uses rand.Shuffle, a fair Fisher-Yates permutation;
// the balanced strategy stable-sorts by current assignment count so the
// eligibility filter's deterministic order breaks ties. Manual passes the
// already-filtered list through unchanged. An unknown strategy is a
// configuration error, never a silent fallback.
func SelectAccounts(candidates []db.AccountCandidate, strategy model.Strategy, maxAssignments int, rng *rand.Rand) ([]db.AccountCandidate, error) {
	switch strategy {
	case model.StrategyManual:
		return candidates, nil

	case model.StrategyRandom:
		selected := slices.Clone(candidates)
		rng.Shuffle(len(selected), func(i, j int) {
			selected[i], selected[j] = selected[j], selected[i]
		})
		return truncate(selected, maxAssignments), nil

	case model.StrategyBalanced:
		selected := slices.Clone(candidates)
		slices.SortStableFunc(selected, func(a, b db.AccountCandidate) int {
			return a.CurrentAssignments - b.CurrentAssignments
		})
		return truncate(selected, maxAssignments), nil
	}

	return nil, fmt.Errorf("unknown assignment strategy: %q", strategy)
}

func truncate(accounts []db.AccountCandidate, max int) []db.AccountCandidate {
	if max > 0 && len(accounts) > max {
		return accounts[:max]
	}
	return accounts
}
