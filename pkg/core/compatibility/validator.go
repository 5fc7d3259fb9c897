package compatibility

import (
	"context"
	"fmt"
	"strings"

	"github.com/michaelschiller-mdm-solutions/campaign-pool-engine/pkg/core/model"
	"github.com/michaelschiller-mdm-solutions/campaign-pool-engine/pkg/db"
)

// SprintStore defines the database operations needed to validate a sprint set
type SprintStore interface {
	GetSprintsByIDs(ctx context.Context, sprintIDs []int) ([]db.Sprint, error)
	CountCompatibleAccounts(ctx context.Context) (int, error)
}

// Validate checks whether the given sprints can legally coexist in one pool.
//
// Referential problems (empty set, unresolvable ids) and compatibility
// problems are both reported through the returned report, never as an error;
// the error return is reserved for store failures. Blocking conflicts are
// fatal and short-circuit the report: the seasonal and duration lists stay
// empty. A seasonal incompatibility is fatal too, while a seasonal warning is
// advisory and leaves IsCompatible true.
func Validate(ctx context.Context, store SprintStore, sprintIDs []int) (*model.CompatibilityReport, error) {
	if len(sprintIDs) == 0 {
		return &model.CompatibilityReport{
			Message: "pool must contain at least one sprint",
		}, nil
	}

	sprints, err := store.GetSprintsByIDs(ctx, sprintIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to load sprints: %w", err)
	}

	if missing := missingIDs(sprintIDs, sprints); len(missing) > 0 {
		return &model.CompatibilityReport{
			Message: fmt.Sprintf("sprint(s) not found: %s", joinIDs(missing)),
		}, nil
	}

	blockingConflicts := DetectBlockingConflicts(sprints)
	if len(blockingConflicts) > 0 {
		names := make([]string, 0, len(blockingConflicts))
		for _, c := range blockingConflicts {
			names = append(names, c.SprintAName)
		}
		return &model.CompatibilityReport{
			BlockingConflicts: blockingConflicts,
			Message:           fmt.Sprintf("blocking conflicts found: %s", strings.Join(names, ", ")),
			TotalConflicts:    len(blockingConflicts),
		}, nil
	}

	seasonalIssues := CheckSeasonalCompatibility(sprints)
	durationWarnings := AnalyzeDurationConstraints(sprints)

	eligible, err := store.CountCompatibleAccounts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count compatible accounts: %w", err)
	}

	compatible := true
	for _, issue := range seasonalIssues {
		if issue.Fatal() {
			compatible = false
		}
	}

	message := "sprints are compatible"
	if !compatible {
		message = "compatibility issues found"
	}

	return &model.CompatibilityReport{
		IsCompatible:      compatible,
		BlockingConflicts: blockingConflicts,
		SeasonalIssues:    seasonalIssues,
		DurationWarnings:  durationWarnings,
		EligibleAccounts:  eligible,
		Message:           message,
		TotalConflicts:    len(blockingConflicts) + len(seasonalIssues),
	}, nil
}

func missingIDs(requested []int, found []db.Sprint) []int {
	present := make(map[int]bool, len(found))
	for _, s := range found {
		present[s.ID] = true
	}

	var missing []int
	for _, id := range requested {
		if !present[id] {
			missing = append(missing, id)
		}
	}
	return missing
}

func joinIDs(ids []int) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = fmt.Sprintf("%d", id)
	}
	return strings.Join(parts, ", ")
}
