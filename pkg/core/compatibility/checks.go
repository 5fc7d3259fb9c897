package compatibility

import (
	"fmt"
	"slices"
	"time"

	"github.com/michaelschiller-mdm-solutions/campaign-pool-engine/pkg/core/model"
	"github.com/michaelschiller-mdm-solutions/campaign-pool-engine/pkg/db"
)

// seasonalWarningThreshold is the smallest common-month count that needs no
// flag at all. Below it (but above zero) the pool is usable yet tight.
const seasonalWarningThreshold = 3

// DetectBlockingConflicts tests every unordered sprint pair in both
// directions. A mutual block therefore yields two conflict entries.
func DetectBlockingConflicts(sprints []db.Sprint) []model.BlockingConflict {
	var conflicts []model.BlockingConflict

	for i := 0; i < len(sprints); i++ {
		for j := i + 1; j < len(sprints); j++ {
			a, b := sprints[i], sprints[j]

			if slices.Contains(a.BlocksSprints, b.ID) {
				conflicts = append(conflicts, model.BlockingConflict{
					SprintAID:   a.ID,
					SprintAName: a.Name,
					SprintBID:   b.ID,
					SprintBName: b.Name,
					Description: fmt.Sprintf("%s blocks %s", a.Name, b.Name),
				})
			}

			if slices.Contains(b.BlocksSprints, a.ID) {
				conflicts = append(conflicts, model.BlockingConflict{
					SprintAID:   b.ID,
					SprintAName: b.Name,
					SprintBID:   a.ID,
					SprintBName: a.Name,
					Description: fmt.Sprintf("%s blocks %s", b.Name, a.Name),
				})
			}
		}
	}

	return conflicts
}

// CommonMonths intersects the available-months sets of all sprints. A sprint
// with no explicit months counts as available year-round.
func CommonMonths(sprints []db.Sprint) []time.Month {
	if len(sprints) == 0 {
		return nil
	}

	common := monthsOf(sprints[0])
	for _, sprint := range sprints[1:] {
		months := monthsOf(sprint)
		common = slices.DeleteFunc(common, func(m time.Month) bool {
			return !slices.Contains(months, m)
		})
	}
	return common
}

func monthsOf(sprint db.Sprint) []time.Month {
	if len(sprint.AvailableMonths) == 0 {
		return []time.Month{
			time.January, time.February, time.March, time.April,
			time.May, time.June, time.July, time.August,
			time.September, time.October, time.November, time.December,
		}
	}
	months := make([]time.Month, 0, len(sprint.AvailableMonths))
	for _, m := range sprint.AvailableMonths {
		months = append(months, time.Month(m))
	}
	return months
}

// CheckSeasonalCompatibility reports a fatal incompatibility when the sprints
// share no month, and an advisory warning when they share fewer than three.
func CheckSeasonalCompatibility(sprints []db.Sprint) []model.SeasonalIssue {
	common := CommonMonths(sprints)

	affected := make([]model.SprintRef, 0, len(sprints))
	for _, s := range sprints {
		affected = append(affected, model.SprintRef{ID: s.ID, Name: s.Name})
	}

	switch {
	case len(common) == 0:
		return []model.SeasonalIssue{{
			Type:            model.SeasonalIncompatibility,
			Description:     "no common months available across all sprints",
			AffectedSprints: affected,
		}}
	case len(common) < seasonalWarningThreshold:
		return []model.SeasonalIssue{{
			Type:            model.SeasonalWarning,
			Description:     fmt.Sprintf("limited seasonal availability: only %d common months", len(common)),
			AvailableMonths: common,
			AffectedSprints: affected,
		}}
	}
	return nil
}

// AnalyzeDurationConstraints is the named extension point for flagging pools
// whose aggregate duration is out of proportion to their time horizon. It
// currently produces no warnings.
func AnalyzeDurationConstraints(sprints []db.Sprint) []model.DurationWarning {
	return nil
}

// SumDurations totals the calculated duration of the given sprints in hours
func SumDurations(sprints []db.Sprint) int {
	total := 0
	for _, s := range sprints {
		total += s.CalculatedDurationHours
	}
	return total
}
