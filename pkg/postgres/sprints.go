package postgres

import (
	"context"
	"fmt"

	"github.com/michaelschiller-mdm-solutions/campaign-pool-engine/pkg/db"
)

// GetSprintsByIDs loads the sprint records for the given ids. Ids with no
// matching row are simply absent from the result; callers decide whether
// that is an error.
func (q *queries) GetSprintsByIDs(ctx context.Context, sprintIDs []int) ([]db.Sprint, error) {
	if len(sprintIDs) == 0 {
		return nil, nil
	}

	rows, err := q.db.Query(ctx, `
		SELECT id, name, sprint_type, COALESCE(location, ''),
		       COALESCE(available_months, '{}'), COALESCE(blocks_sprints, '{}'),
		       COALESCE(blocks_highlight_groups, '{}'), calculated_duration_hours
		FROM content_sprints
		WHERE id = ANY($1)
	`, sprintIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to query sprints: %w", err)
	}
	defer rows.Close()

	var sprints []db.Sprint
	for rows.Next() {
		var s db.Sprint
		if err := rows.Scan(
			&s.ID,
			&s.Name,
			&s.SprintType,
			&s.Location,
			&s.AvailableMonths,
			&s.BlocksSprints,
			&s.BlocksHighlightGroups,
			&s.CalculatedDurationHours,
		); err != nil {
			return nil, fmt.Errorf("failed to scan sprint: %w", err)
		}
		sprints = append(sprints, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating sprints: %w", err)
	}

	return sprints, nil
}

// SumSprintDurations totals calculated durations; missing ids contribute zero
func (q *queries) SumSprintDurations(ctx context.Context, sprintIDs []int) (int, error) {
	var total int
	err := q.db.QueryRow(ctx, `
		SELECT COALESCE(SUM(calculated_duration_hours), 0)
		FROM content_sprints
		WHERE id = ANY($1)
	`, sprintIDs).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("failed to sum sprint durations: %w", err)
	}
	return total, nil
}
