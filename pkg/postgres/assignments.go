package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/michaelschiller-mdm-solutions/campaign-pool-engine/pkg/core/model"
	"github.com/michaelschiller-mdm-solutions/campaign-pool-engine/pkg/db"
)

// CreateSprintAssignment runs the per-pair business checks and, when they
// all pass, inserts one assignment row. Business rejections come back as
// *model.AssignmentError so callers can record them and move on; any other
// error is a system failure and aborts the surrounding transaction.
func (q *queries) CreateSprintAssignment(ctx context.Context, assignment db.NewAssignment) error {
	var accountStatus string
	var warmupComplete bool
	var cooldownUntil *time.Time
	err := q.db.QueryRow(ctx, `
		SELECT a.status, COALESCE(acs.warmup_complete, false), a.cooldown_until
		FROM accounts a
		LEFT JOIN account_content_state acs ON acs.account_id = a.id
		WHERE a.id = $1
	`, assignment.AccountID).Scan(&accountStatus, &warmupComplete, &cooldownUntil)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.NewAssignmentError(model.ConflictOther,
			fmt.Sprintf("account %d not found", assignment.AccountID))
	}
	if err != nil {
		return fmt.Errorf("failed to load account %d: %w", assignment.AccountID, err)
	}
	if accountStatus != "active" {
		return model.NewAssignmentError(model.ConflictOther,
			fmt.Sprintf("account %d is not active (status: %s)", assignment.AccountID, accountStatus))
	}
	if !warmupComplete {
		return model.NewAssignmentError(model.ConflictOther,
			fmt.Sprintf("account %d has not completed warmup", assignment.AccountID))
	}
	if cooldownUntil != nil && cooldownUntil.After(assignment.StartDate) {
		return model.NewAssignmentError(model.ConflictCooldown,
			fmt.Sprintf("account %d is in cooldown until %s", assignment.AccountID, cooldownUntil.Format(time.RFC3339)))
	}

	var sprintLocation string
	var availableMonths []int
	var blocksSprints []int
	var durationHours int
	err = q.db.QueryRow(ctx, `
		SELECT COALESCE(location, ''), COALESCE(available_months, '{}'),
		       COALESCE(blocks_sprints, '{}'), calculated_duration_hours
		FROM content_sprints
		WHERE id = $1
	`, assignment.SprintID).Scan(&sprintLocation, &availableMonths, &blocksSprints, &durationHours)
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("sprint %d not found", assignment.SprintID)
	}
	if err != nil {
		return fmt.Errorf("failed to load sprint %d: %w", assignment.SprintID, err)
	}

	if len(availableMonths) > 0 {
		month := int(assignment.StartDate.Month())
		available := false
		for _, m := range availableMonths {
			if m == month {
				available = true
				break
			}
		}
		if !available {
			return model.NewAssignmentError(model.ConflictSeasonal,
				fmt.Sprintf("sprint %d is not available in month %d", assignment.SprintID, month))
		}
	}

	// Conflict scan over the account's live assignments: a repeat of the
	// same sprint or any sprint blocked in either direction rejects the pair.
	rows, err := q.db.Query(ctx, `
		SELECT asa.sprint_id, COALESCE(cs.location, ''), COALESCE(cs.blocks_sprints, '{}')
		FROM account_sprint_assignments asa
		JOIN content_sprints cs ON cs.id = asa.sprint_id
		WHERE asa.account_id = $1 AND asa.status IN ('scheduled', 'active')
	`, assignment.AccountID)
	if err != nil {
		return fmt.Errorf("failed to query existing assignments for account %d: %w", assignment.AccountID, err)
	}
	defer rows.Close()

	type existing struct {
		sprintID int
		location string
		blocks   []int
	}
	var current []existing
	for rows.Next() {
		var e existing
		if err := rows.Scan(&e.sprintID, &e.location, &e.blocks); err != nil {
			return fmt.Errorf("failed to scan existing assignment: %w", err)
		}
		current = append(current, e)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("error iterating existing assignments: %w", err)
	}

	for _, e := range current {
		if e.sprintID == assignment.SprintID {
			return model.NewAssignmentError(model.ConflictBlocking,
				fmt.Sprintf("account %d already has an active assignment for sprint %d", assignment.AccountID, assignment.SprintID))
		}
		if containsInt(blocksSprints, e.sprintID) || containsInt(e.blocks, assignment.SprintID) {
			return model.NewAssignmentError(model.ConflictBlocking,
				fmt.Sprintf("sprint %d conflicts with active sprint %d on account %d", assignment.SprintID, e.sprintID, assignment.AccountID))
		}
		if sprintLocation != "" && e.location != "" && sprintLocation != e.location {
			return model.NewAssignmentError(model.ConflictLocation,
				fmt.Sprintf("sprint %d requires location %q but account %d is committed to %q", assignment.SprintID, sprintLocation, assignment.AccountID, e.location))
		}
	}

	endDate := assignment.StartDate.Add(time.Duration(durationHours) * time.Hour)
	_, err = q.db.Exec(ctx, `
		INSERT INTO account_sprint_assignments (
			account_id, sprint_id, sprint_instance_id, status,
			start_date, end_date, strategy_used
		) VALUES ($1, $2, $3, 'scheduled', $4, $5, $6)
	`,
		assignment.AccountID,
		assignment.SprintID,
		uuid.New().String(),
		assignment.StartDate,
		endDate,
		string(assignment.StrategyUsed),
	)
	if err != nil {
		// A unique violation means a concurrent writer won the same pair;
		// surface it as a blocking rejection rather than a system failure.
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return model.NewAssignmentError(model.ConflictBlocking,
				fmt.Sprintf("account %d already has an active assignment for sprint %d", assignment.AccountID, assignment.SprintID))
		}
		return fmt.Errorf("failed to insert sprint assignment: %w", err)
	}

	return nil
}

func containsInt(values []int, target int) bool {
	for _, v := range values {
		if v == target {
			return true
		}
	}
	return false
}
