package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/michaelschiller-mdm-solutions/campaign-pool-engine/pkg/db"
)

const accountColumns = `
	a.id, a.username, a.status, COALESCE(a.current_location, ''), a.cooldown_until,
	COUNT(asa.id) FILTER (WHERE asa.status IN ('scheduled', 'active'))`

// QueryEligibleAccounts returns the account population for one assignment
// run. An explicit id list switches to manual mode, which only requires the
// accounts to be active; automatic mode additionally applies the warmup and
// cooldown gates.
func (q *queries) QueryEligibleAccounts(ctx context.Context, filter db.AccountFilter) ([]db.AccountCandidate, error) {
	var sql string
	var args []any

	if len(filter.AccountIDs) > 0 {
		sql = `
			SELECT ` + accountColumns + `
			FROM accounts a
			LEFT JOIN account_sprint_assignments asa ON asa.account_id = a.id
			WHERE a.id = ANY($1) AND a.status = 'active'
			GROUP BY a.id
			ORDER BY a.id`
		args = []any{filter.AccountIDs}
	} else {
		sql = `
			SELECT ` + accountColumns + `
			FROM accounts a
			JOIN account_content_state acs ON acs.account_id = a.id
			LEFT JOIN account_sprint_assignments asa ON asa.account_id = a.id
			WHERE a.status = 'active'
			  AND acs.warmup_complete = true
			  AND ($1 = false OR a.cooldown_until IS NULL OR a.cooldown_until <= NOW())
			GROUP BY a.id
			ORDER BY COUNT(asa.id) FILTER (WHERE asa.status IN ('scheduled', 'active')) ASC, a.id ASC`
		args = []any{filter.RequireCooldownExpired}
	}

	rows, err := q.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query eligible accounts: %w", err)
	}
	defer rows.Close()

	var candidates []db.AccountCandidate
	for rows.Next() {
		var c db.AccountCandidate
		if err := rows.Scan(
			&c.ID,
			&c.Username,
			&c.Status,
			&c.CurrentLocation,
			&c.CooldownUntil,
			&c.CurrentAssignments,
		); err != nil {
			return nil, fmt.Errorf("failed to scan account candidate: %w", err)
		}
		candidates = append(candidates, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating account candidates: %w", err)
	}

	return candidates, nil
}

// CountCompatibleAccounts counts the accounts that could take automatic
// assignments right now
func (q *queries) CountCompatibleAccounts(ctx context.Context) (int, error) {
	var count int
	err := q.db.QueryRow(ctx, `
		SELECT COUNT(*)
		FROM accounts a
		JOIN account_content_state acs ON acs.account_id = a.id
		WHERE a.status = 'active'
		  AND acs.warmup_complete = true
		  AND (a.cooldown_until IS NULL OR a.cooldown_until <= NOW())
	`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count compatible accounts: %w", err)
	}
	return count, nil
}

// AccountsInCooldown returns the subset of the given accounts whose cooldown
// has not expired at the reference time
func (q *queries) AccountsInCooldown(ctx context.Context, accountIDs []int, at time.Time) ([]int, error) {
	if len(accountIDs) == 0 {
		return nil, nil
	}

	rows, err := q.db.Query(ctx, `
		SELECT id
		FROM accounts
		WHERE id = ANY($1) AND cooldown_until IS NOT NULL AND cooldown_until > $2
		ORDER BY id
	`, accountIDs, at)
	if err != nil {
		return nil, fmt.Errorf("failed to query accounts in cooldown: %w", err)
	}
	defer rows.Close()

	var ids []int
	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan account id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating accounts in cooldown: %w", err)
	}

	return ids, nil
}
