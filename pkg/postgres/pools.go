package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/michaelschiller-mdm-solutions/campaign-pool-engine/pkg/core/model"
	"github.com/michaelschiller-mdm-solutions/campaign-pool-engine/pkg/db"
)

const poolColumns = `
	cp.id, cp.name, COALESCE(cp.description, ''), cp.sprint_ids,
	cp.total_duration_hours, cp.compatible_accounts, cp.assignment_strategy,
	cp.time_horizon_days, cp.is_template, COALESCE(cp.template_category, ''),
	cp.usage_count, cp.last_assigned, cp.created_at, cp.updated_at,
	COALESCE(array_agg(cs.name ORDER BY cs.id) FILTER (WHERE cs.id IS NOT NULL), '{}')`

// InsertPool persists a new pool and fills its generated fields
func (q *queries) InsertPool(ctx context.Context, pool *db.CampaignPool) error {
	err := q.db.QueryRow(ctx, `
		INSERT INTO campaign_pools (
			name, description, sprint_ids, total_duration_hours,
			compatible_accounts, assignment_strategy, time_horizon_days,
			is_template, template_category
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, usage_count, created_at, updated_at
	`,
		pool.Name,
		nilIfEmpty(pool.Description),
		pool.SprintIDs,
		pool.TotalDurationHours,
		pool.CompatibleAccounts,
		string(pool.AssignmentStrategy),
		pool.TimeHorizonDays,
		pool.IsTemplate,
		nilIfEmpty(pool.TemplateCategory),
	).Scan(&pool.ID, &pool.UsageCount, &pool.CreatedAt, &pool.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert campaign pool: %w", err)
	}
	return nil
}

// GetPool loads one pool together with the names of its sprints
func (q *queries) GetPool(ctx context.Context, poolID int) (*db.CampaignPool, error) {
	row := q.db.QueryRow(ctx, `
		SELECT `+poolColumns+`
		FROM campaign_pools cp
		LEFT JOIN content_sprints cs ON cs.id = ANY(cp.sprint_ids)
		WHERE cp.id = $1
		GROUP BY cp.id
	`, poolID)

	pool, err := scanPool(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, db.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load campaign pool %d: %w", poolID, err)
	}
	return pool, nil
}

// ListPools returns a filtered page of pools plus the unpaginated total count
func (q *queries) ListPools(ctx context.Context, filter db.PoolFilter) ([]db.CampaignPool, int, error) {
	strategy := nilIfEmpty(string(filter.Strategy))
	category := nilIfEmpty(filter.TemplateCategory)

	var total int
	err := q.db.QueryRow(ctx, `
		SELECT COUNT(*)
		FROM campaign_pools cp
		WHERE ($1::text IS NULL OR cp.assignment_strategy = $1)
		  AND ($2::boolean IS NULL OR cp.is_template = $2)
		  AND ($3::text IS NULL OR cp.template_category = $3)
	`, strategy, filter.IsTemplate, category).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count campaign pools: %w", err)
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}

	rows, err := q.db.Query(ctx, `
		SELECT `+poolColumns+`
		FROM campaign_pools cp
		LEFT JOIN content_sprints cs ON cs.id = ANY(cp.sprint_ids)
		WHERE ($1::text IS NULL OR cp.assignment_strategy = $1)
		  AND ($2::boolean IS NULL OR cp.is_template = $2)
		  AND ($3::text IS NULL OR cp.template_category = $3)
		GROUP BY cp.id
		ORDER BY cp.created_at DESC
		LIMIT $4 OFFSET $5
	`, strategy, filter.IsTemplate, category, limit, filter.Offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query campaign pools: %w", err)
	}
	defer rows.Close()

	var pools []db.CampaignPool
	for rows.Next() {
		pool, err := scanPool(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan campaign pool: %w", err)
		}
		pools = append(pools, *pool)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating campaign pools: %w", err)
	}

	return pools, total, nil
}

// UpdatePool applies a typed patch in a single statement; nil patch fields
// keep their current value
func (q *queries) UpdatePool(ctx context.Context, poolID int, patch db.PoolPatch) (*db.CampaignPool, error) {
	var strategy *string
	if patch.AssignmentStrategy != nil {
		s := string(*patch.AssignmentStrategy)
		strategy = &s
	}

	var id int
	err := q.db.QueryRow(ctx, `
		UPDATE campaign_pools SET
			name                 = COALESCE($2, name),
			description          = COALESCE($3, description),
			assignment_strategy  = COALESCE($4, assignment_strategy),
			time_horizon_days    = COALESCE($5, time_horizon_days),
			is_template          = COALESCE($6, is_template),
			template_category    = COALESCE($7, template_category),
			sprint_ids           = COALESCE($8::integer[], sprint_ids),
			total_duration_hours = COALESCE($9, total_duration_hours),
			compatible_accounts  = COALESCE($10, compatible_accounts),
			updated_at           = NOW()
		WHERE id = $1
		RETURNING id
	`,
		poolID,
		patch.Name,
		patch.Description,
		strategy,
		patch.TimeHorizonDays,
		patch.IsTemplate,
		patch.TemplateCategory,
		patch.SprintIDs,
		patch.TotalDurationHours,
		patch.CompatibleAccounts,
	).Scan(&id)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, db.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update campaign pool %d: %w", poolID, err)
	}

	return q.GetPool(ctx, poolID)
}

// DeletePool removes a pool row
func (q *queries) DeletePool(ctx context.Context, poolID int) error {
	tag, err := q.db.Exec(ctx, `DELETE FROM campaign_pools WHERE id = $1`, poolID)
	if err != nil {
		return fmt.Errorf("failed to delete campaign pool %d: %w", poolID, err)
	}
	if tag.RowsAffected() == 0 {
		return db.ErrNotFound
	}
	return nil
}

// CountActivePoolAssignments counts scheduled/active assignments that
// reference any sprint of the pool
func (q *queries) CountActivePoolAssignments(ctx context.Context, poolID int) (int, error) {
	var count int
	err := q.db.QueryRow(ctx, `
		SELECT COUNT(*)
		FROM account_sprint_assignments asa
		WHERE asa.sprint_id = ANY(
			SELECT unnest(sprint_ids) FROM campaign_pools WHERE id = $1
		) AND asa.status IN ('scheduled', 'active')
	`, poolID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count active pool assignments: %w", err)
	}
	return count, nil
}

// GetPoolStats returns aggregate usage for one pool
func (q *queries) GetPoolStats(ctx context.Context, poolID int) (*db.PoolStats, error) {
	var stats db.PoolStats
	err := q.db.QueryRow(ctx, `
		SELECT
			cp.usage_count,
			cp.last_assigned,
			COUNT(DISTINCT asa.account_id) FILTER (WHERE asa.id IS NOT NULL),
			COUNT(DISTINCT asa.id),
			COUNT(DISTINCT asa.id) FILTER (WHERE asa.status = 'completed')
		FROM campaign_pools cp
		LEFT JOIN account_sprint_assignments asa ON asa.sprint_id = ANY(cp.sprint_ids)
		WHERE cp.id = $1
		GROUP BY cp.id, cp.usage_count, cp.last_assigned
	`, poolID).Scan(
		&stats.UsageCount,
		&stats.LastAssigned,
		&stats.AccountsAssigned,
		&stats.TotalAssignments,
		&stats.CompletedAssignments,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, db.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load pool stats for %d: %w", poolID, err)
	}
	return &stats, nil
}

// IncrementPoolUsage bumps the usage counter and stamps last_assigned in a
// single atomic statement
func (q *queries) IncrementPoolUsage(ctx context.Context, poolID int, at time.Time) error {
	tag, err := q.db.Exec(ctx, `
		UPDATE campaign_pools
		SET usage_count = usage_count + 1,
		    last_assigned = $2,
		    updated_at = NOW()
		WHERE id = $1
	`, poolID, at)
	if err != nil {
		return fmt.Errorf("failed to update pool usage for %d: %w", poolID, err)
	}
	if tag.RowsAffected() == 0 {
		return db.ErrNotFound
	}
	return nil
}

func scanPool(row pgx.Row) (*db.CampaignPool, error) {
	var pool db.CampaignPool
	var strategy string
	err := row.Scan(
		&pool.ID,
		&pool.Name,
		&pool.Description,
		&pool.SprintIDs,
		&pool.TotalDurationHours,
		&pool.CompatibleAccounts,
		&strategy,
		&pool.TimeHorizonDays,
		&pool.IsTemplate,
		&pool.TemplateCategory,
		&pool.UsageCount,
		&pool.LastAssigned,
		&pool.CreatedAt,
		&pool.UpdatedAt,
		&pool.SprintNames,
	)
	if err != nil {
		return nil, err
	}
	pool.AssignmentStrategy = model.Strategy(strategy)
	return &pool, nil
}

func nilIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
