package db

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when a requested row does not exist
var ErrNotFound = errors.New("not found")

// Store defines the database operations the engine needs. The same interface
// is implemented by the pooled connection and by a transaction scope, so core
// logic never cares which one it is running against.
type Store interface {
	// Campaign pools
	InsertPool(ctx context.Context, pool *CampaignPool) error
	GetPool(ctx context.Context, poolID int) (*CampaignPool, error)
	ListPools(ctx context.Context, filter PoolFilter) ([]CampaignPool, int, error)
	UpdatePool(ctx context.Context, poolID int, patch PoolPatch) (*CampaignPool, error)
	DeletePool(ctx context.Context, poolID int) error
	CountActivePoolAssignments(ctx context.Context, poolID int) (int, error)
	GetPoolStats(ctx context.Context, poolID int) (*PoolStats, error)
	IncrementPoolUsage(ctx context.Context, poolID int, at time.Time) error

	// Content sprints (read-only)
	GetSprintsByIDs(ctx context.Context, sprintIDs []int) ([]Sprint, error)
	SumSprintDurations(ctx context.Context, sprintIDs []int) (int, error)

	// Account population (read-only)
	QueryEligibleAccounts(ctx context.Context, filter AccountFilter) ([]AccountCandidate, error)
	CountCompatibleAccounts(ctx context.Context) (int, error)
	AccountsInCooldown(ctx context.Context, accountIDs []int, at time.Time) ([]int, error)

	// Account-sprint assignment collaborator. Business rejections come back
	// as *model.AssignmentError; anything else is a system failure.
	CreateSprintAssignment(ctx context.Context, assignment NewAssignment) error
}

// Database is a Store that can also run a function inside a single
// transaction. The transaction commits when fn returns nil and rolls back
// when it returns an error, on every exit path.
type Database interface {
	Store
	WithinTx(ctx context.Context, fn func(Store) error) error
}
