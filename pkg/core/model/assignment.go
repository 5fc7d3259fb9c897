package model

import "time"

// AssignmentOptions describes a single pool-assignment request
type AssignmentOptions struct {
	Strategy         Strategy  `validate:"required,oneof=random balanced manual"`
	AccountIDs       []int     `validate:"required_if=Strategy manual"`
	MaxAssignments   int       `validate:"min=0"`
	StartDate        time.Time // zero value means "now"
	RespectCooldowns bool
}

// PoolAssignment is the reporting projection for one successful
// (account, pool) pairing. The persisted rows are per account x sprint.
type PoolAssignment struct {
	AccountID      int
	PoolID         int
	SprintIDs      []int
	AssignmentDate time.Time
	StartDate      time.Time
	StrategyUsed   Strategy
}

// FailedAssignment records an account that could not receive the pool
type FailedAssignment struct {
	AccountID    int
	PoolID       int
	Reason       string
	ConflictType ConflictType
}

// WarningType labels non-fatal findings attached to an assignment result
type WarningType string

const (
	WarningTiming        WarningType = "timing"
	WarningCompatibility WarningType = "compatibility"
	WarningLocation      WarningType = "location"
)

// AssignmentWarning is an advisory finding; it never fails an assignment
type AssignmentWarning struct {
	Type             WarningType
	Message          string
	AffectedAccounts []int
}

// AssignmentResult aggregates one pool-assignment call. Per-account failures
// live here as data; they are a normal outcome of a successful call.
type AssignmentResult struct {
	SuccessfulAssignments []PoolAssignment
	FailedAssignments     []FailedAssignment
	TotalAccountsAssigned int
	ConflictsResolved     int
	Warnings              []AssignmentWarning
}

// AssignmentPreview is the no-side-effect variant of an assignment result
type AssignmentPreview struct {
	EligibleAccounts   int
	Assignments        []PoolAssignment
	PotentialConflicts []AssignmentWarning
}

// BulkAssignmentItem pairs a pool with the options to assign it under
type BulkAssignmentItem struct {
	PoolID  int               `validate:"required,min=1"`
	Options AssignmentOptions `validate:"required"`
}

// BulkAssignmentRequest sequences several independent pool assignments
type BulkAssignmentRequest struct {
	PoolAssignments []BulkAssignmentItem `validate:"min=1,dive"`
}

// BulkAssignmentResult aggregates partial success across pools
type BulkAssignmentResult struct {
	SuccessfulPools       int
	FailedPools           int
	TotalAccountsAssigned int
	AssignmentResults     []AssignmentResult
	OverallWarnings       []AssignmentWarning
}

// CreatePoolRequest is the validated input for pool creation
type CreatePoolRequest struct {
	Name               string   `validate:"required"`
	Description        string   `validate:"-"`
	SprintIDs          []int    `validate:"min=1"`
	AssignmentStrategy Strategy `validate:"omitempty,oneof=random balanced manual"`
	TimeHorizonDays    int      `validate:"omitempty,min=1"`
	IsTemplate         bool
	TemplateCategory   string
}
