package model

import "time"

// SeasonalIssueType distinguishes fatal from advisory seasonal findings
type SeasonalIssueType string

const (
	// SeasonalIncompatibility means the sprints share no available month; the pool can never run
	SeasonalIncompatibility SeasonalIssueType = "seasonal_incompatibility"

	// SeasonalWarning means the sprints share fewer than three months; usable but tight
	SeasonalWarning SeasonalIssueType = "seasonal_warning"
)

// SprintRef identifies a sprint in a report without dragging the full record along
type SprintRef struct {
	ID   int
	Name string
}

// BlockingConflict records that sprint A's block-list names sprint B.
// The check runs in both directions, so a mutual block produces two entries.
type BlockingConflict struct {
	SprintAID   int
	SprintAName string
	SprintBID   int
	SprintBName string
	Description string
}

// SeasonalIssue records a finding about the sprints' common available months
type SeasonalIssue struct {
	Type            SeasonalIssueType
	Description     string
	AvailableMonths []time.Month
	AffectedSprints []SprintRef
}

// Fatal reports whether this issue alone makes the pool incompatible
func (si SeasonalIssue) Fatal() bool {
	return si.Type == SeasonalIncompatibility
}

// DurationWarning flags a pool whose aggregate duration looks unreasonable
// relative to its time horizon. Currently never produced; the step exists so
// duration policy can be added without changing the validation contract.
type DurationWarning struct {
	Description string
}

// CompatibilityReport is the result of validating a sprint set. It is built
// fresh on every call and never cached across requests.
type CompatibilityReport struct {
	IsCompatible      bool
	BlockingConflicts []BlockingConflict
	SeasonalIssues    []SeasonalIssue
	DurationWarnings  []DurationWarning
	EligibleAccounts  int
	Message           string
	TotalConflicts    int
}
