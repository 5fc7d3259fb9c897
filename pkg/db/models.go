package db

import (
	"time"

	"github.com/michaelschiller-mdm-solutions/campaign-pool-engine/pkg/core/model"
)

// CampaignPool is a persisted, reusable bundle of content sprints
type CampaignPool struct {
	ID                 int
	Name               string
	Description        string
	SprintIDs          []int
	SprintNames        []string
	TotalDurationHours int
	CompatibleAccounts int
	AssignmentStrategy model.Strategy
	TimeHorizonDays    int
	IsTemplate         bool
	TemplateCategory   string
	UsageCount         int
	LastAssigned       *time.Time
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// Sprint is a content sprint record. Read-only from this engine's
// perspective; it is owned by the content subsystem.
type Sprint struct {
	ID                      int
	Name                    string
	SprintType              string
	Location                string
	AvailableMonths         []int // 1-12; empty means available year-round
	BlocksSprints           []int
	BlocksHighlightGroups   []int
	CalculatedDurationHours int
}

// AccountCandidate is an account row as seen by the eligibility filter
type AccountCandidate struct {
	ID                 int
	Username           string
	Status             string
	CurrentLocation    string
	CooldownUntil      *time.Time
	CurrentAssignments int
}

// AccountFilter narrows the account population query. An explicit AccountIDs
// list switches the query to manual mode; the other flags are ignored then.
type AccountFilter struct {
	AccountIDs             []int
	RequireWarmupComplete  bool
	RequireCooldownExpired bool
}

// NewAssignment is the input for one per-account-per-sprint assignment row
type NewAssignment struct {
	AccountID    int
	SprintID     int
	StartDate    time.Time
	StrategyUsed model.Strategy
}

// PoolFilter narrows and pages the pool listing
type PoolFilter struct {
	Strategy         model.Strategy
	IsTemplate       *bool
	TemplateCategory string
	Limit            int
	Offset           int
}

// PoolPatch enumerates every updatable pool field as an optional value.
// Nil means "leave unchanged"; the persistence layer applies exactly these
// fields and nothing else.
type PoolPatch struct {
	Name               *string
	Description        *string
	AssignmentStrategy *model.Strategy
	TimeHorizonDays    *int
	IsTemplate         *bool
	TemplateCategory   *string
	SprintIDs          []int
	TotalDurationHours *int
	CompatibleAccounts *int
}

// HasSprintChange reports whether the patch replaces the sprint set
func (p PoolPatch) HasSprintChange() bool {
	return p.SprintIDs != nil
}

// PoolStats is the aggregate usage view of one pool
type PoolStats struct {
	UsageCount           int
	LastAssigned         *time.Time
	AccountsAssigned     int
	TotalAssignments     int
	CompletedAssignments int
}
