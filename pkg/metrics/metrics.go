package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus collectors for the assignment engine.
// A nil *Metrics is valid and records nothing, so callers and tests can
// skip metrics wiring entirely.
type Metrics struct {
	AccountsAssignedTotal   *prometheus.CounterVec
	AssignmentFailuresTotal *prometheus.CounterVec
	PoolAssignmentRunsTotal *prometheus.CounterVec
	BulkRunsTotal           prometheus.Counter
	PoolsCreatedTotal       prometheus.Counter
	PoolsDeletedTotal       prometheus.Counter

	registry *prometheus.Registry
}

// New creates a Metrics instance with all collectors registered on a
// private registry
func New() *Metrics {
	reg := prometheus.NewRegistry()

	m := &Metrics{
		AccountsAssignedTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pool_engine_accounts_assigned_total",
				Help: "Accounts successfully assigned a pool, by strategy",
			},
			[]string{"strategy"},
		),
		AssignmentFailuresTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pool_engine_assignment_failures_total",
				Help: "Per-account assignment rejections, by conflict type",
			},
			[]string{"conflict_type"},
		),
		PoolAssignmentRunsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pool_engine_pool_assignment_runs_total",
				Help: "Pool assignment calls, by outcome",
			},
			[]string{"outcome"},
		),
		BulkRunsTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "pool_engine_bulk_runs_total",
				Help: "Bulk assignment batches processed",
			},
		),
		PoolsCreatedTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "pool_engine_pools_created_total",
				Help: "Campaign pools created",
			},
		),
		PoolsDeletedTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "pool_engine_pools_deleted_total",
				Help: "Campaign pools deleted",
			},
		),
		registry: reg,
	}

	reg.MustRegister(
		m.AccountsAssignedTotal,
		m.AssignmentFailuresTotal,
		m.PoolAssignmentRunsTotal,
		m.BulkRunsTotal,
		m.PoolsCreatedTotal,
		m.PoolsDeletedTotal,
	)

	return m
}

// Registry exposes the private registry for an HTTP handler or push gateway
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// RecordAccountsAssigned adds successfully assigned accounts for a strategy
func (m *Metrics) RecordAccountsAssigned(strategy string, count int) {
	if m == nil || count == 0 {
		return
	}
	m.AccountsAssignedTotal.WithLabelValues(strategy).Add(float64(count))
}

// RecordAssignmentFailure counts one per-account rejection
func (m *Metrics) RecordAssignmentFailure(conflictType string) {
	if m == nil {
		return
	}
	m.AssignmentFailuresTotal.WithLabelValues(conflictType).Inc()
}

// RecordAssignmentRun counts one pool-assignment call by outcome
func (m *Metrics) RecordAssignmentRun(outcome string) {
	if m == nil {
		return
	}
	m.PoolAssignmentRunsTotal.WithLabelValues(outcome).Inc()
}

// RecordBulkRun counts one bulk batch
func (m *Metrics) RecordBulkRun() {
	if m == nil {
		return
	}
	m.BulkRunsTotal.Inc()
}

// RecordPoolCreated counts one pool creation
func (m *Metrics) RecordPoolCreated() {
	if m == nil {
		return
	}
	m.PoolsCreatedTotal.Inc()
}

// RecordPoolDeleted counts one pool deletion
func (m *Metrics) RecordPoolDeleted() {
	if m == nil {
		return
	}
	m.PoolsDeletedTotal.Inc()
}
