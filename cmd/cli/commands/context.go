package commands

import (
	"context"

	"go.uber.org/zap"

	"github.com/michaelschiller-mdm-solutions/campaign-pool-engine/internal/config"
	"github.com/michaelschiller-mdm-solutions/campaign-pool-engine/pkg/metrics"
	"github.com/michaelschiller-mdm-solutions/campaign-pool-engine/pkg/postgres"
)

// AppContext holds the application dependencies shared across all commands
type AppContext struct {
	Cfg      *config.Config
	Database *postgres.DB
	Metrics  *metrics.Metrics
	Logger   *zap.Logger
	Ctx      context.Context
}
