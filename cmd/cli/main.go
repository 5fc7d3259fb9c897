package main

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/michaelschiller-mdm-solutions/campaign-pool-engine/cmd/cli/commands"
	"github.com/michaelschiller-mdm-solutions/campaign-pool-engine/internal/config"
	"github.com/michaelschiller-mdm-solutions/campaign-pool-engine/pkg/metrics"
	"github.com/michaelschiller-mdm-solutions/campaign-pool-engine/pkg/postgres"
	"github.com/michaelschiller-mdm-solutions/campaign-pool-engine/pkg/utils/logging"
)

var (
	env string
	app *commands.AppContext
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "poolcli",
		Short: "Campaign Pool Engine CLI - Manage campaign pools and assignments",
		Long:  `A CLI tool for creating campaign pools, validating sprint compatibility, and assigning pools to accounts.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initApp()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if app != nil {
				if app.Logger != nil {
					app.Logger.Sync()
				}
				if app.Database != nil {
					app.Database.Close()
				}
			}
		},
	}

	rootCmd.PersistentFlags().StringVarP(&env, "env", "e", "", "Environment (required: test, prod, etc.)")
	rootCmd.MarkPersistentFlagRequired("env")

	rootCmd.AddCommand(commands.MigrateCmd(appRef()))
	rootCmd.AddCommand(commands.CreatePoolCmd(appRef()))
	rootCmd.AddCommand(commands.ListPoolsCmd(appRef()))
	rootCmd.AddCommand(commands.UpdatePoolCmd(appRef()))
	rootCmd.AddCommand(commands.DeletePoolCmd(appRef()))
	rootCmd.AddCommand(commands.ValidatePoolCmd(appRef()))
	rootCmd.AddCommand(commands.PoolStatsCmd(appRef()))
	rootCmd.AddCommand(commands.AssignPoolCmd(appRef()))
	rootCmd.AddCommand(commands.PreviewAssignmentCmd(appRef()))
	rootCmd.AddCommand(commands.BulkAssignCmd(appRef()))

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// appRef returns the shared AppContext. Commands capture the pointer at
// registration time; initApp fills it in before any RunE executes.
func appRef() *commands.AppContext {
	if app == nil {
		app = &commands.AppContext{}
	}
	return app
}

// initApp sets up logger, config, metrics, and the database connection
func initApp() error {
	appRef()
	app.Ctx = context.Background()

	var err error
	app.Logger, err = logging.InitLogger(env)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	app.Logger.Info("Starting application", zap.String("environment", env))

	app.Logger.Info("Loading configuration")
	app.Cfg, err = config.LoadWithEnv(env)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	app.Logger.Debug("Configuration loaded successfully")

	app.Metrics = metrics.New()
	if app.Cfg.MetricsListenAddr != "" {
		startMetricsServer(app.Cfg.MetricsListenAddr)
	}

	app.Logger.Info("Connecting to database")
	app.Database, err = postgres.NewDB(app.Ctx, app.Cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	app.Logger.Info("Database initialized successfully")

	return nil
}

// startMetricsServer exposes the private registry for scraping while a
// long-running command (typically bulkAssign) is in flight
func startMetricsServer(addr string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(app.Metrics.Registry(), promhttp.HandlerOpts{}))

	go func() {
		if err := http.ListenAndServe(addr, mux); err != nil {
			app.Logger.Warn("metrics server stopped", zap.Error(err))
		}
	}()
}
