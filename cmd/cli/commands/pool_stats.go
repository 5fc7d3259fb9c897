package commands

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/michaelschiller-mdm-solutions/campaign-pool-engine/pkg/core/services"
)

// PoolStatsCmd creates the poolStats command
func PoolStatsCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "poolStats <pool_id>",
		Short: "Show aggregate usage statistics for a pool",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			poolID, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("pool_id must be a number: %w", err)
			}

			stats, err := services.PoolStats(app.Ctx, app.Database, poolID)
			if err != nil {
				return err
			}

			lastAssigned := "never"
			if stats.LastAssigned != nil {
				lastAssigned = stats.LastAssigned.Format("2006-01-02 15:04")
			}

			fmt.Printf("\nPool %d statistics:\n\n", poolID)
			fmt.Printf("Usage count:           %d\n", stats.UsageCount)
			fmt.Printf("Last assigned:         %s\n", lastAssigned)
			fmt.Printf("Accounts assigned:     %d\n", stats.AccountsAssigned)
			fmt.Printf("Total assignments:     %d\n", stats.TotalAssignments)
			fmt.Printf("Completed assignments: %d\n\n", stats.CompletedAssignments)

			return nil
		},
	}
}
