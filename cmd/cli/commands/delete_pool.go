package commands

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/michaelschiller-mdm-solutions/campaign-pool-engine/pkg/core/services"
)

// DeletePoolCmd creates the deletePool command
func DeletePoolCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "deletePool <pool_id>",
		Short: "Delete a pool that has no active assignments",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			poolID, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("pool_id must be a number: %w", err)
			}

			if err := services.DeletePool(app.Ctx, app.Database, app.Logger, app.Metrics, poolID); err != nil {
				return err
			}

			fmt.Printf("\n✓ Pool %d deleted\n\n", poolID)
			return nil
		},
	}
}
