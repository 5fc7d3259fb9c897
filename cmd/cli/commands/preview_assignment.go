package commands

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/michaelschiller-mdm-solutions/campaign-pool-engine/pkg/core/assignment"
)

// PreviewAssignmentCmd creates the previewAssignment command
func PreviewAssignmentCmd(app *AppContext) *cobra.Command {
	var flags assignmentFlags

	cmd := &cobra.Command{
		Use:   "previewAssignment <pool_id>",
		Short: "Preview an assignment run without persisting anything",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			poolID, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("pool_id must be a number: %w", err)
			}

			options, err := flags.options()
			if err != nil {
				return err
			}

			executor := assignment.NewExecutor(app.Database, app.Logger, app.Metrics)
			preview, err := executor.Preview(app.Ctx, poolID, options)
			if err != nil {
				return err
			}

			fmt.Printf("\nPreview for pool %d:\n\n", poolID)
			fmt.Printf("Eligible accounts: %d\n", preview.EligibleAccounts)
			fmt.Printf("Would assign:      %d\n", len(preview.Assignments))
			for _, a := range preview.Assignments {
				fmt.Printf("  - account %d -> sprints %v (start %s)\n",
					a.AccountID, a.SprintIDs, a.StartDate.Format("2006-01-02"))
			}

			if len(preview.PotentialConflicts) > 0 {
				fmt.Printf("\nPotential conflicts (%d):\n", len(preview.PotentialConflicts))
				for _, warning := range preview.PotentialConflicts {
					fmt.Printf("  ⚠ [%s] %s\n", warning.Type, warning.Message)
					if len(warning.AffectedAccounts) > 0 {
						fmt.Printf("    affected accounts: %v\n", warning.AffectedAccounts)
					}
				}
			}
			fmt.Println()

			return nil
		},
	}

	flags.register(cmd)
	return cmd
}
