package commands

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/michaelschiller-mdm-solutions/campaign-pool-engine/pkg/core/assignment"
	"github.com/michaelschiller-mdm-solutions/campaign-pool-engine/pkg/core/model"
)

// assignmentFlags are the shared flags of assignPool and previewAssignment
type assignmentFlags struct {
	strategy         string
	accountIDs       []int
	maxAssignments   int
	startDate        string
	respectCooldowns bool
}

func (f *assignmentFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.strategy, "strategy", "random", "Assignment strategy (random, balanced, manual)")
	cmd.Flags().IntSliceVar(&f.accountIDs, "accounts", nil, "Explicit account IDs (required for manual strategy)")
	cmd.Flags().IntVar(&f.maxAssignments, "max", 0, "Maximum accounts to assign (0 = no cap)")
	cmd.Flags().StringVar(&f.startDate, "start", "", "Start date (YYYY-MM-DD, default now)")
	cmd.Flags().BoolVar(&f.respectCooldowns, "respect-cooldowns", true, "Exclude accounts still in cooldown")
}

func (f *assignmentFlags) options() (model.AssignmentOptions, error) {
	options := model.AssignmentOptions{
		Strategy:         model.Strategy(f.strategy),
		AccountIDs:       f.accountIDs,
		MaxAssignments:   f.maxAssignments,
		RespectCooldowns: f.respectCooldowns,
	}
	if f.startDate != "" {
		start, err := time.Parse("2006-01-02", f.startDate)
		if err != nil {
			return options, fmt.Errorf("start must be YYYY-MM-DD: %w", err)
		}
		options.StartDate = start
	}
	return options, nil
}

// AssignPoolCmd creates the assignPool command
func AssignPoolCmd(app *AppContext) *cobra.Command {
	var flags assignmentFlags

	cmd := &cobra.Command{
		Use:   "assignPool <pool_id>",
		Short: "Assign a pool's sprints to eligible accounts",
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
			result, err := executor.AssignPool(app.Ctx, poolID, options)
			if err != nil {
				return err
			}

			fmt.Printf("\n✓ Pool %d assigned!\n\n", poolID)
			fmt.Printf("Accounts assigned: %d\n", result.TotalAccountsAssigned)
			for _, a := range result.SuccessfulAssignments {
				fmt.Printf("  ✓ account %d -> sprints %v\n", a.AccountID, a.SprintIDs)
			}

			if len(result.FailedAssignments) > 0 {
				fmt.Printf("\nFailed accounts (%d):\n", len(result.FailedAssignments))
				for _, failed := range result.FailedAssignments {
					fmt.Printf("  ✗ account %d [%s]: %s\n", failed.AccountID, failed.ConflictType, failed.Reason)
				}
			}
			fmt.Println()

			return nil
		},
	}

	flags.register(cmd)
	return cmd
}
