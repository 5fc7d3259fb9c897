package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/michaelschiller-mdm-solutions/campaign-pool-engine/pkg/core/model"
	"github.com/michaelschiller-mdm-solutions/campaign-pool-engine/pkg/core/services"
)

// ValidatePoolCmd creates the validatePool command
func ValidatePoolCmd(app *AppContext) *cobra.Command {
	var sprintIDs []int

	cmd := &cobra.Command{
		Use:   "validatePool",
		Short: "Check a sprint set for compatibility without creating a pool",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			report, err := services.ValidatePool(app.Ctx, app.Database, sprintIDs)
			if err != nil {
				return err
			}

			printReport(report)
			return nil
		},
	}

	cmd.Flags().IntSliceVar(&sprintIDs, "sprints", nil, "Sprint IDs to validate (required)")
	cmd.MarkFlagRequired("sprints")

	return cmd
}

func printReport(report *model.CompatibilityReport) {
	if report.IsCompatible {
		fmt.Printf("\n✓ %s\n\n", report.Message)
	} else {
		fmt.Printf("\n✗ %s\n\n", report.Message)
	}

	if len(report.BlockingConflicts) > 0 {
		fmt.Printf("Blocking conflicts (%d):\n", len(report.BlockingConflicts))
		for _, c := range report.BlockingConflicts {
			fmt.Printf("  ✗ %s\n", c.Description)
		}
		fmt.Println()
	}

	for _, issue := range report.SeasonalIssues {
		marker := "⚠"
		if issue.Fatal() {
			marker = "✗"
		}
		fmt.Printf("  %s %s\n", marker, issue.Description)
	}
	for _, warning := range report.DurationWarnings {
		fmt.Printf("  ⚠ %s\n", warning.Description)
	}

	if report.IsCompatible {
		fmt.Printf("Eligible accounts: %d\n\n", report.EligibleAccounts)
	}
}
