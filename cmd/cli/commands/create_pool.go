package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/michaelschiller-mdm-solutions/campaign-pool-engine/pkg/core/model"
	"github.com/michaelschiller-mdm-solutions/campaign-pool-engine/pkg/core/services"
)

// CreatePoolCmd creates the createPool command
func CreatePoolCmd(app *AppContext) *cobra.Command {
	var (
		description      string
		sprintIDs        []int
		strategy         string
		timeHorizonDays  int
		isTemplate       bool
		templateCategory string
	)

	cmd := &cobra.Command{
		Use:   "createPool <name>",
		Short: "Create a campaign pool from a set of compatible sprints",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := model.CreatePoolRequest{
				Name:               args[0],
				Description:        description,
				SprintIDs:          sprintIDs,
				AssignmentStrategy: model.Strategy(strategy),
				TimeHorizonDays:    timeHorizonDays,
				IsTemplate:         isTemplate,
				TemplateCategory:   templateCategory,
			}

			pool, err := services.CreatePool(app.Ctx, app.Database, app.Logger, app.Metrics, req)
			if err != nil {
				return err
			}

			fmt.Printf("\n✓ Pool created successfully!\n\n")
			fmt.Printf("Pool ID:        %d\n", pool.ID)
			fmt.Printf("Name:           %s\n", pool.Name)
			fmt.Printf("Sprints:        %v\n", pool.SprintIDs)
			fmt.Printf("Total Duration: %d hours\n", pool.TotalDurationHours)
			fmt.Printf("Strategy:       %s\n", pool.AssignmentStrategy)
			fmt.Printf("Compatible:     %d accounts\n\n", pool.CompatibleAccounts)

			return nil
		},
	}

	cmd.Flags().StringVar(&description, "description", "", "Pool description")
	cmd.Flags().IntSliceVar(&sprintIDs, "sprints", nil, "Sprint IDs to include (required)")
	cmd.Flags().StringVar(&strategy, "strategy", "", "Assignment strategy (random, balanced, manual)")
	cmd.Flags().IntVar(&timeHorizonDays, "horizon", 0, "Time horizon in days")
	cmd.Flags().BoolVar(&isTemplate, "template", false, "Mark the pool as a reusable template")
	cmd.Flags().StringVar(&templateCategory, "category", "", "Template category")
	cmd.MarkFlagRequired("sprints")

	return cmd
}
