package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/michaelschiller-mdm-solutions/campaign-pool-engine/pkg/core/model"
	"github.com/michaelschiller-mdm-solutions/campaign-pool-engine/pkg/core/services"
	"github.com/michaelschiller-mdm-solutions/campaign-pool-engine/pkg/db"
)

// ListPoolsCmd creates the listPools command
func ListPoolsCmd(app *AppContext) *cobra.Command {
	var (
		strategy string
		category string
		limit    int
		offset   int
	)

	cmd := &cobra.Command{
		Use:   "listPools",
		Short: "List campaign pools with optional filters",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			filter := db.PoolFilter{
				Strategy:         model.Strategy(strategy),
				TemplateCategory: category,
				Limit:            limit,
				Offset:           offset,
			}
			if cmd.Flags().Changed("templates") {
				isTemplate, _ := cmd.Flags().GetBool("templates")
				filter.IsTemplate = &isTemplate
			}

			pools, total, err := services.ListPools(app.Ctx, app.Database, filter)
			if err != nil {
				return err
			}

			fmt.Printf("\nShowing %d of %d pools:\n\n", len(pools), total)
			for _, pool := range pools {
				template := ""
				if pool.IsTemplate {
					template = fmt.Sprintf(" [template: %s]", pool.TemplateCategory)
				}
				fmt.Printf("- #%d %s (%s) - %d sprints, %dh, used %d times%s\n",
					pool.ID,
					pool.Name,
					pool.AssignmentStrategy,
					len(pool.SprintIDs),
					pool.TotalDurationHours,
					pool.UsageCount,
					template,
				)
			}
			fmt.Println()

			return nil
		},
	}

	cmd.Flags().StringVar(&strategy, "strategy", "", "Filter by assignment strategy")
	cmd.Flags().Bool("templates", false, "Filter by template flag")
	cmd.Flags().StringVar(&category, "category", "", "Filter by template category")
	cmd.Flags().IntVar(&limit, "limit", 0, "Page size (default 50)")
	cmd.Flags().IntVar(&offset, "offset", 0, "Page offset")

	return cmd
}
