package commands

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/michaelschiller-mdm-solutions/campaign-pool-engine/pkg/core/model"
	"github.com/michaelschiller-mdm-solutions/campaign-pool-engine/pkg/core/services"
	"github.com/michaelschiller-mdm-solutions/campaign-pool-engine/pkg/db"
)

// UpdatePoolCmd creates the updatePool command. Only flags the caller
// actually set end up in the patch; everything else keeps its stored value.
func UpdatePoolCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "updatePool <pool_id>",
		Short: "Update fields of an existing pool",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			poolID, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("pool_id must be a number: %w", err)
			}

			var patch db.PoolPatch
			if cmd.Flags().Changed("name") {
				name, _ := cmd.Flags().GetString("name")
				patch.Name = &name
			}
			if cmd.Flags().Changed("description") {
				description, _ := cmd.Flags().GetString("description")
				patch.Description = &description
			}
			if cmd.Flags().Changed("strategy") {
				raw, _ := cmd.Flags().GetString("strategy")
				strategy := model.Strategy(raw)
				if !strategy.Valid() {
					return fmt.Errorf("unknown assignment strategy: %q", raw)
				}
				patch.AssignmentStrategy = &strategy
			}
			if cmd.Flags().Changed("horizon") {
				horizon, _ := cmd.Flags().GetInt("horizon")
				patch.TimeHorizonDays = &horizon
			}
			if cmd.Flags().Changed("template") {
				isTemplate, _ := cmd.Flags().GetBool("template")
				patch.IsTemplate = &isTemplate
			}
			if cmd.Flags().Changed("category") {
				category, _ := cmd.Flags().GetString("category")
				patch.TemplateCategory = &category
			}
			if cmd.Flags().Changed("sprints") {
				sprintIDs, _ := cmd.Flags().GetIntSlice("sprints")
				patch.SprintIDs = sprintIDs
			}

			pool, err := services.UpdatePool(app.Ctx, app.Database, app.Logger, poolID, patch)
			if err != nil {
				return err
			}

			fmt.Printf("\n✓ Pool %d updated\n\n", pool.ID)
			fmt.Printf("Name:           %s\n", pool.Name)
			fmt.Printf("Sprints:        %v\n", pool.SprintIDs)
			fmt.Printf("Total Duration: %d hours\n", pool.TotalDurationHours)
			fmt.Printf("Strategy:       %s\n\n", pool.AssignmentStrategy)

			return nil
		},
	}

	cmd.Flags().String("name", "", "New pool name")
	cmd.Flags().String("description", "", "New description")
	cmd.Flags().String("strategy", "", "New assignment strategy (random, balanced, manual)")
	cmd.Flags().Int("horizon", 0, "New time horizon in days")
	cmd.Flags().Bool("template", false, "Set or clear the template flag")
	cmd.Flags().String("category", "", "New template category")
	cmd.Flags().IntSlice("sprints", nil, "Replacement sprint ID set")

	return cmd
}
