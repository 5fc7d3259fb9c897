package commands

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/michaelschiller-mdm-solutions/campaign-pool-engine/pkg/core/assignment"
	"github.com/michaelschiller-mdm-solutions/campaign-pool-engine/pkg/core/model"
)

// bulkAssignFile is the yaml shape of a bulk assignment request file
type bulkAssignFile struct {
	Pools []struct {
		PoolID           int    `yaml:"poolID"`
		Strategy         string `yaml:"strategy"`
		AccountIDs       []int  `yaml:"accountIDs,omitempty"`
		MaxAssignments   int    `yaml:"maxAssignments,omitempty"`
		StartDate        string `yaml:"startDate,omitempty"`
		RespectCooldowns *bool  `yaml:"respectCooldowns,omitempty"`
	} `yaml:"pools"`
}

// BulkAssignCmd creates the bulkAssign command
func BulkAssignCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "bulkAssign <request_file>",
		Short: "Assign several pools from a yaml request file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			request, err := loadBulkRequest(args[0])
			if err != nil {
				return err
			}

			executor := assignment.NewExecutor(app.Database, app.Logger, app.Metrics)
			result, err := executor.BulkAssign(app.Ctx, *request)
			if err != nil {
				return err
			}

			fmt.Printf("\n✓ Bulk assignment complete!\n\n")
			fmt.Printf("Successful pools:  %d\n", result.SuccessfulPools)
			fmt.Printf("Failed pools:      %d\n", result.FailedPools)
			fmt.Printf("Accounts assigned: %d\n", result.TotalAccountsAssigned)

			if len(result.OverallWarnings) > 0 {
				fmt.Printf("\nWarnings (%d):\n", len(result.OverallWarnings))
				for _, warning := range result.OverallWarnings {
					fmt.Printf("  ⚠ %s\n", warning.Message)
				}
			}
			fmt.Println()

			return nil
		},
	}
}

func loadBulkRequest(path string) (*model.BulkAssignmentRequest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read request file: %w", err)
	}

	var file bulkAssignFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse request file: %w", err)
	}

	request := &model.BulkAssignmentRequest{}
	for i, item := range file.Pools {
		options := model.AssignmentOptions{
			Strategy:         model.Strategy(item.Strategy),
			AccountIDs:       item.AccountIDs,
			MaxAssignments:   item.MaxAssignments,
			RespectCooldowns: true,
		}
		if item.RespectCooldowns != nil {
			options.RespectCooldowns = *item.RespectCooldowns
		}
		if item.StartDate != "" {
			start, err := time.Parse("2006-01-02", item.StartDate)
			if err != nil {
				return nil, fmt.Errorf("pools[%d]: startDate must be YYYY-MM-DD: %w", i, err)
			}
			options.StartDate = start
		}

		request.PoolAssignments = append(request.PoolAssignments, model.BulkAssignmentItem{
			PoolID:  item.PoolID,
			Options: options,
		})
	}

	return request, nil
}
