package cli

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"github.com/spec-kit/calllog-service/internal/api/dto"
)

var reportMonth string

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Print the monthly admin overview as JSON",
	Long: `Print the admin overview for one calendar month.

Examples:
  calllog report                  # current month
  calllog report --month 2024-03  # March 2024`,
	Args: cobra.NoArgs,
	RunE: runReport,
}

func init() {
	reportCmd.Flags().StringVar(&reportMonth, "month", "", "month to report on (YYYY-MM); defaults to the current month")
}

func runReport(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	// Logs share stdout with the report, so only warnings get through.
	rt, err := bootstrap(ctx, "warn")
	if err != nil {
		return err
	}
	defer rt.close()

	overview, err := rt.dashboardService().AdminOverview(ctx, reportMonth)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(dto.FromAdminOverview(overview))
}
