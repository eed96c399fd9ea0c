package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mkoudela/shoplens/internal/metrics"
)

var reportLimit int

var reportCmd = &cobra.Command{
	Use:   "report [name]",
	Short: "Print KPIs or a named report",
	Long: `Print the KPI summary, or a named report when a report name is given.
Run without arguments to see the KPI summary and the list of report names.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runReport,
}

func init() {
	rootCmd.AddCommand(reportCmd)

	addFilterFlags(reportCmd)
	reportCmd.Flags().IntVar(&reportLimit, "limit", 10, "Maximum rows for top-N reports (0 = no limit)")
}

func runReport(cmd *cobra.Command, args []string) error {
	_, view, err := loadFilteredView()
	if err != nil {
		return err
	}

	if view.Empty() {
		fmt.Println("📭 No orders match the current filters")
		return nil
	}

	if len(args) == 0 {
		printKPIs(metrics.ComputeKPIs(view))
		fmt.Println("\n📚 Available reports:")
		fmt.Printf("   %s\n", strings.Join(metrics.ReportNames(), ", "))
		return nil
	}

	name := args[0]
	groups, err := metrics.BuildReport(view, name, reportLimit)
	if err != nil {
		return err
	}

	fmt.Printf("📊 Report: %s (%d rows)\n", name, len(groups))
	fmt.Println(strings.Repeat("─", 60))
	for _, g := range groups {
		fmt.Printf("   %-36s %14s  (n=%d)\n", metrics.FormatKey(g.Keys), g.Value.StringFixed(2), g.Count)
	}
	return nil
}

func printKPIs(k metrics.KPISummary) {
	fmt.Println("📈 KPI Summary")
	fmt.Println(strings.Repeat("─", 60))
	fmt.Printf("   Total revenue:        %s\n", k.TotalRevenue.StringFixed(2))
	fmt.Printf("   Total orders:         %d\n", k.TotalOrders)
	fmt.Printf("   Average order value:  %s\n", k.AverageOrderValue.StringFixed(2))
	fmt.Printf("   Unique customers:     %d\n", k.UniqueCustomers)
	fmt.Printf("   Active campaigns:     %d\n", k.ActiveCampaigns)
	fmt.Printf("   Attributed revenue:   %s\n", k.AttributedRevenue.StringFixed(2))
	fmt.Printf("   Digital events:       %d\n", k.DigitalEvents)
	fmt.Printf("   Total inventory:      %d\n", k.TotalInventory)
	fmt.Printf("   Low stock products:   %d\n", k.LowStockProducts)
	fmt.Printf("   Fulfillment rate:     %.1f%%\n", k.FulfillmentRate)
	fmt.Printf("   Avg fulfillment time: %.1fh\n", k.AvgFulfillmentHours)
	fmt.Printf("   Delivery rate:        %.1f%%\n", k.DeliveryRate)
	fmt.Printf("   Cancellation rate:    %.1f%%\n", k.CancellationRate)
}
