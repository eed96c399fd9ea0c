package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mkoudela/shoplens/internal/plan"
)

var planGranularity string

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Compare actual sales against planned targets",
	Long: `Prorate sales plan targets over daily or monthly buckets, accumulate
actual order revenue onto the same grid and print per-bucket achievement.`,
	RunE: runPlan,
}

func init() {
	rootCmd.AddCommand(planCmd)

	addFilterFlags(planCmd)
	planCmd.Flags().StringVar(&planGranularity, "granularity", "", "Bucket width: daily or monthly (default from config)")
}

func runPlan(cmd *cobra.Command, args []string) error {
	cfg, view, err := loadFilteredView()
	if err != nil {
		return err
	}

	gran := planGranularity
	if gran == "" {
		gran = cfg.Plan.Granularity
	}
	g, err := plan.ParseGranularity(gran)
	if err != nil {
		return err
	}

	sel, err := flagSelection()
	if err != nil {
		return err
	}
	start, end := sel.StartDate, sel.EndDate
	if start.IsZero() || end.IsZero() {
		lo, hi := view.Dataset.OrderDateRange()
		if start.IsZero() {
			start = lo
		}
		if end.IsZero() {
			end = hi
		}
	}

	res := plan.Reconcile(view.Dataset.Plans, view.Orders, start, end, g)

	fmt.Printf("🎯 Sales vs plan (%s buckets)\n", res.Granularity)
	fmt.Println(strings.Repeat("─", 60))
	for _, b := range res.Buckets {
		fmt.Printf("   %-10s planned %14s  actual %14s  %6.1f%%\n",
			b.Label, b.Planned.StringFixed(2), b.Actual.StringFixed(2), b.Achievement)
	}
	fmt.Println(strings.Repeat("─", 60))
	fmt.Printf("   total      planned %14s  actual %14s  %6.1f%%\n",
		res.Planned.StringFixed(2), res.Actual.StringFixed(2), res.Achievement)
	return nil
}
