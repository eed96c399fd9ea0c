package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/mkoudela/shoplens/internal/rfm"
)

var (
	rfmScaleFlag string
	rfmTop       int
)

var rfmCmd = &cobra.Command{
	Use:   "rfm",
	Short: "Segment customers by recency, frequency and monetary value",
	Long: `Score every customer on recency, frequency and monetary value, assign
segments and print the segment distribution plus the top customers.

The classic scale bins recency into 5 quantiles; the compact scale uses 4.`,
	RunE: runRFM,
}

func init() {
	rootCmd.AddCommand(rfmCmd)

	addFilterFlags(rfmCmd)
	rfmCmd.Flags().StringVar(&rfmScaleFlag, "scale", "", "Scoring scale: classic or compact (default from config)")
	rfmCmd.Flags().IntVar(&rfmTop, "top", 10, "Number of top customers to print")
}

func runRFM(cmd *cobra.Command, args []string) error {
	cfg, view, err := loadFilteredView()
	if err != nil {
		return err
	}

	scaleName := rfmScaleFlag
	if scaleName == "" {
		scaleName = cfg.RFM.Scale
	}
	scale, err := rfm.ParseScale(scaleName)
	if err != nil {
		return err
	}

	if view.Empty() {
		fmt.Println("📭 No orders match the current filters")
		return nil
	}

	scores := rfm.Segment(view.Orders, time.Time{}, scale)
	fmt.Printf("👥 RFM segmentation (%s scale, %d customers)\n", scale, len(scores))
	fmt.Println(strings.Repeat("─", 60))

	for _, seg := range rfm.Distribution(scores, scale) {
		fmt.Printf("   %-20s %5d\n", seg.Segment, seg.Count)
	}

	n := rfmTop
	if n > len(scores) {
		n = len(scores)
	}
	fmt.Printf("\n🏆 Top %d customers:\n", n)
	for _, s := range scores[:n] {
		fmt.Printf("   %-12s R=%d F=%d M=%d total=%2d  %-20s (%d days, %d orders, %s)\n",
			s.CustomerID, s.R, s.F, s.M, s.Total, s.Segment,
			s.RecencyDays, s.Frequency, s.Monetary.StringFixed(2))
	}
	return nil
}
