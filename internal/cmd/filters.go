package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/mkoudela/shoplens/internal/config"
	"github.com/mkoudela/shoplens/internal/dataset"
	"github.com/mkoudela/shoplens/internal/filter"
)

var (
	flagStartDate     string
	flagEndDate       string
	flagCustomerType  string
	flagChannel       string
	flagCategory      string
	flagPaymentMethod string
	flagOrderStatus   string
)

// addFilterFlags registers the shared dashboard filter flags on a command.
func addFilterFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&flagStartDate, "start-date", "", "Start of the order date range (YYYY-MM-DD)")
	cmd.Flags().StringVar(&flagEndDate, "end-date", "", "End of the order date range (YYYY-MM-DD)")
	cmd.Flags().StringVar(&flagCustomerType, "customer-type", filter.All, "Customer type (PERSON, COMPANY or All)")
	cmd.Flags().StringVar(&flagChannel, "channel", filter.All, "Sales channel name or All")
	cmd.Flags().StringVar(&flagCategory, "category", filter.All, "Product category or All")
	cmd.Flags().StringVar(&flagPaymentMethod, "payment-method", filter.All, "Payment method or All")
	cmd.Flags().StringVar(&flagOrderStatus, "order-status", filter.All, "Order status or All")
}

// flagSelection turns the filter flags into a selection.
func flagSelection() (filter.Selection, error) {
	sel := filter.NewSelection()
	sel.CustomerType = flagCustomerType
	sel.Channel = flagChannel
	sel.Category = flagCategory
	sel.PaymentMethod = flagPaymentMethod
	sel.OrderStatus = flagOrderStatus

	if flagStartDate != "" {
		t, err := time.Parse("2006-01-02", flagStartDate)
		if err != nil {
			return sel, fmt.Errorf("invalid --start-date %q: want YYYY-MM-DD", flagStartDate)
		}
		sel.StartDate = t
	}
	if flagEndDate != "" {
		t, err := time.Parse("2006-01-02", flagEndDate)
		if err != nil {
			return sel, fmt.Errorf("invalid --end-date %q: want YYYY-MM-DD", flagEndDate)
		}
		sel.EndDate = t
	}
	return sel, nil
}

// loadFilteredView loads config and dataset and applies the filter flags.
func loadFilteredView() (*config.Config, *filter.View, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}

	sel, err := flagSelection()
	if err != nil {
		return nil, nil, err
	}

	ds, err := dataset.Load(cfg.Data.Dir)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load dataset: %w", err)
	}

	return cfg, filter.Apply(ds, sel), nil
}
