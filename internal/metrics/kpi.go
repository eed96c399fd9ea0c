package metrics

import (
	"github.com/shopspring/decimal"

	"github.com/mkoudela/shoplens/internal/dataset"
	"github.com/mkoudela/shoplens/internal/filter"
)

// KPISummary is the tile row rendered at the top of a dashboard: sales,
// marketing, and inventory/fulfillment headline numbers over one filtered
// view. Every ratio is zero when its denominator is zero.
type KPISummary struct {
	NoData bool `json:"no_data"`

	TotalRevenue      decimal.Decimal `json:"total_revenue"`
	TotalOrders       int             `json:"total_orders"`
	AverageOrderValue decimal.Decimal `json:"average_order_value"`
	UniqueCustomers   int             `json:"unique_customers"`

	ActiveCampaigns   int             `json:"active_campaigns"`
	AttributedRevenue decimal.Decimal `json:"attributed_revenue"`
	DigitalEvents     int             `json:"digital_events"`

	TotalInventory      int     `json:"total_inventory"`
	LowStockProducts    int     `json:"low_stock_products"`
	FulfillmentRate     float64 `json:"fulfillment_rate"`
	AvgFulfillmentHours float64 `json:"avg_fulfillment_hours"`

	DeliveryRate     float64 `json:"delivery_rate"`
	CancellationRate float64 `json:"cancellation_rate"`
}

// Inventory below this quantity counts as low stock.
const lowStockThreshold = 10

// ComputeKPIs derives the headline metrics from a filtered view. An empty
// view yields a zeroed summary flagged NoData rather than an error.
func ComputeKPIs(v *filter.View) KPISummary {
	s := KPISummary{
		TotalRevenue:      decimal.Zero,
		AverageOrderValue: decimal.Zero,
		AttributedRevenue: decimal.Zero,
	}

	if v.Empty() {
		s.NoData = true
		// Inventory is keyed by product, not order, so it still reports.
		s.TotalInventory, s.LowStockProducts = inventoryTotals(v)
		return s
	}

	customers := make(map[string]bool)
	delivered, cancelled := 0, 0
	for _, o := range v.Orders {
		s.TotalRevenue = s.TotalRevenue.Add(o.TotalAmount)
		customers[o.CustomerID] = true
		switch o.Status {
		case dataset.StatusDelivered:
			delivered++
		case dataset.StatusCancelled:
			cancelled++
		}
	}
	s.TotalOrders = len(v.Orders)
	s.UniqueCustomers = len(customers)
	s.AverageOrderValue = SafeDiv(s.TotalRevenue, int64(s.TotalOrders))
	s.DeliveryRate = SafePercent(float64(delivered), float64(s.TotalOrders))
	s.CancellationRate = SafePercent(float64(cancelled), float64(s.TotalOrders))

	// Attributed revenue sums order total x contribution percent over the
	// surviving attributions. Percents are taken as-is; an order's credits
	// are not normalized to 1.0.
	orderTotal := make(map[string]decimal.Decimal, len(v.Orders))
	for _, o := range v.Orders {
		orderTotal[o.ID] = o.TotalAmount
	}
	touched := make(map[string]bool)
	for _, a := range v.Attributions {
		total, ok := orderTotal[a.OrderID]
		if !ok {
			continue
		}
		s.AttributedRevenue = s.AttributedRevenue.Add(total.Mul(a.ContributionPercent))
		touched[a.CampaignID] = true
	}
	s.ActiveCampaigns = len(touched)

	s.DigitalEvents = len(v.Events)

	s.TotalInventory, s.LowStockProducts = inventoryTotals(v)

	fulfilled := 0
	var hours float64
	timed := 0
	for _, f := range v.Fulfillments {
		if f.Status == "success" {
			fulfilled++
		}
		if !f.FulfillmentDate.IsZero() && !f.CreatedAt.IsZero() {
			hours += f.FulfillmentDate.Sub(f.CreatedAt).Hours()
			timed++
		}
	}
	s.FulfillmentRate = SafePercent(float64(fulfilled), float64(len(v.Fulfillments)))
	s.AvgFulfillmentHours = SafeRatio(hours, float64(timed))

	return s
}

func inventoryTotals(v *filter.View) (total, lowStock int) {
	for _, rec := range v.Inventory {
		total += rec.Quantity
		if rec.Quantity < lowStockThreshold {
			lowStock++
		}
	}
	return total, lowStock
}
