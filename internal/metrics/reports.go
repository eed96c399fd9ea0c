package metrics

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/mkoudela/shoplens/internal/dataset"
	"github.com/mkoudela/shoplens/internal/filter"
)

// Report names accepted by BuildReport. Each maps to one configured pass of
// the aggregator instead of bespoke group-by code per chart.
const (
	ReportDailySales           = "daily_sales"
	ReportMonthlySales         = "monthly_sales"
	ReportSalesByPayment       = "sales_by_payment_method"
	ReportRevenueByChannel     = "revenue_by_channel"
	ReportOrdersByChannel      = "orders_by_channel"
	ReportTopProducts          = "top_products"
	ReportCategorySales        = "category_sales"
	ReportTopCustomers         = "top_customers"
	ReportCustomerTypes        = "customer_types"
	ReportPurchaseFrequency    = "purchase_frequency"
	ReportEventsBySite         = "events_by_site"
	ReportDeviceSplit          = "device_split"
	ReportCampaignAttribution  = "campaign_attribution"
	ReportAttributionModels    = "attribution_models"
	ReportCampaignROI          = "campaign_roi"
	ReportConversionFunnel     = "conversion_funnel"
	ReportRevenueByOrderType   = "revenue_by_order_type"
	ReportOrderStatusBreakdown = "order_status_breakdown"
	ReportInventoryByFacility  = "inventory_by_facility"
	ReportInventoryByCategory  = "inventory_by_category"
	ReportTopProductsInventory = "top_products_by_inventory"
	ReportCustomerAcquisition  = "customer_acquisition"
)

// ReportNames lists every report BuildReport understands.
func ReportNames() []string {
	return []string{
		ReportDailySales, ReportMonthlySales, ReportSalesByPayment,
		ReportRevenueByChannel, ReportOrdersByChannel, ReportTopProducts,
		ReportCategorySales, ReportTopCustomers, ReportCustomerTypes,
		ReportPurchaseFrequency, ReportEventsBySite, ReportDeviceSplit,
		ReportCampaignAttribution, ReportAttributionModels, ReportCampaignROI,
		ReportConversionFunnel, ReportRevenueByOrderType, ReportOrderStatusBreakdown,
		ReportInventoryByFacility, ReportInventoryByCategory,
		ReportTopProductsInventory, ReportCustomerAcquisition,
	}
}

// funnelStages is the digital journey in order; each stage counts events of
// that type, whether or not earlier stages occurred for the same visitor.
var funnelStages = []string{"PageView", "ProductView", "AddToCart", "Purchase"}

// BuildReport runs the named aggregation over a filtered view. A limit of 0
// keeps every group.
func BuildReport(v *filter.View, name string, limit int) ([]Group, error) {
	ds := v.Dataset

	switch name {
	case ReportDailySales:
		return Aggregate(Request{
			N:     len(v.Orders),
			Keys:  SingleKey(func(i int) string { return v.Orders[i].Date.Format("2006-01-02") }),
			Value: func(i int) decimal.Decimal { return v.Orders[i].TotalAmount },
			Agg:   Sum,
			Limit: limit,
		}), nil

	case ReportMonthlySales:
		return Aggregate(Request{
			N:     len(v.Orders),
			Keys:  SingleKey(func(i int) string { return v.Orders[i].Date.Format("2006-01") }),
			Value: func(i int) decimal.Decimal { return v.Orders[i].TotalAmount },
			Agg:   Sum,
			Limit: limit,
		}), nil

	case ReportSalesByPayment:
		return Aggregate(Request{
			N:           len(v.Orders),
			Keys:        SingleKey(func(i int) string { return v.Orders[i].PaymentMethod }),
			Value:       func(i int) decimal.Decimal { return v.Orders[i].TotalAmount },
			Agg:         Sum,
			SortByValue: true,
			Limit:       limit,
		}), nil

	case ReportRevenueByChannel:
		channelName := channelNames(ds)
		return Aggregate(Request{
			N:           len(v.Orders),
			Keys:        SingleKey(func(i int) string { return channelName[v.Orders[i].ChannelID] }),
			Value:       func(i int) decimal.Decimal { return v.Orders[i].TotalAmount },
			Agg:         Sum,
			SortByValue: true,
			Limit:       limit,
		}), nil

	case ReportOrdersByChannel:
		channelName := channelNames(ds)
		return Aggregate(Request{
			N:           len(v.Orders),
			Keys:        SingleKey(func(i int) string { return channelName[v.Orders[i].ChannelID] }),
			Agg:         Count,
			SortByValue: true,
			Limit:       limit,
		}), nil

	case ReportTopProducts:
		product := productIndex(ds)
		return Aggregate(Request{
			N: len(v.OrderLines),
			Keys: func(i int) []string {
				p := product[v.OrderLines[i].ProductID]
				return []string{p.Name, p.Category}
			},
			Value:       func(i int) decimal.Decimal { return v.OrderLines[i].Revenue() },
			Agg:         Sum,
			SortByValue: true,
			Limit:       limit,
		}), nil

	case ReportCategorySales:
		product := productIndex(ds)
		return Aggregate(Request{
			N:           len(v.OrderLines),
			Keys:        SingleKey(func(i int) string { return product[v.OrderLines[i].ProductID].Category }),
			Value:       func(i int) decimal.Decimal { return v.OrderLines[i].Revenue() },
			Agg:         Sum,
			SortByValue: true,
			Limit:       limit,
		}), nil

	case ReportTopCustomers:
		customerName := make(map[string]string, len(ds.Customers))
		for _, c := range ds.Customers {
			customerName[c.ID] = c.Name
		}
		return Aggregate(Request{
			N:           len(v.Orders),
			Keys:        SingleKey(func(i int) string { return customerName[v.Orders[i].CustomerID] }),
			Value:       func(i int) decimal.Decimal { return v.Orders[i].TotalAmount },
			Agg:         Sum,
			SortByValue: true,
			Limit:       limit,
		}), nil

	case ReportCustomerTypes:
		return Aggregate(Request{
			N:     len(v.Customers),
			Keys:  SingleKey(func(i int) string { return v.Customers[i].Type }),
			Agg:   Count,
			Limit: limit,
		}), nil

	case ReportPurchaseFrequency:
		// Two passes: orders per customer, then the distribution of those
		// counts. Sparse counts keep their groups.
		perCustomer := Aggregate(Request{
			N:    len(v.Orders),
			Keys: SingleKey(func(i int) string { return v.Orders[i].CustomerID }),
			Agg:  Count,
		})
		return Aggregate(Request{
			N:     len(perCustomer),
			Keys:  SingleKey(func(i int) string { return strconv.Itoa(perCustomer[i].Count) }),
			Agg:   Count,
			Limit: limit,
		}), nil

	case ReportEventsBySite:
		siteName := make(map[string]string, len(ds.Sites))
		for _, s := range ds.Sites {
			siteName[s.ID] = s.Name
		}
		return Aggregate(Request{
			N: len(v.Events),
			Keys: func(i int) []string {
				return []string{siteName[v.Events[i].SiteID], v.Events[i].EventType}
			},
			Agg:   Count,
			Limit: limit,
		}), nil

	case ReportDeviceSplit:
		return Aggregate(Request{
			N:     len(v.Events),
			Keys:  SingleKey(func(i int) string { return v.Events[i].DeviceType }),
			Agg:   Count,
			Limit: limit,
		}), nil

	case ReportCampaignAttribution:
		campaign := campaignIndex(ds)
		orderTotal := orderTotals(v)
		return Aggregate(Request{
			N: len(v.Attributions),
			Keys: func(i int) []string {
				c := campaign[v.Attributions[i].CampaignID]
				return []string{c.Name, c.Type}
			},
			Value: func(i int) decimal.Decimal {
				a := v.Attributions[i]
				return orderTotal[a.OrderID].Mul(a.ContributionPercent)
			},
			Agg:         Sum,
			SortByValue: true,
			Limit:       limit,
		}), nil

	case ReportAttributionModels:
		orderTotal := orderTotals(v)
		return Aggregate(Request{
			N:    len(v.Attributions),
			Keys: SingleKey(func(i int) string { return v.Attributions[i].Model }),
			Value: func(i int) decimal.Decimal {
				a := v.Attributions[i]
				return orderTotal[a.OrderID].Mul(a.ContributionPercent)
			},
			Agg:         Sum,
			SortByValue: true,
			Limit:       limit,
		}), nil

	case ReportCampaignROI:
		return campaignROI(v, limit), nil

	case ReportConversionFunnel:
		counts := make(map[string]int)
		for _, e := range v.Events {
			counts[e.EventType]++
		}
		groups := make([]Group, 0, len(funnelStages))
		for _, stage := range funnelStages {
			groups = append(groups, Group{
				Keys:  []string{stage},
				Count: counts[stage],
				Value: decimal.NewFromInt(int64(counts[stage])),
			})
		}
		return groups, nil

	case ReportRevenueByOrderType:
		return Aggregate(Request{
			N:           len(v.Orders),
			Keys:        SingleKey(func(i int) string { return v.Orders[i].Type }),
			Value:       func(i int) decimal.Decimal { return v.Orders[i].TotalAmount },
			Agg:         Sum,
			SortByValue: true,
			Limit:       limit,
		}), nil

	case ReportOrderStatusBreakdown:
		return Aggregate(Request{
			N:     len(v.Orders),
			Keys:  SingleKey(func(i int) string { return v.Orders[i].Status }),
			Agg:   Count,
			Limit: limit,
		}), nil

	case ReportInventoryByFacility:
		facility := facilityIndex(ds)
		return Aggregate(Request{
			N: len(v.Inventory),
			Keys: func(i int) []string {
				f := facility[v.Inventory[i].FacilityID]
				return []string{f.Type, f.Region}
			},
			Value: func(i int) decimal.Decimal { return decimal.NewFromInt(int64(v.Inventory[i].Quantity)) },
			Agg:   Sum,
			Limit: limit,
		}), nil

	case ReportInventoryByCategory:
		product := productIndex(ds)
		return Aggregate(Request{
			N:           len(v.Inventory),
			Keys:        SingleKey(func(i int) string { return product[v.Inventory[i].ProductID].Category }),
			Value:       func(i int) decimal.Decimal { return decimal.NewFromInt(int64(v.Inventory[i].Quantity)) },
			Agg:         Sum,
			SortByValue: true,
			Limit:       limit,
		}), nil

	case ReportTopProductsInventory:
		product := productIndex(ds)
		return Aggregate(Request{
			N: len(v.Inventory),
			Keys: func(i int) []string {
				p := product[v.Inventory[i].ProductID]
				return []string{p.Name, p.Category}
			},
			Value:       func(i int) decimal.Decimal { return decimal.NewFromInt(int64(v.Inventory[i].Quantity)) },
			Agg:         Sum,
			SortByValue: true,
			Limit:       limit,
		}), nil

	case ReportCustomerAcquisition:
		return Aggregate(Request{
			N: len(v.Customers),
			Keys: func(i int) []string {
				c := v.Customers[i]
				return []string{c.CreatedAt.Format("2006-01"), c.Type}
			},
			Agg:   Count,
			Limit: limit,
		}), nil
	}

	return nil, fmt.Errorf("unknown report %q", name)
}

// campaignROI compares attributed revenue against budget per campaign type.
// A zero budget yields a zero ROI, never a division error.
func campaignROI(v *filter.View, limit int) []Group {
	ds := v.Dataset
	campaign := campaignIndex(ds)
	orderTotal := orderTotals(v)

	revenue := make(map[string]decimal.Decimal)
	counted := make(map[string]map[string]bool)
	for _, a := range v.Attributions {
		c, ok := campaign[a.CampaignID]
		if !ok {
			continue
		}
		revenue[c.Type] = revenue[c.Type].Add(orderTotal[a.OrderID].Mul(a.ContributionPercent))
		if counted[c.Type] == nil {
			counted[c.Type] = make(map[string]bool)
		}
		counted[c.Type][c.ID] = true
	}

	budget := make(map[string]decimal.Decimal)
	for _, c := range ds.Campaigns {
		if counted[c.Type] != nil && counted[c.Type][c.ID] {
			budget[c.Type] = budget[c.Type].Add(c.Budget)
		}
	}

	groups := make([]Group, 0, len(revenue))
	for typ, rev := range revenue {
		roi := decimal.Zero
		if b, ok := budget[typ]; ok && !b.IsZero() {
			roi = rev.Div(b)
		}
		groups = append(groups, Group{
			Keys:  []string{typ},
			Value: roi,
			Count: len(counted[typ]),
		})
	}
	sort.SliceStable(groups, func(i, j int) bool {
		if !groups[i].Value.Equal(groups[j].Value) {
			return groups[i].Value.GreaterThan(groups[j].Value)
		}
		return keyLess(groups[i].Keys, groups[j].Keys)
	})
	if limit > 0 && len(groups) > limit {
		groups = groups[:limit]
	}
	return groups
}

func channelNames(ds *dataset.Dataset) map[string]string {
	m := make(map[string]string, len(ds.Channels))
	for _, ch := range ds.Channels {
		m[ch.ID] = ch.Name
	}
	return m
}

func productIndex(ds *dataset.Dataset) map[string]dataset.Product {
	m := make(map[string]dataset.Product, len(ds.Products))
	for _, p := range ds.Products {
		m[p.ID] = p
	}
	return m
}

func facilityIndex(ds *dataset.Dataset) map[string]dataset.Facility {
	m := make(map[string]dataset.Facility, len(ds.Facilities))
	for _, f := range ds.Facilities {
		m[f.ID] = f
	}
	return m
}

func campaignIndex(ds *dataset.Dataset) map[string]dataset.Campaign {
	m := make(map[string]dataset.Campaign, len(ds.Campaigns))
	for _, c := range ds.Campaigns {
		m[c.ID] = c
	}
	return m
}

func orderTotals(v *filter.View) map[string]decimal.Decimal {
	m := make(map[string]decimal.Decimal, len(v.Orders))
	for _, o := range v.Orders {
		m[o.ID] = o.TotalAmount
	}
	return m
}
