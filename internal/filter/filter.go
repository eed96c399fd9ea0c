package filter

import (
	"time"

	"github.com/mkoudela/shoplens/internal/dataset"
)

// All is the sentinel selector value meaning "no restriction".
const All = "All"

// Selection is the sidebar filter surface: a date range over order dates plus
// a handful of All-or-exact categorical selectors.
type Selection struct {
	StartDate     time.Time
	EndDate       time.Time
	CustomerType  string
	Channel       string // channel name, not ID
	Category      string
	PaymentMethod string
	OrderStatus   string
}

// NewSelection returns a selection with every categorical selector open.
func NewSelection() Selection {
	return Selection{
		CustomerType:  All,
		Channel:       All,
		Category:      All,
		PaymentMethod: All,
		OrderStatus:   All,
	}
}

// View is the result of applying a Selection: the filtered order set plus
// every dependent table restricted to keys still reachable from it. The
// underlying Dataset is never modified.
type View struct {
	Dataset *dataset.Dataset

	Orders       []dataset.Order
	OrderLines   []dataset.OrderLine
	Customers    []dataset.Customer
	Events       []dataset.DigitalEvent
	Attributions []dataset.OrderCampaignAttribution
	Fulfillments []dataset.OrderFulfillment
	Inventory    []dataset.InventoryRecord
}

// Empty reports whether the filter produced no surviving orders. Callers use
// this to render a no-data state instead of aggregating nothing.
func (v *View) Empty() bool {
	return len(v.Orders) == 0
}

// OrderIDs returns the surviving order key set.
func (v *View) OrderIDs() map[string]bool {
	ids := make(map[string]bool, len(v.Orders))
	for _, o := range v.Orders {
		ids[o.ID] = true
	}
	return ids
}

// CustomerIDs returns the surviving customer key set.
func (v *View) CustomerIDs() map[string]bool {
	ids := make(map[string]bool, len(v.Orders))
	for _, o := range v.Orders {
		ids[o.CustomerID] = true
	}
	return ids
}

// Apply filters the order table by sel and cascades the surviving keys to
// every dependent table. An unordered date pair is sorted before use, so
// [d2, d1] and [d1, d2] produce identical views.
func Apply(ds *dataset.Dataset, sel Selection) *View {
	start, end := sel.StartDate, sel.EndDate
	if !start.IsZero() && !end.IsZero() && end.Before(start) {
		start, end = end, start
	}

	customerType := make(map[string]string, len(ds.Customers))
	for _, c := range ds.Customers {
		customerType[c.ID] = c.Type
	}

	// Resolve the channel name up front. An unknown name matches nothing,
	// including orders that carry no channel key at all.
	channelID, channelKnown := "", sel.Channel == All
	for _, ch := range ds.Channels {
		if ch.Name == sel.Channel {
			channelID, channelKnown = ch.ID, true
			break
		}
	}

	// Category restricts orders through product -> order line -> order.
	var categoryOrders map[string]bool
	if sel.Category != All {
		categoryProducts := make(map[string]bool)
		for _, p := range ds.Products {
			if p.Category == sel.Category {
				categoryProducts[p.ID] = true
			}
		}
		categoryOrders = make(map[string]bool)
		for _, l := range ds.OrderLines {
			if categoryProducts[l.ProductID] {
				categoryOrders[l.OrderID] = true
			}
		}
	}

	v := &View{Dataset: ds}
	for _, o := range ds.Orders {
		if !start.IsZero() && o.Date.Before(start) {
			continue
		}
		if !end.IsZero() && o.Date.After(end) {
			continue
		}
		if sel.CustomerType != All && customerType[o.CustomerID] != sel.CustomerType {
			continue
		}
		if sel.Channel != All && (!channelKnown || o.ChannelID != channelID) {
			continue
		}
		if sel.PaymentMethod != All && o.PaymentMethod != sel.PaymentMethod {
			continue
		}
		if sel.OrderStatus != All && o.Status != sel.OrderStatus {
			continue
		}
		if categoryOrders != nil && !categoryOrders[o.ID] {
			continue
		}
		v.Orders = append(v.Orders, o)
	}

	orderIDs := v.OrderIDs()
	customerIDs := v.CustomerIDs()

	for _, l := range ds.OrderLines {
		if orderIDs[l.OrderID] {
			v.OrderLines = append(v.OrderLines, l)
		}
	}
	for _, a := range ds.Attributions {
		if orderIDs[a.OrderID] {
			v.Attributions = append(v.Attributions, a)
		}
	}
	for _, f := range ds.Fulfillments {
		if orderIDs[f.OrderID] {
			v.Fulfillments = append(v.Fulfillments, f)
		}
	}
	for _, c := range ds.Customers {
		if customerIDs[c.ID] {
			v.Customers = append(v.Customers, c)
		}
	}
	for _, e := range ds.Events {
		if e.CustomerID != "" && customerIDs[e.CustomerID] {
			v.Events = append(v.Events, e)
		}
	}

	// Inventory cascades on the category selector only; it has no order key.
	if sel.Category == All {
		v.Inventory = append(v.Inventory, ds.Inventory...)
	} else {
		inCategory := make(map[string]bool)
		for _, p := range ds.Products {
			if p.Category == sel.Category {
				inCategory[p.ID] = true
			}
		}
		for _, rec := range ds.Inventory {
			if inCategory[rec.ProductID] {
				v.Inventory = append(v.Inventory, rec)
			}
		}
	}

	return v
}
