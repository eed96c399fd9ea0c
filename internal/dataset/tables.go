package dataset

import (
	"time"

	"github.com/shopspring/decimal"
)

// Customer types as they appear in CUSTOMER.csv.
const (
	CustomerTypePerson  = "person"
	CustomerTypeCompany = "company"
)

// Order statuses as they appear in ORDER_FACT.csv.
const (
	StatusCreated    = "Created"
	StatusProcessing = "Processing"
	StatusShipped    = "Shipped"
	StatusDelivered  = "Delivered"
	StatusCancelled  = "Cancelled"
)

type Customer struct {
	ID        string    `json:"customer_id"`
	Type      string    `json:"customer_type"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

type Order struct {
	ID            string          `json:"order_id"`
	Date          time.Time       `json:"order_date"`
	CustomerID    string          `json:"customer_id"`
	ChannelID     string          `json:"channel_id"`
	FacilityID    string          `json:"facility_id"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
	Currency      string          `json:"currency"`
	Status        string          `json:"order_status"`
	Type          string          `json:"order_type"`
	PaymentMethod string          `json:"payment_method"`
}

type OrderLine struct {
	ID             string          `json:"order_line_id"`
	OrderID        string          `json:"order_id"`
	ProductID      string          `json:"product_id"`
	Quantity       int             `json:"quantity"`
	UnitPrice      decimal.Decimal `json:"unit_price"`
	DiscountAmount decimal.Decimal `json:"discount_amount"`
}

// Revenue is the line's contribution to order revenue: quantity * unit price.
func (l OrderLine) Revenue() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

type Product struct {
	ID        string          `json:"product_id"`
	Name      string          `json:"name"`
	Category  string          `json:"category"`
	Brand     string          `json:"brand"`
	ListPrice decimal.Decimal `json:"list_price"`
	Active    bool            `json:"active"`
}

type Channel struct {
	ID   string `json:"channel_id"`
	Name string `json:"channel_name"`
	Type string `json:"channel_type"`
}

type Facility struct {
	ID      string `json:"facility_id"`
	Name    string `json:"facility_name"`
	Type    string `json:"facility_type"`
	Country string `json:"country"`
	Region  string `json:"region"`
}

type Campaign struct {
	ID            string          `json:"campaign_id"`
	Name          string          `json:"campaign_name"`
	Type          string          `json:"campaign_type"`
	Objective     string          `json:"objective"`
	Budget        decimal.Decimal `json:"budget"`
	StartDate     time.Time       `json:"start_date"`
	EndDate       time.Time       `json:"end_date"`
	TargetSegment string          `json:"target_segment"`
}

// OrderCampaignAttribution credits a fraction of an order's revenue to one
// campaign. Contribution percents for an order are summed as-is; the source
// data does not guarantee they add up to 1.0.
type OrderCampaignAttribution struct {
	ID                  string          `json:"attribution_id"`
	OrderID             string          `json:"order_id"`
	CampaignID          string          `json:"campaign_id"`
	Model               string          `json:"attribution_model"`
	ContributionPercent decimal.Decimal `json:"contribution_percent"`
}

type DigitalSite struct {
	ID           string `json:"digital_site_id"`
	Name         string `json:"site_name"`
	Domain       string `json:"domain"`
	PlatformType string `json:"platform_type"`
}

type DigitalEvent struct {
	ID         string    `json:"event_id"`
	Date       time.Time `json:"event_date"`
	CustomerID string    `json:"customer_id"` // empty for anonymous events
	SiteID     string    `json:"digital_site_id"`
	EventType  string    `json:"event_type"`
	DeviceType string    `json:"device_type"`
}

// SalesPlan is a revenue target covering an inclusive date range. Targets are
// prorated over the covered days when compared against actuals.
type SalesPlan struct {
	ID            string          `json:"plan_id"`
	StartDate     time.Time       `json:"start_date"`
	EndDate       time.Time       `json:"end_date"`
	TargetRevenue decimal.Decimal `json:"target_revenue"`
}

type InventoryRecord struct {
	ID          string    `json:"inventory_id"`
	ProductID   string    `json:"product_id"`
	FacilityID  string    `json:"facility_id"`
	Quantity    int       `json:"quantity"`
	LastUpdated time.Time `json:"last_updated"`
}

type OrderFulfillment struct {
	ID              string    `json:"fulfillment_id"`
	OrderID         string    `json:"order_id"`
	Status          string    `json:"fulfillment_status"`
	FulfillmentDate time.Time `json:"fulfillment_date"`
	CreatedAt       time.Time `json:"created_at"`
}

// Dataset is the full set of tables loaded for one session. It is built once
// by Load and treated as read-only afterwards; filtering produces derived
// views, never in-place mutation.
type Dataset struct {
	Customers    []Customer
	Orders       []Order
	OrderLines   []OrderLine
	Products     []Product
	Channels     []Channel
	Facilities   []Facility
	Campaigns    []Campaign
	Attributions []OrderCampaignAttribution
	Sites        []DigitalSite
	Events       []DigitalEvent
	Plans        []SalesPlan
	Inventory    []InventoryRecord
	Fulfillments []OrderFulfillment
}

// OrderDateRange returns the earliest and latest order dates. Both are zero
// when the order table is empty.
func (ds *Dataset) OrderDateRange() (time.Time, time.Time) {
	var min, max time.Time
	for _, o := range ds.Orders {
		if min.IsZero() || o.Date.Before(min) {
			min = o.Date
		}
		if max.IsZero() || o.Date.After(max) {
			max = o.Date
		}
	}
	return min, max
}
