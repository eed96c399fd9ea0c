package dataset

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Table file names expected under the data directory. One CSV with a header
// row per entity, matching the warehouse export naming.
const (
	FileCustomer     = "CUSTOMER.csv"
	FileOrderFact    = "ORDER_FACT.csv"
	FileOrderLine    = "ORDER_LINE.csv"
	FileProduct      = "PRODUCT.csv"
	FileChannel      = "CHANNEL.csv"
	FileFacility     = "FACILITY.csv"
	FileCampaign     = "CAMPAIGN.csv"
	FileAttribution  = "ORDER_CAMPAIGN_ATTRIBUTION.csv"
	FileDigitalSite  = "DIGITAL_SITE.csv"
	FileDigitalEvent = "DIGITAL_EVENT.csv"
	FileSalesPlan    = "SALES_PLAN.csv"
	FileInventory    = "INVENTORY.csv"
	FileFulfillment  = "ORDER_FULFILLMENT.csv"
)

var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	time.RFC3339,
}

// record is one CSV row with access by column name.
type record struct {
	cols   map[string]int
	fields []string
}

func (r record) get(name string) string {
	idx, ok := r.cols[name]
	if !ok || idx >= len(r.fields) {
		return ""
	}
	return strings.TrimSpace(r.fields[idx])
}

func (r record) getInt(name string) (int, error) {
	raw := r.get(name)
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("column %s: %w", name, err)
	}
	return v, nil
}

func (r record) getDecimal(name string) (decimal.Decimal, error) {
	raw := r.get(name)
	if raw == "" {
		return decimal.Zero, nil
	}
	v, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("column %s: %w", name, err)
	}
	return v, nil
}

func (r record) getDate(name string) (time.Time, error) {
	raw := r.get(name)
	if raw == "" {
		return time.Time{}, nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("column %s: unrecognized date %q", name, raw)
}

func (r record) getBool(name string) bool {
	switch strings.ToLower(r.get(name)) {
	case "true", "1", "yes", "y":
		return true
	default:
		return false
	}
}

// readTable reads one CSV file and invokes parse for every data row.
func readTable(dir, file string, parse func(record) error) error {
	path := filepath.Join(dir, file)
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open table %s: %w", file, err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.TrimLeadingSpace = true

	rows, err := reader.ReadAll()
	if err != nil {
		return fmt.Errorf("failed to read table %s: %w", file, err)
	}
	if len(rows) == 0 {
		return fmt.Errorf("table %s has no header row", file)
	}

	cols := make(map[string]int, len(rows[0]))
	for i, name := range rows[0] {
		cols[strings.ToUpper(strings.TrimSpace(name))] = i
	}

	for i, fields := range rows[1:] {
		if err := parse(record{cols: cols, fields: fields}); err != nil {
			return fmt.Errorf("table %s row %d: %w", file, i+2, err)
		}
	}
	return nil
}

// Load reads every table from dir into memory. The returned Dataset is the
// session's working set; a load failure is surfaced directly, there is no
// retry or partial result.
func Load(dir string) (*Dataset, error) {
	ds := &Dataset{}

	err := readTable(dir, FileCustomer, func(r record) error {
		created, err := r.getDate("CREATED_AT")
		if err != nil {
			return err
		}
		ds.Customers = append(ds.Customers, Customer{
			ID:        r.get("CUSTOMER_ID"),
			Type:      r.get("CUSTOMER_TYPE"),
			Name:      r.get("NAME"),
			CreatedAt: created,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	err = readTable(dir, FileOrderFact, func(r record) error {
		date, err := r.getDate("ORDER_DATE")
		if err != nil {
			return err
		}
		total, err := r.getDecimal("TOTAL_AMOUNT")
		if err != nil {
			return err
		}
		ds.Orders = append(ds.Orders, Order{
			ID:            r.get("ORDER_ID"),
			Date:          date,
			CustomerID:    r.get("CUSTOMER_ID"),
			ChannelID:     r.get("CHANNEL_ID"),
			FacilityID:    r.get("FACILITY_ID"),
			TotalAmount:   total,
			Currency:      r.get("CURRENCY"),
			Status:        r.get("ORDER_STATUS"),
			Type:          r.get("ORDER_TYPE"),
			PaymentMethod: r.get("PAYMENT_METHOD"),
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	err = readTable(dir, FileOrderLine, func(r record) error {
		qty, err := r.getInt("QUANTITY")
		if err != nil {
			return err
		}
		price, err := r.getDecimal("UNIT_PRICE")
		if err != nil {
			return err
		}
		discount, err := r.getDecimal("DISCOUNT_AMOUNT")
		if err != nil {
			return err
		}
		ds.OrderLines = append(ds.OrderLines, OrderLine{
			ID:             r.get("ORDER_LINE_ID"),
			OrderID:        r.get("ORDER_ID"),
			ProductID:      r.get("PRODUCT_ID"),
			Quantity:       qty,
			UnitPrice:      price,
			DiscountAmount: discount,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	err = readTable(dir, FileProduct, func(r record) error {
		price, err := r.getDecimal("PRICE")
		if err != nil {
			return err
		}
		ds.Products = append(ds.Products, Product{
			ID:        r.get("PRODUCT_ID"),
			Name:      r.get("NAME"),
			Category:  r.get("CATEGORY"),
			Brand:     r.get("BRAND"),
			ListPrice: price,
			Active:    r.getBool("ACTIVE"),
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	err = readTable(dir, FileChannel, func(r record) error {
		ds.Channels = append(ds.Channels, Channel{
			ID:   r.get("CHANNEL_ID"),
			Name: r.get("CHANNEL_NAME"),
			Type: r.get("CHANNEL_TYPE"),
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	err = readTable(dir, FileFacility, func(r record) error {
		ds.Facilities = append(ds.Facilities, Facility{
			ID:      r.get("FACILITY_ID"),
			Name:    r.get("FACILITY_NAME"),
			Type:    r.get("FACILITY_TYPE"),
			Country: r.get("COUNTRY"),
			Region:  r.get("REGION"),
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	err = readTable(dir, FileCampaign, func(r record) error {
		budget, err := r.getDecimal("BUDGET")
		if err != nil {
			return err
		}
		start, err := r.getDate("START_DATE")
		if err != nil {
			return err
		}
		end, err := r.getDate("END_DATE")
		if err != nil {
			return err
		}
		ds.Campaigns = append(ds.Campaigns, Campaign{
			ID:            r.get("CAMPAIGN_ID"),
			Name:          r.get("CAMPAIGN_NAME"),
			Type:          r.get("CAMPAIGN_TYPE"),
			Objective:     r.get("OBJECTIVE"),
			Budget:        budget,
			StartDate:     start,
			EndDate:       end,
			TargetSegment: r.get("TARGET_SEGMENT"),
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	err = readTable(dir, FileAttribution, func(r record) error {
		pct, err := r.getDecimal("CONTRIBUTION_PERCENT")
		if err != nil {
			return err
		}
		ds.Attributions = append(ds.Attributions, OrderCampaignAttribution{
			ID:                  r.get("ATTRIBUTION_ID"),
			OrderID:             r.get("ORDER_ID"),
			CampaignID:          r.get("CAMPAIGN_ID"),
			Model:               r.get("ATTRIBUTION_MODEL"),
			ContributionPercent: pct,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	err = readTable(dir, FileDigitalSite, func(r record) error {
		ds.Sites = append(ds.Sites, DigitalSite{
			ID:           r.get("DIGITAL_SITE_ID"),
			Name:         r.get("SITE_NAME"),
			Domain:       r.get("DOMAIN"),
			PlatformType: r.get("PLATFORM_TYPE"),
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	err = readTable(dir, FileDigitalEvent, func(r record) error {
		date, err := r.getDate("EVENT_DATE")
		if err != nil {
			return err
		}
		ds.Events = append(ds.Events, DigitalEvent{
			ID:         r.get("EVENT_ID"),
			Date:       date,
			CustomerID: r.get("CUSTOMER_ID"),
			SiteID:     r.get("DIGITAL_SITE_ID"),
			EventType:  r.get("EVENT_TYPE"),
			DeviceType: r.get("DEVICE_TYPE"),
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	err = readTable(dir, FileSalesPlan, func(r record) error {
		target, err := r.getDecimal("TARGET_REVENUE")
		if err != nil {
			return err
		}
		start, err := r.getDate("START_DATE")
		if err != nil {
			return err
		}
		end, err := r.getDate("END_DATE")
		if err != nil {
			return err
		}
		ds.Plans = append(ds.Plans, SalesPlan{
			ID:            r.get("PLAN_ID"),
			StartDate:     start,
			EndDate:       end,
			TargetRevenue: target,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	err = readTable(dir, FileInventory, func(r record) error {
		qty, err := r.getInt("QUANTITY")
		if err != nil {
			return err
		}
		updated, err := r.getDate("LAST_UPDATED")
		if err != nil {
			return err
		}
		ds.Inventory = append(ds.Inventory, InventoryRecord{
			ID:          r.get("INVENTORY_ID"),
			ProductID:   r.get("PRODUCT_ID"),
			FacilityID:  r.get("FACILITY_ID"),
			Quantity:    qty,
			LastUpdated: updated,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	err = readTable(dir, FileFulfillment, func(r record) error {
		fulfilled, err := r.getDate("FULFILLMENT_DATE")
		if err != nil {
			return err
		}
		created, err := r.getDate("CREATED_AT")
		if err != nil {
			return err
		}
		ds.Fulfillments = append(ds.Fulfillments, OrderFulfillment{
			ID:              r.get("FULFILLMENT_ID"),
			OrderID:         r.get("ORDER_ID"),
			Status:          r.get("FULFILLMENT_STATUS"),
			FulfillmentDate: fulfilled,
			CreatedAt:       created,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	return ds, nil
}
