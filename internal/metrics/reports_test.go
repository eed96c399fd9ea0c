package metrics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mkoudela/shoplens/internal/dataset"
	"github.com/mkoudela/shoplens/internal/filter"
)

func TestBuildReportUnknownName(t *testing.T) {
	_, err := BuildReport(testView(), "bogus", 0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bogus")
}

func TestBuildReportDailySalesChronological(t *testing.T) {
	groups, err := BuildReport(testView(), ReportDailySales, 0)
	require.NoError(t, err)
	require.Len(t, groups, 2)

	assert.Equal(t, []string{"2024-03-01"}, groups[0].Keys)
	assert.True(t, groups[0].Value.Equal(dec("150")))
	assert.Equal(t, []string{"2024-03-15"}, groups[1].Keys)
	assert.True(t, groups[1].Value.Equal(dec("150")))
}

func TestBuildReportMonthlySales(t *testing.T) {
	groups, err := BuildReport(testView(), ReportMonthlySales, 0)
	require.NoError(t, err)
	require.Len(t, groups, 1)
	assert.Equal(t, []string{"2024-03"}, groups[0].Keys)
	assert.True(t, groups[0].Value.Equal(dec("300")))
}

func TestBuildReportRevenueByChannel(t *testing.T) {
	groups, err := BuildReport(testView(), ReportRevenueByChannel, 0)
	require.NoError(t, err)
	require.Len(t, groups, 2)

	// Sorted by revenue, channel IDs resolved to names.
	assert.Equal(t, []string{"Web Shop"}, groups[0].Keys)
	assert.True(t, groups[0].Value.Equal(dec("250")))
	assert.Equal(t, []string{"Phone"}, groups[1].Keys)
}

func TestBuildReportTopProducts(t *testing.T) {
	groups, err := BuildReport(testView(), ReportTopProducts, 1)
	require.NoError(t, err)
	require.Len(t, groups, 1)

	// Notebook: 5*10 + 15*10 = 200 beats Desk Lamp's 100.
	assert.Equal(t, []string{"Notebook", "Office"}, groups[0].Keys)
	assert.True(t, groups[0].Value.Equal(dec("200")))
}

func TestBuildReportTopCustomers(t *testing.T) {
	groups, err := BuildReport(testView(), ReportTopCustomers, 0)
	require.NoError(t, err)
	require.Len(t, groups, 2)
	assert.Equal(t, []string{"Alice Meyer"}, groups[0].Keys)
	assert.True(t, groups[0].Value.Equal(dec("250")))
}

func TestBuildReportPurchaseFrequency(t *testing.T) {
	groups, err := BuildReport(testView(), ReportPurchaseFrequency, 0)
	require.NoError(t, err)
	require.Len(t, groups, 2)

	// One customer placed 1 order, one placed 2.
	assert.Equal(t, []string{"1"}, groups[0].Keys)
	assert.Equal(t, 1, groups[0].Count)
	assert.Equal(t, []string{"2"}, groups[1].Keys)
	assert.Equal(t, 1, groups[1].Count)
}

func TestBuildReportCampaignAttribution(t *testing.T) {
	groups, err := BuildReport(testView(), ReportCampaignAttribution, 0)
	require.NoError(t, err)
	require.Len(t, groups, 2)

	assert.Equal(t, []string{"Search Ads", "ppc"}, groups[0].Keys)
	assert.True(t, groups[0].Value.Equal(dec("150")))
	assert.Equal(t, []string{"Spring Sale", "email"}, groups[1].Keys)
	assert.True(t, groups[1].Value.Equal(dec("50")))
}

func TestBuildReportCampaignROI(t *testing.T) {
	groups, err := BuildReport(testView(), ReportCampaignROI, 0)
	require.NoError(t, err)
	require.Len(t, groups, 2)

	// email: 50 attributed / 100 budget. ppc has a zero budget, so its ROI
	// reports zero instead of failing.
	assert.Equal(t, []string{"email"}, groups[0].Keys)
	assert.True(t, groups[0].Value.Equal(dec("0.5")))
	assert.Equal(t, []string{"ppc"}, groups[1].Keys)
	assert.True(t, groups[1].Value.IsZero())
}

func TestBuildReportConversionFunnel(t *testing.T) {
	groups, err := BuildReport(testView(), ReportConversionFunnel, 0)
	require.NoError(t, err)
	require.Len(t, groups, 4)

	// Fixed stage order, zero-count stages included.
	assert.Equal(t, []string{"PageView"}, groups[0].Keys)
	assert.Equal(t, 2, groups[0].Count)
	assert.Equal(t, []string{"ProductView"}, groups[1].Keys)
	assert.Equal(t, 1, groups[1].Count)
	assert.Equal(t, []string{"AddToCart"}, groups[2].Keys)
	assert.Equal(t, 0, groups[2].Count)
	assert.Equal(t, []string{"Purchase"}, groups[3].Keys)
	assert.Equal(t, 1, groups[3].Count)
}

func TestBuildReportDeviceSplit(t *testing.T) {
	groups, err := BuildReport(testView(), ReportDeviceSplit, 0)
	require.NoError(t, err)
	require.Len(t, groups, 2)
	assert.Equal(t, []string{"desktop"}, groups[0].Keys)
	assert.Equal(t, 2, groups[0].Count)
}

func TestBuildReportOrderStatusBreakdown(t *testing.T) {
	groups, err := BuildReport(testView(), ReportOrderStatusBreakdown, 0)
	require.NoError(t, err)
	require.Len(t, groups, 2)
	assert.Equal(t, []string{dataset.StatusCancelled}, groups[0].Keys)
	assert.Equal(t, 1, groups[0].Count)
	assert.Equal(t, []string{dataset.StatusDelivered}, groups[1].Keys)
	assert.Equal(t, 2, groups[1].Count)
}

func TestBuildReportInventoryByFacility(t *testing.T) {
	groups, err := BuildReport(testView(), ReportInventoryByFacility, 0)
	require.NoError(t, err)
	require.Len(t, groups, 2)

	// Grouped by facility type and region, in key order.
	assert.Equal(t, []string{"store", "Prague"}, groups[0].Keys)
	assert.True(t, groups[0].Value.Equal(dec("5")))
	assert.Equal(t, []string{"warehouse", "South Moravia"}, groups[1].Keys)
	assert.True(t, groups[1].Value.Equal(dec("40")))
}

func TestBuildReportInventoryByCategory(t *testing.T) {
	groups, err := BuildReport(testView(), ReportInventoryByCategory, 0)
	require.NoError(t, err)
	require.Len(t, groups, 2)

	assert.Equal(t, []string{"Home"}, groups[0].Keys)
	assert.True(t, groups[0].Value.Equal(dec("40")))
	assert.Equal(t, []string{"Office"}, groups[1].Keys)
	assert.True(t, groups[1].Value.Equal(dec("5")))
}

func TestBuildReportTopProductsInventory(t *testing.T) {
	groups, err := BuildReport(testView(), ReportTopProductsInventory, 1)
	require.NoError(t, err)
	require.Len(t, groups, 1)

	assert.Equal(t, []string{"Desk Lamp", "Home"}, groups[0].Keys)
	assert.True(t, groups[0].Value.Equal(dec("40")))
}

func TestBuildReportCustomerAcquisition(t *testing.T) {
	groups, err := BuildReport(testView(), ReportCustomerAcquisition, 0)
	require.NoError(t, err)
	require.Len(t, groups, 2)

	// Chronological months, split by customer type.
	assert.Equal(t, []string{"2024-02", dataset.CustomerTypePerson}, groups[0].Keys)
	assert.Equal(t, 1, groups[0].Count)
	assert.Equal(t, []string{"2024-03", dataset.CustomerTypeCompany}, groups[1].Keys)
	assert.Equal(t, 1, groups[1].Count)
}

func TestBuildReportEmptyView(t *testing.T) {
	ds := &dataset.Dataset{}
	v := filter.Apply(ds, filter.NewSelection())

	for _, name := range ReportNames() {
		groups, err := BuildReport(v, name, 0)
		require.NoError(t, err, name)
		if name == ReportConversionFunnel {
			// The funnel always reports its stages.
			assert.Len(t, groups, 4, name)
			continue
		}
		assert.Empty(t, groups, name)
	}
}
