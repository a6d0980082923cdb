package pipeline

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/picc-platform/collections-cli/internal/model"
)

func TestGroupInvoices_FoldsByRawName(t *testing.T) {
	invoices := []model.Invoice{
		{InvoiceNumber: "INV-1", RetailerName: "Seaweed RBNY", Amount: decimal.NewFromInt(1000), DaysPastDue: 12, SalesRep: "Bryce J"},
		{InvoiceNumber: "INV-2", RetailerName: "Seaweed RBNY", Amount: decimal.NewFromFloat(1700.56), DaysPastDue: 33},
		{InvoiceNumber: "INV-3", RetailerName: "HUB Dispensary", Amount: decimal.NewFromInt(500), DaysPastDue: 5},
	}

	groups := GroupInvoices(invoices)
	require.Len(t, groups, 2)

	seaweed := groups[0]
	assert.Equal(t, "Seaweed RBNY", seaweed.RetailerName)
	assert.Equal(t, []string{"INV-1", "INV-2"}, seaweed.InvoiceNumbers)
	assert.True(t, seaweed.Multi())
	assert.Equal(t, 33, seaweed.MaxDaysPastDue)
	assert.True(t, decimal.NewFromFloat(2700.56).Equal(seaweed.TotalAmount))
	assert.Equal(t, "Bryce J", seaweed.SalesRep)

	hub := groups[1]
	assert.False(t, hub.Multi())
	assert.Equal(t, 5, hub.MaxDaysPastDue)
}

func TestGroupInvoices_RawNameVariantsStayDistinct(t *testing.T) {
	// Grouping is by the name exactly as written; normalization belongs
	// to contact matching, not to email batching.
	invoices := []model.Invoice{
		{InvoiceNumber: "INV-1", RetailerName: "Seaweed RBNY"},
		{InvoiceNumber: "INV-2", RetailerName: "Seaweed RBNY."},
	}

	groups := GroupInvoices(invoices)
	assert.Len(t, groups, 2)
}

func TestGroupInvoices_PreservesFirstSeenOrder(t *testing.T) {
	invoices := []model.Invoice{
		{InvoiceNumber: "INV-1", RetailerName: "Zebra"},
		{InvoiceNumber: "INV-2", RetailerName: "Alpha"},
		{InvoiceNumber: "INV-3", RetailerName: "Zebra"},
	}

	groups := GroupInvoices(invoices)
	require.Len(t, groups, 2)
	assert.Equal(t, "Zebra", groups[0].RetailerName)
	assert.Equal(t, "Alpha", groups[1].RetailerName)
}

func TestGroupInvoices_NegativeDays(t *testing.T) {
	invoices := []model.Invoice{
		{InvoiceNumber: "INV-1", RetailerName: "Early Bird", DaysPastDue: -6},
		{InvoiceNumber: "INV-2", RetailerName: "Early Bird", DaysPastDue: -3},
	}

	groups := GroupInvoices(invoices)
	require.Len(t, groups, 1)
	assert.Equal(t, -3, groups[0].MaxDaysPastDue)
}

func TestGroupInvoices_Empty(t *testing.T) {
	assert.Empty(t, GroupInvoices(nil))
}
