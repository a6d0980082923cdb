package pipeline

import (
	"github.com/shopspring/decimal"

	"github.com/picc-platform/collections-cli/internal/model"
)

// Group is one retailer's sendable invoices folded together. Keyed by
// the raw retailer name exactly as it appears on the aging report, so
// name variants that resolve to the same contact still email
// separately. MaxDaysPastDue drives tier classification: the whole
// group escalates to its worst invoice.
type Group struct {
	RetailerName   string
	Invoices       []model.Invoice
	InvoiceNumbers []string
	TotalAmount    decimal.Decimal
	MaxDaysPastDue int
	// SalesRep and AccountManager come from the first invoice seen for
	// the retailer.
	SalesRep       string
	AccountManager string
}

// Multi reports whether the group covers more than one invoice.
func (g *Group) Multi() bool { return len(g.Invoices) > 1 }

// GroupInvoices folds sendable invoices into per-retailer groups,
// preserving the order retailers first appear in the input.
func GroupInvoices(invoices []model.Invoice) []*Group {
	var order []string
	groups := make(map[string]*Group)

	for _, inv := range invoices {
		key := inv.RetailerName
		g, ok := groups[key]
		if !ok {
			g = &Group{
				RetailerName:   key,
				MaxDaysPastDue: inv.DaysPastDue,
				SalesRep:       inv.SalesRep,
				AccountManager: inv.AccountManager,
			}
			groups[key] = g
			order = append(order, key)
		}
		g.Invoices = append(g.Invoices, inv)
		g.InvoiceNumbers = append(g.InvoiceNumbers, inv.InvoiceNumber)
		g.TotalAmount = g.TotalAmount.Add(inv.Amount)
		if inv.DaysPastDue > g.MaxDaysPastDue {
			g.MaxDaysPastDue = inv.DaysPastDue
		}
	}

	out := make([]*Group, 0, len(order))
	for _, key := range order {
		out = append(out, groups[key])
	}
	return out
}
