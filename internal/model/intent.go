package model

import (
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// AuditStep is one discrete entry in a resolution audit trail. Step is a
// stable machine-readable name; Detail is the human-readable context.
type AuditStep struct {
	Step   string `json:"step"`
	Detail string `json:"detail"`
}

// Contact source labels on an EmailIntent / match result.
const (
	SourceManagersSheet  = "managers_sheet"
	SourceBrandARSummary = "brand_ar_summary"
	SourceManual         = "manual"
)

// EmailIntent is the resolved output for one retailer group: everything
// a downstream renderer and queue need to compose and send one email.
// The core hands these off and does not render or deliver anything.
type EmailIntent struct {
	RetailerName   string   `json:"retailer_name"`
	InvoiceNumbers []string `json:"invoice_numbers"`

	TierLabel      string          `json:"tier_label"`
	Urgency        string          `json:"urgency"`
	Subject        string          `json:"subject"`
	MaxDaysPastDue int             `json:"max_days_past_due"`
	TotalAmount    decimal.Decimal `json:"total_amount"`
	MultiInvoice   bool            `json:"multi_invoice"`

	To            []string `json:"to"`
	Cc            []string `json:"cc"`
	ContactSource string   `json:"contact_source"`
	ContactName   string   `json:"contact_name,omitempty"`

	Confidence      float64     `json:"confidence"`
	MatchTier       string      `json:"match_tier"`
	FuzzyScore      float64     `json:"fuzzy_score"`
	MatchedName     string      `json:"matched_name,omitempty"`
	Notes           string      `json:"notes,omitempty"`
	ResolutionChain []AuditStep `json:"resolution_chain,omitempty"`
}

// NeedsManualEntry reports whether no recipient could be resolved from
// any source. Downstream review surfaces these for manual entry; they
// are never silently dropped.
func (e EmailIntent) NeedsManualEntry() bool {
	return e.ContactSource == SourceManual
}

var usd = message.NewPrinter(language.AmericanEnglish)

// FormatAmount renders a decimal amount as US currency, e.g. "$2,700.56".
func FormatAmount(d decimal.Decimal) string {
	return usd.Sprintf("$%.2f", d.InexactFloat64())
}
