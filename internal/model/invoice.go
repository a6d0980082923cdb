package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// InvoiceStatus holds the workflow status from the overdue sheet.
type InvoiceStatus string

const (
	StatusNone           InvoiceStatus = ""
	StatusExpectedToPay  InvoiceStatus = "Expected to pay"
	StatusPaymentEnroute InvoiceStatus = "Payment Enroute"
	StatusDispute        InvoiceStatus = "Issue"
)

// SkipReason explains why an invoice is excluded from email generation.
type SkipReason string

const (
	SkipAlreadyPaid      SkipReason = "already_paid"
	SkipPaymentEnroute   SkipReason = "payment_enroute"
	SkipEmailAlreadySent SkipReason = "email_already_sent"
	SkipNoAccountManager SkipReason = "missing_account_manager"
)

// Invoice is a single overdue invoice row, already parsed by the ingest
// boundary. Amounts are decimal; dates arrive parsed. Days past due is
// signed: negative means the invoice is not yet due.
type Invoice struct {
	InvoiceNumber string          `json:"invoice_number"`
	RetailerName  string          `json:"retailer_name"`
	LicenseNumber string          `json:"license_number,omitempty"`
	Amount        decimal.Decimal `json:"amount"`
	DueDate       *time.Time      `json:"due_date,omitempty"`
	DaysPastDue   int             `json:"days_past_due"`
	Status        InvoiceStatus   `json:"status,omitempty"`

	Paid        bool `json:"paid,omitempty"`
	EmailSent   bool `json:"email_sent,omitempty"`
	Called      bool `json:"called,omitempty"`
	MadeContact bool `json:"made_contact,omitempty"`

	AccountManager      string `json:"account_manager,omitempty"`
	AccountManagerPhone string `json:"account_manager_phone,omitempty"`
	SalesRep            string `json:"sales_rep,omitempty"`

	Notes        string     `json:"notes,omitempty"`
	FollowUpDate *time.Time `json:"follow_up_date,omitempty"`
}

// SkipReason returns the first applicable skip reason in fixed priority
// order: paid > payment enroute > email already sent > missing account
// manager. Empty string means the invoice is sendable.
func (inv Invoice) SkipReason() SkipReason {
	if inv.Paid {
		return SkipAlreadyPaid
	}
	if inv.Status == StatusPaymentEnroute {
		return SkipPaymentEnroute
	}
	if inv.EmailSent {
		return SkipEmailAlreadySent
	}
	if inv.AccountManager == "" || inv.AccountManager == "#N/A" {
		return SkipNoAccountManager
	}
	return ""
}

// IsSendable reports whether the invoice has no skip reason.
func (inv Invoice) IsSendable() bool {
	return inv.SkipReason() == ""
}
