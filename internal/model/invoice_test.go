package model

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func sendableInvoice() Invoice {
	return Invoice{
		InvoiceNumber:  "INV-1001",
		RetailerName:   "HUB Dispensary",
		Amount:         decimal.NewFromFloat(2700.56),
		DaysPastDue:    12,
		AccountManager: "Jordan",
	}
}

func TestSkipReason_Sendable(t *testing.T) {
	inv := sendableInvoice()
	assert.Equal(t, SkipReason(""), inv.SkipReason())
	assert.True(t, inv.IsSendable())
}

func TestSkipReason_Paid(t *testing.T) {
	inv := sendableInvoice()
	inv.Paid = true
	assert.Equal(t, SkipAlreadyPaid, inv.SkipReason())
}

func TestSkipReason_PaymentEnroute(t *testing.T) {
	inv := sendableInvoice()
	inv.Status = StatusPaymentEnroute
	assert.Equal(t, SkipPaymentEnroute, inv.SkipReason())
}

func TestSkipReason_EmailAlreadySent(t *testing.T) {
	inv := sendableInvoice()
	inv.EmailSent = true
	assert.Equal(t, SkipEmailAlreadySent, inv.SkipReason())
}

func TestSkipReason_MissingAccountManager(t *testing.T) {
	inv := sendableInvoice()
	inv.AccountManager = ""
	assert.Equal(t, SkipNoAccountManager, inv.SkipReason())

	inv.AccountManager = "#N/A"
	assert.Equal(t, SkipNoAccountManager, inv.SkipReason())
}

func TestSkipReason_PriorityOrder(t *testing.T) {
	// A paid invoice reports paid even when every other reason applies.
	inv := Invoice{
		Paid:      true,
		Status:    StatusPaymentEnroute,
		EmailSent: true,
	}
	assert.Equal(t, SkipAlreadyPaid, inv.SkipReason())

	inv.Paid = false
	assert.Equal(t, SkipPaymentEnroute, inv.SkipReason())

	inv.Status = StatusExpectedToPay
	assert.Equal(t, SkipEmailAlreadySent, inv.SkipReason())
}

func TestSkipReason_DisputeStatusStillSendable(t *testing.T) {
	inv := sendableInvoice()
	inv.Status = StatusDispute
	assert.True(t, inv.IsSendable())
}

func TestFormatAmount(t *testing.T) {
	assert.Equal(t, "$2,700.56", FormatAmount(decimal.NewFromFloat(2700.56)))
	assert.Equal(t, "$0.00", FormatAmount(decimal.Zero))
	assert.Equal(t, "$1,234,567.80", FormatAmount(decimal.NewFromFloat(1234567.8)))
}
