package ingest

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadInvoices(t *testing.T) {
	path := writeFile(t, "aging.json", `[
		{"invoice_number": "INV-1", "retailer_name": "HUB Dispensary", "amount": "2700.56", "days_past_due": 12, "account_manager": "Jordan"},
		{"invoice_number": "INV-2", "retailer_name": "Seaweed RBNY", "amount": "100", "days_past_due": 33, "paid": true}
	]`)

	invoices, err := LoadInvoices(path)
	require.NoError(t, err)
	require.Len(t, invoices, 2)
	assert.Equal(t, "INV-1", invoices[0].InvoiceNumber)
	assert.Equal(t, 12, invoices[0].DaysPastDue)
	assert.Equal(t, "2700.56", invoices[0].Amount.String())
	assert.True(t, invoices[1].Paid)
}

func TestLoadInvoices_DropsRecordsWithoutNumber(t *testing.T) {
	path := writeFile(t, "aging.json", `[
		{"invoice_number": "INV-1", "retailer_name": "HUB Dispensary"},
		{"retailer_name": "Nameless"}
	]`)

	invoices, err := LoadInvoices(path)
	require.NoError(t, err)
	require.Len(t, invoices, 1)
	assert.Equal(t, "INV-1", invoices[0].InvoiceNumber)
}

func TestLoadInvoices_MissingFile(t *testing.T) {
	_, err := LoadInvoices(filepath.Join(t.TempDir(), "nope.json"))
	assert.Error(t, err)
}

func TestLoadInvoices_BadJSON(t *testing.T) {
	path := writeFile(t, "aging.json", `{not json`)
	_, err := LoadInvoices(path)
	assert.Error(t, err)
}

func TestLoadContacts(t *testing.T) {
	path := writeFile(t, "managers.json", `[
		{
			"retailer_name": "HUB Dispensary",
			"license_number": "OCM-RETL-001",
			"email": "janti@hub.example",
			"all_contacts": [
				{"name": "Mary", "title": "Accounts Payable", "email": "ap@hub.example", "source": "Nabis Import"}
			]
		}
	]`)

	contacts, err := LoadContacts(path)
	require.NoError(t, err)
	require.Len(t, contacts, 1)
	assert.Equal(t, "OCM-RETL-001", contacts[0].LicenseNumber)
	require.Len(t, contacts[0].AllContacts, 1)
	assert.Equal(t, "Nabis Import", contacts[0].AllContacts[0].Source)
}

func TestLoadBrandAR(t *testing.T) {
	path := writeFile(t, "brand_ar.json", `[
		{"retailer_name": "Empire Cannabis Club", "poc_emails": ["ar@empire.example"]}
	]`)

	contacts, err := LoadBrandAR(path)
	require.NoError(t, err)
	require.Len(t, contacts, 1)
	assert.Equal(t, []string{"ar@empire.example"}, contacts[0].POCEmails)
}

func TestLoadBrandAR_OptionalFile(t *testing.T) {
	contacts, err := LoadBrandAR("")
	require.NoError(t, err)
	assert.Nil(t, contacts)

	contacts, err = LoadBrandAR(filepath.Join(t.TempDir(), "missing.json"))
	require.NoError(t, err)
	assert.Nil(t, contacts)
}
