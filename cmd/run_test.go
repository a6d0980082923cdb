package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/picc-platform/collections-cli/internal/config"
)

const agingFixture = `[
	{"invoice_number": "INV-1", "retailer_name": "HUB Dispensary", "license_number": "OCM-RETL-001",
	 "amount": "2700.56", "days_past_due": 12, "account_manager": "Jordan", "sales_rep": "Bryce J"},
	{"invoice_number": "INV-2", "retailer_name": "HUB Dispensary", "license_number": "OCM-RETL-001",
	 "amount": "500", "days_past_due": 33, "account_manager": "Jordan", "sales_rep": "Bryce J"}
]`

const managersFixture = `[
	{"retailer_name": "HUB Dispensary", "license_number": "OCM-RETL-001",
	 "email": "janti@hub.example", "contact_name": "Janti Eisakharian - Owner"}
]`

func writeFixture(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func setupRunFlags(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	cfg = &config.Config{}

	runInvoices = writeFixture(t, dir, "aging.json", agingFixture)
	runContacts = writeFixture(t, dir, "managers.json", managersFixture)
	runBrandAR = ""
	runOutput = filepath.Join(dir, "result.json")
	runFormat = "json"
	runDryRun = false
	return dir
}

func TestRunCommand_WritesIntents(t *testing.T) {
	setupRunFlags(t)

	require.NoError(t, runCmd.RunE(runCmd, nil))

	data, err := os.ReadFile(runOutput)
	require.NoError(t, err)

	var result struct {
		RunID   string `json:"run_id"`
		Intents []struct {
			RetailerName string   `json:"retailer_name"`
			Subject      string   `json:"subject"`
			To           []string `json:"to"`
			Cc           []string `json:"cc"`
		} `json:"intents"`
	}
	require.NoError(t, json.Unmarshal(data, &result))
	assert.NotEmpty(t, result.RunID)
	require.Len(t, result.Intents, 1)

	intent := result.Intents[0]
	assert.Equal(t, "HUB Dispensary", intent.RetailerName)
	assert.Equal(t, "PICC - HUB Dispensary - Nabis Invoices INV-1 & INV-2 - 30+ Days Past Due", intent.Subject)
	assert.Equal(t, []string{"janti@hub.example"}, intent.To)
	assert.Contains(t, intent.Cc, "bryce@piccplatform.com")
}

func TestRunCommand_YAMLOutput(t *testing.T) {
	setupRunFlags(t)
	runFormat = "yaml"

	require.NoError(t, runCmd.RunE(runCmd, nil))

	data, err := os.ReadFile(runOutput)
	require.NoError(t, err)
	assert.Contains(t, string(data), "run_id:")
}

func TestRunCommand_DryRun(t *testing.T) {
	dir := setupRunFlags(t)
	runDryRun = true

	require.NoError(t, runCmd.RunE(runCmd, nil))

	// Dry run parses and prints; no result file is written.
	_, err := os.Stat(filepath.Join(dir, "result.json"))
	assert.True(t, os.IsNotExist(err))
}

func TestRunCommand_MissingInvoicesFile(t *testing.T) {
	setupRunFlags(t)
	runInvoices = filepath.Join(t.TempDir(), "nope.json")

	assert.Error(t, runCmd.RunE(runCmd, nil))
}

func TestRunCommand_BadScheme(t *testing.T) {
	setupRunFlags(t)
	cfg = &config.Config{Tier: config.TierConfig{Scheme: "seven_tier"}}

	assert.Error(t, runCmd.RunE(runCmd, nil))
}

func TestResolveCommand_Runs(t *testing.T) {
	dir := t.TempDir()
	cfg = &config.Config{}

	resolveInvoices = writeFixture(t, dir, "aging.json", agingFixture)
	resolveContacts = writeFixture(t, dir, "managers.json", managersFixture)
	resolveBrandAR = ""
	resolveUngroup = false

	require.NoError(t, resolveCmd.RunE(resolveCmd, nil))
}

func TestResolveCommand_MissingContactsFile(t *testing.T) {
	dir := t.TempDir()
	cfg = &config.Config{}

	resolveInvoices = writeFixture(t, dir, "aging.json", agingFixture)
	resolveContacts = filepath.Join(dir, "nope.json")

	assert.Error(t, resolveCmd.RunE(resolveCmd, nil))
}
