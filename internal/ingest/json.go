// Package ingest loads the pipeline's input records from JSON files.
// Upstream tooling exports the aging report, the managers sheet, and
// the brand AR summary to this format; cell-level spreadsheet parsing
// lives there, not here.
package ingest

import (
	"encoding/json"
	"os"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/picc-platform/collections-cli/internal/model"
)

// LoadInvoices reads an aging-report export. Records with no invoice
// number are dropped with a warning rather than failing the load.
func LoadInvoices(path string) ([]model.Invoice, error) {
	var raw []model.Invoice
	if err := loadJSON(path, &raw); err != nil {
		return nil, eris.Wrap(err, "ingest: load invoices")
	}

	invoices := raw[:0]
	for _, inv := range raw {
		if inv.InvoiceNumber == "" {
			zap.L().Warn("dropping invoice record with no invoice number",
				zap.String("retailer", inv.RetailerName),
				zap.String("file", path))
			continue
		}
		invoices = append(invoices, inv)
	}

	zap.L().Info("invoices loaded",
		zap.String("file", path),
		zap.Int("count", len(invoices)),
		zap.Int("dropped", len(raw)-len(invoices)),
	)
	return invoices, nil
}

// LoadContacts reads a managers-sheet export.
func LoadContacts(path string) ([]model.Contact, error) {
	var contacts []model.Contact
	if err := loadJSON(path, &contacts); err != nil {
		return nil, eris.Wrap(err, "ingest: load contacts")
	}
	zap.L().Info("contacts loaded",
		zap.String("file", path),
		zap.Int("count", len(contacts)),
	)
	return contacts, nil
}

// LoadBrandAR reads a brand AR summary export. A missing file is not an
// error; the fallback directory is optional.
func LoadBrandAR(path string) ([]model.BrandARContact, error) {
	if path == "" {
		return nil, nil
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		zap.L().Warn("brand AR summary file not found, continuing without fallback directory",
			zap.String("file", path))
		return nil, nil
	}

	var contacts []model.BrandARContact
	if err := loadJSON(path, &contacts); err != nil {
		return nil, eris.Wrap(err, "ingest: load brand AR summary")
	}
	zap.L().Info("brand AR summary loaded",
		zap.String("file", path),
		zap.Int("count", len(contacts)),
	)
	return contacts, nil
}

func loadJSON(path string, out any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return eris.Wrapf(err, "read %s", path)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return eris.Wrapf(err, "parse %s", path)
	}
	return nil
}
