package main

import (
	"fmt"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/picc-platform/collections-cli/internal/ingest"
	"github.com/picc-platform/collections-cli/internal/resolve"
)

var (
	resolveInvoices string
	resolveContacts string
	resolveBrandAR  string
	resolveUngroup  bool
)

var resolveCmd = &cobra.Command{
	Use:   "resolve",
	Short: "Resolve retailer contacts without building email intents",
	Long: `Runs only the contact-matching cascade and recipient chain over an
aging report and prints the resolution report. Useful for auditing match
quality after a managers sheet update.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		invoices, err := ingest.LoadInvoices(resolveInvoices)
		if err != nil {
			return eris.Wrap(err, "resolve: load invoices")
		}
		contacts, err := ingest.LoadContacts(resolveContacts)
		if err != nil {
			return eris.Wrap(err, "resolve: load contacts")
		}
		brandAR, err := ingest.LoadBrandAR(resolveBrandAR)
		if err != nil {
			return eris.Wrap(err, "resolve: load brand AR summary")
		}

		resolver, err := resolve.NewResolver(contacts, brandAR, resolverConfig())
		if err != nil {
			return eris.Wrap(err, "resolve: init resolver")
		}

		report := resolver.Resolve(invoices, !resolveUngroup)
		fmt.Fprint(os.Stdout, resolve.FormatReport(report))
		return nil
	},
}

func init() {
	resolveCmd.Flags().StringVar(&resolveInvoices, "invoices", "", "path to aging report JSON export (required)")
	resolveCmd.Flags().StringVar(&resolveContacts, "contacts", "", "path to managers sheet JSON export (required)")
	resolveCmd.Flags().StringVar(&resolveBrandAR, "brand-ar", "", "path to brand AR summary JSON export (optional)")
	resolveCmd.Flags().BoolVar(&resolveUngroup, "ungroup", false, "match every invoice independently instead of grouping by retailer")
	_ = resolveCmd.MarkFlagRequired("invoices")
	_ = resolveCmd.MarkFlagRequired("contacts")
	rootCmd.AddCommand(resolveCmd)
}
