package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/picc-platform/collections-cli/internal/ingest"
	"github.com/picc-platform/collections-cli/internal/pipeline"
	"github.com/picc-platform/collections-cli/internal/resolve"
	"github.com/picc-platform/collections-cli/internal/tier"
)

var (
	runInvoices string
	runContacts string
	runBrandAR  string
	runOutput   string
	runFormat   string
	runDryRun   bool
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the full collections pipeline over an aging report",
	Long: `Reads aging-report, managers-sheet, and brand-AR-summary exports,
classifies every sendable invoice group into an escalation tier, resolves
recipients, and writes one email intent per retailer group.

Examples:
  # Dry run - parse and print the aging report, skip the pipeline
  collections-cli run --invoices aging.json --contacts managers.json --dry-run

  # Full run with the brand AR fallback directory
  collections-cli run --invoices aging.json --contacts managers.json \
    --brand-ar brand_ar.json --output intents.json`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		invoices, err := ingest.LoadInvoices(runInvoices)
		if err != nil {
			return eris.Wrap(err, "run: load invoices")
		}

		if runDryRun {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(invoices)
		}

		p, err := buildPipeline()
		if err != nil {
			return eris.Wrap(err, "run: init pipeline")
		}

		result, err := p.Run(invoices)
		if err != nil {
			return eris.Wrap(err, "run: pipeline")
		}

		fmt.Fprint(os.Stderr, pipeline.FormatRunReport(result))

		if err := writeResult(result); err != nil {
			return err
		}
		if runOutput != "" {
			zap.L().Info("intents written",
				zap.String("path", runOutput),
				zap.Int("intents", len(result.Intents)))
		}
		return nil
	},
}

func init() {
	runCmd.Flags().StringVar(&runInvoices, "invoices", "", "path to aging report JSON export (required)")
	runCmd.Flags().StringVar(&runContacts, "contacts", "", "path to managers sheet JSON export (required)")
	runCmd.Flags().StringVar(&runBrandAR, "brand-ar", "", "path to brand AR summary JSON export (optional fallback directory)")
	runCmd.Flags().StringVar(&runOutput, "output", "", "write run result to file (default: stdout)")
	runCmd.Flags().StringVar(&runFormat, "format", "json", "output format: json (default) or yaml")
	runCmd.Flags().BoolVar(&runDryRun, "dry-run", false, "parse the aging report and print invoices, skip the pipeline")
	_ = runCmd.MarkFlagRequired("invoices")
	_ = runCmd.MarkFlagRequired("contacts")
	rootCmd.AddCommand(runCmd)
}

// buildPipeline wires the classifier and resolver from config plus the
// contact files named on the command line.
func buildPipeline() (*pipeline.Pipeline, error) {
	scheme, err := tier.SchemeByName(cfg.Tier.Scheme)
	if err != nil {
		return nil, err
	}
	classifier, err := tier.NewClassifier(scheme, cfg.Tier.OCMDeadlineDays)
	if err != nil {
		return nil, err
	}

	contacts, err := ingest.LoadContacts(runContacts)
	if err != nil {
		return nil, err
	}
	brandAR, err := ingest.LoadBrandAR(runBrandAR)
	if err != nil {
		return nil, err
	}

	resolver, err := resolve.NewResolver(contacts, brandAR, resolverConfig())
	if err != nil {
		return nil, err
	}

	return pipeline.New(classifier, resolver)
}

// resolverConfig maps the file/env config onto the resolver's policy
// tables. Empty config sections fall through to the resolver defaults.
func resolverConfig() resolve.Config {
	rc := resolve.Config{
		FuzzyThreshold: cfg.Resolver.FuzzyThreshold,
		Parallelism:    cfg.Resolver.Parallelism,
		BaseCC:         cfg.Resolver.BaseCC,
		RepEmails:      cfg.Resolver.RepEmails,
	}
	if len(cfg.Resolver.SourceTrust) > 0 {
		rc.SourceTrust = make(map[string]resolve.TrustLevel, len(cfg.Resolver.SourceTrust))
		for source, level := range cfg.Resolver.SourceTrust {
			rc.SourceTrust[source] = resolve.TrustLevel(level)
		}
	}
	return rc
}

// writeResult writes the run result to the output file or stdout.
func writeResult(result *pipeline.Result) error {
	var w *os.File
	if runOutput != "" {
		f, err := os.Create(runOutput)
		if err != nil {
			return eris.Wrap(err, "run: create output file")
		}
		defer f.Close() //nolint:errcheck
		w = f
	} else {
		w = os.Stdout
	}

	if runFormat == "yaml" {
		// Round-trip through the JSON representation so YAML output
		// carries the same field names as JSON output.
		data, err := json.Marshal(result)
		if err != nil {
			return eris.Wrap(err, "run: encode result")
		}
		var generic any
		if err := json.Unmarshal(data, &generic); err != nil {
			return eris.Wrap(err, "run: encode result")
		}
		enc := yaml.NewEncoder(w)
		defer enc.Close() //nolint:errcheck
		return enc.Encode(generic)
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}
