package pipeline

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/picc-platform/collections-cli/internal/model"
)

// FormatRunReport renders a run summary for the operator: counts, skip
// breakdown, tier totals, and every intent that still needs a manually
// entered recipient.
func FormatRunReport(result *Result) string {
	var b strings.Builder

	b.WriteString(strings.Repeat("=", 70) + "\n")
	b.WriteString("COLLECTIONS RUN SUMMARY\n")
	b.WriteString(strings.Repeat("=", 70) + "\n\n")

	fmt.Fprintf(&b, "Run ID:     %s\n", result.RunID)
	fmt.Fprintf(&b, "Started:    %s\n", result.StartedAt.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(&b, "Duration:   %s\n\n", result.Duration.Round(time.Millisecond))

	stats := result.Stats
	fmt.Fprintf(&b, "Invoices:   %d total, %d sendable, %d skipped\n", stats.TotalInvoices, stats.Sendable, stats.Skipped)
	fmt.Fprintf(&b, "Groups:     %d (%d multi-invoice)\n", stats.Groups, stats.MultiInvoice)
	fmt.Fprintf(&b, "Recipients: %d resolved, %d need manual entry\n", stats.Resolved, stats.NeedsManualEntry)
	fmt.Fprintf(&b, "Total due:  %s\n\n", model.FormatAmount(stats.TotalAmount))

	if len(stats.SkipReasons) > 0 {
		b.WriteString("Skipped invoices:\n")
		for _, reason := range skipReasonOrder {
			if n := stats.SkipReasons[reason]; n > 0 {
				fmt.Fprintf(&b, "  %-24s %d\n", string(reason)+":", n)
			}
		}
		b.WriteString("\n")
	}

	if len(stats.TierCounts) > 0 {
		b.WriteString("By tier:\n")
		labels := make([]string, 0, len(stats.TierCounts))
		for label := range stats.TierCounts {
			labels = append(labels, label)
		}
		sort.Strings(labels)
		for _, label := range labels {
			fmt.Fprintf(&b, "  %-24s %d group(s), %s\n",
				label+":", stats.TierCounts[label], model.FormatAmount(stats.TierAmounts[label]))
		}
		b.WriteString("\n")
	}

	var manual []model.EmailIntent
	for _, intent := range result.Intents {
		if intent.NeedsManualEntry() {
			manual = append(manual, intent)
		}
	}
	if len(manual) > 0 {
		b.WriteString(strings.Repeat("-", 70) + "\n")
		b.WriteString("MANUAL RECIPIENT ENTRY REQUIRED\n")
		b.WriteString(strings.Repeat("-", 70) + "\n")
		for _, intent := range manual {
			fmt.Fprintf(&b, "\n%s (%s) - %s\n", intent.RetailerName,
				strings.Join(intent.InvoiceNumbers, ", "), model.FormatAmount(intent.TotalAmount))
			if intent.Notes != "" {
				fmt.Fprintf(&b, "  %s\n", intent.Notes)
			}
		}
		b.WriteString("\n")
	}

	b.WriteString(strings.Repeat("=", 70) + "\n")
	return b.String()
}

var skipReasonOrder = []model.SkipReason{
	model.SkipAlreadyPaid,
	model.SkipPaymentEnroute,
	model.SkipEmailAlreadySent,
	model.SkipNoAccountManager,
}
