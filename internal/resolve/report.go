package resolve

import (
	"fmt"
	"strings"
)

// FormatReport renders a resolution report for operator review. Matched
// groups are listed with their tier and recipients; unmatched groups
// carry the triage note from the cascade.
func FormatReport(report *Report) string {
	var b strings.Builder

	b.WriteString(strings.Repeat("=", 70) + "\n")
	b.WriteString("CONTACT RESOLUTION REPORT\n")
	b.WriteString(strings.Repeat("=", 70) + "\n\n")

	fmt.Fprintf(&b, "Total invoices:    %d\n", report.TotalInvoices)
	fmt.Fprintf(&b, "Matched groups:    %d\n", len(report.Matched))
	fmt.Fprintf(&b, "Unmatched groups:  %d\n", len(report.Unmatched))
	fmt.Fprintf(&b, "Match rate:        %.1f%%\n\n", report.MatchRate*100)

	b.WriteString("Confidence distribution:\n")
	for _, bucket := range ConfidenceBucketOrder {
		fmt.Fprintf(&b, "  %-16s %d invoice(s)\n", bucket+":", report.ConfidenceBuckets[bucket])
	}
	b.WriteString("\n")

	if len(report.Matched) > 0 {
		b.WriteString(strings.Repeat("-", 70) + "\n")
		b.WriteString("MATCHED\n")
		b.WriteString(strings.Repeat("-", 70) + "\n")
		for _, res := range report.Matched {
			fmt.Fprintf(&b, "\n%s (%s)\n", res.RetailerName, strings.Join(res.InvoiceNumbers, ", "))
			fmt.Fprintf(&b, "  Tier:       %s (%.0f%%)\n", res.MatchTier, res.Confidence*100)
			if res.FuzzyScore > 0 && res.FuzzyScore < 1 {
				fmt.Fprintf(&b, "  Fuzzy:      '%s' (score: %.3f)\n", res.MatchedName, res.FuzzyScore)
			}
			fmt.Fprintf(&b, "  To:         %s\n", strings.Join(res.ToEmails, ", "))
			fmt.Fprintf(&b, "  Source:     %s\n", res.ContactSource)
			if res.Notes != "" {
				fmt.Fprintf(&b, "  Notes:      %s\n", res.Notes)
			}
		}
		b.WriteString("\n")
	}

	if len(report.Unmatched) > 0 {
		b.WriteString(strings.Repeat("-", 70) + "\n")
		b.WriteString("UNMATCHED - MANUAL REVIEW REQUIRED\n")
		b.WriteString(strings.Repeat("-", 70) + "\n")
		for _, res := range report.Unmatched {
			fmt.Fprintf(&b, "\n%s (%s)\n", res.RetailerName, strings.Join(res.InvoiceNumbers, ", "))
			fmt.Fprintf(&b, "  %s\n", res.Notes)
		}
		b.WriteString("\n")
	}

	b.WriteString(strings.Repeat("=", 70) + "\n")
	return b.String()
}
