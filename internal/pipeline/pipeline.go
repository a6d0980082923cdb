package pipeline

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/picc-platform/collections-cli/internal/model"
	"github.com/picc-platform/collections-cli/internal/resolve"
	"github.com/picc-platform/collections-cli/internal/tier"
)

// Pipeline runs the full collections pass over an aging report: filter
// out invoices that must not be emailed, fold the rest into per-retailer
// groups, classify each group's escalation tier, resolve recipients, and
// emit one EmailIntent per group.
type Pipeline struct {
	classifier *tier.Classifier
	resolver   *resolve.Resolver
}

// SkippedInvoice records one invoice excluded from the run and why.
type SkippedInvoice struct {
	Invoice model.Invoice    `json:"invoice"`
	Reason  model.SkipReason `json:"reason"`
}

// RunStats aggregates counters for one pipeline run.
type RunStats struct {
	TotalInvoices    int                        `json:"total_invoices"`
	Sendable         int                        `json:"sendable"`
	Skipped          int                        `json:"skipped"`
	SkipReasons      map[model.SkipReason]int   `json:"skip_reasons"`
	Groups           int                        `json:"groups"`
	MultiInvoice     int                        `json:"multi_invoice_groups"`
	Resolved         int                        `json:"resolved_groups"`
	NeedsManualEntry int                        `json:"needs_manual_entry"`
	TierCounts       map[string]int             `json:"tier_counts"`
	TierAmounts      map[string]decimal.Decimal `json:"tier_amounts"`
	TotalAmount      decimal.Decimal            `json:"total_amount"`
}

// Result is everything one pipeline run produced.
type Result struct {
	RunID      string              `json:"run_id"`
	StartedAt  time.Time           `json:"started_at"`
	Duration   time.Duration       `json:"duration"`
	Intents    []model.EmailIntent `json:"intents"`
	SkippedInv []SkippedInvoice    `json:"skipped_invoices"`
	Resolution *resolve.Report     `json:"-"`
	Stats      RunStats            `json:"stats"`
}

// New assembles a pipeline from its two policy components.
func New(classifier *tier.Classifier, resolver *resolve.Resolver) (*Pipeline, error) {
	if classifier == nil {
		return nil, eris.New("pipeline: nil classifier")
	}
	if resolver == nil {
		return nil, eris.New("pipeline: nil resolver")
	}
	return &Pipeline{classifier: classifier, resolver: resolver}, nil
}

// Run executes the pipeline over the given invoices. It never errors on
// individual bad records; everything unresolvable surfaces on the result
// as skipped or needs-manual-entry.
func (p *Pipeline) Run(invoices []model.Invoice) (*Result, error) {
	start := time.Now()
	result := &Result{
		RunID:     uuid.NewString(),
		StartedAt: start,
		Stats: RunStats{
			TotalInvoices: len(invoices),
			SkipReasons:   make(map[model.SkipReason]int),
			TierCounts:    make(map[string]int),
			TierAmounts:   make(map[string]decimal.Decimal),
		},
	}

	zap.L().Info("pipeline run starting",
		zap.String("run_id", result.RunID),
		zap.Int("invoices", len(invoices)),
	)

	var sendable []model.Invoice
	for _, inv := range invoices {
		if reason := inv.SkipReason(); reason != "" {
			result.SkippedInv = append(result.SkippedInv, SkippedInvoice{Invoice: inv, Reason: reason})
			result.Stats.SkipReasons[reason]++
			zap.L().Debug("invoice skipped",
				zap.String("invoice", inv.InvoiceNumber),
				zap.String("retailer", inv.RetailerName),
				zap.String("reason", string(reason)))
			continue
		}
		sendable = append(sendable, inv)
	}
	result.Stats.Sendable = len(sendable)
	result.Stats.Skipped = len(result.SkippedInv)

	groups := GroupInvoices(sendable)
	result.Stats.Groups = len(groups)

	// The resolver regroups by normalized name, so two raw-name variants
	// of the same retailer share a single match, and the report's match
	// rate and histogram count every sendable invoice individually.
	result.Resolution = p.resolver.Resolve(sendable, true)

	matchByName := make(map[string]*resolve.MatchResult)
	for i := range result.Resolution.Matched {
		res := &result.Resolution.Matched[i]
		matchByName[resolve.NormalizeBasic(res.RetailerName)] = res
	}
	for i := range result.Resolution.Unmatched {
		res := &result.Resolution.Unmatched[i]
		matchByName[resolve.NormalizeBasic(res.RetailerName)] = res
	}

	for _, g := range groups {
		intent := p.buildIntent(g, matchByName[resolve.NormalizeBasic(g.RetailerName)])
		result.Intents = append(result.Intents, intent)

		if g.Multi() {
			result.Stats.MultiInvoice++
		}
		if intent.NeedsManualEntry() {
			result.Stats.NeedsManualEntry++
		} else {
			result.Stats.Resolved++
		}
		result.Stats.TierCounts[intent.TierLabel]++
		result.Stats.TierAmounts[intent.TierLabel] = result.Stats.TierAmounts[intent.TierLabel].Add(g.TotalAmount)
		result.Stats.TotalAmount = result.Stats.TotalAmount.Add(g.TotalAmount)
	}

	sort.SliceStable(result.Intents, func(i, j int) bool {
		return result.Intents[i].RetailerName < result.Intents[j].RetailerName
	})

	result.Duration = time.Since(start)
	zap.L().Info("pipeline run complete",
		zap.String("run_id", result.RunID),
		zap.Int("intents", len(result.Intents)),
		zap.Int("skipped", result.Stats.Skipped),
		zap.Int("needs_manual_entry", result.Stats.NeedsManualEntry),
		zap.Duration("duration", result.Duration),
	)

	return result, nil
}

// buildIntent assembles the email intent for one retailer group from its
// tier classification and match result. match may be nil when the
// resolver saw no representative for the group's normalized name; that
// is treated as unmatched.
func (p *Pipeline) buildIntent(g *Group, match *resolve.MatchResult) model.EmailIntent {
	cls := p.classifier.ClassifyInt(g.MaxDaysPastDue)

	intent := model.EmailIntent{
		RetailerName:   g.RetailerName,
		InvoiceNumbers: g.InvoiceNumbers,
		TierLabel:      cls.Label,
		Urgency:        string(cls.Urgency),
		Subject:        buildSubject(g.RetailerName, g.InvoiceNumbers, cls.SubjectLabel),
		MaxDaysPastDue: g.MaxDaysPastDue,
		TotalAmount:    g.TotalAmount,
		MultiInvoice:   g.Multi(),
		Cc:             p.resolver.BuildCC(g.SalesRep),
		ContactSource:  model.SourceManual,
	}

	if match == nil {
		intent.Notes = "No resolution result for retailer; manual review required"
		zap.L().Warn("group missing resolution result",
			zap.String("retailer", g.RetailerName))
		return intent
	}

	intent.To = match.ToEmails
	intent.ContactSource = match.ContactSource
	intent.Confidence = match.Confidence
	intent.MatchTier = string(match.MatchTier)
	intent.FuzzyScore = match.FuzzyScore
	intent.MatchedName = match.MatchedName
	intent.Notes = match.Notes
	intent.ResolutionChain = match.ResolutionChain
	if match.Contact != nil {
		intent.ContactName = match.Contact.ContactName
	}

	zap.L().Debug("email intent built",
		zap.String("retailer", g.RetailerName),
		zap.String("tier", cls.Label),
		zap.Int("days_past_due", g.MaxDaysPastDue),
		zap.String("amount", model.FormatAmount(g.TotalAmount)),
		zap.Strings("to", intent.To),
	)

	return intent
}

// buildSubject renders the outbound subject line, e.g.
// "PICC - HUB Dispensary - Nabis Invoice 12345 - Overdue" or
// "PICC - Seaweed RBNY - Nabis Invoices 111 & 112 - 40+ Days Past Due".
func buildSubject(retailer string, invoiceNumbers []string, subjectLabel string) string {
	return fmt.Sprintf("PICC - %s - %s - %s",
		retailer, formatInvoiceList(invoiceNumbers), subjectLabel)
}

func formatInvoiceList(numbers []string) string {
	switch len(numbers) {
	case 0:
		return "Nabis Invoice"
	case 1:
		return "Nabis Invoice " + numbers[0]
	case 2:
		return "Nabis Invoices " + numbers[0] + " & " + numbers[1]
	default:
		return "Nabis Invoices " + strings.Join(numbers[:len(numbers)-1], ", ") + " & " + numbers[len(numbers)-1]
	}
}
