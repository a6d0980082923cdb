package resolve

import (
	"fmt"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/picc-platform/collections-cli/internal/model"
)

// MatchTier identifies which rule of the matching cascade produced a
// contact match.
type MatchTier string

const (
	MatchExactLicenseExactName MatchTier = "exact_license_exact_name"
	MatchExactLicenseFuzzyName MatchTier = "exact_license_fuzzy_name"
	MatchExactLicenseOnly      MatchTier = "exact_license_only"
	MatchFuzzyNameOnly         MatchTier = "fuzzy_name_only"
	MatchNone                  MatchTier = "no_match"
)

// Fixed confidence scores, one per match tier, strictly decreasing with
// tier severity.
const (
	ConfidenceExactLicenseExactName = 1.00
	ConfidenceExactLicenseFuzzyName = 0.90
	ConfidenceExactLicenseOnly      = 0.80
	ConfidenceFuzzyNameOnly         = 0.60
	ConfidenceNoMatch               = 0.00
)

// DefaultFuzzyThreshold is the minimum similarity ratio for a fuzzy
// retailer-name match. Tuned against known drift: "HUB Dispensary." vs
// "HUB Dispensary" scores 1.0 after normalization; "The Travel Agency
// (SoHo)" vs "Travel Agency - SoHo" clears the bar on the aggressive
// pass.
const DefaultFuzzyThreshold = 0.70

// MatchResult is the outcome of resolving one retailer (or one invoice)
// against the contact directory.
type MatchResult struct {
	InvoiceNumbers []string
	RetailerName   string
	Contact        *model.Contact
	Confidence     float64
	MatchTier      MatchTier
	FuzzyScore     float64
	MatchedName    string
	Notes          string

	ToEmails        []string
	CcEmails        []string
	ContactSource   string
	ResolutionChain []model.AuditStep
}

// Report summarizes a batch resolution run.
type Report struct {
	Matched       []MatchResult
	Unmatched     []MatchResult
	TotalInvoices int
	MatchRate     float64
	// ConfidenceBuckets counts invoices (grouped invoices individually)
	// per fixed confidence value.
	ConfidenceBuckets map[string]int
}

// Confidence bucket keys, in display order.
var ConfidenceBucketOrder = []string{"100%", "90%", "80%", "60%", "0% (unmatched)"}

// Config carries the injected policy tables the resolver needs. Zero
// values select the documented defaults.
type Config struct {
	FuzzyThreshold float64
	BaseCC         []string
	RepEmails      map[string]string
	SourceTrust    map[string]TrustLevel
	// Parallelism bounds the worker count for batch resolution. Output
	// order stays deterministic regardless. <=1 means sequential.
	Parallelism int
}

type nameCandidate struct {
	raw      string
	norm     string
	contacts []*model.Contact
}

type brandARCandidate struct {
	raw     string
	norm    string
	contact model.BrandARContact
}

// Resolver matches invoices to retailer contacts using a five-tier
// priority cascade over license-number and name indexes. Indexes are
// built once at construction and read-only afterwards, so a single
// instance is reusable (but not safe for concurrent mutation).
type Resolver struct {
	cfg          Config
	licenseIndex map[string][]*model.Contact
	nameIndex    map[string][]*model.Contact
	candidates   []nameCandidate
	brandAR      []brandARCandidate
	sourceTrust  map[string]TrustLevel
}

// NewResolver indexes the contact directory. brandAR is the optional
// fallback directory consulted last in the recipient chain; nil is fine.
func NewResolver(contacts []model.Contact, brandAR []model.BrandARContact, cfg Config) (*Resolver, error) {
	if cfg.FuzzyThreshold == 0 {
		cfg.FuzzyThreshold = DefaultFuzzyThreshold
	}
	if cfg.FuzzyThreshold < 0 || cfg.FuzzyThreshold > 1 {
		return nil, eris.Errorf("resolve: fuzzy threshold %.2f out of range (0, 1]", cfg.FuzzyThreshold)
	}

	r := &Resolver{
		cfg:          cfg,
		licenseIndex: make(map[string][]*model.Contact),
		nameIndex:    make(map[string][]*model.Contact),
		sourceTrust:  cfg.SourceTrust,
	}
	if r.sourceTrust == nil {
		r.sourceTrust = DefaultSourceTrust()
	}

	for i := range contacts {
		c := &contacts[i]

		if key, ok := licenseKey(c.LicenseNumber); ok {
			r.licenseIndex[key] = append(r.licenseIndex[key], c)
		}

		name := strings.TrimSpace(c.RetailerName)
		if name == "" {
			continue
		}
		norm := NormalizeBasic(name)
		r.nameIndex[norm] = append(r.nameIndex[norm], c)
		r.candidates = append(r.candidates, nameCandidate{
			raw:      name,
			norm:     norm,
			contacts: []*model.Contact{c},
		})
	}

	for _, ar := range brandAR {
		r.brandAR = append(r.brandAR, brandARCandidate{
			raw:     ar.RetailerName,
			norm:    NormalizeBasic(ar.RetailerName),
			contact: ar,
		})
	}

	zap.L().Info("resolver initialized",
		zap.Int("contacts", len(contacts)),
		zap.Int("license_keys", len(r.licenseIndex)),
		zap.Int("name_keys", len(r.nameIndex)),
		zap.Int("brand_ar_contacts", len(r.brandAR)),
	)

	return r, nil
}

// licenseKey normalizes a license number for indexing. Blank and
// placeholder values are excluded from the index entirely.
func licenseKey(raw string) (string, bool) {
	key := strings.ToUpper(strings.TrimSpace(raw))
	switch key {
	case "", "#N/A", "N/A", "NONE":
		return "", false
	}
	return key, true
}

// MatchInvoice resolves a single invoice through the cascade:
//  1. Exact license + exact name   (1.00)
//  2. Exact license + fuzzy name   (0.90)
//  3. Exact license only           (0.80)
//  4. Exact/fuzzy name, no license (0.60)
//  5. No match                     (0.00)
func (r *Resolver) MatchInvoice(inv model.Invoice) MatchResult {
	location := strings.TrimSpace(inv.RetailerName)
	result := MatchResult{
		InvoiceNumbers: []string{inv.InvoiceNumber},
		RetailerName:   location,
		MatchTier:      MatchNone,
	}

	license := strings.TrimSpace(inv.LicenseNumber)
	if location == "" && license == "" {
		result.Notes = "Invoice has no retailer name and no license number"
		zap.L().Warn("invoice cannot be matched",
			zap.String("invoice", inv.InvoiceNumber))
		return result
	}

	licKey, hasLicense := licenseKey(license)
	nameKey := NormalizeBasic(location)

	if hasLicense {
		if contacts, ok := r.licenseIndex[licKey]; ok {
			if done := r.matchByLicense(&result, inv, contacts, license, location, nameKey); done {
				return result
			}
		}
	}

	if nameKey != "" {
		if done := r.matchByName(&result, inv, license, location, nameKey, hasLicense); done {
			return result
		}
	}

	// Tier 5: no match. Surface the closest near-miss for triage.
	hint := ""
	if nameKey != "" {
		best := 0.0
		for _, cand := range r.candidates {
			if score := Similarity(location, cand.raw); score > best {
				best = score
				hint = fmt.Sprintf(" (closest: '%s' at %.3f)", cand.raw, score)
			}
		}
	}
	withLicense := ""
	if hasLicense {
		withLicense = fmt.Sprintf(" with license %s", license)
	}
	result.Notes = fmt.Sprintf("No match found for '%s'%s%s. Flagged for manual review.",
		location, withLicense, hint)
	zap.L().Warn("no contact match",
		zap.String("invoice", inv.InvoiceNumber),
		zap.String("retailer", location),
		zap.String("license", license),
	)
	return result
}

// matchByLicense runs cascade tiers 1-3 against the contacts indexed
// under the invoice's license. Returns true when the result is final.
func (r *Resolver) matchByLicense(result *MatchResult, inv model.Invoice, contacts []*model.Contact, license, location, nameKey string) bool {
	// Tier 1: exact license + exact name.
	for _, c := range contacts {
		if NormalizeBasic(c.RetailerName) == nameKey {
			result.Contact = c
			result.Confidence = ConfidenceExactLicenseExactName
			result.MatchTier = MatchExactLicenseExactName
			result.FuzzyScore = 1.0
			result.MatchedName = c.RetailerName
			result.Notes = fmt.Sprintf("Exact match on license '%s' and retailer name '%s'", license, location)
			zap.L().Debug("tier 1 match",
				zap.String("invoice", inv.InvoiceNumber),
				zap.String("matched", c.RetailerName))
			return true
		}
	}

	// Tier 2: exact license + fuzzy name.
	var best *model.Contact
	bestScore := 0.0
	bestName := ""
	for _, c := range contacts {
		if score := Similarity(location, c.RetailerName); score > bestScore {
			bestScore = score
			best = c
			bestName = c.RetailerName
		}
	}
	if best != nil && bestScore >= r.cfg.FuzzyThreshold {
		result.Contact = best
		result.Confidence = ConfidenceExactLicenseFuzzyName
		result.MatchTier = MatchExactLicenseFuzzyName
		result.FuzzyScore = bestScore
		result.MatchedName = bestName
		result.Notes = fmt.Sprintf(
			"License '%s' exact match; retailer name fuzzy match '%s' -> '%s' (score: %.3f)",
			license, location, bestName, bestScore)
		zap.L().Debug("tier 2 match",
			zap.String("invoice", inv.InvoiceNumber),
			zap.String("matched", bestName),
			zap.Float64("score", bestScore))
		return true
	}

	// Tier 3: license match alone; pick the best AR contact under it.
	if primary := selectPrimaryContact(contacts); primary != nil {
		result.Contact = primary
		result.Confidence = ConfidenceExactLicenseOnly
		result.MatchTier = MatchExactLicenseOnly
		result.MatchedName = primary.RetailerName
		result.Notes = fmt.Sprintf(
			"License '%s' matched but retailer name '%s' did not match any contact name for this license (best was '%s' at %.3f). Using license match only.",
			license, location, bestName, bestScore)
		zap.L().Info("tier 3 match",
			zap.String("invoice", inv.InvoiceNumber),
			zap.String("matched", primary.RetailerName))
		return true
	}
	return false
}

// matchByName runs cascade tier 4: exact basic-normalized name lookup,
// then a full fuzzy scan of the directory. Returns true when final.
func (r *Resolver) matchByName(result *MatchResult, inv model.Invoice, license, location, nameKey string, hasLicense bool) bool {
	licenseNote := "no license number available"
	if hasLicense {
		licenseNote = fmt.Sprintf("license '%s' not found in contacts directory", license)
	}

	if contacts, ok := r.nameIndex[nameKey]; ok {
		if primary := selectPrimaryContact(contacts); primary != nil {
			result.Contact = primary
			result.Confidence = ConfidenceFuzzyNameOnly
			result.MatchTier = MatchFuzzyNameOnly
			result.FuzzyScore = 1.0
			result.MatchedName = primary.RetailerName
			result.Notes = fmt.Sprintf("Exact retailer name match '%s'; %s", location, licenseNote)
			zap.L().Debug("tier 4 exact-name match",
				zap.String("invoice", inv.InvoiceNumber),
				zap.String("matched", primary.RetailerName))
			return true
		}
	}

	bestScore := 0.0
	var bestContacts []*model.Contact
	bestName := ""
	for _, cand := range r.candidates {
		if score := Similarity(location, cand.raw); score > bestScore {
			bestScore = score
			bestContacts = cand.contacts
			bestName = cand.raw
		}
	}
	if bestScore >= r.cfg.FuzzyThreshold && len(bestContacts) > 0 {
		if primary := selectPrimaryContact(bestContacts); primary != nil {
			result.Contact = primary
			result.Confidence = ConfidenceFuzzyNameOnly
			result.MatchTier = MatchFuzzyNameOnly
			result.FuzzyScore = bestScore
			result.MatchedName = bestName
			result.Notes = fmt.Sprintf(
				"Fuzzy retailer name match '%s' -> '%s' (score: %.3f); %s",
				location, bestName, bestScore, licenseNote)
			zap.L().Info("tier 4 fuzzy match",
				zap.String("invoice", inv.InvoiceNumber),
				zap.String("matched", bestName),
				zap.Float64("score", bestScore))
			return true
		}
	}
	return false
}

// selectPrimaryContact picks one contact when several share a license
// or name: highest AR-relevance score wins, ties keep directory order.
func selectPrimaryContact(contacts []*model.Contact) *model.Contact {
	if len(contacts) == 0 {
		return nil
	}
	best := contacts[0]
	bestScore := arRelevanceScore(best)
	for _, c := range contacts[1:] {
		if score := arRelevanceScore(c); score > bestScore {
			best = c
			bestScore = score
		}
	}
	return best
}

// arRelevanceScore ranks a contact's usefulness for collections email
// by title/role keywords.
func arRelevanceScore(c *model.Contact) int {
	combined := strings.ToLower(c.ContactName + " " + c.Role)
	switch {
	case strings.Contains(combined, "(ap)") || strings.Contains(combined, "accounts payable"):
		return 100
	case strings.Contains(combined, "accounting") || strings.Contains(combined, "invoic"):
		return 90
	case strings.Contains(combined, "finance") || strings.Contains(combined, "billing"):
		return 80
	case strings.Contains(combined, "owner"):
		return 50
	case strings.Contains(combined, "manager") || strings.Contains(combined, "gm"):
		return 40
	default:
		return 10
	}
}

// Resolve matches a batch of invoices and applies the recipient chain
// to every result. With groupByRetailer (the pipeline default), invoices
// sharing a basic-normalized retailer name produce a single MatchResult
// covering all of them. Output order is deterministic with respect to
// input order, including under parallel resolution.
func (r *Resolver) Resolve(invoices []model.Invoice, groupByRetailer bool) *Report {
	report := &Report{
		TotalInvoices:     len(invoices),
		ConfidenceBuckets: make(map[string]int, len(ConfidenceBucketOrder)),
	}
	for _, bucket := range ConfidenceBucketOrder {
		report.ConfidenceBuckets[bucket] = 0
	}

	var results []MatchResult
	if groupByRetailer {
		results = r.resolveGrouped(invoices)
	} else {
		results = r.resolveEach(invoices)
	}

	for i := range results {
		r.ResolveRecipients(&results[i])
	}

	totalMatched := 0
	for _, res := range results {
		count := len(res.InvoiceNumbers)
		report.ConfidenceBuckets[confidenceBucket(res.Confidence)] += count
		if res.MatchTier == MatchNone {
			report.Unmatched = append(report.Unmatched, res)
			continue
		}
		report.Matched = append(report.Matched, res)
		totalMatched += count
	}
	if report.TotalInvoices > 0 {
		report.MatchRate = float64(totalMatched) / float64(report.TotalInvoices)
	}

	zap.L().Info("contact resolution complete",
		zap.Int("matched_groups", len(report.Matched)),
		zap.Int("unmatched_groups", len(report.Unmatched)),
		zap.Float64("match_rate", report.MatchRate),
	)

	return report
}

func confidenceBucket(confidence float64) string {
	switch {
	case confidence >= ConfidenceExactLicenseExactName:
		return "100%"
	case confidence >= ConfidenceExactLicenseFuzzyName:
		return "90%"
	case confidence >= ConfidenceExactLicenseOnly:
		return "80%"
	case confidence >= ConfidenceFuzzyNameOnly:
		return "60%"
	default:
		return "0% (unmatched)"
	}
}

// resolveEach matches every invoice independently.
func (r *Resolver) resolveEach(invoices []model.Invoice) []MatchResult {
	results := make([]MatchResult, len(invoices))
	r.forEach(len(invoices), func(i int) {
		results[i] = r.MatchInvoice(invoices[i])
		results[i].CcEmails = r.BuildCC(invoices[i].SalesRep)
	})
	return results
}

// resolveGrouped groups invoices by normalized retailer name first, so
// a multi-invoice retailer is matched once and its result lists every
// invoice number. The first invoice of each group is the match
// representative; the group keeps its raw name for display.
func (r *Resolver) resolveGrouped(invoices []model.Invoice) []MatchResult {
	type group struct {
		representative model.Invoice
		raw            string
		numbers        []string
	}
	var order []string
	groups := make(map[string]*group)

	for _, inv := range invoices {
		raw := strings.TrimSpace(inv.RetailerName)
		key := NormalizeBasic(raw)
		g, ok := groups[key]
		if !ok {
			g = &group{representative: inv, raw: raw}
			groups[key] = g
			order = append(order, key)
		}
		g.numbers = append(g.numbers, inv.InvoiceNumber)
	}

	results := make([]MatchResult, len(order))
	r.forEach(len(order), func(i int) {
		g := groups[order[i]]
		res := r.MatchInvoice(g.representative)
		res.InvoiceNumbers = g.numbers
		res.RetailerName = g.raw
		res.CcEmails = r.BuildCC(g.representative.SalesRep)
		if len(g.numbers) > 1 {
			res.Notes += fmt.Sprintf(" [Multi-invoice: %d invoices for this retailer]", len(g.numbers))
		}
		results[i] = res
	})
	return results
}

// forEach runs fn over [0, n), sequentially or with a bounded worker
// pool. Matching is pure, so index-stable writes keep output identical
// either way.
func (r *Resolver) forEach(n int, fn func(i int)) {
	if r.cfg.Parallelism <= 1 || n < 2 {
		for i := 0; i < n; i++ {
			fn(i)
		}
		return
	}
	var g errgroup.Group
	g.SetLimit(r.cfg.Parallelism)
	for i := 0; i < n; i++ {
		i := i
		g.Go(func() error {
			fn(i)
			return nil
		})
	}
	_ = g.Wait()
}
