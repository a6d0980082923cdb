package resolve

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/picc-platform/collections-cli/internal/model"
)

// TrustLevel grades how reliable an associated contact's source list
// is for direct outreach.
type TrustLevel string

const (
	TrustHigh   TrustLevel = "high"
	TrustMedium TrustLevel = "medium"
	TrustLow    TrustLevel = "low"
)

// DefaultSourceTrust maps contact source labels (lowercased) to trust.
// Unlisted sources are treated as medium.
func DefaultSourceTrust() map[string]TrustLevel {
	return map[string]TrustLevel{
		"nabis import":                  TrustHigh,
		"nabis poc":                     TrustHigh,
		"crm contact":                   TrustHigh,
		"nabis order, point of contact": TrustHigh,
		"revelry buyers list":           TrustLow,
		"revelry":                       TrustLow,
	}
}

// DefaultBaseCC is the CC list every outbound collections email carries
// before rep and extra addresses are added.
func DefaultBaseCC() []string {
	return []string{
		"ny.ar@nabis.com",
		"martinm@piccplatform.com",
		"mario@piccplatform.com",
		"laura@piccplatform.com",
	}
}

// DefaultRepEmails maps sales-rep display names (as they appear on the
// aging report) to rep CC addresses.
func DefaultRepEmails() map[string]string {
	return map[string]string{
		"Ben":      "b.rosenthal@piccplatform.com",
		"Bryce J":  "bryce@piccplatform.com",
		"Donovan":  "donovan@piccplatform.com",
		"Eric":     "eric@piccplatform.com",
		"M Martin": "martinm@piccplatform.com",
		"Mario":    "mario@piccplatform.com",
		"Matt M":   "matt@piccplatform.com",
	}
}

func (r *Resolver) trustFor(source string) TrustLevel {
	if level, ok := r.sourceTrust[strings.ToLower(strings.TrimSpace(source))]; ok {
		return level
	}
	return TrustMedium
}

// ResolveRecipients fills in ToEmails, ContactSource, and the audit
// chain on a match result, walking the recipient priority chain:
//
//  1. matched contact's primary email
//  2. billing / accounts-payable signals among associated contacts and
//     the raw address list
//  3. associated contacts from trusted sources
//  4. associated contacts from low-trust sources
//  5. the raw address list (medium trust), when no labeled contact
//     carries an email
//  6. brand AR summary fallback directory
//  7. manual entry required
//
// Steps 1 and 2 combine: billing addresses join the primary address on
// the TO line rather than replacing it.
func (r *Resolver) ResolveRecipients(res *MatchResult) {
	chain := &res.ResolutionChain

	if res.Contact != nil {
		c := res.Contact
		var to []string

		if c.Email != "" {
			to = append(to, c.Email)
			*chain = append(*chain, model.AuditStep{
				Step:   "primary_email",
				Detail: fmt.Sprintf("Primary contact email %s", c.Email),
			})
		} else {
			*chain = append(*chain, model.AuditStep{
				Step:   "primary_email",
				Detail: "No primary email on matched contact",
			})
		}

		billing := findBillingContacts(c.AllContacts)
		for _, ac := range billing {
			to = append(to, ac.Email)
			*chain = append(*chain, model.AuditStep{
				Step:   "billing_contact",
				Detail: fmt.Sprintf("Billing/AP contact %s <%s> (source: %s)", ac.Name, ac.Email, ac.Source),
			})
		}
		for _, e := range billingAddresses(c.AllEmails) {
			to = append(to, e)
			*chain = append(*chain, model.AuditStep{
				Step:   "billing_contact",
				Detail: fmt.Sprintf("Billing/AP address %s from contact address list", e),
			})
		}

		if len(to) == 0 {
			trusted, lowTrust := r.partitionByTrust(c.AllContacts)
			switch {
			case len(trusted) > 0:
				for _, ac := range trusted {
					to = append(to, ac.Email)
				}
				*chain = append(*chain, model.AuditStep{
					Step:   "trusted_associated",
					Detail: fmt.Sprintf("%d associated contact(s) from trusted sources", len(trusted)),
				})
			case len(lowTrust) > 0:
				*chain = append(*chain, model.AuditStep{
					Step:   "low_trust_associated",
					Detail: fmt.Sprintf("%d associated contact(s) from low-trust sources; verify before sending", len(lowTrust)),
				})
				for _, ac := range lowTrust {
					to = append(to, ac.Email)
				}
			case len(c.AllEmails) > 0:
				to = append(to, c.AllEmails...)
				*chain = append(*chain, model.AuditStep{
					Step:   "all_emails",
					Detail: fmt.Sprintf("%d address(es) from the contact's address list; no labeled contact carries an email", len(c.AllEmails)),
				})
			}
		}

		if len(to) > 0 {
			res.ToEmails = dedupeEmails(to)
			res.ContactSource = model.SourceManagersSheet
			return
		}
	}

	// Fall back to the brand AR summary directory, matched by the same
	// normalize-then-fuzzy logic as the main cascade.
	if ar, matchedName, score, ok := r.lookupBrandAR(res.RetailerName); ok {
		res.ToEmails = dedupeEmails(ar.POCEmails)
		res.ContactSource = model.SourceBrandARSummary
		*chain = append(*chain, model.AuditStep{
			Step:   "brand_ar_summary",
			Detail: fmt.Sprintf("Brand AR summary POC(s) for '%s' (score: %.3f)", matchedName, score),
		})
		zap.L().Info("recipient from brand AR summary",
			zap.String("retailer", res.RetailerName),
			zap.String("matched", matchedName))
		return
	}

	res.ContactSource = model.SourceManual
	*chain = append(*chain, model.AuditStep{
		Step:   "manual_entry",
		Detail: "No usable email found through any source; manual entry required",
	})
	zap.L().Warn("manual recipient entry required",
		zap.String("retailer", res.RetailerName))
}

var billingEmailPrefixes = []string{"ap@", "accounting@", "invoices@", "billing@"}

// findBillingContacts returns associated contacts whose name, title, or
// email marks them as billing / accounts-payable. Order preserved.
func findBillingContacts(contacts []model.AssociatedContact) []model.AssociatedContact {
	keywords := []string{"accounts payable", "billing", "accounting", "finance", "invoic"}

	var out []model.AssociatedContact
	for _, ac := range contacts {
		if ac.Email == "" {
			continue
		}
		text := strings.ToLower(ac.Name + " " + ac.Title)
		match := hasAPToken(text)
		if !match {
			for _, kw := range keywords {
				if strings.Contains(text, kw) {
					match = true
					break
				}
			}
		}
		if !match && isBillingAddress(ac.Email) {
			match = true
		}
		if match {
			out = append(out, ac)
		}
	}
	return out
}

// billingAddresses filters a raw address list down to entries matching
// the billing/AP mailbox patterns.
func billingAddresses(emails []string) []string {
	var out []string
	for _, e := range emails {
		if isBillingAddress(e) {
			out = append(out, e)
		}
	}
	return out
}

func isBillingAddress(email string) bool {
	email = strings.ToLower(strings.TrimSpace(email))
	for _, p := range billingEmailPrefixes {
		if strings.HasPrefix(email, p) {
			return true
		}
	}
	return false
}

// hasAPToken matches "ap" as a standalone word or "(ap)"; substring
// matching would false-positive on ordinary names.
func hasAPToken(text string) bool {
	for _, f := range strings.FieldsFunc(text, func(r rune) bool {
		return r == ' ' || r == '(' || r == ')' || r == '-' || r == '/'
	}) {
		if f == "ap" {
			return true
		}
	}
	return false
}

func (r *Resolver) partitionByTrust(contacts []model.AssociatedContact) (trusted, lowTrust []model.AssociatedContact) {
	for _, ac := range contacts {
		if ac.Email == "" {
			continue
		}
		switch r.trustFor(ac.Source) {
		case TrustLow:
			lowTrust = append(lowTrust, ac)
		default:
			trusted = append(trusted, ac)
		}
	}
	return trusted, lowTrust
}

// lookupBrandAR finds a brand AR summary entry by exact normalized name
// first, then fuzzy match at or above the configured threshold.
func (r *Resolver) lookupBrandAR(retailerName string) (model.BrandARContact, string, float64, bool) {
	if len(r.brandAR) == 0 {
		return model.BrandARContact{}, "", 0, false
	}
	key := NormalizeBasic(retailerName)
	for _, cand := range r.brandAR {
		if cand.norm == key && len(cand.contact.POCEmails) > 0 {
			return cand.contact, cand.raw, 1.0, true
		}
	}

	bestScore := 0.0
	var best *brandARCandidate
	for i := range r.brandAR {
		cand := &r.brandAR[i]
		if len(cand.contact.POCEmails) == 0 {
			continue
		}
		if score := Similarity(retailerName, cand.raw); score > bestScore {
			bestScore = score
			best = cand
		}
	}
	if best != nil && bestScore >= r.cfg.FuzzyThreshold {
		return best.contact, best.raw, bestScore, true
	}
	return model.BrandARContact{}, "", 0, false
}

// BuildCC assembles the CC list for one email: base list, then the
// sales rep's address when the rep is recognized, then any extras.
// Unresolved template placeholders (addresses containing '{') are
// dropped, and the final list is deduplicated case-insensitively with
// first-seen order and casing preserved.
func (r *Resolver) BuildCC(salesRep string, extras ...string) []string {
	base := r.cfg.BaseCC
	if base == nil {
		base = DefaultBaseCC()
	}
	reps := r.cfg.RepEmails
	if reps == nil {
		reps = DefaultRepEmails()
	}

	cc := make([]string, 0, len(base)+1+len(extras))
	cc = append(cc, base...)
	rep := strings.TrimSpace(salesRep)
	if addr, ok := reps[rep]; ok {
		cc = append(cc, addr)
	} else if rep != "" {
		zap.L().Debug("no CC address for sales rep", zap.String("rep", rep))
	}
	cc = append(cc, extras...)

	filtered := cc[:0]
	for _, addr := range cc {
		if strings.Contains(addr, "{") {
			continue
		}
		filtered = append(filtered, addr)
	}
	return dedupeEmails(filtered)
}

// dedupeEmails removes duplicates case-insensitively, keeping first-seen
// order and casing. Blank entries are dropped.
func dedupeEmails(emails []string) []string {
	seen := make(map[string]struct{}, len(emails))
	out := make([]string, 0, len(emails))
	for _, e := range emails {
		e = strings.TrimSpace(e)
		if e == "" {
			continue
		}
		key := strings.ToLower(e)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, e)
	}
	return out
}
