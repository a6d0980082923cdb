package tier

import (
	"math"

	"github.com/rotisserie/eris"
)

// Urgency classifies how aggressively a band is worked.
type Urgency string

const (
	UrgencyLow      Urgency = "low"
	UrgencyModerate Urgency = "moderate"
	UrgencyHigh     Urgency = "high"
	UrgencyCritical Urgency = "critical"
	UrgencySevere   Urgency = "severe"
)

// DefaultOCMDeadlineDays is the regulatory deadline: past-due accounts
// must be reported to the Office of Cannabis Management at 52 days.
const DefaultOCMDeadlineDays = 52

// unbounded marks a band with no upper day limit.
const unbounded = math.MaxInt32

// Band is one escalation tier expressed as data: an inclusive day range
// plus the metadata the email layer needs. Tier schemes are ordered
// lists of bands, so the 3-tier and 5-tier ladders are both expressible
// without code changes.
type Band struct {
	MinDays        int     `mapstructure:"min_days"`
	MaxDays        int     `mapstructure:"max_days"`
	Label          string  `mapstructure:"label"`
	Urgency        Urgency `mapstructure:"urgency"`
	Template       string  `mapstructure:"template"`
	OCMWarning     bool    `mapstructure:"ocm_warning"`
	IncludeNabisAM bool    `mapstructure:"include_nabis_am"`
	FollowUp       string  `mapstructure:"follow_up"`
}

// contains reports whether days falls inside the band's inclusive range.
func (b Band) contains(days int) bool {
	return days >= b.MinDays && days <= b.MaxDays
}

// Scheme is a named, ordered tier ladder. Bands must be contiguous,
// total over the integers, and ordered by ascending MinDays.
type Scheme struct {
	Name  string
	Bands []Band
}

// ThreeTier returns the consolidated ladder: Coming Due / Overdue /
// 30+ Days Past Due. This is the default scheme of record.
func ThreeTier() Scheme {
	return Scheme{
		Name: "three_tier",
		Bands: []Band{
			{
				MinDays:  math.MinInt32,
				MaxDays:  0,
				Label:    "Coming Due",
				Urgency:  UrgencyLow,
				Template: "coming_due",
				FollowUp: "None required. Monitor for payment after due date.",
			},
			{
				MinDays:  1,
				MaxDays:  29,
				Label:    "Overdue",
				Urgency:  UrgencyModerate,
				Template: "overdue",
				FollowUp: "Monitor. Follow up manually if no response within 7 days.",
			},
			{
				MinDays:        30,
				MaxDays:        unbounded,
				Label:          "30+ Days Past Due",
				Urgency:        UrgencyHigh,
				Template:       "past_due_30",
				OCMWarning:     true,
				IncludeNabisAM: true,
				FollowUp:       "Ensure Nabis AM is engaged. Verify correct contact info.",
			},
		},
	}
}

// FiveTier returns the earlier ladder that kept 40+ and 50+ as distinct
// urgency levels.
func FiveTier() Scheme {
	return Scheme{
		Name: "five_tier",
		Bands: []Band{
			{
				MinDays:  math.MinInt32,
				MaxDays:  0,
				Label:    "Coming Due",
				Urgency:  UrgencyLow,
				Template: "coming_due",
				FollowUp: "None required. Monitor for payment after due date.",
			},
			{
				MinDays:  1,
				MaxDays:  29,
				Label:    "Overdue",
				Urgency:  UrgencyModerate,
				Template: "overdue",
				FollowUp: "Monitor. Follow up manually if no response within 7 days.",
			},
			{
				MinDays:        30,
				MaxDays:        39,
				Label:          "30+ Days Past Due",
				Urgency:        UrgencyHigh,
				Template:       "past_due_30",
				OCMWarning:     true,
				IncludeNabisAM: true,
				FollowUp:       "Ensure Nabis AM is engaged. Verify correct contact info.",
			},
			{
				MinDays:        40,
				MaxDays:        49,
				Label:          "40+ Days Past Due",
				Urgency:        UrgencyCritical,
				Template:       "past_due_40",
				OCMWarning:     true,
				IncludeNabisAM: true,
				FollowUp:       "Escalate to senior staff. Nabis OCM notification imminent.",
			},
			{
				MinDays:        50,
				MaxDays:        unbounded,
				Label:          "50+ Days Past Due",
				Urgency:        UrgencySevere,
				Template:       "past_due_50",
				OCMWarning:     true,
				IncludeNabisAM: true,
				FollowUp:       "OCM reporting deadline reached or imminent. Call, do not just email.",
			},
		},
	}
}

// SchemeByName resolves a configured preset name.
func SchemeByName(name string) (Scheme, error) {
	switch name {
	case "", "three_tier":
		return ThreeTier(), nil
	case "five_tier":
		return FiveTier(), nil
	default:
		return Scheme{}, eris.Errorf("tier: unknown scheme %q", name)
	}
}

// Validate checks that the bands cover the integers exactly once:
// ordered, contiguous, starting unbounded-below and ending
// unbounded-above.
func (s Scheme) Validate() error {
	if len(s.Bands) == 0 {
		return eris.New("tier: scheme has no bands")
	}
	if s.Bands[0].MinDays != math.MinInt32 {
		return eris.Errorf("tier: scheme %s: first band must be unbounded below", s.Name)
	}
	if s.Bands[len(s.Bands)-1].MaxDays != unbounded {
		return eris.Errorf("tier: scheme %s: last band must be unbounded above", s.Name)
	}
	for i := 1; i < len(s.Bands); i++ {
		prev, cur := s.Bands[i-1], s.Bands[i]
		if cur.MinDays != prev.MaxDays+1 {
			return eris.Errorf(
				"tier: scheme %s: gap or overlap between %q (max %d) and %q (min %d)",
				s.Name, prev.Label, prev.MaxDays, cur.Label, cur.MinDays,
			)
		}
	}
	return nil
}

// band returns the band containing days. Band bounds are int32 anchors,
// so 64-bit inputs beyond them clamp to the nearest end of the ladder.
func (s Scheme) band(days int) Band {
	for _, b := range s.Bands {
		if b.contains(days) {
			return b
		}
	}
	if days < s.Bands[0].MinDays {
		return s.Bands[0]
	}
	return s.Bands[len(s.Bands)-1]
}

// Classification is the full result of classifying one days-past-due
// value. OCM fields are only set for positive day counts.
type Classification struct {
	Band            Band
	Label           string
	Urgency         Urgency
	SubjectLabel    string
	DaysPastDue     int
	OCMWarning      bool
	DaysUntilOCM    *int
	PastOCMDeadline bool
	InputWasNull    bool
}

// Classifier assigns escalation tiers from days-past-due values. It is
// pure and total: every integer input (and absent input) classifies.
type Classifier struct {
	scheme      Scheme
	ocmDeadline int
}

// NewClassifier builds a classifier for the given scheme. A zero
// ocmDeadline selects the default 52-day deadline.
func NewClassifier(scheme Scheme, ocmDeadline int) (*Classifier, error) {
	if err := scheme.Validate(); err != nil {
		return nil, err
	}
	if ocmDeadline <= 0 {
		ocmDeadline = DefaultOCMDeadlineDays
	}
	return &Classifier{scheme: scheme, ocmDeadline: ocmDeadline}, nil
}

// Scheme returns the classifier's tier scheme.
func (c *Classifier) Scheme() Scheme { return c.scheme }

// Classify classifies a possibly-absent days-past-due value. A nil
// input is treated as 0 (not yet due) and flagged InputWasNull.
func (c *Classifier) Classify(days *int) Classification {
	if days == nil {
		result := c.ClassifyInt(0)
		result.InputWasNull = true
		return result
	}
	return c.ClassifyInt(*days)
}

// ClassifyFloat classifies a float day count; NaN is treated as absent.
func (c *Classifier) ClassifyFloat(days float64) Classification {
	if math.IsNaN(days) {
		return c.Classify(nil)
	}
	d := int(days)
	return c.ClassifyInt(d)
}

// ClassifyInt classifies an integer day count.
func (c *Classifier) ClassifyInt(days int) Classification {
	b := c.scheme.band(days)

	result := Classification{
		Band:         b,
		Label:        b.Label,
		Urgency:      b.Urgency,
		SubjectLabel: SubjectLabel(days),
		DaysPastDue:  days,
		OCMWarning:   b.OCMWarning,
	}

	if days > 0 {
		remaining := c.ocmDeadline - days
		if remaining < 0 {
			remaining = 0
		}
		result.DaysUntilOCM = &remaining
		result.PastOCMDeadline = days >= c.ocmDeadline
	}

	return result
}
