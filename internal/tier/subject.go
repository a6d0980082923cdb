package tier

import "fmt"

// SubjectLabel returns the dynamic subject-line bucket for a day count:
// "Coming Due" at or before the due date, "Overdue" through day 29, and
// a floor-to-ten bucket beyond that (47 days -> "40+ Days Past Due").
// Independent of the tier scheme so subject composition always has it.
func SubjectLabel(daysPastDue int) string {
	if daysPastDue <= 0 {
		return "Coming Due"
	}
	if daysPastDue <= 29 {
		return "Overdue"
	}
	bucket := (daysPastDue / 10) * 10
	return fmt.Sprintf("%d+ Days Past Due", bucket)
}

// OverduePhrase returns a short natural-language description of how far
// past due a 1-29 day invoice is, for email body composition. Beyond 29
// days it falls back to an "over N weeks" phrase; at or before the due
// date it returns an empty string.
func OverduePhrase(daysPastDue int) string {
	switch {
	case daysPastDue < 1:
		return ""
	case daysPastDue <= 3:
		return "now past due"
	case daysPastDue <= 10:
		return "over a week past due"
	case daysPastDue <= 13:
		return "nearing two weeks past due"
	case daysPastDue <= 20:
		return "over two weeks past due"
	case daysPastDue <= 27:
		return "over three weeks past due"
	case daysPastDue <= 29:
		return "nearing a month past due"
	default:
		return fmt.Sprintf("over %d weeks past due", daysPastDue/7)
	}
}
