package model

import "strings"

// AssociatedContact is one entry from a contact record's multi-valued
// contact list. Source is the label of the system the entry came from
// ("Nabis Import", "Revelry Buyers List", ...); it drives trust ranking
// during recipient resolution.
type AssociatedContact struct {
	Name   string `json:"name,omitempty"`
	Title  string `json:"title,omitempty"`
	Email  string `json:"email,omitempty"`
	Phone  string `json:"phone,omitempty"`
	Source string `json:"source,omitempty"`
}

// Contact is one retailer contact-directory record. The directory may
// carry multiple rows per retailer; this layer does not deduplicate.
type Contact struct {
	RetailerName  string `json:"retailer_name"`
	LicenseNumber string `json:"license_number,omitempty"`

	Email       string `json:"email,omitempty"`
	Phone       string `json:"phone,omitempty"`
	ContactName string `json:"contact_name,omitempty"`
	Role        string `json:"role,omitempty"`

	AllEmails   []string            `json:"all_emails,omitempty"`
	AllPhones   []string            `json:"all_phones,omitempty"`
	AllContacts []AssociatedContact `json:"all_contacts,omitempty"`

	AccountManager      string `json:"account_manager,omitempty"`
	AccountManagerPhone string `json:"account_manager_phone,omitempty"`
}

// HasEmail reports whether at least one email address is available.
func (c Contact) HasEmail() bool {
	return c.Email != "" || len(c.AllEmails) > 0
}

// FirstName extracts the first name of the primary contact for
// greetings. "Janti Eisakharian - Owner" yields "Janti".
func (c Contact) FirstName() string {
	name := strings.TrimSpace(c.ContactName)
	if name == "" {
		return ""
	}
	return strings.Fields(name)[0]
}

// BrandARContact is one record of the optional brand-level fallback
// directory, keyed by retailer name and consulted only when the main
// directory yields no usable email.
type BrandARContact struct {
	RetailerName string   `json:"retailer_name"`
	POCEmails    []string `json:"poc_emails,omitempty"`
}
