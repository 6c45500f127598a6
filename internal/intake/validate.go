// Package intake implements the inquiry intake pipeline: field-scoped
// validation, spam and priority scoring, persistence, and the two
// notification sends that follow a successful save.
package intake

import (
	"errors"
	"regexp"
	"strings"
	"unicode"

	"cascade/internal/domain"
)

// ErrSpamDetected is returned when the hidden trap field arrives populated.
// It short-circuits validation: no other checks run and nothing is reported
// back per field.
var ErrSpamDetected = errors.New("spam detected")

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// Domains of throwaway inboxes rejected outright at validation time
var disposableEmailDomains = []string{
	"tempmail.com", "throwaway.email", "10minutemail.com",
	"guerrillamail.com", "mailinator.com",
}

// Keywords that hard-reject a description for any inquiry variant
var baseSpamKeywords = []string{"viagra", "casino", "lottery", "porn", "xxx"}

// Extra keywords rejected for service inquiries only
var serviceSpamKeywords = []string{"bitcoin", "crypto", "dating", "hookup", "pills"}

// Link shorteners rejected in reference URLs
var urlShorteners = []string{"bit.ly", "tinyurl", "goo.gl"}

var contactTimelines = map[string]bool{
	domain.TimelineUrgent:   true,
	domain.TimelineSoon:     true,
	domain.TimelineFlexible: true,
	domain.TimelinePlanned:  true,
}

var contactBudgets = map[string]bool{
	domain.BudgetUnder5k:  true,
	domain.Budget5k10k:    true,
	domain.Budget10k25k:   true,
	domain.Budget25k50k:   true,
	domain.Budget50k100k:  true,
	domain.Budget100kPlus: true,
}

var serviceTimelines = map[string]bool{
	domain.TimelineASAP:     true,
	domain.TimelineFlexible: true,
	domain.TimelinePlanned:  true,
	domain.TimelineOngoing:  true,
}

var serviceBudgets = map[string]bool{
	domain.BudgetUnder5k:  true,
	domain.Budget5k10k:    true,
	domain.Budget10k25k:   true,
	domain.Budget25k50k:   true,
	domain.Budget50k100k:  true,
	domain.BudgetOver100k: true,
	domain.BudgetNotSure:  true,
}

// FieldErrors maps a field name to its failure messages in rule order
type FieldErrors map[string][]string

// Add appends a message for field
func (f FieldErrors) Add(field, message string) {
	f[field] = append(f[field], message)
}

// HasErrors reports whether any field failed
func (f FieldErrors) HasErrors() bool {
	return len(f) > 0
}

// ContactSubmission carries the flat contact-sales form fields plus request
// metadata attached by the transport layer.
type ContactSubmission struct {
	FullName           string `json:"full_name"`
	Email              string `json:"email"`
	Phone              string `json:"phone"`
	CompanyName        string `json:"company_name"`
	JobTitle           string `json:"job_title"`
	CompanySize        string `json:"company_size"`
	Country            string `json:"country"`
	ServiceID          *uint  `json:"service_id"`
	ProjectType        string `json:"project_type"`
	ProjectDescription string `json:"project_description"`
	Timeline           string `json:"timeline"`
	BudgetRange        string `json:"budget_range"`
	AdditionalNotes    string `json:"additional_notes"`
	ReferenceURL       string `json:"reference_url"`
	HowDidYouHear      string `json:"how_did_you_hear"`
	AgreeToContact     bool   `json:"agree_to_contact"`

	// Website is the hidden honeypot field; real users never fill it
	Website string `json:"website"`

	IPAddress string `json:"-"`
	UserAgent string `json:"-"`
}

// ServiceSubmission carries the flat service inquiry form fields
type ServiceSubmission struct {
	FullName           string `json:"full_name"`
	Email              string `json:"email"`
	Phone              string `json:"phone"`
	Company            string `json:"company"`
	ServiceID          *uint  `json:"service_id"`
	ProjectType        string `json:"project_type"`
	ProjectDescription string `json:"project_description"`
	BudgetRange        string `json:"budget_range"`
	Timeline           string `json:"timeline"`
	ReferenceURL       string `json:"reference_url"`
	AdditionalNotes    string `json:"additional_notes"`
	AcceptTerms        bool   `json:"accept_terms"`

	Website string `json:"website"`

	IPAddress string `json:"-"`
	UserAgent string `json:"-"`
	Referrer  string `json:"-"`
}

// ValidateContact checks a contact-sales submission. It returns
// ErrSpamDetected for a populated trap field; otherwise every failing field
// is collected into the returned FieldErrors.
func ValidateContact(sub *ContactSubmission) (FieldErrors, error) {
	if strings.TrimSpace(sub.Website) != "" {
		return nil, ErrSpamDetected
	}

	fe := FieldErrors{}

	validateFullName(fe, sub.FullName)
	validateEmail(fe, sub.Email)
	validatePhone(fe, sub.Phone)

	if strings.TrimSpace(sub.CompanyName) == "" {
		fe.Add("company_name", "Please enter your company name.")
	}
	if strings.TrimSpace(sub.Country) == "" {
		fe.Add("country", "Please select your country.")
	}
	if strings.TrimSpace(sub.ProjectType) == "" {
		fe.Add("project_type", "Please specify your project type.")
	}

	validateDescription(fe, sub.ProjectDescription, baseSpamKeywords, false)

	if sub.Timeline == "" {
		fe.Add("timeline", "Please select a timeline.")
	} else if !contactTimelines[sub.Timeline] {
		fe.Add("timeline", "Please select a valid timeline.")
	}
	if sub.BudgetRange == "" {
		fe.Add("budget_range", "Please select a budget range.")
	} else if !contactBudgets[sub.BudgetRange] {
		fe.Add("budget_range", "Please select a valid budget range.")
	}

	validateReferenceURL(fe, sub.ReferenceURL)

	if !sub.AgreeToContact {
		fe.Add("agree_to_contact", "You must agree to be contacted to proceed.")
	}

	return fe, nil
}

// ValidateService checks a service inquiry submission. Same contract as
// ValidateContact; service inquiries carry a few extra description rules.
func ValidateService(sub *ServiceSubmission) (FieldErrors, error) {
	if strings.TrimSpace(sub.Website) != "" {
		return nil, ErrSpamDetected
	}

	fe := FieldErrors{}

	validateFullName(fe, sub.FullName)
	validateEmail(fe, sub.Email)
	validatePhone(fe, sub.Phone)

	if strings.TrimSpace(sub.ProjectType) == "" {
		fe.Add("project_type", "Please specify your project type.")
	}

	keywords := append(append([]string{}, baseSpamKeywords...), serviceSpamKeywords...)
	validateDescription(fe, sub.ProjectDescription, keywords, true)

	if sub.BudgetRange == "" {
		fe.Add("budget_range", "Please select your budget range.")
	} else if !serviceBudgets[sub.BudgetRange] {
		fe.Add("budget_range", "Please select a valid budget range.")
	}
	if sub.Timeline == "" {
		fe.Add("timeline", "Please select your desired timeline.")
	} else if !serviceTimelines[sub.Timeline] {
		fe.Add("timeline", "Please select a valid timeline.")
	}

	validateReferenceURL(fe, sub.ReferenceURL)

	if !sub.AcceptTerms {
		fe.Add("accept_terms", "You must agree to receive communication to proceed.")
	}

	return fe, nil
}

func validateFullName(fe FieldErrors, name string) {
	name = strings.TrimSpace(name)

	if len([]rune(name)) < 2 {
		fe.Add("full_name", "Please enter a valid full name (at least 2 characters).")
		return
	}

	// Digits in a name are a common bot tell
	if strings.ContainsFunc(name, unicode.IsDigit) {
		fe.Add("full_name", "Name should not contain numbers.")
		return
	}

	// Allow letters, whitespace, hyphens, apostrophes; tolerate at most two
	// other characters (initials with periods, unicode punctuation).
	special := 0
	for _, r := range name {
		if unicode.IsLetter(r) || unicode.IsSpace(r) || r == '-' || r == '\'' {
			continue
		}
		special++
	}
	if special > 2 {
		fe.Add("full_name", "Name contains too many special characters.")
	}
}

func validateEmail(fe FieldErrors, email string) {
	email = strings.ToLower(strings.TrimSpace(email))

	if email == "" {
		fe.Add("email", "Please enter your email address.")
		return
	}
	if !emailRegex.MatchString(email) {
		fe.Add("email", "Please enter a valid email address.")
		return
	}

	domainPart := email[strings.LastIndex(email, "@")+1:]
	for _, d := range disposableEmailDomains {
		if domainPart == d {
			fe.Add("email", "Please use a permanent email address.")
			return
		}
	}
}

func validatePhone(fe FieldErrors, phone string) {
	phone = strings.TrimSpace(phone)
	if phone == "" {
		return
	}

	digits := strings.Map(func(r rune) rune {
		switch r {
		case ' ', '-', '(', ')', '+':
			return -1
		}
		return r
	}, phone)

	for _, r := range digits {
		if !unicode.IsDigit(r) {
			fe.Add("phone", "Please enter a valid phone number.")
			return
		}
	}
	if len(digits) < 7 || len(digits) > 15 {
		fe.Add("phone", "Phone number should be between 7 and 15 digits.")
	}
}

func validateDescription(fe FieldErrors, description string, keywords []string, serviceRules bool) {
	description = strings.TrimSpace(description)

	if len([]rune(description)) < 20 {
		fe.Add("project_description", "Please provide a more detailed description (at least 20 characters).")
		return
	}

	lower := strings.ToLower(description)
	for _, keyword := range keywords {
		if strings.Contains(lower, keyword) {
			fe.Add("project_description", "Your description contains inappropriate content.")
			break
		}
	}

	if !serviceRules {
		return
	}

	// Excessive links are a spam pattern
	if strings.Count(lower, "http://")+strings.Count(lower, "https://") > 3 {
		fe.Add("project_description", "Please limit the number of URLs in your description.")
	}

	// So is repeating the same few words over and over
	words := strings.Fields(lower)
	if len(words) > 10 {
		unique := make(map[string]struct{}, len(words))
		for _, w := range words {
			unique[w] = struct{}{}
		}
		if float64(len(words))/float64(len(unique)) > 3 {
			fe.Add("project_description", "Your description contains excessive repetition.")
		}
	}
}

func validateReferenceURL(fe FieldErrors, url string) {
	url = strings.ToLower(strings.TrimSpace(url))
	if url == "" {
		return
	}
	for _, shortener := range urlShorteners {
		if strings.Contains(url, shortener) {
			fe.Add("reference_url", "Please provide a direct URL, not a shortened link.")
			return
		}
	}
}
