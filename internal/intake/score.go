package intake

import (
	"strings"
	"unicode"

	"cascade/internal/domain"
)

// spamThreshold is the score above which an inquiry is flagged for triage.
// Flagged inquiries are still persisted and still trigger notifications.
const spamThreshold = 7

// Extended keyword list for scoring. Validation already rejected the worst
// content; these catch borderline marketing spam for manual review.
var scoringKeywords = []string{
	"viagra", "casino", "lottery", "bitcoin", "crypto",
	"porn", "xxx", "dating", "pills", "supplements",
	"weight loss", "make money", "work from home",
	"click here", "buy now", "limited offer",
}

var freeEmailDomains = []string{
	"gmail.com", "yahoo.com", "hotmail.com", "outlook.com",
	"aol.com", "icloud.com", "mail.com", "protonmail.com",
}

// ContactSpamScore rates a contact inquiry 0-10, higher meaning more likely
// spam. Pure function of the stored fields.
func ContactSpamScore(inq *domain.ContactInquiry) int {
	score := descriptionScore(inq.ProjectDescription) + emailScore(inq.Email)

	if inq.BudgetRange == domain.BudgetUnder5k && inq.Timeline == domain.TimelineUrgent {
		score++
	}

	return clampScore(score)
}

// ServiceSpamScore rates a service inquiry 0-10. Same rules as the contact
// variant plus a bump when both optional contact fields were left blank.
func ServiceSpamScore(inq *domain.ServiceInquiry) int {
	score := descriptionScore(inq.ProjectDescription) + emailScore(inq.Email)

	if inq.BudgetRange == domain.BudgetUnder5k && inq.Timeline == domain.TimelineASAP {
		score++
	}

	hasPhone := inq.Phone != nil && *inq.Phone != ""
	hasCompany := inq.Company != nil && *inq.Company != ""
	if !hasPhone && !hasCompany {
		score++
	}

	return clampScore(score)
}

// IsSpam reports whether a score crosses the triage threshold
func IsSpam(score int) bool {
	return score > spamThreshold
}

// PriorityScore rates a service inquiry 1-10 for lead routing. Base 5, plus
// budget tier, timeline, and service specificity bonuses; capped at 10.
// Pure function of the stored fields.
func PriorityScore(inq *domain.ServiceInquiry) int {
	score := 5

	switch inq.BudgetRange {
	case domain.BudgetOver100k:
		score += 3
	case domain.Budget50k100k:
		score += 2
	case domain.Budget25k50k:
		score++
	}

	if inq.Timeline == domain.TimelineASAP {
		score++
	} else if inq.Timeline == domain.TimelineFlexible {
		score++
	}

	if inq.ServiceID != nil {
		score++
	}

	if score > 10 {
		return 10
	}
	return score
}

func descriptionScore(description string) int {
	if description == "" {
		return 0
	}

	score := 0
	lower := strings.ToLower(description)

	// Shouting is suspicious
	upper := 0
	for _, r := range description {
		if unicode.IsUpper(r) {
			upper++
		}
	}
	if float64(upper)/float64(len([]rune(description))) > 0.5 {
		score += 2
	}

	// +2 per distinct keyword, keywords contributing at most +5 in total
	matches := 0
	for _, keyword := range scoringKeywords {
		if strings.Contains(lower, keyword) {
			matches++
		}
	}
	if kw := matches * 2; kw > 5 {
		score += 5
	} else {
		score += kw
	}

	// Implausibly short or bloated descriptions
	if n := len([]rune(description)); n < 30 || n > 2000 {
		score++
	}

	return score
}

func emailScore(email string) int {
	if email == "" {
		return 0
	}
	domainPart := strings.ToLower(email[strings.LastIndex(email, "@")+1:])
	for _, d := range freeEmailDomains {
		if domainPart == d {
			return 1
		}
	}
	return 0
}

func clampScore(score int) int {
	if score < 0 {
		return 0
	}
	if score > 10 {
		return 10
	}
	return score
}
