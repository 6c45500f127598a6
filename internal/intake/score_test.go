package intake

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"cascade/internal/domain"
)

const cleanDescription = "We need a partner to rebuild our customer portal with single sign-on and usage reporting."

func strPtr(s string) *string { return &s }

func TestContactSpamScoreCleanSubmission(t *testing.T) {
	inq := &domain.ContactInquiry{
		Email:              "jane@acmecorp.com",
		ProjectDescription: cleanDescription,
		BudgetRange:        domain.Budget25k50k,
		Timeline:           domain.TimelineSoon,
	}

	assert.Equal(t, 0, ContactSpamScore(inq))
}

func TestContactSpamScoreFreeEmailDomain(t *testing.T) {
	inq := &domain.ContactInquiry{
		Email:              "jane@gmail.com",
		ProjectDescription: cleanDescription,
	}

	assert.Equal(t, 1, ContactSpamScore(inq))
}

func TestContactSpamScoreLowBudgetUrgent(t *testing.T) {
	inq := &domain.ContactInquiry{
		Email:              "jane@acmecorp.com",
		ProjectDescription: cleanDescription,
		BudgetRange:        domain.BudgetUnder5k,
		Timeline:           domain.TimelineUrgent,
	}

	assert.Equal(t, 1, ContactSpamScore(inq))
}

func TestContactSpamScoreShouting(t *testing.T) {
	// 30 of 50 letters uppercase, above the half threshold
	inq := &domain.ContactInquiry{
		Email:              "jane@acmecorp.com",
		ProjectDescription: strings.Repeat("A", 30) + strings.Repeat("a", 20),
	}

	assert.Equal(t, 2, ContactSpamScore(inq))
}

func TestContactSpamScoreKeywordsCapped(t *testing.T) {
	// Four distinct keywords would be +8 uncapped; keyword contribution
	// stops at +5
	inq := &domain.ContactInquiry{
		Email:              "jane@acmecorp.com",
		ProjectDescription: "Great casino and lottery site, buy now with bitcoin, this is a limited offer for you today friends.",
	}

	score := ContactSpamScore(inq)
	assert.Equal(t, 5, score)
}

func TestContactSpamScoreShortDescription(t *testing.T) {
	inq := &domain.ContactInquiry{
		Email:              "jane@acmecorp.com",
		ProjectDescription: "Need a website soon ok",
	}

	assert.Equal(t, 1, ContactSpamScore(inq))
}

func TestContactSpamScoreClampedToTen(t *testing.T) {
	// Stack every signal: shouting, capped keywords, short text, free
	// email, low budget with urgent timeline
	inq := &domain.ContactInquiry{
		Email:              "spam@gmail.com",
		ProjectDescription: "CASINO LOTTERY BITCOIN XXX",
		BudgetRange:        domain.BudgetUnder5k,
		Timeline:           domain.TimelineUrgent,
	}

	score := ContactSpamScore(inq)
	assert.Equal(t, 10, score)
	assert.True(t, IsSpam(score))
}

func TestIsSpamThreshold(t *testing.T) {
	assert.False(t, IsSpam(7))
	assert.True(t, IsSpam(8))
}

func TestServiceSpamScoreMissingContactFields(t *testing.T) {
	base := &domain.ServiceInquiry{
		Email:              "jane@acmecorp.com",
		ProjectDescription: cleanDescription,
	}
	assert.Equal(t, 1, ServiceSpamScore(base), "no phone and no company adds one")

	withPhone := &domain.ServiceInquiry{
		Email:              "jane@acmecorp.com",
		ProjectDescription: cleanDescription,
		Phone:              strPtr("5550173"),
	}
	assert.Equal(t, 0, ServiceSpamScore(withPhone))

	withCompany := &domain.ServiceInquiry{
		Email:              "jane@acmecorp.com",
		ProjectDescription: cleanDescription,
		Company:            strPtr("Acme Corp"),
	}
	assert.Equal(t, 0, ServiceSpamScore(withCompany))
}

func TestServiceSpamScoreLowBudgetASAP(t *testing.T) {
	inq := &domain.ServiceInquiry{
		Email:              "jane@acmecorp.com",
		ProjectDescription: cleanDescription,
		Phone:              strPtr("5550173"),
		BudgetRange:        domain.BudgetUnder5k,
		Timeline:           domain.TimelineASAP,
	}

	assert.Equal(t, 1, ServiceSpamScore(inq))
}

func TestPriorityScore(t *testing.T) {
	serviceID := uint(3)

	tests := []struct {
		name string
		inq  domain.ServiceInquiry
		want int
	}{
		{
			name: "baseline",
			inq:  domain.ServiceInquiry{BudgetRange: domain.Budget10k25k, Timeline: domain.TimelinePlanned},
			want: 5,
		},
		{
			name: "mid budget tier",
			inq:  domain.ServiceInquiry{BudgetRange: domain.Budget25k50k, Timeline: domain.TimelinePlanned},
			want: 6,
		},
		{
			name: "high budget tier",
			inq:  domain.ServiceInquiry{BudgetRange: domain.Budget50k100k, Timeline: domain.TimelinePlanned},
			want: 7,
		},
		{
			name: "top budget tier",
			inq:  domain.ServiceInquiry{BudgetRange: domain.BudgetOver100k, Timeline: domain.TimelinePlanned},
			want: 8,
		},
		{
			name: "asap timeline",
			inq:  domain.ServiceInquiry{BudgetRange: domain.Budget10k25k, Timeline: domain.TimelineASAP},
			want: 6,
		},
		{
			name: "flexible timeline",
			inq:  domain.ServiceInquiry{BudgetRange: domain.Budget10k25k, Timeline: domain.TimelineFlexible},
			want: 6,
		},
		{
			name: "service attached",
			inq:  domain.ServiceInquiry{BudgetRange: domain.Budget10k25k, Timeline: domain.TimelinePlanned, ServiceID: &serviceID},
			want: 6,
		},
		{
			name: "capped at ten",
			inq:  domain.ServiceInquiry{BudgetRange: domain.BudgetOver100k, Timeline: domain.TimelineASAP, ServiceID: &serviceID},
			want: 10,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, PriorityScore(&tt.inq))
		})
	}
}

// Scoring is a pure function of the stored record; rescoring never drifts
func TestScoringIdempotent(t *testing.T) {
	inq := &domain.ServiceInquiry{
		Email:              "jane@gmail.com",
		ProjectDescription: "SHORT AND LOUD TEXT",
		BudgetRange:        domain.BudgetUnder5k,
		Timeline:           domain.TimelineASAP,
	}

	first := ServiceSpamScore(inq)
	inq.SpamScore = first
	assert.Equal(t, first, ServiceSpamScore(inq))
	assert.Equal(t, PriorityScore(inq), PriorityScore(inq))
}
