package intake

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cascade/internal/domain"
)

func validContactSubmission() *ContactSubmission {
	return &ContactSubmission{
		FullName:           "Jane O'Neill",
		Email:              "jane@acmecorp.com",
		Phone:              "+1 (415) 555-0173",
		CompanyName:        "Acme Corp",
		Country:            "United States",
		ProjectType:        "Web Application",
		ProjectDescription: "We need a customer portal rebuilt on a modern stack with SSO and reporting.",
		Timeline:           domain.TimelineSoon,
		BudgetRange:        domain.Budget25k50k,
		AgreeToContact:     true,
	}
}

func validServiceSubmission() *ServiceSubmission {
	return &ServiceSubmission{
		FullName:           "Jane O'Neill",
		Email:              "jane@acmecorp.com",
		Phone:              "+1 (415) 555-0173",
		Company:            "Acme Corp",
		ProjectType:        "E-commerce",
		ProjectDescription: "Looking to migrate our storefront to a headless setup with better search.",
		BudgetRange:        domain.Budget10k25k,
		Timeline:           domain.TimelinePlanned,
		AcceptTerms:        true,
	}
}

func TestValidateContactAcceptsValidSubmission(t *testing.T) {
	fe, err := ValidateContact(validContactSubmission())
	require.NoError(t, err)
	assert.False(t, fe.HasErrors(), "unexpected field errors: %v", fe)
}

func TestValidateContactTrapField(t *testing.T) {
	sub := validContactSubmission()
	sub.Website = "https://spam.example.com"

	fe, err := ValidateContact(sub)
	require.ErrorIs(t, err, ErrSpamDetected)
	assert.Nil(t, fe, "trap rejection must not report field errors")
}

func TestValidateServiceTrapField(t *testing.T) {
	sub := validServiceSubmission()
	sub.Website = "x"

	_, err := ValidateService(sub)
	require.ErrorIs(t, err, ErrSpamDetected)
}

func TestValidateContactFullName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"two characters pass", "Jo", false},
		{"single character fails", "J", true},
		{"digits fail", "John123", true},
		{"hyphen and apostrophe pass", "Anne-Marie O'Brien", false},
		{"two periods tolerated", "J. R. Tolkien", false},
		{"too many special characters fail", "J@hn $mi+h!", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sub := validContactSubmission()
			sub.FullName = tt.input

			fe, err := ValidateContact(sub)
			require.NoError(t, err)
			if tt.wantErr {
				assert.NotEmpty(t, fe["full_name"])
			} else {
				assert.Empty(t, fe["full_name"])
			}
		})
	}
}

func TestValidateContactEmail(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"normal address passes", "user@example.com", false},
		{"missing passes nothing", "", true},
		{"malformed fails", "not-an-email", true},
		{"disposable domain fails", "bot@mailinator.com", true},
		{"disposable as subdomain passes", "user@mailinator.com.example.com", false},
		{"uppercase normalized", "USER@EXAMPLE.COM", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sub := validContactSubmission()
			sub.Email = tt.input

			fe, err := ValidateContact(sub)
			require.NoError(t, err)
			if tt.wantErr {
				assert.NotEmpty(t, fe["email"])
			} else {
				assert.Empty(t, fe["email"])
			}
		})
	}
}

func TestValidateContactPhone(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"empty is optional", "", false},
		{"formatted number passes", "+1 (415) 555-0173", false},
		{"seven digits pass", "5550173", false},
		{"six digits fail", "555017", true},
		{"sixteen digits fail", "1234567890123456", true},
		{"letters fail", "555-CALL-NOW", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sub := validContactSubmission()
			sub.Phone = tt.input

			fe, err := ValidateContact(sub)
			require.NoError(t, err)
			if tt.wantErr {
				assert.NotEmpty(t, fe["phone"])
			} else {
				assert.Empty(t, fe["phone"])
			}
		})
	}
}

func TestValidateContactDescription(t *testing.T) {
	sub := validContactSubmission()
	sub.ProjectDescription = "too short"

	fe, err := ValidateContact(sub)
	require.NoError(t, err)
	assert.NotEmpty(t, fe["project_description"])

	sub = validContactSubmission()
	sub.ProjectDescription = "We sell cheap viagra and other products to your customers online."

	fe, err = ValidateContact(sub)
	require.NoError(t, err)
	assert.NotEmpty(t, fe["project_description"])
}

func TestValidateServiceDescriptionExtraRules(t *testing.T) {
	t.Run("excessive links", func(t *testing.T) {
		sub := validServiceSubmission()
		sub.ProjectDescription = "Check https://a.com https://b.com https://c.com https://d.com for details."

		fe, err := ValidateService(sub)
		require.NoError(t, err)
		assert.NotEmpty(t, fe["project_description"])
	})

	t.Run("three links allowed", func(t *testing.T) {
		sub := validServiceSubmission()
		sub.ProjectDescription = "Our sites are https://a.com https://b.com and https://c.com, please review them."

		fe, err := ValidateService(sub)
		require.NoError(t, err)
		assert.Empty(t, fe["project_description"])
	})

	t.Run("excessive repetition", func(t *testing.T) {
		sub := validServiceSubmission()
		sub.ProjectDescription = strings.TrimSpace(strings.Repeat("buy now ", 12))

		fe, err := ValidateService(sub)
		require.NoError(t, err)
		assert.NotEmpty(t, fe["project_description"])
	})

	t.Run("service keyword", func(t *testing.T) {
		sub := validServiceSubmission()
		sub.ProjectDescription = "We want a bitcoin payment integration for our existing online store."

		fe, err := ValidateService(sub)
		require.NoError(t, err)
		assert.NotEmpty(t, fe["project_description"])
	})
}

func TestValidateContactChoices(t *testing.T) {
	sub := validContactSubmission()
	sub.Timeline = "yesterday"
	sub.BudgetRange = "one million"

	fe, err := ValidateContact(sub)
	require.NoError(t, err)
	assert.NotEmpty(t, fe["timeline"])
	assert.NotEmpty(t, fe["budget_range"])
}

func TestValidateContactReferenceURLShortener(t *testing.T) {
	sub := validContactSubmission()
	sub.ReferenceURL = "https://bit.ly/3xYzAbC"

	fe, err := ValidateContact(sub)
	require.NoError(t, err)
	assert.NotEmpty(t, fe["reference_url"])
}

func TestValidateContactConsentRequired(t *testing.T) {
	sub := validContactSubmission()
	sub.AgreeToContact = false

	fe, err := ValidateContact(sub)
	require.NoError(t, err)
	assert.NotEmpty(t, fe["agree_to_contact"])
}

func TestValidateServiceConsentRequired(t *testing.T) {
	sub := validServiceSubmission()
	sub.AcceptTerms = false

	fe, err := ValidateService(sub)
	require.NoError(t, err)
	assert.NotEmpty(t, fe["accept_terms"])
}

// All failing fields are reported in one pass, not just the first
func TestValidateContactCollectsAllFieldErrors(t *testing.T) {
	sub := &ContactSubmission{
		FullName:           "X",
		Email:              "bad",
		Phone:              "123",
		ProjectDescription: "short",
	}

	fe, err := ValidateContact(sub)
	require.NoError(t, err)

	for _, field := range []string{
		"full_name", "email", "phone", "company_name", "country",
		"project_type", "project_description", "timeline", "budget_range",
		"agree_to_contact",
	} {
		assert.NotEmpty(t, fe[field], "expected error for %s", field)
	}
}
