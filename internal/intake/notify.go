package intake

import (
	"fmt"
	"html"
	"strings"
	"time"

	"cascade/internal/domain"
)

var budgetLabels = map[string]string{
	domain.BudgetUnder5k:  "Under $5,000",
	domain.Budget5k10k:    "$5,000 - $10,000",
	domain.Budget10k25k:   "$10,000 - $25,000",
	domain.Budget25k50k:   "$25,000 - $50,000",
	domain.Budget50k100k:  "$50,000 - $100,000",
	domain.BudgetOver100k: "Over $100,000",
	domain.Budget100kPlus: "Over $100,000",
	domain.BudgetNotSure:  "Budget Not Determined",
}

var timelineLabels = map[string]string{
	domain.TimelineASAP:     "ASAP",
	domain.TimelineUrgent:   "Urgent (within 2 weeks)",
	domain.TimelineSoon:     "Soon (within a month)",
	domain.TimelineFlexible: "Flexible",
	domain.TimelinePlanned:  "Planned (1-3 months)",
	domain.TimelineOngoing:  "Ongoing engagement",
}

func budgetLabel(key string) string {
	if label, ok := budgetLabels[key]; ok {
		return label
	}
	return key
}

func timelineLabel(key string) string {
	if label, ok := timelineLabels[key]; ok {
		return label
	}
	return key
}

// detailRow renders one label/value row for the detail table
func detailRow(label, value string) string {
	if value == "" {
		return ""
	}
	return fmt.Sprintf(`                                <tr>
                                    <td style="padding: 8px 16px 8px 0; font-size: 14px; font-weight: 600; color: #334155; white-space: nowrap; vertical-align: top;">%s</td>
                                    <td style="padding: 8px 0; font-size: 14px; line-height: 1.6; color: #64748B;">%s</td>
                                </tr>
`, html.EscapeString(label), html.EscapeString(value))
}

// emailLayout wraps content in the branded email shell
func emailLayout(title, content, siteURL string) string {
	currentYear := time.Now().Format("2006")

	return fmt.Sprintf(`<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>%s</title>
</head>
<body style="margin: 0; padding: 0; background-color: #F1F5F9; font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, 'Helvetica Neue', Arial, sans-serif;">
    <table role="presentation" cellspacing="0" cellpadding="0" border="0" width="100%%" style="background-color: #F1F5F9;">
        <tr>
            <td style="padding: 40px 20px;">
                <table role="presentation" cellspacing="0" cellpadding="0" border="0" width="600" style="margin: 0 auto; background-color: #FFFFFF; border-radius: 12px; box-shadow: 0 4px 16px rgba(0, 0, 0, 0.06); overflow: hidden;">
                    <tr>
                        <td style="padding: 32px 40px; background: linear-gradient(135deg, #0F766E 0%%, #134E4A 100%%); text-align: center;">
                            <span style="font-size: 24px; font-weight: 700; color: #FFFFFF; letter-spacing: -0.5px;">Cascade Digital</span>
                        </td>
                    </tr>
                    <tr>
                        <td style="padding: 40px;">
%s
                        </td>
                    </tr>
                    <tr>
                        <td style="padding: 24px 40px; background-color: #F8FAFC; border-top: 1px solid #E2E8F0;">
                            <p style="margin: 0 0 8px; font-size: 14px; color: #64748B;">Best regards,<br>The Cascade Digital Team</p>
                            <p style="margin: 16px 0 0; font-size: 12px; color: #94A3B8; line-height: 1.6;">
                                This is an automated message from <a href="%s" style="color: #0F766E; text-decoration: none;">%s</a>.<br>
                                &copy; %s Cascade Digital. All rights reserved.
                            </p>
                        </td>
                    </tr>
                </table>
            </td>
        </tr>
    </table>
</body>
</html>`, html.EscapeString(title), content, siteURL, siteURL, currentYear)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// contactAdminEmail builds the internal notification for a new contact inquiry
func contactAdminEmail(inquiry *domain.ContactInquiry, siteURL string) (htmlBody, textBody string) {
	var rows strings.Builder
	rows.WriteString(detailRow("Name", inquiry.FullName))
	rows.WriteString(detailRow("Email", inquiry.Email))
	rows.WriteString(detailRow("Phone", deref(inquiry.Phone)))
	rows.WriteString(detailRow("Company", inquiry.CompanyName))
	rows.WriteString(detailRow("Job Title", deref(inquiry.JobTitle)))
	rows.WriteString(detailRow("Company Size", deref(inquiry.CompanySize)))
	rows.WriteString(detailRow("Country", inquiry.Country))
	rows.WriteString(detailRow("Project Type", inquiry.ProjectType))
	rows.WriteString(detailRow("Timeline", timelineLabel(inquiry.Timeline)))
	rows.WriteString(detailRow("Budget", budgetLabel(inquiry.BudgetRange)))
	rows.WriteString(detailRow("How They Found Us", deref(inquiry.HowDidYouHear)))
	rows.WriteString(detailRow("Reference", inquiry.Reference))
	rows.WriteString(detailRow("Spam Score", fmt.Sprintf("%d/10", inquiry.SpamScore)))

	spamBanner := ""
	if inquiry.IsSpam {
		spamBanner = `                            <p style="margin: 0 0 24px; padding: 12px 16px; background-color: #FEF2F2; border-left: 4px solid #DC2626; border-radius: 6px; font-size: 14px; color: #991B1B;"><strong>Flagged as potential spam.</strong> Review before responding.</p>
`
	}

	content := fmt.Sprintf(`                            <h2 style="margin: 0 0 12px; font-size: 24px; font-weight: 700; color: #0F172A;">New Contact Inquiry</h2>
                            <p style="margin: 0 0 24px; font-size: 15px; line-height: 1.6; color: #64748B;">A new contact inquiry has been submitted through the website.</p>
%s                            <table role="presentation" cellspacing="0" cellpadding="0" border="0" width="100%%" style="margin: 0 0 24px;">
%s                            </table>
                            <h3 style="margin: 0 0 8px; font-size: 16px; font-weight: 600; color: #0F172A;">Project Description</h3>
                            <p style="margin: 0 0 24px; padding: 16px; background-color: #F8FAFC; border-radius: 8px; font-size: 14px; line-height: 1.7; color: #334155;">%s</p>
                            <p style="margin: 0; font-size: 14px; color: #64748B;">Reply directly to this email to respond to the client.</p>`,
		spamBanner, rows.String(), html.EscapeString(inquiry.ProjectDescription))

	textBody = fmt.Sprintf(`New contact inquiry from %s (%s)

Company: %s
Country: %s
Project type: %s
Timeline: %s
Budget: %s
Reference: %s
Spam score: %d/10

Project description:
%s

Reply directly to this email to respond to the client.
`, inquiry.FullName, inquiry.Email, inquiry.CompanyName, inquiry.Country,
		inquiry.ProjectType, timelineLabel(inquiry.Timeline), budgetLabel(inquiry.BudgetRange),
		inquiry.Reference, inquiry.SpamScore, inquiry.ProjectDescription)

	return emailLayout("New Contact Inquiry", content, siteURL), textBody
}

// contactClientEmail builds the confirmation sent to the person who submitted
// a contact inquiry
func contactClientEmail(inquiry *domain.ContactInquiry, siteURL string) (htmlBody, textBody string) {
	firstName := inquiry.FullName
	if idx := strings.IndexByte(firstName, ' '); idx > 0 {
		firstName = firstName[:idx]
	}

	content := fmt.Sprintf(`                            <h2 style="margin: 0 0 12px; font-size: 24px; font-weight: 700; color: #0F172A;">Thank You, %s!</h2>
                            <p style="margin: 0 0 16px; font-size: 15px; line-height: 1.7; color: #334155;">We've received your inquiry about <strong>%s</strong> and our team is already reviewing the details.</p>
                            <p style="margin: 0 0 24px; font-size: 15px; line-height: 1.7; color: #334155;">You can expect to hear from us within <strong>24 hours</strong>. In the meantime, feel free to reply to this email if you'd like to add anything to your request.</p>
                            <table role="presentation" cellspacing="0" cellpadding="0" border="0" width="100%%" style="margin: 0 0 24px;">
                                <tr>
                                    <td style="padding: 16px; background-color: #F0FDFA; border-left: 4px solid #0F766E; border-radius: 6px;">
                                        <p style="margin: 0; font-size: 14px; color: #134E4A;">Your reference number is <strong>%s</strong>. Keep it handy if you contact us about this inquiry.</p>
                                    </td>
                                </tr>
                            </table>`,
		html.EscapeString(firstName), html.EscapeString(inquiry.ProjectType), inquiry.Reference)

	textBody = fmt.Sprintf(`Hi %s,

Thank you for contacting Cascade Digital. We've received your inquiry about %s and our team is reviewing the details.

You can expect to hear from us within 24 hours. Feel free to reply to this email if you'd like to add anything to your request.

Your reference number is %s.

Best regards,
The Cascade Digital Team
`, firstName, inquiry.ProjectType, inquiry.Reference)

	return emailLayout("We've Received Your Inquiry", content, siteURL), textBody
}

// serviceAdminEmail builds the internal notification for a new service inquiry
func serviceAdminEmail(inquiry *domain.ServiceInquiry, service *domain.Service, siteURL string) (htmlBody, textBody string) {
	serviceName := "General"
	if service != nil {
		serviceName = service.Title
	}

	var rows strings.Builder
	rows.WriteString(detailRow("Name", inquiry.FullName))
	rows.WriteString(detailRow("Email", inquiry.Email))
	rows.WriteString(detailRow("Phone", deref(inquiry.Phone)))
	rows.WriteString(detailRow("Company", deref(inquiry.Company)))
	rows.WriteString(detailRow("Service", serviceName))
	rows.WriteString(detailRow("Project Type", inquiry.ProjectType))
	rows.WriteString(detailRow("Budget", inquiry.BudgetDisplay()))
	rows.WriteString(detailRow("Timeline", timelineLabel(inquiry.Timeline)))
	rows.WriteString(detailRow("Reference URL", deref(inquiry.ReferenceURL)))
	rows.WriteString(detailRow("Reference", inquiry.Reference))
	rows.WriteString(detailRow("Spam Score", fmt.Sprintf("%d/10", inquiry.SpamScore)))

	spamBanner := ""
	if inquiry.IsSpam {
		spamBanner = `                            <p style="margin: 0 0 24px; padding: 12px 16px; background-color: #FEF2F2; border-left: 4px solid #DC2626; border-radius: 6px; font-size: 14px; color: #991B1B;"><strong>Flagged as potential spam.</strong> Review before responding.</p>
`
	}
	highValueBanner := ""
	if inquiry.IsHighValue() {
		highValueBanner = `                            <p style="margin: 0 0 24px; padding: 12px 16px; background-color: #FFFBEB; border-left: 4px solid #D97706; border-radius: 6px; font-size: 14px; color: #92400E;"><strong>High-value lead.</strong> Prioritize the response.</p>
`
	}

	content := fmt.Sprintf(`                            <h2 style="margin: 0 0 12px; font-size: 24px; font-weight: 700; color: #0F172A;">New Service Inquiry</h2>
                            <p style="margin: 0 0 24px; font-size: 15px; line-height: 1.6; color: #64748B;">A new project inquiry has been submitted for <strong>%s</strong>.</p>
%s%s                            <table role="presentation" cellspacing="0" cellpadding="0" border="0" width="100%%" style="margin: 0 0 24px;">
%s                            </table>
                            <h3 style="margin: 0 0 8px; font-size: 16px; font-weight: 600; color: #0F172A;">Project Description</h3>
                            <p style="margin: 0 0 24px; padding: 16px; background-color: #F8FAFC; border-radius: 8px; font-size: 14px; line-height: 1.7; color: #334155;">%s</p>
                            <p style="margin: 0; font-size: 14px; color: #64748B;">Reply directly to this email to respond to the client.</p>`,
		html.EscapeString(serviceName), spamBanner, highValueBanner, rows.String(),
		html.EscapeString(inquiry.ProjectDescription))

	textBody = fmt.Sprintf(`New service inquiry from %s (%s)

Service: %s
Project type: %s
Budget: %s
Timeline: %s
Reference: %s
Spam score: %d/10

Project description:
%s

Reply directly to this email to respond to the client.
`, inquiry.FullName, inquiry.Email, serviceName, inquiry.ProjectType,
		inquiry.BudgetDisplay(), timelineLabel(inquiry.Timeline),
		inquiry.Reference, inquiry.SpamScore, inquiry.ProjectDescription)

	return emailLayout("New Service Inquiry", content, siteURL), textBody
}

// serviceClientEmail builds the confirmation sent to a service inquiry client
func serviceClientEmail(inquiry *domain.ServiceInquiry, siteURL string) (htmlBody, textBody string) {
	firstName := inquiry.FullName
	if idx := strings.IndexByte(firstName, ' '); idx > 0 {
		firstName = firstName[:idx]
	}

	content := fmt.Sprintf(`                            <h2 style="margin: 0 0 12px; font-size: 24px; font-weight: 700; color: #0F172A;">Thank You, %s!</h2>
                            <p style="margin: 0 0 16px; font-size: 15px; line-height: 1.7; color: #334155;">We've received your project inquiry and our team is reviewing the details. Here's what happens next:</p>
                            <table role="presentation" cellspacing="0" cellpadding="0" border="0" width="100%%" style="margin: 0 0 24px;">
                                <tr>
                                    <td style="padding: 4px 12px 4px 0; font-size: 15px; font-weight: 700; color: #0F766E; vertical-align: top;">1.</td>
                                    <td style="padding: 4px 0; font-size: 15px; line-height: 1.7; color: #334155;">Our team reviews your project requirements.</td>
                                </tr>
                                <tr>
                                    <td style="padding: 4px 12px 4px 0; font-size: 15px; font-weight: 700; color: #0F766E; vertical-align: top;">2.</td>
                                    <td style="padding: 4px 0; font-size: 15px; line-height: 1.7; color: #334155;">We reach out within 24 hours to discuss scope and timing.</td>
                                </tr>
                                <tr>
                                    <td style="padding: 4px 12px 4px 0; font-size: 15px; font-weight: 700; color: #0F766E; vertical-align: top;">3.</td>
                                    <td style="padding: 4px 0; font-size: 15px; line-height: 1.7; color: #334155;">You receive a tailored proposal and quote.</td>
                                </tr>
                            </table>
                            <table role="presentation" cellspacing="0" cellpadding="0" border="0" width="100%%" style="margin: 0 0 24px;">
                                <tr>
                                    <td style="padding: 16px; background-color: #F0FDFA; border-left: 4px solid #0F766E; border-radius: 6px;">
                                        <p style="margin: 0; font-size: 14px; color: #134E4A;">Your reference number is <strong>%s</strong>. Keep it handy if you contact us about this inquiry.</p>
                                    </td>
                                </tr>
                            </table>`,
		html.EscapeString(firstName), inquiry.Reference)

	textBody = fmt.Sprintf(`Hi %s,

Thank you for your project inquiry. Our team is reviewing the details and will reach out within 24 hours to discuss scope and timing.

Your reference number is %s.

Best regards,
The Cascade Digital Team
`, firstName, inquiry.Reference)

	return emailLayout("We've Received Your Project Inquiry", content, siteURL), textBody
}
