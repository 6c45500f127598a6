package intake

import (
	"context"
	"fmt"
	"log"
	"strings"

	"gorm.io/gorm"

	"cascade/internal/domain"
	"cascade/internal/metrics"
	"cascade/internal/text"
	apperrors "cascade/pkg/errors"
)

// Mailer sends one notification email. Implementations raise on transport
// failure; the pipeline treats every send as best-effort.
type Mailer interface {
	Send(to, subject, htmlBody, textBody, replyTo string) error
}

// Ack is the client-visible acknowledgment for an accepted inquiry
type Ack struct {
	ID        uint   `json:"inquiry_id"`
	Reference string `json:"reference"`
	Message   string `json:"message"`
}

// Pipeline runs a submission through validate, score, persist, notify.
// Persistence happens before notification; a failed send never unwinds the
// save or changes the acknowledgment.
type Pipeline struct {
	db         *gorm.DB
	mailer     Mailer
	adminEmail string
	siteURL    string
}

// NewPipeline creates an intake pipeline
func NewPipeline(db *gorm.DB, mailer Mailer, adminEmail, siteURL string) *Pipeline {
	return &Pipeline{
		db:         db,
		mailer:     mailer,
		adminEmail: adminEmail,
		siteURL:    siteURL,
	}
}

// SubmitContact processes a contact-sales form submission
func (p *Pipeline) SubmitContact(ctx context.Context, sub *ContactSubmission) (*Ack, error) {
	fieldErrors, err := ValidateContact(sub)
	if err != nil {
		log.Printf("[INTAKE] Contact submission rejected: trap field populated (ip=%s)", sub.IPAddress)
		return nil, apperrors.Wrap(apperrors.ErrCodeBadRequest, "Invalid submission detected.", err)
	}
	if fieldErrors.HasErrors() {
		log.Printf("[INTAKE] Contact submission failed validation: %d field(s)", len(fieldErrors))
		return nil, apperrors.Validation("Please correct the errors below.", fieldErrors)
	}

	inquiry := &domain.ContactInquiry{
		FullName:           strings.TrimSpace(sub.FullName),
		Email:              strings.ToLower(strings.TrimSpace(sub.Email)),
		Phone:              optional(sub.Phone),
		CompanyName:        strings.TrimSpace(sub.CompanyName),
		JobTitle:           optional(sub.JobTitle),
		CompanySize:        optional(sub.CompanySize),
		Country:            strings.TrimSpace(sub.Country),
		ServiceID:          sub.ServiceID,
		ProjectType:        strings.TrimSpace(sub.ProjectType),
		ProjectDescription: strings.TrimSpace(sub.ProjectDescription),
		Timeline:           sub.Timeline,
		BudgetRange:        sub.BudgetRange,
		AdditionalNotes:    optional(sub.AdditionalNotes),
		ReferenceURL:       optional(sub.ReferenceURL),
		HowDidYouHear:      optional(sub.HowDidYouHear),
		IPAddress:          optional(sub.IPAddress),
		UserAgent:          text.Truncate(sub.UserAgent, 500),
	}

	inquiry.SpamScore = ContactSpamScore(inquiry)
	if IsSpam(inquiry.SpamScore) {
		inquiry.IsSpam = true
		log.Printf("[INTAKE] Warning: potential spam contact inquiry from %s (score: %d)", inquiry.Email, inquiry.SpamScore)
	}

	if err := p.db.WithContext(ctx).Create(inquiry).Error; err != nil {
		log.Printf("[INTAKE] Contact submission failed: database error: %v", err)
		return nil, apperrors.Wrap(apperrors.ErrCodeInternalError,
			"We encountered an error processing your request. Please try again or email us directly.", err)
	}

	log.Printf("[INTAKE] Contact inquiry saved: id=%d, company=%s, score=%d", inquiry.ID, inquiry.CompanyName, inquiry.SpamScore)
	metrics.RecordInquiry("contact")
	if inquiry.IsSpam {
		metrics.RecordSpamFlagged("contact")
	}

	p.notifyContact(inquiry)

	return &Ack{
		ID:        inquiry.ID,
		Reference: inquiry.Reference,
		Message:   "Thank you for contacting us! Our team will review your inquiry and get back to you within 24 hours.",
	}, nil
}

// SubmitService processes a service inquiry submission. The service the form
// was submitted from, when known, provides email context.
func (p *Pipeline) SubmitService(ctx context.Context, sub *ServiceSubmission, service *domain.Service) (*Ack, error) {
	fieldErrors, err := ValidateService(sub)
	if err != nil {
		log.Printf("[INTAKE] Service submission rejected: trap field populated (ip=%s)", sub.IPAddress)
		return nil, apperrors.Wrap(apperrors.ErrCodeBadRequest, "Invalid submission detected.", err)
	}
	if fieldErrors.HasErrors() {
		log.Printf("[INTAKE] Service submission failed validation: %d field(s)", len(fieldErrors))
		return nil, apperrors.Validation("Please correct the errors below.", fieldErrors)
	}

	inquiry := &domain.ServiceInquiry{
		FullName:           strings.TrimSpace(sub.FullName),
		Email:              strings.ToLower(strings.TrimSpace(sub.Email)),
		Phone:              optional(sub.Phone),
		Company:            optional(sub.Company),
		ServiceID:          sub.ServiceID,
		ProjectType:        strings.TrimSpace(sub.ProjectType),
		ProjectDescription: strings.TrimSpace(sub.ProjectDescription),
		BudgetRange:        sub.BudgetRange,
		Timeline:           sub.Timeline,
		ReferenceURL:       optional(sub.ReferenceURL),
		AdditionalNotes:    optional(sub.AdditionalNotes),
		IPAddress:          optional(sub.IPAddress),
		UserAgent:          text.Truncate(sub.UserAgent, 500),
		Referrer:           text.Truncate(sub.Referrer, 500),
	}
	if service != nil {
		inquiry.ServiceID = &service.ID
	}

	inquiry.SpamScore = ServiceSpamScore(inquiry)
	if IsSpam(inquiry.SpamScore) {
		inquiry.IsSpam = true
		log.Printf("[INTAKE] Warning: potential spam service inquiry from %s (score: %d)", inquiry.Email, inquiry.SpamScore)
	}

	if err := p.db.WithContext(ctx).Create(inquiry).Error; err != nil {
		log.Printf("[INTAKE] Service submission failed: database error: %v", err)
		return nil, apperrors.Wrap(apperrors.ErrCodeInternalError,
			"We encountered an error processing your inquiry. Please try again or contact us directly.", err)
	}

	log.Printf("[INTAKE] Service inquiry saved: id=%d, project=%s, score=%d", inquiry.ID, inquiry.ProjectType, inquiry.SpamScore)
	metrics.RecordInquiry("service")
	if inquiry.IsSpam {
		metrics.RecordSpamFlagged("service")
	}

	p.notifyService(inquiry, service)

	return &Ack{
		ID:        inquiry.ID,
		Reference: inquiry.Reference,
		Message:   "Thank you for your inquiry! We'll review your project details and get back to you within 24 hours.",
	}, nil
}

// notifyContact sends the admin and client emails for a contact inquiry.
// Failures are logged and swallowed.
func (p *Pipeline) notifyContact(inquiry *domain.ContactInquiry) {
	adminSubject := fmt.Sprintf("New Contact Inquiry: %s", inquiry.CompanyName)
	adminHTML, adminText := contactAdminEmail(inquiry, p.siteURL)
	p.send("admin", p.adminEmail, adminSubject, adminHTML, adminText, inquiry.Email, inquiry.ID)

	clientSubject := "We've Received Your Inquiry - Cascade Digital"
	clientHTML, clientText := contactClientEmail(inquiry, p.siteURL)
	p.send("client", inquiry.Email, clientSubject, clientHTML, clientText, p.adminEmail, inquiry.ID)
}

// notifyService sends the admin and client emails for a service inquiry
func (p *Pipeline) notifyService(inquiry *domain.ServiceInquiry, service *domain.Service) {
	adminSubject := fmt.Sprintf("New Service Inquiry: %s", inquiry.ProjectType)
	if service != nil {
		adminSubject += fmt.Sprintf(" (%s)", service.Title)
	}
	adminHTML, adminText := serviceAdminEmail(inquiry, service, p.siteURL)
	p.send("admin", p.adminEmail, adminSubject, adminHTML, adminText, inquiry.Email, inquiry.ID)

	clientSubject := "We've Received Your Project Inquiry - Cascade Digital"
	clientHTML, clientText := serviceClientEmail(inquiry, p.siteURL)
	p.send("client", inquiry.Email, clientSubject, clientHTML, clientText, p.adminEmail, inquiry.ID)
}

func (p *Pipeline) send(recipient, to, subject, htmlBody, textBody, replyTo string, inquiryID uint) {
	if err := p.mailer.Send(to, subject, htmlBody, textBody, replyTo); err != nil {
		log.Printf("[INTAKE] Failed to send %s notification for inquiry id=%d: %v", recipient, inquiryID, err)
		metrics.RecordNotification(recipient, false)
		return
	}
	log.Printf("[INTAKE] %s notification sent for inquiry id=%d", recipient, inquiryID)
	metrics.RecordNotification(recipient, true)
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

