package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Contact inquiry statuses. Transitions only move forward through this
// vocabulary; see StatusRank.
const (
	ContactStatusNew          = "new"
	ContactStatusContacted    = "contacted"
	ContactStatusQualified    = "qualified"
	ContactStatusProposalSent = "proposal_sent"
	ContactStatusConverted    = "converted"
	ContactStatusDeclined     = "declined"
)

// Service inquiry statuses
const (
	ServiceStatusNew       = "new"
	ServiceStatusReviewing = "reviewing"
	ServiceStatusContacted = "contacted"
	ServiceStatusQuoted    = "quoted"
	ServiceStatusConverted = "converted"
	ServiceStatusDeclined  = "declined"
	ServiceStatusSpam      = "spam"
)

// Budget range tiers, lowest to highest
const (
	BudgetUnder5k  = "under_5k"
	Budget5k10k    = "5k_10k"
	Budget10k25k   = "10k_25k"
	Budget25k50k   = "25k_50k"
	Budget50k100k  = "50k_100k"
	BudgetOver100k = "over_100k"
	Budget100kPlus = "100k+" // contact form variant of the top tier
	BudgetNotSure  = "not_sure"
)

// Timeline urgency tiers
const (
	TimelineASAP     = "asap" // service inquiry
	TimelineUrgent   = "urgent"
	TimelineSoon     = "soon"
	TimelineFlexible = "flexible"
	TimelinePlanned  = "planned"
	TimelineOngoing  = "ongoing"
)

// Priority levels for contact inquiries
const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
	PriorityUrgent = "urgent"
)

// contactStatusRank orders the contact inquiry lifecycle. Converted and
// declined are both terminal, so they share a rank.
var contactStatusRank = map[string]int{
	ContactStatusNew:          0,
	ContactStatusContacted:    1,
	ContactStatusQualified:    2,
	ContactStatusProposalSent: 3,
	ContactStatusConverted:    4,
	ContactStatusDeclined:     4,
}

// serviceStatusRank orders the service inquiry lifecycle. The spam status is
// excluded on purpose: spam is toggled independently of the pipeline.
var serviceStatusRank = map[string]int{
	ServiceStatusNew:       0,
	ServiceStatusReviewing: 1,
	ServiceStatusContacted: 2,
	ServiceStatusQuoted:    3,
	ServiceStatusConverted: 4,
	ServiceStatusDeclined:  4,
}

// ContactInquiry represents a multi-step contact sales form submission
type ContactInquiry struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	Reference string `gorm:"uniqueIndex;size:36" json:"reference"`

	// Step 1: basic information
	FullName string  `gorm:"size:150;not null" json:"full_name"`
	Email    string  `gorm:"size:255;not null;index" json:"email"`
	Phone    *string `gorm:"size:20" json:"phone"`

	// Step 2: company information
	CompanyName string  `gorm:"size:200;not null" json:"company_name"`
	JobTitle    *string `gorm:"size:150" json:"job_title"`
	CompanySize *string `gorm:"size:50" json:"company_size"`
	Country     string  `gorm:"size:100" json:"country"`

	// Step 3: project details
	ServiceID          *uint    `json:"service_id"`
	Service            *Service `gorm:"foreignKey:ServiceID" json:"service,omitempty"`
	ProjectType        string   `gorm:"size:100" json:"project_type"`
	ProjectDescription string   `gorm:"type:text;not null" json:"project_description"`

	// Step 4: timeline, budget, extras
	Timeline        string  `gorm:"size:50" json:"timeline"`
	BudgetRange     string  `gorm:"size:50" json:"budget_range"`
	AdditionalNotes *string `gorm:"type:text" json:"additional_notes"`
	ReferenceURL    *string `gorm:"size:500" json:"reference_url"`
	HowDidYouHear   *string `gorm:"size:100" json:"how_did_you_hear"`

	// Status and routing
	Status       string `gorm:"size:50;default:'new';index:idx_contact_status_created" json:"status"`
	Priority     string `gorm:"size:20;default:'medium'" json:"priority"`
	AssignedToID *uint  `json:"assigned_to_id"`
	AssignedTo   *User  `gorm:"foreignKey:AssignedToID" json:"assigned_to,omitempty"`

	// Spam triage
	IsSpam    bool `gorm:"default:false;index" json:"is_spam"`
	SpamScore int  `gorm:"default:0" json:"spam_score"`

	// Submission metadata
	IPAddress *string `gorm:"size:45" json:"ip_address"`
	UserAgent string  `gorm:"size:500" json:"user_agent"`

	CreatedAt   time.Time  `gorm:"index:idx_contact_status_created" json:"created_at"`
	UpdatedAt   *time.Time `json:"updated_at"`
	ContactedAt *time.Time `json:"contacted_at"`
}

// TableName specifies the table name for ContactInquiry
func (ContactInquiry) TableName() string {
	return "contact_inquiries"
}

// BeforeCreate hook
func (c *ContactInquiry) BeforeCreate(tx *gorm.DB) error {
	c.CreatedAt = time.Now()
	if c.Status == "" {
		c.Status = ContactStatusNew
	}
	if c.Priority == "" {
		c.Priority = PriorityMedium
	}
	if c.Reference == "" {
		c.Reference = uuid.NewString()
	}
	return nil
}

// BeforeUpdate hook
func (c *ContactInquiry) BeforeUpdate(tx *gorm.DB) error {
	now := time.Now()
	c.UpdatedAt = &now
	return nil
}

// CanTransition reports whether status may move to newStatus. Status only
// moves forward; same-rank moves (converted <-> declined) are rejected too.
func (c *ContactInquiry) CanTransition(newStatus string) bool {
	from, ok := contactStatusRank[c.Status]
	if !ok {
		return false
	}
	to, ok := contactStatusRank[newStatus]
	if !ok {
		return false
	}
	return to > from
}

// MarkContacted records the first-contact timestamp. Set at most once, the
// first time status leaves "new"; never cleared afterwards.
func (c *ContactInquiry) MarkContacted(now time.Time) {
	if c.ContactedAt == nil {
		c.ContactedAt = &now
	}
}

// ServiceInquiry represents a quote request submitted from a service page
type ServiceInquiry struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	Reference string `gorm:"uniqueIndex;size:36" json:"reference"`

	// Contact information
	FullName string  `gorm:"size:150;not null" json:"full_name"`
	Email    string  `gorm:"size:255;not null;index" json:"email"`
	Phone    *string `gorm:"size:20" json:"phone"`
	Company  *string `gorm:"size:200" json:"company"`

	// Project details
	ServiceID          *uint    `json:"service_id"`
	Service            *Service `gorm:"foreignKey:ServiceID" json:"service,omitempty"`
	ProjectType        string   `gorm:"size:100;not null" json:"project_type"`
	ProjectDescription string   `gorm:"type:text;not null" json:"project_description"`
	BudgetRange        string   `gorm:"size:20;not null" json:"budget_range"`
	Timeline           string   `gorm:"size:20;not null" json:"timeline"`
	ReferenceURL       *string  `gorm:"size:500" json:"reference_url"`
	AdditionalNotes    *string  `gorm:"type:text" json:"additional_notes"`

	// Internal management
	Status         string   `gorm:"size:20;default:'new';index:idx_service_inq_status_created" json:"status"`
	AssignedTo     *string  `gorm:"size:100" json:"assigned_to"`
	InternalNotes  *string  `gorm:"type:text" json:"internal_notes,omitempty"`
	EstimatedValue *float64 `json:"estimated_value,omitempty"`

	// Spam triage
	IsSpam    bool `gorm:"default:false;index" json:"is_spam"`
	SpamScore int  `gorm:"default:0" json:"spam_score"`

	// Submission metadata
	IPAddress *string `gorm:"size:45" json:"ip_address"`
	UserAgent string  `gorm:"size:500" json:"user_agent"`
	Referrer  string  `gorm:"size:500" json:"referrer"`

	CreatedAt   time.Time  `gorm:"index:idx_service_inq_status_created" json:"created_at"`
	UpdatedAt   *time.Time `json:"updated_at"`
	ContactedAt *time.Time `json:"contacted_at"`
}

// TableName specifies the table name for ServiceInquiry
func (ServiceInquiry) TableName() string {
	return "service_inquiries"
}

// BeforeCreate hook
func (s *ServiceInquiry) BeforeCreate(tx *gorm.DB) error {
	s.CreatedAt = time.Now()
	if s.Status == "" {
		s.Status = ServiceStatusNew
	}
	if s.Reference == "" {
		s.Reference = uuid.NewString()
	}
	return nil
}

// BeforeUpdate hook
func (s *ServiceInquiry) BeforeUpdate(tx *gorm.DB) error {
	now := time.Now()
	s.UpdatedAt = &now
	return nil
}

// CanTransition reports whether status may move forward to newStatus
func (s *ServiceInquiry) CanTransition(newStatus string) bool {
	from, ok := serviceStatusRank[s.Status]
	if !ok {
		return false
	}
	to, ok := serviceStatusRank[newStatus]
	if !ok {
		return false
	}
	return to > from
}

// MarkContacted records the first-contact timestamp, at most once
func (s *ServiceInquiry) MarkContacted(now time.Time) {
	if s.ContactedAt == nil {
		s.ContactedAt = &now
	}
}

// IsHighValue reports whether the inquiry targets a top budget tier
func (s *ServiceInquiry) IsHighValue() bool {
	return s.BudgetRange == Budget50k100k || s.BudgetRange == BudgetOver100k
}

// BudgetDisplay returns the human-readable budget range label
func (s *ServiceInquiry) BudgetDisplay() string {
	labels := map[string]string{
		BudgetUnder5k:  "Under $5,000",
		Budget5k10k:    "$5,000 - $10,000",
		Budget10k25k:   "$10,000 - $25,000",
		Budget25k50k:   "$25,000 - $50,000",
		Budget50k100k:  "$50,000 - $100,000",
		BudgetOver100k: "Over $100,000",
		BudgetNotSure:  "Budget Not Determined",
	}
	if label, ok := labels[s.BudgetRange]; ok {
		return label
	}
	return "Unknown"
}
