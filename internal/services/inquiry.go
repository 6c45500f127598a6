package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"gorm.io/gorm"

	"cascade/internal/domain"
	"cascade/internal/intake"
	apperrors "cascade/pkg/errors"
)

// InquiryService implements staff-side inquiry triage
type InquiryService struct {
	db *gorm.DB
}

// NewInquiryService creates a new inquiry service
func NewInquiryService(db *gorm.DB) *InquiryService {
	return &InquiryService{db: db}
}

// InquiryFilter narrows inquiry listings
type InquiryFilter struct {
	Status  string
	IsSpam  *bool
	Search  string
	Page    int
	PerPage int
}

func (f *InquiryFilter) normalize() {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.PerPage < 1 || f.PerPage > 100 {
		f.PerPage = 20
	}
}

// ContactInquiryList is one page of contact inquiries
type ContactInquiryList struct {
	Items      []domain.ContactInquiry `json:"items"`
	Total      int64                   `json:"total"`
	Page       int                     `json:"page"`
	PerPage    int                     `json:"per_page"`
	TotalPages int                     `json:"total_pages"`
}

// ServiceInquiryItem pairs a service inquiry with its computed priority
type ServiceInquiryItem struct {
	domain.ServiceInquiry
	PriorityScore int `json:"priority_score"`
}

// ServiceInquiryList is one page of service inquiries
type ServiceInquiryList struct {
	Items      []ServiceInquiryItem `json:"items"`
	Total      int64                `json:"total"`
	Page       int                  `json:"page"`
	PerPage    int                  `json:"per_page"`
	TotalPages int                  `json:"total_pages"`
}

func totalPages(total int64, perPage int) int {
	pages := int((total + int64(perPage) - 1) / int64(perPage))
	if pages < 1 {
		pages = 1
	}
	return pages
}

// ListContactInquiries returns a filtered page of contact inquiries, newest
// first
func (s *InquiryService) ListContactInquiries(ctx context.Context, filter InquiryFilter) (*ContactInquiryList, error) {
	filter.normalize()

	query := s.db.WithContext(ctx).Model(&domain.ContactInquiry{})
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.IsSpam != nil {
		query = query.Where("is_spam = ?", *filter.IsSpam)
	}
	if filter.Search != "" {
		like := "%" + filter.Search + "%"
		query = query.Where("full_name LIKE ? OR email LIKE ? OR company_name LIKE ?", like, like, like)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to count contact inquiries: %w", err)
	}

	var items []domain.ContactInquiry
	err := query.
		Preload("Service").
		Preload("AssignedTo").
		Order("created_at DESC").
		Offset((filter.Page - 1) * filter.PerPage).
		Limit(filter.PerPage).
		Find(&items).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list contact inquiries: %w", err)
	}

	return &ContactInquiryList{
		Items:      items,
		Total:      total,
		Page:       filter.Page,
		PerPage:    filter.PerPage,
		TotalPages: totalPages(total, filter.PerPage),
	}, nil
}

// GetContactInquiry fetches one contact inquiry by id
func (s *InquiryService) GetContactInquiry(ctx context.Context, id uint) (*domain.ContactInquiry, error) {
	var inquiry domain.ContactInquiry
	err := s.db.WithContext(ctx).Preload("Service").Preload("AssignedTo").First(&inquiry, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.New(apperrors.ErrCodeNotFound, "contact inquiry not found")
		}
		return nil, fmt.Errorf("failed to get contact inquiry: %w", err)
	}
	return &inquiry, nil
}

// UpdateContactStatus advances a contact inquiry's status. Status only moves
// forward; the first move out of "new" stamps contacted_at.
func (s *InquiryService) UpdateContactStatus(ctx context.Context, id uint, newStatus string) (*domain.ContactInquiry, error) {
	inquiry, err := s.GetContactInquiry(ctx, id)
	if err != nil {
		return nil, err
	}

	if !inquiry.CanTransition(newStatus) {
		log.Printf("[INQUIRY] Rejected contact status change id=%d: %s -> %s", id, inquiry.Status, newStatus)
		return nil, apperrors.New(apperrors.ErrCodeBadRequest,
			fmt.Sprintf("cannot change status from '%s' to '%s'", inquiry.Status, newStatus))
	}

	wasNew := inquiry.Status == domain.ContactStatusNew
	inquiry.Status = newStatus
	if wasNew {
		inquiry.MarkContacted(time.Now())
	}

	if err := s.db.WithContext(ctx).Save(inquiry).Error; err != nil {
		return nil, fmt.Errorf("failed to update contact inquiry: %w", err)
	}

	log.Printf("[INQUIRY] Contact inquiry id=%d status -> %s", id, newStatus)
	return inquiry, nil
}

// AssignContact routes a contact inquiry to a staff user
func (s *InquiryService) AssignContact(ctx context.Context, id, userID uint) (*domain.ContactInquiry, error) {
	inquiry, err := s.GetContactInquiry(ctx, id)
	if err != nil {
		return nil, err
	}

	var user domain.User
	if err := s.db.WithContext(ctx).First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.New(apperrors.ErrCodeBadRequest, "assignee not found")
		}
		return nil, fmt.Errorf("failed to get assignee: %w", err)
	}

	inquiry.AssignedToID = &user.ID
	inquiry.AssignedTo = &user
	if err := s.db.WithContext(ctx).Save(inquiry).Error; err != nil {
		return nil, fmt.Errorf("failed to assign contact inquiry: %w", err)
	}

	log.Printf("[INQUIRY] Contact inquiry id=%d assigned to %s", id, user.Username)
	return inquiry, nil
}

// ListServiceInquiries returns a filtered page of service inquiries with
// their priority scores, newest first
func (s *InquiryService) ListServiceInquiries(ctx context.Context, filter InquiryFilter) (*ServiceInquiryList, error) {
	filter.normalize()

	query := s.db.WithContext(ctx).Model(&domain.ServiceInquiry{})
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.IsSpam != nil {
		query = query.Where("is_spam = ?", *filter.IsSpam)
	}
	if filter.Search != "" {
		like := "%" + filter.Search + "%"
		query = query.Where("full_name LIKE ? OR email LIKE ? OR company LIKE ?", like, like, like)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to count service inquiries: %w", err)
	}

	var rows []domain.ServiceInquiry
	err := query.
		Preload("Service").
		Order("created_at DESC").
		Offset((filter.Page - 1) * filter.PerPage).
		Limit(filter.PerPage).
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list service inquiries: %w", err)
	}

	items := make([]ServiceInquiryItem, len(rows))
	for i, row := range rows {
		items[i] = ServiceInquiryItem{
			ServiceInquiry: row,
			PriorityScore:  intake.PriorityScore(&row),
		}
	}

	return &ServiceInquiryList{
		Items:      items,
		Total:      total,
		Page:       filter.Page,
		PerPage:    filter.PerPage,
		TotalPages: totalPages(total, filter.PerPage),
	}, nil
}

// GetServiceInquiry fetches one service inquiry by id with its priority
func (s *InquiryService) GetServiceInquiry(ctx context.Context, id uint) (*ServiceInquiryItem, error) {
	var inquiry domain.ServiceInquiry
	err := s.db.WithContext(ctx).Preload("Service").First(&inquiry, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.New(apperrors.ErrCodeNotFound, "service inquiry not found")
		}
		return nil, fmt.Errorf("failed to get service inquiry: %w", err)
	}
	return &ServiceInquiryItem{
		ServiceInquiry: inquiry,
		PriorityScore:  intake.PriorityScore(&inquiry),
	}, nil
}

// UpdateServiceStatus advances a service inquiry's status, forward only
func (s *InquiryService) UpdateServiceStatus(ctx context.Context, id uint, newStatus string) (*ServiceInquiryItem, error) {
	item, err := s.GetServiceInquiry(ctx, id)
	if err != nil {
		return nil, err
	}
	inquiry := &item.ServiceInquiry

	if !inquiry.CanTransition(newStatus) {
		log.Printf("[INQUIRY] Rejected service status change id=%d: %s -> %s", id, inquiry.Status, newStatus)
		return nil, apperrors.New(apperrors.ErrCodeBadRequest,
			fmt.Sprintf("cannot change status from '%s' to '%s'", inquiry.Status, newStatus))
	}

	wasNew := inquiry.Status == domain.ServiceStatusNew
	inquiry.Status = newStatus
	if wasNew {
		inquiry.MarkContacted(time.Now())
	}

	if err := s.db.WithContext(ctx).Save(inquiry).Error; err != nil {
		return nil, fmt.Errorf("failed to update service inquiry: %w", err)
	}

	log.Printf("[INQUIRY] Service inquiry id=%d status -> %s", id, newStatus)
	return item, nil
}

// MarkServiceSpam flags a service inquiry as spam and parks it in the spam
// status
func (s *InquiryService) MarkServiceSpam(ctx context.Context, id uint) (*ServiceInquiryItem, error) {
	item, err := s.GetServiceInquiry(ctx, id)
	if err != nil {
		return nil, err
	}
	inquiry := &item.ServiceInquiry

	inquiry.IsSpam = true
	inquiry.Status = domain.ServiceStatusSpam
	if err := s.db.WithContext(ctx).Save(inquiry).Error; err != nil {
		return nil, fmt.Errorf("failed to mark service inquiry as spam: %w", err)
	}

	log.Printf("[INQUIRY] Service inquiry id=%d marked as spam", id)
	return item, nil
}

// MarkServiceNotSpam clears the spam flag. An inquiry parked in the spam
// status returns to new for triage.
func (s *InquiryService) MarkServiceNotSpam(ctx context.Context, id uint) (*ServiceInquiryItem, error) {
	item, err := s.GetServiceInquiry(ctx, id)
	if err != nil {
		return nil, err
	}
	inquiry := &item.ServiceInquiry

	inquiry.IsSpam = false
	if inquiry.Status == domain.ServiceStatusSpam {
		inquiry.Status = domain.ServiceStatusNew
	}
	if err := s.db.WithContext(ctx).Save(inquiry).Error; err != nil {
		return nil, fmt.Errorf("failed to clear spam flag: %w", err)
	}

	log.Printf("[INQUIRY] Service inquiry id=%d cleared of spam flag", id)
	return item, nil
}
