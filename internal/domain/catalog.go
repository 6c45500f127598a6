package domain

import (
	"fmt"
	"time"

	"gorm.io/gorm"

	"cascade/internal/text"
)

// ServiceCategory groups services into logical sections of the catalog
// (Web Development, Design, Marketing, ...).
type ServiceCategory struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Name         string    `gorm:"size:100;uniqueIndex;not null" json:"name"`
	Slug         string    `gorm:"size:120;uniqueIndex" json:"slug"`
	Description  string    `gorm:"type:text" json:"description"`
	IconClass    string    `gorm:"size:50;default:'fas fa-cog'" json:"icon_class"`
	DisplayOrder uint      `gorm:"default:0;index:idx_svc_cat_active_order" json:"display_order"`
	IsActive     bool      `gorm:"default:true;index:idx_svc_cat_active_order" json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`

	Services []Service `gorm:"foreignKey:CategoryID" json:"services,omitempty"`
}

// TableName specifies the table name for ServiceCategory
func (ServiceCategory) TableName() string {
	return "service_categories"
}

// BeforeSave auto-generates the slug from the name if not provided
func (c *ServiceCategory) BeforeSave(tx *gorm.DB) error {
	if c.Slug == "" {
		c.Slug = text.Slugify(c.Name)
	}
	return nil
}

// Service represents one service offered by the agency. Images live at
// external URLs; nothing is stored on the server.
type Service struct {
	ID               uint             `gorm:"primaryKey" json:"id"`
	CategoryID       uint             `gorm:"not null;index:idx_svc_cat_active" json:"category_id"`
	Category         *ServiceCategory `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	Title            string           `gorm:"size:200;not null" json:"title"`
	Slug             string           `gorm:"size:220;uniqueIndex" json:"slug"`
	ShortDescription string           `gorm:"size:250" json:"short_description"`
	FullDescription  string           `gorm:"type:text" json:"full_description"`
	ImageURL         string           `gorm:"size:500" json:"image_url"`
	IconClass        string           `gorm:"size:50;default:'fas fa-laptop-code'" json:"icon_class"`
	PriceStartingAt  *float64         `json:"price_starting_at"`
	DeliveryTimeDays *uint            `json:"delivery_time_days"`
	Features         string           `gorm:"type:text;default:'[]'" json:"features"` // JSON array
	DisplayOrder     uint             `gorm:"default:0" json:"display_order"`
	IsFeatured       bool             `gorm:"default:false;index" json:"is_featured"`
	IsActive         bool             `gorm:"default:true;index:idx_svc_cat_active" json:"is_active"`
	MetaTitle        string           `gorm:"size:60" json:"meta_title"`
	MetaDescription  string           `gorm:"size:160" json:"meta_description"`
	CreatedAt        time.Time        `json:"created_at"`
	UpdatedAt        time.Time        `json:"updated_at"`
}

// TableName specifies the table name for Service
func (Service) TableName() string {
	return "services"
}

// BeforeSave auto-generates slug and SEO meta fields if not provided
func (s *Service) BeforeSave(tx *gorm.DB) error {
	if s.Slug == "" {
		s.Slug = text.Slugify(s.Title)
	}
	if s.MetaTitle == "" {
		s.MetaTitle = text.Truncate(s.Title, 60)
	}
	if s.MetaDescription == "" {
		s.MetaDescription = text.Truncate(s.ShortDescription, 160)
	}
	return nil
}

// PriceDisplay returns the formatted starting price or "Contact Us"
func (s *Service) PriceDisplay() string {
	if s.PriceStartingAt != nil {
		return fmt.Sprintf("Starting at $%.2f", *s.PriceStartingAt)
	}
	return "Contact Us"
}

// DeliveryDisplay returns a human-readable delivery timeframe
func (s *Service) DeliveryDisplay() string {
	if s.DeliveryTimeDays == nil {
		return "Custom timeline"
	}
	days := *s.DeliveryTimeDays
	switch {
	case days == 1:
		return "1 day"
	case days < 7:
		return fmt.Sprintf("%d days", days)
	case days < 30:
		weeks := days / 7
		if weeks == 1 {
			return "1 week"
		}
		return fmt.Sprintf("%d weeks", weeks)
	default:
		months := days / 30
		if months == 1 {
			return "1 month"
		}
		return fmt.Sprintf("%d months", months)
	}
}
