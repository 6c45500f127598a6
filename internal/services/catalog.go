package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"gorm.io/gorm"

	"cascade/internal/cache"
	"cascade/internal/domain"
	"cascade/internal/metrics"
	apperrors "cascade/pkg/errors"
)

// navCacheKey holds the rendered navigation payload
const navCacheKey = "services:navigation"

// CatalogService implements the public services catalog and the cached
// navigation structure
type CatalogService struct {
	db     *gorm.DB
	cache  cache.Cache
	navTTL time.Duration
}

// NewCatalogService creates a new catalog service
func NewCatalogService(db *gorm.DB, c cache.Cache, navTTL time.Duration) *CatalogService {
	return &CatalogService{db: db, cache: c, navTTL: navTTL}
}

// NavService is one service entry in the navigation payload
type NavService struct {
	Title string `json:"title"`
	Slug  string `json:"slug"`
}

// NavCategory is one category entry in the navigation payload
type NavCategory struct {
	Name     string       `json:"name"`
	Slug     string       `json:"slug"`
	Icon     string       `json:"icon"`
	Services []NavService `json:"services"`
}

// NavigationData is the full cached navigation payload: categories that have
// at least one active service, up to three featured services, and the total
// active-service count.
type NavigationData struct {
	Categories       []NavCategory `json:"categories"`
	FeaturedServices []NavService  `json:"featured_services"`
	ServiceCount     int64         `json:"service_count"`
}

// ListCategories returns active categories in display order, each with its
// active services
func (s *CatalogService) ListCategories(ctx context.Context) ([]domain.ServiceCategory, error) {
	var categories []domain.ServiceCategory
	err := s.db.WithContext(ctx).
		Where("is_active = ?", true).
		Preload("Services", func(db *gorm.DB) *gorm.DB {
			return db.Where("is_active = ?", true).Order("display_order ASC, title ASC")
		}).
		Order("display_order ASC, name ASC").
		Find(&categories).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	return categories, nil
}

// ListServices returns active services, optionally narrowed to a category
// slug or featured only
func (s *CatalogService) ListServices(ctx context.Context, categorySlug string, featuredOnly bool) ([]domain.Service, error) {
	query := s.db.WithContext(ctx).
		Model(&domain.Service{}).
		Preload("Category").
		Where("services.is_active = ?", true)

	if categorySlug != "" {
		query = query.
			Joins("JOIN service_categories ON service_categories.id = services.category_id").
			Where("service_categories.slug = ? AND service_categories.is_active = ?", categorySlug, true)
	}
	if featuredOnly {
		query = query.Where("services.is_featured = ?", true)
	}

	var services []domain.Service
	if err := query.Order("services.display_order ASC, services.title ASC").Find(&services).Error; err != nil {
		return nil, fmt.Errorf("failed to list services: %w", err)
	}
	return services, nil
}

// GetServiceBySlug fetches one active service by slug
func (s *CatalogService) GetServiceBySlug(ctx context.Context, slug string) (*domain.Service, error) {
	var service domain.Service
	err := s.db.WithContext(ctx).
		Preload("Category").
		Where("slug = ? AND is_active = ?", slug, true).
		First(&service).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.New(apperrors.ErrCodeNotFound, "service not found")
		}
		return nil, fmt.Errorf("failed to get service: %w", err)
	}
	return &service, nil
}

// GetServiceByID fetches one service by id regardless of active state. Used
// to attach inquiries to the service page they came from.
func (s *CatalogService) GetServiceByID(ctx context.Context, id uint) (*domain.Service, error) {
	var service domain.Service
	if err := s.db.WithContext(ctx).First(&service, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.New(apperrors.ErrCodeNotFound, "service not found")
		}
		return nil, fmt.Errorf("failed to get service: %w", err)
	}
	return &service, nil
}

// Navigation returns the cached navigation structure, rebuilding it from the
// catalog on a miss
func (s *CatalogService) Navigation(ctx context.Context) (*NavigationData, error) {
	if data, ok, err := s.cache.Get(ctx, navCacheKey); err == nil && ok {
		var nav NavigationData
		if err := json.Unmarshal(data, &nav); err == nil {
			metrics.RecordNavCacheLookup(true)
			return &nav, nil
		}
		// Corrupt entry; fall through and rebuild
		_ = s.cache.Delete(ctx, navCacheKey)
	} else if err != nil {
		log.Printf("[CATALOG] Navigation cache read failed: %v", err)
	}
	metrics.RecordNavCacheLookup(false)

	categories, err := s.ListCategories(ctx)
	if err != nil {
		return nil, err
	}

	nav := NavigationData{
		Categories:       make([]NavCategory, 0, len(categories)),
		FeaturedServices: []NavService{},
	}
	for _, category := range categories {
		// Categories without a single active service stay out of the menu
		if len(category.Services) == 0 {
			continue
		}
		entry := NavCategory{
			Name:     category.Name,
			Slug:     category.Slug,
			Icon:     category.IconClass,
			Services: make([]NavService, 0, len(category.Services)),
		}
		for _, service := range category.Services {
			entry.Services = append(entry.Services, NavService{Title: service.Title, Slug: service.Slug})
		}
		nav.Categories = append(nav.Categories, entry)
	}

	var featured []domain.Service
	err = s.db.WithContext(ctx).
		Where("is_active = ? AND is_featured = ?", true, true).
		Order("display_order ASC, title ASC").
		Limit(3).
		Find(&featured).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list featured services: %w", err)
	}
	for _, service := range featured {
		nav.FeaturedServices = append(nav.FeaturedServices, NavService{Title: service.Title, Slug: service.Slug})
	}

	err = s.db.WithContext(ctx).Model(&domain.Service{}).
		Where("is_active = ?", true).
		Count(&nav.ServiceCount).Error
	if err != nil {
		return nil, fmt.Errorf("failed to count services: %w", err)
	}

	if data, err := json.Marshal(&nav); err == nil {
		if err := s.cache.Set(ctx, navCacheKey, data, s.navTTL); err != nil {
			log.Printf("[CATALOG] Navigation cache write failed: %v", err)
		}
	}

	return &nav, nil
}

// InvalidateNavigation drops the cached navigation. Called after any catalog
// write so menus never serve stale structure.
func (s *CatalogService) InvalidateNavigation(ctx context.Context) {
	if err := s.cache.Delete(ctx, navCacheKey); err != nil {
		log.Printf("[CATALOG] Navigation cache invalidation failed: %v", err)
	}
}

// CreateService adds a service to the catalog
func (s *CatalogService) CreateService(ctx context.Context, service *domain.Service) (*domain.Service, error) {
	var category domain.ServiceCategory
	if err := s.db.WithContext(ctx).First(&category, service.CategoryID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.New(apperrors.ErrCodeBadRequest, "category not found")
		}
		return nil, fmt.Errorf("failed to get category: %w", err)
	}

	if err := s.db.WithContext(ctx).Create(service).Error; err != nil {
		return nil, fmt.Errorf("failed to create service: %w", err)
	}

	log.Printf("[CATALOG] Service created: id=%d, slug=%s", service.ID, service.Slug)
	s.InvalidateNavigation(ctx)
	return service, nil
}

// UpdateService saves changes to a service
func (s *CatalogService) UpdateService(ctx context.Context, service *domain.Service) (*domain.Service, error) {
	if err := s.db.WithContext(ctx).Save(service).Error; err != nil {
		return nil, fmt.Errorf("failed to update service: %w", err)
	}

	log.Printf("[CATALOG] Service updated: id=%d, slug=%s", service.ID, service.Slug)
	s.InvalidateNavigation(ctx)
	return service, nil
}

// CreateCategory adds a category to the catalog
func (s *CatalogService) CreateCategory(ctx context.Context, category *domain.ServiceCategory) (*domain.ServiceCategory, error) {
	if err := s.db.WithContext(ctx).Create(category).Error; err != nil {
		return nil, fmt.Errorf("failed to create category: %w", err)
	}

	log.Printf("[CATALOG] Category created: id=%d, slug=%s", category.ID, category.Slug)
	s.InvalidateNavigation(ctx)
	return category, nil
}

// UpdateCategory saves changes to a category
func (s *CatalogService) UpdateCategory(ctx context.Context, category *domain.ServiceCategory) (*domain.ServiceCategory, error) {
	if err := s.db.WithContext(ctx).Save(category).Error; err != nil {
		return nil, fmt.Errorf("failed to update category: %w", err)
	}

	log.Printf("[CATALOG] Category updated: id=%d, slug=%s", category.ID, category.Slug)
	s.InvalidateNavigation(ctx)
	return category, nil
}
