package services

import (
	"context"

	"cascade/internal/database"
)

// HealthService implements the health check
type HealthService struct{}

// NewHealthService creates a new health service
func NewHealthService() *HealthService {
	return &HealthService{}
}

// HealthResult is the health check payload
type HealthResult struct {
	Status   string `json:"status"`
	Service  string `json:"service"`
	Database string `json:"database"`
}

// Check reports service and database health
func (s *HealthService) Check(ctx context.Context) *HealthResult {
	result := &HealthResult{
		Status:   "healthy",
		Service:  "Cascade Digital API",
		Database: "up",
	}
	if err := database.HealthCheck(); err != nil {
		result.Status = "degraded"
		result.Database = "down"
	}
	return result
}
