package services

import (
	"database/sql"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	_ "modernc.org/sqlite"

	"cascade/internal/domain"
)

func testDB(t *testing.T) *gorm.DB {
	t.Helper()

	sqlDB, err := sql.Open("sqlite", "file::memory:")
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	db, err := gorm.Open(sqlite.Dialector{DriverName: "sqlite", Conn: sqlDB}, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&domain.User{},
		&domain.ServiceCategory{}, &domain.Service{},
		&domain.ContactInquiry{}, &domain.ServiceInquiry{},
		&domain.BlogCategory{}, &domain.Tag{}, &domain.Post{}, &domain.Comment{},
	))

	t.Cleanup(func() { _ = sqlDB.Close() })
	return db
}

func seedContactInquiry(t *testing.T, db *gorm.DB) *domain.ContactInquiry {
	t.Helper()
	inquiry := &domain.ContactInquiry{
		FullName:           "Jane Doe",
		Email:              "jane@acmecorp.com",
		CompanyName:        "Acme Corp",
		Country:            "United States",
		ProjectType:        "Web Application",
		ProjectDescription: "Customer portal rebuild with SSO and reporting dashboards.",
		Timeline:           domain.TimelineSoon,
		BudgetRange:        domain.Budget25k50k,
	}
	require.NoError(t, db.Create(inquiry).Error)
	return inquiry
}

func seedServiceInquiry(t *testing.T, db *gorm.DB) *domain.ServiceInquiry {
	t.Helper()
	inquiry := &domain.ServiceInquiry{
		FullName:           "Jane Doe",
		Email:              "jane@acmecorp.com",
		ProjectType:        "E-commerce",
		ProjectDescription: "Storefront migration to a headless setup with better search.",
		BudgetRange:        domain.Budget10k25k,
		Timeline:           domain.TimelinePlanned,
	}
	require.NoError(t, db.Create(inquiry).Error)
	return inquiry
}
