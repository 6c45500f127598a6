package intake

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	_ "modernc.org/sqlite"

	"cascade/internal/domain"
	apperrors "cascade/pkg/errors"
)

type sentEmail struct {
	To      string
	Subject string
	ReplyTo string
}

// fakeMailer records sends and fails on demand
type fakeMailer struct {
	sent []sentEmail
	err  error
}

func (m *fakeMailer) Send(to, subject, htmlBody, textBody, replyTo string) error {
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, sentEmail{To: to, Subject: subject, ReplyTo: replyTo})
	return nil
}

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
		&domain.ServiceCategory{}, &domain.Service{},
		&domain.ContactInquiry{}, &domain.ServiceInquiry{},
	))

	t.Cleanup(func() { _ = sqlDB.Close() })
	return db
}

func newTestPipeline(t *testing.T, mailer Mailer) (*Pipeline, *gorm.DB) {
	t.Helper()
	db := testDB(t)
	return NewPipeline(db, mailer, "admin@cascadedigital.com", "https://cascadedigital.com"), db
}

func TestSubmitContactPersistsAndNotifies(t *testing.T) {
	mailer := &fakeMailer{}
	p, db := newTestPipeline(t, mailer)

	sub := validContactSubmission()
	sub.Email = "Jane@AcmeCorp.com"
	sub.IPAddress = "203.0.113.7"
	sub.UserAgent = "Mozilla/5.0"

	ack, err := p.SubmitContact(context.Background(), sub)
	require.NoError(t, err)
	require.NotNil(t, ack)
	assert.NotZero(t, ack.ID)
	assert.NotEmpty(t, ack.Reference)

	var saved domain.ContactInquiry
	require.NoError(t, db.First(&saved, ack.ID).Error)
	assert.Equal(t, "jane@acmecorp.com", saved.Email, "email stored lowercase")
	assert.Equal(t, domain.ContactStatusNew, saved.Status)
	assert.Equal(t, ack.Reference, saved.Reference)
	assert.False(t, saved.IsSpam)
	assert.Equal(t, 0, saved.SpamScore)
	require.NotNil(t, saved.IPAddress)
	assert.Equal(t, "203.0.113.7", *saved.IPAddress)

	require.Len(t, mailer.sent, 2)
	assert.Equal(t, "admin@cascadedigital.com", mailer.sent[0].To)
	assert.Equal(t, "jane@acmecorp.com", mailer.sent[0].ReplyTo, "admin copy replies to the client")
	assert.Equal(t, "jane@acmecorp.com", mailer.sent[1].To)
	assert.Equal(t, "admin@cascadedigital.com", mailer.sent[1].ReplyTo)
}

// A failed notification never unwinds the save or the acknowledgment
func TestSubmitContactMailerFailureStillSucceeds(t *testing.T) {
	mailer := &fakeMailer{err: errors.New("smtp: connection refused")}
	p, db := newTestPipeline(t, mailer)

	ack, err := p.SubmitContact(context.Background(), validContactSubmission())
	require.NoError(t, err)
	require.NotNil(t, ack)

	var count int64
	require.NoError(t, db.Model(&domain.ContactInquiry{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestSubmitContactTruncatesUserAgentOnRuneBoundary(t *testing.T) {
	mailer := &fakeMailer{}
	p, db := newTestPipeline(t, mailer)

	sub := validContactSubmission()
	// 2-byte rune straddles the 500-byte cap
	sub.UserAgent = strings.Repeat("a", 499) + "é" + strings.Repeat("b", 50)

	_, err := p.SubmitContact(context.Background(), sub)
	require.NoError(t, err)

	var inquiry domain.ContactInquiry
	require.NoError(t, db.First(&inquiry).Error)
	assert.LessOrEqual(t, len(inquiry.UserAgent), 500)
	assert.True(t, utf8.ValidString(inquiry.UserAgent))
	assert.Equal(t, strings.Repeat("a", 499), inquiry.UserAgent)
}

func TestSubmitContactTrapField(t *testing.T) {
	mailer := &fakeMailer{}
	p, db := newTestPipeline(t, mailer)

	sub := validContactSubmission()
	sub.Website = "http://bot.example.com"

	ack, err := p.SubmitContact(context.Background(), sub)
	assert.Nil(t, ack)

	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.ErrCodeBadRequest, appErr.Code)
	assert.ErrorIs(t, err, ErrSpamDetected)

	var count int64
	require.NoError(t, db.Model(&domain.ContactInquiry{}).Count(&count).Error)
	assert.Zero(t, count, "trap submissions are never persisted")
	assert.Empty(t, mailer.sent)
}

func TestSubmitContactValidationErrors(t *testing.T) {
	mailer := &fakeMailer{}
	p, db := newTestPipeline(t, mailer)

	sub := validContactSubmission()
	sub.Email = "nope"
	sub.FullName = "X"

	ack, err := p.SubmitContact(context.Background(), sub)
	assert.Nil(t, ack)

	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.ErrCodeValidation, appErr.Code)
	assert.NotEmpty(t, appErr.Fields["email"])
	assert.NotEmpty(t, appErr.Fields["full_name"])

	var count int64
	require.NoError(t, db.Model(&domain.ContactInquiry{}).Count(&count).Error)
	assert.Zero(t, count)
	assert.Empty(t, mailer.sent)
}

// High-scoring submissions are flagged, but still saved and still notified
func TestSubmitContactSpamFlaggedButPersisted(t *testing.T) {
	mailer := &fakeMailer{}
	p, db := newTestPipeline(t, mailer)

	sub := validContactSubmission()
	sub.Email = "lead@gmail.com"
	sub.ProjectDescription = "BUY NOW CLICK HERE LIMITED OFFER MAKE MONEY"
	sub.BudgetRange = domain.BudgetUnder5k
	sub.Timeline = domain.TimelineUrgent

	ack, err := p.SubmitContact(context.Background(), sub)
	require.NoError(t, err)

	var saved domain.ContactInquiry
	require.NoError(t, db.First(&saved, ack.ID).Error)
	assert.True(t, saved.IsSpam)
	assert.Greater(t, saved.SpamScore, 7)
	assert.Len(t, mailer.sent, 2, "flagged inquiries still notify")
}

func TestSubmitServicePersistsWithServiceAttached(t *testing.T) {
	mailer := &fakeMailer{}
	p, db := newTestPipeline(t, mailer)

	category := domain.ServiceCategory{Name: "Engineering"}
	require.NoError(t, db.Create(&category).Error)
	service := domain.Service{Title: "Web Development", CategoryID: category.ID, ShortDescription: "Full-stack builds"}
	require.NoError(t, db.Create(&service).Error)

	sub := validServiceSubmission()
	ack, err := p.SubmitService(context.Background(), sub, &service)
	require.NoError(t, err)

	var saved domain.ServiceInquiry
	require.NoError(t, db.First(&saved, ack.ID).Error)
	require.NotNil(t, saved.ServiceID)
	assert.Equal(t, service.ID, *saved.ServiceID)
	assert.Equal(t, domain.ServiceStatusNew, saved.Status)
	assert.NotEmpty(t, saved.Reference)

	require.Len(t, mailer.sent, 2)
	assert.Contains(t, mailer.sent[0].Subject, "Web Development")
}

func TestSubmitServiceWithoutService(t *testing.T) {
	mailer := &fakeMailer{}
	p, db := newTestPipeline(t, mailer)

	ack, err := p.SubmitService(context.Background(), validServiceSubmission(), nil)
	require.NoError(t, err)

	var saved domain.ServiceInquiry
	require.NoError(t, db.First(&saved, ack.ID).Error)
	assert.Nil(t, saved.ServiceID)
	require.Len(t, mailer.sent, 2)
}
